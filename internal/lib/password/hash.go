// Package password реализует одностороннее хэширование секретов (PIN-кодов и паролей)
// и их проверку против хэша из хранилища.
//
// Новые хэши создаются через bcrypt. При проверке дополнительно понимаются
// хэши argon2id в формате PHC и устаревшие записи, где секрет хранится как есть.
// Записи, начинающиеся с "$", считаются хэшами; неизвестные форматы отклоняются.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Hasher хэширует и проверяет секреты. Безопасен для конкурентного использования.
type Hasher struct {
	cost int
}

// New создаёт Hasher с заданной стоимостью bcrypt.
// Значения вне допустимого диапазона заменяются на bcrypt.DefaultCost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash возвращает bcrypt‑хэш секрета.
func (h *Hasher) Hash(plaintext string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify сообщает, соответствует ли секрет хэшу.
// Пустой секрет или пустой хэш никогда не проходят проверку.
func (h *Hasher) Verify(plaintext, hash string) bool {
	if plaintext == "" || hash == "" {
		return false
	}
	switch {
	case strings.HasPrefix(hash, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
	case strings.HasPrefix(hash, "$argon2id$"):
		return verifyArgon2id(plaintext, hash)
	case strings.HasPrefix(hash, "$"):
		// Неизвестный формат хэша ($argon2i$, $scrypt$ и т.п.) не сравнивается как открытый текст.
		return false
	default:
		return verifyLegacy(plaintext, hash)
	}
}

// verifyArgon2id проверяет хэш вида $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>.
func verifyArgon2id(plaintext, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}
	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}
	got := argon2.IDKey([]byte(plaintext), salt, iterations, memory, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

// verifyLegacy сравнивает секрет с записью, сохранённой без хэширования.
// Сравниваются дайджесты, чтобы время не зависело от длины значений.
func verifyLegacy(plaintext, stored string) bool {
	got := sha256.Sum256([]byte(plaintext))
	want := sha256.Sum256([]byte(stored))
	return subtle.ConstantTimeCompare(got[:], want[:]) == 1
}
