// Package auth содержит фасад аутентификации: проверку учётных данных участников
// и администраторов, выпуск токенов, регистрацию и проверку предъявленных токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/stadium-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/stadium-auth/internal/lib/sl"
	"github.com/magabrotheeeer/stadium-auth/internal/models"
	"github.com/magabrotheeeer/stadium-auth/internal/services/membership"
)

var (
	// ErrStoreUnavailable — хранилище учётных данных вернуло ошибку. Повторы остаются на вызывающей стороне.
	ErrStoreUnavailable = errors.New("credential store unavailable")
	// ErrInvalidRegistration — в данных регистрации не заполнено обязательное поле.
	ErrInvalidRegistration = errors.New("invalid registration")
)

// CredentialStore ищет учётные записи по email или имени.
// Если запись не найдена, методы возвращают models.ErrNotFound.
type CredentialStore interface {
	FindUserCredential(ctx context.Context, identifier string) (*models.UserCredential, error)
	FindAdminCredential(ctx context.Context, identifier string) (*models.AdminCredential, error)
	// RegisterUser сохраняет нового участника с уже захэшированным PIN и возвращает его ID.
	RegisterUser(ctx context.Context, name, email, phone, pinHash string) (int64, error)
}

// Hasher хэширует и проверяет секреты.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// AuthService отвечает за аутентификацию, регистрацию и валидацию токенов.
type AuthService struct {
	store  CredentialStore
	hasher Hasher
	tokens jwt.Maker
	log    *slog.Logger
	now    func() time.Time

	admins *AdminVerifier
	users  *UserVerifier

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(store CredentialStore, hasher Hasher, tokens jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		log:    log,
		now:    time.Now,
		admins: NewAdminVerifier(hasher),
		users:  NewUserVerifier(hasher),
	}
}

// Authenticate проверяет попытку входа.
//
// Сначала ищется администратор, при его отсутствии — участник. Отказы возвращаются
// значением AuthResult, ошибка означает только сбой хранилища или подписи токена.
func (s *AuthService) Authenticate(ctx context.Context, attempt models.LoginAttempt) (models.AuthResult, error) {
	const op = "auth.Authenticate"
	identifier := strings.TrimSpace(attempt.Identifier)
	log := s.log.With(slog.String("op", op), slog.String("identifier", identifier))

	if err := ctx.Err(); err != nil {
		return models.AuthResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if identifier == "" {
		s.burnVerification(attempt.Pin)
		log.Info("login rejected", slog.String("reason", string(models.ReasonAccountNotFound)))
		return models.AuthRejected(models.ReasonAccountNotFound), nil
	}

	admin, err := s.store.FindAdminCredential(ctx, identifier)
	switch {
	case err == nil:
		return s.authenticateAdmin(log, admin, attempt)
	case !errors.Is(err, models.ErrNotFound):
		log.Error("failed to look up admin", sl.Err(err))
		return models.AuthResult{}, fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}

	user, err := s.store.FindUserCredential(ctx, identifier)
	switch {
	case errors.Is(err, models.ErrNotFound):
		s.burnVerification(attempt.Pin)
		log.Info("login rejected", slog.String("reason", string(models.ReasonAccountNotFound)))
		return models.AuthRejected(models.ReasonAccountNotFound), nil
	case err != nil:
		log.Error("failed to look up user", sl.Err(err))
		return models.AuthResult{}, fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}

	if reason := s.users.Verify(user, attempt.Pin); reason != "" {
		log.Info("login rejected", slog.String("reason", string(reason)))
		return models.AuthRejected(reason), nil
	}
	return s.issue(log, user.Principal, models.RoleUser)
}

func (s *AuthService) authenticateAdmin(log *slog.Logger, admin *models.AdminCredential, attempt models.LoginAttempt) (models.AuthResult, error) {
	step := s.admins.Verify(admin, attempt.Pin, attempt.Password)
	switch step.State {
	case PinVerified:
		log.Info("admin pin verified, password required")
		return models.AuthNeedsPassword(), nil
	case Authenticated:
		return s.issue(log, admin.Principal, models.RoleAdmin)
	default:
		log.Info("login rejected", slog.String("reason", string(step.Reason)), slog.String("role", string(models.RoleAdmin)))
		return models.AuthRejected(step.Reason), nil
	}
}

func (s *AuthService) issue(log *slog.Logger, p models.Principal, role models.Role) (models.AuthResult, error) {
	const op = "auth.issue"
	p.Role = role
	token, err := s.tokens.GenerateToken(p)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		return models.AuthResult{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("login succeeded", slog.Int64("principal_id", p.ID), slog.String("role", string(role)))
	return models.AuthSuccess(token, p), nil
}

// burnVerification выполняет одну проверку хэша, когда учётной записи нет,
// чтобы время ответа не выдавало её отсутствие.
func (s *AuthService) burnVerification(pin string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("stadium-auth-dummy-secret")
		if err != nil {
			s.log.Warn("failed to prepare dummy hash", sl.Err(err))
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash == "" {
		return
	}
	if pin == "" {
		pin = "0000"
	}
	_ = s.hasher.Verify(pin, s.dummyHash)
}

// Register создает участника с захэшированным PIN. Новое членство имеет статус unpaid.
func (s *AuthService) Register(ctx context.Context, reg models.Registration) (int64, error) {
	const op = "auth.Register"
	log := s.log.With(slog.String("op", op), slog.String("email", reg.Email))

	name := strings.TrimSpace(reg.Name)
	email := strings.TrimSpace(reg.Email)
	phone := strings.TrimSpace(reg.Phone)
	if name == "" || email == "" || phone == "" || reg.Pin == "" {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidRegistration)
	}

	pinHash, err := s.hasher.Hash(reg.Pin)
	if err != nil {
		log.Error("failed to hash pin", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.store.RegisterUser(ctx, name, email, phone, pinHash)
	switch {
	case errors.Is(err, models.ErrAlreadyExists):
		log.Info("email already registered")
		return 0, fmt.Errorf("%s: %w", op, err)
	case err != nil:
		log.Error("failed to register user", sl.Err(err))
		return 0, fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	log.Info("user registered", slog.Int64("user_id", id))
	return id, nil
}

// ValidateToken проверяет токен и возвращает принципала из его claims.
// Ошибки оборачивают jwt.ErrMalformedToken, jwt.ErrSignatureMismatch или jwt.ErrTokenExpired.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.Principal, error) {
	const op = "auth.ValidateToken"
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p := claims.Principal()
	return &p, nil
}

// EvaluateMembership вычисляет фактический статус членства на текущий момент.
func (s *AuthService) EvaluateMembership(status models.MembershipStatus, expiryDate *time.Time) models.MembershipView {
	return membership.Evaluate(status, expiryDate, s.now())
}
