package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

// DefaultIssuer используется, если издатель не задан в конфигурации.
const DefaultIssuer = "vhnsnc_indoor"

var (
	// ErrMalformedToken — неверное число сегментов, битый base64, невалидный JSON или claims неожиданной формы.
	ErrMalformedToken = errors.New("malformed token")
	// ErrSignatureMismatch — подпись не совпала или алгоритм не HS256.
	ErrSignatureMismatch = errors.New("token signature mismatch")
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("token expired")
)

// Maker описывает выпуск и разбор токенов.
type Maker interface {
	// GenerateToken выпускает токен для принципала.
	GenerateToken(p models.Principal) (string, error)
	// Decode проверяет подпись и срок действия токена и возвращает claims.
	Decode(tokenStr string) (*Claims, error)
}

// Codec реализует Maker поверх golang-jwt.
// Ключ копируется при создании и дальше не меняется, поэтому Codec безопасен для конкурентного использования.
type Codec struct {
	secretKey []byte
	issuer    string
	now       func() time.Time
	parser    *jwt.Parser
}

// NewCodec создаёт кодек с секретным ключом подписи и издателем токенов.
func NewCodec(secretKey, issuer string) (*Codec, error) {
	const op = "jwt.NewCodec"
	if secretKey == "" {
		return nil, fmt.Errorf("%s: empty signing key", op)
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	c := &Codec{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		now:       time.Now,
	}
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	return c, nil
}

// String скрывает ключ подписи при случайном выводе кодека в лог.
func (c *Codec) String() string {
	return fmt.Sprintf("jwt.Codec{issuer: %s}", c.issuer)
}

// NewClaims формирует claims для принципала: exp = iat + TokenTTL.
func (c *Codec) NewClaims(p models.Principal) Claims {
	issuedAt := c.now()
	return Claims{
		UserID: p.ID,
		Email:  p.Email,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenTTL)),
		},
	}
}

// GenerateToken выпускает подписанный токен для принципала.
func (c *Codec) GenerateToken(p models.Principal) (string, error) {
	return c.Encode(c.NewClaims(p))
}

// Encode подписывает claims: base64url(header).base64url(claims).base64url(HMAC-SHA256).
func (c *Codec) Encode(claims Claims) (string, error) {
	const op = "jwt.Encode"
	if err := claims.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secretKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// Decode разбирает токен. Подпись проверяется до того, как используется любое поле claims.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	const op = "jwt.Decode"
	claims := &Claims{}
	token, err := c.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return c.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, classify(err), err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedToken)
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureMismatch
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrMalformedToken
	}
}
