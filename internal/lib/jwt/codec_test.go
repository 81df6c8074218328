package jwt

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

const testSecret = "test_secret_key_1234567890"

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(testSecret, "vhnsnc_indoor")
	require.NoError(t, err)
	c.now = func() time.Time { return testNow }
	return c
}

func testPrincipal(role models.Role) models.Principal {
	return models.Principal{ID: 42, DisplayName: "Admin", Email: "admin@club.org", Role: role}
}

func signRaw(t *testing.T, claims jwt.Claims, method jwt.SigningMethod, key any) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newTestCodec(t)

	tests := []struct {
		name      string
		principal models.Principal
	}{
		{name: "admin", principal: testPrincipal(models.RoleAdmin)},
		{name: "user", principal: models.Principal{ID: 7, DisplayName: "bob", Email: "bob@club.org", Role: models.RoleUser}},
		{name: "user without email", principal: models.Principal{ID: 8, Role: models.RoleUser}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := c.NewClaims(tt.principal)
			token, err := c.Encode(want)
			require.NoError(t, err)

			got, err := c.Decode(token)
			require.NoError(t, err)

			assert.Equal(t, want.UserID, got.UserID)
			assert.Equal(t, want.Email, got.Email)
			assert.Equal(t, want.Role, got.Role)
			assert.Equal(t, want.Issuer, got.Issuer)
			assert.True(t, want.IssuedAt.Equal(got.IssuedAt.Time))
			assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt.Time))
			assert.Equal(t, tt.principal.ID, got.Principal().ID)
			assert.Empty(t, got.Principal().DisplayName)
		})
	}
}

func TestCodec_GenerateToken_FixedLifetime(t *testing.T) {
	c := newTestCodec(t)

	token, err := c.GenerateToken(testPrincipal(models.RoleAdmin))
	require.NoError(t, err)

	claims, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, testNow.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, testNow.Add(30*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestCodec_WireFormat(t *testing.T) {
	c := newTestCodec(t)

	token, err := c.GenerateToken(testPrincipal(models.RoleUser))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.NotContains(t, p, "=")
		assert.NotContains(t, p, "+")
		assert.NotContains(t, p, "/")
	}

	header, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"alg":"HS256","typ":"JWT"}`, string(header))

	// Токен должен читаться любым стандартным потребителем HS256.
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return []byte(testSecret), nil },
		jwt.WithTimeFunc(func() time.Time { return testNow }))
	require.NoError(t, err)
	mc, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user", mc["role"])
	assert.Equal(t, "vhnsnc_indoor", mc["iss"])
	assert.EqualValues(t, 42, mc["user_id"])
}

func TestCodec_Decode_SignatureBitFlip(t *testing.T) {
	c := newTestCodec(t)

	token, err := c.GenerateToken(testPrincipal(models.RoleAdmin))
	require.NoError(t, err)
	parts := strings.Split(token, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for bit := 0; bit < len(sig)*8; bit++ {
		tampered := make([]byte, len(sig))
		copy(tampered, sig)
		tampered[bit/8] ^= 1 << (bit % 8)
		forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(tampered)

		claims, err := c.Decode(forged)
		require.ErrorIs(t, err, ErrSignatureMismatch, "bit %d", bit)
		require.Nil(t, claims)
	}
}

func TestCodec_Decode_ClaimsTampered(t *testing.T) {
	c := newTestCodec(t)

	userToken, err := c.GenerateToken(testPrincipal(models.RoleUser))
	require.NoError(t, err)
	adminClaims := c.NewClaims(testPrincipal(models.RoleAdmin))
	forgedPayload := signRaw(t, adminClaims, jwt.SigningMethodHS256, []byte("attacker-key"))

	userParts := strings.Split(userToken, ".")
	forgedParts := strings.Split(forgedPayload, ".")
	// Claims администратора с подписью от токена пользователя.
	spliced := userParts[0] + "." + forgedParts[1] + "." + userParts[2]

	_, err = c.Decode(spliced)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestCodec_Decode_Expired(t *testing.T) {
	c := newTestCodec(t)

	c.now = func() time.Time { return testNow.Add(-31 * 24 * time.Hour) }
	token, err := c.GenerateToken(testPrincipal(models.RoleAdmin))
	require.NoError(t, err)

	c.now = func() time.Time { return testNow }
	claims, err := c.Decode(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Nil(t, claims)

	// Ровно в момент exp токен уже недействителен.
	c.now = func() time.Time { return testNow.Add(-31 * 24 * time.Hour).Add(TokenTTL) }
	_, err = c.Decode(token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// За секунду до exp ещё действителен.
	c.now = func() time.Time { return testNow.Add(-31 * 24 * time.Hour).Add(TokenTTL - time.Second) }
	_, err = c.Decode(token)
	assert.NoError(t, err)
}

func TestCodec_Decode_ExpiredAndTampered(t *testing.T) {
	c := newTestCodec(t)

	c.now = func() time.Time { return testNow.Add(-60 * 24 * time.Hour) }
	token, err := c.GenerateToken(testPrincipal(models.RoleUser))
	require.NoError(t, err)
	c.now = func() time.Time { return testNow }

	parts := strings.Split(token, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)
	sig[0] ^= 0x01
	forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(sig)

	_, err = c.Decode(forged)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestCodec_Decode_Rejects(t *testing.T) {
	c := newTestCodec(t)
	valid := c.NewClaims(testPrincipal(models.RoleUser))

	badRole := valid
	badRole.Role = "root"
	badSubject := valid
	badSubject.UserID = 0
	otherIssuer := valid
	otherIssuer.Issuer = "someone_else"
	longLived := valid
	longLived.ExpiresAt = jwt.NewNumericDate(testNow.Add(365 * 24 * time.Hour))

	validParts := strings.Split(signRaw(t, valid, jwt.SigningMethodHS256, []byte(testSecret)), ".")
	garbageClaims := base64.RawURLEncoding.EncodeToString([]byte("not json"))

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty token", token: "", wantErr: ErrMalformedToken},
		{name: "two segments", token: validParts[0] + "." + validParts[1], wantErr: ErrMalformedToken},
		{name: "four segments", token: strings.Join(append(validParts, "x"), "."), wantErr: ErrMalformedToken},
		{name: "invalid base64 header", token: "!!!." + validParts[1] + "." + validParts[2], wantErr: ErrMalformedToken},
		{name: "invalid base64 signature", token: validParts[0] + "." + validParts[1] + ".***", wantErr: ErrMalformedToken},
		{name: "claims not json", token: validParts[0] + "." + garbageClaims + "." + validParts[2], wantErr: ErrMalformedToken},
		{name: "wrong secret", token: signRaw(t, valid, jwt.SigningMethodHS256, []byte("wrong_secret")), wantErr: ErrSignatureMismatch},
		{name: "other hmac algorithm", token: signRaw(t, valid, jwt.SigningMethodHS512, []byte(testSecret)), wantErr: ErrSignatureMismatch},
		{name: "alg none", token: signRaw(t, valid, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType), wantErr: ErrSignatureMismatch},
		{name: "unknown role", token: signRaw(t, badRole, jwt.SigningMethodHS256, []byte(testSecret)), wantErr: ErrMalformedToken},
		{name: "missing subject", token: signRaw(t, badSubject, jwt.SigningMethodHS256, []byte(testSecret)), wantErr: ErrMalformedToken},
		{name: "foreign issuer", token: signRaw(t, otherIssuer, jwt.SigningMethodHS256, []byte(testSecret)), wantErr: ErrMalformedToken},
		{name: "lifetime override", token: signRaw(t, longLived, jwt.SigningMethodHS256, []byte(testSecret)), wantErr: ErrMalformedToken},
		{name: "loosely typed claims", token: signRaw(t, jwt.MapClaims{"user_id": "42", "role": "admin"}, jwt.SigningMethodHS256, []byte(testSecret)), wantErr: ErrMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := c.Decode(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestCodec_Encode_RejectsInvalidClaims(t *testing.T) {
	c := newTestCodec(t)

	claims := c.NewClaims(models.Principal{ID: 1, Role: "superuser"})
	_, err := c.Encode(claims)
	assert.Error(t, err)
}

func TestNewCodec(t *testing.T) {
	_, err := NewCodec("", "issuer")
	assert.Error(t, err)

	c, err := NewCodec(testSecret, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultIssuer, c.issuer)
	assert.NotContains(t, c.String(), testSecret)
}

func TestCodec_DifferentKeys(t *testing.T) {
	first, err := NewCodec("first_secret_key", "")
	require.NoError(t, err)
	second, err := NewCodec("different_secret_key", "")
	require.NoError(t, err)

	token, err := first.GenerateToken(testPrincipal(models.RoleUser))
	require.NoError(t, err)

	_, err = second.Decode(token)
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	_, err = first.Decode(token)
	assert.NoError(t, err)
}
