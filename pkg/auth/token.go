package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

// Token lifetimes. The access token lives one hour; the refresh token,
// seven days.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenClaims is the payload carried by both token kinds. Access tokens
// carry userId and email; refresh tokens carry userId only.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
}

// TokenConfig holds codec configuration. AccessSecret and RefreshSecret
// must differ; compromise of one key must not expose the other.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// TokenCodec signs and verifies access and refresh tokens. It is stateless;
// nothing is persisted per token.
type TokenCodec struct {
	config TokenConfig
}

// NewTokenCodec creates a codec, applying default lifetimes where unset.
func NewTokenCodec(config TokenConfig) *TokenCodec {
	if config.AccessTTL == 0 {
		config.AccessTTL = DefaultAccessTokenTTL
	}
	if config.RefreshTTL == 0 {
		config.RefreshTTL = DefaultRefreshTokenTTL
	}
	return &TokenCodec{config: config}
}

// AccessTTL returns the configured access token lifetime.
func (c *TokenCodec) AccessTTL() time.Duration {
	return c.config.AccessTTL
}

// SignAccess mints an access token for the user.
func (c *TokenCodec) SignAccess(user *domain.User) (string, error) {
	return c.sign(user.ID, user.Email, c.config.AccessSecret, c.config.AccessTTL)
}

// SignRefresh mints a refresh token carrying only the user ID.
func (c *TokenCodec) SignRefresh(userID uuid.UUID) (string, error) {
	return c.sign(userID, "", c.config.RefreshSecret, c.config.RefreshTTL)
}

func (c *TokenCodec) sign(userID uuid.UUID, email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    c.config.Issuer,
		},
		UserID: userID.String(),
		Email:  email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccess checks the signature and expiry of an access token.
func (c *TokenCodec) VerifyAccess(token string) (*TokenClaims, error) {
	return c.verify(token, c.config.AccessSecret)
}

// VerifyRefresh checks the signature and expiry of a refresh token.
func (c *TokenCodec) VerifyRefresh(token string) (*TokenClaims, error) {
	return c.verify(token, c.config.RefreshSecret)
}

// verify returns domain.ErrTokenInvalid on any signature or expiry failure;
// it never raises an unhandled fault.
func (c *TokenCodec) verify(tokenString string, secret []byte) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// Decode extracts the payload without verifying the signature. Used only
// for non-authoritative inspection; returns nil when the token does not
// parse.
func (c *TokenCodec) Decode(tokenString string) *TokenClaims {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &TokenClaims{})
	if err != nil {
		return nil
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// UserIDFromClaims parses the user ID carried by a token.
func UserIDFromClaims(claims *TokenClaims) (uuid.UUID, error) {
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return id, nil
}
