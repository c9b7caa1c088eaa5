package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/inkwell/internal/config"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenConfig holds the HS256 signing parameters shared by issuer and verifier.
type TokenConfig struct {
	SigningKey []byte
	Issuer     string
	Audience   string
	TTL        time.Duration
}

// TokenVerifier validates bearer tokens and returns their claims.
type TokenVerifier struct {
	cfg    TokenConfig
	parser *jwt.Parser
}

// NewTokenVerifier creates a verifier that accepts only HS256 tokens signed
// with cfg.SigningKey. Issuer and audience are enforced when set.
func NewTokenVerifier(cfg TokenConfig) *TokenVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &TokenVerifier{cfg: cfg, parser: jwt.NewParser(opts...)}
}

// Verify parses and validates raw, returning an authenticated Principal.
func (v *TokenVerifier) Verify(raw string) (*Principal, error) {
	if len(v.cfg.SigningKey) == 0 {
		return nil, fmt.Errorf("%w: no signing key configured", ErrInvalidToken)
	}
	claims := jwt.MapClaims{}
	token, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.cfg.SigningKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return &Principal{Claims: claims, Authenticated: true}, nil
}

// TokenIssuer mints tokens the matching TokenVerifier accepts.
type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &TokenIssuer{cfg: cfg, now: time.Now}
}

// Issue signs a token whose subject is the given tenant id.
func (i *TokenIssuer) Issue(subject string) (string, error) {
	if len(i.cfg.SigningKey) == 0 {
		return "", errors.New("cannot sign token without signing key")
	}
	now := i.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    i.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TTL)),
	}
	if i.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{i.cfg.Audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.SigningKey)
}

// TokenConfigFrom converts loaded settings into a TokenConfig.
func TokenConfigFrom(c config.AuthConfig) TokenConfig {
	return TokenConfig{
		SigningKey: []byte(c.SigningKey),
		Issuer:     c.Issuer,
		Audience:   c.Audience,
		TTL:        c.TokenTTL,
	}
}
