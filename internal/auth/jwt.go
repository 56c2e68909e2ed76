// Package auth issues and verifies the HS256 bearer tokens used by the jwt
// auth mode.
package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/starford/digimark/internal/models"
)

const issuer = "digimark"

// Principal is the caller identified by a token.
type Principal struct {
	UserID   string
	Username string
	Role     models.Role
}

type claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and parses tokens with a shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a token codec. ttl <= 0 issues tokens without expiry.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for u.
func (t *Tokens) Issue(u models.User) (string, error) {
	now := t.now()
	c := claims{
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  u.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

// Parse validates tokenStr and returns its principal.
func (t *Tokens) Parse(tokenStr string) (*Principal, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(t.now))
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, err
	}
	c, _ := tok.Claims.(*claims)
	if c == nil || c.Subject == "" || c.Username == "" || !c.Role.IsValid() {
		return nil, errors.New("invalid claims")
	}
	return &Principal{UserID: c.Subject, Username: c.Username, Role: c.Role}, nil
}

// ParseBearer extracts and validates the token from an Authorization header.
func (t *Tokens) ParseBearer(header string) (*Principal, error) {
	if header == "" {
		return nil, errors.New("missing authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("invalid authorization header")
	}
	return t.Parse(strings.TrimSpace(parts[1]))
}
