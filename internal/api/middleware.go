// Package api implements the dashboard REST API using chi.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/starford/digimark/internal/access"
	"github.com/starford/digimark/internal/apperr"
	"github.com/starford/digimark/internal/auth"
	"github.com/starford/digimark/internal/models"
	"github.com/starford/digimark/internal/service"
)

// ErrUnauthenticated is returned by an Authenticator when the request carries
// no usable identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator resolves the acting user of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (models.User, error)
	// Issue returns the credential handed out on login, or "" when the mode
	// has none.
	Issue(u models.User) (string, error)
}

// SessionAuth treats the stored current-user pointer as the actor of every
// request. The pointer only names the account; role and existence are read
// from the users collection each time.
type SessionAuth struct {
	svc *service.Service
}

// NewSessionAuth creates a SessionAuth.
func NewSessionAuth(svc *service.Service) *SessionAuth {
	return &SessionAuth{svc: svc}
}

func (a *SessionAuth) Authenticate(r *http.Request) (models.User, error) {
	cur, err := a.svc.CurrentUser(r.Context())
	if errors.Is(err, apperr.ErrNotFound) {
		return models.User{}, ErrUnauthenticated
	}
	if err != nil {
		return models.User{}, err
	}
	u, err := a.svc.User(r.Context(), cur.ID)
	if errors.Is(err, apperr.ErrNotFound) {
		return models.User{}, ErrUnauthenticated
	}
	return u, err
}

func (a *SessionAuth) Issue(models.User) (string, error) { return "", nil }

// TokenAuth requires an "Authorization: Bearer <jwt>" header. The account is
// re-read on every request so role changes and deletions take effect at once.
type TokenAuth struct {
	svc    *service.Service
	tokens *auth.Tokens
}

// NewTokenAuth creates a TokenAuth.
func NewTokenAuth(svc *service.Service, tokens *auth.Tokens) *TokenAuth {
	return &TokenAuth{svc: svc, tokens: tokens}
}

func (a *TokenAuth) Authenticate(r *http.Request) (models.User, error) {
	p, err := a.tokens.ParseBearer(r.Header.Get("Authorization"))
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	u, err := a.svc.User(r.Context(), p.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		return models.User{}, ErrUnauthenticated
	}
	return u, err
}

func (a *TokenAuth) Issue(u models.User) (string, error) {
	return a.tokens.Issue(u)
}

type scopeKey struct{}

// scope is the per-request actor and its capabilities, computed once.
type scope struct {
	user models.User
	caps access.Capabilities
}

func withScope(ctx context.Context, s scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

func scopeFrom(ctx context.Context) (scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(scope)
	return s, ok
}

// AuthMiddleware rejects requests without an actor and stores the actor and
// its capabilities in the request context.
func AuthMiddleware(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := a.Authenticate(r)
			if err != nil {
				if errors.Is(err, ErrUnauthenticated) {
					writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
					return
				}
				writeError(w, "authenticate", err)
				return
			}
			s := scope{user: u.Public(), caps: access.CapabilitiesFor(u.Role)}
			next.ServeHTTP(w, r.WithContext(withScope(r.Context(), s)))
		})
	}
}

// RequireView rejects actors whose role does not include v.
func RequireView(v models.View) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := scopeFrom(r.Context())
			if !ok || !s.caps.CanView(v) {
				writeJSON(w, http.StatusForbidden, errorBody("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
