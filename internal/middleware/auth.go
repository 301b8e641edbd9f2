package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/tastehub/api/internal/auth"
	"github.com/tastehub/api/internal/database"
	"github.com/tastehub/api/internal/enum"
)

type contextKey string

const principalKey contextKey = "principal"

// UserLookup loads the user a token refers to.
// Satisfied by *database.Queries; narrow interface for testability.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
}

// Principal is the authenticated caller. Role is read from the stored user,
// not from the token, so role changes apply to live tokens.
type Principal struct {
	UserID uuid.UUID
	Role   string
	Name   string
	Email  string
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == enum.UserRoleAdmin
}

type authError struct {
	status  int
	message string
}

// resolve turns an Authorization header into a principal.
func resolve(ctx context.Context, jwtSecret string, users UserLookup, header string) (*Principal, *authError) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return nil, &authError{http.StatusUnauthorized, "invalid authorization format"}
	}

	claims, err := auth.ValidateToken(jwtSecret, parts[1])
	if err != nil {
		return nil, &authError{http.StatusUnauthorized, "invalid token"}
	}

	user, err := users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &authError{http.StatusUnauthorized, "user not found"}
		}
		logrus.Errorf("auth: load user %s: %v", claims.UserID, err)
		return nil, &authError{http.StatusInternalServerError, "internal server error"}
	}
	if !user.IsActive {
		return nil, &authError{http.StatusUnauthorized, "account is deactivated"}
	}

	return &Principal{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
		Email:  user.Email,
	}, nil
}

// Authenticate rejects requests without a valid bearer token for an active user.
func Authenticate(jwtSecret string, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
				return
			}

			p, aerr := resolve(r.Context(), jwtSecret, users, header)
			if aerr != nil {
				writeJSON(w, aerr.status, map[string]string{"error": aerr.message})
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthenticate lets anonymous requests through without a principal.
// A header that is present but invalid is still rejected.
func OptionalAuthenticate(jwtSecret string, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			p, aerr := resolve(r.Context(), jwtSecret, users, header)
			if aerr != nil {
				writeJSON(w, aerr.status, map[string]string{"error": aerr.message})
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
				return
			}

			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
		})
	}
}

// PrincipalFromContext returns the authenticated caller, or nil for guests.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
