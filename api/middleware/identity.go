package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/beworking/beworking-backend/api/responses"
	"github.com/beworking/beworking-backend/pkg/auth"
	"github.com/beworking/beworking-backend/pkg/config"
	"github.com/beworking/beworking-backend/pkg/db/models"
	pkgerrors "github.com/beworking/beworking-backend/pkg/errors"
	"github.com/beworking/beworking-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const bearerPrefix = "Bearer "

type userLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Authenticate resolves the caller's identity from the Authorization header.
// Requests without the header continue anonymously; a header that fails
// verification is rejected outright. A token whose user no longer exists also
// continues anonymously, so protected routes reject it at the boundary.
func Authenticate(jwtCfg config.JWTConfig, users userLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(header, bearerPrefix) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authorization header must use Bearer scheme"))
				return
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
			claims, err := auth.ParseAccessToken(jwtCfg, tokenString)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token"))
				return
			}
			if claims.UserID == uuid.Nil || claims.Subject == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			// The verified subject is the email; the user row stays the
			// source of truth for the principal's id.
			principal := auth.Principal{
				UserID: claims.UserID,
				Email:  claims.Subject,
			}
			if users != nil {
				user, err := users.FindByEmail(ctx, claims.Subject)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						next.ServeHTTP(w, r)
						return
					}
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user"))
					return
				}
				principal.UserID = user.ID
				principal.Email = user.Email
			}
			ctx = WithPrincipal(ctx, principal)
			if logg != nil {
				ctx = logg.WithUserID(ctx, principal.UserID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests. Routes behind it can assume a
// principal is present in the context.
func RequireAuth(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromContext(r.Context()); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
