package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rasoilink/rasoilink-backend/api/responses"
	pkgAuth "github.com/rasoilink/rasoilink-backend/pkg/auth"
	"github.com/rasoilink/rasoilink-backend/pkg/config"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

// SessionChecker reports whether the token's session id is still live.
type SessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Auth validates a bearer token and seeds the request context with the
// caller identity.
func Auth(cfg config.JWTConfig, sessions SessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if sessions != nil {
				ok, err := sessions.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired"))
					return
				}
			}

			identity := Identity{
				UserID:     claims.UserID,
				Role:       claims.Role,
				VendorID:   claims.VendorID,
				SupplierID: claims.SupplierID,
				Zone:       claims.Zone,
				Language:   claims.Language,
			}
			ctx := WithIdentity(r.Context(), identity)

			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
				if claims.Zone != nil {
					ctx = logg.WithZone(ctx, *claims.Zone)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
