package middleware

import (
	"net/http"

	"github.com/rasoilink/rasoilink-backend/api/responses"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

// RequireVendor rejects callers without a vendor profile.
func RequireVendor(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireRole(logg, enums.UserRoleVendor, "vendor profile required")
}

// RequireSupplier rejects callers without a supplier profile.
func RequireSupplier(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireRole(logg, enums.UserRoleSupplier, "supplier profile required")
}

func requireRole(logg *logger.Logger, role enums.UserRole, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if identity.Role != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
