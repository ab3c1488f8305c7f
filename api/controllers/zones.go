package controllers

import (
	"net/http"
	"strings"

	"github.com/rasoilink/rasoilink-backend/api/middleware"
	"github.com/rasoilink/rasoilink-backend/api/responses"
	"github.com/rasoilink/rasoilink-backend/internal/zones"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

// ZonesList returns the delivery zones, localized to the caller's
// language. A lang query parameter overrides the profile preference.
func ZonesList(svc zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := enums.LanguageHindi
		if identity, ok := middleware.IdentityFromContext(r.Context()); ok && identity.Language != nil {
			lang = *identity.Language
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("lang")); raw != "" {
			parsed, err := enums.ParseLanguage(raw)
			if err == nil {
				lang = parsed
			}
		}

		list, err := svc.ListZones(r.Context(), lang)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
