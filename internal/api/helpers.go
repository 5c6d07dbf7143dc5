package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/buyone/internal/api/shared"
	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/platform/logger"
)

// requireCaller returns the identity set by the gateway headers, or writes a
// 401 and returns false.
func requireCaller(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	caller, ok := shared.GetCaller(r.Context())
	if !ok {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Debug("request without identity headers", slog.String("path", r.URL.Path))
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Missing user identity")
		return domain.Caller{}, false
	}
	return caller, true
}

// decodeAndValidate reads a JSON body into v and runs struct validation.
// On failure it writes a 400 with a sanitized message and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
