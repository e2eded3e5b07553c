package api

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/observability"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	if errors.IsDataError(err) {
		return http.StatusUnprocessableEntity
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidTable, errors.ErrCodeInvalidOption,
		errors.ErrCodeInvalidColor, errors.ErrCodeInvalidFormat, errors.ErrCodeFileNotFound:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	observability.HTTP().OnError(ctx, renderIDFrom(ctx), r.Method, r.URL.Path, err)

	status := statusFor(err)
	body := errorBody{
		Code:    errors.GetCodeOr(err, errors.ErrCodeInternal),
		Message: errors.UserMessage(err),
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", renderIDFrom(ctx), "err", err)
		body.Message = "internal error"
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
