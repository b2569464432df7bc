package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/store"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: RequestIDFrom(r.Context()),
	}})
}

// classify maps an error to its HTTP status and API error code.
func classify(err error) (int, errors.Code) {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errors.ErrCodeTimeout
	case stderrors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, errors.ErrCodeTimeout
	case stderrors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, errors.ErrCodeNotFound
	}

	code := errors.GetCode(err)
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest, code
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound, code
	case errors.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge, code
	case errors.ErrCodeNotConnected, errors.ErrCodeNotBiconnected, errors.ErrCodeUnsolved:
		return http.StatusUnprocessableEntity, code
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, code
	case "":
		return http.StatusInternalServerError, errors.ErrCodeInternal
	}
	return http.StatusInternalServerError, code
}
