package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Umesh-Verma07/AynaForm/internal/services"
)

type errorResponse struct {
	Error  string                `json:"error"`
	Code   services.ErrorCode    `json:"code"`
	Errors []services.FieldError `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeError renders err. Service errors keep their code and message; any
// other error is logged and reported as a generic internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
		writeJSON(w, errorResponse{Error: "Internal server error", Code: services.ErrorInternal}, http.StatusInternalServerError)
		return
	}
	writeJSON(w, errorResponse{Error: se.Message, Code: se.Code, Errors: se.Fields}, statusFor(se.Code))
}

func statusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrorValidation:
		return http.StatusBadRequest
	case services.ErrorUsernameExists:
		return http.StatusConflict
	case services.ErrorInvalidCredentials, services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorFormClosed:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
