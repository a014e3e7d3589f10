package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/golf-alone/teetime-service/internal/http/middleware"
	"github.com/golf-alone/teetime-service/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(logger, "failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	writeJSON(w, status, errorBody(r, message), logger)
}

// writeErrorDetails adds a details array, e.g. the rejected request fields.
func writeErrorDetails(w http.ResponseWriter, r *http.Request, status int, message string, details any, logger *slog.Logger) {
	body := errorBody(r, message)
	body["details"] = details
	writeJSON(w, status, body, logger)
}

func errorBody(r *http.Request, message string) map[string]any {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	body := map[string]any{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	return body
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string, logger *slog.Logger) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", logger)
	return false
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
