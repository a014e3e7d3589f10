package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/golf-alone/teetime-service/internal/http/requestutil"
	"github.com/golf-alone/teetime-service/internal/logging"
	"github.com/golf-alone/teetime-service/internal/poller"
)

// Refresher runs one catalog refresh cycle on demand.
type Refresher interface {
	Refresh(ctx context.Context) error
	Status() poller.Status
}

// AdminHandler exposes admin-only endpoints (catalog refresh).
type AdminHandler struct {
	refresher Refresher
	token     string
	logger    *slog.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(refresher Refresher, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		refresher: refresher,
		token:     token,
		logger:    logger,
	}
}

// RefreshCatalog reloads the course catalog from the provider and reports the refresher status.
// Guarded by ADMIN_TOKEN; returns 401 if missing/invalid.
func (h *AdminHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.refresher == nil {
		writeError(w, r, http.StatusServiceUnavailable, "catalog refresher not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	if err := h.refresher.Refresh(r.Context()); err != nil {
		logging.Warn(logger, "admin catalog refresh failed", slog.Any("err", err))
		body := errorBody(r, "catalog refresh failed")
		body["catalog"] = h.refresher.Status()
		writeJSON(w, http.StatusBadGateway, body, logger)
		return
	}

	status := h.refresher.Status()
	logging.Info(logger, "admin catalog refreshed", slog.Int(logging.FieldCount, status.Courses))
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"catalog": status,
	}, logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+h.token
}
