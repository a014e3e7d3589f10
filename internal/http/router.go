package http

import (
	nethttp "net/http"

	"github.com/golf-alone/teetime-service/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux. The admin route is mounted only when admin is non-nil.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/search", handler.Search)
	mux.HandleFunc("/courses", handler.Courses)
	mux.HandleFunc("/courses/lookup", handler.LookupCourses)
	if admin != nil {
		mux.HandleFunc("/admin/catalog/refresh", admin.RefreshCatalog)
	}
	return mux
}
