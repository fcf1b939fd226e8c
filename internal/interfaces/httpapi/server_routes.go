package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDashboardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/scrape", handler.GetDashboard)
	mux.HandleFunc("GET /api/poller", handler.GetPollerStatus)
	mux.HandleFunc("POST /api/poller/refresh", handler.RefreshPoller)
	mux.HandleFunc("GET /api/preferences", handler.GetPreferences)
	mux.HandleFunc("PUT /api/preferences", handler.PutPreferences)
}
