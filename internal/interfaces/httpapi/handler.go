package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/cricket"
	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/preferences"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/logging"
	"github.com/amit-kumar9766/ipl-dashboard/internal/poller"
	"github.com/amit-kumar9766/ipl-dashboard/internal/usecase"
)

const maxRequestBody = 1 << 20

// PollerControl is the slice of the poller the API exposes.
type PollerControl interface {
	Snapshot() poller.Snapshot
	RefreshNow()
}

type Handler struct {
	dashboards  *usecase.DashboardService
	preferences *usecase.PreferencesService
	poller      PollerControl
	logger      *logging.Logger
}

func NewHandler(dashboards *usecase.DashboardService, prefs *usecase.PreferencesService, pollerCtl PollerControl, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		dashboards:  dashboards,
		preferences: prefs,
		poller:      pollerCtl,
		logger:      logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// dashboardResponse is the /api/scrape wire format: the dataset flattened
// together with the cache disposition.
type dashboardResponse struct {
	cricket.ScrapedData
	CacheStatus     string `json:"cacheStatus"`
	CacheAgeSeconds int64  `json:"cacheAge"`
	Error           string `json:"error,omitempty"`
}

// GetDashboard always answers 200 with a complete dataset; upstream trouble
// is reported through cacheStatus and error, never through the status code.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.GetDashboard")
	defer span.End()

	result := h.dashboards.GetDashboard(ctx)
	resp := dashboardResponse{
		ScrapedData:     result.Data,
		CacheStatus:     result.CacheStatus,
		CacheAgeSeconds: int64(result.CacheAge.Seconds()),
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}

type pollerStatusResponse struct {
	Polling           bool   `json:"polling"`
	Loading           bool   `json:"loading"`
	ConsecutiveErrors int    `json:"consecutiveErrors"`
	LastError         string `json:"lastError,omitempty"`
	HasData           bool   `json:"hasData"`
	LastUpdated       string `json:"lastUpdated,omitempty"`
}

func (h *Handler) GetPollerStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.GetPollerStatus")
	defer span.End()

	if h.poller == nil {
		writeError(ctx, w, fmt.Errorf("%w: poller is not running", usecase.ErrDependencyUnavailable))
		return
	}

	snap := h.poller.Snapshot()
	resp := pollerStatusResponse{
		Polling:           snap.Polling,
		Loading:           snap.Loading,
		ConsecutiveErrors: snap.ConsecutiveErrors,
		HasData:           snap.Data != nil,
	}
	if snap.LastError != nil {
		resp.LastError = snap.LastError.Error()
	}
	if snap.Data != nil {
		resp.LastUpdated = snap.Data.LastUpdated
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}

func (h *Handler) RefreshPoller(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.RefreshPoller")
	defer span.End()

	if h.poller == nil {
		writeError(ctx, w, fmt.Errorf("%w: poller is not running", usecase.ErrDependencyUnavailable))
		return
	}

	h.poller.RefreshNow()
	writeJSON(ctx, w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}

// preferencesPayload is the preferences wire format. The interval travels in
// milliseconds, mirroring the dashboard clients.
type preferencesPayload struct {
	AutoRefresh       bool   `json:"autoRefresh"`
	RefreshIntervalMS int64  `json:"refreshInterval"`
	Notifications     bool   `json:"notifications"`
	Theme             string `json:"theme"`
	Language          string `json:"language"`
}

func toPreferencesPayload(p preferences.Preferences) preferencesPayload {
	return preferencesPayload{
		AutoRefresh:       p.AutoRefresh,
		RefreshIntervalMS: p.RefreshInterval.Milliseconds(),
		Notifications:     p.Notifications,
		Theme:             p.Theme,
		Language:          p.Language,
	}
}

func (p preferencesPayload) toDomain() preferences.Preferences {
	return preferences.Preferences{
		AutoRefresh:     p.AutoRefresh,
		RefreshInterval: time.Duration(p.RefreshIntervalMS) * time.Millisecond,
		Notifications:   p.Notifications,
		Theme:           p.Theme,
		Language:        p.Language,
	}
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.GetPreferences")
	defer span.End()

	prefs, err := h.preferences.Get(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, toPreferencesPayload(prefs))
}

func (h *Handler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.PutPreferences")
	defer span.End()

	var payload preferencesPayload
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := decoder.Decode(&payload); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}

	saved, err := h.preferences.Update(ctx, payload.toDomain())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, toPreferencesPayload(saved))
}
