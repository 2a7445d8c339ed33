package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReportProvider returns the finished report, if there is one yet.
type ReportProvider interface {
	Report() (domain.Report, bool)
	Region(code string) (summary domain.RegionSummary, found, ready bool)
}

// ReportHolder publishes a finished report to HTTP readers, indexed by
// region code.
type ReportHolder struct {
	p atomic.Pointer[indexedReport]
}

type indexedReport struct {
	report domain.Report
	byCode map[string]int
}

// Set stores the report. Later calls replace it.
func (h *ReportHolder) Set(rep domain.Report) {
	byCode := make(map[string]int, len(rep.Regions))
	for i, r := range rep.Regions {
		byCode[r.Code] = i
	}
	h.p.Store(&indexedReport{report: rep, byCode: byCode})
}

// Report returns the stored report.
func (h *ReportHolder) Report() (domain.Report, bool) {
	ir := h.p.Load()
	if ir == nil {
		return domain.Report{}, false
	}
	return ir.report, true
}

// Region returns one region of the stored report. ready is false when no
// report has been stored yet.
func (h *ReportHolder) Region(code string) (summary domain.RegionSummary, found, ready bool) {
	ir := h.p.Load()
	if ir == nil {
		return domain.RegionSummary{}, false, false
	}
	i, ok := ir.byCode[code]
	if !ok {
		return domain.RegionSummary{}, false, true
	}
	return ir.report.Regions[i], true, true
}

// Server exposes health, readiness, metrics, and region summary endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and /regions routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, reports ReportProvider, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.HandleFunc("GET /regions", handleRegions(reports))
	mux.HandleFunc("GET /regions/{code}", handleRegion(reports))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func handleRegions(reports ReportProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		rep, ok := reports.Report()
		if !ok {
			sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "report not available yet"})
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, rep)
	}
}

func handleRegion(reports ReportProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.PathValue("code")
		region, found, ready := reports.Region(code)
		switch {
		case !ready:
			sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "report not available yet"})
		case !found:
			sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "unknown region " + code})
		default:
			sharedobs.WriteJSON(w, http.StatusOK, region)
		}
	}
}
