package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"propadvisor/internal/advisor"
	"propadvisor/pkg/types"
)

// Advisor runs the advisory endpoints. *advisor.Service implements it.
type Advisor interface {
	Analyze(ctx context.Context, req types.AnalyzeRequest) (advisor.Reply, error)
	Checklist(ctx context.Context, req types.ChecklistRequest) (types.ChecklistResponse, error)
	LoanGuide(ctx context.Context, req types.LoanGuideRequest) (advisor.Reply, error)
	Solution(ctx context.Context, req types.SolutionRequest) (advisor.Reply, error)
}

// Backend reports model backend health. *manager.Manager implements it.
type Backend interface {
	Ready() bool
	Status() types.StatusResponse
}

func NewMux(adv Advisor, backend Backend) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{adv: adv}
	r.Post("/analyze", h.analyze)
	r.Post("/checklist", h.checklist)
	r.Post("/loan", h.loan)
	r.Post("/solution", h.solution)

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, backend.Status())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if backend.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}
