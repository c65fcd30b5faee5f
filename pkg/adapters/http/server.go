package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/internal/config"
	"github.com/aretw0/canopy/internal/dto"
	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/internal/presentation/graph"
	"github.com/aretw0/canopy/pkg/analysis"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/loader"
	"github.com/aretw0/canopy/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes caps model documents accepted by the API.
const maxBodyBytes = 1 << 20

// Options configures the HTTP handler.
type Options struct {
	// Evaluation holds the defaults; requests may override them with the
	// mode, policy and wtp query parameters.
	Evaluation config.EvaluationConfig
	Logger     *slog.Logger
	// Registry receives the evaluation metrics and backs GET /metrics.
	// A fresh registry is created when nil.
	Registry   *prometheus.Registry
}

// Server serves model evaluation over HTTP.
type Server struct {
	defaults config.EvaluationConfig
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewHandler creates the HTTP handler for the canopy API.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	metrics, err := observability.NewMetrics(opts.Registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	s := &Server{
		defaults: opts.Evaluation,
		logger:   opts.Logger,
		metrics:  metrics,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.Health)
	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/evaluate", s.Evaluate)
		r.Post("/icer", s.ICER)
		r.Post("/graph", s.Graph)
	})
	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(canopy.Version),
	})
}

// Evaluate handles POST /v1/evaluate. The body is a model document in YAML or JSON.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	model, ok := s.readModel(w, r)
	if !ok {
		return
	}
	eng, err := s.engine(r, model)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := eng.Analyze(model)
	if err != nil {
		s.logger.Warn("Evaluate failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromAnalysis(a))
}

// ICER handles POST /v1/icer.
func (s *Server) ICER(w http.ResponseWriter, r *http.Request) {
	var body dto.ICERRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.logger.Warn("ICER: Invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	icer := analysis.CalculateICER(body.CostA, body.UtilityA, body.CostB, body.UtilityB)
	writeJSON(w, http.StatusOK, dto.NewICERResponse(icer))
}

// Graph handles POST /v1/graph and answers with one Mermaid diagram per
// decision. overlay=true highlights the branches the policy selects.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	model, ok := s.readModel(w, r)
	if !ok {
		return
	}
	eng, err := s.engine(r, model)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	overlay, _ := strconv.ParseBool(r.URL.Query().Get("overlay"))

	var sel graph.Selector
	if overlay {
		sel = eng
	}

	var out strings.Builder
	for i, d := range model.Decisions {
		diagram, err := graph.Diagram(d, sel)
		if err != nil {
			s.logger.Warn("Graph failed", "decision", d.Name, "error", err)
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(diagram)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, out.String())
}

func (s *Server) readModel(w http.ResponseWriter, r *http.Request) (*loader.Model, bool) {
	model, err := loader.Load(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.logger.Warn("Invalid model document", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	return model, true
}

// engine builds a per-request engine from the defaults and the query overrides.
func (s *Server) engine(r *http.Request, model *loader.Model) (*canopy.Engine, error) {
	cfg := s.defaults
	q := r.URL.Query()
	if v := q.Get("mode"); v != "" {
		cfg.Mode = v
	}
	if v := q.Get("policy"); v != "" {
		cfg.Policy = v
	}
	if v := q.Get("wtp"); v != "" {
		wtp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid wtp %q: %w", v, err)
		}
		cfg.WillingnessToPay = wtp
	}

	opts, err := cfg.EngineOptions(model.WillingnessToPay)
	if err != nil {
		return nil, err
	}
	opts = append(opts,
		canopy.WithLogger(s.logger),
		canopy.WithHooks(s.metrics.Hooks()),
	)
	return canopy.New(opts...), nil
}

type errorResponse struct {
	Error   string           `json:"error"`
	Details []dto.FieldIssue `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var verrs *loader.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Details = dto.FromValidationErrors(verrs)
	}
	var cycle *domain.CycleError
	if errors.As(err, &cycle) {
		resp.Details = append(resp.Details, dto.FieldIssue{Path: strings.Join(cycle.Path, " -> "), Reason: "cycle"})
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}
