// Package server exposes the analysis engine over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/analysis"
	"github.com/sells-group/demographics-cli/internal/config"
	"github.com/sells-group/demographics-cli/internal/geo"
	"github.com/sells-group/demographics-cli/internal/monitoring"
	"github.com/sells-group/demographics-cli/internal/taxonomy"
)

// Server routes analysis requests to the orchestrator. The resolver is
// optional; without one, requests must carry a geography id.
type Server struct {
	reg      *taxonomy.Registry
	analyzer *analysis.Analyzer
	resolver geo.Resolver
	stats    *monitoring.Collector
}

func New(reg *taxonomy.Registry, analyzer *analysis.Analyzer, resolver geo.Resolver) *Server {
	return &Server{reg: reg, analyzer: analyzer, resolver: resolver, stats: monitoring.NewCollector()}
}

// Router assembles the chi handler chain.
func (s *Server) Router(cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)
	if cfg.RateLimitRPS > 0 {
		r.Use(throttle(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analysis", s.handleAnalysis)
		r.Get("/taxonomy/variables", s.handleVariables)
		r.Get("/taxonomy/tables", s.handleTables)
		r.Get("/stats", s.handleStats)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analysisRequest struct {
	GeographyID    string   `json:"geography_id"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`
	AnchorVariable string   `json:"anchor_variable"`
	AnchorValue    string   `json:"anchor_value"`
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AnchorVariable == "" || req.AnchorValue == "" {
		writeError(w, http.StatusBadRequest, "anchor_variable and anchor_value are required")
		return
	}

	geoid := req.GeographyID
	if geoid == "" {
		if req.Lat == nil || req.Lng == nil {
			writeError(w, http.StatusBadRequest, "either geography_id or lat and lng are required")
			return
		}
		if s.resolver == nil {
			writeError(w, http.StatusBadRequest, "coordinate resolution is not configured; pass geography_id")
			return
		}
		resolved, err := s.resolver.Resolve(r.Context(), *req.Lat, *req.Lng)
		if err != nil {
			if errors.Is(err, geo.ErrNotFound) {
				writeError(w, http.StatusNotFound, "no geography contains the given point")
				return
			}
			zap.L().Error("geography resolution failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "geography resolution failed")
			return
		}
		geoid = resolved
	}

	start := time.Now()
	result, err := s.analyzer.Analyze(r.Context(), geoid, req.AnchorVariable, req.AnchorValue)
	s.stats.Record(result, err, time.Since(start))
	if err != nil {
		switch {
		case errors.Is(err, taxonomy.ErrUnknownVariable):
			writeError(w, http.StatusBadRequest, "unknown anchor variable: "+req.AnchorVariable)
		case r.Context().Err() != nil:
			// Client went away; nothing useful to write.
		default:
			zap.L().Error("analysis failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type variablePayload struct {
	Name         string   `json:"name"`
	NumericRange bool     `json:"numeric_range"`
	Categories   []string `json:"categories"`
}

func (s *Server) handleVariables(w http.ResponseWriter, _ *http.Request) {
	vars := s.reg.Variables()
	out := make([]variablePayload, 0, len(vars))
	for _, v := range vars {
		out = append(out, variablePayload{
			Name:         v.Name,
			NumericRange: v.NumericRange,
			Categories:   taxonomy.Labels(v.Categories),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"variables": out})
}

type tablePayload struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	RowVariable string `json:"row_variable"`
	ColVariable string `json:"col_variable"`
}

func (s *Server) handleTables(w http.ResponseWriter, _ *http.Request) {
	tables := s.reg.Tables()
	out := make([]tablePayload, 0, len(tables))
	for _, t := range tables {
		out = append(out, tablePayload{
			ID:          t.ID,
			Source:      t.Source,
			RowVariable: t.RowVariable,
			ColVariable: t.ColVariable,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": out})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
