// Package http exposes the emberflow engine over a JSON REST API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emberflow/emberflow/pkg/domain"
	"github.com/emberflow/emberflow/pkg/nodered"
	"github.com/emberflow/emberflow/pkg/ports"
)

// Engine defines the interface the HTTP surface needs from the core.
type Engine interface {
	Execute(ctx context.Context, flow *domain.Flow, inputs map[string]any) *domain.ExecutionReport
	Translate(flow *domain.Flow) []nodered.FlowNode
	Validate(flow *domain.Flow) error
}

// Server wires the engine and stores to the REST routes.
type Server struct {
	engine    Engine
	flows     ports.FlowStore
	history   ports.HistoryStore
	publisher ports.Publisher
	metrics   http.Handler
	logger    *slog.Logger
}

type Option func(*Server)

// WithPublisher enables POST /flows/{id}/publish to also import the
// translated flow into the target runtime.
func WithPublisher(p ports.Publisher) Option {
	return func(s *Server) { s.publisher = p }
}

// WithMetricsHandler mounts a handler at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for the engine and stores.
func NewHandler(engine Engine, flows ports.FlowStore, history ports.HistoryStore, opts ...Option) http.Handler {
	s := &Server{
		engine:  engine,
		flows:   flows,
		history: history,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.getHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/flows", func(r chi.Router) {
		r.Post("/", s.createFlow)
		r.Get("/", s.listFlows)
		r.Route("/{flowID}", func(r chi.Router) {
			r.Get("/", s.getFlow)
			r.Put("/", s.updateFlow)
			r.Delete("/", s.deleteFlow)
			r.Post("/publish", s.publishFlow)
			r.Post("/execute", s.executeFlow)
			r.Get("/executions", s.listExecutions)
		})
	})
	r.Get("/executions/{executionID}", s.getExecution)
	r.Post("/translate", s.translateFlow)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) createFlow(w http.ResponseWriter, r *http.Request) {
	var flow domain.Flow
	if err := json.NewDecoder(r.Body).Decode(&flow); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("createFlow: invalid request body", "err", err)
		return
	}
	if flow.ID == "" {
		http.Error(w, "Flow id is required", http.StatusBadRequest)
		return
	}
	if err := s.engine.Validate(&flow); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := s.flows.Save(r.Context(), &flow); err != nil {
		s.fail(w, "createFlow", err)
		return
	}
	saved, err := s.flows.Get(r.Context(), flow.ID)
	if err != nil {
		s.fail(w, "createFlow", err)
		return
	}
	s.respond(w, http.StatusCreated, saved)
}

func (s *Server) listFlows(w http.ResponseWriter, r *http.Request) {
	flows, err := s.flows.List(r.Context())
	if err != nil {
		s.fail(w, "listFlows", err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"flows": flows, "total": len(flows)})
}

func (s *Server) getFlow(w http.ResponseWriter, r *http.Request) {
	flow, err := s.flows.Get(r.Context(), chi.URLParam(r, "flowID"))
	if err != nil {
		s.flowError(w, "getFlow", err)
		return
	}
	s.respond(w, http.StatusOK, flow)
}

func (s *Server) updateFlow(w http.ResponseWriter, r *http.Request) {
	var flow domain.Flow
	if err := json.NewDecoder(r.Body).Decode(&flow); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("updateFlow: invalid request body", "err", err)
		return
	}
	flow.ID = chi.URLParam(r, "flowID")
	if _, err := s.flows.Get(r.Context(), flow.ID); err != nil {
		s.flowError(w, "updateFlow", err)
		return
	}
	if err := s.engine.Validate(&flow); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := s.flows.Save(r.Context(), &flow); err != nil {
		s.fail(w, "updateFlow", err)
		return
	}
	saved, err := s.flows.Get(r.Context(), flow.ID)
	if err != nil {
		s.fail(w, "updateFlow", err)
		return
	}
	s.respond(w, http.StatusOK, saved)
}

func (s *Server) deleteFlow(w http.ResponseWriter, r *http.Request) {
	if err := s.flows.Delete(r.Context(), chi.URLParam(r, "flowID")); err != nil {
		s.fail(w, "deleteFlow", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// publishFlow flips the flow to active and, when a publisher is
// configured, imports the translation into the target runtime.
func (s *Server) publishFlow(w http.ResponseWriter, r *http.Request) {
	flow, err := s.flows.Publish(r.Context(), chi.URLParam(r, "flowID"))
	if err != nil {
		s.flowError(w, "publishFlow", err)
		return
	}

	nodes := s.engine.Translate(flow)
	if s.publisher != nil {
		if err := s.publisher.Publish(r.Context(), nodes); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			s.logger.Error("publishFlow: runtime import failed", "flow_id", flow.ID, "err", err)
			return
		}
	}
	s.respond(w, http.StatusOK, map[string]any{
		"flow":  flow,
		"nodes": nodes,
	})
}

func (s *Server) executeFlow(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Inputs map[string]any `json:"inputs"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.logger.Warn("executeFlow: invalid request body", "err", err)
			return
		}
	}

	flow, err := s.flows.Get(r.Context(), chi.URLParam(r, "flowID"))
	if err != nil {
		s.flowError(w, "executeFlow", err)
		return
	}

	report := s.engine.Execute(r.Context(), flow, body.Inputs)
	s.respond(w, http.StatusOK, report)
}

func (s *Server) listExecutions(w http.ResponseWriter, r *http.Request) {
	reports, err := s.history.Recent(r.Context(), chi.URLParam(r, "flowID"), 0)
	if err != nil {
		s.fail(w, "listExecutions", err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"executions": reports, "total": len(reports)})
}

func (s *Server) getExecution(w http.ResponseWriter, r *http.Request) {
	report, err := s.history.Get(r.Context(), chi.URLParam(r, "executionID"))
	if err != nil {
		if errors.Is(err, domain.ErrExecutionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.fail(w, "getExecution", err)
		return
	}
	s.respond(w, http.StatusOK, report)
}

// translateFlow translates an inline flow without persisting it.
func (s *Server) translateFlow(w http.ResponseWriter, r *http.Request) {
	var flow domain.Flow
	if err := json.NewDecoder(r.Body).Decode(&flow); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("translateFlow: invalid request body", "err", err)
		return
	}
	s.respond(w, http.StatusOK, s.engine.Translate(&flow))
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	http.Error(w, err.Error(), http.StatusInternalServerError)
	s.logger.Error(op+" failed", "err", err)
}

func (s *Server) flowError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, domain.ErrFlowNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.fail(w, op, err)
}
