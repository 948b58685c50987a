// Package server exposes the optimization engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/iwvelando/portfolio-optimizer/internal/api"
	"github.com/iwvelando/portfolio-optimizer/internal/config"
	"github.com/iwvelando/portfolio-optimizer/internal/knapsack"
	"github.com/iwvelando/portfolio-optimizer/pkg/constants"
	"go.uber.org/zap"
)

// RunIDHeader carries the identifier assigned to each optimization.
const RunIDHeader = "X-Run-ID"

type handler struct {
	logger      *zap.Logger
	solver      *knapsack.Solver
	maxBodySize int64
	slots       chan struct{}
	// slotWait bounds how long a request queues for a solve slot. A solve
	// that has started always runs to completion.
	slotWait time.Duration
	version  string
}

// NewHandler constructs the HTTP handler that serves the optimization API.
// A nil solver is replaced by one using the default limits.
func NewHandler(logger *zap.Logger, cfg config.ServerConfig, solver *knapsack.Solver, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if solver == nil {
		var err error
		solver, err = knapsack.NewSolver(logger, knapsack.DefaultLimits())
		if err != nil {
			panic(fmt.Sprintf("failed to build default solver: %v", err))
		}
	}

	maxBodySize := cfg.MaxBodySizeBytes()
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	concurrency := cfg.MaxConcurrentSolves
	if concurrency <= 0 {
		concurrency = constants.DefaultMaxConcurrentSolves
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout, _ = time.ParseDuration(constants.DefaultRequestTimeout)
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = constants.DefaultVersion
	}

	h := &handler{
		logger:      logger,
		solver:      solver,
		maxBodySize: maxBodySize,
		slots:       make(chan struct{}, concurrency),
		slotWait:    requestTimeout,
		version:     trimmedVersion,
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{RunIDHeader},
		MaxAge:         300,
	}))

	r.Post("/optimizar", h.handleOptimize)
	r.Get("/health", h.handleHealth)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusNotFound, api.ErrorResponse{Error: "Endpoint no encontrado"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusMethodNotAllowed, api.ErrorResponse{Error: "Método HTTP no permitido"})
	})

	return r
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, api.HealthResponse{
		Status:  constants.ServiceStatusHealthy,
		Service: constants.ServiceName,
		Version: h.version,
	})
}

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOptimize"

	start := time.Now()
	runID := uuid.NewString()
	w.Header().Set(RunIDHeader, runID)
	logger := h.logger.With(
		zap.String("op", op),
		zap.String("runId", runID),
		zap.String("requestId", middleware.GetReqID(r.Context())),
	)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, logger, &api.Error{
				Status:  http.StatusRequestEntityTooLarge,
				Message: fmt.Sprintf("El cuerpo de la solicitud excede el límite de %d bytes", h.maxBodySize),
				Err:     err,
			})
			return
		}
		h.respondError(w, logger, &api.Error{
			Status:  http.StatusBadRequest,
			Message: "Datos JSON requeridos",
			Details: err.Error(),
			Err:     err,
		})
		return
	}

	req, err := api.DecodeRequest(body)
	if err != nil {
		var apiErr *api.Error
		if !errors.As(err, &apiErr) {
			apiErr = api.FromEngineError(err)
		}
		h.respondError(w, logger, apiErr)
		return
	}

	waitCtx, cancel := context.WithTimeout(r.Context(), h.slotWait)
	release, err := h.acquire(waitCtx)
	cancel()
	if err != nil {
		h.respondError(w, logger, &api.Error{
			Status:  http.StatusServiceUnavailable,
			Message: "Servicio ocupado, intente nuevamente",
			Details: err.Error(),
			Err:     err,
		})
		return
	}
	defer release()

	result, err := h.solver.Optimize(req.Capacity, req.Engine())
	if err != nil {
		h.respondError(w, logger, api.FromEngineError(err))
		return
	}

	logger.Info("optimization completed",
		zap.Int("items", len(req.Items)),
		zap.Float64("capacity", req.Capacity),
		zap.Int("selected", len(result.Selected)),
		zap.Float64("totalGain", result.TotalGain),
		zap.String("strategy", string(result.Strategy)),
		zap.Duration("duration", time.Since(start)),
	)

	h.writeJSON(w, http.StatusOK, api.NewResponse(result))
}

// acquire blocks until a solve slot is free or ctx ends. A free slot is
// taken even when ctx is already done.
func (h *handler) acquire(ctx context.Context) (func(), error) {
	release := func() { <-h.slots }

	select {
	case h.slots <- struct{}{}:
		return release, nil
	default:
	}

	select {
	case h.slots <- struct{}{}:
		return release, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *handler) respondError(w http.ResponseWriter, logger *zap.Logger, e *api.Error) {
	fields := []zap.Field{zap.Int("status", e.Status)}
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}
	if e.Status >= http.StatusInternalServerError {
		logger.Error(e.Message, fields...)
	} else {
		logger.Warn(e.Message, fields...)
	}
	h.writeJSON(w, e.Status, e.Body())
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
