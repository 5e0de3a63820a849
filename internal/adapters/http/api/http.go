// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/syamnaths/Action-cam/internal/adapters/catalog"
	"github.com/syamnaths/Action-cam/internal/adapters/repository"
	service "github.com/syamnaths/Action-cam/internal/app"
	"github.com/syamnaths/Action-cam/internal/domain/alignment"
	"github.com/syamnaths/Action-cam/internal/domain/effect"
	"github.com/syamnaths/Action-cam/internal/domain/model"
	"github.com/syamnaths/Action-cam/internal/domain/plan"
	"github.com/syamnaths/Action-cam/internal/domain/shot"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 1 << 20

// ShotCatalog exposes the configured shot templates.
type ShotCatalog interface {
	Shots(ctx context.Context) []shot.Template
	Shot(ctx context.Context, id string) (shot.Template, error)
}

// EffectLibrary lists effects and saves colour grading presets.
type EffectLibrary interface {
	Effects(ctx context.Context) []effect.Effect
	SavePreset(ctx context.Context, name string, f effect.FilterSettings) (effect.Effect, error)
}

// SessionManager drives capture sessions by id.
type SessionManager interface {
	CreateSession(ctx context.Context, shotID, effectName string) (model.SessionView, error)
	SessionView(ctx context.Context, id string) (model.SessionView, error)
	CloseSession(ctx context.Context, id string) error
	EditStep(ctx context.Context, id string, index int, edit model.StepEdit) (model.SessionView, error)
	SwitchCamera(ctx context.Context, id string) (model.SessionView, error)
	StartRecording(ctx context.Context, id string) (model.SessionView, error)
	StopRecording(ctx context.Context, id string) (model.Recording, error)
}

// DetectionIntake accepts per-frame detections for asynchronous evaluation.
type DetectionIntake interface {
	SubmitDetection(ctx context.Context, sessionID string, d model.FrameDetection) (string, error)
}

// Dependencies required by HTTP handlers.
type Dependencies interface {
	ShotCatalog
	EffectLibrary
	SessionManager
	DetectionIntake
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	shotsHandler      *ShotsHandler
	effectsHandler    *EffectsHandler
	sessionsHandler   *SessionsHandler
	detectionsHandler *DetectionsHandler
	alignmentHandler  *AlignmentHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		shotsHandler:      NewShotsHandler(deps),
		effectsHandler:    NewEffectsHandler(deps),
		sessionsHandler:   NewSessionsHandler(deps),
		detectionsHandler: NewDetectionsHandler(deps),
		alignmentHandler:  NewAlignmentHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /shots", MetricsMiddleware(s.shotsHandler.HandleList, "shots"))
	mux.HandleFunc("GET /shots/{id}", MetricsMiddleware(s.shotsHandler.HandleGet, "shot"))

	mux.HandleFunc("GET /effects", MetricsMiddleware(s.effectsHandler.HandleList, "effects"))
	mux.HandleFunc("POST /effects", MetricsMiddleware(s.effectsHandler.HandleSavePreset, "effects"))

	sh := s.sessionsHandler
	mux.HandleFunc("POST /sessions", MetricsMiddleware(sh.HandleCreate, "sessions"))
	mux.HandleFunc("GET /sessions/{id}", MetricsMiddleware(sh.HandleGet, "session"))
	mux.HandleFunc("DELETE /sessions/{id}", MetricsMiddleware(sh.HandleClose, "session"))
	mux.HandleFunc("PUT /sessions/{id}/steps/{index}", MetricsMiddleware(sh.HandleEditStep, "session_step"))
	mux.HandleFunc("POST /sessions/{id}/camera/switch", MetricsMiddleware(sh.HandleSwitchCamera, "session_camera"))
	mux.HandleFunc("POST /sessions/{id}/recording/start", MetricsMiddleware(sh.HandleStartRecording, "session_recording"))
	mux.HandleFunc("POST /sessions/{id}/recording/stop", MetricsMiddleware(sh.HandleStopRecording, "session_recording"))

	mux.HandleFunc("POST /sessions/{id}/detections", MetricsMiddleware(s.detectionsHandler.HandleSubmit, "detections"))
	mux.HandleFunc("POST /alignment/evaluate", MetricsMiddleware(s.alignmentHandler.HandleEvaluate, "alignment"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a domain error to its status code and error code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidDetection),
		errors.Is(err, service.ErrUnknownFacingMode),
		errors.Is(err, effect.ErrInvalidEffect),
		errors.Is(err, effect.ErrUnknownKind),
		errors.Is(err, plan.ErrEmptyLabel),
		errors.Is(err, alignment.ErrInvalidRule),
		errors.Is(err, alignment.ErrUnsupportedRule),
		errors.Is(err, alignment.ErrInvalidFrame):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, repository.ErrNotFound),
		errors.Is(err, plan.ErrStepIndex):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrAlreadyRecording),
		errors.Is(err, service.ErrNotRecording),
		errors.Is(err, service.ErrPlanLocked):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrBackpressure),
		errors.Is(err, service.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, service.ErrTooManySessions),
		errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
