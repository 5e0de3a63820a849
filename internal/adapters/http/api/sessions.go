package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/syamnaths/Action-cam/internal/domain/model"
)

type createSessionRequest struct {
	ShotID string `json:"shot_id"`
	Effect string `json:"effect,omitempty"`
}

// SessionsHandler drives capture sessions.
type SessionsHandler struct {
	sessions SessionManager
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(s SessionManager) *SessionsHandler {
	return &SessionsHandler{sessions: s}
}

// HandleCreate handles POST /sessions.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if req.ShotID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, errors.New("missing shot_id")))
		return
	}
	v, err := h.sessions.CreateSession(r.Context(), req.ShotID, req.Effect)
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+v.ID)
	writeJSON(w, http.StatusCreated, v)
}

// HandleGet handles GET /sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	v, err := h.sessions.SessionView(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleClose handles DELETE /sessions/{id}.
func (h *SessionsHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.CloseSession(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEditStep handles PUT /sessions/{id}/steps/{index}. The body carries
// a new label, a new duration, or both.
func (h *SessionsHandler) HandleEditStep(w http.ResponseWriter, r *http.Request) {
	const op = "api.edit_step"
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	var edit model.StepEdit
	if err := decodeJSON(r, &edit); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if edit.Label == nil && edit.DurationSeconds == nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, errors.New("nothing to change")))
		return
	}
	v, err := h.sessions.EditStep(r.Context(), r.PathValue("id"), index, edit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleSwitchCamera handles POST /sessions/{id}/camera/switch.
func (h *SessionsHandler) HandleSwitchCamera(w http.ResponseWriter, r *http.Request) {
	v, err := h.sessions.SwitchCamera(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleStartRecording handles POST /sessions/{id}/recording/start.
func (h *SessionsHandler) HandleStartRecording(w http.ResponseWriter, r *http.Request) {
	v, err := h.sessions.StartRecording(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleStopRecording handles POST /sessions/{id}/recording/stop.
func (h *SessionsHandler) HandleStopRecording(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sessions.StopRecording(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
