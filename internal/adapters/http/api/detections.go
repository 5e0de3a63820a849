package api

import (
	"errors"
	"net/http"
	"strings"

	service "github.com/syamnaths/Action-cam/internal/app"
	"github.com/syamnaths/Action-cam/internal/domain/alignment"
	"github.com/syamnaths/Action-cam/internal/domain/model"
)

// detectionRequest is one frame's face detection. A null detection means no
// subject was found.
type detectionRequest struct {
	FrameID   string               `json:"frame_id"`
	Detection *alignment.Detection `json:"detection"`
	Frame     alignment.Frame      `json:"frame"`
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// DetectionsHandler accepts detections for asynchronous evaluation.
type DetectionsHandler struct {
	intake DetectionIntake
}

// NewDetectionsHandler creates a new detections handler.
func NewDetectionsHandler(d DetectionIntake) *DetectionsHandler {
	return &DetectionsHandler{intake: d}
}

// HandleSubmit handles POST /sessions/{id}/detections. Queued frames are
// answered with 202; duplicates and frames outside a take with 200.
func (h *DetectionsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_detection"
	var req detectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.FrameID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, errors.New("missing frame_id")))
		return
	}

	status, err := h.intake.SubmitDetection(r.Context(), r.PathValue("id"), model.FrameDetection{
		FrameID:   req.FrameID,
		Detection: req.Detection,
		Frame:     req.Frame,
	})
	switch {
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", newKind(op, ErrBackpressure))
		return
	case err != nil:
		writeFailure(w, err)
		return
	}

	if status == service.IntakeQueued {
		writeJSON(w, http.StatusAccepted, ackResponse{Status: status})
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: status, Duplicate: status == service.IntakeDuplicate})
}
