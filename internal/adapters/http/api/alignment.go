package api

import (
	"errors"
	"net/http"

	"github.com/syamnaths/Action-cam/internal/domain/alignment"
)

type evaluateRequest struct {
	Detection *alignment.Detection `json:"detection"`
	Frame     alignment.Frame      `json:"frame"`
	Rule      *alignment.Rule      `json:"rule"`
}

type evaluateResponse struct {
	Feedback string `json:"feedback"`
	Aligned  bool   `json:"aligned"`
}

// AlignmentHandler evaluates one detection against a rule without a session.
type AlignmentHandler struct{}

// NewAlignmentHandler creates a new alignment handler.
func NewAlignmentHandler() *AlignmentHandler {
	return &AlignmentHandler{}
}

// HandleEvaluate handles POST /alignment/evaluate.
func (h *AlignmentHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate_alignment"
	var req evaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Rule == nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, errors.New("missing rule")))
		return
	}
	feedback, err := alignment.Evaluate(req.Detection, req.Frame, *req.Rule)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluateResponse{Feedback: feedback, Aligned: feedback == alignment.Aligned})
}
