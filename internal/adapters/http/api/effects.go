package api

import (
	"net/http"

	"github.com/syamnaths/Action-cam/internal/domain/effect"
)

// presetRequest saves the editor sliders under a name.
type presetRequest struct {
	Name string `json:"name"`
	effect.FilterSettings
}

// EffectsHandler lists effects and stores presets.
type EffectsHandler struct {
	library EffectLibrary
}

// NewEffectsHandler creates a new effects handler.
func NewEffectsHandler(l EffectLibrary) *EffectsHandler {
	return &EffectsHandler{library: l}
}

// HandleList handles GET /effects.
func (h *EffectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.library.Effects(r.Context()))
}

// HandleSavePreset handles POST /effects. Omitted sliders keep their neutral
// position.
func (h *EffectsHandler) HandleSavePreset(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_preset"
	req := presetRequest{FilterSettings: effect.DefaultFilters()}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	e, err := h.library.SavePreset(r.Context(), req.Name, req.FilterSettings)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}
