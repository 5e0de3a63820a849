package api

import (
	"net/http"

	"github.com/syamnaths/Action-cam/internal/domain/shot"
)

// shotResponse is a template plus the embeddable example link.
type shotResponse struct {
	shot.Template
	EmbedURL string `json:"embed_url,omitempty"`
}

func newShotResponse(t shot.Template) shotResponse {
	return shotResponse{Template: t, EmbedURL: shot.EmbedURL(t.YoutubeExampleURL)}
}

// ShotsHandler serves the shot catalog.
type ShotsHandler struct {
	catalog ShotCatalog
}

// NewShotsHandler creates a new shots handler.
func NewShotsHandler(c ShotCatalog) *ShotsHandler {
	return &ShotsHandler{catalog: c}
}

// HandleList handles GET /shots.
func (h *ShotsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	shots := h.catalog.Shots(r.Context())
	out := make([]shotResponse, 0, len(shots))
	for _, t := range shots {
		out = append(out, newShotResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /shots/{id}.
func (h *ShotsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.catalog.Shot(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newShotResponse(t))
}
