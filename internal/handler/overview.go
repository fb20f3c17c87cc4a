package handler

import (
	"net/http"

	"github.com/ideahub-dev/ideahub/internal/utils"
)

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.overview.Get()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, overview)
}
