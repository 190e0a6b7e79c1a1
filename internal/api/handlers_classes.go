// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/chronoterra/internal/models"
)

// Classes returns the Dynamic World legend.
//
// The legend is what callers need to label the numeric keys of
// histogram_yearA and to build their own map legends: the 9 class IDs,
// names, and the palette colors the rendered layers use.
//
// @Summary Get the Dynamic World class legend
// @Description Returns the 9 land cover classes with their label-band IDs, names, and visualization palette colors, plus the change-mask highlight color.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Legend retrieved successfully"
// @Router /api/v1/classes [get]
func (h *Handler) Classes(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"classes":                models.LandCoverClasses(),
			"change_highlight_color": models.ChangeHighlightColor,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
