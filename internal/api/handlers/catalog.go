package handlers

import (
	"net/http"

	"impact-engine/internal/api/models"
	"impact-engine/internal/model"

	"github.com/gin-gonic/gin"
)

// ListMacroVariables handles GET /api/v1/macro-variables
func (h *Handler) ListMacroVariables(c *gin.Context) {
	var req models.MacroVariablesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	vars := []model.MacroVariable{}
	for _, v := range h.engine.Catalog() {
		if req.Category != "" && string(v.Category) != req.Category {
			continue
		}
		vars = append(vars, v)
	}
	c.JSON(http.StatusOK, models.MacroVariablesResponse{Variables: vars})
}

// ListScenarios handles GET /api/v1/scenarios
func (h *Handler) ListScenarios(c *gin.Context) {
	c.JSON(http.StatusOK, models.ScenarioListResponse{Scenarios: h.scenarios})
}
