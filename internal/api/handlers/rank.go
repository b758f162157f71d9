package handlers

import (
	"net/http"
	"time"

	"impact-engine/internal/analysis"
	"impact-engine/internal/api/models"
	"impact-engine/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Rank handles GET /api/v1/rank
func (h *Handler) Rank(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	scenario, ok := h.findScenario(req.Scenario)
	if !ok {
		scenarioNotFound(c, req.Scenario)
		return
	}

	h.cached(c, "rank", req, func() (any, error) {
		start := time.Now()
		st := h.engine.PropagateAllLevels(scenario.Shock(h.companies))
		ranked := analysis.TopN(analysis.RankCompanies(st), req.Limit)
		metrics.ObserveEngine(metrics.OpRank, start)

		return models.RankResponse{Scenario: scenario.Name, Rankings: rankings(ranked)}, nil
	})
}
