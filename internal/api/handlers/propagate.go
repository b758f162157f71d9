package handlers

import (
	"net/http"
	"time"

	"impact-engine/internal/analysis"
	"impact-engine/internal/api/models"
	"impact-engine/internal/metrics"
	"impact-engine/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Propagate handles POST /api/v1/propagate
func (h *Handler) Propagate(c *gin.Context) {
	var req models.PropagateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	scenario, ok := h.findScenario(req.Scenario)
	if !ok {
		scenarioNotFound(c, req.Scenario)
		return
	}
	companies, err := h.companiesFor(req.Companies)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_COMPANY", err)
		return
	}

	shock := model.Shock{
		Level0:    level0For(scenario, req.Level0),
		Macro:     macroFor(scenario, req.Macro),
		Companies: companies,
	}
	h.cached(c, "propagate", shock, func() (any, error) {
		return h.propagate(shock), nil
	})
}

func (h *Handler) propagate(shock model.Shock) models.PropagateResponse {
	start := time.Now()
	st := h.engine.PropagateAllLevels(shock)
	metrics.ObserveEngine(metrics.OpPropagate, start)
	recordState(st)

	baseline := h.engine.PropagateAllLevels(model.Shock{Companies: shock.Companies})
	h.logger.Debug("propagated",
		zap.Int("macro_overrides", len(shock.Macro)),
		zap.Int("companies", len(st.Level3)),
		zap.Int("components", len(st.Level5)))

	return models.PropagateResponse{
		State:    st,
		Counts:   countsByName(st),
		Rankings: rankings(analysis.RankCompanies(st)),
		Sectors:  analysis.SummarizeSectors(st, &baseline),
	}
}
