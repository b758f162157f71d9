package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"impact-engine/internal/analysis"
	"impact-engine/internal/api/models"
	"impact-engine/internal/config"
	"impact-engine/internal/data"
	"impact-engine/internal/flow"
	"impact-engine/internal/metrics"
	"impact-engine/internal/model"
	"impact-engine/internal/propagation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options wires a Handler. Nil fields take built-in defaults.
type Options struct {
	Engine    *propagation.Engine
	Deriver   *flow.Deriver
	Registry  *flow.Registry
	Diffusion config.DiffusionConfig
	Scenarios []config.Scenario
	Companies []model.Company
	Cache     *data.ResultCache
	Logger    *zap.Logger
}

// Handler serves every engine endpoint.
type Handler struct {
	engine    *propagation.Engine
	deriver   *flow.Deriver
	registry  *flow.Registry
	diffusion config.DiffusionConfig
	scenarios []config.Scenario
	companies []model.Company
	cache     *data.ResultCache
	logger    *zap.Logger
}

// New creates a handler
func New(opts Options) *Handler {
	h := &Handler{
		engine:    opts.Engine,
		deriver:   opts.Deriver,
		registry:  opts.Registry,
		diffusion: opts.Diffusion,
		scenarios: opts.Scenarios,
		companies: opts.Companies,
		cache:     opts.Cache,
		logger:    opts.Logger,
	}
	if h.engine == nil {
		h.engine = propagation.NewDefault()
	}
	if h.deriver == nil {
		h.deriver = flow.NewDeriver(flow.Options{Catalog: h.engine.Catalog()})
	}
	if h.registry == nil {
		h.registry = flow.NewRegistry()
	}
	if h.scenarios == nil {
		h.scenarios = config.BuiltinScenarios()
	}
	if h.companies == nil {
		h.companies = data.DefaultCompanies()
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	return h
}

// Register mounts the engine routes on an /api/v1 group.
func (h *Handler) Register(api *gin.RouterGroup) {
	api.GET("/macro-variables", h.ListMacroVariables)
	api.GET("/scenarios", h.ListScenarios)
	api.POST("/propagate", h.Propagate)
	api.POST("/flows", h.Flows)
	api.POST("/simulate", h.Simulate)
	api.GET("/rank", h.Rank)
	api.DELETE("/cache", h.ClearCache)
}

func respondError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

// scenarioNotFound is the 404 for an unknown scenario name.
func scenarioNotFound(c *gin.Context, name string) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "SCENARIO_NOT_FOUND",
			Message: fmt.Sprintf("unknown scenario %q", name),
			Details: map[string]interface{}{"scenario": name},
		},
	})
}

// cached serves route+key from the result cache, or computes, stores and
// serves it. The cache is optional.
func (h *Handler) cached(c *gin.Context, route string, key any, compute func() (any, error)) {
	var cacheKey string
	if h.cache != nil {
		k, err := data.GenerateCacheKey(route, key)
		if err == nil {
			cacheKey = k
			if payload, ok := h.cache.Get(cacheKey); ok {
				metrics.RecordCacheLookup(true)
				c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
				return
			}
			metrics.RecordCacheLookup(false)
		}
	}

	resp, err := compute()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "ENGINE_ERROR", err)
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("encode response", zap.String("route", route), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "ENCODE_ERROR", err)
		return
	}
	if cacheKey != "" {
		h.cache.Set(cacheKey, payload)
		metrics.RecordCacheSize(h.cache.Len())
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// ClearCache handles DELETE /api/v1/cache. It succeeds when caching is off.
func (h *Handler) ClearCache(c *gin.Context) {
	n := h.cache.Len()
	h.cache.Clear()
	metrics.RecordCacheSize(0)
	h.logger.Info("result cache cleared", zap.Int("entries", n))
	c.JSON(http.StatusOK, models.CacheClearResponse{Cleared: n})
}

// findScenario reports whether name is empty or a known scenario.
func (h *Handler) findScenario(name string) (config.Scenario, bool) {
	if name == "" {
		return config.Scenario{Macro: model.MacroState{}}, true
	}
	return config.FindScenario(h.scenarios, name)
}

// macroFor overlays explicit values onto a scenario's macro state.
func macroFor(s config.Scenario, overlay model.MacroState) model.MacroState {
	out := s.Macro.Clone()
	if out == nil {
		out = model.MacroState{}
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// level0For overlays the non-zero fields of overlay onto a scenario's Level0.
func level0For(s config.Scenario, overlay model.Level0) model.Level0 {
	out := s.Level0
	if overlay.ContainerRate != 0 {
		out.ContainerRate = overlay.ContainerRate
	}
	if overlay.TariffRate != 0 {
		out.TariffRate = overlay.TariffRate
	}
	if overlay.EnergyCostIndex != 0 {
		out.EnergyCostIndex = overlay.EnergyCostIndex
	}
	return out
}

func (h *Handler) companiesFor(req []model.Company) ([]model.Company, error) {
	if len(req) == 0 {
		return h.companies, nil
	}
	for i, co := range req {
		if err := co.Validate(); err != nil {
			return nil, fmt.Errorf("companies[%d] (%s): %w", i, co.Ticker, err)
		}
	}
	return req, nil
}

func rankings(ranked []analysis.CompanyImpact) []models.Ranking {
	out := make([]models.Ranking, len(ranked))
	for i, r := range ranked {
		out[i] = models.Ranking{Rank: i + 1, CompanyImpact: r}
	}
	return out
}

func countsByName(st model.PropagationState) map[string]int {
	out := map[string]int{}
	for level, n := range st.Counts() {
		out[level.String()] = n
	}
	return out
}

func recordState(st model.PropagationState) {
	bottlenecks, constrained := 0, 0
	for _, cs := range st.Level5 {
		if cs.Bottleneck {
			bottlenecks++
		}
	}
	for _, fs := range st.Level9 {
		if fs.CapacityConstraint {
			constrained++
		}
	}
	metrics.RecordPropagation(bottlenecks, constrained)
}
