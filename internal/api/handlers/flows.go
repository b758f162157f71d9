package handlers

import (
	"net/http"
	"time"

	"impact-engine/internal/analysis"
	"impact-engine/internal/api/models"
	"impact-engine/internal/config"
	"impact-engine/internal/diffusion"
	"impact-engine/internal/flow"
	"impact-engine/internal/metrics"
	"impact-engine/internal/model"
	"impact-engine/internal/report"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// snapshots is a resolved FlowsRequest.
type snapshots struct {
	prev, curr model.Shock
	fromTitle  string
	toTitle    string
}

func (h *Handler) resolveSnapshots(c *gin.Context, req models.FlowsRequest) (snapshots, bool) {
	from, ok := h.findScenario(req.From)
	if !ok {
		scenarioNotFound(c, req.From)
		return snapshots{}, false
	}
	to, ok := h.findScenario(req.To)
	if !ok {
		scenarioNotFound(c, req.To)
		return snapshots{}, false
	}
	companies, err := h.companiesFor(req.Companies)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_COMPANY", err)
		return snapshots{}, false
	}
	return snapshots{
		prev:      model.Shock{Level0: from.Level0, Macro: macroFor(from, req.Previous), Companies: companies},
		curr:      model.Shock{Level0: level0For(to, req.Level0), Macro: macroFor(to, req.Current), Companies: companies},
		fromTitle: titleOr(from, "previous"),
		toTitle:   titleOr(to, "current"),
	}, true
}

func titleOr(s config.Scenario, fallback string) string {
	if s.Title != "" {
		return s.Title
	}
	return fallback
}

func (h *Handler) deriveFlows(prev, curr model.MacroState, st *model.PropagationState) models.FlowsResponse {
	start := time.Now()
	flows := h.deriver.Derive(prev, curr, st)
	metrics.ObserveEngine(metrics.OpDerive, start)
	metrics.RecordFlows(len(flows))

	lines := make([]string, len(flows))
	for i, f := range flows {
		lines[i] = analysis.FormatFlow(f)
	}
	return models.FlowsResponse{
		Flows:      flows,
		Lines:      lines,
		Network:    h.registry.Build(flows),
		Indicators: flow.Indicators(curr, h.engine.Catalog()),
		Summary:    analysis.SummarizeFlows(flows),
	}
}

// Flows handles POST /api/v1/flows
func (h *Handler) Flows(c *gin.Context) {
	var req models.FlowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	snap, ok := h.resolveSnapshots(c, req)
	if !ok {
		return
	}

	st := h.engine.PropagateAllLevels(snap.curr)
	c.JSON(http.StatusOK, h.deriveFlows(snap.prev.Macro, snap.curr.Macro, &st))
}

// Simulate handles POST /api/v1/simulate. With ?format=csv the diffusion
// timeline is returned as CSV instead of JSON.
func (h *Handler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	snap, ok := h.resolveSnapshots(c, req.FlowsRequest)
	if !ok {
		return
	}

	params := config.MergeDiffusion(h.diffusion, config.DiffusionConfig{
		Steps:         req.Steps,
		DampingFactor: req.DampingFactor,
		Epsilon:       req.Epsilon,
	})
	diffuser, err := diffusion.New(params.ToParams())
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_PARAMS", err)
		return
	}

	// Both snapshots propagate independently.
	var baseline, st model.PropagationState
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		baseline = h.engine.PropagateAllLevels(snap.prev)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		st = h.engine.PropagateAllLevels(snap.curr)
		metrics.ObserveEngine(metrics.OpPropagate, start)
		return nil
	})
	if err := g.Wait(); err != nil {
		h.logger.Warn("simulate cancelled", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "CANCELLED", err)
		return
	}
	recordState(st)

	flows := h.deriveFlows(snap.prev.Macro, snap.curr.Macro, &st)
	start := time.Now()
	timeline := diffuser.Simulate(flows.Flows)
	metrics.ObserveEngine(metrics.OpSimulate, start)

	h.logger.Info("simulated",
		zap.String("from", snap.fromTitle),
		zap.String("to", snap.toTitle),
		zap.Int("flows", len(flows.Flows)),
		zap.Int("steps", len(timeline)))

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="timeline.csv"`)
		c.Status(http.StatusOK)
		if err := diffusion.WriteTimeline(c.Writer, timeline); err != nil {
			h.logger.Error("write timeline csv", zap.Error(err))
		}
		return
	}

	c.JSON(http.StatusOK, models.SimulateResponse{
		Baseline: baseline,
		State:    st,
		Flows:    flows,
		Timeline: timeline,
		Report:   report.Compare(snap.fromTitle+" → "+snap.toTitle, baseline, st, report.DefaultFocus),
	})
}
