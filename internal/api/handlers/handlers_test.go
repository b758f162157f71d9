package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"impact-engine/internal/api/models"
	"impact-engine/internal/data"
	"impact-engine/internal/flow"
	"impact-engine/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Register(r.Group("/api/v1"))
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorDetail {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

// flowsBody mirrors FlowsResponse without the polymorphic payload.
type flowsBody struct {
	Flows []struct {
		From   string       `json:"from"`
		To     string       `json:"to"`
		Type   string       `json:"type"`
		Impact model.Impact `json:"impact"`
	} `json:"flows"`
	Lines      []string             `json:"lines"`
	Network    model.FlowNetwork    `json:"network"`
	Indicators model.FlowIndicators `json:"indicators"`
	Summary    struct {
		Total int `json:"total"`
	} `json:"summary"`
}

func TestListMacroVariables(t *testing.T) {
	r := newRouter(New(Options{}))

	w := do(t, r, http.MethodGet, "/api/v1/macro-variables", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all models.MacroVariablesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all.Variables, len(data.DefaultCatalog()))

	w = do(t, r, http.MethodGet, "/api/v1/macro-variables?category=MONETARY_POLICY", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mp models.MacroVariablesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mp))
	require.NotEmpty(t, mp.Variables)
	ids := []string{}
	for _, v := range mp.Variables {
		assert.Equal(t, model.CategoryMonetaryPolicy, v.Category)
		ids = append(ids, v.ID)
	}
	assert.Contains(t, ids, model.VarFedFundsRate)
}

func TestListScenarios(t *testing.T) {
	r := newRouter(New(Options{}))
	w := do(t, r, http.MethodGet, "/api/v1/scenarios", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ScenarioListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Scenarios, 5)
	assert.Equal(t, "baseline", resp.Scenarios[0].Name)
}

func TestPropagate_Scenario(t *testing.T) {
	r := newRouter(New(Options{}))
	w := do(t, r, http.MethodPost, "/api/v1/propagate", models.PropagateRequest{Scenario: "fed_hike_50bps"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.PropagateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 0.0575, resp.State.Level1[model.VarFedFundsRate], 1e-12)
	require.NotEmpty(t, resp.Rankings)
	assert.Equal(t, 1, resp.Rankings[0].Rank)
	assert.Equal(t, "COIN", resp.Rankings[0].Ticker)
	assert.Len(t, resp.Rankings, resp.Counts["company"])
	assert.NotEmpty(t, resp.Sectors)
}

func TestPropagate_MacroOverlaysScenario(t *testing.T) {
	r := newRouter(New(Options{}))
	w := do(t, r, http.MethodPost, "/api/v1/propagate", models.PropagateRequest{
		Scenario: "crisis_2008",
		Macro:    model.MacroState{model.VarVIX: 30},
		Level0:   model.Level0{TariffRate: 25},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PropagateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 30.0, resp.State.Level1[model.VarVIX])
	assert.Equal(t, 0.0025, resp.State.Level1[model.VarFedFundsRate])
	assert.Equal(t, 25.0, resp.State.Level0.TariffRate)
}

func TestPropagate_Errors(t *testing.T) {
	r := newRouter(New(Options{}))

	w := do(t, r, http.MethodPost, "/api/v1/propagate", models.PropagateRequest{Scenario: "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SCENARIO_NOT_FOUND", decodeError(t, w).Code)

	w = do(t, r, http.MethodPost, "/api/v1/propagate", models.PropagateRequest{
		Companies: []model.Company{{Name: "No Ticker", Sector: model.SectorBanking}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_COMPANY", decodeError(t, w).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/propagate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, rec).Code)
}

func TestPropagate_ResultCache(t *testing.T) {
	cache := data.NewResultCache(time.Minute)
	r := newRouter(New(Options{Cache: cache}))
	body := models.PropagateRequest{Scenario: "inflation_2022"}

	first := do(t, r, http.MethodPost, "/api/v1/propagate", body)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, 1, cache.Len())

	second := do(t, r, http.MethodPost, "/api/v1/propagate", body)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, cache.Len())
}

func TestClearCache(t *testing.T) {
	cache := data.NewResultCache(time.Minute)
	r := newRouter(New(Options{Cache: cache}))
	for _, name := range []string{"inflation_2022", "crisis_2008"} {
		w := do(t, r, http.MethodPost, "/api/v1/propagate", models.PropagateRequest{Scenario: name})
		require.Equal(t, http.StatusOK, w.Code)
	}
	require.Equal(t, 2, cache.Len())

	w := do(t, r, http.MethodDelete, "/api/v1/cache", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.CacheClearResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Cleared)
	assert.Equal(t, 0, cache.Len())

	// No cache configured.
	w = do(t, newRouter(New(Options{})), http.MethodDelete, "/api/v1/cache", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Cleared)
}

func TestFlows_FedHike(t *testing.T) {
	r := newRouter(New(Options{}))
	w := do(t, r, http.MethodPost, "/api/v1/flows", models.FlowsRequest{From: "baseline", To: "fed_hike_50bps"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp flowsBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Flows, 3)
	assert.Equal(t, flow.FederalReserve, resp.Flows[0].From)
	assert.Equal(t, flow.BankingSector, resp.Flows[0].To)
	assert.Equal(t, model.ImpactPositive, resp.Flows[0].Impact)
	assert.Equal(t, model.ImpactNegative, resp.Flows[1].Impact)
	assert.Len(t, resp.Lines, 3)
	assert.Len(t, resp.Network.Nodes, 4)
	assert.Len(t, resp.Network.Edges, 3)
	assert.Equal(t, 3, resp.Summary.Total)
	assert.InDelta(t, 27.4/21.0, resp.Indicators.MoneyVelocity, 1e-9)
	assert.InDelta(t, 10, resp.Indicators.CreditMultiplier, 1e-9)
}

func TestFlows_IndicatorsFollowCurrentSnapshot(t *testing.T) {
	r := newRouter(New(Options{}))
	w := do(t, r, http.MethodPost, "/api/v1/flows", models.FlowsRequest{
		Current: model.MacroState{
			model.VarNominalGDP:    30,
			model.VarM2MoneySupply: 20,
			model.VarReserveRatio:  0,
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp flowsBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 1.5, resp.Indicators.MoneyVelocity, 1e-12)
	assert.Equal(t, 0.0, resp.Indicators.CreditMultiplier)
}

func TestFlows_NoChange(t *testing.T) {
	r := newRouter(New(Options{}))
	w := do(t, r, http.MethodPost, "/api/v1/flows", models.FlowsRequest{
		Previous: model.MacroState{model.VarVIX: 20},
		Current:  model.MacroState{model.VarVIX: 20},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp flowsBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Flows)
	assert.Equal(t, 0, resp.Summary.Total)
}

func TestSimulate(t *testing.T) {
	r := newRouter(New(Options{}))
	req := models.SimulateRequest{
		FlowsRequest: models.FlowsRequest{From: "baseline", To: "fed_hike_50bps"},
		Steps:        5,
	}
	w := do(t, r, http.MethodPost, "/api/v1/simulate", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		State    model.PropagationState `json:"state"`
		Timeline []struct {
			Step       int                        `json:"step"`
			NodeStates map[string]model.NodeState `json:"node_states"`
		} `json:"timeline"`
		Report []string `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Timeline, 5)
	for i, snap := range resp.Timeline {
		assert.Equal(t, i, snap.Step)
	}
	assert.Greater(t, resp.Timeline[4].NodeStates[flow.BankingSector].Value, 1.0)
	assert.NotEmpty(t, resp.Report)
	assert.InDelta(t, 0.0575, resp.State.Level1[model.VarFedFundsRate], 1e-12)
}

func TestSimulate_CSV(t *testing.T) {
	r := newRouter(New(Options{}))
	req := models.SimulateRequest{
		FlowsRequest: models.FlowsRequest{From: "baseline", To: "fed_hike_50bps"},
		Steps:        2,
	}
	w := do(t, r, http.MethodPost, "/api/v1/simulate?format=csv", req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "step,timestamp,node,"))
}

func TestSimulate_InvalidDamping(t *testing.T) {
	r := newRouter(New(Options{}))
	req := models.SimulateRequest{DampingFactor: 1.5}
	w := do(t, r, http.MethodPost, "/api/v1/simulate", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PARAMS", decodeError(t, w).Code)
}

func TestRank(t *testing.T) {
	r := newRouter(New(Options{}))

	w := do(t, r, http.MethodGet, "/api/v1/rank?scenario=fed_hike_50bps&limit=3", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.RankResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fed_hike_50bps", resp.Scenario)
	require.Len(t, resp.Rankings, 3)
	assert.Equal(t, "COIN", resp.Rankings[0].Ticker)
	assert.Equal(t, 3, resp.Rankings[2].Rank)

	w = do(t, r, http.MethodGet, "/api/v1/rank", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/rank?scenario=nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
