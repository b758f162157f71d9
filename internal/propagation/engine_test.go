package propagation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impact-engine/internal/data"
	"impact-engine/internal/model"
)

func baseShock() model.Shock {
	return model.Shock{Companies: data.DefaultCompanies()}
}

func fedShock(bps float64) model.Shock {
	s := baseShock()
	s.Macro = model.MacroState{model.VarFedFundsRate: 0.0525 + bps/10000}
	return s
}

func TestPropagateAllLevels_Deterministic(t *testing.T) {
	e := NewDefault()
	shock := fedShock(50)
	shock.Level0 = model.Level0{TariffRate: 30, EnergyCostIndex: 120}

	first := e.PropagateAllLevels(shock)
	second := e.PropagateAllLevels(shock)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("propagation not deterministic (-first +second):\n%s", diff)
	}

	other := NewDefault().PropagateAllLevels(shock)
	if diff := cmp.Diff(first, other); diff != "" {
		t.Fatalf("separate engines disagree (-first +other):\n%s", diff)
	}
}

func TestPropagateAllLevels_BaselineIsNeutral(t *testing.T) {
	st := NewDefault().PropagateAllLevels(baseShock())

	require.Len(t, st.Level2, len(data.DefaultSectorCoefficients()))
	for sector, ss := range st.Level2 {
		assert.InDelta(t, 0, ss.RevenueImpact, 1e-9, "revenue %s", sector)
		assert.InDelta(t, 0, ss.MarginImpact, 1e-9, "margin %s", sector)
		assert.InDelta(t, 0, ss.ValuationImpact, 1e-9, "valuation %s", sector)
	}
	jpm := st.Level3["JPM"]
	assert.InDelta(t, 162400, jpm.Revenue, 1e-6)
	assert.InDelta(t, 570000, jpm.MarketCap, 1e-6)
	assert.InDelta(t, 0, jpm.RevenueChangePct, 1e-9)

	h100 := st.Level4["H100"]
	assert.InDelta(t, 85, h100.DemandIndex, 1e-9)
	assert.InDelta(t, 1000, h100.Volume, 1e-9)

	assert.Equal(t, model.DefaultContainerRate, st.Level0.ContainerRate)
	assert.Equal(t, model.DefaultTariffRate, st.Level0.TariffRate)
	assert.Equal(t, model.DefaultEnergyCostIndex, st.Level0.EnergyCostIndex)
}

func TestPropagateAllLevels_FedHike(t *testing.T) {
	st := NewDefault().PropagateAllLevels(fedShock(50))

	pct := 0.005 / 0.0525 * 100
	assert.InDelta(t, 0.95*pct, st.Level2[model.SectorBanking].RevenueImpact, 1e-9)
	assert.InDelta(t, -0.70*pct, st.Level2[model.SectorSemiconductor].RevenueImpact, 1e-9)
	assert.Less(t, st.Level2[model.SectorRealEstate].RevenueImpact, 0.0)
	assert.InDelta(t, -2.5, st.Level2[model.SectorBanking].ValuationImpact, 1e-9)
	assert.Greater(t, st.Level2[model.SectorBanking].MarginImpact, 0.0)
	assert.Less(t, st.Level2[model.SectorCrypto].MarginImpact, 0.0)

	nvda := st.Level3["NVDA"]
	assert.InDelta(t, -0.70*pct*1.7, nvda.CompositeImpact, 1e-9)
	assert.InDelta(t, -0.70*pct, nvda.RevenueChangePct, 1e-9)
	assert.Less(t, nvda.MarketCap, 1200000.0)

	h100 := st.Level4["H100"]
	growth := -0.70 * pct / 100 * 1.2
	assert.InDelta(t, 85*(1+growth), h100.DemandIndex, 1e-9)
	assert.InDelta(t, 1000*(1+growth*0.7), h100.Volume, 1e-9)
	assert.InDelta(t, 10000*(1+growth*0.3), h100.Price, 1e-9)
	assert.InDelta(t, growth*100, h100.DemandChangePct, 1e-9)
}

func TestPropagateAllLevels_MissingAndUnknownMacro(t *testing.T) {
	e := NewDefault()
	shock := baseShock()
	shock.Macro = model.MacroState{"not_a_variable": 42}

	st := e.PropagateAllLevels(shock)
	assert.Equal(t, 42.0, st.Level1["not_a_variable"])
	assert.Equal(t, 0.0525, st.Level1[model.VarFedFundsRate])
	assert.Equal(t, 15.0, st.Level1[model.VarVIX])

	// Out-of-range values pass through unclamped.
	shock.Macro = model.MacroState{model.VarVIX: 500}
	st = e.PropagateAllLevels(shock)
	assert.Equal(t, 500.0, st.Level1[model.VarVIX])
}

func TestPropagateAllLevels_Level0Overlay(t *testing.T) {
	shock := baseShock()
	shock.Macro = model.MacroState{model.VarTariffRate: 22}
	st := NewDefault().PropagateAllLevels(shock)
	assert.Equal(t, 22.0, st.Level1[model.VarTariffRate], "macro value kept when level0 is unset")

	shock.Level0 = model.Level0{TariffRate: 29, ContainerRate: 5000}
	st = NewDefault().PropagateAllLevels(shock)
	assert.Equal(t, 29.0, st.Level1[model.VarTariffRate])
	assert.Equal(t, 5000.0, st.Level1[model.VarContainerRate])
	assert.Equal(t, 29.0, st.Level0.TariffRate)
	assert.Less(t, st.Level2[model.SectorManufacturing].RevenueImpact, 0.0)
	assert.Less(t, st.Level2[model.SectorSemiconductor].MarginImpact, st.Level2[model.SectorBanking].MarginImpact)
}

func TestPropagateAllLevels_UnknownEntitiesOmitted(t *testing.T) {
	shock := model.Shock{Companies: []model.Company{
		{Ticker: "JPM", Name: "JPMorgan Chase", Sector: model.SectorBanking, Financials: model.Financials{Revenue: 100}},
		{Ticker: "PFE", Name: "Pfizer", Sector: "HEALTHCARE", Financials: model.Financials{Revenue: 100}},
	}}
	st := NewDefault().PropagateAllLevels(shock)

	assert.Contains(t, st.Level3, "JPM")
	assert.NotContains(t, st.Level3, "PFE")
	assert.Empty(t, st.Level4)
	assert.Empty(t, st.Level5)
	assert.Empty(t, st.Level6)
	assert.Empty(t, st.Level7)
	assert.Empty(t, st.Level8)
	assert.Empty(t, st.Level9)
}

func TestPropagateAllLevels_ZeroRevenue(t *testing.T) {
	shock := fedShock(25)
	shock.Companies = []model.Company{{Ticker: "NEW", Sector: model.SectorBanking}}
	st := NewDefault().PropagateAllLevels(shock)

	require.Contains(t, st.Level3, "NEW")
	assert.Equal(t, 0.0, st.Level3["NEW"].RevenueChangePct)
	assert.Equal(t, 0.0, st.Level3["NEW"].Margin)
}

func TestLevel5_BottleneckMatchesSupply(t *testing.T) {
	st := NewDefault().PropagateAllLevels(baseShock())
	require.NotEmpty(t, st.Level5)
	for id, cs := range st.Level5 {
		assert.Equal(t, cs.RequiredQuantity > cs.SupplyIndex, cs.Bottleneck, id)
	}
	// 1000 H100 × 6 + 1000 AZURE_AI × 0.5
	assert.InDelta(t, 6500, st.Level5["HBM3E"].RequiredQuantity, 1e-9)
	assert.False(t, st.Level5["HBM3E"].Bottleneck)
}

func TestLevel5_SupplyBelowRequirementFlipsOnlyThatComponent(t *testing.T) {
	baseline := NewDefault().PropagateAllLevels(baseShock())

	tables := data.DefaultTables()
	require.True(t, tables.SetSupplyIndex("HBM3E", 6499))
	shocked := New(tables).PropagateAllLevels(baseShock())

	assert.False(t, baseline.Level5["HBM3E"].Bottleneck)
	assert.True(t, shocked.Level5["HBM3E"].Bottleneck)
	assert.Less(t, shocked.Level5["HBM3E"].ConstraintImpact, 0.0)
	assert.Greater(t, shocked.Level5["HBM3E"].PriceIndex, baseline.Level5["HBM3E"].PriceIndex)
	for id, cs := range baseline.Level5 {
		if id == "HBM3E" {
			continue
		}
		assert.Equal(t, cs.Bottleneck, shocked.Level5[id].Bottleneck, id)
	}

	// One extra bottleneck adds 10 to AI investment downstream.
	assert.InDelta(t, baseline.Level6["AI_TECH"].AIInvestment+10, shocked.Level6["AI_TECH"].AIInvestment, 1e-9)
	assert.Greater(t, shocked.Level6["AI_TECH"].RDMultiplier, 1.0)
}

func TestLevel5_RequirementAboveSupply(t *testing.T) {
	tables := data.DefaultTables()
	for i, r := range tables.Relationships {
		if req, ok := r.(model.Requires); ok && req.Product == "H100" && req.Component == "CoWoS" {
			req.Ratio = 15.001
			tables.Relationships[i] = req
		}
	}
	st := New(tables).PropagateAllLevels(baseShock())
	assert.True(t, st.Level5["CoWoS"].Bottleneck)
	assert.False(t, st.Level5["HBM3E"].Bottleneck)
	assert.False(t, st.Level5["DRAM"].Bottleneck)
}

func TestLevel7Through9_Defaults(t *testing.T) {
	st := NewDefault().PropagateAllLevels(baseShock())

	nvda := st.Level7["NVDA"]
	assert.InDelta(t, 73, nvda.InstitutionalOwnershipPct, 1e-9)
	assert.InDelta(t, 100, nvda.InsiderBuyingIndex, 1e-9)
	assert.InDelta(t, 0.73, nvda.GovernanceQuality, 1e-9)
	assert.InDelta(t, 0.73*0.6+0.5*0.4, nvda.AllocationPriority, 1e-9)
	for _, o := range st.Level7 {
		assert.GreaterOrEqual(t, o.InstitutionalOwnershipPct, 40.0)
		assert.LessOrEqual(t, o.InstitutionalOwnershipPct, 85.0)
	}

	for _, c := range st.Level8 {
		assert.LessOrEqual(t, c.PurchaseUrgency, 1.0)
		assert.Greater(t, c.OrderVolumeMultiplier, 1.0)
	}

	fab := st.Level9["TSMC_FAB18"]
	assert.Equal(t, 100.0, fab.Capacity)
	assert.Equal(t, 1.0, fab.UtilizationPct)
	assert.True(t, fab.CapacityConstraint)
	assert.InDelta(t, 5, fab.MarginExpansion, 1e-9)
	assert.Equal(t, 10.0, fab.CapexRequirement)
	assert.Equal(t, 75.0, fab.BuildoutRate)

	dc := st.Level9["HYPERSCALER_DC_VA"]
	assert.False(t, dc.CapacityConstraint)
	assert.Equal(t, 0.0, dc.CapexRequirement)
	assert.Equal(t, 20.0, dc.BuildoutRate)
}

func TestLinkage_UserWeightClampedAtUse(t *testing.T) {
	over := data.DefaultTables()
	require.Equal(t, 1, over.SetUserWeight("fed_funds_rate", string(model.SectorBanking), 5))
	capped := data.DefaultTables()
	capped.SetUserWeight("fed_funds_rate", string(model.SectorBanking), 2)

	a := New(over).PropagateAllLevels(fedShock(50))
	b := New(capped).PropagateAllLevels(fedShock(50))
	assert.InDelta(t, b.Level2[model.SectorBanking].RevenueImpact, a.Level2[model.SectorBanking].RevenueImpact, 1e-12)
}

func TestPercentDelta(t *testing.T) {
	e := NewDefault()
	assert.InDelta(t, 10, e.PercentDelta(model.VarWTIOil, 85.8), 1e-9)
	assert.InDelta(t, -5, e.PercentDelta(model.VarM2MoneySupply, 19.95), 1e-9)
	// Unknown id: default 0, raw delta.
	assert.Equal(t, 3.0, e.PercentDelta("unknown", 3))
	// Negative default uses its magnitude.
	assert.InDelta(t, 100, e.PercentDelta("boj_rate", 0), 1e-9)
}
