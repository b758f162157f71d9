package flow

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impact-engine/internal/model"
)

var fixedNow = time.Date(2024, 3, 20, 14, 0, 0, 0, time.UTC)

func newTestDeriver() *Deriver {
	return NewDeriver(Options{Now: func() time.Time { return fixedNow }})
}

func TestDerive_NoChangeNoFlows(t *testing.T) {
	d := newTestDeriver()
	macro := model.MacroState{
		model.VarFedFundsRate:  0.06,
		model.VarM2MoneySupply: 20,
		model.VarGDPGrowth:     1.1,
		model.VarVIX:           40,
	}
	flows := d.Derive(macro, macro.Clone(), nil)
	require.NotNil(t, flows)
	assert.Empty(t, flows)

	assert.Empty(t, d.Derive(nil, nil, nil))
}

func TestDerive_PolicyRateHike(t *testing.T) {
	flows := newTestDeriver().Derive(
		model.MacroState{model.VarFedFundsRate: 0.0525},
		model.MacroState{model.VarFedFundsRate: 0.0550},
		nil,
	)
	require.Len(t, flows, 3)

	fed := flows[0]
	assert.Equal(t, FederalReserve, fed.From)
	assert.Equal(t, BankingSector, fed.To)
	assert.Equal(t, model.FlowPolicy, fed.Type)
	assert.Equal(t, model.ImpactPositive, fed.Impact)
	assert.InDelta(t, 0.25, fed.Magnitude, 1e-9)
	assert.Equal(t, 15.0, fed.Multiplier)
	assert.Equal(t, "Fed raised rates by 25.0 bps → Bank NIM expands", fed.Description)
	payload, ok := fed.Payload.(model.PolicyPayload)
	require.True(t, ok)
	assert.InDelta(t, 25, payload.RateDeltaBps, 1e-9)

	bank := flows[1]
	assert.Equal(t, BankingSector, bank.From)
	assert.Equal(t, CorporateSector, bank.To)
	assert.Equal(t, model.ImpactNegative, bank.Impact)
	assert.Equal(t, -10.0, bank.Multiplier)
	assert.InDelta(t, 0.2, bank.Magnitude, 1e-9)
	assert.IsType(t, model.CreditPayload{}, bank.Payload)
	assert.Equal(t, "Higher lending rates → Reduced corporate borrowing", bank.Description)

	corp := flows[2]
	assert.Equal(t, CorporateSector, corp.From)
	assert.Equal(t, ConsumerSector, corp.To)
	assert.Equal(t, model.ImpactNegative, corp.Impact)
	assert.Equal(t, -5.0, corp.Multiplier)
	assert.Equal(t, "Higher corporate costs → Higher consumer prices", corp.Description)

	for _, f := range flows {
		assert.Equal(t, fixedNow, f.Timestamp)
		assert.NotEmpty(t, f.ID)
	}
}

func TestDerive_PolicyRateCut(t *testing.T) {
	flows := newTestDeriver().Derive(
		model.MacroState{model.VarFedFundsRate: 0.0525},
		model.MacroState{model.VarFedFundsRate: 0.0500},
		nil,
	)
	require.Len(t, flows, 3)
	assert.Equal(t, model.ImpactNegative, flows[0].Impact)
	assert.Equal(t, model.ImpactPositive, flows[1].Impact)
	assert.Equal(t, model.ImpactPositive, flows[2].Impact)
	assert.Contains(t, flows[0].Description, "cut rates")
	assert.Equal(t, "Lower corporate costs → Lower consumer prices", flows[2].Description)
}

func TestDerive_BelowThresholdIgnored(t *testing.T) {
	flows := newTestDeriver().Derive(
		model.MacroState{model.VarFedFundsRate: 0.0525, model.VarVIX: 15},
		model.MacroState{model.VarFedFundsRate: 0.05255, model.VarVIX: 15.5},
		nil,
	)
	assert.Empty(t, flows)
}

func TestDerive_MoneySupplyContraction(t *testing.T) {
	flows := newTestDeriver().Derive(
		model.MacroState{model.VarM2MoneySupply: 21.0},
		model.MacroState{model.VarM2MoneySupply: 19.95},
		&model.PropagationState{Level3: map[string]model.CompanyState{"NVDA": {}}},
	)
	require.Len(t, flows, 4)

	byTarget := map[string]model.EconomicFlow{}
	for _, f := range flows {
		assert.Equal(t, model.ImpactNegative, f.Impact, f.To)
		byTarget[f.To] = f
	}
	assert.Equal(t, FederalReserve, flows[0].From)
	assert.Equal(t, MoneySupply, flows[0].To)
	assert.Equal(t, model.FlowMonetary, flows[0].Type)

	crypto, equities, re := byTarget[CryptoMarkets], byTarget[EquityMarkets], byTarget[RealEstate]
	assert.Greater(t, crypto.Magnitude, equities.Magnitude)
	assert.Greater(t, equities.Magnitude, re.Magnitude)
	assert.InDelta(t, 10, crypto.Magnitude, 1e-9)
	assert.InDelta(t, 7.5, equities.Magnitude, 1e-9)
	assert.InDelta(t, 5, re.Magnitude, 1e-9)
	assert.Equal(t, 40.0, crypto.Multiplier)
	assert.Equal(t, 30.0, equities.Multiplier)
	assert.Equal(t, 20.0, re.Multiplier)
	assert.Equal(t, 1.0, flows[0].Multiplier)
}

func TestDerive_MoneySupplyExpansionReachesTech(t *testing.T) {
	prev := model.MacroState{model.VarM2MoneySupply: 20}
	curr := model.MacroState{model.VarM2MoneySupply: 21}
	withTech := &model.PropagationState{Level3: map[string]model.CompanyState{"AAPL": {}}}

	flows := newTestDeriver().Derive(prev, curr, withTech)
	require.Len(t, flows, 5)
	last := flows[4]
	assert.Equal(t, TechnologySector, last.To)
	assert.Equal(t, model.ImpactPositive, last.Impact)
	assert.InDelta(t, 0.05*180, last.Magnitude, 1e-9)

	assert.Len(t, newTestDeriver().Derive(prev, curr, nil), 4)
}

func TestDerive_ZeroPreviousMoneySupply(t *testing.T) {
	flows := newTestDeriver().Derive(
		model.MacroState{model.VarM2MoneySupply: 0},
		model.MacroState{model.VarM2MoneySupply: 21},
		nil,
	)
	assert.Empty(t, flows)
}

func TestDerive_GrowthAndSemiconductors(t *testing.T) {
	prev := model.MacroState{model.VarGDPGrowth: 2.5}
	curr := model.MacroState{model.VarGDPGrowth: 4.0}
	st := &model.PropagationState{Level5: map[string]model.ComponentState{"HBM3E": {}}}

	flows := newTestDeriver().Derive(prev, curr, st)
	require.Len(t, flows, 3)
	assert.Equal(t, GDPGrowth, flows[0].From)
	assert.Equal(t, CorporateEarnings, flows[0].To)
	assert.InDelta(t, 1.5, flows[0].Magnitude, 1e-9)
	assert.Equal(t, Employment, flows[1].To)
	assert.InDelta(t, 1.2, flows[1].Magnitude, 1e-9)
	assert.Equal(t, SemiconductorIndus, flows[2].To)
	assert.InDelta(t, 3.0, flows[2].Magnitude, 1e-9)
	assert.Equal(t, 40.0, flows[2].Multiplier)
}

func TestDerive_VolatilitySafeHavenOnlyWhenRising(t *testing.T) {
	d := newTestDeriver()

	up := d.Derive(model.MacroState{model.VarVIX: 15}, model.MacroState{model.VarVIX: 30}, nil)
	require.Len(t, up, 2)
	assert.Equal(t, RiskAssets, up[0].To)
	assert.Equal(t, model.ImpactNegative, up[0].Impact)
	assert.Equal(t, -20.0, up[0].Multiplier)
	assert.Equal(t, SafeHavens, up[1].To)
	assert.Equal(t, model.ImpactPositive, up[1].Impact)
	assert.InDelta(t, 0.15*120, up[1].Magnitude, 1e-9)

	down := d.Derive(model.MacroState{model.VarVIX: 30}, model.MacroState{model.VarVIX: 15}, nil)
	require.Len(t, down, 1)
	assert.Equal(t, model.ImpactPositive, down[0].Impact)
}

func TestDerive_MissingValuesUseDefaults(t *testing.T) {
	flows := newTestDeriver().Derive(nil, model.MacroState{model.VarFedFundsRate: 0.0575}, nil)
	require.Len(t, flows, 3)
	assert.InDelta(t, 0.5, flows[0].Magnitude, 1e-9)
}

func TestDerive_Deterministic(t *testing.T) {
	prev := model.MacroState{model.VarFedFundsRate: 0.05, model.VarVIX: 15, model.VarM2MoneySupply: 21}
	curr := model.MacroState{model.VarFedFundsRate: 0.055, model.VarVIX: 25, model.VarM2MoneySupply: 22}

	a := newTestDeriver().Derive(prev, curr, nil)
	b := newTestDeriver().Derive(prev, curr, nil)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("derive not deterministic (-a +b):\n%s", diff)
	}

	ids := map[string]bool{}
	for _, f := range a {
		assert.False(t, ids[f.ID], "duplicate id %s", f.ID)
		ids[f.ID] = true
	}

	later := NewDeriver(Options{Now: func() time.Time { return fixedNow.Add(time.Second) }}).Derive(prev, curr, nil)
	assert.NotEqual(t, a[0].ID, later[0].ID)
}

func TestDerive_FreshSlicePerCall(t *testing.T) {
	d := newTestDeriver()
	prev := model.MacroState{model.VarFedFundsRate: 0.05}
	curr := model.MacroState{model.VarFedFundsRate: 0.06}

	a := d.Derive(prev, curr, nil)
	a[0].Magnitude = 999
	b := d.Derive(prev, curr, nil)
	assert.InDelta(t, 1.0, b[0].Magnitude, 1e-9)
}

func TestEconomicFlow_WithMagnitude(t *testing.T) {
	f := model.EconomicFlow{Magnitude: 2}
	g := f.WithMagnitude(1)
	assert.Equal(t, 2.0, f.Magnitude)
	assert.Equal(t, 1.0, g.Magnitude)
}
