package flow

import (
	"fmt"
	"math"
	"time"

	"impact-engine/internal/data"
	"impact-engine/internal/model"
)

// Context is the immutable input a Chain reads.
type Context struct {
	Prev    model.MacroState
	Curr    model.MacroState
	State   *model.PropagationState // optional
	Catalog data.Catalog
	Now     time.Time
}

func (c Context) values(id string) (prev, curr float64) {
	def := c.Catalog.Default(id)
	return c.Prev.Get(id, def), c.Curr.Get(id, def)
}

// Chain emits the flows caused by a change in one macro variable.
type Chain interface {
	Name() string
	Variable() string
	Emit(ctx Context) []model.EconomicFlow
}

// Edge is one fixed hop of a causal chain.
type Edge struct {
	From       string
	To         string
	Type       model.FlowType
	Scale      float64
	Invert     bool
	Multiplier float64
	// RisingOnly edges fire only for a positive delta.
	RisingOnly bool
	Describe   func(delta float64) string
}

// EdgeChain fires its edges, in order, when |delta| exceeds Threshold.
type EdgeChain struct {
	ChainName string
	Var       string
	Threshold float64
	Delta     func(prev, curr float64) float64
	Edges     []Edge
	// Requires gates the chain on the propagation state. Nil means always.
	Requires func(st *model.PropagationState) bool
}

func (c *EdgeChain) Name() string     { return c.ChainName }
func (c *EdgeChain) Variable() string { return c.Var }

func (c *EdgeChain) Emit(ctx Context) []model.EconomicFlow {
	prev, curr := ctx.values(c.Var)
	delta := c.Delta(prev, curr)
	if math.IsNaN(delta) || math.Abs(delta) <= c.Threshold {
		return nil
	}
	if c.Requires != nil && !c.Requires(ctx.State) {
		return nil
	}

	out := make([]model.EconomicFlow, 0, len(c.Edges))
	for i, e := range c.Edges {
		if e.RisingOnly && delta <= 0 {
			continue
		}
		impact := model.ImpactFromDelta(delta)
		if e.Invert {
			impact = impact.Invert()
		}
		desc := ""
		if e.Describe != nil {
			desc = e.Describe(delta)
		}
		out = append(out, model.EconomicFlow{
			ID:          flowID(c.ChainName, i, e.From, e.To, ctx.Now),
			From:        e.From,
			To:          e.To,
			Type:        e.Type,
			Magnitude:   math.Abs(delta) * e.Scale,
			Impact:      impact,
			Multiplier:  e.Multiplier,
			Description: desc,
			Timestamp:   ctx.Now,
			Payload:     payloadFor(e.Type, c.Var, delta),
		})
	}
	return out
}

func payloadFor(t model.FlowType, variable string, delta float64) model.FlowPayload {
	switch t {
	case model.FlowPolicy:
		return model.PolicyPayload{RateDeltaBps: delta * 10000}
	case model.FlowCredit:
		return model.CreditPayload{LendingRateDeltaBps: delta * 10000}
	case model.FlowMonetary:
		return model.MonetaryPayload{SupplyChangePct: delta * 100}
	case model.FlowTrade:
		return model.TradePayload{GrowthDelta: delta}
	case model.FlowInvestment:
		return model.InvestmentPayload{Driver: variable, DriverChange: delta}
	default:
		return nil
	}
}

// Delta definitions.
func absoluteDelta(prev, curr float64) float64 { return curr - prev }

func relativeDelta(prev, curr float64) float64 {
	if prev == 0 {
		return 0
	}
	return (curr - prev) / prev
}

func pointsDelta(prev, curr float64) float64 { return (curr - prev) / 100 }

// Entity names used by the built-in chains.
const (
	FederalReserve     = "Federal Reserve"
	BankingSector      = "Banking Sector"
	CorporateSector    = "Corporate Sector"
	ConsumerSector     = "Consumer Sector"
	MoneySupply        = "Money Supply (M2)"
	EquityMarkets      = "Equity Markets"
	CryptoMarkets      = "Crypto Markets"
	RealEstate         = "Real Estate"
	GDPGrowth          = "GDP Growth"
	CorporateEarnings  = "Corporate Earnings"
	Employment         = "Employment"
	MarketVolatility   = "Market Volatility (VIX)"
	RiskAssets         = "Risk Assets"
	SafeHavens         = "Safe Havens (Bonds, Gold)"
	TechnologySector   = "Technology Sector"
	SemiconductorIndus = "Semiconductor Industry"
)

func upDown(delta float64, up, down string) string {
	if delta > 0 {
		return up
	}
	return down
}

func RateChain() *EdgeChain {
	bps := func(d float64) float64 { return math.Abs(d) * 10000 }
	return &EdgeChain{
		ChainName: "policy-rate",
		Var:       model.VarFedFundsRate,
		Threshold: 0.0001,
		Delta:     absoluteDelta,
		Edges: []Edge{
			{From: FederalReserve, To: BankingSector, Type: model.FlowPolicy, Scale: 100, Multiplier: 15.0,
				Describe: func(d float64) string {
					return fmt.Sprintf("Fed %s rates by %.1f bps → Bank NIM %s", upDown(d, "raised", "cut"), bps(d), upDown(d, "expands", "contracts"))
				}},
			{From: BankingSector, To: CorporateSector, Type: model.FlowCredit, Scale: 80, Invert: true, Multiplier: -10.0,
				Describe: func(d float64) string {
					return fmt.Sprintf("%s lending rates → %s corporate borrowing", upDown(d, "Higher", "Lower"), upDown(d, "Reduced", "Increased"))
				}},
			{From: CorporateSector, To: ConsumerSector, Type: model.FlowTrade, Scale: 50, Invert: true, Multiplier: -5.0,
				Describe: func(d float64) string {
					return fmt.Sprintf("%s corporate costs → %s consumer prices", upDown(d, "Higher", "Lower"), upDown(d, "Higher", "Lower"))
				}},
		},
	}
}

func LiquidityChain() *EdgeChain {
	pct := func(d float64) string { return fmt.Sprintf("%.1f%%", math.Abs(d)*100) }
	return &EdgeChain{
		ChainName: "money-supply",
		Var:       model.VarM2MoneySupply,
		Threshold: 0.001,
		Delta:     relativeDelta,
		Edges: []Edge{
			{From: FederalReserve, To: MoneySupply, Type: model.FlowMonetary, Scale: 100, Multiplier: 1.0,
				Describe: func(d float64) string {
					return fmt.Sprintf("M2 %s by %s → Liquidity %s", upDown(d, "grew", "contracted"), pct(d), upDown(d, "injection", "drain"))
				}},
			{From: MoneySupply, To: EquityMarkets, Type: model.FlowInvestment, Scale: 150, Multiplier: 30.0,
				Describe: func(d float64) string { return "Liquidity " + upDown(d, "flows into", "leaves") + " equities" }},
			{From: MoneySupply, To: CryptoMarkets, Type: model.FlowInvestment, Scale: 200, Multiplier: 40.0,
				Describe: func(d float64) string { return "Speculative capital " + upDown(d, "flows into", "leaves") + " crypto" }},
			{From: MoneySupply, To: RealEstate, Type: model.FlowInvestment, Scale: 100, Multiplier: 20.0,
				Describe: func(d float64) string { return "Asset inflation " + upDown(d, "lifts", "weighs on") + " real estate" }},
		},
	}
}

func GrowthChain() *EdgeChain {
	return &EdgeChain{
		ChainName: "gdp-growth",
		Var:       model.VarGDPGrowth,
		Threshold: 0.001,
		Delta:     pointsDelta,
		Edges: []Edge{
			{From: GDPGrowth, To: CorporateEarnings, Type: model.FlowTrade, Scale: 100, Multiplier: 25.0,
				Describe: func(d float64) string {
					return fmt.Sprintf("GDP growth %s by %.2f pp → Corporate earnings %s", upDown(d, "accelerated", "slowed"), math.Abs(d)*100, upDown(d, "rise", "fall"))
				}},
			{From: CorporateEarnings, To: Employment, Type: model.FlowTrade, Scale: 80, Multiplier: 15.0,
				Describe: func(d float64) string { return "Hiring " + upDown(d, "expands", "contracts") + " with earnings" }},
		},
	}
}

func VolatilityChain() *EdgeChain {
	return &EdgeChain{
		ChainName: "volatility",
		Var:       model.VarVIX,
		Threshold: 0.01,
		Delta:     pointsDelta,
		Edges: []Edge{
			{From: MarketVolatility, To: RiskAssets, Type: model.FlowInvestment, Scale: 100, Invert: true, Multiplier: -20.0,
				Describe: func(d float64) string {
					return fmt.Sprintf("VIX %s %.1f pts → Risk %s", upDown(d, "up", "down"), math.Abs(d)*100, upDown(d, "off", "on"))
				}},
			{From: RiskAssets, To: SafeHavens, Type: model.FlowInvestment, Scale: 120, Multiplier: 15.0, RisingOnly: true,
				Describe: func(float64) string { return "Flight to safety → Bonds and gold bid" }},
		},
	}
}

var techTickers = []string{"NVDA", "AAPL", "TSM"}

// TechLiquidityChain routes strong M2 growth into the technology sector
// when the company level holds a large-cap tech name.
func TechLiquidityChain() *EdgeChain {
	return &EdgeChain{
		ChainName: "tech-liquidity",
		Var:       model.VarM2MoneySupply,
		Threshold: 0.01,
		Delta:     relativeDelta,
		Edges: []Edge{
			{From: MoneySupply, To: TechnologySector, Type: model.FlowInvestment, Scale: 180, Multiplier: 35.0, RisingOnly: true,
				Describe: func(float64) string { return "Excess liquidity chases AI and big tech" }},
		},
		Requires: func(st *model.PropagationState) bool {
			if st == nil {
				return false
			}
			for _, t := range techTickers {
				if _, ok := st.Level3[t]; ok {
					return true
				}
			}
			return false
		},
	}
}

// SemiconductorGrowthChain routes strong GDP acceleration into chip demand
// when the component level is populated.
func SemiconductorGrowthChain() *EdgeChain {
	return &EdgeChain{
		ChainName: "semiconductor-growth",
		Var:       model.VarGDPGrowth,
		Threshold: 0.01,
		Delta:     pointsDelta,
		Edges: []Edge{
			{From: GDPGrowth, To: SemiconductorIndus, Type: model.FlowTrade, Scale: 200, Multiplier: 40.0, RisingOnly: true,
				Describe: func(float64) string { return "Growth lifts chip demand → Component orders rise" }},
		},
		Requires: func(st *model.PropagationState) bool {
			return st != nil && len(st.Level5) > 0
		},
	}
}

// DefaultChains returns the built-in chains in emission order.
func DefaultChains() []Chain {
	return []Chain{
		RateChain(),
		LiquidityChain(),
		GrowthChain(),
		VolatilityChain(),
		TechLiquidityChain(),
		SemiconductorGrowthChain(),
	}
}
