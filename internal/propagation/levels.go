package propagation

import (
	"math"

	"impact-engine/internal/data"
	"impact-engine/internal/model"
)

// Level4 pricing: share of demand growth absorbed by price.
const priceElasticity = 0.3

// Level9 thresholds, as fractions of capacity.
const (
	ConstraintThreshold      = 0.95
	marginExpansionThreshold = 0.90
)

var demandElasticity = map[model.ProductType]float64{
	model.ProductAIGPU:      1.2,
	model.ProductSmartphone: 0.8,
}

// level1 overlays macro onto the catalog defaults, then any non-zero
// Level0 trade scalars onto their macro counterparts.
func (e *Engine) level1(l0 model.Level0, macro model.MacroState) model.MacroState {
	out := e.tables.Catalog.Defaults()
	for id, v := range macro {
		out[id] = v
	}
	if l0.ContainerRate != 0 {
		out[model.VarContainerRate] = l0.ContainerRate
	}
	if l0.TariffRate != 0 {
		out[model.VarTariffRate] = l0.TariffRate
	}
	return out
}

func (e *Engine) macroSignal(l1 model.MacroState, id string) float64 {
	def := e.tables.Catalog.Default(id)
	return percentDelta(l1.Get(id, def), def)
}

func (e *Engine) level2(l0 model.Level0, l1 model.MacroState) map[model.Sector]model.SectorState {
	cat := e.tables.Catalog
	get := func(id string) float64 { return l1.Get(id, cat.Default(id)) }

	rateDelta := get(model.VarFedFundsRate) - cat.Default(model.VarFedFundsRate)
	inflationDelta := get(model.VarCPI) - cat.Default(model.VarCPI)
	oilDelta := fraction(get(model.VarWTIOil), cat.Default(model.VarWTIOil))
	vixDelta := fraction(get(model.VarVIX), cat.Default(model.VarVIX))
	m2Delta := fraction(get(model.VarM2MoneySupply), cat.Default(model.VarM2MoneySupply))
	tariffDelta := get(model.VarTariffRate) - cat.Default(model.VarTariffRate)
	energy := l0.EnergyCostIndex

	// Valuation is sector independent; bps.
	valuation := -rateDelta*500 - vixDelta*300 + m2Delta*200

	out := make(map[model.Sector]model.SectorState, len(e.tables.Sectors))
	for _, sc := range e.tables.Sectors {
		revenue := 0.0
		for _, l := range e.linksByTarget[string(sc.Sector)] {
			revenue += l.Contribution(e.macroSignal(l1, l.Macro))
		}

		pricing := sc.PricingPower
		if pricing == 0 {
			pricing = data.DefaultPricingPower
		}
		// CPI is in percentage points; the other terms are fractions.
		margin := (rateDelta*sc.RateSensitivity -
			inflationDelta/100*(1-pricing) -
			oilDelta*sc.CommoditySensitivity -
			(energy-100)/100*0.15 -
			tariffDelta*0.01*sc.TariffExposure) * 100

		out[sc.Sector] = model.SectorState{
			Sector:          sc.Sector,
			RevenueImpact:   revenue,
			MarginImpact:    margin,
			ValuationImpact: valuation,
		}
	}
	return out
}

// fraction is (v-def)/|def|, 0 when def is 0.
func fraction(v, def float64) float64 {
	return ratio(v-def, abs(def))
}

func (e *Engine) level3(l2 map[model.Sector]model.SectorState, companies []model.Company) map[string]model.CompanyState {
	out := make(map[string]model.CompanyState, len(companies))
	for _, c := range companies {
		ss, ok := l2[c.Sector]
		if !ok {
			continue
		}
		base := c.Financials.Revenue
		revenue := base * (1 + ss.RevenueImpact/100)
		change := 0.0
		if base != 0 {
			change = (revenue - base) / base * 100
		}
		composite := ss.RevenueImpact * c.EffectiveBeta()
		out[c.Ticker] = model.CompanyState{
			Ticker:           c.Ticker,
			Company:          c.Name,
			Sector:           c.Sector,
			Revenue:          revenue,
			Margin:           c.BaselineMargin() * (1 + ss.MarginImpact/100),
			MarketCap:        c.BaselineMarketCap() * (1 + composite/100) * (1 + ss.ValuationImpact/10000),
			RevenueChangePct: change,
			CompositeImpact:  composite,
		}
	}
	return out
}

func (e *Engine) level4(l3 map[string]model.CompanyState) map[string]model.ProductState {
	out := map[string]model.ProductState{}
	for _, p := range e.tables.Products {
		owner, ok := l3[p.Owner]
		if !ok {
			continue
		}
		elasticity, ok := demandElasticity[p.Type]
		if !ok {
			elasticity = 1.0
		}
		growth := owner.RevenueChangePct / 100 * elasticity
		price := p.BasePrice * (1 + growth*priceElasticity)
		volume := p.BaseVolume * (1 + growth*(1-priceElasticity))
		out[p.ID] = model.ProductState{
			Product:         p.ID,
			Type:            p.Type,
			DemandIndex:     p.BaseDemandIndex * (1 + growth),
			Price:           price,
			Volume:          volume,
			Revenue:         price * volume,
			DemandChangePct: growth * 100,
		}
	}
	return out
}

func (e *Engine) level5(l4 map[string]model.ProductState) map[string]model.ComponentState {
	out := map[string]model.ComponentState{}
	for _, c := range e.tables.Components {
		required, present := 0.0, false
		for _, r := range e.requiresByComponent[c.ID] {
			p, ok := l4[r.Product]
			if !ok {
				continue
			}
			present = true
			required += p.Volume * r.Ratio
		}
		if !present {
			continue
		}
		u := ratio(required, c.SupplyIndex)
		constraint := 0.0
		switch {
		case u > 1:
			constraint = -(u - 1) * 0.5
		case u > 0.8:
			constraint = -(u - 0.8) * 0.2
		}
		out[c.ID] = model.ComponentState{
			Component:        c.ID,
			RequiredQuantity: required,
			SupplyIndex:      c.SupplyIndex,
			Utilization:      u,
			Bottleneck:       required > c.SupplyIndex,
			ConstraintImpact: constraint,
			PriceIndex:       c.BasePriceIndex * (1 + math.Max(0, u-0.8)*0.5),
		}
	}
	return out
}

func (e *Engine) level6(l1 model.MacroState, l5 map[string]model.ComponentState) map[string]model.TechnologyState {
	out := map[string]model.TechnologyState{}
	for _, t := range e.tables.Technologies {
		score, bottlenecks, present := 0.0, 0, false
		for _, u := range e.usesByTechnology[t.ID] {
			cs, ok := l5[u.Component]
			if !ok {
				continue
			}
			present = true
			if cs.Bottleneck {
				bottlenecks++
			}
			score += (cs.Utilization - 1) * 100 * u.Weight * u.Direction.Sign()
		}
		if !present {
			continue
		}
		for _, l := range e.linksByTarget[t.ID] {
			score += l.Contribution(e.macroSignal(l1, l.Macro))
		}
		investment := t.BaseAIInvestment + 10*float64(bottlenecks)
		rd := 1 + ratio(investment-t.BaseAIInvestment, t.BaseAIInvestment)*0.3
		out[t.ID] = model.TechnologyState{
			Technology:      t.ID,
			Score:           score,
			AIInvestment:    investment,
			RDMultiplier:    rd,
			CompetitiveMoat: math.Min(1, t.EcosystemStrength/100*rd),
		}
	}
	return out
}

func (e *Engine) level7(l1 model.MacroState, l6 map[string]model.TechnologyState) map[string]model.OwnershipState {
	out := map[string]model.OwnershipState{}
	for _, o := range e.tables.Ownership {
		var score, moat, rd, weight float64
		for _, ts := range o.Technologies {
			t, ok := l6[ts.Technology]
			if !ok {
				continue
			}
			score += t.Score * ts.Weight
			moat += t.CompetitiveMoat * ts.Weight
			rd += t.RDMultiplier * ts.Weight
			weight += ts.Weight
		}
		if weight == 0 {
			continue
		}
		moat /= weight
		rd /= weight
		for _, l := range e.linksByTarget[o.Ticker] {
			score += l.Contribution(e.macroSignal(l1, l.Macro))
		}
		inst := clamp(o.BaseInstitutionalPct+(moat-0.5)*20, 40, 85)
		insider := o.BaseInsiderIndex + (rd-1)*50
		out[o.Ticker] = model.OwnershipState{
			Ticker:                    o.Ticker,
			Score:                     score,
			InstitutionalOwnershipPct: inst,
			InsiderBuyingIndex:        insider,
			AllocationPriority:        inst/100*0.6 + insider/200*0.4,
			GovernanceQuality:         inst / 100,
		}
	}
	return out
}

func (e *Engine) level8(l7 map[string]model.OwnershipState) map[string]model.CustomerState {
	out := map[string]model.CustomerState{}
	for _, c := range e.tables.Customers {
		var score, alloc, gov, weight float64
		for _, b := range e.buysBySegment[c.Segment] {
			o, ok := l7[b.Ticker]
			if !ok {
				continue
			}
			score += o.Score * b.Weight
			alloc += o.AllocationPriority * b.Weight
			gov += o.GovernanceQuality * b.Weight
			weight += b.Weight
		}
		if weight == 0 {
			continue
		}
		alloc /= weight
		gov /= weight
		mult := 1 + gov*0.3
		out[c.Segment] = model.CustomerState{
			Segment:               c.Segment,
			Score:                 score,
			PurchaseUrgency:       math.Min(1, 0.5+alloc*0.5),
			OrderVolumeMultiplier: mult,
			Capex:                 c.BaseCapex * mult,
		}
	}
	return out
}

func (e *Engine) level9(l8 map[string]model.CustomerState) map[string]model.FacilityState {
	out := map[string]model.FacilityState{}
	for _, f := range e.tables.Facilities {
		var mult, weight float64
		for _, s := range e.suppliesBy[f.ID] {
			cs, ok := l8[s.Customer]
			if !ok {
				continue
			}
			mult += cs.OrderVolumeMultiplier * s.Share
			weight += s.Share
		}
		if weight == 0 {
			continue
		}
		mult /= weight

		capacity := f.Capacity
		if rows := e.manufacturesBy[f.ID]; len(rows) > 0 {
			capacity = 0
			for _, m := range rows {
				capacity += m.Capacity
			}
		}
		demand := f.BaseLoad * mult
		u := math.Min(1, ratio(demand, capacity))
		constrained := u > ConstraintThreshold

		expansion := 0.0
		if u > marginExpansionThreshold {
			expansion = (u - marginExpansionThreshold) * 100 * 0.5
		}
		capex := 0.0
		buildout := f.BaseBuildoutRate
		if constrained {
			needed := math.Ceil((u - ConstraintThreshold) * 2)
			capex = needed * capexPerFacility(f.Type)
			buildout *= 1.5
		}
		out[f.ID] = model.FacilityState{
			Facility:           f.ID,
			Type:               f.Type,
			Demand:             demand,
			Capacity:           capacity,
			UtilizationPct:     u,
			CapacityConstraint: constrained,
			MarginExpansion:    expansion,
			CapexRequirement:   capex,
			BuildoutRate:       buildout,
		}
	}
	return out
}

// capexPerFacility is in billions of USD.
func capexPerFacility(t model.FacilityType) float64 {
	if t == model.FacilityFab {
		return 10
	}
	return 5
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
