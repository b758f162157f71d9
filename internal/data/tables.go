package data

import "impact-engine/internal/model"

// Linkage is one sensitivity record: how strongly Macro moves Target.
// Target is a sector id for Level2, a technology id for Level6 and a
// ticker for Level7.
type Linkage struct {
	Macro      string          `json:"macro" yaml:"macro"`
	Target     string          `json:"target" yaml:"target"`
	BaseWeight float64         `json:"base_weight" yaml:"base_weight"`
	Direction  model.Direction `json:"direction" yaml:"direction"`
	// UserWeight is the user-adjustable multiplier, nominally in [0, 2].
	UserWeight float64 `json:"user_weight" yaml:"user_weight"`
}

const (
	MinUserWeight = 0.0
	MaxUserWeight = 2.0
)

// EffectiveUserWeight clamps UserWeight into [MinUserWeight, MaxUserWeight].
func (l Linkage) EffectiveUserWeight() float64 {
	switch {
	case l.UserWeight < MinUserWeight:
		return MinUserWeight
	case l.UserWeight > MaxUserWeight:
		return MaxUserWeight
	default:
		return l.UserWeight
	}
}

// Contribution is signal × BaseWeight × Direction × UserWeight.
func (l Linkage) Contribution(signal float64) float64 {
	return signal * l.BaseWeight * l.Direction.Sign() * l.EffectiveUserWeight()
}

// SectorCoefficients drive the Level2 margin model.
type SectorCoefficients struct {
	Sector               model.Sector `json:"sector" yaml:"sector"`
	RateSensitivity      float64      `json:"rate_sensitivity" yaml:"rate_sensitivity"`
	PricingPower         float64      `json:"pricing_power" yaml:"pricing_power"`
	CommoditySensitivity float64      `json:"commodity_sensitivity" yaml:"commodity_sensitivity"`
	TariffExposure       float64      `json:"tariff_exposure" yaml:"tariff_exposure"`
}

type Product struct {
	ID              string            `json:"id" yaml:"id"`
	Owner           string            `json:"owner" yaml:"owner"`
	Type            model.ProductType `json:"type" yaml:"type"`
	BaseDemandIndex float64           `json:"base_demand_index" yaml:"base_demand_index"`
	BaseVolume      float64           `json:"base_volume" yaml:"base_volume"`
	BasePrice       float64           `json:"base_price" yaml:"base_price"`
}

// Component carries the supply index a component's requirement is tested against.
type Component struct {
	ID             string  `json:"id" yaml:"id"`
	SupplyIndex    float64 `json:"supply_index" yaml:"supply_index"`
	BasePriceIndex float64 `json:"base_price_index" yaml:"base_price_index"`
}

type Technology struct {
	ID                string  `json:"id" yaml:"id"`
	BaseAIInvestment  float64 `json:"base_ai_investment" yaml:"base_ai_investment"`
	EcosystemStrength float64 `json:"ecosystem_strength" yaml:"ecosystem_strength"`
}

// Ownership is a Level7 entity. Technologies lists the weighted technology
// links feeding the ticker.
type Ownership struct {
	Ticker               string            `json:"ticker" yaml:"ticker"`
	BaseInstitutionalPct float64           `json:"base_institutional_pct" yaml:"base_institutional_pct"`
	BaseInsiderIndex     float64           `json:"base_insider_index" yaml:"base_insider_index"`
	Technologies         []TechnologyShare `json:"technologies" yaml:"technologies"`
}

type TechnologyShare struct {
	Technology string  `json:"technology" yaml:"technology"`
	Weight     float64 `json:"weight" yaml:"weight"`
}

type Customer struct {
	Segment   string  `json:"segment" yaml:"segment"`
	BaseCapex float64 `json:"base_capex" yaml:"base_capex"`
}

// Facility is a Level9 entity. BaseLoad and Capacity share a unit; when
// Manufactures rows exist for the facility their capacities replace Capacity.
type Facility struct {
	ID               string             `json:"id" yaml:"id"`
	Type             model.FacilityType `json:"type" yaml:"type"`
	BaseLoad         float64            `json:"base_load" yaml:"base_load"`
	Capacity         float64            `json:"capacity" yaml:"capacity"`
	BaseBuildoutRate float64            `json:"base_buildout_rate" yaml:"base_buildout_rate"`
}

// Tables is the complete static input of the propagation engine.
type Tables struct {
	Catalog       Catalog
	Linkages      []Linkage
	Sectors       []SectorCoefficients
	Products      []Product
	Components    []Component
	Technologies  []Technology
	Ownership     []Ownership
	Customers     []Customer
	Facilities    []Facility
	Relationships []model.Relationship
}

// Clone returns a copy whose slices can be modified independently.
func (t Tables) Clone() Tables {
	out := t
	out.Catalog = append(Catalog(nil), t.Catalog...)
	out.Linkages = append([]Linkage(nil), t.Linkages...)
	out.Sectors = append([]SectorCoefficients(nil), t.Sectors...)
	out.Products = append([]Product(nil), t.Products...)
	out.Components = append([]Component(nil), t.Components...)
	out.Technologies = append([]Technology(nil), t.Technologies...)
	out.Customers = append([]Customer(nil), t.Customers...)
	out.Facilities = append([]Facility(nil), t.Facilities...)
	out.Relationships = append([]model.Relationship(nil), t.Relationships...)
	out.Ownership = make([]Ownership, len(t.Ownership))
	for i, o := range t.Ownership {
		o.Technologies = append([]TechnologyShare(nil), o.Technologies...)
		out.Ownership[i] = o
	}
	return out
}

// SetUserWeight sets the user weight on every linkage matching macro and
// target and reports how many matched.
func (t *Tables) SetUserWeight(macro, target string, w float64) int {
	n := 0
	for i := range t.Linkages {
		if t.Linkages[i].Macro == macro && t.Linkages[i].Target == target {
			t.Linkages[i].UserWeight = w
			n++
		}
	}
	return n
}

// SetSupplyIndex overrides one component's supply index and reports whether it exists.
func (t *Tables) SetSupplyIndex(component string, supply float64) bool {
	for i := range t.Components {
		if t.Components[i].ID == component {
			t.Components[i].SupplyIndex = supply
			return true
		}
	}
	return false
}

func link(macro string, target model.Sector, w float64, d model.Direction) Linkage {
	return Linkage{Macro: macro, Target: string(target), BaseWeight: w, Direction: d, UserWeight: 1.0}
}

// DefaultLinkages is the macro → sector sensitivity table.
func DefaultLinkages() []Linkage {
	const (
		pos = model.DirectionPositive
		neg = model.DirectionNegative
	)
	return []Linkage{
		// rates
		link("fed_funds_rate", model.SectorBanking, 0.95, pos),
		link("us_10y_yield", model.SectorBanking, 0.75, pos),
		link("yield_curve", model.SectorBanking, 0.85, pos),
		link("fed_funds_rate", model.SectorRealEstate, 0.90, neg),
		link("us_mortgage_rate_30y", model.SectorRealEstate, 0.95, neg),
		link("us_10y_yield", model.SectorRealEstate, 0.80, neg),
		link("fed_funds_rate", model.SectorManufacturing, 0.65, neg),
		link("credit_spread_baa", model.SectorManufacturing, 0.70, neg),
		link("fed_funds_rate", model.SectorSemiconductor, 0.70, neg),
		link("fed_funds_rate", model.SectorTechnology, 0.60, neg),
		link("fed_funds_rate", model.SectorCrypto, 0.80, neg),

		// tech demand
		link("ai_investment", model.SectorSemiconductor, 0.90, pos),
		link("semiconductor_equipment_orders", model.SectorSemiconductor, 0.95, pos),
		link("ai_investment", model.SectorTechnology, 0.70, pos),
		link("cloud_infrastructure_spend", model.SectorTechnology, 0.85, pos),

		// liquidity
		link("us_m2_money_supply", model.SectorBanking, 0.60, pos),
		link("us_m2_money_supply", model.SectorRealEstate, 0.75, pos),
		link("us_m2_money_supply", model.SectorManufacturing, 0.50, pos),
		link("us_m2_money_supply", model.SectorSemiconductor, 0.55, pos),
		link("us_m2_money_supply", model.SectorCrypto, 0.85, pos),
		link("us_m2_money_supply", model.SectorTechnology, 0.55, pos),

		// growth
		link("us_gdp_growth", model.SectorBanking, 0.70, pos),
		link("us_gdp_growth", model.SectorRealEstate, 0.65, pos),
		link("us_gdp_growth", model.SectorManufacturing, 0.80, pos),
		link("us_gdp_growth", model.SectorSemiconductor, 0.75, pos),
		link("us_gdp_growth", model.SectorTechnology, 0.70, pos),

		// input costs
		link("wti_oil", model.SectorManufacturing, 0.75, neg),
		link("copper", model.SectorManufacturing, 0.65, neg),
		link("steel", model.SectorManufacturing, 0.70, neg),

		// fx
		link("krw_usd", model.SectorSemiconductor, 0.80, pos),
		link("krw_usd", model.SectorManufacturing, 0.75, pos),
		link("usd_index", model.SectorManufacturing, 0.60, neg),

		// trade
		link("us_tariff_rate", model.SectorManufacturing, 0.85, neg),
		link("container_rate_us_china", model.SectorManufacturing, 0.70, neg),
		link("supply_chain_pressure", model.SectorSemiconductor, 0.80, neg),

		// sentiment
		link("vix", model.SectorBanking, 0.60, neg),
		link("vix", model.SectorRealEstate, 0.55, neg),
		link("vix", model.SectorSemiconductor, 0.70, neg),
		link("vix", model.SectorCrypto, 0.90, neg),
		link("vix", model.SectorTechnology, 0.60, neg),
	}
}

// DefaultPricingPower applies when a sector row leaves PricingPower unset.
const DefaultPricingPower = 0.5

func DefaultSectorCoefficients() []SectorCoefficients {
	return []SectorCoefficients{
		{Sector: model.SectorBanking, RateSensitivity: 0.6, PricingPower: 0.5, CommoditySensitivity: 0.1, TariffExposure: 0.3},
		{Sector: model.SectorRealEstate, RateSensitivity: -0.8, PricingPower: 0.4, CommoditySensitivity: 0.3, TariffExposure: 0.3},
		{Sector: model.SectorManufacturing, RateSensitivity: -0.3, PricingPower: 0.35, CommoditySensitivity: 0.8, TariffExposure: 0.9},
		{Sector: model.SectorSemiconductor, RateSensitivity: -0.4, PricingPower: 0.82, CommoditySensitivity: 0.3, TariffExposure: 1.2},
		{Sector: model.SectorCrypto, RateSensitivity: -2.1, PricingPower: 0.5, CommoditySensitivity: 0, TariffExposure: 0},
		{Sector: model.SectorTechnology, RateSensitivity: -0.5, PricingPower: 0.75, CommoditySensitivity: 0.2, TariffExposure: 0.3},
	}
}

func DefaultProducts() []Product {
	return []Product{
		{ID: "H100", Owner: "NVDA", Type: model.ProductAIGPU, BaseDemandIndex: 85, BaseVolume: 1000, BasePrice: 10000},
		{ID: "IPHONE", Owner: "AAPL", Type: model.ProductSmartphone, BaseDemandIndex: 100, BaseVolume: 1000, BasePrice: 10000},
		{ID: "AZURE_AI", Owner: "MSFT", Type: model.ProductCloudService, BaseDemandIndex: 100, BaseVolume: 1000, BasePrice: 10000},
	}
}

func DefaultComponents() []Component {
	return []Component{
		{ID: "HBM3E", SupplyIndex: 15000, BasePriceIndex: 100},
		{ID: "CoWoS", SupplyIndex: 15000, BasePriceIndex: 100},
		{ID: "DRAM", SupplyIndex: 12000, BasePriceIndex: 100},
		{ID: "EUV", SupplyIndex: 5, BasePriceIndex: 100},
	}
}

func DefaultTechnologies() []Technology {
	return []Technology{
		{ID: "AI_TECH", BaseAIInvestment: 150, EcosystemStrength: 90},
		{ID: "PROCESS_NODE", BaseAIInvestment: 150, EcosystemStrength: 80},
	}
}

// DefaultTechnologyLinkages are the macro links into Level6 and Level7.
func DefaultTechnologyLinkages() []Linkage {
	return []Linkage{
		{Macro: "ai_investment", Target: "AI_TECH", BaseWeight: 0.9, Direction: model.DirectionPositive, UserWeight: 1},
		{Macro: "fed_funds_rate", Target: "AI_TECH", BaseWeight: 0.3, Direction: model.DirectionNegative, UserWeight: 1},
		{Macro: "semiconductor_equipment_orders", Target: "PROCESS_NODE", BaseWeight: 0.8, Direction: model.DirectionPositive, UserWeight: 1},
		{Macro: "vix", Target: "NVDA", BaseWeight: 0.4, Direction: model.DirectionNegative, UserWeight: 1},
	}
}

func DefaultOwnership() []Ownership {
	return []Ownership{
		{Ticker: "NVDA", BaseInstitutionalPct: 65, BaseInsiderIndex: 100, Technologies: []TechnologyShare{{Technology: "AI_TECH", Weight: 1}}},
		{Ticker: "TSM", BaseInstitutionalPct: 60, BaseInsiderIndex: 100, Technologies: []TechnologyShare{{Technology: "PROCESS_NODE", Weight: 0.6}, {Technology: "AI_TECH", Weight: 0.4}}},
		{Ticker: "AAPL", BaseInstitutionalPct: 62, BaseInsiderIndex: 100, Technologies: []TechnologyShare{{Technology: "PROCESS_NODE", Weight: 1}}},
	}
}

func DefaultCustomers() []Customer {
	return []Customer{
		{Segment: "HYPERSCALER", BaseCapex: 180},
		{Segment: "ENTERPRISE", BaseCapex: 60},
	}
}

func DefaultFacilities() []Facility {
	return []Facility{
		{ID: "TSMC_FAB18", Type: model.FacilityFab, BaseLoad: 85, Capacity: 100, BaseBuildoutRate: 50},
		{ID: "HYPERSCALER_DC_VA", Type: model.FacilityDatacenter, BaseLoad: 70, Capacity: 100, BaseBuildoutRate: 20},
	}
}

// DefaultRelationships is the cross-level bill of materials and supply graph.
func DefaultRelationships() []model.Relationship {
	return []model.Relationship{
		model.Requires{Product: "H100", Component: "HBM3E", Ratio: 6},
		model.Requires{Product: "H100", Component: "CoWoS", Ratio: 1},
		model.Requires{Product: "H100", Component: "EUV", Ratio: 0.001},
		model.Requires{Product: "IPHONE", Component: "DRAM", Ratio: 8},
		model.Requires{Product: "IPHONE", Component: "EUV", Ratio: 0.001},
		model.Requires{Product: "AZURE_AI", Component: "HBM3E", Ratio: 0.5},

		model.Uses{Technology: "AI_TECH", Component: "HBM3E", Weight: 0.6, Direction: model.DirectionPositive},
		model.Uses{Technology: "AI_TECH", Component: "CoWoS", Weight: 0.4, Direction: model.DirectionPositive},
		model.Uses{Technology: "PROCESS_NODE", Component: "EUV", Weight: 0.7, Direction: model.DirectionPositive},
		model.Uses{Technology: "PROCESS_NODE", Component: "DRAM", Weight: 0.3, Direction: model.DirectionPositive},

		model.Buys{Segment: "HYPERSCALER", Ticker: "NVDA", Weight: 0.7},
		model.Buys{Segment: "HYPERSCALER", Ticker: "TSM", Weight: 0.3},
		model.Buys{Segment: "ENTERPRISE", Ticker: "NVDA", Weight: 0.5},
		model.Buys{Segment: "ENTERPRISE", Ticker: "AAPL", Weight: 0.5},

		model.Manufactures{Facility: "TSMC_FAB18", Component: "CoWoS", Capacity: 60},
		model.Manufactures{Facility: "TSMC_FAB18", Component: "HBM3E", Capacity: 40},

		model.Supplies{Supplier: "TSMC_FAB18", Customer: "HYPERSCALER", Share: 0.8},
		model.Supplies{Supplier: "TSMC_FAB18", Customer: "ENTERPRISE", Share: 0.2},
		model.Supplies{Supplier: "HYPERSCALER_DC_VA", Customer: "HYPERSCALER", Share: 1},
	}
}

// DefaultTables assembles a fresh copy of every built-in table.
func DefaultTables() Tables {
	return Tables{
		Catalog:       DefaultCatalog(),
		Linkages:      append(DefaultLinkages(), DefaultTechnologyLinkages()...),
		Sectors:       DefaultSectorCoefficients(),
		Products:      DefaultProducts(),
		Components:    DefaultComponents(),
		Technologies:  DefaultTechnologies(),
		Ownership:     DefaultOwnership(),
		Customers:     DefaultCustomers(),
		Facilities:    DefaultFacilities(),
		Relationships: DefaultRelationships(),
	}
}
