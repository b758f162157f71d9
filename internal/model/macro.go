package model

// MacroCategory groups macro variables for catalog listings.
type MacroCategory string

const (
	CategoryMonetaryPolicy  MacroCategory = "MONETARY_POLICY"
	CategoryLiquidity       MacroCategory = "LIQUIDITY"
	CategoryEconomicGrowth  MacroCategory = "ECONOMIC_GROWTH"
	CategoryForeignExchange MacroCategory = "FOREIGN_EXCHANGE"
	CategoryCommodities     MacroCategory = "COMMODITIES"
	CategoryTradeLogistics  MacroCategory = "TRADE_LOGISTICS"
	CategoryMarketSentiment MacroCategory = "MARKET_SENTIMENT"
	CategoryRealEstate      MacroCategory = "REAL_ESTATE"
	CategoryTechInnovation  MacroCategory = "TECH_INNOVATION"
)

// Well-known macro variable ids referenced by the engine directly.
const (
	VarFedFundsRate       = "fed_funds_rate"
	VarUS10YYield         = "us_10y_yield"
	VarM2MoneySupply      = "us_m2_money_supply"
	VarGDPGrowth          = "us_gdp_growth"
	VarCPI                = "us_cpi"
	VarWTIOil             = "wti_oil"
	VarVIX                = "vix"
	VarContainerRate      = "container_rate_us_china"
	VarTariffRate         = "us_tariff_rate"
	VarAIInvestment       = "ai_investment"
	VarCloudInfraSpend    = "cloud_infrastructure_spend"
	VarConsumerConfidence = "us_consumer_confidence"
	VarNominalGDP         = "us_nominal_gdp"
	VarReserveRatio       = "bank_reserve_ratio"
)

// MacroVariable documents one tunable macro input.
// Min and Max are advisory bounds for UIs; the engine does not clamp.
type MacroVariable struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Category    MacroCategory `json:"category" yaml:"category"`
	Unit        string        `json:"unit" yaml:"unit"`
	Min         float64       `json:"min" yaml:"min"`
	Max         float64       `json:"max" yaml:"max"`
	Default     float64       `json:"default" yaml:"default"`
	Step        float64       `json:"step" yaml:"step"`
	Description string        `json:"description" yaml:"description"`
}

// InRange reports whether v lies within the documented bounds.
func (v MacroVariable) InRange(x float64) bool {
	return x >= v.Min && x <= v.Max
}

// MacroState maps variable id to value. Absent ids mean "use the default".
type MacroState map[string]float64

// Get returns the value for id, or def when absent.
func (m MacroState) Get(id string, def float64) float64 {
	if v, ok := m[id]; ok {
		return v
	}
	return def
}

// Clone returns an independent copy. A nil state clones to an empty map.
func (m MacroState) Clone() MacroState {
	out := make(MacroState, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Level0 holds the cross-cutting trade and logistics scalars.
type Level0 struct {
	ContainerRate   float64 `json:"container_rate" yaml:"container_rate"`
	TariffRate      float64 `json:"tariff_rate" yaml:"tariff_rate"`
	EnergyCostIndex float64 `json:"energy_cost_index" yaml:"energy_cost_index"`
}

const (
	DefaultContainerRate   = 2500.0
	DefaultTariffRate      = 19.0
	DefaultEnergyCostIndex = 100.0
)

// WithDefaults fills zero-valued fields with their documented defaults.
func (l Level0) WithDefaults() Level0 {
	if l.ContainerRate == 0 {
		l.ContainerRate = DefaultContainerRate
	}
	if l.TariffRate == 0 {
		l.TariffRate = DefaultTariffRate
	}
	if l.EnergyCostIndex == 0 {
		l.EnergyCostIndex = DefaultEnergyCostIndex
	}
	return l
}
