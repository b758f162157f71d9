package model

// Level identifies one tier of the economic hierarchy.
type Level int

const (
	LevelMacro Level = iota + 1
	LevelSector
	LevelCompany
	LevelProduct
	LevelComponent
	LevelTechnology
	LevelOwnership
	LevelCustomer
	LevelFacility
)

var levelNames = map[Level]string{
	LevelMacro:      "macro",
	LevelSector:     "sector",
	LevelCompany:    "company",
	LevelProduct:    "product",
	LevelComponent:  "component",
	LevelTechnology: "technology",
	LevelOwnership:  "ownership",
	LevelCustomer:   "customer",
	LevelFacility:   "facility",
}

func (l Level) String() string {
	if n, ok := levelNames[l]; ok {
		return n
	}
	return "unknown"
}

// SectorState is a Level2 entry. Impacts are percent changes, valuation is in bps.
type SectorState struct {
	Sector          Sector  `json:"sector"`
	RevenueImpact   float64 `json:"revenue_impact"`
	MarginImpact    float64 `json:"margin_impact"`
	ValuationImpact float64 `json:"valuation_impact"`
}

// CompanyState is a Level3 entry.
type CompanyState struct {
	Ticker           string  `json:"ticker"`
	Company          string  `json:"company"`
	Sector           Sector  `json:"sector"`
	Revenue          float64 `json:"revenue"`
	Margin           float64 `json:"margin"`
	MarketCap        float64 `json:"market_cap"`
	RevenueChangePct float64 `json:"revenue_change_pct"`
	CompositeImpact  float64 `json:"composite_impact"`
}

type ProductType string

const (
	ProductAIGPU        ProductType = "AI_GPU"
	ProductSmartphone   ProductType = "SMARTPHONE"
	ProductCloudService ProductType = "CLOUD_SERVICE"
	ProductOther        ProductType = "OTHER"
)

// ProductState is a Level4 entry.
type ProductState struct {
	Product         string      `json:"product"`
	Type            ProductType `json:"type"`
	DemandIndex     float64     `json:"demand_index"`
	Price           float64     `json:"price"`
	Volume          float64     `json:"volume"`
	Revenue         float64     `json:"revenue"`
	DemandChangePct float64     `json:"demand_change_pct"`
}

// ComponentState is a Level5 entry. Bottleneck is always derived from
// RequiredQuantity and SupplyIndex.
type ComponentState struct {
	Component        string  `json:"component"`
	RequiredQuantity float64 `json:"required_quantity"`
	SupplyIndex      float64 `json:"supply_index"`
	Utilization      float64 `json:"utilization"`
	Bottleneck       bool    `json:"bottleneck"`
	ConstraintImpact float64 `json:"constraint_impact"`
	PriceIndex       float64 `json:"price_index"`
}

// TechnologyState is a Level6 entry.
type TechnologyState struct {
	Technology      string  `json:"technology"`
	Score           float64 `json:"score"`
	AIInvestment    float64 `json:"ai_investment"`
	RDMultiplier    float64 `json:"rd_multiplier"`
	CompetitiveMoat float64 `json:"competitive_moat"`
}

// OwnershipState is a Level7 entry keyed by ticker.
type OwnershipState struct {
	Ticker                    string  `json:"ticker"`
	Score                     float64 `json:"score"`
	InstitutionalOwnershipPct float64 `json:"institutional_ownership_pct"`
	InsiderBuyingIndex        float64 `json:"insider_buying_index"`
	AllocationPriority        float64 `json:"allocation_priority"`
	GovernanceQuality         float64 `json:"governance_quality"`
}

// CustomerState is a Level8 entry keyed by customer segment.
type CustomerState struct {
	Segment               string  `json:"segment"`
	Score                 float64 `json:"score"`
	PurchaseUrgency       float64 `json:"purchase_urgency"`
	OrderVolumeMultiplier float64 `json:"order_volume_multiplier"`
	Capex                 float64 `json:"capex"`
}

type FacilityType string

const (
	FacilityFab        FacilityType = "FAB"
	FacilityDatacenter FacilityType = "DATACENTER"
)

// FacilityState is a Level9 entry. UtilizationPct is a fraction (0.95 = 95%).
type FacilityState struct {
	Facility           string       `json:"facility"`
	Type               FacilityType `json:"type"`
	Demand             float64      `json:"demand"`
	Capacity           float64      `json:"capacity"`
	UtilizationPct     float64      `json:"utilization_pct"`
	CapacityConstraint bool         `json:"capacity_constraint"`
	MarginExpansion    float64      `json:"margin_expansion"`
	CapexRequirement   float64      `json:"capex_requirement"`
	BuildoutRate       float64      `json:"buildout_rate"`
}

// PropagationState is the per-level snapshot produced from one Shock.
// An entity absent from a level map has no computed impact.
type PropagationState struct {
	Level0 Level0                     `json:"level0"`
	Level1 MacroState                 `json:"level1"`
	Level2 map[Sector]SectorState     `json:"level2"`
	Level3 map[string]CompanyState    `json:"level3"`
	Level4 map[string]ProductState    `json:"level4"`
	Level5 map[string]ComponentState  `json:"level5"`
	Level6 map[string]TechnologyState `json:"level6"`
	Level7 map[string]OwnershipState  `json:"level7"`
	Level8 map[string]CustomerState   `json:"level8"`
	Level9 map[string]FacilityState   `json:"level9"`
}

// NewPropagationState returns a state with every level map allocated.
func NewPropagationState() PropagationState {
	return PropagationState{
		Level1: MacroState{},
		Level2: map[Sector]SectorState{},
		Level3: map[string]CompanyState{},
		Level4: map[string]ProductState{},
		Level5: map[string]ComponentState{},
		Level6: map[string]TechnologyState{},
		Level7: map[string]OwnershipState{},
		Level8: map[string]CustomerState{},
		Level9: map[string]FacilityState{},
	}
}

// Counts returns the number of entities per level, for log feeds and metrics.
func (s PropagationState) Counts() map[Level]int {
	return map[Level]int{
		LevelMacro:      len(s.Level1),
		LevelSector:     len(s.Level2),
		LevelCompany:    len(s.Level3),
		LevelProduct:    len(s.Level4),
		LevelComponent:  len(s.Level5),
		LevelTechnology: len(s.Level6),
		LevelOwnership:  len(s.Level7),
		LevelCustomer:   len(s.Level8),
		LevelFacility:   len(s.Level9),
	}
}
