package model

// RelationshipKind names a cross-level relationship.
type RelationshipKind string

const (
	KindSupplies     RelationshipKind = "SUPPLIES"
	KindManufactures RelationshipKind = "MANUFACTURES"
	KindBuys         RelationshipKind = "BUYS"
	KindUses         RelationshipKind = "USES"
	KindRequires     RelationshipKind = "REQUIRES"
)

// Relationship is a typed edge in the static tables. The set of
// implementations is closed; consumers switch on the concrete type.
type Relationship interface {
	Kind() RelationshipKind
	relationship()
}

// Supplies: a company supplies a share of another company's inputs.
type Supplies struct {
	Supplier string  `json:"supplier" yaml:"supplier"`
	Customer string  `json:"customer" yaml:"customer"`
	Share    float64 `json:"share" yaml:"share"`
}

// Manufactures: a facility produces a component up to Capacity units of load.
type Manufactures struct {
	Facility  string  `json:"facility" yaml:"facility"`
	Component string  `json:"component" yaml:"component"`
	Capacity  float64 `json:"capacity" yaml:"capacity"`
}

// Buys: a customer segment buys from a company with the given weight.
type Buys struct {
	Segment string  `json:"segment" yaml:"segment"`
	Ticker  string  `json:"ticker" yaml:"ticker"`
	Weight  float64 `json:"weight" yaml:"weight"`
}

// Uses: a technology depends on a component.
type Uses struct {
	Technology string    `json:"technology" yaml:"technology"`
	Component  string    `json:"component" yaml:"component"`
	Weight     float64   `json:"weight" yaml:"weight"`
	Direction  Direction `json:"direction" yaml:"direction"`
}

// Requires: one unit of a product needs Ratio units of a component.
type Requires struct {
	Product   string  `json:"product" yaml:"product"`
	Component string  `json:"component" yaml:"component"`
	Ratio     float64 `json:"ratio" yaml:"ratio"`
}

func (Supplies) Kind() RelationshipKind     { return KindSupplies }
func (Manufactures) Kind() RelationshipKind { return KindManufactures }
func (Buys) Kind() RelationshipKind         { return KindBuys }
func (Uses) Kind() RelationshipKind         { return KindUses }
func (Requires) Kind() RelationshipKind     { return KindRequires }

func (Supplies) relationship()     {}
func (Manufactures) relationship() {}
func (Buys) relationship()         {}
func (Uses) relationship()         {}
func (Requires) relationship()     {}
