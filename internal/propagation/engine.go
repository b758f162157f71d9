package propagation

import (
	"impact-engine/internal/data"
	"impact-engine/internal/model"
)

// Engine propagates a Shock through the nine-level hierarchy.
// It holds only static tables and indexes built once in New, so a single
// Engine can be shared between goroutines.
type Engine struct {
	tables data.Tables

	linksByTarget map[string][]data.Linkage
	coefficients  map[model.Sector]data.SectorCoefficients

	requiresByComponent map[string][]model.Requires
	usesByTechnology    map[string][]model.Uses
	buysBySegment       map[string][]model.Buys
	manufacturesBy      map[string][]model.Manufactures
	suppliesBy          map[string][]model.Supplies
}

// New indexes tables. The caller must not modify tables afterwards.
func New(tables data.Tables) *Engine {
	e := &Engine{
		tables:              tables,
		linksByTarget:       map[string][]data.Linkage{},
		coefficients:        map[model.Sector]data.SectorCoefficients{},
		requiresByComponent: map[string][]model.Requires{},
		usesByTechnology:    map[string][]model.Uses{},
		buysBySegment:       map[string][]model.Buys{},
		manufacturesBy:      map[string][]model.Manufactures{},
		suppliesBy:          map[string][]model.Supplies{},
	}
	for _, l := range tables.Linkages {
		e.linksByTarget[l.Target] = append(e.linksByTarget[l.Target], l)
	}
	for _, c := range tables.Sectors {
		e.coefficients[c.Sector] = c
	}
	for _, r := range tables.Relationships {
		switch rel := r.(type) {
		case model.Requires:
			e.requiresByComponent[rel.Component] = append(e.requiresByComponent[rel.Component], rel)
		case model.Uses:
			e.usesByTechnology[rel.Technology] = append(e.usesByTechnology[rel.Technology], rel)
		case model.Buys:
			e.buysBySegment[rel.Segment] = append(e.buysBySegment[rel.Segment], rel)
		case model.Manufactures:
			e.manufacturesBy[rel.Facility] = append(e.manufacturesBy[rel.Facility], rel)
		case model.Supplies:
			e.suppliesBy[rel.Supplier] = append(e.suppliesBy[rel.Supplier], rel)
		}
	}
	return e
}

// NewDefault returns an Engine over the built-in tables.
func NewDefault() *Engine {
	return New(data.DefaultTables())
}

func (e *Engine) Tables() data.Tables { return e.tables }

// Catalog returns the macro catalog the engine resolves defaults from.
func (e *Engine) Catalog() data.Catalog { return e.tables.Catalog }

// PropagateAllLevels runs Level1 through Level9 in order. Each level reads
// only Level0, Level1 and the level immediately before it.
func (e *Engine) PropagateAllLevels(shock model.Shock) model.PropagationState {
	st := model.NewPropagationState()
	st.Level1 = e.level1(shock.Level0, shock.Macro)
	st.Level0 = model.Level0{
		ContainerRate:   st.Level1[model.VarContainerRate],
		TariffRate:      st.Level1[model.VarTariffRate],
		EnergyCostIndex: shock.Level0.WithDefaults().EnergyCostIndex,
	}
	st.Level2 = e.level2(st.Level0, st.Level1)
	st.Level3 = e.level3(st.Level2, shock.Companies)
	st.Level4 = e.level4(st.Level3)
	st.Level5 = e.level5(st.Level4)
	st.Level6 = e.level6(st.Level1, st.Level5)
	st.Level7 = e.level7(st.Level1, st.Level6)
	st.Level8 = e.level8(st.Level7)
	st.Level9 = e.level9(st.Level8)
	return st
}

// PercentDelta is the percent move of v from the catalog default for id.
// A zero default yields the raw delta.
func (e *Engine) PercentDelta(id string, v float64) float64 {
	return percentDelta(v, e.tables.Catalog.Default(id))
}

func percentDelta(v, def float64) float64 {
	if def == 0 {
		return v
	}
	return (v - def) / abs(def) * 100
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
