package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impact-engine/internal/data"
	"impact-engine/internal/model"
	"impact-engine/internal/propagation"
)

func TestCompare_FedHike(t *testing.T) {
	e := propagation.NewDefault()
	base := e.PropagateAllLevels(model.Shock{Companies: data.DefaultCompanies()})
	shock := e.PropagateAllLevels(model.Shock{
		Macro:     model.MacroState{model.VarFedFundsRate: 0.0575},
		Companies: data.DefaultCompanies(),
	})

	lines := Compare("Fed Rate +50bps", base, shock, DefaultFocus)
	text := strings.Join(lines, "\n")

	require.NotEmpty(t, lines)
	assert.Equal(t, "# 9-LEVEL PROPAGATION ANALYSIS: Fed Rate +50bps", lines[0])
	assert.Contains(t, text, "fed_funds_rate: 0.0525 → 0.0575")
	assert.Contains(t, text, "BANKING: revenue +9.05%")
	assert.Contains(t, text, "## Level 3: Company Impact (NVDA)")
	assert.Contains(t, text, "Bottleneck: NO → NO")
	assert.Contains(t, text, "Capacity Constraint: YES → YES")
	for level := 1; level <= 9; level++ {
		assert.Contains(t, text, "## Level "+string(rune('0'+level))+":")
	}
}

func TestCompare_FallsBackToTopMover(t *testing.T) {
	e := propagation.NewDefault()
	base := e.PropagateAllLevels(model.Shock{Companies: data.DefaultCompanies()})
	shock := e.PropagateAllLevels(model.Shock{
		Macro:     model.MacroState{model.VarVIX: 30},
		Companies: data.DefaultCompanies(),
	})
	lines := Compare("VIX spike", base, shock, Focus{})
	assert.Contains(t, strings.Join(lines, "\n"), "## Level 3: Company Impact (COIN)")
}
