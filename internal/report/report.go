// Package report renders a level-by-level comparison of two propagation
// states as plain text lines, for terminal log feeds.
package report

import (
	"fmt"
	"sort"

	"impact-engine/internal/analysis"
	"impact-engine/internal/model"
)

// Focus names the entities highlighted at each level. Empty fields fall
// back to the largest mover in that level.
type Focus struct {
	Company    string
	Product    string
	Component  string
	Technology string
	Ownership  string
	Customer   string
	Facility   string
}

// DefaultFocus follows the AI supply chain from NVIDIA to TSMC Fab 18.
var DefaultFocus = Focus{
	Company:    "NVDA",
	Product:    "H100",
	Component:  "HBM3E",
	Technology: "AI_TECH",
	Ownership:  "NVDA",
	Customer:   "HYPERSCALER",
	Facility:   "TSMC_FAB18",
}

// Compare returns the report lines for a shock against its baseline.
func Compare(title string, baseline, shock model.PropagationState, focus Focus) []string {
	var lines []string
	add := func(format string, args ...any) { lines = append(lines, fmt.Sprintf(format, args...)) }

	add("# 9-LEVEL PROPAGATION ANALYSIS: %s", title)
	add("")

	add("## Level 1: Macro Change")
	for _, id := range changedMacro(baseline.Level1, shock.Level1) {
		b, s := baseline.Level1[id], shock.Level1[id]
		add("%s: %s → %s", id, fmtNum(b), fmtNum(s))
	}
	add("")

	add("## Level 2: Sector Impact")
	sectors := make([]model.Sector, 0, len(shock.Level2))
	for s := range shock.Level2 {
		sectors = append(sectors, s)
	}
	sort.Slice(sectors, func(i, j int) bool { return sectors[i] < sectors[j] })
	for _, sector := range sectors {
		b, ok := baseline.Level2[sector]
		if !ok {
			continue
		}
		s := shock.Level2[sector]
		add("%s: revenue %s, margin %s, valuation %+.1fbps", sector,
			signedPct(s.RevenueImpact-b.RevenueImpact),
			signedPct(s.MarginImpact-b.MarginImpact),
			s.ValuationImpact-b.ValuationImpact)
	}
	add("")

	company := focus.Company
	if company == "" {
		if ranked := analysis.RankCompanies(shock); len(ranked) > 0 {
			company = ranked[0].Ticker
		}
	}
	add("## Level 3: Company Impact (%s)", company)
	if b, s, ok := pair(baseline.Level3, shock.Level3, company); ok {
		add("Revenue: %.1f → %.1f (%s)", b.Revenue, s.Revenue, signedPct(relChange(b.Revenue, s.Revenue)))
		add("Market Cap: %.0f → %.0f (%s)", b.MarketCap, s.MarketCap, signedPct(relChange(b.MarketCap, s.MarketCap)))
	}
	add("")

	add("## Level 4: Product Demand (%s)", focus.Product)
	if b, s, ok := pair(baseline.Level4, shock.Level4, focus.Product); ok {
		add("Demand Index: %.0f → %.0f", b.DemandIndex, s.DemandIndex)
		add("Demand Change: %s", signedPct(s.DemandChangePct-b.DemandChangePct))
	}
	add("")

	add("## Level 5: Component Supply (%s)", focus.Component)
	if b, s, ok := pair(baseline.Level5, shock.Level5, focus.Component); ok {
		add("Bottleneck: %s → %s", yesNo(b.Bottleneck), yesNo(s.Bottleneck))
		add("Utilization: %.1f%% → %.1f%%", b.Utilization*100, s.Utilization*100)
		add("Constraint Impact: %.1f%% → %.1f%%", b.ConstraintImpact*100, s.ConstraintImpact*100)
	}
	add("")

	add("## Level 6: Technology Investment (%s)", focus.Technology)
	if b, s, ok := pair(baseline.Level6, shock.Level6, focus.Technology); ok {
		add("AI Investment: $%.0fB → $%.0fB", b.AIInvestment, s.AIInvestment)
		add("R&D Multiplier: %.2fx → %.2fx", b.RDMultiplier, s.RDMultiplier)
	}
	add("")

	add("## Level 7: Ownership Dynamics (%s)", focus.Ownership)
	if b, s, ok := pair(baseline.Level7, shock.Level7, focus.Ownership); ok {
		add("Institutional Ownership: %.1f%% → %.1f%%", b.InstitutionalOwnershipPct, s.InstitutionalOwnershipPct)
		add("Allocation Priority: %.2f → %.2f", b.AllocationPriority, s.AllocationPriority)
	}
	add("")

	add("## Level 8: Customer Behavior (%s)", focus.Customer)
	if b, s, ok := pair(baseline.Level8, shock.Level8, focus.Customer); ok {
		add("CapEx: $%.1fB → $%.1fB", b.Capex, s.Capex)
		add("Purchase Urgency: %.0f%% → %.0f%%", b.PurchaseUrgency*100, s.PurchaseUrgency*100)
	}
	add("")

	add("## Level 9: Facility Operations (%s)", focus.Facility)
	if b, s, ok := pair(baseline.Level9, shock.Level9, focus.Facility); ok {
		add("Utilization: %.1f%% → %.1f%%", b.UtilizationPct*100, s.UtilizationPct*100)
		add("Capacity Constraint: %s → %s", yesNo(b.CapacityConstraint), yesNo(s.CapacityConstraint))
		add("Margin Expansion: %.2f%% → %.2f%%", b.MarginExpansion, s.MarginExpansion)
		add("CapEx Requirement: $%.0fB → $%.0fB", b.CapexRequirement, s.CapexRequirement)
	}
	return lines
}

func pair[T any](base, shock map[string]T, key string) (T, T, bool) {
	b, ok1 := base[key]
	s, ok2 := shock[key]
	return b, s, ok1 && ok2
}

func changedMacro(base, shock model.MacroState) []string {
	var ids []string
	for id, v := range shock {
		if b, ok := base[id]; !ok || b != v {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func relChange(base, v float64) float64 {
	if base == 0 {
		return 0
	}
	return (v - base) / base * 100
}

func signedPct(x float64) string { return fmt.Sprintf("%+.2f%%", x) }

func fmtNum(x float64) string { return fmt.Sprintf("%g", x) }

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
