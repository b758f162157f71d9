package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"impact-engine/internal/analysis"
	"impact-engine/internal/config"
	"impact-engine/internal/data"
	"impact-engine/internal/diffusion"
	"impact-engine/internal/flow"
	"impact-engine/internal/model"
	"impact-engine/internal/propagation"
	"impact-engine/internal/report"
)

// Demo:
// - Raise the Fed funds rate 50bps from the catalog default
// - Print the level-by-level baseline comparison
// - Derive the resulting flows and diffuse them for a few days
func main() {
	bps := flag.Float64("bps", 50, "Fed funds rate change in basis points")
	cfgPath := flag.String("config", "", "Path to engine config YAML (optional)")
	steps := flag.Int("steps", 5, "Days to diffuse the flows")
	outCSV := flag.String("out", "", "Optional path to write the timeline CSV (e.g. results/timeline.csv)")
	flag.Parse()

	tables := data.DefaultTables()
	diff := config.DiffusionConfig{Steps: *steps}
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		if tables, err = cfg.Tables(tables); err != nil {
			panic(err)
		}
		diff = config.MergeDiffusion(cfg.Diffusion, diff)
	}

	engine := propagation.New(tables)
	companies := data.DefaultCompanies()
	rate := engine.Catalog().Default(model.VarFedFundsRate)
	shocked := rate + *bps/10000

	baseline := engine.PropagateAllLevels(model.Shock{Companies: companies})
	st := engine.PropagateAllLevels(model.Shock{
		Macro:     model.MacroState{model.VarFedFundsRate: shocked},
		Companies: companies,
	})

	title := fmt.Sprintf("Fed Rate %+.0fbps (%.2f%% → %.2f%%)", *bps, rate*100, shocked*100)
	for _, line := range report.Compare(title, baseline, st, report.DefaultFocus) {
		fmt.Println(line)
	}

	fmt.Println()
	fmt.Println("Most affected companies:")
	for i, r := range analysis.TopN(analysis.RankCompanies(st), 5) {
		fmt.Printf("  %d. %-6s %-14s composite=%+.2f%% color=%s\n", i+1, r.Ticker, r.Sector, r.CompositeImpact, r.Score.Color)
	}

	flows := flow.NewDeriver(flow.Options{Catalog: engine.Catalog()}).Derive(
		baseline.Level1, st.Level1, &st)
	fmt.Println()
	fmt.Println("Economic flows:")
	for _, f := range flows {
		fmt.Println("  " + analysis.FormatFlow(f))
	}

	d, err := diffusion.New(diff.ToParams())
	if err != nil {
		panic(err)
	}
	timeline := d.Simulate(flows)
	if len(timeline) > 0 {
		last := timeline[len(timeline)-1]
		fmt.Printf("\nAfter %d days: %d active flows\n", len(timeline), len(last.ActiveFlows))
		for _, n := range []string{flow.BankingSector, flow.CorporateSector, flow.ConsumerSector} {
			if ns, ok := last.NodeStates[n]; ok {
				fmt.Printf("  %-18s value=%.4f cumulative=%+.4f\n", n, ns.Value, ns.CumulativeChange)
			}
		}
	}

	if *outCSV != "" {
		if err := os.MkdirAll(filepath.Dir(*outCSV), 0o755); err != nil {
			panic(err)
		}
		if err := diffusion.WriteTimelineCSV(*outCSV, timeline); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote timeline to %s\n", *outCSV)
	}
}
