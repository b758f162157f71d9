package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"impact-engine/internal/analysis"
	"impact-engine/internal/config"
	"impact-engine/internal/data"
	"impact-engine/internal/diffusion"
	"impact-engine/internal/flow"
	"impact-engine/internal/model"
	"impact-engine/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	propagateScenario string
	propagateMacro    string
	propagateTop      int

	flowsFrom string
	flowsTo   string

	simulateSteps   int
	simulateDamping float64
	simulateOut     string

	exportOut string
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List built-in and directory scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tTITLE\tOVERRIDES\tSOURCE")
		for _, s := range e.scenarios {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.Name, s.Title, len(s.Macro), s.Source)
		}
		return tw.Flush()
	},
}

var propagateCmd = &cobra.Command{
	Use:   "propagate",
	Short: "Propagate a shock through all nine levels and report against the baseline",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}

		shock, title, err := e.resolveShock()
		if err != nil {
			return err
		}
		baseline := e.engine.PropagateAllLevels(model.Shock{Companies: shock.Companies})
		st := e.engine.PropagateAllLevels(shock)

		out := cmd.OutOrStdout()
		for _, line := range report.Compare(title, baseline, st, report.DefaultFocus) {
			fmt.Fprintln(out, line)
		}

		fmt.Fprintln(out)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tTICKER\tSECTOR\tCOMPOSITE\tREVENUE Δ\tSCORE")
		for i, r := range analysis.TopN(analysis.RankCompanies(st), propagateTop) {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%+.2f%%\t%+.2f%%\t%s\n",
				i+1, r.Ticker, r.Sector, r.CompositeImpact, r.RevenueChangePct, r.Score.Color)
		}
		return tw.Flush()
	},
}

func (e *env) resolveShock() (model.Shock, string, error) {
	if propagateMacro != "" {
		shock, err := data.LoadShock(propagateMacro)
		if err != nil {
			return model.Shock{}, "", err
		}
		if len(shock.Companies) == 0 {
			shock.Companies = e.companies
		}
		return *shock, filepath.Base(propagateMacro), nil
	}
	s, err := e.scenario(propagateScenario)
	if err != nil {
		return model.Shock{}, "", err
	}
	return s.Shock(e.companies), s.Title, nil
}

var flowsCmd = &cobra.Command{
	Use:   "flows",
	Short: "Derive economic flows between two scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		prev, curr, err := e.snapshots()
		if err != nil {
			return err
		}

		st := e.engine.PropagateAllLevels(curr.Shock(e.companies))
		flows := flow.NewDeriver(flow.Options{Catalog: e.engine.Catalog()}).Derive(prev.Macro, curr.Macro, &st)
		printFlows(cmd, flows, e.cfg.Registry(), flow.Indicators(curr.Macro, e.engine.Catalog()))
		return nil
	},
}

func (e *env) snapshots() (prev, curr config.Scenario, err error) {
	if prev, err = e.scenario(flowsFrom); err != nil {
		return
	}
	curr, err = e.scenario(flowsTo)
	return
}

func printFlows(cmd *cobra.Command, flows []model.EconomicFlow, registry *flow.Registry, ind model.FlowIndicators) {
	out := cmd.OutOrStdout()
	if len(flows) == 0 {
		fmt.Fprintln(out, "no flows: snapshots are within every chain threshold")
		return
	}
	for _, f := range flows {
		fmt.Fprintln(out, analysis.FormatFlow(f))
	}

	s := analysis.SummarizeFlows(flows)
	fmt.Fprintf(out, "\n%d flows (%d positive, %d negative), avg magnitude %.3f, most affected: %s\n",
		s.Total, s.Positive, s.Negative, s.AverageMagnitude, s.MostAffected)

	fmt.Fprintf(out, "money velocity %.3f, credit multiplier %.1fx\n\n", ind.MoneyVelocity, ind.CreditMultiplier)

	network := registry.Build(flows)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tTYPE\tLEVEL\tIN\tOUT\tNET\tVELOCITY")
	for _, n := range network.Nodes {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.3f\t%.3f\t%+.3f\t%.2f\n",
			n.ID, n.Type, n.Level, n.Inflows, n.Outflows, n.NetFlow, n.Velocity)
	}
	_ = tw.Flush()
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Diffuse the flows between two scenarios over a fixed horizon",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		prev, curr, err := e.snapshots()
		if err != nil {
			return err
		}

		params := config.MergeDiffusion(e.cfg.Diffusion, config.DiffusionConfig{
			Steps:         simulateSteps,
			DampingFactor: simulateDamping,
		})
		diffuser, err := diffusion.New(params.ToParams())
		if err != nil {
			return fmt.Errorf("invalid diffusion parameters: %w", err)
		}

		st := e.engine.PropagateAllLevels(curr.Shock(e.companies))
		flows := flow.NewDeriver(flow.Options{Catalog: e.engine.Catalog()}).Derive(prev.Macro, curr.Macro, &st)
		timeline := diffuser.Simulate(flows)
		logger.Debug("simulated",
			zap.Int("flows", len(flows)),
			zap.Int("steps", len(timeline)),
			zap.Float64("damping", diffuser.Params().DampingFactor))

		out := cmd.OutOrStdout()
		if len(timeline) > 0 {
			last := timeline[len(timeline)-1]
			names := make([]string, 0, len(last.NodeStates))
			for n := range last.NodeStates {
				names = append(names, n)
			}
			sort.Strings(names)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "NODE\tVALUE (day %d)\tCUMULATIVE\n", last.Step)
			for _, n := range names {
				ns := last.NodeStates[n]
				fmt.Fprintf(tw, "%s\t%.4f\t%+.4f\n", n, ns.Value, ns.CumulativeChange)
			}
			_ = tw.Flush()
		}

		if simulateOut == "" {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(simulateOut), 0o755); err != nil {
			return err
		}
		if err := diffusion.WriteTimelineCSV(simulateOut, timeline); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d steps to %s\n", len(timeline), simulateOut)
		return nil
	},
}

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List the company universe by sector",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		groups := data.GroupBySector(e.companies)
		sectors := make([]string, 0, len(groups))
		for s := range groups {
			sectors = append(sectors, string(s))
		}
		sort.Strings(sectors)

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SECTOR	COUNT	TICKERS")
		for _, s := range sectors {
			list := groups[model.Sector(s)]
			tickers := make([]string, len(list))
			for i, c := range list {
				tickers[i] = c.Ticker
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\n", s, len(list), strings.Join(tickers, " "))
		}
		return tw.Flush()
	},
}

var companiesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the resolved company universe as a companies JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		list := &data.CompanyList{
			UpdatedAt: time.Now().UTC().Format(time.RFC3339),
			Companies: e.companies,
		}
		if err := data.SaveCompanies(list, exportOut); err != nil {
			return err
		}
		logger.Debug("companies exported", zap.String("path", exportOut), zap.Int("companies", len(e.companies)))
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d companies to %s\n", len(e.companies), exportOut)
		return nil
	},
}

func init() {
	propagateCmd.Flags().StringVar(&propagateScenario, "scenario", "", "Scenario name")
	propagateCmd.Flags().StringVar(&propagateMacro, "macro", "", "Shock file (JSON or YAML) instead of a scenario")
	propagateCmd.Flags().IntVarP(&propagateTop, "top", "n", 10, "Companies to list (0 = all)")

	for _, c := range []*cobra.Command{flowsCmd, simulateCmd} {
		c.Flags().StringVar(&flowsFrom, "from", "baseline", "Previous snapshot scenario")
		c.Flags().StringVar(&flowsTo, "to", "", "Current snapshot scenario")
		_ = c.MarkFlagRequired("to")
	}

	simulateCmd.Flags().IntVar(&simulateSteps, "steps", diffusion.DefaultSteps, "Simulated days")
	simulateCmd.Flags().Float64Var(&simulateDamping, "damping", diffusion.DefaultDampingFactor, "Damping factor in (0, 1]")
	simulateCmd.Flags().StringVar(&simulateOut, "out", "", "Optional timeline CSV path")

	companiesExportCmd.Flags().StringVar(&exportOut, "out", "", "Destination JSON path")
	_ = companiesExportCmd.MarkFlagRequired("out")
	companiesCmd.AddCommand(companiesExportCmd)
}
