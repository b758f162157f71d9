package main

import (
	"fmt"
	"os"

	"impact-engine/internal/config"
	"impact-engine/internal/data"
	"impact-engine/internal/model"
	"impact-engine/internal/propagation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose       bool
	configPath    string
	scenarioDir   string
	companiesPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cli",
	Short: "Economic impact propagation engine",
	Long: `Runs macro shocks through the nine-level propagation engine, derives
economic flows between two macro snapshots and diffuses them over time.

Examples:
  cli scenarios
  cli propagate --scenario fed_hike_50bps
  cli propagate --macro shock.yaml --companies companies.json
  cli flows --from baseline --to crisis_2008
  cli simulate --from baseline --to fed_hike_50bps --steps 10 --damping 0.8 --out results/timeline.csv
  cli companies export --out data/companies.json`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose || os.Getenv("LOG_LEVEL") == "debug" {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Engine config YAML (default: $ENGINE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&scenarioDir, "scenario-dir", "", "Directory of extra scenario YAML files (default: $SCENARIO_DIR)")
	rootCmd.PersistentFlags().StringVar(&companiesPath, "companies", "", "Company universe JSON (default: $COMPANIES_FILE or built-in)")

	rootCmd.AddCommand(scenariosCmd, propagateCmd, flowsCmd, simulateCmd, companiesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env is everything a subcommand needs, resolved from flags and environment.
type env struct {
	cfg       *config.Config
	engine    *propagation.Engine
	scenarios []config.Scenario
	companies []model.Company
}

func loadEnv() (*env, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if scenarioDir != "" {
		cfg.ScenarioDir = scenarioDir
	}

	tables, err := cfg.Tables(data.DefaultTables())
	if err != nil {
		return nil, err
	}
	scenarios, err := config.LoadScenarios(cfg.ScenarioDir)
	if err != nil {
		return nil, err
	}

	companies := data.DefaultCompanies()
	if companiesPath != "" {
		list, err := data.LoadCompanies(companiesPath)
		if err != nil {
			return nil, err
		}
		companies = list.Companies
	} else if companies, err = data.ResolveCompanies(); err != nil {
		return nil, err
	}

	logger.Debug("environment loaded",
		zap.Int("scenarios", len(scenarios)),
		zap.Int("companies", len(companies)),
		zap.Int("linkages", len(tables.Linkages)))
	return &env{cfg: cfg, engine: propagation.New(tables), scenarios: scenarios, companies: companies}, nil
}

// scenario resolves a scenario name; the empty name is the catalog baseline.
func (e *env) scenario(name string) (config.Scenario, error) {
	if name == "" {
		return config.Scenario{Name: "defaults", Title: "Catalog defaults", Macro: model.MacroState{}}, nil
	}
	s, ok := config.FindScenario(e.scenarios, name)
	if !ok {
		return config.Scenario{}, fmt.Errorf("unknown scenario %q (see `cli scenarios`)", name)
	}
	return s, nil
}
