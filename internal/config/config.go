package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"impact-engine/internal/data"
	"impact-engine/internal/diffusion"
	"impact-engine/internal/flow"
	"impact-engine/internal/model"

	"gopkg.in/yaml.v3"
)

// ErrInvalidWeight is returned for a user weight outside [0, 2].
var ErrInvalidWeight = errors.New("user_weight must be in [0, 2]")

// Config is the on-disk engine configuration (YAML).
type Config struct {
	// Optional: load table overrides from a separate YAML. Overrides listed
	// directly in this file are applied after the file's.
	TablesFile  string           `yaml:"tables_file"`
	Weights     []WeightOverride `yaml:"weights"`
	Supply      []SupplyOverride `yaml:"supply"`
	Diffusion   DiffusionConfig  `yaml:"diffusion"`
	ScenarioDir string           `yaml:"scenario_dir"`
	// Nodes types flow endpoints the built-in registry does not know, or
	// retypes ones it does.
	Nodes []NodeOverride `yaml:"nodes"`
}

// NodeOverride registers one flow network entity.
type NodeOverride struct {
	ID    string         `yaml:"id" json:"id"`
	Type  model.NodeType `yaml:"type" json:"type"`
	Level int            `yaml:"level" json:"level"`
}

var nodeTypes = map[model.NodeType]bool{
	model.NodeCentralBank: true,
	model.NodeBank:        true,
	model.NodeCompany:     true,
	model.NodeConsumer:    true,
	model.NodeMarket:      true,
	model.NodeGovernment:  true,
}

// WeightOverride sets the user weight of one macro → target linkage.
type WeightOverride struct {
	Macro      string  `yaml:"macro" json:"macro"`
	Target     string  `yaml:"target" json:"target"`
	UserWeight float64 `yaml:"user_weight" json:"user_weight"`
}

// SupplyOverride sets one component's supply index.
type SupplyOverride struct {
	Component   string  `yaml:"component" json:"component"`
	SupplyIndex float64 `yaml:"supply_index" json:"supply_index"`
}

type DiffusionConfig struct {
	Steps         int     `yaml:"steps" json:"steps"`
	DampingFactor float64 `yaml:"damping_factor" json:"damping_factor"`
	Epsilon       float64 `yaml:"epsilon" json:"epsilon"`
	MaxStepChange float64 `yaml:"max_step_change" json:"max_step_change"`
}

func (d DiffusionConfig) ToParams() diffusion.Params {
	return diffusion.Params{
		Steps:         d.Steps,
		DampingFactor: d.DampingFactor,
		Epsilon:       d.Epsilon,
		MaxStepChange: d.MaxStepChange,
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.TablesFile != "" {
		tablesPath := c.TablesFile
		if !filepath.IsAbs(tablesPath) {
			tablesPath = filepath.Join(filepath.Dir(path), tablesPath)
		}
		t, err := loadTablesFile(tablesPath)
		if err != nil {
			return nil, fmt.Errorf("load tables_file %s: %w", tablesPath, err)
		}
		c.Weights = append(t.Weights, c.Weights...)
		c.Supply = append(t.Supply, c.Supply...)
	}
	if c.ScenarioDir != "" && !filepath.IsAbs(c.ScenarioDir) {
		c.ScenarioDir = filepath.Join(filepath.Dir(path), c.ScenarioDir)
	}
	return &c, nil
}

// Default is the configuration used when no file is given.
func Default() *Config {
	return &Config{}
}

// LoadFromEnv loads ENGINE_CONFIG when set, otherwise Default.
// SCENARIO_DIR overrides the file's scenario_dir.
func LoadFromEnv() (*Config, error) {
	c := Default()
	if path := os.Getenv("ENGINE_CONFIG"); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		c = loaded
	}
	if dir := os.Getenv("SCENARIO_DIR"); dir != "" {
		c.ScenarioDir = dir
	}
	return c, nil
}

func (c *Config) Validate() error {
	for i, w := range c.Weights {
		if w.Macro == "" || w.Target == "" {
			return fmt.Errorf("weights[%d]: macro and target are required", i)
		}
		if w.UserWeight < data.MinUserWeight || w.UserWeight > data.MaxUserWeight {
			return fmt.Errorf("weights[%d] %s/%s = %v: %w", i, w.Macro, w.Target, w.UserWeight, ErrInvalidWeight)
		}
	}
	for i, s := range c.Supply {
		if s.Component == "" {
			return fmt.Errorf("supply[%d]: component is required", i)
		}
		if s.SupplyIndex < 0 {
			return fmt.Errorf("supply[%d] %s: supply_index must be >= 0", i, s.Component)
		}
	}
	for i, n := range c.Nodes {
		if n.ID == "" {
			return fmt.Errorf("nodes[%d]: id is required", i)
		}
		if !nodeTypes[n.Type] {
			return fmt.Errorf("nodes[%d] %s: unknown type %q", i, n.ID, n.Type)
		}
		if n.Level < 0 || n.Level > 9 {
			return fmt.Errorf("nodes[%d] %s: level %d outside [0, 9]", i, n.ID, n.Level)
		}
	}
	if _, err := diffusion.New(c.Diffusion.ToParams()); err != nil {
		return fmt.Errorf("diffusion config invalid: %w", err)
	}
	return nil
}

// Tables returns a copy of base with every override applied. Overrides
// naming a linkage or component that does not exist are errors.
func (c *Config) Tables(base data.Tables) (data.Tables, error) {
	t := base.Clone()
	for _, w := range c.Weights {
		if t.SetUserWeight(w.Macro, w.Target, w.UserWeight) == 0 {
			return data.Tables{}, fmt.Errorf("weight override %s/%s matches no linkage", w.Macro, w.Target)
		}
	}
	for _, s := range c.Supply {
		if !t.SetSupplyIndex(s.Component, s.SupplyIndex) {
			return data.Tables{}, fmt.Errorf("supply override: unknown component %q", s.Component)
		}
	}
	return t, nil
}

// Registry returns the built-in node registry with c.Nodes registered.
func (c *Config) Registry() *flow.Registry {
	r := flow.NewRegistry()
	for _, n := range c.Nodes {
		r.Register(n.ID, flow.NodeInfo{Type: n.Type, Level: n.Level})
	}
	return r
}

type tablesFile struct {
	Weights []WeightOverride `yaml:"weights"`
	Supply  []SupplyOverride `yaml:"supply"`
}

func loadTablesFile(path string) (tablesFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return tablesFile{}, err
	}
	var t tablesFile
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return tablesFile{}, err
	}
	return t, nil
}

// MergeDiffusion overlays non-zero fields from override onto base.
func MergeDiffusion(base, override DiffusionConfig) DiffusionConfig {
	out := base
	if override.Steps != 0 {
		out.Steps = override.Steps
	}
	if override.DampingFactor != 0 {
		out.DampingFactor = override.DampingFactor
	}
	if override.Epsilon != 0 {
		out.Epsilon = override.Epsilon
	}
	if override.MaxStepChange != 0 {
		out.MaxStepChange = override.MaxStepChange
	}
	return out
}
