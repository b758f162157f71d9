package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"impact-engine/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var builtinScenarios []byte

// Scenario is a named Shock without a company list.
type Scenario struct {
	Name        string           `yaml:"name" json:"name"`
	Title       string           `yaml:"title" json:"title"`
	Description string           `yaml:"description" json:"description"`
	Level0      model.Level0     `yaml:"level0" json:"level0"`
	Macro       model.MacroState `yaml:"macro" json:"macro"`
	Source      string           `yaml:"-" json:"source"`
}

// Shock builds the engine input for this scenario.
func (s Scenario) Shock(companies []model.Company) model.Shock {
	return model.Shock{Level0: s.Level0, Macro: s.Macro.Clone(), Companies: companies}
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

func parseScenarios(raw []byte, source string) ([]Scenario, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	for i := range f.Scenarios {
		if f.Scenarios[i].Name == "" {
			return nil, fmt.Errorf("scenario %d: name is required", i)
		}
		if f.Scenarios[i].Macro == nil {
			f.Scenarios[i].Macro = model.MacroState{}
		}
		f.Scenarios[i].Source = source
	}
	return f.Scenarios, nil
}

// BuiltinScenarios returns the embedded scenario library.
func BuiltinScenarios() []Scenario {
	s, err := parseScenarios(builtinScenarios, "builtin")
	if err != nil {
		panic(fmt.Sprintf("embedded scenarios.yaml: %v", err))
	}
	return s
}

// LoadScenarios returns the builtin scenarios followed by every *.yaml file
// in dir, in file name order. A directory scenario replaces a builtin of the
// same name. An empty or missing dir yields only the builtins.
func LoadScenarios(dir string) ([]Scenario, error) {
	out := BuiltinScenarios()
	if dir == "" {
		return out, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !(strings.HasSuffix(n, ".yaml") || strings.HasSuffix(n, ".yml")) {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)

	index := map[string]int{}
	for i, s := range out {
		index[s.Name] = i
	}
	for _, n := range names {
		path := filepath.Join(dir, n)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		parsed, err := parseScenarios(raw, path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		for _, s := range parsed {
			if i, ok := index[s.Name]; ok {
				out[i] = s
				continue
			}
			index[s.Name] = len(out)
			out = append(out, s)
		}
	}
	return out, nil
}

// FindScenario returns the scenario with the given name.
func FindScenario(list []Scenario, name string) (Scenario, bool) {
	for _, s := range list {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}
