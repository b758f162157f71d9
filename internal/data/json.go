package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"impact-engine/internal/model"

	"gopkg.in/yaml.v3"
)

// LoadShock reads a Shock from a JSON or YAML file, chosen by extension.
func LoadShock(path string) (*model.Shock, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var shock model.Shock
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &shock)
	default:
		err = json.Unmarshal(raw, &shock)
	}
	if err != nil {
		return nil, fmt.Errorf("parse shock %s: %w", path, err)
	}
	return &shock, nil
}

// GroupBySector splits companies into sector-keyed slices, preserving order.
func GroupBySector(companies []model.Company) map[model.Sector][]model.Company {
	out := map[model.Sector][]model.Company{}
	for _, c := range companies {
		out[c.Sector] = append(out[c.Sector], c)
	}
	return out
}
