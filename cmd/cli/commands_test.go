package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impact-engine/internal/data"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("ENGINE_CONFIG", "")
	t.Setenv("SCENARIO_DIR", "")
	t.Setenv("COMPANIES_FILE", "")
	configPath, scenarioDir, companiesPath, exportOut = "", "", "", ""

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), buf.String())
	return buf.String()
}

func TestCompaniesExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "companies.json")
	out := execute(t, "companies", "export", "--out", path)
	assert.Contains(t, out, "Wrote")

	list, err := data.LoadCompanies(path)
	require.NoError(t, err)
	assert.Len(t, list.Companies, len(data.DefaultCompanies()))
	assert.NotEmpty(t, list.UpdatedAt)
}

func TestCompaniesBySector(t *testing.T) {
	out := execute(t, "companies")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 1)
	assert.True(t, strings.HasPrefix(lines[0], "SECTOR"))
	assert.Contains(t, out, "BANKING")
	assert.Contains(t, out, "COIN")
}

func TestFlows_ConfiguredNodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
nodes:
  - id: Consumer Sector
    type: government
    level: 3
`), 0644))

	out := execute(t, "--config", path, "flows", "--to", "fed_hike_50bps")
	assert.Contains(t, out, "money velocity")
	assert.Contains(t, out, "credit multiplier 10.0x")

	var consumer string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Consumer Sector ") {
			consumer = line
		}
	}
	require.NotEmpty(t, consumer, out)
	assert.Contains(t, consumer, "government")
}
