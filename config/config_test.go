package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	rulesDir := filepath.Join(dir, "rules")
	require.NoError(t, os.MkdirAll(rulesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "core.yaml"), []byte("rules: []\n"), 0o644))

	path := filepath.Join(dir, "cyclekit.yaml")
	content := `
rules:
  - ` + filepath.Join(rulesDir, "*.yaml") + `
cycles:
  - name: cchs2001
    path: data/cchs2001.csv
  - name: cchs2003
    path: data/cchs2003.csv
output:
  table: out/harmonized.csv
  format: tsv
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Cycles, 2)
	assert.Equal(t, "tsv", cfg.Output.Format)
	// Defaults survive partial configs.
	assert.Equal(t, "out/report.yaml", cfg.Output.Report)

	files, err := cfg.RuleFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "core.yaml", filepath.Base(files[0]))
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	// No cycles configured.
	assert.Error(t, cfg.Validate())

	cfg.Cycles = []CycleConfig{{Name: "c1", Path: "a.csv"}, {Name: "c1", Path: "b.csv"}}
	assert.ErrorContains(t, cfg.Validate(), "duplicate cycle")

	cfg.Cycles = []CycleConfig{{Name: "c1", Path: "a.csv"}}
	assert.NoError(t, cfg.Validate())
}

func TestRuleFiles_EmptyGlobIsError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules = []string{filepath.Join(t.TempDir(), "*.yaml")}
	_, err := cfg.RuleFiles()
	assert.Error(t, err)
}
