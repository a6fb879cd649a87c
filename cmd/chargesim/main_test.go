package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/chargesim/internal/config"
	"github.com/san-kum/chargesim/internal/storage"
)

func TestLoadScenario(t *testing.T) {
	t.Cleanup(func() { configFile = "" })

	cmd := runCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--ticks", "42", "--dt", "0.02"}))
	cfg, err := loadScenario(cmd, []string{"dipole"})
	require.NoError(t, err)
	assert.Equal(t, "dipole", cfg.Name)
	assert.Equal(t, 42, cfg.Run.Ticks)
	assert.InDelta(t, 0.02, cfg.Run.Dt, 1e-12)

	cmd = runCommand()
	_, err = loadScenario(cmd, []string{"nope"})
	assert.ErrorContains(t, err, "unknown preset")

	cmd = runCommand()
	cfg, err = loadScenario(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "sandbox", cfg.Name)
	assert.Empty(t, cfg.Charges)
}

func TestLoadScenarioFromFile(t *testing.T) {
	t.Cleanup(func() { configFile = "" })

	path := t.TempDir() + "/scenario.yaml"
	want := config.GetPreset("quadrupole")
	require.NoError(t, config.Save(path, want))

	cmd := runCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))
	cfg, err := loadScenario(cmd, []string{"dipole"})
	require.NoError(t, err)
	assert.Equal(t, "quadrupole", cfg.Name)
	assert.Len(t, cfg.Charges, 4)
}

func TestBenchScenarioHasNoOverlaps(t *testing.T) {
	cfg := benchScenario(32, false)
	require.Len(t, cfg.Charges, 32)
	r := cfg.Physics.ChargeRadius
	for i := range cfg.Charges {
		for j := i + 1; j < len(cfg.Charges); j++ {
			a, b := cfg.Charges[i], cfg.Charges[j]
			dx, dy := a.X-b.X, a.Y-b.Y
			assert.Greater(t, dx*dx+dy*dy, 4*r*r, "charges %d and %d overlap", i, j)
		}
	}
	assert.NoError(t, cfg.Validate())
}

func TestRunStoresTrace(t *testing.T) {
	dir := t.TempDir()
	settings.Set("data", dir)
	t.Cleanup(func() { settings.Set("data", ".chargesim") })

	cmd := runCommand()
	cmd.SetArgs([]string{"annihilation", "--ticks", "10", "--metrics", "merges,live_charges"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	st := storage.New(dir)
	id, err := resolveRun(st, "latest")
	require.NoError(t, err)
	meta, err := st.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "annihilation", meta.Scenario)
	assert.Equal(t, 10, meta.Ticks)
	assert.Contains(t, meta.Metrics, "live_charges")

	rows, err := st.LoadTrace(id)
	require.NoError(t, err)
	assert.Len(t, rows, 10)
}

func TestSnapshotWritesSVG(t *testing.T) {
	t.Cleanup(func() { snapshotOut = "" })
	out := filepath.Join(t.TempDir(), "dipole.svg")

	cmd := snapshotCommand()
	cmd.SetArgs([]string{"dipole", "--ticks", "3", "--block", "20", "-o", out})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	svg := string(data)
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Contains(t, svg, "data-id=")
}
