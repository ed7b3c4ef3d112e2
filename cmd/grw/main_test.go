package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trialDoc = `
metadata:
  FORCE_PLATFORM:
    USED: 1
    TYPE: [2]
    CHANNEL:
      values: [1, 2, 3, 4, 5, 6]
      dims: [6, 1]
    CORNERS:
      values: [250, 250, 0, -250, 250, 0, -250, -250, 0, 250, -250, 0]
      dims: [3, 4, 1]
      format: float
analogs:
  - {label: FX1, values: [0, 0, 0, 0]}
  - {label: FY1, values: [0, 0, 0, 0]}
  - {label: FZ1, values: [100, 100, 5, 100]}
  - {label: MX1, values: [0, 0, 0, 0]}
  - {label: MY1, values: [0, 0, 0, 0]}
  - {label: MZ1, values: [0, 0, 0, 0]}
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRunPrintsSummary(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "trial.yaml", trialDoc)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-trial", path}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "1 wrench(es)")
	assert.Contains(t, stdout.String(), "GRW1: 4 frame(s), 0 suppressed, peak Fz 100.000, mean angles 90.00/90.00/")
	assert.Contains(t, stderr.String(), "run ")
}

func TestRunAppliesConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "trial.yaml", trialDoc)
	cfg := writeFile(t, dir, "proc.json", `{"location": "cop", "threshold_enabled": true, "threshold_value": 10, "downsample_ratio": 2}`)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-trial", path, "-config", cfg}, &stdout, &stderr))
	// Frames 0 and 2 are kept; frame 2 is below the threshold.
	assert.Contains(t, stdout.String(), "GRW1: 2 frame(s), 1 suppressed, peak Fz 100.000")
}

func TestRunRemovesOffsets(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "trial.yaml", trialDoc)
	static := writeFile(t, dir, "static.yaml", `
analogs:
  - {label: FZ1, values: [4, 6]}
`)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-trial", path, "-offset", static}, &stdout, &stderr))
	// FZ1 loses its static mean of 5; the unloaded frame has no position.
	assert.Contains(t, stdout.String(), "GRW1: 4 frame(s), 1 suppressed, peak Fz 95.000")
}

func TestRunWritesPlots(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "trial.yaml", trialDoc)
	plots := filepath.Join(dir, "plots")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-trial", path, "-plots", plots}, &stdout, &stderr))

	runs, err := os.ReadDir(plots)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	files, err := filepath.Glob(filepath.Join(plots, runs[0].Name(), "*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, stderr.String(), "2 plot(s) written")
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "trial.yaml", trialDoc)
	badCfg := writeFile(t, dir, "bad.json", `{"location": "toe"}`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no trial", nil, "-trial is required"},
		{"missing trial", []string{"-trial", filepath.Join(dir, "none.yaml")}, "failed to open trial"},
		{"missing static trial", []string{"-trial", path, "-offset", filepath.Join(dir, "none.yaml")}, "failed to open trial"},
		{"bad config", []string{"-trial", path, "-config", badCfg}, "location must be one of"},
		{"bad flag", []string{"-nope"}, "flag provided but not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tt.args, &stdout, &stderr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-version"}, &stdout, &stderr))
	assert.Equal(t, "grw dev (git unknown, built unknown)\n", stdout.String())
}
