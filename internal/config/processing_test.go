package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultProcessingConfig(t *testing.T) {
	cfg := DefaultProcessingConfig()
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.GetTransformToGlobal())
	assert.Equal(t, "pwa", cfg.GetLocation())
	assert.False(t, cfg.GetThresholdEnabled())
	assert.Equal(t, 0.0, cfg.GetThresholdValue())
	assert.Equal(t, 1, cfg.GetDownsampleRatio())
}

func TestEmptyConfigFallsBackToDefaults(t *testing.T) {
	cfg := EmptyProcessingConfig()
	assert.Equal(t, DefaultProcessingConfig().GetLocation(), cfg.GetLocation())
	assert.True(t, cfg.GetTransformToGlobal())
	assert.Equal(t, 1, cfg.GetDownsampleRatio())
}

func TestLoadProcessingConfig(t *testing.T) {
	path := writeConfig(t, "proc.json", `{
  "transform_to_global": false,
  "location": "COP",
  "threshold_enabled": true,
  "threshold_value": 12.5,
  "downsample_ratio": 4
}`)

	cfg, err := LoadProcessingConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.GetTransformToGlobal())
	assert.Equal(t, "cop", cfg.GetLocation())
	assert.True(t, cfg.GetThresholdEnabled())
	assert.Equal(t, 12.5, cfg.GetThresholdValue())
	assert.Equal(t, 4, cfg.GetDownsampleRatio())
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, "partial.json", `{"location": "origin"}`)

	cfg, err := LoadProcessingConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "origin", cfg.GetLocation())
	assert.Nil(t, cfg.DownsampleRatio)
	assert.Equal(t, 1, cfg.GetDownsampleRatio())
	assert.True(t, cfg.GetTransformToGlobal())
}

func TestLoadProcessingConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		want string
	}{
		{"wrong extension", "proc.yaml", `{}`, "must have .json extension"},
		{"bad json", "bad.json", `{"location": `, "failed to parse config JSON"},
		{"unknown location", "loc.json", `{"location": "heel"}`, "location must be one of"},
		{"negative threshold", "thr.json", `{"threshold_value": -1}`, "threshold_value must be non-negative"},
		{"zero ratio", "ratio.json", `{"downsample_ratio": 0}`, "downsample_ratio must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProcessingConfig(writeConfig(t, tt.file, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadProcessingConfig(filepath.Join(t.TempDir(), "none.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to stat config file")
	})

	t.Run("too large", func(t *testing.T) {
		body := `{"location": "pwa"` + strings.Repeat(" ", 1024*1024) + `}`
		_, err := LoadProcessingConfig(writeConfig(t, "big.json", body))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file too large")
	})
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultProcessingConfig().GetLocation(), cfg.GetLocation())
	assert.Equal(t, DefaultProcessingConfig().GetDownsampleRatio(), cfg.GetDownsampleRatio())
	assert.True(t, cfg.GetTransformToGlobal())
}
