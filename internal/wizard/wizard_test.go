package wizard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/slidegauge/internal/config"
	"github.com/nibzard/slidegauge/internal/projectconfig"
)

func TestGenerateProjectYAML_RendersAllFields(t *testing.T) {
	spec := &ProjectSpec{
		Format:       "text",
		Threshold:    85,
		CacheEnabled: false,
		CacheFile:    ".deck-cache.json",
		ServerAddr:   "127.0.0.1:9000",
	}

	result, err := GenerateProjectYAML(spec)
	require.NoError(t, err)

	assert.Contains(t, result, "format: text")
	assert.Contains(t, result, "threshold: 85")
	assert.Contains(t, result, "enabled: false")
	assert.Contains(t, result, "file: .deck-cache.json")
	assert.Contains(t, result, "addr: 127.0.0.1:9000")
	assert.Contains(t, result, "# SlideGauge project configuration.")
	assert.NotContains(t, result, "\n  config:")
}

func TestGenerateProjectYAML_ReferencesStarterConfig(t *testing.T) {
	spec := &ProjectSpec{
		Format:       "json",
		Threshold:    70,
		CacheEnabled: true,
		CacheFile:    ".slidegauge.cache.json",
		ServerAddr:   "127.0.0.1:7465",
		ConfigFile:   StarterConfigName,
	}

	result, err := GenerateProjectYAML(spec)
	require.NoError(t, err)
	assert.Contains(t, result, "  config: slidegauge.config.json\n")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, projectconfig.FileName), []byte(result), 0o644))

	cfg, err := projectconfig.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, StarterConfigName, cfg.Analysis.Config)
}

func TestGenerateProjectYAML_RoundTripsThroughLoader(t *testing.T) {
	spec := &ProjectSpec{
		Format:       "sarif",
		Threshold:    90,
		CacheEnabled: true,
		CacheFile:    ".slidegauge.cache.json",
		ServerAddr:   "127.0.0.1:7465",
	}

	result, err := GenerateProjectYAML(spec)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, projectconfig.FileName), []byte(result), 0o644))

	cfg, err := projectconfig.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sarif", cfg.Output.Format)
	require.NotNil(t, cfg.Analysis.Threshold)
	assert.Equal(t, 90, *cfg.Analysis.Threshold)
	require.NotNil(t, cfg.Cache.Enabled)
	assert.True(t, *cfg.Cache.Enabled)
	assert.Equal(t, ".slidegauge.cache.json", cfg.Cache.File)
	assert.Equal(t, "127.0.0.1:7465", cfg.Server.Addr)
}

func TestGenerateStarterConfig_PassesTheLoader(t *testing.T) {
	starter, err := GenerateStarterConfig()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), StarterConfigName)
	require.NoError(t, os.WriteFile(path, []byte(starter), 0o644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, json.Number("70"), cfg["threshold"])

	weights, ok := cfg["weights"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("20"), weights["title/required"])
}

func TestValidateThreshold(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"typical", "70", false},
		{"zero", "0", false},
		{"max", "100", false},
		{"padded", " 85 ", false},
		{"too high", "101", true},
		{"negative", "-1", true},
		{"not a number", "abc", true},
		{"empty", "", true},
		{"fractional", "70.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateThreshold(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
