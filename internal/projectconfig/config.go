// Package projectconfig provides the ProjectConfig struct and loader for
// .slidegauge.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/slidegauge/internal/cache"
)

// Default values for project configuration, applied by New().
const (
	// FileName is the project configuration file Load searches for.
	FileName = ".slidegauge.yaml"

	DefaultFormat     = "json"
	DefaultCacheFile  = cache.DefaultFile
	DefaultServerAddr = "127.0.0.1:7465"
)

// OutputConfig holds report output settings.
type OutputConfig struct {
	Format string `yaml:"format,omitempty"`
}

// AnalysisConfig holds analyze defaults. Threshold stays nil unless the
// project file sets one, so the analyzer's own configuration applies
// otherwise.
type AnalysisConfig struct {
	Config    string `yaml:"config,omitempty"`
	Threshold *int   `yaml:"threshold,omitempty"`
	Parallel  *bool  `yaml:"parallel,omitempty"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	File    string `yaml:"file,omitempty"`
}

// ServerConfig holds serve command settings.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .slidegauge.yaml.
type ProjectConfig struct {
	Output   OutputConfig   `yaml:"output,omitempty"`
	Analysis AnalysisConfig `yaml:"analysis,omitempty"`
	Cache    CacheConfig    `yaml:"cache,omitempty"`
	Server   ServerConfig   `yaml:"server,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Output: OutputConfig{
			Format: DefaultFormat,
		},
		Analysis: AnalysisConfig{
			Parallel: boolPtr(false),
		},
		Cache: CacheConfig{
			Enabled: boolPtr(true),
			File:    DefaultCacheFile,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
	}
}

// Load finds .slidegauge.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .slidegauge.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates
// real I/O errors (e.g. permission denied) instead of silently swallowing
// them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Output.Format != "" {
		dst.Output.Format = src.Output.Format
	}

	if src.Analysis.Config != "" {
		dst.Analysis.Config = src.Analysis.Config
	}
	if src.Analysis.Threshold != nil {
		dst.Analysis.Threshold = src.Analysis.Threshold
	}
	if src.Analysis.Parallel != nil {
		dst.Analysis.Parallel = src.Analysis.Parallel
	}

	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Cache.File != "" {
		dst.Cache.File = src.Cache.File
	}

	if src.Server.Addr != "" {
		dst.Server.Addr = src.Server.Addr
	}
}

func boolPtr(b bool) *bool {
	return &b
}
