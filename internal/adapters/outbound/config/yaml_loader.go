package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openkraft/kraftgate/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the workspace-level configuration file.
const FileName = ".kraftgate.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .kraftgate.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .kraftgate.yaml from workspacePath.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(workspacePath string) (domain.GateConfig, error) {
	data, err := os.ReadFile(filepath.Join(workspacePath, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.GateConfig{}, err
	}

	var cfg domain.GateConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.GateConfig{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	// Validate raw input so typos surface before defaults hide them.
	if err := cfg.Validate(); err != nil {
		return domain.GateConfig{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}

	return cfg, nil
}

// Template returns a commented .kraftgate.yaml spelling out every default.
func Template() string {
	r := domain.DefaultRules()
	return fmt.Sprintf(`# kraftgate configuration
# Minimum score (0-100) a solution needs to pass.
min_score: %d

# Estimated line count above which a change is flagged as too large.
max_estimated_lines: %d

# Statically typed source extensions and the description substrings that
# suggest an untyped escape hatch.
typed_extensions: [%q]
untyped_markers: [%q]

# A solution touching more than dependency_change_limit files without any of
# these manifests gets a dependency review advisory.
manifest_files: [%q, %q, %q]
dependency_change_limit: %d

# Points deducted per issue, by category.
penalties:
  incomplete: %d
  standards: %d
  security: %d
  dependencies: %d
`,
		r.MinScore, r.MaxEstimatedLines,
		r.TypedExtensions[0], r.UntypedMarkers[0],
		r.ManifestFiles[0], r.ManifestFiles[1], r.ManifestFiles[2],
		r.DependencyChangeLimit,
		r.Penalties[domain.CategoryIncomplete], r.Penalties[domain.CategoryStandards],
		r.Penalties[domain.CategorySecurity], r.Penalties[domain.CategoryDependencies],
	)
}
