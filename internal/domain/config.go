package domain

import "fmt"

// Defaults applied when .kraftgate.yaml is absent or leaves a key unset.
const (
	DefaultMinScore              = 70
	DefaultMaxEstimatedLines     = 200
	DefaultDependencyChangeLimit = 3
)

// DefaultPenalties is the per-category score deduction for each issue.
var DefaultPenalties = map[Category]int{
	CategoryIncomplete:   15,
	CategoryStandards:    10,
	CategorySecurity:     20,
	CategoryDependencies: 5,
	CategoryOther:        0,
}

// GateConfig holds workspace-level configuration loaded from .kraftgate.yaml.
// Pointer fields distinguish "not specified" from zero values.
type GateConfig struct {
	MinScore              *int             `yaml:"min_score,omitempty"               json:"min_score,omitempty"`
	MaxEstimatedLines     *int             `yaml:"max_estimated_lines,omitempty"     json:"max_estimated_lines,omitempty"`
	TypedExtensions       []string         `yaml:"typed_extensions,omitempty"        json:"typed_extensions,omitempty"`
	UntypedMarkers        []string         `yaml:"untyped_markers,omitempty"         json:"untyped_markers,omitempty"`
	ManifestFiles         []string         `yaml:"manifest_files,omitempty"          json:"manifest_files,omitempty"`
	DependencyChangeLimit *int             `yaml:"dependency_change_limit,omitempty" json:"dependency_change_limit,omitempty"`
	Penalties             map[Category]int `yaml:"penalties,omitempty"               json:"penalties,omitempty"`
}

// DefaultConfig returns a zero-value config that changes nothing.
func DefaultConfig() GateConfig {
	return GateConfig{}
}

// Rules is the resolved, fully-populated form of GateConfig that checkers
// and the scorer consume.
type Rules struct {
	MinScore              int
	MaxEstimatedLines     int
	TypedExtensions       []string
	UntypedMarkers        []string
	ManifestFiles         []string
	DependencyChangeLimit int
	Penalties             map[Category]int
}

// DefaultRules returns the built-in rule settings.
func DefaultRules() Rules {
	penalties := make(map[Category]int, len(DefaultPenalties))
	for k, v := range DefaultPenalties {
		penalties[k] = v
	}
	return Rules{
		MinScore:              DefaultMinScore,
		MaxEstimatedLines:     DefaultMaxEstimatedLines,
		TypedExtensions:       []string{".ts"},
		UntypedMarkers:        []string{"any"},
		ManifestFiles:         []string{"package.json", "package-lock.json", "yarn.lock"},
		DependencyChangeLimit: DefaultDependencyChangeLimit,
		Penalties:             penalties,
	}
}

// Resolve overlays explicit config values on top of DefaultRules.
// Penalty entries override per category; unspecified categories keep
// their defaults.
func (c GateConfig) Resolve() Rules {
	r := DefaultRules()
	if c.MinScore != nil {
		r.MinScore = *c.MinScore
	}
	if c.MaxEstimatedLines != nil {
		r.MaxEstimatedLines = *c.MaxEstimatedLines
	}
	if len(c.TypedExtensions) > 0 {
		r.TypedExtensions = c.TypedExtensions
	}
	if len(c.UntypedMarkers) > 0 {
		r.UntypedMarkers = c.UntypedMarkers
	}
	if len(c.ManifestFiles) > 0 {
		r.ManifestFiles = c.ManifestFiles
	}
	if c.DependencyChangeLimit != nil {
		r.DependencyChangeLimit = *c.DependencyChangeLimit
	}
	for k, v := range c.Penalties {
		r.Penalties[k] = v
	}
	return r
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c GateConfig) Validate() error {
	// 1. min_score must be a valid score
	if c.MinScore != nil && (*c.MinScore < 0 || *c.MinScore > 100) {
		return fmt.Errorf("min_score = %d (must be between 0 and 100)", *c.MinScore)
	}

	// 2. size and count limits must be positive
	intFields := []struct {
		name string
		ptr  *int
	}{
		{"max_estimated_lines", c.MaxEstimatedLines},
		{"dependency_change_limit", c.DependencyChangeLimit},
	}
	for _, f := range intFields {
		if f.ptr != nil && *f.ptr <= 0 {
			return fmt.Errorf("%s must be > 0 (got %d)", f.name, *f.ptr)
		}
	}

	// 3. penalties keys must be valid categories, values 0-100
	for k, v := range c.Penalties {
		if !isValidCategory(k) {
			return fmt.Errorf("unknown category %q in penalties", k)
		}
		if v < 0 || v > 100 {
			return fmt.Errorf("penalties[%q] = %d (must be between 0 and 100)", k, v)
		}
	}

	// 4. list entries must be non-empty
	lists := []struct {
		name   string
		values []string
	}{
		{"typed_extensions", c.TypedExtensions},
		{"untyped_markers", c.UntypedMarkers},
		{"manifest_files", c.ManifestFiles},
	}
	for _, l := range lists {
		for i, v := range l.values {
			if v == "" {
				return fmt.Errorf("%s[%d] must not be empty", l.name, i)
			}
		}
	}

	return nil
}

func isValidCategory(c Category) bool {
	for _, v := range ValidCategories {
		if v == c {
			return true
		}
	}
	return false
}
