// Package patterns holds the versioned regular-expression rule sets the
// quality checkers evaluate: completeness markers, complexity heuristics and
// security anti-patterns. Rules are textual predicates over raw file or
// description text; no rule parses code.
package patterns

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/openkraft/kraftgate/internal/domain"
	"gopkg.in/yaml.v3"
)

// Set names as they appear in library.yaml.
const (
	SetCompleteness = "completeness"
	SetComplexity   = "complexity"
	SetSecurity     = "security"
)

// Library is a compiled, versioned collection of rule sets.
type Library struct {
	Version      string `yaml:"version"      json:"version"`
	Completeness []Rule `yaml:"completeness" json:"completeness"`
	Complexity   []Rule `yaml:"complexity"   json:"complexity"`
	Security     []Rule `yaml:"security"     json:"security"`
}

// Rule is one named pattern. Severity and Message are only meaningful for
// rule sets whose findings carry a fixed severity (security).
type Rule struct {
	ID          string          `yaml:"id"                 json:"id"`
	Description string          `yaml:"description"        json:"description"`
	Regex       string          `yaml:"regex"              json:"regex"`
	Severity    domain.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`
	Message     string          `yaml:"message,omitempty"  json:"message,omitempty"`

	re *regexp.Regexp
}

// Match is the first occurrence of a rule in a text.
type Match struct {
	Text string
	Line int
}

// FindFirst returns the first occurrence of the rule in text. Line is 1-based.
func (r Rule) FindFirst(text string) (Match, bool) {
	loc := r.re.FindStringIndex(text)
	if loc == nil {
		return Match{}, false
	}
	return Match{
		Text: text[loc[0]:loc[1]],
		Line: lineOf(text, loc[0]),
	}, true
}

// MatchString reports whether the rule occurs anywhere in text.
func (r Rule) MatchString(text string) bool {
	return r.re.MatchString(text)
}

func lineOf(text string, offset int) int {
	line := 1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
		}
	}
	return line
}

// Sets returns the rule sets keyed by name in a fixed order.
func (l *Library) Sets() []NamedSet {
	return []NamedSet{
		{Name: SetCompleteness, Rules: l.Completeness},
		{Name: SetComplexity, Rules: l.Complexity},
		{Name: SetSecurity, Rules: l.Security},
	}
}

// NamedSet pairs a rule set with its name.
type NamedSet struct {
	Name  string `json:"name"`
	Rules []Rule `json:"rules"`
}

// Load parses and compiles a YAML library. Every rule needs a unique id
// within its set and a compilable regex; security rules need a severity.
func Load(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parsing pattern library: %w", err)
	}
	if lib.Version == "" {
		return nil, fmt.Errorf("pattern library has no version")
	}

	for _, set := range []struct {
		name          string
		rules         []Rule
		needsSeverity bool
	}{
		{SetCompleteness, lib.Completeness, false},
		{SetComplexity, lib.Complexity, false},
		{SetSecurity, lib.Security, true},
	} {
		if err := compileSet(set.name, set.rules, set.needsSeverity); err != nil {
			return nil, err
		}
	}

	return &lib, nil
}

func compileSet(name string, rules []Rule, needsSeverity bool) error {
	seen := make(map[string]bool, len(rules))
	for i := range rules {
		r := &rules[i]
		if r.ID == "" {
			return fmt.Errorf("%s[%d]: rule id must not be empty", name, i)
		}
		if seen[r.ID] {
			return fmt.Errorf("%s: duplicate rule id %q", name, r.ID)
		}
		seen[r.ID] = true

		re, err := regexp.Compile(r.Regex)
		if err != nil {
			return fmt.Errorf("%s/%s: compiling regex: %w", name, r.ID, err)
		}
		r.re = re

		if r.Severity != "" && r.Severity.Rank() == 0 {
			return fmt.Errorf("%s/%s: unknown severity %q", name, r.ID, r.Severity)
		}
		if needsSeverity && r.Severity == "" {
			return fmt.Errorf("%s/%s: severity is required", name, r.ID)
		}
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Default returns the embedded library. It panics if the embedded YAML is
// malformed, which is a build defect.
func Default() *Library {
	defaultOnce.Do(func() {
		lib, err := Load(libraryYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded pattern library: %v", err))
		}
		defaultLib = lib
	})
	return defaultLib
}
