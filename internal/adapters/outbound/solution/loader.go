// Package solution reads Solution documents written by upstream agents.
package solution

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openkraft/kraftgate/internal/domain"
)

// Format is the encoding of a Solution document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads and decodes the Solution stored at path.
func LoadFile(path string) (domain.Solution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Solution{}, fmt.Errorf("reading solution: %w", err)
	}
	sol, err := Decode(data, FormatFor(path))
	if err != nil {
		return domain.Solution{}, fmt.Errorf("%s: %w", path, err)
	}
	return sol, nil
}

// Decode parses a Solution document. Unknown fields are rejected so that
// misspelled keys do not silently drop data. The result is not validated;
// the quality controller does that.
func Decode(data []byte, format Format) (domain.Solution, error) {
	var sol domain.Solution
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&sol); err != nil {
			return domain.Solution{}, fmt.Errorf("decoding yaml solution: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sol); err != nil {
			return domain.Solution{}, fmt.Errorf("decoding json solution: %w", err)
		}
	default:
		return domain.Solution{}, fmt.Errorf("unsupported solution format %q", format)
	}
	return sol, nil
}
