package patterns

import _ "embed"

// libraryYAML is the built-in rule set, baked into the binary so rules
// travel with the executable.
//
//go:embed library.yaml
var libraryYAML []byte
