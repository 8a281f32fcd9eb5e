package domain

// Severity ranks how serious an Issue is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity from least to most serious.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Rank orders severities: low=1 < medium=2 < high=3 < critical=4.
// Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Category groups issues by the checker concern that produced them.
type Category string

const (
	CategoryIncomplete   Category = "incomplete"
	CategoryStandards    Category = "standards"
	CategorySecurity     Category = "security"
	CategoryDependencies Category = "dependencies"
	CategoryOther        Category = "other"
)

// ValidCategories enumerates all issue categories.
var ValidCategories = []Category{
	CategoryIncomplete, CategoryStandards, CategorySecurity,
	CategoryDependencies, CategoryOther,
}

// ChangeKind is the file-level operation a CodeChange performs.
type ChangeKind string

const (
	ChangeCreate ChangeKind = "create"
	ChangeModify ChangeKind = "modify"
	ChangeDelete ChangeKind = "delete"
)

// Solution is a proposed, not-yet-applied change set produced by an agent.
type Solution struct {
	ID      string       `json:"id"      yaml:"id"      validate:"required"`
	Agent   string       `json:"agent"   yaml:"agent"   validate:"required"`
	Changes []CodeChange `json:"changes" yaml:"changes" validate:"required,min=1,dive"`
}

// CodeChange is one file-level edit within a Solution.
type CodeChange struct {
	File           string     `json:"file"                      yaml:"file"                      validate:"required"`
	Kind           ChangeKind `json:"kind"                      yaml:"kind"                      validate:"required,oneof=create modify delete"`
	Description    string     `json:"description"               yaml:"description"`
	EstimatedLines *int       `json:"estimated_lines,omitempty" yaml:"estimated_lines,omitempty" validate:"omitempty,gte=0"`
}

// IsDelete reports whether the change removes its file. Deleted files have
// no content to inspect.
func (c CodeChange) IsDelete() bool { return c.Kind == ChangeDelete }

// Issue is a single finding. Issues carry no identity beyond their content.
type Issue struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
	Rule     string   `json:"rule,omitempty"`
}

// Report is the outcome of validating one Solution.
type Report struct {
	SolutionID      string   `json:"solution_id"`
	Passed          bool     `json:"passed"`
	Score           int      `json:"score"`
	Threshold       int      `json:"threshold"`
	Issues          []Issue  `json:"issues"`
	Recommendations []string `json:"recommendations"`
	CommitHash      string   `json:"commit_hash,omitempty"`
}

// CountBySeverity returns the number of issues with the given severity.
func (r *Report) CountBySeverity(s Severity) int {
	return CountSeverity(r.Issues, s)
}

// CountByCategory returns the number of issues in the given category.
func (r *Report) CountByCategory(c Category) int {
	return CountCategory(r.Issues, c)
}

// HasIssues reports whether any issue was found.
func (r *Report) HasIssues() bool {
	return len(r.Issues) > 0
}

// CountSeverity counts issues with severity s.
func CountSeverity(issues []Issue, s Severity) int {
	n := 0
	for _, iss := range issues {
		if iss.Severity == s {
			n++
		}
	}
	return n
}

// CountCategory counts issues in category c.
func CountCategory(issues []Issue, c Category) int {
	n := 0
	for _, iss := range issues {
		if iss.Category == c {
			n++
		}
	}
	return n
}
