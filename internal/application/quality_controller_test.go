package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/kraftgate/internal/domain"
	"github.com/openkraft/kraftgate/internal/domain/patterns"
	"github.com/openkraft/kraftgate/internal/domain/scoring"
)

func memProvider(files map[string]string) domain.FileContentProvider {
	return domain.FileContentProviderFunc(func(_ context.Context, p string) (string, error) {
		content, ok := files[p]
		if !ok {
			return "", domain.ErrFileNotFound
		}
		return content, nil
	})
}

func newController(files map[string]string) *QualityController {
	return NewQualityController(domain.DefaultRules(), patterns.Default(), memProvider(files))
}

func intPtr(v int) *int { return &v }

func todoSolution() domain.Solution {
	return domain.Solution{
		ID:    "sol-1",
		Agent: "coder",
		Changes: []domain.CodeChange{{
			File: "a.ts", Kind: domain.ChangeModify,
			Description: "TODO: finish this", EstimatedLines: intPtr(50),
		}},
	}
}

func TestValidateSolution_TodoDescriptionPasses(t *testing.T) {
	c := newController(nil)

	report, err := c.ValidateSolution(context.Background(), todoSolution())
	require.NoError(t, err)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, domain.CategoryIncomplete, report.Issues[0].Category)
	assert.Equal(t, domain.SeverityCritical, report.Issues[0].Severity)
	assert.Equal(t, 85, report.Score)
	assert.True(t, report.Passed)
	assert.Equal(t, 70, report.Threshold)
	assert.Equal(t, "sol-1", report.SolutionID)
	assert.Equal(t, []string{
		"Fix 1 critical issue(s) before accepting this solution",
		scoring.RecommendComplete,
	}, report.Recommendations)
}

func TestValidateSolution_TodoPlusEvalFails(t *testing.T) {
	c := newController(map[string]string{"a.ts": "export const run = (userInput) => eval(userInput)\n"})

	report, err := c.ValidateSolution(context.Background(), todoSolution())
	require.NoError(t, err)

	require.Len(t, report.Issues, 2)
	assert.Equal(t, domain.CategoryIncomplete, report.Issues[0].Category)
	assert.Equal(t, domain.CategorySecurity, report.Issues[1].Category)
	assert.Equal(t, domain.SeverityCritical, report.Issues[1].Severity)
	assert.Equal(t, 65, report.Score)
	assert.False(t, report.Passed)
	assert.Equal(t, []string{
		"Fix 2 critical issue(s) before accepting this solution",
		scoring.RecommendSecurity,
		scoring.RecommendComplete,
	}, report.Recommendations)
}

func TestValidateSolution_FourFilesWithoutManifest(t *testing.T) {
	c := newController(nil)
	sol := domain.Solution{ID: "s", Agent: "a"}
	for _, f := range []string{"a.go", "b.go", "c.go", "d.go"} {
		sol.Changes = append(sol.Changes, domain.CodeChange{File: f, Kind: domain.ChangeModify})
	}

	report, err := c.ValidateSolution(context.Background(), sol)
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, domain.CategoryDependencies, report.Issues[0].Category)
	assert.Equal(t, domain.SeverityLow, report.Issues[0].Severity)
	assert.Equal(t, 95, report.Score)
	assert.Equal(t, []string{scoring.RecommendMeets}, report.Recommendations)
}

func TestValidateSolution_CleanSolution(t *testing.T) {
	c := newController(map[string]string{"a.go": "package a\n"})
	sol := domain.Solution{ID: "s", Agent: "a", Changes: []domain.CodeChange{
		{File: "a.go", Kind: domain.ChangeModify, Description: "rename field"},
	}}

	report, err := c.ValidateSolution(context.Background(), sol)
	require.NoError(t, err)
	assert.Empty(t, report.Issues)
	assert.NotNil(t, report.Issues)
	assert.Equal(t, 100, report.Score)
	assert.True(t, report.Passed)
	assert.Equal(t, []string{scoring.RecommendMeets}, report.Recommendations)
}

func TestValidateSolution_IssueOrderFollowsCheckers(t *testing.T) {
	files := map[string]string{
		"a.ts": "el.innerHTML = x\n",
		"b.ts": "// TODO: later\n",
	}
	c := newController(files)
	sol := domain.Solution{ID: "s", Agent: "a", Changes: []domain.CodeChange{
		{File: "a.ts", Kind: domain.ChangeModify, Description: "typed as any", EstimatedLines: intPtr(900)},
		{File: "b.ts", Kind: domain.ChangeModify},
		{File: "c.ts", Kind: domain.ChangeCreate},
		{File: "d.ts", Kind: domain.ChangeDelete},
	}}

	report, err := c.ValidateSolution(context.Background(), sol)
	require.NoError(t, err)

	var cats []domain.Category
	for _, iss := range report.Issues {
		cats = append(cats, iss.Category)
	}
	assert.Equal(t, []domain.Category{
		domain.CategoryIncomplete,
		domain.CategoryStandards, domain.CategoryStandards,
		domain.CategorySecurity,
		domain.CategoryDependencies,
	}, cats)
	assert.Equal(t, 100-15-20-20-5, report.Score)
}

func TestValidateSolution_ScoreClampedAtZero(t *testing.T) {
	bad := "eval(x)\nel.innerHTML = y\ndocument.write(z)\nconst s = `${a}`\nconst password = 1\n"
	files := map[string]string{}
	sol := domain.Solution{ID: "s", Agent: "a"}
	for _, f := range []string{"a.js", "b.js", "c.js"} {
		files[f] = bad
		sol.Changes = append(sol.Changes, domain.CodeChange{File: f, Kind: domain.ChangeModify})
	}

	report, err := newController(files).ValidateSolution(context.Background(), sol)
	require.NoError(t, err)
	assert.Len(t, report.Issues, 15)
	assert.Equal(t, 0, report.Score)
	assert.False(t, report.Passed)
}

func TestValidateSolution_Idempotent(t *testing.T) {
	c := newController(map[string]string{"a.ts": "eval(x) // FIXME: y"})
	first, err := c.ValidateSolution(context.Background(), todoSolution())
	require.NoError(t, err)
	second, err := c.ValidateSolution(context.Background(), todoSolution())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateSolution_RejectsMalformedSolution(t *testing.T) {
	c := newController(nil)
	_, err := c.ValidateSolution(context.Background(), domain.Solution{ID: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidSolution)
}

func TestValidateSolution_PassedMatchesThreshold(t *testing.T) {
	c := newController(nil)
	for _, threshold := range []int{-10, 0, 50, 84, 85, 86, 100, 300} {
		c.SetMinAcceptableScore(threshold)
		report, err := c.ValidateSolution(context.Background(), todoSolution())
		require.NoError(t, err)
		assert.Equal(t, report.Score >= c.MinAcceptableScore(), report.Passed, "threshold %d", threshold)
		assert.Equal(t, c.MinAcceptableScore(), report.Threshold)
	}
}

func TestMinAcceptableScore_DefaultAndClamp(t *testing.T) {
	c := newController(nil)
	assert.Equal(t, 70, c.MinAcceptableScore())

	c.SetMinAcceptableScore(-5)
	assert.Equal(t, 0, c.MinAcceptableScore())

	c.SetMinAcceptableScore(250)
	assert.Equal(t, 100, c.MinAcceptableScore())

	c.SetMinAcceptableScore(55)
	assert.Equal(t, 55, c.MinAcceptableScore())
}

func TestNewQualityController_UsesConfiguredRules(t *testing.T) {
	cfg := domain.GateConfig{
		MinScore:  intPtr(90),
		Penalties: map[domain.Category]int{domain.CategoryIncomplete: 40},
	}
	c := NewQualityController(cfg.Resolve(), patterns.Default(), memProvider(nil))

	report, err := c.ValidateSolution(context.Background(), todoSolution())
	require.NoError(t, err)
	assert.Equal(t, 60, report.Score)
	assert.Equal(t, 90, report.Threshold)
	assert.False(t, report.Passed)
}

func TestWithSnapshot_CopiedIntoReport(t *testing.T) {
	c := NewQualityController(domain.DefaultRules(), patterns.Default(), memProvider(nil), WithSnapshot("abc123"))
	report, err := c.ValidateSolution(context.Background(), todoSolution())
	require.NoError(t, err)
	assert.Equal(t, "abc123", report.CommitHash)
}

func TestWithSnapshotFunc_ResolvedPerValidation(t *testing.T) {
	heads := []string{"aaa111", "bbb222"}
	calls := 0
	c := NewQualityController(domain.DefaultRules(), patterns.Default(), memProvider(nil),
		WithSnapshotFunc(func() string {
			h := heads[calls]
			calls++
			return h
		}))

	first, err := c.ValidateSolution(context.Background(), todoSolution())
	require.NoError(t, err)
	second, err := c.ValidateSolution(context.Background(), todoSolution())
	require.NoError(t, err)

	assert.Equal(t, "aaa111", first.CommitHash)
	assert.Equal(t, "bbb222", second.CommitHash)
}

func TestWithSnapshotFunc_NotCalledForInvalidSolution(t *testing.T) {
	called := false
	c := NewQualityController(domain.DefaultRules(), patterns.Default(), memProvider(nil),
		WithSnapshotFunc(func() string { called = true; return "x" }))

	_, err := c.ValidateSolution(context.Background(), domain.Solution{})
	assert.ErrorIs(t, err, domain.ErrInvalidSolution)
	assert.False(t, called)
}

type fixedChecker struct {
	name   string
	issues []domain.Issue
}

func (f fixedChecker) Name() string { return f.name }

func (f fixedChecker) Check(context.Context, domain.Solution) []domain.Issue { return f.issues }

func TestWithCheckers_DuplicatesCountIndependently(t *testing.T) {
	dup := domain.Issue{Severity: domain.SeverityHigh, Category: domain.CategoryStandards, Message: "same"}
	c := NewQualityController(domain.DefaultRules(), patterns.Default(), nil,
		WithCheckers(fixedChecker{"one", []domain.Issue{dup}}, fixedChecker{"two", []domain.Issue{dup}}))

	report, err := c.ValidateSolution(context.Background(), todoSolution())
	require.NoError(t, err)
	assert.Len(t, report.Issues, 2)
	assert.Equal(t, 80, report.Score)
}

func TestValidateSolution_ConcurrentCalls(t *testing.T) {
	c := newController(map[string]string{"a.ts": "eval(x)"})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := c.ValidateSolution(context.Background(), todoSolution())
			assert.NoError(t, err)
			assert.Equal(t, 65, report.Score)
		}()
	}
	wg.Wait()
}
