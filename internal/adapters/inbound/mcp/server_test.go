package mcp_test

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpadapter "github.com/openkraft/kraftgate/internal/adapters/inbound/mcp"
	"github.com/openkraft/kraftgate/internal/domain"
)

func newServer(t *testing.T, files map[string]string) *server.MCPServer {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, dir, name, content)
	}
	s, err := mcpadapter.NewKraftgateMCPServer(dir, nil)
	require.NoError(t, err)
	return s
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, string(out))
	return string(out)
}

func committedRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	git(t, dir, "init")
	git(t, dir, "config", "user.email", "test@test.com")
	git(t, dir, "config", "user.name", "Test")
	for name, content := range files {
		writeFile(t, dir, name, content)
	}
	git(t, dir, "add", ".")
	git(t, dir, "commit", "-m", "init")
	return dir
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcplib.CallToolResult {
	t.Helper()
	tool, ok := s.ListTools()[name]
	require.True(t, ok, "tool %q should be registered", name)

	req := mcplib.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestNewKraftgateMCPServer(t *testing.T) {
	s, err := mcpadapter.NewKraftgateMCPServer(".", nil)
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestNewKraftgateMCPServer_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".kraftgate.yaml"), []byte("min_score: 500\n"), 0644))

	_, err := mcpadapter.NewKraftgateMCPServer(dir, nil)
	assert.ErrorContains(t, err, "min_score")
}

func TestMCPServerHasTools(t *testing.T) {
	s := newServer(t, nil)

	tools := s.ListTools()
	require.NotNil(t, tools)

	expectedTools := []string{
		"kraftgate_validate_solution",
		"kraftgate_validate_worktree",
		"kraftgate_get_threshold",
		"kraftgate_set_threshold",
	}

	for _, name := range expectedTools {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}

	assert.Len(t, tools, len(expectedTools), "should have exactly %d tools", len(expectedTools))
}

func TestValidateSolution_ReadsWorkspaceFiles(t *testing.T) {
	s := newServer(t, map[string]string{
		"src/a.ts": "const x = 1;\neval(input);\n",
	})

	res := callTool(t, s, "kraftgate_validate_solution", map[string]any{
		"solution": `{"id":"s1","agent":"a","changes":[{"file":"src/a.ts","kind":"modify","description":"TODO: finish"}]}`,
	})
	require.False(t, res.IsError, resultText(t, res))

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	assert.Equal(t, "s1", report.SolutionID)
	assert.Equal(t, 65, report.Score)
	assert.False(t, report.Passed)
	assert.Equal(t, 70, report.Threshold)
}

func TestValidateSolution_YAML(t *testing.T) {
	s := newServer(t, nil)

	res := callTool(t, s, "kraftgate_validate_solution", map[string]any{
		"format":   "yaml",
		"solution": "id: y1\nagent: a\nchanges:\n  - file: README.md\n    kind: create\n    description: docs\n",
	})
	require.False(t, res.IsError, resultText(t, res))
	assert.Contains(t, resultText(t, res), `"score": 100`)
}

func TestValidateSolution_MalformedIsToolError(t *testing.T) {
	s := newServer(t, nil)

	res := callTool(t, s, "kraftgate_validate_solution", map[string]any{
		"solution": `{"id":"s1","agent":"a","changes":[]}`,
	})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "invalid solution")
}

func TestValidateSolution_UnknownFormat(t *testing.T) {
	s := newServer(t, nil)

	res := callTool(t, s, "kraftgate_validate_solution", map[string]any{
		"solution": "{}",
		"format":   "toml",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "unknown format")
}

func TestValidateSolution_MissingArgument(t *testing.T) {
	s := newServer(t, nil)

	res := callTool(t, s, "kraftgate_validate_solution", map[string]any{})
	assert.True(t, res.IsError)
}

func TestThreshold_SetAppliesToLaterValidations(t *testing.T) {
	s := newServer(t, nil)

	res := callTool(t, s, "kraftgate_get_threshold", nil)
	assert.JSONEq(t, `{"threshold": 70}`, resultText(t, res))

	res = callTool(t, s, "kraftgate_set_threshold", map[string]any{"score": 250.0})
	assert.JSONEq(t, `{"threshold": 100}`, resultText(t, res))

	res = callTool(t, s, "kraftgate_set_threshold", map[string]any{"score": 90.0})
	assert.JSONEq(t, `{"threshold": 90}`, resultText(t, res))

	// One TODO costs 15 points: 85 passes at 70 but not at 90.
	res = callTool(t, s, "kraftgate_validate_solution", map[string]any{
		"solution": `{"id":"s2","agent":"a","changes":[{"file":"x.ts","kind":"create","description":"TODO: later"}]}`,
	})
	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	assert.Equal(t, 85, report.Score)
	assert.Equal(t, 90, report.Threshold)
	assert.False(t, report.Passed)
}

func TestThreshold_SetClampsNegative(t *testing.T) {
	s := newServer(t, nil)

	res := callTool(t, s, "kraftgate_set_threshold", map[string]any{"score": -5.0})
	assert.JSONEq(t, `{"threshold": 0}`, resultText(t, res))
}

func TestValidateWorktree_NotARepo(t *testing.T) {
	s := newServer(t, nil)

	res := callTool(t, s, "kraftgate_validate_worktree", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "working tree")
}

func TestThreshold_SetClampsOutOfRangeFloats(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{1e19, `{"threshold": 100}`},
		{1e300, `{"threshold": 100}`},
		{-1e19, `{"threshold": 0}`},
		{69.9, `{"threshold": 70}`},
		{69.4, `{"threshold": 69}`},
	}
	for _, tt := range tests {
		s := newServer(t, nil)
		res := callTool(t, s, "kraftgate_set_threshold", map[string]any{"score": tt.score})
		assert.False(t, res.IsError)
		assert.JSONEq(t, tt.want, resultText(t, res), "score %v", tt.score)
	}
}

func TestThreshold_SetRejectsNaN(t *testing.T) {
	s := newServer(t, nil)

	res := callTool(t, s, "kraftgate_set_threshold", map[string]any{"score": math.NaN()})
	assert.True(t, res.IsError)

	res = callTool(t, s, "kraftgate_get_threshold", nil)
	assert.JSONEq(t, `{"threshold": 70}`, resultText(t, res))
}

func TestValidateWorktree_CleanTreeIsNotAnError(t *testing.T) {
	dir := committedRepo(t, map[string]string{"src/a.ts": "export const a = 1;\n"})
	s, err := mcpadapter.NewKraftgateMCPServer(dir, nil)
	require.NoError(t, err)

	res := callTool(t, s, "kraftgate_validate_worktree", nil)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "No uncommitted changes")
}

func TestValidateWorktree_ReportCarriesCurrentHead(t *testing.T) {
	dir := committedRepo(t, map[string]string{"src/a.ts": "export const a = 1;\n"})
	s, err := mcpadapter.NewKraftgateMCPServer(dir, nil)
	require.NoError(t, err)

	// A commit made after the server started must show up on later reports.
	writeFile(t, dir, "src/b.ts", "export const b = 2;\n")
	git(t, dir, "add", ".")
	git(t, dir, "commit", "-m", "second")
	head := git(t, dir, "rev-parse", "HEAD")
	writeFile(t, dir, "src/a.ts", "export const a = eval('1');\n")

	res := callTool(t, s, "kraftgate_validate_worktree", map[string]any{"agent": "claude"})
	require.False(t, res.IsError, resultText(t, res))

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	assert.Equal(t, 80, report.Score)
	assert.Equal(t, strings.TrimSpace(head), report.CommitHash)
}
