package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingDeck = "# Good Title\n" +
	"This slide has enough content to satisfy every rule in the catalogue."

// plain text without a title scores 75: title/required (20) plus
// content/too_short (5).
const mediocreDeck = "just some plain text"

func writeDeck(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "deck.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runAnalyze(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newAnalyzeCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	// A nil slice would make cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommand_JSONReportToStdout(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeDeck(t, dir, passingDeck)

	out, err := runAnalyze(t, "", path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "slides")
	assert.Contains(t, decoded, "summary")
	assert.Contains(t, decoded, "engine")

	// Cache lands next to the deck.
	assert.FileExists(t, filepath.Join(dir, ".slidegauge.cache.json"))
}

func TestAnalyzeCommand_ReadsStdinWhenNoFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := runAnalyze(t, passingDeck)
	require.NoError(t, err)
	assert.Contains(t, out, `"total_slides": 1`)

	// Stdin decks cache in the working directory.
	assert.FileExists(t, filepath.Join(dir, ".slidegauge.cache.json"))
}

func TestAnalyzeCommand_FailingDeckReturnsCheckFailure(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeDeck(t, dir, mediocreDeck)

	out, err := runAnalyze(t, "", path, "--threshold", "80")
	require.Error(t, err)

	var checkErr *CheckFailureError
	require.ErrorAs(t, err, &checkErr)

	// The report is still written before the failure is signalled.
	assert.Contains(t, out, `"threshold": 80`)
	assert.Contains(t, out, `"passing": 0`)
}

func TestAnalyzeCommand_TextFormat(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeDeck(t, dir, passingDeck)

	out, err := runAnalyze(t, "", path, "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Slide 1 (✓ 100) • no issues")
	assert.Contains(t, out, "SUMMARY:")
	assert.Contains(t, out, "threshold=70")
}

func TestAnalyzeCommand_SARIFFormat(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeDeck(t, dir, mediocreDeck)

	out, err := runAnalyze(t, "", path, "--format", "sarif")
	require.NoError(t, err)

	assert.Contains(t, out, `"version": "2.1.0"`)
	assert.Contains(t, out, `"ruleId": "title/required"`)
}

func TestAnalyzeCommand_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeDeck(t, dir, passingDeck)

	_, err := runAnalyze(t, "", path, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestAnalyzeCommand_OutputFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeDeck(t, dir, passingDeck)
	outPath := filepath.Join(dir, "report.json")

	out, err := runAnalyze(t, "", path, "-o", outPath)
	require.NoError(t, err)

	// Nothing on stdout when writing to a file.
	assert.Empty(t, out)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(content), "}"), "file report has no trailing newline")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Contains(t, decoded, "summary")
}

func TestAnalyzeCommand_MissingConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeDeck(t, dir, passingDeck)

	_, err := runAnalyze(t, "", path, "-c", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Error loading config:"), "got: %v", err)
}

func TestAnalyzeCommand_SchemaInvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeDeck(t, dir, passingDeck)

	cfgPath := filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"threshold": "high"}`), 0o644))

	_, err := runAnalyze(t, "", path, "-c", cfgPath)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Error loading config:"), "got: %v", err)
	assert.Contains(t, err.Error(), "/threshold")
}

func TestAnalyzeCommand_MissingInputFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := runAnalyze(t, "", filepath.Join(dir, "missing.md"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Error reading input:"), "got: %v", err)
}

func TestAnalyzeCommand_ConfigFileOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeDeck(t, dir, passingDeck)

	cfgPath := filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"threshold": 85.5}`), 0o644))

	out, err := runAnalyze(t, "", path, "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"threshold": 85.5`)
}

func TestAnalyzeCommand_ThresholdFlagBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeDeck(t, dir, passingDeck)

	cfgPath := filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"threshold": 99}`), 0o644))

	out, err := runAnalyze(t, "", path, "-c", cfgPath, "--threshold", "60")
	require.NoError(t, err)
	assert.Contains(t, out, `"threshold": 60`)
}

func TestAnalyzeCommand_NoCacheSkipsCacheFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeDeck(t, dir, passingDeck)

	_, err := runAnalyze(t, "", path, "--no-cache")
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dir, ".slidegauge.cache.json"))
}

func TestAnalyzeCommand_ProjectConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".slidegauge.yaml"), []byte(`
output:
  format: text
analysis:
  threshold: 95
`), 0o644))
	path := writeDeck(t, dir, mediocreDeck)

	out, err := runAnalyze(t, "", path)

	var checkErr *CheckFailureError
	require.ErrorAs(t, err, &checkErr)
	assert.Contains(t, out, "SUMMARY:")
	assert.Contains(t, out, "threshold=95")
}

func TestAnalyzeCommand_FlagBeatsProjectConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".slidegauge.yaml"), []byte(`
analysis:
  threshold: 95
`), 0o644))
	path := writeDeck(t, dir, mediocreDeck)

	out, err := runAnalyze(t, "", path, "--threshold", "60")
	require.NoError(t, err)
	assert.Contains(t, out, `"threshold": 60`)
}

func TestCachePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		file  string
		want  string
	}{
		{"stdin uses working directory", "", ".slidegauge.cache.json", ".slidegauge.cache.json"},
		{"deck in current directory", "deck.md", ".slidegauge.cache.json", ".slidegauge.cache.json"},
		{"deck in subdirectory", filepath.Join("talks", "deck.md"), ".slidegauge.cache.json", filepath.Join("talks", ".slidegauge.cache.json")},
		{"absolute cache file wins", "deck.md", filepath.Join(string(filepath.Separator), "tmp", "c.json"), filepath.Join(string(filepath.Separator), "tmp", "c.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cachePath(tt.input, tt.file))
		})
	}
}
