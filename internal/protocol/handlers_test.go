package protocol

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/slidegauge/internal/cache"
	"github.com/nibzard/slidegauge/internal/deck"
	"github.com/nibzard/slidegauge/internal/engine"
	"github.com/nibzard/slidegauge/internal/report"
)

// request sends one raw request line and returns the single response line.
func request(t *testing.T, server *Server, line string) string {
	t.Helper()
	lines := serveLines(t, server, line+"\n")
	require.Len(t, lines, 1)
	return lines[0]
}

func TestHandleSlides_ListsIdentities(t *testing.T) {
	server := newTestServer(t)

	doc := "# One\nBody A\n---\n## Two\nBody B"
	req, err := json.Marshal(map[string]any{"op": "slides", "document": doc})
	require.NoError(t, err)

	line := request(t, server, string(req))

	want := fmt.Sprintf(
		`{"ok":true,"slides":[{"index":0,"uuid":"%s","title":"One","line_count":2},{"index":1,"uuid":"%s","title":"Two","line_count":2}]}`,
		deck.Identity("# One\nBody A"), deck.Identity("## Two\nBody B"))
	assert.Equal(t, want, line)
}

func TestHandleSlides_EmptyDocument(t *testing.T) {
	server := newTestServer(t)

	line := request(t, server, `{"op":"slides","document":""}`)

	assert.Equal(t, `{"ok":true,"slides":[]}`, line)
}

func TestHandleRules_CatalogueOrder(t *testing.T) {
	server := newTestServer(t)

	line := request(t, server, `{"op":"rules"}`)

	var resp struct {
		OK    bool       `json:"ok"`
		Rules []RuleInfo `json:"rules"`
	}
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	require.True(t, resp.OK)
	require.Len(t, resp.Rules, 11)
	assert.Equal(t, RuleInfo{ID: "title/required", Severity: "error", Bucket: "content"}, resp.Rules[0])
	assert.Equal(t, RuleInfo{ID: "color/low_contrast", Severity: "error", Bucket: "color"}, resp.Rules[6])
	assert.Equal(t, RuleInfo{ID: "code/too_long", Severity: "warning", Bucket: "code"}, resp.Rules[10])
}

func TestHandleExplain_KnownRule(t *testing.T) {
	server := newTestServer(t)

	line := request(t, server, `{"op":"explain","rule":"title/required"}`)

	want := `{"ok":true,"rule":{"id":"title/required","severity":"error","bucket":"content",` +
		`"description":"Every slide needs a clear title (# or ##) for navigation and structure"}}`
	assert.Equal(t, want, line)
}

func TestHandleExplain_UnknownRule(t *testing.T) {
	server := newTestServer(t)

	line := request(t, server, `{"op":"explain","rule":"nope/never"}`)

	assert.Equal(t, `{"ok":false,"error":"Unknown rule: nope/never"}`, line)
}

func TestHandleAnalyze_ReturnsReportDocument(t *testing.T) {
	server := newTestServer(t)

	doc := "# One\n" + strings.Repeat("x", 60) + "\n---\n# Two\n" + strings.Repeat("y", 60)
	req, err := json.Marshal(map[string]any{"op": "analyze", "document": doc})
	require.NoError(t, err)

	line := request(t, server, string(req))

	var resp struct {
		OK     bool            `json:"ok"`
		Result report.Document `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	require.True(t, resp.OK)
	require.Len(t, resp.Result.Slides, 2)
	assert.Equal(t, 2, resp.Result.Summary.TotalSlides)
	assert.Equal(t, engine.Version, resp.Result.Engine.Version)
	assert.Equal(t, 100, resp.Result.Slides[0].Score)
	assert.True(t, strings.HasPrefix(line, `{"ok":true,"result":{`))
}

func TestHandleAnalyze_ThresholdLiteralPreserved(t *testing.T) {
	server := newTestServer(t)

	line := request(t, server, `{"op":"analyze","document":"# T\nshort","config":{"threshold":85.5}}`)

	assert.Contains(t, line, `"threshold":85.5`)
}

func TestHandleAnalyze_MessagesNotHTMLEscaped(t *testing.T) {
	server := newTestServer(t)

	line := request(t, server, `{"op":"analyze","document":"# T\nshort"}`)

	assert.Contains(t, line, `"message":"Content 5 < min 50 (add ~45 chars)"`)
	assert.NotContains(t, line, `\u003c`)
}

func TestHandleAnalyze_InvalidConfig(t *testing.T) {
	server := newTestServer(t)

	line := request(t, server, `{"op":"analyze","document":"# T\nbody","config":{"rules":{"content":{"min_chars":"abc"}}}}`)

	assert.Contains(t, line, `"ok":false`)
	assert.Contains(t, line, "invalid configuration")
}

func TestHandleAnalyze_ParallelFlag(t *testing.T) {
	server := newTestServer(t)

	doc := "# One\nBody text one\n---\n# Two\nBody text two"
	req, err := json.Marshal(map[string]any{"op": "analyze", "document": doc, "parallel": true})
	require.NoError(t, err)

	line := request(t, server, string(req))

	var resp struct {
		OK     bool            `json:"ok"`
		Result report.Document `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	require.True(t, resp.OK)
	assert.Equal(t, 2, resp.Result.Summary.TotalSlides)
}

func TestHandleAnalyze_PersistsCache(t *testing.T) {
	dir := t.TempDir()
	store := cache.New(filepath.Join(dir, cache.DefaultFile), nil)
	registry := NewRegistry()
	RegisterHandlers(registry, engine.New(store, nil))
	server := NewServer(registry, nil)

	request(t, server, `{"op":"analyze","document":"# T\nshort"}`)

	_, err := os.Stat(filepath.Join(dir, cache.DefaultFile))
	require.NoError(t, err)
}
