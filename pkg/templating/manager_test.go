package templating

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CTAG07/pasties/pkg/pasty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestManager creates a TemplateManager backed by a fresh template dir
// holding a single dummy page.
func setupTestManager(tb testing.TB) *TemplateManager {
	tb.Helper()

	templateDir := tb.TempDir()
	dummyTmplPath := filepath.Join(templateDir, "dummy.tmpl.html")
	require.NoError(tb, os.WriteFile(dummyTmplPath, []byte(`{{define "dummy.tmpl.html"}}Hello{{end}}`), 0644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tm, err := NewTemplateManager(logger, DefaultConfig(), templateDir)
	require.NoError(tb, err)
	return tm
}

func TestNewTemplateManager(t *testing.T) {
	tm := setupTestManager(t)
	assert.Equal(t, []string{"dummy.tmpl.html", "page.tmpl.html"}, tm.GetTemplateNames())
}

func TestNewTemplateManager_NoTemplateDir(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tm, err := NewTemplateManager(logger, nil, filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, []string{"page.tmpl.html"}, tm.GetTemplateNames())
	assert.Equal(t, "#pastyContainer", tm.GetConfig().ContainerSelector)
}

func TestManager_Refresh(t *testing.T) {
	tm := setupTestManager(t)
	initialCount := len(tm.GetTemplateNames())

	newTmplPath := filepath.Join(tm.GetTemplateDir(), "new.tmpl.html")
	require.NoError(t, os.WriteFile(newTmplPath, []byte(`New Content`), 0644))
	require.NoError(t, tm.Refresh())

	assert.Len(t, tm.GetTemplateNames(), initialCount+1)
}

func TestManager_Refresh_BadTemplate(t *testing.T) {
	tm := setupTestManager(t)
	badPath := filepath.Join(tm.GetTemplateDir(), "bad.tmpl.html")
	require.NoError(t, os.WriteFile(badPath, []byte(`{{if}}`), 0644))
	assert.Error(t, tm.Refresh())
}

func TestManager_Execute(t *testing.T) {
	tm := setupTestManager(t)
	var buf bytes.Buffer
	require.NoError(t, tm.Execute(&buf, "dummy.tmpl.html", nil))
	assert.Equal(t, "Hello", buf.String())

	err := tm.Execute(&buf, "nonexistent.tmpl.html", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `html/template: "nonexistent.tmpl.html" is undefined`)
}

func TestManager_ExecutePage(t *testing.T) {
	tm := setupTestManager(t)
	var buf bytes.Buffer
	pasties := []pasty.Pasty{{ID: "1", Title: "One", Content: "x"}, {ID: "1", Title: "Two", Content: "y"}}
	require.NoError(t, tm.ExecutePage(&buf, pasties))

	out := buf.String()
	assert.Contains(t, out, `<main id="pastyContainer"></main>`)
	assert.Contains(t, out, "<title>Pasties</title>")
	assert.Contains(t, out, "2 pasties")
	assert.Contains(t, out, ".bb-bold")
}

func TestManager_ExecutePage_Override(t *testing.T) {
	tm := setupTestManager(t)
	page := `{{define "page.tmpl.html"}}<div id="{{.ContainerID}}" data-count="{{.Count}}"></div>{{end}}`
	require.NoError(t, os.WriteFile(filepath.Join(tm.GetTemplateDir(), "page.tmpl.html"), []byte(page), 0644))
	require.NoError(t, tm.Refresh())

	config := DefaultConfig()
	config.ContainerSelector = "#snips"
	tm.SetConfig(config)

	var buf bytes.Buffer
	require.NoError(t, tm.ExecutePage(&buf, nil))
	assert.Equal(t, `<div id="snips" data-count="0"></div>`, buf.String())
}

func TestManager_ExecuteTemplateString(t *testing.T) {
	tm := setupTestManager(t)
	var buf bytes.Buffer
	err := tm.ExecuteTemplateString(&buf, `{{bbcode .}}|{{bbstrip .}}|{{truncate 3 "abcdef"}}|{{inc 1}}`, "[b]<x>[/b]")
	require.NoError(t, err)
	assert.Equal(t, `<b class="bb-bold">&lt;x&gt;</b>|&lt;x&gt;|abc…|2`, buf.String())

	// The clean set must still be usable after a string execution.
	buf.Reset()
	require.NoError(t, tm.ExecuteTemplateString(&buf, `{{default "none" .}}`, ""))
	assert.Equal(t, "none", buf.String())
}

func TestManager_ExecuteTemplateString_ParseError(t *testing.T) {
	tm := setupTestManager(t)
	err := tm.ExecuteTemplateString(io.Discard, `{{end}}`, nil)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to parse string template"))
}

func TestTemplateConfig_ContainerID(t *testing.T) {
	tests := []struct {
		selector string
		want     string
	}{
		{"#pastyContainer", "pastyContainer"},
		{"#snips-1", "snips-1"},
		{"main.pasties", "pastyContainer"},
		{"#a #b", "pastyContainer"},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			c := TemplateConfig{ContainerSelector: tt.selector}
			assert.Equal(t, tt.want, c.ContainerID())
		})
	}
}

// BenchmarkExecutePage measures the cost of building the default page shell.
func BenchmarkExecutePage(b *testing.B) {
	tm := setupTestManager(b)
	pasties := make([]pasty.Pasty, 50)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tm.ExecutePage(io.Discard, pasties)
	}
}
