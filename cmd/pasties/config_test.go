package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultBuildConfig(), config.Build)
	assert.Equal(t, "#pastyContainer", config.Templates.ContainerSelector)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var written Config
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, "./public/index.html", written.Build.OutputPath)
	assert.Equal(t, "page.tmpl.html", written.Templates.PageTemplate)
}

func TestLoadConfig_Partial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"build_config": {"source": "sqlite", "output_path": "out.html"}}`), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, sourceSQLite, config.Build.Source)
	assert.Equal(t, "out.html", config.Build.OutputPath)
	assert.Equal(t, "#pastyContainer", config.Templates.ContainerSelector)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"syntax":   `{"build_config": `,
		"source":   `{"build_config": {"source": "ftp", "output_path": "x"}}`,
		"output":   `{"build_config": {"source": "file", "output_path": ""}}`,
		"selector": `{"template_config": {"container_selector": ""}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "WARN")
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	newLogger(&buf, "bogus").Info("defaults to info")
	assert.Contains(t, buf.String(), "defaults to info")
}
