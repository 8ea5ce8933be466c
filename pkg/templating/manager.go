package templating

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/CTAG07/pasties/pkg/pasty"
)

//go:embed defaults/*.html
var defaultFS embed.FS

// PageInput is the data passed to a page template.
type PageInput struct {
	Title       string
	ContainerID string
	Count       int
	Pasties     []pasty.Pasty
	GeneratedAt time.Time
}

// TemplateManager is the central controller for the page templates.
// It manages the template set, configuration and function map, and is
// responsible for loading, parsing and executing templates.
// All methods are concurrent-safe.
type TemplateManager struct {
	logger         *slog.Logger
	config         *TemplateConfig
	templates      *template.Template
	cleanTemplates *template.Template
	templateNames  []string
	funcMap        template.FuncMap
	templateDir    string
	mu             sync.RWMutex
}

// NewTemplateManager creates, initializes, and returns a new TemplateManager.
// templateDir may be empty or missing, in which case only the embedded
// defaults are available. It performs an initial Refresh.
func NewTemplateManager(logger *slog.Logger, config *TemplateConfig, templateDir string) (*TemplateManager, error) {
	if config == nil {
		config = DefaultConfig()
	}
	tm := &TemplateManager{
		logger:      logger,
		templateDir: templateDir,
		config:      config,
	}
	tm.funcMap = tm.makeFuncMap()

	if err := tm.Refresh(); err != nil {
		return nil, err
	}

	logger.Info("Template manager initialized")
	return tm, nil
}

func (tm *TemplateManager) makeFuncMap() template.FuncMap {
	return template.FuncMap{
		// Content
		"bbcode":   sanitize,
		"bbstrip":  strip,
		"truncate": truncate,

		// Logic
		"list":    list,
		"default": defaultValue,
		"add":     add,
		"sub":     sub,
		"inc":     inc,
		"dec":     dec,
		"and":     and,
		"or":      or,
		"not":     not,
		"isSet":   isSet,
	}
}

// SetConfig applies a new configuration to the TemplateManager.
func (tm *TemplateManager) SetConfig(config *TemplateConfig) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.config = config
}

// Refresh reloads the embedded defaults and then every template in the
// template directory, letting files on disk override defaults of the same name.
func (tm *TemplateManager) Refresh() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	parsedFiles, err := template.New("").Funcs(tm.funcMap).ParseFS(defaultFS, "defaults/*.html")
	if err != nil {
		tm.logger.Error("failed to parse embedded templates", "error", err)
		return err
	}

	if tm.templateDir != "" {
		for _, pattern := range []string{"*.tmpl.html", "*.part.html"} {
			filePattern := filepath.Join(tm.templateDir, pattern)
			tm.logger.Debug("Loading template files...", "pattern", filePattern)

			var newParsedFiles *template.Template
			newParsedFiles, err = parsedFiles.ParseGlob(filePattern)
			if err != nil {
				if !strings.Contains(err.Error(), "pattern matches no files") {
					tm.logger.Error("failed to parse template files", "pattern", filePattern, "error", err)
					return err
				}
				continue
			}
			parsedFiles = newParsedFiles
		}
	}

	var names []string
	for _, t := range parsedFiles.Templates() {
		// The root template has no name and partials aren't pages.
		if strings.HasSuffix(t.Name(), ".tmpl.html") {
			names = append(names, t.Name())
		}
	}
	slices.Sort(names)

	tm.templates = parsedFiles
	tm.templateNames = names
	tm.logger.Info("Loaded template and partial files", "pages", len(names))

	// Create a clean clone for string executions after all parsing is complete.
	tm.cleanTemplates, err = tm.templates.Clone()
	if err != nil {
		tm.logger.Error("failed to create a clean clone of templates", "error", err)
		return err
	}

	return nil
}

// Execute renders a specific template by name, writing the output to w.
func (tm *TemplateManager) Execute(w io.Writer, name string, data any) error {
	if name == "" {
		return nil
	}
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.templates.ExecuteTemplate(w, name, data)
}

// ExecutePage renders the configured page template for pasties.
func (tm *TemplateManager) ExecutePage(w io.Writer, pasties []pasty.Pasty) error {
	config := tm.GetConfig()
	input := PageInput{
		Title:       config.Title,
		ContainerID: config.ContainerID(),
		Count:       len(pasties),
		Pasties:     pasties,
		GeneratedAt: time.Now().UTC(),
	}
	if err := tm.Execute(w, config.PageTemplate, input); err != nil {
		return fmt.Errorf("failed to execute page template %q: %w", config.PageTemplate, err)
	}
	return nil
}

// GetConfig returns a copy of the current configuration.
func (tm *TemplateManager) GetConfig() TemplateConfig {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return *tm.config
}

// GetTemplateNames returns the names of the loaded full page templates.
func (tm *TemplateManager) GetTemplateNames() []string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return slices.Clone(tm.templateNames)
}

// GetTemplateDir returns the template dir that the TemplateManager uses.
func (tm *TemplateManager) GetTemplateDir() string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.templateDir
}

// ExecuteTemplateString parses and executes a raw template string using the
// manager's function map and partials. This is handy for previewing a page
// without saving it to disk.
func (tm *TemplateManager) ExecuteTemplateString(w io.Writer, content string, data any) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	// Clone the clean, unexecuted template set to avoid execution state issues.
	tempSet, err := tm.cleanTemplates.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone clean templates for string execution: %w", err)
	}

	t, err := tempSet.New("string").Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse string template: %w", err)
	}

	return t.Execute(w, data)
}
