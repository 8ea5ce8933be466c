package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTAG07/pasties/pkg/dom"
	"github.com/CTAG07/pasties/pkg/pasty"
	"github.com/CTAG07/pasties/pkg/render"
	"github.com/CTAG07/pasties/pkg/templating"
	"github.com/natefinch/atomic"
)

// Builder turns a pasty source into a static page on disk.
type Builder struct {
	config   *Config
	logger   *slog.Logger
	source   pasty.Source
	tm       *templating.TemplateManager
	renderer *render.Renderer
}

// NewBuilder wires the template manager and renderer for config.
func NewBuilder(config *Config, logger *slog.Logger, source pasty.Source) (*Builder, error) {
	tm, err := templating.NewTemplateManager(logger, config.Templates, config.Build.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}
	return &Builder{
		config:   config,
		logger:   logger,
		source:   source,
		tm:       tm,
		renderer: render.NewRenderer(logger, render.WithScript(config.Build.EmbedRuntime)),
	}, nil
}

// Refresh reloads the page templates from disk.
func (b *Builder) Refresh() error {
	return b.tm.Refresh()
}

// Build renders every pasty into the page and writes it atomically. Nothing
// is written if any step fails. It returns the number of rendered blocks.
func (b *Builder) Build(ctx context.Context) (int, error) {
	pasties, err := b.source.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load pasties: %w", err)
	}

	var page bytes.Buffer
	if err = b.tm.ExecutePage(&page, pasties); err != nil {
		return 0, err
	}

	doc, err := dom.Parse(&page)
	if err != nil {
		return 0, err
	}

	blocks, err := b.renderer.Render(doc, pasties, b.config.Templates.ContainerSelector)
	if err != nil {
		return 0, err
	}

	var out bytes.Buffer
	if err = doc.WriteTo(&out); err != nil {
		return 0, fmt.Errorf("failed to serialize page: %w", err)
	}

	outputPath := b.config.Build.OutputPath
	if err = os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err = atomic.WriteFile(outputPath, &out); err != nil {
		return 0, fmt.Errorf("failed to write output file: %w", err)
	}

	b.logger.Info("Built pasties page", "output", outputPath, "count", len(blocks))
	return len(blocks), nil
}

// openStore opens the SQLite database and prepares a pasty store on it.
// The returned func closes both.
func openStore(dataSource string) (*pasty.Store, func(), error) {
	path, _, _ := strings.Cut(dataSource, "?")
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := initDB(dataSource)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = pasty.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to setup pasty schema: %w", err)
	}
	store, err := pasty.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, closeStore(store, db), nil
}

func closeStore(store *pasty.Store, db *sql.DB) func() {
	return func() {
		store.Close()
		_ = db.Close()
	}
}

// openSource returns the source selected by the build config.
func openSource(config *BuildConfig) (pasty.Source, func(), error) {
	switch config.Source {
	case sourceSQLite:
		return openStore(config.DatabasePath)
	default:
		return pasty.FileSource{Path: config.DataPath}, func() {}, nil
	}
}
