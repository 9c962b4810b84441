// Package index builds the JSON index artifact from the recipe files in a
// vault. It owns traversal, record assembly, and artifact serialization;
// the text parsing itself lives in internal/parser.
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/arneko/larder/internal/models"
	"github.com/arneko/larder/internal/parser"
	"github.com/arneko/larder/internal/storage"
)

const defaultWorkers = 4

// Config locates the scan tree and the artifact. Both paths are relative
// to the vault root.
type Config struct {
	ScanDir   string // directory whose .md files are indexed
	IndexFile string // artifact path, conventionally inside ScanDir
	Workers   int    // parse parallelism, defaulted when <= 0
}

// Builder scans a vault subtree and produces the recipe index artifact.
type Builder struct {
	store        storage.Provider
	cfg          Config
	logger       *slog.Logger
	artifactStem string
}

// New creates a Builder over store with the given configuration.
func New(store storage.Provider, cfg Config, logger *slog.Logger) *Builder {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	base := path.Base(filepath.ToSlash(cfg.IndexFile))
	return &Builder{
		store:        store,
		cfg:          cfg,
		logger:       logger,
		artifactStem: strings.TrimSuffix(base, path.Ext(base)),
	}
}

// ScanDir returns the vault-root-relative directory the builder indexes.
func (b *Builder) ScanDir() string {
	return b.cfg.ScanDir
}

// SkipBase reports whether a file with the given basename is excluded from
// indexing: anything that is not a .md file, previous index artifacts
// (basename sharing the artifact's stem), and Windows desktop.ini litter.
func (b *Builder) SkipBase(base string) bool {
	if !strings.HasSuffix(base, ".md") {
		return true
	}
	if b.artifactStem != "" && strings.HasPrefix(base, b.artifactStem) {
		return true
	}
	return base == "desktop.ini"
}

// Build lists the scan tree and parses every eligible file into a
// RecipeRecord. Records come back in lexical path order. Files that fail
// to read are logged and skipped; one bad file never aborts the run.
func (b *Builder) Build(ctx context.Context) ([]models.RecipeRecord, error) {
	metas, err := b.store.List(b.cfg.ScanDir)
	if err != nil {
		return nil, fmt.Errorf("index: list: %w", err)
	}

	var eligible []models.FileMeta
	for _, m := range metas {
		if b.SkipBase(path.Base(filepath.ToSlash(m.Path))) {
			continue
		}
		eligible = append(eligible, m)
	}

	// Parse in parallel but keep the listing order: each file owns a slot.
	slots := make([]*models.RecipeRecord, len(eligible))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)
	for i, m := range eligible {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := b.store.Read(m.Path)
			if err != nil {
				b.logger.Warn("index: read failed",
					slog.String("path", m.Path),
					slog.String("error", err.Error()))
				return nil
			}
			rec := NewRecord(m.Path, data)
			slots[i] = &rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("index: build: %w", err)
	}

	records := make([]models.RecipeRecord, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records, nil
}

// Write serializes records as a pretty-printed JSON array and atomically
// replaces the artifact. Non-ASCII text and HTML characters are preserved
// as written in the recipes.
func (b *Builder) Write(records []models.RecipeRecord) error {
	if records == nil {
		records = []models.RecipeRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("index: encode: %w", err)
	}
	if err := b.store.Write(b.cfg.IndexFile, buf.Bytes()); err != nil {
		return fmt.Errorf("index: write artifact: %w", err)
	}
	return nil
}

// Run builds and writes the artifact, returning the number of indexed
// recipes. Every run replaces the artifact wholesale.
func (b *Builder) Run(ctx context.Context) (int, error) {
	records, err := b.Build(ctx)
	if err != nil {
		return 0, err
	}
	if err := b.Write(records); err != nil {
		return 0, err
	}
	b.logger.Info("index written",
		slog.Int("recipes", len(records)),
		slog.String("artifact", b.cfg.IndexFile))
	return len(records), nil
}

// NewRecord merges the frontmatter and body of one recipe file into a
// RecipeRecord. relPath is the vault-root-relative file path; the stored
// Path always uses forward slashes.
func NewRecord(relPath string, content []byte) models.RecipeRecord {
	slashPath := filepath.ToSlash(relPath)
	filename := path.Base(slashPath)
	stem := strings.TrimSuffix(filename, ".md")

	text := string(content)
	fm := parser.ParseFrontmatter(text)
	body := parser.ExtractBody(text, stem)

	category := models.DefaultCategory
	if v, ok := fm.Get("category"); ok {
		// A list-valued category falls back to the default.
		if s, isScalar := v.Scalar(); isScalar && s != "" {
			category = s
		}
	}

	tags := []string{}
	if v, ok := fm.Get("tags"); ok {
		tags = v.StringList()
	}

	return models.RecipeRecord{
		Title:       body.Title,
		Filename:    filename,
		Path:        slashPath,
		Category:    category,
		Tags:        tags,
		Ingredients: body.Ingredients,
	}
}
