// Package recipeservice coordinates storage, catalog, and index operations
// behind one read-oriented API.
package recipeservice

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/arneko/larder/internal/apperr"
	"github.com/arneko/larder/internal/catalog"
	"github.com/arneko/larder/internal/checksum"
	"github.com/arneko/larder/internal/index"
	"github.com/arneko/larder/internal/models"
	"github.com/arneko/larder/internal/parser"
	"github.com/arneko/larder/internal/storage"
)

// RecipeDetail is the full representation of a recipe: the indexed record
// plus the raw document and its parsed frontmatter.
type RecipeDetail struct {
	models.RecipeRecord
	Content     string         `json:"content"`
	Checksum    string         `json:"checksum"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
}

// Service exposes recipe reads, search, and reindexing.
type Service struct {
	store   storage.Provider
	db      catalog.RecipeIndex
	builder *index.Builder
	logger  *slog.Logger
}

// NewService creates a new recipe service.
func NewService(store storage.Provider, db catalog.RecipeIndex, builder *index.Builder, logger *slog.Logger) *Service {
	return &Service{store: store, db: db, builder: builder, logger: logger}
}

// GetRecipe reads a recipe from storage and parses it on the fly, so the
// detail view reflects the file as it is now rather than the last index run.
func (s *Service) GetRecipe(_ context.Context, path string) (*RecipeDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	fm := parser.ParseFrontmatter(string(data))
	return &RecipeDetail{
		RecipeRecord: index.NewRecord(path, data),
		Content:      string(data),
		Checksum:     checksum.Sum(data),
		Frontmatter:  fm.Map(),
	}, nil
}

// ListRecipes returns paginated records with optional category and tag
// filters.
func (s *Service) ListRecipes(_ context.Context, limit, offset int, category, tag string) ([]models.RecipeRecord, int, error) {
	records, total, err := s.db.ListRecipes(limit, offset, category, tag)
	if err != nil {
		return nil, 0, err
	}
	if records == nil {
		records = []models.RecipeRecord{}
	}
	return records, total, nil
}

// Search delegates full-text search to the catalog.
func (s *Service) Search(_ context.Context, query string, limit int) ([]catalog.SearchResult, error) {
	results, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []catalog.SearchResult{}
	}
	return results, nil
}

// Categories returns every category with its recipe count.
func (s *Service) Categories(_ context.Context) ([]catalog.CategoryCount, error) {
	cats, err := s.db.Categories()
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []catalog.CategoryCount{}
	}
	return cats, nil
}

// Reindex rebuilds the artifact and brings the catalog in line with it,
// returning the number of indexed recipes.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	n, err := s.builder.Run(ctx)
	if err != nil {
		return 0, err
	}
	if err := catalog.Sync(s.db, s.store, s.builder, s.logger); err != nil {
		return n, err
	}
	return n, nil
}
