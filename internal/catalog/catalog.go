package catalog

import "github.com/arneko/larder/internal/models"

// RecipeIndex defines the interface for catalog operations. Consumers
// should depend on this interface rather than the concrete *DB type to
// facilitate testing with mocks.
type RecipeIndex interface {
	UpsertRecipe(r RecipeRow, body string) error
	DeleteRecipe(path string) error
	GetRecipe(path string) (*models.RecipeRecord, error)
	ListRecipes(limit, offset int, category, tag string) ([]models.RecipeRecord, int, error)
	Categories() ([]CategoryCount, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies RecipeIndex at compile time.
var _ RecipeIndex = (*DB)(nil)
