package api

import (
	"github.com/arneko/larder/internal/models"
	"github.com/arneko/larder/internal/recipeservice"
)

// RecipeDetail is the full recipe response type (aliased from the domain layer).
type RecipeDetail = recipeservice.RecipeDetail

// RecipeRecord is the indexed record type (aliased from the domain layer).
type RecipeRecord = models.RecipeRecord

// RecipeListResponse wraps paginated recipe listings.
type RecipeListResponse struct {
	Recipes []RecipeRecord `json:"recipes" validate:"required"`
	Total   int            `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"Recipes/pho.md" validate:"required"`
	Title   string `json:"title" example:"Pho" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// Category is one category with its recipe count.
type Category struct {
	Name  string `json:"name" example:"Desserts" validate:"required"`
	Count int    `json:"count" example:"7" validate:"required"`
}

// CategoriesResponse wraps the category listing.
type CategoriesResponse struct {
	Categories []Category `json:"categories" validate:"required"`
}

// ReindexResponse reports the size of a completed rebuild.
type ReindexResponse struct {
	Recipes int `json:"recipes" example:"42" validate:"required"`
}
