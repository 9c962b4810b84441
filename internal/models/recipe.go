// Package models defines the domain types for larder.
package models

import "time"

// DefaultCategory is assigned to recipes whose frontmatter declares no
// usable category.
const DefaultCategory = "Uncategorized"

// RecipeRecord is one entry in the generated index artifact. Field order
// matches the serialized JSON object.
type RecipeRecord struct {
	Title       string   `json:"title"`
	Filename    string   `json:"filename"`
	Path        string   `json:"path"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Ingredients []string `json:"ingredients"`
}

// FileMeta is a lightweight representation returned by list operations.
type FileMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
