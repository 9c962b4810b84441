package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arneko/larder/internal/models"
)

// RecipeRow pairs a record with the bookkeeping columns of the recipes
// table.
type RecipeRow struct {
	Record    models.RecipeRecord
	Checksum  string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string
	Title   string
	Snippet string
}

// CategoryCount is one category with its recipe count.
type CategoryCount struct {
	Name  string
	Count int
}

// UpsertRecipe inserts or replaces a recipe and its FTS entry within a
// transaction. body is the raw file text and feeds full-text search only.
func (db *DB) UpsertRecipe(r RecipeRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	rec := r.Record
	tagsJSON, _ := json.Marshal(rec.Tags)
	ingredientsJSON, _ := json.Marshal(rec.Ingredients)

	_, err = tx.Exec(`
		INSERT INTO recipes (path, title, filename, category, tags, ingredients, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title       = excluded.title,
			filename    = excluded.filename,
			category    = excluded.category,
			tags        = excluded.tags,
			ingredients = excluded.ingredients,
			checksum    = excluded.checksum,
			body        = excluded.body,
			updated_at  = excluded.updated_at
	`, rec.Path, rec.Title, rec.Filename, rec.Category, string(tagsJSON), string(ingredientsJSON), r.Checksum, body, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("catalog: upsert recipe: %w", err)
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, rec.Path, rec.Title, body, rec.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteRecipe removes a recipe and its FTS entry.
func (db *DB) DeleteRecipe(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM recipes WHERE path = ?`, path)

	return tx.Commit()
}

// GetRecipe returns the stored record for path, or nil when the path is
// not in the catalog.
func (db *DB) GetRecipe(path string) (*models.RecipeRecord, error) {
	row := db.conn.QueryRow(`
		SELECT path, title, filename, category, tags, ingredients
		FROM recipes WHERE path = ?
	`, path)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get recipe: %w", err)
	}
	return &rec, nil
}

// ListRecipes returns a page of records ordered by path, plus the total
// count matching the filters. Empty category or tag means no filter.
func (db *DB) ListRecipes(limit, offset int, category, tag string) ([]models.RecipeRecord, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := `WHERE 1=1`
	args := []any{}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}
	if tag != "" {
		// Tags are stored as a JSON array of strings.
		where += ` AND tags LIKE ?`
		args = append(args, `%"`+tag+`"%`)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM recipes `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count recipes: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT path, title, filename, category, tags, ingredients
		FROM recipes `+where+` ORDER BY path LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list recipes: %w", err)
	}
	defer rows.Close()

	var out []models.RecipeRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

// Categories returns every category with its recipe count, sorted by name.
func (db *DB) Categories() ([]CategoryCount, error) {
	rows, err := db.conn.Query(`
		SELECT category, count(*) FROM recipes GROUP BY category ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog: categories: %w", err)
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AllChecksums returns the stored checksum for every cataloged path.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM recipes`)
	if err != nil {
		return nil, fmt.Errorf("catalog: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.RecipeRecord, error) {
	var rec models.RecipeRecord
	var tagsJSON, ingredientsJSON string
	if err := row.Scan(&rec.Path, &rec.Title, &rec.Filename, &rec.Category, &tagsJSON, &ingredientsJSON); err != nil {
		return rec, err
	}
	_ = json.Unmarshal([]byte(tagsJSON), &rec.Tags)
	_ = json.Unmarshal([]byte(ingredientsJSON), &rec.Ingredients)
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	if rec.Ingredients == nil {
		rec.Ingredients = []string{}
	}
	return rec, nil
}
