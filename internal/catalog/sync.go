package catalog

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/arneko/larder/internal/checksum"
	"github.com/arneko/larder/internal/index"
	"github.com/arneko/larder/internal/storage"
)

// Sync walks the scan tree and brings the catalog up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the catalog
//
// The builder supplies the scan directory and the skip rules, so the
// catalog always mirrors the artifact's view of the vault.
func Sync(db RecipeIndex, store storage.Provider, b *index.Builder, logger *slog.Logger) error {
	metas, err := store.List(b.ScanDir())
	if err != nil {
		return fmt.Errorf("catalog: list: %w", err)
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		rel := filepath.ToSlash(m.Path)
		if b.SkipBase(path.Base(rel)) {
			continue
		}
		disk[rel] = struct{}{}

		if checksums[rel] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", rel), slog.String("error", err.Error()))
			continue
		}
		row := RecipeRow{
			Record:    index.NewRecord(m.Path, data),
			Checksum:  checksum.Sum(data),
			UpdatedAt: m.UpdatedAt,
		}
		if err := db.UpsertRecipe(row, string(data)); err != nil {
			logger.Warn("sync: upsert failed", slog.String("path", rel), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: cataloged", slog.String("path", rel))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteRecipe(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}
