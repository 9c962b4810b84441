// Package storage defines the vault file-system abstraction.
package storage

import "github.com/arneko/larder/internal/models"

// Provider is the interface for vault file operations. Paths are relative
// to the vault root. The indexer treats recipe files as read-only; Write
// exists for the index artifact.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to
	// vault root), in lexical path order.
	List(dir string) ([]models.FileMeta, error)
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to vault root).
	Write(path string, content []byte) error
}
