// Package storage keeps recipe files in a flat export directory.
//
// Files written by export are named "<id>-<slug>.md". Other Markdown files
// may sit beside them: they are offered for import but never replaced or
// pruned by export.
package storage

import (
	"errors"

	"github.com/starford/larder/internal/models"
)

// ErrBadName is returned for file names that are not a plain entry of the
// directory, such as absolute paths, "../x" or "sub/x.md".
var ErrBadName = errors.New("not a file name in the recipe directory")

// Provider stores recipe files.
type Provider interface {
	// Files returns the Markdown files of the directory sorted by name.
	Files() ([]models.FileMetadata, error)
	// Load returns the content of the named file.
	Load(name string) ([]byte, error)
	// Save replaces the export file of recipe id with content and returns
	// the file name used.
	Save(id int64, recipeName string, content []byte) (string, error)
	// Remove deletes the named file.
	Remove(name string) error
}
