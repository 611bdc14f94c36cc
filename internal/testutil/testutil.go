// Package testutil provides shared test helpers for setting up stores and export directories.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/larder/internal/catalog"
	"github.com/starford/larder/internal/storage"
)

// TestDB creates a temporary recipe store that is automatically cleaned up.
func TestDB(t *testing.T) *catalog.DB {
	t.Helper()
	db, err := catalog.Open(filepath.Join(t.TempDir(), "recipes.db"), catalog.Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDir creates a temporary recipe file directory with a storage.Provider.
func TestDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.OpenDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Minutes returns a pointer to n, for optional cooking times.
func Minutes(n int) *int { return &n }
