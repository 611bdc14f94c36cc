package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/larder/internal/checksum"
	"github.com/starford/larder/internal/models"
)

// Dir is a Provider over one local directory. Subdirectories and hidden
// files are ignored.
type Dir struct {
	path string
}

var _ Provider = (*Dir)(nil)

// OpenDir returns a Dir for path, which must be an existing directory.
func OpenDir(path string) (*Dir, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: %s is not a directory", abs)
	}
	return &Dir{path: abs}, nil
}

func (d *Dir) Files() ([]models.FileMetadata, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("storage: read dir: %w", err)
	}
	var out []models.FileMetadata
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(d.path, name))
		if err != nil {
			return nil, fmt.Errorf("storage: read %s: %w", name, err)
		}
		id, _ := ExportedID(name)
		out = append(out, models.FileMetadata{Name: name, RecipeID: id, Checksum: checksum.Sum(data)})
	}
	return out, nil
}

func (d *Dir) Load(name string) ([]byte, error) {
	p, err := d.locate(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("storage: load %s: %w", name, err)
	}
	return data, nil
}

func (d *Dir) Save(id int64, recipeName string, content []byte) (string, error) {
	name := FileName(id, recipeName)
	p, err := d.locate(name)
	if err != nil {
		return "", err
	}
	if err := replaceFile(d.path, p, content); err != nil {
		return "", fmt.Errorf("storage: save %s: %w", name, err)
	}
	return name, nil
}

func (d *Dir) Remove(name string) error {
	p, err := d.locate(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("storage: remove %s: %w", name, err)
	}
	return nil
}

// locate maps a bare file name to its path inside the directory.
func (d *Dir) locate(name string) (string, error) {
	if name == "" || !filepath.IsLocal(name) || filepath.Base(name) != name {
		return "", fmt.Errorf("storage: %q: %w", name, ErrBadName)
	}
	return filepath.Join(d.path, name), nil
}

// replaceFile writes content next to target and renames it into place, so
// readers see either the old file or the complete new one.
func replaceFile(dir, target string, content []byte) (err error) {
	tmp, err := os.CreateTemp(dir, ".larder-*.partial")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(content); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
