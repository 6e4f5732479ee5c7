// Package gamedata loads the content catalog and procedural-generation settings.
package gamedata

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samdwyer/dungeondepths/data"
)

// catalog is implemented by documents that list their required top-level
// keys and check themselves once decoded.
type catalog interface {
	requiredKeys() []string
	validate() error
}

// Load reads and unmarshals a JSON file from fsys. Catalog types also have
// their required keys and contents checked.
func Load[T any](fsys fs.FS, filename string) (T, error) {
	var result T

	content, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	c, isCatalog := any(&result).(catalog)
	if isCatalog {
		if err := requireKeys(content, filename, c.requiredKeys()...); err != nil {
			return result, err
		}
	}

	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON from %s: %w", filename, err)
	}

	if isCatalog {
		if err := c.validate(); err != nil {
			return result, fmt.Errorf("%s: %w", filename, err)
		}
	}
	return result, nil
}

// MustLoad reads and unmarshals a JSON file, panicking on error.
// Use this for data that must be present for the game to function.
func MustLoad[T any](fsys fs.FS, filename string) T {
	result, err := Load[T](fsys, filename)
	if err != nil {
		panic(err)
	}
	return result
}

// source resolves a catalog path to the filesystem holding it. An empty path
// selects the embedded default.
func source(path, embeddedName string) (fs.FS, string) {
	if path == "" {
		return data.FS(), embeddedName
	}
	return os.DirFS(filepath.Dir(path)), filepath.Base(path)
}

// requireKeys fails unless every key is present at the top level of the object.
func requireKeys(content []byte, name string, keys ...string) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(content, &top); err != nil {
		return fmt.Errorf("failed to parse JSON from %s: %w", name, err)
	}
	for _, k := range keys {
		if _, ok := top[k]; !ok {
			return fmt.Errorf("%s: missing required key %q", name, k)
		}
	}
	return nil
}
