package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Read returns a scene document. A copy under levels/ on disk wins over the
// embedded one so the editor can overwrite shipped levels.
func Read(name string) ([]byte, error) {
	clean := cleanLevelPath(name)
	if data, err := os.ReadFile(diskLevelPath(clean)); err == nil {
		return data, nil
	}
	data, err := LevelsFS.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	return data, nil
}

// List returns the level names on disk and embedded, sorted, each once.
func List() ([]string, error) {
	matches, err := fs.Glob(LevelsFS, "*.json")
	if err != nil {
		return nil, fmt.Errorf("levels: list: %w", err)
	}
	if disk, err := filepath.Glob(filepath.Join("levels", "*.json")); err == nil {
		for _, p := range disk {
			matches = append(matches, filepath.Base(p))
		}
	}
	slices.Sort(matches)
	return slices.Compact(matches), nil
}

// IsNotExist reports whether err means the level is absent everywhere.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func cleanLevelPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "levels/"); ok {
		return after
	}
	return s
}

func diskLevelPath(clean string) string {
	return filepath.Join("levels", filepath.FromSlash(clean))
}
