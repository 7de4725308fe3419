package prefabs

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Prefab specs and scripts ship inside the binary; files under prefabs/ on
// disk shadow them so edits show up without a rebuild.
var (
	//go:embed *.yaml
	PrefabsFS embed.FS

	//go:embed scripts/*.tengo
	ScriptsFS embed.FS
)

// Load reads a prefab spec by name, with or without the prefabs/ prefix.
func Load(name string) ([]byte, error) {
	return read(PrefabsFS, cleanPrefabPath(name), "load prefab", name)
}

// LoadScript reads a tengo script given as hero.tengo, scripts/hero.tengo
// or prefabs/scripts/hero.tengo.
func LoadScript(name string) ([]byte, error) {
	return read(ScriptsFS, cleanScriptPath(name), "load script", name)
}

func read(embedded fs.FS, clean, op, name string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join("prefabs", filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	data, err := fs.ReadFile(embedded, clean)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s %s: %w", op, name, err)
	}
	return data, nil
}

// List returns the prefab file names found on disk or embedded, sorted and
// without duplicates.
func List() ([]string, error) {
	names, err := fs.Glob(PrefabsFS, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: list: %w", err)
	}
	if disk, err := filepath.Glob(filepath.Join("prefabs", "*.yaml")); err == nil {
		for _, p := range disk {
			names = append(names, filepath.Base(p))
		}
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

func cleanPrefabPath(p string) string {
	s := filepath.ToSlash(p)
	s, _ = strings.CutPrefix(s, "prefabs/")
	return s
}

func cleanScriptPath(p string) string {
	s := filepath.ToSlash(p)
	for _, prefix := range []string{"prefabs/", "scripts/"} {
		s, _ = strings.CutPrefix(s, prefix)
	}
	return path.Join("scripts", s)
}
