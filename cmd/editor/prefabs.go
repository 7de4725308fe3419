package main

import (
	"path/filepath"
	"strings"

	"github.com/milk9111/forge2d/prefabs"
)

// PrefabInfo holds information about a prefab spec file.
type PrefabInfo struct {
	Name string
	Path string
}

// ListPrefabs returns the embedded and on-disk prefab specs by name.
func ListPrefabs() ([]PrefabInfo, error) {
	files, err := prefabs.List()
	if err != nil {
		return nil, err
	}
	out := make([]PrefabInfo, 0, len(files))
	for _, f := range files {
		out = append(out, PrefabInfo{
			Name: strings.TrimSuffix(filepath.Base(f), filepath.Ext(f)),
			Path: filepath.ToSlash(f),
		})
	}
	return out, nil
}
