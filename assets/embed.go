package assets

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.png shaders/*.kage
var assetsFS embed.FS

// diskOrEmbedded reads from disk first so edited files win over the copies
// compiled into the binary.
type diskOrEmbedded struct {
	embedded fs.FS
}

func (d diskOrEmbedded) ReadFile(path string) ([]byte, error) {
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}
	if data, err := os.ReadFile(filepath.Join("assets", cleanAssetPath(path))); err == nil {
		return data, nil
	}
	return fs.ReadFile(d.embedded, cleanAssetPath(path))
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}
