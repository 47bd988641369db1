package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Walker discovers scene scripts under a directory tree.
type Walker struct{}

// NewWalker creates a Walker.
func NewWalker() *Walker { return &Walker{} }

// Walk returns every .py file under root that declares a scene entry
// point. A plain file argument is returned as-is when it matches.
func (w *Walker) Walk(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		if isSceneScript(root) {
			return []string{root}, nil
		}
		return nil, fmt.Errorf("not a scene script: %s", root)
	}

	var paths []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if info.IsDir() || !isSceneScript(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(paths)).Str("root", root).Msg("Discovered scene scripts")
	return paths, nil
}

// isSceneScript filters for Python files containing a construct method.
func isSceneScript(path string) bool {
	if strings.ToLower(filepath.Ext(path)) != ".py" {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), "def construct(self)")
}
