package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hgir-dev/hgir/internal/codec"
	"github.com/hgir-dev/hgir/internal/extension"
	"github.com/hgir-dev/hgir/internal/graph"
	"github.com/hgir-dev/hgir/internal/stdext"
)

// buildRegistry assembles the extension registry available to a command:
// the built-in extensions plus any CUE declarations passed via --ext.
func buildRegistry(declPaths []string) (*extension.Registry, error) {
	exts := []*extension.Extension{stdext.Logic()}
	for _, path := range declPaths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading extension declaration: %w", err)
		}
		ext, err := extension.LoadDecl(string(src))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		exts = append(exts, ext)
	}
	return extension.NewRegistry(exts...)
}

// loadModule reads and decodes a module file, picking the transport by
// extension: .yaml/.yml is YAML, everything else JSON.
func loadModule(path string, reg *extension.Registry) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAMLPath(path) {
		return codec.DecodeYAML(data, reg)
	}
	return codec.DecodeJSON(data, reg)
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
