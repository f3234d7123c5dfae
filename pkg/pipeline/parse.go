package pipeline

import (
	"bytes"
	"strings"

	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/registry"
)

// Parse validates reg and builds its module graph.
func Parse(reg *registry.Registry) (*graph.Graph, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return graph.FromRegistry(reg), nil
}

// ParseFile loads the registry file at path and builds its module graph.
// The format is inferred from the file extension.
func ParseFile(path string) (*graph.Graph, error) {
	reg, err := registry.Load(path)
	if err != nil {
		return nil, err
	}
	return graph.FromRegistry(reg), nil
}

// ParseBytes decodes a registry in the given format, validates it and builds
// its module graph.
func ParseBytes(data []byte, format registry.Format) (*graph.Graph, error) {
	reg, err := registry.Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, err
	}
	return Parse(reg)
}

// GraphHash returns the content hash used to key cached results for g.
// Duplicate declarations are folded in because they change validation.
func GraphHash(g *graph.Graph) (string, error) {
	data, err := graph.Marshal(g)
	if err != nil {
		return "", err
	}
	if dups := g.Duplicates(); len(dups) > 0 {
		data = append(data, strings.Join(dups, "\n")...)
	}
	return cache.Hash(data), nil
}
