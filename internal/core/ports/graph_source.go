package ports

import "go.trai.ch/mindmap/internal/core/domain"

// GraphSource reads and writes graph feed files.
//
//go:generate mockgen -source=graph_source.go -destination=mocks/mock_graph_source.go -package=mocks
type GraphSource interface {
	// Load reads a feed file. Files are validated strictly: duplicate ids and
	// links to unknown nodes are errors.
	Load(path string) (*domain.Graph, error)

	// Save writes a graph to path. The format follows the file extension.
	Save(path string, g *domain.Graph) error
}
