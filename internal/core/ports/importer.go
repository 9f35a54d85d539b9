package ports

import (
	"io"

	"go.trai.ch/mindmap/internal/core/domain"
)

// Importer converts a document produced by the analysis backend into a graph.
//
//go:generate mockgen -source=importer.go -destination=mocks/mock_importer.go -package=mocks
type Importer interface {
	// Kind is the document kind handled, e.g. "outline".
	Kind() string

	// Import decodes r and builds the graph.
	Import(r io.Reader) (*domain.Graph, error)
}
