package ports

import (
	"io"

	"go.trai.ch/mindmap/internal/core/domain"
)

// Exporter renders a snapshot of the scene into a file format.
//
//go:generate mockgen -source=exporter.go -destination=mocks/mock_exporter.go -package=mocks
type Exporter interface {
	// Format is the short name of the format, e.g. "svg".
	Format() string

	// ContentType is the MIME type of the output.
	ContentType() string

	// Export writes the snapshot to w.
	Export(w io.Writer, snap *domain.Snapshot) error
}
