package importer

import (
	"path/filepath"
	"strings"

	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports"
	"go.trai.ch/zerr"
)

// Kinds lists the supported document kinds.
var Kinds = []string{"outline", "analysis"}

// For returns the importer for kind. The document path names the source
// document of an outline: "report.json" navigates to "report.pdf".
func For(kind, documentPath string) (ports.Importer, error) {
	switch strings.ToLower(kind) {
	case "outline":
		return NewOutline(documentName(documentPath)), nil
	case "analysis":
		return NewAnalysis(), nil
	default:
		return nil, zerr.With(domain.ErrUnsupportedFormat, "kind", kind)
	}
}

func documentName(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
}
