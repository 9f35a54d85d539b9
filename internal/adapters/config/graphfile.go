package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// GraphFile implements ports.GraphSource for YAML and JSON feed files.
type GraphFile struct{}

// NewGraphFile creates a GraphFile.
func NewGraphFile() *GraphFile {
	return &GraphFile{}
}

// Load reads and strictly validates a feed file.
func (GraphFile) Load(path string) (*domain.Graph, error) {
	// #nosec G304 -- path is the configured feed file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrGraphReadFailed.Error()), "path", path)
	}

	g, err := ParseGraph(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return g, nil
}

// ParseGraph decodes feed data. JSON input is accepted because it is valid YAML.
func ParseGraph(data []byte) (*domain.Graph, error) {
	var dto GraphFileDTO
	if err := decodeYAML(data, &dto); err != nil {
		return nil, zerr.Wrap(err, domain.ErrGraphParseFailed.Error())
	}

	g := domain.NewGraph()
	for i := range dto.Nodes {
		switch domain.NodeKind(dto.Nodes[i].Kind) {
		case "", domain.KindRoot, domain.KindSource, domain.KindGeneric:
		default:
			err := zerr.With(domain.ErrGraphParseFailed, "node_id", dto.Nodes[i].ID)
			return nil, zerr.With(err, "kind", dto.Nodes[i].Kind)
		}
		if err := g.AddNode(dto.Nodes[i].toDomain()); err != nil {
			return nil, zerr.Wrap(err, domain.ErrGraphParseFailed.Error())
		}
	}
	for _, l := range dto.Links {
		g.AddLink(domain.Link{ID: l.ID, Source: l.Source, Target: l.Target})
	}
	if err := g.Validate(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrGraphParseFailed.Error())
	}
	return g, nil
}

// Save writes g to path. Files ending in .json are written as JSON, anything
// else as YAML. The write goes through a temporary file in the same directory.
func (GraphFile) Save(path string, g *domain.Graph) error {
	data, err := EncodeGraph(g, formatOf(path))
	if err != nil {
		return zerr.With(err, "path", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGraphWriteFailed.Error()), "path", path)
	}
	tmp, err := os.CreateTemp(dir, ".graph-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGraphWriteFailed.Error()), "path", path)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrGraphWriteFailed.Error()), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGraphWriteFailed.Error()), "path", path)
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGraphWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGraphWriteFailed.Error()), "path", path)
	}
	return nil
}

// EncodeGraph serializes g as "yaml" or "json".
func EncodeGraph(g *domain.Graph, format string) ([]byte, error) {
	dto := graphToDTO(g)
	switch format {
	case "json":
		data, err := json.MarshalIndent(dto, "", "  ")
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrGraphWriteFailed.Error())
		}
		return append(data, '\n'), nil
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(dto); err != nil {
			return nil, zerr.Wrap(err, domain.ErrGraphWriteFailed.Error())
		}
		if err := enc.Close(); err != nil {
			return nil, zerr.Wrap(err, domain.ErrGraphWriteFailed.Error())
		}
		return buf.Bytes(), nil
	default:
		return nil, zerr.With(domain.ErrUnsupportedFormat, "format", format)
	}
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}

func graphToDTO(g *domain.Graph) GraphFileDTO {
	dto := GraphFileDTO{Nodes: []NodeDTO{}, Links: []LinkDTO{}}
	for n := range g.Nodes() {
		node := NodeDTO{ID: n.ID, Label: n.Label, Color: string(n.Color)}
		if n.Kind != domain.KindGeneric {
			node.Kind = string(n.Kind)
		}
		if n.Nav != nil {
			node.Nav = &NavDTO{Document: n.Nav.SourceDocument, Page: n.Nav.PageNumber, Section: n.Nav.SectionTitle}
		}
		dto.Nodes = append(dto.Nodes, node)
	}
	for l := range g.Links() {
		link := LinkDTO{Source: l.Source, Target: l.Target}
		if l.ID != domain.LinkID(l.Source, l.Target) {
			link.ID = l.ID
		}
		dto.Links = append(dto.Links, link)
	}
	return dto
}

func (n *NodeDTO) toDomain() domain.Node {
	node := domain.Node{
		ID:    n.ID,
		Label: n.Label,
		Color: domain.ColorToken(n.Color),
		Kind:  domain.NodeKind(n.Kind),
	}
	if n.Nav != nil {
		node.Nav = &domain.NavigationRef{
			SourceDocument: n.Nav.Document,
			PageNumber:     n.Nav.Page,
			SectionTitle:   n.Nav.Section,
		}
	}
	return node
}
