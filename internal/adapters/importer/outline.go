// Package importer converts documents produced by the PDF analysis backend into graphs.
package importer

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// RootID is the id given to the root node of every imported graph.
const RootID = "1"

type outlineDoc struct {
	Title    string         `yaml:"title"`
	Document string         `yaml:"document"`
	Outline  []outlineEntry `yaml:"outline"`
}

type outlineEntry struct {
	Level string `yaml:"level"`
	Text  string `yaml:"text"`
	// Page is 0-based.
	Page int `yaml:"page"`
}

var headingDepth = map[string]int{"H1": 1, "H2": 2, "H3": 3}

// Outline imports a heading outline of one document. Headings nest by level
// and each one navigates to its page.
type Outline struct {
	// Document is the file name used for navigation when the outline does not name one.
	Document string
}

// NewOutline creates an outline importer for the given document file name.
func NewOutline(document string) *Outline {
	return &Outline{Document: document}
}

// Kind implements ports.Importer.
func (*Outline) Kind() string { return "outline" }

// Import implements ports.Importer.
func (o *Outline) Import(r io.Reader) (*domain.Graph, error) {
	var doc outlineDoc
	if err := decode(r, &doc); err != nil {
		return nil, zerr.With(err, "kind", o.Kind())
	}

	document := strings.TrimSpace(doc.Document)
	if document == "" {
		document = o.Document
	}

	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = firstNonEmpty(document, "Outline")
	}

	b := newBuilder()
	b.node(domain.Node{ID: RootID, Label: title, Kind: domain.KindRoot})

	// parents[d] is the latest heading at depth d; parents[0] is the root.
	parents := [4]string{RootID}
	for i, entry := range doc.Outline {
		depth, ok := headingDepth[strings.ToUpper(strings.TrimSpace(entry.Level))]
		if !ok {
			err := zerr.With(domain.ErrUnknownHeadingLevel, "level", entry.Level)
			return nil, zerr.With(err, "index", i)
		}
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}

		parent := RootID
		for d := depth - 1; d >= 0; d-- {
			if parents[d] != "" {
				parent = parents[d]
				break
			}
		}

		id := b.next()
		b.node(domain.Node{
			ID:    id,
			Label: text,
			Kind:  domain.KindSource,
			Nav: &domain.NavigationRef{
				SourceDocument: document,
				PageNumber:     entry.Page + 1,
				SectionTitle:   text,
			},
		})
		b.link(parent, id)

		parents[depth] = id
		for d := depth + 1; d < len(parents); d++ {
			parents[d] = ""
		}
	}

	return b.graph()
}

// builder assigns sequential ids and collects the first error.
type builder struct {
	g   *domain.Graph
	seq int
	err error
}

func newBuilder() *builder {
	return &builder{g: domain.NewGraph(), seq: 1}
}

func (b *builder) next() string {
	b.seq++
	return strconv.Itoa(b.seq)
}

func (b *builder) node(n domain.Node) {
	if b.err == nil {
		b.err = b.g.AddNode(n)
	}
}

func (b *builder) link(source, target string) {
	if b.err == nil {
		b.g.AddLink(domain.Link{Source: source, Target: target})
	}
}

func (b *builder) graph() (*domain.Graph, error) {
	if b.err != nil {
		return nil, zerr.Wrap(b.err, domain.ErrImportFailed.Error())
	}
	return b.g, nil
}

func decode(r io.Reader, out any) error {
	if err := yaml.NewDecoder(r).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, domain.ErrImportFailed.Error())
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
