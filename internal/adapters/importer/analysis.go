package importer

import (
	"cmp"
	"io"
	"slices"
	"strings"

	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/zerr"
)

type analysisDoc struct {
	Metadata struct {
		InputDocuments []string `yaml:"input_documents"`
		Persona        string   `yaml:"persona"`
		JobToBeDone    string   `yaml:"job_to_be_done"`
	} `yaml:"metadata"`
	Sections []analysisSection `yaml:"extracted_sections"`
}

type analysisSection struct {
	Document       string `yaml:"document"`
	SectionTitle   string `yaml:"section_title"`
	ImportanceRank int    `yaml:"importance_rank"`
	// PageNumber is 1-based.
	PageNumber int `yaml:"page_number"`
}

// Analysis imports the ranked section report of a document collection:
// the task is the root, each document a branch and each section a leaf.
type Analysis struct{}

// NewAnalysis creates an analysis importer.
func NewAnalysis() *Analysis {
	return &Analysis{}
}

// Kind implements ports.Importer.
func (*Analysis) Kind() string { return "analysis" }

// Import implements ports.Importer.
func (a *Analysis) Import(r io.Reader) (*domain.Graph, error) {
	var doc analysisDoc
	if err := decode(r, &doc); err != nil {
		return nil, zerr.With(err, "kind", a.Kind())
	}

	b := newBuilder()
	b.node(domain.Node{
		ID:    RootID,
		Label: firstNonEmpty(strings.TrimSpace(doc.Metadata.JobToBeDone), strings.TrimSpace(doc.Metadata.Persona), "Analysis"),
		Kind:  domain.KindRoot,
	})

	docIDs := make(map[string]string)
	addDocument := func(name string) string {
		name = strings.TrimSpace(name)
		if id, ok := docIDs[name]; ok {
			return id
		}
		id := b.next()
		docIDs[name] = id
		b.node(domain.Node{ID: id, Label: firstNonEmpty(name, "Untitled document"), Kind: domain.KindGeneric})
		b.link(RootID, id)
		return id
	}

	for _, name := range doc.Metadata.InputDocuments {
		addDocument(name)
	}

	sections := slices.Clone(doc.Sections)
	slices.SortStableFunc(sections, func(x, y analysisSection) int {
		return cmp.Compare(x.ImportanceRank, y.ImportanceRank)
	})

	for _, s := range sections {
		parent := addDocument(s.Document)
		title := firstNonEmpty(strings.TrimSpace(s.SectionTitle), "Document Content")
		id := b.next()
		b.node(domain.Node{
			ID:    id,
			Label: title,
			Kind:  domain.KindSource,
			Nav: &domain.NavigationRef{
				SourceDocument: strings.TrimSpace(s.Document),
				PageNumber:     max(s.PageNumber, 1),
				SectionTitle:   title,
			},
		})
		b.link(parent, id)
	}

	return b.graph()
}
