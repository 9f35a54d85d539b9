package importer_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindmap/internal/adapters/importer"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/zerr"
)

func links(g *domain.Graph) []string {
	var out []string
	for l := range g.Links() {
		out = append(out, l.ID)
	}
	return out
}

func TestOutline_NestsHeadingsByLevel(t *testing.T) {
	t.Parallel()

	doc := `{
    "title": "Field Guide",
    "outline": [
      {"level": "H1", "text": "Intro", "page": 0},
      {"level": "H2", "text": "Scope", "page": 1},
      {"level": "H3", "text": "Limits", "page": 1},
      {"level": "H2", "text": "Terms", "page": 2},
      {"level": "H1", "text": "  ", "page": 3},
      {"level": "h1", "text": "Methods", "page": 4},
      {"level": "H3", "text": "Deep", "page": 5}
    ]
  }`

	g, err := importer.NewOutline("guide.pdf").Import(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 7, g.Len())

	root, ok := g.Node(importer.RootID)
	require.True(t, ok)
	assert.Equal(t, "Field Guide", root.Label)
	assert.Equal(t, domain.KindRoot, root.Kind)

	assert.Equal(t, []string{"1->2", "2->3", "3->4", "2->5", "1->6", "6->7"}, links(g))

	limits, ok := g.Node("4")
	require.True(t, ok)
	assert.Equal(t, domain.KindSource, limits.Kind)
	assert.Equal(t, &domain.NavigationRef{SourceDocument: "guide.pdf", PageNumber: 2, SectionTitle: "Limits"}, limits.Nav)

	require.NoError(t, g.Validate())
}

func TestOutline_Fallbacks(t *testing.T) {
	t.Parallel()

	g, err := importer.NewOutline("x.pdf").Import(strings.NewReader(`{"document": "named.pdf", "outline": [{"level": "H2", "text": "Orphan", "page": 0}]}`))
	require.NoError(t, err)

	root, _ := g.Node(importer.RootID)
	assert.Equal(t, "named.pdf", root.Label)
	orphan, _ := g.Node("2")
	assert.Equal(t, "named.pdf", orphan.Nav.SourceDocument)
	assert.Equal(t, []string{"1->2"}, links(g))

	g, err = importer.NewOutline("").Import(strings.NewReader(""))
	require.NoError(t, err)
	root, _ = g.Node(importer.RootID)
	assert.Equal(t, "Outline", root.Label)
}

func TestOutline_Errors(t *testing.T) {
	t.Parallel()

	_, err := importer.NewOutline("").Import(strings.NewReader(`{"outline": [{"level": "H4", "text": "x"}]}`))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnknownHeadingLevel.Error())
	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "H4", zErr.Metadata()["level"])
	assert.Equal(t, 0, zErr.Metadata()["index"])

	_, err = importer.NewOutline("").Import(strings.NewReader(`{"outline": [`))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrImportFailed.Error())
}

func TestAnalysis_GroupsSectionsByDocument(t *testing.T) {
	t.Parallel()

	doc := `{
    "metadata": {
      "input_documents": ["a.pdf", "b.pdf"],
      "persona": "Travel Planner",
      "job_to_be_done": "Plan a trip"
    },
    "extracted_sections": [
      {"document": "b.pdf", "section_title": "Hotels", "importance_rank": 2, "page_number": 3},
      {"document": "a.pdf", "section_title": "Cities", "importance_rank": 1, "page_number": 1},
      {"document": "c.pdf", "section_title": "", "importance_rank": 3, "page_number": 0}
    ],
    "subsection_analysis": []
  }`

	g, err := importer.NewAnalysis().Import(strings.NewReader(doc))
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	root, _ := g.Node(importer.RootID)
	assert.Equal(t, "Plan a trip", root.Label)

	// Documents 2 and 3 come first, sections follow in rank order; c.pdf is added when first seen.
	assert.Equal(t, []string{"1->2", "1->3", "2->4", "3->5", "1->6", "6->7"}, links(g))

	cities, _ := g.Node("4")
	assert.Equal(t, "Cities", cities.Label)
	assert.Equal(t, 1, cities.Nav.PageNumber)

	untitled, _ := g.Node("7")
	assert.Equal(t, "Document Content", untitled.Label)
	assert.Equal(t, 1, untitled.Nav.PageNumber, "pages are clamped to 1")
	assert.Equal(t, "c.pdf", untitled.Nav.SourceDocument)

	var kinds []domain.NodeKind
	for n := range g.Nodes() {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, 3, len(slices.DeleteFunc(kinds, func(k domain.NodeKind) bool { return k != domain.KindSource })))
}

func TestFor(t *testing.T) {
	t.Parallel()

	imp, err := importer.For("outline", "/tmp/report.json")
	require.NoError(t, err)
	assert.Equal(t, "outline", imp.Kind())
	assert.Equal(t, "report.pdf", imp.(*importer.Outline).Document)

	imp, err = importer.For("Analysis", "")
	require.NoError(t, err)
	assert.Equal(t, "analysis", imp.Kind())

	_, err = importer.For("csv", "")
	assert.ErrorContains(t, err, domain.ErrUnsupportedFormat.Error())
}
