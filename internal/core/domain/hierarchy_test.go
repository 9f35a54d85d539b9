package domain_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindmap/internal/core/domain"
)

func chain(ids ...string) []domain.Link {
	links := make([]domain.Link, 0, len(ids)-1)
	for i := 1; i < len(ids); i++ {
		links = append(links, domain.Link{Source: ids[i-1], Target: ids[i]})
	}
	return links
}

func nodes(ids ...string) []domain.Node {
	out := make([]domain.Node, len(ids))
	for i, id := range ids {
		out[i] = domain.Node{ID: id, Label: id}
	}
	return out
}

func visible(t *domain.Tree) []string {
	var out []string
	for n := range t.Walk() {
		out = append(out, n.ID())
	}
	return out
}

func TestRootID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		graph *domain.Graph
		want  string
		ok    bool
	}{
		{
			name:  "empty",
			graph: domain.NewGraph(),
		},
		{
			name:  "single untargeted node",
			graph: domain.NewGraphFrom(nodes("b", "a"), []domain.Link{{Source: "a", Target: "b"}}),
			want:  "a",
			ok:    true,
		},
		{
			name:  "several candidates prefer sentinel",
			graph: domain.NewGraphFrom(nodes("x", "1", "y"), nil),
			want:  "1",
			ok:    true,
		},
		{
			name:  "several candidates without sentinel take first",
			graph: domain.NewGraphFrom(nodes("x", "y"), nil),
			want:  "x",
			ok:    true,
		},
		{
			name:  "pure cycle takes first node",
			graph: domain.NewGraphFrom(nodes("a", "b"), chain("a", "b", "a")),
			want:  "a",
			ok:    true,
		},
		{
			name:  "dangling links do not disqualify",
			graph: domain.NewGraphFrom(nodes("a", "b"), []domain.Link{{Source: "ghost", Target: "a"}, {Source: "a", Target: "b"}}),
			want:  "a",
			ok:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := domain.RootID(tt.graph)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildHierarchy_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, domain.BuildHierarchy(domain.NewGraph(), nil))
	assert.Equal(t, 0, domain.BuildHierarchy(domain.NewGraph(), nil).Len())
}

func TestBuildHierarchy_ChildOrderFollowsLinks(t *testing.T) {
	t.Parallel()

	g := domain.NewGraphFrom(nodes("1", "a", "b", "c"), []domain.Link{
		{Source: "1", Target: "c"},
		{Source: "1", Target: "a"},
		{Source: "a", Target: "b"},
	})

	tree := domain.BuildHierarchy(g, nil)
	require.NotNil(t, tree)
	assert.Equal(t, "1", tree.Root.ID())
	assert.Equal(t, []string{"1", "c", "a", "b"}, visible(tree))
	assert.Equal(t, 2, tree.Find("b").Depth)
	assert.Equal(t, "a", tree.Find("b").Parent.ID())
}

func TestBuildHierarchy_CycleTerminates(t *testing.T) {
	t.Parallel()

	g := domain.NewGraphFrom(nodes("1", "2", "3"), chain("1", "2", "3", "1"))

	tree := domain.BuildHierarchy(g, nil)
	require.NotNil(t, tree)
	assert.Equal(t, []string{"1", "2", "3"}, visible(tree))
	assert.Empty(t, tree.Find("3").Children)
}

func TestBuildHierarchy_SecondParentIsIgnored(t *testing.T) {
	t.Parallel()

	g := domain.NewGraphFrom(nodes("1", "a", "b", "shared"), []domain.Link{
		{Source: "1", Target: "a"},
		{Source: "1", Target: "b"},
		{Source: "a", Target: "shared"},
		{Source: "b", Target: "shared"},
	})

	tree := domain.BuildHierarchy(g, nil)
	assert.Equal(t, 4, tree.Len())
	assert.Equal(t, "a", tree.Find("shared").Parent.ID())
	assert.Empty(t, tree.Find("b").Children)
}

func TestBuildHierarchy_Collapse(t *testing.T) {
	t.Parallel()

	// 1 -> {2 -> {4, 5}, 3}
	g := domain.NewGraphFrom(nodes("1", "2", "3", "4", "5"), []domain.Link{
		{Source: "1", Target: "2"},
		{Source: "1", Target: "3"},
		{Source: "2", Target: "4"},
		{Source: "2", Target: "5"},
	})

	tree := domain.BuildHierarchy(g, map[string]struct{}{"2": {}, "3": {}})
	assert.Equal(t, []string{"1", "2", "3"}, visible(tree))
	assert.True(t, tree.Find("2").Collapsed)
	assert.False(t, tree.Find("3").Collapsed, "leaf in collapse set hides nothing")

	// Model data is untouched.
	assert.Equal(t, 5, g.Len())

	expanded := domain.BuildHierarchy(g, nil)
	assert.Equal(t, []string{"1", "2", "4", "5", "3"}, visible(expanded))
}

func TestBuildHierarchy_ReachableSetExcludesCollapsedDescendants(t *testing.T) {
	t.Parallel()

	g := domain.NewGraphFrom(nodes("1", "2", "3", "4", "5", "6"), []domain.Link{
		{Source: "1", Target: "2"},
		{Source: "2", Target: "3"},
		{Source: "3", Target: "4"},
		{Source: "1", Target: "5"},
		{Source: "5", Target: "6"},
	})
	full := domain.BuildHierarchy(g, nil)

	for collapsedID := range full.Walk() {
		collapsed := map[string]struct{}{collapsedID.ID(): {}}
		tree := domain.BuildHierarchy(g, collapsed)

		hidden := full.Descendants(collapsedID.ID())
		want := slices.DeleteFunc(visible(full), func(id string) bool {
			return slices.Contains(hidden, id)
		})
		assert.ElementsMatch(t, want, visible(tree), "collapsed %s", collapsedID.ID())
	}
}

func TestBuildHierarchy_UnreachableNodesAreNotPlaced(t *testing.T) {
	t.Parallel()

	g := domain.NewGraphFrom(nodes("1", "2", "orphan"), []domain.Link{
		{Source: "1", Target: "2"},
		{Source: "ghost", Target: "orphan"},
	})

	tree := domain.BuildHierarchy(g, nil)
	assert.Equal(t, "1", tree.Root.ID())
	assert.Nil(t, tree.Find("orphan"))
}

func TestTree_Descendants(t *testing.T) {
	t.Parallel()

	g := domain.NewGraphFrom(nodes("1", "2", "3", "4"), []domain.Link{
		{Source: "1", Target: "2"},
		{Source: "2", Target: "3"},
		{Source: "1", Target: "4"},
	})
	tree := domain.BuildHierarchy(g, nil)

	assert.ElementsMatch(t, []string{"2", "3", "4"}, tree.Descendants("1"))
	assert.Equal(t, []string{"3"}, tree.Descendants("2"))
	assert.Empty(t, tree.Descendants("4"))
	assert.Nil(t, tree.Descendants("missing"))
}

func TestTree_NearestVisibleAncestor(t *testing.T) {
	t.Parallel()

	g := domain.NewGraphFrom(nodes("1", "2", "3"), chain("1", "2", "3"))
	before := domain.BuildHierarchy(g, nil)
	after := domain.BuildHierarchy(g, map[string]struct{}{"2": {}})

	anc := after.NearestVisibleAncestor(before, "3")
	require.NotNil(t, anc)
	assert.Equal(t, "2", anc.ID())
	assert.Nil(t, after.NearestVisibleAncestor(before, "1"))
}
