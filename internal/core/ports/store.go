package ports

import "go.trai.ch/mindmap/internal/core/domain"

// RevisionStore keeps content-addressed revisions of uploaded graphs under a store directory.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type RevisionStore interface {
	// Put stores a revision, moves HEAD to it and returns its digest.
	Put(dir string, g *domain.Graph) (string, error)

	// Get returns the revision with the given digest.
	Get(dir, digest string) (*domain.Graph, error)

	// Head returns the latest revision and its digest, or a nil graph if the store is empty.
	Head(dir string) (*domain.Graph, string, error)
}
