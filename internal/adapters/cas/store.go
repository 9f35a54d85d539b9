// Package cas implements the content-addressed store for uploaded graph revisions.
package cas

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mindmap/internal/adapters/config"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/zerr"
)

// digestLen is the length of a hex encoded xxhash digest.
const digestLen = 16

// Store implements ports.RevisionStore with one JSON file per revision. The
// canonical JSON encoding of a graph is hashed, so equal graphs share a revision.
type Store struct{}

// NewStore creates a new revision store.
func NewStore() *Store {
	return &Store{}
}

// Put stores g under dir and moves HEAD to it.
func (s *Store) Put(dir string, g *domain.Graph) (string, error) {
	data, err := config.EncodeGraph(g, "json")
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	digest := fmt.Sprintf("%016x", xxhash.Sum64(data))

	filename := revisionPath(dir, digest)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "dir", dir)
	}

	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		//nolint:gosec // Path is built from the store directory and a hex digest
		if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "digest", digest)
		}
	}

	//nolint:gosec // HEAD lives inside the store directory
	if err := os.WriteFile(filepath.Join(dir, domain.HeadFileName), []byte(digest+"\n"), domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "digest", digest)
	}
	return digest, nil
}

// Get returns the revision with the given digest.
func (s *Store) Get(dir, digest string) (*domain.Graph, error) {
	if !validDigest(digest) {
		return nil, zerr.With(domain.ErrRevisionNotFound, "digest", digest)
	}

	//nolint:gosec // Path is built from the store directory and a validated digest
	data, err := os.ReadFile(revisionPath(dir, digest))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrRevisionNotFound, "digest", digest)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "digest", digest)
	}

	g, err := config.ParseGraph(data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "digest", digest)
	}
	return g, nil
}

// Head returns the latest revision. An empty store yields a nil graph and no error.
func (s *Store) Head(dir string) (*domain.Graph, string, error) {
	//nolint:gosec // HEAD lives inside the store directory
	data, err := os.ReadFile(filepath.Join(dir, domain.HeadFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", nil
		}
		return nil, "", zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	digest := strings.TrimSpace(string(data))
	g, err := s.Get(dir, digest)
	if err != nil {
		return nil, "", err
	}
	return g, digest, nil
}

func revisionPath(dir, digest string) string {
	return filepath.Join(dir, digest[:2], digest+".json")
}

func validDigest(digest string) bool {
	if len(digest) != digestLen {
		return false
	}
	for _, r := range digest {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
