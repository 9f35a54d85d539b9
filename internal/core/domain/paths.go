package domain

import "path/filepath"

const (
	// MindmapDirName is the name of the internal workspace directory.
	MindmapDirName = ".mindmap"

	// StoreDirName is the name of the graph revision store directory.
	StoreDirName = "store"

	// HeadFileName names the file holding the digest of the latest revision.
	HeadFileName = "HEAD"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "mindmap.yaml"

	// DefaultGraphFileName is the graph feed file used when none is configured.
	DefaultGraphFileName = "graph.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStorePath returns the default path for the revision store.
// It joins .mindmap and store.
func DefaultStorePath() string {
	return filepath.Join(MindmapDirName, StoreDirName)
}
