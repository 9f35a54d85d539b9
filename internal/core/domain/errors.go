package domain

import "go.trai.ch/zerr"

var (
	// ErrEmptyNodeID is returned when a node without an id is added to a graph.
	ErrEmptyNodeID = zerr.New("node id must not be empty")

	// ErrDuplicateNode is returned when a node id is already present in the graph.
	ErrDuplicateNode = zerr.New("duplicate node id")

	// ErrDanglingLink is returned by strict validation when a link endpoint does not exist.
	ErrDanglingLink = zerr.New("link references unknown node")

	// ErrNothingToExport is returned when an export is requested for an empty scene.
	ErrNothingToExport = zerr.New("nothing to export")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when a config value is out of range.
	ErrConfigInvalid = zerr.New("invalid configuration value")

	// ErrGraphReadFailed is returned when a graph feed file cannot be read.
	ErrGraphReadFailed = zerr.New("failed to read graph file")

	// ErrGraphParseFailed is returned when a graph feed file cannot be decoded.
	ErrGraphParseFailed = zerr.New("failed to parse graph file")

	// ErrGraphWriteFailed is returned when a graph feed file cannot be written.
	ErrGraphWriteFailed = zerr.New("failed to write graph file")

	// ErrGraphNotConfigured is returned when a command needs a graph file but none is set.
	ErrGraphNotConfigured = zerr.New("no graph file configured")

	// ErrStoreCreateFailed is returned when the revision store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create revision store directory")

	// ErrStoreReadFailed is returned when a revision cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read revision")

	// ErrStoreWriteFailed is returned when a revision cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write revision")

	// ErrRevisionNotFound is returned when a revision digest is unknown.
	ErrRevisionNotFound = zerr.New("revision not found")

	// ErrImportFailed is returned when an outline or analysis document cannot be converted.
	ErrImportFailed = zerr.New("failed to import document")

	// ErrUnknownHeadingLevel is returned for outline entries with an unsupported level.
	ErrUnknownHeadingLevel = zerr.New("unknown heading level")

	// ErrUnsupportedFormat is returned when an export or import format is unknown.
	ErrUnsupportedFormat = zerr.New("unsupported format")

	// ErrExportFailed is returned when a snapshot cannot be rendered.
	ErrExportFailed = zerr.New("failed to export snapshot")

	// ErrFontLoadFailed is returned when the measurement font cannot be parsed.
	ErrFontLoadFailed = zerr.New("failed to load font")

	// ErrWatcherFailed is returned when the graph file watcher cannot start.
	ErrWatcherFailed = zerr.New("failed to watch graph file")

	// ErrServerFailed is returned when the HTTP host stops unexpectedly.
	ErrServerFailed = zerr.New("server failed")

	// ErrInvalidMessage is reported to a websocket client that sends malformed JSON.
	ErrInvalidMessage = zerr.New("invalid message")

	// ErrUnknownMessage is reported to a websocket client that sends an unknown message type.
	ErrUnknownMessage = zerr.New("unknown message type")

	// ErrNoGraph is returned when an operation needs a graph but none has been loaded.
	ErrNoGraph = zerr.New("no graph loaded")
)
