package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mindmap/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		wantMessages []string
	}{
		{name: "standard error", err: errors.New("simple error"), wantMessages: []string{"simple error"}},
		{
			name:         "zerr chain",
			err:          zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle layer"), "outer layer"),
			wantMessages: []string{"outer layer", "middle layer", "root cause"},
		},
		{name: "nil", err: nil, wantMessages: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entries := logger.CollectErrorEntries(tt.err)
			msgs := make([]string, 0, len(entries))
			for _, e := range entries {
				msgs = append(msgs, e.Message)
			}
			if tt.wantMessages == nil {
				assert.Empty(t, entries)
				return
			}
			assert.Equal(t, tt.wantMessages, msgs)
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name:    "cause list",
			entries: []logger.ErrorEntry{{Message: "first"}, {Message: "second"}, {Message: "third"}},
			want:    "Error: first\n\n  Caused by:\n    → second\n    → third",
		},
		{
			name: "metadata sorted",
			entries: []logger.ErrorEntry{{
				Message:  "invalid configuration",
				Metadata: map[string]any{"value": 0.0, "field": "viewport.width"},
			}},
			want: "Error: invalid configuration\n       field: viewport.width\n       value: 0",
		},
		{
			name:    "multiline cause",
			entries: []logger.ErrorEntry{{Message: "main"}, {Message: "line1\nline2"}},
			want:    "Error: main\n\n  Caused by:\n    → line1\n      line2",
		},
		{name: "empty", entries: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}

func TestCollectAndFormat(t *testing.T) {
	t.Parallel()

	inner := zerr.With(zerr.New("node id already exists"), "node_id", "2")
	outer := zerr.Wrap(inner, "failed to parse graph file")
	outer = zerr.With(outer, "path", "graph.yaml")

	got := logger.FormatErrorEntries(logger.CollectErrorEntries(outer))
	assert.Equal(t, "Error: failed to parse graph file\n"+
		"       path: graph.yaml\n\n"+
		"  Caused by:\n"+
		"    → node id already exists\n"+
		"      node_id: 2", got)
}
