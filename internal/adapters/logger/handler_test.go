package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mindmap/internal/adapters/logger"
)

func TestPrettyHandler_Attrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name string
		log  func(*slog.Logger)
		want string
	}{
		{
			name: "record attrs",
			log:  func(l *slog.Logger) { l.Info("revision stored", "digest", "abc") },
			want: "revision stored digest=abc\n",
		},
		{
			name: "handler attrs come first",
			log:  func(l *slog.Logger) { l.With("session", "s1").Warn("slow frame", "ms", 40) },
			want: "! slow frame session=s1 ms=40\n",
		},
		{
			name: "group prefix",
			log:  func(l *slog.Logger) { l.WithGroup("ws").Error("closed", "code", 1006) },
			want: "✗ closed ws.code=1006\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.log(slog.New(logger.NewPrettyHandler(buf, nil)))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := logger.NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	assert.False(t, h.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, h.Enabled(t.Context(), slog.LevelError))
}
