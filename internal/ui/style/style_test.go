package style_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/ui/style"
)

func TestNodeColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token domain.ColorToken
		kind  domain.NodeKind
		want  lipgloss.Color
	}{
		{name: "hex passes through", token: "#112233", kind: domain.KindGeneric, want: "#112233"},
		{name: "palette name", token: "Red", kind: domain.KindGeneric, want: style.Red},
		{name: "empty uses root kind", token: "", kind: domain.KindRoot, want: style.Iris},
		{name: "empty uses source kind", token: "", kind: domain.KindSource, want: style.Green},
		{name: "bad hex falls back", token: "#12345g", kind: domain.KindGeneric, want: style.Slate},
		{name: "unknown name falls back", token: "chartreuse", kind: domain.KindGeneric, want: style.Slate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, style.NodeColor(tt.token, tt.kind))
		})
	}
}
