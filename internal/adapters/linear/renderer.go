// Package linear prints the visible hierarchy as an indented outline for
// pipes, CI logs and other non-interactive output.
package linear

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/ui/output"
	"go.trai.ch/mindmap/internal/ui/style"
)

const indent = "  "

// Renderer writes outlines.
type Renderer struct {
	out *termenv.Output
}

// NewRenderer creates a renderer on w. A nil writer means stdout.
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stdout
	}
	return &Renderer{out: output.NewWithProfile(w, output.ColorProfileANSI)}
}

// Render writes one line per visible node in pre-order.
func (r *Renderer) Render(tree *domain.Tree) error {
	if tree.Len() == 0 {
		_, err := fmt.Fprintln(r.out, r.out.String("(empty)").Faint())
		return err
	}

	for tn := range tree.Walk() {
		if _, err := fmt.Fprintln(r.out, r.line(tn)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) line(tn *domain.TreeNode) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(indent, tn.Depth))

	icon := style.Dot
	switch {
	case tn.Collapsed:
		icon = style.Collapsed
	case len(tn.Children) > 0:
		icon = style.Expanded
	}
	color := style.NodeColor(tn.Node.Color, tn.Node.Kind)
	b.WriteString(r.out.String(icon).Foreground(r.out.Color(string(color))).String())
	b.WriteString(" ")

	label := r.out.String(Label(tn.Node))
	if tn.Node.Kind == domain.KindRoot {
		label = label.Bold()
	}
	b.WriteString(label.String())

	if nav := tn.Node.Nav; nav.Usable() {
		ref := fmt.Sprintf(" %s %s p.%d", style.Page, nav.SourceDocument, nav.PageNumber)
		b.WriteString(r.out.String(ref).Faint().String())
	}
	return b.String()
}

// Label returns the display label of a node, falling back to its id.
func Label(n domain.Node) string {
	if strings.TrimSpace(n.Label) == "" {
		return n.ID
	}
	return n.Label
}
