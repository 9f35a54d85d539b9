package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/ui/style"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("MINDMAP") + "\n")

	end := min(m.ListOffset+m.ListHeight, len(m.Rows))
	start := min(m.ListOffset, end)
	for i := start; i < end; i++ {
		s.WriteString(m.renderRow(i, m.Rows[i]) + "\n")
	}
	if len(m.Rows) == 0 {
		s.WriteString(footerStyle.Render("  (empty)") + "\n")
	}

	s.WriteString("\n" + m.footer())
	return s.String()
}

func (m *Model) renderRow(index int, row Row) string {
	cursor := "  "
	labelStyle := lipgloss.NewStyle()
	if row.Kind == domain.KindRoot {
		labelStyle = rootStyle
	}
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		labelStyle = selectedStyle
	}

	icon := style.Dot
	switch {
	case row.Collapsed:
		icon = style.Collapsed
	case row.HasChildren:
		icon = style.Expanded
	}
	iconStyle := lipgloss.NewStyle().Foreground(style.NodeColor(row.Color, row.Kind))

	line := cursor + strings.Repeat("  ", row.Depth) + iconStyle.Render(icon) + " " + labelStyle.Render(row.Label)
	if row.Nav.Usable() {
		line += refStyle.Render(fmt.Sprintf(" %s %s p.%d", style.Page, row.Nav.SourceDocument, row.Nav.PageNumber))
	}
	return line
}

func (m *Model) footer() string {
	switch m.Mode {
	case ModeEdit:
		return promptStyle.Render("Rename: ") + m.Input.View()
	case ModeConfirmDelete:
		return promptStyle.Render(fmt.Sprintf("Delete %q and its subtree? [y/N]", m.PromptLabel))
	}

	parts := []string{
		fmt.Sprintf("%d nodes", len(m.Rows)),
		fmt.Sprintf("zoom %.2fx", m.Session.Transform().K),
	}
	if mm := m.Session.Minimap(); mm.Ready {
		parts = append(parts, fmt.Sprintf("view %d%%", visiblePercent(mm)))
	}
	if m.Status != "" {
		parts = append(parts, m.Status)
	}
	return footerStyle.Render(strings.Join(parts, " · "))
}

// visiblePercent is the share of the minimap covered by the viewport indicator.
func visiblePercent(mm domain.MinimapView) int {
	total := mm.Size.Width * mm.Size.Height
	if total <= 0 {
		return 0
	}
	// Shoelace formula over the indicator quad, clipped to the minimap bounds.
	var area float64
	pts := mm.Indicator
	for i := range pts {
		a, b := clip(pts[i], mm.Size), clip(pts[(i+1)%len(pts)], mm.Size)
		area += a.X*b.Y - b.X*a.Y
	}
	return int(math.Round(math.Min(math.Abs(area)/2/total, 1) * 100))
}

func clip(p domain.Point, s domain.Size) domain.Point {
	return domain.Point{X: math.Max(0, math.Min(p.X, s.Width)), Y: math.Max(0, math.Min(p.Y, s.Height))}
}
