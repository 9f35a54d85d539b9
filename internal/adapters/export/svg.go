// Package export renders scene snapshots to SVG and PNG.
package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"

	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/ui/style"
	"go.trai.ch/zerr"
)

const (
	nodeRadius     = 8
	linkWidth      = 1.5
	markerRadius   = 3
	insetMargin    = 10
	fontFamily     = "Go, Helvetica, Arial, sans-serif"
	defaultFont    = 13
	defaultLeading = 18
)

// SVG writes a snapshot as a standalone SVG document.
type SVG struct{}

// NewSVG creates an SVG exporter.
func NewSVG() *SVG {
	return &SVG{}
}

// Format implements ports.Exporter.
func (*SVG) Format() string { return "svg" }

// ContentType implements ports.Exporter.
func (*SVG) ContentType() string { return "image/svg+xml" }

// Export implements ports.Exporter.
func (e *SVG) Export(w io.Writer, snap *domain.Snapshot) error {
	if snap == nil || snap.Scene.Empty() {
		return zerr.With(domain.ErrNothingToExport, "format", e.Format())
	}

	var b bytes.Buffer
	writeSVG(&b, snap)
	if _, err := w.Write(b.Bytes()); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExportFailed.Error()), "format", e.Format())
	}
	return nil
}

func writeSVG(b *bytes.Buffer, snap *domain.Snapshot) {
	width, height := num(snap.Viewport.Width), num(snap.Viewport.Height)
	fontSize, leading := textMetrics(snap)
	t := snap.Transform

	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		width, height, width, height)
	fmt.Fprintf(b, `  <rect width="%s" height="%s" fill="%s"/>`+"\n", width, height, style.Mist)
	fmt.Fprintf(b, `  <g transform="translate(%s %s) scale(%s)">`+"\n", num(t.X), num(t.Y), num(t.K))

	for _, l := range snap.Scene.Links {
		fmt.Fprintf(b, `    <path class="link" d="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
			linkPath(l.From, l.To), style.Slate, num(linkWidth))
	}

	for _, n := range snap.Scene.Nodes {
		r := n.Bounds()
		fill := style.NodeColor(n.Color, n.Kind)
		fmt.Fprintf(b, `    <g class="node" data-id="%s">`+"\n", escape(n.ID))
		fmt.Fprintf(b, `      <rect x="%s" y="%s" width="%s" height="%s" rx="%d" fill="%s"/>`+"\n",
			num(r.X), num(r.Y), num(r.Width), num(r.Height), nodeRadius, fill)
		for i, line := range n.Lines {
			fmt.Fprintf(b, `      <text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="%s" fill="%s">%s</text>`+"\n",
				num(n.Center.X), num(lineY(n, i, leading)), fontFamily, num(fontSize), style.White, escape(line))
		}
		if n.Collapsed {
			fmt.Fprintf(b, `      <circle cx="%s" cy="%s" r="%d" fill="%s" stroke="%s"/>`+"\n",
				num(r.X+r.Width), num(n.Center.Y), markerRadius+1, style.White, fill)
		}
		b.WriteString("    </g>\n")
	}
	b.WriteString("  </g>\n")

	if snap.Minimap.Ready {
		writeMinimap(b, snap)
	}
	b.WriteString("</svg>\n")
}

func writeMinimap(b *bytes.Buffer, snap *domain.Snapshot) {
	m := snap.Minimap
	origin := insetOrigin(snap)

	fmt.Fprintf(b, `  <g class="minimap" transform="translate(%s %s)">`+"\n", num(origin.X), num(origin.Y))
	fmt.Fprintf(b, `    <rect width="%s" height="%s" fill="%s" stroke="%s"/>`+"\n",
		num(m.Size.Width), num(m.Size.Height), style.White, style.Slate)
	for _, s := range m.Links {
		fmt.Fprintf(b, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
			num(s.From.X), num(s.From.Y), num(s.To.X), num(s.To.Y), style.Slate)
	}
	for _, mk := range m.Markers {
		fmt.Fprintf(b, `    <circle cx="%s" cy="%s" r="%d" fill="%s"/>`+"\n",
			num(mk.Center.X), num(mk.Center.Y), markerRadius, style.NodeColor(mk.Color, mk.Kind))
	}
	pts := make([]byte, 0, 64)
	for i, p := range m.Indicator {
		if i > 0 {
			pts = append(pts, ' ')
		}
		pts = append(pts, num(p.X)+","+num(p.Y)...)
	}
	fmt.Fprintf(b, `    <polygon class="viewport" points="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
		pts, style.Iris, num(linkWidth))
	b.WriteString("  </g>\n")
}

// insetOrigin places the minimap in the bottom-right corner of the viewport.
func insetOrigin(snap *domain.Snapshot) domain.Point {
	return domain.Point{
		X: snap.Viewport.Width - snap.Minimap.Size.Width - insetMargin,
		Y: snap.Viewport.Height - snap.Minimap.Size.Height - insetMargin,
	}
}

// linkPath draws a horizontal cubic curve between two points.
func linkPath(from, to domain.Point) string {
	mx := (from.X + to.X) / 2
	return fmt.Sprintf("M%s,%s C%s,%s %s,%s %s,%s",
		num(from.X), num(from.Y), num(mx), num(from.Y), num(mx), num(to.Y), num(to.X), num(to.Y))
}

// lineY returns the baseline of line i so that the block of lines is centered on the node.
func lineY(n domain.NodeShape, i int, leading float64) float64 {
	return n.Center.Y + (float64(i)-float64(len(n.Lines)-1)/2)*leading
}

func textMetrics(snap *domain.Snapshot) (float64, float64) {
	fontSize, leading := snap.FontSize, snap.LineHeight
	if fontSize <= 0 {
		fontSize = defaultFont
	}
	if leading <= 0 {
		leading = defaultLeading
	}
	return fontSize, leading
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
