package export

import (
	"io"

	"github.com/fogleman/gg"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/ui/style"
	"go.trai.ch/zerr"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// PNG rasterizes a snapshot with the Go Regular font.
type PNG struct {
	font *opentype.Font
}

// NewPNG parses the embedded font.
func NewPNG() (*PNG, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFontLoadFailed.Error())
	}
	return &PNG{font: f}, nil
}

// Format implements ports.Exporter.
func (*PNG) Format() string { return "png" }

// ContentType implements ports.Exporter.
func (*PNG) ContentType() string { return "image/png" }

// Export implements ports.Exporter.
func (e *PNG) Export(w io.Writer, snap *domain.Snapshot) error {
	if snap == nil || snap.Scene.Empty() {
		return zerr.With(domain.ErrNothingToExport, "format", e.Format())
	}

	fontSize, leading := textMetrics(snap)
	face, err := opentype.NewFace(e.font, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return zerr.Wrap(err, domain.ErrFontLoadFailed.Error())
	}
	defer func() { _ = face.Close() }()

	dc := gg.NewContext(int(snap.Viewport.Width), int(snap.Viewport.Height))
	dc.SetHexColor(string(style.Mist))
	dc.Clear()
	dc.SetFontFace(face)

	t := snap.Transform
	dc.Push()
	dc.Translate(t.X, t.Y)
	dc.Scale(t.K, t.K)
	drawLinks(dc, snap.Scene.Links)
	drawNodes(dc, snap.Scene.Nodes, leading)
	dc.Pop()

	if snap.Minimap.Ready {
		drawMinimap(dc, snap)
	}

	if err := dc.EncodePNG(w); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExportFailed.Error()), "format", e.Format())
	}
	return nil
}

func drawLinks(dc *gg.Context, links []domain.LinkShape) {
	dc.SetHexColor(string(style.Slate))
	dc.SetLineWidth(linkWidth)
	for _, l := range links {
		mx := (l.From.X + l.To.X) / 2
		dc.MoveTo(l.From.X, l.From.Y)
		dc.CubicTo(mx, l.From.Y, mx, l.To.Y, l.To.X, l.To.Y)
		dc.Stroke()
	}
}

func drawNodes(dc *gg.Context, nodes []domain.NodeShape, leading float64) {
	for _, n := range nodes {
		r := n.Bounds()
		fill := string(style.NodeColor(n.Color, n.Kind))

		dc.SetHexColor(fill)
		dc.DrawRoundedRectangle(r.X, r.Y, r.Width, r.Height, nodeRadius)
		dc.Fill()

		dc.SetHexColor(string(style.White))
		for i, line := range n.Lines {
			dc.DrawStringAnchored(line, n.Center.X, lineY(n, i, leading), 0.5, 0.5)
		}

		if n.Collapsed {
			dc.DrawCircle(r.X+r.Width, n.Center.Y, markerRadius+1)
			dc.SetHexColor(string(style.White))
			dc.FillPreserve()
			dc.SetHexColor(fill)
			dc.Stroke()
		}
	}
}

func drawMinimap(dc *gg.Context, snap *domain.Snapshot) {
	m := snap.Minimap
	origin := insetOrigin(snap)

	dc.Push()
	dc.Translate(origin.X, origin.Y)

	dc.DrawRectangle(0, 0, m.Size.Width, m.Size.Height)
	dc.SetHexColor(string(style.White))
	dc.FillPreserve()
	dc.SetHexColor(string(style.Slate))
	dc.SetLineWidth(1)
	dc.Stroke()

	for _, s := range m.Links {
		dc.DrawLine(s.From.X, s.From.Y, s.To.X, s.To.Y)
		dc.Stroke()
	}
	for _, mk := range m.Markers {
		dc.SetHexColor(string(style.NodeColor(mk.Color, mk.Kind)))
		dc.DrawCircle(mk.Center.X, mk.Center.Y, markerRadius)
		dc.Fill()
	}

	dc.SetHexColor(string(style.Iris))
	dc.SetLineWidth(linkWidth)
	for i, p := range m.Indicator {
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
			continue
		}
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
	dc.Stroke()
	dc.Pop()
}
