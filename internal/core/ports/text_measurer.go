package ports

// TextMeasurer measures the rendered width of a single line of label text.
//
//go:generate mockgen -source=text_measurer.go -destination=mocks/mock_text_measurer.go -package=mocks
type TextMeasurer interface {
	// Width returns the advance width of line in layout units.
	Width(line string) float64
}
