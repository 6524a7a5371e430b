package fluid

import "gonum.org/v1/gonum/spatial/r2"

// Color is an RGBA colour for debug primitives.
type Color struct {
	R, G, B, A uint8
}

// ProbeColor marks density probes.
var ProbeColor = Color{R: 255, A: 255}

// Circle is a debug circle outline.
type Circle struct {
	Center r2.Vec
	Radius float64
	Color  Color
}

// Line is a debug line segment.
type Line struct {
	From, To r2.Vec
	Color    Color
}

// Text is a debug label anchored at Pos.
type Text struct {
	Pos   r2.Vec
	Label string
	Color Color
}

// Overlay accumulates debug primitives until the renderer takes them.
type Overlay struct {
	Circles []Circle
	Lines   []Line
	Texts   []Text
}

// AddCircle queues a circle.
func (o *Overlay) AddCircle(c r2.Vec, radius float64, col Color) {
	o.Circles = append(o.Circles, Circle{Center: c, Radius: radius, Color: col})
}

// AddLine queues a line.
func (o *Overlay) AddLine(from, to r2.Vec, col Color) {
	o.Lines = append(o.Lines, Line{From: from, To: to, Color: col})
}

// AddText queues a text label.
func (o *Overlay) AddText(pos r2.Vec, label string, col Color) {
	o.Texts = append(o.Texts, Text{Pos: pos, Label: label, Color: col})
}

// Empty reports whether nothing is queued.
func (o *Overlay) Empty() bool {
	return len(o.Circles) == 0 && len(o.Lines) == 0 && len(o.Texts) == 0
}

// Clear drops all queued primitives.
func (o *Overlay) Clear() {
	o.Circles = o.Circles[:0]
	o.Lines = o.Lines[:0]
	o.Texts = o.Texts[:0]
}

// Take returns the queued primitives and clears the overlay.
func (o *Overlay) Take() Overlay {
	out := Overlay{
		Circles: append([]Circle(nil), o.Circles...),
		Lines:   append([]Line(nil), o.Lines...),
		Texts:   append([]Text(nil), o.Texts...),
	}
	o.Clear()
	return out
}
