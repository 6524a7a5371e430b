package fluid

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestOverlay_TakeClears(t *testing.T) {
	var o Overlay
	if !o.Empty() {
		t.Fatal("zero overlay should be empty")
	}

	o.AddCircle(r2.Vec{X: 1, Y: 2}, 3, ProbeColor)
	o.AddLine(r2.Vec{}, r2.Vec{X: 10}, Color{G: 255, A: 255})
	o.AddText(r2.Vec{X: 5}, "hello", ProbeColor)

	taken := o.Take()
	if len(taken.Circles) != 1 || len(taken.Lines) != 1 || len(taken.Texts) != 1 {
		t.Errorf("Take() = %+v, want one of each primitive", taken)
	}
	if !o.Empty() {
		t.Error("overlay not empty after Take")
	}

	// taken copy is independent of later additions
	o.AddLine(r2.Vec{}, r2.Vec{Y: 1}, ProbeColor)
	if taken.Lines[0].To.X != 10 {
		t.Errorf("taken line = %+v, want end (10, 0)", taken.Lines[0])
	}

	o.Clear()
	if !o.Empty() {
		t.Error("overlay not empty after Clear")
	}
}
