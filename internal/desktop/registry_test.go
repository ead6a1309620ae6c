package desktop

import (
	"math/rand"
	"testing"

	"github.com/thriveremote/thriveos/internal/geom"
)

var testViewport = Viewport{Width: 1280, Height: 800, ChromeHeight: 60}

func defaultSize() geom.Size {
	return geom.Size{Width: 600, Height: 400}
}

func TestOpen_CascadesAndStacks(t *testing.T) {
	r := NewRegistry(testViewport)
	a := r.Open("A", "jobs", "🤖", defaultSize())
	b := r.Open("B", "music", "🎵", defaultSize())

	if a != "1" || b != "2" {
		t.Fatalf("expected ids 1 and 2, got %q and %q", a, b)
	}

	wa, _ := r.Get(a)
	wb, _ := r.Get(b)
	if wa.Position != (geom.Point{X: 100, Y: 100}) {
		t.Fatalf("expected first window at 100,100, got %+v", wa.Position)
	}
	if wb.Position != (geom.Point{X: 130, Y: 130}) {
		t.Fatalf("expected second window at 130,130, got %+v", wb.Position)
	}
	if wa.ZIndex != 100 || wb.ZIndex != 101 {
		t.Fatalf("expected z-indexes 100/101, got %d/%d", wa.ZIndex, wb.ZIndex)
	}
	if wb.ZIndex <= wa.ZIndex {
		t.Fatalf("expected B above A")
	}
}

func TestFocus_RaisesToNewMaximum(t *testing.T) {
	r := NewRegistry(testViewport)
	a := r.Open("A", "jobs", "", defaultSize())
	r.Open("B", "music", "", defaultSize())

	before, _ := r.Get(a)
	r.Focus(a)
	after, _ := r.Get(a)

	if after.ZIndex <= before.ZIndex {
		t.Fatalf("expected z-index to increase, before=%d after=%d", before.ZIndex, after.ZIndex)
	}
	for _, w := range r.List() {
		if w.ID != a && w.ZIndex >= after.ZIndex {
			t.Fatalf("window %s has z %d >= focused %d", w.ID, w.ZIndex, after.ZIndex)
		}
	}

	// Focusing the top-most window still strictly increases it.
	r.Focus(a)
	again, _ := r.Get(a)
	if again.ZIndex != after.ZIndex+1 {
		t.Fatalf("expected %d, got %d", after.ZIndex+1, again.ZIndex)
	}
}

func TestOpen_AfterFocusStaysTopMost(t *testing.T) {
	r := NewRegistry(testViewport)
	a := r.Open("A", "jobs", "", defaultSize())
	b := r.Open("B", "music", "", defaultSize())
	r.Focus(a) // a=102
	r.Close(b)

	c := r.Open("C", "pets", "", defaultSize())
	top, ok := r.TopMost()
	if !ok || top.ID != c {
		t.Fatalf("expected newly opened window on top, got %+v", top)
	}
}

func TestOpenClose_RandomSequenceKeepsUniqueIDs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	r := NewRegistry(testViewport)
	open := map[WindowID]bool{}

	for i := 0; i < 500; i++ {
		if len(open) == 0 || rng.Intn(3) != 0 {
			id := r.Open("w", "files", "", defaultSize())
			if open[id] {
				t.Fatalf("id %s allocated twice", id)
			}
			open[id] = true
			continue
		}
		for id := range open {
			r.Close(id)
			delete(open, id)
			break
		}
	}

	list := r.List()
	if len(list) != len(open) {
		t.Fatalf("registry has %d windows, expected %d", len(list), len(open))
	}
	seen := map[WindowID]bool{}
	for _, w := range list {
		if !open[w.ID] {
			t.Fatalf("registry contains closed id %s", w.ID)
		}
		if seen[w.ID] {
			t.Fatalf("duplicate id %s", w.ID)
		}
		seen[w.ID] = true
	}
}

func TestToggleMaximize_IsInvolution(t *testing.T) {
	r := NewRegistry(testViewport)
	id := r.Open("A", "jobs", "", defaultSize())
	r.SetPosition(id, geom.Point{X: 250, Y: 140})
	r.SetSize(id, geom.Size{Width: 512, Height: 300})
	before, _ := r.Get(id)

	r.ToggleMaximize(id)
	maxed, _ := r.Get(id)
	if !maxed.IsMaximized {
		t.Fatalf("expected maximized")
	}
	if maxed.Position != (geom.Point{}) {
		t.Fatalf("expected origin, got %+v", maxed.Position)
	}
	if maxed.Size != (geom.Size{Width: 1280, Height: 740}) {
		t.Fatalf("expected work area size, got %+v", maxed.Size)
	}
	if maxed.PreviousPosition == nil || *maxed.PreviousPosition != before.Position {
		t.Fatalf("expected snapshot of position, got %+v", maxed.PreviousPosition)
	}

	r.ToggleMaximize(id)
	restored, _ := r.Get(id)
	if restored.IsMaximized {
		t.Fatalf("expected restored")
	}
	if restored.Position != before.Position || restored.Size != before.Size {
		t.Fatalf("expected %+v/%+v, got %+v/%+v", before.Position, before.Size, restored.Position, restored.Size)
	}
}

func TestToggleMinimize_IndependentOfMaximize(t *testing.T) {
	r := NewRegistry(testViewport)
	id := r.Open("A", "jobs", "", defaultSize())
	r.ToggleMaximize(id)
	r.ToggleMinimize(id)
	w, _ := r.Get(id)
	if !w.IsMinimized || !w.IsMaximized {
		t.Fatalf("expected both flags set, got %+v", w)
	}
	if _, ok := r.TopMost(); ok {
		t.Fatalf("minimized windows should not be top-most")
	}
}

func TestMissingIDIsNoop(t *testing.T) {
	r := NewRegistry(testViewport)
	id := r.Open("A", "jobs", "", defaultSize())
	before := r.List()

	r.Close("nope")
	r.Focus("nope")
	r.ToggleMinimize("nope")
	r.ToggleMaximize("nope")
	r.SetPosition("nope", geom.Point{X: 1})
	r.SetSize("nope", geom.Size{Width: 1})

	after := r.List()
	if len(after) != 1 || after[0].ID != id || after[0].ZIndex != before[0].ZIndex {
		t.Fatalf("registry changed: %+v", after)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	r := NewRegistry(testViewport)
	id := r.Open("A", "jobs", "", defaultSize())
	r.ToggleMaximize(id)

	w, _ := r.Get(id)
	w.PreviousPosition.X = 999
	w.Title = "mutated"

	again, _ := r.Get(id)
	if again.PreviousPosition.X == 999 || again.Title == "mutated" {
		t.Fatalf("Get leaked internal state")
	}
}

func TestWindowAt_PicksTopMost(t *testing.T) {
	r := NewRegistry(testViewport)
	a := r.Open("A", "jobs", "", defaultSize())
	b := r.Open("B", "music", "", defaultSize())

	p := geom.Point{X: 200, Y: 200} // inside both
	if w, ok := r.WindowAt(p); !ok || w.ID != b {
		t.Fatalf("expected B under pointer, got %+v", w)
	}
	r.Focus(a)
	if w, ok := r.WindowAt(p); !ok || w.ID != a {
		t.Fatalf("expected A under pointer after focus, got %+v", w)
	}
	if _, ok := r.WindowAt(geom.Point{X: 5, Y: 5}); ok {
		t.Fatalf("expected no window at 5,5")
	}
}
