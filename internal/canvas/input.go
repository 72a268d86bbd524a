package canvas

import (
	"chip-tracer/internal/entity"
	"chip-tracer/pkg/geometry"
)

// Button is a pointer button.
type Button int

const (
	ButtonPrimary Button = iota + 1
	ButtonSecondary
)

// Key is a keyboard command understood by the engine.
type Key int

const (
	KeyDelete Key = iota + 1
	KeyEscape
	KeySelectionMode
	KeyViasMode
	KeyWireMode
)

// PointerDown starts a gesture. The secondary button pans; the primary
// button draws in a draw mode or drags the selection in selection mode.
// A press is ignored while another gesture is in progress.
func (e *Engine) PointerDown(pos geometry.Point2D, b Button) bool {
	e.pointer = pos
	if e.state != gestureIdle {
		return false
	}

	switch b {
	case ButtonSecondary:
		e.state = gesturePanning
		e.anchor = pos
		return false

	case ButtonPrimary:
		if kind, drawing := e.mode.Kind(); drawing {
			if !kind.Known() {
				return false
			}
			// Cells cannot be started on top of another entity.
			if kind.IsCell() && e.HitTest(pos) != nil {
				e.log.Debug("cell draw rejected over existing entity", "kind", kind)
				return false
			}
			e.state = gestureDrawing
			e.anchor = pos
			return !kind.IsVias()
		}

		selected := e.store.Selected()
		if len(selected) == 0 {
			return false
		}
		for _, ent := range selected {
			ent.Save()
		}
		e.dragSet = selected
		e.dragDist = 0
		e.anchor = pos
		e.state = gestureDragging
	}
	return false
}

// PointerMove updates the gesture in progress.
func (e *Engine) PointerMove(pos geometry.Point2D) bool {
	e.pointer = pos

	switch e.state {
	case gesturePanning:
		delta := pos.Sub(e.anchor)
		e.anchor = pos
		if !e.view.Pan(delta) {
			return false
		}
		e.emit(EventScrollChanged, e.view.Scroll())
		return true

	case gestureDrawing:
		kind, _ := e.mode.Kind()
		return !kind.IsVias()

	case gestureDragging:
		delta := pos.Sub(e.anchor)
		move := func(p geometry.Point2D) geometry.Point2D {
			return e.view.ToLogical(e.view.ToScreen(p).Add(delta))
		}
		for _, ent := range e.dragSet {
			ent.Shape = ent.Saved().MapPoints(move)
		}
		e.dragDist = delta.Len()
		return len(e.dragSet) > 0
	}
	return false
}

// PointerUp finishes the gesture for the released button. In selection
// mode a release that was not a drag toggles the entity under the pointer,
// or clears the selection when nothing is hit.
func (e *Engine) PointerUp(pos geometry.Point2D, b Button) bool {
	e.pointer = pos

	switch b {
	case ButtonSecondary:
		if e.state != gesturePanning {
			return false
		}
		e.state = gestureIdle
		return true

	case ButtonPrimary:
		redraw := false
		if e.mode == ModeSelection && e.state != gesturePanning {
			redraw = e.clickSelect(pos)
		}

		switch e.state {
		case gestureDrawing:
			e.commitDraw(pos)
			e.state = gestureIdle
			redraw = true

		case gestureDragging:
			for _, ent := range e.dragSet {
				ent.ClearSaved()
			}
			e.dragSet = nil
			e.dragDist = 0
			e.state = gestureIdle
			redraw = true
		}
		return redraw
	}
	return false
}

func (e *Engine) clickSelect(pos geometry.Point2D) bool {
	hit := e.HitTest(pos)
	if hit == nil {
		if e.dragDist < 1 {
			return e.RemoveSelection()
		}
		return false
	}

	if hit.Selected && e.dragDist < 1 {
		hit.Selected = false
		e.inspect(nil)
	} else {
		hit.Selected = true
		e.inspect(hit)
	}
	return true
}

func (e *Engine) commitDraw(pos geometry.Point2D) {
	kind, ok := e.mode.Kind()
	if !ok {
		return
	}
	switch kind.Family() {
	case entity.FamilyVias:
		e.AddVia(kind, pos)
	case entity.FamilyWire:
		e.AddWire(kind, e.anchor, pos)
	case entity.FamilyCell:
		e.AddCell(kind, e.anchor, pos)
	}
}

// Wheel zooms by one step per event: in for a positive delta, out for a
// negative one.
func (e *Engine) Wheel(delta float64) bool {
	switch {
	case delta > 0:
		return e.ZoomBy(1)
	case delta < 0:
		return e.ZoomBy(-1)
	}
	return false
}

// Key handles a keyboard command.
func (e *Engine) Key(k Key) bool {
	switch k {
	case KeyDelete:
		return e.DeleteSelected()
	case KeyEscape:
		return e.RemoveSelection()
	case KeySelectionMode:
		return e.SetMode(ModeSelection)
	case KeyViasMode:
		return e.SetMode(DrawMode(entity.ViasConnect))
	case KeyWireMode:
		return e.SetMode(DrawMode(entity.WireInterconnect))
	}
	return false
}

// Busy reports whether a gesture is in progress.
func (e *Engine) Busy() bool {
	return e.state != gestureIdle
}

// Preview returns the virtual entity for a wire or cell being drawn. It is
// never part of the store.
func (e *Engine) Preview() *entity.Entity {
	if e.state != gestureDrawing {
		return nil
	}
	kind, _ := e.mode.Kind()

	a := e.view.ToLogical(e.anchor)
	b := e.view.ToLogical(e.pointer)

	var shape entity.Shape
	switch kind.Family() {
	case entity.FamilyWire:
		shape = entity.Segment{X: a.X, Y: a.Y, EndX: b.X, EndY: b.Y}
	case entity.FamilyCell:
		r := geometry.RectFromCorners(a, b)
		shape = entity.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
	default:
		return nil
	}

	ent, err := entity.New(kind, shape)
	if err != nil {
		return nil
	}
	ent.Priority = e.appearance.Priority.For(kind.Family())
	return ent
}
