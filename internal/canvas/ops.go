package canvas

import (
	"fmt"
	"math"

	"chip-tracer/internal/entity"
	"chip-tracer/pkg/geometry"
)

// AddVia creates a via of the given kind at a screen position.
func (e *Engine) AddVia(kind entity.Kind, screen geometry.Point2D) *entity.Entity {
	if !kind.IsVias() {
		return nil
	}
	p := e.view.ToLogical(screen)
	ent, err := entity.New(kind, entity.Point{X: p.X, Y: p.Y})
	if err != nil {
		return nil
	}
	ent.Priority = e.appearance.Priority.Vias
	e.insert(ent, "add via")
	return ent
}

// AddWire creates a wire between two screen positions. Wires shorter than
// one lambda are discarded.
func (e *Engine) AddWire(kind entity.Kind, from, to geometry.Point2D) *entity.Entity {
	if !kind.IsWire() {
		return nil
	}
	a, b := e.view.ToLogical(from), e.view.ToLogical(to)
	if a.Distance(b) < 1 {
		e.log.Debug("wire discarded: shorter than one lambda", "kind", kind)
		return nil
	}
	ent, err := entity.New(kind, entity.Segment{X: a.X, Y: a.Y, EndX: b.X, EndY: b.Y})
	if err != nil {
		return nil
	}
	ent.Priority = e.appearance.Priority.Wire
	e.insert(ent, "add wire")
	return ent
}

// AddCell creates a cell spanning two screen positions. Each side is at
// least one lambda.
func (e *Engine) AddCell(kind entity.Kind, from, to geometry.Point2D) *entity.Entity {
	if !kind.IsCell() {
		return nil
	}
	r := geometry.RectFromCorners(e.view.ToLogical(from), e.view.ToLogical(to))
	ent, err := entity.New(kind, entity.Rect{
		X:      r.X,
		Y:      r.Y,
		Width:  math.Max(1, r.Width),
		Height: math.Max(1, r.Height),
	})
	if err != nil {
		return nil
	}
	ent.Priority = e.appearance.Priority.Cell
	e.insert(ent, "add cell")
	return ent
}

// Insert adds an existing entity to the store.
func (e *Engine) Insert(ent *entity.Entity) bool {
	if ent == nil {
		return false
	}
	e.insert(ent, "insert "+string(ent.Kind))
	return true
}

func (e *Engine) insert(ent *entity.Entity, op string) {
	e.store.Add(ent)
	e.countsChanged()
	e.operation(op)
}

// WireSelectedVias joins exactly two selected vias with a new wire.
func (e *Engine) WireSelectedVias(kind entity.Kind) *entity.Entity {
	if !kind.IsWire() {
		return nil
	}
	var ends []entity.Point
	for _, ent := range e.store.Selected() {
		if p, ok := ent.Shape.(entity.Point); ok && ent.Kind.IsVias() {
			ends = append(ends, p)
		}
	}
	if len(ends) != 2 || ends[0].Pos().Distance(ends[1].Pos()) < 1 {
		return nil
	}
	ent, err := entity.New(kind, entity.Segment{X: ends[0].X, Y: ends[0].Y, EndX: ends[1].X, EndY: ends[1].Y})
	if err != nil {
		return nil
	}
	ent.Priority = e.appearance.Priority.Wire
	e.insert(ent, "wire selected vias")
	return ent
}

// RemoveSelection deselects everything.
func (e *Engine) RemoveSelection() bool {
	n := e.store.ClearSelection()
	e.inspect(nil)
	return n > 0
}

// DeleteSelected removes every selected entity.
func (e *Engine) DeleteSelected() bool {
	n := e.store.RemoveFunc(func(ent *entity.Entity) bool { return ent.Selected })
	e.dragSet = nil
	e.inspect(nil)
	if n == 0 {
		return false
	}
	e.countsChanged()
	e.operation(fmt.Sprintf("delete %d entities", n))
	return true
}

// DeleteAll removes every entity.
func (e *Engine) DeleteAll() bool {
	n := e.store.Len()
	e.store.Clear()
	e.dragSet = nil
	if e.state == gestureDragging {
		e.state = gestureIdle
	}
	e.inspect(nil)
	e.countsChanged()
	e.operation("delete all entities")
	return n > 0
}
