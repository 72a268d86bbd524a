package canvas

import (
	"chip-tracer/internal/entity"
	"chip-tracer/pkg/geometry"
)

// Polygon returns the screen-space outline used to hit-test an entity:
// a square around a via, a ribbon along a wire, or the corners of a cell.
// Unknown kinds have no outline.
func (e *Engine) Polygon(ent *entity.Entity) []geometry.Point2D {
	zf := e.view.ZoomFactor()

	switch s := ent.Shape.(type) {
	case entity.Point:
		if !ent.Kind.IsVias() {
			return nil
		}
		half := float64(e.appearance.ViasBaseSize) * zf
		return geometry.Square(e.view.ToScreen(s.Pos()), half)

	case entity.Segment:
		if !ent.Kind.IsWire() {
			return nil
		}
		width := float64(e.appearance.WireBaseSize) * zf
		return geometry.Ribbon(e.view.ToScreen(s.Start()), e.view.ToScreen(s.End()), width)

	case entity.Rect:
		if !ent.Kind.IsCell() {
			return nil
		}
		quad := geometry.Quad(s.Bounds())
		for i := range quad {
			quad[i] = e.view.ToScreen(quad[i])
		}
		return quad
	}
	return nil
}

// HitTest returns the first visible entity, in store order, whose outline
// contains the screen point. With auto-priority on the lowest priority wins.
func (e *Engine) HitTest(p geometry.Point2D) *entity.Entity {
	if e.appearance.Lambda <= 0 {
		return nil
	}
	for _, ent := range e.store.All() {
		if !e.Visible(ent.Family()) {
			continue
		}
		if geometry.PointInPolygon(p, e.Polygon(ent)) {
			return ent
		}
	}
	return nil
}

// SceneSize returns the bottom-right corner and the top-left origin of the
// whole scene at 100% zoom with no scroll. The image counts from (0,0) to
// its size; wires are padded by the wire base size and vias by the via base
// size. The origin is never positive.
func (e *Engine) SceneSize() (size, origin geometry.Point2D) {
	restore := e.view.Override(geometry.Point2D{}, 100)
	defer restore()

	var scene geometry.Rect
	if e.background != nil && !e.hidden[LayerImage] {
		b := e.background.Bounds()
		scene.Width, scene.Height = float64(b.Dx()), float64(b.Dy())
	}
	if e.appearance.Lambda <= 0 {
		return scene.BottomRight(), scene.TopLeft()
	}

	wirePad := float64(e.appearance.WireBaseSize)
	viasPad := float64(e.appearance.ViasBaseSize)

	grow := func(lo, hi geometry.Point2D, pad float64) {
		box := geometry.BoundingBox([]geometry.Point2D{e.view.ToScreen(lo), e.view.ToScreen(hi)})
		box.X -= pad
		box.Y -= pad
		box.Width += 2 * pad
		box.Height += 2 * pad
		scene = scene.Union(box)
	}

	for _, ent := range e.store.All() {
		if !ent.Kind.Known() {
			continue
		}
		switch s := ent.Shape.(type) {
		case entity.Segment:
			b := s.Bounds()
			grow(b.TopLeft(), b.BottomRight(), wirePad)
		case entity.Rect:
			b := s.Bounds()
			grow(b.TopLeft(), b.BottomRight(), 0)
		case entity.Point:
			grow(s.Pos(), s.Pos(), viasPad)
		}
	}
	return scene.BottomRight(), scene.TopLeft()
}
