// Package entity defines the vias, wires and cells placed on the canvas and
// the ordered store that owns them.
package entity

import (
	"errors"
	"fmt"
	"math"

	"chip-tracer/pkg/colorutil"
	"chip-tracer/pkg/geometry"

	"github.com/google/uuid"
)

// ErrShapeMismatch is returned when a shape does not fit the kind's family.
var ErrShapeMismatch = errors.New("shape does not match entity kind")

// Shape is the logical geometry of an entity, in lambda units.
// It is one of Point, Segment or Rect.
type Shape interface {
	// Family is the entity family this shape belongs to.
	Family() Family
	// MapPoints returns a copy with every position point passed through f.
	MapPoints(f func(geometry.Point2D) geometry.Point2D) Shape
	// Bounds is the logical bounding box.
	Bounds() geometry.Rect
}

// Point is the position of a via.
type Point struct {
	X, Y float64
}

// Segment is the two endpoints of a wire.
type Segment struct {
	X, Y       float64
	EndX, EndY float64
}

// Rect is the origin and size of a cell.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (Point) Family() Family   { return FamilyVias }
func (Segment) Family() Family { return FamilyWire }
func (Rect) Family() Family    { return FamilyCell }

// Pos returns the point as a geometry point.
func (p Point) Pos() geometry.Point2D { return geometry.Point2D{X: p.X, Y: p.Y} }

// Start returns the first endpoint.
func (s Segment) Start() geometry.Point2D { return geometry.Point2D{X: s.X, Y: s.Y} }

// End returns the second endpoint.
func (s Segment) End() geometry.Point2D { return geometry.Point2D{X: s.EndX, Y: s.EndY} }

// Length returns the distance between the endpoints.
func (s Segment) Length() float64 {
	return math.Hypot(s.EndX-s.X, s.EndY-s.Y)
}

// Origin returns the top-left corner.
func (r Rect) Origin() geometry.Point2D { return geometry.Point2D{X: r.X, Y: r.Y} }

func (p Point) MapPoints(f func(geometry.Point2D) geometry.Point2D) Shape {
	q := f(p.Pos())
	return Point{X: q.X, Y: q.Y}
}

func (s Segment) MapPoints(f func(geometry.Point2D) geometry.Point2D) Shape {
	a, b := f(s.Start()), f(s.End())
	return Segment{X: a.X, Y: a.Y, EndX: b.X, EndY: b.Y}
}

func (r Rect) MapPoints(f func(geometry.Point2D) geometry.Point2D) Shape {
	o := f(r.Origin())
	return Rect{X: o.X, Y: o.Y, Width: r.Width, Height: r.Height}
}

func (p Point) Bounds() geometry.Rect { return geometry.Rect{X: p.X, Y: p.Y} }

func (s Segment) Bounds() geometry.Rect {
	return geometry.RectFromCorners(s.Start(), s.End())
}

func (r Rect) Bounds() geometry.Rect {
	return geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Fields is the flat position record an entity is persisted with.
type Fields struct {
	X, Y          float64
	EndX, EndY    float64
	Width, Height float64
}

// Entity is a single via, wire or cell.
type Entity struct {
	ID       string
	Kind     Kind
	Shape    Shape
	Label    string
	Align    *Align             // nil uses the family default
	Color    colorutil.Optional // unset uses the kind colour
	Priority int
	Selected bool

	saved Shape
	extra *Fields // as loaded, for kinds this build does not know
}

// New creates an entity with a fresh ID. The shape must belong to the kind's
// family; unknown kinds accept any shape.
func New(kind Kind, shape Shape) (*Entity, error) {
	if shape == nil {
		return nil, fmt.Errorf("%w: %s has no shape", ErrShapeMismatch, kind)
	}
	if f := kind.Family(); f != FamilyUnknown && f != shape.Family() {
		return nil, fmt.Errorf("%w: %s is a %s, got %s shape", ErrShapeMismatch, kind, f, shape.Family())
	}
	return &Entity{ID: uuid.NewString(), Kind: kind, Shape: shape}, nil
}

// Family returns the entity's family.
func (e *Entity) Family() Family {
	return e.Kind.Family()
}

// Save snapshots the current shape for a drag.
func (e *Entity) Save() {
	e.saved = e.Shape
}

// Saved returns the drag snapshot, or the current shape if none was taken.
func (e *Entity) Saved() Shape {
	if e.saved == nil {
		return e.Shape
	}
	return e.saved
}

// ClearSaved drops the drag snapshot.
func (e *Entity) ClearSaved() {
	e.saved = nil
}

// AlignOr returns the label alignment, or def when none is set.
func (e *Entity) AlignOr(def Align) Align {
	if e.Align == nil {
		return def
	}
	return *e.Align
}

// SetAlign sets the label alignment override.
func (e *Entity) SetAlign(a Align) {
	e.Align = &a
}

// Degenerate reports whether the entity is a wire shorter than one lambda.
// Unknown kinds are never degenerate.
func (e *Entity) Degenerate() bool {
	if !e.Kind.IsWire() {
		return false
	}
	s, ok := e.Shape.(Segment)
	return ok && s.Length() < 1
}

// KeepFields records the persisted fields of an unknown kind so they can be
// written back unchanged.
func (e *Entity) KeepFields(f Fields) {
	e.extra = &f
}

// KeptFields returns the fields recorded by KeepFields.
func (e *Entity) KeptFields() (Fields, bool) {
	if e.extra == nil {
		return Fields{}, false
	}
	return *e.extra, true
}

// Clone returns a copy with the same ID, not selected and without a snapshot.
func (e *Entity) Clone() *Entity {
	c := *e
	if e.Align != nil {
		a := *e.Align
		c.Align = &a
	}
	if e.extra != nil {
		f := *e.extra
		c.extra = &f
	}
	c.Selected = false
	c.saved = nil
	return &c
}

func (e *Entity) String() string {
	if e.Label != "" {
		return fmt.Sprintf("%s %q", e.Kind, e.Label)
	}
	return string(e.Kind)
}
