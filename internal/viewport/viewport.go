// Package viewport maps between screen pixels and the logical lambda grid.
//
//	screen = logical * lambda * zoom/100 + scroll
package viewport

import (
	"math"

	"chip-tracer/pkg/geometry"
)

const (
	MinZoom       = 30
	MaxZoom       = 400
	DefaultZoom   = 100
	ZoomStep      = 10
	DefaultLambda = 5.0
)

// Mapper holds the view transform: lambda unit size, zoom percentage and
// scroll offset in device pixels.
type Mapper struct {
	lambda float64
	zoom   int
	scroll geometry.Point2D
}

// New creates a mapper at the origin and 100% zoom.
func New(lambda float64) *Mapper {
	return &Mapper{lambda: lambda, zoom: DefaultZoom}
}

// ClampZoom limits a zoom percentage to [MinZoom, MaxZoom].
func ClampZoom(zoom int) int {
	return min(max(zoom, MinZoom), MaxZoom)
}

// Lambda returns the lambda unit size in device pixels at 100% zoom.
func (m *Mapper) Lambda() float64 { return m.lambda }

// SetLambda sets the lambda unit size.
func (m *Mapper) SetLambda(lambda float64) { m.lambda = lambda }

// Zoom returns the zoom percentage.
func (m *Mapper) Zoom() int { return m.zoom }

// ZoomFactor returns zoom/100.
func (m *Mapper) ZoomFactor() float64 { return float64(m.zoom) / 100 }

// Scroll returns the scroll offset.
func (m *Mapper) Scroll() geometry.Point2D { return m.scroll }

// SetScroll sets the scroll offset and reports whether it changed.
func (m *Mapper) SetScroll(p geometry.Point2D) bool {
	if p == m.scroll {
		return false
	}
	m.scroll = p
	return true
}

// Pan adds a delta to the scroll offset.
func (m *Mapper) Pan(delta geometry.Point2D) bool {
	return m.SetScroll(m.scroll.Add(delta))
}

// Reset returns to the origin at 100% zoom.
func (m *Mapper) Reset() {
	m.scroll = geometry.Point2D{}
	m.zoom = DefaultZoom
}

// SetZoom clamps and applies a zoom percentage. The scroll offset shifts by
// half the change in rendered scene size: positive when zooming out,
// negative when zooming in. scene is the scene size at 100% zoom.
func (m *Mapper) SetZoom(zoom int, scene geometry.Point2D) bool {
	zoom = ClampZoom(zoom)
	if zoom == m.zoom {
		return false
	}

	oldzf := m.ZoomFactor()
	m.zoom = zoom
	zf := m.ZoomFactor()

	delta := geometry.Point2D{
		X: math.Abs(scene.X*zf-scene.X*oldzf) / 2,
		Y: math.Abs(scene.Y*zf-scene.Y*oldzf) / 2,
	}
	if zf < oldzf {
		m.scroll = m.scroll.Add(delta)
	} else {
		m.scroll = m.scroll.Sub(delta)
	}
	return true
}

// Override replaces scroll and zoom without recentering and returns a
// function restoring the previous values.
func (m *Mapper) Override(scroll geometry.Point2D, zoom int) (restore func()) {
	savedScroll, savedZoom := m.scroll, m.zoom
	m.scroll, m.zoom = scroll, zoom
	return func() {
		m.scroll, m.zoom = savedScroll, savedZoom
	}
}

// Transform returns the logical-to-screen transform.
func (m *Mapper) Transform() geometry.AffineTransform {
	s := m.lambda * m.ZoomFactor()
	return geometry.Translation(m.scroll.X, m.scroll.Y).Compose(geometry.Scale(s, s))
}

// ToScreen maps a logical point to screen pixels.
func (m *Mapper) ToScreen(p geometry.Point2D) geometry.Point2D {
	return m.Transform().Apply(p)
}

// ToLogical maps a screen point to logical lambda units. A zero lambda maps
// everything to the origin.
func (m *Mapper) ToLogical(p geometry.Point2D) geometry.Point2D {
	inv, ok := m.Transform().Inverse()
	if !ok {
		return geometry.Point2D{}
	}
	return inv.Apply(p)
}

// Scaled returns a length in device pixels scaled by the zoom factor.
func (m *Mapper) Scaled(v float64) float64 {
	return v * m.ZoomFactor()
}
