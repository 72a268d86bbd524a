package viewport

import (
	"math/rand"
	"testing"

	"chip-tracer/pkg/geometry"

	"github.com/stretchr/testify/assert"
)

func assertPoint(t *testing.T, want, got geometry.Point2D) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
}

func TestRoundTripScreenLogical(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := New(DefaultLambda)

	for zoom := MinZoom; zoom <= MaxZoom; zoom += 10 {
		restore := m.Override(geometry.Point2D{X: rng.Float64()*800 - 400, Y: rng.Float64()*800 - 400}, zoom)
		for i := 0; i < 20; i++ {
			p := geometry.Point2D{X: float64(rng.Intn(2000) - 1000), Y: float64(rng.Intn(2000) - 1000)}
			back := m.ToScreen(m.ToLogical(p))
			assert.InDelta(t, p.X, back.X, 1, "zoom %d", zoom)
			assert.InDelta(t, p.Y, back.Y, 1, "zoom %d", zoom)
		}
		restore()
	}
}

func TestLambdaScaling(t *testing.T) {
	m := New(5)
	assertPoint(t, geometry.Point2D{X: 10, Y: 0}, m.ToLogical(geometry.Point2D{X: 50, Y: 0}))
	assertPoint(t, geometry.Point2D{X: 50, Y: 25}, m.ToScreen(geometry.Point2D{X: 10, Y: 5}))

	m.SetScroll(geometry.Point2D{X: 7, Y: -3})
	m.SetZoom(200, geometry.Point2D{})
	assertPoint(t, geometry.Point2D{X: 107, Y: 47}, m.ToScreen(geometry.Point2D{X: 10, Y: 5}))
}

func TestZeroLambda(t *testing.T) {
	m := New(0)
	assert.Equal(t, geometry.Point2D{}, m.ToLogical(geometry.Point2D{X: 3, Y: 4}))
}

func TestZoomClamp(t *testing.T) {
	m := New(5)
	assert.True(t, m.SetZoom(1000, geometry.Point2D{}))
	assert.Equal(t, MaxZoom, m.Zoom())
	assert.False(t, m.SetZoom(MaxZoom+10, geometry.Point2D{}))

	assert.True(t, m.SetZoom(-5, geometry.Point2D{}))
	assert.Equal(t, MinZoom, m.Zoom())
}

func TestZoomRecentering(t *testing.T) {
	m := New(5)
	scene := geometry.Point2D{X: 400, Y: 200}

	m.SetZoom(120, scene)
	assertPoint(t, geometry.Point2D{X: -40, Y: -20}, m.Scroll())

	m.SetZoom(100, scene)
	assertPoint(t, geometry.Point2D{}, m.Scroll())

	m.SetZoom(50, scene)
	assertPoint(t, geometry.Point2D{X: 100, Y: 50}, m.Scroll())
}

func TestOverrideRestores(t *testing.T) {
	m := New(5)
	m.SetScroll(geometry.Point2D{X: 12, Y: 34})
	m.SetZoom(150, geometry.Point2D{})

	restore := m.Override(geometry.Point2D{X: 99, Y: 99}, 100)
	assert.Equal(t, 100, m.Zoom())
	restore()

	assert.Equal(t, 150, m.Zoom())
	assert.Equal(t, geometry.Point2D{X: 12, Y: 34}, m.Scroll())
}

func TestReset(t *testing.T) {
	m := New(5)
	m.Pan(geometry.Point2D{X: 3, Y: 3})
	m.SetZoom(300, geometry.Point2D{})
	m.Reset()
	assert.Equal(t, DefaultZoom, m.Zoom())
	assert.Equal(t, geometry.Point2D{}, m.Scroll())
}
