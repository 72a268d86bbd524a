// Package render paints a canvas engine's scene into RGBA images, both for
// the live view and for whole-scene export.
package render

import (
	"image"
	"math"

	"chip-tracer/internal/canvas"
	"chip-tracer/internal/viewport"
	"chip-tracer/pkg/colorutil"
	"chip-tracer/pkg/geometry"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// LabelSize is the point size of entity labels at 100% zoom.
const LabelSize = 9

// scaleLabel is drawn next to the scale bar.
const scaleLabel = "5λ"

// Renderer draws scenes with a single label face. A Renderer is not safe for
// concurrent use.
type Renderer struct {
	face   font.Face
	labels map[string]*image.RGBA
}

// New creates a renderer using face for labels. A nil face falls back to
// the 7x13 bitmap font.
func New(face font.Face) *Renderer {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &Renderer{face: face, labels: make(map[string]*image.RGBA)}
}

// Default creates a renderer with Go Regular labels.
func Default() *Renderer {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return New(nil)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    LabelSize,
		DPI:     96,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return New(nil)
	}
	return New(face)
}

// Frame renders the live view: background, image, grid, entities, the
// draw preview and the scale bar.
func (r *Renderer) Frame(e *canvas.Engine, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	r.paint(dst, e, true)
	return dst
}

// Scene renders every entity and the background image at 100% zoom into an
// image sized to fit them exactly. The engine's scroll and zoom are
// restored before returning.
func (r *Renderer) Scene(e *canvas.Engine) *image.RGBA {
	size, origin := e.SceneSize()
	w := int(math.Ceil(size.X - origin.X))
	h := int(math.Ceil(size.Y - origin.Y))

	restore := e.View().Override(origin.Scale(-1), viewport.DefaultZoom)
	defer restore()

	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	r.paint(dst, e, false)
	return dst
}

func (r *Renderer) paint(dst *image.RGBA, e *canvas.Engine, live bool) {
	if dst.Bounds().Empty() {
		return
	}
	a := e.Appearance()
	view := e.View()

	draw.Draw(dst, dst.Bounds(), image.NewUniform(a.Background.Std()), image.Point{}, draw.Src)

	if img := e.Background(); img != nil && !e.Hidden(canvas.LayerImage) {
		drawBackground(dst, img, view)
	}
	if live {
		drawGrid(dst, view, a.Grid)
	}
	if a.Lambda <= 0 {
		return
	}

	for _, ent := range e.Entities() {
		r.entity(dst, e, &a, ent)
	}
	if preview := e.Preview(); preview != nil {
		r.entity(dst, e, &a, preview)
	}
	if live {
		r.drawScale(dst, view)
	}
}

// drawBackground scales the image by the zoom and places it at the scroll
// offset.
func drawBackground(dst *image.RGBA, img image.Image, view *viewport.Mapper) {
	sb := img.Bounds()
	zoom := view.Zoom()
	scroll := view.Scroll()

	dr := image.Rect(0, 0, sb.Dx()*zoom/100, sb.Dy()*zoom/100).
		Add(image.Pt(int(scroll.X), int(scroll.Y)))
	if dr.Empty() {
		return
	}
	if zoom == viewport.DefaultZoom {
		draw.Draw(dst, dr, img, sb.Min, draw.Over)
		return
	}
	draw.NearestNeighbor.Scale(dst, dr, img, sb, draw.Over, nil)
}

// gridStep is the spacing of grid dots and the width of the scale bar.
func gridStep(view *viewport.Mapper) float64 {
	return view.Scaled(float64(int(view.Lambda()) * 5))
}

// drawGrid puts a dot every five lambda, anchored to the scroll offset.
func drawGrid(dst *image.RGBA, view *viewport.Mapper, c colorutil.Color) {
	step := gridStep(view)
	if step < 2 {
		return
	}
	b := dst.Bounds()
	scroll := view.Scroll()
	x0 := math.Mod(scroll.X, step)
	if x0 < 0 {
		x0 += step
	}
	y0 := math.Mod(scroll.Y, step)
	if y0 < 0 {
		y0 += step
	}

	dot := c.Std()
	for y := y0; y < float64(b.Max.Y); y += step {
		for x := x0; x < float64(b.Max.X); x += step {
			dst.SetRGBA(int(x), int(y), dot)
		}
	}
}

// drawScale draws the five lambda bar in the bottom-right corner.
func (r *Renderer) drawScale(dst *image.RGBA, view *viewport.Mapper) {
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	scaleW := gridStep(view)

	const thickness = 3
	y := h - 5
	fillPolygon(dst, geometry.Quad(geometry.Rect{
		X:      w - scaleW - 5,
		Y:      y - thickness/2.0,
		Width:  scaleW,
		Height: thickness,
	}), colorutil.LightGray.Std())

	labelW, labelH := r.measure(scaleLabel)
	origin := geometry.Point2D{
		X: w - labelW - float64(int(scaleW/2)),
		Y: h - labelH - thickness - 5,
	}
	r.drawText(dst, scaleLabel, geometry.Translation(origin.X, origin.Y))
}
