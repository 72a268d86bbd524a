package render

import (
	"image"

	"chip-tracer/pkg/geometry"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// maxCachedLabels bounds the rasterized label cache.
const maxCachedLabels = 512

// measure returns the unscaled width and line height of s.
func (r *Renderer) measure(s string) (w, h float64) {
	adv := font.MeasureString(r.face, s)
	return float64(adv.Ceil()), float64(r.face.Metrics().Height.Ceil())
}

// rasterize draws s once in black on a transparent image whose top-left
// corner is the top of the text line.
func (r *Renderer) rasterize(s string) *image.RGBA {
	if img, ok := r.labels[s]; ok {
		return img
	}
	w, h := r.measure(s)
	img := image.NewRGBA(image.Rect(0, 0, max(int(w), 1), max(int(h), 1)))
	d := font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: r.face,
		Dot:  fixed.Point26_6{X: 0, Y: r.face.Metrics().Ascent},
	}
	d.DrawString(s)

	if len(r.labels) >= maxCachedLabels {
		clear(r.labels)
	}
	r.labels[s] = img
	return img
}

// drawText composites the text of s through t, which maps the text's
// top-left corner and pixel grid into screen space.
func (r *Renderer) drawText(dst *image.RGBA, s string, t geometry.AffineTransform) {
	src := r.rasterize(s)
	m := f64.Aff3{t.A, t.B, t.TX, t.C, t.D, t.TY}
	if t.B == 0 && t.C == 0 && t.A == 1 && t.D == 1 {
		p := image.Pt(int(t.TX), int(t.TY))
		draw.Draw(dst, src.Bounds().Add(p), src, image.Point{}, draw.Over)
		return
	}
	draw.ApproxBiLinear.Transform(dst, m, src, src.Bounds(), draw.Over, nil)
}
