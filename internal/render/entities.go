package render

import (
	"image"
	"image/color"
	"math"
	"unicode/utf8"

	"chip-tracer/internal/canvas"
	"chip-tracer/internal/config"
	"chip-tracer/internal/entity"
	"chip-tracer/pkg/geometry"

	"golang.org/x/image/vector"
)

// circleSegments is the number of edges used to approximate a round via.
const circleSegments = 48

func (r *Renderer) entity(dst *image.RGBA, e *canvas.Engine, a *config.Appearance, ent *entity.Entity) {
	if !e.Visible(ent.Family()) {
		return
	}
	col := ent.Color.Or(a.ColorFor(ent.Kind))
	c := color.NRGBA(col.WithAlpha(a.OpacityFor(ent.Family())))

	switch s := ent.Shape.(type) {
	case entity.Point:
		if ent.Kind.IsVias() {
			r.via(dst, e, a, ent, s, c)
		}
	case entity.Segment:
		if ent.Kind.IsWire() {
			r.wire(dst, e, a, ent, s, c)
		}
	}
}

func (r *Renderer) via(dst *image.RGBA, e *canvas.Engine, a *config.Appearance, ent *entity.Entity, p entity.Point, c color.NRGBA) {
	view := e.View()
	zf := view.ZoomFactor()
	center := view.ToScreen(p.Pos())
	radius := float64(int(float64(a.ViasBaseSize) * zf))

	outline := func(rad float64) []geometry.Point2D {
		if a.ViasShape == config.ViasSquare {
			return geometry.Square(center, rad)
		}
		return geometry.Circle(center, rad, circleSegments)
	}
	if ent.Selected {
		fillPolygon(dst, outline(radius+float64(int(a.Lambda))), a.Selection.Std())
	}
	fillPolygon(dst, outline(radius), c)

	if ent.Label == "" {
		return
	}
	align := ent.AlignOr(a.TextAlign.Vias)
	tw, th := r.measure(ent.Label)

	var origin geometry.Point2D
	if align.IsTop() {
		origin.Y = center.Y - radius - float64(int(th*zf))
	} else {
		origin.Y = center.Y + radius
	}
	switch align {
	case entity.AlignTopLeft, entity.AlignBottomLeft:
		origin.X = center.X - radius - float64(int(tw*zf))
	case entity.AlignTopRight, entity.AlignBottomRight:
		origin.X = center.X + radius
	default:
		origin.X = center.X - float64(int(tw*zf/2))
	}
	r.drawText(dst, ent.Label, geometry.Translation(origin.X, origin.Y).Compose(geometry.Scale(zf, zf)))
}

func (r *Renderer) wire(dst *image.RGBA, e *canvas.Engine, a *config.Appearance, ent *entity.Entity, s entity.Segment, c color.NRGBA) {
	view := e.View()
	zf := view.ZoomFactor()
	start := view.ToScreen(s.Start())
	end := view.ToScreen(s.End())
	width := float64(a.WireBaseSize) * zf

	if ent.Selected {
		fillPolygon(dst, geometry.Ribbon(start, end, width+float64(int(a.Lambda))), a.Selection.Std())
	}
	fillPolygon(dst, geometry.Ribbon(start, end, width), c)

	if ent.Label == "" || start.Round() == end.Round() {
		return
	}
	if end.X < start.X {
		start, end = end, start
	}
	dx, dy := end.X-start.X, end.Y-start.Y
	alpha := math.Atan(dy / dx)
	length := float64(int(math.Hypot(dx, dy)))

	tw, th := r.measure(ent.Label)
	avgChar := float64(int(tw / float64(utf8.RuneCountInString(ent.Label))))

	var along float64
	switch ent.AlignOr(a.TextAlign.Wire) {
	case entity.AlignTop, entity.AlignBottom:
		along = float64(int(length)/2 - int(tw)/2)
	case entity.AlignTopRight, entity.AlignBottomRight:
		along = length - float64(int(tw)) - avgChar
	default:
		along = avgChar
	}

	t := geometry.Translation(start.X, start.Y).
		Compose(geometry.Rotation(alpha)).
		Compose(geometry.Scale(zf, zf)).
		Compose(geometry.Translation(along, -th/2))
	r.drawText(dst, ent.Label, t)
}

// fillPolygon fills a closed screen-space outline with antialiasing.
func fillPolygon(dst *image.RGBA, pts []geometry.Point2D, c color.Color) {
	if len(pts) < 3 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(pts[0].X-float64(b.Min.X)), float32(pts[0].Y-float64(b.Min.Y)))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X-float64(b.Min.X)), float32(p.Y-float64(b.Min.Y)))
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}
