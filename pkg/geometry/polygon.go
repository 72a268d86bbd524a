package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// windingEpsilon is the smallest total winding angle treated as "inside".
const windingEpsilon = 1e-6

// WindingAngle returns the signed angle swept by the polygon's edges as seen
// from p. It is close to ±2π for points inside and close to zero outside.
func WindingAngle(p Point2D, polygon []Point2D) float64 {
	b := p.Vec()
	var total float64
	for i := range polygon {
		ba := r2.Sub(polygon[i].Vec(), b)
		bc := r2.Sub(polygon[(i+1)%len(polygon)].Vec(), b)
		total += math.Atan2(r2.Cross(ba, bc), r2.Dot(ba, bc))
	}
	return total
}

// PointInPolygon tests if a point is inside a polygon using the winding angle.
// Works for convex and concave polygons in either orientation.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}
	return math.Abs(WindingAngle(p, polygon)) > windingEpsilon
}

// Square returns the four corners of an axis-aligned square centred on c.
func Square(c Point2D, half float64) []Point2D {
	return []Point2D{
		{X: c.X - half, Y: c.Y - half},
		{X: c.X - half, Y: c.Y + half},
		{X: c.X + half, Y: c.Y + half},
		{X: c.X + half, Y: c.Y - half},
	}
}

// Quad returns the corners of r in (x,y), (x,y+h), (x+w,y+h), (x+w,y) order.
func Quad(r Rect) []Point2D {
	return []Point2D{
		{X: r.X, Y: r.Y},
		{X: r.X, Y: r.Y + r.Height},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X + r.Width, Y: r.Y},
	}
}

// Ribbon returns the rectangle of the given width around the segment start-end.
// Endpoints are ordered left to right first. Segments shorter than 1 are
// treated as length 1 so the normal never divides by zero.
func Ribbon(start, end Point2D, width float64) []Point2D {
	if end.X < start.X {
		start, end = end, start
	}

	ortho := r2.Sub(end.Vec(), start.Vec())
	length := math.Max(1, r2.Norm(ortho))
	half := width / 2

	n1 := r2.Scale(half/length, r2.Rotate(ortho, -math.Pi/2, r2.Vec{}))
	n2 := r2.Scale(half/length, r2.Rotate(ortho, math.Pi/2, r2.Vec{}))

	s, e := start.Vec(), end.Vec()
	return []Point2D{
		FromVec(r2.Add(s, n1)),
		FromVec(r2.Add(s, n2)),
		FromVec(r2.Add(e, n2)),
		FromVec(r2.Add(e, n1)),
	}
}

// Circle approximates a circle with n evenly-spaced points.
func Circle(c Point2D, radius float64, n int) []Point2D {
	points := make([]Point2D, n)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2.0 * math.Pi / float64(n)
		points[i] = Point2D{
			X: c.X + radius*math.Cos(angle),
			Y: c.Y + radius*math.Sin(angle),
		}
	}
	return points
}
