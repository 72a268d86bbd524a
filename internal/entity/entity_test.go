package entity

import (
	"testing"

	"chip-tracer/pkg/colorutil"
	"chip-tracer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamiliesAreDisjointAndExhaustive(t *testing.T) {
	counts := map[Family]int{}
	for _, k := range Kinds {
		f := k.Family()
		require.NotEqual(t, FamilyUnknown, f, "kind %s", k)

		n := 0
		for _, is := range []bool{k.IsVias(), k.IsWire(), k.IsCell()} {
			if is {
				n++
			}
		}
		assert.Equal(t, 1, n, "kind %s must belong to exactly one family", k)
		counts[f]++
	}
	assert.Equal(t, 7, counts[FamilyVias])
	assert.Equal(t, 3, counts[FamilyWire])
	assert.Equal(t, 11, counts[FamilyCell])
	assert.Len(t, families, len(Kinds))
}

func TestUnknownKind(t *testing.T) {
	k := Kind("Beacon")
	assert.False(t, k.Known())
	assert.Equal(t, FamilyUnknown, k.Family())
	assert.False(t, k.IsVias() || k.IsWire() || k.IsCell())

	e, err := New(k, Point{X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, k, e.Kind)
}

func TestNewRejectsMismatchedShape(t *testing.T) {
	_, err := New(ViasInput, Segment{X: 0, Y: 0, EndX: 3, EndY: 0})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = New(CellMux, Point{})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = New(WirePower, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	e, err := New(CellMux, Rect{X: 1, Y: 1, Width: 4, Height: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, FamilyCell, e.Family())
}

func TestMapPointsMovesEveryPositionField(t *testing.T) {
	shift := func(p geometry.Point2D) geometry.Point2D { return p.Add(geometry.Point2D{X: 1, Y: -2}) }

	assert.Equal(t, Point{X: 2, Y: 0}, Point{X: 1, Y: 2}.MapPoints(shift))
	assert.Equal(t, Segment{X: 1, Y: -2, EndX: 6, EndY: 3}, Segment{EndX: 5, EndY: 5}.MapPoints(shift))
	assert.Equal(t, Rect{X: 1, Y: -2, Width: 3, Height: 4}, Rect{Width: 3, Height: 4}.MapPoints(shift))
}

func TestSavedSnapshot(t *testing.T) {
	e, err := New(ViasPower, Point{X: 1, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, e.Shape, e.Saved())

	e.Save()
	e.Shape = Point{X: 9, Y: 9}
	assert.Equal(t, Point{X: 1, Y: 1}, e.Saved())

	e.ClearSaved()
	assert.Equal(t, Point{X: 9, Y: 9}, e.Saved())
}

func TestAlignAndColorOverrides(t *testing.T) {
	e, err := New(WireGround, Segment{EndX: 4})
	require.NoError(t, err)

	assert.Equal(t, AlignBottomRight, e.AlignOr(AlignBottomRight))
	e.SetAlign(AlignTop)
	assert.Equal(t, AlignTop, e.AlignOr(AlignBottomRight))

	assert.Equal(t, colorutil.Green, e.Color.Or(colorutil.Green))
	e.Color = colorutil.Some(colorutil.Black)
	assert.Equal(t, colorutil.Black, e.Color.Or(colorutil.Green))

	c := e.Clone()
	*c.Align = AlignBottom
	assert.Equal(t, AlignTop, *e.Align, "clone must not share the alignment")
}

func TestParseAlign(t *testing.T) {
	for i := AlignTop; i <= AlignBottomRight; i++ {
		got, ok := ParseAlign(i.String())
		assert.True(t, ok)
		assert.Equal(t, i, got)
	}
	_, ok := ParseAlign("GlobalSettings")
	assert.False(t, ok)
	assert.True(t, AlignTopRight.IsTop())
	assert.False(t, AlignBottomLeft.IsTop())
}

func TestDegenerate(t *testing.T) {
	short, _ := New(WireInterconnect, Segment{X: 0, Y: 0, EndX: 0.5, EndY: 0.5})
	long, _ := New(WireInterconnect, Segment{X: 0, Y: 0, EndX: 0, EndY: 1})
	via, _ := New(ViasConnect, Point{})

	assert.True(t, short.Degenerate())
	assert.False(t, long.Degenerate())
	assert.False(t, via.Degenerate())
}

func TestUnknownKindKeepsFields(t *testing.T) {
	e, err := New(Kind("FutureWire"), Segment{EndX: 0.2})
	require.NoError(t, err)
	assert.False(t, e.Degenerate(), "only wires are garbage")

	_, ok := e.KeptFields()
	assert.False(t, ok)

	e.KeepFields(Fields{X: 1, EndX: 2, Width: 3})
	c := e.Clone()
	e.KeepFields(Fields{})
	f, ok := c.KeptFields()
	require.True(t, ok)
	assert.Equal(t, Fields{X: 1, EndX: 2, Width: 3}, f)
}
