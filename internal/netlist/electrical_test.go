package netlist

import (
	"testing"

	"chip-tracer/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ent(t *testing.T, kind entity.Kind, shape entity.Shape, label string) *entity.Entity {
	t.Helper()
	e, err := entity.New(kind, shape)
	require.NoError(t, err)
	e.Label = label
	return e
}

func TestBetterNetName(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{"net-001", "CLK", "CLK"},
		{"U3.A", "net-004", "U3.A"},
		{"U3.A", "RESET", "RESET"},
		{"GND", "GND2", "GND"},
		{"B", "A", "A"},
		{"", "net-002", "net-002"},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, BetterNetName(tt.a, tt.b))
			assert.Equal(t, tt.want, BetterNetName(tt.b, tt.a))
		})
	}
	assert.True(t, IsLowPriorityName("net-010"))
	assert.True(t, IsLowPriorityName("U1.Q"))
	assert.False(t, IsLowPriorityName("VDD"))
}

func TestExtract(t *testing.T) {
	in := ent(t, entity.ViasInput, entity.Point{X: 0, Y: 0}, "")
	mid := ent(t, entity.ViasConnect, entity.Point{X: 10, Y: 0}, "")
	out := ent(t, entity.ViasOutput, entity.Point{X: 10, Y: 10}, "Q")
	lone := ent(t, entity.ViasFloating, entity.Point{X: 50, Y: 50}, "")
	w1 := ent(t, entity.WireInterconnect, entity.Segment{X: 0.2, Y: 0, EndX: 10, EndY: 0.3}, "")
	w2 := ent(t, entity.WireInterconnect, entity.Segment{X: 10, Y: 0, EndX: 10, EndY: 10}, "")
	cell := ent(t, entity.CellLogic, entity.Rect{X: 0, Y: 0, Width: 20, Height: 20}, "U1")

	nets := Extract([]*entity.Entity{in, lone, w1, cell, mid, w2, out}, DefaultTolerance)
	require.Len(t, nets, 2)

	assert.Equal(t, "net-001", nets[0].ID)
	assert.Equal(t, "Q", nets[0].Name)
	assert.Equal(t, []string{in.ID, mid.ID, out.ID}, nets[0].ViaIDs)
	assert.Equal(t, []string{w1.ID, w2.ID}, nets[0].WireIDs)
	assert.Equal(t, 5, nets[0].ElementCount())

	assert.Equal(t, "net-002", nets[1].Name)
	assert.Equal(t, []string{lone.ID}, nets[1].ViaIDs)
	assert.Empty(t, nets[1].WireIDs)

	assert.Same(t, nets[0], Find(nets, w2.ID))
	assert.Nil(t, Find(nets, cell.ID))
}

func TestWiresJoinAtSharedEndpoints(t *testing.T) {
	a := ent(t, entity.WirePower, entity.Segment{X: 0, Y: 0, EndX: 5, EndY: 0}, "VDD")
	b := ent(t, entity.WirePower, entity.Segment{X: 5, Y: 0, EndX: 5, EndY: 5}, "")
	c := ent(t, entity.WirePower, entity.Segment{X: 6, Y: 5, EndX: 9, EndY: 5}, "")

	nets := Extract([]*entity.Entity{a, b, c}, DefaultTolerance)
	require.Len(t, nets, 2)
	assert.Equal(t, "VDD", nets[0].Name)
	assert.Equal(t, []string{a.ID, b.ID}, nets[0].WireIDs)
	assert.Equal(t, []string{c.ID}, nets[1].WireIDs)
}

func TestNearbyViasStaySeparate(t *testing.T) {
	a := ent(t, entity.ViasConnect, entity.Point{X: 0, Y: 0}, "")
	b := ent(t, entity.ViasConnect, entity.Point{X: 0.1, Y: 0}, "")

	assert.Len(t, Extract([]*entity.Entity{a, b}, DefaultTolerance), 2)
}

func TestUnknownKindsIgnored(t *testing.T) {
	odd := &entity.Entity{ID: "x", Kind: "Beacon", Shape: entity.Point{}}
	assert.Empty(t, Extract([]*entity.Entity{odd}, DefaultTolerance))
}
