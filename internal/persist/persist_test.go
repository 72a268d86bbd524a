package persist

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chip-tracer/internal/entity"
	"chip-tracer/pkg/colorutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oneOfEach builds one entity per known kind with distinct attributes.
func oneOfEach(t *testing.T) []*entity.Entity {
	t.Helper()
	var out []*entity.Entity
	for i, k := range entity.Kinds {
		f := float64(i)
		var shape entity.Shape
		switch k.Family() {
		case entity.FamilyVias:
			shape = entity.Point{X: f + 0.5, Y: -f}
		case entity.FamilyWire:
			shape = entity.Segment{X: f, Y: 1, EndX: f + 7.25, EndY: 3}
		case entity.FamilyCell:
			shape = entity.Rect{X: f, Y: 2 * f, Width: 3 + f, Height: 1.5}
		}
		e, err := entity.New(k, shape)
		require.NoError(t, err)

		e.Label = "label-" + string(k)
		e.Priority = i * 3
		if i%2 == 0 {
			e.SetAlign(entity.Align(i % 6))
		}
		if i%3 != 0 {
			e.Color = colorutil.Some(colorutil.Color{R: uint8(i), G: 10, B: 20, A: uint8(255 - i)})
		}
		e.Selected = true
		e.Save()
		out = append(out, e)
	}
	return out
}

func expected(in []*entity.Entity) []*entity.Entity {
	out := make([]*entity.Entity, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}

func TestRoundTripEveryFormat(t *testing.T) {
	for _, name := range []string{"entities.xml", "entities.json", "entities.msgpack"} {
		t.Run(name, func(t *testing.T) {
			in := oneOfEach(t)
			path := filepath.Join(t.TempDir(), name)

			require.NoError(t, Save(path, in))
			got, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, expected(in), got)
			for _, e := range got {
				assert.False(t, e.Selected)
				assert.Equal(t, e.Shape, e.Saved(), "no snapshot after load")
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatXML, FormatFromPath("a.xml"))
	assert.Equal(t, FormatXML, FormatFromPath("a.entities"))
	assert.Equal(t, FormatJSON, FormatFromPath("a.JSON"))
	assert.Equal(t, FormatMsgpack, FormatFromPath("a.mp"))
}

func TestDecodeLegacyXML(t *testing.T) {
	doc := `<?xml version="1.0"?>
<ArrayOfEntity xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <Entity>
    <Label>clk</Label>
    <LambdaX>10</LambdaX>
    <LambdaY>4</LambdaY>
    <LambdaEndX>30</LambdaEndX>
    <LambdaEndY>4</LambdaEndY>
    <LambdaWidth>1</LambdaWidth>
    <LambdaHeight>1</LambdaHeight>
    <Type>WireInterconnect</Type>
    <LabelAlignment>GlobalSettings</LabelAlignment>
    <Priority>2</Priority>
  </Entity>
  <Entity>
    <Label>home</Label>
    <LambdaX>3</LambdaX>
    <LambdaY>8</LambdaY>
    <LambdaWidth>1</LambdaWidth>
    <LambdaHeight>1</LambdaHeight>
    <Type>Beacon</Type>
    <Priority>0</Priority>
  </Entity>
</ArrayOfEntity>`

	got, err := Decode(strings.NewReader(doc), FormatXML)
	require.NoError(t, err)
	require.Len(t, got, 2)

	wire := got[0]
	assert.Equal(t, entity.WireInterconnect, wire.Kind)
	assert.Equal(t, entity.Segment{X: 10, Y: 4, EndX: 30, EndY: 4}, wire.Shape)
	assert.Nil(t, wire.Align, "GlobalSettings means no override")
	_, hasColor := wire.Color.Get()
	assert.False(t, hasColor)
	assert.NotEmpty(t, wire.ID)

	beacon := got[1]
	assert.Equal(t, entity.Kind("Beacon"), beacon.Kind)
	assert.Equal(t, entity.Rect{X: 3, Y: 8, Width: 1, Height: 1}, beacon.Shape)

	// Unknown kinds survive a rewrite.
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatXML, got))
	assert.Contains(t, buf.String(), "<Type>Beacon</Type>")
	again, err := Decode(&buf, FormatXML)
	require.NoError(t, err)
	assert.Equal(t, beacon.Shape, again[1].Shape)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.xml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte("<ArrayOfEntity><Entity>"), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrPersistence)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "decode", perr.Op)

	wrongRoot := filepath.Join(dir, "root.xml")
	require.NoError(t, os.WriteFile(wrongRoot, []byte("<Other/>"), 0o644))
	_, err = Load(wrongRoot)
	assert.ErrorIs(t, err, ErrPersistence)

	badColor := filepath.Join(dir, "color.json")
	require.NoError(t, os.WriteFile(badColor, []byte(`[{"type":"ViasInput","color_override":"nope"}]`), 0o644))
	_, err = Load(badColor)
	assert.ErrorIs(t, err, ErrPersistence)

	noType := filepath.Join(dir, "notype.json")
	require.NoError(t, os.WriteFile(noType, []byte(`[{"x":1}]`), 0o644))
	_, err = Load(noType)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestSaveError(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "no", "such", "dir.xml"), nil)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestWipeGarbage(t *testing.T) {
	short, _ := entity.New(entity.WireGround, entity.Segment{X: 0, Y: 0, EndX: 0.6, EndY: 0.6})
	// Only the endpoint deltas count, not the saved snapshot.
	long, _ := entity.New(entity.WireGround, entity.Segment{X: 5, Y: 5, EndX: 5, EndY: 6})
	via, _ := entity.New(entity.ViasGround, entity.Point{})

	got := WipeGarbage([]*entity.Entity{short, long, via})
	assert.Equal(t, []*entity.Entity{long, via}, got)
}

func TestReassign(t *testing.T) {
	a, _ := entity.New(entity.ViasGround, entity.Point{})
	b := a.Clone()
	c, _ := entity.New(entity.ViasGround, entity.Point{})
	cID := c.ID

	Reassign([]*entity.Entity{a}, []*entity.Entity{b, c})
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, cID, c.ID)
}

func TestUnknownKindsRewrittenUnchanged(t *testing.T) {
	doc := `<?xml version="1.0"?>
<ArrayOfEntity>
  <Entity>
    <ID>thing</ID>
    <Type>FutureThing</Type>
    <LambdaX>1</LambdaX>
    <LambdaY>2</LambdaY>
    <LambdaEndX>7</LambdaEndX>
    <LambdaEndY>8</LambdaEndY>
    <LambdaWidth>3</LambdaWidth>
    <LambdaHeight>4</LambdaHeight>
    <Label>t</Label>
    <Priority>5</Priority>
  </Entity>
  <Entity>
    <ID>stub</ID>
    <Type>FutureWire</Type>
    <LambdaX>1</LambdaX>
    <LambdaY>1</LambdaY>
    <LambdaEndX>1.2</LambdaEndX>
    <LambdaEndY>1</LambdaEndY>
    <Label></Label>
    <Priority>0</Priority>
  </Entity>
</ArrayOfEntity>`

	got, err := Decode(strings.NewReader(doc), FormatXML)
	require.NoError(t, err)
	require.Len(t, got, 2)

	var first bytes.Buffer
	require.NoError(t, Encode(&first, FormatXML, got))
	assert.Contains(t, first.String(), "<LambdaEndX>7</LambdaEndX>")
	assert.Contains(t, first.String(), "<LambdaWidth>3</LambdaWidth>")

	kept := WipeGarbage(got)
	require.Len(t, kept, 2, "unknown kinds are never garbage")

	again, err := Decode(bytes.NewReader(first.Bytes()), FormatXML)
	require.NoError(t, err)
	var second bytes.Buffer
	require.NoError(t, Encode(&second, FormatXML, WipeGarbage(again)))
	assert.Equal(t, first.String(), second.String())

	for _, f := range []Format{FormatJSON, FormatMsgpack} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, f, kept))
		back, err := Decode(&buf, f)
		require.NoError(t, err, f)
		fields, ok := back[0].KeptFields()
		require.True(t, ok, f)
		assert.Equal(t, entity.Fields{X: 1, Y: 2, EndX: 7, EndY: 8, Width: 3, Height: 4}, fields, f)
	}
}

func TestEncodeRejectsControlCharactersInXML(t *testing.T) {
	e, _ := entity.New(entity.ViasInput, entity.Point{X: 1, Y: 1})
	e.Label = "A\x01B"

	var buf bytes.Buffer
	err := Encode(&buf, FormatXML, []*entity.Entity{e})
	assert.ErrorIs(t, err, ErrNotXMLText)
	assert.ErrorIs(t, err, ErrPersistence)

	err = Save(filepath.Join(t.TempDir(), "ctl.xml"), []*entity.Entity{e})
	assert.ErrorIs(t, err, ErrNotXMLText)

	// JSON keeps the label intact.
	buf.Reset()
	require.NoError(t, Encode(&buf, FormatJSON, []*entity.Entity{e}))
	back, err := Decode(&buf, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "A\x01B", back[0].Label)

	e.Label = "tab\tand\nnewline"
	buf.Reset()
	require.NoError(t, Encode(&buf, FormatXML, []*entity.Entity{e}))
	back, err = Decode(&buf, FormatXML)
	require.NoError(t, err)
	assert.Equal(t, e.Label, back[0].Label)
}
