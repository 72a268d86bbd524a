package persist

import (
	"fmt"

	"chip-tracer/internal/entity"
	"chip-tracer/pkg/colorutil"

	"github.com/google/uuid"
)

// record is the flat on-disk form of an entity.
type record struct {
	ID             string  `xml:"ID,omitempty" json:"id,omitempty" msgpack:"id,omitempty"`
	Type           string  `xml:"Type" json:"type" msgpack:"type"`
	LambdaX        float64 `xml:"LambdaX" json:"x" msgpack:"x"`
	LambdaY        float64 `xml:"LambdaY" json:"y" msgpack:"y"`
	LambdaEndX     float64 `xml:"LambdaEndX" json:"end_x" msgpack:"end_x"`
	LambdaEndY     float64 `xml:"LambdaEndY" json:"end_y" msgpack:"end_y"`
	LambdaWidth    float64 `xml:"LambdaWidth" json:"width" msgpack:"width"`
	LambdaHeight   float64 `xml:"LambdaHeight" json:"height" msgpack:"height"`
	Label          string  `xml:"Label" json:"label" msgpack:"label"`
	LabelAlignment string  `xml:"LabelAlignment,omitempty" json:"label_alignment,omitempty" msgpack:"label_alignment,omitempty"`
	ColorOverride  string  `xml:"ColorOverride,omitempty" json:"color_override,omitempty" msgpack:"color_override,omitempty"`
	Priority       int     `xml:"Priority" json:"priority" msgpack:"priority"`
}

func toRecord(e *entity.Entity) record {
	rec := record{
		ID:       e.ID,
		Type:     string(e.Kind),
		Label:    e.Label,
		Priority: e.Priority,
	}

	// Fields outside the shape come back as loaded.
	if f, ok := e.KeptFields(); ok {
		rec.LambdaX, rec.LambdaY = f.X, f.Y
		rec.LambdaEndX, rec.LambdaEndY = f.EndX, f.EndY
		rec.LambdaWidth, rec.LambdaHeight = f.Width, f.Height
	}

	switch s := e.Shape.(type) {
	case entity.Point:
		rec.LambdaX, rec.LambdaY = s.X, s.Y
	case entity.Segment:
		rec.LambdaX, rec.LambdaY = s.X, s.Y
		rec.LambdaEndX, rec.LambdaEndY = s.EndX, s.EndY
	case entity.Rect:
		rec.LambdaX, rec.LambdaY = s.X, s.Y
		rec.LambdaWidth, rec.LambdaHeight = s.Width, s.Height
	}

	if e.Align != nil {
		rec.LabelAlignment = e.Align.String()
	}
	if c, ok := e.Color.Get(); ok {
		rec.ColorOverride = c.String()
	}
	return rec
}

// shape picks the shape for a record. Unknown kinds get the richest shape
// their non-zero fields describe.
func (r record) shape(kind entity.Kind) entity.Shape {
	family := kind.Family()
	if family == entity.FamilyUnknown {
		switch {
		case r.LambdaWidth != 0 || r.LambdaHeight != 0:
			family = entity.FamilyCell
		case r.LambdaEndX != 0 || r.LambdaEndY != 0:
			family = entity.FamilyWire
		default:
			family = entity.FamilyVias
		}
	}

	switch family {
	case entity.FamilyWire:
		return entity.Segment{X: r.LambdaX, Y: r.LambdaY, EndX: r.LambdaEndX, EndY: r.LambdaEndY}
	case entity.FamilyCell:
		return entity.Rect{X: r.LambdaX, Y: r.LambdaY, Width: r.LambdaWidth, Height: r.LambdaHeight}
	default:
		return entity.Point{X: r.LambdaX, Y: r.LambdaY}
	}
}

func (r record) toEntity() (*entity.Entity, error) {
	if r.Type == "" {
		return nil, fmt.Errorf("missing entity type")
	}
	kind := entity.Kind(r.Type)

	e, err := entity.New(kind, r.shape(kind))
	if err != nil {
		return nil, err
	}
	if r.ID != "" {
		e.ID = r.ID
	}
	e.Label = r.Label
	e.Priority = r.Priority
	if kind.Family() == entity.FamilyUnknown {
		e.KeepFields(entity.Fields{
			X: r.LambdaX, Y: r.LambdaY,
			EndX: r.LambdaEndX, EndY: r.LambdaEndY,
			Width: r.LambdaWidth, Height: r.LambdaHeight,
		})
	}

	// Names such as "GlobalSettings" mean no override.
	if a, ok := entity.ParseAlign(r.LabelAlignment); ok {
		e.SetAlign(a)
	}
	if r.ColorOverride != "" {
		c, err := colorutil.Parse(r.ColorOverride)
		if err != nil {
			return nil, err
		}
		e.Color = colorutil.Some(c)
	}
	return e, nil
}

// Reassign gives fresh IDs to entities whose IDs are already taken.
func Reassign(existing, incoming []*entity.Entity) {
	taken := make(map[string]bool, len(existing))
	for _, e := range existing {
		taken[e.ID] = true
	}
	for _, e := range incoming {
		if taken[e.ID] {
			e.ID = uuid.NewString()
		}
		taken[e.ID] = true
	}
}
