// Package config holds the canvas appearance settings and their YAML form.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"chip-tracer/internal/entity"
	"chip-tracer/pkg/colorutil"

	"gopkg.in/yaml.v3"
)

// ViasShape selects how vias are drawn.
type ViasShape int

const (
	ViasRound ViasShape = iota
	ViasSquare
)

func (s ViasShape) String() string {
	if s == ViasSquare {
		return "square"
	}
	return "round"
}

// MarshalText implements encoding.TextMarshaler.
func (s ViasShape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ViasShape) UnmarshalText(text []byte) error {
	switch string(text) {
	case "round", "":
		*s = ViasRound
	case "square":
		*s = ViasSquare
	default:
		return fmt.Errorf("unknown vias shape %q", text)
	}
	return nil
}

// PerFamily holds one integer setting per entity family.
type PerFamily struct {
	Vias int `yaml:"vias"`
	Wire int `yaml:"wire"`
	Cell int `yaml:"cell"`
}

// For returns the value for a family. Unknown families get zero.
func (p PerFamily) For(f entity.Family) int {
	switch f {
	case entity.FamilyVias:
		return p.Vias
	case entity.FamilyWire:
		return p.Wire
	case entity.FamilyCell:
		return p.Cell
	}
	return 0
}

// AlignPerFamily holds the default label alignment per family.
type AlignPerFamily struct {
	Vias entity.Align `yaml:"vias"`
	Wire entity.Align `yaml:"wire"`
	Cell entity.Align `yaml:"cell"`
}

// For returns the default alignment for a family.
func (a AlignPerFamily) For(f entity.Family) entity.Align {
	switch f {
	case entity.FamilyWire:
		return a.Wire
	case entity.FamilyCell:
		return a.Cell
	}
	return a.Vias
}

// Appearance controls how entities are drawn and ordered.
type Appearance struct {
	Lambda       float64                          `yaml:"lambda"`
	ViasShape    ViasShape                        `yaml:"vias_shape"`
	ViasBaseSize int                              `yaml:"vias_base_size"`
	WireBaseSize int                              `yaml:"wire_base_size"`
	Colors       map[entity.Kind]colorutil.Color `yaml:"colors"`
	Selection    colorutil.Color                  `yaml:"selection_color"`
	Background   colorutil.Color                  `yaml:"background_color"`
	Grid         colorutil.Color                  `yaml:"grid_color"`
	Opacity      PerFamily                        `yaml:"opacity"`
	Priority     PerFamily                        `yaml:"priority"`
	AutoPriority bool                             `yaml:"auto_priority"`
	TextAlign    AlignPerFamily                   `yaml:"text_align"`
}

// Default returns the stock appearance for a 5px lambda.
func Default() Appearance {
	a := Appearance{
		ViasShape: ViasRound,
		Colors: map[entity.Kind]colorutil.Color{
			entity.ViasInput:        colorutil.Green,
			entity.ViasOutput:       colorutil.Red,
			entity.ViasInout:        colorutil.Yellow,
			entity.ViasConnect:      colorutil.Black,
			entity.ViasFloating:     colorutil.Gray,
			entity.ViasPower:        colorutil.Black,
			entity.ViasGround:       colorutil.Black,
			entity.WireInterconnect: colorutil.Blue,
			entity.WirePower:        colorutil.Red,
			entity.WireGround:       colorutil.Green,
			entity.CellNot:          colorutil.Navy,
			entity.CellBuffer:       colorutil.Navy,
			entity.CellMux:          colorutil.Purple,
			entity.CellLogic:        colorutil.Purple,
			entity.CellAdder:        colorutil.Maroon,
			entity.CellBusSupp:      colorutil.Olive,
			entity.CellFlipFlop:     colorutil.Teal,
			entity.CellLatch:        colorutil.Teal,
			entity.UnitRegfile:      colorutil.Gray,
			entity.UnitMemory:       colorutil.Gray,
			entity.UnitCustom:       colorutil.Gray,
		},
		Selection:    colorutil.LimeGreen,
		Background:   colorutil.MenuHighlight,
		Grid:         colorutil.LightGray,
		Opacity:      PerFamily{Vias: 255, Wire: 128, Cell: 128},
		Priority:     PerFamily{Vias: 3, Wire: 2, Cell: 1},
		AutoPriority: true,
		TextAlign: AlignPerFamily{
			Vias: entity.AlignTop,
			Wire: entity.AlignTopLeft,
			Cell: entity.AlignTopLeft,
		},
	}
	a.SetLambda(5)
	return a
}

// SetLambda sets the lambda size and derives the base sizes from it.
func (a *Appearance) SetLambda(lambda float64) {
	a.Lambda = lambda
	a.ViasBaseSize = max(1, int(lambda)-1)
	a.WireBaseSize = int(lambda)
}

// Clamp pulls out-of-range values back into range so the view stays renderable.
func (a *Appearance) Clamp() {
	if a.Lambda <= 0 {
		a.Lambda = 5
	}
	a.ViasBaseSize = max(1, a.ViasBaseSize)
	a.WireBaseSize = max(1, a.WireBaseSize)
	a.Opacity.Vias = clampOpacity(a.Opacity.Vias)
	a.Opacity.Wire = clampOpacity(a.Opacity.Wire)
	a.Opacity.Cell = clampOpacity(a.Opacity.Cell)
	if a.Colors == nil {
		a.Colors = Default().Colors
	}
}

func clampOpacity(v int) int {
	return min(max(v, 0), 255)
}

// ColorFor returns the configured colour of a kind, black if none is set.
func (a Appearance) ColorFor(k entity.Kind) colorutil.Color {
	if c, ok := a.Colors[k]; ok {
		return c
	}
	return colorutil.Black
}

// OpacityFor returns the family opacity as an alpha value.
func (a Appearance) OpacityFor(f entity.Family) uint8 {
	return uint8(clampOpacity(a.Opacity.For(f)))
}

// Clone returns a deep copy.
func (a Appearance) Clone() Appearance {
	colors := make(map[entity.Kind]colorutil.Color, len(a.Colors))
	for k, c := range a.Colors {
		colors[k] = c
	}
	a.Colors = colors
	return a
}

// Parse reads an appearance document. Missing fields keep their defaults.
func Parse(r io.Reader) (Appearance, error) {
	a := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&a); err != nil && err != io.EOF {
		return Appearance{}, fmt.Errorf("failed to parse appearance: %w", err)
	}
	a.Clamp()
	return a, nil
}

// Load reads an appearance file.
func Load(path string) (Appearance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Appearance{}, fmt.Errorf("failed to read appearance: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// LoadOrDefault reads path if it is set and exists, else returns defaults.
func LoadOrDefault(path string) (Appearance, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the appearance as YAML.
func (a Appearance) Save(path string) error {
	data, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode appearance: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
