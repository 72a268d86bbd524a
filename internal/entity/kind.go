package entity

// Kind identifies what an entity represents. Kinds are persisted by name, so
// names read from a file that this build does not know are kept verbatim.
type Kind string

// Point-like kinds (vias).
const (
	ViasConnect  Kind = "ViasConnect"
	ViasFloating Kind = "ViasFloating"
	ViasGround   Kind = "ViasGround"
	ViasInput    Kind = "ViasInput"
	ViasOutput   Kind = "ViasOutput"
	ViasInout    Kind = "ViasInout"
	ViasPower    Kind = "ViasPower"
)

// Segment-like kinds (wires).
const (
	WireGround       Kind = "WireGround"
	WirePower        Kind = "WirePower"
	WireInterconnect Kind = "WireInterconnect"
)

// Rectangle-like kinds (cells and units).
const (
	CellNot      Kind = "CellNot"
	CellBuffer   Kind = "CellBuffer"
	CellMux      Kind = "CellMux"
	CellLogic    Kind = "CellLogic"
	CellAdder    Kind = "CellAdder"
	CellBusSupp  Kind = "CellBusSupp"
	CellFlipFlop Kind = "CellFlipFlop"
	CellLatch    Kind = "CellLatch"
	UnitRegfile  Kind = "UnitRegfile"
	UnitMemory   Kind = "UnitMemory"
	UnitCustom   Kind = "UnitCustom"
)

// Family groups kinds by the shape they carry.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyVias
	FamilyWire
	FamilyCell
)

func (f Family) String() string {
	switch f {
	case FamilyVias:
		return "vias"
	case FamilyWire:
		return "wire"
	case FamilyCell:
		return "cell"
	default:
		return "unknown"
	}
}

var families = map[Kind]Family{
	ViasConnect:      FamilyVias,
	ViasFloating:     FamilyVias,
	ViasGround:       FamilyVias,
	ViasInput:        FamilyVias,
	ViasOutput:       FamilyVias,
	ViasInout:        FamilyVias,
	ViasPower:        FamilyVias,
	WireGround:       FamilyWire,
	WirePower:        FamilyWire,
	WireInterconnect: FamilyWire,
	CellNot:          FamilyCell,
	CellBuffer:       FamilyCell,
	CellMux:          FamilyCell,
	CellLogic:        FamilyCell,
	CellAdder:        FamilyCell,
	CellBusSupp:      FamilyCell,
	CellFlipFlop:     FamilyCell,
	CellLatch:        FamilyCell,
	UnitRegfile:      FamilyCell,
	UnitMemory:       FamilyCell,
	UnitCustom:       FamilyCell,
}

// Kinds lists every known kind, vias first, then wires, then cells.
var Kinds = []Kind{
	ViasConnect, ViasFloating, ViasGround, ViasInput, ViasOutput, ViasInout, ViasPower,
	WireGround, WirePower, WireInterconnect,
	CellNot, CellBuffer, CellMux, CellLogic, CellAdder, CellBusSupp, CellFlipFlop, CellLatch,
	UnitRegfile, UnitMemory, UnitCustom,
}

// Family classifies the kind. Unknown kinds report FamilyUnknown.
func (k Kind) Family() Family {
	return families[k]
}

// Known reports whether the kind is one this build defines.
func (k Kind) Known() bool {
	_, ok := families[k]
	return ok
}

// IsVias reports whether the kind is point-like.
func (k Kind) IsVias() bool { return k.Family() == FamilyVias }

// IsWire reports whether the kind is segment-like.
func (k Kind) IsWire() bool { return k.Family() == FamilyWire }

// IsCell reports whether the kind is rectangle-like.
func (k Kind) IsCell() bool { return k.Family() == FamilyCell }

// Align positions an entity label relative to its shape.
type Align int

const (
	AlignTop Align = iota
	AlignTopLeft
	AlignTopRight
	AlignBottom
	AlignBottomLeft
	AlignBottomRight
)

var alignNames = []string{"Top", "TopLeft", "TopRight", "Bottom", "BottomLeft", "BottomRight"}

func (a Align) String() string {
	if a < 0 || int(a) >= len(alignNames) {
		return "Top"
	}
	return alignNames[a]
}

// ParseAlign parses an alignment name as produced by String.
func ParseAlign(s string) (Align, bool) {
	for i, name := range alignNames {
		if name == s {
			return Align(i), true
		}
	}
	return AlignTop, false
}

// MarshalText implements encoding.TextMarshaler.
func (a Align) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names map to Top.
func (a *Align) UnmarshalText(text []byte) error {
	*a, _ = ParseAlign(string(text))
	return nil
}

// IsTop reports whether the label sits above the shape.
func (a Align) IsTop() bool {
	return a == AlignTop || a == AlignTopLeft || a == AlignTopRight
}
