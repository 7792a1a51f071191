// Package cell defines the per-cell data model and static per-kind property
// tables shared by the grid, aging, lighting, and collision packages.
package cell

// Kind is the variant tag of a grid cell.
type Kind uint8

const (
	Air Kind = iota
	Water
	Sand
	Dirt
	Vegetation
	Stone
	Rock
	Gravel
	Wood
	Metal
	Bone
	Rope
	Diamond

	numKinds
)

// String returns the display name of a kind.
func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

var kindNames = [numKinds]string{
	Air:        "Air",
	Water:      "Water",
	Sand:       "Sand",
	Dirt:       "Dirt",
	Vegetation: "Vegetation",
	Stone:      "Stone",
	Rock:       "Rock",
	Gravel:     "Gravel",
	Wood:       "Wood",
	Metal:      "Metal",
	Bone:       "Bone",
	Rope:       "Rope",
	Diamond:    "Diamond",
}

// Color is a plain RGBA color, kept dependency-free since the core never
// imports a rendering package (§1: pixel rendering is out of scope).
type Color struct {
	R, G, B, A uint8
}

// Properties holds static, per-kind data resolved by table lookup rather
// than stored per-cell (§3).
type Properties struct {
	MaxHP                    int32
	Color                    Color
	Translucency             float32 // 0=opaque, 1=fully transparent
	SolidForPhysics          bool
	SolidForPlacementSupport bool
	IsRope                   bool
	IsVegetation             bool
	IsWood                   bool
	DroppedItem              string // "" if nothing drops
	PlaceableByPlayer        bool
}

// table is indexed by Kind. Air and Water are present with zero-ish
// properties but are never damaged (see Cell.Indestructible).
var table = [numKinds]Properties{
	Air: {
		Translucency: 1.0,
	},
	Water: {
		Translucency: 0.6,
	},
	Sand: {
		MaxHP: 20, Color: Color{0xd8, 0xc0, 0x7a, 0xff},
		SolidForPhysics: true, SolidForPlacementSupport: true,
		DroppedItem: "sand", PlaceableByPlayer: true,
	},
	Dirt: {
		MaxHP: 30, Color: Color{0x6b, 0x47, 0x2b, 0xff},
		SolidForPhysics: true, SolidForPlacementSupport: true,
		DroppedItem: "dirt", PlaceableByPlayer: true,
	},
	Vegetation: {
		MaxHP: 10, Color: Color{0x3c, 0x8c, 0x2a, 0xff},
		IsVegetation: true, SolidForPlacementSupport: false,
		DroppedItem: "fiber", PlaceableByPlayer: false,
	},
	Stone: {
		MaxHP: 60, Color: Color{0x8a, 0x8a, 0x8a, 0xff},
		SolidForPhysics: true, SolidForPlacementSupport: true,
		DroppedItem: "stone", PlaceableByPlayer: true,
	},
	Rock: {
		MaxHP: 120, Color: Color{0x4a, 0x4a, 0x4a, 0xff},
		SolidForPhysics: true, SolidForPlacementSupport: true,
		DroppedItem: "rock", PlaceableByPlayer: true,
	},
	Gravel: {
		MaxHP: 15, Color: Color{0xb0, 0xa8, 0x9c, 0xff},
		SolidForPhysics: true, SolidForPlacementSupport: true,
		DroppedItem: "gravel", PlaceableByPlayer: true,
	},
	Wood: {
		MaxHP: 40, Color: Color{0x7a, 0x52, 0x2c, 0xff},
		IsWood: true, SolidForPlacementSupport: true,
		DroppedItem: "wood", PlaceableByPlayer: true,
		// SolidForPhysics is conditional on player_placed; resolved in
		// SolidForPhysics(cell), not read from this table directly.
	},
	Metal: {
		MaxHP: 200, Color: Color{0xb8, 0xb8, 0xc0, 0xff},
		SolidForPhysics: true, SolidForPlacementSupport: true,
		DroppedItem: "metal", PlaceableByPlayer: true,
	},
	Bone: {
		MaxHP: 25, Color: Color{0xe8, 0xe0, 0xd0, 0xff},
		SolidForPhysics: true, SolidForPlacementSupport: true,
		DroppedItem: "bone", PlaceableByPlayer: false,
	},
	Rope: {
		MaxHP: 5, Color: Color{0x9a, 0x7a, 0x4a, 0xff},
		IsRope: true, SolidForPlacementSupport: false,
		DroppedItem: "rope", PlaceableByPlayer: true,
	},
	Diamond: {
		MaxHP: 300, Color: Color{0xb0, 0xf0, 0xf8, 0xff},
		SolidForPhysics: true, SolidForPlacementSupport: true,
		DroppedItem: "diamond", PlaceableByPlayer: false,
	},
}

// PropertiesFor returns the static property table entry for a kind.
// Unknown kinds fall back to Air's properties (treated as a no-op).
func PropertiesFor(k Kind) Properties {
	if int(k) >= len(table) {
		return table[Air]
	}
	return table[k]
}

// Cell is one grid unit: a variant tag plus the small amount of per-instance
// state that Material cells carry (§3).
type Cell struct {
	Kind         Kind
	HP           int32
	MaxHP        int32
	PlayerPlaced bool
	LightLevel   float32
	Lit          bool
}

// NewAir returns the zero-value Air cell.
func NewAir() Cell { return Cell{Kind: Air} }

// NewWater returns the zero-value Water cell.
func NewWater() Cell { return Cell{Kind: Water} }

// NewMaterial returns a freshly constructed Material cell at full HP.
func NewMaterial(k Kind, playerPlaced bool) Cell {
	props := PropertiesFor(k)
	return Cell{
		Kind:         k,
		HP:           props.MaxHP,
		MaxHP:        props.MaxHP,
		PlayerPlaced: playerPlaced,
	}
}

// Indestructible reports whether the cell can never be damaged (§3:
// Air and Water are conceptually hp = +Inf).
func (c Cell) Indestructible() bool {
	return c.Kind == Air || c.Kind == Water
}

// Dead reports whether a damageable cell has reached hp <= 0.
func (c Cell) Dead() bool {
	return !c.Indestructible() && c.HP <= 0
}

// SolidForPhysics resolves the per-kind solidity predicate, honoring Wood's
// conditional rule: solid only when player_placed (§3).
func SolidForPhysics(c Cell) bool {
	props := PropertiesFor(c.Kind)
	if c.Kind == Wood {
		return c.PlayerPlaced
	}
	return props.SolidForPhysics
}

// DroppedItem returns the item kind name emitted when this cell is
// destroyed, or "" if nothing drops.
func DroppedItem(c Cell) string {
	return PropertiesFor(c.Kind).DroppedItem
}
