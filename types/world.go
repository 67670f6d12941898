package types

// Terrain is the canonical per-cell terrain type used in grids.
type Terrain int

const (
	Stone Terrain = iota
	VWall
	HWall
	TLCorner
	TRCorner
	BLCorner
	BRCorner
	CrossWall
	TUWall
	TDWall
	TLWall
	TRWall
	DBWall
	Tree
	SDoor
	SCorr
	Pool
	Moat
	Water
	DrawbridgeUp
	LavaPool
	IronBars
	Door
	Corr
	RoomFloor
	Stairs
	Ladder
	Fountain
	Throne
	Sink
	Grave
	Altar
	Ice
	DrawbridgeDown
	Air
	Cloud

	MaxTerrain = Cloud
)

// DoorState holds door feature flags.
type DoorState uint8

const (
	DoorNone   DoorState = 0
	DoorBroken DoorState = 1 << 0
	DoorOpen   DoorState = 1 << 1
	DoorClosed DoorState = 1 << 2
	DoorLocked DoorState = 1 << 3
)

// Cell is one map location.
type Cell struct {
	Typ        Terrain
	Seen       uint8 // seen-from bitmask; non-zero means the hero has seen it
	Lit        bool
	Door       DoorState
	StairsUp   bool // only meaningful for Stairs
	Remembered rune // remembered object glyph, 0 for none
}

// Coord is an integer grid coordinate. X is the column, Y the row.
type Coord struct {
	X, Y int
}

// Room is an axis-aligned rectangle of floor bounded by walls at LX-1..HX+1.
type Room struct {
	LX, LY, HX, HY int
	Lit            bool
	Kind           string // "", "fountain", "zoo", "temple", ...
}

// Monster is a live (or freshly killed) monster on a level.
type Monster struct {
	ID        int
	Name      string
	Symbol    rune
	X, Y      int
	HP, MaxHP int
	Level     int
	Speed     int
	Movement  int
	AttackN   int // damage dice count
	AttackD   int // damage dice sides
	Flee      bool
	FleeTimer int
	Peaceful  bool
	Dead      bool
}

// Object is a ground object or an inventory item.
type Object struct {
	ID        int
	Name      string
	Symbol    rune
	Letter    byte // inventory letter, 0 on the ground
	X, Y      int
	Quantity  int
	Nutrition int
	Delay     int // turns to eat
	Edible    bool
}

// Engraving is text written on the floor.
type Engraving struct {
	X, Y int
	Text string
}

// Attribute indexes into Player.Attrs.
type Attribute int

const (
	AStr Attribute = iota
	AInt
	AWis
	ADex
	ACon
	ACha

	NumAttrs = 6
)

// HungerState is the hero's hunger band.
type HungerState int

const (
	Satiated HungerState = iota
	NotHungry
	Hungry
	Weak
	Fainting
)

// Player is the hero record.
type Player struct {
	Name      string
	Role      string
	Race      string
	Gender    string
	Alignment string

	X, Y         int
	PrevX, PrevY int

	HP, MaxHP int
	Pw, MaxPw int
	AC        int
	Level     int
	Exp       int
	Gold      int
	Luck      int

	Attrs    [NumAttrs]int
	Exercise [NumAttrs]int

	Hunger      int
	HungerState HungerState
	WoundedLegs int // turns remaining
	Inventory   []*Object

	PrayerTimeout int
}

// LevelFlags holds per-level ambiance and spawn flags.
type LevelFlags struct {
	NoMonsters bool
	Fountains  int
	Sinks      int
	Court      bool
	Swamp      bool
	Vault      bool
	Beehive    bool
	Morgue     bool
	Zoo        bool
	Barracks   bool
	Temple     bool
	Shop       bool
	Oracle     bool
}

// Level is one dungeon level.
type Level struct {
	Depth      int
	Cells      [MapRows][MapCols]Cell
	Rooms      []Room
	Monsters   []*Monster
	Objects    []*Object
	Engravings []Engraving
	Flags      LevelFlags
	UpStairs   *Coord
	DownStairs *Coord
}

// World is the complete mutable simulation state.
type World struct {
	Level    *Level
	Levels   map[int]*Level
	Player   Player
	Turn     int
	SeerTurn int
	Messages []string
	NextID   int

	// Track holds recent hero positions, newest last, for monsters that
	// have lost sight of the hero.
	Track []Coord

	// NextAttrCheck is the turn on which accumulated exercise is next applied.
	NextAttrCheck int
}
