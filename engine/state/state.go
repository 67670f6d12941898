// Package state manages the mutable world and the lookups every other
// engine package uses. Nothing here draws from the RNG.
package state

import (
	"fmt"

	"github.com/nathoo/replaycore/types"
)

const (
	initialHunger        = 900
	initialPrayerTimeout = 300
	firstAttrCheck       = 600
)

// TrackLen is how many hero positions the world remembers.
const TrackLen = 50

// NewWorld creates a world with a hero built from the character block.
// The world has no level until the harness asks a generator for one.
func NewWorld(ch types.Character) (*types.World, error) {
	role, ok := LookupRole(ch.Role)
	if !ok {
		return nil, fmt.Errorf("unknown role %q", ch.Role)
	}
	race := LookupRace(ch.Race)

	p := types.Player{
		Name:      ch.Name,
		Role:      role.Name,
		Race:      race.Name,
		Gender:    ch.Gender,
		Alignment: ch.Alignment,
		HP:        role.HP + race.HP,
		MaxHP:     role.HP + race.HP,
		Pw:        role.Pw + race.Pw,
		MaxPw:     role.Pw + race.Pw,
		AC:        role.AC,
		Level:     1,
		Attrs:     role.Attrs,
		Hunger:    initialHunger,

		PrayerTimeout: initialPrayerTimeout,
	}
	if p.Name == "" {
		p.Name = "Agent"
	}
	if p.Alignment == "" {
		p.Alignment = role.Alignment
	}
	p.HungerState = HungerBand(p.Hunger)

	w := &types.World{
		Player:        p,
		Levels:        map[int]*types.Level{},
		Turn:          1,
		NextAttrCheck: firstAttrCheck,
	}
	for _, it := range role.Kit {
		obj := it
		obj.Letter = NextLetter(&w.Player)
		AddInventory(w, &obj)
	}
	return w, nil
}

// NewLevel returns an all-stone level at the given depth.
func NewLevel(depth int) *types.Level {
	return &types.Level{Depth: depth}
}

// InBounds reports whether (x, y) is a valid map location. Column 0 is
// never part of the map.
func InBounds(x, y int) bool {
	return x >= 1 && x < types.MapCols && y >= 0 && y < types.MapRows
}

// CellAt returns the cell at (x, y), or nil when out of bounds.
func CellAt(l *types.Level, x, y int) *types.Cell {
	if l == nil || !InBounds(x, y) {
		return nil
	}
	return &l.Cells[y][x]
}

// Walkable reports whether a hero or monster can stand on (x, y).
func Walkable(l *types.Level, x, y int) bool {
	c := CellAt(l, x, y)
	if c == nil {
		return false
	}
	switch c.Typ {
	case types.Door:
		return c.Door&(types.DoorClosed|types.DoorLocked) == 0
	case types.Corr, types.RoomFloor, types.Stairs, types.Ladder, types.Fountain,
		types.Throne, types.Sink, types.Grave, types.Altar, types.Ice,
		types.DrawbridgeDown, types.Air, types.Cloud:
		return true
	default:
		return false
	}
}

// IsDoorway reports whether (x, y) holds an intact door, open or closed.
// Doorless and broken doorways do not count.
func IsDoorway(l *types.Level, x, y int) bool {
	c := CellAt(l, x, y)
	if c == nil || c.Typ != types.Door {
		return false
	}
	return c.Door&(types.DoorOpen|types.DoorClosed|types.DoorLocked) != 0
}

// CanStep reports whether a creature may move from one location to an
// adjacent one. Doorways cannot be entered or left diagonally.
func CanStep(l *types.Level, fromX, fromY, toX, toY int) bool {
	if !Walkable(l, toX, toY) {
		return false
	}
	if fromX != toX && fromY != toY {
		if IsDoorway(l, fromX, fromY) || IsDoorway(l, toX, toY) {
			return false
		}
	}
	return true
}

// CouldSee reports whether the hero has a line of sight to (x, y): the
// location is adjacent, or both share a lit room.
func CouldSee(w *types.World, x, y int) bool {
	p := w.Player
	if x == p.X && y == p.Y {
		return true
	}
	if Adjacent(x, y, p.X, p.Y) {
		return true
	}
	l := w.Level
	if l == nil {
		return false
	}
	ri := RoomAt(l, p.X, p.Y)
	if ri < 0 || !l.Rooms[ri].Lit {
		return false
	}
	return RoomAt(l, x, y) == ri
}

// MonsterAt returns the live monster at (x, y), if any.
func MonsterAt(l *types.Level, x, y int) *types.Monster {
	if l == nil {
		return nil
	}
	for _, m := range l.Monsters {
		if !m.Dead && m.X == x && m.Y == y {
			return m
		}
	}
	return nil
}

// ObjectsAt returns every ground object at (x, y). Several objects may share a cell.
func ObjectsAt(l *types.Level, x, y int) []*types.Object {
	var out []*types.Object
	for _, o := range l.Objects {
		if o.X == x && o.Y == y {
			out = append(out, o)
		}
	}
	return out
}

// EngravingAt returns the index of the engraving at (x, y), or -1.
func EngravingAt(l *types.Level, x, y int) int {
	for i, e := range l.Engravings {
		if e.X == x && e.Y == y {
			return i
		}
	}
	return -1
}

// RoomAt returns the index of the room containing (x, y), walls included, or -1.
func RoomAt(l *types.Level, x, y int) int {
	for i, r := range l.Rooms {
		if x >= r.LX-1 && x <= r.HX+1 && y >= r.LY-1 && y <= r.HY+1 {
			return i
		}
	}
	return -1
}

// PruneDead removes dead monsters. Called only at the start of a movement
// pass, never in the middle of one.
func PruneDead(l *types.Level) {
	live := l.Monsters[:0]
	for _, m := range l.Monsters {
		if !m.Dead {
			live = append(live, m)
		}
	}
	for i := len(live); i < len(l.Monsters); i++ {
		l.Monsters[i] = nil
	}
	l.Monsters = live
}

// AddMonster places a monster on the current level and assigns it an ID.
func AddMonster(w *types.World, m *types.Monster) {
	w.NextID++
	m.ID = w.NextID
	w.Level.Monsters = append(w.Level.Monsters, m)
}

// Adopt assigns world IDs to everything a generator placed on a level.
func Adopt(w *types.World, l *types.Level) {
	for _, m := range l.Monsters {
		w.NextID++
		m.ID = w.NextID
	}
	for _, o := range l.Objects {
		w.NextID++
		o.ID = w.NextID
	}
}

// AddObject places an object on the ground of the current level.
func AddObject(w *types.World, o *types.Object) {
	w.NextID++
	o.ID = w.NextID
	o.Letter = 0
	w.Level.Objects = append(w.Level.Objects, o)
}

// RemoveObject takes an object off the ground of a level.
func RemoveObject(l *types.Level, o *types.Object) {
	for i, it := range l.Objects {
		if it == o {
			l.Objects = append(l.Objects[:i], l.Objects[i+1:]...)
			return
		}
	}
}

// AddInventory gives the hero an object.
func AddInventory(w *types.World, o *types.Object) {
	if o.ID == 0 {
		w.NextID++
		o.ID = w.NextID
	}
	if o.Letter == 0 {
		o.Letter = NextLetter(&w.Player)
	}
	w.Player.Inventory = append(w.Player.Inventory, o)
}

// RemoveInventory takes an object out of the hero's inventory.
func RemoveInventory(p *types.Player, o *types.Object) {
	for i, it := range p.Inventory {
		if it == o {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return
		}
	}
}

// InventoryItem returns the inventory object with the given letter.
func InventoryItem(p *types.Player, letter byte) *types.Object {
	for _, o := range p.Inventory {
		if o.Letter == letter {
			return o
		}
	}
	return nil
}

// NextLetter returns the first unused inventory letter, or 0 when full.
func NextLetter(p *types.Player) byte {
	used := map[byte]bool{}
	for _, o := range p.Inventory {
		used[o.Letter] = true
	}
	for _, c := range []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		if !used[c] {
			return c
		}
	}
	return 0
}

// HungerBand maps a nutrition counter to its hunger state.
func HungerBand(hunger int) types.HungerState {
	switch {
	case hunger > 1000:
		return types.Satiated
	case hunger > 150:
		return types.NotHungry
	case hunger > 50:
		return types.Hungry
	case hunger > 0:
		return types.Weak
	default:
		return types.Fainting
	}
}

// Adjacent reports whether two distinct locations touch, diagonals included.
func Adjacent(x1, y1, x2, y2 int) bool {
	dx, dy := x1-x2, y1-y2
	if dx == 0 && dy == 0 {
		return false
	}
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}

// HostileAdjacent reports whether any live hostile monster touches the hero.
func HostileAdjacent(w *types.World) bool {
	if w.Level == nil {
		return false
	}
	for _, m := range w.Level.Monsters {
		if !m.Dead && !m.Peaceful && Adjacent(m.X, m.Y, w.Player.X, w.Player.Y) {
			return true
		}
	}
	return false
}

// TerrainGrid projects the level onto its terrain-type grid.
func TerrainGrid(l *types.Level) [][]int {
	g := make([][]int, types.MapRows)
	for y := range g {
		g[y] = make([]int, types.MapCols)
		if l == nil {
			continue
		}
		for x := 0; x < types.MapCols; x++ {
			g[y][x] = int(l.Cells[y][x].Typ)
		}
	}
	return g
}

// SetTrack records the hero's current position.
func SetTrack(w *types.World) {
	w.Track = append(w.Track, types.Coord{X: w.Player.X, Y: w.Player.Y})
	if len(w.Track) > TrackLen {
		w.Track = w.Track[len(w.Track)-TrackLen:]
	}
}

// GetTrack returns the most recent tracked position adjacent to (x, y).
func GetTrack(w *types.World, x, y int) (types.Coord, bool) {
	for i := len(w.Track) - 1; i >= 0; i-- {
		c := w.Track[i]
		if Adjacent(c.X, c.Y, x, y) {
			return c, true
		}
	}
	return types.Coord{}, false
}

// Distance2 is the squared euclidean distance between two locations.
func Distance2(x1, y1, x2, y2 int) int {
	dx, dy := x1-x2, y1-y2
	return dx*dx + dy*dy
}
