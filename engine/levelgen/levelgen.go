// Package levelgen builds dungeon levels. The harness depends only on the
// Generator interface; Default is the built-in room-and-corridor builder
// and the loader package supplies scripted ones.
package levelgen

import (
	"sort"

	"github.com/nathoo/replaycore/engine/monsters"
	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

// Generator produces the level at a depth, drawing only from r.
type Generator interface {
	Generate(r *rng.RNG, depth int) (*types.Level, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(r *rng.RNG, depth int) (*types.Level, error)

// Generate calls f.
func (f GeneratorFunc) Generate(r *rng.RNG, depth int) (*types.Level, error) {
	return f(r, depth)
}

const (
	maxRooms    = 9
	roomTries   = 40
	fountainOdd = 10
)

// Default is the built-in level builder.
type Default struct{}

// Generate builds a level of up to nine rectangular rooms joined by corridors,
// with stairs, fountains, gold, objects, monsters and the odd engraving.
func (Default) Generate(r *rng.RNG, depth int) (*types.Level, error) {
	l := state.NewLevel(depth)
	// 1. Rooms.
	rooms := makeRooms(r, depth)
	sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].LX < rooms[j].LX })
	for _, rm := range rooms {
		DigRoom(l, rm)
	}
	l.Rooms = rooms

	// 2. Corridors.
	for i := 0; i+1 < len(rooms); i++ {
		join(l, r, i, i+1)
	}
	for i := 0; i+2 < len(rooms); i += 2 {
		if r.Rn2(2) == 0 {
			join(l, r, i, i+2)
		}
	}

	// 3. Stairs.
	upRoom := -1
	if len(rooms) > 0 {
		down := r.Rn2(len(rooms))
		x, y := somexy(r, rooms[down])
		placeStairs(l, x, y, false)
		upRoom = down
		if len(rooms) > 1 {
			upRoom = r.Rn2(len(rooms) - 1)
			if upRoom == down {
				upRoom++
			}
		}
		x, y = somexy(r, rooms[upRoom])
		if l.Cells[y][x].Typ == types.RoomFloor {
			placeStairs(l, x, y, true)
		}
	}

	// 4. Room contents.
	for i, rm := range rooms {
		fill(l, r, depth, rm, i == upRoom)
	}
	return l, nil
}

func makeRooms(r *rng.RNG, depth int) []types.Room {
	var rooms []types.Room
	for tries := 0; tries < roomTries && len(rooms) < maxRooms; tries++ {
		w := r.Rn1(10, 3)
		h := r.Rn1(4, 2)
		lx := r.Rn1(types.MapCols-w-6, 3)
		ly := r.Rn1(types.MapRows-h-4, 2)
		rm := types.Room{LX: lx, LY: ly, HX: lx + w - 1, HY: ly + h - 1}
		if overlaps(rm, rooms) {
			continue
		}
		rm.Lit = r.Rnd(1+abs(depth)) < 11 && r.Rn2(77) != 0
		rooms = append(rooms, rm)
	}
	return rooms
}

// overlaps reports whether rm, walls and a one-square margin included,
// touches any existing room.
func overlaps(rm types.Room, rooms []types.Room) bool {
	for _, o := range rooms {
		if rm.LX-2 <= o.HX+2 && o.LX-2 <= rm.HX+2 && rm.LY-2 <= o.HY+2 && o.LY-2 <= rm.HY+2 {
			return true
		}
	}
	return false
}

// DigRoom carves a room's floor and surrounds it with walls.
func DigRoom(l *types.Level, rm types.Room) {
	for y := rm.LY - 1; y <= rm.HY+1; y++ {
		for x := rm.LX - 1; x <= rm.HX+1; x++ {
			c := &l.Cells[y][x]
			c.Lit = rm.Lit
			switch {
			case x == rm.LX-1 && y == rm.LY-1:
				c.Typ = types.TLCorner
			case x == rm.HX+1 && y == rm.LY-1:
				c.Typ = types.TRCorner
			case x == rm.LX-1 && y == rm.HY+1:
				c.Typ = types.BLCorner
			case x == rm.HX+1 && y == rm.HY+1:
				c.Typ = types.BRCorner
			case y == rm.LY-1 || y == rm.HY+1:
				c.Typ = types.HWall
			case x == rm.LX-1 || x == rm.HX+1:
				c.Typ = types.VWall
			default:
				c.Typ = types.RoomFloor
			}
		}
	}
}

// join connects room a to room b with a door in each and a corridor between.
func join(l *types.Level, r *rng.RNG, ai, bi int) {
	a, b := l.Rooms[ai], l.Rooms[bi]
	var da, db, oa, ob types.Coord // doors and the squares just outside them
	switch {
	case b.LX > a.HX:
		da = types.Coord{X: a.HX + 1, Y: r.Rn1(a.HY-a.LY+1, a.LY)}
		db = types.Coord{X: b.LX - 1, Y: r.Rn1(b.HY-b.LY+1, b.LY)}
		oa, ob = types.Coord{X: da.X + 1, Y: da.Y}, types.Coord{X: db.X - 1, Y: db.Y}
	case b.HY < a.LY:
		da = types.Coord{X: r.Rn1(a.HX-a.LX+1, a.LX), Y: a.LY - 1}
		db = types.Coord{X: r.Rn1(b.HX-b.LX+1, b.LX), Y: b.HY + 1}
		oa, ob = types.Coord{X: da.X, Y: da.Y - 1}, types.Coord{X: db.X, Y: db.Y + 1}
	case b.LY > a.HY:
		da = types.Coord{X: r.Rn1(a.HX-a.LX+1, a.LX), Y: a.HY + 1}
		db = types.Coord{X: r.Rn1(b.HX-b.LX+1, b.LX), Y: b.LY - 1}
		oa, ob = types.Coord{X: da.X, Y: da.Y + 1}, types.Coord{X: db.X, Y: db.Y - 1}
	default:
		da = types.Coord{X: a.LX - 1, Y: r.Rn1(a.HY-a.LY+1, a.LY)}
		db = types.Coord{X: b.HX + 1, Y: r.Rn1(b.HY-b.LY+1, b.LY)}
		oa, ob = types.Coord{X: da.X - 1, Y: da.Y}, types.Coord{X: db.X + 1, Y: db.Y}
	}
	if !Dig(l, oa, ob) {
		return
	}
	door(l, r, da)
	door(l, r, db)
}

// Dig carves the shortest orthogonal corridor through rock between two
// squares. Neighbors are expanded in a fixed order so the path is stable.
func Dig(l *types.Level, from, to types.Coord) bool {
	if !diggable(l, from.X, from.Y) || !diggable(l, to.X, to.Y) {
		return false
	}
	var prev [types.MapRows][types.MapCols]types.Coord
	var seen [types.MapRows][types.MapCols]bool
	queue := []types.Coord{from}
	seen[from.Y][from.X] = true
	steps := [4]types.Coord{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}
	found := false
	for len(queue) > 0 && !found {
		c := queue[0]
		queue = queue[1:]
		for _, d := range steps {
			n := types.Coord{X: c.X + d.X, Y: c.Y + d.Y}
			if !diggable(l, n.X, n.Y) || seen[n.Y][n.X] {
				continue
			}
			seen[n.Y][n.X] = true
			prev[n.Y][n.X] = c
			if n == to {
				found = true
				break
			}
			queue = append(queue, n)
		}
	}
	if !found && from != to {
		return false
	}
	for c := to; c != from; c = prev[c.Y][c.X] {
		l.Cells[c.Y][c.X].Typ = types.Corr
	}
	l.Cells[from.Y][from.X].Typ = types.Corr
	return true
}

func diggable(l *types.Level, x, y int) bool {
	if x < 1 || x >= types.MapCols-1 || y < 1 || y >= types.MapRows-1 {
		return false
	}
	t := l.Cells[y][x].Typ
	return t == types.Stone || t == types.Corr
}

// door turns a wall square into a door. One in eight is secret; a third of
// the rest have a door, open, locked or closed, and the others are empty doorways.
func door(l *types.Level, r *rng.RNG, at types.Coord) {
	c := &l.Cells[at.Y][at.X]
	if c.Typ == types.Door || c.Typ == types.SDoor {
		return
	}
	if r.Rn2(8) == 0 {
		c.Typ = types.SDoor
		c.Door = types.DoorClosed
		return
	}
	c.Typ = types.Door
	c.Door = types.DoorNone
	if r.Rn2(3) == 0 {
		switch {
		case r.Rn2(5) == 0:
			c.Door = types.DoorOpen
		case r.Rn2(6) == 0:
			c.Door = types.DoorLocked
		default:
			c.Door = types.DoorClosed
		}
	}
}

func somexy(r *rng.RNG, rm types.Room) (int, int) {
	x := r.Rn1(rm.HX-rm.LX+1, rm.LX)
	y := r.Rn1(rm.HY-rm.LY+1, rm.LY)
	return x, y
}

func placeStairs(l *types.Level, x, y int, up bool) {
	c := &l.Cells[y][x]
	c.Typ = types.Stairs
	c.StairsUp = up
	pos := &types.Coord{X: x, Y: y}
	if up {
		l.UpStairs = pos
	} else {
		l.DownStairs = pos
	}
}

var randomObjects = []types.Object{
	{Name: "food ration", Symbol: '%', Quantity: 1, Nutrition: 800, Delay: 5, Edible: true},
	{Name: "apple", Symbol: '%', Quantity: 1, Nutrition: 50, Delay: 1, Edible: true},
	{Name: "tripe ration", Symbol: '%', Quantity: 1, Nutrition: 200, Delay: 3, Edible: true},
	{Name: "dagger", Symbol: ')', Quantity: 1},
	{Name: "arrow", Symbol: ')', Quantity: 1},
	{Name: "leather armor", Symbol: '[', Quantity: 1},
	{Name: "scroll of identify", Symbol: '?', Quantity: 1},
	{Name: "potion of water", Symbol: '!', Quantity: 1},
	{Name: "candle", Symbol: '(', Quantity: 1},
}

var engravings = []string{
	"Elbereth",
	"ad aerarium",
	"Vlad was here",
	"X marks the spot",
	"They say that shopkeepers never sleep.",
}

// fill stocks one room. Objects and monsters get IDs when the level is
// adopted into a world.
func fill(l *types.Level, r *rng.RNG, depth int, rm types.Room, upRoom bool) {
	floor := func(x, y int) bool {
		return l.Cells[y][x].Typ == types.RoomFloor
	}

	if r.Rn2(3) == 0 {
		sp := monsters.Pick(r, depth)
		x, y := somexy(r, rm)
		if !upRoom && floor(x, y) && state.MonsterAt(l, x, y) == nil {
			l.Monsters = append(l.Monsters, monsters.New(r, sp, x, y))
		}
	}
	if r.Rn2(len(l.Rooms)*5/2+1) == 0 {
		amount := 1 + r.Rnd(depth+2)*r.Rnd(30)
		x, y := somexy(r, rm)
		if floor(x, y) {
			l.Objects = append(l.Objects, &types.Object{Name: "gold piece", Symbol: '$', X: x, Y: y, Quantity: amount})
		}
	}
	if r.Rn2(fountainOdd) == 0 {
		x, y := somexy(r, rm)
		if floor(x, y) {
			l.Cells[y][x].Typ = types.Fountain
			l.Flags.Fountains++
		}
	}
	if r.Rn2(60) == 0 {
		x, y := somexy(r, rm)
		if floor(x, y) {
			l.Cells[y][x].Typ = types.Sink
			l.Flags.Sinks++
		}
	}
	if r.Rn2(27+3*abs(depth)) == 0 {
		text := engravings[r.Rn2(len(engravings))]
		x, y := somexy(r, rm)
		if floor(x, y) && state.EngravingAt(l, x, y) < 0 {
			l.Engravings = append(l.Engravings, types.Engraving{X: x, Y: y, Text: text})
		}
	}
	if r.Rn2(3) == 0 {
		obj := randomObjects[r.Rn2(len(randomObjects))]
		x, y := somexy(r, rm)
		if floor(x, y) {
			obj.X, obj.Y = x, y
			l.Objects = append(l.Objects, &obj)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
