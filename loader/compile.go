package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/replaycore/engine/levelgen"
	"github.com/nathoo/replaycore/engine/monsters"
	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
	lua "github.com/yuin/gopher-lua"
)

// featureKind orders compilation: terrain before the things placed on it.
type featureKind int

const (
	featFlags featureKind = iota
	featRoom
	featCorridor
	featDoor
	featStairs
	featFountain
	featSink
	featMonster
	featObject
	featGold
	featEngraving
)

// rawFeature holds one constructor call before compilation.
type rawFeature struct {
	kind  featureKind
	name  string
	table *lua.LTable
	where string
	order int
}

// collector accumulates constructor calls during script execution.
type collector struct {
	features []rawFeature
}

func (c *collector) add(kind featureKind, name string, tbl *lua.LTable, where string) {
	c.features = append(c.features, rawFeature{kind: kind, name: name, table: tbl, where: where, order: len(c.features)})
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an int field from a Lua table, or def if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getCoord reads x and y fields, or a {x=, y=} subtable when key is set.
func getCoord(tbl *lua.LTable, key string) (types.Coord, bool) {
	if key != "" {
		tbl = getTable(tbl, key)
		if tbl == nil {
			return types.Coord{}, false
		}
	}
	if tbl.RawGetString("x") == lua.LNil || tbl.RawGetString("y") == lua.LNil {
		return types.Coord{}, false
	}
	return types.Coord{X: getInt(tbl, "x", 0), Y: getInt(tbl, "y", 0)}, true
}

// compile builds the level the collected features describe. Monster hit
// points are drawn here, in source order, after the script's own draws.
func compile(coll *collector, r *rng.RNG, depth int) (*types.Level, *ValidationError) {
	l := state.NewLevel(depth)
	ve := &ValidationError{}

	features := append([]rawFeature(nil), coll.features...)
	sort.SliceStable(features, func(i, j int) bool { return features[i].kind < features[j].kind })

	for _, f := range features {
		if err := compileFeature(l, r, f); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s%s: %v", f.where, f.name, err))
		}
	}
	return l, ve
}

func compileFeature(l *types.Level, r *rng.RNG, f rawFeature) error {
	tbl := f.table
	if f.kind == featFlags {
		compileFlags(&l.Flags, tbl)
		return nil
	}
	if f.kind == featCorridor {
		return compileCorridor(l, tbl)
	}

	at, ok := getCoord(tbl, "")
	if !ok {
		return fmt.Errorf("x and y are required")
	}
	if !state.InBounds(at.X, at.Y) {
		return fmt.Errorf("(%d,%d) is off the map", at.X, at.Y)
	}

	switch f.kind {
	case featRoom:
		return compileRoom(l, tbl, at)
	case featDoor:
		return compileDoor(l, tbl, at)
	case featStairs:
		return compileStairs(l, tbl, at)
	case featFountain:
		l.Cells[at.Y][at.X].Typ = types.Fountain
		l.Flags.Fountains++
	case featSink:
		l.Cells[at.Y][at.X].Typ = types.Sink
		l.Flags.Sinks++
	case featMonster:
		return compileMonster(l, r, tbl, at)
	case featObject:
		return compileObject(l, tbl, at)
	case featGold:
		amount := getInt(tbl, "amount", 0)
		if amount <= 0 {
			return fmt.Errorf("amount must be positive")
		}
		l.Objects = append(l.Objects, &types.Object{Name: "gold piece", Symbol: '$', X: at.X, Y: at.Y, Quantity: amount})
	case featEngraving:
		text := getString(tbl, "text")
		if text == "" {
			return fmt.Errorf("text is required")
		}
		l.Engravings = append(l.Engravings, types.Engraving{X: at.X, Y: at.Y, Text: text})
	}
	return nil
}

var roomKindFlags = map[string]func(*types.LevelFlags){
	"":         func(*types.LevelFlags) {},
	"ordinary": func(*types.LevelFlags) {},
	"court":    func(f *types.LevelFlags) { f.Court = true },
	"swamp":    func(f *types.LevelFlags) { f.Swamp = true },
	"vault":    func(f *types.LevelFlags) { f.Vault = true },
	"beehive":  func(f *types.LevelFlags) { f.Beehive = true },
	"morgue":   func(f *types.LevelFlags) { f.Morgue = true },
	"zoo":      func(f *types.LevelFlags) { f.Zoo = true },
	"barracks": func(f *types.LevelFlags) { f.Barracks = true },
	"temple":   func(f *types.LevelFlags) { f.Temple = true },
	"shop":     func(f *types.LevelFlags) { f.Shop = true },
	"oracle":   func(f *types.LevelFlags) { f.Oracle = true },
}

func compileRoom(l *types.Level, tbl *lua.LTable, at types.Coord) error {
	w, h := getInt(tbl, "w", 0), getInt(tbl, "h", 0)
	if w < 1 || h < 1 {
		return fmt.Errorf("w and h must be positive")
	}
	rm := types.Room{
		LX: at.X, LY: at.Y, HX: at.X + w - 1, HY: at.Y + h - 1,
		Lit:  getBool(tbl, "lit", true),
		Kind: strings.ToLower(getString(tbl, "kind")),
	}
	if rm.LX < 1 || rm.LY < 1 || rm.HX > types.MapCols-2 || rm.HY > types.MapRows-2 {
		return fmt.Errorf("room (%d,%d)-(%d,%d) leaves no room for walls", rm.LX, rm.LY, rm.HX, rm.HY)
	}
	setFlag, ok := roomKindFlags[rm.Kind]
	if !ok {
		return fmt.Errorf("unknown room kind %q", rm.Kind)
	}
	setFlag(&l.Flags)
	levelgen.DigRoom(l, rm)
	l.Rooms = append(l.Rooms, rm)
	return nil
}

func compileCorridor(l *types.Level, tbl *lua.LTable) error {
	from, ok1 := getCoord(tbl, "from")
	to, ok2 := getCoord(tbl, "to")
	if !ok1 || !ok2 {
		return fmt.Errorf("from and to are required")
	}
	if !levelgen.Dig(l, from, to) {
		return fmt.Errorf("no corridor from (%d,%d) to (%d,%d)", from.X, from.Y, to.X, to.Y)
	}
	return nil
}

var doorStates = map[string]types.DoorState{
	"":       types.DoorClosed,
	"closed": types.DoorClosed,
	"open":   types.DoorOpen,
	"locked": types.DoorLocked,
	"broken": types.DoorBroken,
	"none":   types.DoorNone,
	"secret": types.DoorClosed,
}

func compileDoor(l *types.Level, tbl *lua.LTable, at types.Coord) error {
	name := strings.ToLower(getString(tbl, "state"))
	ds, ok := doorStates[name]
	if !ok {
		return fmt.Errorf("unknown door state %q", name)
	}
	c := &l.Cells[at.Y][at.X]
	c.Typ = types.Door
	if name == "secret" {
		c.Typ = types.SDoor
	}
	c.Door = ds
	return nil
}

func compileStairs(l *types.Level, tbl *lua.LTable, at types.Coord) error {
	up := getBool(tbl, "up", false)
	if up && l.UpStairs != nil || !up && l.DownStairs != nil {
		return fmt.Errorf("level already has %s stairs", stairsWord(up))
	}
	c := &l.Cells[at.Y][at.X]
	c.Typ = types.Stairs
	c.StairsUp = up
	coord := at
	if up {
		l.UpStairs = &coord
	} else {
		l.DownStairs = &coord
	}
	return nil
}

func stairsWord(up bool) string {
	if up {
		return "up"
	}
	return "down"
}

func compileMonster(l *types.Level, r *rng.RNG, tbl *lua.LTable, at types.Coord) error {
	name := getString(tbl, "name")
	sp, ok := monsters.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown monster %q", name)
	}
	if !state.Walkable(l, at.X, at.Y) {
		return fmt.Errorf("%s at (%d,%d) is not on open ground", name, at.X, at.Y)
	}
	if state.MonsterAt(l, at.X, at.Y) != nil {
		return fmt.Errorf("(%d,%d) is already occupied", at.X, at.Y)
	}
	m := monsters.New(r, sp, at.X, at.Y)
	m.Peaceful = getBool(tbl, "peaceful", false)
	l.Monsters = append(l.Monsters, m)
	return nil
}

func compileObject(l *types.Level, tbl *lua.LTable, at types.Coord) error {
	name := getString(tbl, "name")
	if name == "" {
		return fmt.Errorf("name is required")
	}
	sym := getString(tbl, "symbol")
	if len(sym) != 1 {
		return fmt.Errorf("symbol must be one character, got %q", sym)
	}
	o := &types.Object{
		Name:      name,
		Symbol:    rune(sym[0]),
		X:         at.X,
		Y:         at.Y,
		Quantity:  getInt(tbl, "quantity", 1),
		Nutrition: getInt(tbl, "nutrition", 0),
		Delay:     getInt(tbl, "delay", 1),
	}
	o.Edible = getBool(tbl, "edible", o.Symbol == '%')
	if o.Quantity < 1 {
		return fmt.Errorf("quantity must be positive")
	}
	l.Objects = append(l.Objects, o)
	return nil
}

func compileFlags(f *types.LevelFlags, tbl *lua.LTable) {
	f.NoMonsters = getBool(tbl, "nomonsters", f.NoMonsters)
	f.Court = getBool(tbl, "court", f.Court)
	f.Swamp = getBool(tbl, "swamp", f.Swamp)
	f.Vault = getBool(tbl, "vault", f.Vault)
	f.Beehive = getBool(tbl, "beehive", f.Beehive)
	f.Morgue = getBool(tbl, "morgue", f.Morgue)
	f.Zoo = getBool(tbl, "zoo", f.Zoo)
	f.Barracks = getBool(tbl, "barracks", f.Barracks)
	f.Temple = getBool(tbl, "temple", f.Temple)
	f.Shop = getBool(tbl, "shop", f.Shop)
	f.Oracle = getBool(tbl, "oracle", f.Oracle)
}
