package loader

import (
	"github.com/nathoo/replaycore/engine/rng"
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the level constructors and the RNG bindings as globals.
func registerAPI(L *lua.LState, coll *collector, r *rng.RNG) {
	registerConstructors(L, coll)
	registerRNG(L, r)
}

// constructors maps each Lua global to the feature kind it records.
var constructors = map[string]featureKind{
	"Room":      featRoom,
	"Corridor":  featCorridor,
	"Door":      featDoor,
	"Stairs":    featStairs,
	"Fountain":  featFountain,
	"Sink":      featSink,
	"Monster":   featMonster,
	"Object":    featObject,
	"Gold":      featGold,
	"Engraving": featEngraving,
	"Flags":     featFlags,
}

func registerConstructors(L *lua.LState, coll *collector) {
	for name, kind := range constructors {
		name, kind := name, kind
		// Room { x = 10, y = 5, w = 8, h = 4 }
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.add(kind, name, tbl, L.Where(1))
			return 0
		}))
	}
}

// registerRNG binds the harness RNG. Calls are logged in the trace exactly
// as the same calls from Go would be.
func registerRNG(L *lua.LState, r *rng.RNG) {
	L.SetGlobal("rn2", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(r.Rn2(L.CheckInt(1))))
		return 1
	}))
	L.SetGlobal("rnd", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(r.Rnd(L.CheckInt(1))))
		return 1
	}))
	L.SetGlobal("rn1", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(r.Rn1(L.CheckInt(1), L.CheckInt(2))))
		return 1
	}))
	L.SetGlobal("d", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(r.D(L.CheckInt(1), L.CheckInt(2))))
		return 1
	}))
}
