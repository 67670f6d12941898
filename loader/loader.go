// Package loader runs Lua level fixtures. A fixture describes one level
// per depth with constructors (Room, Corridor, Door, Monster, ...) and may
// draw from the harness RNG through rn2, rnd, rn1 and d, so a scripted
// level consumes the same trace a generated one would.
package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/types"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// Fixture is a compiled level script. It implements levelgen.Generator.
type Fixture struct {
	Path     string
	Warnings []string
	proto    *lua.FunctionProto
}

// Load reads a fixture file. See LoadString.
func Load(path string) (*Fixture, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level fixture %s: %w", path, err)
	}
	return LoadString(string(src), path)
}

// LoadString parses and compiles a fixture, then builds depth 1 once on a
// scratch generator to catch structural mistakes early. name labels errors.
func LoadString(src, name string) (*Fixture, error) {
	proto, err := compileSource(src, name)
	if err != nil {
		return nil, err
	}
	f := &Fixture{Path: name, proto: proto}
	if _, err := f.Generate(rng.New(0), 1); err != nil {
		return nil, err
	}
	return f, nil
}

func compileSource(src, name string) (*lua.FunctionProto, error) {
	chunk, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}
	return proto, nil
}

// Generate runs the fixture for a depth. Every rn2/rnd/rn1/d call in the
// script, and every monster it creates, draws from r.
func (f *Fixture) Generate(r *rng.RNG, depth int) (*types.Level, error) {
	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll, r)
	L.SetGlobal("depth", lua.LNumber(depth))

	L.Push(L.NewFunctionFromProto(f.proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, fmt.Errorf("executing %s: %w", f.Path, err)
	}

	l, ve := compile(coll, r, depth)
	validate(l, ve)
	if len(ve.Errors) > 0 {
		return nil, ve
	}
	f.Warnings = ve.Warnings
	return l, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and every source of randomness the
// harness RNG does not control.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	if mathTbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		mathTbl.RawSetString("random", lua.LNil)
		mathTbl.RawSetString("randomseed", lua.LNil)
	}
}
