package levelgen

import (
	"testing"

	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

func generate(t *testing.T, seed int64, depth int) (*types.Level, *rng.RNG) {
	t.Helper()
	r := rng.New(seed)
	l, err := Default{}.Generate(r, depth)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return l, r
}

func TestDefault_Deterministic(t *testing.T) {
	a, ra := generate(t, 42, 1)
	b, rb := generate(t, 42, 1)
	if ra.Calls() != rb.Calls() {
		t.Fatalf("calls differ: %d vs %d", ra.Calls(), rb.Calls())
	}
	ga, gb := state.TerrainGrid(a), state.TerrainGrid(b)
	for y := range ga {
		for x := range ga[y] {
			if ga[y][x] != gb[y][x] {
				t.Fatalf("grids differ at (%d,%d)", x, y)
			}
		}
	}
	if len(a.Monsters) != len(b.Monsters) || len(a.Objects) != len(b.Objects) {
		t.Error("contents differ between identical seeds")
	}
}

func TestDefault_DrawsFromGivenRNG(t *testing.T) {
	_, r := generate(t, 7, 1)
	if r.Calls() == 0 {
		t.Error("generator made no draws")
	}
}

func TestDefault_Structure(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		l, _ := generate(t, seed, 1)
		if len(l.Rooms) == 0 {
			t.Errorf("seed %d: no rooms", seed)
			continue
		}
		if l.DownStairs == nil {
			t.Errorf("seed %d: no down stairs", seed)
		}
		for i, a := range l.Rooms {
			if !state.InBounds(a.LX-1, a.LY-1) || !state.InBounds(a.HX+1, a.HY+1) {
				t.Errorf("seed %d: room %d out of bounds: %+v", seed, i, a)
			}
			for j := i + 1; j < len(l.Rooms); j++ {
				b := l.Rooms[j]
				if a.LX <= b.HX && b.LX <= a.HX && a.LY <= b.HY && b.LY <= a.HY {
					t.Errorf("seed %d: rooms %d and %d overlap", seed, i, j)
				}
			}
			if i > 0 && l.Rooms[i-1].LX > a.LX {
				t.Errorf("seed %d: rooms not sorted by LX", seed)
			}
		}
		for _, m := range l.Monsters {
			if !state.Walkable(l, m.X, m.Y) {
				t.Errorf("seed %d: %s on unwalkable (%d,%d)", seed, m.Name, m.X, m.Y)
			}
		}
		for _, o := range l.Objects {
			if !state.InBounds(o.X, o.Y) {
				t.Errorf("seed %d: %s out of bounds", seed, o.Name)
			}
		}
	}
}

func TestDefault_StairsOnStairs(t *testing.T) {
	l, _ := generate(t, 3, 2)
	d := l.DownStairs
	if c := l.Cells[d.Y][d.X]; c.Typ != types.Stairs || c.StairsUp {
		t.Errorf("down stairs cell = %+v", c)
	}
	if u := l.UpStairs; u != nil {
		if c := l.Cells[u.Y][u.X]; c.Typ != types.Stairs || !c.StairsUp {
			t.Errorf("up stairs cell = %+v", c)
		}
	}
	if l.Depth != 2 {
		t.Errorf("depth = %d", l.Depth)
	}
}

func TestGeneratorFunc(t *testing.T) {
	called := false
	var g Generator = GeneratorFunc(func(r *rng.RNG, depth int) (*types.Level, error) {
		called = true
		return state.NewLevel(depth), nil
	})
	l, err := g.Generate(rng.New(1), 4)
	if err != nil || !called || l.Depth != 4 {
		t.Errorf("GeneratorFunc: l=%v err=%v called=%v", l, err, called)
	}
}

func TestDig_AroundObstacle(t *testing.T) {
	l := state.NewLevel(1)
	for y := 3; y <= 7; y++ {
		l.Cells[y][10].Typ = types.VWall
	}
	if !Dig(l, types.Coord{X: 5, Y: 5}, types.Coord{X: 15, Y: 5}) {
		t.Fatal("dig failed")
	}
	if l.Cells[5][15].Typ != types.Corr {
		t.Error("corridor does not reach the target")
	}
}
