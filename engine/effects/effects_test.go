package effects

import (
	"testing"

	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

func testWorld(t *testing.T) *types.World {
	t.Helper()
	w, err := state.NewWorld(types.Character{Role: "Valkyrie", Race: "human"})
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	w.Level = state.NewLevel(1)
	w.Levels[1] = w.Level
	w.Player.X, w.Player.Y = 10, 10
	return w
}

func loggedRNG(seed int64) *rng.RNG {
	r := rng.New(seed)
	r.EnableLog()
	return r
}

func funcs(log []types.RngLogEntry) []string {
	var out []string
	for _, e := range log {
		out = append(out, e.Func)
	}
	return out
}

func TestRegenerate_FullHealthNoDraw(t *testing.T) {
	w := testWorld(t)
	r := loggedRNG(1)
	if evts := Regenerate(w, r); evts != nil {
		t.Errorf("events = %v", evts)
	}
	if r.Calls() != 0 {
		t.Errorf("calls = %d, want 0", r.Calls())
	}
}

func TestRegenerate_WoundedDrawsOnce(t *testing.T) {
	w := testWorld(t)
	w.Player.HP = 5
	r := loggedRNG(1)
	Regenerate(w, r)
	log := r.TakeLog()
	if len(log) != 1 || log[0].Func != "rn2" || log[0].Args[0] != 100 {
		t.Fatalf("log = %v, want one rn2(100)", log)
	}
	healed := log[0].Result < w.Player.Level+w.Player.Attrs[types.ACon]
	if healed && w.Player.HP != 6 {
		t.Errorf("HP = %d after successful roll, want 6", w.Player.HP)
	}
	if !healed && w.Player.HP != 5 {
		t.Errorf("HP = %d after failed roll, want 5", w.Player.HP)
	}
}

func TestHunger_DiscardedDrawAndDecrement(t *testing.T) {
	w := testWorld(t)
	r := loggedRNG(1)
	Hunger(w, r)
	if w.Player.Hunger != 899 {
		t.Errorf("hunger = %d, want 899", w.Player.Hunger)
	}
	log := r.TakeLog()
	if len(log) != 1 || log[0].Func != "rn2" || log[0].Args[0] != 20 {
		t.Errorf("log = %v, want one rn2(20)", log)
	}
}

func TestHunger_BandChangeEmitsEvent(t *testing.T) {
	w := testWorld(t)
	w.Player.Hunger = 151
	evts := Hunger(w, rng.New(1))
	if len(evts) != 1 || evts[0].Type != types.EvHungerChanged || evts[0].Amount != int(types.Hungry) {
		t.Errorf("events = %v", evts)
	}
	if w.Player.HungerState != types.Hungry {
		t.Errorf("state = %v", w.Player.HungerState)
	}
}

func TestExercise_OnlyEveryTenthTurn(t *testing.T) {
	w := testWorld(t)
	for turn := 2; turn <= 30; turn++ {
		w.Turn = turn
		r := loggedRNG(1)
		Exercise(w, r)
		got := len(r.TakeLog())
		want := 0
		if turn%10 == 0 {
			want = 1
		}
		if got != want {
			t.Errorf("turn %d: %d draws, want %d", turn, got, want)
		}
	}
}

func TestExercise_NotHungryExercisesCon(t *testing.T) {
	w := testWorld(t)
	w.Turn = 10
	r := loggedRNG(1)
	Exercise(w, r)
	log := r.TakeLog()
	if len(log) != 1 || log[0].Args[0] != 19 {
		t.Fatalf("log = %v, want rn2(19)", log)
	}
	want := 0
	if log[0].Result > w.Player.Attrs[types.ACon] {
		want = 1
	}
	if w.Player.Exercise[types.ACon] != want {
		t.Errorf("Con exercise = %d, want %d", w.Player.Exercise[types.ACon], want)
	}
}

func TestExercise_ScheduledCheck(t *testing.T) {
	w := testWorld(t)
	w.Turn = 601
	w.NextAttrCheck = 600
	w.Player.Exercise[types.AStr] = 40
	w.Player.Attrs[types.AStr] = 16
	r := loggedRNG(3)
	Exercise(w, r)
	if w.NextAttrCheck < 1400 || w.NextAttrCheck > 1630 {
		t.Errorf("next check = %d, want in [1400, 1630]", w.NextAttrCheck)
	}
	log := r.TakeLog()
	if got := funcs(log); len(got) != 2 || got[0] != "rn2" || got[1] != "rn1" {
		t.Errorf("draws = %v, want [rn2 rn1]", got)
	}
}

func TestExert_IntAndChaNeverDraw(t *testing.T) {
	w := testWorld(t)
	r := rng.New(1)
	Exert(&w.Player, r, types.AInt, true)
	Exert(&w.Player, r, types.ACha, false)
	if r.Calls() != 0 {
		t.Errorf("calls = %d, want 0", r.Calls())
	}
}

func TestWoundedLegs(t *testing.T) {
	w := testWorld(t)
	w.Player.WoundedLegs = 2
	w.Turn = 5
	r := loggedRNG(1)
	WoundedLegs(w, r)
	if len(r.TakeLog()) != 1 {
		t.Error("expected a Dex abuse draw on turn 5")
	}
	w.Turn = 6
	WoundedLegs(w, r)
	if len(r.TakeLog()) != 0 {
		t.Error("expected no draw on turn 6")
	}
	if w.Player.WoundedLegs != 0 {
		t.Errorf("wound timer = %d, want 0", w.Player.WoundedLegs)
	}
}

func TestErodeEngraving_AlwaysRolls(t *testing.T) {
	w := testWorld(t)
	r := loggedRNG(1)
	ErodeEngraving(w, r)
	log := r.TakeLog()
	if len(log) == 0 || log[0].Args[0] != 40+3*w.Player.Attrs[types.ADex] {
		t.Errorf("first draw = %v", log)
	}
}

func TestErodeEngraving_WipesUnderfoot(t *testing.T) {
	w := testWorld(t)
	w.Level.Engravings = []types.Engraving{{X: 10, Y: 10, Text: "Elbereth"}}
	for seed := int64(1); seed < 500; seed++ {
		r := rng.New(seed)
		evts := ErodeEngraving(w, r)
		if len(evts) > 0 {
			if len(w.Level.Engravings) == 1 && w.Level.Engravings[0].Text == "Elbereth" {
				t.Errorf("seed %d: engraving reported wiped but unchanged", seed)
			}
			return
		}
	}
	t.Fatal("no seed in range eroded the engraving")
}

func TestSeer(t *testing.T) {
	w := testWorld(t)
	w.Turn = 5
	r := loggedRNG(1)
	Seer(w, r)
	if w.SeerTurn < 20 || w.SeerTurn > 50 {
		t.Errorf("seer turn = %d, want in [20, 50]", w.SeerTurn)
	}
	Seer(w, r)
	if got := len(r.TakeLog()); got != 1 {
		t.Errorf("draws = %d, want 1 (second call not due)", got)
	}
}

func TestSounds_OnlyPresentSources(t *testing.T) {
	w := testWorld(t)
	r := loggedRNG(1)
	Sounds(w, r)
	if r.Calls() != 0 {
		t.Errorf("bare level drew %d times", r.Calls())
	}
	w.Level.Flags.Fountains = 1
	w.Level.Flags.Shop = true
	Sounds(w, r)
	log := r.TakeLog()
	if len(log) < 2 || log[0].Args[0] != 400 {
		t.Errorf("log = %v, want rn2(400) first", log)
	}
	last := log[len(log)-1]
	if log[0].Result != 0 && (last.Args[0] != 200 && last.Args[0] != 2) {
		t.Errorf("last draw = %v, want shop roll", last)
	}
}
