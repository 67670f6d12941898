package engine

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/nathoo/replaycore/engine/levelgen"
	"github.com/nathoo/replaycore/engine/parser"
	"github.com/nathoo/replaycore/engine/prompt"
	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

var valkyrie = types.Character{Name: "Agent", Role: "Valkyrie", Race: "human", Gender: "female"}

// testLevel is one lit room spanning x 10..30, y 5..10 with a closed door
// in the east wall. Building it draws nothing.
func testLevel(depth int) *types.Level {
	l := state.NewLevel(depth)
	rm := types.Room{LX: 10, LY: 5, HX: 30, HY: 10, Lit: true}
	for y := rm.LY - 1; y <= rm.HY+1; y++ {
		for x := rm.LX - 1; x <= rm.HX+1; x++ {
			c := &l.Cells[y][x]
			switch {
			case y == rm.LY-1 || y == rm.HY+1:
				c.Typ = types.HWall
			case x == rm.LX-1 || x == rm.HX+1:
				c.Typ = types.VWall
			default:
				c.Typ = types.RoomFloor
				c.Lit = true
			}
		}
	}
	l.Rooms = []types.Room{rm}
	l.Cells[7][31] = types.Cell{Typ: types.Door, Door: types.DoorClosed}

	up := types.Coord{X: 12, Y: 7}
	down := types.Coord{X: 25, Y: 8}
	l.Cells[up.Y][up.X] = types.Cell{Typ: types.Stairs, StairsUp: true, Lit: true}
	l.Cells[down.Y][down.X] = types.Cell{Typ: types.Stairs, Lit: true}
	l.UpStairs, l.DownStairs = &up, &down
	l.Flags.NoMonsters = true
	return l
}

func testGenerator() levelgen.Generator {
	return levelgen.GeneratorFunc(func(r *rng.RNG, depth int) (*types.Level, error) {
		return testLevel(depth), nil
	})
}

func newTestHarness(t *testing.T, seed int64) *Harness {
	t.Helper()
	h, err := New(seed, valkyrie, Options{Generator: testGenerator()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func funcs(entries []types.RngLogEntry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, rng.Payload(e))
	}
	return out
}

func hasMessage(h *Harness, want string) bool {
	for _, m := range h.World.Messages {
		if m == want {
			return true
		}
	}
	return false
}

func TestNewPlacesHeroOnUpStairs(t *testing.T) {
	h := newTestHarness(t, 42)
	p := h.World.Player
	if p.X != 12 || p.Y != 7 {
		t.Errorf("hero at (%d,%d), want (12,7)", p.X, p.Y)
	}
	if len(h.StartupRng()) != 0 {
		t.Errorf("fixture level should not draw, got %v", funcs(h.StartupRng()))
	}
	if !strings.HasPrefix(h.World.Messages[0], "Hello Agent, welcome to NetHack!") {
		t.Errorf("welcome = %q", h.World.Messages[0])
	}
}

func TestNewDefaultGeneratorIsDeterministic(t *testing.T) {
	a, err := New(42, valkyrie, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(42, valkyrie, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(a.StartupRng()) == 0 {
		t.Fatal("level generation drew nothing")
	}
	if !reflect.DeepEqual(funcs(a.StartupRng()), funcs(b.StartupRng())) {
		t.Error("same seed produced different startup draws")
	}
	if a.World.Player.X != b.World.Player.X || a.World.Player.Y != b.World.Player.Y {
		t.Error("same seed placed the hero differently")
	}
}

func TestNewUnknownRole(t *testing.T) {
	_, err := New(1, types.Character{Role: "Jester"}, Options{})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestRestTakesOneTurn(t *testing.T) {
	h := newTestHarness(t, 42)
	res := h.ApplyInput('.')
	if res.Kind != types.CmdRest || !res.TookTime || res.Suspended != nil {
		t.Fatalf("result = %+v", res)
	}
	h.AdvanceTurnEffects()

	if h.World.Turn != 2 {
		t.Errorf("turn = %d, want 2", h.World.Turn)
	}
	got := funcs(h.TakeRng())
	want := []string{"rn2(20)", "rn2(91)", "rn1(31,15)"}
	if len(got) != len(want) {
		t.Fatalf("draws = %v, want payloads %v", got, want)
	}
	for i := range want {
		if !strings.HasPrefix(got[i], want[i]) {
			t.Errorf("draw %d = %q, want %s", i, got[i], want[i])
		}
	}
}

func TestRestExercisesOnTenthTurn(t *testing.T) {
	h := newTestHarness(t, 42)
	for h.World.Turn < 9 {
		h.ApplyInput('.')
		h.AdvanceTurnEffects()
		got := funcs(h.TakeRng())
		if len(got) == 0 || !strings.HasPrefix(got[0], "rn2(20)") {
			t.Fatalf("turn %d draws = %v, want hunger first", h.World.Turn, got)
		}
		for _, d := range got {
			if strings.HasPrefix(d, "rn2(19)") {
				t.Fatalf("turn %d exercised early: %v", h.World.Turn, got)
			}
		}
	}

	res := h.ApplyInput('.')
	if !res.TookTime {
		t.Fatalf("result = %+v", res)
	}
	h.AdvanceTurnEffects()
	if h.World.Turn != 10 {
		t.Fatalf("turn = %d, want 10", h.World.Turn)
	}
	got := funcs(h.TakeRng())
	if len(got) < 2 || !strings.HasPrefix(got[0], "rn2(20)") || !strings.HasPrefix(got[1], "rn2(19)") {
		t.Errorf("turn 10 draws = %v, want rn2(20) then the Con exercise rn2(19)", got)
	}
}

func TestUnknownKeyIsNoop(t *testing.T) {
	h := newTestHarness(t, 42)
	turn := h.World.Turn
	res := h.ApplyInput('Z')
	if res.Kind != types.CmdNone || res.TookTime {
		t.Errorf("result = %+v, want no-op", res)
	}
	if h.World.Turn != turn {
		t.Error("no-op advanced the turn")
	}
	if n := len(h.TakeRng()); n != 0 {
		t.Errorf("no-op drew %d numbers", n)
	}
}

func TestMoveIntoWallIsNoop(t *testing.T) {
	h := newTestHarness(t, 42)
	h.World.Player.X, h.World.Player.Y = 10, 5
	res := h.ApplyInput('y')
	if res.TookTime || res.Moved {
		t.Errorf("result = %+v, want no-op", res)
	}
}

func TestMoveSteps(t *testing.T) {
	h := newTestHarness(t, 42)
	res := h.ApplyInput('l')
	if !res.Moved || !res.TookTime {
		t.Fatalf("result = %+v", res)
	}
	if h.World.Player.X != 13 {
		t.Errorf("x = %d, want 13", h.World.Player.X)
	}
}

func TestCountRepeatsSearch(t *testing.T) {
	h := newTestHarness(t, 42)
	if res := h.ApplyInput('3'); res.Kind != types.CmdCount {
		t.Fatalf("digit result = %+v", res)
	}
	if h.Count() != 3 {
		t.Fatalf("count = %d", h.Count())
	}
	res := h.ApplyInput('s')
	if !res.TookTime {
		t.Fatalf("search did not take time")
	}
	if !h.Busy() {
		t.Fatal("expected a pending repeat")
	}
	h.AdvanceTurnEffects()
	h.Drain()

	if h.Busy() {
		t.Error("still busy after Drain")
	}
	if h.World.Turn != 4 {
		t.Errorf("turn = %d, want 4", h.World.Turn)
	}
	if h.KeysFed() != 2 {
		t.Errorf("keys fed = %d, want 2", h.KeysFed())
	}
}

func TestSearchFindsHiddenDoor(t *testing.T) {
	h := newTestHarness(t, 42)
	l := h.World.Level
	l.Cells[7][31] = types.Cell{Typ: types.SDoor, Door: types.DoorClosed}
	h.World.Player.X, h.World.Player.Y = 30, 7

	for i := 0; i < 200 && l.Cells[7][31].Typ == types.SDoor; i++ {
		h.Step('s')
	}
	if l.Cells[7][31].Typ != types.Door {
		t.Fatal("hidden door never found")
	}
	if !hasMessage(h, "You find a hidden door.") {
		t.Errorf("messages = %v", h.World.Messages)
	}
}

func TestOpenDoorPrompt(t *testing.T) {
	h := newTestHarness(t, 42)
	h.World.Player.X, h.World.Player.Y = 30, 7

	res := h.ApplyInput('o')
	if res.Suspended == nil || res.Suspended.Prompt.Kind != prompt.Direction {
		t.Fatalf("result = %+v, want a direction prompt", res)
	}
	if h.Pending() != res.Suspended {
		t.Fatal("harness does not expose the pending command")
	}
	_, screen := h.Render()
	if screen[0] != "In what direction?" {
		t.Errorf("message row = %q", screen[0])
	}

	res = res.Suspended.Feed('l')
	if !res.TookTime || res.Suspended != nil {
		t.Fatalf("after feed result = %+v", res)
	}
	if h.Pending() != nil {
		t.Error("pending command not cleared")
	}
	got := funcs(h.TakeRng())
	if len(got) == 0 || !strings.HasPrefix(got[0], "rn2(20)") {
		t.Errorf("draws = %v, want the door roll first", got)
	}
	door := h.World.Level.Cells[7][31].Door
	if door != types.DoorOpen && !hasMessage(h, "The door is stuck.") {
		t.Errorf("door state %v with messages %v", door, h.World.Messages)
	}
}

func TestPendingCancel(t *testing.T) {
	h := newTestHarness(t, 42)
	res := h.ApplyInput('o')
	p := res.Suspended
	res = p.Cancel()
	if res.TookTime {
		t.Error("cancel took time")
	}
	if !p.Settled() || h.Pending() != nil {
		t.Error("command not settled by cancel")
	}
	if n := len(h.TakeRng()); n != 0 {
		t.Errorf("cancel drew %d numbers", n)
	}
	if h.KeysFed() != 2 {
		t.Errorf("keys fed = %d, want 2", h.KeysFed())
	}
}

func TestStrangeDirection(t *testing.T) {
	h := newTestHarness(t, 42)
	h.ApplyInput('o')
	res := h.ApplyInput('x')
	if res.TookTime {
		t.Error("bad direction took time")
	}
	if !hasMessage(h, "What a strange direction!") {
		t.Errorf("messages = %v", h.World.Messages)
	}
}

func TestInventoryMenuCapturesScreen(t *testing.T) {
	h := newTestHarness(t, 42)
	res := h.ApplyInput('i')
	if res.Suspended == nil || res.Suspended.Prompt.Kind != prompt.Menu {
		t.Fatalf("result = %+v, want a menu", res)
	}
	if res.TookTime {
		t.Error("inventory took time")
	}
	if len(res.Screen) != types.ScreenRows {
		t.Fatalf("screen has %d rows", len(res.Screen))
	}
	if !strings.Contains(strings.Join(res.Screen, "\n"), "Weapons") {
		t.Error("menu not on the captured screen")
	}
	res = h.ApplyInput(parser.Escape)
	if res.TookTime || h.Pending() != nil {
		t.Errorf("dismissal result = %+v", res)
	}
}

func TestRenderDoesNotDraw(t *testing.T) {
	h := newTestHarness(t, 42)
	h.TakeRng()
	g1, s1 := h.Render()
	g2, s2 := h.Render()
	if !reflect.DeepEqual(g1, g2) || !reflect.DeepEqual(s1, s2) {
		t.Error("render is not repeatable")
	}
	if n := len(h.TakeRng()); n != 0 {
		t.Errorf("render drew %d numbers", n)
	}
	if len(g1) != types.MapRows || len(g1[0]) != types.MapCols {
		t.Errorf("grid is %dx%d", len(g1), len(g1[0]))
	}
	if !strings.Contains(s1[1+7], "@") {
		t.Errorf("hero missing from row %q", s1[1+7])
	}
}

func TestEatOccupation(t *testing.T) {
	h := newTestHarness(t, 42)
	hunger := h.World.Player.Hunger

	res := h.Step('e')
	if res.Suspended == nil || res.Suspended.Prompt.Choices != "d" {
		t.Fatalf("result = %+v, want a letter prompt for d", res)
	}
	h.Step('d')

	if h.Busy() {
		t.Fatal("occupation still running after Step")
	}
	if !hasMessage(h, "You finish eating the food ration.") {
		t.Errorf("messages = %v", h.World.Messages)
	}
	if state.InventoryItem(&h.World.Player, 'd') != nil {
		t.Error("food ration still in inventory")
	}
	if got := h.World.Player.Hunger; got <= hunger {
		t.Errorf("hunger = %d, want more than %d", got, hunger)
	}
	if h.World.Turn != 6 {
		t.Errorf("turn = %d, want 6", h.World.Turn)
	}
}

func TestEatWrongItem(t *testing.T) {
	h := newTestHarness(t, 42)
	h.Step('e')
	res := h.Step('a')
	if res.TookTime {
		t.Error("eating a sword took time")
	}
	if !hasMessage(h, "You cannot eat the long sword.") {
		t.Errorf("messages = %v", h.World.Messages)
	}
}

func TestExtendedCommand(t *testing.T) {
	h := newTestHarness(t, 42)
	res := h.ApplyInput('#')
	if res.Suspended == nil || res.Suspended.Class != PendingExtended {
		t.Fatalf("result = %+v, want an extended prompt", res)
	}
	for _, b := range []byte("si") {
		if r := h.ApplyInput(b); r.Suspended == nil {
			t.Fatalf("settled early on %q", b)
		}
	}
	res = h.ApplyInput(parser.Enter)
	if !res.TookTime {
		t.Error("sit did not take time")
	}
	if !hasMessage(h, "Having fun sitting on the floor?") {
		t.Errorf("messages = %v", h.World.Messages)
	}
}

func TestExtendedUnknown(t *testing.T) {
	h := newTestHarness(t, 42)
	for _, b := range []byte("#xyz\r") {
		h.ApplyInput(b)
	}
	if !hasMessage(h, "#xyz: unknown extended command.") {
		t.Errorf("messages = %v", h.World.Messages)
	}
}

func TestPrayResetsTimeout(t *testing.T) {
	h := newTestHarness(t, 42)
	for _, b := range []byte("#pray\r") {
		h.ApplyInput(b)
	}
	if !hasMessage(h, "You begin praying to Tyr.") {
		t.Errorf("messages = %v", h.World.Messages)
	}
	if h.World.Player.PrayerTimeout <= 0 {
		t.Error("prayer timeout not reset")
	}
}

func TestStairs(t *testing.T) {
	h := newTestHarness(t, 42)
	h.ApplyInput('>')
	if !hasMessage(h, "You can't go down here.") {
		t.Errorf("messages = %v", h.World.Messages)
	}

	first := h.World.Level
	h.World.Player.X, h.World.Player.Y = 25, 8
	res := h.ApplyInput('>')
	if !res.TookTime || h.World.Level.Depth != 2 {
		t.Fatalf("descend result = %+v, depth %d", res, h.World.Level.Depth)
	}
	if p := h.World.Player; p.X != 12 || p.Y != 7 {
		t.Errorf("arrived at (%d,%d), want up stairs", p.X, p.Y)
	}

	h.ApplyInput('<')
	if h.World.Level != first {
		t.Error("returning upstairs regenerated the level")
	}
	if p := h.World.Player; p.X != 25 || p.Y != 8 {
		t.Errorf("arrived at (%d,%d), want down stairs", p.X, p.Y)
	}
}

func TestClimbOutOfDungeonAsks(t *testing.T) {
	h := newTestHarness(t, 42)
	res := h.ApplyInput('<')
	if res.Suspended == nil || res.Suspended.Prompt.Kind != prompt.YesNo {
		t.Fatalf("result = %+v, want a yes/no prompt", res)
	}
	res = h.ApplyInput('y')
	if res.TookTime || h.World.Level.Depth != 1 {
		t.Error("climbing out should not leave the dungeon")
	}
}

func TestMorePagination(t *testing.T) {
	h := newTestHarness(t, 42)
	h.World.Messages = []string{
		strings.Repeat("a", 60),
		strings.Repeat("b", 60),
	}
	if !h.MorePending() {
		t.Fatal("expected --More--")
	}
	_, screen := h.Render()
	if !strings.HasSuffix(screen[0], "--More--") {
		t.Errorf("message row = %q", screen[0])
	}
	res := h.ApplyInput(' ')
	if !res.Acknowledged || res.TookTime {
		t.Errorf("result = %+v, want an acknowledgement", res)
	}
	if h.MorePending() {
		t.Error("still paging after the last page")
	}
	_, screen = h.Render()
	if screen[0] != strings.Repeat("b", 60) {
		t.Errorf("message row = %q", screen[0])
	}
}

func TestAcknowledgeNeverDraws(t *testing.T) {
	h := newTestHarness(t, 42)
	h.World.Messages = []string{strings.Repeat("a", 60), strings.Repeat("b", 60)}
	h.Acknowledge(' ')
	if h.MorePending() {
		t.Error("acknowledge did not advance the page")
	}
	if h.KeysFed() != 1 {
		t.Errorf("keys fed = %d", h.KeysFed())
	}
	if n := len(h.TakeRng()); n != 0 {
		t.Errorf("acknowledge drew %d numbers", n)
	}
}

func TestCheckpointResume(t *testing.T) {
	h := newTestHarness(t, 42)
	for _, b := range []byte("..l.") {
		h.Step(b)
	}
	data, err := h.Checkpoint()
	if err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	h2, err := Resume(data, Options{Generator: testGenerator()})
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	h.TakeRng()

	for _, b := range []byte("..s.") {
		h.Step(b)
		h2.Step(b)
	}
	if !reflect.DeepEqual(funcs(h.TakeRng()), funcs(h2.TakeRng())) {
		t.Error("resumed harness drew differently")
	}
	if h.World.Turn != h2.World.Turn {
		t.Errorf("turns %d and %d", h.World.Turn, h2.World.Turn)
	}
}

func TestCheckpointBusy(t *testing.T) {
	h := newTestHarness(t, 42)
	h.ApplyInput('o')
	if _, err := h.Checkpoint(); !errors.Is(err, ErrBusy) {
		t.Errorf("err = %v, want ErrBusy", err)
	}
}

func TestOverrideStatus(t *testing.T) {
	h := newTestHarness(t, 42)
	h.TakeRng()
	h.OverrideStatus(StatusOverride{HP: 9, MaxHP: 20, HasHP: true, Attrs: [types.NumAttrs]int{16, 7, 7, 17, 18, 7}, HasAttrs: true})
	p := h.World.Player
	if p.HP != 9 || p.MaxHP != 20 {
		t.Errorf("hp = %d(%d)", p.HP, p.MaxHP)
	}
	if p.Attrs[types.AStr] != 16 {
		t.Errorf("str = %d", p.Attrs[types.AStr])
	}
	if p.Pw != 2 {
		t.Errorf("pw changed to %d without HasPw", p.Pw)
	}
	if n := len(h.TakeRng()); n != 0 {
		t.Errorf("override drew %d numbers", n)
	}
}

func TestPickupGold(t *testing.T) {
	h := newTestHarness(t, 42)
	p := &h.World.Player
	state.AddObject(h.World, &types.Object{Name: "gold piece", Symbol: '$', Quantity: 12, X: p.X, Y: p.Y})
	res := h.ApplyInput(',')
	if !res.TookTime {
		t.Error("pickup did not take time")
	}
	if p.Gold != 12 {
		t.Errorf("gold = %d", p.Gold)
	}
	if !hasMessage(h, "12 gold pieces.") {
		t.Errorf("messages = %v", h.World.Messages)
	}
}

func TestFightThinAir(t *testing.T) {
	h := newTestHarness(t, 42)
	h.ApplyInput('F')
	res := h.ApplyInput('l')
	if !res.TookTime {
		t.Error("fighting air should take time")
	}
	if !hasMessage(h, "You harmlessly attack thin air.") {
		t.Errorf("messages = %v", h.World.Messages)
	}
}

func TestAttackPeacefulAsks(t *testing.T) {
	h := newTestHarness(t, 42)
	p := h.World.Player
	state.AddMonster(h.World, &types.Monster{Name: "dog", Symbol: 'd', X: p.X + 1, Y: p.Y, HP: 5, MaxHP: 5, Speed: 16, Peaceful: true})
	res := h.ApplyInput('l')
	if res.Suspended == nil || res.Suspended.Prompt.Question != "Really attack the dog?" {
		t.Fatalf("result = %+v, want a confirmation", res)
	}
	res = h.ApplyInput('n')
	if res.TookTime {
		t.Error("declined attack took time")
	}
	if n := len(h.TakeRng()); n != 0 {
		t.Errorf("declined attack drew %d numbers", n)
	}
}
