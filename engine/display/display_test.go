package display

import (
	"strings"
	"testing"

	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

// testWorld places a Valkyrie in a lit 5x3 room at (10..14, 5..7) with a
// closed door on the east wall and a dark corridor beyond it.
func testWorld(t *testing.T) *types.World {
	t.Helper()
	w, err := state.NewWorld(types.Character{Name: "Agent", Role: "Valkyrie", Race: "human", Gender: "female"})
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	l := state.NewLevel(1)
	for y := 4; y <= 8; y++ {
		for x := 9; x <= 15; x++ {
			switch {
			case y == 4 || y == 8:
				l.Cells[y][x].Typ = types.HWall
			case x == 9 || x == 15:
				l.Cells[y][x].Typ = types.VWall
			default:
				l.Cells[y][x].Typ = types.RoomFloor
				l.Cells[y][x].Lit = true
			}
		}
	}
	l.Cells[6][15].Typ = types.Door
	l.Cells[6][15].Door = types.DoorClosed
	for x := 16; x <= 20; x++ {
		l.Cells[6][x].Typ = types.Corr
	}
	l.Rooms = []types.Room{{LX: 10, LY: 5, HX: 14, HY: 7, Lit: true}}
	w.Level = l
	w.Levels[1] = l
	w.Player.X, w.Player.Y = 12, 6
	return w
}

func TestScreen_Shape(t *testing.T) {
	w := testWorld(t)
	UpdateVision(w)
	s := Screen(w, "Hello.", nil)
	if len(s) != types.ScreenRows {
		t.Fatalf("rows = %d, want %d", len(s), types.ScreenRows)
	}
	if s[0] != "Hello." {
		t.Errorf("message row = %q", s[0])
	}
	for i, line := range s {
		if strings.HasSuffix(line, " ") {
			t.Errorf("row %d not right-trimmed: %q", i, line)
		}
		if len(line) > types.ScreenCols {
			t.Errorf("row %d too wide: %d", i, len(line))
		}
	}
	row := s[types.MapTop+6]
	if len(row) <= 12 || row[12] != '@' {
		t.Errorf("hero row = %q, want @ at column 12", row)
	}
	if row[15] != '+' {
		t.Errorf("door glyph = %q, want '+'", row[15])
	}
}

func TestScreen_UnseenStaysBlank(t *testing.T) {
	w := testWorld(t)
	UpdateVision(w)
	s := Screen(w, "", nil)
	row := s[types.MapTop+6]
	if len(row) > 16 {
		t.Errorf("corridor beyond the door should be unseen: %q", row)
	}
}

func TestScreen_Pure(t *testing.T) {
	w := testWorld(t)
	UpdateVision(w)
	a := Screen(w, "x", nil)
	b := Screen(w, "x", nil)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs between renders", i)
		}
	}
}

func TestStatusLines(t *testing.T) {
	w := testWorld(t)
	got := StatusLines(w)
	want1 := "Agent the Stripling  St:18 Dx:17 Co:18 In:7 Wi:7 Ch:7 Neutral"
	want2 := "Dlvl:1 $:0 HP:16(16) Pw:2(2) AC:6 Xp:1/0 T:1"
	if got[0] != want1 {
		t.Errorf("line 1 = %q, want %q", got[0], want1)
	}
	if got[1] != want2 {
		t.Errorf("line 2 = %q, want %q", got[1], want2)
	}
	w.Player.HungerState = types.Hungry
	if got := StatusLines(w)[1]; !strings.HasSuffix(got, " Hungry") {
		t.Errorf("hungry status = %q", got)
	}
}

func TestMonstersShownOnlyWhenVisible(t *testing.T) {
	w := testWorld(t)
	state.AddMonster(w, &types.Monster{Name: "newt", Symbol: ':', X: 10, Y: 5})
	state.AddMonster(w, &types.Monster{Name: "jackal", Symbol: 'd', X: 19, Y: 6})
	UpdateVision(w)
	s := Screen(w, "", nil)
	if s[types.MapTop+5][10] != ':' {
		t.Errorf("visible newt missing: %q", s[types.MapTop+5])
	}
	if row := s[types.MapTop+6]; len(row) > 19 && row[19] == 'd' {
		t.Errorf("jackal in the dark corridor should not be shown: %q", row)
	}
}

func TestUpdateVision_RemembersObjects(t *testing.T) {
	w := testWorld(t)
	state.AddObject(w, &types.Object{Name: "apple", Symbol: '%', X: 11, Y: 5})
	UpdateVision(w)
	if c := w.Level.Cells[5][11]; c.Seen == 0 || c.Remembered != '%' {
		t.Errorf("cell = %+v, want seen with remembered %%", c)
	}
}

func TestPaginate(t *testing.T) {
	if got := Paginate(nil); len(got) != 0 {
		t.Errorf("pages = %v", got)
	}
	got := Paginate([]string{"The jackal bites!", "You hit the jackal."})
	if len(got) != 1 || got[0] != "The jackal bites!  You hit the jackal." {
		t.Errorf("pages = %q", got)
	}
	long := strings.Repeat("x", 60)
	got = Paginate([]string{long, long, "end"})
	if len(got) != 2 {
		t.Fatalf("pages = %d, want 2", len(got))
	}
	if MessageLine(got, 0) != long+More {
		t.Errorf("first page = %q", MessageLine(got, 0))
	}
	if MessageLine(got, 1) != long+"  end" {
		t.Errorf("last page = %q", MessageLine(got, 1))
	}
	if MessageLine(got, 2) != "" {
		t.Error("page past the end should be blank")
	}
}

func TestInventoryMenu(t *testing.T) {
	w := testWorld(t)
	got := InventoryMenu(&w.Player)
	want := []string{
		" Weapons",
		" a - a long sword",
		" b - a dagger",
		" Armor",
		" c - a small shield",
		" Comestibles",
		" d - a food ration",
		" (end)",
	}
	if len(got) != len(want) {
		t.Fatalf("menu = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	empty := types.Player{}
	if InventoryMenu(&empty) != nil {
		t.Error("empty inventory should have no menu")
	}
}

func TestOverlay(t *testing.T) {
	w := testWorld(t)
	menu := InventoryMenu(&w.Player)
	s := Screen(w, "", menu)
	if !strings.HasSuffix(s[0], " Weapons") {
		t.Errorf("row 0 = %q", s[0])
	}
	if !strings.HasSuffix(s[len(menu)-1], " (end)") {
		t.Errorf("last menu row = %q", s[len(menu)-1])
	}
	if !strings.HasPrefix(s[types.ScreenRows-1], "Dlvl:1") {
		t.Errorf("status row hidden by a small menu: %q", s[types.ScreenRows-1])
	}
}

func TestAttributesMenu(t *testing.T) {
	w := testWorld(t)
	menu := AttributesMenu(w)
	if menu[0] != " Agent the Stripling's attributes:" {
		t.Errorf("title = %q", menu[0])
	}
	joined := strings.Join(menu, "\n")
	for _, want := range []string{"a level 1 female human Valkyrie", "mission for Tyr", "all 16 hit points"} {
		if !strings.Contains(joined, want) {
			t.Errorf("attributes missing %q", want)
		}
	}
}

func TestTerrainGlyph_OpenDoorInVerticalWall(t *testing.T) {
	w := testWorld(t)
	w.Level.Cells[6][15].Door = types.DoorOpen
	if g := TerrainGlyph(w.Level, 15, 6); g != '-' {
		t.Errorf("open door glyph = %q, want '-'", g)
	}
}
