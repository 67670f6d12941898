// Package display is the headless renderer. It projects the world onto a
// terrain-type grid and a fixed 24-line text screen. Rendering is pure;
// only UpdateVision writes to the world, and it never draws from the RNG.
package display

import (
	"fmt"
	"strings"

	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

// More is appended to a message page that has more pages after it.
const More = "--More--"

// Grid returns the terrain-type grid of a level.
func Grid(l *types.Level) [][]int {
	return state.TerrainGrid(l)
}

// UpdateVision marks what the hero can currently see as seen and remembers
// the top object on each visible location.
func UpdateVision(w *types.World) {
	l := w.Level
	if l == nil {
		return
	}
	for y := 0; y < types.MapRows; y++ {
		for x := 1; x < types.MapCols; x++ {
			if !state.CouldSee(w, x, y) {
				continue
			}
			c := &l.Cells[y][x]
			c.Seen = 1
			c.Remembered = 0
			if objs := state.ObjectsAt(l, x, y); len(objs) > 0 {
				c.Remembered = objs[len(objs)-1].Symbol
			}
		}
	}
}

// Screen renders the full screen: message row, map rows, two status rows.
// overlay, when non-empty, is drawn over the right side of the screen the
// way a small menu window is, or replaces the screen when it does not fit.
// Every line is right-trimmed.
func Screen(w *types.World, message string, overlay []string) []string {
	rows := make([]string, types.ScreenRows)
	rows[0] = message
	for y := 0; y < types.MapRows; y++ {
		rows[types.MapTop+y] = mapRow(w, y)
	}
	status := StatusLines(w)
	rows[types.ScreenRows-2] = status[0]
	rows[types.ScreenRows-1] = status[1]

	if len(overlay) > 0 {
		rows = applyOverlay(rows, overlay)
	}
	for i := range rows {
		rows[i] = strings.TrimRight(rows[i], " ")
	}
	return rows
}

func mapRow(w *types.World, y int) string {
	l := w.Level
	if l == nil {
		return ""
	}
	var b strings.Builder
	b.Grow(types.MapCols)
	b.WriteByte(' ')
	for x := 1; x < types.MapCols; x++ {
		b.WriteRune(glyphAt(w, x, y))
	}
	return b.String()
}

func glyphAt(w *types.World, x, y int) rune {
	l := w.Level
	p := w.Player
	if x == p.X && y == p.Y {
		return '@'
	}
	c := l.Cells[y][x]
	if state.CouldSee(w, x, y) {
		if m := state.MonsterAt(l, x, y); m != nil {
			return m.Symbol
		}
		if objs := state.ObjectsAt(l, x, y); len(objs) > 0 {
			return objs[len(objs)-1].Symbol
		}
		return TerrainGlyph(l, x, y)
	}
	if c.Seen == 0 {
		return ' '
	}
	if c.Remembered != 0 {
		return c.Remembered
	}
	return TerrainGlyph(l, x, y)
}

// TerrainGlyph returns the map symbol of the terrain at (x, y).
func TerrainGlyph(l *types.Level, x, y int) rune {
	c := l.Cells[y][x]
	switch c.Typ {
	case types.VWall, types.Grave:
		return '|'
	case types.HWall, types.TLCorner, types.TRCorner, types.BLCorner, types.BRCorner,
		types.CrossWall, types.TUWall, types.TDWall, types.TLWall, types.TRWall:
		return '-'
	case types.SDoor:
		if verticalWall(l, x, y) {
			return '|'
		}
		return '-'
	case types.Door:
		switch {
		case c.Door&(types.DoorClosed|types.DoorLocked) != 0:
			return '+'
		case c.Door&types.DoorOpen != 0:
			if verticalWall(l, x, y) {
				return '-'
			}
			return '|'
		default:
			return '.'
		}
	case types.Corr:
		return '#'
	case types.RoomFloor, types.Ice, types.DrawbridgeDown:
		return '.'
	case types.Stairs, types.Ladder:
		if c.StairsUp {
			return '<'
		}
		return '>'
	case types.Fountain:
		return '{'
	case types.Throne:
		return '\\'
	case types.Altar:
		return '_'
	case types.Pool, types.Moat, types.Water, types.LavaPool:
		return '}'
	case types.DBWall, types.Tree, types.IronBars, types.Sink, types.Cloud, types.DrawbridgeUp:
		return '#'
	default:
		return ' '
	}
}

func isWall(t types.Terrain) bool {
	return (t >= types.VWall && t <= types.TRWall) || t == types.SDoor || t == types.Door
}

// verticalWall reports whether (x, y) sits in a wall running north-south.
func verticalWall(l *types.Level, x, y int) bool {
	up := y > 0 && isWall(l.Cells[y-1][x].Typ)
	down := y < types.MapRows-1 && isWall(l.Cells[y+1][x].Typ)
	return up || down
}

// StatusLines renders the two bottom status rows.
func StatusLines(w *types.World) [2]string {
	p := w.Player
	title := p.Role
	if role, ok := state.LookupRole(p.Role); ok {
		title = role.Title
	}
	line1 := fmt.Sprintf("%s the %s  St:%d Dx:%d Co:%d In:%d Wi:%d Ch:%d %s",
		p.Name, title,
		p.Attrs[types.AStr], p.Attrs[types.ADex], p.Attrs[types.ACon],
		p.Attrs[types.AInt], p.Attrs[types.AWis], p.Attrs[types.ACha],
		capitalize(p.Alignment))

	depth := 0
	if w.Level != nil {
		depth = w.Level.Depth
	}
	line2 := fmt.Sprintf("Dlvl:%d $:%d HP:%d(%d) Pw:%d(%d) AC:%d Xp:%d/%d T:%d",
		depth, p.Gold, p.HP, p.MaxHP, p.Pw, p.MaxPw, p.AC, p.Level, p.Exp, w.Turn)
	if h := hungerLabel(p.HungerState); h != "" {
		line2 += " " + h
	}
	return [2]string{line1, line2}
}

func hungerLabel(h types.HungerState) string {
	switch h {
	case types.Satiated:
		return "Satiated"
	case types.Hungry:
		return "Hungry"
	case types.Weak:
		return "Weak"
	case types.Fainting:
		return "Fainting"
	default:
		return ""
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func applyOverlay(rows, overlay []string) []string {
	width := 0
	for _, line := range overlay {
		if len(line) > width {
			width = len(line)
		}
	}
	offx := types.ScreenCols - width - 1
	if offx < 10 || len(overlay) > types.ScreenRows-2 {
		out := make([]string, types.ScreenRows)
		for i := 0; i < len(overlay) && i < types.ScreenRows; i++ {
			out[i] = overlay[i]
		}
		return out
	}
	for i, line := range overlay {
		base := rows[i]
		if len(base) > offx {
			base = base[:offx]
		} else {
			base += strings.Repeat(" ", offx-len(base))
		}
		rows[i] = base + line
	}
	return rows
}
