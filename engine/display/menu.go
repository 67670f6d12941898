package display

import (
	"fmt"
	"strings"

	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

// Paginate splits the messages of one action into message-row pages.
// Messages share a page while they fit alongside a trailing --More--.
func Paginate(msgs []string) []string {
	limit := types.ScreenCols - len(More) - 1
	var pages []string
	cur := ""
	for _, m := range msgs {
		if m == "" {
			continue
		}
		switch {
		case cur == "":
			cur = m
		case len(cur)+2+len(m) <= limit:
			cur += "  " + m
		default:
			pages = append(pages, cur)
			cur = m
		}
	}
	if cur != "" {
		pages = append(pages, cur)
	}
	return pages
}

// MessageLine returns what the message row shows for page i of pages.
func MessageLine(pages []string, i int) string {
	if i < 0 || i >= len(pages) {
		return ""
	}
	if i < len(pages)-1 {
		return pages[i] + More
	}
	return pages[i]
}

// Menu frames menu lines the way a menu window shows them.
func Menu(lines []string) []string {
	out := make([]string, 0, len(lines)+1)
	for _, l := range lines {
		out = append(out, " "+l)
	}
	return append(out, " (end)")
}

var classOrder = []struct {
	symbol rune
	name   string
}{
	{'$', "Coins"},
	{')', "Weapons"},
	{'[', "Armor"},
	{'%', "Comestibles"},
	{'?', "Scrolls"},
	{'!', "Potions"},
	{'(', "Tools"},
}

// InventoryMenu lists the hero's inventory grouped by object class.
// Returns nil for an empty inventory.
func InventoryMenu(p *types.Player) []string {
	if len(p.Inventory) == 0 {
		return nil
	}
	var lines []string
	for _, class := range classOrder {
		var items []string
		for _, o := range p.Inventory {
			if o.Symbol == class.symbol {
				items = append(items, fmt.Sprintf("%c - %s", o.Letter, Describe(o)))
			}
		}
		if len(items) > 0 {
			lines = append(lines, class.name)
			lines = append(lines, items...)
		}
	}
	return Menu(lines)
}

// AttributesMenu describes the hero the way the attributes command does.
func AttributesMenu(w *types.World) []string {
	p := w.Player
	title, god := p.Role, ""
	if role, ok := state.LookupRole(p.Role); ok {
		title, god = role.Title, role.God
	}
	depth := 0
	if w.Level != nil {
		depth = w.Level.Depth
	}
	turns := "turn"
	if w.Turn != 1 {
		turns = "turns"
	}
	wallet := "Your wallet is empty."
	if p.Gold > 0 {
		wallet = fmt.Sprintf("Your wallet contains %d zorkmid%s.", p.Gold, plural(p.Gold))
	}
	hp := fmt.Sprintf("You have all %d hit points.", p.MaxHP)
	if p.HP < p.MaxHP {
		hp = fmt.Sprintf("You have %d out of %d hit points.", p.HP, p.MaxHP)
	}
	return Menu([]string{
		fmt.Sprintf("%s the %s's attributes:", p.Name, title),
		"",
		"Background:",
		fmt.Sprintf(" You are %s %s, a level %d %s %s %s.",
			Article(title), title, p.Level, strings.ToLower(p.Gender), p.Race, p.Role),
		fmt.Sprintf(" You are %s, on a mission for %s.", p.Alignment, god),
		fmt.Sprintf(" You are in the Dungeons of Doom, on level %d.", depth),
		fmt.Sprintf(" You entered the dungeon %d %s ago.", w.Turn, turns),
		"",
		"Basics:",
		" " + hp,
		fmt.Sprintf(" You have %d out of %d energy points.", p.Pw, p.MaxPw),
		fmt.Sprintf(" Your armor class is %d.", p.AC),
		fmt.Sprintf(" You have %d experience point%s.", p.Exp, plural(p.Exp)),
		" " + wallet,
	})
}

// Describe names an object with its article or count.
func Describe(o *types.Object) string {
	if o.Quantity > 1 {
		return fmt.Sprintf("%d %ss", o.Quantity, o.Name)
	}
	return Article(o.Name) + " " + o.Name
}

// Article returns "a" or "an" for a noun.
func Article(noun string) string {
	if noun != "" && strings.ContainsRune("aeiouAEIOU", rune(noun[0])) {
		return "an"
	}
	return "a"
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
