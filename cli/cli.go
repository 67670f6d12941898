// Package cli provides terminal I/O for replaycore: an interactive
// headless play loop with meta-commands, and the replay runner.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/replaycore/engine"
	"github.com/nathoo/replaycore/engine/parser"
	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/types"
)

// CLI plays a harness from line-oriented input. Each line is a key
// sequence in recorded-key notation; lines starting with '/' are
// meta-commands.
type CLI struct {
	Harness   *engine.Harness
	Options   engine.Options
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI for h. opts must be the options h was built with so
// /load can rebuild an equivalent harness.
func New(h *engine.Harness, opts engine.Options) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Harness: h,
		Options: opts,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".replaycore", "checkpoints"),
	}
}

// Run shows the opening screen, then loops: prompt → keys → screen.
func (c *CLI) Run() {
	c.Harness.TakeRng()
	c.printScreen(true)

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimRight(scanner.Text(), "\r")
		if input == "" || strings.HasPrefix(input, "//") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") && len(input) > 1 {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		for _, b := range parser.ParseKey(input) {
			c.Harness.Step(b)
		}
		drawn := c.Harness.TakeRng()
		c.printScreen(false)
		if c.Trace {
			c.printTrace(drawn)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if play should stop.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/map":
		c.printScreen(true)

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := c.Harness.Checkpoint()
	if errors.Is(err, engine.ErrBusy) {
		c.printSystem("Cannot save while a command is in progress.")
		return
	}
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Checkpoint saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	h, err := engine.Resume(data, c.Options)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.Harness = h
	c.printSystem(fmt.Sprintf("Checkpoint loaded from %s (turn %d).", name, h.World.Turn))
	c.printScreen(true)
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  Save a checkpoint (default: quicksave)",
		"  /load [name]  Resume a checkpoint (default: quicksave)",
		"  /state        Dump hero, turn and RNG state",
		"  /map          Show the whole screen",
		"  /trace        Toggle RNG trace output",
		"  /quit         Stop playing",
		"",
		"Anything else is a key sequence, e.g. \"l\", \"10s\", \"oh\", \"#pray\\r\"",
		"or a key name: esc, enter, space, ^X.",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	w := c.Harness.World
	p := w.Player
	depth := 0
	if w.Level != nil {
		depth = w.Level.Depth
	}
	c.printSystem(fmt.Sprintf("Turn: %d  Depth: %d  Position: (%d,%d)", w.Turn, depth, p.X, p.Y))
	c.printSystem(fmt.Sprintf("HP: %d(%d)  Pw: %d(%d)  Level: %d  Exp: %d", p.HP, p.MaxHP, p.Pw, p.MaxPw, p.Level, p.Exp))
	c.printSystem(fmt.Sprintf("Hunger: %d  Luck: %d  Gold: %d", p.Hunger, p.Luck, p.Gold))
	c.printSystem(fmt.Sprintf("RNG: seed %d, %d calls", c.Harness.RNG.Seed(), c.Harness.RNG.Calls()))
	if pd := c.Harness.Pending(); pd != nil {
		c.printSystem(fmt.Sprintf("Pending: %s (%s prompt)", pd.Kind, pd.Prompt.Kind))
	}
	if n := c.Harness.Count(); n > 0 {
		c.printSystem(fmt.Sprintf("Count: %d", n))
	}
}

func (c *CLI) printTrace(entries []types.RngLogEntry) {
	for _, e := range entries {
		c.printLine("[trace] " + rng.Format(e))
	}
}

// printScreen prints the message and status rows, or the whole screen.
func (c *CLI) printScreen(full bool) {
	_, screen := c.Harness.Render()
	if full {
		last := len(screen) - 1
		for last >= 0 && strings.TrimSpace(screen[last]) == "" {
			last--
		}
		for _, line := range screen[:last+1] {
			c.printLine(strings.TrimRight(line, " "))
		}
		return
	}
	if msg := strings.TrimRight(screen[0], " "); msg != "" {
		c.printLine(msg)
	}
	for _, line := range screen[types.ScreenRows-2:] {
		c.printLine(strings.TrimRight(line, " "))
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
