package engine

import (
	"github.com/nathoo/replaycore/engine/display"
	"github.com/nathoo/replaycore/engine/parser"
	"github.com/nathoo/replaycore/engine/prompt"
	"github.com/nathoo/replaycore/types"
)

// CommandResult is what applying one byte produced.
type CommandResult struct {
	Kind     types.CommandKind
	Moved    bool
	TookTime bool

	// Suspended is set when the command is waiting for more input.
	Suspended *Pending
	// Screen is captured by screen-producing commands while their window is up.
	Screen []string
	// Acknowledged is set when the byte only dismissed a --More--.
	Acknowledged bool
}

// PendingClass tells a caller how to inject recorded keys into a pending command.
type PendingClass int

const (
	// PendingPlain takes one key per recorded keystroke.
	PendingPlain PendingClass = iota
	// PendingExtended takes a whole typed command name, then Enter.
	PendingExtended
)

func (c PendingClass) String() string {
	if c == PendingExtended {
		return "extended"
	}
	return "plain"
}

// Pending is a command suspended on a prompt. Feed it keys until Settled.
type Pending struct {
	Kind   types.CommandKind
	Prompt *prompt.Prompt
	Class  PendingClass

	h      *Harness
	resume func(prompt.Answer) CommandResult
	done   bool
	result CommandResult
}

// Feed hands the next key to the command. Until the command settles the
// result carries Suspended; afterwards it is the command's final result.
func (p *Pending) Feed(key byte) CommandResult {
	p.h.keysFed++
	return p.feed(key)
}

// Settled reports whether the command has finished, answered or cancelled.
func (p *Pending) Settled() bool {
	return p.done
}

// Result returns the final result once the command has settled.
func (p *Pending) Result() (CommandResult, bool) {
	return p.result, p.done
}

// Cancel aborts the command by feeding it an escape.
func (p *Pending) Cancel() CommandResult {
	return p.Feed(parser.Escape)
}

func (p *Pending) feed(key byte) CommandResult {
	if p.done {
		return CommandResult{Kind: types.CmdNone}
	}
	out, ans := p.Prompt.Accept(key)
	switch out {
	case prompt.Waiting:
		return CommandResult{Kind: p.Kind, Suspended: p}
	case prompt.Cancelled:
		if p.Prompt.Kind == prompt.Direction && key != parser.Escape {
			p.h.message("What a strange direction!")
		}
		return p.settle(CommandResult{Kind: p.Kind})
	default:
		return p.settle(p.resume(ans))
	}
}

func (p *Pending) settle(res CommandResult) CommandResult {
	p.done = true
	p.result = res
	if p.h.pending == p {
		p.h.pending = nil
	}
	display.UpdateVision(p.h.World)
	return res
}

// suspend parks a command on a prompt. Menus capture the screen while the
// window is up.
func (h *Harness) suspend(kind types.CommandKind, pr *prompt.Prompt, class PendingClass, resume func(prompt.Answer) CommandResult) CommandResult {
	p := &Pending{Kind: kind, Prompt: pr, Class: class, h: h, resume: resume}
	h.pending = p
	res := CommandResult{Kind: kind, Suspended: p}
	if pr.Kind == prompt.Menu {
		_, res.Screen = h.Render()
	}
	return res
}
