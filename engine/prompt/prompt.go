// Package prompt implements the questions a command asks before it can
// resolve. A prompt consumes one key at a time and reports when it is answered.
package prompt

import "strings"

// Kind identifies what a prompt is waiting for.
type Kind int

const (
	Direction Kind = iota
	Letter
	YesNo
	Text
	Menu
)

func (k Kind) String() string {
	switch k {
	case Direction:
		return "direction"
	case Letter:
		return "letter"
	case YesNo:
		return "yes/no"
	case Text:
		return "text"
	case Menu:
		return "menu"
	default:
		return "unknown"
	}
}

// Outcome is the state of a prompt after a key.
type Outcome int

const (
	Waiting Outcome = iota
	Answered
	Cancelled
)

// Answer carries the key (or typed text) that settled a prompt.
type Answer struct {
	Key  byte
	Text string
}

// Prompt is one outstanding question.
type Prompt struct {
	Kind      Kind
	Question  string
	Choices   string   // accepted keys for Letter and YesNo; empty accepts any letter
	AllowSelf bool     // Direction accepts '.'
	Lines     []string // Menu body
	buf       []byte
}

const (
	escape    = 0x1b
	backspace = 0x08
	del       = 0x7f
)

var directionKeys = "hjklyubn"

// Accept consumes one key.
func (p *Prompt) Accept(key byte) (Outcome, Answer) {
	if key == escape {
		return Cancelled, Answer{Key: key}
	}

	switch p.Kind {
	case Direction:
		if strings.IndexByte(directionKeys, key) >= 0 || (p.AllowSelf && key == '.') {
			return Answered, Answer{Key: key}
		}
		return Cancelled, Answer{Key: key}

	case Letter:
		if key == '?' || key == '*' {
			return Waiting, Answer{}
		}
		if p.Choices != "" && strings.IndexByte(p.Choices, key) >= 0 {
			return Answered, Answer{Key: key}
		}
		if isLetter(key) {
			return Answered, Answer{Key: key}
		}
		return Waiting, Answer{}

	case YesNo:
		choices := p.Choices
		if choices == "" {
			choices = "yn"
		}
		if strings.IndexByte(choices, key) >= 0 {
			return Answered, Answer{Key: key}
		}
		return Waiting, Answer{}

	case Text:
		switch key {
		case '\r', '\n':
			text := string(p.buf)
			p.buf = nil
			return Answered, Answer{Key: key, Text: text}
		case backspace, del:
			if len(p.buf) > 0 {
				p.buf = p.buf[:len(p.buf)-1]
			}
			return Waiting, Answer{}
		}
		if key >= 0x20 && key < 0x7f {
			p.buf = append(p.buf, key)
		}
		return Waiting, Answer{}

	case Menu:
		return Answered, Answer{Key: key}
	}
	return Cancelled, Answer{Key: key}
}

// Typed returns the text typed so far into a Text prompt.
func (p *Prompt) Typed() string {
	return string(p.buf)
}

// MessageLine renders the prompt as it appears on the message row.
func (p *Prompt) MessageLine() string {
	switch p.Kind {
	case Letter:
		if p.Choices != "" {
			return p.Question + " [" + p.Choices + " or ?*]"
		}
		return p.Question + " [*]"
	case YesNo:
		choices := p.Choices
		if choices == "" {
			choices = "yn"
		}
		return p.Question + " [" + choices + "] (n)"
	case Text:
		return p.Question + " " + string(p.buf)
	default:
		return p.Question
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
