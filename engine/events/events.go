// Package events implements single-pass event dispatch. Handlers turn
// events into messages and may interrupt the hero's current activity.
// They never emit further events.
package events

import (
	"fmt"

	"github.com/nathoo/replaycore/types"
)

// Outcome is what dispatching a batch of events produced.
type Outcome struct {
	Messages  []string
	Interrupt bool
}

type handler func(e types.Event) (msg string, interrupt bool)

var handlers = map[types.EventType]handler{
	types.EvMonsterHit: func(e types.Event) (string, bool) {
		return fmt.Sprintf("The %s hits!", e.Subject), true
	},
	types.EvMonsterMiss: func(e types.Event) (string, bool) {
		return fmt.Sprintf("The %s misses!", e.Subject), true
	},
	types.EvMonsterKilled: func(e types.Event) (string, bool) {
		return fmt.Sprintf("You kill the %s!", e.Subject), false
	},
	types.EvSound: func(e types.Event) (string, bool) {
		return e.Text, false
	},
	types.EvHungerChanged: hungerMessage,
	types.EvAttrChanged:   attrMessage,
	types.EvFoundHidden: func(e types.Event) (string, bool) {
		return fmt.Sprintf("You find a hidden %s.", e.Subject), true
	},
}

// Dispatch runs handlers for each event in order. Single pass.
func Dispatch(evts []types.Event) Outcome {
	var out Outcome
	for _, e := range evts {
		h, ok := handlers[e.Type]
		if !ok {
			continue
		}
		msg, interrupt := h(e)
		if msg != "" {
			out.Messages = append(out.Messages, msg)
		}
		if interrupt {
			out.Interrupt = true
		}
	}
	return out
}

func hungerMessage(e types.Event) (string, bool) {
	switch types.HungerState(e.Amount) {
	case types.Hungry:
		return "You are beginning to feel hungry.", true
	case types.Weak:
		return "You are beginning to feel weak.", true
	case types.Fainting:
		return "You faint from lack of food.", true
	case types.NotHungry:
		return "You only feel hungry now.", false
	default:
		return "", false
	}
}

var attrGain = map[string]string{
	"Str": "You must have been exercising diligently.",
	"Wis": "You must have been very observant.",
	"Dex": "You must have been working on your reflexes.",
	"Con": "You must be leading a healthy life-style.",
}

var attrLoss = map[string]string{
	"Str": "You must have been abusing your body.",
	"Wis": "You haven't been paying attention.",
	"Dex": "You haven't been working on reflexes lately.",
	"Con": "You haven't been watching your health.",
}

func attrMessage(e types.Event) (string, bool) {
	if e.Amount > 0 {
		return attrGain[e.Subject], false
	}
	return attrLoss[e.Subject], false
}
