// Package resolve maps prompt answers to world things: direction keys to
// deltas and inventory letters to objects.
package resolve

import (
	"fmt"

	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

// Delta is a one-step direction.
type Delta struct {
	DX, DY int
}

var directions = map[byte]Delta{
	'h': {-1, 0},
	'j': {0, 1},
	'k': {0, -1},
	'l': {1, 0},
	'y': {-1, -1},
	'u': {1, -1},
	'b': {-1, 1},
	'n': {1, 1},
	'.': {0, 0},
}

// Direction returns the delta for a direction key. The self direction
// '.' is only accepted when allowSelf is set.
func Direction(key byte, allowSelf bool) (Delta, bool) {
	d, ok := directions[key]
	if !ok {
		return Delta{}, false
	}
	if d.DX == 0 && d.DY == 0 && !allowSelf {
		return Delta{}, false
	}
	return d, true
}

// IsDirection reports whether key names a compass direction.
func IsDirection(key byte) bool {
	_, ok := Direction(key, false)
	return ok
}

// NotFoundError indicates no inventory item carries the letter.
type NotFoundError struct {
	Letter byte
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("You don't have that object (%c).", e.Letter)
}

// UnsuitableError indicates the item exists but cannot be used this way.
type UnsuitableError struct {
	Verb string
	Item string
}

func (e *UnsuitableError) Error() string {
	return fmt.Sprintf("You cannot %s the %s.", e.Verb, e.Item)
}

// Item resolves an inventory letter. When accept is non-nil the item must satisfy it.
func Item(p *types.Player, letter byte, verb string, accept func(*types.Object) bool) (*types.Object, error) {
	o := state.InventoryItem(p, letter)
	if o == nil {
		return nil, &NotFoundError{Letter: letter}
	}
	if accept != nil && !accept(o) {
		return nil, &UnsuitableError{Verb: verb, Item: o.Name}
	}
	return o, nil
}

// Letters returns the inventory letters satisfying accept, in inventory order.
func Letters(p *types.Player, accept func(*types.Object) bool) string {
	var out []byte
	for _, o := range p.Inventory {
		if accept == nil || accept(o) {
			out = append(out, o.Letter)
		}
	}
	return string(out)
}
