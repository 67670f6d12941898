package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled level can host the hero.
func validate(l *types.Level, ve *ValidationError) {
	open := 0
	for y := 0; y < types.MapRows; y++ {
		for x := 0; x < types.MapCols; x++ {
			if state.Walkable(l, x, y) {
				open++
			}
		}
	}
	if open == 0 {
		ve.Errors = append(ve.Errors, "level has no open ground")
	}

	if l.UpStairs == nil {
		ve.Warnings = append(ve.Warnings, "level has no up stairs; the hero arrives in the first room")
	}
	if l.DownStairs == nil {
		ve.Warnings = append(ve.Warnings, "level has no down stairs")
	}

	for _, o := range l.Objects {
		if !state.Walkable(l, o.X, o.Y) {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s at (%d,%d) is buried in rock", o.Name, o.X, o.Y))
		}
	}
	for _, e := range l.Engravings {
		if !state.Walkable(l, e.X, e.Y) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("engraving at (%d,%d) is not on open ground", e.X, e.Y))
		}
	}
}
