// Package save implements JSON checkpoints of a running simulation: the
// whole world plus the exact generator state, so a restored run draws the
// same numbers the original would have.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/types"
)

// Version is the current checkpoint format.
const Version = 1

// Checkpoint is the JSON-serializable snapshot format.
type Checkpoint struct {
	Version       int                  `json:"version"`
	Depth         int                  `json:"depth"`
	Turn          int                  `json:"turn"`
	SeerTurn      int                  `json:"seer_turn"`
	NextID        int                  `json:"next_id"`
	NextAttrCheck int                  `json:"next_attr_check"`
	Player        types.Player         `json:"player"`
	Levels        map[int]*types.Level `json:"levels"`
	Messages      []string             `json:"messages"`
	Track         []types.Coord        `json:"track"`
	RNG           rng.Snapshot         `json:"rng"`
}

// Capture snapshots a world and its generator.
func Capture(w *types.World, r *rng.RNG) *Checkpoint {
	c := &Checkpoint{
		Version:       Version,
		Turn:          w.Turn,
		SeerTurn:      w.SeerTurn,
		NextID:        w.NextID,
		NextAttrCheck: w.NextAttrCheck,
		Player:        w.Player,
		Levels:        w.Levels,
		Messages:      w.Messages,
		Track:         w.Track,
		RNG:           r.Snapshot(),
	}
	if w.Level != nil {
		c.Depth = w.Level.Depth
	}
	return c
}

// Marshal serializes a checkpoint to JSON bytes.
func Marshal(c *Checkpoint) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Load deserializes and checks a checkpoint.
func Load(data []byte) (*Checkpoint, error) {
	var c Checkpoint
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding checkpoint: %w", err)
	}
	if c.Version != Version {
		return nil, fmt.Errorf("checkpoint version %d, want %d", c.Version, Version)
	}
	if c.Levels[c.Depth] == nil {
		return nil, fmt.Errorf("checkpoint has no level at depth %d", c.Depth)
	}
	return &c, nil
}

// Apply rebuilds the world and generator a checkpoint describes. The
// generator comes back with logging off.
func Apply(c *Checkpoint) (*types.World, *rng.RNG) {
	w := &types.World{
		Level:         c.Levels[c.Depth],
		Levels:        c.Levels,
		Player:        c.Player,
		Turn:          c.Turn,
		SeerTurn:      c.SeerTurn,
		Messages:      c.Messages,
		NextID:        c.NextID,
		Track:         c.Track,
		NextAttrCheck: c.NextAttrCheck,
	}
	return w, rng.Restore(c.RNG)
}
