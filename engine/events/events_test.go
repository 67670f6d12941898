package events

import (
	"testing"

	"github.com/nathoo/replaycore/types"
)

func TestDispatch_Empty(t *testing.T) {
	out := Dispatch(nil)
	if len(out.Messages) != 0 || out.Interrupt {
		t.Errorf("expected empty outcome, got %+v", out)
	}
}

func TestDispatch_MonsterHitInterrupts(t *testing.T) {
	out := Dispatch([]types.Event{{Type: types.EvMonsterHit, Subject: "jackal", Amount: 2}})
	if !out.Interrupt {
		t.Error("expected interrupt")
	}
	if len(out.Messages) != 1 || out.Messages[0] != "The jackal hits!" {
		t.Errorf("messages = %v", out.Messages)
	}
}

func TestDispatch_SoundDoesNotInterrupt(t *testing.T) {
	out := Dispatch([]types.Event{{Type: types.EvSound, Text: "You hear bubbling water."}})
	if out.Interrupt {
		t.Error("sound should not interrupt")
	}
	if len(out.Messages) != 1 || out.Messages[0] != "You hear bubbling water." {
		t.Errorf("messages = %v", out.Messages)
	}
}

func TestDispatch_SilentEvents(t *testing.T) {
	out := Dispatch([]types.Event{
		{Type: types.EvRegenerated, Amount: 1},
		{Type: types.EvEngravingWiped},
		{Type: types.EvMonsterSpawned, Subject: "newt"},
	})
	if len(out.Messages) != 0 || out.Interrupt {
		t.Errorf("expected silent outcome, got %+v", out)
	}
}

func TestDispatch_OrderPreserved(t *testing.T) {
	out := Dispatch([]types.Event{
		{Type: types.EvMonsterMiss, Subject: "newt"},
		{Type: types.EvHungerChanged, Amount: int(types.Hungry)},
		{Type: types.EvAttrChanged, Subject: "Con", Amount: 1},
	})
	want := []string{
		"The newt misses!",
		"You are beginning to feel hungry.",
		"You must be leading a healthy life-style.",
	}
	if len(out.Messages) != len(want) {
		t.Fatalf("messages = %v", out.Messages)
	}
	for i := range want {
		if out.Messages[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, out.Messages[i], want[i])
		}
	}
}
