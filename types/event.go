package types

// EventType identifies something that happened during a turn.
type EventType int

const (
	EvMonsterHit EventType = iota
	EvMonsterMiss
	EvMonsterKilled
	EvMonsterSpawned
	EvSound
	EvRegenerated
	EvHungerChanged
	EvAttrChanged
	EvEngravingWiped
	EvFoundHidden
)

// Event is emitted by turn processing and dispatched once.
type Event struct {
	Type    EventType
	Subject string // monster or object name, attribute name, ...
	Amount  int    // damage, attribute delta, new hunger state, ...
	Text    string // pre-rendered text for sounds
}
