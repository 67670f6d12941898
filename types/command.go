package types

// CommandKind is the closed set of harness commands.
type CommandKind int

const (
	CmdNone CommandKind = iota // unknown or out-of-range byte
	CmdMove
	CmdFight
	CmdRest
	CmdSearch
	CmdInventory
	CmdEat
	CmdDrop
	CmdPickup
	CmdOpen
	CmdClose
	CmdLook
	CmdUp
	CmdDown
	CmdExtended
	CmdAttributes
	CmdEscape
	CmdCount
)

var commandNames = [...]string{
	CmdNone:       "none",
	CmdMove:       "move",
	CmdFight:      "fight",
	CmdRest:       "rest",
	CmdSearch:     "search",
	CmdInventory:  "inventory",
	CmdEat:        "eat",
	CmdDrop:       "drop",
	CmdPickup:     "pickup",
	CmdOpen:       "open",
	CmdClose:      "close",
	CmdLook:       "look",
	CmdUp:         "up",
	CmdDown:       "down",
	CmdExtended:   "extended",
	CmdAttributes: "attributes",
	CmdEscape:     "escape",
	CmdCount:      "count",
}

func (k CommandKind) String() string {
	if k < 0 || int(k) >= len(commandNames) {
		return "none"
	}
	return commandNames[k]
}
