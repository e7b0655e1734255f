package domain

// CommandType classifies what the user wants the player to do.
type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandPlay
	CommandPause
	CommandToggle
	CommandNext
	CommandPrevious
	CommandStatus
	CommandRepeat // say the current step again
	CommandHelp
	CommandQuit
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CommandPlay:
		return "play"
	case CommandPause:
		return "pause"
	case CommandToggle:
		return "toggle"
	case CommandNext:
		return "next"
	case CommandPrevious:
		return "previous"
	case CommandStatus:
		return "status"
	case CommandRepeat:
		return "repeat"
	case CommandHelp:
		return "help"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command is a parsed user action aimed at the player.
type Command struct {
	Type CommandType
	Raw  string
}
