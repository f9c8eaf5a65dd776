package game

import "fmt"

// ActionType identifies a betting action.
type ActionType int

const (
	Fold ActionType = iota
	Call
	Raise
	Invalid
)

func (t ActionType) String() string {
	switch t {
	case Fold:
		return "fold"
	case Call:
		return "call"
	case Raise:
		return "raise"
	default:
		return "invalid"
	}
}

// Action is one player decision. For raises, Size is the absolute total the
// acting player will have committed this hand afterwards, not an increment:
// raising "to" 200 sets that player's commitment to exactly 200.
type Action struct {
	Type ActionType
	Size int
}

// FoldAction gives up the hand.
func FoldAction() Action {
	return Action{Type: Fold}
}

// CallAction matches the current highest commitment, going all-in if the
// player's stack is smaller.
func CallAction() Action {
	return Action{Type: Call}
}

// RaiseTo raises the acting player's total commitment to size.
func RaiseTo(size int) Action {
	return Action{Type: Raise, Size: size}
}

// String formats the action in ACPC log notation: f, c, or r<size>.
func (a Action) String() string {
	switch a.Type {
	case Fold:
		return "f"
	case Call:
		return "c"
	case Raise:
		return fmt.Sprintf("r%d", a.Size)
	default:
		return "invalid"
	}
}
