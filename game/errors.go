package game

import "errors"

// Errors reported by the engine. All are recoverable and caller-visible;
// internal invariant violations panic instead.
var (
	// ErrInvalidPlayer is returned by player-indexed queries when the
	// index is outside the game's player count.
	ErrInvalidPlayer = errors.New("invalid player index")

	// ErrInvalidAction is returned by Apply when the action is not legal
	// in the current state. The state is left unchanged.
	ErrInvalidAction = errors.New("invalid action")

	// ErrNotRaisable is returned by RaiseBounds when the acting player
	// cannot raise.
	ErrNotRaisable = errors.New("player cannot raise")

	// ErrNotFinished is returned by ValueOfState before the hand ends.
	ErrNotFinished = errors.New("hand is not finished")

	// ErrHandFinished is returned by acting queries once the hand ends.
	ErrHandFinished = errors.New("hand is finished")
)
