// Package game implements the ACPC betting rules: an immutable game
// definition, a per-hand betting state machine, action validation with
// limit and no-limit raise bounds, and terminal payoff valuation.
//
// A driver constructs one Definition, then for each hand creates a fresh
// State, repeatedly queries CurrentPlayer and IsValidAction, applies one
// action at a time with Apply until IsFinished, and settles the hand with
// ValueOfState. Cards are supplied by an external dealer through
// SetHoleCards and SetBoardCards; showdown ranking is delegated to a
// poker.Evaluator.
package game
