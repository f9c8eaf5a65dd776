package simulator

import (
	"fmt"
	"math/rand"

	"github.com/lox/acpc/game"
)

// Strategy decides an action for a seat. Implementations must return an
// action that is valid for the state.
type Strategy interface {
	Name() string
	Act(s *game.State, seat int) (game.Action, error)
}

// NewStrategy builds one of the built-in strategies: call, rand or fold.
func NewStrategy(name string, rng *rand.Rand) (Strategy, error) {
	switch name {
	case "call":
		return callStrategy{}, nil
	case "fold":
		return foldStrategy{}, nil
	case "rand":
		if rng == nil {
			return nil, fmt.Errorf("rand strategy needs a random source")
		}
		return &randStrategy{rng: rng}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// callStrategy always checks or calls.
type callStrategy struct{}

func (callStrategy) Name() string { return "call" }

func (callStrategy) Act(s *game.State, seat int) (game.Action, error) {
	return game.CallAction(), nil
}

// foldStrategy folds whenever there is a bet to fold to, otherwise checks.
type foldStrategy struct{}

func (foldStrategy) Name() string { return "fold" }

func (foldStrategy) Act(s *game.State, seat int) (game.Action, error) {
	if s.IsValidAction(game.FoldAction()) {
		return game.FoldAction(), nil
	}
	return game.CallAction(), nil
}

// randStrategy picks uniformly among fold, call and a uniformly random
// raise target.
type randStrategy struct {
	rng *rand.Rand
}

func (r *randStrategy) Name() string { return "rand" }

func (r *randStrategy) Act(s *game.State, seat int) (game.Action, error) {
	actions := []game.Action{game.CallAction()}
	if s.IsValidAction(game.FoldAction()) {
		actions = append(actions, game.FoldAction())
	}
	if min, max, err := s.RaiseBounds(); err == nil {
		target := min
		if max > min {
			target += r.rng.Intn(max - min + 1)
		}
		actions = append(actions, game.RaiseTo(target))
	}
	return actions[r.rng.Intn(len(actions))], nil
}
