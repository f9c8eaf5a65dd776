package server

import (
	"context"
	"fmt"

	"github.com/lox/acpc/game"
	"github.com/lox/acpc/internal/dealer"
)

// runMatch deals the configured number of hands and reports totals.
func (s *Server) runMatch(ctx context.Context) error {
	cards := dealer.New(s.cfg.Seed)
	totals := make([]float64, s.def.NumPlayers())

	s.logger.Info("match starting", "hands", s.cfg.Hands, "seed", s.cfg.Seed)

	hands := 0
	for h := 0; h < s.cfg.Hands; h++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.playHand(ctx, uint32(h), cards, totals); err != nil {
			return fmt.Errorf("hand %d: %w", h, err)
		}
		hands++
	}

	end, err := NewMessage(MessageTypeMatchEnd, MatchEndData{Hands: hands, Totals: totals})
	if err != nil {
		return err
	}
	s.broadcast(end)
	s.logger.Info("match complete", "hands", hands, "totals", totals)
	return nil
}

func (s *Server) playHand(ctx context.Context, handID uint32, cards *dealer.Dealer, totals []float64) error {
	state := game.NewState(s.def, handID)
	if err := cards.DealHand(state); err != nil {
		return err
	}

	blinds := make([]int, s.def.NumPlayers())
	for p := range blinds {
		b, err := s.def.Blind(p)
		if err != nil {
			return err
		}
		blinds[p] = b
	}

	for p := 0; p < s.def.NumPlayers(); p++ {
		hole, err := state.HoleCards(p)
		if err != nil {
			return err
		}
		msg, err := NewMessage(MessageTypeHandStart, HandStartData{
			HandID:    handID,
			Seat:      p,
			HoleCards: cardStrings(hole),
			Blinds:    blinds,
		})
		if err != nil {
			return err
		}
		if conn := s.seatConn(p); conn != nil {
			_ = conn.Send(msg)
		}
	}

	round := state.Round()
	for !state.IsFinished() {
		p, err := state.CurrentPlayer()
		if err != nil {
			return err
		}

		action := s.requestAction(ctx, state, p)
		if err := state.Apply(action); err != nil {
			// The substituted default must always be legal.
			return fmt.Errorf("seat %d action %s: %w", p, action, err)
		}

		acted, err := NewMessage(MessageTypePlayerAction, PlayerActionData{
			HandID: handID,
			Seat:   p,
			Action: action.Type.String(),
			Size:   action.Size,
			Pot:    state.TotalSpent(),
		})
		if err != nil {
			return err
		}
		s.broadcast(acted)

		if state.Round() != round {
			round = state.Round()
			if err := cards.Reveal(state); err != nil {
				return err
			}
			msg, err := NewMessage(MessageTypeRound, RoundData{
				HandID: handID,
				Round:  round,
				Board:  cardStrings(state.BoardCards()),
			})
			if err != nil {
				return err
			}
			s.broadcast(msg)
		}
	}

	values := make([]float64, s.def.NumPlayers())
	for p := range values {
		v, err := state.ValueOfState(p)
		if err != nil {
			return err
		}
		values[p] = v
		totals[p] += v
	}

	end, err := NewMessage(MessageTypeHandEnd, HandEndData{
		HandID:    handID,
		Board:     cardStrings(state.BoardCards()),
		HoleCards: revealedHoleCards(state),
		Values:    values,
	})
	if err != nil {
		return err
	}
	s.broadcast(end)

	s.logger.Debug("hand settled", "hand", handID, "pot", state.TotalSpent(), "values", values)
	return nil
}

// requestAction asks the seat to act and falls back to defaultAction on
// timeout, disconnect or an illegal reply.
func (s *Server) requestAction(ctx context.Context, state *game.State, seat int) game.Action {
	conn := s.seatConn(seat)
	if conn == nil {
		return defaultAction(state)
	}

	// Discard any action left over from a previous request.
	select {
	case <-conn.Actions():
	default:
	}

	req := ActionRequiredData{
		HandID:         state.HandID(),
		Seat:           seat,
		CanFold:        state.IsValidAction(game.FoldAction()),
		Pot:            state.TotalSpent(),
		MaxSpent:       state.MaxSpent(),
		Board:          cardStrings(state.BoardCards()),
		TimeoutSeconds: int(s.cfg.ActionTimeout.Seconds()),
	}
	if min, max, err := state.RaiseBounds(); err == nil {
		req.RaiseBounds = &RaiseBoundsData{Min: min, Max: max}
	}
	msg, err := NewMessage(MessageTypeActionRequired, req)
	if err != nil {
		s.logger.Error("failed to create action request", "error", err)
		return defaultAction(state)
	}
	if err := conn.Send(msg); err != nil {
		return s.substitute(state, seat, "disconnected")
	}

	timedOut := make(chan struct{})
	timer := s.clock.AfterFunc(s.cfg.ActionTimeout, func() {
		close(timedOut)
	})
	defer timer.Stop()

	select {
	case data := <-conn.Actions():
		action, err := parseAction(data)
		if err != nil {
			conn.sendError("invalid_action", err.Error())
			return s.substitute(state, seat, "invalid")
		}
		if !state.IsValidAction(action) {
			conn.sendError("invalid_action", fmt.Sprintf("%s is not legal now", action))
			return s.substitute(state, seat, "invalid")
		}
		return action

	case <-timedOut:
		return s.substitute(state, seat, "timeout")

	case <-conn.Done():
		return s.substitute(state, seat, "disconnected")

	case <-ctx.Done():
		return defaultAction(state)
	}
}

// substitute picks the default action and tells the table why.
func (s *Server) substitute(state *game.State, seat int, reason string) game.Action {
	action := defaultAction(state)
	s.logger.Warn("substituting action", "seat", seat, "reason", reason, "action", action)

	msg, err := NewMessage(MessageTypeTimeout, TimeoutData{
		HandID: state.HandID(),
		Seat:   seat,
		Action: action.Type.String(),
	})
	if err == nil {
		s.broadcast(msg)
	}
	return action
}

// defaultAction folds when facing a bet and checks otherwise.
func defaultAction(state *game.State) game.Action {
	if state.IsValidAction(game.FoldAction()) {
		return game.FoldAction()
	}
	return game.CallAction()
}

// revealedHoleCards exposes every surviving seat's cards when the hand went
// to showdown. Hands that end by folds reveal nothing.
func revealedHoleCards(state *game.State) [][]string {
	n := state.Definition().NumPlayers()
	out := make([][]string, n)
	if state.NumFolded() >= n-1 {
		return out
	}
	for p := 0; p < n; p++ {
		folded, err := state.PlayerFolded(p)
		if err != nil || folded {
			continue
		}
		hole, err := state.HoleCards(p)
		if err != nil || hole == nil {
			continue
		}
		out[p] = cardStrings(hole)
	}
	return out
}
