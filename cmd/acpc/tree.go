package main

import (
	"fmt"
	"strings"

	"github.com/lox/acpc/game"
	"github.com/lox/acpc/tree"
)

// TreeCmd prints every betting sequence of a game with the terminal
// payoffs that are known without cards.
type TreeCmd struct {
	Game      string `arg:"" help:"Game definition file"`
	Terminals bool   `help:"Print only terminal histories"`
}

func (c *TreeCmd) Run() error {
	def, err := game.LoadDefinition(c.Game)
	if err != nil {
		return err
	}

	tr, err := tree.Build(def)
	if err != nil {
		return err
	}

	if !c.Terminals {
		fmt.Printf("%d nodes, %d terminals\n", tr.Len(), len(tr.Terminals()))
	}

	for _, term := range tr.Terminals() {
		fmt.Printf("%s %s\n", tr.History(term.Node), terminalValues(term.State))
	}
	return nil
}

// terminalValues formats the payoff vector of a finished state, or marks
// the terminal as a showdown when payoffs depend on cards.
func terminalValues(s *game.State) string {
	values := make([]string, s.Definition().NumPlayers())
	for p := range values {
		v, err := s.ValueOfState(p)
		if err != nil {
			return "[showdown]"
		}
		values[p] = fmt.Sprintf("%+.0f", v)
	}
	return "[" + strings.Join(values, " ") + "]"
}
