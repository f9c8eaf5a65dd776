// Package tree enumerates the betting tree of a game definition. Nodes live
// in a flat arena and refer to their parents by index, so a fully built tree
// can be walked in either direction without pointer chasing.
//
// Card deals are not part of the tree; it covers betting sequences only.
// Terminal states that end by folds therefore have exact payoffs, while
// showdown terminals need cards before they can be valued.
package tree

import (
	"fmt"
	"strings"

	"github.com/lox/acpc/game"
)

// NoParent marks a node whose action was taken at the root state.
const NoParent = -1

// Node is one betting action in the arena. Parent indexes the preceding
// action, or NoParent for an opening action.
type Node struct {
	Parent int
	Player int
	Action game.Action
}

// Terminal records a finished state and the arena index of the action that
// ended the hand.
type Terminal struct {
	Node  int
	State *game.State
}

// ActionFunc generates the candidate actions to branch on at a state.
// Candidates that are not valid for the state are skipped.
type ActionFunc func(s *game.State) []game.Action

// DefaultActions branches on fold, call and the minimum raise. For limit
// games this covers every distinct action; for no-limit games it is the
// coarsest useful abstraction.
func DefaultActions(s *game.State) []game.Action {
	acts := make([]game.Action, 0, 3)
	if s.IsValidAction(game.FoldAction()) {
		acts = append(acts, game.FoldAction())
	}
	if s.IsValidAction(game.CallAction()) {
		acts = append(acts, game.CallAction())
	}
	if min, _, err := s.RaiseBounds(); err == nil {
		acts = append(acts, game.RaiseTo(min))
	}
	return acts
}

// Option configures Build.
type Option func(*builder)

// WithActions replaces the DefaultActions branching function.
func WithActions(fn ActionFunc) Option {
	return func(b *builder) { b.actions = fn }
}

// WithHandID sets the hand id of the root state.
func WithHandID(id uint32) Option {
	return func(b *builder) { b.handID = id }
}

type builder struct {
	actions ActionFunc
	handID  uint32
}

// Tree is an immutable betting tree. The arena is in depth-first order, so a
// node's parent always precedes it.
type Tree struct {
	nodes     []Node
	terminals []Terminal
}

// Build enumerates every betting sequence of the definition reachable
// through the branching function.
func Build(def *game.Definition, opts ...Option) (*Tree, error) {
	b := builder{actions: DefaultActions}
	for _, opt := range opts {
		opt(&b)
	}

	t := &Tree{}
	root := game.NewState(def, b.handID)
	if err := t.expand(root, NoParent, b.actions); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) expand(s *game.State, parent int, gen ActionFunc) error {
	if s.IsFinished() {
		t.terminals = append(t.terminals, Terminal{Node: parent, State: s})
		return nil
	}

	player, err := s.CurrentPlayer()
	if err != nil {
		return err
	}
	expanded := false
	for _, a := range gen(s) {
		if !s.IsValidAction(a) {
			continue
		}
		child := s.Clone()
		if err := child.Apply(a); err != nil {
			return err
		}
		idx := len(t.nodes)
		t.nodes = append(t.nodes, Node{Parent: parent, Player: player, Action: a})
		if err := t.expand(child, idx, gen); err != nil {
			return err
		}
		expanded = true
	}
	if !expanded {
		return fmt.Errorf("tree: no valid action for player %d at an unfinished state", player)
	}
	return nil
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the arena node at index i.
func (t *Tree) Node(i int) Node {
	return t.nodes[i]
}

// Terminals returns every finished state in depth-first order.
func (t *Tree) Terminals() []Terminal {
	return t.terminals
}

// Path returns the actions from the root down to and including node i,
// reconstructed through the parent indices.
func (t *Tree) Path(i int) []Node {
	var path []Node
	for n := i; n != NoParent; n = t.nodes[n].Parent {
		path = append(path, t.nodes[n])
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// History formats the path to node i, one entry per action.
func (t *Tree) History(i int) string {
	var sb strings.Builder
	for j, n := range t.Path(i) {
		if j > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "P%d:%s", n.Player, n.Action)
	}
	return sb.String()
}
