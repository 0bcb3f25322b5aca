package planner

import (
	"strconv"

	"github.com/vancomm/vacuum-planner/internal/world"
)

type State struct {
	Pos   world.Position
	Dirty world.DirtySet
}

func Initial(w *world.World) State {
	return State{Pos: w.Start, Dirty: w.Dirty}
}

func (s State) Goal() bool { return s.Dirty.Empty() }

func (s State) Equal(o State) bool {
	return s.Pos == o.Pos && s.Dirty.Equal(o.Dirty)
}

// Key identifies the state in the visited set.
func (s State) Key() string {
	return strconv.Itoa(s.Pos.Row) + "." + strconv.Itoa(s.Pos.Col) + "|" + s.Dirty.Key()
}

type Transition struct {
	Action Action
	State  State
}

// Successors returns the legal transitions from s in the fixed order
// North, South, East, West, Vacuum. The order decides which of several
// equally good plans a search reports.
func Successors(s State, g *world.Grid) []Transition {
	next := make([]Transition, 0, len(moves)+1)
	for _, m := range moves {
		p := s.Pos.Add(m.dRow, m.dCol)
		if g.IsPassable(p) {
			next = append(next, Transition{m.action, State{Pos: p, Dirty: s.Dirty}})
		}
	}
	if s.Dirty.Contains(s.Pos) {
		next = append(next, Transition{Vacuum, State{Pos: s.Pos, Dirty: s.Dirty.Without(s.Pos)}})
	}
	return next
}
