package planner

import (
	"errors"
	"fmt"

	"github.com/vancomm/vacuum-planner/internal/world"
)

var ErrInvalidPlan = errors.New("invalid plan")

// Replay applies actions to the initial state of w and returns the state
// reached. It fails if a move leaves the grid or enters a wall, or if the
// agent vacuums a clean cell.
func Replay(w *world.World, actions []Action) (State, error) {
	s := Initial(w)
	for i, a := range actions {
		next, ok := step(s, a, w.Grid)
		if !ok {
			return s, fmt.Errorf("%w: action %d (%s) not applicable at %s", ErrInvalidPlan, i, a, s.Pos)
		}
		s = next
	}
	return s, nil
}

// Verify checks that actions clean every dirty cell of w.
func Verify(w *world.World, actions []Action) error {
	s, err := Replay(w, actions)
	if err != nil {
		return err
	}
	if !s.Goal() {
		return fmt.Errorf("%w: %d cells left dirty: %s", ErrInvalidPlan, s.Dirty.Len(), s.Dirty)
	}
	return nil
}

func step(s State, a Action, g *world.Grid) (State, bool) {
	for _, t := range Successors(s, g) {
		if t.Action == a {
			return t.State, true
		}
	}
	return s, false
}
