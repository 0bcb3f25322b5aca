package planner

import (
	"fmt"
	"strings"
)

type Action byte

const (
	North  Action = 'N'
	South  Action = 'S'
	East   Action = 'E'
	West   Action = 'W'
	Vacuum Action = 'V'
)

// moves lists the movement actions in successor order.
var moves = []struct {
	action     Action
	dRow, dCol int
}{
	{North, -1, 0},
	{South, 1, 0},
	{East, 0, 1},
	{West, 0, -1},
}

func (a Action) String() string { return string(a) }

func (a Action) Valid() bool {
	switch a {
	case North, South, East, West, Vacuum:
		return true
	}
	return false
}

// FormatActions joins action tokens without separators, e.g. "SSEEV".
func FormatActions(actions []Action) string {
	var b strings.Builder
	b.Grow(len(actions))
	for _, a := range actions {
		b.WriteByte(byte(a))
	}
	return b.String()
}

func ParseActions(s string) ([]Action, error) {
	actions := make([]Action, 0, len(s))
	for i := range len(s) {
		a := Action(s[i])
		if !a.Valid() {
			return nil, fmt.Errorf("invalid action %q at offset %d", s[i], i)
		}
		actions = append(actions, a)
	}
	return actions, nil
}
