// Package world holds the immutable description of a cleaning problem: the
// grid with its walls, the agent start cell and the initially dirty cells.
package world

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Position struct {
	Row, Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Compare orders positions row-major.
func (p Position) Compare(q Position) int {
	if p.Row < q.Row {
		return -1
	}
	if p.Row > q.Row {
		return 1
	}
	if p.Col < q.Col {
		return -1
	}
	if p.Col > q.Col {
		return 1
	}
	return 0
}

func (p Position) Add(dRow, dCol int) Position {
	return Position{p.Row + dRow, p.Col + dCol}
}

type CellKind int8

const (
	Empty CellKind = iota
	Wall
)

type Grid struct {
	cols, rows int
	cells      []CellKind
}

func newGrid(cols, rows int) *Grid {
	return &Grid{cols: cols, rows: rows, cells: make([]CellKind, cols*rows)}
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

func (g *Grid) InBounds(p Position) bool {
	return 0 <= p.Row && p.Row < g.rows && 0 <= p.Col && p.Col < g.cols
}

// Cell panics if p is out of bounds.
func (g *Grid) Cell(p Position) CellKind {
	return g.cells[p.Row*g.cols+p.Col]
}

// IsPassable reports whether the agent may stand on p.
func (g *Grid) IsPassable(p Position) bool {
	return g.InBounds(p) && g.Cell(p) != Wall
}

// DirtySet is a sorted, duplicate-free set of positions. The zero value is
// the empty set. Values are never modified in place, so they can be shared
// between search states.
type DirtySet struct {
	cells []Position
}

func NewDirtySet(cells ...Position) DirtySet {
	sorted := slices.Clone(cells)
	slices.SortFunc(sorted, Position.Compare)
	return DirtySet{cells: slices.Compact(sorted)}
}

func (d DirtySet) Len() int { return len(d.cells) }

func (d DirtySet) Empty() bool { return len(d.cells) == 0 }

func (d DirtySet) Contains(p Position) bool {
	_, found := slices.BinarySearchFunc(d.cells, p, Position.Compare)
	return found
}

// Without returns a new set lacking p. d itself is left untouched.
func (d DirtySet) Without(p Position) DirtySet {
	i, found := slices.BinarySearchFunc(d.cells, p, Position.Compare)
	if !found {
		return d
	}
	cells := make([]Position, 0, len(d.cells)-1)
	cells = append(cells, d.cells[:i]...)
	cells = append(cells, d.cells[i+1:]...)
	return DirtySet{cells: cells}
}

func (d DirtySet) Equal(o DirtySet) bool {
	return slices.Equal(d.cells, o.cells)
}

// Positions returns a copy of the members in row-major order.
func (d DirtySet) Positions() []Position {
	return slices.Clone(d.cells)
}

// Key is a stable identity for the set: equal sets have equal keys.
func (d DirtySet) Key() string {
	b := make([]byte, 0, len(d.cells)*6)
	for i, p := range d.cells {
		if i > 0 {
			b = append(b, ';')
		}
		b = strconv.AppendInt(b, int64(p.Row), 10)
		b = append(b, '.')
		b = strconv.AppendInt(b, int64(p.Col), 10)
	}
	return string(b)
}

func (d DirtySet) String() string {
	parts := make([]string, len(d.cells))
	for i, p := range d.cells {
		parts[i] = p.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}
