package world

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

type Markers struct {
	Start, Dirty, Wall rune
}

var DefaultMarkers = Markers{Start: '@', Dirty: '*', Wall: '#'}

const floorChar = '_'

type World struct {
	Grid  *Grid
	Start Position
	Dirty DirtySet
}

type MalformedWorldError struct {
	Line    int // 1-based line of the world file, 0 if unknown
	message string
}

func malformed(line int, format string, args ...any) *MalformedWorldError {
	return &MalformedWorldError{Line: line, message: fmt.Sprintf(format, args...)}
}

// [MalformedWorldError] implements [error]
func (e *MalformedWorldError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed world: line %d: %s", e.Line, e.message)
	}
	return "malformed world: " + e.message
}

// Build constructs a world from cols×rows grid lines. Characters past the
// declared width are ignored; any character other than a marker is floor.
func Build(cols, rows int, lines []string, m Markers) (*World, error) {
	if cols <= 0 || rows <= 0 {
		return nil, malformed(0, "dimensions must be positive, got %dx%d", cols, rows)
	}
	if len(lines) != rows {
		return nil, malformed(0, "declared %d rows, got %d grid lines", rows, len(lines))
	}

	var (
		grid   = newGrid(cols, rows)
		dirty  []Position
		start  Position
		starts int
	)
	for r, line := range lines {
		row := []rune(line)
		if len(row) < cols {
			return nil, malformed(r+3, "row %d has %d columns, want %d", r, len(row), cols)
		}
		for c, ch := range row[:cols] {
			p := Position{r, c}
			switch ch {
			case m.Wall:
				grid.cells[r*cols+c] = Wall
			case m.Dirty:
				dirty = append(dirty, p)
			case m.Start:
				start = p
				starts++
			}
		}
	}

	switch {
	case starts == 0:
		return nil, malformed(0, "no start marker %q", m.Start)
	case starts > 1:
		return nil, malformed(0, "%d start markers %q, want exactly one", starts, m.Start)
	}

	w := &World{Grid: grid, Start: start, Dirty: NewDirtySet(dirty...)}
	Log.WithFields(logrus.Fields{
		"cols":  cols,
		"rows":  rows,
		"start": start,
		"dirty": w.Dirty.Len(),
	}).Debug("world built")
	return w, nil
}

// String renders the world in the file alphabet, one row per line, using
// '_' for floor.
func (w *World) String() string {
	var b strings.Builder
	for r := range w.Grid.rows {
		for c := range w.Grid.cols {
			p := Position{r, c}
			switch {
			case p == w.Start:
				b.WriteRune(DefaultMarkers.Start)
			case w.Grid.Cell(p) == Wall:
				b.WriteRune(DefaultMarkers.Wall)
			case w.Dirty.Contains(p):
				b.WriteRune(DefaultMarkers.Dirty)
			default:
				b.WriteRune(floorChar)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
