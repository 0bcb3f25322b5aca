package world

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
)

type wireWorld struct {
	Cols, Rows int
	Walls      []Position
	Start      Position
	Dirty      []Position
}

func (w *World) Bytes() ([]byte, error) {
	ww := wireWorld{
		Cols:  w.Grid.cols,
		Rows:  w.Grid.rows,
		Start: w.Start,
		Dirty: w.Dirty.Positions(),
	}
	for i, k := range w.Grid.cells {
		if k == Wall {
			ww.Walls = append(ww.Walls, Position{i / w.Grid.cols, i % w.Grid.cols})
		}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(ww); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeWorld(buf []byte) (*World, error) {
	var ww wireWorld
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&ww); err != nil {
		return nil, err
	}
	if ww.Cols <= 0 || ww.Rows <= 0 {
		return nil, malformed(0, "dimensions must be positive, got %dx%d", ww.Cols, ww.Rows)
	}
	grid := newGrid(ww.Cols, ww.Rows)
	for _, p := range append(append([]Position{ww.Start}, ww.Walls...), ww.Dirty...) {
		if !grid.InBounds(p) {
			return nil, malformed(0, "position %s out of bounds", p)
		}
	}
	for _, p := range ww.Walls {
		grid.cells[p.Row*ww.Cols+p.Col] = Wall
	}
	return &World{Grid: grid, Start: ww.Start, Dirty: NewDirtySet(ww.Dirty...)}, nil
}

// Digest identifies a world by content.
func (w *World) Digest() string {
	sum := sha256.Sum256([]byte(w.String()))
	return hex.EncodeToString(sum[:])
}
