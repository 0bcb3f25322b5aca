package world

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	os.Exit(m.Run())
}

func TestParse(t *testing.T) {
	w, err := Parse(strings.NewReader("4\n3\n@_*_\n_##_\n*___\n"))
	require.NoError(t, err)

	assert.Equal(t, 4, w.Grid.Cols())
	assert.Equal(t, 3, w.Grid.Rows())
	assert.Equal(t, Position{0, 0}, w.Start)
	assert.Equal(t, []Position{{0, 2}, {2, 0}}, w.Dirty.Positions())
	assert.Equal(t, Wall, w.Grid.Cell(Position{1, 1}))
	assert.Equal(t, Empty, w.Grid.Cell(Position{1, 0}))
}

func TestParseByteOrderMark(t *testing.T) {
	w, err := Parse(strings.NewReader("\ufeff2\r\n1\r\n@*\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, w.Grid.Cols())
	assert.Equal(t, 1, w.Dirty.Len())
}

func TestParseIgnoresTrailingBlankLines(t *testing.T) {
	_, err := Parse(strings.NewReader("2\n1\n@*\n\n\n"))
	assert.NoError(t, err)
}

func TestParseWideRow(t *testing.T) {
	const cols = 70_000
	row := "@" + strings.Repeat("_", cols-2) + "*"
	w, err := Parse(strings.NewReader("70000\n1\n" + row + "\r\n"))
	require.NoError(t, err)

	assert.Equal(t, cols, w.Grid.Cols())
	assert.Equal(t, Position{0, 0}, w.Start)
	assert.True(t, w.Dirty.Contains(Position{0, cols - 1}))
}

func TestParseNoTrailingNewline(t *testing.T) {
	w, err := Parse(strings.NewReader("2\n1\n@*"))
	require.NoError(t, err)
	assert.Equal(t, 1, w.Dirty.Len())
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.txt")
	require.NoError(t, os.WriteFile(path, []byte("3\n1\n*@*\n"), 0o644))

	w, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, Position{0, 1}, w.Start)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestMalformedWorld(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad cols", "x\n1\n@\n"},
		{"bad rows", "1\ny\n@\n"},
		{"too few rows", "2\n3\n@*\n__\n"},
		{"too many rows", "2\n1\n@*\n__\n"},
		{"short row", "3\n2\n@*_\n_\n"},
		{"no start", "2\n1\n_*\n"},
		{"two starts", "2\n1\n@@\n"},
		{"zero cols", "0\n1\n\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(test.input))
			var mwe *MalformedWorldError
			assert.True(t, errors.As(err, &mwe), "want MalformedWorldError, got %v", err)
		})
	}
}

func TestBuildIgnoresExtraColumns(t *testing.T) {
	w, err := Build(2, 1, []string{"@_*"}, DefaultMarkers)
	require.NoError(t, err)
	assert.True(t, w.Dirty.Empty())
}

func TestBuildCustomMarkers(t *testing.T) {
	w, err := Build(3, 1, []string{"SxD"}, Markers{Start: 'S', Dirty: 'D', Wall: 'x'})
	require.NoError(t, err)
	assert.Equal(t, Position{0, 0}, w.Start)
	assert.Equal(t, []Position{{0, 2}}, w.Dirty.Positions())
	assert.False(t, w.Grid.IsPassable(Position{0, 1}))
}

func TestIsPassable(t *testing.T) {
	w, err := Build(2, 2, []string{"@#", "__"}, DefaultMarkers)
	require.NoError(t, err)

	assert.True(t, w.Grid.IsPassable(Position{0, 0}))
	assert.False(t, w.Grid.IsPassable(Position{0, 1}))
	assert.True(t, w.Grid.IsPassable(Position{1, 1}))
	assert.False(t, w.Grid.IsPassable(Position{-1, 0}))
	assert.False(t, w.Grid.IsPassable(Position{0, 2}))
	assert.False(t, w.Grid.IsPassable(Position{2, 0}))
}

func TestDirtySet(t *testing.T) {
	a := NewDirtySet(Position{2, 1}, Position{0, 3}, Position{2, 0}, Position{0, 3})
	b := NewDirtySet(Position{2, 0}, Position{0, 3}, Position{2, 1})

	assert.Equal(t, 3, a.Len())
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, []Position{{0, 3}, {2, 0}, {2, 1}}, a.Positions())

	c := a.Without(Position{2, 0})
	assert.Equal(t, 2, c.Len())
	assert.False(t, c.Contains(Position{2, 0}))
	assert.True(t, a.Contains(Position{2, 0}), "Without must not modify the receiver")
	assert.NotEqual(t, a.Key(), c.Key())

	assert.True(t, a.Without(Position{9, 9}).Equal(a))
	assert.True(t, DirtySet{}.Empty())
	assert.Equal(t, "", DirtySet{}.Key())
}

func TestDirtySetKeyIsUnambiguous(t *testing.T) {
	a := NewDirtySet(Position{1, 12})
	b := NewDirtySet(Position{11, 2})
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestEncodeRoundTrip(t *testing.T) {
	w, err := Parse(strings.NewReader("4\n3\n@_*_\n_##_\n*___\n"))
	require.NoError(t, err)

	buf, err := w.Bytes()
	require.NoError(t, err)
	decoded, err := DecodeWorld(buf)
	require.NoError(t, err)

	assert.Equal(t, w.String(), decoded.String())
	assert.Equal(t, w.Digest(), decoded.Digest())
}

func TestString(t *testing.T) {
	w, err := Parse(strings.NewReader("3\n2\n@ *\n#x_\n"))
	require.NoError(t, err)
	assert.Equal(t, "@_*\n#__\n", w.String())
}

func TestDigestDiffers(t *testing.T) {
	a, err := Build(2, 1, []string{"@*"}, DefaultMarkers)
	require.NoError(t, err)
	b, err := Build(2, 1, []string{"*@"}, DefaultMarkers)
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest(), b.Digest())
}
