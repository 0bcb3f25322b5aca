package world

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const byteOrderMark = "\ufeff"

// Parse reads a world file: the column count, the row count, then one line
// per grid row. A leading byte-order mark is tolerated.
func Parse(r io.Reader) (*World, error) {
	lines, err := readLines(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("unable to read world: %w", err)
	}
	if len(lines) > 0 {
		lines[0] = strings.TrimPrefix(lines[0], byteOrderMark)
	}

	if len(lines) < 2 {
		return nil, malformed(len(lines)+1, "missing grid dimensions")
	}
	cols, err := parseDimension(lines[0], 1)
	if err != nil {
		return nil, err
	}
	rows, err := parseDimension(lines[1], 2)
	if err != nil {
		return nil, err
	}

	gridLines := lines[2:]
	for len(gridLines) > rows && strings.TrimSpace(gridLines[len(gridLines)-1]) == "" {
		gridLines = gridLines[:len(gridLines)-1]
	}

	return Build(cols, rows, gridLines, DefaultMarkers)
}

// readLines splits r into lines without a length limit, so rows may be as
// wide as the input allows.
func readLines(r *bufio.Reader) ([]string, error) {
	var lines []string
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimRight(strings.TrimSuffix(line, "\n"), "\r"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func parseDimension(s string, line int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, malformed(line, "%q is not an integer", s)
	}
	return n, nil
}

func ParseFile(path string) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open world file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
