// Package report renders search results for people and for API clients.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/vancomm/vacuum-planner/internal/planner"
)

const NoSolutionLine = "no solution found"

// Write prints one action token per line followed by the generated and
// expanded node counts. When the search ran out of states the action lines
// are replaced by NoSolutionLine; the counters are printed either way.
// Any other search error is returned unchanged and nothing is written.
func Write(w io.Writer, res planner.Result, searchErr error) error {
	switch {
	case searchErr == nil:
		for _, a := range res.Actions {
			if _, err := fmt.Fprintln(w, a); err != nil {
				return err
			}
		}
	case errors.Is(searchErr, planner.ErrNoSolution):
		if _, err := fmt.Fprintln(w, NoSolutionLine); err != nil {
			return err
		}
	default:
		return searchErr
	}
	return writeCounters(w, res)
}

func writeCounters(w io.Writer, res planner.Result) error {
	if _, err := fmt.Fprintf(w, "%d nodes generated\n", res.Generated); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d nodes expanded\n", res.Expanded)
	return err
}
