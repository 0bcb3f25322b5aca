// Package planner searches the state space of a cleaning problem for a plan
// that leaves no dirty cell behind.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/vacuum-planner/internal/world"
)

var Log = logrus.New()

var (
	ErrNoSolution     = errors.New("no solution found")
	ErrExpansionLimit = errors.New("expansion limit reached")
)

type Stats struct {
	Generated int
	Expanded  int
	Frontier  int
}

// Result is filled in whether or not a plan was found; only Actions is
// meaningful just on success.
type Result struct {
	Strategy  Strategy
	Solved    bool
	Actions   []Action
	Generated int
	Expanded  int
	Duration  time.Duration
}

type options struct {
	maxExpanded   int
	progressEvery int
	progress      func(Stats)
}

type Option func(*options)

// WithMaxExpanded stops the search with ErrExpansionLimit once n states have
// been expanded. n <= 0 means no limit.
func WithMaxExpanded(n int) Option {
	return func(o *options) { o.maxExpanded = n }
}

// WithProgress calls fn after every n expansions.
func WithProgress(n int, fn func(Stats)) Option {
	return func(o *options) {
		o.progressEvery = n
		o.progress = fn
	}
}

// Search runs strategy s over w. It returns ErrNoSolution when every
// reachable state was expanded without cleaning all cells. The world is only
// read, so concurrent searches may share it.
func Search(ctx context.Context, w *world.World, s Strategy, opts ...Option) (Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	res := Result{Strategy: s}

	var (
		f       = s.newFrontier()
		visited = make(map[string]struct{})
		seq     = 0
	)
	f.pushAll([]*node{{state: Initial(w)}})
	res.Generated = 1

	for f.len() > 0 {
		if err := ctx.Err(); err != nil {
			return finish(res, start, fmt.Errorf("search interrupted: %w", err))
		}

		n := f.pop()
		key := n.state.Key()
		if _, ok := visited[key]; ok {
			continue
		}
		visited[key] = struct{}{}
		res.Expanded++

		if n.state.Goal() {
			res.Solved = true
			res.Actions = n.path()
			return finish(res, start, nil)
		}

		if o.maxExpanded > 0 && res.Expanded >= o.maxExpanded {
			return finish(res, start, ErrExpansionLimit)
		}

		next := Successors(n.state, w.Grid)
		children := make([]*node, 0, len(next))
		for _, t := range next {
			if _, ok := visited[t.State.Key()]; ok {
				continue
			}
			seq++
			children = append(children, &node{
				state:  t.State,
				parent: n,
				action: t.Action,
				cost:   n.cost + 1,
				seq:    seq,
			})
		}
		res.Generated += len(children)
		f.pushAll(children)

		if o.progress != nil && o.progressEvery > 0 && res.Expanded%o.progressEvery == 0 {
			o.progress(Stats{Generated: res.Generated, Expanded: res.Expanded, Frontier: f.len()})
		}
	}

	return finish(res, start, ErrNoSolution)
}

func finish(res Result, start time.Time, err error) (Result, error) {
	res.Duration = time.Since(start)
	Log.WithFields(logrus.Fields{
		"strategy":  res.Strategy,
		"solved":    res.Solved,
		"actions":   len(res.Actions),
		"generated": res.Generated,
		"expanded":  res.Expanded,
		"duration":  res.Duration,
	}).Debug("search finished")
	return res, err
}
