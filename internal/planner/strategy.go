package planner

import (
	"fmt"
	"strings"
)

type Strategy int8

const (
	CostOrdered Strategy = iota
	DepthFirst
)

var Strategies = []Strategy{CostOrdered, DepthFirst}

func (s Strategy) String() string {
	switch s {
	case CostOrdered:
		return "uniform-cost"
	case DepthFirst:
		return "depth-first"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

func (s Strategy) newFrontier() frontier {
	if s == DepthFirst {
		return &stackFrontier{}
	}
	return &priorityFrontier{}
}

type UnknownStrategyError struct {
	Name string
}

// [UnknownStrategyError] implements [error]
func (e *UnknownStrategyError) Error() string {
	return "unknown strategy: " + e.Name
}

// ParseStrategy accepts "uniform-cost" (or "cost-ordered") and "depth-first".
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "uniform-cost", "cost-ordered":
		return CostOrdered, nil
	case "depth-first":
		return DepthFirst, nil
	}
	return 0, &UnknownStrategyError{Name: name}
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
