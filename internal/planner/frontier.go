package planner

import (
	"container/heap"
	"slices"
)

// node is one frontier entry. The path to it is recovered through parent
// links once a goal is reached.
type node struct {
	state  State
	parent *node
	action Action
	cost   int
	seq    int // insertion order, breaks cost ties first-in-first-out
}

func (n *node) path() []Action {
	var actions []Action
	for ; n.parent != nil; n = n.parent {
		actions = append(actions, n.action)
	}
	slices.Reverse(actions)
	return actions
}

// frontier is the pop-order policy of a search. pushAll receives children in
// successor order.
type frontier interface {
	pushAll(children []*node)
	pop() *node
	len() int
}

type costQueue []*node

func (q costQueue) Len() int { return len(q) }

func (q costQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].seq < q[j].seq
}

func (q costQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *costQueue) Push(x any) { *q = append(*q, x.(*node)) }

func (q *costQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

type priorityFrontier struct {
	q costQueue
}

func (f *priorityFrontier) pushAll(children []*node) {
	for _, c := range children {
		heap.Push(&f.q, c)
	}
}

func (f *priorityFrontier) pop() *node { return heap.Pop(&f.q).(*node) }

func (f *priorityFrontier) len() int { return f.q.Len() }

type stackFrontier struct {
	s []*node
}

// pushAll pushes in reverse so that the first successor is popped first.
func (f *stackFrontier) pushAll(children []*node) {
	for i := len(children) - 1; i >= 0; i-- {
		f.s = append(f.s, children[i])
	}
}

func (f *stackFrontier) pop() *node {
	n := f.s[len(f.s)-1]
	f.s[len(f.s)-1] = nil
	f.s = f.s[:len(f.s)-1]
	return n
}

func (f *stackFrontier) len() int { return len(f.s) }
