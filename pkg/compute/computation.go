// Package compute derives rolling metrics from book state without
// recomputing from scratch. Nodes form a DAG owned top-down: each node
// holds its children by value at construction, so the graph is acyclic
// by construction, and evaluates children before itself.
package compute

import (
	"github.com/joripage/bookfeed/pkg/book"
)

// BookState is the read-only surface a computation evaluates against.
type BookState interface {
	// BestBid and BestAsk report the top of each side; ok is false
	// when the side is empty.
	BestBid() (price, volume int64, ok bool)
	BestAsk() (price, volume int64, ok bool)

	// LastTake describes the match applied by the current event, if
	// any. Side is the taker's side.
	LastTake() (side book.Side, takeSize, takeValue int64, ok bool)

	// Nanos is the current event's feed timestamp.
	Nanos() int64
}

// Computation is one DAG node. OnStateChange runs once per accepted
// book mutation; Result reports false until a first evaluation has
// happened and again after OnStateReset until the next evaluation.
type Computation interface {
	OnStateChange(state BookState)
	OnStateReset()
	Result() (int64, bool)
}
