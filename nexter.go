package etl

import "sync/atomic"

// Nexter is a threadsafe monotonic unique id generator. The fact assembler
// uses one per run to mint songplay ids; ids are only unique within a run,
// which is enough since every run rebuilds the warehouse from scratch.
type Nexter struct {
	id *int64
}

// NexterOption is a functional option for a Nexter.
type NexterOption func(n *Nexter)

// NexterStartFrom sets the first id the Nexter will hand out.
func NexterStartFrom(id int64) NexterOption {
	return func(n *Nexter) {
		*n.id = id
	}
}

// NewNexter creates a new id generator starting at 0.
func NewNexter(opts ...NexterOption) *Nexter {
	var id int64
	n := &Nexter{id: &id}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Next generates a new id and returns it.
func (n *Nexter) Next() (nextID int64) {
	nextID = atomic.AddInt64(n.id, 1)
	return nextID - 1
}

// Last returns the most recently generated id.
func (n *Nexter) Last() (lastID int64) {
	lastID = atomic.LoadInt64(n.id) - 1
	return
}
