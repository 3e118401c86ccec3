package state

import "errors"

var (
	// ErrMalformedEvent marks an event with an unparseable or
	// sentinel numeric field. The event is dropped whole; nothing
	// was mutated.
	ErrMalformedEvent = errors.New("event has invalid field")

	// ErrConsistency marks a disagreement between a feed event and
	// the locally maintained book. The book has drifted and must be
	// rebuilt from a snapshot.
	ErrConsistency = errors.New("book disagrees with feed")
)
