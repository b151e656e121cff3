// Package store holds the per-session profile and cart state.
//
// Both stores draw versions from one Sequence when a request is issued. A
// response is applied only when its version is newer than the one already
// held, so a slow profile refresh can no longer overwrite a cart mutation
// issued after it.
package store

import "sync/atomic"

type Sequence struct {
	n atomic.Uint64
}

// Next returns a version strictly greater than every earlier one.
func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}
