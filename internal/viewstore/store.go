// Package viewstore holds the most recent map view model for HTTP serving.
//
// Update cycles race only in one direction: a slow transform from an old
// snapshot must never clobber the view built from a newer one. Each view
// carries a monotonic generation and Put rejects anything not strictly newer.
package viewstore

import (
	"sync"

	"github.com/couchcryptid/facility-map-service/internal/domain"
)

// Store is a mutex-guarded latest-view holder.
type Store struct {
	mu      sync.RWMutex
	view    domain.MapViewModel
	present bool
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Put installs the view if its generation is newer than the current one.
// Reports whether the view was accepted.
func (s *Store) Put(view domain.MapViewModel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.present && view.Generation <= s.view.Generation {
		return false
	}
	s.view = view
	s.present = true
	return true
}

// Latest returns the current view and whether any view has been stored yet.
func (s *Store) Latest() (domain.MapViewModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view, s.present
}
