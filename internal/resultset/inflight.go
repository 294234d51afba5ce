package resultset

import (
	"github.com/google/uuid"
	"github.com/joacominatel/perruls/internal/database"
)

// Begin claims the in-flight slot for a new request and returns its ticket.
// Any request begun earlier becomes stale: its completion will be ignored.
func (s *Store) Begin() Ticket {
	s.inflight = Ticket(uuid.New())
	s.pending = true
	return s.inflight
}

// Pending reports whether the latest request has not completed yet.
func (s *Store) Pending() bool {
	return s.pending
}

// Current reports whether t is the ticket of the latest request.
func (s *Store) Current(t Ticket) bool {
	return s.pending && t == s.inflight
}

// Apply stores r if t is still the latest request. A stale completion
// leaves the store untouched and returns false.
func (s *Store) Apply(t Ticket, r *database.QueryResult) bool {
	if !s.Current(t) {
		return false
	}
	s.pending = false
	s.SetResult(r)
	return true
}

// Discard settles a failed request. The held result is kept. It returns
// false when t is stale, in which case the failure should not be shown.
func (s *Store) Discard(t Ticket) bool {
	if !s.Current(t) {
		return false
	}
	s.pending = false
	return true
}
