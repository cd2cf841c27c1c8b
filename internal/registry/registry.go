// Package registry keeps the "recent projects" catalog the editor shows on
// startup. Every successful project save records the project's identity and
// a few display facts; backends share create-or-replace semantics keyed by
// project ID.
package registry

import (
	"context"
	"sort"
	"time"
)

// Entry is one registered project.
type Entry struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Documents int       `json:"documents"`
	SavedAt   time.Time `json:"saved_at"`
}

// Registry is the project catalog abstraction.
type Registry interface {
	// Record inserts or replaces the entry for its project ID.
	Record(ctx context.Context, e Entry) error
	// Get returns the entry for id and whether it exists.
	Get(ctx context.Context, id string) (Entry, bool, error)
	// List returns all entries, most recently saved first.
	List(ctx context.Context) ([]Entry, error)
	// Remove deletes the entry, reporting whether it existed.
	Remove(ctx context.Context, id string) (bool, error)
	// Close releases backend resources.
	Close() error
	// Driver identifies the backend.
	Driver() string
}

func sortRecentFirst(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].SavedAt.Equal(entries[j].SavedAt) {
			return entries[i].SavedAt.After(entries[j].SavedAt)
		}
		return entries[i].ID < entries[j].ID
	})
}
