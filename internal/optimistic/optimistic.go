// Package optimistic implements the pure reducer that overlays pending
// mutations onto the last known authoritative user list before the server
// confirms them.
//
// Concurrent optimistic edits to the same id have no conflict resolution:
// whichever mutation settles last silently wins.
package optimistic

import (
	"github.com/userdeck/userdeck/internal/users"
)

// Action is the kind of pending mutation an entry represents
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entry is a transient, client-only wrapper around a pending mutation. It
// lives only between dispatch and the next authoritative refetch and is
// never persisted.
type Entry struct {
	Action Action
	Data   users.User
}

// Apply returns a new slice with the entry overlaid on base. Base is never
// mutated.
//
// Create appends the entry's data with whatever placeholder id it carries
// (empty until the server confirms). Update replaces the record matching by
// id. Delete removes the record matching by id. Unknown actions and
// non-matching ids leave the sequence unchanged.
func Apply(base []users.User, entry Entry) []users.User {
	switch entry.Action {
	case ActionCreate:
		next := make([]users.User, 0, len(base)+1)
		next = append(next, base...)
		return append(next, entry.Data)
	case ActionUpdate:
		next := make([]users.User, len(base))
		copy(next, base)
		for i := range next {
			if next[i].ID == entry.Data.ID {
				next[i] = entry.Data
			}
		}
		return next
	case ActionDelete:
		next := make([]users.User, 0, len(base))
		for _, user := range base {
			if user.ID == entry.Data.ID {
				continue
			}
			next = append(next, user)
		}
		return next
	default:
		next := make([]users.User, len(base))
		copy(next, base)
		return next
	}
}

// Reduce folds a queue of pending entries over the authoritative sequence,
// oldest first.
func Reduce(base []users.User, pending ...Entry) []users.User {
	next := make([]users.User, len(base))
	copy(next, base)
	for _, entry := range pending {
		next = Apply(next, entry)
	}
	return next
}
