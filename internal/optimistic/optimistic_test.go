package optimistic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdeck/userdeck/internal/users"
)

func baseList() []users.User {
	return []users.User{
		{ID: "u1", Email: "a@x.com", Name: "A"},
		{ID: "u2", Email: "b@x.com", Name: "B", IsPaid: true},
	}
}

func TestApply(t *testing.T) {
	t.Run("CreateAppendsWithPlaceholderID", func(t *testing.T) {
		next := Apply(baseList(), Entry{
			Action: ActionCreate,
			Data:   users.User{Email: "c@x.com", Name: "C"},
		})

		require.Len(t, next, 3)
		assert.Equal(t, "", next[2].ID)
		assert.Equal(t, "c@x.com", next[2].Email)
	})

	t.Run("UpdateReplacesByID", func(t *testing.T) {
		next := Apply(baseList(), Entry{
			Action: ActionUpdate,
			Data:   users.User{ID: "u1", Email: "a2@x.com", Name: "A2", IsPaid: true},
		})

		require.Len(t, next, 2)
		assert.Equal(t, "a2@x.com", next[0].Email)
		assert.True(t, next[0].IsPaid)
		assert.Equal(t, "b@x.com", next[1].Email)
	})

	t.Run("UpdateUnknownIDLeavesSequenceUnchanged", func(t *testing.T) {
		next := Apply(baseList(), Entry{
			Action: ActionUpdate,
			Data:   users.User{ID: "missing", Email: "x@x.com", Name: "X"},
		})

		assert.Equal(t, baseList(), next)
	})

	t.Run("DeleteRemovesByID", func(t *testing.T) {
		next := Apply(baseList(), Entry{
			Action: ActionDelete,
			Data:   users.User{ID: "u1"},
		})

		require.Len(t, next, 1)
		assert.Equal(t, "u2", next[0].ID)
	})

	t.Run("NeverMutatesBase", func(t *testing.T) {
		base := baseList()

		Apply(base, Entry{Action: ActionDelete, Data: users.User{ID: "u1"}})
		Apply(base, Entry{Action: ActionUpdate, Data: users.User{ID: "u2", Email: "z@x.com"}})
		Apply(base, Entry{Action: ActionCreate, Data: users.User{Email: "c@x.com"}})

		assert.Equal(t, baseList(), base)
	})
}

func TestReduce(t *testing.T) {
	t.Run("FoldsQueueInOrder", func(t *testing.T) {
		next := Reduce(baseList(),
			Entry{Action: ActionCreate, Data: users.User{Email: "c@x.com", Name: "C"}},
			Entry{Action: ActionDelete, Data: users.User{ID: "u2"}},
			Entry{Action: ActionUpdate, Data: users.User{ID: "u1", Email: "a2@x.com", Name: "A"}},
		)

		require.Len(t, next, 2)
		assert.Equal(t, "a2@x.com", next[0].Email)
		assert.Equal(t, "c@x.com", next[1].Email)
	})

	t.Run("EmptyQueueCopiesBase", func(t *testing.T) {
		base := baseList()
		next := Reduce(base)

		assert.Equal(t, base, next)
		next[0].Name = "mutated"
		assert.Equal(t, "A", base[0].Name)
	})
}
