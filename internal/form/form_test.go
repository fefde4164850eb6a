package form

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdeck/userdeck/internal/notify"
	"github.com/userdeck/userdeck/internal/optimistic"
	"github.com/userdeck/userdeck/internal/users"
)

// fakeActions records calls and answers with configured messages. Calls are
// appended to the shared log so tests can assert ordering against the
// optimistic dispatch.
type fakeActions struct {
	createMsg string
	updateMsg string
	deleteMsg string

	log *[]string

	lastCreate users.NewUserParams
	lastUpdate users.UpdateUserParams
	lastDelete string

	createCalls int
	updateCalls int
	deleteCalls int
}

func (a *fakeActions) CreateUser(ctx context.Context, input users.NewUserParams) string {
	a.createCalls++
	a.lastCreate = input
	*a.log = append(*a.log, "action:create")
	return a.createMsg
}

func (a *fakeActions) UpdateUser(ctx context.Context, input users.UpdateUserParams) string {
	a.updateCalls++
	a.lastUpdate = input
	*a.log = append(*a.log, "action:update")
	return a.updateMsg
}

func (a *fakeActions) DeleteUser(ctx context.Context, id string) string {
	a.deleteCalls++
	a.lastDelete = id
	*a.log = append(*a.log, "action:delete")
	return a.deleteMsg
}

type harness struct {
	actions  *fakeActions
	recorder *notify.Recorder

	log       []string
	entries   []optimistic.Entry
	reopened  []users.User
	closes    int
	refreshes int
	successes int

	queued []func()
}

func newHarness() *harness {
	h := &harness{recorder: &notify.Recorder{}}
	h.actions = &fakeActions{log: &h.log}
	return h
}

func (h *harness) deps() Deps {
	return Deps{
		Actions: h.actions,
		AddOptimistic: func(entry optimistic.Entry) {
			h.entries = append(h.entries, entry)
			h.log = append(h.log, "optimistic:"+string(entry.Action))
		},
		OpenSurface:  func(values users.User) { h.reopened = append(h.reopened, values) },
		CloseSurface: func() { h.closes++ },
		Refresh:      func() { h.refreshes++ },
		PostSuccess:  func() { h.successes++ },
		Notifier:     h.recorder,
	}
}

// deferredDeps queues mutation work instead of running it inline, so tests
// can observe the in-flight state.
func (h *harness) deferredDeps() Deps {
	deps := h.deps()
	deps.Run = func(work func()) { h.queued = append(h.queued, work) }
	return deps
}

func (h *harness) runQueued() {
	for _, work := range h.queued {
		work()
	}
	h.queued = nil
}

func validPayload() users.FormPayload {
	return users.FormPayload{"email": "a@x.com", "name": "A", "isPaid": "on"}
}

func TestSubmitCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		h := newHarness()
		controller := NewController(nil, h.deps())

		controller.Submit(ctx, validPayload())

		assert.Equal(t, 1, h.closes)
		require.Len(t, h.entries, 1)
		assert.Equal(t, optimistic.ActionCreate, h.entries[0].Action)
		assert.Equal(t, "", h.entries[0].Data.ID)
		assert.Equal(t, "a@x.com", h.entries[0].Data.Email)

		// optimistic entry dispatched before the action runs
		assert.Equal(t, []string{"optimistic:create", "action:create"}, h.log)

		assert.Equal(t, 1, h.actions.createCalls)
		assert.True(t, h.actions.lastCreate.IsPaid)
		assert.Equal(t, 1, h.refreshes)
		assert.Equal(t, 1, h.successes)
		assert.Empty(t, h.reopened)

		toasts := h.recorder.Toasts()
		require.Len(t, toasts, 1)
		assert.Equal(t, "Success", toasts[0].Title)
		assert.Equal(t, "User created!", toasts[0].Description)
		assert.Equal(t, notify.VariantDefault, toasts[0].Variant)

		assert.Equal(t, StateSuccess, controller.State())
		assert.True(t, controller.CanSubmit())
	})

	t.Run("Failure", func(t *testing.T) {
		h := newHarness()
		h.actions.createMsg = "email already taken"
		controller := NewController(nil, h.deps())

		controller.Submit(ctx, validPayload())

		// surface reopens pre-filled with the attempted values
		require.Len(t, h.reopened, 1)
		assert.Equal(t, "a@x.com", h.reopened[0].Email)
		assert.Equal(t, 0, h.refreshes)
		assert.Equal(t, 0, h.successes)

		toasts := h.recorder.Toasts()
		require.Len(t, toasts, 1)
		assert.Equal(t, "Failed to create", toasts[0].Title)
		assert.Equal(t, "email already taken", toasts[0].Description)
		assert.Equal(t, notify.VariantDestructive, toasts[0].Variant)

		assert.Equal(t, StateFailure, controller.State())
	})
}

func TestSubmitValidationFailure(t *testing.T) {
	ctx := context.Background()

	h := newHarness()
	user := users.User{ID: "u1", Email: "a@x.com", Name: "A"}
	controller := NewController(&user, h.deps())

	controller.Submit(ctx, users.FormPayload{"email": "a@x.com", "name": ""})

	// halts before any side effect: no optimistic entry, no action call,
	// no toast, surface untouched
	require.NotEmpty(t, controller.Errors()["name"])
	assert.Empty(t, h.entries)
	assert.Equal(t, 0, h.actions.updateCalls)
	assert.Empty(t, h.recorder.Toasts())
	assert.Equal(t, 0, h.closes)
	assert.Equal(t, StateIdle, controller.State())

	// errors gate the submit control until the user corrects the input
	assert.False(t, controller.CanSubmit())
	controller.HandleChange(validPayload())
	assert.True(t, controller.CanSubmit())

	// corrected resubmit goes through
	controller.Submit(ctx, validPayload())
	assert.Equal(t, 1, h.actions.updateCalls)
}

func TestSubmitUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		h := newHarness()
		user := users.User{ID: "u1", Email: "a@x.com", Name: "A"}
		controller := NewController(&user, h.deps())

		controller.Submit(ctx, users.FormPayload{"email": "b@x.com", "name": "B"})

		require.Len(t, h.entries, 1)
		assert.Equal(t, optimistic.ActionUpdate, h.entries[0].Action)
		assert.Equal(t, "u1", h.entries[0].Data.ID)

		assert.Equal(t, 1, h.actions.updateCalls)
		assert.Equal(t, "u1", h.actions.lastUpdate.ID)
		assert.Equal(t, "b@x.com", h.actions.lastUpdate.Email)
		assert.False(t, h.actions.lastUpdate.IsPaid)

		toasts := h.recorder.Toasts()
		require.Len(t, toasts, 1)
		assert.Equal(t, "User updated!", toasts[0].Description)
	})

	t.Run("FailureReopensWithAttemptedValues", func(t *testing.T) {
		h := newHarness()
		h.actions.updateMsg = "boom"
		user := users.User{ID: "u1", Email: "a@x.com", Name: "A"}
		controller := NewController(&user, h.deps())

		controller.Submit(ctx, users.FormPayload{"email": "b@x.com", "name": "B"})

		require.Len(t, h.reopened, 1)
		assert.Equal(t, "u1", h.reopened[0].ID)
		assert.Equal(t, "b@x.com", h.reopened[0].Email)
		assert.Equal(t, "B", h.reopened[0].Name)

		toasts := h.recorder.Toasts()
		require.Len(t, toasts, 1)
		assert.Equal(t, "Failed to update", toasts[0].Title)
	})
}

func TestSubmitWhilePending(t *testing.T) {
	ctx := context.Background()

	h := newHarness()
	controller := NewController(nil, h.deferredDeps())

	controller.Submit(ctx, validPayload())
	assert.False(t, controller.CanSubmit())
	assert.Equal(t, "Creating...", controller.SaveLabel())

	// competing submission from the same instance is suppressed
	controller.Submit(ctx, validPayload())
	require.Len(t, h.queued, 1)

	h.runQueued()
	assert.Equal(t, 1, h.actions.createCalls)
	assert.Equal(t, "Create", controller.SaveLabel())
	assert.True(t, controller.CanSubmit())
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		h := newHarness()
		user := users.User{ID: "u1", Email: "a@x.com", Name: "A"}
		controller := NewController(&user, h.deps())

		controller.Delete(ctx)

		assert.Equal(t, 1, h.closes)
		require.Len(t, h.entries, 1)
		assert.Equal(t, optimistic.ActionDelete, h.entries[0].Action)
		assert.Equal(t, "u1", h.entries[0].Data.ID)
		assert.Equal(t, "u1", h.actions.lastDelete)

		toasts := h.recorder.Toasts()
		require.Len(t, toasts, 1)
		assert.Equal(t, "User deleted!", toasts[0].Description)
		assert.Equal(t, "Delete", controller.DeleteLabel())
	})

	t.Run("RapidDoubleDeleteIsSuppressed", func(t *testing.T) {
		h := newHarness()
		user := users.User{ID: "u1", Email: "a@x.com", Name: "A"}
		controller := NewController(&user, h.deferredDeps())

		controller.Delete(ctx)
		assert.Equal(t, "Deleting...", controller.DeleteLabel())
		assert.False(t, controller.CanDelete())

		controller.Delete(ctx)
		require.Len(t, h.queued, 1)

		h.runQueued()
		assert.Equal(t, 1, h.actions.deleteCalls)
		require.Len(t, h.entries, 1)
	})

	t.Run("UnavailableFromCreateContext", func(t *testing.T) {
		h := newHarness()
		controller := NewController(nil, h.deps())

		assert.False(t, controller.CanDelete())
		controller.Delete(ctx)
		assert.Equal(t, 0, h.actions.deleteCalls)
	})

	t.Run("Failure", func(t *testing.T) {
		h := newHarness()
		h.actions.deleteMsg = "still referenced"
		user := users.User{ID: "u1", Email: "a@x.com", Name: "A"}
		controller := NewController(&user, h.deps())

		controller.Delete(ctx)

		require.Len(t, h.reopened, 1)
		assert.Equal(t, "u1", h.reopened[0].ID)

		toasts := h.recorder.Toasts()
		require.Len(t, toasts, 1)
		assert.Equal(t, "Failed to delete", toasts[0].Title)
		assert.Equal(t, notify.VariantDestructive, toasts[0].Variant)
	})
}

func TestLabels(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateContext", func(t *testing.T) {
		h := newHarness()
		controller := NewController(nil, h.deps())
		assert.Equal(t, "Create", controller.SaveLabel())
	})

	t.Run("EditContext", func(t *testing.T) {
		h := newHarness()
		user := users.User{ID: "u1", Email: "a@x.com", Name: "A"}
		controller := NewController(&user, h.deferredDeps())
		assert.Equal(t, "Save", controller.SaveLabel())

		controller.Submit(ctx, validPayload())
		assert.Equal(t, "Saving...", controller.SaveLabel())

		h.runQueued()
		assert.Equal(t, "Save", controller.SaveLabel())
	})
}
