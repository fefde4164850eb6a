// Package form implements the controller behind a single create/edit
// surface: client-side validation, optimistic dispatch, mutation calls, and
// reconciliation of the result.
package form

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/userdeck/userdeck/internal/notify"
	"github.com/userdeck/userdeck/internal/optimistic"
	"github.com/userdeck/userdeck/internal/users"
)

// State is the per-instance submit lifecycle
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailure    State = "failure"
)

// MutationActions is the slice of the action boundary the controller needs.
// Each call returns an empty string on success, or the collapsed failure
// message.
type MutationActions interface {
	CreateUser(ctx context.Context, input users.NewUserParams) string
	UpdateUser(ctx context.Context, input users.UpdateUserParams) string
	DeleteUser(ctx context.Context, id string) string
}

// Deps wires a controller to its collaborators. AddOptimistic and Actions
// are required; the surface, refresh, and post-success hooks are optional.
// Run dispatches the mutation unit of work and defaults to inline execution.
type Deps struct {
	Actions       MutationActions
	AddOptimistic func(entry optimistic.Entry)
	OpenSurface   func(values users.User)
	CloseSurface  func()
	Refresh       func()
	PostSuccess   func()
	Notifier      notify.Notifier
	Logger        *zap.Logger
	Run           func(work func())
}

// Controller manages one form instance. At most one mutation per instance
// is in flight; the gating accessors keep the controls disabled while one
// is pending.
type Controller struct {
	deps Deps
	user *users.User

	mu       sync.Mutex
	state    State
	deleting bool
	pending  bool
	errors   users.FieldErrors
}

// NewController creates a form controller. A nil user means the create
// context; a user with an id means the edit context.
func NewController(user *users.User, deps Deps) *Controller {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Controller{
		deps:  deps,
		user:  user,
		state: StateIdle,
	}
}

// Editing reports whether this instance edits an existing record
func (f *Controller) Editing() bool {
	return f.user != nil && f.user.ID != ""
}

// State returns the current submit lifecycle state
func (f *Controller) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Errors returns the current field-level validation errors
func (f *Controller) Errors() users.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors
}

// CanSubmit reports whether the submit control is enabled
func (f *Controller) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.pending && !f.errors.Any()
}

// CanDelete reports whether the delete control is enabled. Delete exists
// only in the edit context and is suppressed while any mutation is pending.
func (f *Controller) CanDelete() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user != nil && f.user.ID != "" && !f.deleting && !f.pending && !f.errors.Any()
}

// SaveLabel reflects the in-flight state of the submit control
func (f *Controller) SaveLabel() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	submitting := f.pending && f.state == StateSubmitting
	if f.Editing() {
		if submitting {
			return "Saving..."
		}
		return "Save"
	}
	if submitting {
		return "Creating..."
	}
	return "Create"
}

// DeleteLabel reflects the in-flight state of the delete control
func (f *Controller) DeleteLabel() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleting {
		return "Deleting..."
	}
	return "Delete"
}

// HandleChange re-validates on field input, so errors clear as soon as the
// user corrects the payload and the submit control re-enables.
func (f *Controller) HandleChange(payload users.FormPayload) {
	_, fieldErrs := users.ParseNewUserParams(payload)
	f.mu.Lock()
	defer f.mu.Unlock()
	if fieldErrs.Any() {
		f.errors = fieldErrs
		return
	}
	f.errors = nil
}

// Submit validates the raw payload and, when it passes, closes the surface,
// dispatches the optimistic entry, and runs the create or update action.
// Validation failure sets field errors and stops: no optimistic entry, no
// action call.
func (f *Controller) Submit(ctx context.Context, payload users.FormPayload) {
	f.mu.Lock()
	if f.pending {
		f.mu.Unlock()
		return
	}
	f.errors = nil
	f.mu.Unlock()

	params, fieldErrs := users.ParseNewUserParams(payload)
	if fieldErrs.Any() {
		f.mu.Lock()
		f.errors = fieldErrs
		f.mu.Unlock()
		return
	}

	editing := f.Editing()
	values := params.User()
	if editing {
		values.ID = f.user.ID
	}

	if f.deps.CloseSurface != nil {
		f.deps.CloseSurface()
	}

	f.mu.Lock()
	f.pending = true
	f.state = StateSubmitting
	f.mu.Unlock()

	f.run(func() {
		if editing {
			f.deps.AddOptimistic(optimistic.Entry{Action: optimistic.ActionUpdate, Data: values})
			msg := f.deps.Actions.UpdateUser(ctx, users.UpdateUserParams{
				ID:     values.ID,
				Email:  values.Email,
				Name:   values.Name,
				IsPaid: values.IsPaid,
			})
			f.finish("update", msg, values)
			return
		}

		f.deps.AddOptimistic(optimistic.Entry{Action: optimistic.ActionCreate, Data: values})
		msg := f.deps.Actions.CreateUser(ctx, params)
		f.finish("create", msg, values)
	})
}

// Delete closes the surface, dispatches a delete optimistic entry, and runs
// the delete action. Only available from the edit context; a second
// invocation while one is pending is suppressed.
func (f *Controller) Delete(ctx context.Context) {
	f.mu.Lock()
	if f.user == nil || f.user.ID == "" || f.deleting || f.pending || f.errors.Any() {
		f.mu.Unlock()
		return
	}
	f.deleting = true
	f.pending = true
	user := *f.user
	f.mu.Unlock()

	if f.deps.CloseSurface != nil {
		f.deps.CloseSurface()
	}

	f.run(func() {
		f.deps.AddOptimistic(optimistic.Entry{Action: optimistic.ActionDelete, Data: user})
		msg := f.deps.Actions.DeleteUser(ctx, user.ID)

		f.mu.Lock()
		f.deleting = false
		f.mu.Unlock()

		f.finish("delete", msg, user)
	})
}

// finish reconciles one settled mutation: failure reopens the surface
// pre-filled with the attempted values, success refreshes the view. Either
// way exactly one toast goes out.
func (f *Controller) finish(action string, errMsg string, attempted users.User) {
	failed := errMsg != ""

	f.mu.Lock()
	f.pending = false
	if failed {
		f.state = StateFailure
	} else {
		f.state = StateSuccess
	}
	f.mu.Unlock()

	if failed {
		f.deps.Logger.Warn("mutation failed",
			zap.String("action", action),
			zap.String("error", errMsg))
		if f.deps.OpenSurface != nil {
			f.deps.OpenSurface(attempted)
		}
		f.toast(notify.Toast{
			Title:       "Failed to " + action,
			Description: errMsg,
			Variant:     notify.VariantDestructive,
		})
		return
	}

	if f.deps.Refresh != nil {
		f.deps.Refresh()
	}
	if f.deps.PostSuccess != nil {
		f.deps.PostSuccess()
	}
	f.toast(notify.Toast{
		Title:       "Success",
		Description: "User " + action + "d!",
		Variant:     notify.VariantDefault,
	})
}

func (f *Controller) toast(toast notify.Toast) {
	if f.deps.Notifier == nil {
		return
	}
	f.deps.Notifier.Notify(toast)
}

func (f *Controller) run(work func()) {
	if f.deps.Run != nil {
		f.deps.Run(work)
		return
	}
	work()
}
