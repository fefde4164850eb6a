package users

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/userdeck/userdeck/internal/view"
)

// ListPath is the route whose cached output every successful mutation marks
// stale.
const ListPath = "/users"

// ErrorCarrier mirrors failure payloads that carry their message in an
// "error" field instead of implementing the error contract conventionally.
type ErrorCarrier interface {
	ErrorMessage() string
}

// Normalizer collapses a failure into the single string that crosses the
// action boundary. It is the substitution seam for a richer error type.
type Normalizer func(err error) string

// CollapseError is the default Normalizer: the carrier's message if the
// failure carries one, else the error's own message, else "Error".
func CollapseError(err error) string {
	if err == nil {
		return ""
	}
	var carrier ErrorCarrier
	if errors.As(err, &carrier) {
		if msg := carrier.ErrorMessage(); msg != "" {
			return msg
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Error"
}

// Actions are the trusted server-side mutation entry points. Each one
// re-validates its input, persists through the service, invalidates the list
// view, and reports failure as a plain string. Callers treat an empty
// string as success; no structured error crosses this boundary.
type Actions struct {
	service   UserService
	cache     view.Invalidator
	logger    *zap.Logger
	normalize Normalizer
}

// NewActions creates the mutation actions over a service and a view cache
func NewActions(service UserService, cache view.Invalidator, logger *zap.Logger) *Actions {
	return &Actions{
		service:   service,
		cache:     cache,
		logger:    logger,
		normalize: CollapseError,
	}
}

// WithNormalizer substitutes the error-collapsing behavior
func (a *Actions) WithNormalizer(normalize Normalizer) *Actions {
	a.normalize = normalize
	return a
}

// CreateUser validates the insert payload, persists a new record, and
// invalidates the list view. Client-side validation is never trusted alone.
func (a *Actions) CreateUser(ctx context.Context, input NewUserParams) string {
	if fieldErrs := ValidateNewUserParams(input); fieldErrs.Any() {
		return a.normalize(&ValidationError{Fields: fieldErrs})
	}

	if _, err := a.service.CreateUser(ctx, input); err != nil {
		a.logger.Error("Failed to create user", zap.Error(err))
		return a.normalize(err)
	}

	a.cache.Invalidate(ListPath)
	return ""
}

// UpdateUser validates the update payload, persists the change keyed by its
// id, and invalidates the list view.
func (a *Actions) UpdateUser(ctx context.Context, input UpdateUserParams) string {
	if fieldErrs := ValidateUpdateUserParams(input); fieldErrs.Any() {
		return a.normalize(&ValidationError{Fields: fieldErrs})
	}

	if _, err := a.service.UpdateUser(ctx, input.ID, input); err != nil {
		a.logger.Error("Failed to update user", zap.String("user_id", input.ID), zap.Error(err))
		return a.normalize(err)
	}

	a.cache.Invalidate(ListPath)
	return ""
}

// DeleteUser validates the id shape, removes the record, and invalidates
// the list view.
func (a *Actions) DeleteUser(ctx context.Context, id string) string {
	params, fieldErrs := ParseUserID(id)
	if fieldErrs.Any() {
		return a.normalize(&ValidationError{Fields: fieldErrs})
	}

	if _, err := a.service.DeleteUser(ctx, params.ID); err != nil {
		a.logger.Error("Failed to delete user", zap.String("user_id", params.ID), zap.Error(err))
		return a.normalize(err)
	}

	a.cache.Invalidate(ListPath)
	return ""
}
