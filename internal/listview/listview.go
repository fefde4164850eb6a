// Package listview owns the authoritative user sequence for the list page
// and wires form controllers to the optimistic overlay.
package listview

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/userdeck/userdeck/internal/form"
	"github.com/userdeck/userdeck/internal/notify"
	"github.com/userdeck/userdeck/internal/optimistic"
	"github.com/userdeck/userdeck/internal/users"
	"github.com/userdeck/userdeck/internal/view"
)

// Page is the single ownership point for the displayed user list. The
// authoritative sequence is only replaced on refetch; reads go through the
// optimistic reducer and never mutate it.
type Page struct {
	service  users.UserService
	actions  form.MutationActions
	cache    *view.PathCache
	notifier notify.Notifier
	logger   *zap.Logger
	runner   func(work func())

	mu            sync.Mutex
	authoritative []users.User
	pending       []optimistic.Entry
	surfaceOpen   bool
	prefill       *users.User
}

// NewPage creates the list page over a service, the mutation actions, and a
// view cache.
func NewPage(service users.UserService, actions form.MutationActions, cache *view.PathCache, notifier notify.Notifier, logger *zap.Logger) *Page {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Page{
		service:  service,
		actions:  actions,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
	}
}

// WithRunner substitutes the mutation runner handed to form controllers
func (p *Page) WithRunner(runner func(work func())) *Page {
	p.runner = runner
	return p
}

// Load refetches the authoritative list whenever the view cache marks the
// list path stale. A refetch reconciles: the optimistic overlay is
// discarded and the view re-renders from the authoritative sequence.
func (p *Page) Load(ctx context.Context) error {
	if !p.cache.Stale(users.ListPath) {
		return nil
	}

	list, err := p.service.GetUsers(ctx)
	if err != nil {
		p.logger.Error("Failed to load users", zap.Error(err))
		return fmt.Errorf("failed to load users: %w", err)
	}

	p.mu.Lock()
	p.authoritative = list.Users
	p.pending = nil
	p.mu.Unlock()

	p.cache.MarkFresh(users.ListPath)
	return nil
}

// Refresh marks the list path stale so the next Load refetches
func (p *Page) Refresh() {
	p.cache.Invalidate(users.ListPath)
}

// AddOptimistic queues a pending entry onto the overlay
func (p *Page) AddOptimistic(entry optimistic.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, entry)
}

// Rows returns the visible sequence: the authoritative list with the
// pending overlay applied. The authoritative copy is never mutated.
func (p *Page) Rows() []users.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return optimistic.Reduce(p.authoritative, p.pending...)
}

// SurfaceOpen reports whether a create/edit surface is open
func (p *Page) SurfaceOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.surfaceOpen
}

// Prefill returns the values the open surface was seeded with, if any
func (p *Page) Prefill() *users.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prefill
}

// StartCreate opens the creation surface and returns its controller
func (p *Page) StartCreate() *form.Controller {
	p.openSurface(nil)
	return form.NewController(nil, p.formDeps())
}

// StartEdit opens the edit surface for the given record and returns its
// controller
func (p *Page) StartEdit(id string) (*form.Controller, error) {
	p.mu.Lock()
	var target *users.User
	for i := range p.authoritative {
		if p.authoritative[i].ID == id {
			user := p.authoritative[i]
			target = &user
			break
		}
	}
	p.mu.Unlock()

	if target == nil {
		return nil, fmt.Errorf("user not found: %s", id)
	}

	p.openSurface(target)
	return form.NewController(target, p.formDeps()), nil
}

func (p *Page) formDeps() form.Deps {
	return form.Deps{
		Actions:       p.actions,
		AddOptimistic: p.AddOptimistic,
		OpenSurface:   func(values users.User) { p.openSurface(&values) },
		CloseSurface:  p.closeSurface,
		Refresh:       p.Refresh,
		PostSuccess:   p.closeSurface,
		Notifier:      p.notifier,
		Logger:        p.logger,
		Run:           p.runner,
	}
}

func (p *Page) openSurface(prefill *users.User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surfaceOpen = true
	p.prefill = prefill
}

func (p *Page) closeSurface() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surfaceOpen = false
	p.prefill = nil
}
