package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/scanova-console/internal/models"
	"github.com/noah-isme/scanova-console/internal/notify"
	"github.com/noah-isme/scanova-console/pkg/debounce"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

// Notifier surfaces operation outcomes.
type Notifier interface {
	Success(message string) notify.Toast
	Error(message string) notify.Toast
}

// Confirmation gates destructive operations.
type Confirmation interface {
	Confirm(ctx context.Context, req notify.ConfirmRequest) (bool, error)
}

// FetchFunc loads a collection for the given filters.
type FetchFunc[T models.Entity, F any] func(ctx context.Context, filters F) ([]T, error)

// ListDeps are the collaborators shared by every list controller.
type ListDeps struct {
	Toasts    Notifier
	Confirm   Confirmation
	Validator *validator.Validate
	Logger    *zap.Logger
	Debounce  time.Duration
}

func (d ListDeps) withDefaults() ListDeps {
	if d.Toasts == nil {
		d.Toasts = silentNotifier{}
	}
	if d.Confirm == nil {
		d.Confirm = declineAll{}
	}
	if d.Validator == nil {
		d.Validator = validator.New()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Debounce <= 0 {
		d.Debounce = DefaultFilterDebounce
	}
	return d
}

type silentNotifier struct{}

func (silentNotifier) Success(message string) notify.Toast {
	return notify.Toast{Message: message, Kind: notify.KindSuccess}
}

func (silentNotifier) Error(message string) notify.Toast {
	return notify.Toast{Message: message, Kind: notify.KindError}
}

// declineAll answers every confirmation with no.
type declineAll struct{}

func (declineAll) Confirm(context.Context, notify.ConfirmRequest) (bool, error) {
	return false, nil
}

// DefaultFilterDebounce collapses filter edits into one reload.
const DefaultFilterDebounce = 350 * time.Millisecond

// Mutation describes the user-facing side of a create or update.
type Mutation struct {
	Input          interface{}
	Messages       map[string]string
	SuccessMessage string
	FailureMessage string
}

// Removal describes the user-facing side of a delete.
type Removal struct {
	Confirm        notify.ConfirmRequest
	SuccessMessage string
	FailureMessage string
}

// ListController keeps a client-side copy of a backend collection.
//
// Reloads replace items wholesale. Each reload is numbered; a response for
// anything but the latest reload is dropped. Deleted ids are remembered with
// the reload number current at deletion so that earlier reloads and late
// update responses cannot bring them back.
type ListController[T models.Entity, F any] struct {
	name        string
	fetch       FetchFunc[T, F]
	deps        ListDeps
	debounce    *debounce.Debouncer
	loadFailure func(err error) string

	mu         sync.RWMutex
	items      []T
	filters    F
	loading    bool
	seq        uint64
	tombstones map[string]uint64
}

// NewListController builds a controller. name is used in logs.
func NewListController[T models.Entity, F any](name string, fetch FetchFunc[T, F], deps ListDeps) *ListController[T, F] {
	deps = deps.withDefaults()
	return &ListController[T, F]{
		name:       name,
		fetch:      fetch,
		deps:       deps,
		debounce:   debounce.New(deps.Debounce),
		items:      []T{},
		tombstones: map[string]uint64{},
	}
}

// OnLoadFailure overrides the toast shown when a reload fails. fn returning
// an empty string keeps the failure silent.
func (c *ListController[T, F]) OnLoadFailure(fn func(err error) string) *ListController[T, F] {
	c.loadFailure = fn
	return c
}

func (c *ListController[T, F]) loadFailureMessage(err error) string {
	if c.loadFailure != nil {
		return c.loadFailure(err)
	}
	return appErrors.Message(err, fmt.Sprintf("Failed to load %s.", c.name))
}

// Items returns a copy of the current collection.
func (c *ListController[T, F]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Find returns the entity with id.
func (c *ListController[T, F]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Loading reports whether the latest reload is still in flight.
func (c *ListController[T, F]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Filters returns the filters the next reload will use.
func (c *ListController[T, F]) Filters() F {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filters
}

// Load fetches the collection with the current filters.
func (c *ListController[T, F]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	filters := c.filters
	c.loading = true
	c.mu.Unlock()

	items, err := c.fetch(ctx, filters)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.deps.Logger.Debug("discarding stale reload", zap.String("list", c.name), zap.Uint64("seq", seq))
		return nil
	}
	c.loading = false
	if err != nil {
		c.items = []T{}
		c.mu.Unlock()
		if msg := c.loadFailureMessage(err); msg != "" {
			c.deps.Toasts.Error(msg)
		}
		return err
	}
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if deletedAt, ok := c.tombstones[item.EntityID()]; ok && seq <= deletedAt {
			continue
		}
		kept = append(kept, item)
	}
	c.items = kept
	c.mu.Unlock()
	return nil
}

// SetFilters stores filters and schedules a debounced reload. Only the last
// call inside the window reloads, using the filters it set.
func (c *ListController[T, F]) SetFilters(ctx context.Context, filters F) {
	c.mu.Lock()
	c.filters = filters
	c.mu.Unlock()
	c.debounce.Schedule(func() {
		_ = c.Load(ctx)
	})
}

// SetFiltersNow stores filters without scheduling a reload.
func (c *ListController[T, F]) SetFiltersNow(filters F) {
	c.debounce.Cancel()
	c.mu.Lock()
	c.filters = filters
	c.mu.Unlock()
}

// ReloadPending reports whether a debounced reload has not fired yet.
func (c *ListController[T, F]) ReloadPending() bool {
	return c.debounce.Pending()
}

// Reset empties the collection without a network call and invalidates any
// reload in flight.
func (c *ListController[T, F]) Reset() {
	c.debounce.Cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.items = []T{}
	c.loading = false
}

// Create validates m.Input, runs create, and prepends the result.
func (c *ListController[T, F]) Create(ctx context.Context, m Mutation, create func(ctx context.Context) (*T, error)) (*T, error) {
	if err := c.validate(m); err != nil {
		return nil, err
	}
	created, err := create(ctx)
	if err != nil {
		c.deps.Toasts.Error(appErrors.Message(err, m.FailureMessage))
		return nil, err
	}
	if created == nil {
		return nil, nil
	}
	c.mu.Lock()
	c.items = append([]T{*created}, c.items...)
	c.mu.Unlock()
	if m.SuccessMessage != "" {
		c.deps.Toasts.Success(m.SuccessMessage)
	}
	return created, nil
}

// Update validates m.Input, runs update, and replaces the entity in place.
func (c *ListController[T, F]) Update(ctx context.Context, id string, m Mutation, update func(ctx context.Context) (*T, error)) (*T, error) {
	if err := c.validate(m); err != nil {
		return nil, err
	}
	updated, err := update(ctx)
	if err != nil {
		c.deps.Toasts.Error(appErrors.Message(err, m.FailureMessage))
		return nil, err
	}

	c.mu.Lock()
	if _, deleted := c.tombstones[id]; deleted {
		c.mu.Unlock()
		c.deps.Logger.Debug("ignoring update for deleted entity", zap.String("list", c.name), zap.String("id", id))
		return updated, nil
	}
	if updated != nil {
		for i := range c.items {
			if c.items[i].EntityID() == id {
				c.items[i] = *updated
				break
			}
		}
	}
	c.mu.Unlock()
	if m.SuccessMessage != "" {
		c.deps.Toasts.Success(m.SuccessMessage)
	}
	return updated, nil
}

// Delete asks for confirmation, then runs remove and drops the entity. A
// declined confirmation returns false without calling remove.
func (c *ListController[T, F]) Delete(ctx context.Context, id string, r Removal, remove func(ctx context.Context) error) (bool, error) {
	ok, err := c.deps.Confirm.Confirm(ctx, r.Confirm)
	if err != nil {
		c.deps.Toasts.Error(appErrors.Message(err, r.FailureMessage))
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := remove(ctx); err != nil {
		c.deps.Toasts.Error(appErrors.Message(err, r.FailureMessage))
		return false, err
	}

	c.mu.Lock()
	c.tombstones[id] = c.seq
	kept := c.items[:0:0]
	for _, item := range c.items {
		if item.EntityID() != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	c.mu.Unlock()
	if r.SuccessMessage != "" {
		c.deps.Toasts.Success(r.SuccessMessage)
	}
	return true, nil
}

// Close cancels a pending debounced reload.
func (c *ListController[T, F]) Close() {
	c.debounce.Cancel()
}

func (c *ListController[T, F]) validate(m Mutation) error {
	if m.Input == nil {
		return nil
	}
	if err := c.deps.Validator.Struct(m.Input); err != nil {
		msg := validationMessage(err, m.Messages)
		c.deps.Toasts.Error(msg)
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msg)
	}
	return nil
}

// validationMessage turns the first validator failure into a sentence.
// messages is keyed by struct field name.
func validationMessage(err error, messages map[string]string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid input."
	}
	first := verrs[0]
	if msg, ok := messages[first.Field()]; ok {
		return msg
	}
	field := humanize(first.Field())
	switch first.Tag() {
	case "required":
		return field + " is required."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", field, first.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", field, strings.ReplaceAll(first.Param(), " ", ", "))
	default:
		return field + " is invalid."
	}
}

func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
