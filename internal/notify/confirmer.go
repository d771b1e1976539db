package notify

import (
	"context"
	"sync"

	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

// ConfirmRequest describes a destructive-intent prompt.
type ConfirmRequest struct {
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
	Danger      bool
}

// Presenter shows a pending request to the user.
type Presenter func(ConfirmRequest)

// Confirmer bridges a blocking Confirm call to the user's next decision.
// At most one request is pending at a time.
type Confirmer struct {
	mu        sync.Mutex
	presenter Presenter
	pending   *pendingConfirm
}

type pendingConfirm struct {
	req    ConfirmRequest
	answer chan bool
}

// NewConfirmer builds a bridge. presenter may be nil.
func NewConfirmer(presenter Presenter) *Confirmer {
	return &Confirmer{presenter: presenter}
}

// Confirm blocks until Resolve is called or ctx ends. A second request while
// one is pending fails with ErrConfirmationPending.
func (c *Confirmer) Confirm(ctx context.Context, req ConfirmRequest) (bool, error) {
	if req.ConfirmText == "" {
		req.ConfirmText = "Confirm"
	}
	if req.CancelText == "" {
		req.CancelText = "Cancel"
	}

	c.mu.Lock()
	if c.pending != nil {
		c.mu.Unlock()
		return false, appErrors.ErrConfirmationPending
	}
	p := &pendingConfirm{req: req, answer: make(chan bool, 1)}
	c.pending = p
	presenter := c.presenter
	c.mu.Unlock()

	if presenter != nil {
		presenter(req)
	}

	select {
	case ok := <-p.answer:
		return ok, nil
	case <-ctx.Done():
		c.mu.Lock()
		defer c.mu.Unlock()
		// Resolve sends under mu, so a recorded answer is visible here.
		select {
		case ok := <-p.answer:
			return ok, nil
		default:
		}
		if c.pending == p {
			c.pending = nil
		}
		return false, appErrors.Wrap(ctx.Err(), appErrors.ErrCancelled.Code, appErrors.ErrCancelled.Status, appErrors.ErrCancelled.Message)
	}
}

// Resolve answers the pending request exactly once and clears it.
func (c *Confirmer) Resolve(ok bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return appErrors.ErrNoConfirmation
	}
	c.pending.answer <- ok
	c.pending = nil
	return nil
}

// Pending returns the request awaiting an answer, if any.
func (c *Confirmer) Pending() (ConfirmRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return ConfirmRequest{}, false
	}
	return c.pending.req, true
}
