package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

func TestToasterQueuesAndExpires(t *testing.T) {
	var mu sync.Mutex
	var seen []Toast
	toaster := NewToaster(40*time.Millisecond, func(toast Toast) {
		mu.Lock()
		seen = append(seen, toast)
		mu.Unlock()
	})
	defer toaster.Close()

	first := toaster.Success("Saved")
	second := toaster.Success("Saved")
	toaster.Error("Boom")

	assert.NotEqual(t, first.ID, second.ID)
	list := toaster.List()
	require.Len(t, list, 3)
	assert.Equal(t, KindError, list[2].Kind)

	mu.Lock()
	assert.Len(t, seen, 3)
	mu.Unlock()

	assert.Eventually(t, func() bool { return len(toaster.List()) == 0 }, time.Second, 10*time.Millisecond)
}

func TestToasterDismiss(t *testing.T) {
	toaster := NewToaster(time.Hour, nil)
	defer toaster.Close()

	a := toaster.Success("a")
	b := toaster.Error("b")
	toaster.Dismiss(a.ID)
	toaster.Dismiss("unknown")

	list := toaster.List()
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	toaster.Close()
	toaster.Success("after close")
	assert.Empty(t, toaster.List())
}

func TestConfirmerResolvesOnce(t *testing.T) {
	presented := make(chan ConfirmRequest, 1)
	c := NewConfirmer(func(req ConfirmRequest) { presented <- req })

	result := make(chan bool, 1)
	go func() {
		ok, err := c.Confirm(context.Background(), ConfirmRequest{Title: "Delete Student", Danger: true})
		assert.NoError(t, err)
		result <- ok
	}()

	req := <-presented
	assert.Equal(t, "Confirm", req.ConfirmText)
	assert.Equal(t, "Cancel", req.CancelText)

	pending, ok := c.Pending()
	require.True(t, ok)
	assert.Equal(t, "Delete Student", pending.Title)

	require.NoError(t, c.Resolve(true))
	assert.True(t, <-result)

	_, ok = c.Pending()
	assert.False(t, ok)
	assert.True(t, errors.Is(c.Resolve(false), appErrors.ErrNoConfirmation))
}

func TestConfirmerRejectsSecondRequest(t *testing.T) {
	presented := make(chan struct{}, 1)
	c := NewConfirmer(func(ConfirmRequest) { presented <- struct{}{} })

	done := make(chan bool, 1)
	go func() {
		ok, _ := c.Confirm(context.Background(), ConfirmRequest{Title: "first"})
		done <- ok
	}()
	<-presented

	_, err := c.Confirm(context.Background(), ConfirmRequest{Title: "second"})
	assert.True(t, errors.Is(err, appErrors.ErrConfirmationPending))

	pending, _ := c.Pending()
	assert.Equal(t, "first", pending.Title)

	require.NoError(t, c.Resolve(false))
	assert.False(t, <-done)
}

func TestConfirmerPresenterMayAnswerInline(t *testing.T) {
	var c *Confirmer
	c = NewConfirmer(func(ConfirmRequest) { _ = c.Resolve(true) })

	ok, err := c.Confirm(context.Background(), ConfirmRequest{Title: "Remove Member"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirmerContextCancel(t *testing.T) {
	c := NewConfirmer(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ok, err := c.Confirm(ctx, ConfirmRequest{Title: "x"})
	assert.False(t, ok)
	assert.True(t, errors.Is(err, appErrors.ErrCancelled))

	_, pending := c.Pending()
	assert.False(t, pending)
}

func TestConfirmerPrefersAnswerOverCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 50; i++ {
		var c *Confirmer
		c = NewConfirmer(func(ConfirmRequest) { _ = c.Resolve(true) })

		ok, err := c.Confirm(ctx, ConfirmRequest{Title: "Delete Course"})
		require.NoError(t, err)
		assert.True(t, ok)

		_, pending := c.Pending()
		assert.False(t, pending)
	}
}
