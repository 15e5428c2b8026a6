package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift_scheduler_backend/pkg/workerpool"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []Message
	done chan struct{}
}

func (r *recordingNotifier) Notify(_ context.Context, msg Message) error {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func TestDispatcherDelivers(t *testing.T) {
	pool := workerpool.New(1, 4)
	rec := &recordingNotifier{done: make(chan struct{}, 1)}
	d := NewDispatcher(pool, rec)

	d.Dispatch(Message{UserID: "u1", ChatID: 7, Text: "hello"})

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
	require.NoError(t, pool.Close(context.Background()))
	assert.Equal(t, "hello", rec.msgs[0].Text)
}

func TestDispatcherAfterCloseDoesNotPanic(t *testing.T) {
	pool := workerpool.New(1, 1)
	require.NoError(t, pool.Close(context.Background()))

	d := NewDispatcher(pool, LogNotifier{})
	assert.NotPanics(t, func() { d.Dispatch(Message{UserID: "u1", Text: "late"}) })
}

func TestNewFallsBackToLog(t *testing.T) {
	n, err := New("")
	require.NoError(t, err)
	assert.IsType(t, LogNotifier{}, n)
	assert.NoError(t, n.Notify(context.Background(), Message{Text: "x"}))
}

func TestTelegramNotifierRequiresChat(t *testing.T) {
	n, err := NewTelegramNotifier("123:offline-token")
	require.NoError(t, err)
	assert.ErrorIs(t, n.Notify(context.Background(), Message{Text: "x"}), ErrNoRecipient)
}
