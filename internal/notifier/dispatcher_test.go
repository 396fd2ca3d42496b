package notifier_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/adiwidodo/gerai/internal/notifier"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryOutbox is an in-memory port.OutboxRepository for dispatcher tests.
type memoryOutbox struct {
	mu       sync.Mutex
	messages []domain.OutboxMessage
	nextID   int64
}

func (m *memoryOutbox) Enqueue(_ context.Context, msg domain.OutboxMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	msg.ID = m.nextID
	msg.NextAttempt = time.Now()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *memoryOutbox) FetchDue(_ context.Context, limit int, maxAttempts int32) ([]domain.OutboxMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var due []domain.OutboxMessage
	for _, msg := range m.messages {
		if msg.SentAt == nil && msg.Attempts < maxAttempts && !msg.NextAttempt.After(time.Now()) {
			due = append(due, msg)
		}
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

func (m *memoryOutbox) MarkSent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.messages {
		if m.messages[i].ID == id {
			now := time.Now()
			m.messages[i].SentAt = &now
		}
	}
	return nil
}

func (m *memoryOutbox) MarkFailed(_ context.Context, id int64, nextAttempt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i].Attempts++
			m.messages[i].NextAttempt = nextAttempt
		}
	}
	return nil
}

func (m *memoryOutbox) snapshot() []domain.OutboxMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]domain.OutboxMessage(nil), m.messages...)
}

func TestDispatcherDeliversAndMarksSent(t *testing.T) {
	ctx := t.Context()

	var (
		mu       sync.Mutex
		received []string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	outbox := &memoryOutbox{}
	require.NoError(t, outbox.Enqueue(ctx, domain.OutboxMessage{
		OrderID:     uuid.New(),
		RecipientID: "ops-channel",
		Text:        "Order #cafebabe",
	}))

	d := notifier.NewDispatcher(outbox, notifier.NewWebhookClient(server.URL), time.Second, slog.Default())
	d.DispatchDue(ctx)

	mu.Lock()
	assert.Len(t, received, 1)
	mu.Unlock()

	messages := outbox.snapshot()
	require.Len(t, messages, 1)
	assert.NotNil(t, messages[0].SentAt)
	assert.EqualValues(t, 0, messages[0].Attempts)
}

// An unreachable endpoint backs the message off for a later retry; the
// failure stays inside the dispatcher.
func TestDispatcherRetriesOnFailure(t *testing.T) {
	ctx := t.Context()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	outbox := &memoryOutbox{}
	require.NoError(t, outbox.Enqueue(ctx, domain.OutboxMessage{
		OrderID:     uuid.New(),
		RecipientID: "ops-channel",
		Text:        "Order #cafebabe",
	}))

	d := notifier.NewDispatcher(outbox, notifier.NewWebhookClient(server.URL), time.Second, slog.Default(),
		notifier.WithBackoff(time.Minute, 3))
	d.DispatchDue(ctx)

	messages := outbox.snapshot()
	require.Len(t, messages, 1)
	assert.Nil(t, messages[0].SentAt)
	assert.EqualValues(t, 1, messages[0].Attempts)
	assert.True(t, messages[0].NextAttempt.After(time.Now().Add(30*time.Second)))

	// backed off: nothing due right now, so a second pass is a no-op
	d.DispatchDue(ctx)

	messages = outbox.snapshot()
	assert.EqualValues(t, 1, messages[0].Attempts)
}

func TestDispatcherStopsAfterAttemptBudget(t *testing.T) {
	ctx := t.Context()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	outbox := &memoryOutbox{}
	require.NoError(t, outbox.Enqueue(ctx, domain.OutboxMessage{
		OrderID:     uuid.New(),
		RecipientID: "ops-channel",
		Text:        "Order #cafebabe",
	}))

	d := notifier.NewDispatcher(outbox, notifier.NewWebhookClient(server.URL), time.Second, slog.Default(),
		notifier.WithBackoff(0, 2))

	// zero backoff keeps the message due, the budget is what stops it
	for range 5 {
		d.DispatchDue(ctx)
	}

	assert.Equal(t, 2, calls)
}
