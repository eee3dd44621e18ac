package notification

import (
	"context"
	"errors"
	"grocery_store/internal/models"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu      sync.Mutex
	got     []string
	block   chan struct{}
	failFor string
}

func (n *recordingNotifier) Notify(ctx context.Context, order OrderSnapshot) error {
	if n.block != nil {
		select {
		case <-n.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, order.Reference)
	if order.Reference == n.failFor {
		return errors.New("smtp down")
	}
	return nil
}

func (n *recordingNotifier) references() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.got...)
}

func TestDispatcherDeliversAndDrains(t *testing.T) {
	notifier := &recordingNotifier{failFor: "GROCER-BBBBBB"}
	d := NewDispatcher(notifier, 2, 10, time.Second, zap.NewNop())

	for _, ref := range []string{"GROCER-AAAAAA", "GROCER-BBBBBB", "GROCER-CCCCCC"} {
		assert.True(t, d.Dispatch(OrderSnapshot{Reference: ref}))
	}
	require.NoError(t, d.Close(context.Background()))

	assert.ElementsMatch(t, []string{"GROCER-AAAAAA", "GROCER-BBBBBB", "GROCER-CCCCCC"}, notifier.references())
	assert.False(t, d.Dispatch(OrderSnapshot{Reference: "GROCER-DDDDDD"}))
}

func TestDispatchNeverBlocks(t *testing.T) {
	notifier := &recordingNotifier{block: make(chan struct{})}
	d := NewDispatcher(notifier, 1, 1, time.Second, zap.NewNop())

	accepted := 0
	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			if d.Dispatch(OrderSnapshot{Reference: "GROCER-X"}) {
				accepted++
			}
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
	assert.LessOrEqual(t, accepted, 2)

	close(notifier.block)
	require.NoError(t, d.Close(context.Background()))
}

func TestCloseHonoursContext(t *testing.T) {
	notifier := &recordingNotifier{block: make(chan struct{})}
	d := NewDispatcher(notifier, 1, 1, time.Minute, zap.NewNop())
	require.True(t, d.Dispatch(OrderSnapshot{Reference: "GROCER-SLOW"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)

	close(notifier.block)
}

func TestSnapshotBody(t *testing.T) {
	order := OrderSnapshot{
		Reference:     "GROCER-AB12CD",
		CustomerName:  "Awa Diop",
		CustomerEmail: "awa@example.com",
		PaymentMethod: "wave_qr",
		TotalAmount:   decimal.RequireFromString("25"),
		Items: []ItemSnapshot{
			{ProductName: "Rice", Price: decimal.RequireFromString("12.5"), Quantity: 2, Subtotal: decimal.RequireFromString("25")},
		},
	}

	assert.Equal(t, "New order received: GROCER-AB12CD", order.Subject())
	body := order.Body()
	assert.Contains(t, body, "Awa Diop <awa@example.com>")
	assert.Contains(t, body, "2 x Rice @ 12.50 = 25.00")
	assert.Contains(t, body, "Total: 25.00")
}

func TestPaymentStartedTexts(t *testing.T) {
	order := NewPaymentStartedSnapshot(&models.Order{
		OrderReference: "GROCER-AB12CD",
		CustomerName:   "Awa Diop",
		CustomerEmail:  "awa@example.com",
		CustomerPhone:  "+221700000000",
		PaymentMethod:  "wave_qr",
		TotalAmount:    decimal.RequireFromString("15000"),
	})

	assert.Equal(t, "Payment started: GROCER-AB12CD", order.Subject())
	body := order.Body()
	assert.Contains(t, body, "started paying with wave_qr")
	assert.Contains(t, body, "Awa Diop <awa@example.com> +221700000000")
	assert.Contains(t, body, "Amount:    15000.00")

	assert.Equal(t, "Order confirmation: GROCER-AB12CD", order.CustomerSubject())
	assert.Contains(t, order.CustomerBody(), "Hello Awa Diop")
	assert.Contains(t, order.CustomerBody(), "order GROCER-AB12CD")
	assert.Contains(t, (OrderSnapshot{Reference: "GROCER-OLD001"}).Subject(), "New order received")
}
