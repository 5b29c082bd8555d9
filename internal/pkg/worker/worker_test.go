package worker

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingNotifier struct {
	calls    int32
	failures int32
}

func (n *countingNotifier) NotifyOperator(title, body string, ext map[string]string) error {
	c := atomic.AddInt32(&n.calls, 1)
	if c <= atomic.LoadInt32(&n.failures) {
		return errors.New("push unavailable")
	}
	return nil
}

func TestAlertPool(t *testing.T) {
	t.Run("delivers alert", func(t *testing.T) {
		n := &countingNotifier{}
		p := NewAlertPool(n, 2, 8)
		p.Start()
		defer p.Stop()

		p.AddTask(Alert{Kind: "AMOUNT_MISMATCH", PaymentID: "pay_1", Title: "t"})

		assert.Eventually(t, func() bool { return atomic.LoadInt32(&n.calls) == 1 }, time.Second, 5*time.Millisecond)
	})

	t.Run("retries until success", func(t *testing.T) {
		n := &countingNotifier{failures: 2}
		p := NewAlertPool(n, 1, 8)
		p.RetryDelay = time.Millisecond
		p.Start()
		defer p.Stop()

		p.AddTask(Alert{Kind: "INSUFFICIENT_STOCK", PaymentID: "pay_2"})

		assert.Eventually(t, func() bool { return atomic.LoadInt32(&n.calls) == 3 }, time.Second, 5*time.Millisecond)
	})

	t.Run("gives up after max retry", func(t *testing.T) {
		n := &countingNotifier{failures: 100}
		p := NewAlertPool(n, 1, 8)
		p.RetryDelay = time.Millisecond
		p.MaxRetry = 2
		p.Start()
		defer p.Stop()

		p.AddTask(Alert{Kind: "INSUFFICIENT_STOCK", PaymentID: "pay_3"})

		assert.Eventually(t, func() bool { return atomic.LoadInt32(&n.calls) == 3 }, time.Second, 5*time.Millisecond)
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, int32(3), atomic.LoadInt32(&n.calls))
	})

	t.Run("nil notifier only logs", func(t *testing.T) {
		p := NewAlertPool(nil, 1, 1)
		p.Start()
		p.AddTask(Alert{Kind: "AMOUNT_MISMATCH"})
		p.Stop()
	})
}
