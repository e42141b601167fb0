package board

import (
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/davidmorenoc/taskboard-api/internal/realtime"
)

// DefaultDebounce is how long the reconciler waits after the last change
// event before triggering a refresh.
const DefaultDebounce = 500 * time.Millisecond

// Reconciler keeps concurrent viewers convergent: it subscribes to the
// task change feed and collapses bursts of events into a single refresh.
// Every event (re)arms the debounce timer; only a quiet window of the full
// delay fires the refresh. Close tears down the subscription and any
// pending timer together.
type Reconciler struct {
	sub     *nats.Subscription
	delay   time.Duration
	refresh func()

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// NewReconciler subscribes to the task change feed on nc and calls refresh
// after each debounced burst of events. A non-positive delay uses
// DefaultDebounce.
func NewReconciler(nc *nats.Conn, delay time.Duration, refresh func()) (*Reconciler, error) {
	if delay <= 0 {
		delay = DefaultDebounce
	}

	r := &Reconciler{
		delay:   delay,
		refresh: refresh,
	}

	sub, err := nc.Subscribe(realtime.SubjectWildcard, func(*nats.Msg) {
		r.bump()
	})
	if err != nil {
		return nil, err
	}
	r.sub = sub

	return r, nil
}

func (r *Reconciler) bump() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, r.fire)
}

func (r *Reconciler) fire() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.timer = nil
	r.mu.Unlock()

	r.refresh()
}

// Close releases the subscription and cancels any pending refresh. Safe to
// call more than once.
func (r *Reconciler) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.mu.Unlock()

	return r.sub.Unsubscribe()
}
