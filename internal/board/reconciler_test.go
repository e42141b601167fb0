package board

import (
	"sync/atomic"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"github.com/davidmorenoc/taskboard-api/internal/realtime"
)

// startTestNATSServer starts an embedded NATS server for testing.
func startTestNATSServer(t *testing.T) *natsserver.Server {
	t.Helper()

	opts := &natsserver.Options{
		Host:   "127.0.0.1",
		Port:   -1, // Random port
		NoLog:  true,
		NoSigs: true,
	}

	server, err := natsserver.NewServer(opts)
	require.NoError(t, err)

	go server.Start()

	if !server.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	t.Cleanup(func() {
		server.Shutdown()
		server.WaitForShutdown()
	})

	return server
}

func connectTestNATS(t *testing.T, server *natsserver.Server) *nats.Conn {
	t.Helper()

	nc, err := nats.Connect(server.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	return nc
}

// TestReconciler_DebouncesBurst verifies that a burst of change events
// collapses into a single refresh once the feed goes quiet.
func TestReconciler_DebouncesBurst(t *testing.T) {
	server := startTestNATSServer(t)
	nc := connectTestNATS(t, server)
	pub := connectTestNATS(t, server)

	var refreshes int32
	refreshed := make(chan struct{}, 16)

	reconciler, err := NewReconciler(nc, 100*time.Millisecond, func() {
		atomic.AddInt32(&refreshes, 1)
		refreshed <- struct{}{}
	})
	require.NoError(t, err)
	defer reconciler.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, pub.Publish(realtime.Subject("task-1"), []byte(`{}`)))
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, pub.Flush())

	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh never fired")
	}

	// The quiet window after the burst must produce exactly one refresh
	time.Sleep(300 * time.Millisecond)
	require.Equal(t, int32(1), atomic.LoadInt32(&refreshes))
}

// TestReconciler_NewEventReschedules verifies a second burst triggers a
// second refresh.
func TestReconciler_NewEventReschedules(t *testing.T) {
	server := startTestNATSServer(t)
	nc := connectTestNATS(t, server)
	pub := connectTestNATS(t, server)

	refreshed := make(chan struct{}, 16)

	reconciler, err := NewReconciler(nc, 50*time.Millisecond, func() {
		refreshed <- struct{}{}
	})
	require.NoError(t, err)
	defer reconciler.Close()

	for i := 0; i < 2; i++ {
		require.NoError(t, pub.Publish(realtime.Subject("task-1"), []byte(`{}`)))
		require.NoError(t, pub.Flush())

		select {
		case <-refreshed:
		case <-time.After(2 * time.Second):
			t.Fatalf("refresh %d never fired", i+1)
		}
	}
}

// TestReconciler_CloseCancelsPendingRefresh verifies Close stops both the
// subscription and an armed debounce timer.
func TestReconciler_CloseCancelsPendingRefresh(t *testing.T) {
	server := startTestNATSServer(t)
	nc := connectTestNATS(t, server)
	pub := connectTestNATS(t, server)

	var refreshes int32

	reconciler, err := NewReconciler(nc, 100*time.Millisecond, func() {
		atomic.AddInt32(&refreshes, 1)
	})
	require.NoError(t, err)

	require.NoError(t, pub.Publish(realtime.Subject("task-1"), []byte(`{}`)))
	require.NoError(t, pub.Flush())

	// Give the event time to arrive, then close before the timer fires
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, reconciler.Close())

	time.Sleep(300 * time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&refreshes))

	// Closing again is a no-op
	require.NoError(t, reconciler.Close())
}

// TestReconciler_DefaultDelay verifies a non-positive delay falls back to
// the default debounce window.
func TestReconciler_DefaultDelay(t *testing.T) {
	server := startTestNATSServer(t)
	nc := connectTestNATS(t, server)

	reconciler, err := NewReconciler(nc, 0, func() {})
	require.NoError(t, err)
	defer reconciler.Close()

	require.Equal(t, DefaultDebounce, reconciler.delay)
}
