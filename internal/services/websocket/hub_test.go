package websocket

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DLXHub/API/internal/services/jobs"
)

type stubConn struct {
	mu     sync.Mutex
	writes int
	err    error
	closed bool
}

func (c *stubConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.writes++
	return nil
}

func (c *stubConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *stubConn) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

func (c *stubConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func clientCount(h *Hub) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func TestHubDropsFailedClientAndKeepsBroadcasting(t *testing.T) {
	h := NewHub()
	go h.Run()

	good := &stubConn{}
	bad := &stubConn{err: errors.New("connection reset")}
	h.Register(good)
	h.Register(bad)
	require.Eventually(t, func() bool {
		return clientCount(h) == 2
	}, time.Second, 10*time.Millisecond)

	h.PublishJobEvent(jobs.Event{JobID: "job-1", Name: "sitemap", At: time.Now()})

	require.Eventually(t, func() bool {
		return clientCount(h) == 1 && bad.isClosed()
	}, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return good.writeCount() == 1
	}, time.Second, 10*time.Millisecond)

	// The hub must still deliver after dropping a client.
	h.PublishJobEvent(jobs.Event{JobID: "job-1", Name: "sitemap", At: time.Now()})

	require.Eventually(t, func() bool {
		return good.writeCount() == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, clientCount(h))
}

func TestUnregisterClosesAndRemovesClient(t *testing.T) {
	h := NewHub()
	go h.Run()

	conn := &stubConn{}
	h.Register(conn)
	require.Eventually(t, func() bool {
		return clientCount(h) == 1
	}, time.Second, 10*time.Millisecond)

	h.Unregister(conn)
	require.Eventually(t, func() bool {
		return clientCount(h) == 0 && conn.isClosed()
	}, time.Second, 10*time.Millisecond)
}
