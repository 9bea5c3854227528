package notifier

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	events []interface{}
	closed bool
	fail   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("write failed")
	}
	c.events = append(c.events, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func newTestRegistry() *Registry {
	logger := zerolog.Nop()
	return NewRegistry(&logger, nil)
}

func TestSendToConnectedUser(t *testing.T) {
	r := newTestRegistry()
	userID := uuid.New()
	conn := &fakeConn{}

	r.Connect(userID, conn)
	r.Send(userID, map[string]string{"type": "alert"})

	require.Equal(t, 1, conn.count())
	assert.Equal(t, 1, r.Count())
}

func TestSendToAbsentUserDropsSilently(t *testing.T) {
	r := newTestRegistry()
	r.Send(uuid.New(), map[string]string{"type": "alert"})
	assert.Equal(t, 0, r.Count())
}

func TestConnectReplacesExistingChannel(t *testing.T) {
	r := newTestRegistry()
	userID := uuid.New()
	first := &fakeConn{}
	second := &fakeConn{}

	r.Connect(userID, first)
	r.Connect(userID, second)

	assert.True(t, first.closed)
	assert.Equal(t, 1, r.Count())

	r.Send(userID, "event")
	assert.Equal(t, 0, first.count())
	assert.Equal(t, 1, second.count())
}

func TestDisconnectIsNoOpWhenAbsent(t *testing.T) {
	r := newTestRegistry()
	r.Disconnect(uuid.New(), nil)
	assert.Equal(t, 0, r.Count())
}

func TestDisconnectOnlyRemovesOwnConn(t *testing.T) {
	// A stale reader pump must not evict the channel that replaced it.
	r := newTestRegistry()
	userID := uuid.New()
	first := &fakeConn{}
	second := &fakeConn{}

	r.Connect(userID, first)
	r.Connect(userID, second)
	r.Disconnect(userID, first)

	assert.Equal(t, 1, r.Count())

	r.Disconnect(userID, second)
	assert.Equal(t, 0, r.Count())
}

func TestSendErrorEvictsChannel(t *testing.T) {
	r := newTestRegistry()
	userID := uuid.New()
	conn := &fakeConn{fail: true}

	r.Connect(userID, conn)
	r.Send(userID, "event")

	assert.Equal(t, 0, r.Count())
}

func TestBroadcast(t *testing.T) {
	r := newTestRegistry()
	a, b := &fakeConn{}, &fakeConn{}
	r.Connect(uuid.New(), a)
	r.Connect(uuid.New(), b)

	r.Broadcast("event")

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
}

// singleWriterConn trips if two WriteJSON calls ever overlap, the condition
// a real gorilla connection forbids.
type singleWriterConn struct {
	inFlight int32
	overlaps int32
}

func (c *singleWriterConn) WriteJSON(v interface{}) error {
	if !atomic.CompareAndSwapInt32(&c.inFlight, 0, 1) {
		atomic.AddInt32(&c.overlaps, 1)
		return nil
	}
	runtime.Gosched()
	atomic.StoreInt32(&c.inFlight, 0)
	return nil
}

func (c *singleWriterConn) Close() error { return nil }

func TestWritesToOneConnectionNeverOverlap(t *testing.T) {
	r := newTestRegistry()
	userID := uuid.New()
	conn := &singleWriterConn{}
	r.Connect(userID, conn)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				r.Send(userID, "event")
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 200; j++ {
			r.Broadcast("event")
		}
	}()
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&conn.overlaps))
}

func TestConcurrentAccess(t *testing.T) {
	r := newTestRegistry()
	users := make([]uuid.UUID, 20)
	for i := range users {
		users[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := users[i%len(users)]
			switch i % 4 {
			case 0:
				r.Connect(u, &fakeConn{})
			case 1:
				r.Send(u, "event")
			case 2:
				r.Disconnect(u, nil)
			default:
				r.Broadcast("event")
			}
		}(i)
	}
	wg.Wait()
}
