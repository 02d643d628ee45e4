package dispatcher

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/VestaKK/rpcbridge/internal/payload"
	"github.com/VestaKK/rpcbridge/internal/protocol"
	"github.com/VestaKK/rpcbridge/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestListener(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	return ln
}

func TestDispatcher_ServesConcurrentClients(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("echo", func(in *payload.Payload) (*payload.Payload, error) {
		return in, nil
	}))

	ln := newTestListener(t)
	d := New(ln, reg, Config{Workers: 3}, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Serve(ctx) }()

	const clients = 5
	results := make(chan int64, clients)
	for i := 0; i < clients; i++ {
		go func(n int64) {
			conn, err := net.Dial("tcp", ln.Addr().String())
			if err != nil {
				results <- -1
				return
			}
			defer func() { _ = conn.Close() }()

			if _, err := protocol.Connect(conn); err != nil {
				results <- -1
				return
			}
			digest, err := protocol.Find(conn, "echo")
			if err != nil {
				results <- -1
				return
			}
			out, err := protocol.Call(conn, digest, &payload.Payload{Int: n})
			if err != nil {
				results <- -1
				return
			}
			results <- out.Int
		}(int64(i))
	}

	for i := 0; i < clients; i++ {
		select {
		case got := <-results:
			assert.GreaterOrEqual(t, got, int64(0))
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for client result")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not shut down")
	}
}

func TestDispatcher_StopIsIdempotent(t *testing.T) {
	reg := registry.New()
	ln := newTestListener(t)
	d := New(ln, reg, Config{Workers: 2}, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Serve(ctx) }()

	time.Sleep(10 * time.Millisecond)
	d.Stop()
	d.Stop()
}

func TestNew_DefaultsWorkerCountWhenUnset(t *testing.T) {
	reg := registry.New()
	ln := newTestListener(t)
	d := New(ln, reg, Config{}, nil, nil, nil)
	assert.Equal(t, DefaultWorkers, d.workers)
}
