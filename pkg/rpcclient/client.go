// Package rpcclient is the public client-side surface: dial a server,
// negotiate its hardware profile, look up procedures by name, and call
// them with a validated payload.
package rpcclient

import (
	"fmt"
	"net"
	"time"

	"github.com/VestaKK/rpcbridge/internal/payload"
	"github.com/VestaKK/rpcbridge/internal/profile"
	"github.com/VestaKK/rpcbridge/internal/protocol"
)

// Client is a single connection to one server, past the CONNECT exchange.
// Not safe for concurrent use — exchanges on one connection are strictly
// serialized, matching the wire protocol's request/reply framing.
type Client struct {
	conn    net.Conn
	profile profile.Profile
}

// NewClient resolves addr:port, dials it, and runs the CONNECT exchange.
// A positive dialTimeout bounds the dial only, not subsequent calls.
func NewClient(addr string, port int, dialTimeout time.Duration) (*Client, error) {
	target := fmt.Sprintf("%s:%d", addr, port)

	var conn net.Conn
	var err error
	if dialTimeout > 0 {
		conn, err = net.DialTimeout("tcp", target, dialTimeout)
	} else {
		conn, err = net.Dial("tcp", target)
	}
	if err != nil {
		return nil, fmt.Errorf("rpcclient: dial %s: %w", target, err)
	}

	prof, err := protocol.Connect(conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rpcclient: connect: %w", err)
	}

	return &Client{conn: conn, profile: prof}, nil
}

// Find looks up name's digest on the connected server.
func (c *Client) Find(name string) (uint64, error) {
	digest, err := protocol.Find(c.conn, name)
	if err != nil {
		return 0, fmt.Errorf("rpcclient: find %q: %w", name, err)
	}
	return digest, nil
}

// Call validates in against the server's negotiated hardware profile and,
// if it fits, invokes the procedure addressed by digest. The returned
// payload is owned by the caller; release it with FreePayload.
func (c *Client) Call(digest uint64, in *payload.Payload) (*payload.Payload, error) {
	if flags := profile.Validate(c.profile, in); flags != profile.ErrNone {
		return nil, &protocol.RemoteError{Flags: flags}
	}

	out, err := protocol.Call(c.conn, digest, in)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: call: %w", err)
	}
	return out, nil
}

// Close sends a best-effort DISCONNECT and tears down the connection.
func (c *Client) Close() error {
	_ = protocol.Disconnect(c.conn)
	return c.conn.Close()
}

// FreePayload releases a payload returned by Call.
func FreePayload(p *payload.Payload) {
	payload.Free(p)
}
