// Package tcp is the framing-aware socket layer: every Message crosses the
// network as a 4-byte big-endian length prefix followed by the codec-encoded
// payload. Transport failures never propagate as errors into the session
// layer; they surface as a false SendFrame result or a missing ReceiveFrame
// result, both meaning "peer is gone".
package tcp

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/luochenghuajin/clichatroom/internal/proto"
)

// Conn wraps a single TCP connection. The owning session is responsible for
// closing it; everyone else only holds it for sending.
type Conn struct {
	id        string
	nc        net.Conn
	closeOnce sync.Once
}

func newConn(nc net.Conn) *Conn {
	return &Conn{id: uuid.NewString(), nc: nc}
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string { return c.id }

// RemoteAddr returns the peer address, for logging.
func (c *Conn) RemoteAddr() string {
	if c.nc == nil {
		return ""
	}
	return c.nc.RemoteAddr().String()
}

// SendFrame writes one length-prefixed frame. It returns false on any write
// failure; a broken pipe means the receiver is presumed gone and is never an
// error worth surfacing.
func (c *Conn) SendFrame(msg proto.Message) bool {
	payload := proto.Encode(msg)

	frame := make([]byte, 0, 4+len(payload))
	frame = binary.BigEndian.AppendUint32(frame, uint32(len(payload)))
	frame = append(frame, payload...)

	// net.Conn.Write never returns a short count without an error.
	_, err := c.nc.Write(frame)
	return err == nil
}

// ReceiveFrame blocks for the next frame and decodes it. The second result
// is false on EOF, short reads, non-positive declared lengths, and decode
// failures; callers treat all of those uniformly as "peer disconnected or
// sent garbage, close the session".
func (c *Conn) ReceiveFrame() (proto.Message, bool) {
	var head [4]byte
	if _, err := io.ReadFull(c.nc, head[:]); err != nil {
		return proto.Message{}, false
	}
	length := int32(binary.BigEndian.Uint32(head[:]))
	if length <= 0 {
		return proto.Message{}, false
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(c.nc, payload); err != nil {
		return proto.Message{}, false
	}

	msg, err := proto.Decode(payload)
	if err != nil {
		return proto.Message{}, false
	}
	return msg, true
}

// Close shuts the connection down. Safe to call more than once.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		_ = c.nc.Close()
	})
}

// Listener accepts chat connections.
type Listener struct {
	ln net.Listener
}

// Addr returns the bound address, useful when listening on port 0.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Accept blocks until a peer connects.
func (l *Listener) Accept() (*Conn, error) {
	nc, err := l.ln.Accept()
	if err != nil {
		return nil, fmt.Errorf("accept: %w", err)
	}
	return newConn(nc), nil
}

// Close stops accepting; an Accept blocked in another goroutine returns
// with an error.
func (l *Listener) Close() error { return l.ln.Close() }

// Listen binds a TCP listener on addr (host:port).
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}
	return &Listener{ln: ln}, nil
}

// Dial connects to a chat server at addr (host:port).
func Dial(addr string) (*Conn, error) {
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}
	return newConn(nc), nil
}
