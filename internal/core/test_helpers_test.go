package core

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/luochenghuajin/clichatroom/internal/proto"
	"github.com/luochenghuajin/clichatroom/internal/transport/tcp"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// connPair returns a connected (serverSide, clientSide) over loopback.
func connPair(t *testing.T) (*tcp.Conn, *tcp.Conn) {
	t.Helper()

	ln, err := tcp.Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	accepted := make(chan *tcp.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	clientSide, err := tcp.Dial(ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(clientSide.Close)

	select {
	case serverSide := <-accepted:
		t.Cleanup(serverSide.Close)
		return serverSide, clientSide
	case <-time.After(2 * time.Second):
		t.Fatal("accept timed out")
		return nil, nil
	}
}

// mustReceive returns the next frame matching pred, skipping others, or
// fails the test after a deadline.
func mustReceive(t *testing.T, conn *tcp.Conn, pred func(proto.Message) bool) proto.Message {
	t.Helper()

	result := make(chan proto.Message, 1)
	closed := make(chan struct{})
	go func() {
		for {
			msg, ok := conn.ReceiveFrame()
			if !ok {
				close(closed)
				return
			}
			if pred(msg) {
				result <- msg
				return
			}
		}
	}()

	select {
	case msg := <-result:
		return msg
	case <-closed:
		t.Fatal("connection closed before expected frame arrived")
	case <-time.After(3 * time.Second):
		t.Fatal("expected frame not received")
	}
	return proto.Message{}
}

func isCommand(content string) func(proto.Message) bool {
	return func(m proto.Message) bool {
		return m.Type == proto.CommandResponse && m.Content == content
	}
}

func isType(typ proto.MessageType) func(proto.Message) bool {
	return func(m proto.Message) bool { return m.Type == typ }
}

// mustClosed asserts the peer closes conn within the deadline.
func mustClosed(t *testing.T, conn *tcp.Conn) {
	t.Helper()

	done := make(chan bool, 1)
	go func() {
		for {
			if _, ok := conn.ReceiveFrame(); !ok {
				done <- true
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("connection was not closed")
	}
}
