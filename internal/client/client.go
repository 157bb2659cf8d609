// Package client is the terminal side of the chat: it dials the server,
// walks the username handshake, then splits into an input goroutine that
// owns writes and a receive goroutine that owns reads. The two share only
// the connection handle.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"

	"github.com/luochenghuajin/clichatroom/internal/proto"
	"github.com/luochenghuajin/clichatroom/internal/transport/tcp"
)

// Client runs the interactive chat session. Input defaults to stdin; tests
// substitute a scripted reader.
type Client struct {
	Addr  string
	Input io.Reader
}

// Run connects, authenticates, and serves the input and receive loops until
// the user quits, the server disconnects, or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	conn, err := tcp.Dial(c.Addr)
	if err != nil {
		return fmt.Errorf("dial chat server: %w", err)
	}
	defer conn.Close()

	in := c.Input
	if in == nil {
		in = os.Stdin
	}
	lines := bufio.NewScanner(in)

	if ok := c.handshake(conn, lines); !ok {
		return nil
	}

	// Cancellation closes the connection, which unblocks both loops.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		receiveLoop(conn)
	}()

	inputLoop(conn, lines)
	<-done
	return nil
}

// handshake drives the client half of the authentication exchange: the
// server prompts, the user answers, until the name is accepted or the
// server gives up.
func (c *Client) handshake(conn *tcp.Conn, lines *bufio.Scanner) bool {
	for {
		msg, ok := conn.ReceiveFrame()
		if !ok {
			color.Red.Println("Disconnected during authentication.")
			return false
		}
		if msg.Type != proto.CommandResponse {
			continue
		}

		switch msg.Content {
		case proto.ContentEnterUsername:
			color.Cyan.Println("Please enter your username:")
			if !lines.Scan() {
				return false
			}
			reply := parseUsername(lines.Text())
			conn.SendFrame(reply)

		case proto.ContentUsernameAccepted:
			return true

		case proto.ContentUsernameTaken:
			color.Yellow.Println("Username already taken, try another:")

		case proto.ContentAuthFailed:
			color.Red.Println("Too many failed attempts, goodbye.")
			return false
		}
	}
}

// inputLoop reads typed lines and sends them until /bye or EOF. It owns all
// writes to the connection after the handshake.
func inputLoop(conn *tcp.Conn, lines *bufio.Scanner) {
	for lines.Scan() {
		msg, action := parseLine(lines.Text())
		switch action {
		case actionNone:
			continue
		case actionSend:
			if !conn.SendFrame(msg) {
				return
			}
		case actionQuit:
			conn.SendFrame(msg)
			conn.Close()
			return
		}
	}
	conn.Close()
}

// receiveLoop renders incoming messages until the server disconnects or
// acknowledges a /bye. It owns all reads.
func receiveLoop(conn *tcp.Conn) {
	for {
		msg, ok := conn.ReceiveFrame()
		if !ok {
			color.Red.Println("Disconnected from server.")
			return
		}
		if msg.Type == proto.CommandResponse && msg.Content == proto.ContentGoodbye {
			return
		}
		render(msg)
	}
}
