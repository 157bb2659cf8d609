package client

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/luochenghuajin/clichatroom/internal/core"
)

func TestClientRunFullSession(t *testing.T) {
	req := require.New(t)

	logger := zerolog.Nop()
	srv := core.NewServer("127.0.0.1:0", nil, &logger)
	req.NoError(srv.Start())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = srv.Run(ctx)
	}()

	// Scripted terminal input: username, one public message, then quit.
	script := strings.NewReader("alice\nhello everyone\n/bye\n")
	c := &Client{Addr: srv.Addr().String(), Input: script}

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(5 * time.Second):
		t.Fatal("client session did not finish")
	}

	// The /bye path deregistered the user.
	require.Eventually(t, func() bool {
		return srv.Registry().Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClientRunConnectFailure(t *testing.T) {
	// Nothing is listening here.
	c := &Client{Addr: "127.0.0.1:1", Input: strings.NewReader("")}
	err := c.Run(context.Background())
	require.Error(t, err)
}
