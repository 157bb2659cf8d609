// Package core is the session and message-routing engine: the concurrent
// user registry, broadcast/unicast routing, the command processor, and the
// per-connection session state machine driven by the server accept loop.
package core

import "github.com/luochenghuajin/clichatroom/internal/history"

// User is a chat participant as seen by the core layer. ID is the
// underlying connection's identifier.
type User struct {
	ID        string
	Username  string
	Connected bool
	JoinedAt  int64
}

// HistorySink is the narrow contract the core needs from the history log.
// Write failures are the sink's problem; routing never stops for them.
type HistorySink interface {
	Write(entry history.Entry) error
}

// nopHistory is used when no history sink is configured.
type nopHistory struct{}

func (nopHistory) Write(history.Entry) error { return nil }
