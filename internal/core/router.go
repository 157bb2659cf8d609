package core

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/luochenghuajin/clichatroom/internal/history"
	"github.com/luochenghuajin/clichatroom/internal/proto"
	"github.com/luochenghuajin/clichatroom/internal/transport/tcp"
)

// Router computes destination connections for a message and dispatches it.
// Delivery is best-effort per connection: a failed send is dropped, never
// retried and never surfaced to the sender.
type Router struct {
	registry *Registry
	hist     HistorySink
	log      *zerolog.Logger
}

// NewRouter builds a router over the given registry. hist may be nil.
func NewRouter(registry *Registry, hist HistorySink, logger *zerolog.Logger) *Router {
	if hist == nil {
		hist = nopHistory{}
	}
	return &Router{registry: registry, hist: hist, log: logger}
}

// BroadcastPublic sends msg to every connection in the current registry
// snapshot.
func (rt *Router) BroadcastPublic(msg proto.Message) {
	rt.registry.ForEachConnection(func(conn *tcp.Conn) {
		if !conn.SendFrame(msg) {
			rt.log.Debug().Str("conn_id", conn.ID()).Msg("broadcast send failed, recipient presumed gone")
		}
	})
}

// SendPrivate delivers msg to its target. If the target is not registered,
// the sender gets a CommandResponse "USER_NOT_FOUND:<target>" instead; if
// the sender has also disconnected, the notice is dropped.
func (rt *Router) SendPrivate(msg proto.Message) {
	if conn := rt.registry.Connection(msg.Target); conn != nil {
		if !conn.SendFrame(msg) {
			rt.log.Debug().Str("target", msg.Target).Msg("private send failed, recipient presumed gone")
		}
		return
	}

	notice := proto.ServerCommand(time.Now().UnixMilli(), proto.UserNotFoundPrefix+msg.Target)
	if conn := rt.registry.Connection(msg.Sender); conn != nil {
		conn.SendFrame(notice)
	}
}

// Announce broadcasts a system announcement from the server and logs it.
func (rt *Router) Announce(text string) {
	msg := proto.Message{
		Type:      proto.SystemAnnouncement,
		Timestamp: time.Now().UnixMilli(),
		Sender:    proto.ServerName,
		Content:   text,
	}
	rt.BroadcastPublic(msg)
	rt.logMessage(msg)
}

func (rt *Router) logMessage(msg proto.Message) {
	err := rt.hist.Write(history.Entry{
		Timestamp: msg.Timestamp,
		EventType: msg.Type,
		Actor:     msg.Sender,
		Target:    msg.Target,
		Content:   msg.Content,
	})
	if err != nil {
		rt.log.Warn().Err(err).Msg("history write failed")
	}
}
