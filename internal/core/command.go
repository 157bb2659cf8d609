package core

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/luochenghuajin/clichatroom/internal/proto"
	"github.com/luochenghuajin/clichatroom/internal/transport/tcp"
)

// Verdict tells the session loop what to do after processing a message.
type Verdict int

const (
	// Continue keeps the session's receive loop running.
	Continue Verdict = iota
	// Disconnect ends the session gracefully. This is the only graceful
	// exit signal; a missing frame on receive is the abrupt one.
	Disconnect
)

// Processor classifies an inbound message and performs the matching routing
// or response action. It is stateless across calls.
type Processor struct {
	registry *Registry
	router   *Router
	log      *zerolog.Logger
}

// NewProcessor builds a command processor over the registry and router.
func NewProcessor(registry *Registry, router *Router, logger *zerolog.Logger) *Processor {
	return &Processor{registry: registry, router: router, log: logger}
}

// Process handles one inbound message from conn and returns the verdict.
// Unrecognized inbound types are a protocol violation answered with
// UNKNOWN_COMMAND; the connection stays open.
func (p *Processor) Process(msg proto.Message, conn *tcp.Conn) Verdict {
	switch {
	case msg.Type == proto.UserListRequest:
		resp := proto.Message{
			Type:      proto.UserListResponse,
			Timestamp: time.Now().UnixMilli(),
			Sender:    proto.ServerName,
			Content:   strings.Join(p.registry.Usernames(), ","),
		}
		conn.SendFrame(resp)
		p.router.logMessage(resp)
		return Continue

	case msg.Type == proto.PrivateMsg:
		p.router.SendPrivate(msg)
		p.router.logMessage(msg)
		return Continue

	case msg.Type == proto.PublicMsg:
		p.router.BroadcastPublic(msg)
		p.router.logMessage(msg)
		return Continue

	case msg.Type == proto.CommandResponse && msg.Content == proto.ContentBye:
		conn.SendFrame(proto.ServerCommand(time.Now().UnixMilli(), proto.ContentGoodbye))
		return Disconnect

	default:
		p.log.Debug().
			Stringer("type", msg.Type).
			Str("sender", msg.Sender).
			Msg("unknown command")
		conn.SendFrame(proto.ServerCommand(time.Now().UnixMilli(), proto.ContentUnknownCommand))
		return Continue
	}
}
