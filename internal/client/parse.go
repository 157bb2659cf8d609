package client

import (
	"strings"
	"time"

	"github.com/luochenghuajin/clichatroom/internal/proto"
)

// inputAction tells the input loop what to do with a parsed line.
type inputAction int

const (
	// actionNone means nothing to send (empty line, malformed private).
	actionNone inputAction = iota
	// actionSend means send the message and keep going.
	actionSend
	// actionQuit means send the message, then close the connection and stop.
	actionQuit
)

// parseUsername wraps a typed username into the handshake reply.
func parseUsername(name string) proto.Message {
	return proto.Message{
		Type:      proto.CommandResponse,
		Timestamp: time.Now().UnixMilli(),
		Content:   strings.TrimSpace(name),
	}
}

// parseLine maps one typed line to the message to send. The sender field is
// left empty; the server stamps it from the session.
//
//	/bye           graceful disconnect
//	/list          request the online user list
//	@user text     private message
//	anything else  public message
//	empty line     no-op
func parseLine(line string) (proto.Message, inputAction) {
	if line == "" {
		return proto.Message{}, actionNone
	}

	msg := proto.Message{Timestamp: time.Now().UnixMilli()}

	switch {
	case line == "/bye":
		msg.Type = proto.CommandResponse
		msg.Content = proto.ContentBye
		return msg, actionQuit

	case line == "/list":
		msg.Type = proto.UserListRequest
		return msg, actionSend

	case strings.HasPrefix(line, "@"):
		// "@user text"; an @-line without a body is ignored.
		target, content, found := strings.Cut(line[1:], " ")
		if !found || target == "" {
			return proto.Message{}, actionNone
		}
		msg.Type = proto.PrivateMsg
		msg.Target = target
		msg.Content = content
		return msg, actionSend

	default:
		msg.Type = proto.PublicMsg
		msg.Content = line
		return msg, actionSend
	}
}
