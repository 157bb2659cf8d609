package client

import (
	"strings"

	"github.com/gookit/color"

	"github.com/luochenghuajin/clichatroom/internal/proto"
)

// render prints one incoming message to the terminal. GOODBYE is handled by
// the receive loop before it gets here.
func render(msg proto.Message) {
	if strings.HasPrefix(msg.Content, proto.UserNotFoundPrefix) {
		color.Red.Println("User not found: " + strings.TrimPrefix(msg.Content, proto.UserNotFoundPrefix))
		return
	}

	switch msg.Type {
	case proto.UserListResponse:
		color.Cyan.Println("Online: " + msg.Content)
	case proto.SystemAnnouncement:
		color.Yellow.Println("[SERVER] " + msg.Content)
	case proto.PrivateMsg:
		color.Magenta.Println("[PM from " + msg.Sender + "] " + msg.Content)
	case proto.PublicMsg:
		color.Println(color.Green.Render(msg.Sender+":") + " " + msg.Content)
	case proto.UserJoined:
		color.Gray.Println("* " + msg.Sender + " joined the chat *")
	case proto.UserLeft:
		color.Gray.Println("* " + msg.Sender + " left the chat *")
	default:
		// Other server traffic is not user-facing.
	}
}
