package proto

// MessageType discriminates how a Message is processed and displayed.
type MessageType int32

const (
	// PublicMsg is a standard chat message visible to all users.
	PublicMsg MessageType = iota
	// PrivateMsg is a direct message to a specific user.
	PrivateMsg
	// SystemAnnouncement is a server-initiated broadcast.
	SystemAnnouncement
	// UserJoined notifies that a user entered the chat.
	UserJoined
	// UserLeft notifies that a user exited the chat.
	UserLeft
	// UserListRequest asks the server for the online user list.
	UserListRequest
	// UserListResponse carries the comma-joined online user list.
	UserListResponse
	// CommandResponse is a generic command payload or acknowledgement.
	CommandResponse
)

// Valid reports whether t is one of the defined message types.
func (t MessageType) Valid() bool {
	return t >= PublicMsg && t <= CommandResponse
}

func (t MessageType) String() string {
	switch t {
	case PublicMsg:
		return "public"
	case PrivateMsg:
		return "private"
	case SystemAnnouncement:
		return "announcement"
	case UserJoined:
		return "user_joined"
	case UserLeft:
		return "user_left"
	case UserListRequest:
		return "user_list_request"
	case UserListResponse:
		return "user_list_response"
	case CommandResponse:
		return "command_response"
	default:
		return "unknown"
	}
}

// Message is the universal envelope exchanged between client and server.
// Timestamp is epoch milliseconds; zero means "not yet stamped" and the
// first component that observes a zero fills in the current time.
// Target is only meaningful for PrivateMsg.
type Message struct {
	Type      MessageType
	Timestamp int64
	Sender    string
	Target    string
	Content   string
}

// Command payloads used during the authentication handshake and the
// command/response exchange.
const (
	ContentEnterUsername    = "ENTER_USERNAME"
	ContentUsernameAccepted = "USERNAME_ACCEPTED"
	ContentUsernameTaken    = "USERNAME_TAKEN"
	ContentAuthFailed       = "AUTH_FAILED"
	ContentBye              = "BYE"
	ContentGoodbye          = "GOODBYE"
	ContentUnknownCommand   = "UNKNOWN_COMMAND"
	UserNotFoundPrefix      = "USER_NOT_FOUND:"
)

// ServerName is the sender used for everything the server originates.
const ServerName = "Server"

// ServerCommand builds a CommandResponse from the server with the given payload.
func ServerCommand(ts int64, content string) Message {
	return Message{
		Type:      CommandResponse,
		Timestamp: ts,
		Sender:    ServerName,
		Content:   content,
	}
}
