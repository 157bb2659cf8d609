package core

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/luochenghuajin/clichatroom/internal/proto"
	"github.com/luochenghuajin/clichatroom/internal/transport/tcp"
)

// State is the session lifecycle phase.
type State int

const (
	// Connecting is the initial state right after accept.
	Connecting State = iota
	// Authenticating means the username handshake is in progress.
	Authenticating
	// Active means the user is registered and the receive loop runs.
	Active
	// Closing means the session is tearing down its registration.
	Closing
	// Closed is terminal.
	Closed
)

// authMaxAttempts is how many username prompts a client gets before the
// server gives up on the handshake.
const authMaxAttempts = 3

// Session drives the full lifecycle of one accepted connection: the
// authentication handshake, the join/leave announcements, and the
// receive-process loop. One Session runs per goroutine; it exclusively owns
// its connection and always closes it before returning.
type Session struct {
	conn      *tcp.Conn
	registry  *Registry
	router    *Router
	processor *Processor
	log       *zerolog.Logger

	state State
	user  User
}

// NewSession builds a session for an accepted connection.
func NewSession(conn *tcp.Conn, registry *Registry, router *Router, processor *Processor, logger *zerolog.Logger) *Session {
	return &Session{
		conn:      conn,
		registry:  registry,
		router:    router,
		processor: processor,
		log:       logger,
		state:     Connecting,
	}
}

// State returns the session's current lifecycle phase.
func (s *Session) State() State { return s.state }

// Run executes the state machine to completion. A session that never
// reaches Active leaves no trace: no registry entry, no join or leave
// announcement. The connection is closed in every exit path.
func (s *Session) Run() {
	defer s.conn.Close()

	s.state = Authenticating
	if !s.authenticate() {
		s.state = Closed
		return
	}

	s.state = Active
	s.announceJoin()
	s.receiveLoop()

	s.state = Closing
	s.registry.Remove(s.user.Username)
	s.announceLeave()

	s.state = Closed
}

// authenticate runs the username handshake: up to authMaxAttempts prompts,
// each reply's content is the candidate username, claimed atomically
// against the registry. Returns false if the peer vanished or every
// attempt failed.
func (s *Session) authenticate() bool {
	for attempt := 0; attempt < authMaxAttempts; attempt++ {
		s.conn.SendFrame(proto.ServerCommand(time.Now().UnixMilli(), proto.ContentEnterUsername))

		reply, ok := s.conn.ReceiveFrame()
		if !ok {
			s.log.Debug().Str("conn_id", s.conn.ID()).Msg("peer left during authentication")
			return false
		}

		candidate := User{
			ID:        s.conn.ID(),
			Username:  reply.Content,
			Connected: true,
			JoinedAt:  time.Now().UnixMilli(),
		}
		if s.registry.Claim(candidate, s.conn) {
			s.user = candidate
			s.conn.SendFrame(proto.ServerCommand(time.Now().UnixMilli(), proto.ContentUsernameAccepted))
			s.log.Info().Str("username", candidate.Username).Str("conn_id", s.conn.ID()).Msg("user authenticated")
			return true
		}

		s.conn.SendFrame(proto.ServerCommand(time.Now().UnixMilli(), proto.ContentUsernameTaken))
	}

	s.conn.SendFrame(proto.ServerCommand(time.Now().UnixMilli(), proto.ContentAuthFailed))
	s.log.Info().Str("conn_id", s.conn.ID()).Msg("authentication attempts exhausted")
	return false
}

// receiveLoop pumps frames through the command processor until the peer
// disconnects or the processor says to stop.
func (s *Session) receiveLoop() {
	for {
		msg, ok := s.conn.ReceiveFrame()
		if !ok {
			return
		}

		msg.Sender = s.user.Username
		if msg.Timestamp == 0 {
			msg.Timestamp = time.Now().UnixMilli()
		}

		if s.processor.Process(msg, s.conn) == Disconnect {
			return
		}
	}
}

func (s *Session) announceJoin() {
	msg := proto.Message{
		Type:      proto.UserJoined,
		Timestamp: time.Now().UnixMilli(),
		Sender:    s.user.Username,
		Content:   fmt.Sprintf("%s joined", s.user.Username),
	}
	s.router.BroadcastPublic(msg)
	s.router.logMessage(msg)
}

func (s *Session) announceLeave() {
	msg := proto.Message{
		Type:      proto.UserLeft,
		Timestamp: time.Now().UnixMilli(),
		Sender:    s.user.Username,
		Content:   fmt.Sprintf("%s left", s.user.Username),
	}
	s.router.BroadcastPublic(msg)
	s.router.logMessage(msg)
	s.log.Info().Str("username", s.user.Username).Msg("user disconnected")
}
