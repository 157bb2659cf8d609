package core

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/luochenghuajin/clichatroom/internal/history"
	"github.com/luochenghuajin/clichatroom/internal/proto"
	"github.com/luochenghuajin/clichatroom/internal/transport/tcp"
)

// Server owns the listener and the accept loop. Each accepted connection
// gets its own goroutine running a Session to completion; the accept loop
// never blocks on a session's lifetime. Shutdown is driven by the context
// passed to Run, not by OS signals.
type Server struct {
	addr     string
	registry *Registry
	router   *Router
	proc     *Processor
	hist     HistorySink
	log      *zerolog.Logger

	listener *tcp.Listener
}

// NewServer wires the core components over a fresh registry. hist may be nil.
func NewServer(addr string, hist HistorySink, logger *zerolog.Logger) *Server {
	if hist == nil {
		hist = nopHistory{}
	}
	registry := NewRegistry()
	router := NewRouter(registry, hist, logger)
	proc := NewProcessor(registry, router, logger)
	return &Server{
		addr:     addr,
		registry: registry,
		router:   router,
		proc:     proc,
		hist:     hist,
		log:      logger,
	}
}

// Registry exposes the user registry, mainly for inspection in tests.
func (s *Server) Registry() *Registry { return s.registry }

// Router exposes the message router.
func (s *Server) Router() *Router { return s.router }

// Addr returns the bound listen address. Only valid after Run has started
// listening; use Start if the caller needs the address before serving.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start binds the listener without accepting yet.
func (s *Server) Start() error {
	ln, err := tcp.Listen(s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
	return nil
}

// Run binds (if Start was not called), announces the room is open, and
// serves the accept loop until ctx is cancelled. It always returns nil
// after a clean shutdown; only bind failures are errors.
func (s *Server) Run(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Start(); err != nil {
			return err
		}
	}

	s.router.Announce("Welcome to the chat room!")

	go func() {
		<-ctx.Done()
		s.shutdown()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			// A failed accept is logged; the loop keeps serving.
			s.log.Warn().Err(err).Msg("accept failed")
			continue
		}

		s.log.Info().Str("conn_id", conn.ID()).Str("remote", conn.RemoteAddr()).Msg("client connected")
		sess := NewSession(conn, s.registry, s.router, s.proc, s.log)
		go sess.Run()
	}
}

// shutdown broadcasts the closing announcement, closes every registered
// connection, and closes the listener. Sessions observe their closed
// connections and exit on their own; they are not joined.
func (s *Server) shutdown() {
	s.router.Announce("Server is shutting down")

	s.registry.ForEachConnection(func(conn *tcp.Conn) {
		conn.Close()
	})

	if err := s.listener.Close(); err != nil {
		s.log.Warn().Err(err).Msg("listener close failed")
	}
	if err := s.hist.Write(shutdownEntry()); err != nil {
		s.log.Warn().Err(err).Msg("history write failed")
	}
	s.log.Info().Msg("server shutdown broadcasted")
}

func shutdownEntry() history.Entry {
	return history.Entry{
		Timestamp: time.Now().UnixMilli(),
		EventType: proto.SystemAnnouncement,
		Actor:     proto.ServerName,
		Content:   "Server shutdown broadcasted",
	}
}
