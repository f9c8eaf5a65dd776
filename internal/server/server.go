// Package server runs a dealer service over websockets. Clients join one
// seat each; once every seat is filled the server deals the configured
// number of hands, requesting an action from the seat to act and
// substituting a fold or check when a client times out or disconnects.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/acpc/game"
)

// Config controls a dealer server.
type Config struct {
	Addr          string
	Hands         int
	Seed          int64
	ActionTimeout time.Duration
}

// Server deals a match of one game to websocket clients.
type Server struct {
	def      *game.Definition
	cfg      Config
	logger   *log.Logger
	clock    quartz.Clock
	upgrader websocket.Upgrader

	mu     sync.Mutex
	seats  []*Connection
	joined int
	full   chan struct{}

	listener net.Listener
}

// New creates a dealer server for one game definition. A nil clock uses the
// real clock; tests inject a mock.
func New(def *game.Definition, cfg Config, logger *log.Logger, clock quartz.Clock) *Server {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Server{
		def:    def,
		cfg:    cfg,
		logger: logger.WithPrefix("server"),
		clock:  clock,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		seats: make([]*Connection, def.NumPlayers()),
		full:  make(chan struct{}),
	}
}

// Addr returns the bound listen address once Run has started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.cfg.Addr
	}
	return s.listener.Addr().String()
}

// Run serves until the match completes or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	httpServer := &http.Server{Handler: mux}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		defer func() {
			// Let queued frames reach the write pump before tearing the
			// connections down; match end is the last thing clients see.
			s.drainSends(2 * time.Second)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(shutdownCtx)
			s.closeSeats()
		}()

		s.logger.Info("waiting for players", "addr", ln.Addr(), "seats", s.def.NumPlayers())
		select {
		case <-s.full:
		case <-ctx.Done():
			return ctx.Err()
		}
		return s.runMatch(ctx)
	})

	return g.Wait()
}

// drainSends waits for every seat's write pump to flush its queue, bounded
// by timeout on the injected clock.
func (s *Server) drainSends(timeout time.Duration) {
	s.mu.Lock()
	seats := append([]*Connection(nil), s.seats...)
	s.mu.Unlock()

	timedOut := make(chan struct{})
	timer := s.clock.AfterFunc(timeout, func() { close(timedOut) })
	defer timer.Stop()

	for _, conn := range seats {
		if conn == nil {
			continue
		}
		select {
		case <-conn.Flush():
		case <-timedOut:
			return
		}
	}
}

func (s *Server) closeSeats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.seats {
		if conn != nil {
			_ = conn.Close()
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, s.logger)

	joinCtx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	join, err := conn.ReadJoin(joinCtx)
	if err != nil {
		s.logger.Warn("join handshake failed", "error", err)
		_ = conn.Close()
		return
	}

	seat, err := s.assignSeat(conn, join)
	if err != nil {
		conn.sendError("seat_unavailable", err.Error())
		conn.Start()
		timedOut := make(chan struct{})
		timer := s.clock.AfterFunc(time.Second, func() { close(timedOut) })
		select {
		case <-conn.Flush():
		case <-timedOut:
		}
		timer.Stop()
		_ = conn.Close()
		return
	}

	conn.SetSeat(seat, join.Name)
	conn.Start()

	seated, _ := NewMessage(MessageTypeSeated, SeatedData{
		Seat:       seat,
		NumPlayers: s.def.NumPlayers(),
		Betting:    s.def.Betting().String(),
		Hands:      s.cfg.Hands,
	})
	_ = conn.Send(seated)

	s.logger.Info("player seated", "name", join.Name, "seat", seat)
}

func (s *Server) assignSeat(conn *Connection, join JoinData) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seat := -1
	if join.Seat != nil {
		requested := *join.Seat
		if requested < 0 || requested >= len(s.seats) {
			return 0, fmt.Errorf("seat %d out of range", requested)
		}
		if s.seats[requested] != nil {
			return 0, fmt.Errorf("seat %d is taken", requested)
		}
		seat = requested
	} else {
		for i, c := range s.seats {
			if c == nil {
				seat = i
				break
			}
		}
		if seat == -1 {
			return 0, errors.New("all seats are taken")
		}
	}

	s.seats[seat] = conn
	s.joined++
	if s.joined == len(s.seats) {
		close(s.full)
	}
	return seat, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// broadcast sends a message to every seated client.
func (s *Server) broadcast(msg *Message) {
	s.mu.Lock()
	seats := append([]*Connection(nil), s.seats...)
	s.mu.Unlock()

	for _, conn := range seats {
		if conn != nil {
			_ = conn.Send(msg)
		}
	}
}

func (s *Server) seatConn(seat int) *Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seats[seat]
}
