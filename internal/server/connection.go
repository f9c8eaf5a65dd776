package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

var errConnectionClosed = errors.New("connection closed")

// Connection wraps one websocket client: a buffered send channel drained by
// the write pump, and a one-slot action channel filled by the read pump.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	flush     chan chan struct{}
	actions   chan ActionData
	name      string
	seat      int
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	mu        sync.RWMutex
}

// NewConnection wraps an upgraded websocket connection.
func NewConnection(conn *websocket.Conn, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:    conn,
		send:    make(chan *Message, 64),
		flush:   make(chan chan struct{}),
		actions: make(chan ActionData, 1),
		seat:    -1,
		logger:  logger.WithPrefix("conn"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins the read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close tears the connection down. Safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// Done is closed when the connection is gone.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Send queues a message for the client. A full buffer closes the
// connection; a client that cannot keep up with the dealer is dead weight.
func (c *Connection) Send(msg *Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return errConnectionClosed
	default:
		c.logger.Warn("send buffer full, closing connection", "seat", c.Seat())
		_ = c.Close()
		return errConnectionClosed
	}
}

// SetSeat records the seat assigned to this client.
func (c *Connection) SetSeat(seat int, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seat = seat
	c.name = name
}

// Seat returns the assigned seat, or -1 before assignment.
func (c *Connection) Seat() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seat
}

// Name returns the client's name from its join message.
func (c *Connection) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// Flush asks the write pump to write every queued message. The returned
// channel closes once the queue has been written, or immediately when the
// connection is already gone.
func (c *Connection) Flush() <-chan struct{} {
	done := make(chan struct{})
	select {
	case c.flush <- done:
	case <-c.ctx.Done():
		close(done)
	}
	return done
}

// Actions exposes the inbound action channel for the hand runner.
func (c *Connection) Actions() <-chan ActionData {
	return c.actions
}

// ReadJoin blocks for the client's join message.
func (c *Connection) ReadJoin(ctx context.Context) (JoinData, error) {
	type result struct {
		data JoinData
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			ch <- result{err: err}
			return
		}
		if msg.Type != MessageTypeJoin {
			ch <- result{err: errors.New("expected join message, got " + string(msg.Type))}
			return
		}
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			ch <- result{err: err}
			return
		}
		ch <- result{data: data}
	}()

	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		_ = c.Close()
		return JoinData{}, ctx.Err()
	}
}

// readPump feeds inbound action messages to the hand runner. Call it only
// after the join handshake.
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("websocket error", "seat", c.Seat(), "error", err)
			}
			return
		}

		switch msg.Type {
		case MessageTypeAction:
			var data ActionData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.sendError("invalid_message", "failed to parse action data")
				continue
			}
			select {
			case c.actions <- data:
			default:
				// No pending request; a stale or duplicate action.
				c.sendError("unexpected_action", "no action was requested")
			}
		default:
			c.sendError("unknown_message_type", "unknown message type: "+string(msg.Type))
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			if err := c.writeMessage(msg); err != nil {
				return
			}

		case done := <-c.flush:
			c.drainQueue()
			close(done)

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (c *Connection) writeMessage(msg *Message) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.logger.Error("failed to write message", "seat", c.Seat(), "error", err)
		return err
	}
	return nil
}

// drainQueue writes everything buffered on the send channel. A write error
// abandons the rest; the connection is coming down either way.
func (c *Connection) drainQueue() {
	for {
		select {
		case msg := <-c.send:
			if err := c.writeMessage(msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *Connection) sendError(code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("failed to create error message", "error", err)
		return
	}
	_ = c.Send(msg)
}
