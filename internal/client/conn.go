// Package client runs one protocol connection: login, the inbound read loop
// and serialized outbound writes.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Versifine/mclink/internal/auth"
	"github.com/Versifine/mclink/internal/event"
	"github.com/Versifine/mclink/internal/metrics"
	"github.com/Versifine/mclink/internal/packet"
	"github.com/Versifine/mclink/internal/protocol"
)

// Conn is a single-use client connection. Reconnecting means creating a new
// Conn.
type Conn struct {
	cfg      Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	joiner   auth.Joiner
	dial     DialFunc
	handlers []packet.Handler
	registry *packet.Registry
	bus      *event.Bus
	state    *protocol.ConnState

	status  atomic.Int32
	started atomic.Bool
	closing atomic.Bool

	connMu  sync.Mutex
	netConn net.Conn

	// reader and stream's inbound side belong to the login sequence, then to
	// the read loop.
	stream *protocol.Stream
	reader *protocol.FrameReader

	sendMu sync.Mutex
	writer *protocol.FrameWriter
	closed bool

	mu       sync.Mutex
	kicked   bool
	kickMsg  string
	err      error
	uuid     uuid.UUID
	username string

	once sync.Once
	done chan struct{}

	unhandledMu  sync.Mutex
	unhandledIDs map[int32]int
}

func New(cfg Config, opts ...Option) (*Conn, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	c := &Conn{
		cfg:      cfg,
		logger:   slog.Default(),
		registry: packet.Default(),
		state:    protocol.NewConnState(),
		done:     make(chan struct{}),
	}
	d := &net.Dialer{Timeout: cfg.DialTimeout}
	c.dial = d.DialContext
	for _, opt := range opts {
		opt(c)
	}
	if c.joiner == nil && cfg.AccessToken != "" {
		c.joiner = auth.NewSessionClient(auth.DefaultSessionURL, cfg.DialTimeout, c.logger)
	}

	c.bus = event.NewBus(c.logger)
	c.bus.OnPanic(c.metrics.HandlerPanic)
	if cfg.AutoRespond {
		c.bus.Subscribe(&responder{c: c})
	}
	for _, h := range c.handlers {
		c.bus.Subscribe(h)
	}
	return c, nil
}

// Bus returns the bus decoded messages are published on.
func (c *Conn) Bus() *event.Bus { return c.bus }

func (c *Conn) Status() Status { return Status(c.status.Load()) }

func (c *Conn) setStatus(s Status) { c.status.Store(int32(s)) }

// State returns the protocol state of the connection.
func (c *Conn) State() protocol.State { return c.state.Get() }

// Profile returns the identity confirmed by LoginSuccess.
func (c *Conn) Profile() (uuid.UUID, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uuid, c.username
}

// Done is closed once the connection has ended.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Err returns why the connection ended. It is nil while the connection is
// alive and after a local Disconnect.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Connect dials the server and runs the login sequence. On success the
// connection is in Play and the read loop is running.
func (c *Conn) Connect(ctx context.Context) error {
	if err := c.cfg.validateLogin(); err != nil {
		return err
	}
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyConnected
	}
	if err := c.open(ctx); err != nil {
		c.finish(packet.DisconnectEvent{Reason: packet.ReasonConnectionLost, Err: err})
		return err
	}

	stop := context.AfterFunc(ctx, c.closeTransport)
	err := c.login(ctx)
	if !stop() && ctx.Err() != nil {
		err = fmt.Errorf("login interrupted: %w", ctx.Err())
	}
	if err != nil {
		c.finish(c.disconnectEvent(err))
		return err
	}

	c.setStatus(StatusPlay)
	c.metrics.Connected()
	c.logger.Info("Starting Play", "state", protocol.Play)
	go c.readLoop()
	return nil
}

func (c *Conn) open(ctx context.Context) error {
	c.setStatus(StatusConnecting)
	conn, err := c.dial(ctx, "tcp", c.cfg.Address)
	if err != nil {
		c.setStatus(StatusDisconnected)
		return fmt.Errorf("dial %s: %w", c.cfg.Address, err)
	}
	c.logger.Info("Connected to server", "address", c.cfg.Address)

	c.connMu.Lock()
	c.netConn = conn
	c.connMu.Unlock()
	if c.closing.Load() {
		conn.Close()
	}

	c.stream = protocol.NewStream(conn)
	c.reader = protocol.NewFrameReader(c.stream, c.cfg.Frame)
	c.sendMu.Lock()
	c.writer = protocol.NewFrameWriter(c.stream, c.cfg.Frame)
	c.sendMu.Unlock()
	return nil
}

// Send encodes and frames m. It is safe for concurrent use; frames are
// written whole and never interleave.
func (c *Conn) Send(m packet.Message) error {
	name := packet.Name(m)
	if m.Direction() != packet.Serverbound {
		return fmt.Errorf("%w: %s is %s", packet.ErrWrongDirection, name, m.Direction())
	}
	buf, err := packet.Encode(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	c.sendMu.Lock()
	if c.writer == nil || c.closed {
		c.sendMu.Unlock()
		return protocol.ErrConnectionLost
	}
	state, threshold := c.state.Snapshot()
	if m.State() != state {
		c.sendMu.Unlock()
		return fmt.Errorf("%w: %s in %s", packet.ErrUnexpectedPacketForState, name, state)
	}
	n, err := c.writer.WriteFrame(buf.Bytes(), threshold)
	c.sendMu.Unlock()

	if err != nil {
		if errors.Is(err, protocol.ErrConnectionLost) {
			c.logger.Error("Failed to write packet", "packet", name, "error", err)
			c.closeTransport()
		}
		return err
	}
	c.metrics.Frame(metrics.Outbound, n)
	c.metrics.Packet(metrics.Outbound, name)
	return nil
}

// Disconnect closes the socket. The connection ends with ReasonClosed.
func (c *Conn) Disconnect() error {
	c.closing.Store(true)
	c.closeTransport()
	return nil
}

func (c *Conn) closeTransport() {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.netConn != nil {
		_ = c.netConn.Close()
	}
}

// kick records the server's reason and drops the connection.
func (c *Conn) kick(reason string) {
	c.mu.Lock()
	c.kicked = true
	c.kickMsg = reason
	c.mu.Unlock()
	c.closeTransport()
}

func (c *Conn) readMessage() (packet.Message, error) {
	state, threshold := c.state.Snapshot()
	buf, n, err := c.reader.ReadFrame(threshold)
	if err != nil {
		return nil, err
	}
	c.metrics.Frame(metrics.Inbound, n)
	m, err := c.registry.Decode(state, packet.Clientbound, buf)
	if err != nil {
		c.metrics.DecodeError(state.String())
		return nil, err
	}
	c.metrics.Packet(metrics.Inbound, packet.Name(m))
	return m, nil
}

func (c *Conn) readLoop() {
	for {
		m, err := c.readMessage()
		if err == nil {
			c.bus.Publish(m)
			continue
		}

		var de *packet.DecodeError
		if errors.As(err, &de) {
			c.reportDecodeError(de)
			continue
		}
		if protocol.IsRecoverable(err) {
			c.metrics.FrameError()
			c.logger.Warn("Dropped malformed frame", "error", err)
			c.bus.PublishDecodeError(&packet.DecodeError{
				State:     c.state.Get(),
				Direction: packet.Clientbound,
				ID:        -1,
				Err:       err,
			})
			continue
		}
		c.finish(c.disconnectEvent(err))
		return
	}
}

func (c *Conn) reportDecodeError(de *packet.DecodeError) {
	if errors.Is(de, packet.ErrUnknownPacketID) {
		c.logUnhandledPacket(de.State, de.ID)
	} else {
		c.logger.Warn("Failed to decode packet", "state", de.State, "packet_id", fmt.Sprintf("0x%02x", de.ID), "error", de.Err)
	}
	c.bus.PublishDecodeError(de)
}

func (c *Conn) logUnhandledPacket(state protocol.State, packetID int32) {
	c.unhandledMu.Lock()
	defer c.unhandledMu.Unlock()

	if c.unhandledIDs == nil {
		c.unhandledIDs = make(map[int32]int)
	}
	c.unhandledIDs[packetID]++
	count := c.unhandledIDs[packetID]

	// Log first sighting of packet ID and then every 100 repeats.
	if count == 1 || count%100 == 0 {
		c.logger.Debug("Unhandled packet", "state", state, "packet_id", fmt.Sprintf("0x%02x", packetID), "count", count)
	}
}

func (c *Conn) disconnectEvent(err error) packet.DisconnectEvent {
	if c.closing.Load() {
		return packet.DisconnectEvent{Reason: packet.ReasonClosed}
	}
	c.mu.Lock()
	kicked, msg := c.kicked, c.kickMsg
	c.mu.Unlock()
	if kicked {
		if !errors.Is(err, ErrLoginRejected) {
			err = fmt.Errorf("%w: %s", ErrKicked, event.PlainText(msg))
		}
		return packet.DisconnectEvent{Reason: packet.ReasonKicked, Message: msg, Err: err}
	}
	return packet.DisconnectEvent{Reason: reasonFor(err), Err: err}
}

func reasonFor(err error) packet.DisconnectReason {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.ErrClosedPipe),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, protocol.ErrTruncatedData),
		errors.Is(err, protocol.ErrConnectionLost),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr):
		return packet.ReasonConnectionLost
	default:
		return packet.ReasonProtocolError
	}
}

// finish tears the connection down and notifies handlers, once.
func (c *Conn) finish(evt packet.DisconnectEvent) {
	c.once.Do(func() {
		wasPlaying := c.Status() == StatusPlay
		c.closeTransport()
		c.sendMu.Lock()
		c.closed = true
		c.sendMu.Unlock()
		c.setStatus(StatusDisconnected)

		c.mu.Lock()
		c.err = evt.Err
		c.mu.Unlock()

		c.metrics.Disconnected(evt.Reason.String(), wasPlaying)
		if evt.Reason == packet.ReasonClosed {
			c.logger.Info("Disconnected", "reason", evt.Reason)
		} else {
			c.logger.Warn("Disconnected", "reason", evt.Reason, "error", evt.Err)
		}
		c.bus.PublishDisconnect(evt)
		close(c.done)
	})
}

func splitAddress(addr string) (string, uint16, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid server address: %w", err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return "", 0, fmt.Errorf("invalid server port %q: %w", portStr, err)
	}
	return host, uint16(port), nil
}
