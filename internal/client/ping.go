package client

import (
	"context"
	"fmt"
	"time"

	"github.com/Versifine/mclink/internal/packet"
	"github.com/Versifine/mclink/internal/protocol"
)

// PingResult is the answer to a server list query.
type PingResult struct {
	JSON    string
	Latency time.Duration
}

// Ping runs the status exchange against addr, advertising the given protocol
// version in the handshake. Handlers passed in opts see the status messages
// and the end of the connection, like on a Conn.
func Ping(ctx context.Context, addr string, version int32, opts ...Option) (*PingResult, error) {
	c, err := New(Config{Address: addr}, opts...)
	if err != nil {
		return nil, err
	}
	c.started.Store(true)
	if err := c.open(ctx); err != nil {
		c.finish(packet.DisconnectEvent{Reason: packet.ReasonConnectionLost, Err: err})
		return nil, err
	}

	stop := context.AfterFunc(ctx, c.closeTransport)
	res, err := c.ping(version)
	stop()
	if err != nil && ctx.Err() != nil {
		err = fmt.Errorf("ping interrupted: %w", ctx.Err())
	}
	if err != nil {
		c.finish(c.disconnectEvent(err))
		return nil, err
	}
	c.closing.Store(true)
	c.finish(c.disconnectEvent(nil))
	return res, nil
}

func (c *Conn) ping(version int32) (*PingResult, error) {
	c.logger.Debug("Starting Handshake", "state", protocol.Handshake)
	if err := c.sendHandshake(version, protocol.NextStateStatus); err != nil {
		return nil, err
	}
	if err := c.state.Transition(protocol.Status); err != nil {
		return nil, err
	}
	if err := c.Send(&packet.StatusRequest{}); err != nil {
		return nil, err
	}

	m, err := c.readMessage()
	if err != nil {
		return nil, err
	}
	c.bus.Publish(m)
	resp, ok := m.(*packet.StatusResponse)
	if !ok {
		return nil, fmt.Errorf("%w: %s while waiting for StatusResponse", ErrUnexpectedPacket, packet.Name(m))
	}

	sent := time.Now()
	payload := sent.UnixMilli()
	if err := c.Send(&packet.StatusPing{Payload: payload}); err != nil {
		return nil, err
	}
	m, err = c.readMessage()
	if err != nil {
		return nil, err
	}
	latency := time.Since(sent)
	c.bus.Publish(m)
	pong, ok := m.(*packet.StatusPong)
	if !ok {
		return nil, fmt.Errorf("%w: %s while waiting for StatusPong", ErrUnexpectedPacket, packet.Name(m))
	}
	if pong.Payload != payload {
		return nil, fmt.Errorf("%w: pong payload %d, sent %d", ErrUnexpectedPacket, pong.Payload, payload)
	}
	return &PingResult{JSON: resp.JSON, Latency: latency}, nil
}
