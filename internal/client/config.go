package client

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Versifine/mclink/internal/auth"
	"github.com/Versifine/mclink/internal/metrics"
	"github.com/Versifine/mclink/internal/packet"
	"github.com/Versifine/mclink/internal/protocol"
)

const (
	DefaultDialTimeout = 10 * time.Second
	maxUsernameLen     = 16
)

// Config is consumed once by New.
type Config struct {
	Address  string // host:port
	Username string
	// AccessToken and ProfileID enable the session server join for
	// online-mode servers. Both empty means offline mode.
	AccessToken string
	ProfileID   uuid.UUID
	// AutoRespond answers keep-alives, confirms teleports and closes the
	// connection when kicked.
	AutoRespond bool
	DialTimeout time.Duration
	Frame       protocol.FrameConfig
}

func (c *Config) validate() error {
	if c.Address == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidConfig)
	}
	if _, _, err := splitAddress(c.Address); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	return nil
}

func (c *Config) validateLogin() error {
	n := utf8.RuneCountInString(c.Username)
	if n == 0 || n > maxUsernameLen {
		return fmt.Errorf("%w: username must be 1-%d characters", ErrInvalidConfig, maxUsernameLen)
	}
	if c.AccessToken != "" && c.ProfileID == uuid.Nil {
		return fmt.Errorf("%w: profile id is required with an access token", ErrInvalidConfig)
	}
	return nil
}

// DialFunc opens the transport. It matches net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

type Option func(*Conn)

func WithLogger(l *slog.Logger) Option {
	return func(c *Conn) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records frame and packet counters. The bus panic hook is wired
// to the same collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Conn) { c.metrics = m }
}

// WithHandler subscribes h to the connection's bus. Handlers run in the
// order they were added, after the built-in responder.
func WithHandler(h packet.Handler) Option {
	return func(c *Conn) { c.handlers = append(c.handlers, h) }
}

// WithSessionJoiner replaces the session server client used in online mode.
func WithSessionJoiner(j auth.Joiner) Option {
	return func(c *Conn) { c.joiner = j }
}

func WithDialer(d DialFunc) Option {
	return func(c *Conn) { c.dial = d }
}
