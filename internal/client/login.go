package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/Versifine/mclink/internal/auth"
	"github.com/Versifine/mclink/internal/event"
	"github.com/Versifine/mclink/internal/packet"
	"github.com/Versifine/mclink/internal/protocol"
)

func (c *Conn) sendHandshake(version, next int32) error {
	host, port, err := splitAddress(c.cfg.Address)
	if err != nil {
		return err
	}
	return c.Send(&packet.Handshake{
		ProtocolVersion: version,
		ServerAddress:   host,
		ServerPort:      port,
		NextState:       next,
	})
}

func (c *Conn) login(ctx context.Context) error {
	c.setStatus(StatusLoggingIn)
	// 发送握手包和登录开始包
	c.logger.Info("Starting Handshake", "state", protocol.Handshake)
	if err := c.sendHandshake(c.registry.Version(), protocol.NextStateLogin); err != nil {
		return err
	}
	if err := c.state.Transition(protocol.Login); err != nil {
		return err
	}
	c.logger.Info("Starting Login", "state", protocol.Login, "username", c.cfg.Username)
	if err := c.Send(&packet.LoginStart{Username: c.cfg.Username}); err != nil {
		return err
	}

	for {
		m, err := c.readMessage()
		if err != nil {
			var de *packet.DecodeError
			if errors.As(err, &de) && skippable(de) {
				c.reportDecodeError(de)
				continue
			}
			return err
		}
		c.logger.Debug("Received packet in Login state", "packet", packet.Name(m))
		c.bus.Publish(m)

		switch m := m.(type) {
		case *packet.EncryptionRequest:
			if err := c.negotiateEncryption(ctx, m); err != nil {
				return err
			}
		case *packet.SetCompression:
			c.logger.Info("Setting compression", "threshold", m.Threshold)
			c.state.SetThreshold(int(m.Threshold))
		case *packet.LoginSuccess:
			if err := c.state.Transition(protocol.Play); err != nil {
				return err
			}
			c.mu.Lock()
			c.uuid, c.username = m.UUID, m.Username
			c.mu.Unlock()
			c.logger.Info("Login successful", "username", m.Username, "uuid", m.UUID.String())
			return nil
		case *packet.LoginDisconnect:
			c.mu.Lock()
			c.kicked, c.kickMsg = true, m.Reason
			c.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrLoginRejected, event.PlainText(m.Reason))
		}
	}
}

// skippable reports whether a login frame can be ignored. Malformed fields
// of a known login message still abort the login.
func skippable(de *packet.DecodeError) bool {
	return errors.Is(de, packet.ErrUnknownPacketID) || errors.Is(de, packet.ErrUnexpectedPacketForState)
}

// negotiateEncryption answers an EncryptionRequest and switches both
// directions of the stream to AES/CFB-8.
func (c *Conn) negotiateEncryption(ctx context.Context, req *packet.EncryptionRequest) error {
	secret, err := auth.NewSharedSecret(nil)
	if err != nil {
		return err
	}
	sealed, err := auth.EncryptWithPublicKey(req.PublicKey, secret, req.VerifyToken)
	if err != nil {
		return err
	}

	if c.joiner != nil && c.cfg.AccessToken != "" {
		hash := auth.ServerHash(req.ServerID, secret, req.PublicKey)
		profile := auth.Profile{
			AccessToken: c.cfg.AccessToken,
			ID:          c.cfg.ProfileID,
			Name:        c.cfg.Username,
		}
		if err := c.joiner.Join(ctx, profile, hash); err != nil {
			return fmt.Errorf("%w: session join: %w", protocol.ErrCryptoNegotiation, err)
		}
		c.logger.Debug("Joined session server", "server_hash", hash)
	}

	if err := c.Send(&packet.EncryptionResponse{SharedSecret: sealed[0], VerifyToken: sealed[1]}); err != nil {
		return err
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if err := c.stream.EnableEncryption(secret); err != nil {
		return err
	}
	c.logger.Info("Encryption enabled")
	return nil
}
