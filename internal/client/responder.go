package client

import (
	"github.com/Versifine/mclink/internal/event"
	"github.com/Versifine/mclink/internal/packet"
)

// responder answers the server messages every client must react to.
type responder struct {
	packet.BaseHandler
	c *Conn
}

func (r *responder) HandleKeepAlive(m *packet.KeepAlive) {
	// 响应保持连接包
	if err := r.c.Send(&packet.KeepAliveServerbound{KeepAliveID: m.KeepAliveID}); err != nil {
		r.c.logger.Warn("Failed to answer keep alive", "keep_alive_id", m.KeepAliveID, "error", err)
	}
}

func (r *responder) HandlePlayerPositionAndLook(m *packet.PlayerPositionAndLook) {
	if err := r.c.Send(&packet.TeleportConfirm{TeleportID: m.TeleportID}); err != nil {
		r.c.logger.Warn("Failed to confirm teleport", "teleport_id", m.TeleportID, "error", err)
	}
}

func (r *responder) HandleDisconnect(m *packet.Disconnect) {
	r.c.logger.Info("Kicked by server", "reason", event.PlainText(m.Reason))
	r.c.kick(m.Reason)
}
