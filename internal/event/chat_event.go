package event

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Versifine/mclink/internal/packet"
)

type SourceType int

const (
	SourcePlayer SourceType = iota
	SourceSystem
	SourceHotbar
)

func (st SourceType) String() string {
	switch st {
	case SourceSystem:
		return "System"
	case SourcePlayer:
		return "Player"
	case SourceHotbar:
		return "Hotbar"
	default:
		return "Unknown"
	}
}

// ChatEvent is a chat message flattened to plain text.
type ChatEvent struct {
	Text   string
	Raw    string
	Source SourceType
}

func NewChatEvent(msg *packet.ChatMessage) *ChatEvent {
	return &ChatEvent{
		Text:   PlainText(msg.JSON),
		Raw:    msg.JSON,
		Source: SourceType(msg.Position),
	}
}

// ChatHandler turns ChatMessage packets into ChatEvents.
type ChatHandler struct {
	packet.BaseHandler
	OnChat func(*ChatEvent)
}

func (h ChatHandler) HandleChatMessage(p *packet.ChatMessage) {
	if h.OnChat != nil {
		h.OnChat(NewChatEvent(p))
	}
}

type chatComponent struct {
	Text      string            `json:"text"`
	Translate string            `json:"translate"`
	With      []json.RawMessage `json:"with"`
	Extra     []json.RawMessage `json:"extra"`
}

var translations = map[string]string{
	"chat.type.text":                "<%s> %s",
	"chat.type.announcement":        "[%s] %s",
	"chat.type.emote":               "* %s %s",
	"multiplayer.player.joined":     "%s joined the game",
	"multiplayer.player.left":       "%s left the game",
	"multiplayer.disconnect.kicked": "Kicked by an operator",
}

// PlainText renders a JSON text component without formatting. Input that is
// not valid JSON is returned unchanged.
func PlainText(raw string) string {
	var sb strings.Builder
	if err := appendComponent(&sb, json.RawMessage(raw), 0); err != nil {
		return raw
	}
	return sb.String()
}

func appendComponent(sb *strings.Builder, raw json.RawMessage, depth int) error {
	if depth > 32 {
		return fmt.Errorf("chat component nested too deeply")
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		sb.WriteString(s)
		return nil
	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(raw, &parts); err != nil {
			return err
		}
		for _, p := range parts {
			if err := appendComponent(sb, p, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	var c chatComponent
	if err := json.Unmarshal(raw, &c); err != nil {
		return err
	}
	sb.WriteString(c.Text)
	if c.Translate != "" {
		args := make([]any, 0, len(c.With))
		for _, w := range c.With {
			var arg strings.Builder
			if err := appendComponent(&arg, w, depth+1); err != nil {
				return err
			}
			args = append(args, arg.String())
		}
		if format, ok := translations[c.Translate]; ok {
			sb.WriteString(fmt.Sprintf(format, args...))
		} else {
			sb.WriteString(c.Translate)
			for _, a := range args {
				sb.WriteString(" ")
				sb.WriteString(a.(string))
			}
		}
	}
	for _, e := range c.Extra {
		if err := appendComponent(sb, e, depth+1); err != nil {
			return err
		}
	}
	return nil
}
