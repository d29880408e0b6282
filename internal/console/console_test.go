package console

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/Versifine/mclink/internal/packet"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []packet.Message
	err  error
}

func (s *fakeSender) Send(m packet.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m)
	return nil
}

func runConsole(t *testing.T, c *Console) bool {
	t.Helper()
	quitCalled := false
	if err := c.Run(context.Background(), func() { quitCalled = true }); err != nil {
		t.Fatalf("Run() 返回错误: %v", err)
	}
	return quitCalled
}

func TestRunSendsChatAndCommands(t *testing.T) {
	sender := &fakeSender{}
	var out bytes.Buffer
	input := strings.Join([]string{
		"hello world",
		"",
		":slot 3",
		":swing",
		":respawn",
		":look 90 45",
		":quit",
		"never sent",
	}, "\n")
	c := New(sender, strings.NewReader(input), &out)

	if !runConsole(t, c) {
		t.Error(":quit 应调用 quit 回调")
	}

	tests := []struct {
		name  string
		check func(m packet.Message) bool
	}{
		{"聊天", func(m packet.Message) bool {
			v, ok := m.(*packet.ChatMessageServerbound)
			return ok && v.Message == "hello world"
		}},
		{"切换槽位", func(m packet.Message) bool {
			v, ok := m.(*packet.HeldItemChangeServerbound)
			return ok && v.Slot == 3
		}},
		{"挥手", func(m packet.Message) bool {
			v, ok := m.(*packet.Animation)
			return ok && v.Hand == packet.MainHand
		}},
		{"重生", func(m packet.Message) bool {
			v, ok := m.(*packet.ClientStatus)
			return ok && v.Action == packet.ActionPerformRespawn
		}},
		{"视角", func(m packet.Message) bool {
			v, ok := m.(*packet.PlayerLook)
			return ok && v.Yaw == 90 && v.Pitch == 45
		}},
	}
	if len(sender.sent) != len(tests) {
		t.Fatalf("发送了 %d 个包, 期望 %d", len(sender.sent), len(tests))
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(sender.sent[i]) {
				t.Errorf("第 %d 个包 = %s %+v", i, packet.Name(sender.sent[i]), sender.sent[i])
			}
		})
	}
}

func TestInvalidCommands(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{":slot 9", "invalid slot"},
		{":slot", "usage: :slot"},
		{":look a b", "invalid look args"},
		{":look 1 2 3", "position unknown"},
		{":pos", "position unknown"},
		{":dance", "unknown command: dance"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			sender := &fakeSender{}
			var out bytes.Buffer
			c := New(sender, strings.NewReader(tt.line), &out)
			runConsole(t, c)
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("输出 = %q, 期望包含 %q", out.String(), tt.want)
			}
			if len(sender.sent) != 0 {
				t.Errorf("不应发送任何包, 实际 %d 个", len(sender.sent))
			}
		})
	}
}

func TestSendFailureIsReported(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection lost")}
	var out bytes.Buffer
	c := New(sender, strings.NewReader("hi\n:swing\n"), &out)
	runConsole(t, c)
	if !strings.Contains(out.String(), "send failed: connection lost") {
		t.Errorf("输出 = %q", out.String())
	}
	if !strings.Contains(out.String(), "swing failed") {
		t.Errorf("输出 = %q", out.String())
	}
}

func TestSplitChat(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		parts int
	}{
		{"短消息", "hi", 1},
		{"刚好上限", strings.Repeat("a", maxChatRunes), 1},
		{"超出上限", strings.Repeat("a", maxChatRunes+1), 2},
		{"多字节字符", strings.Repeat("你", maxChatRunes*2), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := splitChat(tt.in)
			if len(parts) != tt.parts {
				t.Fatalf("len = %d, 期望 %d", len(parts), tt.parts)
			}
			if strings.Join(parts, "") != tt.in {
				t.Error("拼接结果与原文不一致")
			}
		})
	}
}

func TestTrackPosition(t *testing.T) {
	c := New(&fakeSender{}, strings.NewReader(""), &bytes.Buffer{})
	c.HandlePlayerPositionAndLook(&packet.PlayerPositionAndLook{X: 10, Y: 64, Z: -5, Yaw: 90, Pitch: 10})
	c.HandlePlayerPositionAndLook(&packet.PlayerPositionAndLook{
		X: 1, Y: 0, Z: 100, Yaw: 10, Pitch: 0,
		Flags: packet.RelativeX | packet.RelativeY | packet.RelativeYaw,
	})

	want := position{X: 11, Y: 64, Z: 100, Yaw: 100, Pitch: 0}
	if c.pos != want || !c.hasPos {
		t.Errorf("pos = %+v, 期望 %+v", c.pos, want)
	}
}

func TestLookAt(t *testing.T) {
	self := position{X: 0, Y: 64, Z: 0}
	tests := []struct {
		name      string
		x, y, z   float64
		yaw       float32
		pitchSign int
	}{
		{"正南", 0, 65.62, 10, 0, 0},
		{"正西", -10, 65.62, 0, 90, 0},
		{"正东", 10, 65.62, 0, -90, 0},
		{"上方", 0, 80, 1, 0, -1},
		{"下方", 0, 50, 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yaw, pitch := lookAt(self, tt.x, tt.y, tt.z)
			if math.Abs(float64(yaw-tt.yaw)) > 0.01 {
				t.Errorf("yaw = %v, 期望 %v", yaw, tt.yaw)
			}
			switch {
			case tt.pitchSign == 0 && math.Abs(float64(pitch)) > 0.01,
				tt.pitchSign < 0 && pitch >= 0,
				tt.pitchSign > 0 && pitch <= 0:
				t.Errorf("pitch = %v, 期望符号 %d", pitch, tt.pitchSign)
			}
		})
	}
}

func TestNormalizeAndClamp(t *testing.T) {
	if got := normalizeYaw(270); got != -90 {
		t.Errorf("normalizeYaw(270) = %v, 期望 -90", got)
	}
	if got := normalizeYaw(-180); got != 180 {
		t.Errorf("normalizeYaw(-180) = %v, 期望 180", got)
	}
	if got := clampPitch(120); got != 90 {
		t.Errorf("clampPitch(120) = %v, 期望 90", got)
	}
	if got := clampPitch(-95); got != -90 {
		t.Errorf("clampPitch(-95) = %v, 期望 -90", got)
	}
}

func TestHandlersPrint(t *testing.T) {
	var out bytes.Buffer
	c := New(&fakeSender{}, strings.NewReader(""), &out)

	c.HandleChatMessage(&packet.ChatMessage{JSON: `{"text":"<Steve> hi"}`, Position: packet.ChatPositionChat})
	c.HandleChatMessage(&packet.ChatMessage{JSON: `"server restarting"`, Position: packet.ChatPositionSystem})
	c.HandleChatMessage(&packet.ChatMessage{JSON: `"hotbar"`, Position: packet.ChatPositionHotbar})
	c.HandleUpdateHealth(&packet.UpdateHealth{Health: 0})
	c.HandleConnectionClosed(packet.DisconnectEvent{Reason: packet.ReasonKicked, Message: `{"text":"bye"}`})

	got := out.String()
	for _, want := range []string{"<Steve> hi\n", "[system] server restarting", "you died", "disconnected (kicked: bye)"} {
		if !strings.Contains(got, want) {
			t.Errorf("输出 = %q, 期望包含 %q", got, want)
		}
	}
	if strings.Contains(got, "hotbar") {
		t.Errorf("hotbar 消息不应打印: %q", got)
	}
}
