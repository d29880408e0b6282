// Package console relays chat between a terminal and a connection and
// offers a few ":" commands for driving the player by hand.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/Versifine/mclink/internal/event"
	"github.com/Versifine/mclink/internal/packet"
)

// maxChatRunes is the longest chat line the server accepts.
const maxChatRunes = 256

// Sender is the outbound half of a connection.
type Sender interface {
	Send(m packet.Message) error
}

type position struct {
	X, Y, Z    float64
	Yaw, Pitch float32
}

// Console reads lines from in and prints server events to out. It is also a
// packet.Handler and must be subscribed to the connection's bus to track the
// player.
type Console struct {
	packet.BaseHandler

	sender Sender
	in     io.Reader
	out    io.Writer
	prompt bool

	mu     sync.Mutex
	outMu  sync.Mutex
	pos    position
	hasPos bool
	health float32
	food   int32
	quit   func()
}

// New returns a console over in and out. A prompt is drawn only when in is
// a terminal.
func New(sender Sender, in io.Reader, out io.Writer) *Console {
	c := &Console{sender: sender, in: in, out: out}
	if f, ok := in.(*os.File); ok {
		c.prompt = term.IsTerminal(int(f.Fd()))
	}
	return c
}

// Run reads commands until in is exhausted, ctx ends or ":quit" is entered.
// quit is called for ":quit".
func (c *Console) Run(ctx context.Context, quit func()) error {
	c.mu.Lock()
	c.quit = quit
	c.mu.Unlock()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	c.drawPrompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("read console input: %w", err)
			}
			return nil
		case line := <-lines:
			if done := c.handleLine(line); done {
				return nil
			}
			c.drawPrompt()
		}
	}
}

func (c *Console) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ":") {
		return c.executeCommand(strings.TrimPrefix(line, ":"))
	}
	for _, part := range splitChat(line) {
		if err := c.sender.Send(&packet.ChatMessageServerbound{Message: part}); err != nil {
			c.printf("[console] send failed: %v\n", err)
			return false
		}
	}
	return false
}

// splitChat cuts s into pieces the server will accept.
func splitChat(s string) []string {
	runes := []rune(s)
	var parts []string
	for len(runes) > maxChatRunes {
		parts = append(parts, string(runes[:maxChatRunes]))
		runes = runes[maxChatRunes:]
	}
	return append(parts, string(runes))
}

func (c *Console) executeCommand(cmd string) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false
	}

	var err error
	switch parts[0] {
	case "help":
		c.printHelp()
	case "quit":
		c.mu.Lock()
		quit := c.quit
		c.mu.Unlock()
		if quit != nil {
			quit()
		}
		return true
	case "pos":
		c.mu.Lock()
		p, ok, health, food := c.pos, c.hasPos, c.health, c.food
		c.mu.Unlock()
		if !ok {
			c.printf("[console] position unknown\n")
			return false
		}
		c.printf("[console] pos=(%.3f,%.3f,%.3f) yaw=%.1f pitch=%.1f health=%.1f food=%d\n",
			p.X, p.Y, p.Z, p.Yaw, p.Pitch, health, food)
	case "respawn":
		err = c.sender.Send(&packet.ClientStatus{Action: packet.ActionPerformRespawn})
	case "swing":
		err = c.sender.Send(&packet.Animation{Hand: packet.MainHand})
	case "slot":
		err = c.handleSlotCommand(parts)
	case "look":
		err = c.handleLookCommand(parts)
	default:
		c.printf("[console] unknown command: %s\n", parts[0])
	}
	if err != nil {
		c.printf("[console] %s failed: %v\n", parts[0], err)
	}
	return false
}

func (c *Console) handleSlotCommand(parts []string) error {
	if len(parts) != 2 {
		c.printf("[console] usage: :slot <0-8>\n")
		return nil
	}
	slot, err := strconv.Atoi(parts[1])
	if err != nil || slot < 0 || slot > 8 {
		c.printf("[console] invalid slot\n")
		return nil
	}
	return c.sender.Send(&packet.HeldItemChangeServerbound{Slot: int16(slot)})
}

func (c *Console) handleLookCommand(parts []string) error {
	var yaw, pitch float32
	switch len(parts) {
	case 3:
		y, err1 := strconv.ParseFloat(parts[1], 32)
		p, err2 := strconv.ParseFloat(parts[2], 32)
		if err1 != nil || err2 != nil {
			c.printf("[console] invalid look args\n")
			return nil
		}
		yaw, pitch = normalizeYaw(float32(y)), clampPitch(float32(p))
	case 4:
		x, err1 := strconv.ParseFloat(parts[1], 64)
		y, err2 := strconv.ParseFloat(parts[2], 64)
		z, err3 := strconv.ParseFloat(parts[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			c.printf("[console] invalid look args\n")
			return nil
		}
		c.mu.Lock()
		self, ok := c.pos, c.hasPos
		c.mu.Unlock()
		if !ok {
			c.printf("[console] position unknown\n")
			return nil
		}
		yaw, pitch = lookAt(self, x, y, z)
	default:
		c.printf("[console] usage: :look <yaw> <pitch> or :look <x> <y> <z>\n")
		return nil
	}

	c.mu.Lock()
	c.pos.Yaw, c.pos.Pitch = yaw, pitch
	c.mu.Unlock()
	return c.sender.Send(&packet.PlayerLook{Yaw: yaw, Pitch: pitch, OnGround: true})
}

// lookAt returns the yaw and pitch that face (x, y, z) from the player's eyes.
func lookAt(self position, x, y, z float64) (float32, float32) {
	const eyeHeight = 1.62
	dx := x - self.X
	dy := y - (self.Y + eyeHeight)
	dz := z - self.Z

	yaw := float32(math.Atan2(-dx, dz) * 180.0 / math.Pi)
	horizontal := math.Sqrt(dx*dx + dz*dz)
	pitch := float32(-math.Atan2(dy, horizontal) * 180.0 / math.Pi)
	return normalizeYaw(yaw), clampPitch(pitch)
}

func normalizeYaw(yaw float32) float32 {
	for yaw <= -180 {
		yaw += 360
	}
	for yaw > 180 {
		yaw -= 360
	}
	return yaw
}

func clampPitch(pitch float32) float32 {
	if pitch < -90 {
		return -90
	}
	if pitch > 90 {
		return 90
	}
	return pitch
}

func (c *Console) printHelp() {
	c.printf("[console] lines without ':' are sent as chat\n" +
		"  :look <yaw> <pitch>\n" +
		"  :look <x> <y> <z>\n" +
		"  :slot <0-8>\n" +
		"  :swing\n" +
		"  :respawn\n" +
		"  :pos\n" +
		"  :quit\n" +
		"  :help\n")
}

func (c *Console) printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) drawPrompt() {
	if c.prompt {
		c.printf("> ")
	}
}

func (c *Console) HandleChatMessage(m *packet.ChatMessage) {
	evt := event.NewChatEvent(m)
	switch evt.Source {
	case event.SourceHotbar:
		return
	case event.SourceSystem:
		c.printf("[system] %s\n", evt.Text)
	default:
		c.printf("%s\n", evt.Text)
	}
}

func (c *Console) HandleJoinGame(m *packet.JoinGame) {
	c.printf("[console] joined game as entity %d (mode %d, dimension %d)\n", m.EntityID, m.GameMode, m.Dimension)
}

// HandlePlayerPositionAndLook tracks the player, honouring relative flags.
func (c *Console) HandlePlayerPositionAndLook(m *packet.PlayerPositionAndLook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := &c.pos
	p.X = relative(m.Flags&packet.RelativeX != 0, p.X, m.X)
	p.Y = relative(m.Flags&packet.RelativeY != 0, p.Y, m.Y)
	p.Z = relative(m.Flags&packet.RelativeZ != 0, p.Z, m.Z)
	p.Yaw = float32(relative(m.Flags&packet.RelativeYaw != 0, float64(p.Yaw), float64(m.Yaw)))
	p.Pitch = float32(relative(m.Flags&packet.RelativePitch != 0, float64(p.Pitch), float64(m.Pitch)))
	c.hasPos = true
}

func relative(isRelative bool, base, v float64) float64 {
	if isRelative {
		return base + v
	}
	return v
}

func (c *Console) HandleUpdateHealth(m *packet.UpdateHealth) {
	c.mu.Lock()
	c.health, c.food = m.Health, m.Food
	c.mu.Unlock()
	if m.Health <= 0 {
		c.printf("[console] you died, type :respawn\n")
	}
}

func (c *Console) HandleConnectionClosed(evt packet.DisconnectEvent) {
	msg := evt.Reason.String()
	if evt.Message != "" {
		msg += ": " + event.PlainText(evt.Message)
	} else if evt.Err != nil {
		msg += ": " + evt.Err.Error()
	}
	c.printf("[console] disconnected (%s)\n", msg)
}
