// Package event fans decoded messages out to registered handlers.
package event

import (
	"log/slog"
	"sync"

	"github.com/Versifine/mclink/internal/packet"
)

// Bus delivers every message to its handlers synchronously, in the order the
// handlers were subscribed. A handler that panics is logged and skipped; the
// remaining handlers still run.
type Bus struct {
	mu       sync.RWMutex
	handlers []packet.Handler
	logger   *slog.Logger
	onPanic  func(recovered any)
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger}
}

// OnPanic installs a callback run after a handler panic has been recovered.
func (b *Bus) OnPanic(f func(recovered any)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPanic = f
}

func (b *Bus) Subscribe(h packet.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Len returns the number of subscribed handlers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

func (b *Bus) snapshot() ([]packet.Handler, func(any)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	handlers := make([]packet.Handler, len(b.handlers))
	copy(handlers, b.handlers)
	return handlers, b.onPanic
}

// Publish dispatches m to every handler.
func (b *Bus) Publish(m packet.Message) {
	b.each(packet.Name(m), func(h packet.Handler) { packet.Dispatch(m, h) })
}

// PublishDecodeError reports a frame that could not be decoded.
func (b *Bus) PublishDecodeError(err *packet.DecodeError) {
	b.each("DecodeError", func(h packet.Handler) { h.HandleDecodeError(err) })
}

// PublishDisconnect reports the end of the connection.
func (b *Bus) PublishDisconnect(evt packet.DisconnectEvent) {
	b.each("ConnectionClosed", func(h packet.Handler) { h.HandleConnectionClosed(evt) })
}

func (b *Bus) each(name string, call func(packet.Handler)) {
	handlers, onPanic := b.snapshot()
	for i, h := range handlers {
		b.invoke(name, i, h, call, onPanic)
	}
}

func (b *Bus) invoke(name string, index int, h packet.Handler, call func(packet.Handler), onPanic func(any)) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked", "event", name, "handler", index, "panic", r)
			if onPanic != nil {
				onPanic(r)
			}
		}
	}()
	call(h)
}
