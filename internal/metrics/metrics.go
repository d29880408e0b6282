// Package metrics exposes Prometheus counters for a protocol connection.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mclink"

// Direction label values.
const (
	Inbound  = "in"
	Outbound = "out"
)

type Metrics struct {
	frames        *prometheus.CounterVec
	bytes         *prometheus.CounterVec
	packets       *prometheus.CounterVec
	decodeErrors  *prometheus.CounterVec
	frameErrors   prometheus.Counter
	handlerPanics prometheus.Counter
	disconnects   *prometheus.CounterVec
	connected     prometheus.Gauge
}

// New registers the collectors with reg, or with the default registerer
// when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of frames read or written",
		}, []string{"direction"}),

		bytes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_total",
			Help:      "Total number of frame bytes on the wire",
		}, []string{"direction"}),

		packets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_total",
			Help:      "Total number of decoded or encoded packets by name",
		}, []string{"direction", "packet"}),

		decodeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Total number of inbound packets that failed to decode",
		}, []string{"state"}),

		frameErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_errors_total",
			Help:      "Total number of recoverable frame errors",
		}),

		handlerPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_panics_total",
			Help:      "Total number of recovered handler panics",
		}),

		disconnects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disconnects_total",
			Help:      "Total number of ended connections by reason",
		}, []string{"reason"}),

		connected: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected",
			Help:      "Number of connections currently in the play state",
		}),
	}
}

func (m *Metrics) Frame(direction string, wireLen int) {
	if m == nil {
		return
	}
	m.frames.WithLabelValues(direction).Inc()
	m.bytes.WithLabelValues(direction).Add(float64(wireLen))
}

func (m *Metrics) Packet(direction, name string) {
	if m == nil {
		return
	}
	m.packets.WithLabelValues(direction, name).Inc()
}

func (m *Metrics) DecodeError(state string) {
	if m == nil {
		return
	}
	m.decodeErrors.WithLabelValues(state).Inc()
}

func (m *Metrics) FrameError() {
	if m == nil {
		return
	}
	m.frameErrors.Inc()
}

// HandlerPanic has the signature expected by event.Bus.OnPanic.
func (m *Metrics) HandlerPanic(any) {
	if m == nil {
		return
	}
	m.handlerPanics.Inc()
}

func (m *Metrics) Connected() {
	if m == nil {
		return
	}
	m.connected.Inc()
}

// Disconnected records the end of a connection. wasPlaying reports whether
// Connected had been recorded for it.
func (m *Metrics) Disconnected(reason string, wasPlaying bool) {
	if m == nil {
		return
	}
	m.disconnects.WithLabelValues(reason).Inc()
	if wasPlaying {
		m.connected.Dec()
	}
}
