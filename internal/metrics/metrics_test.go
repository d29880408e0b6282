package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("期望 Counter 字段非空")
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("期望 Gauge 字段非空")
	}
	return m.GetGauge().GetValue()
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Frame(Inbound, 10)
	m.Packet(Inbound, "KeepAlive")
	m.DecodeError("Play")
	m.FrameError()
	m.HandlerPanic("boom")
	m.Connected()
	m.Disconnected("closed", true)
}

func TestFrameCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Frame(Inbound, 10)
	m.Frame(Inbound, 5)
	m.Frame(Outbound, 7)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"入站帧数", counterValue(t, m.frames.WithLabelValues(Inbound)), 2},
		{"入站字节", counterValue(t, m.bytes.WithLabelValues(Inbound)), 15},
		{"出站帧数", counterValue(t, m.frames.WithLabelValues(Outbound)), 1},
		{"出站字节", counterValue(t, m.bytes.WithLabelValues(Outbound)), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("值 = %v, 期望 %v", tt.got, tt.want)
			}
		})
	}
}

func TestErrorAndPanicCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.DecodeError("Play")
	m.DecodeError("Play")
	m.DecodeError("Login")
	m.FrameError()
	m.HandlerPanic(nil)
	m.Packet(Inbound, "ChatMessage")

	if got := counterValue(t, m.decodeErrors.WithLabelValues("Play")); got != 2 {
		t.Errorf("Play 解码错误 = %v, 期望 2", got)
	}
	if got := counterValue(t, m.decodeErrors.WithLabelValues("Login")); got != 1 {
		t.Errorf("Login 解码错误 = %v, 期望 1", got)
	}
	if got := counterValue(t, m.frameErrors); got != 1 {
		t.Errorf("帧错误 = %v, 期望 1", got)
	}
	if got := counterValue(t, m.handlerPanics); got != 1 {
		t.Errorf("handler panic = %v, 期望 1", got)
	}
	if got := counterValue(t, m.packets.WithLabelValues(Inbound, "ChatMessage")); got != 1 {
		t.Errorf("ChatMessage 计数 = %v, 期望 1", got)
	}
}

func TestConnectedGauge(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Connected()
	m.Connected()
	m.Disconnected("kicked", true)
	m.Disconnected("connection lost", false)

	if got := gaugeValue(t, m.connected); got != 1 {
		t.Errorf("connected = %v, 期望 1", got)
	}
	if got := counterValue(t, m.disconnects.WithLabelValues("kicked")); got != 1 {
		t.Errorf("kicked = %v, 期望 1", got)
	}
	if got := counterValue(t, m.disconnects.WithLabelValues("connection lost")); got != 1 {
		t.Errorf("connection lost = %v, 期望 1", got)
	}
}

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.FrameError()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather 失败: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "mclink_frame_errors_total" {
			found = true
		}
	}
	if !found {
		t.Error("未找到 mclink_frame_errors_total")
	}

	defer func() {
		if recover() == nil {
			t.Error("重复注册应 panic")
		}
	}()
	New(reg)
}
