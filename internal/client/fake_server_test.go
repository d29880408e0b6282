package client

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/Versifine/mclink/internal/auth"
	"github.com/Versifine/mclink/internal/packet"
	"github.com/Versifine/mclink/internal/protocol"
)

// fakeServer speaks the server side of the protocol over one end of a pipe.
type fakeServer struct {
	conn      net.Conn
	stream    *protocol.Stream
	r         *protocol.FrameReader
	w         *protocol.FrameWriter
	state     protocol.State
	threshold int
}

func newFakeServer(conn net.Conn) *fakeServer {
	stream := protocol.NewStream(conn)
	return &fakeServer{
		conn:      conn,
		stream:    stream,
		r:         protocol.NewFrameReader(stream, protocol.FrameConfig{}),
		w:         protocol.NewFrameWriter(stream, protocol.FrameConfig{}),
		state:     protocol.Handshake,
		threshold: -1,
	}
}

func (s *fakeServer) read() (packet.Message, error) {
	buf, _, err := s.r.ReadFrame(s.threshold)
	if err != nil {
		return nil, err
	}
	return packet.Default().Decode(s.state, packet.Serverbound, buf)
}

func (s *fakeServer) write(m packet.Message) error {
	buf, err := packet.Encode(m)
	if err != nil {
		return err
	}
	return s.writeRaw(buf.Bytes())
}

func (s *fakeServer) writeRaw(payload []byte) error {
	_, err := s.w.WriteFrame(payload, s.threshold)
	return err
}

func expect[T packet.Message](s *fakeServer) (T, error) {
	var zero T
	m, err := s.read()
	if err != nil {
		return zero, err
	}
	v, ok := m.(T)
	if !ok {
		return zero, fmt.Errorf("收到 %s, 期望 %T", packet.Name(m), zero)
	}
	return v, nil
}

// acceptHandshake reads the handshake and checks the requested next state.
func (s *fakeServer) acceptHandshake(next int32) (*packet.Handshake, error) {
	hs, err := expect[*packet.Handshake](s)
	if err != nil {
		return nil, err
	}
	if hs.NextState != next {
		return nil, fmt.Errorf("NextState = %d, 期望 %d", hs.NextState, next)
	}
	if next == protocol.NextStateLogin {
		s.state = protocol.Login
	} else {
		s.state = protocol.Status
	}
	return hs, nil
}

// acceptLogin runs the server side up to LoginStart.
func (s *fakeServer) acceptLogin() (*packet.LoginStart, error) {
	if _, err := s.acceptHandshake(protocol.NextStateLogin); err != nil {
		return nil, err
	}
	return expect[*packet.LoginStart](s)
}

func (s *fakeServer) finishLogin(name string) error {
	if err := s.write(&packet.LoginSuccess{UUID: auth.OfflineUUID(name), Username: name}); err != nil {
		return err
	}
	s.state = protocol.Play
	return nil
}

// pipeDialer hands the client end of a fresh pipe to the Conn and the
// server end to the test.
func pipeDialer() (DialFunc, <-chan *fakeServer) {
	servers := make(chan *fakeServer, 1)
	dial := func(ctx context.Context, network, address string) (net.Conn, error) {
		cli, srv := net.Pipe()
		servers <- newFakeServer(srv)
		return cli, nil
	}
	return dial, servers
}

// runServer runs script on the next accepted server and reports its result.
func runServer(servers <-chan *fakeServer, script func(s *fakeServer) error) <-chan error {
	errc := make(chan error, 1)
	go func() {
		s := <-servers
		err := script(s)
		if err != nil {
			s.conn.Close()
		}
		errc <- err
	}()
	return errc
}

func waitErr(t *testing.T, errc <-chan error) {
	t.Helper()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("服务端脚本失败: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("等待服务端脚本超时")
	}
}

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		var zero T
		t.Fatalf("等待 %T 超时", zero)
		return zero
	}
}

func waitDone(t *testing.T, c *Conn) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("等待连接结束超时")
	}
}

// recorder captures what the bus delivers.
type recorder struct {
	packet.BaseHandler
	chats      chan *packet.ChatMessage
	joins      chan *packet.JoinGame
	decodeErrs chan *packet.DecodeError
	closed     chan packet.DisconnectEvent
}

func newRecorder() *recorder {
	return &recorder{
		chats:      make(chan *packet.ChatMessage, 16),
		joins:      make(chan *packet.JoinGame, 4),
		decodeErrs: make(chan *packet.DecodeError, 16),
		closed:     make(chan packet.DisconnectEvent, 4),
	}
}

func (r *recorder) HandleChatMessage(m *packet.ChatMessage)         { r.chats <- m }
func (r *recorder) HandleJoinGame(m *packet.JoinGame)               { r.joins <- m }
func (r *recorder) HandleDecodeError(e *packet.DecodeError)         { r.decodeErrs <- e }
func (r *recorder) HandleConnectionClosed(e packet.DisconnectEvent) { r.closed <- e }
