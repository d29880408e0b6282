package client

import "errors"

var (
	ErrLoginRejected    = errors.New("login rejected by server")
	ErrAlreadyConnected = errors.New("connection already started")
	ErrInvalidConfig    = errors.New("invalid client config")
	ErrUnexpectedPacket = errors.New("unexpected packet")
)

// ErrKicked is the termination error after the server sent a Play Disconnect.
var ErrKicked = errors.New("kicked by server")
