package client

import "fmt"

// Status is the lifecycle stage of a Conn.
type Status int32

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusLoggingIn
	StatusPlay
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "Disconnected"
	case StatusConnecting:
		return "Connecting"
	case StatusLoggingIn:
		return "LoggingIn"
	case StatusPlay:
		return "Play"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}
