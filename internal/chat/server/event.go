package server

import (
	"net"
	"time"
)

// ConnEvent - base event related to client connection.
type ConnEvent struct {
	// ID - unique connection identifier, assigned on accept
	ID         string
	Addr       net.Addr
	OriginTime time.Time
}

// JoinEvent - occurres after new connection was accepted.
type JoinEvent struct {
	ConnEvent
}

// PartAction - describes the type of parting with client connection.
type PartAction int

const (
	_ PartAction = iota
	// PartActionLeft - peer closed connection.
	PartActionLeft
	// PartActionFailed - read or write on connection failed.
	PartActionFailed
	// PartActionShutdown - connection was closed due to server shutdown.
	PartActionShutdown
)

func (a PartAction) String() string {
	switch a {
	case PartActionLeft:
		return "left"
	case PartActionFailed:
		return "failed"
	case PartActionShutdown:
		return "shutdown"
	default:
		return "unknown part action"
	}
}

// PartEvent - occurres after connection was removed from server.
type PartEvent struct {
	ConnEvent
	Action PartAction
	Err    error
}
