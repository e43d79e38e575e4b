package sockdiag

import (
	"fmt"
)

// TcpState is the state byte of struct inet_diag_msg, from net/tcp_states.h.
type TcpState uint8

const (
	TCP_ESTABLISHED TcpState = 1 + iota
	TCP_SYN_SENT
	TCP_SYN_RECV
	TCP_FIN_WAIT1
	TCP_FIN_WAIT2
	TCP_TIME_WAIT
	TCP_CLOSE
	TCP_CLOSE_WAIT
	TCP_LAST_ACK
	TCP_LISTEN
	TCP_CLOSING
	TCP_NEW_SYN_RECV
	TCP_BOUND_INACTIVE
)

// TCP_ALL selects every state in InetRequest.States.
const TCP_ALL = 0xFFF

// Known reports whether the kernel defines the state.
func (self TcpState) Known() bool {
	switch self {
	case TCP_ESTABLISHED, TCP_SYN_SENT, TCP_SYN_RECV, TCP_FIN_WAIT1, TCP_FIN_WAIT2,
		TCP_TIME_WAIT, TCP_CLOSE, TCP_CLOSE_WAIT, TCP_LAST_ACK, TCP_LISTEN,
		TCP_CLOSING, TCP_NEW_SYN_RECV, TCP_BOUND_INACTIVE:
		return true
	}
	return false
}

// String uses the names ss prints.
func (self TcpState) String() string {
	switch self {
	case TCP_ESTABLISHED:
		return "ESTAB"
	case TCP_SYN_SENT:
		return "SYN-SENT"
	case TCP_SYN_RECV:
		return "SYN-RECV"
	case TCP_FIN_WAIT1:
		return "FIN-WAIT-1"
	case TCP_FIN_WAIT2:
		return "FIN-WAIT-2"
	case TCP_TIME_WAIT:
		return "TIME-WAIT"
	case TCP_CLOSE:
		return "UNCONN"
	case TCP_CLOSE_WAIT:
		return "CLOSE-WAIT"
	case TCP_LAST_ACK:
		return "LAST-ACK"
	case TCP_LISTEN:
		return "LISTEN"
	case TCP_CLOSING:
		return "CLOSING"
	case TCP_NEW_SYN_RECV:
		return "NEW-SYN-RECV"
	case TCP_BOUND_INACTIVE:
		return "BOUND-INACTIVE"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(self))
}

// StateMask builds an InetRequest.States value.
func StateMask(states ...TcpState) uint32 {
	var mask uint32
	for _, s := range states {
		mask |= 1 << s
	}
	return mask
}
