package sockdiag

import (
	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

// InetDiagMessage is a SOCK_DIAG_BY_FAMILY response for an AF_INET or
// AF_INET6 socket.
type InetDiagMessage struct {
	Header InetResponseHeader
	Nlas   []InetDiagNla
}

func ParseInetDiagMessage(b []byte) (*InetDiagMessage, error) {
	hdr, err := ParseInetResponseHeader(b)
	if err != nil {
		return nil, err
	}
	nlas, err := nlcodec.ParseNlas(b[SizeofInetDiagMsg:], ParseInetDiagNla)
	if err != nil {
		return nil, errors.Wrap(err, "invalid inet_diag message")
	}
	return &InetDiagMessage{
		Header: hdr,
		Nlas:   nlas,
	}, nil
}

func (self *InetDiagMessage) BufferLen() int {
	return SizeofInetDiagMsg + nlcodec.NlasBufferLen(self.Nlas)
}

func (self *InetDiagMessage) Emit(b []byte) {
	self.Header.Emit(b[:SizeofInetDiagMsg])
	nlcodec.EmitNlas(self.Nlas, b[SizeofInetDiagMsg:])
}

// Congestion returns the INET_DIAG_CONG value, if any.
func (self *InetDiagMessage) Congestion() (string, bool) {
	for _, nla := range self.Nlas {
		if v, ok := nla.(Congestion); ok {
			return string(v), true
		}
	}
	return "", false
}

func (self *InetDiagMessage) MemInfo() (MemInfo, bool) {
	for _, nla := range self.Nlas {
		if v, ok := nla.(MemInfo); ok {
			return v, true
		}
	}
	return MemInfo{}, false
}
