package rtlink

import (
	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

// LinkMessage is the payload of RTM_NEWLINK, RTM_DELLINK, RTM_GETLINK and
// RTM_SETLINK.
type LinkMessage struct {
	Header LinkHeader
	Nlas   []LinkNla
}

func ParseLinkMessage(b []byte) (*LinkMessage, error) {
	hdr, err := ParseLinkHeader(b)
	if err != nil {
		return nil, err
	}
	nlas, err := nlcodec.ParseNlas(b[SizeofIfInfomsg:], ParseLinkNla)
	if err != nil {
		return nil, errors.Wrap(err, "invalid link message")
	}
	return &LinkMessage{
		Header: hdr,
		Nlas:   nlas,
	}, nil
}

func (self *LinkMessage) BufferLen() int {
	return SizeofIfInfomsg + nlcodec.NlasBufferLen(self.Nlas)
}

func (self *LinkMessage) Emit(b []byte) {
	self.Header.Emit(b[:SizeofIfInfomsg])
	nlcodec.EmitNlas(self.Nlas, b[SizeofIfInfomsg:])
}

// Name returns the first IFLA_IFNAME.
func (self *LinkMessage) Name() (string, bool) {
	for _, nla := range self.Nlas {
		if v, ok := nla.(IfName); ok {
			return string(v), true
		}
	}
	return "", false
}

// Mtu returns the first IFLA_MTU.
func (self *LinkMessage) Mtu() (uint32, bool) {
	for _, nla := range self.Nlas {
		if v, ok := nla.(Mtu); ok {
			return uint32(v), true
		}
	}
	return 0, false
}

// LinkInfo returns the first IFLA_LINKINFO.
func (self *LinkMessage) LinkInfo() (LinkInfo, bool) {
	for _, nla := range self.Nlas {
		if v, ok := nla.(LinkInfo); ok {
			return v, true
		}
	}
	return nil, false
}
