package rtroute

import (
	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

const SizeofRtNexthop = 8

var (
	rtnhLen     = nlcodec.Field{Start: 0, End: 2}
	rtnhFlags   = nlcodec.Field{Start: 2, End: 3}
	rtnhHops    = nlcodec.Field{Start: 3, End: 4}
	rtnhIfindex = nlcodec.Field{Start: 4, End: 8}
)

// NextHop is struct rtnexthop with the attributes that follow it, usually
// RTA_GATEWAY and RTA_FLOW. Hops is the weight minus one.
type NextHop struct {
	Flags   uint8
	Hops    uint8
	IfIndex uint32
	Nlas    []RouteNla
}

func (self NextHop) length() int {
	return SizeofRtNexthop + nlcodec.NlasBufferLen(self.Nlas)
}

// Gateway returns the first RTA_GATEWAY of the hop.
func (self NextHop) Gateway() (Gateway, bool) {
	for _, nla := range self.Nlas {
		if v, ok := nla.(Gateway); ok {
			return v, true
		}
	}
	return nil, false
}

func (self MultiPath) ValueLen() int {
	var n int
	for _, hop := range self {
		n += nlcodec.NLA_ALIGN(hop.length())
	}
	return n
}

func (self MultiPath) EmitValue(b []byte) {
	var off int
	for _, hop := range self {
		length := hop.length()
		buf := nlcodec.NewBuffer(b[off : off+length])
		buf.SetUint16(rtnhLen, uint16(length))
		buf.SetUint8(rtnhFlags, hop.Flags)
		buf.SetUint8(rtnhHops, hop.Hops)
		buf.SetUint32(rtnhIfindex, hop.IfIndex)
		nlcodec.EmitNlas(hop.Nlas, buf.Rest(SizeofRtNexthop))
		off += nlcodec.NLA_ALIGN(length)
	}
}

// parseMultiPath walks the rtnexthop list with the same length rules as an
// attribute stream.
func parseMultiPath(b []byte) (MultiPath, error) {
	ret := MultiPath{}
	for pos := 0; len(b)-pos >= SizeofRtNexthop; {
		buf := nlcodec.NewBuffer(b[pos:])
		length := int(buf.Uint16(rtnhLen))
		if length < SizeofRtNexthop {
			return nil, nlcodec.Errorf(nlcodec.NLE_RANGE, "next hop at offset %d: length %d is shorter than rtnexthop", pos, length)
		} else if length > len(buf) {
			return nil, nlcodec.Errorf(nlcodec.NLE_MSG_TRUNC, "next hop at offset %d: length %d exceeds the %d bytes available", pos, length, len(buf))
		}
		nlas, err := nlcodec.ParseNlas(buf[SizeofRtNexthop:length], ParseRouteNla)
		if err != nil {
			return nil, errors.Wrapf(err, "next hop at offset %d", pos)
		}
		ret = append(ret, NextHop{
			Flags:   buf.Uint8(rtnhFlags),
			Hops:    buf.Uint8(rtnhHops),
			IfIndex: buf.Uint32(rtnhIfindex),
			Nlas:    nlas,
		})
		pos += min(nlcodec.NLA_ALIGN(length), len(buf))
	}
	return ret, nil
}
