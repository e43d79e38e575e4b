// Package rtroute has the RTM_*ROUTE codecs.
package rtroute

import (
	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const SizeofRtMsg = unix.SizeofRtMsg

const familyInet6 = unix.AF_INET6

var (
	rtmFamily   = nlcodec.Field{Start: 0, End: 1}
	rtmDstLen   = nlcodec.Field{Start: 1, End: 2}
	rtmSrcLen   = nlcodec.Field{Start: 2, End: 3}
	rtmTos      = nlcodec.Field{Start: 3, End: 4}
	rtmTable    = nlcodec.Field{Start: 4, End: 5}
	rtmProtocol = nlcodec.Field{Start: 5, End: 6}
	rtmScope    = nlcodec.Field{Start: 6, End: 7}
	rtmType     = nlcodec.Field{Start: 7, End: 8}
	rtmFlags    = nlcodec.Field{Start: 8, End: 12}
)

// RouteHeader is struct rtmsg.
type RouteHeader struct {
	Family   uint8
	DstLen   uint8
	SrcLen   uint8
	Tos      uint8
	Table    uint8
	Protocol uint8
	Scope    uint8
	Type     uint8
	Flags    uint32
}

func ParseRouteHeader(b []byte) (RouteHeader, error) {
	if buf, err := nlcodec.NewCheckedBuffer(b, SizeofRtMsg); err != nil {
		return RouteHeader{}, errors.Wrap(err, "invalid rtmsg")
	} else {
		return RouteHeader{
			Family:   buf.Uint8(rtmFamily),
			DstLen:   buf.Uint8(rtmDstLen),
			SrcLen:   buf.Uint8(rtmSrcLen),
			Tos:      buf.Uint8(rtmTos),
			Table:    buf.Uint8(rtmTable),
			Protocol: buf.Uint8(rtmProtocol),
			Scope:    buf.Uint8(rtmScope),
			Type:     buf.Uint8(rtmType),
			Flags:    buf.Uint32(rtmFlags),
		}, nil
	}
}

func (self RouteHeader) BufferLen() int {
	return SizeofRtMsg
}

func (self RouteHeader) Emit(b []byte) {
	buf := nlcodec.NewBuffer(b)
	buf.SetUint8(rtmFamily, self.Family)
	buf.SetUint8(rtmDstLen, self.DstLen)
	buf.SetUint8(rtmSrcLen, self.SrcLen)
	buf.SetUint8(rtmTos, self.Tos)
	buf.SetUint8(rtmTable, self.Table)
	buf.SetUint8(rtmProtocol, self.Protocol)
	buf.SetUint8(rtmScope, self.Scope)
	buf.SetUint8(rtmType, self.Type)
	buf.SetUint32(rtmFlags, self.Flags)
}
