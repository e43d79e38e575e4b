// Package sockdiag has the inet_diag structures of NETLINK_SOCK_DIAG and
// the INET_DIAG_* attributes that follow a response.
package sockdiag

import (
	"fmt"
	"net"

	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	SOCK_DIAG_BY_FAMILY = 20
	SOCK_DESTROY        = 21
)

const (
	SizeofInetDiagSockid = 0x30
	SizeofInetDiagReqV2  = 0x38
	SizeofInetDiagMsg    = 0x48
)

var (
	idSport  = nlcodec.Field{Start: 0, End: 2}
	idDport  = nlcodec.Field{Start: 2, End: 4}
	idSrc    = nlcodec.Field{Start: 4, End: 20}
	idDst    = nlcodec.Field{Start: 20, End: 36}
	idIf     = nlcodec.Field{Start: 36, End: 40}
	idCookie = nlcodec.Field{Start: 40, End: 48}
)

// SocketId is struct inet_diag_sockid. Ports are host order here and big
// endian on the wire; an IPv4 address fills the first 4 bytes.
type SocketId struct {
	Sport     uint16
	Dport     uint16
	Src       [16]byte
	Dst       [16]byte
	Interface uint32
	Cookie    [2]uint32
}

// NoCookie makes the kernel ignore the cookie of a request.
var NoCookie = [2]uint32{^uint32(0), ^uint32(0)}

func ParseSocketId(b []byte) (SocketId, error) {
	if buf, err := nlcodec.NewCheckedBuffer(b, SizeofInetDiagSockid); err != nil {
		return SocketId{}, errors.Wrap(err, "invalid inet_diag_sockid")
	} else {
		id := SocketId{
			Sport:     buf.Uint16BE(idSport),
			Dport:     buf.Uint16BE(idDport),
			Interface: buf.Uint32(idIf),
		}
		copy(id.Src[:], buf.Bytes(idSrc))
		copy(id.Dst[:], buf.Bytes(idDst))
		cookie := nlcodec.NewBuffer(buf.Bytes(idCookie))
		id.Cookie[0] = cookie.Uint32(nlcodec.Field{Start: 0, End: 4})
		id.Cookie[1] = cookie.Uint32(nlcodec.Field{Start: 4, End: 8})
		return id, nil
	}
}

func (self SocketId) BufferLen() int {
	return SizeofInetDiagSockid
}

func (self SocketId) Emit(b []byte) {
	buf := nlcodec.NewBuffer(b)
	buf.SetUint16BE(idSport, self.Sport)
	buf.SetUint16BE(idDport, self.Dport)
	buf.SetBytes(idSrc, self.Src[:])
	buf.SetBytes(idDst, self.Dst[:])
	buf.SetUint32(idIf, self.Interface)
	cookie := nlcodec.NewBuffer(buf.Bytes(idCookie))
	cookie.SetUint32(nlcodec.Field{Start: 0, End: 4}, self.Cookie[0])
	cookie.SetUint32(nlcodec.Field{Start: 4, End: 8}, self.Cookie[1])
}

func address(family uint8, a [16]byte) net.IP {
	if family == unix.AF_INET {
		return net.IP(append([]byte{}, a[:4]...))
	}
	return net.IP(append([]byte{}, a[:]...))
}

// Source returns the local address, read as family.
func (self SocketId) Source(family uint8) net.IP {
	return address(family, self.Src)
}

func (self SocketId) Destination(family uint8) net.IP {
	return address(family, self.Dst)
}

// SetAddrs fills both addresses. An IPv4 address takes the first 4 bytes.
func (self *SocketId) SetAddrs(src, dst net.IP) {
	fill := func(a *[16]byte, ip net.IP) {
		*a = [16]byte{}
		if v4 := ip.To4(); v4 != nil {
			copy(a[:], v4)
		} else {
			copy(a[:], ip.To16())
		}
	}
	fill(&self.Src, src)
	fill(&self.Dst, dst)
}

var (
	reqFamily   = nlcodec.Field{Start: 0, End: 1}
	reqProtocol = nlcodec.Field{Start: 1, End: 2}
	reqExt      = nlcodec.Field{Start: 2, End: 3}
	reqStates   = nlcodec.Field{Start: 4, End: 8}
	reqId       = nlcodec.Field{Start: 8, End: SizeofInetDiagReqV2}
)

// InetRequest is struct inet_diag_req_v2, the body of a
// SOCK_DIAG_BY_FAMILY dump request. States is a mask of 1<<TcpState and
// Ext a mask built with ExtMask.
type InetRequest struct {
	Family   uint8
	Protocol uint8
	Ext      uint8
	States   uint32
	Id       SocketId
}

func ParseInetRequest(b []byte) (InetRequest, error) {
	if buf, err := nlcodec.NewCheckedBuffer(b, SizeofInetDiagReqV2); err != nil {
		return InetRequest{}, errors.Wrap(err, "invalid inet_diag_req_v2")
	} else if id, err := ParseSocketId(buf.Bytes(reqId)); err != nil {
		return InetRequest{}, err
	} else {
		return InetRequest{
			Family:   buf.Uint8(reqFamily),
			Protocol: buf.Uint8(reqProtocol),
			Ext:      buf.Uint8(reqExt),
			States:   buf.Uint32(reqStates),
			Id:       id,
		}, nil
	}
}

func (self InetRequest) BufferLen() int {
	return SizeofInetDiagReqV2
}

func (self InetRequest) Emit(b []byte) {
	clear(b[:SizeofInetDiagReqV2])
	buf := nlcodec.NewBuffer(b)
	buf.SetUint8(reqFamily, self.Family)
	buf.SetUint8(reqProtocol, self.Protocol)
	buf.SetUint8(reqExt, self.Ext)
	buf.SetUint32(reqStates, self.States)
	self.Id.Emit(buf.Bytes(reqId))
}

var (
	msgFamily  = nlcodec.Field{Start: 0, End: 1}
	msgState   = nlcodec.Field{Start: 1, End: 2}
	msgTimer   = nlcodec.Field{Start: 2, End: 3}
	msgRetrans = nlcodec.Field{Start: 3, End: 4}
	msgId      = nlcodec.Field{Start: 4, End: 52}
	msgExpires = nlcodec.Field{Start: 52, End: 56}
	msgRqueue  = nlcodec.Field{Start: 56, End: 60}
	msgWqueue  = nlcodec.Field{Start: 60, End: 64}
	msgUid     = nlcodec.Field{Start: 64, End: 68}
	msgInode   = nlcodec.Field{Start: 68, End: 72}
)

// InetResponseHeader is struct inet_diag_msg.
type InetResponseHeader struct {
	Family  uint8
	State   TcpState
	Timer   uint8
	Retrans uint8
	Id      SocketId
	Expires uint32
	Rqueue  uint32
	Wqueue  uint32
	Uid     uint32
	Inode   uint32
}

func ParseInetResponseHeader(b []byte) (InetResponseHeader, error) {
	if buf, err := nlcodec.NewCheckedBuffer(b, SizeofInetDiagMsg); err != nil {
		return InetResponseHeader{}, errors.Wrap(err, "invalid inet_diag_msg")
	} else if id, err := ParseSocketId(buf.Bytes(msgId)); err != nil {
		return InetResponseHeader{}, err
	} else {
		return InetResponseHeader{
			Family:  buf.Uint8(msgFamily),
			State:   TcpState(buf.Uint8(msgState)),
			Timer:   buf.Uint8(msgTimer),
			Retrans: buf.Uint8(msgRetrans),
			Id:      id,
			Expires: buf.Uint32(msgExpires),
			Rqueue:  buf.Uint32(msgRqueue),
			Wqueue:  buf.Uint32(msgWqueue),
			Uid:     buf.Uint32(msgUid),
			Inode:   buf.Uint32(msgInode),
		}, nil
	}
}

func (self InetResponseHeader) BufferLen() int {
	return SizeofInetDiagMsg
}

func (self InetResponseHeader) Emit(b []byte) {
	buf := nlcodec.NewBuffer(b)
	buf.SetUint8(msgFamily, self.Family)
	buf.SetUint8(msgState, uint8(self.State))
	buf.SetUint8(msgTimer, self.Timer)
	buf.SetUint8(msgRetrans, self.Retrans)
	self.Id.Emit(buf.Bytes(msgId))
	buf.SetUint32(msgExpires, self.Expires)
	buf.SetUint32(msgRqueue, self.Rqueue)
	buf.SetUint32(msgWqueue, self.Wqueue)
	buf.SetUint32(msgUid, self.Uid)
	buf.SetUint32(msgInode, self.Inode)
}

// String is the ss style summary: "ESTAB 10.0.0.1:22 10.0.0.2:40000".
func (self InetResponseHeader) String() string {
	return fmt.Sprintf("%s %s %s", self.State,
		net.JoinHostPort(self.Id.Source(self.Family).String(), fmt.Sprint(self.Id.Sport)),
		net.JoinHostPort(self.Id.Destination(self.Family).String(), fmt.Sprint(self.Id.Dport)))
}
