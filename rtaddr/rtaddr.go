// Package rtaddr has the RTM_*ADDR codecs.
package rtaddr

import (
	"net"

	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	IFA_UNSPEC = iota
	IFA_ADDRESS
	IFA_LOCAL
	IFA_LABEL
	IFA_BROADCAST
	IFA_ANYCAST
	IFA_CACHEINFO
	IFA_MULTICAST
	IFA_FLAGS
	IFA_RT_PRIORITY
	IFA_TARGET_NETNSID
)

const (
	IFA_F_SECONDARY = 1 << iota
	IFA_F_NODAD
	IFA_F_OPTIMISTIC
	IFA_F_DADFAILED
	IFA_F_HOMEADDRESS
	IFA_F_DEPRECATED
	IFA_F_TENTATIVE
	IFA_F_PERMANENT
	IFA_F_MANAGETEMPADDR
	IFA_F_NOPREFIXROUTE
	IFA_F_MCAUTOJOIN
	IFA_F_STABLE_PRIVACY
)

const IFA_F_TEMPORARY = IFA_F_SECONDARY

const SizeofIfAddrmsg = unix.SizeofIfAddrmsg

var (
	ifaFamily    = nlcodec.Field{Start: 0, End: 1}
	ifaPrefixLen = nlcodec.Field{Start: 1, End: 2}
	ifaFlags     = nlcodec.Field{Start: 2, End: 3}
	ifaScope     = nlcodec.Field{Start: 3, End: 4}
	ifaIndex     = nlcodec.Field{Start: 4, End: 8}
)

// AddressHeader is struct ifaddrmsg. Flags holds only the low 8 bits; the
// full set travels in IFA_FLAGS.
type AddressHeader struct {
	Family    uint8
	PrefixLen uint8
	Flags     uint8
	Scope     uint8
	Index     uint32
}

func ParseAddressHeader(b []byte) (AddressHeader, error) {
	if buf, err := nlcodec.NewCheckedBuffer(b, SizeofIfAddrmsg); err != nil {
		return AddressHeader{}, errors.Wrap(err, "invalid ifaddrmsg")
	} else {
		return AddressHeader{
			Family:    buf.Uint8(ifaFamily),
			PrefixLen: buf.Uint8(ifaPrefixLen),
			Flags:     buf.Uint8(ifaFlags),
			Scope:     buf.Uint8(ifaScope),
			Index:     buf.Uint32(ifaIndex),
		}, nil
	}
}

func (self AddressHeader) BufferLen() int {
	return SizeofIfAddrmsg
}

func (self AddressHeader) Emit(b []byte) {
	buf := nlcodec.NewBuffer(b)
	buf.SetUint8(ifaFamily, self.Family)
	buf.SetUint8(ifaPrefixLen, self.PrefixLen)
	buf.SetUint8(ifaFlags, self.Flags)
	buf.SetUint8(ifaScope, self.Scope)
	buf.SetUint32(ifaIndex, self.Index)
}

// AddressNla is an IFA_* attribute.
type AddressNla interface {
	nlcodec.Nla
	addressNla()
}

// Address and the other address variants hold 4 bytes for AF_INET and 16
// for AF_INET6; the family is in the header.
type Address []byte
type Local []byte
type Label string
type Broadcast []byte
type Anycast []byte
type Multicast []byte
type Flags uint32
type RtPriority uint32
type TargetNetnsId int32

// CacheInfo is struct ifa_cacheinfo. Lifetimes are in seconds,
// 0xFFFFFFFF meaning forever; timestamps in hundredths of a second.
type CacheInfo struct {
	Preferred uint32
	Valid     uint32
	Created   uint32
	Updated   uint32
}

type Other struct {
	nlcodec.DefaultNla
}

func (Address) Kind() uint16       { return IFA_ADDRESS }
func (Local) Kind() uint16         { return IFA_LOCAL }
func (Label) Kind() uint16         { return IFA_LABEL }
func (Broadcast) Kind() uint16     { return IFA_BROADCAST }
func (Anycast) Kind() uint16       { return IFA_ANYCAST }
func (CacheInfo) Kind() uint16     { return IFA_CACHEINFO }
func (Multicast) Kind() uint16     { return IFA_MULTICAST }
func (Flags) Kind() uint16         { return IFA_FLAGS }
func (RtPriority) Kind() uint16    { return IFA_RT_PRIORITY }
func (TargetNetnsId) Kind() uint16 { return IFA_TARGET_NETNSID }

func (self Address) ValueLen() int   { return len(self) }
func (self Local) ValueLen() int     { return len(self) }
func (self Label) ValueLen() int     { return nlcodec.StringLen(string(self)) }
func (self Broadcast) ValueLen() int { return len(self) }
func (self Anycast) ValueLen() int   { return len(self) }
func (CacheInfo) ValueLen() int      { return 16 }
func (self Multicast) ValueLen() int { return len(self) }
func (Flags) ValueLen() int          { return 4 }
func (RtPriority) ValueLen() int     { return 4 }
func (TargetNetnsId) ValueLen() int  { return 4 }

func (self Address) EmitValue(b []byte)       { copy(b, self) }
func (self Local) EmitValue(b []byte)         { copy(b, self) }
func (self Label) EmitValue(b []byte)         { nlcodec.PutString(b, string(self)) }
func (self Broadcast) EmitValue(b []byte)     { copy(b, self) }
func (self Anycast) EmitValue(b []byte)       { copy(b, self) }
func (self Multicast) EmitValue(b []byte)     { copy(b, self) }
func (self Flags) EmitValue(b []byte)         { nlcodec.PutU32(b, uint32(self)) }
func (self RtPriority) EmitValue(b []byte)    { nlcodec.PutU32(b, uint32(self)) }
func (self TargetNetnsId) EmitValue(b []byte) { nlcodec.PutI32(b, int32(self)) }

func (self CacheInfo) EmitValue(b []byte) {
	nlcodec.PutU32Array(b, []uint32{self.Preferred, self.Valid, self.Created, self.Updated})
}

func (Address) addressNla()       {}
func (Local) addressNla()         {}
func (Label) addressNla()         {}
func (Broadcast) addressNla()     {}
func (Anycast) addressNla()       {}
func (CacheInfo) addressNla()     {}
func (Multicast) addressNla()     {}
func (Flags) addressNla()         {}
func (RtPriority) addressNla()    {}
func (TargetNetnsId) addressNla() {}
func (Other) addressNla()         {}

func (self Address) String() string { return net.IP(self).String() }
func (self Local) String() string   { return net.IP(self).String() }

func ParseAddressNla(nla nlcodec.NlaBuffer) (AddressNla, error) {
	switch nla.Kind() {
	case IFA_ADDRESS:
		return Address(nlcodec.ParseBytes(nla.Value())), nil
	case IFA_LOCAL:
		return Local(nlcodec.ParseBytes(nla.Value())), nil
	case IFA_LABEL:
		if v, err := nlcodec.ParseString(nla.Value()); err != nil {
			return nil, errors.Wrap(err, "invalid IFA_LABEL value")
		} else {
			return Label(v), nil
		}
	case IFA_BROADCAST:
		return Broadcast(nlcodec.ParseBytes(nla.Value())), nil
	case IFA_ANYCAST:
		return Anycast(nlcodec.ParseBytes(nla.Value())), nil
	case IFA_CACHEINFO:
		if v, err := nlcodec.ParseU32Array(nla.Value()); err != nil {
			return nil, errors.Wrap(err, "invalid IFA_CACHEINFO value")
		} else if len(v) != 4 {
			return nil, errors.Wrap(nlcodec.Errorf(nlcodec.NLE_RANGE, "expected 16 bytes, got %d", len(nla.Value())), "invalid IFA_CACHEINFO value")
		} else {
			return CacheInfo{
				Preferred: v[0],
				Valid:     v[1],
				Created:   v[2],
				Updated:   v[3],
			}, nil
		}
	case IFA_MULTICAST:
		return Multicast(nlcodec.ParseBytes(nla.Value())), nil
	case IFA_FLAGS:
		if v, err := nlcodec.ParseU32(nla.Value()); err != nil {
			return nil, errors.Wrap(err, "invalid IFA_FLAGS value")
		} else {
			return Flags(v), nil
		}
	case IFA_RT_PRIORITY:
		if v, err := nlcodec.ParseU32(nla.Value()); err != nil {
			return nil, errors.Wrap(err, "invalid IFA_RT_PRIORITY value")
		} else {
			return RtPriority(v), nil
		}
	case IFA_TARGET_NETNSID:
		if v, err := nlcodec.ParseI32(nla.Value()); err != nil {
			return nil, errors.Wrap(err, "invalid IFA_TARGET_NETNSID value")
		} else {
			return TargetNetnsId(v), nil
		}
	default:
		return Other{nlcodec.ParseDefaultNla(nla)}, nil
	}
}

// AddressMessage is the payload of RTM_NEWADDR, RTM_DELADDR and
// RTM_GETADDR.
type AddressMessage struct {
	Header AddressHeader
	Nlas   []AddressNla
}

func ParseAddressMessage(b []byte) (*AddressMessage, error) {
	hdr, err := ParseAddressHeader(b)
	if err != nil {
		return nil, err
	}
	nlas, err := nlcodec.ParseNlas(b[SizeofIfAddrmsg:], ParseAddressNla)
	if err != nil {
		return nil, errors.Wrap(err, "invalid address message")
	}
	return &AddressMessage{
		Header: hdr,
		Nlas:   nlas,
	}, nil
}

func (self *AddressMessage) BufferLen() int {
	return SizeofIfAddrmsg + nlcodec.NlasBufferLen(self.Nlas)
}

func (self *AddressMessage) Emit(b []byte) {
	self.Header.Emit(b[:SizeofIfAddrmsg])
	nlcodec.EmitNlas(self.Nlas, b[SizeofIfAddrmsg:])
}

// Flags returns IFA_FLAGS when present, the header flags otherwise.
func (self *AddressMessage) Flags() uint32 {
	for _, nla := range self.Nlas {
		if v, ok := nla.(Flags); ok {
			return uint32(v)
		}
	}
	return uint32(self.Header.Flags)
}

// Prefix returns IFA_LOCAL, falling back to IFA_ADDRESS, with the header
// prefix length. Point to point links carry the peer in IFA_ADDRESS.
func (self *AddressMessage) Prefix() (*net.IPNet, error) {
	var ip net.IP
	for _, nla := range self.Nlas {
		switch v := nla.(type) {
		case Local:
			ip = net.IP(v)
		case Address:
			if ip == nil {
				ip = net.IP(v)
			}
		}
	}
	if ip == nil {
		return nil, nlcodec.Errorf(nlcodec.NLE_MISSING_ATTR, "address message has no IFA_LOCAL or IFA_ADDRESS")
	}
	return &net.IPNet{
		IP:   ip,
		Mask: net.CIDRMask(int(self.Header.PrefixLen), len(ip)*8),
	}, nil
}

var Names = &nlcodec.Names{
	Prefix: "IFA",
	Names: map[uint16]string{
		IFA_ADDRESS:        "ADDRESS",
		IFA_LOCAL:          "LOCAL",
		IFA_LABEL:          "LABEL",
		IFA_BROADCAST:      "BROADCAST",
		IFA_ANYCAST:        "ANYCAST",
		IFA_CACHEINFO:      "CACHEINFO",
		IFA_MULTICAST:      "MULTICAST",
		IFA_FLAGS:          "FLAGS",
		IFA_RT_PRIORITY:    "RT_PRIORITY",
		IFA_TARGET_NETNSID: "TARGET_NETNSID",
	},
}
