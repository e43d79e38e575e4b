// Package xfrm has the IPsec policy structures and XFRMA_* attributes of
// NETLINK_XFRM.
package xfrm

import (
	"fmt"
	"net"

	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	SizeofXfrmSelector     = 0x38
	SizeofXfrmUserpolicyId = 0x40
)

var (
	selDaddr      = nlcodec.Field{Start: 0, End: 16}
	selSaddr      = nlcodec.Field{Start: 16, End: 32}
	selDport      = nlcodec.Field{Start: 32, End: 34}
	selDportMask  = nlcodec.Field{Start: 34, End: 36}
	selSport      = nlcodec.Field{Start: 36, End: 38}
	selSportMask  = nlcodec.Field{Start: 38, End: 40}
	selFamily     = nlcodec.Field{Start: 40, End: 42}
	selPrefixlenD = nlcodec.Field{Start: 42, End: 43}
	selPrefixlenS = nlcodec.Field{Start: 43, End: 44}
	selProto      = nlcodec.Field{Start: 44, End: 45}
	selIfindex    = nlcodec.Field{Start: 48, End: 52}
	selUser       = nlcodec.Field{Start: 52, End: 56}
)

// Selector is struct xfrm_selector. Ports are host order here and big
// endian on the wire. An IPv4 address fills the first 4 bytes.
type Selector struct {
	Daddr      [16]byte
	Saddr      [16]byte
	Dport      uint16
	DportMask  uint16
	Sport      uint16
	SportMask  uint16
	Family     uint16
	PrefixlenD uint8
	PrefixlenS uint8
	Proto      uint8
	Ifindex    int32
	User       uint32
}

func ParseSelector(b []byte) (Selector, error) {
	if buf, err := nlcodec.NewCheckedBuffer(b, SizeofXfrmSelector); err != nil {
		return Selector{}, errors.Wrap(err, "invalid xfrm_selector")
	} else {
		sel := Selector{
			Dport:      buf.Uint16BE(selDport),
			DportMask:  buf.Uint16BE(selDportMask),
			Sport:      buf.Uint16BE(selSport),
			SportMask:  buf.Uint16BE(selSportMask),
			Family:     buf.Uint16(selFamily),
			PrefixlenD: buf.Uint8(selPrefixlenD),
			PrefixlenS: buf.Uint8(selPrefixlenS),
			Proto:      buf.Uint8(selProto),
			Ifindex:    buf.Int32(selIfindex),
			User:       buf.Uint32(selUser),
		}
		copy(sel.Daddr[:], buf.Bytes(selDaddr))
		copy(sel.Saddr[:], buf.Bytes(selSaddr))
		return sel, nil
	}
}

func (self Selector) BufferLen() int {
	return SizeofXfrmSelector
}

func (self Selector) Emit(b []byte) {
	clear(b[:SizeofXfrmSelector])
	buf := nlcodec.NewBuffer(b)
	buf.SetBytes(selDaddr, self.Daddr[:])
	buf.SetBytes(selSaddr, self.Saddr[:])
	buf.SetUint16BE(selDport, self.Dport)
	buf.SetUint16BE(selDportMask, self.DportMask)
	buf.SetUint16BE(selSport, self.Sport)
	buf.SetUint16BE(selSportMask, self.SportMask)
	buf.SetUint16(selFamily, self.Family)
	buf.SetUint8(selPrefixlenD, self.PrefixlenD)
	buf.SetUint8(selPrefixlenS, self.PrefixlenS)
	buf.SetUint8(selProto, self.Proto)
	buf.SetInt32(selIfindex, self.Ifindex)
	buf.SetUint32(selUser, self.User)
}

func address(family uint16, a [16]byte) net.IP {
	if family == unix.AF_INET {
		return net.IP(a[:4])
	}
	return net.IP(a[:])
}

// Destination returns the destination prefix for the selector family.
func (self Selector) Destination() *net.IPNet {
	ip := address(self.Family, self.Daddr)
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(int(self.PrefixlenD), len(ip)*8)}
}

func (self Selector) Source() *net.IPNet {
	ip := address(self.Family, self.Saddr)
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(int(self.PrefixlenS), len(ip)*8)}
}

func (self Selector) String() string {
	return fmt.Sprintf("src %s dst %s proto %d sport %d dport %d",
		self.Source(), self.Destination(), self.Proto, self.Sport, self.Dport)
}

// SetAddrs fills both addresses and the family from IPs of the same kind.
func (self *Selector) SetAddrs(src, dst *net.IPNet) {
	self.Family = unix.AF_INET6
	if src.IP.To4() != nil {
		self.Family = unix.AF_INET
	}
	fill := func(a *[16]byte, ip net.IP) {
		*a = [16]byte{}
		if v4 := ip.To4(); v4 != nil {
			copy(a[:], v4)
		} else {
			copy(a[:], ip.To16())
		}
	}
	fill(&self.Saddr, src.IP)
	fill(&self.Daddr, dst.IP)
	ones, _ := src.Mask.Size()
	self.PrefixlenS = uint8(ones)
	ones, _ = dst.Mask.Size()
	self.PrefixlenD = uint8(ones)
}

const (
	XFRM_POLICY_IN = iota
	XFRM_POLICY_OUT
	XFRM_POLICY_FWD
	XFRM_POLICY_MASK
)

var (
	upiSel   = nlcodec.Field{Start: 0, End: SizeofXfrmSelector}
	upiIndex = nlcodec.Field{Start: 56, End: 60}
	upiDir   = nlcodec.Field{Start: 60, End: 61}
)

// UserPolicyId is struct xfrm_userpolicy_id, the key of
// XFRM_MSG_GETPOLICY and XFRM_MSG_DELPOLICY.
type UserPolicyId struct {
	Sel   Selector
	Index uint32
	Dir   uint8
}

func ParseUserPolicyId(b []byte) (UserPolicyId, error) {
	if buf, err := nlcodec.NewCheckedBuffer(b, SizeofXfrmUserpolicyId); err != nil {
		return UserPolicyId{}, errors.Wrap(err, "invalid xfrm_userpolicy_id")
	} else if sel, err := ParseSelector(buf.Bytes(upiSel)); err != nil {
		return UserPolicyId{}, err
	} else {
		return UserPolicyId{
			Sel:   sel,
			Index: buf.Uint32(upiIndex),
			Dir:   buf.Uint8(upiDir),
		}, nil
	}
}

func (self UserPolicyId) BufferLen() int {
	return SizeofXfrmUserpolicyId
}

func (self UserPolicyId) Emit(b []byte) {
	clear(b[:SizeofXfrmUserpolicyId])
	self.Sel.Emit(b[:SizeofXfrmSelector])
	buf := nlcodec.NewBuffer(b)
	buf.SetUint32(upiIndex, self.Index)
	buf.SetUint8(upiDir, self.Dir)
}
