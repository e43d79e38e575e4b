package rtlink

import (
	"github.com/hkwi/nlcodec"
)

const (
	VLAN_FLAG_REORDER_HDR = 1 << iota
	VLAN_FLAG_GVRP
	VLAN_FLAG_LOOSE_BINDING
	VLAN_FLAG_MVRP
	VLAN_FLAG_BRIDGE_BINDING
)

const (
	ETH_P_8021Q  = 0x8100
	ETH_P_8021AD = 0x88A8
)

// VlanNla is an attribute of IFLA_INFO_DATA for kind "vlan".
type VlanNla interface {
	nlcodec.Nla
	vlanNla()
}

type VlanId uint16

// VlanFlags is struct ifla_vlan_flags: Mask selects the bits of Flags to
// apply.
type VlanFlags struct {
	Flags uint32
	Mask  uint32
}

// VlanProtocol is the tag protocol, ETH_P_8021Q or ETH_P_8021AD. It is
// big endian on the wire.
type VlanProtocol uint16

type VlanOther struct {
	nlcodec.DefaultNla
}

func (VlanId) Kind() uint16       { return IFLA_VLAN_ID }
func (VlanFlags) Kind() uint16    { return IFLA_VLAN_FLAGS }
func (VlanProtocol) Kind() uint16 { return IFLA_VLAN_PROTOCOL }

func (VlanId) ValueLen() int       { return 2 }
func (VlanFlags) ValueLen() int    { return 8 }
func (VlanProtocol) ValueLen() int { return 2 }

func (self VlanId) EmitValue(b []byte) {
	nlcodec.PutU16(b, uint16(self))
}

func (self VlanFlags) EmitValue(b []byte) {
	nlcodec.PutU32(b[:4], self.Flags)
	nlcodec.PutU32(b[4:8], self.Mask)
}

func (self VlanProtocol) EmitValue(b []byte) {
	nlcodec.PutU16BE(b, uint16(self))
}

func (VlanId) vlanNla()       {}
func (VlanFlags) vlanNla()    {}
func (VlanProtocol) vlanNla() {}
func (VlanOther) vlanNla()    {}

func ParseVlanNla(nla nlcodec.NlaBuffer) (VlanNla, error) {
	switch nla.Kind() {
	case IFLA_VLAN_ID:
		if v, err := nlcodec.ParseU16(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_VLAN_ID")
		} else {
			return VlanId(v), nil
		}
	case IFLA_VLAN_FLAGS:
		if v, err := nlcodec.ParseU32Array(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_VLAN_FLAGS")
		} else if len(v) != 2 {
			return nil, valueError(nlcodec.Errorf(nlcodec.NLE_RANGE, "expected 8 bytes, got %d", len(nla.Value())), "IFLA_VLAN_FLAGS")
		} else {
			return VlanFlags{Flags: v[0], Mask: v[1]}, nil
		}
	case IFLA_VLAN_PROTOCOL:
		if v, err := nlcodec.ParseU16BE(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_VLAN_PROTOCOL")
		} else {
			return VlanProtocol(v), nil
		}
	default:
		return VlanOther{nlcodec.ParseDefaultNla(nla)}, nil
	}
}
