package rtlink

import (
	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

// LinkNla is an attribute of an RTM_*LINK message. Kinds this package does
// not model parse as Other.
type LinkNla interface {
	nlcodec.Nla
	linkNla()
}

type Address []byte
type Broadcast []byte
type IfName string
type Mtu uint32
type Link uint32
type Qdisc string
type Cost []byte
type Priority []byte
type Master uint32
type TxQueueLen uint32
type Weight uint32
type NetNsPid uint32
type IfAlias string
type NumVf uint32
type Group uint32
type NetNsFd uint32
type ExtMask uint32
type Promiscuity uint32
type NumTxQueues uint32
type NumRxQueues uint32
type Carrier bool
type PhysPortId []byte
type CarrierChanges uint32
type PhysSwitchId []byte
type LinkNetnsId int32
type PhysPortName string
type ProtoDown bool
type GsoMaxSegs uint32
type GsoMaxSize uint32
type CarrierUpCount uint32
type CarrierDownCount uint32
type NewIfIndex int32
type MinMtu uint32
type MaxMtu uint32

// Other keeps an attribute verbatim, flag bits included.
type Other struct {
	nlcodec.DefaultNla
}

func (Address) Kind() uint16          { return IFLA_ADDRESS }
func (Broadcast) Kind() uint16        { return IFLA_BROADCAST }
func (IfName) Kind() uint16           { return IFLA_IFNAME }
func (Mtu) Kind() uint16              { return IFLA_MTU }
func (Link) Kind() uint16             { return IFLA_LINK }
func (Qdisc) Kind() uint16            { return IFLA_QDISC }
func (Cost) Kind() uint16             { return IFLA_COST }
func (Priority) Kind() uint16         { return IFLA_PRIORITY }
func (Master) Kind() uint16           { return IFLA_MASTER }
func (TxQueueLen) Kind() uint16       { return IFLA_TXQLEN }
func (Weight) Kind() uint16           { return IFLA_WEIGHT }
func (OperState) Kind() uint16        { return IFLA_OPERSTATE }
func (LinkMode) Kind() uint16         { return IFLA_LINKMODE }
func (NetNsPid) Kind() uint16         { return IFLA_NET_NS_PID }
func (IfAlias) Kind() uint16          { return IFLA_IFALIAS }
func (NumVf) Kind() uint16            { return IFLA_NUM_VF }
func (Group) Kind() uint16            { return IFLA_GROUP }
func (NetNsFd) Kind() uint16          { return IFLA_NET_NS_FD }
func (ExtMask) Kind() uint16          { return IFLA_EXT_MASK }
func (Promiscuity) Kind() uint16      { return IFLA_PROMISCUITY }
func (NumTxQueues) Kind() uint16      { return IFLA_NUM_TX_QUEUES }
func (NumRxQueues) Kind() uint16      { return IFLA_NUM_RX_QUEUES }
func (Carrier) Kind() uint16          { return IFLA_CARRIER }
func (PhysPortId) Kind() uint16       { return IFLA_PHYS_PORT_ID }
func (CarrierChanges) Kind() uint16   { return IFLA_CARRIER_CHANGES }
func (PhysSwitchId) Kind() uint16     { return IFLA_PHYS_SWITCH_ID }
func (LinkNetnsId) Kind() uint16      { return IFLA_LINK_NETNSID }
func (PhysPortName) Kind() uint16     { return IFLA_PHYS_PORT_NAME }
func (ProtoDown) Kind() uint16        { return IFLA_PROTO_DOWN }
func (GsoMaxSegs) Kind() uint16       { return IFLA_GSO_MAX_SEGS }
func (GsoMaxSize) Kind() uint16       { return IFLA_GSO_MAX_SIZE }
func (CarrierUpCount) Kind() uint16   { return IFLA_CARRIER_UP_COUNT }
func (CarrierDownCount) Kind() uint16 { return IFLA_CARRIER_DOWN_COUNT }
func (NewIfIndex) Kind() uint16       { return IFLA_NEW_IFINDEX }
func (MinMtu) Kind() uint16           { return IFLA_MIN_MTU }
func (MaxMtu) Kind() uint16           { return IFLA_MAX_MTU }

func (self Address) ValueLen() int      { return len(self) }
func (self Broadcast) ValueLen() int    { return len(self) }
func (self IfName) ValueLen() int       { return nlcodec.StringLen(string(self)) }
func (Mtu) ValueLen() int               { return 4 }
func (Link) ValueLen() int              { return 4 }
func (self Qdisc) ValueLen() int        { return nlcodec.StringLen(string(self)) }
func (self Cost) ValueLen() int         { return len(self) }
func (self Priority) ValueLen() int     { return len(self) }
func (Master) ValueLen() int            { return 4 }
func (TxQueueLen) ValueLen() int        { return 4 }
func (Weight) ValueLen() int            { return 4 }
func (OperState) ValueLen() int         { return 1 }
func (LinkMode) ValueLen() int          { return 1 }
func (NetNsPid) ValueLen() int          { return 4 }
func (self IfAlias) ValueLen() int      { return nlcodec.StringLen(string(self)) }
func (NumVf) ValueLen() int             { return 4 }
func (Group) ValueLen() int             { return 4 }
func (NetNsFd) ValueLen() int           { return 4 }
func (ExtMask) ValueLen() int           { return 4 }
func (Promiscuity) ValueLen() int       { return 4 }
func (NumTxQueues) ValueLen() int       { return 4 }
func (NumRxQueues) ValueLen() int       { return 4 }
func (Carrier) ValueLen() int           { return 1 }
func (self PhysPortId) ValueLen() int   { return len(self) }
func (CarrierChanges) ValueLen() int    { return 4 }
func (self PhysSwitchId) ValueLen() int { return len(self) }
func (LinkNetnsId) ValueLen() int       { return 4 }
func (self PhysPortName) ValueLen() int { return nlcodec.StringLen(string(self)) }
func (ProtoDown) ValueLen() int         { return 1 }
func (GsoMaxSegs) ValueLen() int        { return 4 }
func (GsoMaxSize) ValueLen() int        { return 4 }
func (CarrierUpCount) ValueLen() int    { return 4 }
func (CarrierDownCount) ValueLen() int  { return 4 }
func (NewIfIndex) ValueLen() int        { return 4 }
func (MinMtu) ValueLen() int            { return 4 }
func (MaxMtu) ValueLen() int            { return 4 }

func (self Address) EmitValue(b []byte)          { copy(b, self) }
func (self Broadcast) EmitValue(b []byte)        { copy(b, self) }
func (self IfName) EmitValue(b []byte)           { nlcodec.PutString(b, string(self)) }
func (self Mtu) EmitValue(b []byte)              { nlcodec.PutU32(b, uint32(self)) }
func (self Link) EmitValue(b []byte)             { nlcodec.PutU32(b, uint32(self)) }
func (self Qdisc) EmitValue(b []byte)            { nlcodec.PutString(b, string(self)) }
func (self Cost) EmitValue(b []byte)             { copy(b, self) }
func (self Priority) EmitValue(b []byte)         { copy(b, self) }
func (self Master) EmitValue(b []byte)           { nlcodec.PutU32(b, uint32(self)) }
func (self TxQueueLen) EmitValue(b []byte)       { nlcodec.PutU32(b, uint32(self)) }
func (self Weight) EmitValue(b []byte)           { nlcodec.PutU32(b, uint32(self)) }
func (self OperState) EmitValue(b []byte)        { nlcodec.PutU8(b, uint8(self)) }
func (self LinkMode) EmitValue(b []byte)         { nlcodec.PutU8(b, uint8(self)) }
func (self NetNsPid) EmitValue(b []byte)         { nlcodec.PutU32(b, uint32(self)) }
func (self IfAlias) EmitValue(b []byte)          { nlcodec.PutString(b, string(self)) }
func (self NumVf) EmitValue(b []byte)            { nlcodec.PutU32(b, uint32(self)) }
func (self Group) EmitValue(b []byte)            { nlcodec.PutU32(b, uint32(self)) }
func (self NetNsFd) EmitValue(b []byte)          { nlcodec.PutU32(b, uint32(self)) }
func (self ExtMask) EmitValue(b []byte)          { nlcodec.PutU32(b, uint32(self)) }
func (self Promiscuity) EmitValue(b []byte)      { nlcodec.PutU32(b, uint32(self)) }
func (self NumTxQueues) EmitValue(b []byte)      { nlcodec.PutU32(b, uint32(self)) }
func (self NumRxQueues) EmitValue(b []byte)      { nlcodec.PutU32(b, uint32(self)) }
func (self Carrier) EmitValue(b []byte)          { nlcodec.PutBool(b, bool(self)) }
func (self PhysPortId) EmitValue(b []byte)       { copy(b, self) }
func (self CarrierChanges) EmitValue(b []byte)   { nlcodec.PutU32(b, uint32(self)) }
func (self PhysSwitchId) EmitValue(b []byte)     { copy(b, self) }
func (self LinkNetnsId) EmitValue(b []byte)      { nlcodec.PutI32(b, int32(self)) }
func (self PhysPortName) EmitValue(b []byte)     { nlcodec.PutString(b, string(self)) }
func (self ProtoDown) EmitValue(b []byte)        { nlcodec.PutBool(b, bool(self)) }
func (self GsoMaxSegs) EmitValue(b []byte)       { nlcodec.PutU32(b, uint32(self)) }
func (self GsoMaxSize) EmitValue(b []byte)       { nlcodec.PutU32(b, uint32(self)) }
func (self CarrierUpCount) EmitValue(b []byte)   { nlcodec.PutU32(b, uint32(self)) }
func (self CarrierDownCount) EmitValue(b []byte) { nlcodec.PutU32(b, uint32(self)) }
func (self NewIfIndex) EmitValue(b []byte)       { nlcodec.PutI32(b, int32(self)) }
func (self MinMtu) EmitValue(b []byte)           { nlcodec.PutU32(b, uint32(self)) }
func (self MaxMtu) EmitValue(b []byte)           { nlcodec.PutU32(b, uint32(self)) }

func (Address) linkNla()          {}
func (Broadcast) linkNla()        {}
func (IfName) linkNla()           {}
func (Mtu) linkNla()              {}
func (Link) linkNla()             {}
func (Qdisc) linkNla()            {}
func (Stats) linkNla()            {}
func (Cost) linkNla()             {}
func (Priority) linkNla()         {}
func (Master) linkNla()           {}
func (TxQueueLen) linkNla()       {}
func (Map) linkNla()              {}
func (Weight) linkNla()           {}
func (OperState) linkNla()        {}
func (LinkMode) linkNla()         {}
func (LinkInfo) linkNla()         {}
func (NetNsPid) linkNla()         {}
func (IfAlias) linkNla()          {}
func (NumVf) linkNla()            {}
func (Stats64) linkNla()          {}
func (AfSpec) linkNla()           {}
func (Group) linkNla()            {}
func (NetNsFd) linkNla()          {}
func (ExtMask) linkNla()          {}
func (Promiscuity) linkNla()      {}
func (NumTxQueues) linkNla()      {}
func (NumRxQueues) linkNla()      {}
func (Carrier) linkNla()          {}
func (PhysPortId) linkNla()       {}
func (CarrierChanges) linkNla()   {}
func (PhysSwitchId) linkNla()     {}
func (LinkNetnsId) linkNla()      {}
func (PhysPortName) linkNla()     {}
func (ProtoDown) linkNla()        {}
func (GsoMaxSegs) linkNla()       {}
func (GsoMaxSize) linkNla()       {}
func (CarrierUpCount) linkNla()   {}
func (CarrierDownCount) linkNla() {}
func (NewIfIndex) linkNla()       {}
func (MinMtu) linkNla()           {}
func (MaxMtu) linkNla()           {}
func (Other) linkNla()            {}

func valueError(err error, name string) error {
	return errors.Wrapf(err, "invalid %s value", name)
}

func u32[T interface {
	~uint32
	LinkNla
}](nla nlcodec.NlaBuffer, name string) (LinkNla, error) {
	if v, err := nlcodec.ParseU32(nla.Value()); err != nil {
		return nil, valueError(err, name)
	} else {
		return T(v), nil
	}
}

func i32[T interface {
	~int32
	LinkNla
}](nla nlcodec.NlaBuffer, name string) (LinkNla, error) {
	if v, err := nlcodec.ParseI32(nla.Value()); err != nil {
		return nil, valueError(err, name)
	} else {
		return T(v), nil
	}
}

func str[T interface {
	~string
	LinkNla
}](nla nlcodec.NlaBuffer, name string) (LinkNla, error) {
	if v, err := nlcodec.ParseString(nla.Value()); err != nil {
		return nil, valueError(err, name)
	} else {
		return T(v), nil
	}
}

func flag[T interface {
	~bool
	LinkNla
}](nla nlcodec.NlaBuffer, name string) (LinkNla, error) {
	if v, err := nlcodec.ParseBool(nla.Value()); err != nil {
		return nil, valueError(err, name)
	} else {
		return T(v), nil
	}
}

// ParseLinkNla decodes one IFLA_* attribute.
func ParseLinkNla(nla nlcodec.NlaBuffer) (LinkNla, error) {
	switch nla.Kind() {
	case IFLA_ADDRESS:
		return Address(nlcodec.ParseBytes(nla.Value())), nil
	case IFLA_BROADCAST:
		return Broadcast(nlcodec.ParseBytes(nla.Value())), nil
	case IFLA_IFNAME:
		return str[IfName](nla, "IFLA_IFNAME")
	case IFLA_MTU:
		return u32[Mtu](nla, "IFLA_MTU")
	case IFLA_LINK:
		return u32[Link](nla, "IFLA_LINK")
	case IFLA_QDISC:
		return str[Qdisc](nla, "IFLA_QDISC")
	case IFLA_STATS:
		if v, err := parseStats(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_STATS")
		} else {
			return v, nil
		}
	case IFLA_COST:
		return Cost(nlcodec.ParseBytes(nla.Value())), nil
	case IFLA_PRIORITY:
		return Priority(nlcodec.ParseBytes(nla.Value())), nil
	case IFLA_MASTER:
		return u32[Master](nla, "IFLA_MASTER")
	case IFLA_TXQLEN:
		return u32[TxQueueLen](nla, "IFLA_TXQLEN")
	case IFLA_MAP:
		if v, err := parseMap(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_MAP")
		} else {
			return v, nil
		}
	case IFLA_WEIGHT:
		return u32[Weight](nla, "IFLA_WEIGHT")
	case IFLA_OPERSTATE:
		if v, err := nlcodec.ParseU8(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_OPERSTATE")
		} else {
			return OperState(v), nil
		}
	case IFLA_LINKMODE:
		if v, err := nlcodec.ParseU8(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_LINKMODE")
		} else {
			return LinkMode(v), nil
		}
	case IFLA_LINKINFO:
		return parseLinkInfo(nla)
	case IFLA_NET_NS_PID:
		return u32[NetNsPid](nla, "IFLA_NET_NS_PID")
	case IFLA_IFALIAS:
		return str[IfAlias](nla, "IFLA_IFALIAS")
	case IFLA_NUM_VF:
		return u32[NumVf](nla, "IFLA_NUM_VF")
	case IFLA_STATS64:
		if v, err := parseStats64(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_STATS64")
		} else {
			return v, nil
		}
	case IFLA_AF_SPEC:
		return parseAfSpec(nla)
	case IFLA_GROUP:
		return u32[Group](nla, "IFLA_GROUP")
	case IFLA_NET_NS_FD:
		return u32[NetNsFd](nla, "IFLA_NET_NS_FD")
	case IFLA_EXT_MASK:
		return u32[ExtMask](nla, "IFLA_EXT_MASK")
	case IFLA_PROMISCUITY:
		return u32[Promiscuity](nla, "IFLA_PROMISCUITY")
	case IFLA_NUM_TX_QUEUES:
		return u32[NumTxQueues](nla, "IFLA_NUM_TX_QUEUES")
	case IFLA_NUM_RX_QUEUES:
		return u32[NumRxQueues](nla, "IFLA_NUM_RX_QUEUES")
	case IFLA_CARRIER:
		return flag[Carrier](nla, "IFLA_CARRIER")
	case IFLA_PHYS_PORT_ID:
		return PhysPortId(nlcodec.ParseBytes(nla.Value())), nil
	case IFLA_CARRIER_CHANGES:
		return u32[CarrierChanges](nla, "IFLA_CARRIER_CHANGES")
	case IFLA_PHYS_SWITCH_ID:
		return PhysSwitchId(nlcodec.ParseBytes(nla.Value())), nil
	case IFLA_LINK_NETNSID:
		return i32[LinkNetnsId](nla, "IFLA_LINK_NETNSID")
	case IFLA_PHYS_PORT_NAME:
		return str[PhysPortName](nla, "IFLA_PHYS_PORT_NAME")
	case IFLA_PROTO_DOWN:
		return flag[ProtoDown](nla, "IFLA_PROTO_DOWN")
	case IFLA_GSO_MAX_SEGS:
		return u32[GsoMaxSegs](nla, "IFLA_GSO_MAX_SEGS")
	case IFLA_GSO_MAX_SIZE:
		return u32[GsoMaxSize](nla, "IFLA_GSO_MAX_SIZE")
	case IFLA_CARRIER_UP_COUNT:
		return u32[CarrierUpCount](nla, "IFLA_CARRIER_UP_COUNT")
	case IFLA_CARRIER_DOWN_COUNT:
		return u32[CarrierDownCount](nla, "IFLA_CARRIER_DOWN_COUNT")
	case IFLA_NEW_IFINDEX:
		return i32[NewIfIndex](nla, "IFLA_NEW_IFINDEX")
	case IFLA_MIN_MTU:
		return u32[MinMtu](nla, "IFLA_MIN_MTU")
	case IFLA_MAX_MTU:
		return u32[MaxMtu](nla, "IFLA_MAX_MTU")
	default:
		return Other{nlcodec.ParseDefaultNla(nla)}, nil
	}
}
