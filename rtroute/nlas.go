package rtroute

import (
	"net"

	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

// RouteNla is an RTA_* attribute. It also types the attributes nested in
// each multipath next hop.
type RouteNla interface {
	nlcodec.Nla
	routeNla()
}

// Addresses are 4 or 16 bytes depending on rtm_family.
type Destination []byte
type Source []byte
type Gateway []byte
type PrefSource []byte
type NewDestination []byte

type Iif uint32
type Oif uint32
type Priority uint32
type Flow uint32
type Table uint32
type Mark uint32
type Uid uint32
type NhId uint32

// Pref is the RFC 4191 router preference.
type Pref uint8

type EncapType uint16
type Encap []byte
type Expires uint64
type TtlPropagate uint8
type IpProto uint8

// Sport and Dport are big endian on the wire.
type Sport uint16
type Dport uint16

// Via is struct rtvia: an address family followed by the address.
type Via []byte

// CacheInfo is struct rta_cacheinfo.
type CacheInfo struct {
	ClntRef uint32
	LastUse uint32
	Expires int32
	Error   uint32
	Used    uint32
	Id      uint32
	Ts      uint32
	TsAge   uint32
}

// Metrics is RTA_METRICS.
type Metrics []MetricNla

// MultiPath is RTA_MULTIPATH.
type MultiPath []NextHop

type Other struct {
	nlcodec.DefaultNla
}

func (Destination) Kind() uint16    { return RTA_DST }
func (Source) Kind() uint16         { return RTA_SRC }
func (Gateway) Kind() uint16        { return RTA_GATEWAY }
func (PrefSource) Kind() uint16     { return RTA_PREFSRC }
func (NewDestination) Kind() uint16 { return RTA_NEWDST }
func (Iif) Kind() uint16            { return RTA_IIF }
func (Oif) Kind() uint16            { return RTA_OIF }
func (Priority) Kind() uint16       { return RTA_PRIORITY }
func (Flow) Kind() uint16           { return RTA_FLOW }
func (Table) Kind() uint16          { return RTA_TABLE }
func (Mark) Kind() uint16           { return RTA_MARK }
func (Uid) Kind() uint16            { return RTA_UID }
func (NhId) Kind() uint16           { return RTA_NH_ID }
func (Pref) Kind() uint16           { return RTA_PREF }
func (EncapType) Kind() uint16      { return RTA_ENCAP_TYPE }
func (Encap) Kind() uint16          { return RTA_ENCAP | nlcodec.NLA_F_NESTED }
func (Expires) Kind() uint16        { return RTA_EXPIRES }
func (TtlPropagate) Kind() uint16   { return RTA_TTL_PROPAGATE }
func (IpProto) Kind() uint16        { return RTA_IP_PROTO }
func (Sport) Kind() uint16          { return RTA_SPORT }
func (Dport) Kind() uint16          { return RTA_DPORT }
func (Via) Kind() uint16            { return RTA_VIA }
func (CacheInfo) Kind() uint16      { return RTA_CACHEINFO }
func (Metrics) Kind() uint16        { return RTA_METRICS | nlcodec.NLA_F_NESTED }
func (MultiPath) Kind() uint16      { return RTA_MULTIPATH }

func (self Destination) ValueLen() int    { return len(self) }
func (self Source) ValueLen() int         { return len(self) }
func (self Gateway) ValueLen() int        { return len(self) }
func (self PrefSource) ValueLen() int     { return len(self) }
func (self NewDestination) ValueLen() int { return len(self) }
func (Iif) ValueLen() int                 { return 4 }
func (Oif) ValueLen() int                 { return 4 }
func (Priority) ValueLen() int            { return 4 }
func (Flow) ValueLen() int                { return 4 }
func (Table) ValueLen() int               { return 4 }
func (Mark) ValueLen() int                { return 4 }
func (Uid) ValueLen() int                 { return 4 }
func (NhId) ValueLen() int                { return 4 }
func (Pref) ValueLen() int                { return 1 }
func (EncapType) ValueLen() int           { return 2 }
func (self Encap) ValueLen() int          { return len(self) }
func (Expires) ValueLen() int             { return 8 }
func (TtlPropagate) ValueLen() int        { return 1 }
func (IpProto) ValueLen() int             { return 1 }
func (Sport) ValueLen() int               { return 2 }
func (Dport) ValueLen() int               { return 2 }
func (self Via) ValueLen() int            { return len(self) }
func (CacheInfo) ValueLen() int           { return 32 }
func (self Metrics) ValueLen() int        { return nlcodec.NlasBufferLen([]MetricNla(self)) }

func (self Destination) EmitValue(b []byte)    { copy(b, self) }
func (self Source) EmitValue(b []byte)         { copy(b, self) }
func (self Gateway) EmitValue(b []byte)        { copy(b, self) }
func (self PrefSource) EmitValue(b []byte)     { copy(b, self) }
func (self NewDestination) EmitValue(b []byte) { copy(b, self) }
func (self Iif) EmitValue(b []byte)            { nlcodec.PutU32(b, uint32(self)) }
func (self Oif) EmitValue(b []byte)            { nlcodec.PutU32(b, uint32(self)) }
func (self Priority) EmitValue(b []byte)       { nlcodec.PutU32(b, uint32(self)) }
func (self Flow) EmitValue(b []byte)           { nlcodec.PutU32(b, uint32(self)) }
func (self Table) EmitValue(b []byte)          { nlcodec.PutU32(b, uint32(self)) }
func (self Mark) EmitValue(b []byte)           { nlcodec.PutU32(b, uint32(self)) }
func (self Uid) EmitValue(b []byte)            { nlcodec.PutU32(b, uint32(self)) }
func (self NhId) EmitValue(b []byte)           { nlcodec.PutU32(b, uint32(self)) }
func (self Pref) EmitValue(b []byte)           { nlcodec.PutU8(b, uint8(self)) }
func (self EncapType) EmitValue(b []byte)      { nlcodec.PutU16(b, uint16(self)) }
func (self Encap) EmitValue(b []byte)          { copy(b, self) }
func (self Expires) EmitValue(b []byte)        { nlcodec.PutU64(b, uint64(self)) }
func (self TtlPropagate) EmitValue(b []byte)   { nlcodec.PutU8(b, uint8(self)) }
func (self IpProto) EmitValue(b []byte)        { nlcodec.PutU8(b, uint8(self)) }
func (self Sport) EmitValue(b []byte)          { nlcodec.PutU16BE(b, uint16(self)) }
func (self Dport) EmitValue(b []byte)          { nlcodec.PutU16BE(b, uint16(self)) }
func (self Via) EmitValue(b []byte)            { copy(b, self) }
func (self Metrics) EmitValue(b []byte)        { nlcodec.EmitNlas([]MetricNla(self), b) }

func (self CacheInfo) EmitValue(b []byte) {
	nlcodec.PutU32Array(b, []uint32{
		self.ClntRef, self.LastUse, uint32(self.Expires), self.Error,
		self.Used, self.Id, self.Ts, self.TsAge,
	})
}

func (Destination) routeNla()    {}
func (Source) routeNla()         {}
func (Gateway) routeNla()        {}
func (PrefSource) routeNla()     {}
func (NewDestination) routeNla() {}
func (Iif) routeNla()            {}
func (Oif) routeNla()            {}
func (Priority) routeNla()       {}
func (Flow) routeNla()           {}
func (Table) routeNla()          {}
func (Mark) routeNla()           {}
func (Uid) routeNla()            {}
func (NhId) routeNla()           {}
func (Pref) routeNla()           {}
func (EncapType) routeNla()      {}
func (Encap) routeNla()          {}
func (Expires) routeNla()        {}
func (TtlPropagate) routeNla()   {}
func (IpProto) routeNla()        {}
func (Sport) routeNla()          {}
func (Dport) routeNla()          {}
func (Via) routeNla()            {}
func (CacheInfo) routeNla()      {}
func (Metrics) routeNla()        {}
func (MultiPath) routeNla()      {}
func (Other) routeNla()          {}

func (self Destination) String() string { return net.IP(self).String() }
func (self Gateway) String() string     { return net.IP(self).String() }

func valueError(err error, name string) error {
	return errors.Wrapf(err, "invalid %s value", name)
}

func u32[T interface {
	~uint32
	RouteNla
}](nla nlcodec.NlaBuffer, name string) (RouteNla, error) {
	if v, err := nlcodec.ParseU32(nla.Value()); err != nil {
		return nil, valueError(err, name)
	} else {
		return T(v), nil
	}
}

func u8[T interface {
	~uint8
	RouteNla
}](nla nlcodec.NlaBuffer, name string) (RouteNla, error) {
	if v, err := nlcodec.ParseU8(nla.Value()); err != nil {
		return nil, valueError(err, name)
	} else {
		return T(v), nil
	}
}

func be16[T interface {
	~uint16
	RouteNla
}](nla nlcodec.NlaBuffer, name string) (RouteNla, error) {
	if v, err := nlcodec.ParseU16BE(nla.Value()); err != nil {
		return nil, valueError(err, name)
	} else {
		return T(v), nil
	}
}

func ParseRouteNla(nla nlcodec.NlaBuffer) (RouteNla, error) {
	switch nla.Kind() {
	case RTA_DST:
		return Destination(nlcodec.ParseBytes(nla.Value())), nil
	case RTA_SRC:
		return Source(nlcodec.ParseBytes(nla.Value())), nil
	case RTA_GATEWAY:
		return Gateway(nlcodec.ParseBytes(nla.Value())), nil
	case RTA_PREFSRC:
		return PrefSource(nlcodec.ParseBytes(nla.Value())), nil
	case RTA_NEWDST:
		return NewDestination(nlcodec.ParseBytes(nla.Value())), nil
	case RTA_IIF:
		return u32[Iif](nla, "RTA_IIF")
	case RTA_OIF:
		return u32[Oif](nla, "RTA_OIF")
	case RTA_PRIORITY:
		return u32[Priority](nla, "RTA_PRIORITY")
	case RTA_FLOW:
		return u32[Flow](nla, "RTA_FLOW")
	case RTA_TABLE:
		return u32[Table](nla, "RTA_TABLE")
	case RTA_MARK:
		return u32[Mark](nla, "RTA_MARK")
	case RTA_UID:
		return u32[Uid](nla, "RTA_UID")
	case RTA_NH_ID:
		return u32[NhId](nla, "RTA_NH_ID")
	case RTA_PREF:
		return u8[Pref](nla, "RTA_PREF")
	case RTA_ENCAP_TYPE:
		if v, err := nlcodec.ParseU16(nla.Value()); err != nil {
			return nil, valueError(err, "RTA_ENCAP_TYPE")
		} else {
			return EncapType(v), nil
		}
	case RTA_ENCAP:
		return Encap(nlcodec.ParseBytes(nla.Value())), nil
	case RTA_EXPIRES:
		if v, err := nlcodec.ParseU64(nla.Value()); err != nil {
			return nil, valueError(err, "RTA_EXPIRES")
		} else {
			return Expires(v), nil
		}
	case RTA_TTL_PROPAGATE:
		return u8[TtlPropagate](nla, "RTA_TTL_PROPAGATE")
	case RTA_IP_PROTO:
		return u8[IpProto](nla, "RTA_IP_PROTO")
	case RTA_SPORT:
		return be16[Sport](nla, "RTA_SPORT")
	case RTA_DPORT:
		return be16[Dport](nla, "RTA_DPORT")
	case RTA_VIA:
		return Via(nlcodec.ParseBytes(nla.Value())), nil
	case RTA_CACHEINFO:
		if v, err := nlcodec.ParseU32Array(nla.Value()); err != nil {
			return nil, valueError(err, "RTA_CACHEINFO")
		} else if len(v) != 8 {
			return nil, valueError(nlcodec.Errorf(nlcodec.NLE_RANGE, "expected 32 bytes, got %d", len(nla.Value())), "RTA_CACHEINFO")
		} else {
			return CacheInfo{
				ClntRef: v[0],
				LastUse: v[1],
				Expires: int32(v[2]),
				Error:   v[3],
				Used:    v[4],
				Id:      v[5],
				Ts:      v[6],
				TsAge:   v[7],
			}, nil
		}
	case RTA_METRICS:
		if v, err := nlcodec.ParseNested(nla, "RTA_METRICS", ParseMetricNla); err != nil {
			return nil, err
		} else {
			return Metrics(v), nil
		}
	case RTA_MULTIPATH:
		if v, err := parseMultiPath(nla.Value()); err != nil {
			return nil, valueError(err, "RTA_MULTIPATH")
		} else {
			return v, nil
		}
	default:
		return Other{nlcodec.ParseDefaultNla(nla)}, nil
	}
}
