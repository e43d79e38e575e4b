package rtlink

import (
	"github.com/hkwi/nlcodec"
	"golang.org/x/sys/unix"
)

const (
	AF_INET  = unix.AF_INET
	AF_INET6 = unix.AF_INET6
)

// AfSpecNla is one address family entry of IFLA_AF_SPEC; the attribute type
// is the AF_* number.
type AfSpecNla interface {
	nlcodec.Nla
	afSpecNla()
}

// AfSpec is IFLA_AF_SPEC.
type AfSpec []AfSpecNla

type AfInet []InetNla
type AfInet6 []Inet6Nla

type AfOther struct {
	nlcodec.DefaultNla
}

func (AfSpec) Kind() uint16  { return IFLA_AF_SPEC | nlcodec.NLA_F_NESTED }
func (AfInet) Kind() uint16  { return AF_INET | nlcodec.NLA_F_NESTED }
func (AfInet6) Kind() uint16 { return AF_INET6 | nlcodec.NLA_F_NESTED }

func (self AfSpec) ValueLen() int  { return nlcodec.NlasBufferLen([]AfSpecNla(self)) }
func (self AfInet) ValueLen() int  { return nlcodec.NlasBufferLen([]InetNla(self)) }
func (self AfInet6) ValueLen() int { return nlcodec.NlasBufferLen([]Inet6Nla(self)) }

func (self AfSpec) EmitValue(b []byte)  { nlcodec.EmitNlas([]AfSpecNla(self), b) }
func (self AfInet) EmitValue(b []byte)  { nlcodec.EmitNlas([]InetNla(self), b) }
func (self AfInet6) EmitValue(b []byte) { nlcodec.EmitNlas([]Inet6Nla(self), b) }

func (AfInet) afSpecNla()  {}
func (AfInet6) afSpecNla() {}
func (AfOther) afSpecNla() {}

func parseAfSpec(nla nlcodec.NlaBuffer) (LinkNla, error) {
	if nlas, err := nlcodec.ParseNested(nla, "IFLA_AF_SPEC", parseAfSpecNla); err != nil {
		return nil, err
	} else {
		return AfSpec(nlas), nil
	}
}

func parseAfSpecNla(nla nlcodec.NlaBuffer) (AfSpecNla, error) {
	switch nla.Kind() {
	case AF_INET:
		if nlas, err := nlcodec.ParseNested(nla, "AF_INET", parseInetNla); err != nil {
			return nil, err
		} else {
			return AfInet(nlas), nil
		}
	case AF_INET6:
		if nlas, err := nlcodec.ParseNested(nla, "AF_INET6", parseInet6Nla); err != nil {
			return nil, err
		} else {
			return AfInet6(nlas), nil
		}
	default:
		return AfOther{nlcodec.ParseDefaultNla(nla)}, nil
	}
}

// InetNla is an attribute of the AF_INET entry.
type InetNla interface {
	nlcodec.Nla
	inetNla()
}

// InetConf is the ipv4_devconf array, indexed by IPV4_DEVCONF_* minus one.
type InetConf []uint32

type InetOther struct {
	nlcodec.DefaultNla
}

func (InetConf) Kind() uint16            { return IFLA_INET_CONF }
func (self InetConf) ValueLen() int      { return len(self) * 4 }
func (self InetConf) EmitValue(b []byte) { nlcodec.PutU32Array(b, self) }

func (InetConf) inetNla()  {}
func (InetOther) inetNla() {}

func parseInetNla(nla nlcodec.NlaBuffer) (InetNla, error) {
	switch nla.Kind() {
	case IFLA_INET_CONF:
		if v, err := nlcodec.ParseU32Array(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_INET_CONF")
		} else {
			return InetConf(v), nil
		}
	default:
		return InetOther{nlcodec.ParseDefaultNla(nla)}, nil
	}
}

// Inet6Nla is an attribute of the AF_INET6 entry.
type Inet6Nla interface {
	nlcodec.Nla
	inet6Nla()
}

type Inet6Flags uint32

// Inet6Conf is the ipv6_devconf array, indexed by DEVCONF_*.
type Inet6Conf []uint32

type Inet6Stats []uint64
type Inet6Icmp6Stats []uint64
type Inet6Token [16]byte
type Inet6AddrGenMode uint8

// Inet6CacheInfo is struct ifla_cacheinfo. Times are in milliseconds except
// Tstamp, which is in hundredths of a second since boot.
type Inet6CacheInfo struct {
	MaxReasmLen   uint32
	Tstamp        uint32
	ReachableTime uint32
	RetransTime   uint32
}

type Inet6Other struct {
	nlcodec.DefaultNla
}

func (Inet6Flags) Kind() uint16       { return IFLA_INET6_FLAGS }
func (Inet6Conf) Kind() uint16        { return IFLA_INET6_CONF }
func (Inet6Stats) Kind() uint16       { return IFLA_INET6_STATS }
func (Inet6CacheInfo) Kind() uint16   { return IFLA_INET6_CACHEINFO }
func (Inet6Icmp6Stats) Kind() uint16  { return IFLA_INET6_ICMP6STATS }
func (Inet6Token) Kind() uint16       { return IFLA_INET6_TOKEN }
func (Inet6AddrGenMode) Kind() uint16 { return IFLA_INET6_ADDR_GEN_MODE }

func (Inet6Flags) ValueLen() int           { return 4 }
func (self Inet6Conf) ValueLen() int       { return len(self) * 4 }
func (self Inet6Stats) ValueLen() int      { return len(self) * 8 }
func (Inet6CacheInfo) ValueLen() int       { return 16 }
func (self Inet6Icmp6Stats) ValueLen() int { return len(self) * 8 }
func (Inet6Token) ValueLen() int           { return 16 }
func (Inet6AddrGenMode) ValueLen() int     { return 1 }

func (self Inet6Flags) EmitValue(b []byte)       { nlcodec.PutU32(b, uint32(self)) }
func (self Inet6Conf) EmitValue(b []byte)        { nlcodec.PutU32Array(b, self) }
func (self Inet6Stats) EmitValue(b []byte)       { nlcodec.PutU64Array(b, self) }
func (self Inet6Icmp6Stats) EmitValue(b []byte)  { nlcodec.PutU64Array(b, self) }
func (self Inet6Token) EmitValue(b []byte)       { copy(b, self[:]) }
func (self Inet6AddrGenMode) EmitValue(b []byte) { nlcodec.PutU8(b, uint8(self)) }

func (self Inet6CacheInfo) EmitValue(b []byte) {
	nlcodec.PutU32Array(b, []uint32{self.MaxReasmLen, self.Tstamp, self.ReachableTime, self.RetransTime})
}

func (Inet6Flags) inet6Nla()       {}
func (Inet6Conf) inet6Nla()        {}
func (Inet6Stats) inet6Nla()       {}
func (Inet6CacheInfo) inet6Nla()   {}
func (Inet6Icmp6Stats) inet6Nla()  {}
func (Inet6Token) inet6Nla()       {}
func (Inet6AddrGenMode) inet6Nla() {}
func (Inet6Other) inet6Nla()       {}

func parseInet6Nla(nla nlcodec.NlaBuffer) (Inet6Nla, error) {
	switch nla.Kind() {
	case IFLA_INET6_FLAGS:
		if v, err := nlcodec.ParseU32(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_INET6_FLAGS")
		} else {
			return Inet6Flags(v), nil
		}
	case IFLA_INET6_CONF:
		if v, err := nlcodec.ParseU32Array(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_INET6_CONF")
		} else {
			return Inet6Conf(v), nil
		}
	case IFLA_INET6_STATS:
		if v, err := nlcodec.ParseU64Array(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_INET6_STATS")
		} else {
			return Inet6Stats(v), nil
		}
	case IFLA_INET6_CACHEINFO:
		if v, err := nlcodec.ParseU32Array(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_INET6_CACHEINFO")
		} else if len(v) != 4 {
			return nil, valueError(nlcodec.Errorf(nlcodec.NLE_RANGE, "expected 16 bytes, got %d", len(nla.Value())), "IFLA_INET6_CACHEINFO")
		} else {
			return Inet6CacheInfo{
				MaxReasmLen:   v[0],
				Tstamp:        v[1],
				ReachableTime: v[2],
				RetransTime:   v[3],
			}, nil
		}
	case IFLA_INET6_ICMP6STATS:
		if v, err := nlcodec.ParseU64Array(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_INET6_ICMP6STATS")
		} else {
			return Inet6Icmp6Stats(v), nil
		}
	case IFLA_INET6_TOKEN:
		if v, err := nlcodec.ParseIn6Addr(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_INET6_TOKEN")
		} else {
			return Inet6Token(v), nil
		}
	case IFLA_INET6_ADDR_GEN_MODE:
		if v, err := nlcodec.ParseU8(nla.Value()); err != nil {
			return nil, valueError(err, "IFLA_INET6_ADDR_GEN_MODE")
		} else {
			return Inet6AddrGenMode(v), nil
		}
	default:
		return Inet6Other{nlcodec.ParseDefaultNla(nla)}, nil
	}
}
