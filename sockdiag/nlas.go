package sockdiag

import (
	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

const (
	INET_DIAG_NONE = iota
	INET_DIAG_MEMINFO
	INET_DIAG_INFO
	INET_DIAG_VEGASINFO
	INET_DIAG_CONG
	INET_DIAG_TOS
	INET_DIAG_TCLASS
	INET_DIAG_SKMEMINFO
	INET_DIAG_SHUTDOWN
	INET_DIAG_DCTCPINFO
	INET_DIAG_PROTOCOL
	INET_DIAG_SKV6ONLY
	INET_DIAG_LOCALS
	INET_DIAG_PEERS
	INET_DIAG_PAD
	INET_DIAG_MARK
	INET_DIAG_BBRINFO
	INET_DIAG_CLASS_ID
	INET_DIAG_MD5SIG
	INET_DIAG_ULP_INFO
	INET_DIAG_SK_BPF_STORAGES
	INET_DIAG_CGROUP_ID
	INET_DIAG_SOCKOPT
)

// ExtMask builds an InetRequest.Ext value asking for the given
// attributes. Only the kinds below INET_DIAG_DCTCPINFO fit the u8 mask;
// the others are sent unasked or not at all.
func ExtMask(kinds ...uint16) uint8 {
	var mask uint8
	for _, k := range kinds {
		if k > INET_DIAG_NONE && k < INET_DIAG_DCTCPINFO {
			mask |= 1 << (k - 1)
		}
	}
	return mask
}

const SizeofInetDiagMeminfo = 16

// sk_meminfo indexes of SkMemInfo.
const (
	SK_MEMINFO_RMEM_ALLOC = iota
	SK_MEMINFO_RCVBUF
	SK_MEMINFO_WMEM_ALLOC
	SK_MEMINFO_SNDBUF
	SK_MEMINFO_FWD_ALLOC
	SK_MEMINFO_WMEM_QUEUED
	SK_MEMINFO_OPTMEM
	SK_MEMINFO_BACKLOG
	SK_MEMINFO_DROPS
	SK_MEMINFO_VARS
)

// InetDiagNla is an INET_DIAG_* attribute of a response.
type InetDiagNla interface {
	nlcodec.Nla
	inetDiagNla()
}

// MemInfo is struct inet_diag_meminfo.
type MemInfo struct {
	Rmem uint32
	Wmem uint32
	Fmem uint32
	Tmem uint32
}

// Info is struct tcp_info for TCP sockets, kept as bytes: its size grows
// with the kernel.
type Info []byte

// Congestion is the name of the congestion control algorithm.
type Congestion string

// SkMemInfo holds the SK_MEMINFO_* counters. Newer kernels may send more
// than SK_MEMINFO_VARS of them.
type SkMemInfo []uint32

type Tos uint8
type Tclass uint8
type Shutdown uint8
type Protocol uint8
type SkV6Only uint8
type Mark uint32
type ClassId uint32
type CgroupId uint64

type Other struct {
	nlcodec.DefaultNla
}

func (MemInfo) Kind() uint16    { return INET_DIAG_MEMINFO }
func (Info) Kind() uint16       { return INET_DIAG_INFO }
func (Congestion) Kind() uint16 { return INET_DIAG_CONG }
func (SkMemInfo) Kind() uint16  { return INET_DIAG_SKMEMINFO }
func (Tos) Kind() uint16        { return INET_DIAG_TOS }
func (Tclass) Kind() uint16     { return INET_DIAG_TCLASS }
func (Shutdown) Kind() uint16   { return INET_DIAG_SHUTDOWN }
func (Protocol) Kind() uint16   { return INET_DIAG_PROTOCOL }
func (SkV6Only) Kind() uint16   { return INET_DIAG_SKV6ONLY }
func (Mark) Kind() uint16       { return INET_DIAG_MARK }
func (ClassId) Kind() uint16    { return INET_DIAG_CLASS_ID }
func (CgroupId) Kind() uint16   { return INET_DIAG_CGROUP_ID }

func (MemInfo) ValueLen() int         { return SizeofInetDiagMeminfo }
func (self Info) ValueLen() int       { return len(self) }
func (self Congestion) ValueLen() int { return nlcodec.StringLen(string(self)) }
func (self SkMemInfo) ValueLen() int  { return len(self) * 4 }
func (Tos) ValueLen() int             { return 1 }
func (Tclass) ValueLen() int          { return 1 }
func (Shutdown) ValueLen() int        { return 1 }
func (Protocol) ValueLen() int        { return 1 }
func (SkV6Only) ValueLen() int        { return 1 }
func (Mark) ValueLen() int            { return 4 }
func (ClassId) ValueLen() int         { return 4 }
func (CgroupId) ValueLen() int        { return 8 }

func (self Info) EmitValue(b []byte)       { copy(b, self) }
func (self Congestion) EmitValue(b []byte) { nlcodec.PutString(b, string(self)) }
func (self SkMemInfo) EmitValue(b []byte)  { nlcodec.PutU32Array(b, self) }
func (self Tos) EmitValue(b []byte)        { nlcodec.PutU8(b, uint8(self)) }
func (self Tclass) EmitValue(b []byte)     { nlcodec.PutU8(b, uint8(self)) }
func (self Shutdown) EmitValue(b []byte)   { nlcodec.PutU8(b, uint8(self)) }
func (self Protocol) EmitValue(b []byte)   { nlcodec.PutU8(b, uint8(self)) }
func (self SkV6Only) EmitValue(b []byte)   { nlcodec.PutU8(b, uint8(self)) }
func (self Mark) EmitValue(b []byte)       { nlcodec.PutU32(b, uint32(self)) }
func (self ClassId) EmitValue(b []byte)    { nlcodec.PutU32(b, uint32(self)) }
func (self CgroupId) EmitValue(b []byte)   { nlcodec.PutU64(b, uint64(self)) }

func (self MemInfo) EmitValue(b []byte) {
	nlcodec.PutU32Array(b, []uint32{self.Rmem, self.Wmem, self.Fmem, self.Tmem})
}

func (MemInfo) inetDiagNla()    {}
func (Info) inetDiagNla()       {}
func (Congestion) inetDiagNla() {}
func (SkMemInfo) inetDiagNla()  {}
func (Tos) inetDiagNla()        {}
func (Tclass) inetDiagNla()     {}
func (Shutdown) inetDiagNla()   {}
func (Protocol) inetDiagNla()   {}
func (SkV6Only) inetDiagNla()   {}
func (Mark) inetDiagNla()       {}
func (ClassId) inetDiagNla()    {}
func (CgroupId) inetDiagNla()   {}
func (Other) inetDiagNla()      {}

func valueError(err error, name string) error {
	return errors.Wrapf(err, "invalid %s value", name)
}

func u8[T interface {
	~uint8
	InetDiagNla
}](nla nlcodec.NlaBuffer, name string) (InetDiagNla, error) {
	if v, err := nlcodec.ParseU8(nla.Value()); err != nil {
		return nil, valueError(err, name)
	} else {
		return T(v), nil
	}
}

func u32[T interface {
	~uint32
	InetDiagNla
}](nla nlcodec.NlaBuffer, name string) (InetDiagNla, error) {
	if v, err := nlcodec.ParseU32(nla.Value()); err != nil {
		return nil, valueError(err, name)
	} else {
		return T(v), nil
	}
}

func ParseInetDiagNla(nla nlcodec.NlaBuffer) (InetDiagNla, error) {
	switch nla.Kind() {
	case INET_DIAG_MEMINFO:
		if v, err := nlcodec.ParseU32Array(nla.Value()); err != nil {
			return nil, valueError(err, "INET_DIAG_MEMINFO")
		} else if len(v) != 4 {
			return nil, valueError(nlcodec.Errorf(nlcodec.NLE_RANGE, "expected %d bytes, got %d", SizeofInetDiagMeminfo, len(nla.Value())), "INET_DIAG_MEMINFO")
		} else {
			return MemInfo{Rmem: v[0], Wmem: v[1], Fmem: v[2], Tmem: v[3]}, nil
		}
	case INET_DIAG_INFO:
		return Info(nlcodec.ParseBytes(nla.Value())), nil
	case INET_DIAG_CONG:
		if v, err := nlcodec.ParseString(nla.Value()); err != nil {
			return nil, valueError(err, "INET_DIAG_CONG")
		} else {
			return Congestion(v), nil
		}
	case INET_DIAG_SKMEMINFO:
		if v, err := nlcodec.ParseU32Array(nla.Value()); err != nil {
			return nil, valueError(err, "INET_DIAG_SKMEMINFO")
		} else {
			return SkMemInfo(v), nil
		}
	case INET_DIAG_TOS:
		return u8[Tos](nla, "INET_DIAG_TOS")
	case INET_DIAG_TCLASS:
		return u8[Tclass](nla, "INET_DIAG_TCLASS")
	case INET_DIAG_SHUTDOWN:
		return u8[Shutdown](nla, "INET_DIAG_SHUTDOWN")
	case INET_DIAG_PROTOCOL:
		return u8[Protocol](nla, "INET_DIAG_PROTOCOL")
	case INET_DIAG_SKV6ONLY:
		return u8[SkV6Only](nla, "INET_DIAG_SKV6ONLY")
	case INET_DIAG_MARK:
		return u32[Mark](nla, "INET_DIAG_MARK")
	case INET_DIAG_CLASS_ID:
		return u32[ClassId](nla, "INET_DIAG_CLASS_ID")
	case INET_DIAG_CGROUP_ID:
		if v, err := nlcodec.ParseU64(nla.Value()); err != nil {
			return nil, valueError(err, "INET_DIAG_CGROUP_ID")
		} else {
			return CgroupId(v), nil
		}
	default:
		return Other{nlcodec.ParseDefaultNla(nla)}, nil
	}
}

var Names = &nlcodec.Names{
	Prefix: "INET_DIAG",
	Names: map[uint16]string{
		INET_DIAG_MEMINFO:         "MEMINFO",
		INET_DIAG_INFO:            "INFO",
		INET_DIAG_VEGASINFO:       "VEGASINFO",
		INET_DIAG_CONG:            "CONG",
		INET_DIAG_TOS:             "TOS",
		INET_DIAG_TCLASS:          "TCLASS",
		INET_DIAG_SKMEMINFO:       "SKMEMINFO",
		INET_DIAG_SHUTDOWN:        "SHUTDOWN",
		INET_DIAG_DCTCPINFO:       "DCTCPINFO",
		INET_DIAG_PROTOCOL:        "PROTOCOL",
		INET_DIAG_SKV6ONLY:        "SKV6ONLY",
		INET_DIAG_LOCALS:          "LOCALS",
		INET_DIAG_PEERS:           "PEERS",
		INET_DIAG_PAD:             "PAD",
		INET_DIAG_MARK:            "MARK",
		INET_DIAG_BBRINFO:         "BBRINFO",
		INET_DIAG_CLASS_ID:        "CLASS_ID",
		INET_DIAG_MD5SIG:          "MD5SIG",
		INET_DIAG_ULP_INFO:        "ULP_INFO",
		INET_DIAG_SK_BPF_STORAGES: "SK_BPF_STORAGES",
		INET_DIAG_CGROUP_ID:       "CGROUP_ID",
		INET_DIAG_SOCKOPT:         "SOCKOPT",
	},
}
