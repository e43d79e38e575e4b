package rtroute

const (
	RTA_UNSPEC = iota
	RTA_DST
	RTA_SRC
	RTA_IIF
	RTA_OIF
	RTA_GATEWAY
	RTA_PRIORITY
	RTA_PREFSRC
	RTA_METRICS
	RTA_MULTIPATH
	RTA_PROTOINFO // no longer used
	RTA_FLOW
	RTA_CACHEINFO
	RTA_SESSION // no longer used
	RTA_MP_ALGO // no longer used
	RTA_TABLE
	RTA_MARK
	RTA_MFC_STATS
	RTA_VIA
	RTA_NEWDST
	RTA_PREF
	RTA_ENCAP_TYPE
	RTA_ENCAP
	RTA_EXPIRES
	RTA_PAD
	RTA_UID
	RTA_TTL_PROPAGATE
	RTA_IP_PROTO
	RTA_SPORT
	RTA_DPORT
	RTA_NH_ID
)

const (
	RTAX_UNSPEC = iota
	RTAX_LOCK
	RTAX_MTU
	RTAX_WINDOW
	RTAX_RTT
	RTAX_RTTVAR
	RTAX_SSTHRESH
	RTAX_CWND
	RTAX_ADVMSS
	RTAX_REORDERING
	RTAX_HOPLIMIT
	RTAX_INITCWND
	RTAX_FEATURES
	RTAX_RTO_MIN
	RTAX_INITRWND
	RTAX_QUICKACK
	RTAX_CC_ALGO
	RTAX_FASTOPEN_NO_COOKIE
)

const (
	RTN_UNSPEC = iota
	RTN_UNICAST
	RTN_LOCAL
	RTN_BROADCAST
	RTN_ANYCAST
	RTN_MULTICAST
	RTN_BLACKHOLE
	RTN_UNREACHABLE
	RTN_PROHIBIT
	RTN_THROW
	RTN_NAT
	RTN_XRESOLVE
)

const (
	RT_TABLE_UNSPEC  = 0
	RT_TABLE_COMPAT  = 252
	RT_TABLE_DEFAULT = 253
	RT_TABLE_MAIN    = 254
	RT_TABLE_LOCAL   = 255
)

const (
	RTNH_F_DEAD = 1 << iota
	RTNH_F_PERVASIVE
	RTNH_F_ONLINK
	RTNH_F_OFFLOAD
	RTNH_F_LINKDOWN
	RTNH_F_UNRESOLVED
)

const (
	RTM_F_NOTIFY = 0x100 << iota
	RTM_F_CLONED
	RTM_F_EQUALIZE
	RTM_F_PREFIX
	RTM_F_LOOKUP_TABLE
	RTM_F_FIB_MATCH
)
