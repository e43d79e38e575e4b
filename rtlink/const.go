package rtlink

import (
	"github.com/hkwi/nlcodec"
)

const (
	IFLA_UNSPEC = iota
	IFLA_ADDRESS
	IFLA_BROADCAST
	IFLA_IFNAME
	IFLA_MTU
	IFLA_LINK // used with 8021q, for example
	IFLA_QDISC
	IFLA_STATS
	IFLA_COST
	IFLA_PRIORITY
	IFLA_MASTER
	IFLA_WIRELESS
	IFLA_PROTINFO
	IFLA_TXQLEN
	IFLA_MAP
	IFLA_WEIGHT
	IFLA_OPERSTATE
	IFLA_LINKMODE
	IFLA_LINKINFO
	IFLA_NET_NS_PID
	IFLA_IFALIAS
	IFLA_NUM_VF
	IFLA_VFINFO_LIST
	IFLA_STATS64
	IFLA_VF_PORTS
	IFLA_PORT_SELF
	IFLA_AF_SPEC
	IFLA_GROUP
	IFLA_NET_NS_FD
	IFLA_EXT_MASK
	IFLA_PROMISCUITY
	IFLA_NUM_TX_QUEUES
	IFLA_NUM_RX_QUEUES
	IFLA_CARRIER
	IFLA_PHYS_PORT_ID
	IFLA_CARRIER_CHANGES
	IFLA_PHYS_SWITCH_ID
	IFLA_LINK_NETNSID
	IFLA_PHYS_PORT_NAME
	IFLA_PROTO_DOWN
	IFLA_GSO_MAX_SEGS
	IFLA_GSO_MAX_SIZE
	IFLA_PAD
	IFLA_XDP
	IFLA_EVENT
	IFLA_NEW_NETNSID
	IFLA_TARGET_NETNSID
	IFLA_CARRIER_UP_COUNT
	IFLA_CARRIER_DOWN_COUNT
	IFLA_NEW_IFINDEX
	IFLA_MIN_MTU
	IFLA_MAX_MTU
)

const (
	IFLA_INFO_UNSPEC = iota
	IFLA_INFO_KIND
	IFLA_INFO_DATA
	IFLA_INFO_XSTATS
	IFLA_INFO_SLAVE_KIND
	IFLA_INFO_SLAVE_DATA
)

const (
	IFLA_VLAN_UNSPEC = iota
	IFLA_VLAN_ID
	IFLA_VLAN_FLAGS
	IFLA_VLAN_EGRESS_QOS
	IFLA_VLAN_INGRESS_QOS
	IFLA_VLAN_PROTOCOL
)

const (
	IFLA_INET_UNSPEC = iota
	IFLA_INET_CONF
)

const (
	IFLA_INET6_UNSPEC = iota
	IFLA_INET6_FLAGS
	IFLA_INET6_CONF
	IFLA_INET6_STATS
	IFLA_INET6_MCAST
	IFLA_INET6_CACHEINFO
	IFLA_INET6_ICMP6STATS
	IFLA_INET6_TOKEN
	IFLA_INET6_ADDR_GEN_MODE
)

const (
	IFLA_VF_UNSPEC = iota
	IFLA_VF_MAC
	IFLA_VF_VLAN
	IFLA_VF_TX_RATE
	IFLA_VF_SPOOFCHK
	IFLA_VF_LINK_STATE
	IFLA_VF_RATE
)

const (
	IFLA_VF_PORT_UNSPEC = iota
	IFLA_VF_PORT
)

const (
	IFLA_PORT_UNSPEC = iota
	IFLA_PORT_VF
	IFLA_PORT_PROFILE
	IFLA_PORT_VSI_TYPE
	IFLA_PORT_INSTANCE_UUID
	IFLA_PORT_HOST_UUID
	IFLA_PORT_REQUEST
	IFLA_PORT_RESPONSE
)

var portNames = &nlcodec.Names{
	Prefix: "IFLA_PORT",
	Names: map[uint16]string{
		IFLA_PORT_VF:            "VF",
		IFLA_PORT_PROFILE:       "PROFILE",
		IFLA_PORT_VSI_TYPE:      "VSI_TYPE",
		IFLA_PORT_INSTANCE_UUID: "INSTANCE_UUID",
		IFLA_PORT_HOST_UUID:     "HOST_UUID",
		IFLA_PORT_REQUEST:       "REQUEST",
		IFLA_PORT_RESPONSE:      "RESPONSE",
	},
}

// Names describes the IFLA_* space for nlcodec.ParseTree and nlcodec.Dump.
var Names = &nlcodec.Names{
	Prefix: "IFLA",
	Names: map[uint16]string{
		IFLA_ADDRESS:            "ADDRESS",
		IFLA_BROADCAST:          "BROADCAST",
		IFLA_IFNAME:             "IFNAME",
		IFLA_MTU:                "MTU",
		IFLA_LINK:               "LINK",
		IFLA_QDISC:              "QDISC",
		IFLA_STATS:              "STATS",
		IFLA_COST:               "COST",
		IFLA_PRIORITY:           "PRIORITY",
		IFLA_MASTER:             "MASTER",
		IFLA_WIRELESS:           "WIRELESS",
		IFLA_PROTINFO:           "PROTINFO",
		IFLA_TXQLEN:             "TXQLEN",
		IFLA_MAP:                "MAP",
		IFLA_WEIGHT:             "WEIGHT",
		IFLA_OPERSTATE:          "OPERSTATE",
		IFLA_LINKMODE:           "LINKMODE",
		IFLA_LINKINFO:           "LINKINFO",
		IFLA_NET_NS_PID:         "NET_NS_PID",
		IFLA_IFALIAS:            "IFALIAS",
		IFLA_NUM_VF:             "NUM_VF",
		IFLA_VFINFO_LIST:        "VFINFO_LIST",
		IFLA_STATS64:            "STATS64",
		IFLA_VF_PORTS:           "VF_PORTS",
		IFLA_PORT_SELF:          "PORT_SELF",
		IFLA_AF_SPEC:            "AF_SPEC",
		IFLA_GROUP:              "GROUP",
		IFLA_NET_NS_FD:          "NET_NS_FD",
		IFLA_EXT_MASK:           "EXT_MASK",
		IFLA_PROMISCUITY:        "PROMISCUITY",
		IFLA_NUM_TX_QUEUES:      "NUM_TX_QUEUES",
		IFLA_NUM_RX_QUEUES:      "NUM_RX_QUEUES",
		IFLA_CARRIER:            "CARRIER",
		IFLA_PHYS_PORT_ID:       "PHYS_PORT_ID",
		IFLA_CARRIER_CHANGES:    "CARRIER_CHANGES",
		IFLA_PHYS_SWITCH_ID:     "PHYS_SWITCH_ID",
		IFLA_LINK_NETNSID:       "LINK_NETNSID",
		IFLA_PHYS_PORT_NAME:     "PHYS_PORT_NAME",
		IFLA_PROTO_DOWN:         "PROTO_DOWN",
		IFLA_GSO_MAX_SEGS:       "GSO_MAX_SEGS",
		IFLA_GSO_MAX_SIZE:       "GSO_MAX_SIZE",
		IFLA_PAD:                "PAD",
		IFLA_XDP:                "XDP",
		IFLA_EVENT:              "EVENT",
		IFLA_NEW_NETNSID:        "NEW_NETNSID",
		IFLA_TARGET_NETNSID:     "TARGET_NETNSID",
		IFLA_CARRIER_UP_COUNT:   "CARRIER_UP_COUNT",
		IFLA_CARRIER_DOWN_COUNT: "CARRIER_DOWN_COUNT",
		IFLA_NEW_IFINDEX:        "NEW_IFINDEX",
		IFLA_MIN_MTU:            "MIN_MTU",
		IFLA_MAX_MTU:            "MAX_MTU",
	},
	Nested: map[uint16]*nlcodec.Names{
		IFLA_LINKINFO: {
			Prefix: "IFLA_INFO",
			Names: map[uint16]string{
				IFLA_INFO_KIND:       "KIND",
				IFLA_INFO_DATA:       "DATA",
				IFLA_INFO_XSTATS:     "XSTATS",
				IFLA_INFO_SLAVE_KIND: "SLAVE_KIND",
				IFLA_INFO_SLAVE_DATA: "SLAVE_DATA",
			},
		},
		IFLA_VFINFO_LIST: {
			List: &nlcodec.Names{
				Prefix: "IFLA_VF",
				Names: map[uint16]string{
					IFLA_VF_MAC:        "MAC",
					IFLA_VF_VLAN:       "VLAN",
					IFLA_VF_TX_RATE:    "TX_RATE",
					IFLA_VF_SPOOFCHK:   "SPOOFCHK",
					IFLA_VF_LINK_STATE: "LINK_STATE",
					IFLA_VF_RATE:       "RATE",
				},
			},
		},
		IFLA_VF_PORTS: {
			List: &nlcodec.Names{
				Prefix: "IFLA_VF_PORT",
				Names: map[uint16]string{
					IFLA_VF_PORT: "PORT",
				},
				Nested: map[uint16]*nlcodec.Names{
					IFLA_VF_PORT: portNames,
				},
			},
		},
		IFLA_PORT_SELF: portNames,
		IFLA_AF_SPEC: {
			Prefix: "AF",
			Names: map[uint16]string{
				AF_INET:  "INET",
				AF_INET6: "INET6",
			},
			Nested: map[uint16]*nlcodec.Names{
				AF_INET: {
					Prefix: "IFLA_INET",
					Names:  map[uint16]string{IFLA_INET_CONF: "CONF"},
				},
				AF_INET6: {
					Prefix: "IFLA_INET6",
					Names: map[uint16]string{
						IFLA_INET6_FLAGS:         "FLAGS",
						IFLA_INET6_CONF:          "CONF",
						IFLA_INET6_STATS:         "STATS",
						IFLA_INET6_MCAST:         "MCAST",
						IFLA_INET6_CACHEINFO:     "CACHEINFO",
						IFLA_INET6_ICMP6STATS:    "ICMP6STATS",
						IFLA_INET6_TOKEN:         "TOKEN",
						IFLA_INET6_ADDR_GEN_MODE: "ADDR_GEN_MODE",
					},
				},
			},
		},
	},
}
