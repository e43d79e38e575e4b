package rtroute

import (
	"net"

	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

// RouteMessage is the payload of RTM_NEWROUTE, RTM_DELROUTE and
// RTM_GETROUTE.
type RouteMessage struct {
	Header RouteHeader
	Nlas   []RouteNla
}

func ParseRouteMessage(b []byte) (*RouteMessage, error) {
	hdr, err := ParseRouteHeader(b)
	if err != nil {
		return nil, err
	}
	nlas, err := nlcodec.ParseNlas(b[SizeofRtMsg:], ParseRouteNla)
	if err != nil {
		return nil, errors.Wrap(err, "invalid route message")
	}
	return &RouteMessage{
		Header: hdr,
		Nlas:   nlas,
	}, nil
}

func (self *RouteMessage) BufferLen() int {
	return SizeofRtMsg + nlcodec.NlasBufferLen(self.Nlas)
}

func (self *RouteMessage) Emit(b []byte) {
	self.Header.Emit(b[:SizeofRtMsg])
	nlcodec.EmitNlas(self.Nlas, b[SizeofRtMsg:])
}

// Table returns RTA_TABLE when present; the header only holds tables
// below 256.
func (self *RouteMessage) Table() uint32 {
	for _, nla := range self.Nlas {
		if v, ok := nla.(Table); ok {
			return uint32(v)
		}
	}
	return uint32(self.Header.Table)
}

// Destination returns the destination prefix. A route without RTA_DST is
// a default route of the header family.
func (self *RouteMessage) Destination() *net.IPNet {
	for _, nla := range self.Nlas {
		if v, ok := nla.(Destination); ok {
			return &net.IPNet{
				IP:   net.IP(v),
				Mask: net.CIDRMask(int(self.Header.DstLen), len(v)*8),
			}
		}
	}
	size := net.IPv4len
	if self.Header.Family == familyInet6 {
		size = net.IPv6len
	}
	return &net.IPNet{
		IP:   make(net.IP, size),
		Mask: net.CIDRMask(0, size*8),
	}
}

// Gateway returns the first RTA_GATEWAY.
func (self *RouteMessage) Gateway() (net.IP, bool) {
	for _, nla := range self.Nlas {
		if v, ok := nla.(Gateway); ok {
			return net.IP(v), true
		}
	}
	return nil, false
}

var Names = &nlcodec.Names{
	Prefix: "RTA",
	Names: map[uint16]string{
		RTA_DST:           "DST",
		RTA_SRC:           "SRC",
		RTA_IIF:           "IIF",
		RTA_OIF:           "OIF",
		RTA_GATEWAY:       "GATEWAY",
		RTA_PRIORITY:      "PRIORITY",
		RTA_PREFSRC:       "PREFSRC",
		RTA_METRICS:       "METRICS",
		RTA_MULTIPATH:     "MULTIPATH",
		RTA_FLOW:          "FLOW",
		RTA_CACHEINFO:     "CACHEINFO",
		RTA_TABLE:         "TABLE",
		RTA_MARK:          "MARK",
		RTA_MFC_STATS:     "MFC_STATS",
		RTA_VIA:           "VIA",
		RTA_NEWDST:        "NEWDST",
		RTA_PREF:          "PREF",
		RTA_ENCAP_TYPE:    "ENCAP_TYPE",
		RTA_ENCAP:         "ENCAP",
		RTA_EXPIRES:       "EXPIRES",
		RTA_PAD:           "PAD",
		RTA_UID:           "UID",
		RTA_TTL_PROPAGATE: "TTL_PROPAGATE",
		RTA_IP_PROTO:      "IP_PROTO",
		RTA_SPORT:         "SPORT",
		RTA_DPORT:         "DPORT",
		RTA_NH_ID:         "NH_ID",
	},
	Nested: map[uint16]*nlcodec.Names{
		RTA_METRICS: {
			Prefix: "RTAX",
			Names:  metricShortNames(),
		},
	},
}

func metricShortNames() map[uint16]string {
	ret := make(map[uint16]string, len(metricNames))
	for k, v := range metricNames {
		ret[k] = v[len("RTAX_"):]
	}
	return ret
}
