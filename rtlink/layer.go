package rtlink

import (
	"fmt"
)

// LinkLayerType is ifi_type, one of the ARPHRD_* values. Values without a
// name here stay representable.
type LinkLayerType uint16

const (
	ARPHRD_NETROM             LinkLayerType = 0
	ARPHRD_ETHER              LinkLayerType = 1
	ARPHRD_EETHER             LinkLayerType = 2
	ARPHRD_AX25               LinkLayerType = 3
	ARPHRD_PRONET             LinkLayerType = 4
	ARPHRD_CHAOS              LinkLayerType = 5
	ARPHRD_IEEE802            LinkLayerType = 6
	ARPHRD_ARCNET             LinkLayerType = 7
	ARPHRD_APPLETLK           LinkLayerType = 8
	ARPHRD_DLCI               LinkLayerType = 15
	ARPHRD_ATM                LinkLayerType = 19
	ARPHRD_METRICOM           LinkLayerType = 23
	ARPHRD_IEEE1394           LinkLayerType = 24
	ARPHRD_EUI64              LinkLayerType = 27
	ARPHRD_INFINIBAND         LinkLayerType = 32
	ARPHRD_SLIP               LinkLayerType = 256
	ARPHRD_CSLIP              LinkLayerType = 257
	ARPHRD_SLIP6              LinkLayerType = 258
	ARPHRD_CSLIP6             LinkLayerType = 259
	ARPHRD_RSRVD              LinkLayerType = 260
	ARPHRD_ADAPT              LinkLayerType = 264
	ARPHRD_ROSE               LinkLayerType = 270
	ARPHRD_X25                LinkLayerType = 271
	ARPHRD_HWX25              LinkLayerType = 272
	ARPHRD_CAN                LinkLayerType = 280
	ARPHRD_MCTP               LinkLayerType = 290
	ARPHRD_PPP                LinkLayerType = 512
	ARPHRD_CISCO              LinkLayerType = 513
	ARPHRD_LAPB               LinkLayerType = 516
	ARPHRD_DDCMP              LinkLayerType = 517
	ARPHRD_RAWHDLC            LinkLayerType = 518
	ARPHRD_RAWIP              LinkLayerType = 519
	ARPHRD_TUNNEL             LinkLayerType = 768
	ARPHRD_TUNNEL6            LinkLayerType = 769
	ARPHRD_FRAD               LinkLayerType = 770
	ARPHRD_SKIP               LinkLayerType = 771
	ARPHRD_LOOPBACK           LinkLayerType = 772
	ARPHRD_LOCALTLK           LinkLayerType = 773
	ARPHRD_FDDI               LinkLayerType = 774
	ARPHRD_BIF                LinkLayerType = 775
	ARPHRD_SIT                LinkLayerType = 776
	ARPHRD_IPDDP              LinkLayerType = 777
	ARPHRD_IPGRE              LinkLayerType = 778
	ARPHRD_PIMREG             LinkLayerType = 779
	ARPHRD_HIPPI              LinkLayerType = 780
	ARPHRD_ASH                LinkLayerType = 781
	ARPHRD_ECONET             LinkLayerType = 782
	ARPHRD_IRDA               LinkLayerType = 783
	ARPHRD_FCPP               LinkLayerType = 784
	ARPHRD_FCAL               LinkLayerType = 785
	ARPHRD_FCPL               LinkLayerType = 786
	ARPHRD_FCFABRIC           LinkLayerType = 787
	ARPHRD_IEEE802_TR         LinkLayerType = 800
	ARPHRD_IEEE80211          LinkLayerType = 801
	ARPHRD_IEEE80211_PRISM    LinkLayerType = 802
	ARPHRD_IEEE80211_RADIOTAP LinkLayerType = 803
	ARPHRD_IEEE802154         LinkLayerType = 804
	ARPHRD_IEEE802154_MONITOR LinkLayerType = 805
	ARPHRD_PHONET             LinkLayerType = 820
	ARPHRD_PHONET_PIPE        LinkLayerType = 821
	ARPHRD_CAIF               LinkLayerType = 822
	ARPHRD_IP6GRE             LinkLayerType = 823
	ARPHRD_NETLINK            LinkLayerType = 824
	ARPHRD_6LOWPAN            LinkLayerType = 825
	ARPHRD_VSOCKMON           LinkLayerType = 826
	ARPHRD_VOID               LinkLayerType = 0xFFFF
	ARPHRD_NONE               LinkLayerType = 0xFFFE
)

var linkLayerNames = map[LinkLayerType]string{
	ARPHRD_NETROM:             "NETROM",
	ARPHRD_ETHER:              "ETHER",
	ARPHRD_EETHER:             "EETHER",
	ARPHRD_AX25:               "AX25",
	ARPHRD_PRONET:             "PRONET",
	ARPHRD_CHAOS:              "CHAOS",
	ARPHRD_IEEE802:            "IEEE802",
	ARPHRD_ARCNET:             "ARCNET",
	ARPHRD_APPLETLK:           "APPLETLK",
	ARPHRD_DLCI:               "DLCI",
	ARPHRD_ATM:                "ATM",
	ARPHRD_METRICOM:           "METRICOM",
	ARPHRD_IEEE1394:           "IEEE1394",
	ARPHRD_EUI64:              "EUI64",
	ARPHRD_INFINIBAND:         "INFINIBAND",
	ARPHRD_SLIP:               "SLIP",
	ARPHRD_CSLIP:              "CSLIP",
	ARPHRD_SLIP6:              "SLIP6",
	ARPHRD_CSLIP6:             "CSLIP6",
	ARPHRD_RSRVD:              "RSRVD",
	ARPHRD_ADAPT:              "ADAPT",
	ARPHRD_ROSE:               "ROSE",
	ARPHRD_X25:                "X25",
	ARPHRD_HWX25:              "HWX25",
	ARPHRD_CAN:                "CAN",
	ARPHRD_MCTP:               "MCTP",
	ARPHRD_PPP:                "PPP",
	ARPHRD_CISCO:              "CISCO",
	ARPHRD_LAPB:               "LAPB",
	ARPHRD_DDCMP:              "DDCMP",
	ARPHRD_RAWHDLC:            "RAWHDLC",
	ARPHRD_RAWIP:              "RAWIP",
	ARPHRD_TUNNEL:             "TUNNEL",
	ARPHRD_TUNNEL6:            "TUNNEL6",
	ARPHRD_FRAD:               "FRAD",
	ARPHRD_SKIP:               "SKIP",
	ARPHRD_LOOPBACK:           "LOOPBACK",
	ARPHRD_LOCALTLK:           "LOCALTLK",
	ARPHRD_FDDI:               "FDDI",
	ARPHRD_BIF:                "BIF",
	ARPHRD_SIT:                "SIT",
	ARPHRD_IPDDP:              "IPDDP",
	ARPHRD_IPGRE:              "IPGRE",
	ARPHRD_PIMREG:             "PIMREG",
	ARPHRD_HIPPI:              "HIPPI",
	ARPHRD_ASH:                "ASH",
	ARPHRD_ECONET:             "ECONET",
	ARPHRD_IRDA:               "IRDA",
	ARPHRD_FCPP:               "FCPP",
	ARPHRD_FCAL:               "FCAL",
	ARPHRD_FCPL:               "FCPL",
	ARPHRD_FCFABRIC:           "FCFABRIC",
	ARPHRD_IEEE802_TR:         "IEEE802_TR",
	ARPHRD_IEEE80211:          "IEEE80211",
	ARPHRD_IEEE80211_PRISM:    "IEEE80211_PRISM",
	ARPHRD_IEEE80211_RADIOTAP: "IEEE80211_RADIOTAP",
	ARPHRD_IEEE802154:         "IEEE802154",
	ARPHRD_IEEE802154_MONITOR: "IEEE802154_MONITOR",
	ARPHRD_PHONET:             "PHONET",
	ARPHRD_PHONET_PIPE:        "PHONET_PIPE",
	ARPHRD_CAIF:               "CAIF",
	ARPHRD_IP6GRE:             "IP6GRE",
	ARPHRD_NETLINK:            "NETLINK",
	ARPHRD_6LOWPAN:            "6LOWPAN",
	ARPHRD_VSOCKMON:           "VSOCKMON",
	ARPHRD_VOID:               "VOID",
	ARPHRD_NONE:               "NONE",
}

// Known reports whether the value has an ARPHRD_* name.
func (self LinkLayerType) Known() bool {
	_, ok := linkLayerNames[self]
	return ok
}

func (self LinkLayerType) String() string {
	if n, ok := linkLayerNames[self]; ok {
		return n
	}
	return fmt.Sprintf("ARPHRD(%d)", uint16(self))
}
