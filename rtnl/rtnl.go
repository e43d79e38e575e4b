// Package rtnl decodes NETLINK_ROUTE messages by netlink message type,
// delegating to the family packages.
package rtnl

import (
	"fmt"

	"github.com/hkwi/nlcodec"
	"github.com/hkwi/nlcodec/rtaddr"
	"github.com/hkwi/nlcodec/rtlink"
	"github.com/hkwi/nlcodec/rtroute"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// ParseMessage decodes the payload of msg. The result is one of
// *rtlink.LinkMessage, *rtaddr.AddressMessage, *rtroute.RouteMessage,
// *NeighbourMessage, *TcMessage, *nlcodec.ErrorMessage, or nlcodec.Raw for
// any other type.
func ParseMessage(msg nlcodec.NetlinkMessage) (nlcodec.Emitable, error) {
	var ret nlcodec.Emitable
	var err error
	switch msg.Header.Type {
	case unix.NLMSG_ERROR:
		ret, err = unwrap(msg.ErrorMessage())
	case unix.RTM_NEWLINK, unix.RTM_DELLINK, unix.RTM_GETLINK, unix.RTM_SETLINK:
		ret, err = unwrap(rtlink.ParseLinkMessage(msg.Payload))
	case unix.RTM_NEWADDR, unix.RTM_DELADDR, unix.RTM_GETADDR:
		ret, err = unwrap(rtaddr.ParseAddressMessage(msg.Payload))
	case unix.RTM_NEWROUTE, unix.RTM_DELROUTE, unix.RTM_GETROUTE:
		ret, err = unwrap(rtroute.ParseRouteMessage(msg.Payload))
	case unix.RTM_NEWNEIGH, unix.RTM_DELNEIGH, unix.RTM_GETNEIGH:
		ret, err = unwrap(ParseNeighbourMessage(msg.Payload))
	case unix.RTM_NEWQDISC, unix.RTM_DELQDISC, unix.RTM_GETQDISC,
		unix.RTM_NEWTCLASS, unix.RTM_DELTCLASS, unix.RTM_GETTCLASS,
		unix.RTM_NEWTFILTER, unix.RTM_DELTFILTER, unix.RTM_GETTFILTER:
		ret, err = unwrap(ParseTcMessage(msg.Payload))
	default:
		ret = nlcodec.Raw(nlcodec.ParseBytes(msg.Payload))
	}
	if err != nil {
		return nil, errors.Wrap(err, TypeName(msg.Header.Type))
	}
	return ret, nil
}

// unwrap keeps a failed parse from turning into a non nil interface
// holding a nil pointer.
func unwrap[T nlcodec.Emitable](v T, err error) (nlcodec.Emitable, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Layout is what a decoder needs to walk a payload without a typed codec:
// the size of the fixed header and the names of the attributes after it.
type Layout struct {
	Name      string
	HeaderLen int
	Names     *nlcodec.Names
}

var layouts = map[uint16]Layout{}

func register(hdrlen int, names *nlcodec.Names, types map[uint16]string) {
	for t, name := range types {
		layouts[t] = Layout{
			Name:      name,
			HeaderLen: hdrlen,
			Names:     names,
		}
	}
}

func init() {
	register(rtlink.SizeofIfInfomsg, rtlink.Names, map[uint16]string{
		unix.RTM_NEWLINK: "RTM_NEWLINK",
		unix.RTM_DELLINK: "RTM_DELLINK",
		unix.RTM_GETLINK: "RTM_GETLINK",
		unix.RTM_SETLINK: "RTM_SETLINK",
	})
	register(rtaddr.SizeofIfAddrmsg, rtaddr.Names, map[uint16]string{
		unix.RTM_NEWADDR: "RTM_NEWADDR",
		unix.RTM_DELADDR: "RTM_DELADDR",
		unix.RTM_GETADDR: "RTM_GETADDR",
	})
	register(rtroute.SizeofRtMsg, rtroute.Names, map[uint16]string{
		unix.RTM_NEWROUTE: "RTM_NEWROUTE",
		unix.RTM_DELROUTE: "RTM_DELROUTE",
		unix.RTM_GETROUTE: "RTM_GETROUTE",
	})
	// fib_rule_hdr has the size of rtmsg; its FRA_* names are not tabled.
	register(rtroute.SizeofRtMsg, nil, map[uint16]string{
		unix.RTM_NEWRULE: "RTM_NEWRULE",
		unix.RTM_DELRULE: "RTM_DELRULE",
		unix.RTM_GETRULE: "RTM_GETRULE",
	})
	register(SizeofNdmsg, NeighbourNames, map[uint16]string{
		unix.RTM_NEWNEIGH: "RTM_NEWNEIGH",
		unix.RTM_DELNEIGH: "RTM_DELNEIGH",
		unix.RTM_GETNEIGH: "RTM_GETNEIGH",
	})
	register(SizeofTcmsg, TcNames, map[uint16]string{
		unix.RTM_NEWQDISC:   "RTM_NEWQDISC",
		unix.RTM_DELQDISC:   "RTM_DELQDISC",
		unix.RTM_GETQDISC:   "RTM_GETQDISC",
		unix.RTM_NEWTCLASS:  "RTM_NEWTCLASS",
		unix.RTM_DELTCLASS:  "RTM_DELTCLASS",
		unix.RTM_GETTCLASS:  "RTM_GETTCLASS",
		unix.RTM_NEWTFILTER: "RTM_NEWTFILTER",
		unix.RTM_DELTFILTER: "RTM_DELTFILTER",
		unix.RTM_GETTFILTER: "RTM_GETTFILTER",
	})
}

// LayoutOf returns the payload layout of a NETLINK_ROUTE message type.
func LayoutOf(msgType uint16) (Layout, bool) {
	l, ok := layouts[msgType]
	return l, ok
}

func TypeName(msgType uint16) string {
	switch msgType {
	case unix.NLMSG_NOOP:
		return "NLMSG_NOOP"
	case unix.NLMSG_ERROR:
		return "NLMSG_ERROR"
	case unix.NLMSG_DONE:
		return "NLMSG_DONE"
	case unix.NLMSG_OVERRUN:
		return "NLMSG_OVERRUN"
	}
	if l, ok := layouts[msgType]; ok {
		return l.Name
	}
	return fmt.Sprintf("RTM(%d)", msgType)
}
