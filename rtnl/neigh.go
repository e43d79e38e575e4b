package rtnl

import (
	"fmt"

	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

const SizeofNdmsg = 12

const (
	NDA_UNSPEC = iota
	NDA_DST
	NDA_LLADDR
	NDA_CACHEINFO
	NDA_PROBES
	NDA_VLAN
	NDA_PORT
	NDA_VNI
	NDA_IFINDEX
	NDA_MASTER
	NDA_LINK_NETNSID
	NDA_SRC_VNI
	NDA_PROTOCOL
	NDA_NH_ID
	NDA_FDB_EXT_ATTRS
	NDA_FLAGS_EXT
)

const (
	NUD_INCOMPLETE = 1 << iota
	NUD_REACHABLE
	NUD_STALE
	NUD_DELAY
	NUD_PROBE
	NUD_FAILED
	NUD_NOARP
	NUD_PERMANENT
	NUD_NONE = 0
)

var (
	ndmFamily  = nlcodec.Field{Start: 0, End: 1}
	ndmIfindex = nlcodec.Field{Start: 4, End: 8}
	ndmState   = nlcodec.Field{Start: 8, End: 10}
	ndmFlags   = nlcodec.Field{Start: 10, End: 11}
	ndmType    = nlcodec.Field{Start: 11, End: 12}
)

// NeighbourHeader is struct ndmsg.
type NeighbourHeader struct {
	Family uint8
	Index  uint32
	State  uint16
	Flags  uint8
	Type   uint8
}

func ParseNeighbourHeader(b []byte) (NeighbourHeader, error) {
	if buf, err := nlcodec.NewCheckedBuffer(b, SizeofNdmsg); err != nil {
		return NeighbourHeader{}, errors.Wrap(err, "invalid ndmsg")
	} else {
		return NeighbourHeader{
			Family: buf.Uint8(ndmFamily),
			Index:  buf.Uint32(ndmIfindex),
			State:  buf.Uint16(ndmState),
			Flags:  buf.Uint8(ndmFlags),
			Type:   buf.Uint8(ndmType),
		}, nil
	}
}

func (self NeighbourHeader) BufferLen() int {
	return SizeofNdmsg
}

func (self NeighbourHeader) Emit(b []byte) {
	clear(b[:SizeofNdmsg])
	buf := nlcodec.NewBuffer(b)
	buf.SetUint8(ndmFamily, self.Family)
	buf.SetUint32(ndmIfindex, self.Index)
	buf.SetUint16(ndmState, self.State)
	buf.SetUint8(ndmFlags, self.Flags)
	buf.SetUint8(ndmType, self.Type)
}

func (self NeighbourHeader) String() string {
	return fmt.Sprintf("{family=%d index=%d state=%#x flags=%#x type=%d}",
		self.Family, self.Index, self.State, self.Flags, self.Type)
}

// NeighbourMessage is the payload of RTM_NEWNEIGH, RTM_DELNEIGH and
// RTM_GETNEIGH. The attributes are kept undecoded.
type NeighbourMessage struct {
	Header NeighbourHeader
	Nlas   []nlcodec.DefaultNla
}

func ParseNeighbourMessage(b []byte) (*NeighbourMessage, error) {
	hdr, err := ParseNeighbourHeader(b)
	if err != nil {
		return nil, err
	}
	nlas, err := parseOpaque(b[SizeofNdmsg:])
	if err != nil {
		return nil, errors.Wrap(err, "invalid neighbour message")
	}
	return &NeighbourMessage{
		Header: hdr,
		Nlas:   nlas,
	}, nil
}

func (self *NeighbourMessage) BufferLen() int {
	return SizeofNdmsg + nlcodec.NlasBufferLen(self.Nlas)
}

func (self *NeighbourMessage) Emit(b []byte) {
	self.Header.Emit(b[:SizeofNdmsg])
	nlcodec.EmitNlas(self.Nlas, b[SizeofNdmsg:])
}

func parseOpaque(b []byte) ([]nlcodec.DefaultNla, error) {
	return nlcodec.ParseNlas(b, func(nla nlcodec.NlaBuffer) (nlcodec.DefaultNla, error) {
		return nlcodec.ParseDefaultNla(nla), nil
	})
}

var NeighbourNames = &nlcodec.Names{
	Prefix: "NDA",
	Names: map[uint16]string{
		NDA_DST:           "DST",
		NDA_LLADDR:        "LLADDR",
		NDA_CACHEINFO:     "CACHEINFO",
		NDA_PROBES:        "PROBES",
		NDA_VLAN:          "VLAN",
		NDA_PORT:          "PORT",
		NDA_VNI:           "VNI",
		NDA_IFINDEX:       "IFINDEX",
		NDA_MASTER:        "MASTER",
		NDA_LINK_NETNSID:  "LINK_NETNSID",
		NDA_SRC_VNI:       "SRC_VNI",
		NDA_PROTOCOL:      "PROTOCOL",
		NDA_NH_ID:         "NH_ID",
		NDA_FDB_EXT_ATTRS: "FDB_EXT_ATTRS",
		NDA_FLAGS_EXT:     "FLAGS_EXT",
	},
}
