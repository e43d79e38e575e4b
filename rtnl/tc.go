package rtnl

import (
	"fmt"

	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

const SizeofTcmsg = 20

const (
	TCA_UNSPEC = iota
	TCA_KIND
	TCA_OPTIONS
	TCA_STATS
	TCA_XSTATS
	TCA_RATE
	TCA_FCNT
	TCA_STATS2
	TCA_STAB
	TCA_PAD
	TCA_DUMP_INVISIBLE
	TCA_CHAIN
	TCA_HW_OFFLOAD
	TCA_INGRESS_BLOCK
	TCA_EGRESS_BLOCK
)

var (
	tcmFamily  = nlcodec.Field{Start: 0, End: 1}
	tcmIfindex = nlcodec.Field{Start: 4, End: 8}
	tcmHandle  = nlcodec.Field{Start: 8, End: 12}
	tcmParent  = nlcodec.Field{Start: 12, End: 16}
	tcmInfo    = nlcodec.Field{Start: 16, End: 20}
)

// TcHeader is struct tcmsg, shared by qdisc, class and filter messages.
type TcHeader struct {
	Family uint8
	Index  int32
	Handle uint32
	Parent uint32
	Info   uint32
}

func ParseTcHeader(b []byte) (TcHeader, error) {
	if buf, err := nlcodec.NewCheckedBuffer(b, SizeofTcmsg); err != nil {
		return TcHeader{}, errors.Wrap(err, "invalid tcmsg")
	} else {
		return TcHeader{
			Family: buf.Uint8(tcmFamily),
			Index:  buf.Int32(tcmIfindex),
			Handle: buf.Uint32(tcmHandle),
			Parent: buf.Uint32(tcmParent),
			Info:   buf.Uint32(tcmInfo),
		}, nil
	}
}

func (self TcHeader) BufferLen() int {
	return SizeofTcmsg
}

func (self TcHeader) Emit(b []byte) {
	clear(b[:SizeofTcmsg])
	buf := nlcodec.NewBuffer(b)
	buf.SetUint8(tcmFamily, self.Family)
	buf.SetInt32(tcmIfindex, self.Index)
	buf.SetUint32(tcmHandle, self.Handle)
	buf.SetUint32(tcmParent, self.Parent)
	buf.SetUint32(tcmInfo, self.Info)
}

// String prints handles in tc's major:minor notation.
func (self TcHeader) String() string {
	return fmt.Sprintf("{family=%d index=%d handle=%x:%x parent=%x:%x info=%#x}",
		self.Family, self.Index,
		self.Handle>>16, self.Handle&0xffff,
		self.Parent>>16, self.Parent&0xffff,
		self.Info)
}

// TcMessage is the payload of the qdisc, class and filter messages.
type TcMessage struct {
	Header TcHeader
	Nlas   []nlcodec.DefaultNla
}

func ParseTcMessage(b []byte) (*TcMessage, error) {
	hdr, err := ParseTcHeader(b)
	if err != nil {
		return nil, err
	}
	nlas, err := parseOpaque(b[SizeofTcmsg:])
	if err != nil {
		return nil, errors.Wrap(err, "invalid tc message")
	}
	return &TcMessage{
		Header: hdr,
		Nlas:   nlas,
	}, nil
}

func (self *TcMessage) BufferLen() int {
	return SizeofTcmsg + nlcodec.NlasBufferLen(self.Nlas)
}

func (self *TcMessage) Emit(b []byte) {
	self.Header.Emit(b[:SizeofTcmsg])
	nlcodec.EmitNlas(self.Nlas, b[SizeofTcmsg:])
}

// Kind returns TCA_KIND, the qdisc or classifier name.
func (self *TcMessage) Kind() string {
	for _, nla := range self.Nlas {
		if nla.Field() == TCA_KIND {
			if s, err := nlcodec.ParseString(nla.Data); err == nil {
				return s
			}
		}
	}
	return ""
}

var TcNames = &nlcodec.Names{
	Prefix: "TCA",
	Names: map[uint16]string{
		TCA_KIND:           "KIND",
		TCA_OPTIONS:        "OPTIONS",
		TCA_STATS:          "STATS",
		TCA_XSTATS:         "XSTATS",
		TCA_RATE:           "RATE",
		TCA_FCNT:           "FCNT",
		TCA_STATS2:         "STATS2",
		TCA_STAB:           "STAB",
		TCA_PAD:            "PAD",
		TCA_DUMP_INVISIBLE: "DUMP_INVISIBLE",
		TCA_CHAIN:          "CHAIN",
		TCA_HW_OFFLOAD:     "HW_OFFLOAD",
		TCA_INGRESS_BLOCK:  "INGRESS_BLOCK",
		TCA_EGRESS_BLOCK:   "EGRESS_BLOCK",
	},
}
