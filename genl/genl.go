// Package genl has the generic netlink header and the nlctrl family, the
// controller that announces every other family.
package genl

import (
	"fmt"

	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

const SizeofGenlMsghdr = 0x04

var GENL_HDRLEN int = nlcodec.NLMSG_ALIGN(SizeofGenlMsghdr)

const (
	GENL_ADMIN_PERM = 1 << iota
	GENL_CMD_CAP_DO
	GENL_CMD_CAP_DUMP
	GENL_CMD_CAP_HASPOL
	GENL_UNS_ADMIN_PERM
)

const (
	GENL_ID_GENERATE = 0
	GENL_ID_CTRL     = 0x10
)

var (
	genlCmd     = nlcodec.Field{Start: 0, End: 1}
	genlVersion = nlcodec.Field{Start: 1, End: 2}
)

// GenlHeader is struct genlmsghdr.
type GenlHeader struct {
	Cmd     uint8
	Version uint8
}

func ParseGenlHeader(b []byte) (GenlHeader, error) {
	if buf, err := nlcodec.NewCheckedBuffer(b, SizeofGenlMsghdr); err != nil {
		return GenlHeader{}, errors.Wrap(err, "invalid genlmsghdr")
	} else {
		return GenlHeader{
			Cmd:     buf.Uint8(genlCmd),
			Version: buf.Uint8(genlVersion),
		}, nil
	}
}

func (self GenlHeader) BufferLen() int {
	return SizeofGenlMsghdr
}

func (self GenlHeader) Emit(b []byte) {
	clear(b[:SizeofGenlMsghdr])
	buf := nlcodec.NewBuffer(b)
	buf.SetUint8(genlCmd, self.Cmd)
	buf.SetUint8(genlVersion, self.Version)
}

func (self GenlHeader) String() string {
	return fmt.Sprintf("{cmd=%d version=%d}", self.Cmd, self.Version)
}

// GenlMessage is a message of a family this package does not model: the
// header, then the family header and attributes as bytes.
type GenlMessage struct {
	Header  GenlHeader
	Payload []byte
}

func ParseGenlMessage(b []byte) (*GenlMessage, error) {
	if hdr, err := ParseGenlHeader(b); err != nil {
		return nil, err
	} else {
		return &GenlMessage{
			Header:  hdr,
			Payload: nlcodec.ParseBytes(b[SizeofGenlMsghdr:]),
		}, nil
	}
}

func (self *GenlMessage) BufferLen() int {
	return SizeofGenlMsghdr + len(self.Payload)
}

func (self *GenlMessage) Emit(b []byte) {
	self.Header.Emit(b[:SizeofGenlMsghdr])
	copy(b[SizeofGenlMsghdr:], self.Payload)
}
