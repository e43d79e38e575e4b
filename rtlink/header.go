package rtlink

import (
	"fmt"

	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// SizeofIfInfomsg is the length of struct ifinfomsg.
const SizeofIfInfomsg = unix.SizeofIfInfomsg

var (
	ifiFamily = nlcodec.Field{Start: 0, End: 1}
	ifiType   = nlcodec.Field{Start: 2, End: 4}
	ifiIndex  = nlcodec.Field{Start: 4, End: 8}
	ifiFlags  = nlcodec.Field{Start: 8, End: 12}
	ifiChange = nlcodec.Field{Start: 12, End: 16}
)

// LinkHeader is struct ifinfomsg. The pad byte after Family is written as
// zero and ignored on parse.
type LinkHeader struct {
	Family        uint8
	LinkLayerType LinkLayerType
	Index         uint32
	Flags         IFF
	ChangeMask    IFF
}

func ParseLinkHeader(b []byte) (LinkHeader, error) {
	if buf, err := nlcodec.NewCheckedBuffer(b, SizeofIfInfomsg); err != nil {
		return LinkHeader{}, errors.Wrap(err, "invalid ifinfomsg")
	} else {
		return LinkHeader{
			Family:        buf.Uint8(ifiFamily),
			LinkLayerType: LinkLayerType(buf.Uint16(ifiType)),
			Index:         buf.Uint32(ifiIndex),
			Flags:         IFF(buf.Uint32(ifiFlags)),
			ChangeMask:    IFF(buf.Uint32(ifiChange)),
		}, nil
	}
}

func (self LinkHeader) BufferLen() int {
	return SizeofIfInfomsg
}

func (self LinkHeader) Emit(b []byte) {
	buf := nlcodec.NewBuffer(b)
	buf.SetUint8(ifiFamily, self.Family)
	buf[1] = 0
	buf.SetUint16(ifiType, uint16(self.LinkLayerType))
	buf.SetUint32(ifiIndex, self.Index)
	buf.SetUint32(ifiFlags, uint32(self.Flags))
	buf.SetUint32(ifiChange, uint32(self.ChangeMask))
}

func (self LinkHeader) String() string {
	return fmt.Sprintf("{family=%d type=%v index=%d flags=%v change=%v}",
		self.Family, self.LinkLayerType, self.Index, self.Flags, self.ChangeMask)
}
