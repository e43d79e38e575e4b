package nlcodec

import (
	"golang.org/x/sys/unix"
)

const NLA_HDRLEN = 4

const (
	NLA_F_NESTED        = unix.NLA_F_NESTED
	NLA_F_NET_BYTEORDER = unix.NLA_F_NET_BYTEORDER
)

const NLA_TYPE_MASK = ^uint16(NLA_F_NESTED | NLA_F_NET_BYTEORDER)

var (
	nlaLen  = Field{0, 2}
	nlaType = Field{2, 4}
)

// NlaBuffer is a view over one struct nlattr: a 2 byte length which counts
// the header but not the trailing padding, a 2 byte type whose top bits
// carry NLA_F_NESTED and NLA_F_NET_BYTEORDER, and the value.
type NlaBuffer struct {
	Buffer
}

func NewNlaBuffer(b []byte) NlaBuffer {
	return NlaBuffer{Buffer(b)}
}

// NewCheckedNlaBuffer verifies that b holds a header and that the declared
// length fits in b. Padding after the declared length is not required.
func NewCheckedNlaBuffer(b []byte) (NlaBuffer, error) {
	if buf, err := NewCheckedBuffer(b, NLA_HDRLEN); err != nil {
		return NlaBuffer{}, err
	} else {
		self := NlaBuffer{buf}
		length := int(self.Length())
		if length < NLA_HDRLEN {
			return NlaBuffer{}, Errorf(NLE_RANGE, "attribute length %d is shorter than the attribute header", length)
		}
		if length > len(b) {
			return NlaBuffer{}, Errorf(NLE_MSG_TRUNC, "attribute length %d exceeds the %d bytes available", length, len(b))
		}
		return self, nil
	}
}

func (self NlaBuffer) Length() uint16 {
	return self.Uint16(nlaLen)
}

// RawKind returns the type including the flag bits.
func (self NlaBuffer) RawKind() uint16 {
	return self.Uint16(nlaType)
}

// Kind returns the type with the flag bits masked off.
func (self NlaBuffer) Kind() uint16 {
	return self.RawKind() & NLA_TYPE_MASK
}

func (self NlaBuffer) Nested() bool {
	return self.RawKind()&NLA_F_NESTED != 0
}

func (self NlaBuffer) NetByteOrder() bool {
	return self.RawKind()&NLA_F_NET_BYTEORDER != 0
}

// Value returns the Length()-4 bytes after the header. Padding is excluded.
func (self NlaBuffer) Value() []byte {
	return self.Buffer[NLA_HDRLEN:self.Length()]
}

// SetLength stores the unpadded length, header included.
func (self NlaBuffer) SetLength(length uint16) {
	self.SetUint16(nlaLen, length)
}

// SetKind stores the type verbatim; flag bits are the caller's business.
func (self NlaBuffer) SetKind(kind uint16) {
	self.SetUint16(nlaType, kind)
}

// SetValue copies v right after the header. The length is left untouched.
func (self NlaBuffer) SetValue(v []byte) {
	copy(self.Buffer[NLA_HDRLEN:NLA_HDRLEN+len(v)], v)
}
