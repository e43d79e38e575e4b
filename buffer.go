// Package nlcodec translates between raw netlink byte buffers and typed
// values.
//
// The package is organised like libnl: fixed layout headers are read
// through a Buffer and a set of Field ranges, attributes (struct nlattr)
// are walked with an NlaIterator, and every attribute value type
// implements Nla so that a message can compute its exact length before it
// is written. See http://www.infradead.org/~tgr/libnl/ for the concepts.
package nlcodec

import (
	"encoding/binary"

	"github.com/josharian/native"
	"golang.org/x/sys/unix"
)

func align(size, tick int) int {
	return (size + tick - 1) &^ (tick - 1)
}

func NLMSG_ALIGN(size int) int {
	return align(size, unix.NLMSG_ALIGNTO)
}

func NLA_ALIGN(size int) int {
	return align(size, unix.NLA_ALIGNTO)
}

// Field names the half-open byte range [Start, End) of a member in a fixed
// layout structure.
type Field struct {
	Start int
	End   int
}

func (self Field) Len() int {
	return self.End - self.Start
}

// Buffer is a view over a fixed layout structure. The accessors read and
// write the native byte order unless their name says otherwise, and panic
// when the Field lies outside the buffer: length validation belongs to
// NewCheckedBuffer, not to the accessors.
type Buffer []byte

func NewBuffer(b []byte) Buffer {
	return Buffer(b)
}

// NewCheckedBuffer returns b as a Buffer after verifying it holds at least
// min bytes.
func NewCheckedBuffer(b []byte, min int) (Buffer, error) {
	if len(b) < min {
		return nil, Errorf(NLE_MSG_TOOSHORT, "buffer is %d bytes long, expected at least %d", len(b), min)
	}
	return Buffer(b), nil
}

func (self Buffer) Bytes(f Field) []byte {
	return self[f.Start:f.End]
}

// Rest returns everything from start on, used for the variable part that
// trails a fixed header.
func (self Buffer) Rest(start int) []byte {
	return self[start:]
}

func (self Buffer) Uint8(f Field) uint8 {
	return self.Bytes(f)[0]
}

func (self Buffer) Int8(f Field) int8 {
	return int8(self.Uint8(f))
}

func (self Buffer) Uint16(f Field) uint16 {
	return native.Endian.Uint16(self.Bytes(f))
}

func (self Buffer) Int16(f Field) int16 {
	return int16(self.Uint16(f))
}

func (self Buffer) Uint32(f Field) uint32 {
	return native.Endian.Uint32(self.Bytes(f))
}

func (self Buffer) Int32(f Field) int32 {
	return int32(self.Uint32(f))
}

func (self Buffer) Uint64(f Field) uint64 {
	return native.Endian.Uint64(self.Bytes(f))
}

func (self Buffer) Int64(f Field) int64 {
	return int64(self.Uint64(f))
}

// Uint16BE reads a network order field such as a port or a VLAN protocol.
func (self Buffer) Uint16BE(f Field) uint16 {
	return binary.BigEndian.Uint16(self.Bytes(f))
}

func (self Buffer) Uint32BE(f Field) uint32 {
	return binary.BigEndian.Uint32(self.Bytes(f))
}

func (self Buffer) SetUint8(f Field, v uint8) {
	self.Bytes(f)[0] = v
}

func (self Buffer) SetInt8(f Field, v int8) {
	self.SetUint8(f, uint8(v))
}

func (self Buffer) SetUint16(f Field, v uint16) {
	native.Endian.PutUint16(self.Bytes(f), v)
}

func (self Buffer) SetInt16(f Field, v int16) {
	self.SetUint16(f, uint16(v))
}

func (self Buffer) SetUint32(f Field, v uint32) {
	native.Endian.PutUint32(self.Bytes(f), v)
}

func (self Buffer) SetInt32(f Field, v int32) {
	self.SetUint32(f, uint32(v))
}

func (self Buffer) SetUint64(f Field, v uint64) {
	native.Endian.PutUint64(self.Bytes(f), v)
}

func (self Buffer) SetInt64(f Field, v int64) {
	self.SetUint64(f, uint64(v))
}

func (self Buffer) SetUint16BE(f Field, v uint16) {
	binary.BigEndian.PutUint16(self.Bytes(f), v)
}

func (self Buffer) SetUint32BE(f Field, v uint32) {
	binary.BigEndian.PutUint32(self.Bytes(f), v)
}

// SetBytes copies v into f. The lengths must match.
func (self Buffer) SetBytes(f Field, v []byte) {
	dst := self.Bytes(f)
	if len(v) != len(dst) {
		panic("nlcodec: SetBytes length mismatch")
	}
	copy(dst, v)
}
