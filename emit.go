package nlcodec

import (
	"fmt"
	"math"
)

// Nla is implemented by every attribute value.
//
// Kind returns the wire type, flag bits included where the attribute needs
// them. ValueLen is the unpadded value length. EmitValue writes exactly
// ValueLen bytes into a slice of that length.
type Nla interface {
	Kind() uint16
	ValueLen() int
	EmitValue([]byte)
}

// Emitable is implemented by headers and messages. Emit writes exactly
// BufferLen bytes; the caller sizes the buffer.
type Emitable interface {
	BufferLen() int
	Emit([]byte)
}

// NlaBufferLen is the space nla takes in a stream, padding included.
func NlaBufferLen(nla Nla) int {
	return NLA_ALIGN(NLA_HDRLEN + nla.ValueLen())
}

// EmitNla writes header, value and zero padding of nla to the front of b
// and returns the number of bytes written.
func EmitNla(nla Nla, b []byte) int {
	length := NLA_HDRLEN + nla.ValueLen()
	if length > math.MaxUint16 {
		panic(fmt.Sprintf("nlcodec: attribute %d too large: %d", nla.Kind(), length))
	}
	padded := NLA_ALIGN(length)
	buf := NewNlaBuffer(b[:padded])
	buf.SetLength(uint16(length))
	buf.SetKind(nla.Kind())
	nla.EmitValue(b[NLA_HDRLEN:length])
	clear(b[length:padded])
	return padded
}

func NlasBufferLen[T Nla](nlas []T) int {
	var n int
	for _, nla := range nlas {
		n += NlaBufferLen(nla)
	}
	return n
}

// EmitNlas writes nlas back to back into b and returns the bytes written.
func EmitNlas[T Nla](nlas []T, b []byte) int {
	var off int
	for _, nla := range nlas {
		off += EmitNla(nla, b[off:])
	}
	return off
}

// Marshal allocates exactly BufferLen bytes and emits e into them.
func Marshal(e Emitable) []byte {
	b := make([]byte, e.BufferLen())
	e.Emit(b)
	return b
}

// indexed is one element of an attribute array: the attributes of each
// element are nested under a type equal to its 1-based position.
type indexed[T Nla] struct {
	index uint16
	nlas  []T
}

func (self indexed[T]) Kind() uint16 {
	return self.index | NLA_F_NESTED
}

func (self indexed[T]) ValueLen() int {
	return NlasBufferLen(self.nlas)
}

func (self indexed[T]) EmitValue(b []byte) {
	EmitNlas(self.nlas, b)
}

// ArrayLen is the value length of an attribute array such as
// CTRL_ATTR_OPS or IFLA_VFINFO_LIST.
func ArrayLen[T Nla](items [][]T) int {
	var n int
	for _, nlas := range items {
		n += NLA_ALIGN(NLA_HDRLEN + NlasBufferLen(nlas))
	}
	return n
}

func EmitArray[T Nla](items [][]T, b []byte) int {
	var off int
	for i, nlas := range items {
		off += EmitNla(indexed[T]{index: uint16(i + 1), nlas: nlas}, b[off:])
	}
	return off
}
