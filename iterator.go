package nlcodec

import (
	"github.com/pkg/errors"
)

// NlaIterator walks an attribute stream. It stops when fewer than a header's
// worth of bytes remain, or at the first malformed attribute; in the latter
// case Err reports why and the rest of the stream is not looked at, since a
// bad length leaves no way to find the next attribute.
//
//	it := NewNlaIterator(b)
//	for it.Next() {
//		nla := it.Nla()
//	}
//	if err := it.Err(); err != nil {
//	}
//
// An iterator can not be rewound; build a new one over the same bytes.
type NlaIterator struct {
	buf []byte
	pos int
	cur NlaBuffer
	err error
}

func NewNlaIterator(b []byte) *NlaIterator {
	return &NlaIterator{buf: b}
}

func (self *NlaIterator) Next() bool {
	if self.err != nil {
		return false
	}
	rest := self.buf[self.pos:]
	if len(rest) < NLA_HDRLEN {
		return false
	}
	if nla, err := NewCheckedNlaBuffer(rest); err != nil {
		self.err = errors.Wrapf(err, "attribute at offset %d", self.pos)
		self.pos = len(self.buf)
		return false
	} else {
		length := int(nla.Length())
		self.cur = NlaBuffer{nla.Buffer[:length:length]}
		// the last attribute may come without its padding
		self.pos += min(NLA_ALIGN(length), len(rest))
		return true
	}
}

// Nla returns the attribute found by the last successful Next. The view
// aliases the input and must not be kept after the input is reused.
func (self *NlaIterator) Nla() NlaBuffer {
	return self.cur
}

func (self *NlaIterator) Err() error {
	return self.err
}

// Offset is the number of bytes consumed so far.
func (self *NlaIterator) Offset() int {
	return self.pos
}
