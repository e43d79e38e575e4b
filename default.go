package nlcodec

import (
	"fmt"
)

// DefaultNla keeps an attribute this package does not model. Type is the
// raw wire type with its flag bits, so emitting a DefaultNla reproduces the
// bytes it was parsed from.
type DefaultNla struct {
	Type uint16
	Data []byte
}

// ParseDefaultNla never fails.
func ParseDefaultNla(nla NlaBuffer) DefaultNla {
	return DefaultNla{
		Type: nla.RawKind(),
		Data: ParseBytes(nla.Value()),
	}
}

func (self DefaultNla) Kind() uint16 {
	return self.Type
}

// Field returns the type without flags.
func (self DefaultNla) Field() uint16 {
	return self.Type & NLA_TYPE_MASK
}

func (self DefaultNla) ValueLen() int {
	return len(self.Data)
}

func (self DefaultNla) EmitValue(b []byte) {
	copy(b, self.Data)
}

func (self DefaultNla) String() string {
	return fmt.Sprintf("%d: %x", self.Field(), self.Data)
}
