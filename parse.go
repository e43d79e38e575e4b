package nlcodec

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/josharian/native"
	"github.com/pkg/errors"
)

// ParseNlas decodes every attribute of b with parse, keeping wire order and
// duplicates. The first failure aborts the whole list.
func ParseNlas[T any](b []byte, parse func(NlaBuffer) (T, error)) ([]T, error) {
	var ret []T
	it := NewNlaIterator(b)
	for it.Next() {
		if v, err := parse(it.Nla()); err != nil {
			return nil, err
		} else {
			ret = append(ret, v)
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

// ParseNested decodes the value of nla as an attribute list; failures are
// reported as "invalid <name> value" followed by the inner cause.
func ParseNested[T any](nla NlaBuffer, name string, parse func(NlaBuffer) (T, error)) ([]T, error) {
	if ret, err := ParseNlas(nla.Value(), parse); err != nil {
		return nil, errors.Wrapf(err, "invalid %s value", name)
	} else {
		return ret, nil
	}
}

// ParseArray decodes an attribute array: each attribute of b is an element
// whose value is itself an attribute list. The element types are positions
// and are not checked.
func ParseArray[T any](b []byte, parse func(NlaBuffer) (T, error)) ([][]T, error) {
	return ParseNlas(b, func(nla NlaBuffer) ([]T, error) {
		if ret, err := ParseNlas(nla.Value(), parse); err != nil {
			return nil, errors.Wrapf(err, "array element %d", nla.Kind())
		} else if ret == nil {
			return []T{}, nil
		} else {
			return ret, nil
		}
	})
}

func expectLen(b []byte, n int) error {
	if len(b) != n {
		return Errorf(NLE_RANGE, "expected %d bytes, got %d", n, len(b))
	}
	return nil
}

func ParseU8(b []byte) (uint8, error) {
	if err := expectLen(b, 1); err != nil {
		return 0, err
	}
	return b[0], nil
}

func ParseI8(b []byte) (int8, error) {
	v, err := ParseU8(b)
	return int8(v), err
}

func ParseU16(b []byte) (uint16, error) {
	if err := expectLen(b, 2); err != nil {
		return 0, err
	}
	return native.Endian.Uint16(b), nil
}

func ParseU16BE(b []byte) (uint16, error) {
	if err := expectLen(b, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func ParseU32(b []byte) (uint32, error) {
	if err := expectLen(b, 4); err != nil {
		return 0, err
	}
	return native.Endian.Uint32(b), nil
}

func ParseU32BE(b []byte) (uint32, error) {
	if err := expectLen(b, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func ParseI32(b []byte) (int32, error) {
	v, err := ParseU32(b)
	return int32(v), err
}

func ParseU64(b []byte) (uint64, error) {
	if err := expectLen(b, 8); err != nil {
		return 0, err
	}
	return native.Endian.Uint64(b), nil
}

func ParseI64(b []byte) (int64, error) {
	v, err := ParseU64(b)
	return int64(v), err
}

// ParseBool reads a u8 flag. Any non zero value is true.
func ParseBool(b []byte) (bool, error) {
	v, err := ParseU8(b)
	return v != 0, err
}

// ParseFlag checks that a NLA_FLAG style attribute carries no value.
func ParseFlag(b []byte) error {
	return expectLen(b, 0)
}

// ParseString drops one trailing NUL if present. An empty value is an
// empty string.
func ParseString(b []byte) (string, error) {
	if n := len(b); n > 0 && b[n-1] == 0 {
		b = b[:n-1]
	}
	if !utf8.Valid(b) {
		return "", Errorf(NLE_INVAL, "string is not valid UTF-8")
	}
	return string(b), nil
}

func ParseMac(b []byte) ([6]byte, error) {
	var mac [6]byte
	if err := expectLen(b, len(mac)); err != nil {
		return mac, err
	}
	copy(mac[:], b)
	return mac, nil
}

// ParseIn6Addr reads a 16 byte address or token.
func ParseIn6Addr(b []byte) ([16]byte, error) {
	var addr [16]byte
	if err := expectLen(b, len(addr)); err != nil {
		return addr, err
	}
	copy(addr[:], b)
	return addr, nil
}

// ParseBytes copies b. The result is never nil.
func ParseBytes(b []byte) []byte {
	return append([]byte{}, b...)
}

func ParseU32Array(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, Errorf(NLE_RANGE, "length %d is not a multiple of 4", len(b))
	}
	ret := make([]uint32, len(b)/4)
	for i := range ret {
		ret[i] = native.Endian.Uint32(b[i*4:])
	}
	return ret, nil
}

func ParseU64Array(b []byte) ([]uint64, error) {
	if len(b)%8 != 0 {
		return nil, Errorf(NLE_RANGE, "length %d is not a multiple of 8", len(b))
	}
	ret := make([]uint64, len(b)/8)
	for i := range ret {
		ret[i] = native.Endian.Uint64(b[i*8:])
	}
	return ret, nil
}

// Value writers. Each one fills the whole slice it is given.

func PutU8(b []byte, v uint8) {
	b[0] = v
}

func PutU16(b []byte, v uint16) {
	native.Endian.PutUint16(b, v)
}

func PutU16BE(b []byte, v uint16) {
	binary.BigEndian.PutUint16(b, v)
}

func PutU32(b []byte, v uint32) {
	native.Endian.PutUint32(b, v)
}

func PutU32BE(b []byte, v uint32) {
	binary.BigEndian.PutUint32(b, v)
}

func PutI32(b []byte, v int32) {
	native.Endian.PutUint32(b, uint32(v))
}

func PutU64(b []byte, v uint64) {
	native.Endian.PutUint64(b, v)
}

func PutBool(b []byte, v bool) {
	if v {
		b[0] = 1
	} else {
		b[0] = 0
	}
}

// StringLen is the value length of s: the kernel wants the NUL.
func StringLen(s string) int {
	return len(s) + 1
}

func PutString(b []byte, s string) {
	b[copy(b, s)] = 0
}

func PutU32Array(b []byte, v []uint32) {
	for i, x := range v {
		native.Endian.PutUint32(b[i*4:], x)
	}
}

func PutU64Array(b []byte, v []uint64) {
	for i, x := range v {
		native.Endian.PutUint64(b[i*8:], x)
	}
}
