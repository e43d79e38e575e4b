package nlcodec

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScalars(t *testing.T) {
	u8, err := ParseU8([]byte{0x2a})
	require.NoError(t, err)
	assert.Equal(t, uint8(42), u8)

	i8, err := ParseI8([]byte{0xff})
	require.NoError(t, err)
	assert.Equal(t, int8(-1), i8)

	u16, err := ParseU16([]byte{0x34, 0x12})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	be16, err := ParseU16BE([]byte{0x81, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8100), be16)

	u32, err := ParseU32([]byte{0x00, 0x00, 0x01, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint32(65536), u32)

	be32, err := ParseU32BE([]byte{0x0a, 0x00, 0x00, 0x01})
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0a000001), be32)

	i32, err := ParseI32([]byte{0xfe, 0xff, 0xff, 0xff})
	require.NoError(t, err)
	assert.Equal(t, int32(-2), i32)

	u64, err := ParseU64([]byte{1, 0, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), u64)

	i64, err := ParseI64([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	require.NoError(t, err)
	assert.Equal(t, int64(-1), i64)
}

func TestParseScalarLength(t *testing.T) {
	tests := []struct {
		desc  string
		parse func([]byte) error
		input []byte
	}{
		{"u8 empty", func(b []byte) error { _, err := ParseU8(b); return err }, nil},
		{"u16 short", func(b []byte) error { _, err := ParseU16(b); return err }, []byte{1}},
		{"u32 short", func(b []byte) error { _, err := ParseU32(b); return err }, []byte{1, 2, 3}},
		{"u32 long", func(b []byte) error { _, err := ParseU32(b); return err }, []byte{1, 2, 3, 4, 5}},
		{"u64 short", func(b []byte) error { _, err := ParseU64(b); return err }, []byte{1, 2, 3, 4}},
		{"mac short", func(b []byte) error { _, err := ParseMac(b); return err }, []byte{1, 2, 3, 4, 5}},
		{"flag with value", ParseFlag, []byte{1}},
		{"u32 array", func(b []byte) error { _, err := ParseU32Array(b); return err }, []byte{1, 2, 3, 4, 5, 6}},
		{"u64 array", func(b []byte) error { _, err := ParseU64Array(b); return err }, []byte{1, 2, 3, 4}},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			err := test.parse(test.input)
			require.Error(t, err)
			assert.Equal(t, NLE_RANGE, CodeOf(err))
			assert.True(t, errors.Is(err, NLE_RANGE))
		})
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		input []byte
		want  string
	}{
		{[]byte("lo\x00"), "lo"},
		{[]byte("lo"), "lo"},
		{[]byte{}, ""},
		{[]byte{0}, ""},
		{[]byte("a\x00\x00"), "a\x00"},
	}
	for _, test := range tests {
		got, err := ParseString(test.input)
		require.NoError(t, err)
		assert.Equal(t, test.want, got)
	}
	_, err := ParseString([]byte{0xff, 0xfe, 0x00})
	assert.Equal(t, NLE_INVAL, CodeOf(err))
}

func TestParseBool(t *testing.T) {
	v, err := ParseBool([]byte{2})
	require.NoError(t, err)
	assert.True(t, v)
	v, err = ParseBool([]byte{0})
	require.NoError(t, err)
	assert.False(t, v)
}

func TestParseBytes(t *testing.T) {
	src := []byte{1, 2}
	got := ParseBytes(src)
	src[0] = 9
	assert.Equal(t, []byte{1, 2}, got)
	assert.NotNil(t, ParseBytes(nil))
}

func TestParseArrays(t *testing.T) {
	u32s, err := ParseU32Array([]byte{1, 0, 0, 0, 2, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, u32s)

	b := make([]byte, 8)
	PutU32Array(b, []uint32{3, 4})
	assert.Equal(t, []byte{3, 0, 0, 0, 4, 0, 0, 0}, b)

	u64s, err := ParseU64Array(make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 0}, u64s)
}

func TestParseNested(t *testing.T) {
	outer := []byte{
		0x0c, 0x00, 0x12, 0x80,
		0x07, 0x00, 0x01, 0x00, 0x01, 0x02, 0x03, 0x00,
	}
	nla, err := NewCheckedNlaBuffer(outer)
	require.NoError(t, err)
	_, err = ParseNested(nla, "IFLA_LINKINFO", func(nla NlaBuffer) (uint32, error) {
		if v, err := ParseU32(nla.Value()); err != nil {
			return 0, errors.Wrap(err, "invalid IFLA_INFO_KIND value")
		} else {
			return v, nil
		}
	})
	require.Error(t, err)
	assert.Equal(t, "invalid IFLA_LINKINFO value: invalid IFLA_INFO_KIND value: expected 4 bytes, got 3", err.Error())
}

func TestParseNlasEmpty(t *testing.T) {
	nlas, err := ParseNlas(nil, func(nla NlaBuffer) (DefaultNla, error) {
		return ParseDefaultNla(nla), nil
	})
	require.NoError(t, err)
	assert.Nil(t, nlas)
}

func TestDefaultNlaRoundTrip(t *testing.T) {
	tests := [][]byte{
		{0x08, 0x00, 0xe7, 0x03, 0xde, 0xad, 0xbe, 0xef},
		{0x05, 0x00, 0x2a, 0x40, 0x01, 0x00, 0x00, 0x00},
		{0x0c, 0x00, 0x07, 0x80, 0x08, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00},
		{0x04, 0x00, 0xff, 0x3f},
	}
	for _, input := range tests {
		nla, err := NewCheckedNlaBuffer(input)
		require.NoError(t, err)
		d := ParseDefaultNla(nla)
		assert.Equal(t, nla.Kind(), d.Field())
		assert.Equal(t, nla.RawKind(), d.Kind())
		b := make([]byte, NlaBufferLen(d))
		EmitNla(d, b)
		assert.Equal(t, input, b)
	}
}

func TestDefaultNlaString(t *testing.T) {
	assert.Equal(t, "18: 0102", DefaultNla{Type: 0x8012, Data: []byte{1, 2}}.String())
}
