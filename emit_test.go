package nlcodec

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testString struct {
	kind  uint16
	value string
}

func (self testString) Kind() uint16       { return self.kind }
func (self testString) ValueLen() int      { return StringLen(self.value) }
func (self testString) EmitValue(b []byte) { PutString(b, self.value) }

type testU32 struct {
	kind  uint16
	value uint32
}

func (self testU32) Kind() uint16       { return self.kind }
func (self testU32) ValueLen() int      { return 4 }
func (self testU32) EmitValue(b []byte) { PutU32(b, self.value) }

func TestEmitNla(t *testing.T) {
	nla := testString{kind: 3, value: "lo"}
	assert.Equal(t, 8, NlaBufferLen(nla))

	// garbage in the padding must not survive
	b := bytes.Repeat([]byte{0xff}, 8)
	n := EmitNla(nla, b)
	assert.Equal(t, 8, n)
	assert.Equal(t, []byte{0x07, 0x00, 0x03, 0x00, 0x6c, 0x6f, 0x00, 0x00}, b)
}

func TestEmitNlaAligned(t *testing.T) {
	b := make([]byte, 8)
	assert.Equal(t, 8, EmitNla(testU32{kind: 4, value: 65536}, b))
	assert.Equal(t, []byte{0x08, 0x00, 0x04, 0x00, 0x00, 0x00, 0x01, 0x00}, b)
}

func TestEmitNlaTooLarge(t *testing.T) {
	nla := DefaultNla{Type: 1, Data: make([]byte, 0x10000)}
	assert.Panics(t, func() { EmitNla(nla, make([]byte, NlaBufferLen(nla))) })
}

func TestEmitNlas(t *testing.T) {
	nlas := []Nla{
		testString{kind: 3, value: "eth0"},
		testU32{kind: 4, value: 1500},
		DefaultNla{Type: 0x8012, Data: []byte{0x04, 0x00, 0x01, 0x00}},
	}
	length := NlasBufferLen(nlas)
	assert.Equal(t, 12+8+8, length)
	b := make([]byte, length)
	assert.Equal(t, length, EmitNlas(nlas, b))

	parsed, err := ParseNlas(b, func(nla NlaBuffer) (DefaultNla, error) {
		return ParseDefaultNla(nla), nil
	})
	require.NoError(t, err)
	want := []DefaultNla{
		{Type: 3, Data: []byte("eth0\x00")},
		{Type: 4, Data: []byte{0xdc, 0x05, 0x00, 0x00}},
		{Type: 0x8012, Data: []byte{0x04, 0x00, 0x01, 0x00}},
	}
	if diff := cmp.Diff(want, parsed); diff != "" {
		t.Errorf("ParseNlas mismatch (-want +got):\n%s", diff)
	}
}

func TestArray(t *testing.T) {
	items := [][]testU32{
		{{kind: 1, value: 10}, {kind: 2, value: 0x0e}},
		{},
		{{kind: 1, value: 3}},
	}
	length := ArrayLen(items)
	assert.Equal(t, 20+4+12, length)
	b := make([]byte, length)
	assert.Equal(t, length, EmitArray(items, b))

	var kinds []uint16
	it := NewNlaIterator(b)
	for it.Next() {
		kinds = append(kinds, it.Nla().RawKind())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []uint16{0x8001, 0x8002, 0x8003}, kinds)

	parsed, err := ParseArray(b, func(nla NlaBuffer) (testU32, error) {
		v, err := ParseU32(nla.Value())
		return testU32{kind: nla.Kind(), value: v}, err
	})
	require.NoError(t, err)
	want := [][]testU32{
		{{kind: 1, value: 10}, {kind: 2, value: 0x0e}},
		{},
		{{kind: 1, value: 3}},
	}
	if diff := cmp.Diff(want, parsed, cmp.AllowUnexported(testU32{})); diff != "" {
		t.Errorf("ParseArray mismatch (-want +got):\n%s", diff)
	}
}

func TestArrayElementError(t *testing.T) {
	b := []byte{
		0x0c, 0x00, 0x01, 0x80,
		0x07, 0x00, 0x01, 0x00, 0x01, 0x02, 0x03, 0x00, // 3 byte u32
	}
	_, err := ParseArray(b, func(nla NlaBuffer) (uint32, error) {
		return ParseU32(nla.Value())
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "array element 1")
	assert.Equal(t, NLE_RANGE, CodeOf(err))
}

func TestMarshal(t *testing.T) {
	assert.Equal(t, []byte{1, 2, 3}, Marshal(Raw{1, 2, 3}))
}
