package rtlink

import (
	"testing"

	"github.com/hkwi/nlcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkHeader(t *testing.T) {
	b := []byte{
		0x00,                   // Family
		0x00,                   // Pad
		0x04, 0x03,             // Type: ARPHRD_LOOPBACK
		0x01, 0x00, 0x00, 0x00, // Index
		0x49, 0x00, 0x00, 0x00, // Flags
		0x00, 0x00, 0x00, 0x00, // Change
	}
	hdr, err := ParseLinkHeader(b)
	require.NoError(t, err)
	assert.Equal(t, LinkHeader{
		Family:        0,
		LinkLayerType: ARPHRD_LOOPBACK,
		Index:         1,
		Flags:         IFF_UP | IFF_LOOPBACK | IFF_RUNNING,
	}, hdr)
	assert.True(t, hdr.Flags.Has(IFF_UP|IFF_RUNNING))
	assert.False(t, hdr.Flags.Has(IFF_BROADCAST))
	assert.Equal(t, "LOOPBACK", hdr.LinkLayerType.String())
	assert.Equal(t, b, nlcodec.Marshal(hdr))
}

func TestLinkHeaderShort(t *testing.T) {
	_, err := ParseLinkHeader(make([]byte, 15))
	require.Error(t, err)
	assert.True(t, nlcodec.IsTruncated(err))
	assert.Contains(t, err.Error(), "invalid ifinfomsg")
}

func TestLinkHeaderPad(t *testing.T) {
	b := make([]byte, SizeofIfInfomsg)
	b[1] = 0xff
	hdr, err := ParseLinkHeader(b)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, SizeofIfInfomsg), nlcodec.Marshal(hdr))
}

func TestIFFString(t *testing.T) {
	assert.Equal(t, "IFF_UP,IFF_LOOPBACK,IFF_RUNNING", (IFF_UP | IFF_LOOPBACK | IFF_RUNNING).String())
	assert.Equal(t, "IFF_ECHO,0x80000", (IFF_ECHO | 1<<19).String())
	assert.Equal(t, "", IFF(0).String())
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "ETHER", ARPHRD_ETHER.String())
	assert.Equal(t, "ARPHRD(9999)", LinkLayerType(9999).String())
	assert.True(t, ARPHRD_IEEE80211.Known())
	assert.False(t, LinkLayerType(9999).Known())
	assert.Equal(t, "UP", IF_OPER_UP.String())
	assert.Equal(t, "IF_OPER(7)", OperState(7).String())
	assert.Equal(t, "DORMANT", IF_LINK_MODE_DORMANT.String())
	assert.Equal(t, "IF_LINK_MODE(3)", LinkMode(3).String())
}
