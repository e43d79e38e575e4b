package nlcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestNetlinkHeader(t *testing.T) {
	hdr := NetlinkHeader{
		Length:   32,
		Type:     unix.RTM_NEWLINK,
		Flags:    unix.NLM_F_MULTI,
		Sequence: 7,
		Port:     1234,
	}
	b := Marshal(hdr)
	assert.Equal(t, []byte{
		0x20, 0x00, 0x00, 0x00,
		0x10, 0x00,
		0x02, 0x00,
		0x07, 0x00, 0x00, 0x00,
		0xd2, 0x04, 0x00, 0x00,
	}, b)
	parsed, err := ParseNetlinkHeader(b)
	require.NoError(t, err)
	assert.Equal(t, hdr, parsed)

	_, err = ParseNetlinkHeader(b[:15])
	assert.True(t, IsTruncated(err))
}

func TestMessageIterator(t *testing.T) {
	first := Envelope{
		Header: NetlinkHeader{Type: unix.RTM_NEWLINK, Sequence: 1},
		Body:   Raw{1, 2, 3, 4, 5},
	}
	done := Envelope{
		Header: NetlinkHeader{Type: unix.NLMSG_DONE, Sequence: 1},
		Body:   Raw{0, 0, 0, 0},
	}
	b := append(Marshal(first), Marshal(done)...)
	assert.Len(t, b, 24+20)
	assert.Equal(t, byte(21), b[0])

	msgs, err := ParseNetlinkMessages(b)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, msgs[0].Payload)
	assert.Equal(t, uint32(21), msgs[0].Header.Length)
	assert.False(t, msgs[0].IsDone())
	assert.True(t, msgs[1].IsDone())
}

func TestMessageIteratorUnpaddedLast(t *testing.T) {
	b := Marshal(Envelope{Header: NetlinkHeader{Type: 100}, Body: Raw{9}})
	msgs, err := ParseNetlinkMessages(b[:17])
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, []byte{9}, msgs[0].Payload)
}

func TestMessageIteratorErrors(t *testing.T) {
	short := Marshal(NetlinkHeader{Length: 8})
	_, err := ParseNetlinkMessages(short)
	assert.Equal(t, NLE_MSG_TOOSHORT, CodeOf(err))

	long := Marshal(NetlinkHeader{Length: 40})
	_, err = ParseNetlinkMessages(long)
	assert.Equal(t, NLE_MSG_TRUNC, CodeOf(err))

	// fewer bytes than a header are ignored
	msgs, err := ParseNetlinkMessages([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestErrorMessage(t *testing.T) {
	msg := Envelope{
		Header: NetlinkHeader{Type: unix.NLMSG_ERROR, Sequence: 3},
		Body: &ErrorMessage{
			Code:   -int32(unix.ENODEV),
			Header: NetlinkHeader{Length: 32, Type: unix.RTM_GETLINK, Sequence: 3},
		},
	}
	msgs, err := ParseNetlinkMessages(Marshal(msg))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.True(t, msgs[0].IsError())

	em, err := msgs[0].ErrorMessage()
	require.NoError(t, err)
	assert.False(t, em.IsAck())
	assert.Equal(t, uint16(unix.RTM_GETLINK), em.Header.Type)
	assert.Equal(t, "NlMsgerr no such device", em.Error())

	ack, err := ParseErrorMessage(make([]byte, 20))
	require.NoError(t, err)
	assert.True(t, ack.IsAck())

	_, err = ParseErrorMessage(make([]byte, 19))
	assert.True(t, IsTruncated(err))

	_, err = NetlinkMessage{Header: NetlinkHeader{Type: unix.RTM_NEWLINK}}.ErrorMessage()
	assert.Equal(t, NLE_MSGTYPE_NOSUPPORT, CodeOf(err))
}

func TestExtendedAck(t *testing.T) {
	payload := make([]byte, 4)
	PutI32(payload, -int32(unix.EINVAL))
	// the whole request is echoed without NLM_F_CAPPED
	payload = append(payload, Marshal(Envelope{
		Header: NetlinkHeader{Type: unix.RTM_NEWLINK, Sequence: 4},
		Body:   Raw{0x01, 0x02, 0x03, 0x04},
	})...)
	offs := make([]byte, 4)
	PutU32(offs, 16)
	attrs := []DefaultNla{
		{Type: NLMSGERR_ATTR_MSG, Data: []byte("bad mtu\x00")},
		{Type: NLMSGERR_ATTR_OFFS, Data: offs},
	}
	tlvs := make([]byte, NlasBufferLen(attrs))
	EmitNlas(attrs, tlvs)
	payload = append(payload, tlvs...)

	b := Marshal(Envelope{
		Header: NetlinkHeader{Type: unix.NLMSG_ERROR, Flags: NLM_F_ACK_TLVS, Sequence: 4},
		Body:   Raw(payload),
	})
	msgs, err := ParseNetlinkMessages(b)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	em, err := msgs[0].ErrorMessage()
	require.NoError(t, err)
	assert.Equal(t, uint16(unix.RTM_NEWLINK), em.Header.Type)
	assert.Equal(t, attrs, em.Nlas)
	msg, ok := em.Msg()
	require.True(t, ok)
	assert.Equal(t, "bad mtu", msg)
	off, ok := em.Offset()
	require.True(t, ok)
	assert.Equal(t, uint32(16), off)
	assert.Equal(t, "NlMsgerr invalid argument: bad mtu", em.Error())

	// without the flag the same bytes are a plain error
	plain, err := ParseErrorMessage(payload)
	require.NoError(t, err)
	assert.Nil(t, plain.Nlas)
	_, ok = plain.Msg()
	assert.False(t, ok)
}

func TestExtendedAckCapped(t *testing.T) {
	ack := &ErrorMessage{
		Header: NetlinkHeader{Length: 100, Type: unix.RTM_NEWLINK, Sequence: 5},
		Nlas:   []DefaultNla{{Type: NLMSGERR_ATTR_MSG, Data: []byte("warn\x00")}},
	}
	b := Marshal(Envelope{
		Header: NetlinkHeader{Type: unix.NLMSG_ERROR, Flags: NLM_F_CAPPED | NLM_F_ACK_TLVS, Sequence: 5},
		Body:   ack,
	})
	msgs, err := ParseNetlinkMessages(b)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	got, err := msgs[0].ErrorMessage()
	require.NoError(t, err)
	assert.Equal(t, ack, got)
	assert.True(t, got.IsAck())
	assert.Equal(t, "ack: warn", got.Error())
}

func TestExtendedAckTruncated(t *testing.T) {
	payload := make([]byte, 4+NLMSG_HDRLEN)
	NetlinkHeader{Length: 64, Type: unix.RTM_NEWLINK}.Emit(payload[4:])
	_, err := ParseExtendedErrorMessage(payload, NLM_F_ACK_TLVS)
	require.Error(t, err)
	assert.Equal(t, NLE_MSG_TRUNC, CodeOf(err))

	bad := append(make([]byte, 4+NLMSG_HDRLEN), 0x02, 0x00, 0x01, 0x00)
	_, err = ParseExtendedErrorMessage(bad, NLM_F_CAPPED|NLM_F_ACK_TLVS)
	assert.ErrorContains(t, err, "invalid extended ACK")
}
