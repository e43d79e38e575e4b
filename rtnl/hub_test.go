package rtnl

import (
	"testing"
	"time"

	"github.com/hkwi/nlcodec"
	"github.com/hkwi/nlcodec/rtlink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type recorder struct {
	msgs []Message
}

func (self *recorder) RtListen(msg Message) {
	self.msgs = append(self.msgs, msg)
}

func link(name string) *rtlink.LinkMessage {
	return &rtlink.LinkMessage{Nlas: []rtlink.LinkNla{rtlink.IfName(name)}}
}

func TestHub(t *testing.T) {
	var b []byte
	b = append(b, envelope(t, unix.RTM_NEWLINK, 0, link("veth0"))...)
	b = append(b, envelope(t, unix.RTM_NEWLINK, 7, link("lo"))...)
	b = append(b, envelope(t, unix.RTM_NEWLINK, 9, link("stray"))...)
	b = append(b, envelope(t, unix.RTM_NEWLINK, 0, nlcodec.Raw{1, 2})...)
	b = append(b, envelope(t, unix.NLMSG_DONE, 7, nlcodec.Raw{0, 0, 0, 0})...)

	hub := NewHub()
	rec := &recorder{}
	hub.Add(rec)
	ch := hub.Expect(7)
	require.True(t, hub.Pending(7))

	errc := make(chan error, 1)
	go func() {
		errc <- hub.Dispatch(b)
	}()
	var replies []Message
	for msg := range ch {
		replies = append(replies, msg)
	}
	require.NoError(t, <-errc)

	require.Len(t, replies, 2)
	assert.Equal(t, link("lo"), replies[0].Body)
	assert.Equal(t, uint16(unix.NLMSG_DONE), replies[1].Header.Type)
	assert.False(t, hub.Pending(7))

	require.Len(t, rec.msgs, 2)
	assert.Equal(t, link("veth0"), rec.msgs[0].Body)
	assert.NoError(t, rec.msgs[0].Error)
	assert.Nil(t, rec.msgs[1].Body)
	assert.True(t, nlcodec.IsTruncated(rec.msgs[1].Error))

	hub.Remove(rec)
	require.NoError(t, hub.Dispatch(envelope(t, unix.RTM_DELLINK, 0, link("veth0"))))
	assert.Len(t, rec.msgs, 2)
}

func TestHubMalformedBuffer(t *testing.T) {
	hub := NewHub()
	rec := &recorder{}
	hub.Add(rec)

	b := envelope(t, unix.RTM_NEWLINK, 0, link("eth0"))
	b = append(b, 0x40, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00) // declared 64 bytes
	b = append(b, make([]byte, 8)...)
	err := hub.Dispatch(b)
	require.Error(t, err)
	assert.True(t, nlcodec.IsTruncated(err))
	assert.Len(t, rec.msgs, 1)
}

func TestHubCancel(t *testing.T) {
	var b []byte
	b = append(b, envelope(t, unix.RTM_NEWLINK, 5, link("lo"))...)
	b = append(b, envelope(t, unix.RTM_NEWLINK, 5, link("eth0"))...)
	b = append(b, envelope(t, unix.NLMSG_DONE, 5, nlcodec.Raw{0, 0, 0, 0})...)

	hub := NewHub()
	ch := hub.Expect(5)
	errc := make(chan error, 1)
	go func() {
		errc <- hub.Dispatch(b)
	}()
	msg := <-ch
	assert.Equal(t, link("lo"), msg.Body)

	// the reader gives up halfway through the dump
	hub.Cancel(5)
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Dispatch still blocked after Cancel")
	}
	assert.False(t, hub.Pending(5))

	// late replies are dropped and a second Cancel does nothing
	require.NoError(t, hub.Dispatch(envelope(t, unix.NLMSG_DONE, 5, nlcodec.Raw{0, 0, 0, 0})))
	hub.Cancel(5)
}
