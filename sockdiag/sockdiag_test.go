package sockdiag

import (
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hkwi/nlcodec"
	"github.com/mdlayher/netlink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// listenReply is what ss -tlmi receives for sshd on 127.0.0.1:22.
var listenReply = []byte{
	0x02, 0x0a, 0x00, 0x00, // AF_INET, TCP_LISTEN, timer, retrans
	0x00, 0x16, 0x00, 0x00, // sport 22, dport 0
	0x7f, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // src
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // dst
	0x00, 0x00, 0x00, 0x00, // interface
	0x34, 0x12, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // cookie
	0x00, 0x00, 0x00, 0x00, // expires
	0x00, 0x00, 0x00, 0x00, // rqueue
	0x80, 0x00, 0x00, 0x00, // wqueue
	0x00, 0x00, 0x00, 0x00, // uid
	0x78, 0x56, 0x00, 0x00, // inode
	0x0a, 0x00, 0x04, 0x00, 0x63, 0x75, 0x62, 0x69, 0x63, 0x00, 0x00, 0x00, // CONG "cubic"
	0x05, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, // SHUTDOWN
	0x14, 0x00, 0x01, 0x00, // MEMINFO
	0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x08, 0x00, 0x0f, 0x00, 0x01, 0x00, 0x00, 0x00, // MARK
	0x0c, 0x00, 0x15, 0x00, 0x2a, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // CGROUP_ID
	0x08, 0x00, 0x63, 0x00, 0xde, 0xad, 0xbe, 0xef, // unknown 99
}

func TestInetDiagMessage(t *testing.T) {
	msg, err := ParseInetDiagMessage(listenReply)
	require.NoError(t, err)

	want := &InetDiagMessage{
		Header: InetResponseHeader{
			Family: unix.AF_INET,
			State:  TCP_LISTEN,
			Id: SocketId{
				Sport:  22,
				Src:    [16]byte{0x7f, 0x00, 0x00, 0x01},
				Cookie: [2]uint32{0x1234, 0},
			},
			Wqueue: 128,
			Inode:  0x5678,
		},
		Nlas: []InetDiagNla{
			Congestion("cubic"),
			Shutdown(0),
			MemInfo{Wmem: 4096},
			Mark(1),
			CgroupId(42),
			Other{nlcodec.DefaultNla{Type: 99, Data: []byte{0xde, 0xad, 0xbe, 0xef}}},
		},
	}
	if diff := cmp.Diff(want, msg); diff != "" {
		t.Errorf("ParseInetDiagMessage mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, listenReply, nlcodec.Marshal(msg))

	assert.Equal(t, "LISTEN 127.0.0.1:22 0.0.0.0:0", msg.Header.String())
	cong, ok := msg.Congestion()
	assert.True(t, ok)
	assert.Equal(t, "cubic", cong)
	mem, ok := msg.MemInfo()
	assert.True(t, ok)
	assert.Equal(t, uint32(4096), mem.Wmem)
}

func TestInetDiagMessageThroughMdlayher(t *testing.T) {
	b := nlcodec.Marshal(nlcodec.Envelope{
		Header: nlcodec.NetlinkHeader{Type: SOCK_DIAG_BY_FAMILY, Flags: unix.NLM_F_MULTI, Sequence: 7},
		Body:   nlcodec.Raw(listenReply),
	})
	var m netlink.Message
	require.NoError(t, m.UnmarshalBinary(b))
	assert.Equal(t, netlink.HeaderType(SOCK_DIAG_BY_FAMILY), m.Header.Type)
	assert.Equal(t, netlink.Multi, m.Header.Flags)

	msg, err := ParseInetDiagMessage(m.Data)
	require.NoError(t, err)
	assert.Equal(t, TCP_LISTEN, msg.Header.State)
	assert.Len(t, msg.Nlas, 6)
}

func TestInetRequest(t *testing.T) {
	req := InetRequest{
		Family:   unix.AF_INET,
		Protocol: unix.IPPROTO_TCP,
		Ext:      ExtMask(INET_DIAG_INFO, INET_DIAG_CONG),
		States:   StateMask(TCP_ESTABLISHED, TCP_LISTEN),
		Id:       SocketId{Cookie: NoCookie},
	}
	b := nlcodec.Marshal(req)
	require.Len(t, b, SizeofInetDiagReqV2)
	assert.Equal(t, []byte{0x02, 0x06, 0x0a, 0x00, 0x02, 0x04, 0x00, 0x00}, b[:8])
	assert.Equal(t, make([]byte, 40), b[8:48])
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, b[48:])

	got, err := ParseInetRequest(b)
	require.NoError(t, err)
	assert.Equal(t, req, got)

	// the same dump request built by mdlayher/netlink
	m := netlink.Message{
		Header: netlink.Header{
			Length:   uint32(nlcodec.NLMSG_HDRLEN + SizeofInetDiagReqV2),
			Type:     SOCK_DIAG_BY_FAMILY,
			Flags:    netlink.Request | netlink.Dump,
			Sequence: 1,
		},
		Data: b,
	}
	want, err := m.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, want, nlcodec.Marshal(nlcodec.Envelope{
		Header: nlcodec.NetlinkHeader{Type: SOCK_DIAG_BY_FAMILY, Flags: unix.NLM_F_REQUEST | unix.NLM_F_DUMP, Sequence: 1},
		Body:   req,
	}))
}

func TestSocketIdIPv6(t *testing.T) {
	var id SocketId
	id.SetAddrs(net.ParseIP("2001:db8::1"), net.ParseIP("fe80::2"))
	id.Sport = 443
	id.Dport = 50000
	id.Interface = 3

	b := nlcodec.Marshal(id)
	assert.Equal(t, []byte{0x01, 0xbb, 0xc3, 0x50}, b[:4])
	assert.Equal(t, []byte(net.ParseIP("2001:db8::1")), b[4:20])
	assert.Equal(t, []byte{0x03, 0x00, 0x00, 0x00}, b[36:40])

	got, err := ParseSocketId(b)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.True(t, net.ParseIP("fe80::2").Equal(got.Destination(unix.AF_INET6)))

	hdr := InetResponseHeader{Family: unix.AF_INET6, State: TCP_ESTABLISHED, Id: got}
	assert.Equal(t, "ESTAB [2001:db8::1]:443 [fe80::2]:50000", hdr.String())
}

func TestParseErrors(t *testing.T) {
	_, err := ParseInetDiagMessage(listenReply[:SizeofInetDiagMsg-1])
	require.Error(t, err)
	assert.True(t, nlcodec.IsTruncated(err))

	_, err = ParseInetRequest(make([]byte, 40))
	assert.Equal(t, nlcodec.NLE_MSG_TOOSHORT, nlcodec.CodeOf(err))

	tests := []struct {
		desc string
		nlas []byte
		msg  string
	}{
		{
			desc: "short meminfo",
			nlas: []byte{0x0c, 0x00, 0x01, 0x00, 0, 0, 0, 0, 0, 0, 0, 0},
			msg:  "invalid inet_diag message: invalid INET_DIAG_MEMINFO value: expected 16 bytes, got 8",
		},
		{
			desc: "ragged skmeminfo",
			nlas: []byte{0x0a, 0x00, 0x07, 0x00, 0, 0, 0, 0, 0, 0, 0, 0},
			msg:  "invalid inet_diag message: invalid INET_DIAG_SKMEMINFO value: length 6 is not a multiple of 4",
		},
		{
			desc: "wide tos",
			nlas: []byte{0x06, 0x00, 0x05, 0x00, 0, 0, 0, 0},
			msg:  "invalid inet_diag message: invalid INET_DIAG_TOS value: expected 1 bytes, got 2",
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			b := append(append([]byte{}, listenReply[:SizeofInetDiagMsg]...), test.nlas...)
			_, err := ParseInetDiagMessage(b)
			require.Error(t, err)
			assert.Equal(t, nlcodec.NLE_RANGE, nlcodec.CodeOf(err))
			assert.Equal(t, test.msg, err.Error())
		})
	}
}

func TestTcpState(t *testing.T) {
	tests := []struct {
		state TcpState
		name  string
		known bool
	}{
		{0, "UNKNOWN(0)", false},
		{TCP_ESTABLISHED, "ESTAB", true},
		{TCP_CLOSE, "UNCONN", true},
		{TCP_TIME_WAIT, "TIME-WAIT", true},
		{TCP_NEW_SYN_RECV, "NEW-SYN-RECV", true},
		{TCP_BOUND_INACTIVE, "BOUND-INACTIVE", true},
		{14, "UNKNOWN(14)", false},
		{255, "UNKNOWN(255)", false},
	}
	for _, test := range tests {
		assert.Equal(t, test.name, test.state.String())
		assert.Equal(t, test.known, test.state.Known(), "state %d", test.state)
	}
	// every state byte survives a header round trip
	for code := 0; code < 256; code++ {
		hdr := InetResponseHeader{State: TcpState(code)}
		got, err := ParseInetResponseHeader(nlcodec.Marshal(hdr))
		require.NoError(t, err)
		require.Equal(t, hdr.State, got.State)
	}
}

func TestMasks(t *testing.T) {
	assert.Equal(t, uint8(1<<(INET_DIAG_SKMEMINFO-1)), ExtMask(INET_DIAG_SKMEMINFO))
	assert.Equal(t, uint8(0), ExtMask(INET_DIAG_NONE, INET_DIAG_MARK, INET_DIAG_CGROUP_ID))
	assert.Equal(t, uint32(TCP_ALL), StateMask(0, TCP_ESTABLISHED, TCP_SYN_SENT, TCP_SYN_RECV,
		TCP_FIN_WAIT1, TCP_FIN_WAIT2, TCP_TIME_WAIT, TCP_CLOSE, TCP_CLOSE_WAIT,
		TCP_LAST_ACK, TCP_LISTEN, TCP_CLOSING))
}

func TestNamesDump(t *testing.T) {
	nlas := listenReply[SizeofInetDiagMsg+12+8+20 : SizeofInetDiagMsg+12+8+20+8]
	nodes, err := nlcodec.ParseTree(nlas, Names, nlcodec.DefaultMaxDepth)
	require.NoError(t, err)
	assert.Equal(t, "INET_DIAG(MARK: 01000000)", nlcodec.Dump(nodes, Names))
}
