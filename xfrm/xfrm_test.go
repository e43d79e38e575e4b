package xfrm

import (
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hkwi/nlcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink/nl"
	"golang.org/x/sys/unix"
)

func testSelector() Selector {
	sel := Selector{
		Dport:     443,
		DportMask: 0xffff,
		Proto:     unix.IPPROTO_TCP,
		Ifindex:   3,
		User:      1000,
	}
	_, src, _ := net.ParseCIDR("10.0.0.0/24")
	_, dst, _ := net.ParseCIDR("192.168.1.0/24")
	sel.SetAddrs(src, dst)
	return sel
}

func TestSelectorLayout(t *testing.T) {
	b := nlcodec.Marshal(testSelector())
	require.Len(t, b, SizeofXfrmSelector)
	assert.Equal(t, []byte{192, 168, 1, 0}, b[0:4])
	assert.Equal(t, make([]byte, 12), b[4:16])
	assert.Equal(t, []byte{10, 0, 0, 0}, b[16:20])
	assert.Equal(t, []byte{
		0x01, 0xbb,             // Dport, big endian
		0xff, 0xff,             // DportMask
		0x00, 0x00,             // Sport
		0x00, 0x00,             // SportMask
		0x02, 0x00,             // Family: AF_INET
		0x18,                   // PrefixlenD
		0x18,                   // PrefixlenS
		0x06,                   // Proto
		0x00, 0x00, 0x00,       // Padding
		0x03, 0x00, 0x00, 0x00, // Ifindex
		0xe8, 0x03, 0x00, 0x00, // User
	}, b[32:])

	sel, err := ParseSelector(b)
	require.NoError(t, err)
	assert.Equal(t, testSelector(), sel)
	assert.Equal(t, "192.168.1.0/24", sel.Destination().String())
	assert.Equal(t, "src 10.0.0.0/24 dst 192.168.1.0/24 proto 6 sport 0 dport 443", sel.String())

	_, err = ParseSelector(b[:55])
	assert.True(t, nlcodec.IsTruncated(err))
}

func TestSelectorIPv6(t *testing.T) {
	var sel Selector
	_, src, _ := net.ParseCIDR("2001:db8::/32")
	_, dst, _ := net.ParseCIDR("::/0")
	sel.SetAddrs(src, dst)
	assert.Equal(t, uint16(unix.AF_INET6), sel.Family)
	assert.Equal(t, uint8(32), sel.PrefixlenS)
	assert.Equal(t, "2001:db8::/32", sel.Source().String())
	assert.Equal(t, "::/0", sel.Destination().String())
}

// vishvananda/netlink keeps ports in network order in memory and
// serializes the struct as is.
func TestInteropSelector(t *testing.T) {
	want := testSelector()
	vsel := nl.XfrmSelector{
		Dport:      nl.Swap16(want.Dport),
		DportMask:  nl.Swap16(want.DportMask),
		Family:     want.Family,
		PrefixlenD: want.PrefixlenD,
		PrefixlenS: want.PrefixlenS,
		Proto:      want.Proto,
		Ifindex:    want.Ifindex,
		User:       want.User,
	}
	vsel.Daddr.FromIP(net.IPv4(192, 168, 1, 0))
	vsel.Saddr.FromIP(net.IPv4(10, 0, 0, 0))

	id := nl.XfrmUserpolicyId{Sel: vsel, Index: 0x108, Dir: XFRM_POLICY_FWD}
	b := append([]byte{}, id.Serialize()...)
	mark := nl.XfrmMark{Value: 0x10, Mask: 0xff}
	b = append(b, nl.NewRtAttr(nl.XFRMA_MARK, mark.Serialize()).Serialize()...)

	msg, err := ParsePolicyIdMessage(b)
	require.NoError(t, err)
	assert.Equal(t, want, msg.Id.Sel)
	assert.Equal(t, uint32(0x108), msg.Id.Index)
	assert.Equal(t, uint8(XFRM_POLICY_FWD), msg.Id.Dir)
	assert.Equal(t, []XfrmNla{Mark{Value: 0x10, Mask: 0xff}}, msg.Nlas)
	assert.Equal(t, b, nlcodec.Marshal(msg))
}

func TestPolicyIdMessageRoundTrip(t *testing.T) {
	msg := &PolicyIdMessage{
		Id: UserPolicyId{Sel: testSelector(), Index: 7, Dir: XFRM_POLICY_OUT},
		Nlas: []XfrmNla{
			SrcAddr{10, 0, 0, 1},
			Coaddr{0x20, 0x01, 0x0d, 0xb8, 15: 1},
			Mark{Value: 1, Mask: 0xffffffff},
			IfId(42),
			PolicyType(XFRM_POLICY_TYPE_SUB),
			SecContext{Alg: 1, Doi: 1, Context: []byte("system_u:object_r:ipsec_spd_t:s0")},
			SetMark(5),
			SetMarkMask(0xf),
			ReplayThresh(100),
			EtimerThresh(10),
			LastUsed(1700000000),
			Tfcpad(64),
			SaExtraFlags(1),
			Proto(unix.IPPROTO_ESP),
			Other{nlcodec.DefaultNla{Type: XFRMA_OFFLOAD_DEV, Data: []byte{1, 2, 3, 4, 5}}},
		},
	}
	b := nlcodec.Marshal(msg)
	got, err := ParsePolicyIdMessage(b)
	require.NoError(t, err)
	if diff := cmp.Diff(msg, got); diff != "" {
		t.Errorf("ParsePolicyIdMessage mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, b, nlcodec.Marshal(got))
}

func TestSecContextLayout(t *testing.T) {
	nla := SecContext{Alg: 1, Doi: 2, Context: []byte("ab")}
	b := make([]byte, nlcodec.NlaBufferLen(nla))
	nlcodec.EmitNla(nla, b)
	assert.Equal(t, []byte{
		0x0e, 0x00, 0x08, 0x00, // XFRMA_SEC_CTX header
		0x0a, 0x00,             // len
		0x08, 0x00,             // exttype
		0x01,                   // ctx_alg
		0x02,                   // ctx_doi
		0x02, 0x00,             // ctx_len
		0x61, 0x62,             // "ab"
		0x00, 0x00,             // Padding
	}, b)
}

func TestParseXfrmNlaErrors(t *testing.T) {
	tests := []struct {
		desc string
		nla  []byte
		msg  string
	}{
		{
			desc: "short mark",
			nla:  []byte{0x08, 0x00, 0x15, 0x00, 0x01, 0x00, 0x00, 0x00},
			msg:  "invalid policy id message: invalid XFRMA_MARK value: expected 8 bytes, got 4",
		},
		{
			desc: "short source address",
			nla:  []byte{0x08, 0x00, 0x0d, 0x00, 0x0a, 0x00, 0x00, 0x01},
			msg:  "invalid policy id message: invalid XFRMA_SRCADDR value: expected 16 bytes, got 4",
		},
		{
			desc: "context past the attribute",
			nla: []byte{
				0x0c, 0x00, 0x08, 0x00,
				0x0c, 0x00, 0x08, 0x00, 0x01, 0x01, 0x04, 0x00,
			},
			msg: "invalid policy id message: invalid XFRMA_SEC_CTX value: context length 4 exceeds the 0 bytes available",
		},
		{
			desc: "short policy type",
			nla:  []byte{0x05, 0x00, 0x10, 0x00, 0x01, 0x00, 0x00, 0x00},
			msg:  "invalid policy id message: invalid XFRMA_POLICY_TYPE value: expected at least 6 bytes, got 1",
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			b := append(nlcodec.Marshal(UserPolicyId{}), test.nla...)
			_, err := ParsePolicyIdMessage(b)
			require.Error(t, err)
			assert.Equal(t, test.msg, err.Error())
		})
	}
}
