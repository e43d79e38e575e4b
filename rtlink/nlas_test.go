package rtlink

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hkwi/nlcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emit(nla nlcodec.Nla) []byte {
	b := make([]byte, nlcodec.NlaBufferLen(nla))
	nlcodec.EmitNla(nla, b)
	return b
}

func parse(t *testing.T, b []byte) LinkNla {
	t.Helper()
	buf, err := nlcodec.NewCheckedNlaBuffer(b)
	require.NoError(t, err)
	nla, err := ParseLinkNla(buf)
	require.NoError(t, err)
	return nla
}

func TestIfName(t *testing.T) {
	b := []byte{0x07, 0x00, 0x03, 0x00, 0x6c, 0x6f, 0x00, 0x00}
	nla := parse(t, b)
	assert.Equal(t, IfName("lo"), nla)
	assert.Equal(t, b, emit(nla))
}

func TestEmptyString(t *testing.T) {
	// no NUL at all
	nla := parse(t, []byte{0x04, 0x00, 0x14, 0x00})
	assert.Equal(t, IfAlias(""), nla)
	assert.Equal(t, []byte{0x05, 0x00, 0x14, 0x00, 0x00, 0x00, 0x00, 0x00}, emit(nla))
}

func TestLinkNlaRoundTrip(t *testing.T) {
	tests := []LinkNla{
		Address{0x52, 0x54, 0x00, 0x12, 0x34, 0x56},
		Broadcast{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		IfName("eth0"),
		IfName(""),
		Mtu(1500),
		Link(2),
		Qdisc("noqueue"),
		Cost{1, 2},
		Priority{},
		Master(4),
		TxQueueLen(1000),
		Map{MemStart: 1, MemEnd: 2, BaseAddr: 3, Irq: 4, Dma: 5, Port: 6},
		Weight(7),
		IF_OPER_UP,
		IF_LINK_MODE_DORMANT,
		NetNsPid(1),
		IfAlias("uplink"),
		NumVf(0),
		Group(0),
		NetNsFd(3),
		ExtMask(1),
		Promiscuity(0),
		NumTxQueues(8),
		NumRxQueues(8),
		Carrier(true),
		Carrier(false),
		PhysPortId{0xde, 0xad},
		CarrierChanges(3),
		PhysSwitchId{0xbe, 0xef},
		LinkNetnsId(-1),
		PhysPortName("p0"),
		ProtoDown(true),
		GsoMaxSegs(65535),
		GsoMaxSize(65536),
		CarrierUpCount(2),
		CarrierDownCount(1),
		NewIfIndex(12),
		MinMtu(68),
		MaxMtu(9000),
		Stats{LinkStats[uint32]{RxPackets: 1, TxBytes: 2, RxNohandler: 3}},
		Stats64{LinkStats[uint64]{RxBytes: 1 << 40, TxCompressed: 5}},
		LinkInfo{
			InfoKind("vlan"),
			InfoVlan{
				VlanId(100),
				VlanFlags{Flags: VLAN_FLAG_REORDER_HDR, Mask: 0xffffffff},
				VlanProtocol(ETH_P_8021AD),
			},
		},
		LinkInfo{
			InfoKind("veth"),
			InfoData{0x08, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00},
			InfoSlaveKind("bridge"),
			InfoSlaveData{1, 2, 3},
		},
		AfSpec{
			AfInet{InetConf{1, 0, 1, 1}},
			AfInet6{
				Inet6Flags(0x80000000),
				Inet6Conf{0, 64, 1},
				Inet6CacheInfo{MaxReasmLen: 65535, Tstamp: 1, ReachableTime: 30000, RetransTime: 1000},
				Inet6Stats{1, 2},
				Inet6Icmp6Stats{3},
				Inet6Token{15: 1},
				Inet6AddrGenMode(1),
			},
		},
		Other{nlcodec.DefaultNla{Type: IFLA_XDP | nlcodec.NLA_F_NESTED, Data: []byte{0x05, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00}}},
	}
	for _, want := range tests {
		b := emit(want)
		require.Zero(t, len(b)%4)
		got := parse(t, b)
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%T round trip mismatch (-want +got):\n%s", want, diff)
		}
	}
}

func TestLinkNlaErrors(t *testing.T) {
	tests := []struct {
		desc  string
		input []byte
		msg   string
	}{
		{
			desc:  "mtu too long",
			input: []byte{0x09, 0x00, 0x04, 0x00, 0xdc, 0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			msg:   "invalid IFLA_MTU value: expected 4 bytes, got 5",
		},
		{
			desc:  "carrier empty",
			input: []byte{0x04, 0x00, 0x21, 0x00},
			msg:   "invalid IFLA_CARRIER value: expected 1 bytes, got 0",
		},
		{
			desc:  "bad utf8",
			input: []byte{0x07, 0x00, 0x03, 0x00, 0xff, 0xfe, 0x00, 0x00},
			msg:   "invalid IFLA_IFNAME value: string is not valid UTF-8",
		},
		{
			desc: "vlan id in link info",
			input: []byte{
				0x18, 0x00, 0x12, 0x80,
				0x09, 0x00, 0x01, 0x00, 0x76, 0x6c, 0x61, 0x6e, 0x00, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x02, 0x80,
				0x04, 0x00, 0x01, 0x00, // IFLA_VLAN_ID without value
			},
			msg: "invalid IFLA_LINKINFO value: invalid IFLA_INFO_DATA value: invalid IFLA_VLAN_ID value: expected 2 bytes, got 0",
		},
		{
			desc: "af spec",
			input: []byte{
				0x0c, 0x00, 0x1a, 0x80,
				0x08, 0x00, 0x02, 0x80,
				0x05, 0x00, 0x01, 0x00, // truncated nested header
			},
			msg: "invalid IFLA_AF_SPEC value: invalid AF_INET value",
		},
		{
			desc:  "short stats",
			input: append([]byte{0x5c, 0x00, 0x07, 0x00}, make([]byte, 88)...),
			msg:   "invalid IFLA_STATS value",
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			buf, err := nlcodec.NewCheckedNlaBuffer(test.input)
			require.NoError(t, err)
			_, err = ParseLinkNla(buf)
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.msg)
		})
	}
}

func TestStatsLengths(t *testing.T) {
	// a pre 4.6 kernel sends 23 counters
	value := make([]byte, 23*4)
	value[0] = 9
	stats, err := parseStats(value)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), stats.RxPackets)
	assert.Zero(t, stats.RxNohandler)

	// newer kernels may append counters
	value = make([]byte, 26*8)
	value[23*8] = 4
	value[24*8] = 5
	stats64, err := parseStats64(value)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), stats64.RxNohandler)
	assert.Equal(t, 24*8, stats64.ValueLen())
}

func TestMapLength(t *testing.T) {
	_, err := parseMap(make([]byte, 27))
	require.Error(t, err)
	m, err := parseMap(append(make([]byte, 24), 0x0a, 0x00, 0x03, 0x01))
	require.NoError(t, err)
	assert.Equal(t, Map{Irq: 10, Dma: 3, Port: 1}, m)
	assert.Len(t, emit(m), 4+32)
}

func TestVlanProtocolByteOrder(t *testing.T) {
	assert.Equal(t, []byte{0x06, 0x00, 0x05, 0x00, 0x81, 0x00, 0x00, 0x00}, emit(VlanProtocol(ETH_P_8021Q)))
}

func TestLinkInfoAccessors(t *testing.T) {
	info := LinkInfo{InfoKind("vlan"), InfoVlan{VlanId(7)}}
	assert.Equal(t, "vlan", info.InfoKind())
	vlan, err := info.Vlan()
	require.NoError(t, err)
	assert.Equal(t, InfoVlan{VlanId(7)}, vlan)

	_, err = LinkInfo{InfoKind("dummy")}.Vlan()
	assert.Error(t, err)
	assert.Equal(t, "", LinkInfo{}.InfoKind())
}

func TestUnknownInfoDataKind(t *testing.T) {
	// IFLA_INFO_DATA stays raw when the kind is not modelled
	b := emit(LinkInfo{InfoKind("bond"), InfoData{0x05, 0x00, 0x01, 0x00, 0x04, 0x00, 0x00, 0x00}})
	got := parse(t, b)
	assert.Equal(t, LinkInfo{InfoKind("bond"), InfoData{0x05, 0x00, 0x01, 0x00, 0x04, 0x00, 0x00, 0x00}}, got)
}
