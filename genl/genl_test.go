package genl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hkwi/nlcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nlctrlFamily is the CTRL_CMD_NEWFAMILY reply the kernel sends for
// nlctrl itself, without ops. The kernel does not set NLA_F_NESTED.
var nlctrlFamily = []byte{
	0x01, 0x02, 0x00, 0x00,                                                 // CTRL_CMD_NEWFAMILY, version 2
	0x0b, 0x00, 0x02, 0x00, 0x6e, 0x6c, 0x63, 0x74, 0x72, 0x6c, 0x00, 0x00, // FAMILY_NAME "nlctrl"
	0x06, 0x00, 0x01, 0x00, 0x10, 0x00, 0x00, 0x00,                         // FAMILY_ID
	0x08, 0x00, 0x03, 0x00, 0x02, 0x00, 0x00, 0x00,                         // VERSION
	0x08, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00,                         // HDRSIZE
	0x08, 0x00, 0x05, 0x00, 0x0a, 0x00, 0x00, 0x00,                         // MAXATTR
	0x1c, 0x00, 0x07, 0x00,                                                 // MCAST_GROUPS
	0x18, 0x00, 0x01, 0x00,                                                 // element 1
	0x08, 0x00, 0x02, 0x00, 0x10, 0x00, 0x00, 0x00,                         // MCAST_GRP_ID
	0x0b, 0x00, 0x01, 0x00, 0x6e, 0x6f, 0x74, 0x69, 0x66, 0x79, 0x00, 0x00, // MCAST_GRP_NAME "notify"
}

func TestGenlHeader(t *testing.T) {
	hdr, err := ParseGenlHeader([]byte{0x03, 0x02, 0xaa, 0xbb})
	require.NoError(t, err)
	assert.Equal(t, GenlHeader{Cmd: CTRL_CMD_GETFAMILY, Version: 2}, hdr)
	assert.Equal(t, []byte{0x03, 0x02, 0x00, 0x00}, nlcodec.Marshal(hdr))
	assert.Equal(t, "{cmd=3 version=2}", hdr.String())

	_, err = ParseGenlHeader([]byte{0x03, 0x02})
	assert.True(t, nlcodec.IsTruncated(err))
}

func TestGenlMessage(t *testing.T) {
	b := []byte{0x05, 0x01, 0x00, 0x00, 0x08, 0x00, 0x01, 0x00, 0x2a, 0x00, 0x00, 0x00}
	msg, err := ParseGenlMessage(b)
	require.NoError(t, err)
	assert.Equal(t, GenlHeader{Cmd: 5, Version: 1}, msg.Header)
	assert.Equal(t, b[4:], msg.Payload)
	assert.Equal(t, b, nlcodec.Marshal(msg))
}

func TestParseCtrlMessage(t *testing.T) {
	msg, err := ParseCtrlMessage(nlctrlFamily)
	require.NoError(t, err)
	want := &CtrlMessage{
		Header: GenlHeader{Cmd: CTRL_CMD_NEWFAMILY, Version: 2},
		Nlas: []CtrlNla{
			FamilyName("nlctrl"),
			FamilyId(GENL_ID_CTRL),
			Version(2),
			HdrSize(0),
			MaxAttr(10),
			McastGroups{{McastGrpId(0x10), McastGrpName("notify")}},
		},
	}
	if diff := cmp.Diff(want, msg); diff != "" {
		t.Errorf("ParseCtrlMessage mismatch (-want +got):\n%s", diff)
	}

	family := FamilyOf(msg)
	assert.Equal(t, Family{
		Id:      GENL_ID_CTRL,
		Name:    "nlctrl",
		Version: 2,
		MaxAttr: 10,
		Groups:  []Group{{Id: 0x10, Family: "nlctrl", Name: "notify"}},
	}, family)
	assert.Equal(t, "nlctrl/notify(16)", family.Groups[0].String())
}

func TestOpsArrayEncoding(t *testing.T) {
	ops := Ops{{OpId(3), OpFlags(GENL_CMD_CAP_DUMP)}}
	b := make([]byte, nlcodec.NlaBufferLen(ops))
	nlcodec.EmitNla(ops, b)
	assert.Equal(t, []byte{
		0x18, 0x00, 0x06, 0x80,                         // CTRL_ATTR_OPS, nested
		0x14, 0x00, 0x01, 0x80,                         // element 1, nested
		0x08, 0x00, 0x01, 0x00, 0x03, 0x00, 0x00, 0x00, // OP_ID
		0x08, 0x00, 0x02, 0x00, 0x04, 0x00, 0x00, 0x00, // OP_FLAGS
	}, b)
}

func TestFamilyMessageRoundTrip(t *testing.T) {
	family := Family{
		Id:      0x1c,
		Name:    "nl80211",
		Version: 1,
		MaxAttr: 300,
		Ops: []Op{
			{Id: 5, Flags: GENL_CMD_CAP_DO | GENL_CMD_CAP_DUMP},
			{Id: 6, Flags: GENL_ADMIN_PERM | GENL_CMD_CAP_DO},
		},
		Groups: []Group{
			{Id: 5, Family: "nl80211", Name: "config"},
			{Id: 6, Family: "nl80211", Name: "scan"},
		},
	}
	b := nlcodec.Marshal(family.Message())
	msg, err := ParseCtrlMessage(b)
	require.NoError(t, err)
	if diff := cmp.Diff(family, FamilyOf(msg)); diff != "" {
		t.Errorf("FamilyOf mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, b, nlcodec.Marshal(msg))
	op, ok := family.Op(6)
	assert.True(t, ok)
	assert.Equal(t, uint32(GENL_ADMIN_PERM|GENL_CMD_CAP_DO), op.Flags)
	_, ok = family.Op(7)
	assert.False(t, ok)
}

func TestParseCtrlMessageErrors(t *testing.T) {
	b := []byte{
		0x01, 0x02, 0x00, 0x00,
		0x10, 0x00, 0x06, 0x00,                         // CTRL_ATTR_OPS
		0x0c, 0x00, 0x01, 0x00,                         // element 1
		0x06, 0x00, 0x01, 0x00, 0x03, 0x00, 0x00, 0x00, // OP_ID with 2 bytes
	}
	_, err := ParseCtrlMessage(b)
	require.Error(t, err)
	assert.Equal(t, "invalid ctrl message: invalid CTRL_ATTR_OPS value: array element 1: invalid CTRL_ATTR_OP_ID value: expected 4 bytes, got 2", err.Error())
	assert.Equal(t, nlcodec.NLE_RANGE, nlcodec.CodeOf(err))

	_, err = ParseCtrlMessage(b[:2])
	assert.True(t, nlcodec.IsTruncated(err))
}

func TestCtrlNamesDump(t *testing.T) {
	nodes, err := nlcodec.ParseTree(nlctrlFamily[GENL_HDRLEN:], CtrlNames, nlcodec.DefaultMaxDepth)
	require.NoError(t, err)
	assert.Equal(t,
		"CTRL_ATTR(FAMILY_NAME: 6e6c6374726c00, FAMILY_ID: 1000, VERSION: 02000000, HDRSIZE: 00000000, MAXATTR: 0a000000, "+
			"MCAST_GROUPS: [CTRL_ATTR_MCAST_GRP(ID: 10000000, NAME: 6e6f7469667900)])",
		nlcodec.Dump(nodes, CtrlNames))
}
