package audit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hkwi/nlcodec"
	"github.com/josharian/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const auditArchX86_64 = 0xc000003e

// etcRule is auditctl -a always,exit -F arch=b64 -S openat -F dir=/etc -k etc.
func etcRule() *RuleMessage {
	rule := &RuleMessage{
		Flags:  AUDIT_FILTER_EXIT,
		Action: AUDIT_ALWAYS,
		Fields: []RuleField{
			{Type: AUDIT_ARCH, Op: AUDIT_EQUAL, Value: auditArchX86_64},
			{Type: AUDIT_DIR, Op: AUDIT_EQUAL, Str: "/etc"},
			{Type: AUDIT_FILTERKEY, Op: AUDIT_EQUAL, Str: "etc"},
		},
	}
	rule.Syscalls.Set(257)
	return rule
}

func u32at(b []byte, off int) uint32 {
	return native.Endian.Uint32(b[off:])
}

func TestRuleLayout(t *testing.T) {
	b := nlcodec.Marshal(etcRule())
	require.Len(t, b, SizeofAuditRuleData+7)

	assert.Equal(t, uint32(AUDIT_FILTER_EXIT), u32at(b, 0))
	assert.Equal(t, uint32(AUDIT_ALWAYS), u32at(b, 4))
	assert.Equal(t, uint32(3), u32at(b, 8))
	assert.Equal(t, uint32(1<<1), u32at(b, 12+8*4), "openat is bit 1 of mask word 8")

	assert.Equal(t, []uint32{AUDIT_ARCH, AUDIT_DIR, AUDIT_FILTERKEY}, []uint32{u32at(b, 268), u32at(b, 272), u32at(b, 276)})
	assert.Equal(t, []uint32{auditArchX86_64, 4, 3}, []uint32{u32at(b, 524), u32at(b, 528), u32at(b, 532)})
	assert.Equal(t, []uint32{AUDIT_EQUAL, AUDIT_EQUAL, AUDIT_EQUAL}, []uint32{u32at(b, 780), u32at(b, 784), u32at(b, 788)})
	assert.Equal(t, uint32(7), u32at(b, 1036))
	assert.Equal(t, "/etcetc", string(b[SizeofAuditRuleData:]))
}

func TestRuleRoundTrip(t *testing.T) {
	tests := []struct {
		desc string
		rule *RuleMessage
	}{
		{"watch rule", etcRule()},
		{"no fields", &RuleMessage{Flags: AUDIT_FILTER_TASK, Action: AUDIT_NEVER}},
		{
			desc: "all selinux string fields",
			rule: &RuleMessage{
				Flags:  AUDIT_FILTER_EXIT | AUDIT_FILTER_PREPEND,
				Action: AUDIT_ALWAYS,
				Fields: []RuleField{
					{Type: AUDIT_SUBJ_USER, Op: AUDIT_EQUAL, Str: "system_u"},
					{Type: AUDIT_SUBJ_ROLE, Op: AUDIT_NOT_EQUAL, Str: "system_r"},
					{Type: AUDIT_SUBJ_TYPE, Op: AUDIT_EQUAL, Str: "sshd_t"},
					{Type: AUDIT_SUBJ_SEN, Op: AUDIT_EQUAL, Str: "s0"},
					{Type: AUDIT_SUBJ_CLR, Op: AUDIT_EQUAL, Str: "s0:c0.c1023"},
					{Type: AUDIT_OBJ_USER, Op: AUDIT_EQUAL, Str: "unconfined_u"},
					{Type: AUDIT_OBJ_ROLE, Op: AUDIT_EQUAL, Str: "object_r"},
					{Type: AUDIT_OBJ_TYPE, Op: AUDIT_EQUAL, Str: "shadow_t"},
					{Type: AUDIT_OBJ_LEV_LOW, Op: AUDIT_EQUAL, Str: "s0"},
					{Type: AUDIT_OBJ_LEV_HIGH, Op: AUDIT_EQUAL, Str: "s15"},
					{Type: AUDIT_WATCH, Op: AUDIT_EQUAL, Str: "/etc/shadow"},
					{Type: AUDIT_EXE, Op: AUDIT_EQUAL, Str: "/usr/bin/passwd"},
					{Type: AUDIT_LOGINUID, Op: AUDIT_GREATER_THAN_OR_EQUAL, Value: 1000},
					{Type: AUDIT_PERM, Op: AUDIT_BIT_MASK, Value: 0x2},
					{Type: AUDIT_FILTERKEY, Op: AUDIT_EQUAL, Str: ""},
				},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			b := nlcodec.Marshal(test.rule)
			got, err := ParseRuleMessage(b)
			require.NoError(t, err)
			if diff := cmp.Diff(test.rule, got); diff != "" {
				t.Errorf("ParseRuleMessage mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, b, nlcodec.Marshal(got))
		})
	}
}

func TestRuleInEnvelope(t *testing.T) {
	b := nlcodec.Marshal(nlcodec.Envelope{
		Header: nlcodec.NetlinkHeader{Type: AUDIT_ADD_RULE, Sequence: 3},
		Body:   etcRule(),
	})
	msgs, err := nlcodec.ParseNetlinkMessages(b)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, uint16(AUDIT_ADD_RULE), msgs[0].Header.Type)
	rule, err := ParseRuleMessage(msgs[0].Payload)
	require.NoError(t, err)
	key, ok := rule.Key()
	assert.True(t, ok)
	assert.Equal(t, "etc", key)
}

func TestParseRuleErrors(t *testing.T) {
	good := nlcodec.Marshal(etcRule())

	_, err := ParseRuleMessage(good[:SizeofAuditRuleData-1])
	assert.True(t, nlcodec.IsTruncated(err))

	tests := []struct {
		desc   string
		modify func(b []byte) []byte
		code   nlcodec.NlError
		msg    string
	}{
		{
			desc: "too many fields",
			modify: func(b []byte) []byte {
				native.Endian.PutUint32(b[8:], AUDIT_MAX_FIELDS+1)
				return b
			},
			code: nlcodec.NLE_RANGE,
			msg:  "invalid audit rule: 65 fields, at most 64 allowed",
		},
		{
			desc: "buflen past the payload",
			modify: func(b []byte) []byte {
				return b[:len(b)-1]
			},
			code: nlcodec.NLE_MSG_TRUNC,
			msg:  "invalid audit rule: buflen 7 exceeds the 6 bytes available",
		},
		{
			desc: "string past buflen",
			modify: func(b []byte) []byte {
				native.Endian.PutUint32(b[528:], 8)
				return b
			},
			code: nlcodec.NLE_MSG_TRUNC,
			msg:  "invalid audit rule field 1: string of 8 bytes exceeds the 7 left in the buffer",
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			_, err := ParseRuleMessage(test.modify(append([]byte{}, good...)))
			require.Error(t, err)
			assert.Equal(t, test.code, nlcodec.CodeOf(err))
			assert.Equal(t, test.msg, err.Error())
		})
	}
}

func TestSyscalls(t *testing.T) {
	var s Syscalls
	s.Set(0)
	s.Set(59)
	s.Set(2047)
	assert.Equal(t, []int{0, 59, 2047}, s.List())
	assert.True(t, s.Has(59))
	s.Clear(59)
	assert.False(t, s.Has(59))
	assert.False(t, s.All())
	s.SetAll()
	assert.True(t, s.All())
	assert.Len(t, s.List(), AUDIT_BITMASK_SIZE*32)
}

func TestRuleString(t *testing.T) {
	assert.Equal(t, "-a always,exit -S 257 -F arch=3221225534 -F dir=/etc -F key=etc", etcRule().String())

	rule := &RuleMessage{
		Flags:  AUDIT_FILTER_TASK | AUDIT_FILTER_PREPEND,
		Action: AUDIT_NEVER,
		Fields: []RuleField{
			{Type: AUDIT_LOGINUID, Op: AUDIT_LESS_THAN, Value: 1000},
			{Type: 999, Op: AUDIT_EQUAL, Value: 1},
			{Type: AUDIT_UID, Op: 0, Value: 0},
		},
	}
	rule.Syscalls.SetAll()
	assert.Equal(t, uint32(AUDIT_FILTER_TASK), rule.Filter())
	assert.Equal(t, "-a never,task -S all -F auid<1000 -F field(999)=1 -F uid?0x0?0", rule.String())
	_, ok := rule.Key()
	assert.False(t, ok)
}

func TestRuleEmitTooManyFields(t *testing.T) {
	rule := &RuleMessage{Fields: make([]RuleField, AUDIT_MAX_FIELDS+1)}
	assert.Panics(t, func() { nlcodec.Marshal(rule) })
}
