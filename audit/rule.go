package audit

import (
	"fmt"
	"strings"

	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

// SizeofAuditRuleData is the fixed part of struct audit_rule_data; the
// string values follow it.
const SizeofAuditRuleData = 1040

var (
	ruleFlags      = nlcodec.Field{Start: 0, End: 4}
	ruleAction     = nlcodec.Field{Start: 4, End: 8}
	ruleFieldCount = nlcodec.Field{Start: 8, End: 12}
	ruleMask       = nlcodec.Field{Start: 12, End: 268}
	ruleFields     = nlcodec.Field{Start: 268, End: 524}
	ruleValues     = nlcodec.Field{Start: 524, End: 780}
	ruleFieldflags = nlcodec.Field{Start: 780, End: 1036}
	ruleBuflen     = nlcodec.Field{Start: 1036, End: 1040}
)

// IsStringField reports whether the value of field travels in the
// trailing buffer, with values[] holding its length.
func IsStringField(field uint32) bool {
	switch field {
	case AUDIT_WATCH, AUDIT_DIR, AUDIT_FILTERKEY, AUDIT_EXE,
		AUDIT_SUBJ_USER, AUDIT_SUBJ_ROLE, AUDIT_SUBJ_TYPE, AUDIT_SUBJ_SEN, AUDIT_SUBJ_CLR,
		AUDIT_OBJ_USER, AUDIT_OBJ_ROLE, AUDIT_OBJ_TYPE, AUDIT_OBJ_LEV_LOW, AUDIT_OBJ_LEV_HIGH:
		return true
	}
	return false
}

// RuleField is one comparison of a rule. Str holds the value of a string
// field and Value that of any other.
type RuleField struct {
	Type  uint32
	Op    uint32
	Value uint32
	Str   string
}

func (self RuleField) valueLen() uint32 {
	if IsStringField(self.Type) {
		return uint32(len(self.Str))
	}
	return self.Value
}

// String renders the field the way auditctl -F takes it.
func (self RuleField) String() string {
	name, ok := fieldNames[self.Type]
	if !ok {
		name = fmt.Sprintf("field(%d)", self.Type)
	}
	op, ok := operatorNames[self.Op]
	if !ok {
		op = fmt.Sprintf("?%#x?", self.Op)
	}
	if IsStringField(self.Type) {
		return name + op + self.Str
	}
	return fmt.Sprintf("%s%s%d", name, op, self.Value)
}

// Syscalls is the rule syscall bitmask; bit n selects syscall n.
type Syscalls [AUDIT_BITMASK_SIZE]uint32

func (self *Syscalls) Set(nr int) {
	self[nr/32] |= 1 << (nr % 32)
}

func (self *Syscalls) Clear(nr int) {
	self[nr/32] &^= 1 << (nr % 32)
}

func (self Syscalls) Has(nr int) bool {
	return self[nr/32]&(1<<(nr%32)) != 0
}

// SetAll selects every syscall, as auditctl -S all does.
func (self *Syscalls) SetAll() {
	for i := range self {
		self[i] = ^uint32(0)
	}
}

func (self Syscalls) All() bool {
	for _, w := range self {
		if w != ^uint32(0) {
			return false
		}
	}
	return true
}

// List returns the selected syscall numbers in order.
func (self Syscalls) List() []int {
	var ret []int
	for nr := 0; nr < AUDIT_BITMASK_SIZE*32; nr++ {
		if self.Has(nr) {
			ret = append(ret, nr)
		}
	}
	return ret
}

// RuleMessage is struct audit_rule_data, the payload of AUDIT_ADD_RULE,
// AUDIT_DEL_RULE and the AUDIT_LIST_RULES replies.
type RuleMessage struct {
	Flags    uint32
	Action   uint32
	Fields   []RuleField
	Syscalls Syscalls
}

// Filter returns the rule list in Flags.
func (self *RuleMessage) Filter() uint32 {
	return self.Flags &^ AUDIT_FILTER_PREPEND
}

// Key returns the first AUDIT_FILTERKEY value.
func (self *RuleMessage) Key() (string, bool) {
	for _, f := range self.Fields {
		if f.Type == AUDIT_FILTERKEY {
			return f.Str, true
		}
	}
	return "", false
}

func ParseRuleMessage(b []byte) (*RuleMessage, error) {
	buf, err := nlcodec.NewCheckedBuffer(b, SizeofAuditRuleData)
	if err != nil {
		return nil, errors.Wrap(err, "invalid audit rule")
	}
	count := int(buf.Uint32(ruleFieldCount))
	if count > AUDIT_MAX_FIELDS {
		return nil, errors.Wrap(nlcodec.Errorf(nlcodec.NLE_RANGE, "%d fields, at most %d allowed", count, AUDIT_MAX_FIELDS), "invalid audit rule")
	}
	strs := buf.Rest(SizeofAuditRuleData)
	if buflen := int(buf.Uint32(ruleBuflen)); buflen > len(strs) {
		return nil, errors.Wrap(nlcodec.Errorf(nlcodec.NLE_MSG_TRUNC, "buflen %d exceeds the %d bytes available", buflen, len(strs)), "invalid audit rule")
	} else {
		strs = strs[:buflen]
	}

	ret := &RuleMessage{
		Flags:  buf.Uint32(ruleFlags),
		Action: buf.Uint32(ruleAction),
	}
	if count > 0 {
		ret.Fields = make([]RuleField, count)
	}
	fields := nlcodec.NewBuffer(buf.Bytes(ruleFields))
	values := nlcodec.NewBuffer(buf.Bytes(ruleValues))
	flags := nlcodec.NewBuffer(buf.Bytes(ruleFieldflags))
	var off int
	for i := range ret.Fields {
		word := nlcodec.Field{Start: i * 4, End: i*4 + 4}
		f := RuleField{
			Type:  fields.Uint32(word),
			Op:    flags.Uint32(word),
			Value: values.Uint32(word),
		}
		if IsStringField(f.Type) {
			n := int(f.Value)
			if n > len(strs)-off {
				return nil, errors.Wrapf(nlcodec.Errorf(nlcodec.NLE_MSG_TRUNC, "string of %d bytes exceeds the %d left in the buffer", n, len(strs)-off),
					"invalid audit rule field %d", i)
			}
			f.Str = string(strs[off : off+n])
			f.Value = 0
			off += n
		}
		ret.Fields[i] = f
	}
	mask := nlcodec.NewBuffer(buf.Bytes(ruleMask))
	for i := range ret.Syscalls {
		ret.Syscalls[i] = mask.Uint32(nlcodec.Field{Start: i * 4, End: i*4 + 4})
	}
	return ret, nil
}

func (self *RuleMessage) buflen() int {
	var n int
	for _, f := range self.Fields {
		if IsStringField(f.Type) {
			n += len(f.Str)
		}
	}
	return n
}

func (self *RuleMessage) BufferLen() int {
	return SizeofAuditRuleData + self.buflen()
}

// Emit panics when the rule has more than AUDIT_MAX_FIELDS fields.
func (self *RuleMessage) Emit(b []byte) {
	if len(self.Fields) > AUDIT_MAX_FIELDS {
		panic(fmt.Sprintf("audit rule with %d fields", len(self.Fields)))
	}
	clear(b[:SizeofAuditRuleData])
	buf := nlcodec.NewBuffer(b)
	buf.SetUint32(ruleFlags, self.Flags)
	buf.SetUint32(ruleAction, self.Action)
	buf.SetUint32(ruleFieldCount, uint32(len(self.Fields)))
	buf.SetUint32(ruleBuflen, uint32(self.buflen()))

	mask := nlcodec.NewBuffer(buf.Bytes(ruleMask))
	for i, w := range self.Syscalls {
		mask.SetUint32(nlcodec.Field{Start: i * 4, End: i*4 + 4}, w)
	}
	fields := nlcodec.NewBuffer(buf.Bytes(ruleFields))
	values := nlcodec.NewBuffer(buf.Bytes(ruleValues))
	flags := nlcodec.NewBuffer(buf.Bytes(ruleFieldflags))
	strs := buf.Rest(SizeofAuditRuleData)
	var off int
	for i, f := range self.Fields {
		word := nlcodec.Field{Start: i * 4, End: i*4 + 4}
		fields.SetUint32(word, f.Type)
		flags.SetUint32(word, f.Op)
		values.SetUint32(word, f.valueLen())
		if IsStringField(f.Type) {
			off += copy(strs[off:], f.Str)
		}
	}
}

// String renders the rule in auditctl syntax.
func (self *RuleMessage) String() string {
	var comps []string
	comps = append(comps, fmt.Sprintf("-a %s,%s", actionName(self.Action), filterName(self.Filter())))
	if self.Syscalls.All() {
		comps = append(comps, "-S all")
	} else {
		for _, nr := range self.Syscalls.List() {
			comps = append(comps, fmt.Sprintf("-S %d", nr))
		}
	}
	for _, f := range self.Fields {
		comps = append(comps, "-F "+f.String())
	}
	return strings.Join(comps, " ")
}

func actionName(action uint32) string {
	switch action {
	case AUDIT_NEVER:
		return "never"
	case AUDIT_POSSIBLE:
		return "possible"
	case AUDIT_ALWAYS:
		return "always"
	}
	return fmt.Sprintf("action(%d)", action)
}

func filterName(filter uint32) string {
	switch filter {
	case AUDIT_FILTER_USER:
		return "user"
	case AUDIT_FILTER_TASK:
		return "task"
	case AUDIT_FILTER_ENTRY:
		return "entry"
	case AUDIT_FILTER_WATCH:
		return "watch"
	case AUDIT_FILTER_EXIT:
		return "exit"
	case AUDIT_FILTER_EXCLUDE:
		return "exclude"
	case AUDIT_FILTER_FS:
		return "filesystem"
	case AUDIT_FILTER_URING_EXIT:
		return "io_uring"
	}
	return fmt.Sprintf("filter(%d)", filter)
}
