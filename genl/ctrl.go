package genl

import (
	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

const CTRL_VERSION = 0x0002

const (
	CTRL_CMD_UNSPEC = iota
	CTRL_CMD_NEWFAMILY
	CTRL_CMD_DELFAMILY
	CTRL_CMD_GETFAMILY
	CTRL_CMD_NEWOPS
	CTRL_CMD_DELOPS
	CTRL_CMD_GETOPS
	CTRL_CMD_NEWMCAST_GRP
	CTRL_CMD_DELMCAST_GRP
	CTRL_CMD_GETMCAST_GRP
	CTRL_CMD_GETPOLICY
)

const (
	CTRL_ATTR_UNSPEC = iota
	CTRL_ATTR_FAMILY_ID
	CTRL_ATTR_FAMILY_NAME
	CTRL_ATTR_VERSION
	CTRL_ATTR_HDRSIZE
	CTRL_ATTR_MAXATTR
	CTRL_ATTR_OPS
	CTRL_ATTR_MCAST_GROUPS
	CTRL_ATTR_POLICY
	CTRL_ATTR_OP_POLICY
	CTRL_ATTR_OP
)

const (
	CTRL_ATTR_OP_UNSPEC = iota
	CTRL_ATTR_OP_ID
	CTRL_ATTR_OP_FLAGS // GENL_CMD_CAP_DUMP, etc.,
)

const (
	CTRL_ATTR_MCAST_GRP_UNSPEC = iota
	CTRL_ATTR_MCAST_GRP_NAME
	CTRL_ATTR_MCAST_GRP_ID
)

// CtrlNla is a CTRL_ATTR_* attribute.
type CtrlNla interface {
	nlcodec.Nla
	ctrlNla()
}

type FamilyId uint16
type FamilyName string
type Version uint32
type HdrSize uint32
type MaxAttr uint32

// Ops is the CTRL_ATTR_OPS array; each element is one operation.
type Ops [][]OpNla

// McastGroups is the CTRL_ATTR_MCAST_GROUPS array.
type McastGroups [][]McastGrpNla

type Other struct {
	nlcodec.DefaultNla
}

func (FamilyId) Kind() uint16    { return CTRL_ATTR_FAMILY_ID }
func (FamilyName) Kind() uint16  { return CTRL_ATTR_FAMILY_NAME }
func (Version) Kind() uint16     { return CTRL_ATTR_VERSION }
func (HdrSize) Kind() uint16     { return CTRL_ATTR_HDRSIZE }
func (MaxAttr) Kind() uint16     { return CTRL_ATTR_MAXATTR }
func (Ops) Kind() uint16         { return CTRL_ATTR_OPS | nlcodec.NLA_F_NESTED }
func (McastGroups) Kind() uint16 { return CTRL_ATTR_MCAST_GROUPS | nlcodec.NLA_F_NESTED }

func (FamilyId) ValueLen() int         { return 2 }
func (self FamilyName) ValueLen() int  { return nlcodec.StringLen(string(self)) }
func (Version) ValueLen() int          { return 4 }
func (HdrSize) ValueLen() int          { return 4 }
func (MaxAttr) ValueLen() int          { return 4 }
func (self Ops) ValueLen() int         { return nlcodec.ArrayLen([][]OpNla(self)) }
func (self McastGroups) ValueLen() int { return nlcodec.ArrayLen([][]McastGrpNla(self)) }

func (self FamilyId) EmitValue(b []byte)    { nlcodec.PutU16(b, uint16(self)) }
func (self FamilyName) EmitValue(b []byte)  { nlcodec.PutString(b, string(self)) }
func (self Version) EmitValue(b []byte)     { nlcodec.PutU32(b, uint32(self)) }
func (self HdrSize) EmitValue(b []byte)     { nlcodec.PutU32(b, uint32(self)) }
func (self MaxAttr) EmitValue(b []byte)     { nlcodec.PutU32(b, uint32(self)) }
func (self Ops) EmitValue(b []byte)         { nlcodec.EmitArray([][]OpNla(self), b) }
func (self McastGroups) EmitValue(b []byte) { nlcodec.EmitArray([][]McastGrpNla(self), b) }

func (FamilyId) ctrlNla()    {}
func (FamilyName) ctrlNla()  {}
func (Version) ctrlNla()     {}
func (HdrSize) ctrlNla()     {}
func (MaxAttr) ctrlNla()     {}
func (Ops) ctrlNla()         {}
func (McastGroups) ctrlNla() {}
func (Other) ctrlNla()       {}

// OpNla is a CTRL_ATTR_OP_* attribute of one Ops element.
type OpNla interface {
	nlcodec.Nla
	opNla()
}

type OpId uint32

// OpFlags holds GENL_CMD_CAP_* and GENL_ADMIN_PERM bits.
type OpFlags uint32

type OpOther struct {
	nlcodec.DefaultNla
}

func (OpId) Kind() uint16               { return CTRL_ATTR_OP_ID }
func (OpFlags) Kind() uint16            { return CTRL_ATTR_OP_FLAGS }
func (OpId) ValueLen() int              { return 4 }
func (OpFlags) ValueLen() int           { return 4 }
func (self OpId) EmitValue(b []byte)    { nlcodec.PutU32(b, uint32(self)) }
func (self OpFlags) EmitValue(b []byte) { nlcodec.PutU32(b, uint32(self)) }

func (OpId) opNla()    {}
func (OpFlags) opNla() {}
func (OpOther) opNla() {}

// McastGrpNla is a CTRL_ATTR_MCAST_GRP_* attribute of one McastGroups
// element.
type McastGrpNla interface {
	nlcodec.Nla
	mcastGrpNla()
}

type McastGrpName string
type McastGrpId uint32

type McastGrpOther struct {
	nlcodec.DefaultNla
}

func (McastGrpName) Kind() uint16            { return CTRL_ATTR_MCAST_GRP_NAME }
func (McastGrpId) Kind() uint16              { return CTRL_ATTR_MCAST_GRP_ID }
func (self McastGrpName) ValueLen() int      { return nlcodec.StringLen(string(self)) }
func (McastGrpId) ValueLen() int             { return 4 }
func (self McastGrpName) EmitValue(b []byte) { nlcodec.PutString(b, string(self)) }
func (self McastGrpId) EmitValue(b []byte)   { nlcodec.PutU32(b, uint32(self)) }

func (McastGrpName) mcastGrpNla()  {}
func (McastGrpId) mcastGrpNla()    {}
func (McastGrpOther) mcastGrpNla() {}

func valueError(err error, name string) error {
	return errors.Wrapf(err, "invalid %s value", name)
}

func u32(nla nlcodec.NlaBuffer, name string) (uint32, error) {
	if v, err := nlcodec.ParseU32(nla.Value()); err != nil {
		return 0, valueError(err, name)
	} else {
		return v, nil
	}
}

func str(nla nlcodec.NlaBuffer, name string) (string, error) {
	if v, err := nlcodec.ParseString(nla.Value()); err != nil {
		return "", valueError(err, name)
	} else {
		return v, nil
	}
}

func ParseOpNla(nla nlcodec.NlaBuffer) (OpNla, error) {
	switch nla.Kind() {
	case CTRL_ATTR_OP_ID:
		v, err := u32(nla, "CTRL_ATTR_OP_ID")
		return OpId(v), err
	case CTRL_ATTR_OP_FLAGS:
		v, err := u32(nla, "CTRL_ATTR_OP_FLAGS")
		return OpFlags(v), err
	default:
		return OpOther{nlcodec.ParseDefaultNla(nla)}, nil
	}
}

func ParseMcastGrpNla(nla nlcodec.NlaBuffer) (McastGrpNla, error) {
	switch nla.Kind() {
	case CTRL_ATTR_MCAST_GRP_NAME:
		v, err := str(nla, "CTRL_ATTR_MCAST_GRP_NAME")
		return McastGrpName(v), err
	case CTRL_ATTR_MCAST_GRP_ID:
		v, err := u32(nla, "CTRL_ATTR_MCAST_GRP_ID")
		return McastGrpId(v), err
	default:
		return McastGrpOther{nlcodec.ParseDefaultNla(nla)}, nil
	}
}

func ParseCtrlNla(nla nlcodec.NlaBuffer) (CtrlNla, error) {
	switch nla.Kind() {
	case CTRL_ATTR_FAMILY_ID:
		if v, err := nlcodec.ParseU16(nla.Value()); err != nil {
			return nil, valueError(err, "CTRL_ATTR_FAMILY_ID")
		} else {
			return FamilyId(v), nil
		}
	case CTRL_ATTR_FAMILY_NAME:
		if v, err := str(nla, "CTRL_ATTR_FAMILY_NAME"); err != nil {
			return nil, err
		} else {
			return FamilyName(v), nil
		}
	case CTRL_ATTR_VERSION:
		if v, err := u32(nla, "CTRL_ATTR_VERSION"); err != nil {
			return nil, err
		} else {
			return Version(v), nil
		}
	case CTRL_ATTR_HDRSIZE:
		if v, err := u32(nla, "CTRL_ATTR_HDRSIZE"); err != nil {
			return nil, err
		} else {
			return HdrSize(v), nil
		}
	case CTRL_ATTR_MAXATTR:
		if v, err := u32(nla, "CTRL_ATTR_MAXATTR"); err != nil {
			return nil, err
		} else {
			return MaxAttr(v), nil
		}
	case CTRL_ATTR_OPS:
		if v, err := nlcodec.ParseArray(nla.Value(), ParseOpNla); err != nil {
			return nil, valueError(err, "CTRL_ATTR_OPS")
		} else {
			return Ops(v), nil
		}
	case CTRL_ATTR_MCAST_GROUPS:
		if v, err := nlcodec.ParseArray(nla.Value(), ParseMcastGrpNla); err != nil {
			return nil, valueError(err, "CTRL_ATTR_MCAST_GROUPS")
		} else {
			return McastGroups(v), nil
		}
	default:
		return Other{nlcodec.ParseDefaultNla(nla)}, nil
	}
}

// CtrlMessage is a message of the nlctrl family (GENL_ID_CTRL).
type CtrlMessage struct {
	Header GenlHeader
	Nlas   []CtrlNla
}

func ParseCtrlMessage(b []byte) (*CtrlMessage, error) {
	hdr, err := ParseGenlHeader(b)
	if err != nil {
		return nil, err
	}
	nlas, err := nlcodec.ParseNlas(b[SizeofGenlMsghdr:], ParseCtrlNla)
	if err != nil {
		return nil, errors.Wrap(err, "invalid ctrl message")
	}
	return &CtrlMessage{
		Header: hdr,
		Nlas:   nlas,
	}, nil
}

func (self *CtrlMessage) BufferLen() int {
	return SizeofGenlMsghdr + nlcodec.NlasBufferLen(self.Nlas)
}

func (self *CtrlMessage) Emit(b []byte) {
	self.Header.Emit(b[:SizeofGenlMsghdr])
	nlcodec.EmitNlas(self.Nlas, b[SizeofGenlMsghdr:])
}

var CtrlNames = &nlcodec.Names{
	Prefix: "CTRL_ATTR",
	Names: map[uint16]string{
		CTRL_ATTR_FAMILY_ID:    "FAMILY_ID",
		CTRL_ATTR_FAMILY_NAME:  "FAMILY_NAME",
		CTRL_ATTR_VERSION:      "VERSION",
		CTRL_ATTR_HDRSIZE:      "HDRSIZE",
		CTRL_ATTR_MAXATTR:      "MAXATTR",
		CTRL_ATTR_OPS:          "OPS",
		CTRL_ATTR_MCAST_GROUPS: "MCAST_GROUPS",
		CTRL_ATTR_POLICY:       "POLICY",
		CTRL_ATTR_OP_POLICY:    "OP_POLICY",
		CTRL_ATTR_OP:           "OP",
	},
	Nested: map[uint16]*nlcodec.Names{
		CTRL_ATTR_OPS: {List: &nlcodec.Names{
			Prefix: "CTRL_ATTR_OP",
			Names: map[uint16]string{
				CTRL_ATTR_OP_ID:    "ID",
				CTRL_ATTR_OP_FLAGS: "FLAGS",
			},
		}},
		CTRL_ATTR_MCAST_GROUPS: {List: &nlcodec.Names{
			Prefix: "CTRL_ATTR_MCAST_GRP",
			Names: map[uint16]string{
				CTRL_ATTR_MCAST_GRP_NAME: "NAME",
				CTRL_ATTR_MCAST_GRP_ID:   "ID",
			},
		}},
	},
}
