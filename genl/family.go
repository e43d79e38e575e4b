package genl

import (
	"fmt"

	"github.com/hkwi/nlcodec"
)

// Family summarizes a CTRL_CMD_NEWFAMILY message.
type Family struct {
	Id      uint16
	Name    string
	Version uint32
	HdrSize uint32
	MaxAttr uint32
	Ops     []Op
	Groups  []Group
}

type Op struct {
	Id    uint32
	Flags uint32
}

// Group is a multicast group. Family is the owning family name.
type Group struct {
	Id     uint32
	Family string
	Name   string
}

func (self Group) String() string {
	return fmt.Sprintf("%s/%s(%d)", self.Family, self.Name, self.Id)
}

// FamilyOf collects the attributes of a ctrl message. When an attribute
// repeats the first one wins.
func FamilyOf(msg *CtrlMessage) Family {
	var ret Family
	seen := make(map[uint16]bool)
	for _, nla := range msg.Nlas {
		kind := nla.Kind() & nlcodec.NLA_TYPE_MASK
		if seen[kind] {
			continue
		}
		seen[kind] = true
		switch v := nla.(type) {
		case FamilyId:
			ret.Id = uint16(v)
		case FamilyName:
			ret.Name = string(v)
		case Version:
			ret.Version = uint32(v)
		case HdrSize:
			ret.HdrSize = uint32(v)
		case MaxAttr:
			ret.MaxAttr = uint32(v)
		case Ops:
			for _, attrs := range v {
				ret.Ops = append(ret.Ops, opOf(attrs))
			}
		case McastGroups:
			for _, attrs := range v {
				ret.Groups = append(ret.Groups, groupOf(attrs))
			}
		}
	}
	for i := range ret.Groups {
		ret.Groups[i].Family = ret.Name
	}
	return ret
}

func opOf(attrs []OpNla) Op {
	var ret Op
	for _, nla := range attrs {
		switch v := nla.(type) {
		case OpId:
			ret.Id = uint32(v)
		case OpFlags:
			ret.Flags = uint32(v)
		}
	}
	return ret
}

func groupOf(attrs []McastGrpNla) Group {
	var ret Group
	for _, nla := range attrs {
		switch v := nla.(type) {
		case McastGrpId:
			ret.Id = uint32(v)
		case McastGrpName:
			ret.Name = string(v)
		}
	}
	return ret
}

// Op returns the operation of command cmd.
func (self Family) Op(cmd uint32) (Op, bool) {
	for _, op := range self.Ops {
		if op.Id == cmd {
			return op, true
		}
	}
	return Op{}, false
}

// Message builds the CTRL_CMD_NEWFAMILY message describing the family.
func (self Family) Message() *CtrlMessage {
	msg := &CtrlMessage{
		Header: GenlHeader{Cmd: CTRL_CMD_NEWFAMILY, Version: CTRL_VERSION},
		Nlas: []CtrlNla{
			FamilyId(self.Id),
			FamilyName(self.Name),
			Version(self.Version),
			HdrSize(self.HdrSize),
			MaxAttr(self.MaxAttr),
		},
	}
	if len(self.Ops) > 0 {
		var ops Ops
		for _, op := range self.Ops {
			ops = append(ops, []OpNla{OpId(op.Id), OpFlags(op.Flags)})
		}
		msg.Nlas = append(msg.Nlas, ops)
	}
	if len(self.Groups) > 0 {
		var grps McastGroups
		for _, grp := range self.Groups {
			grps = append(grps, []McastGrpNla{McastGrpName(grp.Name), McastGrpId(grp.Id)})
		}
		msg.Nlas = append(msg.Nlas, grps)
	}
	return msg
}
