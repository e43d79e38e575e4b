package genl

import (
	"cmp"
	"slices"
	"sync"

	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

// Registry keeps the families and multicast groups announced by nlctrl,
// from the replies to a CTRL_CMD_GETFAMILY dump and from notifications of
// the "notify" group. It is safe for concurrent use.
type Registry struct {
	lock     sync.Mutex
	families map[uint16]Family
	groups   map[uint32]Group
}

// NewRegistry returns a registry that knows nlctrl itself.
func NewRegistry() *Registry {
	return &Registry{
		families: map[uint16]Family{
			GENL_ID_CTRL: {
				Id:      GENL_ID_CTRL,
				Name:    "nlctrl",
				Version: CTRL_VERSION,
			},
		},
		groups: map[uint32]Group{
			GENL_ID_CTRL: {
				Id:     GENL_ID_CTRL,
				Family: "nlctrl",
				Name:   "notify",
			},
		},
	}
}

// Feed applies a received message. Messages of other families are
// rejected with NLE_MSGTYPE_NOSUPPORT.
func (self *Registry) Feed(msg nlcodec.NetlinkMessage) error {
	if msg.Header.Type != GENL_ID_CTRL {
		return nlcodec.Errorf(nlcodec.NLE_MSGTYPE_NOSUPPORT, "message type %d is not nlctrl", msg.Header.Type)
	}
	if ctrl, err := ParseCtrlMessage(msg.Payload); err != nil {
		return err
	} else {
		return self.Update(ctrl)
	}
}

// Update applies one CTRL_CMD_{NEW,DEL}FAMILY or
// CTRL_CMD_{NEW,DEL}MCAST_GRP message.
func (self *Registry) Update(msg *CtrlMessage) error {
	switch msg.Header.Cmd {
	case CTRL_CMD_NEWFAMILY, CTRL_CMD_DELFAMILY, CTRL_CMD_NEWMCAST_GRP, CTRL_CMD_DELMCAST_GRP:
	default:
		return nlcodec.Errorf(nlcodec.NLE_MSGTYPE_NOSUPPORT, "ctrl command %d does not update the registry", msg.Header.Cmd)
	}
	family := FamilyOf(msg)
	if !hasFamilyId(msg) {
		return errors.Wrapf(nlcodec.Errorf(nlcodec.NLE_MISSING_ATTR, "CTRL_ATTR_FAMILY_ID is missing"),
			"invalid ctrl command %d", msg.Header.Cmd)
	}

	self.lock.Lock()
	defer self.lock.Unlock()

	switch msg.Header.Cmd {
	case CTRL_CMD_NEWFAMILY:
		if old, ok := self.families[family.Id]; ok {
			self.dropGroups(old.Name)
		}
		groups := family.Groups
		family.Groups = nil
		self.families[family.Id] = family
		for _, grp := range groups {
			self.groups[grp.Id] = grp
		}
	case CTRL_CMD_NEWMCAST_GRP:
		name := family.Name
		if known, ok := self.families[family.Id]; ok {
			name = known.Name
		}
		for _, grp := range family.Groups {
			grp.Family = name
			self.groups[grp.Id] = grp
		}
	case CTRL_CMD_DELFAMILY:
		if known, ok := self.families[family.Id]; ok {
			delete(self.families, family.Id)
			self.dropGroups(known.Name)
		}
	case CTRL_CMD_DELMCAST_GRP:
		for _, grp := range family.Groups {
			delete(self.groups, grp.Id)
		}
	}
	return nil
}

func hasFamilyId(msg *CtrlMessage) bool {
	for _, nla := range msg.Nlas {
		if _, ok := nla.(FamilyId); ok {
			return true
		}
	}
	return false
}

func (self *Registry) dropGroups(family string) {
	for id, grp := range self.groups {
		if grp.Family == family {
			delete(self.groups, id)
		}
	}
}

// withGroups fills Groups of a stored family. The lock must be held.
func (self *Registry) withGroups(family Family) Family {
	family.Groups = nil
	for _, grp := range self.groups {
		if grp.Family == family.Name {
			family.Groups = append(family.Groups, grp)
		}
	}
	slices.SortFunc(family.Groups, func(a, b Group) int {
		return cmp.Compare(a.Id, b.Id)
	})
	family.Ops = slices.Clone(family.Ops)
	return family
}

func (self *Registry) Family(name string) (Family, bool) {
	self.lock.Lock()
	defer self.lock.Unlock()

	for _, f := range self.families {
		if f.Name == name {
			return self.withGroups(f), true
		}
	}
	return Family{}, false
}

func (self *Registry) FamilyById(id uint16) (Family, bool) {
	self.lock.Lock()
	defer self.lock.Unlock()

	if f, ok := self.families[id]; ok {
		return self.withGroups(f), true
	}
	return Family{}, false
}

// Families lists the known families ordered by id.
func (self *Registry) Families() []Family {
	self.lock.Lock()
	defer self.lock.Unlock()

	ret := make([]Family, 0, len(self.families))
	for _, f := range self.families {
		ret = append(ret, self.withGroups(f))
	}
	slices.SortFunc(ret, func(a, b Family) int {
		return cmp.Compare(a.Id, b.Id)
	})
	return ret
}

func (self *Registry) Group(family, name string) (Group, bool) {
	self.lock.Lock()
	defer self.lock.Unlock()

	for _, grp := range self.groups {
		if grp.Family == family && grp.Name == name {
			return grp, true
		}
	}
	return Group{}, false
}

func (self *Registry) GroupById(id uint32) (Group, bool) {
	self.lock.Lock()
	defer self.lock.Unlock()

	grp, ok := self.groups[id]
	return grp, ok
}
