package rtlink

import (
	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

// InfoNla is an attribute nested in IFLA_LINKINFO.
type InfoNla interface {
	nlcodec.Nla
	infoNla()
}

// LinkInfo is IFLA_LINKINFO. The layout of IFLA_INFO_DATA depends on the
// IFLA_INFO_KIND that precedes it, which the kernel always sends first.
type LinkInfo []InfoNla

type InfoKind string

// InfoData is IFLA_INFO_DATA of a kind without a typed model.
type InfoData []byte

// InfoVlan is IFLA_INFO_DATA of kind "vlan".
type InfoVlan []VlanNla

type InfoXStats []byte
type InfoSlaveKind string
type InfoSlaveData []byte

type InfoOther struct {
	nlcodec.DefaultNla
}

func (LinkInfo) Kind() uint16 {
	return IFLA_LINKINFO | nlcodec.NLA_F_NESTED
}

func (self LinkInfo) ValueLen() int {
	return nlcodec.NlasBufferLen([]InfoNla(self))
}

func (self LinkInfo) EmitValue(b []byte) {
	nlcodec.EmitNlas([]InfoNla(self), b)
}

// InfoKind returns the IFLA_INFO_KIND string, empty if absent.
func (self LinkInfo) InfoKind() string {
	for _, nla := range self {
		if v, ok := nla.(InfoKind); ok {
			return string(v)
		}
	}
	return ""
}

func (InfoKind) Kind() uint16      { return IFLA_INFO_KIND }
func (InfoData) Kind() uint16      { return IFLA_INFO_DATA }
func (InfoVlan) Kind() uint16      { return IFLA_INFO_DATA | nlcodec.NLA_F_NESTED }
func (InfoXStats) Kind() uint16    { return IFLA_INFO_XSTATS }
func (InfoSlaveKind) Kind() uint16 { return IFLA_INFO_SLAVE_KIND }
func (InfoSlaveData) Kind() uint16 { return IFLA_INFO_SLAVE_DATA }

func (self InfoKind) ValueLen() int      { return nlcodec.StringLen(string(self)) }
func (self InfoData) ValueLen() int      { return len(self) }
func (self InfoVlan) ValueLen() int      { return nlcodec.NlasBufferLen([]VlanNla(self)) }
func (self InfoXStats) ValueLen() int    { return len(self) }
func (self InfoSlaveKind) ValueLen() int { return nlcodec.StringLen(string(self)) }
func (self InfoSlaveData) ValueLen() int { return len(self) }

func (self InfoKind) EmitValue(b []byte)      { nlcodec.PutString(b, string(self)) }
func (self InfoData) EmitValue(b []byte)      { copy(b, self) }
func (self InfoVlan) EmitValue(b []byte)      { nlcodec.EmitNlas([]VlanNla(self), b) }
func (self InfoXStats) EmitValue(b []byte)    { copy(b, self) }
func (self InfoSlaveKind) EmitValue(b []byte) { nlcodec.PutString(b, string(self)) }
func (self InfoSlaveData) EmitValue(b []byte) { copy(b, self) }

func (InfoKind) infoNla()      {}
func (InfoData) infoNla()      {}
func (InfoVlan) infoNla()      {}
func (InfoXStats) infoNla()    {}
func (InfoSlaveKind) infoNla() {}
func (InfoSlaveData) infoNla() {}
func (InfoOther) infoNla()     {}

func parseLinkInfo(nla nlcodec.NlaBuffer) (LinkNla, error) {
	var kind string
	nlas, err := nlcodec.ParseNested(nla, "IFLA_LINKINFO", func(nla nlcodec.NlaBuffer) (InfoNla, error) {
		switch nla.Kind() {
		case IFLA_INFO_KIND:
			if v, err := nlcodec.ParseString(nla.Value()); err != nil {
				return nil, valueError(err, "IFLA_INFO_KIND")
			} else {
				kind = v
				return InfoKind(v), nil
			}
		case IFLA_INFO_DATA:
			switch kind {
			case "vlan":
				if v, err := nlcodec.ParseNested(nla, "IFLA_INFO_DATA", ParseVlanNla); err != nil {
					return nil, err
				} else {
					return InfoVlan(v), nil
				}
			default:
				return InfoData(nlcodec.ParseBytes(nla.Value())), nil
			}
		case IFLA_INFO_XSTATS:
			return InfoXStats(nlcodec.ParseBytes(nla.Value())), nil
		case IFLA_INFO_SLAVE_KIND:
			if v, err := nlcodec.ParseString(nla.Value()); err != nil {
				return nil, valueError(err, "IFLA_INFO_SLAVE_KIND")
			} else {
				return InfoSlaveKind(v), nil
			}
		case IFLA_INFO_SLAVE_DATA:
			return InfoSlaveData(nlcodec.ParseBytes(nla.Value())), nil
		default:
			return InfoOther{nlcodec.ParseDefaultNla(nla)}, nil
		}
	})
	if err != nil {
		return nil, err
	}
	return LinkInfo(nlas), nil
}

var errNotVlan = errors.New("link is not a vlan")

// Vlan returns the vlan attributes of IFLA_INFO_DATA.
func (self LinkInfo) Vlan() (InfoVlan, error) {
	for _, nla := range self {
		if v, ok := nla.(InfoVlan); ok {
			return v, nil
		}
	}
	return nil, errNotVlan
}
