package main

import (
	"fmt"
	"slices"

	"github.com/hkwi/nlcodec"
	"github.com/hkwi/nlcodec/audit"
	"github.com/hkwi/nlcodec/genl"
	"github.com/hkwi/nlcodec/rtnl"
	"github.com/hkwi/nlcodec/sockdiag"
	"github.com/hkwi/nlcodec/xfrm"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// layout is where the attributes of a payload start and how they are named.
type layout struct {
	headerLen int
	names     *nlcodec.Names
}

// protocol knows the message types of one netlink protocol. parse is the
// typed decoder; layout returns false for types with no attribute part.
// observe, when set, sees every message after it is decoded and logs to
// the entry of that message.
type protocol struct {
	typeName func(uint16) string
	parse    func(nlcodec.NetlinkMessage) (any, error)
	layout   func(nlcodec.NetlinkMessage) (layout, bool)
	observe  func(nlcodec.NetlinkMessage, logrus.FieldLogger)
}

var protocols = map[string]func() protocol{
	"route":    routeProtocol,
	"generic":  genericProtocol,
	"xfrm":     xfrmProtocol,
	"audit":    auditProtocol,
	"sockdiag": sockdiagProtocol,
}

func protocolNames() []string {
	var names []string
	for name := range protocols {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func routeProtocol() protocol {
	return protocol{
		typeName: rtnl.TypeName,
		parse: func(msg nlcodec.NetlinkMessage) (any, error) {
			return rtnl.ParseMessage(msg)
		},
		layout: func(msg nlcodec.NetlinkMessage) (layout, bool) {
			l, ok := rtnl.LayoutOf(msg.Header.Type)
			return layout{l.HeaderLen, l.Names}, ok
		},
	}
}

// genericProtocol learns family ids from the nlctrl messages it sees, so
// later messages of those families are named.
func genericProtocol() protocol {
	registry := genl.NewRegistry()
	return protocol{
		typeName: func(t uint16) string {
			if f, ok := registry.FamilyById(t); ok {
				return f.Name
			}
			return fmt.Sprintf("GENL(%d)", t)
		},
		parse: func(msg nlcodec.NetlinkMessage) (any, error) {
			if msg.Header.Type != genl.GENL_ID_CTRL {
				return genl.ParseGenlMessage(msg.Payload)
			}
			ctrl, err := genl.ParseCtrlMessage(msg.Payload)
			if err != nil {
				return nil, err
			} else if ctrl.Header.Cmd == genl.CTRL_CMD_NEWFAMILY {
				return genl.FamilyOf(ctrl), nil
			}
			return ctrl, nil
		},
		layout: func(msg nlcodec.NetlinkMessage) (layout, bool) {
			if msg.Header.Type == genl.GENL_ID_CTRL {
				return layout{genl.GENL_HDRLEN, genl.CtrlNames}, true
			}
			return layout{genl.GENL_HDRLEN, nil}, true
		},
		observe: func(msg nlcodec.NetlinkMessage, log logrus.FieldLogger) {
			// requests and other families are not registry updates
			if err := registry.Feed(msg); err != nil && nlcodec.CodeOf(err) != nlcodec.NLE_MSGTYPE_NOSUPPORT {
				log.WithError(err).Warn("nlctrl message not applied to the family registry")
			}
		},
	}
}

var xfrmTypeNames = map[uint16]string{
	xfrm.XFRM_MSG_NEWSA:     "XFRM_MSG_NEWSA",
	xfrm.XFRM_MSG_DELSA:     "XFRM_MSG_DELSA",
	xfrm.XFRM_MSG_GETSA:     "XFRM_MSG_GETSA",
	xfrm.XFRM_MSG_NEWPOLICY: "XFRM_MSG_NEWPOLICY",
	xfrm.XFRM_MSG_DELPOLICY: "XFRM_MSG_DELPOLICY",
	xfrm.XFRM_MSG_GETPOLICY: "XFRM_MSG_GETPOLICY",
}

func xfrmProtocol() protocol {
	isPolicyId := func(t uint16) bool {
		return t == xfrm.XFRM_MSG_GETPOLICY || t == xfrm.XFRM_MSG_DELPOLICY
	}
	return protocol{
		typeName: func(t uint16) string {
			if name, ok := xfrmTypeNames[t]; ok {
				return name
			}
			return fmt.Sprintf("XFRM(%d)", t)
		},
		parse: func(msg nlcodec.NetlinkMessage) (any, error) {
			if isPolicyId(msg.Header.Type) {
				return xfrm.ParsePolicyIdMessage(msg.Payload)
			}
			return nlcodec.Raw(msg.Payload), nil
		},
		layout: func(msg nlcodec.NetlinkMessage) (layout, bool) {
			if isPolicyId(msg.Header.Type) {
				return layout{xfrm.SizeofXfrmUserpolicyId, xfrm.Names}, true
			}
			return layout{}, false
		},
	}
}

var auditTypeNames = map[uint16]string{
	audit.AUDIT_GET:        "AUDIT_GET",
	audit.AUDIT_SET:        "AUDIT_SET",
	audit.AUDIT_LIST_RULES: "AUDIT_LIST_RULES",
	audit.AUDIT_ADD_RULE:   "AUDIT_ADD_RULE",
	audit.AUDIT_DEL_RULE:   "AUDIT_DEL_RULE",
}

func auditProtocol() protocol {
	return protocol{
		typeName: func(t uint16) string {
			if name, ok := auditTypeNames[t]; ok {
				return name
			}
			return fmt.Sprintf("AUDIT(%d)", t)
		},
		parse: func(msg nlcodec.NetlinkMessage) (any, error) {
			switch msg.Header.Type {
			case audit.AUDIT_ADD_RULE, audit.AUDIT_DEL_RULE, audit.AUDIT_LIST_RULES:
				// an AUDIT_LIST_RULES request has no body
				if len(msg.Payload) > 0 {
					return audit.ParseRuleMessage(msg.Payload)
				}
			}
			return nlcodec.Raw(msg.Payload), nil
		},
		layout: func(nlcodec.NetlinkMessage) (layout, bool) {
			return layout{}, false
		},
	}
}

func sockdiagProtocol() protocol {
	isRequest := func(msg nlcodec.NetlinkMessage) bool {
		return msg.Header.Flags&unix.NLM_F_REQUEST != 0
	}
	return protocol{
		typeName: func(t uint16) string {
			switch t {
			case sockdiag.SOCK_DIAG_BY_FAMILY:
				return "SOCK_DIAG_BY_FAMILY"
			case sockdiag.SOCK_DESTROY:
				return "SOCK_DESTROY"
			}
			return fmt.Sprintf("SOCK_DIAG(%d)", t)
		},
		parse: func(msg nlcodec.NetlinkMessage) (any, error) {
			if msg.Header.Type != sockdiag.SOCK_DIAG_BY_FAMILY {
				return nlcodec.Raw(msg.Payload), nil
			} else if isRequest(msg) {
				return sockdiag.ParseInetRequest(msg.Payload)
			}
			return sockdiag.ParseInetDiagMessage(msg.Payload)
		},
		layout: func(msg nlcodec.NetlinkMessage) (layout, bool) {
			if msg.Header.Type != sockdiag.SOCK_DIAG_BY_FAMILY {
				return layout{}, false
			} else if isRequest(msg) {
				return layout{sockdiag.SizeofInetDiagReqV2, nil}, true
			}
			return layout{sockdiag.SizeofInetDiagMsg, sockdiag.Names}, true
		},
	}
}
