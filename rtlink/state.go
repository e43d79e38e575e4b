package rtlink

import (
	"fmt"
)

// OperState is the RFC 2863 operational state carried by IFLA_OPERSTATE.
type OperState uint8

const (
	IF_OPER_UNKNOWN OperState = iota
	IF_OPER_NOTPRESENT
	IF_OPER_DOWN
	IF_OPER_LOWERLAYERDOWN
	IF_OPER_TESTING
	IF_OPER_DORMANT
	IF_OPER_UP
)

var operStateNames = []string{
	"UNKNOWN",
	"NOTPRESENT",
	"DOWN",
	"LOWERLAYERDOWN",
	"TESTING",
	"DORMANT",
	"UP",
}

func (self OperState) String() string {
	if int(self) < len(operStateNames) {
		return operStateNames[self]
	}
	return fmt.Sprintf("IF_OPER(%d)", uint8(self))
}

// LinkMode is the IFLA_LINKMODE policy.
type LinkMode uint8

const (
	IF_LINK_MODE_DEFAULT LinkMode = iota
	IF_LINK_MODE_DORMANT
	IF_LINK_MODE_TESTING
)

func (self LinkMode) String() string {
	switch self {
	case IF_LINK_MODE_DEFAULT:
		return "DEFAULT"
	case IF_LINK_MODE_DORMANT:
		return "DORMANT"
	case IF_LINK_MODE_TESTING:
		return "TESTING"
	default:
		return fmt.Sprintf("IF_LINK_MODE(%d)", uint8(self))
	}
}
