package rtlink

import (
	"fmt"
	"strings"
)

// IFF is the ifi_flags and ifi_change bit set of a link header.
type IFF uint32

const (
	IFF_UP IFF = 1 << iota
	IFF_BROADCAST
	IFF_DEBUG
	IFF_LOOPBACK
	IFF_POINTOPOINT
	IFF_NOTRAILERS
	IFF_RUNNING
	IFF_NOARP
	IFF_PROMISC
	IFF_ALLMULTI
	IFF_MASTER
	IFF_SLAVE
	IFF_MULTICAST
	IFF_PORTSEL
	IFF_AUTOMEDIA
	IFF_DYNAMIC
	IFF_LOWER_UP
	IFF_DORMANT
	IFF_ECHO
)

var iffNames = []string{
	"IFF_UP",
	"IFF_BROADCAST",
	"IFF_DEBUG",
	"IFF_LOOPBACK",
	"IFF_POINTOPOINT",
	"IFF_NOTRAILERS",
	"IFF_RUNNING",
	"IFF_NOARP",
	"IFF_PROMISC",
	"IFF_ALLMULTI",
	"IFF_MASTER",
	"IFF_SLAVE",
	"IFF_MULTICAST",
	"IFF_PORTSEL",
	"IFF_AUTOMEDIA",
	"IFF_DYNAMIC",
	"IFF_LOWER_UP",
	"IFF_DORMANT",
	"IFF_ECHO",
}

func (self IFF) Has(flags IFF) bool {
	return self&flags == flags
}

// String names each set bit; bits without a name are printed in hex.
func (self IFF) String() string {
	var ret []string
	for i := uint8(0); i < 32; i++ {
		bit := IFF(1) << i
		if self&bit == 0 {
			continue
		}
		if int(i) < len(iffNames) {
			ret = append(ret, iffNames[i])
		} else {
			ret = append(ret, fmt.Sprintf("%#x", uint32(bit)))
		}
	}
	return strings.Join(ret, ",")
}
