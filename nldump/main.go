// Command nldump decodes netlink messages, either from a hex dump or live
// from the RTNLGRP_LINK multicast group.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
