// rtlink provides RTM_*LINK codecs

package rtlink

import (
	"github.com/hkwi/nlcodec"
)

// FindByName returns the link of a dump whose IFLA_IFNAME is name.
func FindByName(msgs []*LinkMessage, name string) (*LinkMessage, error) {
	for _, msg := range msgs {
		if n, ok := msg.Name(); ok && n == name {
			return msg, nil
		}
	}
	return nil, nlcodec.Errorf(nlcodec.NLE_NOATTR, "link %q not in response", name)
}

// FindNameByIndex returns IFLA_IFNAME of the link with ifi_index index.
func FindNameByIndex(msgs []*LinkMessage, index uint32) (string, error) {
	if msg, err := FindByIndex(msgs, index); err != nil {
		return "", err
	} else if name, ok := msg.Name(); !ok {
		return "", nlcodec.Errorf(nlcodec.NLE_MISSING_ATTR, "link %d has no IFLA_IFNAME", index)
	} else {
		return name, nil
	}
}

func FindByIndex(msgs []*LinkMessage, index uint32) (*LinkMessage, error) {
	for _, msg := range msgs {
		if msg.Header.Index == index {
			return msg, nil
		}
	}
	return nil, nlcodec.Errorf(nlcodec.NLE_NOATTR, "link %d not in response", index)
}
