package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

func newDecodeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a hex dump of netlink messages",
		Long: `decode reads netlink messages as hex from file, or from stdin when no
file is given. Whitespace, commas, 0x prefixes and # comments are
ignored, so nlmon hex dumps and Go byte literals can be pasted as is.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "open input")
				}
				defer f.Close()
				in = f
			}
			b, err := readHex(in)
			if err != nil {
				return err
			}

			records, err := newDecoder(a.cfg, a.log).decode(b)
			out := cmd.OutOrStdout()
			for _, rec := range records {
				fmt.Fprintln(out, rec)
			}
			if err != nil {
				if a.cfg.Strict {
					return err
				}
				a.log.WithError(err).Warn("input ends with a malformed message")
			}
			return nil
		},
	}
}

// readHex reads the whole input, so a capture on a single line is no
// problem. A 0x prefixed token is one byte, or more, written without
// leading zeros: 0x7 is 07.
func readHex(r io.Reader) ([]byte, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	var digits strings.Builder
	for _, line := range strings.Split(string(text), "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, f := range strings.FieldsFunc(line, func(c rune) bool {
			return c == ',' || c == ' ' || c == '\t' || c == '\r'
		}) {
			if lit, ok := cutHexPrefix(f); ok {
				if len(lit)%2 != 0 {
					digits.WriteByte('0')
				}
				f = lit
			}
			digits.WriteString(f)
		}
	}
	b, err := hex.DecodeString(digits.String())
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex input")
	}
	return b, nil
}

func cutHexPrefix(s string) (string, bool) {
	if lit, ok := strings.CutPrefix(s, "0x"); ok {
		return lit, true
	}
	return strings.CutPrefix(s, "0X")
}

// record is one decoded message as printed.
type record struct {
	Header nlcodec.NetlinkHeader
	Type   string
	Text   string
}

func (self record) String() string {
	return fmt.Sprintf("%s seq=%d flags=%#x %s", self.Type, self.Header.Sequence, self.Header.Flags, self.Text)
}

type decoder struct {
	proto    protocol
	strict   bool
	maxDepth int
	log      logrus.FieldLogger
}

func newDecoder(cfg config, log logrus.FieldLogger) decoder {
	return decoder{
		proto:    protocols[cfg.Family](),
		strict:   cfg.Strict,
		maxDepth: cfg.MaxDepth,
		log:      log,
	}
}

// decode returns the records of every message before the first failure
// along with that failure. Only a malformed netlink header fails in
// lenient mode.
func (self decoder) decode(b []byte) ([]record, error) {
	var ret []record
	it := nlcodec.NewMessageIterator(b)
	for it.Next() {
		if rec, err := self.message(it.Message()); err != nil {
			return ret, err
		} else {
			ret = append(ret, rec)
		}
	}
	return ret, it.Err()
}

func (self decoder) typeName(t uint16) string {
	switch t {
	case unix.NLMSG_NOOP:
		return "NLMSG_NOOP"
	case unix.NLMSG_ERROR:
		return "NLMSG_ERROR"
	case unix.NLMSG_DONE:
		return "NLMSG_DONE"
	case unix.NLMSG_OVERRUN:
		return "NLMSG_OVERRUN"
	}
	return self.proto.typeName(t)
}

func (self decoder) message(msg nlcodec.NetlinkMessage) (record, error) {
	rec := record{
		Header: msg.Header,
		Type:   self.typeName(msg.Header.Type),
	}
	entry := self.log.WithFields(logrus.Fields{
		"seq":  msg.Header.Sequence,
		"type": rec.Type,
		"len":  msg.Header.Length,
	})

	switch {
	case msg.IsDone():
		rec.Text = "done"
	case msg.IsError():
		if e, err := msg.ErrorMessage(); err != nil {
			if self.strict {
				return record{}, errors.Wrapf(err, "message seq %d", msg.Header.Sequence)
			}
			entry.WithError(err).Warn("bad error message")
			rec.Text = fmt.Sprintf("%x", msg.Payload)
		} else {
			rec.Text = e.Error()
		}
	case self.strict:
		if v, err := self.proto.parse(msg); err != nil {
			return record{}, errors.Wrapf(err, "message seq %d", msg.Header.Sequence)
		} else {
			rec.Text = render(v)
		}
	default:
		rec.Text = self.tree(msg, entry)
	}

	if self.proto.observe != nil {
		self.proto.observe(msg, entry)
	}
	entry.Debug("decoded")
	return rec, nil
}

// tree renders the fixed header as hex and the attributes by name. What
// cannot be walked is printed as hex.
func (self decoder) tree(msg nlcodec.NetlinkMessage, entry logrus.FieldLogger) string {
	l, ok := self.proto.layout(msg)
	if !ok {
		return fmt.Sprintf("%x", msg.Payload)
	}
	if len(msg.Payload) < l.headerLen {
		entry.Warnf("payload of %d bytes is shorter than the %d byte header", len(msg.Payload), l.headerLen)
		return fmt.Sprintf("%x", msg.Payload)
	}
	hdr := msg.Payload[:l.headerLen]
	attrs := msg.Payload[min(nlcodec.NLMSG_ALIGN(l.headerLen), len(msg.Payload)):]
	nodes, err := nlcodec.ParseTree(attrs, l.names, self.maxDepth)
	if err != nil {
		entry.WithError(err).Warn("attributes left undecoded")
		return fmt.Sprintf("hdr=%x %x", hdr, attrs)
	}
	return fmt.Sprintf("hdr=%x %s", hdr, nlcodec.Dump(nodes, l.names))
}

func render(v any) string {
	switch v := v.(type) {
	case nlcodec.Raw:
		return fmt.Sprintf("%x", []byte(v))
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%+v", v)
}
