package nlcodec

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const NLMSG_HDRLEN = unix.NLMSG_HDRLEN

var (
	nlmsgLen   = Field{0, 4}
	nlmsgType  = Field{4, 6}
	nlmsgFlags = Field{6, 8}
	nlmsgSeq   = Field{8, 12}
	nlmsgPid   = Field{12, 16}
)

// NetlinkHeader is struct nlmsghdr.
type NetlinkHeader struct {
	Length   uint32
	Type     uint16
	Flags    uint16
	Sequence uint32
	Port     uint32
}

func ParseNetlinkHeader(b []byte) (NetlinkHeader, error) {
	if buf, err := NewCheckedBuffer(b, NLMSG_HDRLEN); err != nil {
		return NetlinkHeader{}, errors.Wrap(err, "invalid netlink header")
	} else {
		return NetlinkHeader{
			Length:   buf.Uint32(nlmsgLen),
			Type:     buf.Uint16(nlmsgType),
			Flags:    buf.Uint16(nlmsgFlags),
			Sequence: buf.Uint32(nlmsgSeq),
			Port:     buf.Uint32(nlmsgPid),
		}, nil
	}
}

func (self NetlinkHeader) BufferLen() int {
	return NLMSG_HDRLEN
}

func (self NetlinkHeader) Emit(b []byte) {
	buf := NewBuffer(b)
	buf.SetUint32(nlmsgLen, self.Length)
	buf.SetUint16(nlmsgType, self.Type)
	buf.SetUint16(nlmsgFlags, self.Flags)
	buf.SetUint32(nlmsgSeq, self.Sequence)
	buf.SetUint32(nlmsgPid, self.Port)
}

func (self NetlinkHeader) String() string {
	return fmt.Sprintf("{len=%d type=%d flags=%#x seq=%d port=%d}",
		self.Length, self.Type, self.Flags, self.Sequence, self.Port)
}

// NetlinkMessage is one message of a receive buffer. Payload is a copy and
// starts right after the header.
type NetlinkMessage struct {
	Header  NetlinkHeader
	Payload []byte
}

func (self NetlinkMessage) IsDone() bool {
	return self.Header.Type == unix.NLMSG_DONE
}

func (self NetlinkMessage) IsError() bool {
	return self.Header.Type == unix.NLMSG_ERROR
}

// ErrorMessage decodes an NLMSG_ERROR payload, extended ACK attributes
// included when the header carries NLM_F_ACK_TLVS.
func (self NetlinkMessage) ErrorMessage() (*ErrorMessage, error) {
	if !self.IsError() {
		return nil, Errorf(NLE_MSGTYPE_NOSUPPORT, "message type %d is not NLMSG_ERROR", self.Header.Type)
	}
	return ParseExtendedErrorMessage(self.Payload, self.Header.Flags)
}

// MessageIterator walks the messages of a receive buffer the way the kernel
// lays them out: every message starts on a 4 byte boundary, but the last
// one may end without padding.
type MessageIterator struct {
	buf []byte
	pos int
	cur NetlinkMessage
	err error
}

func NewMessageIterator(b []byte) *MessageIterator {
	return &MessageIterator{buf: b}
}

func (self *MessageIterator) Next() bool {
	if self.err != nil {
		return false
	}
	rest := self.buf[self.pos:]
	if len(rest) < NLMSG_HDRLEN {
		return false
	}
	hdr, _ := ParseNetlinkHeader(rest)
	length := int(hdr.Length)
	if length < NLMSG_HDRLEN {
		self.err = Errorf(NLE_MSG_TOOSHORT, "message at offset %d: length %d is shorter than the netlink header", self.pos, length)
	} else if length > len(rest) {
		self.err = Errorf(NLE_MSG_TRUNC, "message at offset %d: length %d exceeds the %d bytes available", self.pos, length, len(rest))
	}
	if self.err != nil {
		self.pos = len(self.buf)
		return false
	}
	self.cur = NetlinkMessage{
		Header:  hdr,
		Payload: ParseBytes(rest[NLMSG_HDRLEN:length]),
	}
	self.pos += min(NLMSG_ALIGN(length), len(rest))
	return true
}

func (self *MessageIterator) Message() NetlinkMessage {
	return self.cur
}

func (self *MessageIterator) Err() error {
	return self.err
}

// ParseNetlinkMessages is the collecting form of MessageIterator.
func ParseNetlinkMessages(b []byte) ([]NetlinkMessage, error) {
	var ret []NetlinkMessage
	it := NewMessageIterator(b)
	for it.Next() {
		ret = append(ret, it.Message())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Flags of an NLMSG_ERROR header.
const (
	NLM_F_CAPPED   = unix.NLM_F_CAPPED
	NLM_F_ACK_TLVS = unix.NLM_F_ACK_TLVS
)

// enum nlmsgerr_attrs
const (
	NLMSGERR_ATTR_UNUSED = iota
	NLMSGERR_ATTR_MSG
	NLMSGERR_ATTR_OFFS
	NLMSGERR_ATTR_COOKIE
	NLMSGERR_ATTR_POLICY
	NLMSGERR_ATTR_MISS_TYPE
	NLMSGERR_ATTR_MISS_NEST
)

// ErrorMessage is struct nlmsgerr. Code is a negative errno, 0 for an ACK.
// Nlas are the extended ACK attributes that follow the echoed request.
type ErrorMessage struct {
	Code   int32
	Header NetlinkHeader
	Nlas   []DefaultNla
}

var nlmsgerrError = Field{0, 4}

func ParseErrorMessage(b []byte) (*ErrorMessage, error) {
	if buf, err := NewCheckedBuffer(b, 4+NLMSG_HDRLEN); err != nil {
		return nil, errors.Wrap(err, "invalid NLMSG_ERROR payload")
	} else if hdr, err := ParseNetlinkHeader(buf.Rest(4)); err != nil {
		return nil, errors.Wrap(err, "invalid NLMSG_ERROR payload")
	} else {
		return &ErrorMessage{
			Code:   buf.Int32(nlmsgerrError),
			Header: hdr,
		}, nil
	}
}

// ParseExtendedErrorMessage decodes an NLMSG_ERROR payload whose header
// had flags. Under NLM_F_ACK_TLVS the attributes start after the echoed
// request, which is only its header when NLM_F_CAPPED is set too.
func ParseExtendedErrorMessage(b []byte, flags uint16) (*ErrorMessage, error) {
	ret, err := ParseErrorMessage(b)
	if err != nil || flags&NLM_F_ACK_TLVS == 0 {
		return ret, err
	}
	start := 4 + NLMSG_HDRLEN
	if flags&NLM_F_CAPPED == 0 {
		start = 4 + NLMSG_ALIGN(max(int(ret.Header.Length), NLMSG_HDRLEN))
	}
	if start > len(b) {
		return nil, Errorf(NLE_MSG_TRUNC, "echoed request of %d bytes exceeds the %d bytes available", start-4, len(b)-4)
	}
	if nlas, err := ParseNlas(b[start:], func(nla NlaBuffer) (DefaultNla, error) {
		return ParseDefaultNla(nla), nil
	}); err != nil {
		return nil, errors.Wrap(err, "invalid extended ACK")
	} else {
		ret.Nlas = nlas
		return ret, nil
	}
}

func (self *ErrorMessage) IsAck() bool {
	return self.Code == 0
}

func (self *ErrorMessage) attr(kind uint16) ([]byte, bool) {
	for _, nla := range self.Nlas {
		if nla.Field() == kind {
			return nla.Data, true
		}
	}
	return nil, false
}

// Msg returns NLMSGERR_ATTR_MSG, the kernel's explanation.
func (self *ErrorMessage) Msg() (string, bool) {
	if b, ok := self.attr(NLMSGERR_ATTR_MSG); !ok {
		return "", false
	} else if msg, err := ParseString(b); err != nil {
		return "", false
	} else {
		return msg, true
	}
}

// Offset returns NLMSGERR_ATTR_OFFS, the offset of the offending
// attribute in the request.
func (self *ErrorMessage) Offset() (uint32, bool) {
	if b, ok := self.attr(NLMSGERR_ATTR_OFFS); !ok {
		return 0, false
	} else if off, err := ParseU32(b); err != nil {
		return 0, false
	} else {
		return off, true
	}
}

func (self *ErrorMessage) Error() string {
	msg, hasMsg := self.Msg()
	switch {
	case self.Code == 0 && hasMsg:
		return "ack: " + msg
	case self.Code == 0:
		return "ack"
	case hasMsg:
		return fmt.Sprintf("NlMsgerr %v: %s", unix.Errno(-self.Code), msg)
	}
	return fmt.Sprintf("NlMsgerr %v", unix.Errno(-self.Code))
}

// BufferLen counts the echoed header and the attributes, the layout of a
// capped extended ACK. An envelope carrying attributes needs
// NLM_F_CAPPED|NLM_F_ACK_TLVS in its flags.
func (self *ErrorMessage) BufferLen() int {
	return 4 + NLMSG_HDRLEN + NlasBufferLen(self.Nlas)
}

func (self *ErrorMessage) Emit(b []byte) {
	NewBuffer(b).SetInt32(nlmsgerrError, self.Code)
	self.Header.Emit(b[4 : 4+NLMSG_HDRLEN])
	EmitNlas(self.Nlas, b[4+NLMSG_HDRLEN:])
}

// Envelope prefixes Body with Header. Emit stamps the total length into the
// header; the other header fields are written as given.
type Envelope struct {
	Header NetlinkHeader
	Body   Emitable
}

func (self Envelope) BufferLen() int {
	n := NLMSG_HDRLEN
	if self.Body != nil {
		n += NLMSG_ALIGN(self.Body.BufferLen())
	}
	return n
}

func (self Envelope) Emit(b []byte) {
	hdr := self.Header
	hdr.Length = uint32(NLMSG_HDRLEN)
	if self.Body != nil {
		hdr.Length += uint32(self.Body.BufferLen())
		self.Body.Emit(b[NLMSG_HDRLEN : NLMSG_HDRLEN+self.Body.BufferLen()])
		clear(b[NLMSG_HDRLEN+self.Body.BufferLen() : self.BufferLen()])
	}
	hdr.Emit(b[:NLMSG_HDRLEN])
}

// Raw is a payload kept as bytes.
type Raw []byte

func (self Raw) BufferLen() int {
	return len(self)
}

func (self Raw) Emit(b []byte) {
	copy(b, self)
}
