package nlcodec

import (
	"fmt"

	"github.com/pkg/errors"
)

// error.h

// NlError is the libnl error code space. Only the codes a codec can report
// are declared; the numbering follows libnl.
type NlError int

const (
	NLE_SUCCESS           NlError = 0
	NLE_FAILURE           NlError = 1
	NLE_INVAL             NlError = 7
	NLE_RANGE             NlError = 8
	NLE_MSGSIZE           NlError = 9
	NLE_NOATTR            NlError = 13
	NLE_MISSING_ATTR      NlError = 14
	NLE_MSG_TRUNC         NlError = 18
	NLE_MSG_TOOSHORT      NlError = 21
	NLE_MSGTYPE_NOSUPPORT NlError = 22
	NLE_PARSE_ERR         NlError = 30
)

func (self NlError) Error() string {
	switch self {
	default:
		return "Unspecific failure"
	case NLE_SUCCESS:
		return "Success"
	case NLE_INVAL:
		return "Invalid input data or parameter"
	case NLE_RANGE:
		return "Input data out of range"
	case NLE_MSGSIZE:
		return "Message size not sufficient"
	case NLE_NOATTR:
		return "Attribute not available"
	case NLE_MISSING_ATTR:
		return "Missing attribute"
	case NLE_MSG_TRUNC:
		return "Kernel reported truncated message"
	case NLE_MSG_TOOSHORT:
		return "Netlink message is too short"
	case NLE_MSGTYPE_NOSUPPORT:
		return "Netlink message type is not supported"
	case NLE_PARSE_ERR:
		return "Unable to parse object"
	}
}

// DecodeError is the leaf error of every failed parse. Callers add context
// with errors.Wrap as the error travels up through nested attributes.
type DecodeError struct {
	Code    NlError
	Message string
}

func (self *DecodeError) Error() string {
	if self.Message == "" {
		return self.Code.Error()
	}
	return self.Message
}

// Unwrap exposes the libnl code so errors.Is(err, NLE_RANGE) works.
func (self *DecodeError) Unwrap() error {
	return self.Code
}

// Errorf builds a *DecodeError.
func Errorf(code NlError, format string, args ...interface{}) error {
	return &DecodeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// CodeOf returns the libnl code of the innermost *DecodeError in err, or
// NLE_FAILURE when err did not originate from this package.
func CodeOf(err error) NlError {
	if err == nil {
		return NLE_SUCCESS
	}
	if de, ok := errors.Cause(err).(*DecodeError); ok {
		return de.Code
	}
	return NLE_FAILURE
}

// IsTruncated reports whether err was caused by a buffer shorter than the
// structure or attribute it had to hold.
func IsTruncated(err error) bool {
	switch CodeOf(err) {
	case NLE_MSG_TOOSHORT, NLE_MSG_TRUNC:
		return true
	}
	return false
}
