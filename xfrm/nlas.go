package xfrm

import (
	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
)

const (
	XFRMA_UNSPEC = iota
	XFRMA_ALG_AUTH
	XFRMA_ALG_CRYPT
	XFRMA_ALG_COMP
	XFRMA_ENCAP
	XFRMA_TMPL
	XFRMA_SA
	XFRMA_POLICY
	XFRMA_SEC_CTX
	XFRMA_LTIME_VAL
	XFRMA_REPLAY_VAL
	XFRMA_REPLAY_THRESH
	XFRMA_ETIMER_THRESH
	XFRMA_SRCADDR
	XFRMA_COADDR
	XFRMA_LASTUSED
	XFRMA_POLICY_TYPE
	XFRMA_MIGRATE
	XFRMA_ALG_AEAD
	XFRMA_KMADDRESS
	XFRMA_ALG_AUTH_TRUNC
	XFRMA_MARK
	XFRMA_TFCPAD
	XFRMA_REPLAY_ESN_VAL
	XFRMA_SA_EXTRA_FLAGS
	XFRMA_PROTO
	XFRMA_ADDRESS_FILTER
	XFRMA_PAD
	XFRMA_OFFLOAD_DEV
	XFRMA_SET_MARK
	XFRMA_SET_MARK_MASK
	XFRMA_IF_ID
)

const (
	XFRM_POLICY_TYPE_MAIN = iota
	XFRM_POLICY_TYPE_SUB
)

const (
	SizeofXfrmMark           = 0x08
	SizeofXfrmUserpolicyType = 0x06
	SizeofXfrmUserSecCtx     = 0x08
)

// XfrmNla is an XFRMA_* attribute.
type XfrmNla interface {
	nlcodec.Nla
	xfrmNla()
}

// SrcAddr and Coaddr are xfrm_address_t.
type SrcAddr [16]byte
type Coaddr [16]byte

// Mark is struct xfrm_mark.
type Mark struct {
	Value uint32
	Mask  uint32
}

type IfId uint32

// PolicyType is struct xfrm_userpolicy_type; only the type byte has a
// meaning.
type PolicyType uint8

// SecContext is struct xfrm_user_sec_ctx followed by the context string.
type SecContext struct {
	Alg     uint8
	Doi     uint8
	Context []byte
}

type SetMark uint32
type SetMarkMask uint32
type ReplayThresh uint32
type EtimerThresh uint32
type LastUsed uint64
type Tfcpad uint32
type SaExtraFlags uint32
type Proto uint8

type Other struct {
	nlcodec.DefaultNla
}

func (SrcAddr) Kind() uint16      { return XFRMA_SRCADDR }
func (Coaddr) Kind() uint16       { return XFRMA_COADDR }
func (Mark) Kind() uint16         { return XFRMA_MARK }
func (IfId) Kind() uint16         { return XFRMA_IF_ID }
func (PolicyType) Kind() uint16   { return XFRMA_POLICY_TYPE }
func (SecContext) Kind() uint16   { return XFRMA_SEC_CTX }
func (SetMark) Kind() uint16      { return XFRMA_SET_MARK }
func (SetMarkMask) Kind() uint16  { return XFRMA_SET_MARK_MASK }
func (ReplayThresh) Kind() uint16 { return XFRMA_REPLAY_THRESH }
func (EtimerThresh) Kind() uint16 { return XFRMA_ETIMER_THRESH }
func (LastUsed) Kind() uint16     { return XFRMA_LASTUSED }
func (Tfcpad) Kind() uint16       { return XFRMA_TFCPAD }
func (SaExtraFlags) Kind() uint16 { return XFRMA_SA_EXTRA_FLAGS }
func (Proto) Kind() uint16        { return XFRMA_PROTO }

func (SrcAddr) ValueLen() int         { return 16 }
func (Coaddr) ValueLen() int          { return 16 }
func (Mark) ValueLen() int            { return SizeofXfrmMark }
func (IfId) ValueLen() int            { return 4 }
func (PolicyType) ValueLen() int      { return SizeofXfrmUserpolicyType }
func (self SecContext) ValueLen() int { return SizeofXfrmUserSecCtx + len(self.Context) }
func (SetMark) ValueLen() int         { return 4 }
func (SetMarkMask) ValueLen() int     { return 4 }
func (ReplayThresh) ValueLen() int    { return 4 }
func (EtimerThresh) ValueLen() int    { return 4 }
func (LastUsed) ValueLen() int        { return 8 }
func (Tfcpad) ValueLen() int          { return 4 }
func (SaExtraFlags) ValueLen() int    { return 4 }
func (Proto) ValueLen() int           { return 1 }

func (self SrcAddr) EmitValue(b []byte)      { copy(b, self[:]) }
func (self Coaddr) EmitValue(b []byte)       { copy(b, self[:]) }
func (self IfId) EmitValue(b []byte)         { nlcodec.PutU32(b, uint32(self)) }
func (self SetMark) EmitValue(b []byte)      { nlcodec.PutU32(b, uint32(self)) }
func (self SetMarkMask) EmitValue(b []byte)  { nlcodec.PutU32(b, uint32(self)) }
func (self ReplayThresh) EmitValue(b []byte) { nlcodec.PutU32(b, uint32(self)) }
func (self EtimerThresh) EmitValue(b []byte) { nlcodec.PutU32(b, uint32(self)) }
func (self LastUsed) EmitValue(b []byte)     { nlcodec.PutU64(b, uint64(self)) }
func (self Tfcpad) EmitValue(b []byte)       { nlcodec.PutU32(b, uint32(self)) }
func (self SaExtraFlags) EmitValue(b []byte) { nlcodec.PutU32(b, uint32(self)) }
func (self Proto) EmitValue(b []byte)        { nlcodec.PutU8(b, uint8(self)) }

func (self Mark) EmitValue(b []byte) {
	nlcodec.PutU32(b[0:4], self.Value)
	nlcodec.PutU32(b[4:8], self.Mask)
}

func (self PolicyType) EmitValue(b []byte) {
	clear(b[:SizeofXfrmUserpolicyType])
	b[0] = uint8(self)
}

var (
	secCtxLen     = nlcodec.Field{Start: 0, End: 2}
	secCtxExttype = nlcodec.Field{Start: 2, End: 4}
	secCtxAlg     = nlcodec.Field{Start: 4, End: 5}
	secCtxDoi     = nlcodec.Field{Start: 5, End: 6}
	secCtxCtxLen  = nlcodec.Field{Start: 6, End: 8}
)

func (self SecContext) EmitValue(b []byte) {
	buf := nlcodec.NewBuffer(b)
	buf.SetUint16(secCtxLen, uint16(self.ValueLen()))
	buf.SetUint16(secCtxExttype, XFRMA_SEC_CTX)
	buf.SetUint8(secCtxAlg, self.Alg)
	buf.SetUint8(secCtxDoi, self.Doi)
	buf.SetUint16(secCtxCtxLen, uint16(len(self.Context)))
	copy(buf.Rest(SizeofXfrmUserSecCtx), self.Context)
}

func (SrcAddr) xfrmNla()      {}
func (Coaddr) xfrmNla()       {}
func (Mark) xfrmNla()         {}
func (IfId) xfrmNla()         {}
func (PolicyType) xfrmNla()   {}
func (SecContext) xfrmNla()   {}
func (SetMark) xfrmNla()      {}
func (SetMarkMask) xfrmNla()  {}
func (ReplayThresh) xfrmNla() {}
func (EtimerThresh) xfrmNla() {}
func (LastUsed) xfrmNla()     {}
func (Tfcpad) xfrmNla()       {}
func (SaExtraFlags) xfrmNla() {}
func (Proto) xfrmNla()        {}
func (Other) xfrmNla()        {}

func valueError(err error, name string) error {
	return errors.Wrapf(err, "invalid %s value", name)
}

func u32[T interface {
	~uint32
	XfrmNla
}](nla nlcodec.NlaBuffer, name string) (XfrmNla, error) {
	if v, err := nlcodec.ParseU32(nla.Value()); err != nil {
		return nil, valueError(err, name)
	} else {
		return T(v), nil
	}
}

func parseSecContext(b []byte) (SecContext, error) {
	buf, err := nlcodec.NewCheckedBuffer(b, SizeofXfrmUserSecCtx)
	if err != nil {
		return SecContext{}, err
	}
	n := int(buf.Uint16(secCtxCtxLen))
	if rest := buf.Rest(SizeofXfrmUserSecCtx); n > len(rest) {
		return SecContext{}, nlcodec.Errorf(nlcodec.NLE_MSG_TRUNC, "context length %d exceeds the %d bytes available", n, len(rest))
	} else {
		return SecContext{
			Alg:     buf.Uint8(secCtxAlg),
			Doi:     buf.Uint8(secCtxDoi),
			Context: nlcodec.ParseBytes(rest[:n]),
		}, nil
	}
}

func ParseXfrmNla(nla nlcodec.NlaBuffer) (XfrmNla, error) {
	switch nla.Kind() {
	case XFRMA_SRCADDR:
		if v, err := nlcodec.ParseIn6Addr(nla.Value()); err != nil {
			return nil, valueError(err, "XFRMA_SRCADDR")
		} else {
			return SrcAddr(v), nil
		}
	case XFRMA_COADDR:
		if v, err := nlcodec.ParseIn6Addr(nla.Value()); err != nil {
			return nil, valueError(err, "XFRMA_COADDR")
		} else {
			return Coaddr(v), nil
		}
	case XFRMA_MARK:
		if v, err := nlcodec.ParseU32Array(nla.Value()); err != nil {
			return nil, valueError(err, "XFRMA_MARK")
		} else if len(v) != 2 {
			return nil, valueError(nlcodec.Errorf(nlcodec.NLE_RANGE, "expected 8 bytes, got %d", len(nla.Value())), "XFRMA_MARK")
		} else {
			return Mark{Value: v[0], Mask: v[1]}, nil
		}
	case XFRMA_IF_ID:
		return u32[IfId](nla, "XFRMA_IF_ID")
	case XFRMA_POLICY_TYPE:
		if v := nla.Value(); len(v) < SizeofXfrmUserpolicyType {
			return nil, valueError(nlcodec.Errorf(nlcodec.NLE_RANGE, "expected at least %d bytes, got %d", SizeofXfrmUserpolicyType, len(v)), "XFRMA_POLICY_TYPE")
		} else {
			return PolicyType(v[0]), nil
		}
	case XFRMA_SEC_CTX:
		if v, err := parseSecContext(nla.Value()); err != nil {
			return nil, valueError(err, "XFRMA_SEC_CTX")
		} else {
			return v, nil
		}
	case XFRMA_SET_MARK:
		return u32[SetMark](nla, "XFRMA_SET_MARK")
	case XFRMA_SET_MARK_MASK:
		return u32[SetMarkMask](nla, "XFRMA_SET_MARK_MASK")
	case XFRMA_REPLAY_THRESH:
		return u32[ReplayThresh](nla, "XFRMA_REPLAY_THRESH")
	case XFRMA_ETIMER_THRESH:
		return u32[EtimerThresh](nla, "XFRMA_ETIMER_THRESH")
	case XFRMA_LASTUSED:
		if v, err := nlcodec.ParseU64(nla.Value()); err != nil {
			return nil, valueError(err, "XFRMA_LASTUSED")
		} else {
			return LastUsed(v), nil
		}
	case XFRMA_TFCPAD:
		return u32[Tfcpad](nla, "XFRMA_TFCPAD")
	case XFRMA_SA_EXTRA_FLAGS:
		return u32[SaExtraFlags](nla, "XFRMA_SA_EXTRA_FLAGS")
	case XFRMA_PROTO:
		if v, err := nlcodec.ParseU8(nla.Value()); err != nil {
			return nil, valueError(err, "XFRMA_PROTO")
		} else {
			return Proto(v), nil
		}
	default:
		return Other{nlcodec.ParseDefaultNla(nla)}, nil
	}
}

const (
	XFRM_MSG_NEWSA = 0x10 + iota
	XFRM_MSG_DELSA
	XFRM_MSG_GETSA
	XFRM_MSG_NEWPOLICY
	XFRM_MSG_DELPOLICY
	XFRM_MSG_GETPOLICY
)

// PolicyIdMessage is the payload of XFRM_MSG_GETPOLICY and
// XFRM_MSG_DELPOLICY.
type PolicyIdMessage struct {
	Id   UserPolicyId
	Nlas []XfrmNla
}

func ParsePolicyIdMessage(b []byte) (*PolicyIdMessage, error) {
	id, err := ParseUserPolicyId(b)
	if err != nil {
		return nil, err
	}
	nlas, err := nlcodec.ParseNlas(b[SizeofXfrmUserpolicyId:], ParseXfrmNla)
	if err != nil {
		return nil, errors.Wrap(err, "invalid policy id message")
	}
	return &PolicyIdMessage{
		Id:   id,
		Nlas: nlas,
	}, nil
}

func (self *PolicyIdMessage) BufferLen() int {
	return SizeofXfrmUserpolicyId + nlcodec.NlasBufferLen(self.Nlas)
}

func (self *PolicyIdMessage) Emit(b []byte) {
	self.Id.Emit(b[:SizeofXfrmUserpolicyId])
	nlcodec.EmitNlas(self.Nlas, b[SizeofXfrmUserpolicyId:])
}

var Names = &nlcodec.Names{
	Prefix: "XFRMA",
	Names: map[uint16]string{
		XFRMA_ALG_AUTH:       "ALG_AUTH",
		XFRMA_ALG_CRYPT:      "ALG_CRYPT",
		XFRMA_ALG_COMP:       "ALG_COMP",
		XFRMA_ENCAP:          "ENCAP",
		XFRMA_TMPL:           "TMPL",
		XFRMA_SA:             "SA",
		XFRMA_POLICY:         "POLICY",
		XFRMA_SEC_CTX:        "SEC_CTX",
		XFRMA_LTIME_VAL:      "LTIME_VAL",
		XFRMA_REPLAY_VAL:     "REPLAY_VAL",
		XFRMA_REPLAY_THRESH:  "REPLAY_THRESH",
		XFRMA_ETIMER_THRESH:  "ETIMER_THRESH",
		XFRMA_SRCADDR:        "SRCADDR",
		XFRMA_COADDR:         "COADDR",
		XFRMA_LASTUSED:       "LASTUSED",
		XFRMA_POLICY_TYPE:    "POLICY_TYPE",
		XFRMA_MIGRATE:        "MIGRATE",
		XFRMA_ALG_AEAD:       "ALG_AEAD",
		XFRMA_KMADDRESS:      "KMADDRESS",
		XFRMA_ALG_AUTH_TRUNC: "ALG_AUTH_TRUNC",
		XFRMA_MARK:           "MARK",
		XFRMA_TFCPAD:         "TFCPAD",
		XFRMA_REPLAY_ESN_VAL: "REPLAY_ESN_VAL",
		XFRMA_SA_EXTRA_FLAGS: "SA_EXTRA_FLAGS",
		XFRMA_PROTO:          "PROTO",
		XFRMA_ADDRESS_FILTER: "ADDRESS_FILTER",
		XFRMA_PAD:            "PAD",
		XFRMA_OFFLOAD_DEV:    "OFFLOAD_DEV",
		XFRMA_SET_MARK:       "SET_MARK",
		XFRMA_SET_MARK_MASK:  "SET_MARK_MASK",
		XFRMA_IF_ID:          "IF_ID",
	},
}
