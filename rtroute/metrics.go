package rtroute

import (
	"github.com/hkwi/nlcodec"
)

// MetricNla is an RTAX_* attribute nested in RTA_METRICS.
type MetricNla interface {
	nlcodec.Nla
	metricNla()
}

// Metric is any of the u32 valued RTAX_* metrics; Type is the RTAX_* kind.
type Metric struct {
	Type  uint16
	Value uint32
}

// CcAlgo is RTAX_CC_ALGO, the congestion control name.
type CcAlgo string

type MetricOther struct {
	nlcodec.DefaultNla
}

func (self Metric) Kind() uint16       { return self.Type }
func (Metric) ValueLen() int           { return 4 }
func (self Metric) EmitValue(b []byte) { nlcodec.PutU32(b, self.Value) }
func (CcAlgo) Kind() uint16            { return RTAX_CC_ALGO }
func (self CcAlgo) ValueLen() int      { return nlcodec.StringLen(string(self)) }
func (self CcAlgo) EmitValue(b []byte) { nlcodec.PutString(b, string(self)) }

func (Metric) metricNla()      {}
func (CcAlgo) metricNla()      {}
func (MetricOther) metricNla() {}

func ParseMetricNla(nla nlcodec.NlaBuffer) (MetricNla, error) {
	switch kind := nla.Kind(); {
	case kind == RTAX_CC_ALGO:
		if v, err := nlcodec.ParseString(nla.Value()); err != nil {
			return nil, valueError(err, "RTAX_CC_ALGO")
		} else {
			return CcAlgo(v), nil
		}
	case kind > RTAX_UNSPEC && kind <= RTAX_FASTOPEN_NO_COOKIE:
		if v, err := nlcodec.ParseU32(nla.Value()); err != nil {
			return nil, valueError(err, metricNames[kind])
		} else {
			return Metric{Type: kind, Value: v}, nil
		}
	default:
		return MetricOther{nlcodec.ParseDefaultNla(nla)}, nil
	}
}

var metricNames = map[uint16]string{
	RTAX_LOCK:               "RTAX_LOCK",
	RTAX_MTU:                "RTAX_MTU",
	RTAX_WINDOW:             "RTAX_WINDOW",
	RTAX_RTT:                "RTAX_RTT",
	RTAX_RTTVAR:             "RTAX_RTTVAR",
	RTAX_SSTHRESH:           "RTAX_SSTHRESH",
	RTAX_CWND:               "RTAX_CWND",
	RTAX_ADVMSS:             "RTAX_ADVMSS",
	RTAX_REORDERING:         "RTAX_REORDERING",
	RTAX_HOPLIMIT:           "RTAX_HOPLIMIT",
	RTAX_INITCWND:           "RTAX_INITCWND",
	RTAX_FEATURES:           "RTAX_FEATURES",
	RTAX_RTO_MIN:            "RTAX_RTO_MIN",
	RTAX_INITRWND:           "RTAX_INITRWND",
	RTAX_QUICKACK:           "RTAX_QUICKACK",
	RTAX_CC_ALGO:            "RTAX_CC_ALGO",
	RTAX_FASTOPEN_NO_COOKIE: "RTAX_FASTOPEN_NO_COOKIE",
}

// Get returns the value of the first metric of kind typ.
func (self Metrics) Get(typ uint16) (uint32, bool) {
	for _, nla := range self {
		if m, ok := nla.(Metric); ok && m.Type == typ {
			return m.Value, true
		}
	}
	return 0, false
}
