package rtlink

import (
	"github.com/hkwi/nlcodec"
)

// LinkStats is the counter layout shared by struct rtnl_link_stats and
// struct rtnl_link_stats64.
type LinkStats[T uint32 | uint64] struct {
	RxPackets  T
	TxPackets  T
	RxBytes    T
	TxBytes    T
	RxErrors   T
	TxErrors   T
	RxDropped  T
	TxDropped  T
	Multicast  T
	Collisions T
	// detailed rx_errors
	RxLengthErrors T
	RxOverErrors   T
	RxCrcErrors    T
	RxFrameErrors  T
	RxFifoErrors   T
	RxMissedErrors T
	// detailed tx_errors
	TxAbortedErrors   T
	TxCarrierErrors   T
	TxFifoErrors      T
	TxHeartbeatErrors T
	TxWindowErrors    T
	// cslip etc.
	RxCompressed T
	TxCompressed T
	RxNohandler  T
}

func (self *LinkStats[T]) counters() []*T {
	return []*T{
		&self.RxPackets, &self.TxPackets, &self.RxBytes, &self.TxBytes,
		&self.RxErrors, &self.TxErrors, &self.RxDropped, &self.TxDropped,
		&self.Multicast, &self.Collisions,
		&self.RxLengthErrors, &self.RxOverErrors, &self.RxCrcErrors,
		&self.RxFrameErrors, &self.RxFifoErrors, &self.RxMissedErrors,
		&self.TxAbortedErrors, &self.TxCarrierErrors, &self.TxFifoErrors,
		&self.TxHeartbeatErrors, &self.TxWindowErrors,
		&self.RxCompressed, &self.TxCompressed, &self.RxNohandler,
	}
}

// statsCounters is the number of counters emitted. Kernels before 4.6 send
// one less (no rx_nohandler); newer ones may append more, which are
// ignored.
const statsCounters = 24

func statsField(i, width int) nlcodec.Field {
	return nlcodec.Field{Start: i * width, End: (i + 1) * width}
}

// Stats is IFLA_STATS.
type Stats struct {
	LinkStats[uint32]
}

func parseStats(b []byte) (Stats, error) {
	var ret Stats
	buf, err := nlcodec.NewCheckedBuffer(b, (statsCounters-1)*4)
	if err != nil {
		return ret, err
	}
	for i, p := range ret.counters() {
		if f := statsField(i, 4); f.End <= len(buf) {
			*p = buf.Uint32(f)
		}
	}
	return ret, nil
}

func (Stats) Kind() uint16 {
	return IFLA_STATS
}

func (Stats) ValueLen() int {
	return statsCounters * 4
}

func (self Stats) EmitValue(b []byte) {
	buf := nlcodec.NewBuffer(b)
	for i, p := range self.counters() {
		buf.SetUint32(statsField(i, 4), *p)
	}
}

// Stats64 is IFLA_STATS64.
type Stats64 struct {
	LinkStats[uint64]
}

func parseStats64(b []byte) (Stats64, error) {
	var ret Stats64
	buf, err := nlcodec.NewCheckedBuffer(b, (statsCounters-1)*8)
	if err != nil {
		return ret, err
	}
	for i, p := range ret.counters() {
		if f := statsField(i, 8); f.End <= len(buf) {
			*p = buf.Uint64(f)
		}
	}
	return ret, nil
}

func (Stats64) Kind() uint16 {
	return IFLA_STATS64
}

func (Stats64) ValueLen() int {
	return statsCounters * 8
}

func (self Stats64) EmitValue(b []byte) {
	buf := nlcodec.NewBuffer(b)
	for i, p := range self.counters() {
		buf.SetUint64(statsField(i, 8), *p)
	}
}

var (
	mapMemStart = nlcodec.Field{Start: 0, End: 8}
	mapMemEnd   = nlcodec.Field{Start: 8, End: 16}
	mapBaseAddr = nlcodec.Field{Start: 16, End: 24}
	mapIrq      = nlcodec.Field{Start: 24, End: 26}
	mapDma      = nlcodec.Field{Start: 26, End: 27}
	mapPort     = nlcodec.Field{Start: 27, End: 28}
)

// sizeofIfmap is sizeof(struct rtnl_link_ifmap) with its tail padding.
const sizeofIfmap = 32

// Map is IFLA_MAP, struct rtnl_link_ifmap.
type Map struct {
	MemStart uint64
	MemEnd   uint64
	BaseAddr uint64
	Irq      uint16
	Dma      uint8
	Port     uint8
}

func parseMap(b []byte) (Map, error) {
	if buf, err := nlcodec.NewCheckedBuffer(b, mapPort.End); err != nil {
		return Map{}, err
	} else {
		return Map{
			MemStart: buf.Uint64(mapMemStart),
			MemEnd:   buf.Uint64(mapMemEnd),
			BaseAddr: buf.Uint64(mapBaseAddr),
			Irq:      buf.Uint16(mapIrq),
			Dma:      buf.Uint8(mapDma),
			Port:     buf.Uint8(mapPort),
		}, nil
	}
}

func (Map) Kind() uint16 {
	return IFLA_MAP
}

func (Map) ValueLen() int {
	return sizeofIfmap
}

func (self Map) EmitValue(b []byte) {
	buf := nlcodec.NewBuffer(b)
	buf.SetUint64(mapMemStart, self.MemStart)
	buf.SetUint64(mapMemEnd, self.MemEnd)
	buf.SetUint64(mapBaseAddr, self.BaseAddr)
	buf.SetUint16(mapIrq, self.Irq)
	buf.SetUint8(mapDma, self.Dma)
	buf.SetUint8(mapPort, self.Port)
	clear(b[mapPort.End:sizeofIfmap])
}
