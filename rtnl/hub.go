package rtnl

import (
	"sync"

	"github.com/hkwi/nlcodec"
)

// Message is a received message together with its decoded body. Error is
// set when the body failed to decode; Body is nil then.
type Message struct {
	Header nlcodec.NetlinkHeader
	Body   nlcodec.Emitable
	Error  error
}

type Listener interface {
	RtListen(Message)
}

// Hub routes received messages. Replies go to the channel that expects
// their sequence number, which is closed after NLMSG_DONE or NLMSG_ERROR;
// notifications carry sequence 0 and go to every listener.
type Hub struct {
	lock      sync.Mutex
	unicast   map[uint32]*request
	listeners []Listener
}

// request is a registered sequence number. done is closed by Cancel.
type request struct {
	ch     chan Message
	done   chan struct{}
	closed sync.Once
}

func (self *request) finish() {
	self.closed.Do(func() { close(self.ch) })
}

func NewHub() *Hub {
	return &Hub{
		unicast: make(map[uint32]*request),
	}
}

// Expect registers seq before the request is sent. The channel is
// unbuffered, so it must be drained while Dispatch runs, or given up on
// with Cancel.
func (self *Hub) Expect(seq uint32) <-chan Message {
	req := &request{
		ch:   make(chan Message),
		done: make(chan struct{}),
	}
	self.lock.Lock()
	defer self.lock.Unlock()
	self.unicast[seq] = req
	return req.ch
}

// Cancel stops waiting for seq. Later replies are dropped and a Dispatch
// blocked on the channel of seq returns. The channel is not closed; the
// caller has stopped reading it.
func (self *Hub) Cancel(seq uint32) {
	self.lock.Lock()
	defer self.lock.Unlock()
	if req, ok := self.unicast[seq]; ok {
		delete(self.unicast, seq)
		close(req.done)
	}
}

func (self *Hub) Add(listener Listener) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.listeners = append(self.listeners, listener)
}

func (self *Hub) Remove(listener Listener) {
	self.lock.Lock()
	defer self.lock.Unlock()

	var active []Listener
	for _, li := range self.listeners {
		if li != listener {
			active = append(active, li)
		}
	}
	self.listeners = active
}

// Dispatch decodes and routes every message of a receive buffer. A
// malformed buffer stops the walk and its error is returned; messages
// before it have been delivered.
func (self *Hub) Dispatch(b []byte) error {
	it := nlcodec.NewMessageIterator(b)
	for it.Next() {
		self.dispatch(it.Message())
	}
	return it.Err()
}

func (self *Hub) dispatch(nlm nlcodec.NetlinkMessage) {
	msg := Message{Header: nlm.Header}
	if body, err := ParseMessage(nlm); err != nil {
		msg.Error = err
	} else {
		msg.Body = body
	}

	seq := nlm.Header.Sequence
	if seq == 0 {
		self.lock.Lock()
		listeners := append([]Listener(nil), self.listeners...)
		self.lock.Unlock()

		for _, listener := range listeners {
			listener.RtListen(msg)
		}
		return
	}

	self.lock.Lock()
	req := self.unicast[seq]
	self.lock.Unlock()
	if req == nil {
		return
	}

	select {
	case req.ch <- msg:
	case <-req.done:
		return
	}
	if nlm.IsDone() || nlm.IsError() {
		self.lock.Lock()
		if self.unicast[seq] == req {
			delete(self.unicast, seq)
		}
		self.lock.Unlock()
		req.finish()
	}
}

// Pending reports whether a reply for seq is still expected.
func (self *Hub) Pending(seq uint32) bool {
	self.lock.Lock()
	defer self.lock.Unlock()
	_, ok := self.unicast[seq]
	return ok
}
