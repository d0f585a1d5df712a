package canrt

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Handle is a shared-ownership wrapper around one generated message.
// Several holders (the pool plus any attached listener) may keep the same
// Handle; mutation goes through Acquire, which fails fast when the guard
// is already held instead of blocking. Generated types are meant for a
// single-threaded dispatch loop, not for true concurrent use.
type Handle struct {
	mu  sync.Mutex
	msg Message
}

func NewHandle(msg Message) *Handle {
	return &Handle{msg: msg}
}

// ID reads the message ID without taking the guard; the ID is immutable
// after construction.
func (h *Handle) ID() uint32 {
	return h.msg.ID()
}

// Acquire takes the exclusive guard and returns the message plus a
// release function. It errors immediately when the guard is held.
func (h *Handle) Acquire() (Message, func(), error) {
	if !h.mu.TryLock() {
		return nil, nil, errors.Newf("message %q (id 0x%X) already held", h.msg.Name(), h.msg.ID())
	}

	return h.msg, h.mu.Unlock, nil
}
