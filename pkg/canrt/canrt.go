// Package canrt is the runtime contract of generated code: the types and
// helper routines that every generated signal, message, and pool builds
// on. Frame transport, timers, and callback scheduling live outside this
// package; generated code only needs the shapes below.
package canrt

// Opcode identifies what kind of frame event a MsgData carries.
type Opcode int

const (
	OpUnknown Opcode = iota
	// OpRxChanged is a received frame whose payload should be decoded.
	OpRxChanged
	// OpRxTimeout signals that the cyclic frame went silent.
	OpRxTimeout
)

func (o Opcode) String() string {
	switch o {
	case OpRxChanged:
		return "rx-changed"
	case OpRxTimeout:
		return "rx-timeout"
	default:
		return "unknown"
	}
}

// Status is the decode state of a signal value.
type Status int

const (
	StatusUnset Status = iota
	StatusUpdated
	StatusUnchanged
	StatusTimeout
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUpdated:
		return "updated"
	case StatusUnchanged:
		return "unchanged"
	case StatusTimeout:
		return "timeout"
	case StatusError:
		return "error"
	default:
		return "unset"
	}
}

// MsgData is one incoming frame event as handed to generated code.
type MsgData struct {
	ID     uint32
	Data   []byte
	Stamp  uint64
	Opcode Opcode
}

// SignalListener receives per-signal notifications after an update pass.
// The return value is the listener count contribution reported back to
// the owning message (0 when the listener did not consume the event).
type SignalListener interface {
	Notify(sig Signal) int
}

// MessageListener receives one notification per applied frame.
type MessageListener interface {
	Notify(msg Message)
}

// Signal is the uniform capability surface of every generated signal.
// Typed getters and setters stay on the concrete generated type; callers
// that need them type-assert.
type Signal interface {
	Name() string
	Stamp() uint64
	Status() Status
	Update(frame *MsgData) int
	Reset()
	SetListener(listener SignalListener)
}

// Message is the uniform capability surface of every generated message.
type Message interface {
	ID() uint32
	Name() string
	Stamp() uint64
	Status() Opcode
	Signals() []Signal
	Listeners() int
	Update(frame *MsgData) error
	Reset() error
	SetListener(listener MessageListener)
}

// Pool is the registry type emitted once per generated source unit.
type Pool interface {
	IDs() []uint32
	Get(id uint32) (*Handle, error)
	Update(frame *MsgData) (*Handle, error)
}
