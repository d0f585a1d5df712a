package dbc

// ByteOrder is the bit packing order of a signal.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota // Intel
	BigEndian                     // Motorola
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big_endian"
	}

	return "little_endian"
}

// MuxRole describes how a signal participates in multiplexing.
type MuxRole int

const (
	// MuxPlain signals are always present in the frame.
	MuxPlain MuxRole = iota
	// MuxMultiplexor is the selector signal whose raw value gates the
	// multiplexed signals of the message.
	MuxMultiplexor
	// MuxMultiplexed signals occupy their bit range only when the
	// multiplexor's raw value equals their MuxValue.
	MuxMultiplexed
	// MuxBoth marks a signal that is both multiplexor and multiplexed
	// (extended multiplexing).
	MuxBoth
)

// ValueDesc maps one raw signal value to a human readable description.
type ValueDesc struct {
	ID          int64
	Description string
}

// Signal is one named bit field within a message.
type Signal struct {
	Name      string
	StartBit  uint64
	Size      uint64 // bits
	ByteOrder ByteOrder
	Signed    bool
	Factor    float64
	Offset    float64
	Min       float64
	Max       float64
	Unit      string
	Receivers []string
	Mux       MuxRole
	MuxValue  uint64
	Comment   string
	Values    []ValueDesc
}

// Message is one CAN frame definition.
type Message struct {
	ID          uint32
	Name        string
	Size        uint64 // bytes
	Transmitter string
	Comment     string
	Signals     []Signal
}

// Model is a parsed DBC database. It is read-only once built: the
// generation engine never mutates it.
type Model struct {
	Version    string
	SourceFile string
	Messages   []*Message // sorted by ascending ID
}

// Message returns the message with the given CAN ID.
func (m *Model) Message(id uint32) (*Message, bool) {
	for _, msg := range m.Messages {
		if msg.ID == id {
			return msg, true
		}
	}

	return nil, false
}

func (m *Model) signal(id uint32, name string) (*Signal, bool) {
	msg, ok := m.Message(id)
	if !ok {
		return nil, false
	}
	for i := range msg.Signals {
		if msg.Signals[i].Name == name {
			return &msg.Signals[i], true
		}
	}

	return nil, false
}
