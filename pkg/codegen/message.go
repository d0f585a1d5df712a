package codegen

import (
	"strings"

	"github.com/BIwashi/canforge/pkg/dbc"
)

// Per-message emission: the aggregate type owning one instance of every
// signal, a bulk SetValues encoder, and the frame Update/Reset pair the
// pool dispatches to. Multiplexed signals are gated on the raw selector
// value in both directions.

// reservedMethods are accessor names already taken by the message API; a
// signal whose sanitized name collides gets a Sig prefix.
var reservedMethods = map[string]bool{
	"ID": true, "Name": true, "Stamp": true, "Status": true,
	"Signals": true, "Listeners": true, "Update": true, "Reset": true,
	"SetListener": true, "SetValues": true,
}

func sigAccessor(sig *dbc.Signal) string {
	name := pascalIdent(sig.Name)
	if reservedMethods[name] {
		return "Sig" + name
	}

	return name
}

func sigField(sig *dbc.Signal) string {
	return "sig" + pascalIdent(sig.Name)
}

// setValuesOrder returns the signals in pack order: the multiplexor
// always first, the rest in declaration order.
func setValuesOrder(msg *dbc.Message, mux *dbc.Signal) []*dbc.Signal {
	ordered := make([]*dbc.Signal, 0, len(msg.Signals))
	if mux != nil {
		ordered = append(ordered, mux)
	}
	for i := range msg.Signals {
		sig := &msg.Signals[i]
		if sig != mux {
			ordered = append(ordered, sig)
		}
	}

	return ordered
}

func emitMessage(w *codeWriter, msg *dbc.Message, mux *dbc.Signal) {
	msgType := pascalIdent(msg.Name) + "Msg"

	w.printf("// %s aggregates all %s signals.", msgType, msg.Name)
	w.printf("// - ID: %d (0x%X)", msg.ID, msg.ID)
	w.printf("// - Size: %d bytes", msg.Size)
	if msg.Transmitter != "" {
		w.printf("// - Transmitter: %s", msg.Transmitter)
	}
	if msg.Comment != "" {
		w.line("//")
		for _, line := range strings.Split(strings.TrimSpace(msg.Comment), "\n") {
			w.printf("// %s", line)
		}
	}

	emitMessageStruct(w, msg, msgType)
	emitMessageAccessors(w, msg, msgType)
	emitSetValues(w, msg, mux, msgType)
	emitMessageUpdate(w, msg, mux, msgType)
	emitMessageReset(w, msg, msgType)

	w.printf("var _ canrt.Message = (*%s)(nil)", msgType)
	w.blank()
}

func emitMessageStruct(w *codeWriter, msg *dbc.Message, msgType string) {
	w.printf("type %s struct {", msgType)
	w.line("\tlistener  canrt.MessageListener")
	w.line("\tname      string")
	w.line("\tstatus    canrt.Opcode")
	w.line("\tlisteners int")
	w.line("\tstamp     uint64")
	w.line("\tid        uint32")
	for i := range msg.Signals {
		sig := &msg.Signals[i]
		w.printf("\t%s *%s", sigField(sig), pascalIdent(msg.Name)+pascalIdent(sig.Name))
	}
	w.line("}")
	w.blank()

	w.printf("func New%s() *%s {", msgType, msgType)
	w.printf("\treturn &%s{", msgType)
	w.printf("\t\tid:   %d,", msg.ID)
	w.printf("\t\tname: %q,", msg.Name)
	for i := range msg.Signals {
		sig := &msg.Signals[i]
		w.printf("\t\t%s: New%s(),", sigField(sig), pascalIdent(msg.Name)+pascalIdent(sig.Name))
	}
	w.line("\t}")
	w.line("}")
	w.blank()
}

func emitMessageAccessors(w *codeWriter, msg *dbc.Message, msgType string) {
	w.printf("func (m *%s) ID() uint32 {", msgType)
	w.line("\treturn m.id")
	w.line("}")
	w.blank()
	w.printf("func (m *%s) Name() string {", msgType)
	w.line("\treturn m.name")
	w.line("}")
	w.blank()
	w.printf("func (m *%s) Stamp() uint64 {", msgType)
	w.line("\treturn m.stamp")
	w.line("}")
	w.blank()
	w.printf("func (m *%s) Status() canrt.Opcode {", msgType)
	w.line("\treturn m.status")
	w.line("}")
	w.blank()
	w.printf("func (m *%s) Listeners() int {", msgType)
	w.line("\treturn m.listeners")
	w.line("}")
	w.blank()
	w.printf("func (m *%s) SetListener(listener canrt.MessageListener) {", msgType)
	w.line("\tm.listener = listener")
	w.line("}")
	w.blank()

	w.printf("func (m *%s) Signals() []canrt.Signal {", msgType)
	w.line("\treturn []canrt.Signal{")
	for i := range msg.Signals {
		w.printf("\t\tm.%s,", sigField(&msg.Signals[i]))
	}
	w.line("\t}")
	w.line("}")
	w.blank()

	for i := range msg.Signals {
		sig := &msg.Signals[i]
		w.printf("func (m *%s) %s() *%s {", msgType, sigAccessor(sig), pascalIdent(msg.Name)+pascalIdent(sig.Name))
		w.printf("\treturn m.%s", sigField(sig))
		w.line("}")
		w.blank()
	}
}

// hasGated reports whether any signal of msg is read or written under
// multiplexor control (a selector without selected signals needs no
// rawMux value).
func hasGated(msg *dbc.Message) bool {
	for i := range msg.Signals {
		if gated(&msg.Signals[i]) {
			return true
		}
	}

	return false
}

func emitSetValues(w *codeWriter, msg *dbc.Message, mux *dbc.Signal, msgType string) {
	ordered := setValuesOrder(msg, mux)

	var args []string
	for _, sig := range ordered {
		args = append(args, snakeIdent(sig.Name)+" "+dataType(sig))
	}

	w.line("// SetValues encodes every signal value into data. Multiplexed")
	w.line("// signals are written only when the selector value picks them;")
	w.line("// otherwise their bit range is left untouched.")
	params := "data []byte"
	if len(args) > 0 {
		params = strings.Join(args, ", ") + ", data []byte"
	}
	w.printf("func (m *%s) SetValues(%s) error {", msgType, params)

	for i, sig := range ordered {
		arg := snakeIdent(sig.Name)
		if mux != nil && gated(sig) {
			w.printf("\tif rawMux == %d {", sig.MuxValue)
			w.printf("\t\tif err := m.%s.Set(%s, data); err != nil {", sigField(sig), arg)
			w.line("\t\t\treturn err")
			w.line("\t\t}")
			w.line("\t}")
		} else {
			w.printf("\tif err := m.%s.Set(%s, data); err != nil {", sigField(sig), arg)
			w.line("\t\treturn err")
			w.line("\t}")
		}
		if i == 0 && mux != nil && hasGated(msg) {
			muxRawLines(w, "\t", mux, snakeIdent(mux.Name))
		}
	}
	w.line("\treturn nil")
	w.line("}")
	w.blank()
}

func emitMessageUpdate(w *codeWriter, msg *dbc.Message, mux *dbc.Signal, msgType string) {
	w.line("// Update applies one incoming frame: the multiplexor first, plain")
	w.line("// signals unconditionally, and multiplexed signals only while")
	w.line("// selected (a deselected signal is reset so it cannot report a")
	w.line("// value from a previously selected branch).")
	w.printf("func (m *%s) Update(frame *canrt.MsgData) error {", msgType)
	w.line("\tm.stamp = frame.Stamp")
	w.line("\tm.status = frame.Opcode")
	w.line("\tm.listeners = 0")

	if mux != nil {
		w.printf("\tm.listeners += m.%s.Update(frame)", sigField(mux))
		if hasGated(msg) {
			muxRawLines(w, "\t", mux, "m."+sigField(mux)+".Get()")
		}
	}
	for i := range msg.Signals {
		sig := &msg.Signals[i]
		if sig == mux {
			continue
		}
		if gated(sig) {
			w.printf("\tif rawMux == %d {", sig.MuxValue)
			w.printf("\t\tm.listeners += m.%s.Update(frame)", sigField(sig))
			w.line("\t} else {")
			w.printf("\t\tm.%s.Reset()", sigField(sig))
			w.line("\t}")
		} else {
			w.printf("\tm.listeners += m.%s.Update(frame)", sigField(sig))
		}
	}

	w.line("\tif m.listener != nil {")
	w.line("\t\tm.listener.Notify(m)")
	w.line("\t}")
	w.line("\treturn nil")
	w.line("}")
	w.blank()
}

func emitMessageReset(w *codeWriter, msg *dbc.Message, msgType string) {
	w.line("// Reset returns the message and all of its signals to the unset state.")
	w.printf("func (m *%s) Reset() error {", msgType)
	w.line("\tm.status = canrt.OpUnknown")
	w.line("\tm.stamp = 0")
	w.line("\tm.listeners = 0")
	for i := range msg.Signals {
		w.printf("\tm.%s.Reset()", sigField(&msg.Signals[i]))
	}
	w.line("\treturn nil")
	w.line("}")
	w.blank()
}
