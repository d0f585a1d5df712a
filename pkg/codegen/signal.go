package codegen

import (
	"fmt"
	"strings"

	"github.com/BIwashi/canforge/pkg/dbc"
)

// Per-signal emission: one storage struct, optional min/max constants,
// optional def type, and the accessor set (typed Get/Set, frame Update,
// Reset, listener registration) every generated signal exposes.

func emitSignal(w *codeWriter, msg *dbc.Message, sig *dbc.Signal, opts emitOptions) error {
	start, end, _, _, err := bitRange(msg, sig)
	if err != nil {
		return err
	}

	sigType := pascalIdent(msg.Name) + pascalIdent(sig.Name)
	typ := dataType(sig)

	emitSignalDoc(w, msg, sig, sigType)
	emitSignalStruct(w, sig, sigType, typ)
	emitSignalBounds(w, sig, sigType, typ)
	if opts.withDefs && len(sig.Values) > 0 {
		if err := validateDefValues(msg, sig); err != nil {
			return err
		}
		emitDef(w, msg, sig, opts)
	}
	emitSignalGetters(w, sigType, typ)
	if opts.withSerde {
		emitSignalJSON(w, sigType, typ)
	}
	emitSignalSet(w, sig, sigType, typ, opts)
	emitSignalStore(w, msg, sig, sigType, start, end)
	emitSignalUpdate(w, msg, sig, sigType, start, end)
	emitSignalReset(w, sigType, typ)
	w.printf("func (s *%s) SetListener(listener canrt.SignalListener) {", sigType)
	w.line("\ts.listener = listener")
	w.line("}")
	w.blank()
	w.printf("var _ canrt.Signal = (*%s)(nil)", sigType)
	w.blank()

	return nil
}

func emitSignalDoc(w *codeWriter, msg *dbc.Message, sig *dbc.Signal, sigType string) {
	w.printf("// %s signal of message %s.", sigType, msg.Name)
	if sig.Comment != "" {
		w.line("//")
		for _, line := range strings.Split(strings.TrimSpace(sig.Comment), "\n") {
			w.printf("// %s", line)
		}
	}
	valueType := "unsigned"
	if sig.Signed {
		valueType = "signed"
	}
	w.printf("// - Min: %s, Max: %s", floatLiteral(sig.Min), floatLiteral(sig.Max))
	w.printf("// - Unit: %q", sig.Unit)
	w.printf("// - Receivers: %s", strings.Join(sig.Receivers, ", "))
	w.printf("// - Start bit: %d", sig.StartBit)
	w.printf("// - Signal size: %d bits", sig.Size)
	w.printf("// - Factor: %s, Offset: %s", floatLiteral(sig.Factor), floatLiteral(sig.Offset))
	w.printf("// - Byte order: %s", sig.ByteOrder)
	w.printf("// - Value type: %s", valueType)
}

func emitSignalStruct(w *codeWriter, sig *dbc.Signal, sigType, typ string) {
	w.printf("type %s struct {", sigType)
	w.line("\tlistener canrt.SignalListener")
	w.line("\tstatus   canrt.Status")
	w.line("\tname     string")
	w.line("\tstamp    uint64")
	w.printf("\tvalue    %s", typ)
	w.line("}")
	w.blank()

	w.printf("func New%s() *%s {", sigType, sigType)
	w.printf("\treturn &%s{name: %q}", sigType, sigType)
	w.line("}")
	w.blank()
}

// emitSignalBounds writes the declared range as typed constants, clamped
// to the representable range of the data type so the constants
// themselves can never overflow it. Boolean signals carry no range.
func emitSignalBounds(w *codeWriter, sig *dbc.Signal, sigType, typ string) {
	if sig.Size == 1 {
		return
	}
	w.line("const (")
	w.printf("\t%sMin %s = %s", sigType, typ, clampedLiteral(sig.Min, typ))
	w.printf("\t%sMax %s = %s", sigType, typ, clampedLiteral(sig.Max, typ))
	w.line(")")
	w.blank()
}

func emitSignalGetters(w *codeWriter, sigType, typ string) {
	w.printf("func (s *%s) Name() string {", sigType)
	w.line("\treturn s.name")
	w.line("}")
	w.blank()
	w.printf("func (s *%s) Stamp() uint64 {", sigType)
	w.line("\treturn s.stamp")
	w.line("}")
	w.blank()
	w.printf("func (s *%s) Status() canrt.Status {", sigType)
	w.line("\treturn s.status")
	w.line("}")
	w.blank()
	w.line("// Get returns the last decoded physical value.")
	w.printf("func (s *%s) Get() %s {", sigType, typ)
	w.line("\treturn s.value")
	w.line("}")
	w.blank()
}

// emitSignalJSON writes the json.Marshaler implementation exposing the
// current decode state of the signal.
func emitSignalJSON(w *codeWriter, sigType, typ string) {
	tw := len(typ)
	if tw < len("uint64") {
		tw = len("uint64")
	}
	w.line("// MarshalJSON serializes the signal's decode state.")
	w.printf("func (s *%s) MarshalJSON() ([]byte, error) {", sigType)
	w.line("\treturn json.Marshal(struct {")
	w.printf("\t\tName   %-*s `json:\"name\"`", tw, "string")
	w.printf("\t\tValue  %-*s `json:\"value\"`", tw, typ)
	w.printf("\t\tStamp  %-*s `json:\"stamp\"`", tw, "uint64")
	w.printf("\t\tStatus %-*s `json:\"status\"`", tw, "string")
	w.line("\t}{s.name, s.value, s.stamp, s.status.String()})")
	w.line("}")
	w.blank()
}

// emitSignalSet writes the typed encode path: optional range check
// against the clamped bounds, physical-to-raw conversion through a wide
// intermediate, then the masked store.
func emitSignalSet(w *codeWriter, sig *dbc.Signal, sigType, typ string, opts emitOptions) {
	w.printf("// Set encodes value into data; bits outside the signal range are")
	w.line("// left untouched.")
	w.printf("func (s *%s) Set(value %s, data []byte) error {", sigType, typ)

	if typ == "bool" {
		w.line("\tvar raw uint64")
		w.line("\tif value {")
		w.line("\t\traw = 1")
		w.line("\t}")
		w.line("\ts.store(raw, data)")
		w.line("\treturn nil")
		w.line("}")
		w.blank()

		return
	}

	if opts.rangeCheck && !(sig.Min == 0 && sig.Max == 0) {
		w.printf("\tif value < %sMin || %sMax < value {", sigType, sigType)
		w.printf("\t\treturn fmt.Errorf(\"%s: value %%v not in [%%v, %%v]\", value, %sMin, %sMax)",
			sigType, sigType, sigType)
		w.line("\t}")
	}

	if hasScaling(sig) {
		expr := "value"
		switch {
		case sig.Offset > 0:
			expr = "(value - " + floatLiteral(sig.Offset) + ")"
		case sig.Offset < 0:
			expr = "(value + " + floatLiteral(-sig.Offset) + ")"
		}
		if sig.Factor != 1 {
			expr += " / " + floatLiteral(sig.Factor)
		}
		if sig.Signed {
			// Signed wide intermediate keeps the two's complement of
			// negative raw values before masking. Rounding to the nearest
			// raw step keeps encode/decode round trips on the same raw
			// value instead of truncating toward zero.
			w.printf("\traw := uint64(canrt.RoundS(%s))", expr)
		} else {
			w.printf("\traw := canrt.RoundU(%s)", expr)
		}
	} else {
		w.line("\traw := uint64(value)")
	}

	w.line("\ts.store(raw, data)")
	w.line("\treturn nil")
	w.line("}")
	w.blank()
}

// emitSignalStore writes the shared raw store helper: mask to the signal
// width, then pack per byte order. Masking caps a mis-converted wide
// value so it can never corrupt neighboring bits.
func emitSignalStore(w *codeWriter, msg *dbc.Message, sig *dbc.Signal, sigType string, start, end uint64) {
	_, _, _, storeFn, _ := bitRange(msg, sig)
	w.printf("func (s *%s) store(raw uint64, data []byte) {", sigType)
	if sig.Size >= 64 {
		w.printf("\t%s(data, %d, %d, raw)", storeFn, start, end)
	} else {
		w.printf("\t%s(data, %d, %d, raw&%s)", storeFn, start, end, maskLiteral(sig.Size))
	}
	w.line("}")
	w.blank()
}

// decodeLines emits the statements deriving the typed physical value
// from the raw bit load into a local named "value".
func decodeLines(w *codeWriter, sig *dbc.Signal, indent string) {
	typ := dataType(sig)
	shift := rawWidth(sig) - sig.Size

	signExt := func() string {
		if shift == 0 {
			return signedType(sig) + "(raw)"
		}

		return fmt.Sprintf("%s(raw)<<%d>>%d", signedType(sig), shift, shift)
	}

	switch {
	case typ == "bool":
		w.printf("%svalue := raw == 1", indent)
	case hasScaling(sig):
		base := "float64(raw)"
		if sig.Signed {
			base = "float64(" + signExt() + ")"
		}
		if sig.Factor != 1 {
			base += " * " + floatLiteral(sig.Factor)
		}
		switch {
		case sig.Offset > 0:
			base += " + " + floatLiteral(sig.Offset)
		case sig.Offset < 0:
			base += " - " + floatLiteral(-sig.Offset)
		}
		w.printf("%svalue := %s", indent, base)
	case sig.Signed:
		w.printf("%svalue := %s", indent, signExt())
	case rawWidth(sig) == 64:
		w.printf("%svalue := raw", indent)
	default:
		w.printf("%svalue := %s(raw)", indent, rawType(sig))
	}
}

func emitSignalUpdate(w *codeWriter, msg *dbc.Message, sig *dbc.Signal, sigType string, start, end uint64) {
	_, _, loadFn, _, _ := bitRange(msg, sig)

	w.line("// Update decodes the signal from an incoming frame and notifies the")
	w.line("// listener; the return value is the listener count contribution.")
	w.printf("func (s *%s) Update(frame *canrt.MsgData) int {", sigType)
	w.line("\tswitch frame.Opcode {")
	w.line("\tcase canrt.OpRxChanged:")
	w.printf("\t\traw := %s(frame.Data, %d, %d)", loadFn, start, end)
	decodeLines(w, sig, "\t\t")
	w.line("\t\tif value != s.value {")
	w.line("\t\t\ts.value = value")
	w.line("\t\t\ts.status = canrt.StatusUpdated")
	w.line("\t\t\ts.stamp = frame.Stamp")
	w.line("\t\t} else {")
	w.line("\t\t\ts.status = canrt.StatusUnchanged")
	w.line("\t\t}")
	w.line("\tcase canrt.OpRxTimeout:")
	w.line("\t\ts.status = canrt.StatusTimeout")
	w.line("\tdefault:")
	w.line("\t\ts.status = canrt.StatusError")
	w.line("\t}")
	w.line("\tif s.listener == nil {")
	w.line("\t\treturn 0")
	w.line("\t}")
	w.line("\treturn s.listener.Notify(s)")
	w.line("}")
	w.blank()
}

func emitSignalReset(w *codeWriter, sigType, typ string) {
	w.line("// Reset returns the signal to its unset state.")
	w.printf("func (s *%s) Reset() {", sigType)
	w.line("\ts.stamp = 0")
	w.printf("\ts.value = %s", zeroLiteral(typ))
	w.line("\ts.status = canrt.StatusUnset")
	w.line("}")
	w.blank()
}
