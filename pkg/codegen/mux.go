package codegen

import (
	"github.com/cockroachdb/errors"

	"github.com/BIwashi/canforge/pkg/dbc"
)

// Multiplex resolution: a message may carry at most one multiplexor
// signal whose raw value selects which multiplexed signals currently
// occupy their (possibly overlapping) bit ranges. The multiplexor must
// be a plain raw integer of at most 64 bits.

// resolveMux finds and validates the multiplexor of msg. It returns nil
// when the message has no multiplexing at all.
func resolveMux(msg *dbc.Message) (*dbc.Signal, error) {
	var mux *dbc.Signal
	for i := range msg.Signals {
		sig := &msg.Signals[i]
		if sig.Mux != dbc.MuxMultiplexor && sig.Mux != dbc.MuxBoth {
			continue
		}
		if mux != nil {
			return nil, errors.Newf("message:%s has multiple multiplexors (%s, %s); unsupported",
				msg.Name, mux.Name, sig.Name)
		}
		mux = sig
	}

	if mux == nil {
		for i := range msg.Signals {
			if msg.Signals[i].Mux == dbc.MuxMultiplexed {
				return nil, errors.Newf("message:%s signal:%s is multiplexed but no multiplexor is declared",
					msg.Name, msg.Signals[i].Name)
			}
		}

		return nil, nil
	}

	if hasScaling(mux) {
		return nil, errors.Newf("message:%s multiplexor:%s must be a raw integer (factor:%v offset:%v)",
			msg.Name, mux.Name, mux.Factor, mux.Offset)
	}
	if mux.Size > 64 {
		return nil, errors.Newf("message:%s multiplexor:%s size %d > 64 bits; unsupported",
			msg.Name, mux.Name, mux.Size)
	}

	return mux, nil
}

// gated reports whether a signal is packed and read only when the
// multiplexor selects it.
func gated(sig *dbc.Signal) bool {
	return sig.Mux == dbc.MuxMultiplexed
}

// muxRawLines emits the statements computing the masked raw selector
// value from expr (the multiplexor's typed value). The raw value is
// masked to the multiplexor's bit width; signed selectors sign-extend
// through the int64 conversion before masking, matching the raw
// two's-complement comparison of the selector literal.
func muxRawLines(w *codeWriter, indent string, mux *dbc.Signal, expr string) {
	if mux.Size == 1 {
		w.printf("%svar rawMux uint64", indent)
		w.printf("%sif %s {", indent, expr)
		w.printf("%s\trawMux = 1", indent)
		w.printf("%s}", indent)

		return
	}

	conv := "uint64(" + expr + ")"
	if mux.Signed {
		conv = "uint64(int64(" + expr + "))"
	}
	if mux.Size >= 64 {
		w.printf("%srawMux := %s", indent, conv)

		return
	}
	w.printf("%srawMux := %s & %s", indent, conv, maskLiteral(mux.Size))
}
