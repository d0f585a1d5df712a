package codegen

import (
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/BIwashi/canforge/pkg/dbc"
)

// Def ("declared value") synthesis: a signal carrying value descriptions
// gets a closed kind set plus an Other fallback that carries the raw
// typed value, so out-of-table values from a malformed bus survive
// decoding instead of failing it. Exactly two descriptions on a 1-bit
// signal collapse to a plain boolean mapping, which is inherently closed
// and needs no fallback.

// variantRaw reinterprets a declared id for signed signals: ids stored
// as unsigned two's-complement representations (>= 2^(bits-1)) become
// negative before literal emission and comparison.
func variantRaw(sig *dbc.Signal, id int64) int64 {
	if !sig.Signed || sig.Size >= 64 || sig.Size == 0 {
		return id
	}
	half := int64(1) << (sig.Size - 1)
	if id >= half {
		return id - half - half
	}

	return id
}

// variantBits is the raw bit pattern written for a declared id, masked
// to the signal width (what the Set path would produce for the same id).
func variantBits(sig *dbc.Signal, id int64) uint64 {
	bits := uint64(id)
	if sig.Size < 64 {
		bits &= uint64(1)<<sig.Size - 1
	}

	return bits
}

// variantLiteral is the match/case literal of a declared id in the
// signal's data type, clamped like every other emitted constant.
func variantLiteral(sig *dbc.Signal, id int64) string {
	typ := dataType(sig)
	if typ == "bool" {
		if variantRaw(sig, id) == 1 {
			return "true"
		}

		return "false"
	}

	return clampedIntLiteral(variantRaw(sig, id), typ)
}

func collapsesToBool(sig *dbc.Signal) bool {
	return sig.Size == 1 && len(sig.Values) == 2
}

// validateDefValues rejects declared-value tables whose emitted match
// arms would collide: duplicate raw ids, several ids mapping onto the
// same boolean on a 1-bit signal, or descriptions sanitizing to the
// same variant name. Emitting them would produce an uncompilable unit.
func validateDefValues(msg *dbc.Message, sig *dbc.Signal) error {
	literals := make(map[string]string, len(sig.Values))
	names := make(map[string]string, len(sig.Values))
	for _, vd := range sig.Values {
		lit := variantLiteral(sig, vd.ID)
		if prev, ok := literals[lit]; ok {
			return errors.Newf("message:%s signal:%s duplicate declared value %s (%q, %q)",
				msg.Name, sig.Name, lit, prev, vd.Description)
		}
		literals[lit] = vd.Description

		name := pascalIdent(vd.Description)
		if prev, ok := names[name]; ok {
			return errors.Newf("message:%s signal:%s declared values %q and %q collide on variant name %s",
				msg.Name, sig.Name, prev, vd.Description, name)
		}
		names[name] = vd.Description
	}

	return nil
}

// emitDef writes the def type and the Def/SetDef accessors of a signal
// with declared values.
func emitDef(w *codeWriter, msg *dbc.Message, sig *dbc.Signal, opts emitOptions) {
	sigType := pascalIdent(msg.Name) + pascalIdent(sig.Name)
	typ := dataType(sig)

	w.printf("// Declared values for MsgID:%d signal:%s.", msg.ID, sig.Name)
	w.printf("type %sKind int", sigType)
	w.blank()

	w.line("const (")
	if !collapsesToBool(sig) {
		w.printf("\t%sOther %sKind = iota", sigType, sigType)
		for _, vd := range sig.Values {
			w.printf("\t%s%s", sigType, pascalIdent(vd.Description))
		}
	} else {
		w.printf("\t%s%s %sKind = iota", sigType, pascalIdent(sig.Values[0].Description), sigType)
		w.printf("\t%s%s", sigType, pascalIdent(sig.Values[1].Description))
	}
	w.line(")")
	w.blank()

	w.printf("// %sDef pairs a declared meaning with the raw typed value it", sigType)
	w.line("// stands for; an out-of-table value keeps its raw value under Other.")
	w.printf("type %sDef struct {", sigType)
	w.printf("\tKind %sKind", sigType)
	w.printf("\tRaw  %s", typ)
	w.line("}")
	w.blank()

	emitDefGet(w, sig, sigType, typ)
	emitDefSet(w, sig, sigType)
	if opts.withSerde {
		emitDefJSON(w, sig, sigType, typ)
	}
}

// emitDefJSON writes the Kind stringer plus the json.Marshaler of a def
// type, serializing the declared meaning next to its raw value.
func emitDefJSON(w *codeWriter, sig *dbc.Signal, sigType, typ string) {
	if collapsesToBool(sig) {
		trueVariant, falseVariant := boolVariants(sig)
		w.printf("func (k %sKind) String() string {", sigType)
		w.printf("\tif k == %s%s {", sigType, pascalIdent(trueVariant))
		w.printf("\t\treturn %q", trueVariant)
		w.line("\t}")
		w.printf("\treturn %q", falseVariant)
		w.line("}")
	} else {
		w.printf("func (k %sKind) String() string {", sigType)
		w.line("\tswitch k {")
		for _, vd := range sig.Values {
			w.printf("\tcase %s%s:", sigType, pascalIdent(vd.Description))
			w.printf("\t\treturn %q", vd.Description)
		}
		w.line("\tdefault:")
		w.line("\t\treturn \"other\"")
		w.line("\t}")
		w.line("}")
	}
	w.blank()

	tw := len(typ)
	if tw < len("string") {
		tw = len("string")
	}
	w.printf("func (d %sDef) MarshalJSON() ([]byte, error) {", sigType)
	w.line("\treturn json.Marshal(struct {")
	w.printf("\t\tKind %-*s `json:\"kind\"`", tw, "string")
	w.printf("\t\tRaw  %-*s `json:\"raw\"`", tw, typ)
	w.line("\t}{d.Kind.String(), d.Raw})")
	w.line("}")
	w.blank()
}

func emitDefGet(w *codeWriter, sig *dbc.Signal, sigType, typ string) {
	w.line("// Def maps the current value onto its declared meaning.")
	w.printf("func (s *%s) Def() %sDef {", sigType, sigType)

	switch {
	case typ == "float64":
		// Scaled physical values never match a declared id exactly.
		w.printf("\treturn %sDef{Kind: %sOther, Raw: s.value}", sigType, sigType)
	case collapsesToBool(sig):
		trueVariant, falseVariant := boolVariants(sig)
		w.line("\tif s.value {")
		w.printf("\t\treturn %sDef{Kind: %s%s, Raw: true}", sigType, sigType, pascalIdent(trueVariant))
		w.line("\t}")
		w.printf("\treturn %sDef{Kind: %s%s, Raw: false}", sigType, sigType, pascalIdent(falseVariant))
	default:
		w.line("\tswitch s.value {")
		for _, vd := range sig.Values {
			w.printf("\tcase %s:", variantLiteral(sig, vd.ID))
			w.printf("\t\treturn %sDef{Kind: %s%s, Raw: %s}",
				sigType, sigType, pascalIdent(vd.Description), variantLiteral(sig, vd.ID))
		}
		w.line("\tdefault:")
		w.printf("\t\treturn %sDef{Kind: %sOther, Raw: s.value}", sigType, sigType)
		w.line("\t}")
	}

	w.line("}")
	w.blank()
}

func emitDefSet(w *codeWriter, sig *dbc.Signal, sigType string) {
	w.line("// SetDef encodes the raw value declared for def into data. Known")
	w.line("// kinds write their declared id directly; Other goes through Set.")
	w.printf("func (s *%s) SetDef(def %sDef, data []byte) error {", sigType, sigType)

	scaled := dataType(sig) == "float64"
	if collapsesToBool(sig) {
		trueVariant, _ := boolVariants(sig)
		w.printf("\tif def.Kind == %s%s {", sigType, pascalIdent(trueVariant))
		w.line("\t\ts.store(1, data)")
		w.line("\t\treturn nil")
		w.line("\t}")
		w.line("\ts.store(0, data)")
		w.line("\treturn nil")
		w.line("}")
		w.blank()

		return
	}

	w.line("\tswitch def.Kind {")
	for _, vd := range sig.Values {
		w.printf("\tcase %s%s:", sigType, pascalIdent(vd.Description))
		if scaled {
			// Scaled ids go through the physical encode path.
			w.printf("\t\treturn s.Set(%s, data)", strconv.FormatInt(vd.ID, 10))
		} else {
			w.printf("\t\ts.store(%s, data)", strconv.FormatUint(variantBits(sig, vd.ID), 10))
		}
	}
	w.line("\tdefault:")
	w.line("\t\treturn s.Set(def.Raw, data)")
	w.line("\t}")
	if !scaled {
		w.line("\treturn nil")
	}
	w.line("}")
	w.blank()
}

// boolVariants splits the two declared values of a collapsed boolean
// signal into the true (id 1) and false descriptions.
func boolVariants(sig *dbc.Signal) (trueDesc, falseDesc string) {
	if variantRaw(sig, sig.Values[0].ID) == 1 {
		return sig.Values[0].Description, sig.Values[1].Description
	}

	return sig.Values[1].Description, sig.Values[0].Description
}
