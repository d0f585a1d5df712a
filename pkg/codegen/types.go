package codegen

import (
	"math"
	"strconv"

	"github.com/BIwashi/canforge/pkg/dbc"
)

// Type selection: 1-bit signals become bool, scaled signals become
// float64 (scaling implies a non-integral physical domain), everything
// else becomes the minimal signed or unsigned integer holding the bit
// width. Raw bit extraction always goes through the minimal unsigned
// width, independent of the final representation.

const scalingEps = 1e-12

func hasScaling(sig *dbc.Signal) bool {
	return math.Abs(sig.Offset) > scalingEps || math.Abs(sig.Factor-1) > scalingEps
}

// rawWidth is the storage width in bits used for bit extraction.
func rawWidth(sig *dbc.Signal) uint64 {
	switch {
	case sig.Size <= 8:
		return 8
	case sig.Size <= 16:
		return 16
	case sig.Size <= 32:
		return 32
	default:
		return 64
	}
}

func rawType(sig *dbc.Signal) string {
	return "uint" + strconv.FormatUint(rawWidth(sig), 10)
}

func signedType(sig *dbc.Signal) string {
	return "int" + strconv.FormatUint(rawWidth(sig), 10)
}

// dataType is the physical value type exposed by generated accessors.
func dataType(sig *dbc.Signal) string {
	switch {
	case sig.Size == 1:
		return "bool"
	case hasScaling(sig):
		return "float64"
	case sig.Signed:
		return signedType(sig)
	default:
		return rawType(sig)
	}
}

// zeroLiteral is the reset value of a generated signal.
func zeroLiteral(typ string) string {
	if typ == "bool" {
		return "false"
	}

	return "0"
}

// typeBounds returns the representable range of a generated data type.
// Bounds are float64 so declared DBC min/max values (which are floats)
// can be clamped against them.
func typeBounds(typ string) (float64, float64) {
	switch typ {
	case "float64":
		return -math.MaxFloat64, math.MaxFloat64
	case "int8":
		return math.MinInt8, math.MaxInt8
	case "int16":
		return math.MinInt16, math.MaxInt16
	case "int32":
		return math.MinInt32, math.MaxInt32
	case "int64":
		return math.MinInt64, math.MaxInt64
	case "uint8":
		return 0, math.MaxUint8
	case "uint16":
		return 0, math.MaxUint16
	case "uint32":
		return 0, math.MaxUint32
	default: // uint64
		return 0, math.MaxUint64
	}
}

// clampedLiteral renders v as a literal of typ. The value is clamped to
// the representable range of the type first, so an out-of-range declared
// bound never produces an overflowing constant in the output.
func clampedLiteral(v float64, typ string) string {
	if typ == "float64" {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	lo, hi := typeBounds(typ)
	switch {
	case v <= lo:
		v = lo
	case v >= hi:
		v = hi
	}

	switch typ {
	case "int64":
		// Direct float conversion is unsafe at the int64 edges: the
		// nearest float64 to MaxInt64 is above it.
		if v >= math.MaxInt64 {
			return "9223372036854775807"
		}
		if v <= math.MinInt64 {
			return "-9223372036854775808"
		}

		return strconv.FormatInt(int64(v), 10)
	case "uint64":
		if v >= math.MaxUint64 {
			return "18446744073709551615"
		}
		if v <= 0 {
			return "0"
		}

		return strconv.FormatUint(uint64(v), 10)
	default:
		return strconv.FormatInt(int64(v), 10)
	}
}

// clampedIntLiteral renders an integer raw id as a literal of typ,
// clamped the same way as range bounds.
func clampedIntLiteral(id int64, typ string) string {
	switch typ {
	case "float64":
		return strconv.FormatInt(id, 10)
	case "uint64":
		if id < 0 {
			return "0"
		}

		return strconv.FormatInt(id, 10)
	}

	lo, hi := typeBounds(typ)
	switch {
	case float64(id) < lo:
		return clampedLiteral(lo, typ)
	case float64(id) > hi:
		return clampedLiteral(hi, typ)
	default:
		return strconv.FormatInt(id, 10)
	}
}

// maskLiteral is the hex mask covering the low width bits. The caller
// skips masking entirely at width 64 (the mask would be a no-op).
func maskLiteral(width uint64) string {
	mask := uint64(1)<<width - 1

	return "0x" + strconv.FormatUint(mask, 16)
}

// floatLiteral renders a factor or offset for emitted arithmetic.
func floatLiteral(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
