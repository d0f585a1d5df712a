package codegen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BIwashi/canforge/pkg/dbc"
)

func TestDataType(t *testing.T) {
	for _, tt := range []struct {
		name string
		sig  dbc.Signal
		want string
	}{
		{"one bit", dbc.Signal{Size: 1, Factor: 1}, "bool"},
		{"one bit signed", dbc.Signal{Size: 1, Factor: 1, Signed: true}, "bool"},
		{"scaled", dbc.Signal{Size: 16, Factor: 0.1}, "float64"},
		{"offset only", dbc.Signal{Size: 16, Factor: 1, Offset: -40}, "float64"},
		{"near unit factor", dbc.Signal{Size: 16, Factor: 1 + 1e-15}, "uint16"},
		{"unsigned 8", dbc.Signal{Size: 8, Factor: 1}, "uint8"},
		{"unsigned 12", dbc.Signal{Size: 12, Factor: 1}, "uint16"},
		{"signed 24", dbc.Signal{Size: 24, Factor: 1, Signed: true}, "int32"},
		{"signed 33", dbc.Signal{Size: 33, Factor: 1, Signed: true}, "int64"},
		{"unsigned 64", dbc.Signal{Size: 64, Factor: 1}, "uint64"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, dataType(&tt.sig))
		})
	}
}

func TestRawWidth(t *testing.T) {
	require.Equal(t, uint64(8), rawWidth(&dbc.Signal{Size: 1}))
	require.Equal(t, uint64(8), rawWidth(&dbc.Signal{Size: 8}))
	require.Equal(t, uint64(16), rawWidth(&dbc.Signal{Size: 9}))
	require.Equal(t, uint64(32), rawWidth(&dbc.Signal{Size: 17}))
	require.Equal(t, uint64(64), rawWidth(&dbc.Signal{Size: 33}))
	require.Equal(t, uint64(64), rawWidth(&dbc.Signal{Size: 64}))
}

func TestClampedLiteral(t *testing.T) {
	require.Equal(t, "100", clampedLiteral(100, "uint8"))
	require.Equal(t, "255", clampedLiteral(1000, "uint8"))
	require.Equal(t, "0", clampedLiteral(-5, "uint8"))
	require.Equal(t, "-128", clampedLiteral(-1000, "int8"))
	require.Equal(t, "127", clampedLiteral(1000, "int8"))
	require.Equal(t, "-30", clampedLiteral(-30, "int16"))

	// float64 bounds pass through unclamped.
	require.Equal(t, "0.1", clampedLiteral(0.1, "float64"))
	require.Equal(t, "-1e+100", clampedLiteral(-1e100, "float64"))
}

func TestClampedLiteralWideEdges(t *testing.T) {
	// The nearest float64 to MaxInt64 is 2^63, above the type max; the
	// emitted literal must still be representable.
	require.Equal(t, "9223372036854775807", clampedLiteral(math.MaxInt64, "int64"))
	require.Equal(t, "-9223372036854775808", clampedLiteral(math.MinInt64, "int64"))
	require.Equal(t, "18446744073709551615", clampedLiteral(math.MaxUint64, "uint64"))
	require.Equal(t, "0", clampedLiteral(-1, "uint64"))
}

func TestClampedIntLiteral(t *testing.T) {
	require.Equal(t, "42", clampedIntLiteral(42, "uint8"))
	require.Equal(t, "255", clampedIntLiteral(300, "uint8"))
	require.Equal(t, "0", clampedIntLiteral(-1, "uint16"))
	require.Equal(t, "-30", clampedIntLiteral(-30, "int16"))
	require.Equal(t, "0", clampedIntLiteral(-7, "uint64"))
	require.Equal(t, "9000000000000000000", clampedIntLiteral(9000000000000000000, "uint64"))
}

func TestMaskLiteral(t *testing.T) {
	require.Equal(t, "0x1", maskLiteral(1))
	require.Equal(t, "0x7ff", maskLiteral(11))
	require.Equal(t, "0xffff", maskLiteral(16))
	require.Equal(t, "0x7fffffffffffffff", maskLiteral(63))
}
