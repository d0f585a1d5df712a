package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BIwashi/canforge/pkg/dbc"
)

func TestVariantRaw(t *testing.T) {
	unsigned := dbc.Signal{Size: 8, Factor: 1}
	require.Equal(t, int64(200), variantRaw(&unsigned, 200))

	signed := dbc.Signal{Size: 8, Factor: 1, Signed: true}
	require.Equal(t, int64(100), variantRaw(&signed, 100))
	// 0xFF in 8 signed bits is -1, 0x80 is -128.
	require.Equal(t, int64(-1), variantRaw(&signed, 255))
	require.Equal(t, int64(-128), variantRaw(&signed, 128))
	require.Equal(t, int64(127), variantRaw(&signed, 127))

	narrow := dbc.Signal{Size: 3, Factor: 1, Signed: true}
	require.Equal(t, int64(-1), variantRaw(&narrow, 7))
	require.Equal(t, int64(3), variantRaw(&narrow, 3))
}

func TestVariantBits(t *testing.T) {
	signed := dbc.Signal{Size: 11, Factor: 1, Signed: true}
	// -1 masked to 11 bits.
	require.Equal(t, uint64(0x7FF), variantBits(&signed, -1))
	require.Equal(t, uint64(0x7E2), variantBits(&signed, -30))
	require.Equal(t, uint64(30), variantBits(&signed, 30))
}

func TestCollapsesToBool(t *testing.T) {
	twoValues := []dbc.ValueDesc{{ID: 0, Description: "Inactive"}, {ID: 1, Description: "Active"}}

	require.True(t, collapsesToBool(&dbc.Signal{Size: 1, Factor: 1, Values: twoValues}))
	require.False(t, collapsesToBool(&dbc.Signal{Size: 2, Factor: 1, Values: twoValues}))
	require.False(t, collapsesToBool(&dbc.Signal{Size: 1, Factor: 1, Values: twoValues[:1]}))
}

func TestBoolVariants(t *testing.T) {
	sig := dbc.Signal{Size: 1, Factor: 1, Values: []dbc.ValueDesc{
		{ID: 1, Description: "On"},
		{ID: 0, Description: "Off"},
	}}
	trueDesc, falseDesc := boolVariants(&sig)
	require.Equal(t, "On", trueDesc)
	require.Equal(t, "Off", falseDesc)
}

func TestEmitDefClosedSet(t *testing.T) {
	msg := &dbc.Message{ID: 0x101, Name: "BatteryStatus", Size: 8}
	sig := dbc.Signal{
		Name: "Mode", StartBit: 16, Size: 8, Factor: 1,
		Values: []dbc.ValueDesc{
			{ID: 0, Description: "Off"},
			{ID: 1, Description: "On"},
			{ID: 2, Description: "Fault"},
		},
	}

	w := &codeWriter{}
	emitDef(w, msg, &sig, emitOptions{})
	out := string(w.bytes())

	require.Contains(t, out, "type BatteryStatusModeKind int")
	require.Contains(t, out, "BatteryStatusModeOther BatteryStatusModeKind = iota")
	require.Contains(t, out, "BatteryStatusModeOff")
	require.Contains(t, out, "BatteryStatusModeFault")
	require.Contains(t, out, "type BatteryStatusModeDef struct {")
	require.Contains(t, out, "Raw  uint8")
	// Unknown raw values survive under Other.
	require.Contains(t, out, "return BatteryStatusModeDef{Kind: BatteryStatusModeOther, Raw: s.value}")
	// Known kinds store their raw bit pattern directly.
	require.Contains(t, out, "s.store(2, data)")
	require.Contains(t, out, "return s.Set(def.Raw, data)")
}

func TestEmitDefSignedVariants(t *testing.T) {
	msg := &dbc.Message{ID: 0x101, Name: "Charger", Size: 8}
	sig := dbc.Signal{
		Name: "Trim", StartBit: 0, Size: 8, Factor: 1, Signed: true,
		Values: []dbc.ValueDesc{
			{ID: 0, Description: "Neutral"},
			{ID: 255, Description: "StepDown"},
		},
	}

	w := &codeWriter{}
	emitDef(w, msg, &sig, emitOptions{})
	out := string(w.bytes())

	// Declared id 255 is reinterpreted as -1 for the typed comparison,
	// but stored as its unsigned 8-bit pattern.
	require.Contains(t, out, "case -1:")
	require.Contains(t, out, "s.store(255, data)")
}

func TestEmitDefCollapsedBool(t *testing.T) {
	msg := &dbc.Message{ID: 0x101, Name: "BatteryStatus", Size: 8}
	sig := dbc.Signal{
		Name: "Alarm", StartBit: 0, Size: 1, Factor: 1,
		Values: []dbc.ValueDesc{
			{ID: 0, Description: "Quiet"},
			{ID: 1, Description: "Raised"},
		},
	}

	w := &codeWriter{}
	emitDef(w, msg, &sig, emitOptions{})
	out := string(w.bytes())

	// A two-variant 1-bit mapping is closed: no Other fallback kind and
	// no switch, both paths are plain if/else.
	require.NotContains(t, out, "BatteryStatusAlarmOther")
	require.Contains(t, out, "BatteryStatusAlarmQuiet BatteryStatusAlarmKind = iota")
	require.Contains(t, out, "BatteryStatusAlarmRaised")
	require.Contains(t, out, "Raw  bool")
	require.Contains(t, out, "if def.Kind == BatteryStatusAlarmRaised {")
	require.Contains(t, out, "s.store(1, data)")
	require.NotContains(t, out, "switch")
}

func TestEmitDefJSON(t *testing.T) {
	msg := &dbc.Message{ID: 0x101, Name: "BatteryStatus", Size: 8}
	sig := dbc.Signal{
		Name: "Mode", StartBit: 16, Size: 8, Factor: 1,
		Values: []dbc.ValueDesc{
			{ID: 0, Description: "Off"},
			{ID: 1, Description: "On"},
		},
	}

	w := &codeWriter{}
	emitDef(w, msg, &sig, emitOptions{withSerde: true})
	out := string(w.bytes())

	require.Contains(t, out, "func (k BatteryStatusModeKind) String() string {")
	require.Contains(t, out, `return "Off"`)
	require.Contains(t, out, `return "other"`)
	require.Contains(t, out, "func (d BatteryStatusModeDef) MarshalJSON() ([]byte, error) {")
	require.Contains(t, out, "}{d.Kind.String(), d.Raw})")

	// Serialization off: no stringer, no marshaler.
	w = &codeWriter{}
	emitDef(w, msg, &sig, emitOptions{})
	require.NotContains(t, string(w.bytes()), "MarshalJSON")
}

func TestValidateDefValues(t *testing.T) {
	msg := &dbc.Message{ID: 0x101, Name: "BatteryStatus", Size: 8}

	valid := dbc.Signal{Name: "Mode", Size: 8, Factor: 1, Values: []dbc.ValueDesc{
		{ID: 0, Description: "Off"},
		{ID: 1, Description: "On"},
	}}
	require.NoError(t, validateDefValues(msg, &valid))

	// Three mappings onto one bit collapse onto true/false literals.
	oneBit := dbc.Signal{Name: "Alarm", Size: 1, Factor: 1, Values: []dbc.ValueDesc{
		{ID: 0, Description: "Quiet"},
		{ID: 1, Description: "Raised"},
		{ID: 2, Description: "Extra"},
	}}
	err := validateDefValues(msg, &oneBit)
	require.Error(t, err)
	require.Contains(t, err.Error(), "BatteryStatus")
	require.Contains(t, err.Error(), "Alarm")
	require.Contains(t, err.Error(), "duplicate declared value")

	dupID := dbc.Signal{Name: "Mode", Size: 8, Factor: 1, Values: []dbc.ValueDesc{
		{ID: 3, Description: "A"},
		{ID: 3, Description: "B"},
	}}
	require.Error(t, validateDefValues(msg, &dupID))

	dupName := dbc.Signal{Name: "Mode", Size: 8, Factor: 1, Values: []dbc.ValueDesc{
		{ID: 0, Description: "fast charge"},
		{ID: 1, Description: "FastCharge"},
	}}
	err = validateDefValues(msg, &dupName)
	require.Error(t, err)
	require.Contains(t, err.Error(), "variant name")
}

func TestRenderRejectsCollidingDefValues(t *testing.T) {
	model := &dbc.Model{SourceFile: "x.dbc", Messages: []*dbc.Message{{
		ID: 1, Name: "Diag", Size: 8,
		Signals: []dbc.Signal{{
			Name: "Flag", StartBit: 0, Size: 1, Factor: 1,
			Values: []dbc.ValueDesc{
				{ID: 0, Description: "A"},
				{ID: 1, Description: "B"},
				{ID: 2, Description: "C"},
			},
		}},
	}}}

	_, err := New("diag").Render(model)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate declared value")
}

func TestEmitDefScaledAlwaysOther(t *testing.T) {
	msg := &dbc.Message{ID: 0x101, Name: "Charger", Size: 8}
	sig := dbc.Signal{
		Name: "Rate", StartBit: 0, Size: 8, Factor: 0.5,
		Values: []dbc.ValueDesc{{ID: 0, Description: "Idle"}, {ID: 10, Description: "Fast"}},
	}

	w := &codeWriter{}
	emitDef(w, msg, &sig, emitOptions{})
	out := string(w.bytes())

	// Scaled values never match a declared id exactly on read.
	require.Contains(t, out, "return ChargerRateDef{Kind: ChargerRateOther, Raw: s.value}")
	// Known kinds encode through the physical Set path.
	require.Contains(t, out, "return s.Set(10, data)")
}
