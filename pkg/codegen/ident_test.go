package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPascalIdent(t *testing.T) {
	for _, tt := range []struct{ in, want string }{
		{"battery_status", "BatteryStatus"},
		{"BatteryStatus", "BatteryStatus"},
		{"batteryStatus", "BatteryStatus"},
		{"SOC", "Soc"},
		{"CANOpen", "CanOpen"},
		{"soc_pct", "SocPct"},
		{"2fast", "X2fast"},
		{"Gear2Ratio", "Gear2Ratio"},
		{"_leading", "XLeading"},
		{"type", "Xtype"},
		{"Other", "XOther"},
		{"", "X"},
	} {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, pascalIdent(tt.in))
		})
	}
}

func TestPascalIdentIdempotent(t *testing.T) {
	for _, in := range []string{"battery_status", "SOC", "2fast", "type", "CANOpenNode"} {
		once := pascalIdent(in)
		require.Equal(t, once, pascalIdent(once), "input %q", in)
	}
}

func TestSnakeIdent(t *testing.T) {
	for _, tt := range []struct{ in, want string }{
		{"BatteryStatus", "battery_status"},
		{"battery_status", "battery_status"},
		{"CANOpen", "can_open"},
		{"range", "xrange"},
		{"2fast", "x2fast"},
		{"Gear2Ratio", "gear2_ratio"},
	} {
		require.Equal(t, tt.want, snakeIdent(tt.in), "input %q", tt.in)
	}
}

func TestPackageIdent(t *testing.T) {
	require.Equal(t, "batterystatus", packageIdent("BatteryStatus"))
	require.Equal(t, "mycar", packageIdent("my_car"))
	require.Equal(t, "x2cars", packageIdent("2cars"))
}

func TestKeywordEscape(t *testing.T) {
	require.True(t, needsPrefix("func"))
	require.True(t, needsPrefix("Select")) // case-insensitive keyword match
	require.True(t, needsPrefix("other"))
	require.True(t, needsPrefix("9lives"))
	require.False(t, needsPrefix("Speed"))
	require.Equal(t, "Speed", escape("Speed"))
	require.Equal(t, "Xfunc", escape("func"))
}
