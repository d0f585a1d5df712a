package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BIwashi/canforge/pkg/dbc"
)

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList("0x101, 257,513")
	require.NoError(t, err)
	require.Equal(t, []uint32{0x101, 257, 513}, ids)

	ids, err = ParseIDList("0X7FF")
	require.NoError(t, err)
	require.Equal(t, []uint32{0x7FF}, ids)

	ids, err = ParseIDList("")
	require.NoError(t, err)
	require.Nil(t, ids)

	ids, err = ParseIDList("   ")
	require.NoError(t, err)
	require.Nil(t, ids)
}

func TestParseIDListRejectsBadToken(t *testing.T) {
	_, err := ParseIDList("257,junk,513")
	require.Error(t, err)
	require.Contains(t, err.Error(), `"junk"`)

	_, err = ParseIDList("0xZZ")
	require.Error(t, err)

	// Out of the 32-bit CAN id range.
	_, err = ParseIDList("4294967296")
	require.Error(t, err)
}

func filterIDs(messages []*dbc.Message, whitelist, blacklist []uint32) []uint32 {
	var ids []uint32
	for _, msg := range applyFilters(messages, whitelist, blacklist) {
		ids = append(ids, msg.ID)
	}

	return ids
}

func TestApplyFilters(t *testing.T) {
	messages := []*dbc.Message{
		{ID: 513, Name: "ChargerState"},
		{ID: 257, Name: "BatteryStatus"},
		{ID: 769, Name: "DiagMux"},
	}

	// No filters: every message, sorted by id.
	require.Equal(t, []uint32{257, 513, 769}, filterIDs(messages, nil, nil))

	// Whitelist keeps only the listed ids.
	require.Equal(t, []uint32{257, 769}, filterIDs(messages, []uint32{769, 257}, nil))

	// Blacklist removes listed ids.
	require.Equal(t, []uint32{257, 769}, filterIDs(messages, nil, []uint32{513}))

	// Blacklist wins over whitelist for an id present in both.
	require.Empty(t, filterIDs(messages[:2], []uint32{0x101, 257}, []uint32{0x101, 513}))

	// Whitelisting an unknown id keeps nothing extra.
	require.Equal(t, []uint32{513}, filterIDs(messages, []uint32{513, 999}, nil))
}

func TestApplyFiltersDoesNotMutateInput(t *testing.T) {
	messages := []*dbc.Message{
		{ID: 513, Name: "ChargerState"},
		{ID: 257, Name: "BatteryStatus"},
	}

	_ = applyFilters(messages, []uint32{257}, nil)
	require.Equal(t, uint32(513), messages[0].ID)
	require.Equal(t, uint32(257), messages[1].ID)
}

func TestEmitPool(t *testing.T) {
	messages := []*dbc.Message{
		{ID: 257, Name: "BatteryStatus"},
		{ID: 513, Name: "ChargerState"},
	}

	w := &codeWriter{}
	emitPool(w, messages)
	out := string(w.bytes())

	require.Contains(t, out, "type MsgPool struct {")
	require.Contains(t, out, "ids: []uint32{257, 513},")
	require.Contains(t, out, "canrt.NewHandle(NewBatteryStatusMsg()),")
	require.Contains(t, out, "canrt.NewHandle(NewChargerStateMsg()),")
	require.Contains(t, out, "sort.Search(len(p.ids)")
	require.Contains(t, out, "var _ canrt.Pool = (*MsgPool)(nil)")
}
