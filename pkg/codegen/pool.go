package codegen

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/BIwashi/canforge/pkg/dbc"
)

// Pool assembly: messages are sorted by ascending CAN ID, filtered
// through the whitelist then the blacklist, and indexed by the sorted ID
// list the generated pool uses for binary-search lookup.

// ParseIDList parses a comma separated list of CAN IDs. Entries may be
// decimal or 0x-prefixed hexadecimal; anything else is rejected before
// generation starts, naming the bad token. An empty input yields nil.
func ParseIDList(list string) ([]uint32, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}

	var ids []uint32
	for _, entry := range strings.Split(list, ",") {
		token := strings.TrimSpace(entry)
		var (
			id  uint64
			err error
		)
		if strings.HasPrefix(token, "0x") || strings.HasPrefix(token, "0X") {
			id, err = strconv.ParseUint(token[2:], 16, 32)
		} else {
			id, err = strconv.ParseUint(token, 10, 32)
		}
		if err != nil {
			return nil, errors.Newf("invalid can id %q: not a decimal or 0x-hex number", token)
		}
		ids = append(ids, uint32(id))
	}

	return ids, nil
}

func inIDList(sorted []uint32, id uint32) bool {
	idx := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= id })

	return idx < len(sorted) && sorted[idx] == id
}

// applyFilters produces the final ordered message list. The whitelist is
// applied first (empty means keep all), the blacklist second, so an ID
// present in both lists is excluded.
func applyFilters(messages []*dbc.Message, whitelist, blacklist []uint32) []*dbc.Message {
	kept := make([]*dbc.Message, 0, len(messages))
	kept = append(kept, messages...)
	sort.Slice(kept, func(i, j int) bool { return kept[i].ID < kept[j].ID })

	if len(whitelist) > 0 {
		accept := append([]uint32(nil), whitelist...)
		sort.Slice(accept, func(i, j int) bool { return accept[i] < accept[j] })
		filtered := kept[:0]
		for _, msg := range kept {
			if inIDList(accept, msg.ID) {
				filtered = append(filtered, msg)
			}
		}
		kept = filtered
	}

	if len(blacklist) > 0 {
		reject := append([]uint32(nil), blacklist...)
		sort.Slice(reject, func(i, j int) bool { return reject[i] < reject[j] })
		filtered := kept[:0]
		for _, msg := range kept {
			if !inIDList(reject, msg.ID) {
				filtered = append(filtered, msg)
			}
		}
		kept = filtered
	}

	// Filtering preserves order, but re-sort so a future filter that
	// does not cannot break the pool's binary search.
	sort.Slice(kept, func(i, j int) bool { return kept[i].ID < kept[j].ID })

	return kept
}

// emitPool writes the registry type closing the generated source unit.
func emitPool(w *codeWriter, messages []*dbc.Message) {
	w.blank()
	w.line("// MsgPool owns every generated message, ordered by ascending CAN ID.")
	w.line("// Handles are shared: the pool and any listener may hold the same")
	w.line("// message, mutation goes through the fail-fast guard.")
	w.line("type MsgPool struct {")
	w.line("\tuid  string")
	w.line("\tids  []uint32")
	w.line("\tpool []*canrt.Handle")
	w.line("}")
	w.blank()

	w.line("func NewMsgPool(uid string) *MsgPool {")
	w.line("\treturn &MsgPool{")
	w.line("\t\tuid: uid,")
	var ids []string
	for _, msg := range messages {
		ids = append(ids, strconv.FormatUint(uint64(msg.ID), 10))
	}
	w.printf("\t\tids: []uint32{%s},", strings.Join(ids, ", "))
	w.line("\t\tpool: []*canrt.Handle{")
	for _, msg := range messages {
		w.printf("\t\t\tcanrt.NewHandle(New%sMsg()),", pascalIdent(msg.Name))
	}
	w.line("\t\t},")
	w.line("\t}")
	w.line("}")
	w.blank()

	w.line("func (p *MsgPool) IDs() []uint32 {")
	w.line("\treturn p.ids")
	w.line("}")
	w.blank()

	w.line("// Get looks a message up by CAN ID (binary search over the sorted ids).")
	w.line("func (p *MsgPool) Get(id uint32) (*canrt.Handle, error) {")
	w.line("\tidx := sort.Search(len(p.ids), func(i int) bool { return p.ids[i] >= id })")
	w.line("\tif idx == len(p.ids) || p.ids[idx] != id {")
	w.line("\t\treturn nil, fmt.Errorf(\"%s: can id 0x%X not found\", p.uid, id)")
	w.line("\t}")
	w.line("\treturn p.pool[idx], nil")
	w.line("}")
	w.blank()

	w.line("// Update routes one incoming frame to its message and applies it.")
	w.line("func (p *MsgPool) Update(frame *canrt.MsgData) (*canrt.Handle, error) {")
	w.line("\thandle, err := p.Get(frame.ID)")
	w.line("\tif err != nil {")
	w.line("\t\treturn nil, err")
	w.line("\t}")
	w.line("\tmsg, release, err := handle.Acquire()")
	w.line("\tif err != nil {")
	w.line("\t\treturn nil, err")
	w.line("\t}")
	w.line("\tdefer release()")
	w.line("\tif err := msg.Update(frame); err != nil {")
	w.line("\t\treturn nil, err")
	w.line("\t}")
	w.line("\treturn handle, nil")
	w.line("}")
	w.blank()

	w.line("var _ canrt.Pool = (*MsgPool)(nil)")
}
