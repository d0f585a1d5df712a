package codegen

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/BIwashi/canforge/pkg/dbc"
)

// Bit-layout resolution: every signal is mapped to an inclusive-exclusive
// [start, end) range in a linear bit space of msg.Size*8 bits. All
// arithmetic is overflow-checked; a layout that does not fit its message
// is a fatal generation error, attributed to message and signal.

func messageBits(msg *dbc.Message) (uint64, error) {
	if msg.Size > math.MaxUint64/8 {
		return 0, errors.Newf("message:%s size overflow while computing bits (size:%d bytes)", msg.Name, msg.Size)
	}

	return msg.Size * 8, nil
}

// leStartEndBit resolves a little-endian (Intel) signal: the declared
// start bit is already the LSB position in the linear space.
func leStartEndBit(msg *dbc.Message, sig *dbc.Signal) (uint64, uint64, error) {
	msgBits, err := messageBits(msg)
	if err != nil {
		return 0, 0, err
	}

	startBit := sig.StartBit
	if sig.Size > math.MaxUint64-startBit {
		return 0, 0, errors.Newf("message:%s signal:%s end_bit overflow", msg.Name, sig.Name)
	}
	endBit := startBit + sig.Size

	if startBit >= msgBits {
		return 0, 0, errors.Newf("message:%s signal:%s starts at %d, but message is only %d bits",
			msg.Name, sig.Name, startBit, msgBits)
	}
	if endBit > msgBits {
		return 0, 0, errors.Newf("message:%s signal:%s ends at %d, but message is only %d bits",
			msg.Name, sig.Name, endBit, msgBits)
	}

	return startBit, endBit, nil
}

// beStartEndBit resolves a big-endian (Motorola) signal: the declared
// start bit is a byte-wise MSB-first position, converted into the linear
// MSB-first space before bounds checking.
func beStartEndBit(msg *dbc.Message, sig *dbc.Signal) (uint64, uint64, error) {
	msgBits, err := messageBits(msg)
	if err != nil {
		return 0, 0, err
	}

	byteBase := (sig.StartBit / 8) * 8
	bitFromMSB := 7 - sig.StartBit%8
	if bitFromMSB > math.MaxUint64-byteBase {
		return 0, 0, errors.Newf("message:%s signal:%s start_bit overflow", msg.Name, sig.Name)
	}
	startBit := byteBase + bitFromMSB

	if sig.Size > math.MaxUint64-startBit {
		return 0, 0, errors.Newf("message:%s signal:%s end_bit overflow", msg.Name, sig.Name)
	}
	endBit := startBit + sig.Size

	if startBit > msgBits {
		return 0, 0, errors.Newf("message:%s signal:%s starts at %d, but message is only %d bits",
			msg.Name, sig.Name, startBit, msgBits)
	}
	if endBit > msgBits {
		return 0, 0, errors.Newf("message:%s signal:%s ends at %d, but message is only %d bits",
			msg.Name, sig.Name, endBit, msgBits)
	}

	return startBit, endBit, nil
}

// bitRange resolves a signal per its byte order and returns the matching
// canrt load/store helper names for emission.
func bitRange(msg *dbc.Message, sig *dbc.Signal) (start, end uint64, load, store string, err error) {
	if sig.ByteOrder == dbc.BigEndian {
		start, end, err = beStartEndBit(msg, sig)

		return start, end, "canrt.LoadBE", "canrt.StoreBE", err
	}
	start, end, err = leStartEndBit(msg, sig)

	return start, end, "canrt.LoadLE", "canrt.StoreLE", err
}
