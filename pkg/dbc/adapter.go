package dbc

import (
	"os"
	"path/filepath"
	"sort"

	cdbc "go.einride.tech/can/pkg/dbc"

	"github.com/cockroachdb/errors"
)

// ParseFile parses a DBC file using the can-go (go.einride.tech/can)
// parser and converts it into the local Model consumed by the code
// generator. The generator itself never touches raw DBC text.
func ParseFile(filename string) (*Model, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read dbc file")
	}

	return Parse(filename, data)
}

// Parse converts raw DBC bytes into a Model via the can-go parser.
func Parse(filename string, data []byte) (*Model, error) {
	parser := cdbc.NewParser(filepath.Base(filename), data)
	if perr := parser.Parse(); perr != nil {
		return nil, errors.Wrap(perr, "parse dbc (can-go)")
	}

	model := &Model{SourceFile: filename}
	collectMessages(model, parser.Defs())
	attachMetadata(model, parser.Defs())
	sortModel(model)

	return model, nil
}

func collectMessages(model *Model, defs []cdbc.Def) {
	for _, def := range defs {
		switch def := def.(type) {
		case *cdbc.VersionDef:
			model.Version = def.Version
		case *cdbc.MessageDef:
			if def.MessageID == cdbc.IndependentSignalsMessageID {
				continue // don't compile
			}
			msg := &Message{
				ID:          def.MessageID.ToCAN(),
				Name:        string(def.Name),
				Size:        def.Size,
				Transmitter: string(def.Transmitter),
			}
			for _, sigDef := range def.Signals {
				sig := Signal{
					Name:      string(sigDef.Name),
					StartBit:  sigDef.StartBit,
					Size:      sigDef.Size,
					ByteOrder: LittleEndian,
					Signed:    sigDef.IsSigned,
					Factor:    sigDef.Factor,
					Offset:    sigDef.Offset,
					Min:       sigDef.Minimum,
					Max:       sigDef.Maximum,
					Unit:      sigDef.Unit,
					Mux:       muxRole(sigDef),
					MuxValue:  sigDef.MultiplexerSwitch,
				}
				if sigDef.IsBigEndian {
					sig.ByteOrder = BigEndian
				}
				for _, receiver := range sigDef.Receivers {
					sig.Receivers = append(sig.Receivers, string(receiver))
				}
				msg.Signals = append(msg.Signals, sig)
			}
			model.Messages = append(model.Messages, msg)
		}
	}
}

func muxRole(def cdbc.SignalDef) MuxRole {
	switch {
	case def.IsMultiplexerSwitch && def.IsMultiplexed:
		return MuxBoth
	case def.IsMultiplexerSwitch:
		return MuxMultiplexor
	case def.IsMultiplexed:
		return MuxMultiplexed
	default:
		return MuxPlain
	}
}

func attachMetadata(model *Model, defs []cdbc.Def) {
	for _, def := range defs {
		switch def := def.(type) {
		case *cdbc.CommentDef:
			if def.MessageID == cdbc.IndependentSignalsMessageID {
				continue // don't compile
			}
			switch def.ObjectType {
			case cdbc.ObjectTypeMessage:
				if msg, ok := model.Message(def.MessageID.ToCAN()); ok {
					msg.Comment = def.Comment
				}
			case cdbc.ObjectTypeSignal:
				if sig, ok := model.signal(def.MessageID.ToCAN(), string(def.SignalName)); ok {
					sig.Comment = def.Comment
				}
			}
		case *cdbc.ValueDescriptionsDef:
			if def.MessageID == cdbc.IndependentSignalsMessageID {
				continue // don't compile
			}
			if def.ObjectType != cdbc.ObjectTypeSignal {
				continue
			}
			sig, ok := model.signal(def.MessageID.ToCAN(), string(def.SignalName))
			if !ok {
				continue
			}
			for _, vd := range def.ValueDescriptions {
				sig.Values = append(sig.Values, ValueDesc{
					ID:          int64(vd.Value),
					Description: vd.Description,
				})
			}
		}
	}
}

func sortModel(model *Model) {
	sort.Slice(model.Messages, func(i, j int) bool {
		return model.Messages[i].ID < model.Messages[j].ID
	})
	for _, msg := range model.Messages {
		signals := msg.Signals
		for i := range signals {
			sort.Slice(signals[i].Values, func(j, k int) bool {
				return signals[i].Values[j].ID < signals[i].Values[k].ID
			})
		}
	}
}
