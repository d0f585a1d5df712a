package codegen

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/BIwashi/canforge/pkg/dbc"
)

type emitOptions struct {
	rangeCheck bool
	withDefs   bool
	withSerde  bool
}

// Options is the serializable configuration of one generation run, used
// by the save/restore flags of the CLI. Filter lists keep their textual
// form (decimal or 0x-hex entries) and are validated when a Generator is
// built from them.
type Options struct {
	UID        string `yaml:"uid"`
	DBCFile    string `yaml:"dbc_file"`
	OutFile    string `yaml:"out_file,omitempty"`
	HeaderFile string `yaml:"header_file,omitempty"`
	NoHeader   bool   `yaml:"no_header,omitempty"`
	RangeCheck bool   `yaml:"range_check"`
	WithDefs   bool   `yaml:"with_defs"`
	WithSerde  bool   `yaml:"with_serde"`
	Whitelist  string `yaml:"whitelist,omitempty"`
	Blacklist  string `yaml:"blacklist,omitempty"`
}

// LoadOptions restores generator options from a YAML file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, errors.Wrap(err, "read config file")
	}
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, errors.Wrap(err, "parse config file")
	}

	return opts, nil
}

// Save writes the options to a YAML file.
func (o Options) Save(path string) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write config file")
	}

	return nil
}

// Generator turns a parsed DBC model into one generated Go source unit.
// It is a pure single-run transform: build it, call Generate once,
// discard it.
type Generator struct {
	uid        string
	infile     string
	outfile    string
	header     *string // nil selects DefaultHeader, empty disables it
	rangeCheck bool
	withDefs   bool
	withSerde  bool
	whitelist  []uint32
	blacklist  []uint32
}

func New(uid string) *Generator {
	return &Generator{
		uid:        uid,
		rangeCheck: true,
		withDefs:   true,
		withSerde:  true,
	}
}

// NewFromOptions builds a Generator from restored options. Filter list
// entries are parsed here, so a bad token fails before any generation
// work starts.
func NewFromOptions(opts Options) (*Generator, error) {
	g := New(opts.UID)
	g.DBCFile(opts.DBCFile).OutFile(opts.OutFile)
	g.RangeCheck(opts.RangeCheck).WithDefs(opts.WithDefs).WithSerde(opts.WithSerde)

	if opts.NoHeader {
		g.NoHeader()
	} else if opts.HeaderFile != "" {
		header, err := os.ReadFile(opts.HeaderFile)
		if err != nil {
			return nil, errors.Wrap(err, "read header file")
		}
		g.Header(string(header))
	}

	whitelist, err := ParseIDList(opts.Whitelist)
	if err != nil {
		return nil, errors.Wrap(err, "whitelist")
	}
	blacklist, err := ParseIDList(opts.Blacklist)
	if err != nil {
		return nil, errors.Wrap(err, "blacklist")
	}
	g.Whitelist(whitelist)
	g.Blacklist(blacklist)

	return g, nil
}

func (g *Generator) DBCFile(path string) *Generator {
	g.infile = path

	return g
}

func (g *Generator) OutFile(path string) *Generator {
	g.outfile = path

	return g
}

// Header replaces the default header block with custom text.
func (g *Generator) Header(text string) *Generator {
	g.header = &text

	return g
}

// NoHeader omits the header block entirely (the provenance banner is
// always emitted).
func (g *Generator) NoHeader() *Generator {
	empty := ""
	g.header = &empty

	return g
}

func (g *Generator) RangeCheck(flag bool) *Generator {
	g.rangeCheck = flag

	return g
}

// WithDefs controls whether def (declared value) types are generated.
func (g *Generator) WithDefs(flag bool) *Generator {
	g.withDefs = flag

	return g
}

// WithSerde controls whether generated signals and defs implement
// json.Marshaler.
func (g *Generator) WithSerde(flag bool) *Generator {
	g.withSerde = flag

	return g
}

func (g *Generator) Whitelist(ids []uint32) *Generator {
	g.whitelist = ids

	return g
}

func (g *Generator) Blacklist(ids []uint32) *Generator {
	g.blacklist = ids

	return g
}

// Generate parses the DBC input, renders the full source unit in memory
// and writes it to the output file (stdout when none is set). Nothing is
// written on failure.
func (g *Generator) Generate() error {
	if g.infile == "" {
		return errors.New("setting the dbc file path is mandatory")
	}

	model, err := dbc.ParseFile(g.infile)
	if err != nil {
		return err
	}

	out, err := g.Render(model)
	if err != nil {
		return err
	}

	if g.outfile == "" {
		if _, err := os.Stdout.Write(out); err != nil {
			return errors.Wrap(err, "write output")
		}

		return nil
	}
	if err := os.WriteFile(g.outfile, out, 0o644); err != nil {
		return errors.Wrap(err, "write output file")
	}

	return nil
}

// Render produces the generated source for an already parsed model.
func (g *Generator) Render(model *dbc.Model) ([]byte, error) {
	if g.uid == "" {
		return nil, errors.New("setting the uid is mandatory")
	}

	messages := applyFilters(model.Messages, g.whitelist, g.blacklist)

	// The json import is only emitted when at least one MarshalJSON
	// implementation will reference it.
	serde := false
	if g.withSerde {
		for _, msg := range messages {
			if len(msg.Signals) > 0 {
				serde = true

				break
			}
		}
	}

	w := &codeWriter{}
	header := DefaultHeader
	if g.header != nil {
		header = *g.header
	}
	if err := w.prologue(header, model.SourceFile, packageIdent(g.uid), serde); err != nil {
		return nil, err
	}

	opts := emitOptions{rangeCheck: g.rangeCheck, withDefs: g.withDefs, withSerde: serde}
	for _, msg := range messages {
		mux, err := resolveMux(msg)
		if err != nil {
			return nil, err
		}
		w.blank()
		w.printf("// ----- message %s (id 0x%X) -----", msg.Name, msg.ID)
		w.blank()
		for i := range msg.Signals {
			if err := emitSignal(w, msg, &msg.Signals[i], opts); err != nil {
				return nil, err
			}
		}
		emitMessage(w, msg, mux)
	}

	emitPool(w, messages)

	return w.bytes(), nil
}
