package gen

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/BIwashi/canforge/pkg/cli"
	"github.com/BIwashi/canforge/pkg/codegen"
)

type generator struct {
	dbcFile      string
	outFile      string
	uid          string
	headerFile   string
	noHeader     bool
	noRangeCheck bool
	noDefs       bool
	noSerde      bool
	whitelist    string
	blacklist    string
	saveConfig   string
	loadConfig   string
}

func NewCommand() *cobra.Command {
	s := &generator{}

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Go signal accessors from a DBC file.",
		Example: `  # Generate accessors for every message
  canforge gen --dbc-file bms.dbc --out bms_dbc.go

  # Keep two messages, drop one, no range checks
  canforge gen --dbc-file bms.dbc --out bms_dbc.go \
    --whitelist 0x101,257 --blacklist 0x200 --no-range-check`,
		RunE: cli.WithContext(s.run),
	}

	cmd.Flags().StringVar(&s.dbcFile, "dbc-file", s.dbcFile, "DBC file path")
	cmd.Flags().StringVar(&s.outFile, "out", s.outFile, "Output file path (stdout if empty)")
	cmd.Flags().StringVar(&s.uid, "uid", s.uid, "Generated package name (defaults to the DBC file name)")
	cmd.Flags().StringVar(&s.headerFile, "header-file", s.headerFile, "File with a custom header block")
	cmd.Flags().BoolVar(&s.noHeader, "no-header", s.noHeader, "Omit the header block")
	cmd.Flags().BoolVar(&s.noRangeCheck, "no-range-check", s.noRangeCheck, "Disable min/max range checks in setters")
	cmd.Flags().BoolVar(&s.noDefs, "no-defs", s.noDefs, "Disable declared-value (def) types")
	cmd.Flags().BoolVar(&s.noSerde, "no-serde", s.noSerde, "Disable JSON serialization of generated signals and defs")
	cmd.Flags().StringVar(&s.whitelist, "whitelist", s.whitelist, "Comma separated CAN IDs to keep (decimal or 0x-hex)")
	cmd.Flags().StringVar(&s.blacklist, "blacklist", s.blacklist, "Comma separated CAN IDs to drop (decimal or 0x-hex)")
	cmd.Flags().StringVar(&s.saveConfig, "save-config", s.saveConfig, "Save the effective options to a YAML file")
	cmd.Flags().StringVar(&s.loadConfig, "load-config", s.loadConfig, "Load options from a YAML file (flags override nothing)")

	return cmd
}

func (s *generator) run(_ context.Context, input cli.Input) error {
	opts, err := s.options()
	if err != nil {
		return err
	}

	if s.saveConfig != "" {
		if err := opts.Save(s.saveConfig); err != nil {
			return err
		}
		input.Logger.Info("Saved generator config", "path", s.saveConfig)
	}

	g, err := codegen.NewFromOptions(opts)
	if err != nil {
		return err
	}

	input.Logger.Info("Generating signal accessors",
		"dbc_file", opts.DBCFile,
		"out_file", opts.OutFile,
		"uid", opts.UID,
	)

	if err := g.Generate(); err != nil {
		return errors.Wrap(err, "generate")
	}

	input.Logger.Info("Generated", "out_file", opts.OutFile)

	return nil
}

func (s *generator) options() (codegen.Options, error) {
	if s.loadConfig != "" {
		return codegen.LoadOptions(s.loadConfig)
	}

	if s.dbcFile == "" {
		return codegen.Options{}, errors.New("--dbc-file is mandatory (or use --load-config)")
	}

	uid := s.uid
	if uid == "" {
		base := filepath.Base(s.dbcFile)
		uid = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return codegen.Options{
		UID:        uid,
		DBCFile:    s.dbcFile,
		OutFile:    s.outFile,
		HeaderFile: s.headerFile,
		NoHeader:   s.noHeader,
		RangeCheck: !s.noRangeCheck,
		WithDefs:   !s.noDefs,
		WithSerde:  !s.noSerde,
		Whitelist:  s.whitelist,
		Blacklist:  s.blacklist,
	}, nil
}
