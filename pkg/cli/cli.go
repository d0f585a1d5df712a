package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Input carries the per-invocation dependencies handed to every command.
type Input struct {
	Logger slog.Logger
}

// CLI is a thin wrapper around a cobra root command.
type CLI struct {
	rootCmd *cobra.Command
}

func NewCLI(name, short string) *CLI {
	cmd := &cobra.Command{
		Use:           name,
		Short:         short,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	return &CLI{rootCmd: cmd}
}

func (c *CLI) AddCommands(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		c.rootCmd.AddCommand(cmd)
	}
}

func (c *CLI) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return c.rootCmd.ExecuteContext(ctx)
}

// WithContext adapts a command body taking (ctx, Input) into a cobra RunE.
func WithContext(run func(ctx context.Context, input Input) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		return run(cmd.Context(), Input{Logger: *logger})
	}
}
