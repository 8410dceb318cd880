// Package cli defines the divamm command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rbright/divamm/internal/version"
)

// Options are the flags shared by every command.
type Options struct {
	ConfigPath string
	Headless   bool
}

// Handlers implement the commands. The tree only parses arguments.
type Handlers struct {
	// Launch runs the bare invocation, optionally with a one-click URL.
	Launch func(ctx context.Context, opts Options, args []string) error
	Status func(ctx context.Context, opts Options) error
	Doctor func(ctx context.Context, opts Options) error
}

// UsageError marks errors caused by a malformed command line.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ExitError requests a specific exit code without printing anything further.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRoot builds the command tree for binaryName.
func NewRoot(binaryName string, handlers Handlers) *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:   binaryName + " [one-click-url]",
		Short: "single-instance mod manager with one-click install handoff",
		Long: binaryName + ` keeps one running instance per user session.
Launching it again with a one-click URL hands the URL to the running
instance and exits.`,
		Version:       version.String(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handlers.Launch == nil {
				return fmt.Errorf("launch is not available")
			}
			return handlers.Launch(cmd.Context(), *opts, args)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate("{{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file path (default: $XDG_CONFIG_HOME/divamm/config.yaml)")
	root.Flags().BoolVar(&opts.Headless, "headless", false, "print deliveries to stdout instead of opening the inbox view")

	root.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Print whether an instance is running",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if handlers.Status == nil {
					return fmt.Errorf("status is not available")
				}
				return handlers.Status(cmd.Context(), *opts)
			},
		},
		&cobra.Command{
			Use:   "doctor",
			Short: "Run configuration and environment checks",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if handlers.Doctor == nil {
					return fmt.Errorf("doctor is not available")
				}
				return handlers.Doctor(cmd.Context(), *opts)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
				return err
			},
		},
	)

	return root
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &UsageError{Err: err}
	}
	return nil
}
