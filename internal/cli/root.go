// Package cli wires the llmbench command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"llmbench/internal/config"
)

// ExitError carries a process exit code for failures already reported to the user.
type ExitError struct{ Code int }

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

// app is the state shared by all subcommands.
type app struct {
	cfgPath  string
	logLevel string
	cfg      config.Config
	log      zerolog.Logger
	stderr   io.Writer
}

// NewRootCmd constructs the command tree. stdout and stderr are taken from
// the command so tests can capture them.
func NewRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}
	root := &cobra.Command{
		Use:           "llmbench",
		Short:         "Benchmark streaming LLM servers and prepare evolutionary-search runs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", envStr("LLMBENCH_CONFIG", ""), "Config file (.yaml|.yml|.json|.toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", envStr("LLMBENCH_LOG_LEVEL", ""), "Log level: debug|info|warn|error")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if a.cfgPath != "" {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
		}
		if a.logLevel != "" {
			a.cfg.LogLevel = a.logLevel
		}
		a.cfg = a.cfg.WithDefaults()
		a.stderr = cmd.ErrOrStderr()
		a.log = newLogger(a.stderr, a.cfg.LogLevel)
		return nil
	}

	root.AddCommand(newBenchCmd(a), newEvoCmd(a), newMockCmd(a), newHistoryCmd(a), newCompletionCmd(root))
	return root
}

// Execute runs the command tree with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	}})
	return completionCmd
}

// ExitCode maps an Execute error to a process exit code. The bool reports
// whether the error was already shown to the user.
func ExitCode(err error) (int, bool) {
	if err == nil {
		return 0, true
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code, true
	}
	return 1, false
}
