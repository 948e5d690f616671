package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"llmbench/internal/evo"
)

func newEvoCmd(a *app) *cobra.Command {
	evoCmd := &cobra.Command{Use: "evo", Short: "Build and launch evolutionary code-search configurations", RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("evo requires a subcommand: presets|render|validate|launch")
	}}

	presets := &cobra.Command{Use: "presets", Short: "List parent selection presets", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range evo.Presets() {
			ps, _ := evo.Preset(name)
			fmt.Fprintf(out, "%-15s %s\n", name, describeSelection(ps))
		}
		return nil
	}}

	var strategy, format, from, outPath string
	render := &cobra.Command{Use: "render", Short: "Render the circle-packing run configuration", Example: "  llmbench evo render --strategy beam_search --format toml", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadOrDefault(from, strategy, cmd.Flags().Changed("strategy"))
		if err != nil {
			return err
		}
		if outPath != "" {
			p, err := evo.WriteConfig(cfg, outPath)
			if err != nil {
				return err
			}
			a.log.Info().Str("path", p).Str("strategy", cfg.DB.Strategy).Msg("wrote run config")
			return nil
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid run config: %w", err)
		}
		b, err := evo.Render(cfg, format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	}}
	render.Flags().StringVar(&strategy, "strategy", evo.DefaultStrategy, "Parent selection preset ("+strings.Join(evo.Presets(), "|")+")")
	render.Flags().StringVar(&format, "format", "yaml", "Output format: yaml|json|toml")
	render.Flags().StringVar(&from, "from", "", "Start from an existing run config file instead of the default")
	render.Flags().StringVarP(&outPath, "output", "o", "", "Write to file (format from extension)")

	validate := &cobra.Command{Use: "validate <file>", Short: "Validate a run configuration file", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := evo.LoadRunConfig(args[0])
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s, %d generations, %d islands)\n", args[0], cfg.DB.Strategy, cfg.Evo.NumGenerations, cfg.DB.NumIslands)
		return nil
	}}

	var launchStrategy, launchFrom, launchOut, workDir string
	launch := &cobra.Command{
		Use:     "launch -- <command> [args...]",
		Short:   "Write the run configuration and hand it to an external runner",
		Example: "  llmbench evo launch --out run/evo.yaml -- python3 run_evo.py",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadOrDefault(launchFrom, launchStrategy, cmd.Flags().Changed("strategy"))
			if err != nil {
				return err
			}
			return evo.Launch(cmd.Context(), evo.LaunchOptions{
				Config:     cfg,
				ConfigPath: launchOut,
				Command:    args[0],
				Args:       args[1:],
				Dir:        workDir,
				Logger:     a.log,
			})
		},
	}
	launch.Flags().StringVar(&launchStrategy, "strategy", evo.DefaultStrategy, "Parent selection preset")
	launch.Flags().StringVar(&launchFrom, "from", "", "Start from an existing run config file instead of the default")
	launch.Flags().StringVar(&launchOut, "out", "evo_run.yaml", "Where to write the rendered config")
	launch.Flags().StringVar(&workDir, "dir", "", "Working directory for the runner")

	evoCmd.AddCommand(presets, render, validate, launch)
	return evoCmd
}

// loadOrDefault reads a run config file, or builds the circle-packing default.
// An explicitly set strategy replaces the parent selection of a loaded file.
func loadOrDefault(path, strategy string, override bool) (evo.RunConfig, error) {
	if path == "" {
		return evo.CirclePacking(strategy)
	}
	cfg, err := evo.LoadRunConfig(path)
	if err != nil {
		return cfg, err
	}
	if override {
		ps, err := evo.Preset(strategy)
		if err != nil {
			return cfg, err
		}
		cfg.DB.ParentSelection = ps
	}
	return cfg, nil
}

func describeSelection(ps evo.ParentSelection) string {
	parts := []string{ps.Strategy}
	if ps.ExploitationAlpha != nil {
		parts = append(parts, fmt.Sprintf("alpha=%g", *ps.ExploitationAlpha))
	}
	if ps.ExploitationRatio != nil {
		parts = append(parts, fmt.Sprintf("ratio=%g", *ps.ExploitationRatio))
	}
	if ps.ParentSelectionLambda != nil {
		parts = append(parts, fmt.Sprintf("lambda=%g", *ps.ParentSelectionLambda))
	}
	if ps.NumBeams != nil {
		parts = append(parts, fmt.Sprintf("beams=%d", *ps.NumBeams))
	}
	return strings.Join(parts, " ")
}
