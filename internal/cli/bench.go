package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"llmbench/internal/bench"
	"llmbench/internal/config"
	"llmbench/internal/store"
	"llmbench/pkg/types"
)

type benchFlags struct {
	temperature float64
	numPredict  int
	seed        int64
}

func newBenchCmd(a *app) *cobra.Command {
	var bf benchFlags
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Stream one completion and report tokens/sec",
		Example: "  llmbench bench\n" +
			"  llmbench bench --model llama3.2:3b --runs 5 --history ~/.llmbench/history.db",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyBenchFlags(cmd, a)
			return a.runBench(cmd, bf)
		},
	}
	f := cmd.Flags()
	f.String("model", "", "Model name (default "+config.DefaultModel+")")
	f.String("prompt", "", "Prompt text")
	f.String("url", "", "Generation endpoint URL (default "+config.DefaultURL+")")
	f.Int("runs", 0, "Repeat the request N times sequentially")
	f.Int("connect-timeout", 0, "Connect timeout in seconds")
	f.Int("timeout", 0, "Whole-request timeout in seconds (0 = none)")
	f.Bool("repair", false, "Try to repair malformed stream lines before skipping them")
	f.Bool("quiet", false, "Do not echo streamed tokens")
	f.String("history", "", "Record runs into this sqlite database")
	f.String("metrics-file", "", "Write Prometheus metrics to this file after every run")
	f.Float64Var(&bf.temperature, "temperature", 0, "Sampling temperature sent as options.temperature")
	f.IntVar(&bf.numPredict, "num-predict", 0, "Token limit sent as options.num_predict")
	f.Int64Var(&bf.seed, "seed", 0, "Seed sent as options.seed")
	return cmd
}

// applyBenchFlags overlays explicitly set flags on the loaded config.
func applyBenchFlags(cmd *cobra.Command, a *app) {
	f := cmd.Flags()
	if f.Changed("model") {
		a.cfg.Model, _ = f.GetString("model")
	}
	if f.Changed("prompt") {
		a.cfg.Prompt, _ = f.GetString("prompt")
	}
	if f.Changed("url") {
		a.cfg.URL, _ = f.GetString("url")
	}
	if f.Changed("runs") {
		a.cfg.Runs, _ = f.GetInt("runs")
	}
	if f.Changed("connect-timeout") {
		a.cfg.ConnectTimeoutSec, _ = f.GetInt("connect-timeout")
	}
	if f.Changed("timeout") {
		a.cfg.RequestTimeoutSec, _ = f.GetInt("timeout")
	}
	if f.Changed("repair") {
		a.cfg.RepairLines, _ = f.GetBool("repair")
	}
	if f.Changed("quiet") {
		a.cfg.Quiet, _ = f.GetBool("quiet")
	}
	if f.Changed("history") {
		a.cfg.HistoryDB, _ = f.GetString("history")
	}
	if f.Changed("metrics-file") {
		a.cfg.MetricsFile, _ = f.GetString("metrics-file")
	}
	a.cfg = a.cfg.WithDefaults()
}

func (a *app) runBench(cmd *cobra.Command, bf benchFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	cfg := a.cfg

	var hist *store.Store
	if cfg.HistoryDB != "" {
		s, err := store.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer s.Close()
		hist = s
	}

	client := bench.NewClient(bench.ClientConfig{
		URL:            cfg.URL,
		ConnectTimeout: cfg.ConnectTimeout(),
		RequestTimeout: cfg.RequestTimeout(),
		RepairLines:    cfg.RepairLines,
		Logger:         a.log,
	})
	req := types.GenerateRequest{Model: cfg.Model, Prompt: cfg.Prompt, Stream: true}
	if bf.temperature != 0 || bf.numPredict != 0 || bf.seed != 0 {
		req.Options = &types.GenerateOptions{Temperature: bf.temperature, NumPredict: bf.numPredict, Seed: bf.seed}
	}

	onToken := func(tok string) error {
		if cfg.Quiet {
			return nil
		}
		_, err := io.WriteString(out, tok)
		return err
	}

	bench.Header(out, cfg.Model, client.URL())
	var results []bench.Result
	for i := 0; i < cfg.Runs; i++ {
		if cfg.Runs > 1 {
			a.log.Info().Int("run", i+1).Int("of", cfg.Runs).Msg("starting run")
		}
		started := time.Now()
		res, err := client.Run(ctx, req, onToken)
		bench.Observe(res, err)
		if cfg.MetricsFile != "" {
			if merr := bench.WriteMetrics(cfg.MetricsFile); merr != nil {
				a.log.Warn().Err(merr).Str("path", cfg.MetricsFile).Msg("could not write metrics")
			}
		}
		a.log.Debug().Dur("wall", time.Since(started)).Int("streamed", res.StreamedTokens).Str("outcome", bench.Outcome(err)).Msg("run finished")
		if hist != nil {
			run := store.NewRun(cfg.Model, cfg.Prompt, client.URL(), res, err)
			if rerr := hist.Record(ctx, &run); rerr != nil {
				a.log.Warn().Err(rerr).Msg("could not record run")
			}
		}
		if err != nil {
			msg, code := bench.Diagnose(err)
			fmt.Fprintln(out)
			fmt.Fprintln(out, msg)
			if code != 0 {
				return &ExitError{Code: code}
			}
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		bench.Report(out, cfg.Model, res)
		results = append(results, res)
	}
	if cfg.Runs > 1 {
		bench.ReportSeries(out, bench.Summarize(results))
	}
	return nil
}
