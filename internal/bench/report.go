package bench

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

var separator = strings.Repeat("-", 40)

// Header prints the banner shown before tokens start streaming.
func Header(w io.Writer, model, url string) {
	fmt.Fprintf(w, "Testing speed for %s at %s...\n", model, url)
	fmt.Fprintln(w, separator)
}

// Report prints the statistics block for a completed run of model.
func Report(w io.Writer, model string, res Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Result (%s):\n", model)
	fmt.Fprintf(w, "Total Tokens: %s\n", humanize.Comma(int64(res.Summary.EvalCount)))
	fmt.Fprintf(w, "Total Time  : %.2fs\n", res.Summary.TotalDuration.Seconds())
	if tps, ok := res.TokensPerSecond(); ok {
		fmt.Fprintf(w, "Speed       : %.2f tokens/sec\n", tps)
	} else {
		fmt.Fprintln(w, "Speed error: eval_duration is 0")
	}
	if pps, ok := res.PromptTokensPerSecond(); ok {
		fmt.Fprintf(w, "Prompt      : %.2f tokens/sec (%s tokens)\n", pps, humanize.Comma(int64(res.Summary.PromptEvalCount)))
	}
	if res.FirstToken {
		fmt.Fprintf(w, "First Token : %.3fs\n", res.TimeToFirstToken.Seconds())
	}
	if res.SkippedLines > 0 {
		fmt.Fprintf(w, "Skipped     : %s malformed lines\n", humanize.Comma(int64(res.SkippedLines)))
	}
}

// ReportSeries prints the aggregate over repeated runs.
func ReportSeries(w io.Writer, s Series) {
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Runs        : %d (%d rated)\n", s.Runs, s.Rated)
	if s.Rated == 0 {
		fmt.Fprintln(w, "Speed error: no run reported a non-zero eval_duration")
		return
	}
	fmt.Fprintf(w, "Mean Speed  : %.2f tokens/sec\n", s.MeanTPS)
	fmt.Fprintf(w, "Min / Max   : %.2f / %.2f tokens/sec\n", s.MinTPS, s.MaxTPS)
}

// Diagnose maps a run error to the message shown to the user and the process
// exit code. Only HTTP errors fail the process; an unreachable server gets a
// hint and anything else is reported, both exiting normally.
func Diagnose(err error) (string, int) {
	if err == nil {
		return "", 0
	}
	var se *StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("Error: server returned status code %d\nMessage: %s", se.Code, se.Body), 1
	}
	var ce *ConnectionError
	if errors.As(err, &ce) {
		return fmt.Sprintf("Connection Error: could not connect to %s.\n"+
			"The server may not be running. Start it in another terminal with 'ollama serve'.", ce.URL), 0
	}
	return fmt.Sprintf("Unexpected Error: %v", err), 0
}
