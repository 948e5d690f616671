package bench

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"llmbench/pkg/types"
)

// Summary holds the server-reported accounting from the terminal record.
type Summary struct {
	TotalDuration      time.Duration
	LoadDuration       time.Duration
	PromptEvalCount    int
	PromptEvalDuration time.Duration
	EvalCount          int
	EvalDuration       time.Duration
	DoneReason         string
}

// Result is the outcome of one streamed generation.
type Result struct {
	Model          string
	StreamedTokens int
	SkippedLines   int
	Completed      bool
	Summary        Summary

	// TimeToFirstToken is measured from the moment the response headers arrived.
	TimeToFirstToken time.Duration
	FirstToken       bool
	WallTime         time.Duration
}

// TokensPerSecond returns the generation rate reported by the server.
func (r Result) TokensPerSecond() (float64, bool) {
	return TokensPerSecond(r.Summary.EvalCount, r.Summary.EvalDuration)
}

// PromptTokensPerSecond returns the prompt processing rate.
func (r Result) PromptTokensPerSecond() (float64, bool) {
	return TokensPerSecond(r.Summary.PromptEvalCount, r.Summary.PromptEvalDuration)
}

// TokensPerSecond computes count / seconds(d). The bool is false when d is
// not positive, in which case no rate is defined.
func TokensPerSecond(evalCount int, evalDuration time.Duration) (float64, bool) {
	if evalDuration <= 0 {
		return 0, false
	}
	return float64(evalCount) / evalDuration.Seconds(), true
}

// ParseLine decodes one NDJSON line. Blank lines and undecodable lines return
// ok=false. With repair set, a malformed line is passed through jsonrepair once.
func ParseLine(line []byte, repair bool) (types.GenerateChunk, bool) {
	var chunk types.GenerateChunk
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return chunk, false
	}
	if err := json.Unmarshal(line, &chunk); err == nil {
		return chunk, true
	}
	if !repair {
		return chunk, false
	}
	fixed, err := jsonrepair.JSONRepair(string(line))
	if err != nil {
		return chunk, false
	}
	chunk = types.GenerateChunk{}
	if err := json.Unmarshal([]byte(fixed), &chunk); err != nil {
		return chunk, false
	}
	return chunk, true
}

// Accumulator folds stream records into a Result.
type Accumulator struct {
	start time.Time
	now   func() time.Time
	res   Result
}

// NewAccumulator starts a fold; start is the reference for time-to-first-token.
func NewAccumulator(start time.Time) *Accumulator {
	return &Accumulator{start: start, now: time.Now}
}

// Skip counts a line that could not be decoded.
func (a *Accumulator) Skip() { a.res.SkippedLines++ }

// Add folds one record and returns the token text to emit, if any.
func (a *Accumulator) Add(c types.GenerateChunk) (string, bool) {
	if c.Model != "" && a.res.Model == "" {
		a.res.Model = c.Model
	}
	if !c.Done {
		if !a.res.FirstToken {
			a.res.FirstToken = true
			a.res.TimeToFirstToken = a.now().Sub(a.start)
		}
		a.res.StreamedTokens++
		return c.Response, true
	}
	a.res.Completed = true
	a.res.Summary = Summary{
		TotalDuration:      time.Duration(c.TotalDuration),
		LoadDuration:       time.Duration(c.LoadDuration),
		PromptEvalCount:    c.PromptEvalCount,
		PromptEvalDuration: time.Duration(c.PromptEvalDuration),
		EvalCount:          c.EvalCount,
		EvalDuration:       time.Duration(c.EvalDuration),
		DoneReason:         c.DoneReason,
	}
	// Terminal records may carry a last fragment.
	if c.Response != "" {
		return c.Response, true
	}
	return "", false
}

// Result returns the accumulated state with the wall time filled in.
func (a *Accumulator) Result() Result {
	r := a.res
	r.WallTime = a.now().Sub(a.start)
	return r
}
