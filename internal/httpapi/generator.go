package httpapi

import (
	"context"
	"strings"
	"time"

	"llmbench/pkg/types"
)

// DefaultReply is streamed by the mock generator when no reply is configured.
const DefaultReply = "def fibonacci(n):\n    a, b = 0, 1\n    for _ in range(n):\n        a, b = b, a + b\n    return a\n"

// Generator produces a token stream for a request. emit is called once per
// partial record and once with the terminal summary record.
type Generator interface {
	Models() []types.Model
	Generate(ctx context.Context, req types.GenerateRequest, emit func(types.GenerateChunk) error) error
}

// EchoGenerator streams a fixed reply split on whitespace boundaries, with
// Ollama-compatible nanosecond timings.
type EchoGenerator struct {
	Reply      string
	TokenDelay time.Duration
	// ModelNames restricts the accepted models; empty accepts any.
	ModelNames []string

	now func() time.Time
}

func (g *EchoGenerator) clock() time.Time {
	if g.now != nil {
		return g.now()
	}
	return time.Now()
}

// Models lists the configured model names.
func (g *EchoGenerator) Models() []types.Model {
	out := make([]types.Model, 0, len(g.ModelNames))
	for _, n := range g.ModelNames {
		out = append(out, types.Model{Name: n, Family: "mock"})
	}
	return out
}

func (g *EchoGenerator) serves(model string) bool {
	if len(g.ModelNames) == 0 {
		return true
	}
	for _, n := range g.ModelNames {
		if n == model {
			return true
		}
	}
	return false
}

// Tokenize splits text into tokens that concatenate back to text. Each token
// is a run of non-space characters followed by its trailing whitespace.
func Tokenize(text string) []string {
	var toks []string
	start := 0
	inSpace := false
	for i, r := range text {
		space := r == ' ' || r == '\n' || r == '\t'
		if !space && inSpace {
			toks = append(toks, text[start:i])
			start = i
		}
		inSpace = space
	}
	if start < len(text) {
		toks = append(toks, text[start:])
	}
	return toks
}

// Generate implements Generator.
func (g *EchoGenerator) Generate(ctx context.Context, req types.GenerateRequest, emit func(types.GenerateChunk) error) error {
	if !g.serves(req.Model) {
		return ErrModelNotFound(req.Model)
	}
	reply := g.Reply
	if reply == "" {
		reply = DefaultReply
	}
	toks := Tokenize(reply)
	reason := "stop"
	if req.Options != nil && req.Options.NumPredict > 0 && req.Options.NumPredict < len(toks) {
		toks = toks[:req.Options.NumPredict]
		reason = "length"
	}

	start := g.clock()
	promptDur := g.clock().Sub(start)
	evalStart := g.clock()
	for _, tok := range toks {
		if g.TokenDelay > 0 {
			t := time.NewTimer(g.TokenDelay)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(types.GenerateChunk{
			Model:     req.Model,
			CreatedAt: g.clock().UTC().Format(time.RFC3339Nano),
			Response:  tok,
		}); err != nil {
			return err
		}
	}
	end := g.clock()
	evalDur := end.Sub(evalStart)
	if evalDur <= 0 && len(toks) > 0 {
		// Coarse clocks may not advance between tokens.
		evalDur = time.Nanosecond
	}
	return emit(types.GenerateChunk{
		Model:              req.Model,
		CreatedAt:          end.UTC().Format(time.RFC3339Nano),
		Done:               true,
		DoneReason:         reason,
		TotalDuration:      int64(end.Sub(start)),
		PromptEvalCount:    len(strings.Fields(req.Prompt)),
		PromptEvalDuration: int64(promptDur),
		EvalCount:          len(toks),
		EvalDuration:       int64(evalDur),
	})
}
