package bench

import "math"

// Series summarizes repeated runs against the same model.
type Series struct {
	Runs int
	// Rated counts the runs that produced a defined tokens/sec value.
	Rated   int
	MeanTPS float64
	MinTPS  float64
	MaxTPS  float64
}

// Summarize aggregates tokens/sec over results, ignoring runs without a rate.
func Summarize(results []Result) Series {
	s := Series{Runs: len(results), MinTPS: math.Inf(1), MaxTPS: math.Inf(-1)}
	var sum float64
	for _, r := range results {
		tps, ok := r.TokensPerSecond()
		if !ok {
			continue
		}
		s.Rated++
		sum += tps
		s.MinTPS = math.Min(s.MinTPS, tps)
		s.MaxTPS = math.Max(s.MaxTPS, tps)
	}
	if s.Rated == 0 {
		s.MinTPS, s.MaxTPS = 0, 0
		return s
	}
	s.MeanTPS = sum / float64(s.Rated)
	return s
}
