package evo

import (
	"errors"
	"fmt"
	"math"
)

const probTolerance = 1e-6

// Validate checks the run configuration and returns every violation joined.
func (c RunConfig) Validate() error {
	var errs []error
	add := func(format string, a ...any) { errs = append(errs, fmt.Errorf(format, a...)) }

	e := c.Evo
	if len(e.PatchTypes) == 0 {
		add("patch_types: must not be empty")
	}
	if len(e.PatchTypes) != len(e.PatchTypeProbs) {
		add("patch_type_probs: %d values for %d patch types", len(e.PatchTypeProbs), len(e.PatchTypes))
	}
	var sum float64
	for i, p := range e.PatchTypeProbs {
		if p < 0 {
			add("patch_type_probs[%d]: negative probability %v", i, p)
		}
		sum += p
	}
	if len(e.PatchTypeProbs) > 0 && math.Abs(sum-1) > probTolerance {
		add("patch_type_probs: sum to %v, want 1", sum)
	}
	if e.NumGenerations < 1 {
		add("num_generations: must be at least 1")
	}
	if e.MaxParallelJobs < 1 {
		add("max_parallel_jobs: must be at least 1")
	}
	if e.CodeEmbedSimThreshold < 0 || e.CodeEmbedSimThreshold > 1 {
		add("code_embed_sim_threshold: %v outside [0,1]", e.CodeEmbedSimThreshold)
	}
	if len(e.LLMModels) == 0 {
		add("llm_models: must not be empty")
	}
	for _, g := range []struct {
		name   string
		models []string
	}{
		{"llm_models", e.LLMModels},
		{"meta_llm_models", e.MetaLLMModels},
		{"novelty_llm_models", e.NoveltyLLMModels},
	} {
		for i, m := range g.models {
			if err := checkModel(m); err != nil {
				add("%s[%d]: %w", g.name, i, err)
			}
		}
	}
	if e.EmbeddingModel != "" {
		if err := checkModel(e.EmbeddingModel); err != nil {
			add("embedding_model: %w", err)
		}
	}

	d := c.DB
	if d.NumIslands < 1 {
		add("num_islands: must be at least 1")
	}
	if d.ArchiveSize < 1 {
		add("archive_size: must be at least 1")
	}
	if d.EliteSelectionRatio < 0 || d.EliteSelectionRatio > 1 {
		add("elite_selection_ratio: %v outside [0,1]", d.EliteSelectionRatio)
	}
	if d.MigrationRate < 0 || d.MigrationRate > 1 {
		add("migration_rate: %v outside [0,1]", d.MigrationRate)
	}
	if err := d.ParentSelection.validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Job.EvalProgramPath == "" {
		add("eval_program_path: required")
	}
	return errors.Join(errs...)
}

// checkModel accepts local specs and plain hosted model names.
func checkModel(m string) error {
	if m == "" {
		return errors.New("empty model name")
	}
	if len(m) > len(localPrefix) && m[:len(localPrefix)] == localPrefix {
		_, err := ParseModelSpec(m)
		return err
	}
	return nil
}

func (p ParentSelection) validate() error {
	switch p.Strategy {
	case StrategyPowerLaw:
		if p.ExploitationAlpha == nil || p.ExploitationRatio == nil {
			return errors.New("power_law: exploitation_alpha and exploitation_ratio are required")
		}
		if *p.ExploitationAlpha < 0 {
			return fmt.Errorf("exploitation_alpha: %v is negative", *p.ExploitationAlpha)
		}
		if r := *p.ExploitationRatio; r < 0 || r > 1 {
			return fmt.Errorf("exploitation_ratio: %v outside [0,1]", r)
		}
	case StrategyWeighted:
		if p.ParentSelectionLambda == nil || *p.ParentSelectionLambda <= 0 {
			return errors.New("weighted: parent_selection_lambda must be positive")
		}
	case StrategyBeamSearch:
		if p.NumBeams == nil || *p.NumBeams < 1 {
			return errors.New("beam_search: num_beams must be at least 1")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, p.Strategy)
	}
	return nil
}
