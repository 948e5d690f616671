// Package evo builds the configuration graph handed to the external
// evolutionary code-search framework: evolution, database and job settings.
package evo

// JobConfig selects how candidate programs are evaluated.
type JobConfig struct {
	Type            string `json:"type" yaml:"type" toml:"type"`
	EvalProgramPath string `json:"eval_program_path" yaml:"eval_program_path" toml:"eval_program_path"`
}

// ParentSelection holds the strategy-specific parent sampling parameters.
// Unset pointer fields are omitted when rendered.
type ParentSelection struct {
	Strategy              string   `json:"parent_selection_strategy" yaml:"parent_selection_strategy" toml:"parent_selection_strategy"`
	ExploitationAlpha     *float64 `json:"exploitation_alpha,omitempty" yaml:"exploitation_alpha,omitempty" toml:"exploitation_alpha,omitempty"`
	ExploitationRatio     *float64 `json:"exploitation_ratio,omitempty" yaml:"exploitation_ratio,omitempty" toml:"exploitation_ratio,omitempty"`
	ParentSelectionLambda *float64 `json:"parent_selection_lambda,omitempty" yaml:"parent_selection_lambda,omitempty" toml:"parent_selection_lambda,omitempty"`
	NumBeams              *int     `json:"num_beams,omitempty" yaml:"num_beams,omitempty" toml:"num_beams,omitempty"`
}

// DatabaseConfig configures the program archive and island model.
type DatabaseConfig struct {
	DBPath      string `json:"db_path" yaml:"db_path" toml:"db_path"`
	NumIslands  int    `json:"num_islands" yaml:"num_islands" toml:"num_islands"`
	ArchiveSize int    `json:"archive_size" yaml:"archive_size" toml:"archive_size"`

	EliteSelectionRatio    float64 `json:"elite_selection_ratio" yaml:"elite_selection_ratio" toml:"elite_selection_ratio"`
	NumArchiveInspirations int     `json:"num_archive_inspirations" yaml:"num_archive_inspirations" toml:"num_archive_inspirations"`
	NumTopKInspirations    int     `json:"num_top_k_inspirations" yaml:"num_top_k_inspirations" toml:"num_top_k_inspirations"`

	MigrationInterval int     `json:"migration_interval" yaml:"migration_interval" toml:"migration_interval"`
	MigrationRate     float64 `json:"migration_rate" yaml:"migration_rate" toml:"migration_rate"`
	// IslandElitism protects each island's elite from migration.
	IslandElitism bool `json:"island_elitism" yaml:"island_elitism" toml:"island_elitism"`

	ParentSelection `yaml:",inline"`
}

// LLMKwargs are sampling settings shared by a group of models.
type LLMKwargs struct {
	Temperatures     []float64 `json:"temperatures" yaml:"temperatures" toml:"temperatures"`
	ReasoningEfforts []string  `json:"reasoning_efforts,omitempty" yaml:"reasoning_efforts,omitempty" toml:"reasoning_efforts,omitempty"`
	MaxTokens        int       `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
}

// DynamicSelectionKwargs tunes the bandit that picks between LLMs.
type DynamicSelectionKwargs struct {
	ExplorationCoef float64 `json:"exploration_coef" yaml:"exploration_coef" toml:"exploration_coef"`
}

// EvolutionConfig is the top-level search configuration.
type EvolutionConfig struct {
	TaskSysMsg        string    `json:"task_sys_msg" yaml:"task_sys_msg" toml:"task_sys_msg"`
	PatchTypes        []string  `json:"patch_types" yaml:"patch_types" toml:"patch_types"`
	PatchTypeProbs    []float64 `json:"patch_type_probs" yaml:"patch_type_probs" toml:"patch_type_probs"`
	NumGenerations    int       `json:"num_generations" yaml:"num_generations" toml:"num_generations"`
	MaxParallelJobs   int       `json:"max_parallel_jobs" yaml:"max_parallel_jobs" toml:"max_parallel_jobs"`
	MaxPatchResamples int       `json:"max_patch_resamples" yaml:"max_patch_resamples" toml:"max_patch_resamples"`
	MaxPatchAttempts  int       `json:"max_patch_attempts" yaml:"max_patch_attempts" toml:"max_patch_attempts"`
	JobType           string    `json:"job_type" yaml:"job_type" toml:"job_type"`
	Language          string    `json:"language" yaml:"language" toml:"language"`

	LLMModels []string  `json:"llm_models" yaml:"llm_models" toml:"llm_models"`
	LLMKwargs LLMKwargs `json:"llm_kwargs" yaml:"llm_kwargs" toml:"llm_kwargs"`

	MetaRecInterval int       `json:"meta_rec_interval" yaml:"meta_rec_interval" toml:"meta_rec_interval"`
	MetaLLMModels   []string  `json:"meta_llm_models" yaml:"meta_llm_models" toml:"meta_llm_models"`
	MetaLLMKwargs   LLMKwargs `json:"meta_llm_kwargs" yaml:"meta_llm_kwargs" toml:"meta_llm_kwargs"`

	EmbeddingModel        string  `json:"embedding_model" yaml:"embedding_model" toml:"embedding_model"`
	CodeEmbedSimThreshold float64 `json:"code_embed_sim_threshold" yaml:"code_embed_sim_threshold" toml:"code_embed_sim_threshold"`

	NoveltyLLMModels []string  `json:"novelty_llm_models" yaml:"novelty_llm_models" toml:"novelty_llm_models"`
	NoveltyLLMKwargs LLMKwargs `json:"novelty_llm_kwargs" yaml:"novelty_llm_kwargs" toml:"novelty_llm_kwargs"`

	LLMDynamicSelection       string                 `json:"llm_dynamic_selection" yaml:"llm_dynamic_selection" toml:"llm_dynamic_selection"`
	LLMDynamicSelectionKwargs DynamicSelectionKwargs `json:"llm_dynamic_selection_kwargs" yaml:"llm_dynamic_selection_kwargs" toml:"llm_dynamic_selection_kwargs"`

	InitProgramPath string `json:"init_program_path" yaml:"init_program_path" toml:"init_program_path"`
	ResultsDir      string `json:"results_dir" yaml:"results_dir" toml:"results_dir"`
}

// RunConfig is the full object graph passed to the runner entry point.
type RunConfig struct {
	Evo     EvolutionConfig `json:"evo_config" yaml:"evo_config" toml:"evo_config"`
	DB      DatabaseConfig  `json:"db_config" yaml:"db_config" toml:"db_config"`
	Job     JobConfig       `json:"job_config" yaml:"job_config" toml:"job_config"`
	Verbose bool            `json:"verbose" yaml:"verbose" toml:"verbose"`
}
