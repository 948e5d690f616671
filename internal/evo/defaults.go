package evo

// Default endpoint and models for the circle-packing run.
const (
	DefaultBaseURL        = "http://localhost:11434/v1"
	DefaultModel          = "rnj-1:8b"
	DefaultEmbeddingModel = "nomic-embed-text:latest"
	DefaultStrategy       = "weighted"
)

// CirclePackingSysMsg is the task system prompt for the circle-packing search.
const CirclePackingSysMsg = `You are an expert mathematician specializing in circle packing problems and computational geometry. 
*** CRITICAL OUTPUT RULES ***
1. **Output ONLY the python code.** No explanations, no markdown outside the code block.
2. The code must be enclosed in ` + "```python and ```" + ` tags.
3. The function signature MUST remain: ` + "`def construct_packing():`" + `
4. The return statement MUST be exactly: ` + "`return centers, radii`" + `
5. Ensure all imports (numpy, scipy) are explicitly included inside the code block.
`

// CirclePacking returns the circle-packing run configuration using the named
// parent selection preset.
func CirclePacking(strategy string) (RunConfig, error) {
	ps, err := Preset(strategy)
	if err != nil {
		return RunConfig{}, err
	}
	local := ModelSpec{Model: DefaultModel, BaseURL: DefaultBaseURL}.String()
	embed := ModelSpec{Model: DefaultEmbeddingModel, BaseURL: DefaultBaseURL}.String()

	return RunConfig{
		Job: JobConfig{Type: "local", EvalProgramPath: "evaluate.py"},
		DB: DatabaseConfig{
			DBPath:                 "evolution_db.sqlite",
			NumIslands:             2,
			ArchiveSize:            40,
			EliteSelectionRatio:    0.3,
			NumArchiveInspirations: 4,
			NumTopKInspirations:    2,
			MigrationInterval:      10,
			MigrationRate:          0.1,
			IslandElitism:          true,
			ParentSelection:        ps,
		},
		Evo: EvolutionConfig{
			TaskSysMsg:        CirclePackingSysMsg,
			PatchTypes:        []string{"diff", "full", "cross"},
			PatchTypeProbs:    []float64{0.1, 0.8, 0.1},
			NumGenerations:    400,
			MaxParallelJobs:   12,
			MaxPatchResamples: 3,
			MaxPatchAttempts:  3,
			JobType:           "local",
			Language:          "python",
			LLMModels:         []string{local},
			LLMKwargs: LLMKwargs{
				Temperatures:     []float64{0.0, 0.2, 0.3},
				ReasoningEfforts: []string{"auto", "low", "medium", "high"},
				MaxTokens:        8192,
			},
			MetaRecInterval:           10,
			MetaLLMModels:             []string{local},
			MetaLLMKwargs:             LLMKwargs{Temperatures: []float64{0.0}, MaxTokens: 8192},
			EmbeddingModel:            embed,
			CodeEmbedSimThreshold:     0.995,
			NoveltyLLMModels:          []string{local},
			NoveltyLLMKwargs:          LLMKwargs{Temperatures: []float64{0.0}, MaxTokens: 8192},
			LLMDynamicSelection:       "ucb1",
			LLMDynamicSelectionKwargs: DynamicSelectionKwargs{ExplorationCoef: 1.0},
			InitProgramPath:           "initial.py",
			ResultsDir:                "results_cpack",
		},
		Verbose: true,
	}, nil
}
