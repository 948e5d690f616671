package types

// GenerateOptions carries optional sampling parameters for /api/generate.
type GenerateOptions struct {
	// Sampling temperature (higher = more random).
	// example: 0.7
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" toml:"temperature,omitempty" example:"0.7"`
	// Maximum number of tokens to generate.
	// example: 256
	NumPredict int `json:"num_predict,omitempty" yaml:"num_predict,omitempty" toml:"num_predict,omitempty" example:"256"`
	// Random seed for reproducibility.
	// example: 42
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed,omitempty" example:"42"`
}

// GenerateRequest is the payload POSTed to the generation endpoint.
type GenerateRequest struct {
	// Model identifier as known by the server.
	// example: rnj-1:8b
	Model string `json:"model" example:"rnj-1:8b"`
	// Prompt text to complete.
	// example: Write a python code for calculating Fibonacci sequence efficiently.
	Prompt string `json:"prompt"`
	// Stream tokens as NDJSON when true.
	// example: true
	Stream bool `json:"stream"`
	// Optional sampling parameters.
	Options *GenerateOptions `json:"options,omitempty"`
}

// GenerateChunk is one newline-delimited JSON record of a streaming response.
// Partial records carry Response with Done=false; the terminal record has Done=true
// and the nanosecond-scaled accounting fields.
type GenerateChunk struct {
	Model     string `json:"model,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`

	DoneReason         string `json:"done_reason,omitempty"`
	TotalDuration      int64  `json:"total_duration,omitempty"`
	LoadDuration       int64  `json:"load_duration,omitempty"`
	PromptEvalCount    int    `json:"prompt_eval_count,omitempty"`
	PromptEvalDuration int64  `json:"prompt_eval_duration,omitempty"`
	EvalCount          int    `json:"eval_count,omitempty"`
	EvalDuration       int64  `json:"eval_duration,omitempty"`

	// Error is set by servers that report failures mid-stream.
	Error string `json:"error,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// TagsResponse wraps the list of models returned by GET /api/tags.
type TagsResponse struct {
	Models []Model `json:"models"`
}
