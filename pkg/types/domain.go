package types

// Model describes a model advertised by a generation server.
type Model struct {
	// Model name including tag.
	// example: rnj-1:8b
	Name string `json:"name" example:"rnj-1:8b"`
	// Optional family (e.g., llama, mistral, phi).
	// example: llama
	Family string `json:"family,omitempty" example:"llama"`
	// Size on disk in bytes, when known.
	Size int64 `json:"size,omitempty"`
}
