package evo

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// localPrefix marks models served by a local OpenAI-compatible endpoint.
const localPrefix = "local-"

// ErrInvalidModelSpec is returned when a model string does not follow the
// local-<model>-<base url> convention.
var ErrInvalidModelSpec = errors.New("invalid model spec")

// ModelSpec is a parsed local model reference such as
// "local-rnj-1:8b-http://localhost:11434/v1".
type ModelSpec struct {
	Model   string
	BaseURL string
}

// ParseModelSpec splits a local model spec. The model part may itself contain
// '-' and ':'; the base URL starts at the last "-http://" or "-https://".
func ParseModelSpec(s string) (ModelSpec, error) {
	if !strings.HasPrefix(s, localPrefix) {
		return ModelSpec{}, fmt.Errorf("%w: %q lacks %q prefix", ErrInvalidModelSpec, s, localPrefix)
	}
	rest := strings.TrimPrefix(s, localPrefix)
	idx := strings.LastIndex(rest, "-http://")
	if i := strings.LastIndex(rest, "-https://"); i > idx {
		idx = i
	}
	if idx <= 0 {
		return ModelSpec{}, fmt.Errorf("%w: %q has no model name or base url", ErrInvalidModelSpec, s)
	}
	spec := ModelSpec{Model: rest[:idx], BaseURL: rest[idx+1:]}
	u, err := url.Parse(spec.BaseURL)
	if err != nil || u.Host == "" {
		return ModelSpec{}, fmt.Errorf("%w: %q has a malformed base url", ErrInvalidModelSpec, s)
	}
	return spec, nil
}

func (m ModelSpec) String() string {
	return localPrefix + m.Model + "-" + m.BaseURL
}
