// Package generation orchestrates video generation: a synchronous submit
// to one of several interchangeable backends followed by a decoupled
// background poll that drives the project to a terminal status.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// JobState is a generation backend's view of a submitted job.
type JobState string

const (
	JobPending    JobState = "pending"
	JobProcessing JobState = "processing"
	JobCompleted  JobState = "completed"
	JobFailed     JobState = "failed"
)

type PollResult struct {
	State    JobState
	VideoURL string
	Error    string
}

// Backend is the capability pair every generation provider implements.
type Backend interface {
	// Name is the model tag recorded on the project as the backend that
	// actually produced the result.
	Name() string
	Submit(ctx context.Context, plan json.RawMessage) (string, error)
	Poll(ctx context.Context, jobID string) (PollResult, error)
}

var ErrUnknownModel = errors.New("unknown generation model")

// Registry maps model tags to backends and knows which backends fall
// back to another provider when submission fails.
type Registry struct {
	backends  map[string]Backend
	fallbacks map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		backends:  make(map[string]Backend),
		fallbacks: make(map[string]string),
	}
}

func (r *Registry) Register(backend Backend) {
	r.backends[backend.Name()] = backend
}

// RegisterWithFallback registers a backend whose failed submissions are
// retried against the named fallback backend.
func (r *Registry) RegisterWithFallback(backend Backend, fallbackName string) {
	r.Register(backend)
	r.fallbacks[backend.Name()] = fallbackName
}

func (r *Registry) Get(name string) (Backend, error) {
	backend, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return backend, nil
}

func (r *Registry) Fallback(name string) (Backend, bool) {
	fallbackName, ok := r.fallbacks[name]
	if !ok {
		return nil, false
	}
	backend, ok := r.backends[fallbackName]
	return backend, ok
}

// plan is the subset of the generation plan the backends care about. The
// rest of the plan blob stays opaque.
type plan struct {
	Description string        `json:"description"`
	Scenes      []interface{} `json:"scenes"`
}

// planPrompt renders a plan blob into a text prompt: the description
// plus up to three scenes.
func planPrompt(raw json.RawMessage) string {
	var p plan
	if err := json.Unmarshal(raw, &p); err != nil || p.Description == "" {
		if p.Description == "" {
			p.Description = "Generate a video based on the provided plan"
		}
	}

	if len(p.Scenes) == 0 {
		return p.Description
	}

	var b strings.Builder
	b.WriteString(p.Description)
	b.WriteString("\n\nKey scenes:")
	for i, scene := range p.Scenes {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "\nScene %d: %v", i+1, scene)
	}
	return b.String()
}
