package content

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"glassbird/internal/domain"
)

type CodeExample struct {
	Caption string `json:"caption,omitempty"`
	Code    string `json:"code"`
}

type Section struct {
	Heading    string        `json:"heading"`
	Paragraphs []string      `json:"paragraphs,omitempty"`
	Examples   []CodeExample `json:"examples,omitempty"`
}

// Document is a structured content module.
type Document struct {
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Sections []Section `json:"sections"`
}

// Registry serves structured modules registered under an id.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Document
}

func NewRegistry() *Registry {
	return &Registry{modules: map[string]Document{}}
}

// NewBuiltinRegistry returns a registry preloaded with the bundled modules.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.Register("integer-basics", IntegerBasics)
	return r
}

func (r *Registry) Register(id string, doc Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[id] = doc
}

func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.modules))
	for id := range r.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) Resolve(_ context.Context, ref domain.ContentRef) (domain.Content, error) {
	r.mu.RLock()
	doc, ok := r.modules[ref.Location]
	r.mu.RUnlock()
	if !ok {
		return domain.Content{}, fmt.Errorf("%w: unknown module %q", domain.ErrContentResolution, ref.Location)
	}
	return domain.Content{Type: domain.ContentStructured, Title: doc.Title, Value: doc}, nil
}
