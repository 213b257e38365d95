package cost

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/de-tools/iac-cost/pkg/models/domain"
)

// Source is a template and its optional parameter file, already read.
// The extensions of Path and ParamsPath select the dialects.
type Source struct {
	Path       string
	Content    []byte
	ParamsPath string
	Params     []byte
}

// Loader turns a template source into resolved resource descriptors.
// region is the fallback deployment location.
type Loader func(ctx context.Context, src Source, region string) ([]domain.ResourceDescriptor, error)

// Registry maps template file extensions to loaders
type Registry interface {
	// Register adds a loader for an extension such as ".bicep"
	Register(extension string, loader Loader) error
	// Lookup returns the loader for an extension
	Lookup(extension string) (Loader, error)
	// ListExtensions returns the registered extensions, sorted
	ListExtensions() []string
}

type registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
}

func NewRegistry() Registry {
	return &registry{
		loaders: make(map[string]Loader),
	}
}

// DefaultRegistry knows the two supported dialects.
func DefaultRegistry() Registry {
	r := NewRegistry()
	_ = r.Register(".bicep", LoadBicep)
	_ = r.Register(".json", LoadARM)
	return r
}

func (r *registry) Register(extension string, loader Loader) error {
	if extension == "" {
		return fmt.Errorf("extension cannot be empty")
	}
	if loader == nil {
		return fmt.Errorf("loader cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	extension = strings.ToLower(extension)
	if _, exists := r.loaders[extension]; exists {
		return fmt.Errorf("extension %q is already registered", extension)
	}

	r.loaders[extension] = loader
	return nil
}

func (r *registry) Lookup(extension string) (Loader, error) {
	r.mu.RLock()
	loader, exists := r.loaders[strings.ToLower(extension)]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTemplate, extension)
	}
	return loader, nil
}

func (r *registry) ListExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	extensions := make([]string, 0, len(r.loaders))
	for extension := range r.loaders {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions
}
