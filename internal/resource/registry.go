package resource

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/GriffinCanCode/prestashop/internal/apierr"
	"github.com/goccy/go-yaml"
	"github.com/iancoleman/strcase"
)

//go:embed resources.yaml
var builtin []byte

// Descriptor is the metadata of one web service resource
type Descriptor struct {
	Name    string   `yaml:"name"`
	XMLRoot string   `yaml:"xml_root"`
	Fields  []string `yaml:"fields"`
}

// Path returns the resource path below the web service endpoint
func (d Descriptor) Path() string {
	return d.Name
}

// Fillable reports whether a record of this resource may set field
func (d Descriptor) Fillable(field string) bool {
	for _, f := range d.Fields {
		if f == field {
			return true
		}
	}
	return false
}

func (d Descriptor) validate() error {
	if d.Name == "" {
		return fmt.Errorf("resource without name")
	}
	if d.XMLRoot == "" {
		return fmt.Errorf("resource %s has no xml_root", d.Name)
	}
	return nil
}

// Registry maps resource names to descriptors
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Descriptor
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the registry of the built-in PrestaShop resources
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Load(builtin)
		if err != nil {
			panic(fmt.Sprintf("resource: built-in registry: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Descriptor)}
}

// Load parses a YAML resource list
func Load(data []byte) (*Registry, error) {
	var doc struct {
		Resources []Descriptor `yaml:"resources"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse resources: %w", err)
	}

	reg := NewRegistry()
	for _, d := range doc.Resources {
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register adds or replaces a descriptor
func (r *Registry) Register(d Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}
	d.Name = canonicalName(d.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[d.Name] = d
	return nil
}

// Lookup finds a resource by name. Snake, camel and kebab case are accepted:
// "price_ranges", "PriceRanges" and "price-ranges" are the same resource.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byName[canonicalName(name)]
	if !ok {
		return Descriptor{}, apierr.UnknownResource(name)
	}
	return d, nil
}

// Names returns all registered resource names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered resources
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

func canonicalName(name string) string {
	return strcase.ToSnake(strings.TrimSpace(name))
}
