package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry holds named rule sets loaded from YAML files.
type Registry struct {
	mu   sync.RWMutex
	sets map[string]*RuleSet
	dir  string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sets: make(map[string]*RuleSet),
	}
}

// NewRegistryWithDirectory creates a registry and loads every rule file in dir.
func NewRegistryWithDirectory(dir string) (*Registry, error) {
	r := NewRegistry()
	if err := r.LoadDirectory(dir); err != nil {
		return nil, err
	}
	return r, nil
}

// Register validates, compiles and stores a rule set. A set with the same
// name and version as a registered one is rejected.
func (r *Registry) Register(set *RuleSet) error {
	if set == nil {
		return fmt.Errorf("rule set cannot be nil")
	}

	if err := set.Validate(); err != nil {
		return fmt.Errorf("invalid rule set: %w", err)
	}

	if !set.IsCompiled() {
		if err := set.Compile(); err != nil {
			return fmt.Errorf("compiling rule set %q: %w", set.Name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sets[set.Name]; ok && existing.Version == set.Version {
		return fmt.Errorf("rule set %q version %s already registered", set.Name, set.Version)
	}

	r.sets[set.Name] = set
	return nil
}

// Unregister removes a rule set.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sets[name]; !ok {
		return fmt.Errorf("rule set %q not found", name)
	}
	delete(r.sets, name)
	return nil
}

// Get returns a rule set by name.
func (r *Registry) Get(name string) (*RuleSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.sets[name]
	return set, ok
}

// List returns the registered rule sets sorted by name.
func (r *Registry) List() []*RuleSet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sets := make([]*RuleSet, 0, len(r.sets))
	for _, s := range r.sets {
		sets = append(sets, s)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })
	return sets
}

// Count returns the number of registered rule sets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sets)
}

// Dir returns the directory last loaded.
func (r *Registry) Dir() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dir
}

// LoadDirectory loads all YAML rule files from a directory. A missing
// directory loads nothing.
func (r *Registry) LoadDirectory(dir string) error {
	r.mu.Lock()
	r.dir = dir
	r.mu.Unlock()

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var loadErrors []string
	for _, entry := range entries {
		if entry.IsDir() || !IsRuleFile(entry.Name()) {
			continue
		}
		if err := r.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("%s: %v", entry.Name(), err))
		}
	}

	if len(loadErrors) > 0 {
		return fmt.Errorf("errors loading rules: %s", strings.Join(loadErrors, "; "))
	}
	return nil
}

// LoadFile loads a single rule file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	set, err := ParseRuleSet(data)
	if err != nil {
		return err
	}

	if err := r.Register(set); err != nil {
		return fmt.Errorf("registering rule set: %w", err)
	}
	return nil
}

// Reload clears the registry and loads the configured directory again.
func (r *Registry) Reload() error {
	dir := r.Dir()
	if dir == "" {
		return fmt.Errorf("no directory configured for reload")
	}

	r.Clear()
	return r.LoadDirectory(dir)
}

// Clear removes all rule sets.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets = make(map[string]*RuleSet)
}

// ParseRuleSet decodes a YAML rule file.
func ParseRuleSet(data []byte) (*RuleSet, error) {
	var set RuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return &set, nil
}

// IsRuleFile reports whether a file name has a YAML extension.
func IsRuleFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
