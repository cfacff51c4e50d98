package function

import (
	"errors"
	"sort"
	"sync"
)

var FunctionNotFoundErr = errors.New("function not found")
var FunctionAlreadyExistsErr = errors.New("function already registered")

// A Function is a registered unit of execution: a container image plus the
// command passed to it at invocation time. Functions are immutable after
// registration.
type Function struct {
	Name    string `json:"name"`
	Image   string `json:"image"`
	Command string `json:"command"`
}

func (f *Function) String() string {
	return f.Name
}

// Registry owns the set of registered functions. Insertion is atomic per
// name; reads may run concurrently.
type Registry struct {
	sync.RWMutex
	functions map[string]*Function
}

func NewRegistry() *Registry {
	return &Registry{functions: make(map[string]*Function)}
}

// Add registers a new function. Duplicate names are rejected and leave the
// registry unchanged.
func (r *Registry) Add(f *Function) error {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.functions[f.Name]; ok {
		return FunctionAlreadyExistsErr
	}
	r.functions[f.Name] = f
	return nil
}

// Get retrieves a function given its name. If it doesn't exist, returns false.
func (r *Registry) Get(name string) (*Function, bool) {
	r.RLock()
	defer r.RUnlock()

	f, ok := r.functions[name]
	return f, ok
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	r.RLock()
	defer r.RUnlock()

	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.functions)
}
