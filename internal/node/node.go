package node

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var NodeNotFoundErr = errors.New("node not found")
var NodeAlreadyExistsErr = errors.New("node already registered")

// A Node is a worker host reachable over SSH. Connection parameters are only
// consumed by the remote executor; the password is never serialized.
type Node struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"`
}

func (n *Node) String() string {
	return fmt.Sprintf("%s (%s:%d)", n.Name, n.Host, n.Port)
}

// Registry owns the set of registered nodes. Insertion is atomic per name;
// reads may run concurrently.
type Registry struct {
	sync.RWMutex
	nodes map[string]*Node
}

func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string]*Node)}
}

// Add registers a new node. Duplicate names are rejected and leave the
// registry unchanged.
func (r *Registry) Add(n *Node) error {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.nodes[n.Name]; ok {
		return NodeAlreadyExistsErr
	}
	r.nodes[n.Name] = n
	return nil
}

// Get retrieves a node given its name. If it doesn't exist, returns false.
func (r *Registry) Get(name string) (*Node, bool) {
	r.RLock()
	defer r.RUnlock()

	n, ok := r.nodes[name]
	return n, ok
}

// All returns a snapshot of the registered nodes, keyed by name.
func (r *Registry) All() map[string]*Node {
	r.RLock()
	defer r.RUnlock()

	nodes := make(map[string]*Node, len(r.nodes))
	for name, n := range r.nodes {
		nodes[name] = n
	}
	return nodes
}

// Names returns the registered node names in sorted order.
func (r *Registry) Names() []string {
	r.RLock()
	defer r.RUnlock()

	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.nodes)
}
