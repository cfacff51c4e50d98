package node

import (
	"errors"
	"testing"

	"github.com/TommasoMolesti/faas-scheduler-testbed/utils"
)

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	registry := NewRegistry()

	utils.AssertNil(t, registry.Add(&Node{Name: "n1", Host: "10.0.0.1", Port: 22}))

	err := registry.Add(&Node{Name: "n1", Host: "10.0.0.2", Port: 22})
	utils.AssertTrue(t, errors.Is(err, NodeAlreadyExistsErr))

	// the first registration must survive the rejected one
	n, ok := registry.Get("n1")
	utils.AssertTrue(t, ok)
	utils.AssertEquals(t, "10.0.0.1", n.Host)
}

func TestRegistryNamesAreSorted(t *testing.T) {
	registry := NewRegistry()
	registry.Add(&Node{Name: "n2"})
	registry.Add(&Node{Name: "n1"})
	registry.Add(&Node{Name: "n3"})

	utils.AssertSliceEquals(t, []string{"n1", "n2", "n3"}, registry.Names())
	utils.AssertEquals(t, 3, registry.Len())
}
