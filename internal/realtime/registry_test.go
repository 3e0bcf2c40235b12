package realtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()
	client := &Client{id: "c1"}

	registry.Register(42, client)

	got, ok := registry.Lookup(42)
	require.True(t, ok)
	assert.Same(t, client, got)
	assert.Equal(t, 1, registry.Count())

	_, ok = registry.Lookup(99)
	assert.False(t, ok)
}

func TestRegistryRegisterReplacesPreviousConnection(t *testing.T) {
	registry := NewRegistry()
	first := &Client{id: "first"}
	second := &Client{id: "second"}

	registry.Register(42, first)
	registry.Register(42, second)

	got, ok := registry.Lookup(42)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, registry.Count())
}

func TestRegistryUnregisterRequiresOwnership(t *testing.T) {
	registry := NewRegistry()
	ghost := &Client{id: "ghost"}
	replacement := &Client{id: "replacement"}

	registry.Register(42, ghost)
	registry.Register(42, replacement)

	// The superseded connection tearing down late must not evict the
	// replacement.
	assert.False(t, registry.Unregister(42, ghost))

	got, ok := registry.Lookup(42)
	require.True(t, ok)
	assert.Same(t, replacement, got)

	assert.True(t, registry.Unregister(42, replacement))
	_, ok = registry.Lookup(42)
	assert.False(t, ok)
	assert.False(t, registry.Unregister(42, replacement))
}

func TestRegistryLookupManyReturnsRegisteredSubset(t *testing.T) {
	registry := NewRegistry()
	a := &Client{id: "a"}
	b := &Client{id: "b"}
	registry.Register(1, a)
	registry.Register(2, b)

	clients := registry.LookupMany([]uint{1, 2, 3, 4})
	assert.Len(t, clients, 2)
	assert.Contains(t, clients, a)
	assert.Contains(t, clients, b)

	assert.Empty(t, registry.LookupMany(nil))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := uint(i % 10)
			client := &Client{id: fmt.Sprintf("c%d", i)}
			registry.Register(userID, client)
			registry.Lookup(userID)
			registry.LookupMany([]uint{userID, userID + 1})
			registry.Unregister(userID, client)
		}(i)
	}
	wg.Wait()
}
