package engine

import "sync"

// Cache is an injectable, process-wide handle to the most recently loaded
// artifact. It loads lazily on first use and is invalidated when a training
// run publishes a new bundle. The lock ensures concurrent cache misses
// deserialize the artifact once, and that readers never observe a
// half-replaced artifact across a retrain.
type Cache struct {
	store *Store

	mu       sync.RWMutex
	artifact *Artifact
}

// NewCache creates a Cache over the given store.
func NewCache(store *Store) *Cache {
	return &Cache{store: store}
}

// Store returns the underlying artifact store.
func (c *Cache) Store() *Store {
	return c.store
}

// Get returns the cached artifact, loading it from the store on a miss.
// Returns ErrModelNotTrained when no artifact has ever been saved.
func (c *Cache) Get() (*Artifact, error) {
	c.mu.RLock()
	artifact := c.artifact
	c.mu.RUnlock()

	if artifact != nil {
		return artifact, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.artifact != nil {
		return c.artifact, nil
	}

	artifact, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	c.artifact = artifact
	return artifact, nil
}

// Invalidate clears the cached artifact so the next Get observes the most
// recently published bundle.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.artifact = nil
	c.mu.Unlock()
}
