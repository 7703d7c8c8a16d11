package vector

import (
	"sync"

	idxapi "github.com/embeddb/wordvec/index"
)

// indexCache holds per-table in-memory indexes keyed by table name and
// catalog generation. Build coordination uses a condition variable so that
// concurrent readers of the same table share one build instead of racing.
type indexCache struct {
	mu      sync.RWMutex
	byTable map[string]*cacheEntry
}

func newIndexCache() *indexCache {
	return &indexCache{byTable: make(map[string]*cacheEntry)}
}

func (c *indexCache) entry(name string) *cacheEntry {
	c.mu.RLock()
	e := c.byTable[name]
	c.mu.RUnlock()
	if e != nil {
		return e
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e = c.byTable[name]; e == nil {
		e = newCacheEntry()
		c.byTable[name] = e
	}
	return e
}

// set installs a freshly built index for the given generation.
func (c *indexCache) set(name string, generation int64, idx idxapi.Index) {
	c.entry(name).set(generation, idx)
}

// invalidate drops the cached index for a table, if any.
func (c *indexCache) invalidate(name string) {
	c.mu.Lock()
	delete(c.byTable, name)
	c.mu.Unlock()
}

type cacheEntry struct {
	mu         sync.Mutex
	cond       *sync.Cond
	building   bool
	generation int64
	idx        idxapi.Index
}

func newCacheEntry() *cacheEntry {
	e := &cacheEntry{}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// get returns the cached index when it matches the wanted generation.
func (e *cacheEntry) get(generation int64) idxapi.Index {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.idx == nil || e.generation != generation {
		return nil
	}
	return e.idx
}

func (e *cacheEntry) set(generation int64, idx idxapi.Index) {
	e.mu.Lock()
	e.generation = generation
	e.idx = idx
	e.mu.Unlock()
}

// startBuild claims the builder role; it returns false when another
// goroutine is already building.
func (e *cacheEntry) startBuild() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.building {
		return false
	}
	e.building = true
	return true
}

func (e *cacheEntry) finishBuild() {
	e.mu.Lock()
	e.building = false
	e.cond.Broadcast()
	e.mu.Unlock()
}

// waitForBuild blocks until the in-flight build completes. Callers re-check
// the entry afterwards; the finished build may be for a different generation.
func (e *cacheEntry) waitForBuild() {
	e.mu.Lock()
	for e.building {
		e.cond.Wait()
	}
	e.mu.Unlock()
}
