// Package answercache keeps the most recent question/answer pairs so repeated
// questions can be answered without another upstream completion request.
//
// Questions are keyed by Normalize, which case-folds the trimmed text and also
// collapses each run of inner whitespace to one space, so "what  is\tTCP" and
// "What is TCP" share an entry.
//
// Entries are evicted strictly in insertion order: neither lookups nor
// overwrites of an existing question change which entry goes next.
package answercache

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// ErrInvalidConfiguration is returned by New when the capacity is not positive.
var ErrInvalidConfiguration = errors.New("answer cache capacity must be positive")

// Entry is a cached answer.
type Entry struct {
	// Question is the normalized question text, see Normalize.
	Question  string
	Answer    string
	Requester string

	// Seq orders entries by insertion; the lowest Seq is evicted first.
	Seq        uint64
	InsertedAt time.Time
}

// Stats reports cache usage counters.
type Stats struct {
	Entries   int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is a fixed-capacity question to answer store, safe for concurrent use.
type Cache struct {
	mu       sync.RWMutex
	lru      *simplelru.LRU[string, *Entry]
	capacity int
	seq      uint64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64

	now func() time.Time
}

// New creates an empty cache holding at most capacity entries.
func New(capacity int) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConfiguration, capacity)
	}

	c := &Cache{
		capacity: capacity,
		now:      time.Now,
	}

	lru, err := simplelru.NewLRU[string, *Entry](capacity, c.onEvict)
	if err != nil {
		return nil, err
	}
	c.lru = lru

	return c, nil
}

func (c *Cache) onEvict(_ string, _ *Entry) {
	c.evictions.Add(1)
}

// Lookup returns the entry stored under the normalized form of question.
func (c *Cache) Lookup(question string) (Entry, bool) {
	key := Normalize(question)

	c.mu.RLock()
	e, ok := c.lru.Peek(key)
	var entry Entry
	if ok {
		entry = *e
	}
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return entry, ok
}

// Insert stores answer under the normalized form of question.
//
// An existing entry for the same question gets the new answer and requester
// but keeps its place in the eviction order. A new entry that pushes the
// cache over capacity evicts the oldest inserted entry.
func (c *Cache) Insert(question, answer, requester string) {
	key := Normalize(question)
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.lru.Peek(key); ok {
		e.Answer = answer
		e.Requester = requester
		return
	}

	c.seq++
	c.lru.Add(key, &Entry{
		Question:   key,
		Answer:     answer,
		Requester:  requester,
		Seq:        c.seq,
		InsertedAt: c.now(),
	})
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len()
}

// Capacity returns the maximum number of entries.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Entries returns a copy of all entries, oldest first.
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	keys := c.lru.Keys()
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		if e, ok := c.lru.Peek(k); ok {
			entries = append(entries, *e)
		}
	}
	c.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq })
	return entries
}

// Stats returns a snapshot of the usage counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries:   c.lru.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
