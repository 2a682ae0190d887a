// Copyright 2026 Alexander Alten (novatechflow), NovaTechflow (novatechflow.com).
// This project is supported and financed by Scalytics, Inc. (www.scalytics.io).
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package multi

import (
	"container/list"
	"sync"

	"github.com/novatechflow/kafscale-segdump/pkg/dump/txninfo"
)

// SummaryCache is an LRU cache of computed txninfo.Summary results, keyed
// by segment file path. A multi-segment scan over the same directory tree
// more than once (e.g. an interactive -tui session re-rendering after a
// filter change) can skip re-parsing segments it has already summarized.
type SummaryCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

type cacheEntry struct {
	path    string
	summary *txninfo.Summary
}

// NewSummaryCache creates a cache holding at most capacity entries.
func NewSummaryCache(capacity int) *SummaryCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &SummaryCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns the cached summary for path, if present.
func (c *SummaryCache) Get(path string) (*txninfo.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[path]; ok {
		c.ll.MoveToFront(elem)
		return elem.Value.(*cacheEntry).summary, true
	}
	return nil, false
}

// Set stores or refreshes the cached summary for path, evicting the least
// recently used entry if the cache is over capacity.
func (c *SummaryCache) Set(path string, summary *txninfo.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[path]; ok {
		elem.Value.(*cacheEntry).summary = summary
		c.ll.MoveToFront(elem)
		return
	}
	elem := c.ll.PushFront(&cacheEntry{path: path, summary: summary})
	c.items[path] = elem
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		delete(c.items, oldest.Value.(*cacheEntry).path)
		c.ll.Remove(oldest)
	}
}
