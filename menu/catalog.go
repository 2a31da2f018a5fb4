package menu

import (
	"fmt"
	"sort"
)

// Catalog is the read-only lookup an order consults for prices.
//
// Expected usage:
//
//	item, ok := cat.Lookup("cauliflower")
type Catalog interface {
	Lookup(key string) (Item, bool)
}

// MapCatalog is a simple in-memory catalog keyed by item key.
type MapCatalog struct {
	items map[string]Item
}

// NewMapCatalog returns an empty catalog.
func NewMapCatalog() *MapCatalog {
	return &MapCatalog{items: map[string]Item{}}
}

// Provide stores an item under its Key and returns the catalog for chaining.
// A later Provide with the same key replaces the earlier item.
func (c *MapCatalog) Provide(item Item) *MapCatalog {
	c.items[item.Key] = item
	return c
}

// Lookup implements Catalog.
func (c *MapCatalog) Lookup(key string) (Item, bool) {
	it, ok := c.items[key]
	return it, ok
}

// MustLookup returns the item or panics with a helpful message.
// Useful in examples/tests where a missing key should fail fast.
func (c *MapCatalog) MustLookup(key string) Item {
	it, ok := c.items[key]
	if !ok {
		panic(fmt.Errorf("menu: catalog missing key %q", key))
	}
	return it
}

// Len returns the number of items in the catalog.
func (c *MapCatalog) Len() int { return len(c.items) }

// Keys returns every item key in ascending order.
func (c *MapCatalog) Keys() []string {
	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ByType returns the items of one type ordered by key.
func (c *MapCatalog) ByType(t Type) []Item {
	var out []Item
	for _, k := range c.Keys() {
		if it := c.items[k]; it.Type == t {
			out = append(out, it)
		}
	}
	return out
}
