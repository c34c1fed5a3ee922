package database

import (
	"math"
	"reflect"

	"github.com/google/btree"

	"github.com/fulldump/minipay/filter"
)

// idEntry holds every record carrying id, more than one only when ids were
// duplicated by hand or by an update.
type idEntry struct {
	id      int
	records []Record
}

// collection keeps records in insertion order plus an index by id.
type collection struct {
	records []Record
	ids     *btree.BTreeG[idEntry]
}

func newCollection(records []Record) (c *collection, duplicated []int) {

	c = &collection{
		records: make([]Record, 0, len(records)),
		ids: btree.NewG(32, func(a, b idEntry) bool {
			return a.id < b.id
		}),
	}

	for _, record := range records {
		if record == nil {
			continue
		}
		if id, ok := recordID(record); ok {
			if _, exists := c.ids.Get(idEntry{id: id}); exists {
				duplicated = append(duplicated, id)
			}
		}
		c.append(record)
	}

	return c, duplicated
}

func (c *collection) append(record Record) {
	c.records = append(c.records, record)
	c.index(record)
}

func (c *collection) index(record Record) {
	id, ok := recordID(record)
	if !ok {
		return
	}
	entry, _ := c.ids.Get(idEntry{id: id})
	entry.id = id
	entry.records = append(entry.records, record)
	c.ids.ReplaceOrInsert(entry)
}

func (c *collection) unindex(record Record) {
	id, ok := recordID(record)
	if !ok {
		return
	}
	entry, exists := c.ids.Get(idEntry{id: id})
	if !exists {
		return
	}
	kept := make([]Record, 0, len(entry.records))
	for _, indexed := range entry.records {
		if !sameRecord(indexed, record) {
			kept = append(kept, indexed)
		}
	}
	if len(kept) == 0 {
		c.ids.Delete(entry)
		return
	}
	entry.records = kept
	c.ids.ReplaceOrInsert(entry)
}

func (c *collection) maxID() int {
	entry, ok := c.ids.Max()
	if !ok {
		return 0
	}
	return entry.id
}

// match returns the records accepted by p, in collection order. Filters of
// the exact form {"id": <integer>} are answered by the id index unless that
// id is shared by several records.
func (c *collection) match(f filter.Filter, p filter.Predicate) []Record {

	if c == nil {
		return nil
	}

	if id, ok := idLookup(f); ok {
		entry, exists := c.ids.Get(idEntry{id: id})
		if !exists {
			return nil
		}
		if len(entry.records) == 1 {
			return []Record{entry.records[0]}
		}
	}

	result := []Record{}
	for _, record := range c.records {
		if p(record) {
			result = append(result, record)
		}
	}
	return result
}

// remove drops every record accepted by p and returns how many were removed.
func (c *collection) remove(p filter.Predicate) int {

	kept := c.records[:0]
	removed := 0
	for _, record := range c.records {
		if p(record) {
			c.unindex(record)
			removed++
			continue
		}
		kept = append(kept, record)
	}

	for i := len(kept); i < len(c.records); i++ {
		c.records[i] = nil
	}
	c.records = kept

	return removed
}

func idLookup(f filter.Filter) (int, bool) {
	if len(f) != 1 {
		return 0, false
	}
	value, exists := f["id"]
	if !exists {
		return 0, false
	}
	return toID(value)
}

func recordID(record Record) (int, bool) {
	return toID(record["id"])
}

func toID(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}

func sameRecord(a, b Record) bool {
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}
