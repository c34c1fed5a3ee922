package database

import (
	"errors"
	"fmt"
)

// Record is the stored form of an entity: a JSON object holding only JSON
// native values (float64, string, bool, nil, []any and map[string]any).
type Record = map[string]any

// Entity is anything that can be stored. The store only interprets the "id"
// field of the record produced by ToDto, assigning it on insert.
type Entity interface {
	ToDto() Record
}

// EntityFactory builds a typed entity back from its record.
type EntityFactory func(Record) (Entity, error)

var ErrMissingEntityConstructor = errors.New("no constructor registered for collection")

// RegisterEntityConstructor binds a factory to a collection. Do it before
// touching the collection.
func (db *Database) RegisterEntityConstructor(collection string, factory EntityFactory) {
	db.factoriesMutex.Lock()
	db.factories[collection] = factory
	db.factoriesMutex.Unlock()
}

func (db *Database) factory(collection string) (EntityFactory, error) {
	db.factoriesMutex.RLock()
	f, exists := db.factories[collection]
	db.factoriesMutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntityConstructor, collection)
	}
	return f, nil
}

func hydrate(factory EntityFactory, collection string, records []Record) ([]Entity, error) {
	entities := make([]Entity, 0, len(records))
	for _, record := range records {
		entity, err := factory(record)
		if err != nil {
			return nil, fmt.Errorf("hydrate '%s' entity: %w", collection, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// Int reads a numeric field of a record, zero if missing.
func Int(r Record, field string) int {
	id, _ := toID(r[field])
	return id
}

// Float reads a numeric field of a record, zero if missing.
func Float(r Record, field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// String reads a string field of a record, empty if missing.
func String(r Record, field string) string {
	s, _ := r[field].(string)
	return s
}

func cloneRecord(r Record) Record {
	return cloneValue(r).(map[string]any)
}

func cloneRecords(records []Record) []Record {
	result := make([]Record, len(records))
	for i, r := range records {
		result[i] = cloneRecord(r)
	}
	return result
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		cloned := make(map[string]any, len(v))
		for k, item := range v {
			cloned[k] = cloneValue(item)
		}
		return cloned
	case []any:
		cloned := make([]any, len(v))
		for i, item := range v {
			cloned[i] = cloneValue(item)
		}
		return cloned
	default:
		return v
	}
}
