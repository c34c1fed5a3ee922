package database

import (
	"fmt"

	"github.com/fulldump/minipay/filter"
)

// FindAs is Find for collections whose factory builds T.
func FindAs[T Entity](db *Database, collection string, query filter.Filter) ([]T, error) {
	entities, err := db.Find(collection, query)
	if err != nil {
		return nil, err
	}
	return castAll[T](collection, entities)
}

// FindOneAs returns the first match, ok is false when nothing matched.
func FindOneAs[T Entity](db *Database, collection string, query filter.Filter) (result T, ok bool, err error) {
	entities, err := FindAs[T](db, collection, query)
	if err != nil || len(entities) == 0 {
		return result, false, err
	}
	return entities[0], true, nil
}

func InsertAs[T Entity](db *Database, collection string, entity T) (T, error) {
	var zero T
	inserted, err := db.Insert(collection, entity)
	if err != nil {
		return zero, err
	}
	return cast[T](collection, inserted)
}

func UpdateAs[T Entity](db *Database, collection string, query filter.Filter, fields Record) ([]T, error) {
	entities, err := db.Update(collection, query, fields)
	if err != nil {
		return nil, err
	}
	return castAll[T](collection, entities)
}

func cast[T Entity](collection string, entity Entity) (T, error) {
	t, ok := entity.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("collection '%s' holds %T, not %T", collection, entity, zero)
	}
	return t, nil
}

func castAll[T Entity](collection string, entities []Entity) ([]T, error) {
	result := make([]T, 0, len(entities))
	for _, entity := range entities {
		t, err := cast[T](collection, entity)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}
