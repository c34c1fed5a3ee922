package database

import (
	"fmt"
	"time"

	"github.com/fulldump/minipay/filter"
	"github.com/fulldump/minipay/metrics"
	"github.com/fulldump/minipay/mutex"
	"github.com/fulldump/minipay/utils"
)

// Find returns the entities of a collection accepted by the filter, in
// insertion order. An unknown collection yields no entities and no error.
func (db *Database) Find(collection string, query filter.Filter) (entities []Entity, err error) {

	started := time.Now()
	defer func() {
		metrics.ObserveStoreOperation(collection, "find", started, err)
	}()

	records, err := db.FindRecords(collection, query)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []Entity{}, nil
	}

	factory, err := db.factory(collection)
	if err != nil {
		db.logger.WithError(err).Errorf("Failed to find items in %s", collection)
		return nil, err
	}

	return hydrate(factory, collection, records)
}

// FindRecords is Find without hydration. Records are copies, callers may
// keep or modify them.
func (db *Database) FindRecords(collection string, query filter.Filter) ([]Record, error) {

	db.EnsureInitialized()

	p, err := filter.Compile(query)
	if err != nil {
		db.logger.WithError(err).Errorf("Failed to find items in %s", collection)
		return nil, err
	}

	db.dataMutex.RLock()
	records := cloneRecords(db.collections[collection].match(query, p))
	db.dataMutex.RUnlock()

	db.logger.Debugf("Found %d items in %s matching query.", len(records), collection)

	return records, nil
}

// Insert assigns the next id of the collection to the entity, stores it and
// persists the snapshot. The returned entity carries the assigned id.
func (db *Database) Insert(collection string, entity Entity) (inserted Entity, err error) {

	started := time.Now()
	defer func() {
		metrics.ObserveStoreOperation(collection, "insert", started, err)
	}()

	db.EnsureInitialized()

	return mutex.Exclusive(&db.writeMutex, func() (Entity, error) {

		if db.GetStatus() == StatusClosing {
			return nil, ErrDatabaseClosed
		}

		factory, err := db.factory(collection)
		if err != nil {
			return nil, err
		}

		record, err := utils.ToMap(entity.ToDto())
		if err != nil {
			return nil, fmt.Errorf("serialize '%s' entity: %w", collection, err)
		}

		db.dataMutex.Lock()
		col, exists := db.collections[collection]
		if !exists {
			col, _ = newCollection(nil)
			db.collections[collection] = col
		}
		if _, exists := db.idCounters[collection]; !exists {
			db.idCounters[collection] = col.maxID() + 1
		}
		id := db.idCounters[collection]
		db.idCounters[collection]++
		record["id"] = float64(id)
		col.append(record)
		stored := cloneRecord(record)
		db.dataMutex.Unlock()

		db.save(collection, "insert")

		db.logger.Debugf("Inserted item with ID %d into %s.", id, collection)

		return factory(stored)
	})
}

// Update merges fields into every record accepted by the filter, persists
// the snapshot and returns the updated entities.
func (db *Database) Update(collection string, query filter.Filter, fields Record) (updated []Entity, err error) {

	started := time.Now()
	defer func() {
		metrics.ObserveStoreOperation(collection, "update", started, err)
	}()

	db.EnsureInitialized()

	p, err := filter.Compile(query)
	if err != nil {
		return nil, err
	}

	changes, err := utils.ToMap(fields)
	if err != nil {
		return nil, fmt.Errorf("serialize '%s' update: %w", collection, err)
	}

	return mutex.Exclusive(&db.writeMutex, func() ([]Entity, error) {

		if db.GetStatus() == StatusClosing {
			return nil, ErrDatabaseClosed
		}

		db.dataMutex.Lock()
		col := db.collections[collection]
		matches := col.match(query, p)

		var factory EntityFactory
		if len(matches) > 0 {
			factory, err = db.factory(collection)
			if err != nil {
				db.dataMutex.Unlock()
				return nil, err
			}
		}

		for _, record := range matches {
			col.unindex(record)
			for k, v := range changes {
				record[k] = cloneValue(v)
			}
			col.index(record)
		}
		records := cloneRecords(matches)
		db.dataMutex.Unlock()

		db.save(collection, "update")

		db.logger.Debugf("Updated %d items in %s.", len(records), collection)

		if len(records) == 0 {
			return []Entity{}, nil
		}
		return hydrate(factory, collection, records)
	})
}

// Delete removes every record accepted by the filter, persists the snapshot
// and returns how many records were removed.
func (db *Database) Delete(collection string, query filter.Filter) (deleted int, err error) {

	started := time.Now()
	defer func() {
		metrics.ObserveStoreOperation(collection, "delete", started, err)
	}()

	db.EnsureInitialized()

	p, err := filter.Compile(query)
	if err != nil {
		return 0, err
	}

	return mutex.Exclusive(&db.writeMutex, func() (int, error) {

		if db.GetStatus() == StatusClosing {
			return 0, ErrDatabaseClosed
		}

		deleted := 0
		db.dataMutex.Lock()
		if col, exists := db.collections[collection]; exists {
			deleted = col.remove(p)
		}
		db.dataMutex.Unlock()

		db.save(collection, "delete")

		db.logger.Debugf("Deleted %d items from %s.", deleted, collection)

		return deleted, nil
	})
}

// save persists after a mutation. A failure leaves the mutation applied in
// memory but not on disk until the next successful save.
func (db *Database) save(collection, operation string) {
	err := db.persist()
	if err != nil {
		db.logger.WithError(err).
			WithField("collection", collection).
			WithField("operation", operation).
			Error("Failed to save database")
	}
}
