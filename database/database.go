package database

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fulldump/minipay/logging"
	"github.com/fulldump/minipay/mutex"
	"github.com/fulldump/minipay/utils"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

const DefaultPath = "./database.json"

var ErrDatabaseClosed = errors.New("database is closed")

type Config struct {
	Path string
}

// Database is a set of named collections mirrored to a single snapshot file.
//
// Mutations (Insert, Update, Delete) are serialized by a FIFO mutex that is
// held until the snapshot has been rewritten. Reads never take that mutex and
// may observe the state before or after a concurrent mutation.
type Database struct {
	config *Config
	logger *logrus.Entry

	initOnce   sync.Once
	writeMutex mutex.Mutex

	// dataMutex guards the fields below, it is only held for in-memory work
	dataMutex   sync.RWMutex
	status      string
	collections map[string]*collection
	idCounters  map[string]int

	factoriesMutex sync.RWMutex
	factories      map[string]EntityFactory
}

func NewDatabase(config *Config) *Database {

	if config == nil {
		config = &Config{}
	}
	if config.Path == "" {
		config.Path = DefaultPath
	}

	return &Database{
		config:      config,
		logger:      logging.New("Database"),
		status:      StatusOpening,
		collections: map[string]*collection{},
		idCounters:  map[string]int{},
		factories:   map[string]EntityFactory{},
	}
}

func (db *Database) GetStatus() string {
	db.dataMutex.RLock()
	defer db.dataMutex.RUnlock()
	return db.status
}

func (db *Database) setStatus(status string) {
	db.dataMutex.Lock()
	db.status = status
	db.dataMutex.Unlock()
}

// EnsureInitialized loads the snapshot the first time it is called. Every
// concurrent caller blocks until that single load has finished. It never
// fails: an unreadable snapshot is logged and replaced by an empty state.
func (db *Database) EnsureInitialized() {
	db.initOnce.Do(db.load)
}

func (db *Database) load() {

	t0 := time.Now()

	s, err := readSnapshot(db.config.Path)
	if errors.Is(err, errSnapshotNotFound) {
		db.logger.Debug("Database file does not exist. Initializing with empty data.")
		db.adopt(newSnapshot())
		err = db.persist()
		if err != nil {
			db.logger.WithError(err).Error("Failed to save database")
		}
		db.setStatus(StatusOperating)
		return
	}
	if err != nil {
		db.logger.WithError(err).Error("Failed to load database")
		s = newSnapshot()
	}

	db.adopt(s)
	db.setStatus(StatusOperating)

	db.logger.WithField("path", db.config.Path).
		WithField("collections", len(s.Data)).
		WithField("elapsed", time.Since(t0).String()).
		Debug("Database loaded successfully.")
}

func (db *Database) adopt(s *snapshot) {

	db.dataMutex.Lock()
	defer db.dataMutex.Unlock()

	db.collections = make(map[string]*collection, len(s.Data))
	db.idCounters = make(map[string]int, len(s.IdCounters))
	for name, next := range s.IdCounters {
		db.idCounters[name] = next
	}

	for name, records := range s.Data {
		col, duplicated := newCollection(records)
		for _, id := range duplicated {
			db.logger.WithField("collection", name).WithField("id", id).Warn("Duplicated id in snapshot")
		}
		db.collections[name] = col
		if _, exists := db.idCounters[name]; !exists {
			db.idCounters[name] = col.maxID() + 1
		}
	}
}

// Stop waits for the in-flight mutation, if any, and rejects the next ones.
func (db *Database) Stop() error {
	db.EnsureInitialized()
	return db.writeMutex.RunExclusive(func() error {
		db.setStatus(StatusClosing)
		return nil
	})
}

type CollectionInfo struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// Collections lists the existing collections sorted by name.
func (db *Database) Collections() []CollectionInfo {

	db.EnsureInitialized()

	db.dataMutex.RLock()
	defer db.dataMutex.RUnlock()

	result := []CollectionInfo{}
	for _, name := range utils.GetKeys(db.collections) {
		result = append(result, CollectionInfo{
			Name:  name,
			Total: len(db.collections[name].records),
		})
	}

	return result
}
