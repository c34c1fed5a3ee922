package database

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/minipay/metrics"
)

var errSnapshotNotFound = errors.New("snapshot not found")

// snapshot is the on-disk format:
//
//	{"data": {"users": [{"id": 1, ...}]}, "idCounters": {"users": 2}}
type snapshot struct {
	Data       map[string][]Record `json:"data"`
	IdCounters map[string]int      `json:"idCounters"`
}

func newSnapshot() *snapshot {
	return &snapshot{
		Data:       map[string][]Record{},
		IdCounters: map[string]int{},
	}
}

func readSnapshot(filename string) (*snapshot, error) {

	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	s := &snapshot{}
	err = json.Unmarshal(data, s)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if s.Data == nil {
		s.Data = map[string][]Record{}
	}
	if s.IdCounters == nil {
		s.IdCounters = map[string]int{}
	}

	return s, nil
}

func writeSnapshot(filename string, s *snapshot) error {

	data, err := json.Marshal(s, json.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := filename + ".tmp"
	err = os.WriteFile(tmp, data, 0666)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	err = os.Rename(tmp, filename)
	if err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}

	return nil
}

// persist rewrites the whole snapshot. Callers hold writeMutex, so the state
// can only change under us through readers, which do not mutate.
func (db *Database) persist() error {

	db.dataMutex.RLock()
	s := &snapshot{
		Data:       make(map[string][]Record, len(db.collections)),
		IdCounters: make(map[string]int, len(db.idCounters)),
	}
	for name, col := range db.collections {
		s.Data[name] = col.records
	}
	for name, next := range db.idCounters {
		s.IdCounters[name] = next
	}
	err := writeSnapshot(db.config.Path, s)
	db.dataMutex.RUnlock()

	metrics.ObserveSnapshotWrite(err)
	if err != nil {
		return err
	}

	db.logger.WithField("path", filepath.Clean(db.config.Path)).Debug("Database saved successfully.")
	return nil
}
