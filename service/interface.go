package service

import (
	"errors"

	"github.com/fulldump/minipay/database"
	"github.com/fulldump/minipay/filter"
)

var ErrorCollectionNotFound = errors.New("collection not found")
var ErrorDocumentNotFound = errors.New("document not found")

// Servicer is what the admin API needs from the store.
type Servicer interface {
	ListCollections() []database.CollectionInfo
	GetCollection(name string) (*database.CollectionInfo, error)
	Find(name string, query filter.Filter, skip, limit int) ([]database.Record, error)
	GetDocument(name string, id int) (database.Record, error)
	Remove(name string, query filter.Filter) (int, error)
	Status() string
}
