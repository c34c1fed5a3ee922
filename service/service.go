package service

import (
	"github.com/fulldump/minipay/database"
	"github.com/fulldump/minipay/filter"
)

type Service struct {
	db *database.Database
}

func NewService(db *database.Database) *Service {
	return &Service{
		db: db,
	}
}

func (s *Service) ListCollections() []database.CollectionInfo {
	return s.db.Collections()
}

func (s *Service) GetCollection(name string) (*database.CollectionInfo, error) {
	for _, info := range s.db.Collections() {
		if info.Name == name {
			return &info, nil
		}
	}
	return nil, ErrorCollectionNotFound
}

// Find returns the records matching query after skipping the first skip
// ones. A negative limit means no limit.
func (s *Service) Find(name string, query filter.Filter, skip, limit int) ([]database.Record, error) {

	_, err := s.GetCollection(name)
	if err != nil {
		return nil, err
	}

	records, err := s.db.FindRecords(name, query)
	if err != nil {
		return nil, err
	}

	result := []database.Record{}
	for _, record := range records {
		if limit == 0 {
			break
		}
		if skip > 0 {
			skip--
			continue
		}
		limit--
		result = append(result, record)
	}

	return result, nil
}

func (s *Service) GetDocument(name string, id int) (database.Record, error) {

	records, err := s.Find(name, filter.Filter{"id": id}, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrorDocumentNotFound
	}

	return records[0], nil
}

func (s *Service) Remove(name string, query filter.Filter) (int, error) {

	_, err := s.GetCollection(name)
	if err != nil {
		return 0, err
	}

	return s.db.Delete(name, query)
}

func (s *Service) Status() string {
	return s.db.GetStatus()
}
