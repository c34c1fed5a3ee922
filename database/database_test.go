package database

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	. "github.com/fulldump/biff"

	"github.com/fulldump/minipay/filter"
)

func Environment(t *testing.T, f func(filename string)) {
	f(filepath.Join(t.TempDir(), "database.json"))
}

type Item struct {
	Id    int
	Name  string
	Price float64
}

func (i *Item) ToDto() Record {
	r := Record{"name": i.Name, "price": i.Price}
	if i.Id != 0 {
		r["id"] = i.Id
	}
	return r
}

func NewItemFromDto(r Record) (Entity, error) {
	return &Item{
		Id:    Int(r, "id"),
		Name:  String(r, "name"),
		Price: Float(r, "price"),
	}, nil
}

func openItems(filename string) *Database {
	db := NewDatabase(&Config{Path: filename})
	db.RegisterEntityConstructor("items", NewItemFromDto)
	return db
}

func TestDatabase(t *testing.T) {
	Alternative("Database", func(a *A) {

		filename := filepath.Join(t.TempDir(), "database.json")
		db := openItems(filename)

		a.Alternative("Initialize creates an empty snapshot", func(a *A) {
			db.EnsureInitialized()
			AssertEqual(db.GetStatus(), StatusOperating)

			s, err := readSnapshot(filename)
			AssertNil(err)
			AssertEqual(len(s.Data), 0)
			AssertEqual(len(s.IdCounters), 0)
		})

		a.Alternative("Insert assigns consecutive ids", func(a *A) {
			first, err := InsertAs(db, "items", &Item{Name: "pen", Price: 1.5})
			AssertNil(err)
			AssertEqual(first.Id, 1)

			second, err := InsertAs(db, "items", &Item{Name: "book", Price: 12})
			AssertNil(err)
			AssertEqual(second.Id, 2)

			a.Alternative("Reload returns the same records", func(a *A) {
				reloaded := openItems(filename)
				items, err := FindAs[*Item](reloaded, "items", nil)
				AssertNil(err)
				AssertEqual(len(items), 2)
				AssertEqual(*items[0], Item{Id: 1, Name: "pen", Price: 1.5})
				AssertEqual(*items[1], Item{Id: 2, Name: "book", Price: 12})

				third, err := InsertAs(reloaded, "items", &Item{Name: "lamp"})
				AssertNil(err)
				AssertEqual(third.Id, 3)
			})

			a.Alternative("Find by id", func(a *A) {
				item, ok, err := FindOneAs[*Item](db, "items", filter.Filter{"id": 2})
				AssertNil(err)
				AssertTrue(ok)
				AssertEqual(item.Name, "book")
			})

			a.Alternative("Find with operators", func(a *A) {
				items, err := FindAs[*Item](db, "items", filter.Filter{"price": filter.Filter{"$gt": 2}})
				AssertNil(err)
				AssertEqual(len(items), 1)
				AssertEqual(items[0].Name, "book")
			})

			a.Alternative("Update then find", func(a *A) {
				updated, err := UpdateAs[*Item](db, "items", filter.Filter{"id": 1}, Record{"price": 2})
				AssertNil(err)
				AssertEqual(len(updated), 1)
				AssertEqual(updated[0].Price, 2.0)

				item, _, _ := FindOneAs[*Item](db, "items", filter.Filter{"id": 1})
				AssertEqual(item.Price, 2.0)
				AssertEqual(item.Name, "pen")
			})

			a.Alternative("Update without matches", func(a *A) {
				updated, err := db.Update("items", filter.Filter{"name": "nothing"}, Record{"price": 2})
				AssertNil(err)
				AssertEqual(len(updated), 0)
			})

			a.Alternative("Delete then find", func(a *A) {
				deleted, err := db.Delete("items", filter.Filter{"id": 1})
				AssertNil(err)
				AssertEqual(deleted, 1)

				items, err := db.Find("items", filter.Filter{"id": 1})
				AssertNil(err)
				AssertEqual(len(items), 0)

				a.Alternative("Ids are not reused", func(a *A) {
					item, err := InsertAs(db, "items", &Item{Name: "cup"})
					AssertNil(err)
					AssertEqual(item.Id, 3)
				})
			})

			a.Alternative("Returned records are copies", func(a *A) {
				records, err := db.FindRecords("items", filter.Filter{"id": 1})
				AssertNil(err)
				records[0]["name"] = "changed"

				item, _, _ := FindOneAs[*Item](db, "items", filter.Filter{"id": 1})
				AssertEqual(item.Name, "pen")
			})

			a.Alternative("Collections", func(a *A) {
				AssertEqual(db.Collections(), []CollectionInfo{{Name: "items", Total: 2}})
			})
		})

		a.Alternative("Find on an unknown collection", func(a *A) {
			entities, err := db.Find("ghosts", filter.Filter{"name": "x"})
			AssertNil(err)
			AssertEqual(len(entities), 0)
		})

		a.Alternative("Delete on an unknown collection", func(a *A) {
			deleted, err := db.Delete("ghosts", nil)
			AssertNil(err)
			AssertEqual(deleted, 0)
			AssertEqual(len(db.Collections()), 0)
		})

		a.Alternative("Insert without constructor", func(a *A) {
			_, err := db.Insert("others", &Item{Name: "x"})
			AssertTrue(errors.Is(err, ErrMissingEntityConstructor))
		})

		a.Alternative("Unsupported operator", func(a *A) {
			_, err := db.Find("items", filter.Filter{"name": filter.Filter{"$bogus": 1}})
			AssertTrue(errors.Is(err, filter.ErrUnsupportedOperator))
		})

		a.Alternative("Stop rejects mutations", func(a *A) {
			AssertNil(db.Stop())
			_, err := db.Insert("items", &Item{Name: "x"})
			AssertEqual(err, ErrDatabaseClosed)
		})
	})
}

func TestDatabase_MissingConstructorOnFind(t *testing.T) {
	Environment(t, func(filename string) {

		os.WriteFile(filename, []byte(`{"data":{"things":[{"id":1}]},"idCounters":{"things":2}}`), 0666)

		db := NewDatabase(&Config{Path: filename})
		_, err := db.Find("things", nil)
		AssertTrue(errors.Is(err, ErrMissingEntityConstructor))

		records, err := db.FindRecords("things", nil)
		AssertNil(err)
		AssertEqual(records, []Record{{"id": 1.0}})
	})
}

func TestDatabase_CorruptSnapshot(t *testing.T) {
	Environment(t, func(filename string) {

		os.WriteFile(filename, []byte(`{"data": [`), 0666)

		db := openItems(filename)
		item, err := InsertAs(db, "items", &Item{Name: "pen"})
		AssertNil(err)
		AssertEqual(item.Id, 1)
		AssertEqual(db.GetStatus(), StatusOperating)
	})
}

func TestDatabase_MissingIdCounters(t *testing.T) {
	Environment(t, func(filename string) {

		os.WriteFile(filename, []byte(`{"data":{"items":[{"id":4,"name":"a"},{"id":7,"name":"b"}]}}`), 0666)

		db := openItems(filename)
		item, err := InsertAs(db, "items", &Item{Name: "c"})
		AssertNil(err)
		AssertEqual(item.Id, 8)
	})
}

func TestDatabase_ConcurrentInserts(t *testing.T) {
	Environment(t, func(filename string) {

		db := openItems(filename)

		n := 50
		ids := make(chan int, n)
		wg := &sync.WaitGroup{}
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				item, err := InsertAs(db, "items", &Item{Name: "x"})
				if err == nil {
					ids <- item.Id
				}
			}()
		}
		wg.Wait()
		close(ids)

		seen := map[int]bool{}
		for id := range ids {
			seen[id] = true
		}
		AssertEqual(len(seen), n)

		reloaded := openItems(filename)
		items, err := reloaded.Find("items", nil)
		AssertNil(err)
		AssertEqual(len(items), n)
	})
}

func TestDatabase_DuplicatedIds(t *testing.T) {
	Alternative("Duplicated ids", func(a *A) {

		filename := filepath.Join(t.TempDir(), "database.json")

		a.Alternative("Loaded from the snapshot", func(a *A) {
			os.WriteFile(filename, []byte(`{"data":{"items":[{"id":1,"name":"a"},{"id":1,"name":"b"},{"id":2,"name":"c"}]},"idCounters":{"items":3}}`), 0666)
			db := openItems(filename)

			byId, err := db.FindRecords("items", filter.Filter{"id": 1})
			AssertNil(err)
			byEq, err := db.FindRecords("items", filter.Filter{"id": filter.Filter{"$eq": 1}})
			AssertNil(err)
			AssertEqual(byId, byEq)
			AssertEqual(byId, []Record{{"id": 1.0, "name": "a"}, {"id": 1.0, "name": "b"}})

			updated, err := db.Update("items", filter.Filter{"id": 1}, Record{"price": 3})
			AssertNil(err)
			AssertEqual(len(updated), 2)

			a.Alternative("Delete removes the same records", func(a *A) {
				deleted, err := db.Delete("items", filter.Filter{"id": 1})
				AssertNil(err)
				AssertEqual(deleted, len(byId))

				records, _ := db.FindRecords("items", nil)
				AssertEqual(records, []Record{{"id": 2.0, "name": "c"}})
			})

			a.Alternative("Unique again after removing one", func(a *A) {
				deleted, err := db.Delete("items", filter.Filter{"name": "a"})
				AssertNil(err)
				AssertEqual(deleted, 1)

				records, _ := db.FindRecords("items", filter.Filter{"id": 1})
				AssertEqual(records, []Record{{"id": 1.0, "name": "b", "price": 3.0}})
			})
		})

		a.Alternative("Produced by an update", func(a *A) {
			db := openItems(filename)
			InsertAs(db, "items", &Item{Name: "a"})
			InsertAs(db, "items", &Item{Name: "b"})

			_, err := db.Update("items", filter.Filter{"id": 2}, Record{"id": 1})
			AssertNil(err)

			records, err := db.FindRecords("items", filter.Filter{"id": 1})
			AssertNil(err)
			AssertEqual(len(records), 2)
			AssertEqual(records[0]["name"], "a")
			AssertEqual(records[1]["name"], "b")

			records, _ = db.FindRecords("items", filter.Filter{"id": 2})
			AssertEqual(len(records), 0)

			a.Alternative("Moved back", func(a *A) {
				_, err := db.Update("items", filter.Filter{"name": "b"}, Record{"id": 2})
				AssertNil(err)

				records, _ := db.FindRecords("items", filter.Filter{"id": 1})
				AssertEqual(len(records), 1)
				AssertEqual(records[0]["name"], "a")

				records, _ = db.FindRecords("items", filter.Filter{"id": 2})
				AssertEqual(len(records), 1)
				AssertEqual(records[0]["name"], "b")
			})
		})
	})
}

func TestDatabase_SnapshotWriteFailure(t *testing.T) {
	Environment(t, func(filename string) {

		db := openItems(filename)
		_, err := InsertAs(db, "items", &Item{Name: "pen"})
		AssertNil(err)

		// a directory where the temporary snapshot goes makes every write fail
		blocker := filename + ".tmp"
		AssertNil(os.Mkdir(blocker, 0777))

		book, err := InsertAs(db, "items", &Item{Name: "book"})
		AssertNil(err)
		AssertEqual(book.Id, 2)

		items, err := FindAs[*Item](db, "items", nil)
		AssertNil(err)
		AssertEqual(len(items), 2)

		s, err := readSnapshot(filename)
		AssertNil(err)
		AssertEqual(len(s.Data["items"]), 1)

		AssertNil(os.Remove(blocker))

		_, err = InsertAs(db, "items", &Item{Name: "lamp"})
		AssertNil(err)

		s, err = readSnapshot(filename)
		AssertNil(err)
		AssertEqual(len(s.Data["items"]), 3)
		AssertEqual(s.IdCounters["items"], 4)

		reloaded := openItems(filename)
		names := []string{}
		all, _ := FindAs[*Item](reloaded, "items", nil)
		for _, item := range all {
			names = append(names, item.Name)
		}
		AssertEqual(names, []string{"pen", "book", "lamp"})
	})
}
