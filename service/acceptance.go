package service

import (
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
	"github.com/go-json-experiment/json"

	"github.com/fulldump/minipay/database"
)

type JSON = map[string]interface{}

type document database.Record

func (d document) ToDto() database.Record {
	return database.Record(d)
}

func newDocument(r database.Record) (database.Entity, error) {
	return document(r), nil
}

func rows(body string) []any {
	result := []any{}
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		if line == "" {
			continue
		}
		var row any
		json.Unmarshal([]byte(line), &row)
		result = append(result, row)
	}
	return result
}

// Acceptance runs the admin API suite. db must be initialized and empty.
func Acceptance(a *biff.A, db *database.Database, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("List collections - empty", func(a *biff.A) {
		resp := apiRequest("GET", "/collections").Do()
		Save(resp, "List collections - empty", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), []JSON{})
	})

	a.Alternative("Status", func(a *biff.A) {
		resp := apiRequest("GET", "/status").Do()
		Save(resp, "Status", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqual(resp.BodyJsonMap()["status"], database.StatusOperating)
	})

	a.Alternative("Get collection - not found", func(a *biff.A) {
		resp := apiRequest("GET", "/collections/fruits").Do()
		Save(resp, "Get collection - not found", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})

	a.Alternative("With fruits", func(a *biff.A) {

		db.RegisterEntityConstructor("fruits", newDocument)
		fruits := []JSON{
			{"name": "apple", "price": 1.2},
			{"name": "banana", "price": 0.5},
			{"name": "cherry", "price": 4},
		}
		for _, fruit := range fruits {
			_, err := db.Insert("fruits", document(fruit))
			biff.AssertNil(err)
		}

		a.Alternative("List collections", func(a *biff.A) {
			resp := apiRequest("GET", "/collections").Do()
			Save(resp, "List collections", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{
				{"name": "fruits", "total": 3},
			})
		})

		a.Alternative("Retrieve collection", func(a *biff.A) {
			resp := apiRequest("GET", "/collections/fruits").Do()
			Save(resp, "Retrieve collection", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"name": "fruits", "total": 3})
		})

		a.Alternative("Find - default limit", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/fruits:find").Do()
			Save(resp, "Find - default limit", `
				Without body only the first record is returned.
			`)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(rows(resp.BodyString()), []JSON{
				{"id": 1, "name": "apple", "price": 1.2},
			})
		})

		a.Alternative("Find - filter, skip and limit", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/fruits:find").
				WithBodyJson(JSON{
					"filter": JSON{"price": JSON{"$gte": 1}},
					"skip":   1,
					"limit":  10,
				}).Do()
			Save(resp, "Find - filter, skip and limit", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(rows(resp.BodyString()), []JSON{
				{"id": 3, "name": "cherry", "price": 4},
			})
		})

		a.Alternative("Find - $or", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/fruits:find").
				WithBodyJson(JSON{
					"filter": JSON{"$or": []JSON{{"name": "apple"}, {"name": "banana"}}},
					"limit":  -1,
				}).Do()
			Save(resp, "Find - or", ``)

			biff.AssertEqual(len(rows(resp.BodyString())), 2)
		})

		a.Alternative("Find - unsupported operator", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/fruits:find").
				WithBodyJson(JSON{
					"filter": JSON{"name": JSON{"$regex": "^a"}},
				}).Do()
			Save(resp, "Find - unsupported operator", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Find - malformed body", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/fruits:find").
				WithBodyString(`{"filter": `).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Get document", func(a *biff.A) {
			resp := apiRequest("GET", "/collections/fruits/2").Do()
			Save(resp, "Get document", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 2, "name": "banana", "price": 0.5})
		})

		a.Alternative("Get document - not found", func(a *biff.A) {
			resp := apiRequest("GET", "/collections/fruits/99").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("Get document - bad id", func(a *biff.A) {
			resp := apiRequest("GET", "/collections/fruits/abc").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Remove", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/fruits:remove").
				WithBodyJson(JSON{
					"filter": JSON{"name": "banana"},
				}).Do()
			Save(resp, "Remove", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"deleted": 1})

			resp = apiRequest("POST", "/collections/fruits:find").
				WithBodyJson(JSON{"limit": -1}).Do()
			biff.AssertEqualJson(rows(resp.BodyString()), []JSON{
				{"id": 1, "name": "apple", "price": 1.2},
				{"id": 3, "name": "cherry", "price": 4},
			})
		})
	})
}
