package filter

import (
	"errors"
	"testing"

	"github.com/fulldump/biff"
)

func mustCompile(f Filter) Predicate {
	p, err := Compile(f)
	if err != nil {
		panic(err)
	}
	return p
}

func TestCompile_Empty(t *testing.T) {

	record := map[string]any{"age": 25.0}

	biff.AssertTrue(mustCompile(nil)(record))
	biff.AssertTrue(mustCompile(Filter{})(record))
	biff.AssertTrue(mustCompile(nil)(map[string]any{}))
}

func TestCompile_Equality(t *testing.T) {

	biff.Alternative("Equality", func(a *biff.A) {

		a.Alternative("$eq", func(a *biff.A) {
			p := mustCompile(Filter{"age": Filter{"$eq": 25}})
			biff.AssertTrue(p(map[string]any{"age": 25.0}))
			biff.AssertFalse(p(map[string]any{"age": 26.0}))
			biff.AssertFalse(p(map[string]any{}))
		})

		a.Alternative("Literal", func(a *biff.A) {
			p := mustCompile(Filter{"name": "John"})
			biff.AssertTrue(p(map[string]any{"name": "John", "age": 30.0}))
			biff.AssertFalse(p(map[string]any{"name": "Jane"}))
		})

		a.Alternative("Literal number with int record", func(a *biff.A) {
			p := mustCompile(Filter{"id": 1.0})
			biff.AssertTrue(p(map[string]any{"id": 1}))
		})

		a.Alternative("Literal nil does not match missing field", func(a *biff.A) {
			p := mustCompile(Filter{"deleted": nil})
			biff.AssertTrue(p(map[string]any{"deleted": nil}))
			biff.AssertFalse(p(map[string]any{}))
		})

		a.Alternative("$ne", func(a *biff.A) {
			p := mustCompile(Filter{"age": Filter{"$ne": 25}})
			biff.AssertFalse(p(map[string]any{"age": 25.0}))
			biff.AssertTrue(p(map[string]any{"age": 26.0}))
			biff.AssertTrue(p(map[string]any{}))
		})

		a.Alternative("Implicit conjunction", func(a *biff.A) {
			p := mustCompile(Filter{"name": "John", "age": 25})
			biff.AssertTrue(p(map[string]any{"name": "John", "age": 25.0}))
			biff.AssertFalse(p(map[string]any{"name": "John", "age": 26.0}))
		})
	})
}

func TestCompile_Ordering(t *testing.T) {

	record := map[string]any{"age": 25.0, "name": "John"}

	cases := []struct {
		filter   Filter
		expected bool
	}{
		{Filter{"age": Filter{"$gt": 24}}, true},
		{Filter{"age": Filter{"$gt": 25}}, false},
		{Filter{"age": Filter{"$gte": 25}}, true},
		{Filter{"age": Filter{"$lt": 25}}, false},
		{Filter{"age": Filter{"$lt": 30.5}}, true},
		{Filter{"age": Filter{"$lte": 25}}, true},
		{Filter{"age": Filter{"$gte": 18, "$lt": 65}}, true},
		{Filter{"age": Filter{"$gte": 30, "$lt": 65}}, false},
		{Filter{"name": Filter{"$gt": "Jane"}}, true},
		{Filter{"name": Filter{"$lt": "Jane"}}, false},
		{Filter{"age": Filter{"$gt": "10"}}, false},
		{Filter{"missing": Filter{"$lt": 100}}, false},
	}

	for _, c := range cases {
		biff.AssertEqual(mustCompile(c.filter)(record), c.expected)
	}
}

func TestCompile_Membership(t *testing.T) {

	record := map[string]any{"type": "payer"}

	biff.AssertTrue(mustCompile(Filter{"type": Filter{"$in": []string{"payer", "payee"}}})(record))
	biff.AssertFalse(mustCompile(Filter{"type": Filter{"$in": []any{"payee"}}})(record))
	biff.AssertFalse(mustCompile(Filter{"type": Filter{"$in": "payer"}})(record))
	biff.AssertTrue(mustCompile(Filter{"type": Filter{"$nin": []any{"payee"}}})(record))
	biff.AssertFalse(mustCompile(Filter{"type": Filter{"$nin": []any{"payer"}}})(record))
	biff.AssertFalse(mustCompile(Filter{"type": Filter{"$nin": "payee"}})(record))
	biff.AssertTrue(mustCompile(Filter{"id": Filter{"$in": []int{1, 2}}})(map[string]any{"id": 2.0}))
}

func TestCompile_Logical(t *testing.T) {

	biff.Alternative("Logical", func(a *biff.A) {

		a.Alternative("$or", func(a *biff.A) {
			p := mustCompile(Filter{"$or": []Filter{
				{"age": Filter{"$eq": 30}},
				{"name": Filter{"$eq": "John"}},
			}})
			biff.AssertTrue(p(map[string]any{"age": 25.0, "name": "John"}))
			biff.AssertTrue(p(map[string]any{"age": 30.0, "name": "Jane"}))
			biff.AssertFalse(p(map[string]any{"age": 25.0, "name": "Jane"}))
		})

		a.Alternative("$and", func(a *biff.A) {
			p := mustCompile(Filter{"$and": []any{
				map[string]any{"age": map[string]any{"$gte": 18}},
				map[string]any{"name": "John"},
			}})
			biff.AssertTrue(p(map[string]any{"age": 25.0, "name": "John"}))
			biff.AssertFalse(p(map[string]any{"age": 10.0, "name": "John"}))
		})

		a.Alternative("$not", func(a *biff.A) {
			p := mustCompile(Filter{"$not": Filter{"age": Filter{"$eq": 25}}})
			biff.AssertFalse(p(map[string]any{"age": 25.0}))
			biff.AssertTrue(p(map[string]any{"age": 26.0}))
		})

		a.Alternative("Nested", func(a *biff.A) {
			p := mustCompile(Filter{
				"$or": []Filter{
					{"$and": []Filter{{"type": "payer"}, {"$not": Filter{"balance": Filter{"$lt": 10}}}}},
					{"vip": true},
				},
			})
			biff.AssertTrue(p(map[string]any{"type": "payer", "balance": 20.0}))
			biff.AssertFalse(p(map[string]any{"type": "payer", "balance": 5.0}))
			biff.AssertTrue(p(map[string]any{"type": "payee", "vip": true}))
		})
	})
}

func TestCompile_Errors(t *testing.T) {

	biff.Alternative("Errors", func(a *biff.A) {

		a.Alternative("Unsupported operator", func(a *biff.A) {
			p, err := Compile(Filter{"age": Filter{"$bogus": 1}})
			biff.AssertTrue(p == nil)
			biff.AssertTrue(errors.Is(err, ErrUnsupportedOperator))
			biff.AssertEqual(err.Error(), "unsupported operator: $bogus")
		})

		a.Alternative("Unsupported operator inside $or", func(a *biff.A) {
			_, err := Compile(Filter{"$or": []Filter{{"name": "John"}, {"age": Filter{"$regex": "x"}}}})
			biff.AssertTrue(errors.Is(err, ErrUnsupportedOperator))
		})

		a.Alternative("$or is not a list", func(a *biff.A) {
			_, err := Compile(Filter{"$or": Filter{"name": "John"}})
			biff.AssertTrue(errors.Is(err, ErrMalformedFilter))
		})

		a.Alternative("$not is not a filter", func(a *biff.A) {
			_, err := Compile(Filter{"$not": 3})
			biff.AssertTrue(errors.Is(err, ErrMalformedFilter))
		})
	})
}

func TestEqual(t *testing.T) {

	biff.AssertTrue(equal([]any{1.0, "a"}, []any{1, "a"}))
	biff.AssertFalse(equal([]any{1.0}, []any{1.0, 2.0}))
	biff.AssertTrue(equal(map[string]any{"a": 1.0}, map[string]int{"a": 1}))
	biff.AssertFalse(equal(map[string]any{"a": 1.0}, map[string]any{"b": 1.0}))
	biff.AssertTrue(equal(true, true))
	biff.AssertFalse(equal(true, "true"))
	biff.AssertFalse(equal(nil, 0))
}
