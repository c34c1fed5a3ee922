// Package filter compiles declarative filter trees into predicates over
// decoded JSON records.
//
// A filter is a map whose keys are either field names or one of the logical
// operators $or, $and and $not:
//
//	{"name": "John"}
//	{"age": {"$gte": 18, "$lt": 65}}
//	{"$or": [{"cpfCnpj": "123.456.789-00"}, {"email": "john@example.com"}]}
//	{"$not": {"type": {"$in": ["payee"]}}}
//
// Every top-level key must hold for a record to be accepted.
package filter

import (
	"errors"
	"fmt"
)

type Filter = map[string]any

// Predicate reports whether a record is accepted.
type Predicate func(record map[string]any) bool

var ErrUnsupportedOperator = errors.New("unsupported operator")
var ErrMalformedFilter = errors.New("malformed filter")

func acceptAll(map[string]any) bool {
	return true
}

// Compile turns a filter tree into a Predicate. Operators are validated
// eagerly, so an unknown operator fails here even if there is nothing to
// match against.
func Compile(f Filter) (Predicate, error) {

	if len(f) == 0 {
		return acceptAll, nil
	}

	predicates := make([]Predicate, 0, len(f))
	for key, value := range f {
		var p Predicate
		var err error
		switch key {
		case "$or":
			p, err = compileLogical(key, value, some)
		case "$and":
			p, err = compileLogical(key, value, all)
		case "$not":
			p, err = compileNot(value)
		default:
			p, err = compileField(key, value)
		}
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, p)
	}

	if len(predicates) == 1 {
		return predicates[0], nil
	}

	return all(predicates), nil
}

func compileLogical(key string, value any, combine func([]Predicate) Predicate) (Predicate, error) {

	items, ok := asList(value)
	if !ok {
		return nil, fmt.Errorf("%w: '%s' expects a list of filters", ErrMalformedFilter, key)
	}

	predicates := make([]Predicate, 0, len(items))
	for i, item := range items {
		sub, ok := asFilter(item)
		if !ok {
			return nil, fmt.Errorf("%w: '%s' item %d is not a filter", ErrMalformedFilter, key, i)
		}
		p, err := Compile(sub)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, p)
	}

	return combine(predicates), nil
}

func compileNot(value any) (Predicate, error) {

	sub, ok := asFilter(value)
	if !ok {
		return nil, fmt.Errorf("%w: '$not' expects a filter", ErrMalformedFilter)
	}

	p, err := Compile(sub)
	if err != nil {
		return nil, err
	}

	return func(record map[string]any) bool {
		return !p(record)
	}, nil
}

func compileField(field string, value any) (Predicate, error) {

	operators, ok := asFilter(value)
	if !ok {
		// bare literal, plain equality
		expected := value
		return func(record map[string]any) bool {
			actual, exists := record[field]
			return exists && equal(actual, expected)
		}, nil
	}

	predicates := make([]Predicate, 0, len(operators))
	for operator, expected := range operators {
		p, err := compileOperator(field, operator, expected)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, p)
	}

	return all(predicates), nil
}

func compileOperator(field, operator string, expected any) (Predicate, error) {

	var test func(actual any, exists bool) bool

	switch operator {
	case "$eq":
		test = func(actual any, exists bool) bool {
			return exists && equal(actual, expected)
		}
	case "$ne":
		test = func(actual any, exists bool) bool {
			return !exists || !equal(actual, expected)
		}
	case "$gt":
		test = ordered(expected, func(c int) bool { return c > 0 })
	case "$gte":
		test = ordered(expected, func(c int) bool { return c >= 0 })
	case "$lt":
		test = ordered(expected, func(c int) bool { return c < 0 })
	case "$lte":
		test = ordered(expected, func(c int) bool { return c <= 0 })
	case "$in":
		list, isList := asList(expected)
		test = func(actual any, exists bool) bool {
			return isList && exists && contains(list, actual)
		}
	case "$nin":
		list, isList := asList(expected)
		test = func(actual any, exists bool) bool {
			return isList && (!exists || !contains(list, actual))
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperator, operator)
	}

	return func(record map[string]any) bool {
		actual, exists := record[field]
		return test(actual, exists)
	}, nil
}

func ordered(expected any, accept func(c int) bool) func(actual any, exists bool) bool {
	return func(actual any, exists bool) bool {
		if !exists {
			return false
		}
		c, ok := compare(actual, expected)
		return ok && accept(c)
	}
}

func all(predicates []Predicate) Predicate {
	return func(record map[string]any) bool {
		for _, p := range predicates {
			if !p(record) {
				return false
			}
		}
		return true
	}
}

func some(predicates []Predicate) Predicate {
	return func(record map[string]any) bool {
		for _, p := range predicates {
			if p(record) {
				return true
			}
		}
		return false
	}
}

func contains(list []any, value any) bool {
	for _, item := range list {
		if equal(item, value) {
			return true
		}
	}
	return false
}
