package utils

import (
	"testing"

	"github.com/fulldump/biff"
)

func TestGetKeys(t *testing.T) {
	keys := GetKeys(map[string]int{"wallets": 1, "users": 2, "transfers": 3})
	biff.AssertEqual(keys, []string{"transfers", "users", "wallets"})
	biff.AssertEqual(GetKeys(map[string]int{}), []string{})
}

func TestToMap(t *testing.T) {

	type wallet struct {
		ID      int     `json:"id"`
		UserID  int     `json:"userId"`
		Balance float64 `json:"balance"`
		Tags    []string
	}

	m, err := ToMap(wallet{ID: 1, UserID: 7, Balance: 10.5, Tags: []string{"a"}})
	biff.AssertNil(err)
	biff.AssertEqual(m, map[string]any{
		"id":      1.0,
		"userId":  7.0,
		"balance": 10.5,
		"Tags":    []any{"a"},
	})
}

func TestToMap_NotAnObject(t *testing.T) {
	_, err := ToMap([]int{1, 2})
	biff.AssertNotNil(err)
}
