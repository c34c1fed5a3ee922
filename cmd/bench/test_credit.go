package main

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// TestCredit credits the wallets of the users created by TestRegister, then
// checks the first wallet kept every credit it received.
func TestCredit(c Config) {

	before, err := balance(c.Base, 1)
	if err != nil {
		fmt.Println("CREDIT: wallet 1 not available:", err)
		return
	}

	Run("CREDIT", c, func(i int64) error {
		url := fmt.Sprintf("%s/wallets/%d/credit", c.Base, i%c.Users+1)
		return Send("PUT", url, JSON{"amount": 10}, http.StatusOK)
	})

	after, err := balance(c.Base, 1)
	if err != nil {
		fmt.Println("CREDIT: could not read wallet 1:", err)
		return
	}
	credits := c.N / c.Users
	expected := before + float64(credits*10)
	if after != expected {
		fmt.Printf("CREDIT: wallet 1 balance is %.2f, expected %.2f\n", after, expected)
	}
}

func balance(base string, userId int64) (float64, error) {
	body, err := Fetch(fmt.Sprintf("%s/wallets/%d", base, userId))
	if err != nil {
		return 0, err
	}
	value := gjson.GetBytes(body, "balance")
	if !value.Exists() {
		return 0, fmt.Errorf("no balance in %s", body)
	}
	return value.Float(), nil
}
