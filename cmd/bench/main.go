package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test    string `usage:"name of the test: ALL | REGISTER | CREDIT"`
	Base    string `usage:"base URL, empty to start an embedded server"`
	N       int64  `usage:"number of requests"`
	Users   int64  `usage:"number of wallets credited by CREDIT, users 1..Users must exist"`
	Workers int    `usage:"number of workers"`
}

var cleanups []func()

func main() {

	defer func() {
		fmt.Println("Cleaning up...")
		for _, cleanup := range cleanups {
			cleanup()
		}
	}()

	c := Config{
		Test:    "all",
		Base:    "",
		N:       1_000,
		Users:   100,
		Workers: 16,
	}
	goconfig.Read(&c)
	if c.Users <= 0 {
		c.Users = 1
	}

	if c.Base == "" {
		start, stop := CreateServer(&c)
		defer stop()
		go start()
		WaitReady(c.Base)
	}

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestRegister(c)
		TestCredit(c)
	case "REGISTER":
		TestRegister(c)
	case "CREDIT":
		TestCredit(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
