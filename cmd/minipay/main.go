package main

import (
	"fmt"
	"os"

	"github.com/fulldump/goconfig"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/minipay/bootstrap"
	"github.com/fulldump/minipay/configuration"
)

var VERSION = "dev"

var banner = `
           _       _                   
 _ __ ___ (_)_ __ (_)_ __   __ _ _   _ 
| '_ ' _ \| | '_ \| | '_ \ / _' | | | |
| | | | | | | | | | | |_) | (_| | |_| |
|_| |_| |_|_|_| |_|_| .__/ \__,_|\__, |
                    |_|          |___/ 
                    version ` + VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		json.MarshalWrite(os.Stdout, c, jsontext.WithIndent("    "))
		fmt.Println()
	}

	bootstrap.VERSION = VERSION
	start, _ := bootstrap.Bootstrap(&c)
	start()
}
