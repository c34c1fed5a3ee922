package configuration

import (
	"github.com/fulldump/minipay/database"
)

type Configuration struct {
	HttpAddr     string  `json:"http_addr" usage:"HTTP address of the payments API"`
	AdminAddr    string  `json:"admin_addr" usage:"HTTP address of the admin API, empty to disable it"`
	DatabasePath string  `json:"database_path" usage:"snapshot file of the document store"`
	LogLevel     string  `json:"log_level" usage:"log level [trace|debug|info|warn|error]"`
	LogFormat    string  `json:"log_format" usage:"log format [text|json]"`
	RateLimit    float64 `json:"rate_limit" usage:"requests per second allowed to each client, 0 disables the limit"`
	RateBurst    int     `json:"rate_burst" usage:"requests a client may burst above the rate limit"`
	Compression  bool    `json:"compression" usage:"gzip admin API responses"`
	Version      bool    `json:"version" usage:"show version and exit"`
	ShowBanner   bool    `json:"show_banner" usage:"show big banner"`
	ShowConfig   bool    `json:"show_config" usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:     ":3000",
		AdminAddr:    "127.0.0.1:3001",
		DatabasePath: database.DefaultPath,
		LogLevel:     "info",
		LogFormat:    "text",
		RateLimit:    100,
		RateBurst:    200,
		ShowBanner:   true,
	}
}
