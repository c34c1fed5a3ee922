package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/fulldump/minipay/bootstrap"
	"github.com/fulldump/minipay/configuration"
)

type JSON = map[string]any

var client = &http.Client{
	Transport: &http.Transport{
		MaxConnsPerHost:     1024,
		MaxIdleConnsPerHost: 1024,
		MaxIdleConns:        1024,
	},
}

func Parallel(workers int, f func()) {
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}
	wg.Wait()
}

// Run calls f n times spread over the workers and prints the throughput.
func Run(name string, c Config, f func(i int64) error) {

	pending := c.N
	failed := int64(0)

	t0 := time.Now()
	Parallel(c.Workers, func() {
		for {
			i := atomic.AddInt64(&pending, -1)
			if i < 0 {
				return
			}
			err := f(c.N - i)
			if err != nil {
				atomic.AddInt64(&failed, 1)
			}
		}
	})
	took := time.Since(t0)

	fmt.Println(name)
	fmt.Println("sent:", c.N, "failed:", failed)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f requests/sec\n", float64(c.N)/took.Seconds())
}

func Send(method, url string, body any, expectedStatus int) error {

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != expectedStatus {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Fetch returns the body of a GET that must answer 200.
func Fetch(url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

func TempDir() (string, func()) {
	dir, err := os.MkdirTemp("", "minipay_bench_*")
	if err != nil {
		panic("Could not create temp directory: " + err.Error())
	}

	cleanup := func() {
		os.RemoveAll(dir)
	}

	return dir, cleanup
}

func CreateServer(c *Config) (start, stop func()) {
	dir, cleanup := TempDir()
	cleanups = append(cleanups, cleanup)

	conf := configuration.Default()
	conf.DatabasePath = filepath.Join(dir, "database.json")
	conf.HttpAddr = "127.0.0.1:3000"
	conf.AdminAddr = ""
	conf.RateLimit = 0
	conf.LogLevel = "warn"
	c.Base = "http://" + conf.HttpAddr

	return bootstrap.Bootstrap(&conf)
}

func WaitReady(base string) {
	for i := 0; i < 50; i++ {
		resp, err := client.Get(base + "/users/0")
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	panic("server not ready at " + base)
}
