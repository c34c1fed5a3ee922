package service

import (
	"os"
	"path"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/minipay/logging"
	"github.com/fulldump/minipay/utils"
)

const exampleHost = "minipay.example.com"

// Save writes a markdown example of the exchange into API_EXAMPLES_PATH, if
// that variable is set.
func Save(response *apitest.Response, title, description string) {

	examplesPath := os.Getenv("API_EXAMPLES_PATH")
	if examplesPath == "" {
		return
	}

	request := response.Request
	query := request.URL.RawQuery
	if query != "" {
		query = "?" + query
	}
	requestBody := formatJSON(response.BodyRequestString())

	s := &strings.Builder{}

	s.WriteString("# " + title + "\n")
	s.WriteString(cropTabs(description) + "\n")

	// curl
	s.WriteString("Curl example:\n\n```sh\ncurl ")
	if request.Method != "GET" {
		s.WriteString("-X " + request.Method + " ")
	}
	s.WriteString(`"https://` + exampleHost + request.URL.Path + query + `"`)
	for _, k := range utils.GetKeys(request.Header) {
		for _, v := range request.Header[k] {
			s.WriteString(" \\\n-H \"" + k + ": " + v + "\"")
		}
	}
	if requestBody != "" {
		s.WriteString(" \\\n-d '" + requestBody + "'")
	}
	s.WriteString("\n```\n\n\n")

	// raw http
	s.WriteString("HTTP request/response example:\n\n```http\n")
	s.WriteString(request.Method + " " + request.URL.Path + query + " " + request.Proto + "\n")
	s.WriteString("Host: " + exampleHost + "\n")
	for _, k := range utils.GetKeys(request.Header) {
		for _, v := range request.Header[k] {
			s.WriteString(k + ": " + v + "\n")
		}
	}
	s.WriteString("\n" + requestBody + "\n\n")

	s.WriteString(response.Proto + " " + response.Status + "\n")
	for _, k := range utils.GetKeys(response.Header) {
		switch k {
		case "Date":
			s.WriteString("Date: Mon, 15 Aug 2022 02:08:13 GMT\n")
		case "X-Request-Id":
			s.WriteString("X-Request-Id: 00000000-0000-0000-0000-000000000000\n")
		default:
			for _, v := range response.Header[k] {
				s.WriteString(k + ": " + v + "\n")
			}
		}
	}
	s.WriteString("\n" + formatJSON(response.BodyString()) + "\n```\n\n\n")

	filename := strings.ReplaceAll(strings.ToLower(title), " ", "_") + ".md"
	p := path.Join(examplesPath, path.Clean(filename))
	err := os.WriteFile(p, []byte(s.String()), 0666)
	if err != nil {
		logging.New("Examples").WithError(err).WithField("path", p).Error("Saving example")
	}
}

// formatJSON indents body when it is a single JSON value, otherwise it is
// returned untouched.
func formatJSON(body string) string {
	var value any
	err := json.Unmarshal([]byte(body), &value)
	if err != nil {
		return body
	}
	indented, err := json.Marshal(value, json.Deterministic(true), jsontext.WithIndent("    "))
	if err != nil {
		return body
	}
	return string(indented)
}

// cropTabs removes the common indentation of a multiline description.
func cropTabs(d string) string {

	lines := strings.Split(d, "\n")

	first, last := 0, len(lines)
	if len(lines) > 2 {
		first++
		last--
	}

	minTabs := -1
	for _, line := range lines[first:last] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tabs := len(line) - len(strings.TrimLeft(line, "\t"))
		if minTabs < 0 || tabs < minTabs {
			minTabs = tabs
		}
	}
	if minTabs <= 0 {
		return d
	}

	prefix := strings.Repeat("\t", minTabs)
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.Join(lines, "\n")
}
