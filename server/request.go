package server

import (
	"net/http"

	"github.com/go-json-experiment/json"

	"github.com/fulldump/minipay/utils"
)

type Request struct {
	*http.Request

	// Params holds the path parameters of the matched route, by name.
	Params map[string]string

	// Query holds the query string, the last value wins for repeated keys.
	Query map[string]string

	// Body is the decoded JSON body, nil unless JSONBody ran.
	Body any
}

func newRequest(r *http.Request) *Request {
	return &Request{
		Request: r,
		Params:  map[string]string{},
		Query:   map[string]string{},
	}
}

// Bind copies the decoded body into v.
func (r *Request) Bind(v any) error {
	if r.Body == nil {
		return BadRequest("Request body is required")
	}
	err := utils.Remarshal(r.Body, v)
	if err != nil {
		return BadRequest("Invalid request body")
	}
	return nil
}

// Response records what has been sent to the client.
type Response struct {
	http.ResponseWriter

	Status  int
	Written bool
}

func newResponse(w http.ResponseWriter) *Response {
	return &Response{ResponseWriter: w}
}

func (w *Response) WriteHeader(status int) {
	if w.Written {
		return
	}
	w.Status = status
	w.Written = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *Response) Write(data []byte) (int, error) {
	if !w.Written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}

// JSON sends v with the given status.
func (w *Response) JSON(status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.MarshalWrite(w, v)
}

func (w *Response) Text(status int, s string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write([]byte(s))
	return err
}
