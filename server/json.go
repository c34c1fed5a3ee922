package server

import (
	"errors"
	"fmt"
	"mime"

	"github.com/go-json-experiment/json"
)

var ErrMalformedJSON = errors.New("malformed JSON")

// JSONBody decodes application/json bodies into Request.Body.
func JSONBody() Step {
	return Normal(func(r *Request, w *Response, next Next) error {

		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType != "application/json" {
			next(nil)
			return nil
		}

		var body any
		err := json.UnmarshalRead(r.Request.Body, &body)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedJSON, err)
		}
		r.Body = body

		next(nil)
		return nil
	})
}
