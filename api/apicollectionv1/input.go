package apicollectionv1

import (
	"bytes"
	"io"

	"github.com/go-json-experiment/json"
)

// readInput decodes an optional JSON body into v, an empty body keeps the
// defaults of v.
func readInput(r io.Reader, v any) error {

	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	return json.Unmarshal(body, v)
}
