package utils

import (
	"github.com/go-json-experiment/json"
)

// Remarshal converts input into output by encoding it to JSON and decoding it
// back. Decoding into a map or an interface yields JSON native values only.
func Remarshal(input any, output any) error {
	b, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, output)
}

// ToMap remarshals input into a generic JSON object.
func ToMap(input any) (map[string]any, error) {
	output := map[string]any{}
	err := Remarshal(input, &output)
	if err != nil {
		return nil, err
	}
	return output, nil
}
