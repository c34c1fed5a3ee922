package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/tidwall/sjson"
)

var runId = time.Now().UnixNano() % 1000

var registerTemplate = []byte(`{"fullName":"","cpfCnpj":"","email":"","password":"secret","type":"payer"}`)

// cpf builds a unique, well formed CPF for the i-th user.
func cpf(i int64) string {
	return fmt.Sprintf("%03d.%03d.%03d-%02d", runId, i/1000%1000, i%1000, i/1000000%100)
}

func registerPayload(i int64) (jsontext.Value, error) {
	payload, err := sjson.SetBytes(registerTemplate, "fullName", fmt.Sprintf("User %d", i))
	if err != nil {
		return nil, err
	}
	payload, err = sjson.SetBytes(payload, "cpfCnpj", cpf(i))
	if err != nil {
		return nil, err
	}
	payload, err = sjson.SetBytes(payload, "email", fmt.Sprintf("user%d-%d@example.com", runId, i))
	if err != nil {
		return nil, err
	}
	return jsontext.Value(payload), nil
}

func TestRegister(c Config) {
	Run("REGISTER", c, func(i int64) error {
		payload, err := registerPayload(i)
		if err != nil {
			return err
		}
		return Send("POST", c.Base+"/users", payload, http.StatusCreated)
	})
}
