package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
	"github.com/go-json-experiment/json"

	"github.com/fulldump/minipay/database"
)

type findInput struct {
	Filter map[string]any `json:"filter"`
	Skip   int            `json:"skip"`
	Limit  int            `json:"limit"`
}

// find writes one matching record per line.
func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	input := findInput{
		Limit: 1,
	}
	err := readInput(r.Body, &input)
	if err != nil {
		return err
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	records, err := s.Find(collectionName, input.Filter, input.Skip, input.Limit)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	for _, record := range records {
		writeRow(w, record)
	}

	return nil
}

func writeRow(w http.ResponseWriter, record database.Record) {
	json.MarshalWrite(w, record, json.Deterministic(true))
	w.Write([]byte("\n"))
}
