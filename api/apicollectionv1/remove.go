package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

type removeInput struct {
	Filter map[string]any `json:"filter"`
}

type removeResponse struct {
	Deleted int `json:"deleted"`
}

func remove(ctx context.Context, r *http.Request) (*removeResponse, error) {

	input := removeInput{}
	err := readInput(r.Body, &input)
	if err != nil {
		return nil, err
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	deleted, err := s.Remove(collectionName, input.Filter)
	if err != nil {
		return nil, err
	}

	return &removeResponse{Deleted: deleted}, nil
}
