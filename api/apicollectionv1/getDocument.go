package apicollectionv1

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/fulldump/box"

	"github.com/fulldump/minipay/database"
)

var ErrInvalidDocumentId = errors.New("document id must be a positive integer")

func getDocument(ctx context.Context) (database.Record, error) {

	s := GetServicer(ctx)

	collectionName := box.GetUrlParameter(ctx, "collectionName")
	documentId := strings.TrimSpace(box.GetUrlParameter(ctx, "documentId"))

	id, err := strconv.Atoi(documentId)
	if err != nil || id <= 0 {
		return nil, ErrInvalidDocumentId
	}

	return s.GetDocument(collectionName, id)
}
