package apicollectionv1

import (
	"github.com/fulldump/box"

	"github.com/fulldump/minipay/service"
)

func BuildV1Collection(v1 *box.R, s service.Servicer) *box.R {

	collections := v1.Resource("/collections").
		WithActions(
			box.Get(listCollections(s)),
		)

	v1.Resource("/collections/{collectionName}").
		WithActions(
			box.Get(getCollection),
			box.ActionPost(find),
			box.ActionPost(remove),
		)

	v1.Resource("/collections/{collectionName}/{documentId}").
		WithActions(
			box.Get(getDocument),
		)

	return collections
}
