package apicollectionv1

import (
	"github.com/fulldump/minipay/service"
)

func listCollections(s service.Servicer) interface{} {
	return func() []*CollectionResponse {

		result := []*CollectionResponse{}
		for _, info := range s.ListCollections() {
			result = append(result, &CollectionResponse{
				Name:  info.Name,
				Total: info.Total,
			})
		}

		return result
	}
}
