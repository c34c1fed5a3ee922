package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/fulldump/box"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/minipay/api/apicollectionv1"
	"github.com/fulldump/minipay/filter"
	"github.com/fulldump/minipay/logging"
	"github.com/fulldump/minipay/service"
)

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.MarshalWrite(w, map[string]PrettyError{"error": p})
}

var errorLogger = logging.New("AdminAPI")

// PrettyErrorInterceptor turns the request error, if any, into a JSON
// response with a status matching the error.
func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		r := box.GetRequest(ctx)

		status, description := describe(err, r)
		if status == http.StatusInternalServerError {
			entry := errorLogger.WithError(err).WithField("url", r.URL.String())
			panicError := &PanicError{}
			if errors.As(err, &panicError) {
				entry = entry.WithField("stack", string(panicError.Stack))
			}
			entry.Error("Unexpected error")
		}

		w := box.GetResponse(ctx)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		PrettyError{
			Message:     err.Error(),
			Description: description,
		}.MarshalTo(w)
	}
}

func describe(err error, r *http.Request) (int, string) {

	syntaxError := &jsontext.SyntacticError{}
	semanticError := &json.SemanticError{}

	switch {
	case errors.Is(err, box.ErrResourceNotFound):
		return http.StatusNotFound, "resource '" + r.URL.String() + "' not found"
	case errors.Is(err, box.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method '" + r.Method + "' not allowed"
	case errors.Is(err, service.ErrorCollectionNotFound):
		return http.StatusNotFound, "collection not found"
	case errors.Is(err, service.ErrorDocumentNotFound):
		return http.StatusNotFound, "document not found"
	case errors.Is(err, apicollectionv1.ErrInvalidDocumentId):
		return http.StatusBadRequest, "invalid document id"
	case errors.Is(err, filter.ErrUnsupportedOperator), errors.Is(err, filter.ErrMalformedFilter):
		return http.StatusBadRequest, "invalid filter"
	case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, "Malformed JSON"
	case errors.As(err, &semanticError):
		return http.StatusBadRequest, "Unexpected JSON value"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "the store is not ready, try again later"
	}

	return http.StatusInternalServerError, "Unexpected error"
}
