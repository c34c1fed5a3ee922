package server

import (
	"errors"
	"net/http"

	"github.com/fulldump/minipay/logging"
)

type errorMessage struct {
	Message string `json:"message"`
}

// ErrorHandler answers every error that reaches it. HttpErrors are sent as
// they are, anything else is logged and hidden behind a generic 500.
func ErrorHandler() Step {

	logger := logging.New("ErrorHandlerMiddleware")

	return ErrorHandling(func(err error, r *Request, w *Response, next Next) error {

		httpError := &HttpError{}
		if errors.As(err, &httpError) {
			return w.JSON(httpError.Status, errorMessage{Message: httpError.Message})
		}

		if errors.Is(err, ErrMalformedJSON) {
			return w.JSON(http.StatusBadRequest, errorMessage{Message: "Malformed JSON"})
		}

		entry := logger.WithError(err).
			WithField("method", r.Method).
			WithField("url", r.URL.String())
		panicError := &PanicError{}
		if errors.As(err, &panicError) {
			entry = entry.WithField("stack", string(panicError.Stack))
		}
		entry.Error("Unexpected error")

		return w.JSON(http.StatusInternalServerError, errorMessage{Message: "Internal Server Error"})
	})
}
