package server

// Next passes control to the following step of the chain. A non nil err
// switches the chain to error handling.
type Next func(err error)

// HandlerFunc is a normal step. It either answers the request or calls next.
// A returned error is forwarded to next.
type HandlerFunc func(r *Request, w *Response, next Next) error

// ErrorHandlerFunc is an error-handling step. It only runs while the chain
// carries an error.
type ErrorHandlerFunc func(err error, r *Request, w *Response, next Next) error

// Step is a link of the chain. Build it with Normal or ErrorHandling.
type Step struct {
	handler      HandlerFunc
	errorHandler ErrorHandlerFunc
}

func Normal(h HandlerFunc) Step {
	return Step{handler: h}
}

func ErrorHandling(h ErrorHandlerFunc) Step {
	return Step{errorHandler: h}
}

func (s Step) HandlesErrors() bool {
	return s.errorHandler != nil
}
