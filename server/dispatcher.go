package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
)

// Dispatcher runs every request through an ordered chain of steps.
type Dispatcher struct {
	router *Router

	mutex sync.RWMutex
	steps []Step
}

func New() *Dispatcher {
	return &Dispatcher{
		router: NewRouter(),
	}
}

func (d *Dispatcher) Use(steps ...Step) {
	d.mutex.Lock()
	d.steps = append(d.steps, steps...)
	d.mutex.Unlock()
}

func (d *Dispatcher) Get(path string, h HandlerFunc) {
	d.Use(d.router.Middleware(path, http.MethodGet, h))
}

func (d *Dispatcher) Post(path string, h HandlerFunc) {
	d.Use(d.router.Middleware(path, http.MethodPost, h))
}

func (d *Dispatcher) Put(path string, h HandlerFunc) {
	d.Use(d.router.Middleware(path, http.MethodPut, h))
}

func (d *Dispatcher) Delete(path string, h HandlerFunc) {
	d.Use(d.router.Middleware(path, http.MethodDelete, h))
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	d.mutex.RLock()
	steps := d.steps
	d.mutex.RUnlock()

	req := newRequest(r)
	resp := newResponse(w)

	i := 0
	var next Next
	next = func(err error) {
		if i >= len(steps) {
			fallback(resp, err)
			return
		}
		step := steps[i]
		i++
		execute(step, req, resp, next, err)
	}

	next(nil)
}

func execute(step Step, r *Request, w *Response, next Next, err error) {

	defer func() {
		if p := recover(); p != nil {
			next(&PanicError{Value: p, Stack: debug.Stack()})
		}
	}()

	var result error
	switch {
	case err != nil && step.errorHandler != nil:
		result = step.errorHandler(err, r, w, next)
	case err == nil && step.handler != nil:
		result = step.handler(r, w, next)
	default:
		next(err)
		return
	}

	if result != nil {
		next(result)
	}
}

func fallback(w *Response, err error) {
	if err != nil {
		w.Text(http.StatusInternalServerError, fmt.Sprintf("Internal Server Error: %s", err.Error()))
		return
	}
	w.Text(http.StatusNotFound, "Not Found")
}

// Listen serves the dispatcher on addr until the listener fails.
func (d *Dispatcher) Listen(addr string) error {
	s := &http.Server{
		Addr:    addr,
		Handler: d,
	}
	return s.ListenAndServe()
}
