package server

import (
	"regexp"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fulldump/minipay/logging"
)

var paramPattern = regexp.MustCompile(`:(\w+)`)

type route struct {
	pattern *regexp.Regexp
	params  []string
	method  string
	handler HandlerFunc
}

// Router matches request paths against templates like /users/:id.
type Router struct {
	mutex  sync.RWMutex
	routes []*route
	logger *logrus.Entry
}

func NewRouter() *Router {
	return &Router{
		logger: logging.New("Router"),
	}
}

// AddRoute registers a route. Each :name segment of path captures one path
// segment, everything else must match literally.
func (r *Router) AddRoute(path, method string, handler HandlerFunc) {

	params := []string{}
	expr := &strings.Builder{}
	expr.WriteString("^")
	last := 0
	for _, loc := range paramPattern.FindAllStringSubmatchIndex(path, -1) {
		expr.WriteString(regexp.QuoteMeta(path[last:loc[0]]))
		expr.WriteString("([^/]+)")
		params = append(params, path[loc[2]:loc[3]])
		last = loc[1]
	}
	expr.WriteString(regexp.QuoteMeta(path[last:]))
	expr.WriteString("$")

	r.mutex.Lock()
	r.routes = append(r.routes, &route{
		pattern: regexp.MustCompile(expr.String()),
		params:  params,
		method:  method,
		handler: handler,
	})
	r.mutex.Unlock()
}

// Middleware registers the route and returns the step that dispatches to the
// routes of this router. Requests matching no route go on with next(nil).
func (r *Router) Middleware(path, method string, handler HandlerFunc) Step {

	r.AddRoute(path, method, handler)
	r.logger.Debugf("Route added: %s %s", method, path)

	return Normal(func(req *Request, w *Response, next Next) error {

		r.logger.Debugf("Request: %s %s", req.Method, req.URL.String())

		rt, values := r.find(req.Method, req.URL.Path)
		if rt == nil {
			next(nil)
			return nil
		}

		params := make(map[string]string, len(rt.params))
		for i, name := range rt.params {
			params[name] = values[i]
		}
		req.Params = params

		query := map[string]string{}
		for key, list := range req.URL.Query() {
			query[key] = list[len(list)-1]
		}
		req.Query = query

		return rt.handler(req, w, next)
	})
}

func (r *Router) find(method, path string) (*route, []string) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, rt := range r.routes {
		if rt.method != method {
			continue
		}
		match := rt.pattern.FindStringSubmatch(path)
		if match == nil {
			continue
		}
		return rt, match[1:]
	}

	return nil, nil
}
