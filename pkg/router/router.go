package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. The returned context replaces the
// request context.
type MiddlewareFunc func(ctx context.Context, r *http.Request) (context.Context, error)

type Router struct {
	Inner gin.IRouter
	root  context.Context
}

// New creates a router whose handlers receive a context carrying the
// configs, logger and database of root.
func New(root context.Context) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(inherit(c.Request.Context(), root))
	})

	return &Router{Inner: engine, root: root}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(http.MethodPost, handler))
}

func (r *Router) Use(middleware MiddlewareFunc) {
	r.Inner.Use(wrapMiddleware(middleware))
}

// Branch returns a router sharing the routes of r. Middlewares added to the
// branch only apply to the routes registered on it.
func (r *Router) Branch() *Router {
	return &Router{Inner: r.Inner.Group(""), root: r.root}
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}

// CloserFunc runs after the handler with the written status and the error
// returned by the handler or a middleware, if any.
type CloserFunc func(ctx context.Context, r *http.Request, status int, err error)

// AddCloser must be called before the routes it applies to are registered.
func (r *Router) AddCloser(closer CloserFunc) {
	r.Inner.Use(func(c *gin.Context) {
		c.Next()

		var err error
		if last := c.Errors.Last(); last != nil {
			err = last.Err
		}

		closer(c.Request.Context(), c.Request, c.Writer.Status(), err)
	})
}
