package router

import (
	"errors"
	"io"
	"net/http"

	"github.com/airtime-lab/backend/pkg/errorx"
	"github.com/gin-gonic/gin"
)

func wrapHandler[Request, Response any](method string, handler HandlerFunc[Request, Response]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = c.ShouldBindQuery(&req)
		case http.MethodPost:
			err = c.ShouldBindJSON(&req)
			if errors.Is(err, io.EOF) {
				err = nil
			}
		default:
			err = errors.New("unsupported method")
		}

		if err != nil {
			writeError(c, errorx.New(errorx.BadRequest, "Invalid request: %v", err))
			return
		}

		resp, err := handler(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, newResponse(resp))
	}
}

func wrapMiddleware(middleware MiddlewareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, err := middleware(c.Request.Context(), c.Request)
		if err != nil {
			writeError(c, err)
			return
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
