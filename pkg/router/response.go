package router

import (
	"errors"
	"net/http"

	"github.com/airtime-lab/backend/pkg/errorx"
	"github.com/gin-gonic/gin"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) (int, response) {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return httpStatus(errx.Code), response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	return http.StatusInternalServerError, response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func httpStatus(code errorx.Code) int {
	switch code {
	case errorx.BadRequest:
		return http.StatusBadRequest
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.Conflict, errorx.AlreadyExists, errorx.InvalidState:
		return http.StatusConflict
	case errorx.NoEligibleEntries:
		return http.StatusUnprocessableEntity
	case errorx.Unavailable:
		return http.StatusServiceUnavailable
	case errorx.NotImplemented:
		return http.StatusNotImplemented
	}

	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status, resp := newErrorResponse(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}
