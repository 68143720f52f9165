package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	Err            error  `json:"-"`
	HTTPStatusCode int    `json:"-"`
	StatusText     string `json:"status"`
	ErrorText      string `json:"error,omitempty"`
	RequestID      string `json:"request_id,omitempty"`
}

func (e *Err) Error() string {
	return e.ErrorText
}

// RenderErr writes err as JSON and aborts the remaining handlers.
func RenderErr(ctx *gin.Context, err *Err) {
	err.RequestID = requestid.Get(ctx)
	ctx.AbortWithStatusJSON(err.HTTPStatusCode, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Bad request",
		ErrorText:      err.Error(),
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Unauthorized",
		ErrorText:      err.Error(),
	}
}

func ErrNotFound(entity, key string, value any) *Err {
	return &Err{
		Err:            fmt.Errorf("%s with %s %v not found", entity, key, value),
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found",
		ErrorText:      fmt.Sprintf("%s with %s %v not found", entity, key, value),
	}
}

// ErrBadGateway is used when the federation server fails; the upstream error is only logged.
func ErrBadGateway(err error) *Err {
	zap.L().Warn("upstream failure", zap.Error(err))

	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadGateway,
		StatusText:     "Bad gateway",
		ErrorText:      "the federation server did not answer as expected",
	}
}

func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error",
		ErrorText:      "something went wrong",
	}
}
