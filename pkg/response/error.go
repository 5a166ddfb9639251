package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type BizError struct {
	Code int
	Msg  string
}

func (e *BizError) Error() string {
	return e.Msg
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

// 错误分类的统一出口，service 层在失败点直接声明类别

func NewValidation(msg string) *BizError {
	return NewError(http.StatusBadRequest, msg)
}

func NewUnauthorized(msg string) *BizError {
	return NewError(http.StatusUnauthorized, msg)
}

func NewForbidden(msg string) *BizError {
	return NewError(http.StatusForbidden, msg)
}

func NewNotFound(msg string) *BizError {
	return NewError(http.StatusNotFound, msg)
}

func NewConflict(msg string) *BizError {
	return NewError(http.StatusConflict, msg)
}

func NewStore(msg string) *BizError {
	return NewError(http.StatusInternalServerError, msg)
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: nil,
	})
}
