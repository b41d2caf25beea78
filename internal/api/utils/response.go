package utils

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/easayliu/emby-tv-organizer/internal/shared/errors"
)

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": data,
	})
}

// ErrorWithStatus 错误响应
func ErrorWithStatus(c *gin.Context, httpStatus int, code string, message string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	ErrorWithStatus(c, http.StatusBadRequest, string(errors.ErrorCodeInvalidRequest), message)
}

// Error 按业务错误码映射HTTP状态
func Error(c *gin.Context, err error) {
	var svcErr *errors.ServiceError
	if stderrors.As(err, &svcErr) {
		ErrorWithStatus(c, httpStatus(svcErr.Code), string(svcErr.Code), svcErr.Message)
		return
	}
	ErrorWithStatus(c, http.StatusInternalServerError, string(errors.ErrorCodeInternalError), err.Error())
}

func httpStatus(code errors.ErrorCode) int {
	switch code {
	case errors.ErrorCodeInvalidRequest, errors.ErrorCodeInputMissing:
		return http.StatusBadRequest
	case errors.ErrorCodeNotFound:
		return http.StatusNotFound
	case errors.ErrorCodeConflict, errors.ErrorCodeJobState:
		return http.StatusConflict
	case errors.ErrorCodeRateLimit:
		return http.StatusTooManyRequests
	case errors.ErrorCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
