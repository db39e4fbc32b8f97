// Package response 统一 HTTP 响应：成功 200 + data，失败真实状态码 + error
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompthub/internal/domain"
)

type Body struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func OK(c *gin.Context, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["success"] = true
	c.JSON(http.StatusOK, data)
}

func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Body{Success: false, Error: msg})
}

func Abort400(c *gin.Context, msg string) { Abort(c, http.StatusBadRequest, msg) }
func Abort401(c *gin.Context, msg string) { Abort(c, http.StatusUnauthorized, msg) }
func Abort403(c *gin.Context, msg string) { Abort(c, http.StatusForbidden, msg) }
func Abort404(c *gin.Context, msg string) { Abort(c, http.StatusNotFound, msg) }

// Abort500 基础设施错误：记日志，对外只给笼统信息
func Abort500(c *gin.Context, l *zap.Logger, err error, msg string) {
	l.Error("internal error",
		zap.String("path", c.FullPath()),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	Abort(c, http.StatusInternalServerError, msg)
}

// FromError 哨兵错误 → 状态码；未识别的一律按 500 收口
func FromError(c *gin.Context, l *zap.Logger, err error, internalMsg string) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		Abort401(c, err.Error())
	case errors.Is(err, domain.ErrNotAuthorized):
		Abort403(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		Abort404(c, err.Error())
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInsufficientPoints):
		Abort400(c, err.Error())
	default:
		Abort500(c, l, err, internalMsg)
	}
}
