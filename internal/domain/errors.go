package domain

import "errors"

// 业务哨兵错误，handler 层统一映射为 HTTP 状态码
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrInsufficientPoints = errors.New("insufficient points")
)
