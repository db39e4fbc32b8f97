package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"prompthub/internal/core/auth"
	"prompthub/internal/transport/http/response"
)

// 鉴权通过后写入 gin context 的 key
const (
	KeyUserID = "userId"
	KeyEmail  = "email"
	KeyRole   = "role"
)

// AuthJWT 解析 Bearer token 并写入身份；requireRole 非空时校验角色。
// 身份只来自 token 声明，客户端传的任何身份字段一概不信。
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			response.Abort401(c, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			response.Abort401(c, "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			response.Abort403(c, "forbidden")
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyEmail, claims.Email)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}
