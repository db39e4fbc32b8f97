package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompthub/internal/service"
	"prompthub/internal/transport/http/response"
)

type AdminHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewAdminHandler(svc *service.UserService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: log}
}

// ListUsers GET /admin/v1/users?q=&offset=&limit=&with_deleted=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	type listQ struct {
		Offset      int    `form:"offset,default=0"`
		Limit       int    `form:"limit,default=20"`
		Q           string `form:"q"`            // 按 email/name 模糊搜
		WithDeleted bool   `form:"with_deleted"` // 是否包含已封禁
	}
	var in listQ
	if err := c.ShouldBindQuery(&in); err != nil {
		response.Abort400(c, err.Error())
		return
	}
	users, total, err := h.svc.ListUsers(c.Request.Context(), in.Q, in.WithDeleted, in.Offset, in.Limit)
	if err != nil {
		response.FromError(c, h.log, err, "list users failed")
		return
	}
	response.OK(c, gin.H{"total": total, "items": users})
}

// Ban POST /admin/v1/users/:id/ban（软删）
func (h *AdminHandler) Ban(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Abort400(c, "missing id")
		return
	}
	if err := h.svc.Ban(c.Request.Context(), id); err != nil {
		response.FromError(c, h.log, err, "ban user failed")
		return
	}
	response.OK(c, gin.H{"id": id})
}

// Audit GET /admin/v1/users/:id/transactions：流水 + 余额一致性核对
func (h *AdminHandler) Audit(c *gin.Context) {
	report, err := h.svc.Audit(c.Request.Context(), c.Param("id"),
		atoiDefault(c.Query("page"), 1), atoiDefault(c.Query("limit"), 20))
	if err != nil {
		response.FromError(c, h.log, err, "audit failed")
		return
	}
	response.OK(c, gin.H{"report": report})
}
