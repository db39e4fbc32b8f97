package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompthub/internal/core/auth"
	"prompthub/internal/service"
	"prompthub/internal/transport/http/middleware"
	"prompthub/internal/transport/http/response"
)

type AuthHandler struct {
	svc   *service.UserService
	jwter *auth.JWTer
	log   *zap.Logger
}

func NewAuthHandler(svc *service.UserService, jwter *auth.JWTer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, jwter: jwter, log: log}
}

// Login POST /auth/login：查不到就自动注册 + 发 JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var in service.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Abort400(c, err.Error())
		return
	}
	u, isNew, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		response.FromError(c, h.log, err, "login failed")
		return
	}
	tok, err := h.jwter.Issue(u.ID, u.Email, u.Role)
	if err != nil || tok == "" {
		response.Abort500(c, h.log, err, "issue token failed")
		return
	}
	response.OK(c, gin.H{
		"token": tok,
		"isNew": isNew,
		"user":  gin.H{"id": u.ID, "email": u.Email, "name": u.Name, "image": u.Image, "role": u.Role, "points": u.Points},
	})
}

// Me GET /me（鉴权）
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.svc.Profile(c.Request.Context(), c.GetString(middleware.KeyEmail))
	if err != nil {
		response.FromError(c, h.log, err, "failed to fetch profile")
		return
	}
	response.OK(c, gin.H{"user": u})
}

// MyTransactions GET /me/transactions（鉴权）：积分流水，最新在前
func (h *AuthHandler) MyTransactions(c *gin.Context) {
	list, pg, err := h.svc.Transactions(c.Request.Context(), c.GetString(middleware.KeyEmail),
		atoiDefault(c.Query("page"), 1), atoiDefault(c.Query("limit"), 10))
	if err != nil {
		response.FromError(c, h.log, err, "failed to fetch transactions")
		return
	}
	response.OK(c, gin.H{
		"transactions": list,
		"totalCount":   pg.TotalCount,
		"totalPages":   pg.TotalPages,
		"currentPage":  pg.CurrentPage,
	})
}
