package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompthub/internal/service"
	"prompthub/internal/transport/http/middleware"
	"prompthub/internal/transport/http/response"
)

type PromptHandler struct {
	svc *service.PromptService
	log *zap.Logger
}

func NewPromptHandler(svc *service.PromptService, log *zap.Logger) *PromptHandler {
	return &PromptHandler{svc: svc, log: log}
}

// List GET /prompts?search=&category=&page=&limit=
func (h *PromptHandler) List(c *gin.Context) {
	q := service.ListQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     atoiDefault(c.Query("page"), 1),
		Limit:    atoiDefault(c.Query("limit"), 10),
	}
	list, pg, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, h.log, err, "Failed to fetch prompts")
		return
	}
	response.OK(c, gin.H{
		"prompts":     list,
		"totalCount":  pg.TotalCount,
		"totalPages":  pg.TotalPages,
		"currentPage": pg.CurrentPage,
	})
}

// Create POST /prompts（鉴权）
func (h *PromptHandler) Create(c *gin.Context) {
	var in service.CreatePromptInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Abort400(c, err.Error())
		return
	}
	p, err := h.svc.Create(c.Request.Context(), c.GetString(middleware.KeyEmail), in)
	if err != nil {
		response.FromError(c, h.log, err, "Failed to create prompt")
		return
	}
	response.OK(c, gin.H{"prompt": p})
}

// Get GET /prompts/:id，副作用：viewCount+1
func (h *PromptHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"), true)
	if err != nil {
		response.FromError(c, h.log, err, "Failed to fetch prompt")
		return
	}
	response.OK(c, gin.H{"prompt": p})
}

// Update PUT /prompts/:id（鉴权，仅作者）
func (h *PromptHandler) Update(c *gin.Context) {
	var in service.UpdatePromptInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Abort400(c, err.Error())
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.GetString(middleware.KeyEmail), c.Param("id"), in)
	if err != nil {
		response.FromError(c, h.log, err, "Failed to update prompt")
		return
	}
	response.OK(c, gin.H{"prompt": p})
}

// Delete DELETE /prompts/:id（鉴权，仅作者）
func (h *PromptHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.GetString(middleware.KeyEmail), c.Param("id")); err != nil {
		response.FromError(c, h.log, err, "Failed to delete prompt")
		return
	}
	response.OK(c, gin.H{"message": "Prompt deleted successfully"})
}

// ListByUser GET /users/:id/prompts
func (h *PromptHandler) ListByUser(c *gin.Context) {
	list, pg, err := h.svc.ListByAuthor(c.Request.Context(), c.Param("id"),
		atoiDefault(c.Query("page"), 1), atoiDefault(c.Query("limit"), 10))
	if err != nil {
		response.FromError(c, h.log, err, "Failed to fetch user prompts")
		return
	}
	response.OK(c, gin.H{
		"prompts":     list,
		"totalCount":  pg.TotalCount,
		"totalPages":  pg.TotalPages,
		"currentPage": pg.CurrentPage,
	})
}
