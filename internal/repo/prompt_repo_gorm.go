package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"prompthub/internal/domain"
)

type PromptRepo struct{ db *gorm.DB }

func NewPromptRepo(db *gorm.DB) *PromptRepo { return &PromptRepo{db: db} }

func (r *PromptRepo) Create(ctx context.Context, p *domain.Prompt) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PromptRepo) FindByID(ctx context.Context, id string) (*domain.Prompt, error) {
	var p domain.Prompt
	err := r.db.WithContext(ctx).Preload("Author").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &p, err
}

func (r *PromptRepo) Update(ctx context.Context, p *domain.Prompt) error {
	// 只写内容列：view_count/likes/downloads 由独立路径自增，
	// 整行回写会把读取后别人提交的计数冲掉
	return r.db.WithContext(ctx).Model(&domain.Prompt{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"title":        p.Title,
			"content":      p.Content,
			"category":     p.Category,
			"tags":         p.Tags,
			"is_premium":   p.IsPremium,
			"price_points": p.PricePoints,
		}).Error
}

func (r *PromptRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Prompt{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PromptRepo) IncrementViewCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.Prompt{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *PromptRepo) List(ctx context.Context, f domain.PromptFilter) ([]domain.Prompt, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Prompt{})

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(escapeLike(s)) + "%"
		// 标题/正文不区分大小写；tags 按 JSON 序列化形式精确匹配成员
		tx = tx.Where(
			"LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR "+tagMatchExpr(r.db.Dialector.Name()),
			like, like, `%"`+escapeLike(s)+`"%`,
		)
	}
	if f.Category != "" && f.Category != "all" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.AuthorID != "" {
		tx = tx.Where("author_id = ?", f.AuthorID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var prompts []domain.Prompt
	err := tx.Preload("Author").
		Order("created_at DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&prompts).Error
	if err != nil {
		return nil, 0, err
	}
	return prompts, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 把 LIKE 通配符按字面量处理，搜索 "%" 不该命中全部
func escapeLike(s string) string { return likeEscaper.Replace(s) }

// tagMatchExpr tags 成员匹配区分大小写；mysql 默认排序规则不区分，需 BINARY
func tagMatchExpr(dialect string) string {
	if dialect == "mysql" {
		return "tags LIKE BINARY ?"
	}
	return "tags LIKE ?"
}
