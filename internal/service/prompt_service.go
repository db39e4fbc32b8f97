package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"prompthub/internal/core/cache"
	"prompthub/internal/domain"
	"prompthub/internal/points"
	"prompthub/pkg/utils"
)

const listCacheNS = "prompts:list"

type CreatePromptInput struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	IsPremium   bool     `json:"isPremium"`
	PricePoints int      `json:"pricePoints"`
}

type UpdatePromptInput = CreatePromptInput

type ListQuery struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

type Pagination struct {
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

func paginate(total int64, page, limit int) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{TotalCount: total, TotalPages: pages, CurrentPage: page}
}

// Normalize 页码/页大小兜底：page 从 1 起，limit 默认 10、上限 100
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}

type PromptService struct {
	store   domain.Store
	log     *zap.Logger
	cache   *cache.Cache // 可为 nil（未配置 redis 时直接回源）
	listTTL time.Duration
}

func NewPromptService(store domain.Store, log *zap.Logger) *PromptService {
	return &PromptService{store: store, log: log}
}

// WithListCache 开启列表缓存
func (s *PromptService) WithListCache(c *cache.Cache, ttl time.Duration) *PromptService {
	s.cache = c
	s.listTTL = ttl
	return s
}

func validateCreate(in *CreatePromptInput) error {
	if in.Title == "" || in.Content == "" || in.Category == "" {
		return fmt.Errorf("%w: title, content, and category are required", domain.ErrValidation)
	}
	if in.PricePoints < 0 {
		return fmt.Errorf("%w: pricePoints must not be negative", domain.ErrValidation)
	}
	return nil
}

// Create 创建 prompt 并结算积分。prompt 行、余额增量、流水在同一事务内落库，
// 任一步失败整体回滚（不会出现有内容无流水或反之）。
func (s *PromptService) Create(ctx context.Context, authorEmail string, in CreatePromptInput) (*domain.Prompt, error) {
	if authorEmail == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateCreate(&in); err != nil {
		return nil, err
	}

	author, err := s.store.Users().FindByEmail(ctx, authorEmail)
	if err != nil {
		return nil, err
	}

	var created *domain.Prompt
	var plan points.Plan
	err = s.store.WithTx(ctx, func(tx domain.Store) error {
		// 锁内重读余额，门槛检查以锁定值为准
		u, err := tx.Users().LockByID(ctx, author.ID)
		if err != nil {
			return err
		}
		plan, err = points.PlanCreation(u.Points, in.IsPremium, in.Title)
		if err != nil {
			return err
		}

		p := &domain.Prompt{
			ID:          utils.NewID(),
			Title:       in.Title,
			Content:     in.Content,
			Category:    in.Category,
			Tags:        domain.StringList(in.Tags),
			IsPremium:   in.IsPremium,
			PricePoints: in.PricePoints,
			AuthorID:    u.ID,
		}
		if err := tx.Prompts().Create(ctx, p); err != nil {
			return err
		}
		if err := tx.Users().ApplyPointsDelta(ctx, u.ID, plan.Delta()); err != nil {
			return err
		}
		for _, e := range plan.Entries {
			rec := &domain.PointTransaction{
				ID:          utils.NewID(),
				UserID:      u.ID,
				Amount:      e.Amount,
				Type:        e.Type,
				Description: e.Description,
				Reference:   p.ID,
			}
			if err := tx.Transactions().Create(ctx, rec); err != nil {
				return err
			}
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	points.PromptsCreated.WithLabelValues(strconv.FormatBool(in.IsPremium)).Inc()
	points.PointsEarned.Add(float64(plan.Earned))
	points.PointsSpent.Add(float64(plan.Spent))
	s.invalidateListCache(ctx)
	s.log.Info("prompt created",
		zap.String("prompt_id", created.ID),
		zap.String("author_id", created.AuthorID),
		zap.Bool("premium", in.IsPremium),
		zap.Int("points_net", plan.Net()),
	)

	return s.Get(ctx, created.ID, false)
}

// Get 读取单条；countView 为 true 时数据库端 viewCount+1
func (s *PromptService) Get(ctx context.Context, id string, countView bool) (*domain.Prompt, error) {
	p, err := s.store.Prompts().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if countView {
		if err := s.store.Prompts().IncrementViewCount(ctx, id); err != nil {
			return nil, err
		}
		p.ViewCount++
	}
	return p, nil
}

type listResult struct {
	Prompts    []domain.Prompt `json:"prompts"`
	Pagination Pagination      `json:"pagination"`
}

func (s *PromptService) List(ctx context.Context, q ListQuery) ([]domain.Prompt, Pagination, error) {
	q.Normalize()
	load := func(ctx context.Context) (*listResult, error) {
		list, total, err := s.store.Prompts().List(ctx, domain.PromptFilter{
			Search:   q.Search,
			Category: q.Category,
			Offset:   (q.Page - 1) * q.Limit,
			Limit:    q.Limit,
		})
		if err != nil {
			return nil, err
		}
		return &listResult{Prompts: list, Pagination: paginate(total, q.Page, q.Limit)}, nil
	}

	if s.cache == nil || s.listTTL <= 0 {
		r, err := load(ctx)
		if err != nil {
			return nil, Pagination{}, err
		}
		return r.Prompts, r.Pagination, nil
	}

	key := s.cache.VersionedKey(ctx, listCacheNS,
		fmt.Sprintf("s=%s&c=%s&p=%d&l=%d", q.Search, q.Category, q.Page, q.Limit))
	r, err := cache.GetOrLoadJSON(s.cache, ctx, key, s.listTTL, load)
	if err != nil || r == nil {
		// 缓存故障不致命，直接回源
		r, err = load(ctx)
		if err != nil {
			return nil, Pagination{}, err
		}
	}
	return r.Prompts, r.Pagination, nil
}

// ListByAuthor 指定作者的分页列表；作者不存在返回 ErrNotFound
func (s *PromptService) ListByAuthor(ctx context.Context, authorID string, page, limit int) ([]domain.Prompt, Pagination, error) {
	if _, err := s.store.Users().FindByID(ctx, authorID); err != nil {
		return nil, Pagination{}, err
	}
	q := ListQuery{Page: page, Limit: limit}
	q.Normalize()
	list, total, err := s.store.Prompts().List(ctx, domain.PromptFilter{
		AuthorID: authorID,
		Offset:   (q.Page - 1) * q.Limit,
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, Pagination{}, err
	}
	return list, paginate(total, q.Page, q.Limit), nil
}

// authorize 归属校验：会话邮箱与作者邮箱精确匹配（区分大小写）
func authorize(p *domain.Prompt, email string) error {
	if email == "" {
		return domain.ErrUnauthenticated
	}
	if p.Author == nil || p.Author.Email != email {
		return domain.ErrNotAuthorized
	}
	return nil
}

func (s *PromptService) Update(ctx context.Context, email, id string, in UpdatePromptInput) (*domain.Prompt, error) {
	if email == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateCreate(&in); err != nil {
		return nil, err
	}

	p, err := s.store.Prompts().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(p, email); err != nil {
		return nil, err
	}

	p.Title = in.Title
	p.Content = in.Content
	p.Category = in.Category
	p.Tags = domain.StringList(in.Tags)
	p.IsPremium = in.IsPremium
	p.PricePoints = in.PricePoints
	if err := s.store.Prompts().Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)
	return s.Get(ctx, id, false)
}

func (s *PromptService) Delete(ctx context.Context, email, id string) error {
	if email == "" {
		return domain.ErrUnauthenticated
	}
	p, err := s.store.Prompts().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(p, email); err != nil {
		return err
	}
	if err := s.store.Prompts().Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateListCache(ctx)
	s.log.Info("prompt deleted", zap.String("prompt_id", id), zap.String("author_id", p.AuthorID))
	return nil
}

func (s *PromptService) invalidateListCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Bump(ctx, listCacheNS)
	}
}
