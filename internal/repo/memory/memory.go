// Package memory 提供 domain.Store 的内存实现，供测试与本地联调使用。
// 语义对齐 gorm 实现：WithTx 在副本上执行，出错整体丢弃。
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"prompthub/internal/domain"
	"prompthub/pkg/utils"
)

type state struct {
	users        map[string]*domain.User
	prompts      map[string]*domain.Prompt
	transactions []*domain.PointTransaction
}

func (s *state) clone() *state {
	c := &state{
		users:        make(map[string]*domain.User, len(s.users)),
		prompts:      make(map[string]*domain.Prompt, len(s.prompts)),
		transactions: make([]*domain.PointTransaction, len(s.transactions)),
	}
	for id, u := range s.users {
		cu := *u
		c.users[id] = &cu
	}
	for id, p := range s.prompts {
		cp := *p
		cp.Tags = append(domain.StringList(nil), p.Tags...)
		c.prompts[id] = &cp
	}
	for i, t := range s.transactions {
		ct := *t
		c.transactions[i] = &ct
	}
	return c
}

type Store struct {
	mu sync.Mutex
	st *state
	// 事务副本；非 nil 时所有仓库操作落在副本上
	tx *state
}

func NewStore() *Store {
	return &Store{st: &state{
		users:   map[string]*domain.User{},
		prompts: map[string]*domain.Prompt{},
	}}
}

func (s *Store) cur() *state {
	if s.tx != nil {
		return s.tx
	}
	return s.st
}

func (s *Store) Users() domain.UserRepository               { return userRepo{s} }
func (s *Store) Prompts() domain.PromptRepository           { return promptRepo{s} }
func (s *Store) Transactions() domain.TransactionRepository { return txRepo{s} }

// WithTx 副本上执行 fn，成功则替换原状态，失败丢弃副本。
// 全程持锁，同一用户的并发账本操作天然串行。
func (s *Store) WithTx(_ context.Context, fn func(domain.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txStore := &Store{st: s.st, tx: s.st.clone()}
	if err := fn(txStore); err != nil {
		return err
	}
	s.st = txStore.tx
	return nil
}

func (s *Store) lockIfRoot() func() {
	if s.tx != nil {
		return func() {} // 事务内已持外层锁
	}
	s.mu.Lock()
	return s.mu.Unlock
}

/* ---------- users ---------- */

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *domain.User) error {
	defer r.s.lockIfRoot()()
	st := r.s.cur()
	for _, ex := range st.users {
		if ex.Email == u.Email {
			return domain.ErrValidation
		}
	}
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cu := *u
	st.users[u.ID] = &cu
	return nil
}

func (r userRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	defer r.s.lockIfRoot()()
	u, ok := r.s.cur().users[id]
	if !ok || u.DeletedAt.Valid {
		return nil, domain.ErrNotFound
	}
	cu := *u
	return &cu, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	defer r.s.lockIfRoot()()
	for _, u := range r.s.cur().users {
		if u.Email == email && !u.DeletedAt.Valid {
			cu := *u
			return &cu, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r userRepo) LockByID(ctx context.Context, id string) (*domain.User, error) {
	// 内存实现靠 WithTx 的全局锁串行化，行为等同已持锁
	return r.FindByID(ctx, id)
}

func (r userRepo) ApplyPointsDelta(_ context.Context, id string, d domain.PointsDelta) error {
	defer r.s.lockIfRoot()()
	u, ok := r.s.cur().users[id]
	if !ok || u.DeletedAt.Valid {
		return domain.ErrNotFound
	}
	u.Points += d.Points
	u.TotalEarned += d.TotalEarned
	u.TotalSpent += d.TotalSpent
	return nil
}

func (r userRepo) List(_ context.Context, q string, withDeleted bool, offset, limit int) ([]domain.User, int64, error) {
	defer r.s.lockIfRoot()()
	var all []domain.User
	for _, u := range r.s.cur().users {
		if u.DeletedAt.Valid && !withDeleted {
			continue
		}
		if q != "" && !strings.Contains(u.Email, q) && !strings.Contains(u.Name, q) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, offset, limit), int64(len(all)), nil
}

func (r userRepo) SoftDelete(_ context.Context, id string) error {
	defer r.s.lockIfRoot()()
	u, ok := r.s.cur().users[id]
	if !ok || u.DeletedAt.Valid {
		return domain.ErrNotFound
	}
	u.DeletedAt.Time = time.Now()
	u.DeletedAt.Valid = true
	return nil
}

/* ---------- prompts ---------- */

type promptRepo struct{ s *Store }

func (r promptRepo) Create(_ context.Context, p *domain.Prompt) error {
	defer r.s.lockIfRoot()()
	st := r.s.cur()
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cp := *p
	cp.Author = nil
	st.prompts[p.ID] = &cp
	return nil
}

func (r promptRepo) FindByID(_ context.Context, id string) (*domain.Prompt, error) {
	defer r.s.lockIfRoot()()
	st := r.s.cur()
	p, ok := st.prompts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	if a, ok := st.users[p.AuthorID]; ok {
		ca := *a
		cp.Author = &ca
	}
	return &cp, nil
}

// Update 对齐 gorm 实现：只写内容字段，计数列不受影响
func (r promptRepo) Update(_ context.Context, p *domain.Prompt) error {
	defer r.s.lockIfRoot()()
	old, ok := r.s.cur().prompts[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	old.Title = p.Title
	old.Content = p.Content
	old.Category = p.Category
	old.Tags = append(domain.StringList(nil), p.Tags...)
	old.IsPremium = p.IsPremium
	old.PricePoints = p.PricePoints
	old.UpdatedAt = time.Now()
	return nil
}

func (r promptRepo) Delete(_ context.Context, id string) error {
	defer r.s.lockIfRoot()()
	st := r.s.cur()
	if _, ok := st.prompts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.prompts, id)
	return nil
}

func (r promptRepo) IncrementViewCount(_ context.Context, id string) error {
	defer r.s.lockIfRoot()()
	p, ok := r.s.cur().prompts[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.ViewCount++
	return nil
}

func (r promptRepo) List(_ context.Context, f domain.PromptFilter) ([]domain.Prompt, int64, error) {
	defer r.s.lockIfRoot()()
	st := r.s.cur()

	var all []domain.Prompt
	for _, p := range st.prompts {
		if !matches(p, f) {
			continue
		}
		cp := *p
		if a, ok := st.users[p.AuthorID]; ok {
			ca := *a
			cp.Author = &ca
		}
		all = append(all, cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, f.Offset, f.Limit), int64(len(all)), nil
}

// matches 对齐 SQL 端语义：标题/正文不区分大小写包含，tags 精确成员
func matches(p *domain.Prompt, f domain.PromptFilter) bool {
	if f.AuthorID != "" && p.AuthorID != f.AuthorID {
		return false
	}
	if f.Category != "" && f.Category != "all" && p.Category != f.Category {
		return false
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		ls := strings.ToLower(s)
		if !strings.Contains(strings.ToLower(p.Title), ls) &&
			!strings.Contains(strings.ToLower(p.Content), ls) &&
			!p.Tags.Contains(s) {
			return false
		}
	}
	return true
}

/* ---------- transactions ---------- */

type txRepo struct{ s *Store }

func (r txRepo) Create(_ context.Context, t *domain.PointTransaction) error {
	defer r.s.lockIfRoot()()
	st := r.s.cur()
	if t.ID == "" {
		t.ID = utils.NewID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	ct := *t
	st.transactions = append(st.transactions, &ct)
	return nil
}

func (r txRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]domain.PointTransaction, int64, error) {
	defer r.s.lockIfRoot()()
	var all []domain.PointTransaction
	for _, t := range r.s.cur().transactions {
		if t.UserID == userID {
			all = append(all, *t)
		}
	}
	// 流水按追加序记录，倒序返回最新在前
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return page(all, offset, limit), int64(len(all)), nil
}

func (r txRepo) SumByUser(_ context.Context, userID string) (int64, error) {
	defer r.s.lockIfRoot()()
	var sum int64
	for _, t := range r.s.cur().transactions {
		if t.UserID == userID {
			sum += int64(t.Amount)
		}
	}
	return sum, nil
}

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
