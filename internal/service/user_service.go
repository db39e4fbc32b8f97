package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"prompthub/internal/domain"
	"prompthub/pkg/utils"
)

type UserService struct {
	store domain.Store
	log   *zap.Logger
}

func NewUserService(store domain.Store, log *zap.Logger) *UserService {
	return &UserService{store: store, log: log}
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"omitempty,max=64"` // 首次注册可带
	Image    string `json:"image" binding:"omitempty,max=255"`
}

// Login 查不到就自动注册（对齐外部身份源首次登录建档的行为）
func (s *UserService) Login(ctx context.Context, in LoginInput) (*domain.User, bool, error) {
	email := strings.TrimSpace(in.Email)

	u, err := s.store.Users().FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		name := strings.TrimSpace(in.Name)
		if name == "" {
			if at := strings.IndexByte(email, '@'); at > 0 {
				name = email[:at]
			} else {
				name = "user"
			}
		}
		nu := &domain.User{
			ID:           utils.NewID(),
			Email:        email,
			Name:         name,
			Image:        in.Image,
			PasswordHash: utils.HashPassword(in.Password),
			Role:         "user",
		}
		if e := s.store.Users().Create(ctx, nu); e != nil {
			// 并发注册兜底：唯一冲突再查一次
			if u2, e2 := s.store.Users().FindByEmail(ctx, email); e2 == nil {
				return u2, false, nil
			}
			return nil, false, e
		}
		s.log.Info("user registered", zap.String("user_id", nu.ID))
		return nu, true, nil

	case err != nil:
		return nil, false, err

	default:
		if !utils.CheckPassword(in.Password, u.PasswordHash) {
			return nil, false, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
		}
		return u, false, nil
	}
}

func (s *UserService) Profile(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.store.Users().FindByEmail(ctx, email)
}

// Transactions 本人积分流水，最新在前
func (s *UserService) Transactions(ctx context.Context, email string, page, limit int) ([]domain.PointTransaction, Pagination, error) {
	if email == "" {
		return nil, Pagination{}, domain.ErrUnauthenticated
	}
	u, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, Pagination{}, err
	}
	q := ListQuery{Page: page, Limit: limit}
	q.Normalize()
	list, total, err := s.store.Transactions().ListByUser(ctx, u.ID, (q.Page-1)*q.Limit, q.Limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	return list, paginate(total, q.Page, q.Limit), nil
}

/* ---------- 管理端 ---------- */

func (s *UserService) ListUsers(ctx context.Context, q string, withDeleted bool, offset, limit int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.Users().List(ctx, q, withDeleted, offset, limit)
}

func (s *UserService) Ban(ctx context.Context, id string) error {
	if err := s.store.Users().SoftDelete(ctx, id); err != nil {
		return err
	}
	s.log.Warn("user banned", zap.String("user_id", id))
	return nil
}

// AuditReport 流水核对结果：余额应等于全量流水之和
type AuditReport struct {
	UserID       string                    `json:"userId"`
	Balance      int                       `json:"balance"`
	LedgerSum    int64                     `json:"ledgerSum"`
	Consistent   bool                      `json:"consistent"`
	Transactions []domain.PointTransaction `json:"transactions"`
	Pagination   Pagination                `json:"pagination"`
}

// Audit 管理端审计视图：分页流水 + 余额一致性核对
func (s *UserService) Audit(ctx context.Context, userID string, page, limit int) (*AuditReport, error) {
	u, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	q := ListQuery{Page: page, Limit: limit}
	q.Normalize()
	list, total, err := s.store.Transactions().ListByUser(ctx, userID, (q.Page-1)*q.Limit, q.Limit)
	if err != nil {
		return nil, err
	}
	sum, err := s.store.Transactions().SumByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &AuditReport{
		UserID:       userID,
		Balance:      u.Points,
		LedgerSum:    sum,
		Consistent:   int64(u.Points) == sum,
		Transactions: list,
		Pagination:   paginate(total, q.Page, q.Limit),
	}, nil
}
