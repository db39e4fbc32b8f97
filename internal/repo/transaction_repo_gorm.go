package repo

import (
	"context"

	"gorm.io/gorm"

	"prompthub/internal/domain"
)

// TransactionRepo 积分流水仓库。只追加：没有更新/删除方法
type TransactionRepo struct{ db *gorm.DB }

func NewTransactionRepo(db *gorm.DB) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Create(ctx context.Context, t *domain.PointTransaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]domain.PointTransaction, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.PointTransaction{}).Where("user_id = ?", userID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []domain.PointTransaction
	if err := tx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *TransactionRepo) SumByUser(ctx context.Context, userID string) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&domain.PointTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
