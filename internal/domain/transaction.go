package domain

import (
	"context"
	"time"
)

// 交易类型
const (
	TxEarned = "EARNED"
	TxSpent  = "SPENT"
)

// PointTransaction 积分流水，只追加：仓库接口刻意不提供更新/删除
type PointTransaction struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;index;not null" json:"userId"`
	Amount      int       `gorm:"not null" json:"amount"` // 有符号：正=获得，负=消耗
	Type        string    `gorm:"size:16;not null" json:"type"`
	Description string    `gorm:"size:255" json:"description"`
	Reference   string    `gorm:"size:36;index" json:"reference"` // 关联 prompt id
	CreatedAt   time.Time `json:"createdAt"`
}

func (PointTransaction) TableName() string { return "point_transactions" }

type TransactionRepository interface {
	Create(ctx context.Context, t *PointTransaction) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]PointTransaction, int64, error)
	// SumByUser 全量流水求和，用于核对余额一致性
	SumByUser(ctx context.Context, userID string) (int64, error)
}

// Store 聚合仓库入口；WithTx 内的所有操作要么全部落库要么全部回滚
type Store interface {
	Users() UserRepository
	Prompts() PromptRepository
	Transactions() TransactionRepository
	WithTx(ctx context.Context, fn func(Store) error) error
}
