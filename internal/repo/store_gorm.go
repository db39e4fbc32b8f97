package repo

import (
	"context"

	"gorm.io/gorm"

	"prompthub/internal/domain"
)

// GormStore 聚合仓库的 gorm 实现；WithTx 用 gorm 事务包住回调内的所有写入
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) Users() domain.UserRepository               { return &UserRepo{db: s.db} }
func (s *GormStore) Prompts() domain.PromptRepository           { return &PromptRepo{db: s.db} }
func (s *GormStore) Transactions() domain.TransactionRepository { return &TransactionRepo{db: s.db} }

func (s *GormStore) WithTx(ctx context.Context, fn func(domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// AutoMigrate 建表/补列
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&domain.User{},
		&domain.Prompt{},
		&domain.PointTransaction{},
	)
}
