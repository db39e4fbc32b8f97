package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Email        string `gorm:"uniqueIndex;size:191" json:"email"`
	Name         string `gorm:"size:64" json:"name"`
	Image        string `gorm:"size:255" json:"image"`
	PasswordHash string `gorm:"size:100" json:"-"`
	Role         string `gorm:"size:16;default:user" json:"role"` // "user"/"admin"

	// 积分余额与累计值：只允许账本事务内的原子自增修改
	Points      int `gorm:"default:0" json:"points"`
	TotalEarned int `gorm:"default:0" json:"totalEarned"`
	TotalSpent  int `gorm:"default:0" json:"totalSpent"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// PointsDelta 一次账本事务对用户计数的增量（SQL 原子自增，禁止读改写）
type PointsDelta struct {
	Points      int
	TotalEarned int
	TotalSpent  int
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// LockByID 取行锁后读取，账本事务内用它串行化同一用户的并发创建
	LockByID(ctx context.Context, id string) (*User, error)
	ApplyPointsDelta(ctx context.Context, id string, d PointsDelta) error
	List(ctx context.Context, q string, withDeleted bool, offset, limit int) ([]User, int64, error)
	SoftDelete(ctx context.Context, id string) error
}
