package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringList tags 的存储形式：JSON 数组序列化进 text 列，兼容 mysql/postgres
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("invalid scan source for StringList")
	}
	if len(b) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(b, l)
}

// Contains 精确匹配成员（区分大小写）
func (l StringList) Contains(s string) bool {
	for _, t := range l {
		if t == s {
			return true
		}
	}
	return false
}

type Prompt struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Category    string     `gorm:"size:64;index" json:"category"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	IsPremium   bool       `gorm:"default:false" json:"isPremium"`
	PricePoints int        `gorm:"default:0" json:"pricePoints"`
	ViewCount   int        `gorm:"default:0" json:"viewCount"`
	Likes       int        `gorm:"default:0" json:"likes"`
	Downloads   int        `gorm:"default:0" json:"downloads"`

	AuthorID string `gorm:"size:36;index;not null" json:"authorId"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Prompt) TableName() string { return "prompts" }

// PromptFilter 列表查询条件；Category == "" 或 "all" 表示不过滤
type PromptFilter struct {
	Search   string
	Category string
	AuthorID string
	Offset   int
	Limit    int
}

type PromptRepository interface {
	Create(ctx context.Context, p *Prompt) error
	// FindByID 带作者信息返回；不存在时返回 ErrNotFound
	FindByID(ctx context.Context, id string) (*Prompt, error)
	Update(ctx context.Context, p *Prompt) error
	Delete(ctx context.Context, id string) error
	// IncrementViewCount 数据库端原子 +1
	IncrementViewCount(ctx context.Context, id string) error
	// List 按创建时间倒序分页，返回本页记录与总数
	List(ctx context.Context, f PromptFilter) ([]Prompt, int64, error)
}
