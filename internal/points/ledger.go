// Package points 实现积分账本规则：内容创建事件如何变动余额、产生哪些流水。
// 计算是纯函数，落库由 service 层在单个事务内完成。
package points

import (
	"fmt"

	"prompthub/internal/domain"
)

// 奖励/扣费常量
const (
	RewardFree       = 5  // 免费 prompt 创建奖励
	RewardPremium    = 15 // 付费 prompt 创建奖励
	PremiumFee       = 10 // 付费 prompt 创建手续费
	PremiumThreshold = 10 // 创建付费 prompt 的最低余额
)

// Entry 一条待写入的流水（Reference 由调用方在拿到 prompt id 后回填）
type Entry struct {
	Amount      int
	Type        string
	Description string
}

// Plan 一次创建事件的完整账本变动
type Plan struct {
	Earned  int
	Spent   int
	Entries []Entry
}

// Net 余额净变动
func (p Plan) Net() int { return p.Earned - p.Spent }

// Delta 转成用户计数增量
func (p Plan) Delta() domain.PointsDelta {
	return domain.PointsDelta{
		Points:      p.Net(),
		TotalEarned: p.Earned,
		TotalSpent:  p.Spent,
	}
}

// PlanCreation 计算一次 prompt 创建的账本变动。
// premium 且余额低于门槛时返回 ErrInsufficientPoints，不产生任何变动。
func PlanCreation(balance int, premium bool, title string) (Plan, error) {
	if premium && balance < PremiumThreshold {
		return Plan{}, fmt.Errorf("%w: premium prompt requires %d points, balance %d",
			domain.ErrInsufficientPoints, PremiumThreshold, balance)
	}

	kind := "free"
	earned := RewardFree
	spent := 0
	if premium {
		kind = "premium"
		earned = RewardPremium
		spent = PremiumFee
	}

	plan := Plan{
		Earned: earned,
		Spent:  spent,
		Entries: []Entry{{
			Amount:      earned,
			Type:        domain.TxEarned,
			Description: fmt.Sprintf("Created %s prompt: %s", kind, title),
		}},
	}
	if spent > 0 {
		plan.Entries = append(plan.Entries, Entry{
			Amount:      -spent,
			Type:        domain.TxSpent,
			Description: "Premium prompt creation fee",
		})
	}
	return plan, nil
}
