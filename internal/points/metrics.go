package points

import "github.com/prometheus/client_golang/prometheus"

var (
	// PromptsCreated 按是否付费统计创建量
	PromptsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "prompts_created_total", Help: "Count of prompts created"},
		[]string{"premium"},
	)
	PointsEarned = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "points_earned_total", Help: "Total points earned via the ledger"},
	)
	PointsSpent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "points_spent_total", Help: "Total points spent via the ledger"},
	)
)

func init() { prometheus.MustRegister(PromptsCreated, PointsEarned, PointsSpent) }
