package points

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompthub/internal/domain"
)

func TestPlanCreationFree(t *testing.T) {
	plan, err := PlanCreation(0, false, "Hello")
	require.NoError(t, err)

	assert.Equal(t, RewardFree, plan.Earned)
	assert.Equal(t, 0, plan.Spent)
	assert.Equal(t, RewardFree, plan.Net())

	require.Len(t, plan.Entries, 1)
	assert.Equal(t, domain.TxEarned, plan.Entries[0].Type)
	assert.Equal(t, RewardFree, plan.Entries[0].Amount)
	assert.Equal(t, "Created free prompt: Hello", plan.Entries[0].Description)
}

func TestPlanCreationPremium(t *testing.T) {
	plan, err := PlanCreation(PremiumThreshold, true, "Pro tips")
	require.NoError(t, err)

	assert.Equal(t, RewardPremium, plan.Earned)
	assert.Equal(t, PremiumFee, plan.Spent)
	assert.Equal(t, 5, plan.Net())

	require.Len(t, plan.Entries, 2)
	assert.Equal(t, domain.TxEarned, plan.Entries[0].Type)
	assert.Equal(t, RewardPremium, plan.Entries[0].Amount)
	assert.Equal(t, "Created premium prompt: Pro tips", plan.Entries[0].Description)
	assert.Equal(t, domain.TxSpent, plan.Entries[1].Type)
	assert.Equal(t, -PremiumFee, plan.Entries[1].Amount)
	assert.Equal(t, "Premium prompt creation fee", plan.Entries[1].Description)
}

func TestPlanCreationInsufficientBalance(t *testing.T) {
	for _, balance := range []int{0, 3, PremiumThreshold - 1} {
		plan, err := PlanCreation(balance, true, "x")
		require.ErrorIs(t, err, domain.ErrInsufficientPoints)
		assert.Zero(t, plan.Earned)
		assert.Zero(t, plan.Spent)
		assert.Empty(t, plan.Entries)
	}
}

func TestPlanCreationThresholdBoundary(t *testing.T) {
	// 恰好等于门槛时放行
	_, err := PlanCreation(PremiumThreshold, true, "x")
	assert.NoError(t, err)
}

func TestPlanNetMatchesEntrySum(t *testing.T) {
	for _, premium := range []bool{false, true} {
		plan, err := PlanCreation(100, premium, "t")
		require.NoError(t, err)
		sum := 0
		for _, e := range plan.Entries {
			sum += e.Amount
		}
		assert.Equal(t, plan.Net(), sum)
	}
}
