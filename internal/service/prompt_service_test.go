package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prompthub/internal/domain"
	"prompthub/internal/points"
	"prompthub/internal/repo/memory"
)

func newFixture(t *testing.T) (*memory.Store, *PromptService) {
	t.Helper()
	st := memory.NewStore()
	return st, NewPromptService(st, zap.NewNop())
}

func seedUser(t *testing.T, st *memory.Store, email string, balance int) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, Name: "tester", Points: balance}
	require.NoError(t, st.Users().Create(context.Background(), u))
	return u
}

func freeInput(title string) CreatePromptInput {
	return CreatePromptInput{Title: title, Content: "some content", Category: "writing"}
}

func premiumInput(title string) CreatePromptInput {
	in := freeInput(title)
	in.IsPremium = true
	in.PricePoints = 20
	return in
}

func TestCreateFreePrompt(t *testing.T) {
	st, svc := newFixture(t)
	ctx := context.Background()
	u := seedUser(t, st, "a@x.io", 0)

	p, err := svc.Create(ctx, u.Email, freeInput("My first prompt"))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, u.ID, p.AuthorID)
	require.NotNil(t, p.Author)
	assert.Equal(t, u.Email, p.Author.Email)

	got, err := st.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Points)
	assert.Equal(t, 5, got.TotalEarned)
	assert.Zero(t, got.TotalSpent)

	txs, total, err := st.Transactions().ListByUser(ctx, u.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TxEarned, txs[0].Type)
	assert.Equal(t, 5, txs[0].Amount)
	assert.Equal(t, p.ID, txs[0].Reference)
	assert.Equal(t, "Created free prompt: My first prompt", txs[0].Description)
}

func TestCreatePremiumPrompt(t *testing.T) {
	st, svc := newFixture(t)
	ctx := context.Background()
	u := seedUser(t, st, "a@x.io", 10)

	p, err := svc.Create(ctx, u.Email, premiumInput("Pro prompt"))
	require.NoError(t, err)
	assert.True(t, p.IsPremium)

	got, err := st.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Points) // 10 + 15 - 10
	assert.Equal(t, 15, got.TotalEarned)
	assert.Equal(t, 10, got.TotalSpent)

	txs, total, err := st.Transactions().ListByUser(ctx, u.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	// 最新在前：SPENT 后写，排前面
	assert.Equal(t, domain.TxSpent, txs[0].Type)
	assert.Equal(t, -10, txs[0].Amount)
	assert.Equal(t, domain.TxEarned, txs[1].Type)
	assert.Equal(t, 15, txs[1].Amount)
	for _, tx := range txs {
		assert.Equal(t, p.ID, tx.Reference)
	}
}

func TestCreatePremiumInsufficientBalanceHasNoEffect(t *testing.T) {
	st, svc := newFixture(t)
	ctx := context.Background()
	u := seedUser(t, st, "b@x.io", 3)

	_, err := svc.Create(ctx, u.Email, premiumInput("Nope"))
	require.ErrorIs(t, err, domain.ErrInsufficientPoints)

	// 无任何部分写入：余额不变、零流水、零内容
	got, err := st.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Points)
	assert.Zero(t, got.TotalEarned)

	sum, err := st.Transactions().SumByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, sum)

	_, pg, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Zero(t, pg.TotalCount)
}

func TestScenarioFreeThenPremium(t *testing.T) {
	st, svc := newFixture(t)
	ctx := context.Background()
	u := seedUser(t, st, "a@x.io", 5)

	_, err := svc.Create(ctx, u.Email, freeInput("free one"))
	require.NoError(t, err)
	got, _ := st.Users().FindByID(ctx, u.ID)
	assert.Equal(t, 10, got.Points)

	_, err = svc.Create(ctx, u.Email, premiumInput("premium one"))
	require.NoError(t, err)
	got, _ = st.Users().FindByID(ctx, u.ID)
	assert.Equal(t, 15, got.Points)

	_, total, err := st.Transactions().ListByUser(ctx, u.ID, 0, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestBalanceEqualsLedgerSum(t *testing.T) {
	st, svc := newFixture(t)
	ctx := context.Background()
	u := seedUser(t, st, "a@x.io", 0)

	for i := 0; i < 4; i++ {
		_, err := svc.Create(ctx, u.Email, freeInput(fmt.Sprintf("free %d", i)))
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, u.Email, premiumInput("premium"))
	require.NoError(t, err)
	// 一次被拒的付费创建不应破坏等式
	poor := seedUser(t, st, "poor@x.io", 0)
	_, err = svc.Create(ctx, poor.Email, premiumInput("rejected"))
	require.ErrorIs(t, err, domain.ErrInsufficientPoints)

	for _, id := range []string{u.ID, poor.ID} {
		got, err := st.Users().FindByID(ctx, id)
		require.NoError(t, err)
		sum, err := st.Transactions().SumByUser(ctx, id)
		require.NoError(t, err)
		assert.EqualValues(t, got.Points, sum, "points must equal ledger sum for %s", id)
	}
}

func TestCreateValidation(t *testing.T) {
	st, svc := newFixture(t)
	ctx := context.Background()
	u := seedUser(t, st, "a@x.io", 0)

	_, err := svc.Create(ctx, "", freeInput("x"))
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Create(ctx, "ghost@x.io", freeInput("x"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, in := range []CreatePromptInput{
		{Content: "c", Category: "writing"},
		{Title: "t", Category: "writing"},
		{Title: "t", Content: "c"},
	} {
		_, err = svc.Create(ctx, u.Email, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}

	// 校验失败不产生流水
	sum, err := st.Transactions().SumByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func TestUpdateAuthorization(t *testing.T) {
	st, svc := newFixture(t)
	ctx := context.Background()
	owner := seedUser(t, st, "owner@x.io", 0)
	seedUser(t, st, "other@x.io", 0)

	p, err := svc.Create(ctx, owner.Email, freeInput("mine"))
	require.NoError(t, err)

	in := freeInput("hacked")
	_, err = svc.Update(ctx, "other@x.io", p.ID, in)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = svc.Update(ctx, "", p.ID, in)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Update(ctx, owner.Email, "missing-id", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// 邮箱精确匹配，大小写不同视为他人
	_, err = svc.Update(ctx, "Owner@x.io", p.ID, in)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	up := freeInput("renamed")
	up.Tags = []string{"a"}
	got, err := svc.Update(ctx, owner.Email, p.ID, up)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, domain.StringList{"a"}, got.Tags)
}

func TestDeleteAuthorization(t *testing.T) {
	st, svc := newFixture(t)
	ctx := context.Background()
	owner := seedUser(t, st, "owner@x.io", 0)
	seedUser(t, st, "other@x.io", 0)

	p, err := svc.Create(ctx, owner.Email, freeInput("mine"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "other@x.io", p.ID), domain.ErrNotAuthorized)
	assert.ErrorIs(t, svc.Delete(ctx, "", p.ID), domain.ErrUnauthenticated)
	assert.ErrorIs(t, svc.Delete(ctx, owner.Email, "missing-id"), domain.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, owner.Email, p.ID))
	_, err = svc.Get(ctx, p.ID, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// 删除不回滚积分，流水保持只追加
	sum, err := st.Transactions().SumByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, sum)
}

func TestViewCountIncrements(t *testing.T) {
	st, svc := newFixture(t)
	ctx := context.Background()
	owner := seedUser(t, st, "a@x.io", 0)

	p, err := svc.Create(ctx, owner.Email, freeInput("views"))
	require.NoError(t, err)
	assert.Zero(t, p.ViewCount)

	for i := 1; i <= 3; i++ {
		got, err := svc.Get(ctx, p.ID, true)
		require.NoError(t, err)
		assert.Equal(t, i, got.ViewCount)
	}
	// 不计数读取不会 +1
	got, err := svc.Get(ctx, p.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ViewCount)
}

func TestListPaginationAndCategoryAll(t *testing.T) {
	st, svc := newFixture(t)
	ctx := context.Background()
	u := seedUser(t, st, "a@x.io", 0)

	for i := 0; i < 12; i++ {
		in := freeInput(fmt.Sprintf("prompt %02d", i))
		if i%2 == 0 {
			in.Category = "coding"
		}
		_, err := svc.Create(ctx, u.Email, in)
		require.NoError(t, err)
	}

	list, pg, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 10) // 默认页大小
	assert.EqualValues(t, 12, pg.TotalCount)
	assert.Equal(t, 2, pg.TotalPages)
	assert.Equal(t, 1, pg.CurrentPage)

	list2, pg2, err := svc.List(ctx, ListQuery{Page: 2})
	require.NoError(t, err)
	assert.Len(t, list2, 2)
	assert.Equal(t, 2, pg2.CurrentPage)

	// category=all 等价于不传
	all, pgAll, err := svc.List(ctx, ListQuery{Category: "all"})
	require.NoError(t, err)
	none, pgNone, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, pgNone.TotalCount, pgAll.TotalCount)
	require.Equal(t, len(none), len(all))
	for i := range all {
		assert.Equal(t, none[i].ID, all[i].ID)
	}

	_, pgCoding, err := svc.List(ctx, ListQuery{Category: "coding"})
	require.NoError(t, err)
	assert.EqualValues(t, 6, pgCoding.TotalCount)

	// 无命中返回空序列而非错误
	empty, pgEmpty, err := svc.List(ctx, ListQuery{Search: "zzz-no-match"})
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Zero(t, pgEmpty.TotalCount)
}

func TestListByAuthor(t *testing.T) {
	st, svc := newFixture(t)
	ctx := context.Background()
	a := seedUser(t, st, "a@x.io", 0)
	b := seedUser(t, st, "b@x.io", 0)

	_, err := svc.Create(ctx, a.Email, freeInput("by a"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, b.Email, freeInput("by b"))
	require.NoError(t, err)

	list, pg, err := svc.ListByAuthor(ctx, a.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].AuthorID)
	assert.EqualValues(t, 1, pg.TotalCount)

	_, _, err = svc.ListByAuthor(ctx, "missing-user", 1, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPremiumThresholdBoundary(t *testing.T) {
	st, svc := newFixture(t)
	ctx := context.Background()
	u := seedUser(t, st, "a@x.io", points.PremiumThreshold)

	_, err := svc.Create(ctx, u.Email, premiumInput("exactly at threshold"))
	assert.NoError(t, err)
}
