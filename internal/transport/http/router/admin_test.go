package router

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prompthub/internal/core/auth"
	"prompthub/internal/domain"
	"prompthub/internal/repo/memory"
	"prompthub/internal/service"
	"prompthub/internal/transport/http/handler"
)

func newAdminFixture(t *testing.T) (*gin.Engine, *memory.Store, *auth.JWTer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	st := memory.NewStore()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	r := NewAdminEngine(log, jwter, handler.NewAdminHandler(service.NewUserService(st, log), log))
	return r, st, jwter
}

func TestAdminRequiresRole(t *testing.T) {
	r, _, jwter := newAdminFixture(t)

	w, _ := do(t, r, http.MethodGet, "/admin/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	userTok, err := jwter.Issue("u1", "user@x.io", "user")
	require.NoError(t, err)
	w, _ = do(t, r, http.MethodGet, "/admin/v1/users", userTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminListBanAudit(t *testing.T) {
	r, st, jwter := newAdminFixture(t)
	ctx := context.Background()

	u := &domain.User{Email: "member@x.io", Name: "member"}
	require.NoError(t, st.Users().Create(ctx, u))

	adminTok, err := jwter.Issue("a1", "admin@x.io", "admin")
	require.NoError(t, err)

	w, out := do(t, r, http.MethodGet, "/admin/v1/users", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, out["total"])

	w, out = do(t, r, http.MethodGet, "/admin/v1/users/"+u.ID+"/transactions", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := out["report"].(map[string]any)
	assert.Equal(t, true, report["consistent"])

	w, _ = do(t, r, http.MethodPost, "/admin/v1/users/"+u.ID+"/ban", adminTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodPost, "/admin/v1/users/"+u.ID+"/ban", adminTok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
