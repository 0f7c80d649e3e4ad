package service

import (
	"ai_learn_backend/internal/config"
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/repository"
	"ai_learn_backend/internal/testutil"
	"ai_learn_backend/internal/util"
	"ai_learn_backend/pkg/cache"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	db := testutil.NewDB(t)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}
	return NewAuthService(repository.NewUserRepository(db), cache.NewMemoryCache(), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
	assert.NotEqual(t, "correct-horse", user.Password)

	_, err = svc.Register(ctx, RegisterRequest{Username: "alice", Password: "another-pass"})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	result, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	require.NotNil(t, result.User.LastLogin)

	claims, err := util.ParseJWT(result.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "correct-horse")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	result, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	claims, err := util.ParseJWT(result.Token, "test-secret")
	require.NoError(t, err)

	revoked, err := svc.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Logout(ctx, claims))

	revoked, err = svc.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestChangeRole(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Username: "bob", Password: "correct-horse"})
	require.NoError(t, err)

	admin := &util.Claims{UserID: 99, Role: model.Admin}
	teacher := &util.Claims{UserID: 98, Role: model.Teacher}

	_, err = svc.ChangeRole(ctx, teacher, user.ID, model.Teacher)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.ChangeRole(ctx, admin, user.ID, model.UserRole("owner"))
	assert.ErrorIs(t, err, util.ErrInvalidRole)

	_, err = svc.ChangeRole(ctx, admin, 12345, model.Teacher)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	updated, err := svc.ChangeRole(ctx, admin, user.ID, model.Teacher)
	require.NoError(t, err)
	assert.Equal(t, model.Teacher, updated.Role)
	assert.True(t, updated.Role.Grants(model.Teacher))
	assert.False(t, updated.Role.Grants(model.Admin))
}
