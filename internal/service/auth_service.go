package service

import (
	"ai_learn_backend/internal/config"
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/repository"
	"ai_learn_backend/internal/util"
	"ai_learn_backend/pkg/cache"
	"ai_learn_backend/pkg/logger"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cache    cache.Cache
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, c cache.Cache, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cache:    c,
		Cfg:      cfg,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	exists, err := s.UserRepo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     model.Student,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.UserRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.Log.Warn("failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	user.LastLogin = &now

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.Cfg.JWT.ExpireTime),
		User:      user,
	}, nil
}

// Logout 将令牌 jti 加入黑名单，直到令牌本身过期
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return s.Cache.Set(ctx, util.RevokedTokenKey+claims.ID, []byte("1"), ttl)
}

func (s *AuthService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return s.Cache.Exists(ctx, util.RevokedTokenKey+tokenID)
}

func (s *AuthService) CurrentUser(ctx context.Context, claims *util.Claims) (*model.User, error) {
	if claims == nil {
		return nil, util.ErrUserNotFound
	}
	return s.UserRepo.FindByID(ctx, claims.UserID)
}

// ChangeRole 仅管理员可修改角色；已签发的令牌在过期前仍带旧角色
func (s *AuthService) ChangeRole(ctx context.Context, actor *util.Claims, userID uint, role model.UserRole) (*model.User, error) {
	if actor == nil || actor.Role != model.Admin {
		return nil, util.ErrPermissionDenied
	}
	if !role.Valid() {
		return nil, util.ErrInvalidRole
	}
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.UserRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}
	user.Role = role
	logger.Log.Info("user role changed",
		zap.Uint("user_id", userID),
		zap.String("role", string(role)),
		zap.Uint("by", actor.UserID),
	)
	return user, nil
}
