package service

import (
	"Folio/internal/api/dto"
	"Folio/internal/model"
	"Folio/internal/pkg/policy"
	"Folio/internal/pkg/redis"
	"Folio/internal/pkg/security"
	"Folio/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, regDTO *dto.RegisterDTO) (*dto.UserDTO, error)
	Login(ctx context.Context, credential *dto.CredentialDTO) (*dto.LoginDTO, error)
	Logout(ctx context.Context, session *policy.Session) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	Authenticate(ctx context.Context, token string) (*policy.Session, error)
	CreateAdmin(ctx context.Context, regDTO *dto.RegisterDTO) (*dto.UserDTO, error)
}

type UserServiceImpl struct {
	userRepo   repository.UserRepo
	issuer     *security.TokenIssuer
	tokenStore redis.TokenStore
}

func NewUserService(userRepo repository.UserRepo, issuer *security.TokenIssuer, tokenStore redis.TokenStore) UserService {
	return &UserServiceImpl{
		userRepo:   userRepo,
		issuer:     issuer,
		tokenStore: tokenStore,
	}
}

func toUserDTO(user *model.User) (*dto.UserDTO, error) {
	userDTO := &dto.UserDTO{}
	if err := copier.Copy(userDTO, user); err != nil {
		return nil, err
	}
	return userDTO, nil
}

func normalizeRegistration(regDTO *dto.RegisterDTO) {
	regDTO.Username = strings.TrimSpace(regDTO.Username)
	regDTO.Email = strings.ToLower(strings.TrimSpace(regDTO.Email))
}

func (s *UserServiceImpl) createUser(ctx context.Context, regDTO *dto.RegisterDTO, role model.Role) (*model.User, error) {
	normalizeRegistration(regDTO)
	if regDTO.Username == "" {
		return nil, Validation("Username is required")
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, regDTO.Username, regDTO.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExist
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: regDTO.Username,
		Email:    regDTO.Email,
		Password: passwordHash,
		Role:     role,
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		// 并发注册同名用户
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExist
		}
		return nil, err
	}
	return user, nil
}

// Register 新用户固定为普通角色
func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) (*dto.UserDTO, error) {
	user, err := s.createUser(ctx, regDTO, model.RoleUser)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "user registered", "user_id", user.ID)
	return toUserDTO(user)
}

func (s *UserServiceImpl) Login(ctx context.Context, credential *dto.CredentialDTO) (*dto.LoginDTO, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(credential.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err = security.CheckPasswordHash(credential.Password, user.Password); err != nil {
		if errors.Is(err, security.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, expiresAt, err := s.issuer.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}
	userDTO, err := toUserDTO(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginDTO{Token: token, ExpiresAt: expiresAt, User: userDTO}, nil
}

// Logout 将签名加入黑名单直到 Token 自然过期
func (s *UserServiceImpl) Logout(ctx context.Context, session *policy.Session) error {
	if session == nil || session.Signature == "" {
		return ErrUnauthenticated
	}
	return s.tokenStore.Revoke(ctx, session.Signature, time.Until(session.ExpiresAt))
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user)
}

// Authenticate 解析 Token 并以数据库中的用户角色构造会话
func (s *UserServiceImpl) Authenticate(ctx context.Context, token string) (*policy.Session, error) {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	revoked, err := s.tokenStore.IsRevoked(ctx, signature)
	if err != nil {
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenInvalid
	}

	claims, err := s.issuer.ValidateToken(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := s.userRepo.GetUserById(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrTokenInvalid
	}

	return &policy.Session{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		ExpiresAt: claims.ExpiresAt.Time,
		Signature: signature,
	}, nil
}

// CreateAdmin 创建管理员；邮箱已存在时将该用户提升为管理员
func (s *UserServiceImpl) CreateAdmin(ctx context.Context, regDTO *dto.RegisterDTO) (*dto.UserDTO, error) {
	normalizeRegistration(regDTO)
	existing, err := s.userRepo.GetUserByEmail(ctx, regDTO.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err = s.userRepo.UpdateUserRole(ctx, existing.ID, model.RoleAdmin); err != nil {
			return nil, err
		}
		existing.Role = model.RoleAdmin
		log.InfoContext(ctx, "user promoted to admin", "user_id", existing.ID)
		return toUserDTO(existing)
	}

	user, err := s.createUser(ctx, regDTO, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "admin created", "user_id", user.ID)
	return toUserDTO(user)
}
