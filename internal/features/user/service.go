package user

import (
	"context"
	"fmt"

	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/features/store"
	"go-telecrm/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	CreateUser(ctx context.Context, user *User, password string) error
	Login(ctx context.Context, username, password string) (string, *User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

type UserServiceImpl struct {
	Repo UserRepository
}

func NewUserService(repo UserRepository) UserService {
	return &UserServiceImpl{Repo: repo}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, user *User, password string) error {
	if user.Username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}

	switch user.Role {
	case common_models.RoleAdmin, common_models.RoleAgent:
	case common_models.RoleTelecaller:
		user.Store = store.Normalize(user.Store)
		if user.Store == "" {
			return fmt.Errorf("telecaller users need a store")
		}
	default:
		return fmt.Errorf("unknown role %q", user.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	user.IsActive = true

	return s.Repo.Create(ctx, user)
}

// Login verifies credentials and issues a JWT carrying role and store.
func (s *UserServiceImpl) Login(ctx context.Context, username, password string) (string, *User, error) {
	user, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}
	if !user.IsActive {
		return "", nil, fmt.Errorf("account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID, user.Role, user.Store)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]User, error) {
	return s.Repo.List(ctx)
}
