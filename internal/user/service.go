// FrancescoMazzola | 2026
// service.go

package user

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	user := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(req.Email),
		Name:         req.Name,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}
