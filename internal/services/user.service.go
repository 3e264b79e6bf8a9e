package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/internal/repository"
)

type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

// Search backs the admin user picker: at most 50 users by email.
func (s *UserService) Search(ctx context.Context, query string) ([]*model.User, error) {
	users, err := s.users.Search(ctx, model.UserFilter{
		Query: strings.TrimSpace(query),
		Limit: model.DefaultUserSearchLimit,
	})
	if err != nil {
		return nil, persistence("search users", err)
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

// Profile reads the user row as it is now, including the cached balance.
func (s *UserService) Profile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, persistence("get user", err)
	}
	return user, nil
}
