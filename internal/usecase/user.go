package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

// UserUseCase manages marketplace customers.
type UserUseCase struct {
	users repository.UserRepository
}

// NewUserUseCase constructs UserUseCase.
func NewUserUseCase(users repository.UserRepository) *UserUseCase {
	return &UserUseCase{users: users}
}

// Register creates a user with a unique, well-formed email.
func (u *UserUseCase) Register(ctx context.Context, email, name string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if !model.ValidEmail(email) {
		return nil, domainErrors.ErrInvalidEmail
	}

	return u.users.Create(ctx, model.User{
		ID:    uuid.New(),
		Email: email,
		Name:  strings.TrimSpace(name),
	})
}

func (u *UserUseCase) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

func (u *UserUseCase) List(ctx context.Context) ([]model.User, error) {
	return u.users.List(ctx)
}
