package usecase

import (
	"context"

	"hr-portal-backend/internal/domain"
	"hr-portal-backend/pkg/apperror"
)

type userUsecase struct {
	users domain.UserRepository
}

func NewUserUsecase(users domain.UserRepository) domain.UserUsecase {
	return &userUsecase{users: users}
}

func (u *userUsecase) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	_, role, aerr := actorFromContext(ctx)
	if aerr != nil {
		return nil, aerr
	}
	if !role.CanActForOthers() {
		return nil, apperror.Forbidden("Only hr and admin can list users")
	}

	users, err := u.users.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}
