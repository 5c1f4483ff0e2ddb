package service

import (
	"context"
	"errors"

	"staymi/internal/accounts/repository"
	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/logger"
	"staymi/pkg/model"
)

// UserStatus checks that the user behind a still valid token may act. Tokens
// outlive account changes, so checkout and subscribe look the account up again.
type UserStatus struct {
	users repository.UserRepository
	log   *logger.Logger
}

func NewUserStatus(users repository.UserRepository, log *logger.Logger) *UserStatus {
	return &UserStatus{users: users, log: log}
}

func (s *UserStatus) EnsureActive(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) || errors.Is(err, mongodb.ErrInvalidID) {
			s.log.Ctx(ctx).Warn("Token used by a removed account", "user_id", userID)
			return apperrors.Unauthorized("Account no longer exists")
		}
		return repoError(ctx, s.log, err, "User", userID)
	}
	if user.Status == model.UserStatusDisabled {
		s.log.Ctx(ctx).Warn("Disabled user attempted a purchase", "user_id", userID)
		return apperrors.Forbidden("Account is disabled")
	}
	return nil
}
