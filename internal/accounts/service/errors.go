package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/logger"
)

const msgInvalidCredentials = "Invalid email or password"

func repoError(ctx context.Context, log *logger.Logger, err error, resource, id string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, mongodb.ErrNotFound):
		return apperrors.NotFoundWithID(resource, id)
	case errors.Is(err, mongodb.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid %s ID format", strings.ToLower(resource)))
	case errors.Is(err, mongodb.ErrDuplicate):
		return apperrors.Conflict("Email is already registered")
	}
	log.Ctx(ctx).Error("Account operation failed", "resource", resource, "id", id, "error", err)
	return apperrors.Internal(fmt.Sprintf("Failed to access %s", strings.ToLower(resource)), err)
}
