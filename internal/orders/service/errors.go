package service

import (
	"context"
	"errors"

	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/logger"
)

func repoError(ctx context.Context, log *logger.Logger, err error, id string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, mongodb.ErrNotFound):
		return apperrors.NotFoundWithID("Order", id)
	case errors.Is(err, mongodb.ErrInvalidID):
		return apperrors.InvalidInput("Invalid order ID format")
	}
	log.Ctx(ctx).Error("Order operation failed", "order_id", id, "error", err)
	return apperrors.Internal("Failed to access order", err)
}

func errNotPending(status string) *apperrors.AppError {
	return apperrors.Conflict("Order is " + status).WithDetails(map[string]any{"status": status})
}
