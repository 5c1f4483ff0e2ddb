package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staymi/pkg/auth"
	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/logger"
	"staymi/pkg/validation"
)

// repoError maps repository sentinels to API errors and logs anything unexpected.
func repoError(ctx context.Context, log *logger.Logger, err error, resource, id string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, mongodb.ErrNotFound):
		return apperrors.NotFoundWithID(resource, id)
	case errors.Is(err, mongodb.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid %s ID format", strings.ToLower(resource)))
	case errors.Is(err, mongodb.ErrDuplicate):
		return apperrors.Conflict(resource + " already exists")
	}
	log.Ctx(ctx).Error("Catalog operation failed", "resource", resource, "id", id, "error", err)
	return apperrors.Internal(fmt.Sprintf("Failed to access %s", strings.ToLower(resource)), err)
}

// authorizeBrand lets admins through and stores only into their own brand.
func authorizeBrand(principal *auth.Principal, brandID string) error {
	if principal == nil {
		return apperrors.Unauthorized("Authentication required")
	}
	switch principal.Role {
	case auth.RoleAdmin:
		return nil
	case auth.RoleStore:
		if principal.BrandID != "" && principal.BrandID == brandID {
			return nil
		}
	}
	return apperrors.Forbidden("Resource belongs to another brand")
}

func invalid(ctx context.Context, log *logger.Logger, resource string, err error) error {
	log.Ctx(ctx).Warn("Catalog validation failed", "resource", resource, "error", err)
	return validation.ToAppError(err)
}
