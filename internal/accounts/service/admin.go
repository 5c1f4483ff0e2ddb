package service

import (
	"context"
	"errors"

	"staymi/internal/accounts/validator"
	"staymi/pkg/auth"
	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/model"
	"staymi/pkg/sanitizer"
	"staymi/pkg/validation"
)

type AdminService interface {
	ListAdmins(ctx context.Context, limit int, offset int64) ([]*model.AdminUser, int64, error)
	CreateAdmin(ctx context.Context, req *model.CreateAdminRequest) (*model.AdminUser, error)
	DeleteAdmin(ctx context.Context, principal *auth.Principal, id string) error

	ListUsers(ctx context.Context, search string, limit int, offset int64) ([]*model.User, int64, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
	SetUserStatus(ctx context.Context, id string, update *model.UserStatusUpdate) (*model.User, error)

	ListStoreUsers(ctx context.Context, search string, limit int, offset int64) ([]*model.StoreUser, int64, error)

	// BootstrapAdmin creates the first admin unless one with that e-mail exists.
	BootstrapAdmin(ctx context.Context, email, password string) (bool, error)
}

type adminService struct {
	repos     AuthRepositories
	validator *validator.AccountValidator
	cfg       *config.Config
}

func NewAdminService(repos AuthRepositories, validator *validator.AccountValidator, cfg *config.Config) AdminService {
	return &adminService{
		repos:     repos,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *adminService) ListAdmins(ctx context.Context, limit int, offset int64) ([]*model.AdminUser, int64, error) {
	admins, total, err := s.repos.Admins.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, repoError(ctx, s.cfg.Log, err, "Admin", "")
	}
	return admins, total, nil
}

func (s *adminService) CreateAdmin(ctx context.Context, req *model.CreateAdminRequest) (*model.AdminUser, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Name = sanitizer.NormalizeName(req.Name)

	if err := s.validator.ValidateCreateAdmin(req); err != nil {
		return nil, validation.ToAppError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to create admin", err)
	}

	admin := &model.AdminUser{Email: req.Email, PasswordHash: hash, Name: req.Name}
	if err := s.repos.Admins.Create(ctx, admin); err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Admin", "")
	}

	s.cfg.Log.Ctx(ctx).Info("Admin created", "admin_id", admin.ID)
	return admin, nil
}

func (s *adminService) DeleteAdmin(ctx context.Context, principal *auth.Principal, id string) error {
	if principal.ID == id {
		return apperrors.Forbidden("Admins cannot delete their own account")
	}
	if err := s.repos.Admins.Delete(ctx, id); err != nil {
		return repoError(ctx, s.cfg.Log, err, "Admin", id)
	}
	s.cfg.Log.Ctx(ctx).Info("Admin deleted", "admin_id", id, "by", principal.ID)
	return nil
}

func (s *adminService) ListUsers(ctx context.Context, search string, limit int, offset int64) ([]*model.User, int64, error) {
	users, total, err := s.repos.Users.FindAll(ctx, sanitizer.TrimAndNormalize(search), limit, offset)
	if err != nil {
		return nil, 0, repoError(ctx, s.cfg.Log, err, "User", "")
	}
	return users, total, nil
}

func (s *adminService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repos.Users.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "User", id)
	}
	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repos.Users.Delete(ctx, id); err != nil {
		return repoError(ctx, s.cfg.Log, err, "User", id)
	}
	s.cfg.Log.Ctx(ctx).Info("User deleted", "user_id", id)
	return nil
}

func (s *adminService) SetUserStatus(ctx context.Context, id string, update *model.UserStatusUpdate) (*model.User, error) {
	if err := s.validator.ValidateStatus(update); err != nil {
		return nil, validation.ToAppError(err)
	}
	if err := s.repos.Users.SetStatus(ctx, id, update.Status); err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "User", id)
	}

	s.cfg.Log.Ctx(ctx).Info("User status changed", "user_id", id, "status", update.Status)
	return s.GetUser(ctx, id)
}

func (s *adminService) ListStoreUsers(ctx context.Context, search string, limit int, offset int64) ([]*model.StoreUser, int64, error) {
	users, total, err := s.repos.StoreUsers.FindAll(ctx, sanitizer.TrimAndNormalize(search), limit, offset)
	if err != nil {
		return nil, 0, repoError(ctx, s.cfg.Log, err, "Store user", "")
	}
	return users, total, nil
}

func (s *adminService) BootstrapAdmin(ctx context.Context, email, password string) (bool, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	_, err := s.repos.Admins.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, mongodb.ErrNotFound) {
		return false, err
	}

	if _, err := s.CreateAdmin(ctx, &model.CreateAdminRequest{Email: email, Password: password, Name: "Administrator"}); err != nil {
		return false, err
	}
	return true, nil
}
