package service

import (
	"context"
	"errors"
	"strings"

	"staymi/internal/accounts/repository"
	"staymi/internal/accounts/validator"
	catalogrepo "staymi/internal/catalog/repository"
	"staymi/pkg/auth"
	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/model"
	"staymi/pkg/sanitizer"
	"staymi/pkg/validation"

	"go.mongodb.org/mongo-driver/mongo"
)

// TokenIssuer signs access tokens for a principal.
type TokenIssuer interface {
	Issue(p auth.Principal) (*auth.Token, error)
}

type AuthService interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	Me(ctx context.Context, principal *auth.Principal) (*model.User, error)
	UpdateMe(ctx context.Context, principal *auth.Principal, updates *model.UserUpdate) (*model.User, error)

	StoreSignup(ctx context.Context, req *model.StoreSignupRequest) (*model.AuthResponse, error)
	StoreLogin(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	StoreMe(ctx context.Context, principal *auth.Principal) (*model.StoreProfile, error)

	AdminLogin(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
}

type AuthRepositories struct {
	Users      repository.UserRepository
	StoreUsers repository.StoreUserRepository
	Admins     repository.AdminUserRepository
	Brands     catalogrepo.BrandRepository
}

type authService struct {
	repos     AuthRepositories
	tokens    TokenIssuer
	txManager mongodb.TransactionManager
	validator *validator.AccountValidator
	cfg       *config.Config
}

func NewAuthService(
	repos AuthRepositories,
	tokens TokenIssuer,
	txManager mongodb.TransactionManager,
	validator *validator.AccountValidator,
	cfg *config.Config,
) AuthService {
	return &authService{
		repos:     repos,
		tokens:    tokens,
		txManager: txManager,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *authService) Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.FirstName = sanitizer.NormalizeName(req.FirstName)
	req.LastName = sanitizer.NormalizeName(req.LastName)
	req.Phone = normalizePhone(req.Phone)

	if err := s.validator.ValidateSignup(req); err != nil {
		s.cfg.Log.Ctx(ctx).Warn("Signup validation failed", "email", req.Email, "error", err)
		return nil, validation.ToAppError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to create account", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Status:       model.UserStatusActive,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "User", "")
	}

	s.cfg.Log.Ctx(ctx).Info("User signed up", "user_id", user.ID)
	return s.respond(auth.Principal{ID: user.ID, Role: auth.RoleUser}, &model.AuthResponse{User: user})
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}

	user, err := s.repos.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.loginFailure(ctx, err, req)
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, s.loginFailure(ctx, err, req)
	}
	if user.Status == model.UserStatusDisabled {
		s.cfg.Log.Ctx(ctx).Warn("Disabled user attempted login", "user_id", user.ID)
		return nil, apperrors.Forbidden("Account is disabled")
	}

	return s.respond(auth.Principal{ID: user.ID, Role: auth.RoleUser}, &model.AuthResponse{User: user})
}

func (s *authService) Me(ctx context.Context, principal *auth.Principal) (*model.User, error) {
	user, err := s.repos.Users.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "User", principal.ID)
	}
	if user.Status == model.UserStatusDisabled {
		return nil, apperrors.Forbidden("Account is disabled")
	}
	return user, nil
}

func (s *authService) UpdateMe(ctx context.Context, principal *auth.Principal, updates *model.UserUpdate) (*model.User, error) {
	user, err := s.Me(ctx, principal)
	if err != nil {
		return nil, err
	}

	if updates.FirstName != nil {
		user.FirstName = sanitizer.NormalizeName(*updates.FirstName)
		updates.FirstName = &user.FirstName
	}
	if updates.LastName != nil {
		user.LastName = sanitizer.NormalizeName(*updates.LastName)
		updates.LastName = &user.LastName
	}
	if updates.Phone != nil {
		user.Phone = normalizePhone(*updates.Phone)
		updates.Phone = &user.Phone
	}

	if err := s.validator.ValidateUser(user); err != nil {
		return nil, validation.ToAppError(err)
	}
	if err := s.repos.Users.Update(ctx, user.ID, updates); err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "User", user.ID)
	}
	return user, nil
}

// StoreSignup creates the store account and its brand together. The brand
// name is unique across the platform.
func (s *authService) StoreSignup(ctx context.Context, req *model.StoreSignupRequest) (*model.AuthResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Name = sanitizer.NormalizeName(req.Name)
	req.BrandName = sanitizer.NormalizeName(req.BrandName)
	req.BrandDescription = sanitizer.TrimAndNormalize(req.BrandDescription)
	req.BrandLogoURL = sanitizer.NormalizeURL(req.BrandLogoURL)

	if err := s.validator.ValidateStoreSignup(req); err != nil {
		s.cfg.Log.Ctx(ctx).Warn("Store signup validation failed", "email", req.Email, "error", err)
		return nil, validation.ToAppError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to create account", err)
	}

	storeUser := &model.StoreUser{Email: req.Email, PasswordHash: hash, Name: req.Name}
	brand := &model.Brand{Name: req.BrandName, Description: req.BrandDescription, LogoURL: req.BrandLogoURL}

	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// Resetting keeps a retried transaction from reusing IDs of an aborted attempt.
		storeUser.ID, storeUser.BrandID, brand.ID = "", "", ""

		if err := s.repos.StoreUsers.Create(sessCtx, storeUser); err != nil {
			if errors.Is(err, mongodb.ErrDuplicate) {
				return apperrors.Conflict("Email is already registered")
			}
			return err
		}
		brand.OwnerID = storeUser.ID
		if err := s.repos.Brands.Create(sessCtx, brand); err != nil {
			if errors.Is(err, mongodb.ErrDuplicate) {
				return apperrors.Conflict("Brand name is already taken")
			}
			return err
		}
		storeUser.BrandID = brand.ID
		return s.repos.StoreUsers.SetBrand(sessCtx, storeUser.ID, brand.ID)
	})
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Store user", "")
	}

	s.cfg.Log.Ctx(ctx).Info("Store signed up", "store_user_id", storeUser.ID, "brand_id", brand.ID, "brand", brand.Name)
	return s.respond(
		auth.Principal{ID: storeUser.ID, Role: auth.RoleStore, BrandID: brand.ID},
		&model.AuthResponse{StoreUser: storeUser, Brand: brand},
	)
}

func (s *authService) StoreLogin(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}

	storeUser, err := s.repos.StoreUsers.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.loginFailure(ctx, err, req)
	}
	if err := auth.CheckPassword(storeUser.PasswordHash, req.Password); err != nil {
		return nil, s.loginFailure(ctx, err, req)
	}

	brand, err := s.repos.Brands.FindByID(ctx, storeUser.BrandID)
	if err != nil {
		s.cfg.Log.Ctx(ctx).Error("Store user has no brand", "store_user_id", storeUser.ID, "brand_id", storeUser.BrandID, "error", err)
		return nil, apperrors.Internal("Store account is incomplete", err)
	}

	return s.respond(
		auth.Principal{ID: storeUser.ID, Role: auth.RoleStore, BrandID: brand.ID},
		&model.AuthResponse{StoreUser: storeUser, Brand: brand},
	)
}

func (s *authService) StoreMe(ctx context.Context, principal *auth.Principal) (*model.StoreProfile, error) {
	storeUser, err := s.repos.StoreUsers.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Store user", principal.ID)
	}
	brand, err := s.repos.Brands.FindByID(ctx, storeUser.BrandID)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Brand", storeUser.BrandID)
	}
	return &model.StoreProfile{StoreUser: storeUser, Brand: brand}, nil
}

func (s *authService) AdminLogin(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}

	admin, err := s.repos.Admins.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.loginFailure(ctx, err, req)
	}
	if err := auth.CheckPassword(admin.PasswordHash, req.Password); err != nil {
		return nil, s.loginFailure(ctx, err, req)
	}

	s.cfg.Log.Ctx(ctx).Info("Admin logged in", "admin_id", admin.ID)
	return s.respond(auth.Principal{ID: admin.ID, Role: auth.RoleAdmin}, &model.AuthResponse{Admin: admin})
}

// loginFailure answers unknown accounts and wrong passwords identically.
func (s *authService) loginFailure(ctx context.Context, err error, req *model.LoginRequest) error {
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		auth.BurnPasswordCheck(req.Password)
	case errors.Is(err, auth.ErrPasswordMismatch):
	default:
		s.cfg.Log.Ctx(ctx).Error("Login lookup failed", "error", err)
		return apperrors.Internal("Failed to log in", err)
	}
	s.cfg.Log.Ctx(ctx).Info("Login rejected", "email", req.Email)
	return apperrors.Unauthorized(msgInvalidCredentials)
}

func (s *authService) respond(principal auth.Principal, resp *model.AuthResponse) (*model.AuthResponse, error) {
	token, err := s.tokens.Issue(principal)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}
	resp.Token = token.AccessToken
	resp.TokenType = token.TokenType
	resp.ExpiresAt = token.ExpiresAt
	return resp, nil
}

// normalizePhone keeps unparseable input as typed so validation reports it.
func normalizePhone(raw string) string {
	if phone := sanitizer.NormalizePhone(raw); phone != "" {
		return phone
	}
	return strings.TrimSpace(raw)
}
