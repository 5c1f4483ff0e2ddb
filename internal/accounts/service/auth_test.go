package service

import (
	"context"
	"testing"
	"time"

	"staymi/internal/accounts/validator"
	"staymi/pkg/auth"
	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/logger"
	"staymi/pkg/model"
	"staymi/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockUserRepository struct {
	createFunc      func(ctx context.Context, user *model.User) error
	findByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	updateFunc      func(ctx context.Context, id string, updates *model.UserUpdate) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "user-1"
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockUserRepository) FindAll(ctx context.Context, search string, limit int, offset int64) ([]*model.User, int64, error) {
	return []*model.User{}, 0, nil
}

func (m *mockUserRepository) Update(ctx context.Context, id string, updates *model.UserUpdate) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil
}

func (m *mockUserRepository) SetStatus(ctx context.Context, id string, status model.UserStatus) error {
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type mockStoreUserRepository struct {
	createFunc      func(ctx context.Context, user *model.StoreUser) error
	findByEmailFunc func(ctx context.Context, email string) (*model.StoreUser, error)
	setBrandFunc    func(ctx context.Context, id, brandID string) error
}

func (m *mockStoreUserRepository) Create(ctx context.Context, user *model.StoreUser) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "store-1"
	return nil
}

func (m *mockStoreUserRepository) FindByID(ctx context.Context, id string) (*model.StoreUser, error) {
	return nil, mongodb.ErrNotFound
}

func (m *mockStoreUserRepository) FindByEmail(ctx context.Context, email string) (*model.StoreUser, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockStoreUserRepository) FindAll(ctx context.Context, search string, limit int, offset int64) ([]*model.StoreUser, int64, error) {
	return []*model.StoreUser{}, 0, nil
}

func (m *mockStoreUserRepository) SetBrand(ctx context.Context, id, brandID string) error {
	if m.setBrandFunc != nil {
		return m.setBrandFunc(ctx, id, brandID)
	}
	return nil
}

type mockAdminRepository struct {
	created         []*model.AdminUser
	findByEmailFunc func(ctx context.Context, email string) (*model.AdminUser, error)
}

func (m *mockAdminRepository) Create(ctx context.Context, admin *model.AdminUser) error {
	admin.ID = "admin-new"
	m.created = append(m.created, admin)
	return nil
}

func (m *mockAdminRepository) FindByID(ctx context.Context, id string) (*model.AdminUser, error) {
	return nil, mongodb.ErrNotFound
}

func (m *mockAdminRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockAdminRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.AdminUser, int64, error) {
	return []*model.AdminUser{}, 0, nil
}

func (m *mockAdminRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type mockBrandRepository struct {
	createFunc   func(ctx context.Context, brand *model.Brand) error
	findByIDFunc func(ctx context.Context, id string) (*model.Brand, error)
}

func (m *mockBrandRepository) Create(ctx context.Context, brand *model.Brand) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, brand)
	}
	brand.ID = "brand-1"
	return nil
}

func (m *mockBrandRepository) FindByID(ctx context.Context, id string) (*model.Brand, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Brand{ID: id, Name: "Harbour Hotels"}, nil
}

func (m *mockBrandRepository) FindByName(ctx context.Context, name string) (*model.Brand, error) {
	return nil, mongodb.ErrNotFound
}

func (m *mockBrandRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Brand, int64, error) {
	return []*model.Brand{}, 0, nil
}

func (m *mockBrandRepository) Save(ctx context.Context, brand *model.Brand) error {
	return nil
}

type recordingIssuer struct {
	issued []auth.Principal
}

func (r *recordingIssuer) Issue(p auth.Principal) (*auth.Token, error) {
	r.issued = append(r.issued, p)
	return &auth.Token{AccessToken: "tok-" + p.ID, TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type inlineTransactions struct{}

func (inlineTransactions) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type authFixture struct {
	repos  AuthRepositories
	users  *mockUserRepository
	stores *mockStoreUserRepository
	admins *mockAdminRepository
	brands *mockBrandRepository
	tokens *recordingIssuer
	svc    AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:  &mockUserRepository{},
		stores: &mockStoreUserRepository{},
		admins: &mockAdminRepository{},
		brands: &mockBrandRepository{},
		tokens: &recordingIssuer{},
	}
	f.repos = AuthRepositories{Users: f.users, StoreUsers: f.stores, Admins: f.admins, Brands: f.brands}
	f.svc = NewAuthService(f.repos, f.tokens, inlineTransactions{}, testValidator(), testConfig())
	return f
}

func testConfig() *config.Config {
	return &config.Config{Log: logger.Discard()}
}

func testValidator() *validator.AccountValidator {
	return validator.NewAccountValidator(validation.New(logger.Discard()))
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestSignup(t *testing.T) {
	f := newAuthFixture()
	var stored *model.User
	f.users.createFunc = func(ctx context.Context, user *model.User) error {
		stored = user
		user.ID = "user-1"
		return nil
	}

	resp, err := f.svc.Signup(context.Background(), &model.SignupRequest{
		Email:     "  Ana@Example.COM ",
		Password:  "correct horse",
		FirstName: "Ana",
		LastName:  "Lee",
		Phone:     "+886 912 345 678",
	})

	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", stored.Email)
	assert.Equal(t, "+886912345678", stored.Phone)
	assert.Equal(t, model.UserStatusActive, stored.Status)
	assert.NoError(t, auth.CheckPassword(stored.PasswordHash, "correct horse"))
	assert.Equal(t, "tok-user-1", resp.Token)
	assert.Equal(t, auth.RoleUser, f.tokens.issued[0].Role)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.users.createFunc = func(ctx context.Context, user *model.User) error {
		return mongodb.ErrDuplicate
	}

	_, err := f.svc.Signup(context.Background(), &model.SignupRequest{
		Email: "ana@example.com", Password: "correct horse", FirstName: "Ana", LastName: "Lee",
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestLogin(t *testing.T) {
	hash := mustHash(t, "correct horse")

	tests := []struct {
		name     string
		user     *model.User
		password string
		wantCode string
	}{
		{name: "success", user: &model.User{ID: "u1", PasswordHash: hash, Status: model.UserStatusActive}, password: "correct horse"},
		{name: "wrong password", user: &model.User{ID: "u1", PasswordHash: hash, Status: model.UserStatusActive}, password: "wrong horse", wantCode: apperrors.CodeUnauthorized},
		{name: "unknown email", user: nil, password: "correct horse", wantCode: apperrors.CodeUnauthorized},
		{name: "disabled", user: &model.User{ID: "u1", PasswordHash: hash, Status: model.UserStatusDisabled}, password: "correct horse", wantCode: apperrors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			f.users.findByEmailFunc = func(ctx context.Context, email string) (*model.User, error) {
				if tt.user == nil {
					return nil, mongodb.ErrNotFound
				}
				return tt.user, nil
			}

			resp, err := f.svc.Login(context.Background(), &model.LoginRequest{Email: "ana@example.com", Password: tt.password})
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.NotEmpty(t, resp.Token)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.wantCode))
			if tt.wantCode == apperrors.CodeUnauthorized {
				assert.Equal(t, msgInvalidCredentials, apperrors.AsAppError(err).Message)
			}
		})
	}
}

func TestUpdateMe_OnlyTouchesGivenFields(t *testing.T) {
	f := newAuthFixture()
	f.users.findByIDFunc = func(ctx context.Context, id string) (*model.User, error) {
		return &model.User{ID: id, Email: "ana@example.com", FirstName: "Ana", LastName: "Lee", Status: model.UserStatusActive}, nil
	}
	var sent *model.UserUpdate
	f.users.updateFunc = func(ctx context.Context, id string, updates *model.UserUpdate) error {
		sent = updates
		return nil
	}

	last := "  van   Dijk "
	user, err := f.svc.UpdateMe(context.Background(), &auth.Principal{ID: "u1", Role: auth.RoleUser}, &model.UserUpdate{LastName: &last})

	require.NoError(t, err)
	assert.Equal(t, "Ana", user.FirstName)
	require.NotNil(t, sent.LastName)
	assert.Nil(t, sent.FirstName)
	assert.Equal(t, user.LastName, *sent.LastName)
}

func TestStoreSignup(t *testing.T) {
	f := newAuthFixture()
	var linkedBrand string
	f.stores.setBrandFunc = func(ctx context.Context, id, brandID string) error {
		linkedBrand = brandID
		return nil
	}

	resp, err := f.svc.StoreSignup(context.Background(), &model.StoreSignupRequest{
		Email:     "owner@harbour.example",
		Password:  "correct horse",
		Name:      "Mia Chen",
		BrandName: "Harbour Hotels",
	})

	require.NoError(t, err)
	assert.Equal(t, "brand-1", linkedBrand)
	assert.Equal(t, "store-1", resp.Brand.OwnerID)
	assert.Equal(t, "brand-1", resp.StoreUser.BrandID)
	assert.Equal(t, auth.Principal{ID: "store-1", Role: auth.RoleStore, BrandID: "brand-1"}, f.tokens.issued[0])
}

func TestStoreSignup_BrandNameTaken(t *testing.T) {
	f := newAuthFixture()
	f.brands.createFunc = func(ctx context.Context, brand *model.Brand) error {
		return mongodb.ErrDuplicate
	}

	_, err := f.svc.StoreSignup(context.Background(), &model.StoreSignupRequest{
		Email: "owner@harbour.example", Password: "correct horse", Name: "Mia Chen", BrandName: "Harbour Hotels",
	})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Equal(t, "Brand name is already taken", apperrors.AsAppError(err).Message)
	assert.Empty(t, f.tokens.issued)
}

func TestAdminLogin(t *testing.T) {
	f := newAuthFixture()
	f.admins.findByEmailFunc = func(ctx context.Context, email string) (*model.AdminUser, error) {
		return &model.AdminUser{ID: "a1", Email: email, PasswordHash: mustHash(t, "a very long secret")}, nil
	}

	resp, err := f.svc.AdminLogin(context.Background(), &model.LoginRequest{Email: "ops@staymi.app", Password: "a very long secret"})

	require.NoError(t, err)
	require.NotNil(t, resp.Admin)
	assert.Equal(t, auth.RoleAdmin, f.tokens.issued[0].Role)
}
