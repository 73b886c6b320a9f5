// filepath: internal/api/handlers/main_test.go
package handlers

import (
	"context"
	"io"
	"time"

	"filedrop/internal/config"
	"filedrop/internal/models"
	"filedrop/internal/repository"
	"filedrop/internal/services"
	"filedrop/internal/services/auth"

	"github.com/stretchr/testify/mock"
)

// --- MOCK AUDITOR ---
type MockAuditor struct {
	mock.Mock
}

var _ services.Auditor = (*MockAuditor)(nil)

func (m *MockAuditor) Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{}) {
	m.Called(ctx, action, actor, resource, details)
}

// NoopAuditor ignores all events. Handy for tests that don't assert
// on audit output.
type NoopAuditor struct{}

var _ services.Auditor = (*NoopAuditor)(nil)

func (NoopAuditor) Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{}) {
}

// --- MOCK INFO SERVICE ---
type MockInfoService struct {
	mock.Mock
}

var _ services.InfoService = (*MockInfoService)(nil)

func (m *MockInfoService) GetInfo() models.Info {
	args := m.Called()
	return args.Get(0).(models.Info)
}

// --- MOCK STATS SERVICE ---
type MockStatsService struct {
	mock.Mock
}

var _ services.StatsService = (*MockStatsService)(nil)

func (m *MockStatsService) ComputeUsageReport(ctx context.Context) (*models.UsageReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UsageReport), args.Error(1)
}

// --- MOCK USER SERVICE ---
type MockUserService struct {
	mock.Mock
}

var _ services.UserService = (*MockUserService)(nil)

func (m *MockUserService) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) GetUserByID(id int64) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) GetUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}
func (m *MockUserService) UpdateUserPassword(username, password string) error {
	args := m.Called(username, password)
	return args.Error(0)
}
func (m *MockUserService) CreateUser(cArgs repository.UserCreateArgs) (*models.User, error) {
	args := m.Called(cArgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) DeleteUser(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}
func (m *MockUserService) InitializeAdminUser(cfg *config.Config) error {
	args := m.Called(cfg)
	return args.Error(0)
}

// --- MOCK FILE SERVICE ---
type MockFileService struct {
	mock.Mock
}

var _ services.FileService = (*MockFileService)(nil)

func (m *MockFileService) Upload(originalName, mimetype string, data io.Reader, userID int64, expiresAt *time.Time) (*models.File, error) {
	args := m.Called(originalName, mimetype, data, userID, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.File), args.Error(1)
}
func (m *MockFileService) Fetch(id string) (*models.File, io.ReadCloser, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.File), args.Get(1).(io.ReadCloser), args.Error(2)
}
func (m *MockFileService) GetFilesByUser(userID int64) ([]models.File, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.File), args.Error(1)
}
func (m *MockFileService) Delete(id string, userID int64, isAdmin bool) error {
	args := m.Called(id, userID, isAdmin)
	return args.Error(0)
}
func (m *MockFileService) SweepExpired() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// --- MOCK URL SERVICE ---
type MockURLService struct {
	mock.Mock
}

var _ services.URLService = (*MockURLService)(nil)

func (m *MockURLService) Create(destination, code string, userID int64) (*models.ShortURL, error) {
	args := m.Called(destination, code, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShortURL), args.Error(1)
}
func (m *MockURLService) Resolve(code string) (*models.ShortURL, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShortURL), args.Error(1)
}
func (m *MockURLService) GetURLsByUser(userID int64) ([]models.ShortURL, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ShortURL), args.Error(1)
}
func (m *MockURLService) Delete(id string, userID int64, isAdmin bool) error {
	args := m.Called(id, userID, isAdmin)
	return args.Error(0)
}

// --- MOCK TOKEN SERVICE ---
type MockTokenService struct {
	mock.Mock
}

var _ auth.TokenService = (*MockTokenService)(nil)

func (m *MockTokenService) GenerateTokens(user *models.User) (string, string, error) {
	args := m.Called(user)
	return args.String(0), args.String(1), args.Error(2)
}
func (m *MockTokenService) ValidateAccessToken(tokenString string) (*models.User, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockTokenService) ValidateRefreshToken(tokenString string) (*models.User, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockTokenService) Logout(refreshToken string) error {
	args := m.Called(refreshToken)
	return args.Error(0)
}

// withUser attaches a user to a request context the same way the auth
// middleware does.
func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, auth.UserContextKey, user)
}
