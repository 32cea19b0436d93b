package services_test

import (
	"path/filepath"
	"testing"

	"github.com/nkhandel/bookstock/internal/models"
	"github.com/nkhandel/bookstock/internal/repositories"
	"github.com/nkhandel/bookstock/internal/services"
	"github.com/nkhandel/bookstock/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuthService(t *testing.T) *services.AuthService {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return services.NewAuthServiceOn(repositories.NewUserRepositoryOn(db))
}

func register(t *testing.T, svc *services.AuthService) models.User {
	t.Helper()

	user, fieldErrs, err := svc.Register(services.RegisterInput{
		Name:     "Sam",
		Email:    "sam@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.False(t, fieldErrs.Any())
	return user
}

func TestRegisterHashesPassword(t *testing.T) {
	svc := newAuthService(t)

	user := register(t, svc)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "secret123"))
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)

	_, fieldErrs, err := svc.Register(services.RegisterInput{
		Email:    "not-an-email",
		Password: "short",
	})
	require.NoError(t, err)
	assert.Contains(t, fieldErrs, "name")
	assert.Contains(t, fieldErrs, "email")
	assert.Contains(t, fieldErrs, "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	register(t, svc)

	_, fieldErrs, err := svc.Register(services.RegisterInput{
		Name:     "Sam Again",
		Email:    "sam@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"The email has already been taken."}, fieldErrs["email"])
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newAuthService(t)
	user := register(t, svc)

	token, err := svc.Login("sam@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "sam@example.com", claims.Email)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newAuthService(t)
	register(t, svc)

	_, wrongPassword := svc.Login("sam@example.com", "wrong-password")
	_, unknownEmail := svc.Login("nobody@example.com", "secret123")

	assert.ErrorIs(t, wrongPassword, services.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, services.ErrInvalidCredentials)
}

func TestUserLookup(t *testing.T) {
	svc := newAuthService(t)
	user := register(t, svc)

	got, err := svc.User(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", got.Email)

	_, err = svc.User(9999)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestValidateRejectsGarbageToken(t *testing.T) {
	_, err := auth.ValidateToken("not.a.token")
	assert.Error(t, err)
}
