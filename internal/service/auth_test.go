package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swasth-health/portal-backend/internal/repository"
	"github.com/swasth-health/portal-backend/pkg/model"
	"go.uber.org/zap"
)

const testJWTSecret = "test-secret"

func (e *testEnv) authService(t *testing.T) *AuthService {
	t.Helper()
	service, err := NewAuthService(e.sessions, e.profiles, e.auditor, testJWTSecret, time.Hour, zap.NewNop())
	require.NoError(t, err)
	return service
}

func TestLoginCitizen_Aadhaar(t *testing.T) {
	env := newTestEnv(t)
	service := env.authService(t)
	ctx := context.Background()

	result, err := service.LoginCitizen(ctx, model.CitizenIndian, "123456789012")
	require.NoError(t, err)

	assert.Equal(t, model.RoleUser, result.Identity.Role)
	assert.Equal(t, "123456789012", result.Identity.ID)
	assert.NotEmpty(t, result.Token)
	assert.False(t, result.ProfileComplete)

	// The identity is persisted for the session.
	identity, err := env.sessions.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "123456789012", identity.ID)
}

func TestLoginCitizen_RejectsMalformedAadhaar(t *testing.T) {
	env := newTestEnv(t)
	service := env.authService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		id   string
	}{
		{"too short", "12345"},
		{"too long", "1234567890123"},
		{"letters", "12345678901a"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.LoginCitizen(ctx, model.CitizenIndian, tt.id)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLoginCitizen_Passport(t *testing.T) {
	env := newTestEnv(t)
	service := env.authService(t)
	ctx := context.Background()

	result, err := service.LoginCitizen(ctx, model.CitizenForeign, "N1234567")
	require.NoError(t, err)
	assert.Equal(t, model.CitizenForeign, result.Identity.CitizenType)

	_, err = service.LoginCitizen(ctx, model.CitizenForeign, "  ")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginCitizen_ReturningUserResumesProfile(t *testing.T) {
	env := newTestEnv(t)
	service := env.authService(t)
	ctx := context.Background()

	profile := model.UserProfile{
		UserID:           "USER_1735025234001",
		IdentificationID: "123456789012",
		ProfileCompleted: true,
	}
	require.NoError(t, env.profiles.SaveProfile(ctx, "123456789012", profile))

	result, err := service.LoginCitizen(ctx, model.CitizenIndian, "123456789012")
	require.NoError(t, err)

	assert.True(t, result.ProfileComplete)
	assert.Equal(t, "USER_1735025234001", result.Identity.UserID)
}

func TestLoginDoctor(t *testing.T) {
	env := newTestEnv(t)
	service := env.authService(t)
	ctx := context.Background()

	result, err := service.LoginDoctor(ctx, "doctor@swasth.com", "doctor123")
	require.NoError(t, err)

	assert.Equal(t, model.RoleDoctor, result.Identity.Role)
	assert.Equal(t, "doctor@swasth.com", result.Identity.Email)
	assert.NotEmpty(t, result.Identity.Name, "doctor name should come from the seeded record")
}

func TestLoginDoctor_RejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	service := env.authService(t)
	ctx := context.Background()

	_, err := service.LoginDoctor(ctx, "doctor@swasth.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.LoginDoctor(ctx, "other@swasth.com", "doctor123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginAdmin(t *testing.T) {
	env := newTestEnv(t)
	service := env.authService(t)
	ctx := context.Background()

	result, err := service.LoginAdmin(ctx, "ADMIN2024")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, result.Identity.Role)

	_, err = service.LoginAdmin(ctx, "admin2024")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_TokenCarriesRoleAndSubject(t *testing.T) {
	env := newTestEnv(t)
	service := env.authService(t)
	ctx := context.Background()

	result, err := service.LoginCitizen(ctx, model.CitizenIndian, "123456789012")
	require.NoError(t, err)

	token, err := jwt.Parse(result.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "123456789012", claims["sub"])
	assert.Equal(t, "user", claims["role"])
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	service := env.authService(t)
	ctx := context.Background()

	_, err := service.LoginAdmin(ctx, "ADMIN2024")
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx))

	_, err = env.sessions.Identity(ctx)
	assert.ErrorIs(t, err, repository.ErrNoIdentity)
}

func TestLogout_WithoutSession(t *testing.T) {
	env := newTestEnv(t)
	service := env.authService(t)

	assert.NoError(t, service.Logout(context.Background()))
}
