package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/swasth-health/portal-backend/internal/audit"
	"github.com/swasth-health/portal-backend/internal/repository"
	"github.com/swasth-health/portal-backend/pkg/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	doctorEmail    = "doctor@swasth.com"
	doctorPassword = "doctor123"
	adminAccessKey = "ADMIN2024"
)

var aadhaarPattern = regexp.MustCompile(`^\d{12}$`)

// ErrInvalidCredentials is returned for any failed login attempt. The cause
// is logged but never surfaced to the caller.
var ErrInvalidCredentials = errors.New("service: invalid credentials")

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Identity        model.SessionIdentity `json:"identity"`
	Token           string                `json:"token"`
	ProfileComplete bool                  `json:"profileComplete"`
}

// AuthService validates credentials for the three portal roles and issues
// signed session tokens.
type AuthService struct {
	sessions   *repository.SessionRepository
	profiles   *repository.ProfileRepository
	auditor    *audit.Logger
	logger     *zap.Logger
	jwtSecret  []byte
	tokenTTL   time.Duration
	doctorHash []byte
	now        func() time.Time
}

// NewAuthService creates a new AuthService. The demo doctor password is
// hashed once at construction so login compares against a bcrypt digest.
func NewAuthService(
	sessions *repository.SessionRepository,
	profiles *repository.ProfileRepository,
	auditor *audit.Logger,
	jwtSecret string,
	tokenTTL time.Duration,
	logger *zap.Logger,
) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(doctorPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash doctor credential: %w", err)
	}
	return &AuthService{
		sessions:   sessions,
		profiles:   profiles,
		auditor:    auditor,
		logger:     logger,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		doctorHash: hash,
		now:        time.Now,
	}, nil
}

// LoginCitizen authenticates a citizen by identification number. Indian
// citizens present a 12-digit Aadhaar number, foreign citizens a passport
// number.
func (s *AuthService) LoginCitizen(ctx context.Context, citizenType model.CitizenType, id string) (LoginResult, error) {
	id = strings.TrimSpace(id)

	switch citizenType {
	case model.CitizenIndian:
		if !aadhaarPattern.MatchString(id) {
			s.logger.Warn("citizen login rejected", zap.String("reason", "malformed aadhaar number"))
			return LoginResult{}, ErrInvalidCredentials
		}
	case model.CitizenForeign:
		if id == "" {
			s.logger.Warn("citizen login rejected", zap.String("reason", "empty passport number"))
			return LoginResult{}, ErrInvalidCredentials
		}
	default:
		return LoginResult{}, ErrInvalidCredentials
	}

	identity := model.SessionIdentity{
		Role:        model.RoleUser,
		CitizenType: citizenType,
		ID:          id,
		LoginTime:   s.now(),
	}

	// A returning citizen resumes their completed profile.
	if profile, err := s.profiles.LoadProfile(ctx, id); err == nil {
		identity.UserID = profile.UserID
		identity.ProfileCompleted = profile.ProfileCompleted
	}

	return s.establish(ctx, identity)
}

// LoginDoctor authenticates the clinic doctor account.
func (s *AuthService) LoginDoctor(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != doctorEmail {
		s.logger.Warn("doctor login rejected", zap.String("reason", "unknown email"))
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.doctorHash, []byte(password)); err != nil {
		s.logger.Warn("doctor login rejected", zap.String("reason", "password mismatch"))
		return LoginResult{}, ErrInvalidCredentials
	}

	data, err := s.sessions.GetSessionData(ctx)
	if err != nil {
		return LoginResult{}, err
	}

	identity := model.SessionIdentity{
		Role:      model.RoleDoctor,
		Email:     email,
		LoginTime: s.now(),
	}
	for _, d := range data.Doctors {
		if d.Email == email {
			identity.ID = d.ID
			identity.Name = d.Name
			break
		}
	}

	return s.establish(ctx, identity)
}

// LoginAdmin authenticates with the administrator access key.
func (s *AuthService) LoginAdmin(ctx context.Context, accessKey string) (LoginResult, error) {
	if strings.TrimSpace(accessKey) != adminAccessKey {
		s.logger.Warn("admin login rejected", zap.String("reason", "bad access key"))
		return LoginResult{}, ErrInvalidCredentials
	}

	identity := model.SessionIdentity{
		Role:      model.RoleAdmin,
		Name:      "Administrator",
		LoginTime: s.now(),
	}
	return s.establish(ctx, identity)
}

// Logout clears the persisted session identity.
func (s *AuthService) Logout(ctx context.Context) error {
	identity, err := s.sessions.Identity(ctx)
	if err != nil && !errors.Is(err, repository.ErrNoIdentity) {
		return err
	}
	if err := s.sessions.ClearIdentity(ctx); err != nil {
		return err
	}

	s.auditor.Log(ctx, audit.Entry{
		Subject:       subjectOf(identity),
		OperationType: audit.OperationLogout,
		ResourceType:  audit.ResourceSession,
	})
	return nil
}

// establish persists the identity, issues a token and records the login.
func (s *AuthService) establish(ctx context.Context, identity model.SessionIdentity) (LoginResult, error) {
	if err := s.sessions.SetIdentity(ctx, identity); err != nil {
		return LoginResult{}, err
	}

	token, err := s.issueToken(identity)
	if err != nil {
		return LoginResult{}, err
	}

	s.auditor.Log(ctx, audit.Entry{
		Subject:       subjectOf(identity),
		OperationType: audit.OperationLogin,
		ResourceType:  audit.ResourceSession,
	})
	s.logger.Info("login succeeded", zap.String("role", string(identity.Role)))

	return LoginResult{
		Identity:        identity,
		Token:           token,
		ProfileComplete: identity.ProfileCompleted,
	}, nil
}

func (s *AuthService) issueToken(identity model.SessionIdentity) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  subjectOf(identity),
		"role": string(identity.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func subjectOf(identity model.SessionIdentity) string {
	switch {
	case identity.ID != "":
		return identity.ID
	case identity.Email != "":
		return identity.Email
	default:
		return string(identity.Role)
	}
}
