package service

import (
	"context"
	"strings"
	"time"

	"github.com/swasth-health/portal-backend/internal/audit"
	"github.com/swasth-health/portal-backend/internal/repository"
	"github.com/swasth-health/portal-backend/pkg/model"
	"go.uber.org/zap"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// ProfileService reads and updates citizen profiles and the doctor-written
// medical note attached to them.
type ProfileService struct {
	profiles *repository.ProfileRepository
	sessions *repository.SessionRepository
	auditor  *audit.Logger
	logger   *zap.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(
	profiles *repository.ProfileRepository,
	sessions *repository.SessionRepository,
	auditor *audit.Logger,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		sessions: sessions,
		auditor:  auditor,
		logger:   logger,
	}
}

// Get loads the profile stored under the citizen's identity key.
func (s *ProfileService) Get(ctx context.Context, identityKey string) (model.UserProfile, error) {
	return s.profiles.LoadProfile(ctx, identityKey)
}

// Update applies edits to an existing profile. The generated user id, the
// identification number, the creation timestamp and the completion flag are
// carried over from the stored profile; the update timestamp is refreshed.
// The entry in the aggregate user list is replaced in the same call.
func (s *ProfileService) Update(ctx context.Context, identityKey string, updated model.UserProfile) (model.UserProfile, error) {
	existing, err := s.profiles.LoadProfile(ctx, identityKey)
	if err != nil {
		return model.UserProfile{}, err
	}

	updated.UserID = existing.UserID
	updated.IdentificationID = existing.IdentificationID
	updated.CitizenType = existing.CitizenType
	updated.CreatedAt = existing.CreatedAt
	updated.ProfileCompleted = existing.ProfileCompleted
	now := timeNow()
	updated.UpdatedAt = &now

	if err := s.profiles.SaveProfile(ctx, identityKey, updated); err != nil {
		return model.UserProfile{}, err
	}
	if err := s.sessions.UpsertUser(ctx, updated); err != nil {
		return model.UserProfile{}, err
	}

	s.auditor.Log(ctx, audit.Entry{
		Subject:       identityKey,
		OperationType: audit.OperationUpdate,
		ResourceType:  audit.ResourceProfile,
		ResourceID:    updated.UserID,
	})
	return updated, nil
}

// MedicalNote returns the decrypted doctor note for the user, or the empty
// string when none has been written.
func (s *ProfileService) MedicalNote(ctx context.Context, userID string) (string, error) {
	return s.profiles.LoadMedicalNote(ctx, userID)
}

// SetMedicalNote stores the doctor note, encrypted at rest.
func (s *ProfileService) SetMedicalNote(ctx context.Context, subject, userID, text string) error {
	if err := s.profiles.SaveMedicalNote(ctx, userID, strings.TrimSpace(text)); err != nil {
		return err
	}
	s.auditor.Log(ctx, audit.Entry{
		Subject:       subject,
		OperationType: audit.OperationUpdate,
		ResourceType:  audit.ResourceMedicalNote,
		ResourceID:    userID,
	})
	return nil
}

// Language returns the portal display language.
func (s *ProfileService) Language(ctx context.Context) (model.Language, error) {
	return s.sessions.Language(ctx)
}

// SetLanguage stores the portal display language.
func (s *ProfileService) SetLanguage(ctx context.Context, lang model.Language) error {
	return s.sessions.SetLanguage(ctx, lang)
}
