package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/swasth-health/portal-backend/internal/security"
	"github.com/swasth-health/portal-backend/internal/store"
	"github.com/swasth-health/portal-backend/pkg/model"
	"go.uber.org/zap"
)

// ErrProfileNotFound is returned when no profile is stored for an identity
// key. Login flows use it to route first-time citizens to the questionnaire.
var ErrProfileNotFound = errors.New("repository: profile not found")

// ProfileRepository holds per-citizen keyed detail. Two keying schemes
// coexist, as the portal has always worked: profiles are keyed by the
// external identity (Aadhaar or passport number), while documents and
// medical notes are keyed by the generated user id.
type ProfileRepository struct {
	store     store.Store
	encryptor *security.Encryptor
	logger    *zap.Logger
}

// NewProfileRepository creates a new ProfileRepository. Medical notes are
// encrypted with the given encryptor before they reach the store.
func NewProfileRepository(s store.Store, encryptor *security.Encryptor, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		store:     s,
		encryptor: encryptor,
		logger:    logger,
	}
}

func profileKey(identityKey string) string {
	return "profile_" + identityKey
}

func documentsKey(userID string) string {
	return "documents_" + userID
}

func medicalInfoKey(userID string) string {
	return "medicalInfo_" + userID
}

// SaveProfile stores the profile under its identity key, overwriting any
// previous submission for the same identity.
func (r *ProfileRepository) SaveProfile(ctx context.Context, identityKey string, profile model.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := r.store.Put(ctx, profileKey(identityKey), raw); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}

	r.logger.Info("profile saved",
		zap.String("user_id", profile.UserID),
	)
	return nil
}

// LoadProfile returns the profile stored under identityKey, or
// ErrProfileNotFound.
func (r *ProfileRepository) LoadProfile(ctx context.Context, identityKey string) (model.UserProfile, error) {
	raw, err := r.store.Get(ctx, profileKey(identityKey))
	if errors.Is(err, store.ErrNotFound) {
		return model.UserProfile{}, ErrProfileNotFound
	}
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	var profile model.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return model.UserProfile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	return profile, nil
}

// SaveDocuments overwrites the document metadata list for a user.
func (r *ProfileRepository) SaveDocuments(ctx context.Context, userID string, docs []model.Document) error {
	if docs == nil {
		docs = []model.Document{}
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}
	if err := r.store.Put(ctx, documentsKey(userID), raw); err != nil {
		return fmt.Errorf("failed to store documents: %w", err)
	}
	return nil
}

// LoadDocuments returns the document metadata list for a user. A missing key
// is an empty list, not an error.
func (r *ProfileRepository) LoadDocuments(ctx context.Context, userID string) ([]model.Document, error) {
	raw, err := r.store.Get(ctx, documentsKey(userID))
	if errors.Is(err, store.ErrNotFound) {
		return []model.Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	var docs []model.Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

// SaveMedicalNote encrypts and stores the free-text medical note for a user.
func (r *ProfileRepository) SaveMedicalNote(ctx context.Context, userID, text string) error {
	sealed, err := r.encryptor.Encrypt(text)
	if err != nil {
		return fmt.Errorf("failed to encrypt medical note: %w", err)
	}
	raw, err := json.Marshal(sealed)
	if err != nil {
		return fmt.Errorf("failed to encode medical note: %w", err)
	}
	if err := r.store.Put(ctx, medicalInfoKey(userID), raw); err != nil {
		return fmt.Errorf("failed to store medical note: %w", err)
	}

	r.logger.Info("medical note saved",
		zap.String("user_id", userID),
	)
	return nil
}

// LoadMedicalNote returns the decrypted medical note for a user. A missing
// key is an empty note, not an error.
func (r *ProfileRepository) LoadMedicalNote(ctx context.Context, userID string) (string, error) {
	raw, err := r.store.Get(ctx, medicalInfoKey(userID))
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load medical note: %w", err)
	}

	var sealed string
	if err := json.Unmarshal(raw, &sealed); err != nil {
		return "", fmt.Errorf("failed to decode medical note: %w", err)
	}

	text, err := r.encryptor.Decrypt(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt medical note: %w", err)
	}
	return text, nil
}
