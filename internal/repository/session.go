package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/swasth-health/portal-backend/internal/store"
	"github.com/swasth-health/portal-backend/pkg/model"
	"go.uber.org/zap"
)

// Persisted key space owned by this repository.
const (
	keySessionData      = "sessionData"
	keyUserSession      = "userSession"
	keySelectedLanguage = "selectedLanguage"
)

// ErrNoIdentity is returned when no session identity is stored.
var ErrNoIdentity = errors.New("repository: no active session identity")

// SessionRepository owns the canonical user collection the dashboards
// aggregate over, plus the single active session identity and the language
// preference.
type SessionRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(s store.Store, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		store:  s,
		logger: logger,
	}
}

// GetSessionData returns the stored collection, lazily initializing it with
// the fixed seed set on first access. The seed is written back so subsequent
// readers see the same data.
func (r *SessionRepository) GetSessionData(ctx context.Context) (model.SessionData, error) {
	raw, err := r.store.Get(ctx, keySessionData)
	if errors.Is(err, store.ErrNotFound) {
		seed := seedSessionData()
		if err := r.UpdateSessionData(ctx, seed); err != nil {
			return model.SessionData{}, fmt.Errorf("failed to persist seed session data: %w", err)
		}
		r.logger.Info("session data seeded",
			zap.Int("users", len(seed.Users)),
			zap.Int("doctors", len(seed.Doctors)),
		)
		return seed, nil
	}
	if err != nil {
		return model.SessionData{}, fmt.Errorf("failed to load session data: %w", err)
	}

	var data model.SessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.SessionData{}, fmt.Errorf("failed to decode session data: %w", err)
	}
	return data, nil
}

// UpdateSessionData overwrites the stored collection wholesale. Last write
// wins; there is no version check.
func (r *SessionRepository) UpdateSessionData(ctx context.Context, data model.SessionData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode session data: %w", err)
	}
	if err := r.store.Put(ctx, keySessionData, raw); err != nil {
		return fmt.Errorf("failed to store session data: %w", err)
	}
	return nil
}

// UpsertUser adds the profile to the aggregate list, replacing any existing
// entry with the same identification id so a re-submitted questionnaire does
// not duplicate the citizen. The denormalized user count is recomputed.
func (r *SessionRepository) UpsertUser(ctx context.Context, profile model.UserProfile) error {
	data, err := r.GetSessionData(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range data.Users {
		if data.Users[i].IdentificationID == profile.IdentificationID {
			data.Users[i] = profile
			replaced = true
			break
		}
	}
	if !replaced {
		data.Users = append(data.Users, profile)
	}
	data.Stats.TotalUsers = len(data.Users)

	if err := r.UpdateSessionData(ctx, data); err != nil {
		return err
	}

	r.logger.Info("user upserted into session data",
		zap.String("user_id", profile.UserID),
		zap.Bool("replaced", replaced),
		zap.Int("total_users", data.Stats.TotalUsers),
	)
	return nil
}

// Identity returns the current session identity, or ErrNoIdentity.
func (r *SessionRepository) Identity(ctx context.Context) (model.SessionIdentity, error) {
	raw, err := r.store.Get(ctx, keyUserSession)
	if errors.Is(err, store.ErrNotFound) {
		return model.SessionIdentity{}, ErrNoIdentity
	}
	if err != nil {
		return model.SessionIdentity{}, fmt.Errorf("failed to load session identity: %w", err)
	}

	var identity model.SessionIdentity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return model.SessionIdentity{}, fmt.Errorf("failed to decode session identity: %w", err)
	}
	return identity, nil
}

// SetIdentity overwrites the active session identity.
func (r *SessionRepository) SetIdentity(ctx context.Context, identity model.SessionIdentity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to encode session identity: %w", err)
	}
	if err := r.store.Put(ctx, keyUserSession, raw); err != nil {
		return fmt.Errorf("failed to store session identity: %w", err)
	}
	return nil
}

// ClearIdentity removes the active session identity.
func (r *SessionRepository) ClearIdentity(ctx context.Context) error {
	if err := r.store.Delete(ctx, keyUserSession); err != nil {
		return fmt.Errorf("failed to clear session identity: %w", err)
	}
	return nil
}

// Language returns the stored display language, defaulting to English.
func (r *SessionRepository) Language(ctx context.Context) (model.Language, error) {
	raw, err := r.store.Get(ctx, keySelectedLanguage)
	if errors.Is(err, store.ErrNotFound) {
		return model.LanguageEnglish, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load language: %w", err)
	}

	var lang model.Language
	if err := json.Unmarshal(raw, &lang); err != nil {
		return "", fmt.Errorf("failed to decode language: %w", err)
	}
	if !model.ValidLanguage(lang) {
		return model.LanguageEnglish, nil
	}
	return lang, nil
}

// SetLanguage stores the display language preference.
func (r *SessionRepository) SetLanguage(ctx context.Context, lang model.Language) error {
	if !model.ValidLanguage(lang) {
		return fmt.Errorf("unsupported language %q", lang)
	}
	raw, err := json.Marshal(lang)
	if err != nil {
		return fmt.Errorf("failed to encode language: %w", err)
	}
	if err := r.store.Put(ctx, keySelectedLanguage, raw); err != nil {
		return fmt.Errorf("failed to store language: %w", err)
	}
	return nil
}
