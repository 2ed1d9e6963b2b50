package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swasth-health/portal-backend/internal/repository"
	"github.com/swasth-health/portal-backend/pkg/model"
	"go.uber.org/zap"
)

func (e *testEnv) profileService() *ProfileService {
	return NewProfileService(e.profiles, e.sessions, e.auditor, zap.NewNop())
}

func storedProfile() model.UserProfile {
	return model.UserProfile{
		UserID:           "USER_1735025234050",
		FullName:         "Meera Pillai",
		Age:              "34",
		Gender:           model.GenderFemale,
		Address:          "21 Hill View, Kakkanad, Kochi, Kerala",
		CitizenType:      model.CitizenIndian,
		IdentificationID: "123456789012",
		CreatedAt:        time.Date(2024, time.December, 20, 10, 0, 0, 0, time.UTC),
		ProfileCompleted: true,
	}
}

func TestProfileService_Get(t *testing.T) {
	env := newTestEnv(t)
	service := env.profileService()
	ctx := context.Background()

	require.NoError(t, env.profiles.SaveProfile(ctx, "123456789012", storedProfile()))

	profile, err := service.Get(ctx, "123456789012")
	require.NoError(t, err)
	assert.Equal(t, "Meera Pillai", profile.FullName)
}

func TestProfileService_GetMissing(t *testing.T) {
	env := newTestEnv(t)
	service := env.profileService()

	_, err := service.Get(context.Background(), "999999999999")
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
}

func TestProfileService_UpdatePreservesImmutableFields(t *testing.T) {
	env := newTestEnv(t)
	service := env.profileService()
	ctx := context.Background()

	original := storedProfile()
	require.NoError(t, env.profiles.SaveProfile(ctx, original.IdentificationID, original))
	require.NoError(t, env.sessions.UpsertUser(ctx, original))

	edit := model.UserProfile{
		UserID:           "USER_FORGED",
		IdentificationID: "000000000000",
		FullName:         "Meera P",
		Age:              "35",
		Gender:           model.GenderFemale,
		Address:          original.Address,
		Profession:       "Architect",
	}

	updated, err := service.Update(ctx, original.IdentificationID, edit)
	require.NoError(t, err)

	assert.Equal(t, original.UserID, updated.UserID)
	assert.Equal(t, original.IdentificationID, updated.IdentificationID)
	assert.Equal(t, original.CitizenType, updated.CitizenType)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.ProfileCompleted)
	assert.NotNil(t, updated.UpdatedAt)

	assert.Equal(t, "Meera P", updated.FullName)
	assert.Equal(t, "35", updated.Age)
	assert.Equal(t, "Architect", updated.Profession)

	// The aggregate user list entry was replaced, not duplicated.
	data, err := env.sessions.GetSessionData(ctx)
	require.NoError(t, err)
	count := 0
	for _, u := range data.Users {
		if u.IdentificationID == original.IdentificationID {
			count++
			assert.Equal(t, "Meera P", u.FullName)
		}
	}
	assert.Equal(t, 1, count)
}

func TestProfileService_UpdateMissing(t *testing.T) {
	env := newTestEnv(t)
	service := env.profileService()

	_, err := service.Update(context.Background(), "999999999999", model.UserProfile{})
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
}

func TestProfileService_MedicalNoteRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	service := env.profileService()
	ctx := context.Background()

	note, err := service.MedicalNote(ctx, "USER_1")
	require.NoError(t, err)
	assert.Empty(t, note, "a user without a note reads an empty string")

	require.NoError(t, service.SetMedicalNote(ctx, "doctor@swasth.com", "USER_1", "BP elevated, review in 2 weeks"))

	note, err = service.MedicalNote(ctx, "USER_1")
	require.NoError(t, err)
	assert.Equal(t, "BP elevated, review in 2 weeks", note)
}

func TestProfileService_MedicalNoteStoredEncrypted(t *testing.T) {
	env := newTestEnv(t)
	service := env.profileService()
	ctx := context.Background()

	plain := "Diagnosed with type 2 diabetes"
	require.NoError(t, service.SetMedicalNote(ctx, "doctor@swasth.com", "USER_1", plain))

	raw, err := env.store.Get(ctx, "medicalInfo_USER_1")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), plain)
}

func TestProfileService_Language(t *testing.T) {
	env := newTestEnv(t)
	service := env.profileService()
	ctx := context.Background()

	lang, err := service.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.LanguageEnglish, lang)

	require.NoError(t, service.SetLanguage(ctx, model.LanguageMalayalam))

	lang, err = service.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.LanguageMalayalam, lang)
}
