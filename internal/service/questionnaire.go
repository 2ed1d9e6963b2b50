package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/swasth-health/portal-backend/internal/audit"
	"github.com/swasth-health/portal-backend/internal/repository"
	"github.com/swasth-health/portal-backend/pkg/model"
	"go.uber.org/zap"
)

// QuestionType represents the input type of a question.
type QuestionType string

const (
	QuestionTypeText     QuestionType = "text"
	QuestionTypeNumber   QuestionType = "number"
	QuestionTypeTel      QuestionType = "tel"
	QuestionTypeSelect   QuestionType = "select"
	QuestionTypeTextarea QuestionType = "textarea"
)

// Question is one step of the registration questionnaire.
type Question struct {
	Key      string       `json:"key"`
	Label    string       `json:"label"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Required bool         `json:"required"`
}

// Questions returns the fixed linear question sequence.
func Questions() []Question {
	return []Question{
		{Key: "fullName", Label: "Full Name", Type: QuestionTypeText, Required: true},
		{Key: "age", Label: "Age", Type: QuestionTypeNumber, Required: true},
		{Key: "gender", Label: "Gender", Type: QuestionTypeSelect, Options: []string{"male", "female", "other"}, Required: true},
		{Key: "profession", Label: "Profession", Type: QuestionTypeText, Required: true},
		{Key: "phone", Label: "Phone Number", Type: QuestionTypeTel, Required: true},
		{Key: "address", Label: "Address", Type: QuestionTypeTextarea, Required: true},
		{Key: "emergencyContact", Label: "Emergency Contact", Type: QuestionTypeText, Required: true},
		{Key: "bloodGroup", Label: "Blood Group", Type: QuestionTypeSelect, Options: model.BloodGroups, Required: true},
		{Key: "medicalHistory", Label: "Medical History", Type: QuestionTypeTextarea, Required: false},
		{Key: "currentMedications", Label: "Current Medications", Type: QuestionTypeTextarea, Required: false},
	}
}

// ErrAnswerRequired is returned when Next or Submit is attempted with an
// empty answer to a required question.
var ErrAnswerRequired = errors.New("service: answer required for current question")

// ErrNotAtLastQuestion is returned when Submit is attempted before the final
// question.
var ErrNotAtLastQuestion = errors.New("service: submit only allowed at the last question")

// Flow is one citizen's questionnaire in progress: a fixed question sequence,
// a cursor, and the answers entered so far. Answers are keyed by question
// field and survive backward navigation.
type Flow struct {
	questions []Question
	current   int
	answers   map[string]string
}

// NewFlow starts an empty questionnaire flow.
func NewFlow() *Flow {
	return &Flow{
		questions: Questions(),
		current:   0,
		answers:   make(map[string]string),
	}
}

// Current returns the active question and its zero-based index.
func (f *Flow) Current() (Question, int) {
	return f.questions[f.current], f.current
}

// Total returns the number of questions.
func (f *Flow) Total() int {
	return len(f.questions)
}

// Answer returns the stored answer for a question key.
func (f *Flow) Answer(key string) string {
	return f.answers[key]
}

// SetAnswer records the answer for the active question.
func (f *Flow) SetAnswer(value string) {
	f.answers[f.questions[f.current].Key] = value
}

// currentValid reports whether the active question's requirement is met:
// required answers must be non-empty after trimming whitespace.
func (f *Flow) currentValid() bool {
	q := f.questions[f.current]
	if !q.Required {
		return true
	}
	return strings.TrimSpace(f.answers[q.Key]) != ""
}

// Next advances to the following question. It is a no-op at the last index
// and fails if the current required answer is empty.
func (f *Flow) Next() error {
	if !f.currentValid() {
		return ErrAnswerRequired
	}
	if f.current < len(f.questions)-1 {
		f.current++
	}
	return nil
}

// Previous steps back one question, preserving all answers. No-op at the
// first index.
func (f *Flow) Previous() {
	if f.current > 0 {
		f.current--
	}
}

// AtLast reports whether the cursor is on the final question.
func (f *Flow) AtLast() bool {
	return f.current == len(f.questions)-1
}

// QuestionnaireService manages in-progress questionnaire flows keyed by the
// citizen's identity key, and turns a completed flow into a stored profile.
type QuestionnaireService struct {
	profiles *repository.ProfileRepository
	sessions *repository.SessionRepository
	auditor  *audit.Logger
	logger   *zap.Logger

	mu    sync.Mutex
	flows map[string]*Flow

	now    func() time.Time
	nextID func() string
}

// NewQuestionnaireService creates a new QuestionnaireService.
func NewQuestionnaireService(
	profiles *repository.ProfileRepository,
	sessions *repository.SessionRepository,
	auditor *audit.Logger,
	logger *zap.Logger,
) *QuestionnaireService {
	return &QuestionnaireService{
		profiles: profiles,
		sessions: sessions,
		auditor:  auditor,
		logger:   logger,
		flows:    make(map[string]*Flow),
		now:      time.Now,
		nextID: func() string {
			return fmt.Sprintf("USER_%d", time.Now().UnixMilli())
		},
	}
}

// Start begins (or restarts) a flow for the identity key.
func (s *QuestionnaireService) Start(identityKey string) *Flow {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow := NewFlow()
	s.flows[identityKey] = flow
	return flow
}

// Flow returns the in-progress flow for the identity key, starting one if
// none exists.
func (s *QuestionnaireService) Flow(identityKey string) *Flow {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, ok := s.flows[identityKey]
	if !ok {
		flow = NewFlow()
		s.flows[identityKey] = flow
	}
	return flow
}

// Submit finalizes the flow for the identity: it generates the user id,
// stamps completion and creation time, stores the profile under the identity
// key and upserts it into the aggregate user list in the same call, then
// updates the session identity. The flow is discarded on success.
func (s *QuestionnaireService) Submit(ctx context.Context, identity model.SessionIdentity) (model.UserProfile, error) {
	s.mu.Lock()
	flow, ok := s.flows[identity.ID]
	s.mu.Unlock()
	if !ok {
		return model.UserProfile{}, fmt.Errorf("no questionnaire in progress for this session")
	}

	if !flow.AtLast() {
		return model.UserProfile{}, ErrNotAtLastQuestion
	}
	if !flow.currentValid() {
		return model.UserProfile{}, ErrAnswerRequired
	}
	for i, q := range flow.questions {
		if q.Required && strings.TrimSpace(flow.answers[q.Key]) == "" {
			return model.UserProfile{}, fmt.Errorf("question %d (%s): %w", i+1, q.Key, ErrAnswerRequired)
		}
	}

	now := s.now()
	profile := model.UserProfile{
		UserID:             s.nextID(),
		FullName:           flow.answers["fullName"],
		Age:                flow.answers["age"],
		Gender:             model.Gender(flow.answers["gender"]),
		Profession:         flow.answers["profession"],
		Phone:              flow.answers["phone"],
		Address:            flow.answers["address"],
		EmergencyContact:   flow.answers["emergencyContact"],
		BloodGroup:         flow.answers["bloodGroup"],
		MedicalHistory:     flow.answers["medicalHistory"],
		CurrentMedications: flow.answers["currentMedications"],
		CitizenType:        identity.CitizenType,
		IdentificationID:   identity.ID,
		CreatedAt:          now,
		ProfileCompleted:   true,
	}

	// A re-submitted questionnaire keeps the previously generated user id so
	// documents and notes stay addressable.
	if existing, err := s.profiles.LoadProfile(ctx, identity.ID); err == nil && existing.UserID != "" {
		profile.UserID = existing.UserID
	}

	if err := s.profiles.SaveProfile(ctx, identity.ID, profile); err != nil {
		return model.UserProfile{}, err
	}
	if err := s.sessions.UpsertUser(ctx, profile); err != nil {
		return model.UserProfile{}, err
	}

	identity.UserID = profile.UserID
	identity.ProfileCompleted = true
	if err := s.sessions.SetIdentity(ctx, identity); err != nil {
		return model.UserProfile{}, err
	}

	s.auditor.Log(ctx, audit.Entry{
		Subject:       identity.ID,
		OperationType: audit.OperationCreate,
		ResourceType:  audit.ResourceProfile,
		ResourceID:    profile.UserID,
	})

	s.mu.Lock()
	delete(s.flows, identity.ID)
	s.mu.Unlock()

	s.logger.Info("questionnaire submitted",
		zap.String("user_id", profile.UserID),
	)
	return profile, nil
}
