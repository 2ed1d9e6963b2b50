package integration_tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swasth-health/portal-backend/internal/audit"
	"github.com/swasth-health/portal-backend/internal/blob"
	"github.com/swasth-health/portal-backend/internal/handler"
	"github.com/swasth-health/portal-backend/internal/repository"
	"github.com/swasth-health/portal-backend/internal/security"
	"github.com/swasth-health/portal-backend/internal/service"
	"github.com/swasth-health/portal-backend/internal/store"
	"go.uber.org/zap"
)

const (
	testJWTSecret     = "integration-test-secret"
	testEncryptionKey = "0123456789abcdef0123456789abcdef"
	testAadhaar       = "999988887777"
)

func setupPortal(t *testing.T) *gin.Engine {
	t.Helper()

	logger := zap.NewNop()
	kv := store.NewMemoryStore()
	documents := blob.NewMemoryStorage(logger)

	encryptor, err := security.NewEncryptor([]byte(testEncryptionKey))
	require.NoError(t, err)

	auditLogger := audit.NewLogger(kv, logger)
	sessionRepo := repository.NewSessionRepository(kv, logger)
	profileRepo := repository.NewProfileRepository(kv, encryptor, logger)

	authService, err := service.NewAuthService(
		sessionRepo,
		profileRepo,
		auditLogger,
		testJWTSecret,
		time.Hour,
		logger,
	)
	require.NoError(t, err)

	handlers := handler.Handlers{
		Auth:          handler.NewAuthHandler(authService, logger),
		Questionnaire: handler.NewQuestionnaireHandler(service.NewQuestionnaireService(profileRepo, sessionRepo, auditLogger, logger), sessionRepo, logger),
		Profile:       handler.NewProfileHandler(service.NewProfileService(profileRepo, sessionRepo, auditLogger, logger), logger),
		Document:      handler.NewDocumentHandler(service.NewDocumentService(profileRepo, documents, auditLogger, logger), sessionRepo, logger),
		Dashboard:     handler.NewDashboardHandler(service.NewDashboardService(sessionRepo, logger), logger),
		Health:        handler.NewHealthHandler(kv, logger),
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.RegisterRoutes(router, handlers, testJWTSecret, logger)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func loginCitizen(t *testing.T, router *gin.Engine) (token string, result map[string]any) {
	t.Helper()

	w := doJSON(t, router, "POST", "/api/v1/auth/login/citizen", "", gin.H{
		"citizenType":      "indian",
		"identificationId": testAadhaar,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	decode(t, w, &result)
	token, _ = result["token"].(string)
	require.NotEmpty(t, token)
	return token, result
}

// answers in question order; the last two are the optional medical fields.
var questionnaireAnswers = []string{
	"Anjali Pillai",
	"29",
	"female",
	"Nurse",
	"+91-9876501234",
	"Vyttila, Kochi, Kerala 682019",
	"+91-9876509876",
	"B+",
	"None",
	"None",
}

func completeQuestionnaire(t *testing.T, router *gin.Engine, token string) map[string]any {
	t.Helper()

	w := doJSON(t, router, "POST", "/api/v1/questionnaire/start", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, answer := range questionnaireAnswers {
		w = doJSON(t, router, "POST", "/api/v1/questionnaire/answer", token, gin.H{"answer": answer})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	var state map[string]any
	decode(t, w, &state)
	require.Equal(t, true, state["atLast"], "flow should sit at the last question after all answers")

	w = doJSON(t, router, "POST", "/api/v1/questionnaire/submit", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile map[string]any
	decode(t, w, &profile)
	return profile
}

func TestCitizenRegistrationFlow(t *testing.T) {
	router := setupPortal(t)

	token, result := loginCitizen(t, router)
	assert.Equal(t, false, result["profileComplete"], "first login should not resume a profile")

	profile := completeQuestionnaire(t, router, token)

	userID, _ := profile["userId"].(string)
	assert.True(t, strings.HasPrefix(userID, "USER_"), "user id should be time-based: %s", userID)
	assert.Equal(t, "Anjali Pillai", profile["fullName"])
	assert.Equal(t, testAadhaar, profile["identificationId"])
	assert.Equal(t, true, profile["profileCompleted"])

	// The stored profile is readable back through the citizen endpoint.
	w := doJSON(t, router, "GET", "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fetched map[string]any
	decode(t, w, &fetched)
	assert.Equal(t, userID, fetched["userId"])
	assert.Equal(t, "Anjali Pillai", fetched["fullName"])

	// A returning login resumes the completed profile.
	_, again := loginCitizen(t, router)
	assert.Equal(t, true, again["profileComplete"])
}

func TestDocumentLifecycleOverHTTP(t *testing.T) {
	router := setupPortal(t)

	token, _ := loginCitizen(t, router)
	completeQuestionnaire(t, router, token)

	// Upload a file through the multipart endpoint.
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "prescription.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 sample"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest("POST", "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var uploaded map[string]any
	decode(t, w, &uploaded)
	docID, _ := uploaded["id"].(string)
	require.NotEmpty(t, docID)
	assert.Equal(t, "prescription.pdf", uploaded["name"])

	// It shows up in the listing.
	listResp := doJSON(t, router, "GET", "/api/v1/documents", token, nil)
	require.Equal(t, http.StatusOK, listResp.Code)
	var docs []map[string]any
	decode(t, listResp, &docs)
	require.Len(t, docs, 1)

	// Content round-trips.
	downloadResp := doJSON(t, router, "GET", "/api/v1/documents/"+docID, token, nil)
	require.Equal(t, http.StatusOK, downloadResp.Code)
	assert.Equal(t, "%PDF-1.4 sample", downloadResp.Body.String())

	// Delete empties the listing.
	deleteResp := doJSON(t, router, "DELETE", "/api/v1/documents/"+docID, token, nil)
	require.Equal(t, http.StatusOK, deleteResp.Code, deleteResp.Body.String())

	listResp = doJSON(t, router, "GET", "/api/v1/documents", token, nil)
	decode(t, listResp, &docs)
	assert.Empty(t, docs)
}

func TestDoctorNoteReachesCitizen(t *testing.T) {
	router := setupPortal(t)

	citizenToken, _ := loginCitizen(t, router)
	profile := completeQuestionnaire(t, router, citizenToken)
	userID, _ := profile["userId"].(string)

	// Doctor signs in and records a note for the new patient.
	w := doJSON(t, router, "POST", "/api/v1/auth/login/doctor", "", gin.H{
		"email":    "doctor@swasth.com",
		"password": "doctor123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var doctorLogin map[string]any
	decode(t, w, &doctorLogin)
	doctorToken, _ := doctorLogin["token"].(string)
	require.NotEmpty(t, doctorToken)

	w = doJSON(t, router, "PUT", "/api/v1/doctor/medical-note", doctorToken, gin.H{
		"userId": userID,
		"note":   "BP stable, review in two weeks",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The citizen reads the note back.
	w = doJSON(t, router, "GET", fmt.Sprintf("/api/v1/medical-note?userId=%s", userID), citizenToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var note map[string]any
	decode(t, w, &note)
	assert.Equal(t, "BP stable, review in two weeks", note["note"])
}

func TestDashboardsReflectRegistrations(t *testing.T) {
	router := setupPortal(t)

	citizenToken, _ := loginCitizen(t, router)
	completeQuestionnaire(t, router, citizenToken)

	w := doJSON(t, router, "POST", "/api/v1/auth/login/doctor", "", gin.H{
		"email":    "doctor@swasth.com",
		"password": "doctor123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var doctorLogin map[string]any
	decode(t, w, &doctorLogin)
	doctorToken, _ := doctorLogin["token"].(string)

	w = doJSON(t, router, "GET", "/api/v1/doctor/overview", doctorToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var overview map[string]any
	decode(t, w, &overview)
	doctor, _ := overview["doctor"].(map[string]any)
	require.NotNil(t, doctor)
	assert.Equal(t, "Dr. Ramesh Kumar", doctor["name"])

	w = doJSON(t, router, "POST", "/api/v1/auth/login/admin", "", gin.H{"accessKey": "ADMIN2024"})
	require.Equal(t, http.StatusOK, w.Code)
	var adminLogin map[string]any
	decode(t, w, &adminLogin)
	adminToken, _ := adminLogin["token"].(string)

	w = doJSON(t, router, "GET", "/api/v1/admin/overview", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var adminOverview map[string]any
	decode(t, w, &adminOverview)

	// Three seeded citizens plus the one registered above.
	assert.Equal(t, float64(4), adminOverview["totalUsers"])

	w = doJSON(t, router, "GET", "/api/v1/admin/trends", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var trends []map[string]any
	decode(t, w, &trends)
	require.NotEmpty(t, trends)
	assert.Equal(t, "Kochi", trends[0]["name"], "regions are ranked by patient volume")
}

func TestRoleBoundariesEnforced(t *testing.T) {
	router := setupPortal(t)

	// No token at all.
	w := doJSON(t, router, "GET", "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A garbage token.
	w = doJSON(t, router, "GET", "/api/v1/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A citizen reaching for the doctor and admin surfaces.
	citizenToken, _ := loginCitizen(t, router)
	w = doJSON(t, router, "GET", "/api/v1/doctor/overview", citizenToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, router, "GET", "/api/v1/admin/overview", citizenToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A doctor cannot touch the citizen questionnaire.
	resp := doJSON(t, router, "POST", "/api/v1/auth/login/doctor", "", gin.H{
		"email":    "doctor@swasth.com",
		"password": "doctor123",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var doctorLogin map[string]any
	decode(t, resp, &doctorLogin)
	doctorToken, _ := doctorLogin["token"].(string)

	w = doJSON(t, router, "POST", "/api/v1/questionnaire/start", doctorToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLanguagePreferenceRoundTrip(t *testing.T) {
	router := setupPortal(t)

	w := doJSON(t, router, "GET", "/api/v1/language", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lang map[string]any
	decode(t, w, &lang)
	assert.Equal(t, "en", lang["language"])

	w = doJSON(t, router, "PUT", "/api/v1/language", "", gin.H{"language": "ml"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, "GET", "/api/v1/language", "", nil)
	decode(t, w, &lang)
	assert.Equal(t, "ml", lang["language"])

	w = doJSON(t, router, "PUT", "/api/v1/language", "", gin.H{"language": "fr"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := setupPortal(t)

	w := doJSON(t, router, "GET", "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "healthy", body["status"])
}
