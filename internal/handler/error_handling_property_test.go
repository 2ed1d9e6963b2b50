package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func TestProperty_ErrorResponseStructure(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	logger := zap.NewNop()

	// Binding failures never reach a service, so handlers can be constructed
	// without one here.
	properties.Property("All error responses follow standard structure with code, message, and optional details", prop.ForAll(
		func(errorScenario string) bool {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			_, router := gin.CreateTestContext(w)

			var req *http.Request

			switch errorScenario {
			case "invalid_json_citizen_login":
				h := &AuthHandler{logger: logger}
				router.POST("/test", h.LoginCitizen)
				req = httptest.NewRequest("POST", "/test", bytes.NewBufferString("{invalid json"))

			case "missing_citizen_fields":
				h := &AuthHandler{logger: logger}
				router.POST("/test", h.LoginCitizen)
				req = httptest.NewRequest("POST", "/test", bytes.NewBufferString(`{}`))

			case "missing_doctor_password":
				h := &AuthHandler{logger: logger}
				router.POST("/test", h.LoginDoctor)
				req = httptest.NewRequest("POST", "/test", bytes.NewBufferString(`{"email":"doctor@swasth.com"}`))

			case "missing_admin_key":
				h := &AuthHandler{logger: logger}
				router.POST("/test", h.LoginAdmin)
				req = httptest.NewRequest("POST", "/test", bytes.NewBufferString(`{}`))

			case "missing_note_user":
				h := &ProfileHandler{logger: logger}
				router.PUT("/test", h.SetMedicalNote)
				req = httptest.NewRequest("PUT", "/test", bytes.NewBufferString(`{"note":"stable"}`))

			case "unsupported_language":
				h := &ProfileHandler{logger: logger}
				router.PUT("/test", h.SetLanguage)
				req = httptest.NewRequest("PUT", "/test", bytes.NewBufferString(`{"language":"fr"}`))

			default:
				return true
			}

			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Logf("Scenario %s: Expected status 400, got %d", errorScenario, w.Code)
				return false
			}

			var errorResp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errorResp); err != nil {
				t.Logf("Scenario %s: Failed to parse error response: %v, body: %s", errorScenario, err, w.Body.String())
				return false
			}

			if errorResp.Code != "VALIDATION_ERROR" {
				t.Logf("Scenario %s: Expected error code 'VALIDATION_ERROR', got '%s'", errorScenario, errorResp.Code)
				return false
			}

			if errorResp.Message == "" {
				t.Logf("Scenario %s: Error response missing 'message' field", errorScenario)
				return false
			}

			return true
		},
		gen.OneConstOf(
			"invalid_json_citizen_login",
			"missing_citizen_fields",
			"missing_doctor_password",
			"missing_admin_key",
			"missing_note_user",
			"unsupported_language",
		),
	))

	properties.TestingRun(t)
}

func TestProperty_RequestValidationCompleteness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	logger := zap.NewNop()

	// Every malformed body is rejected at the binding layer with a 400, no
	// matter which shape the malformation takes.
	properties.Property("Request validation catches all invalid inputs and returns appropriate error responses", prop.ForAll(
		func(body string) bool {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			_, router := gin.CreateTestContext(w)

			h := &AuthHandler{logger: logger}
			router.POST("/test", h.LoginDoctor)

			req := httptest.NewRequest("POST", "/test", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Logf("Body %q: Expected status 400 for validation error, got %d", body, w.Code)
				return false
			}

			var errorResp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errorResp); err != nil {
				t.Logf("Body %q: Failed to parse error response: %v, got: %s", body, err, w.Body.String())
				return false
			}

			return errorResp.Code == "VALIDATION_ERROR" && errorResp.Message != ""
		},
		gen.OneConstOf(
			`{invalid json`,
			`[1,2,3`,
			`[]`,
			`{"email":`,
			`{"email": "a"value"}`,
			`{"email":"doctor@swasth.com","password":""}`,
			``,
		),
	))

	properties.TestingRun(t)
}
