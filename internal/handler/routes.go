package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/swasth-health/portal-backend/internal/middleware"
	"github.com/swasth-health/portal-backend/pkg/model"
	"go.uber.org/zap"
)

// Handlers bundles every handler for route registration.
type Handlers struct {
	Auth          *AuthHandler
	Questionnaire *QuestionnaireHandler
	Profile       *ProfileHandler
	Document      *DocumentHandler
	Dashboard     *DashboardHandler
	Health        *HealthHandler
}

// RegisterRoutes wires all endpoints onto the router. Authenticated groups
// are guarded by token verification and role checks.
func RegisterRoutes(router *gin.Engine, h Handlers, jwtSecret string, logger *zap.Logger) {
	router.GET("/health", h.Health.Check)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login/citizen", h.Auth.LoginCitizen)
		auth.POST("/login/doctor", h.Auth.LoginDoctor)
		auth.POST("/login/admin", h.Auth.LoginAdmin)
		auth.POST("/logout", h.Auth.Logout)
	}

	authenticated := v1.Group("")
	authenticated.Use(middleware.Authentication(jwtSecret, logger))

	citizen := authenticated.Group("")
	citizen.Use(middleware.RequireRole(model.RoleUser))
	{
		citizen.POST("/questionnaire/start", h.Questionnaire.Start)
		citizen.GET("/questionnaire/current", h.Questionnaire.Current)
		citizen.POST("/questionnaire/answer", h.Questionnaire.Answer)
		citizen.POST("/questionnaire/previous", h.Questionnaire.Previous)
		citizen.POST("/questionnaire/submit", h.Questionnaire.Submit)

		citizen.GET("/profile", h.Profile.Get)
		citizen.PUT("/profile", h.Profile.Update)
	}

	patientData := authenticated.Group("")
	patientData.Use(middleware.RequireRole(model.RoleUser, model.RoleDoctor))
	{
		patientData.GET("/documents", h.Document.List)
		patientData.POST("/documents", h.Document.Upload)
		patientData.GET("/documents/:id", h.Document.Download)
		patientData.DELETE("/documents/:id", h.Document.Delete)

		patientData.GET("/medical-note", h.Profile.MedicalNote)
	}

	doctor := authenticated.Group("/doctor")
	doctor.Use(middleware.RequireRole(model.RoleDoctor))
	{
		doctor.GET("/overview", h.Dashboard.DoctorOverview)
		doctor.PUT("/medical-note", h.Profile.SetMedicalNote)
	}

	admin := authenticated.Group("/admin")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("/overview", h.Dashboard.AdminOverview)
		admin.GET("/trends", h.Dashboard.RegionalTrends)
	}

	v1.GET("/language", h.Profile.Language)
	v1.PUT("/language", h.Profile.SetLanguage)
}
