package model

import (
	"strings"
	"time"
)

// Role identifies which portal a session belongs to.
type Role string

const (
	RoleUser   Role = "user"
	RoleDoctor Role = "doctor"
	RoleAdmin  Role = "admin"
)

// Gender enum as collected by the questionnaire.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// CitizenType distinguishes Aadhaar holders from passport holders.
type CitizenType string

const (
	CitizenIndian  CitizenType = "indian"
	CitizenForeign CitizenType = "foreign"
)

// Language is the portal display language preference.
type Language string

const (
	LanguageEnglish   Language = "en"
	LanguageHindi     Language = "hi"
	LanguageMalayalam Language = "ml"
)

// ValidLanguage reports whether l is one of the supported languages.
func ValidLanguage(l Language) bool {
	return l == LanguageEnglish || l == LanguageHindi || l == LanguageMalayalam
}

// BloodGroups is the fixed set of accepted blood group values.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// UserProfile is one registered citizen's demographic and medical record.
// Age is kept as the raw string the questionnaire collected; aggregation
// parses it and excludes unparsable values.
type UserProfile struct {
	UserID             string      `json:"userId"`
	FullName           string      `json:"fullName"`
	Age                string      `json:"age"`
	Gender             Gender      `json:"gender"`
	Profession         string      `json:"profession"`
	Phone              string      `json:"phone"`
	Address            string      `json:"address"`
	EmergencyContact   string      `json:"emergencyContact"`
	BloodGroup         string      `json:"bloodGroup"`
	MedicalHistory     string      `json:"medicalHistory"`
	CurrentMedications string      `json:"currentMedications"`
	CitizenType        CitizenType `json:"citizenType"`
	IdentificationID   string      `json:"identificationId"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          *time.Time  `json:"updatedAt,omitempty"`
	ProfileCompleted   bool        `json:"profileCompleted"`
	Symptoms           []string    `json:"symptoms,omitempty"`
	Diagnosis          string      `json:"diagnosis,omitempty"`
	PrescribedMedicine string      `json:"prescribedMedicine,omitempty"`
	VisitDate          string      `json:"visitDate,omitempty"`
}

// Region extracts the coarse geographic label from the profile address:
// the second-to-last comma-separated segment, or "Unknown".
func (p UserProfile) Region() string {
	parts := strings.Split(p.Address, ",")
	if len(parts) < 2 {
		return "Unknown"
	}
	region := strings.TrimSpace(parts[len(parts)-2])
	if region == "" {
		return "Unknown"
	}
	return region
}

// DoctorRecord is a static registry entry for a doctor account.
type DoctorRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
	PatientsToday  int    `json:"patientsToday"`
	TotalPatients  int    `json:"totalPatients"`
}

// SessionStats is the denormalized counter block kept alongside the user list.
type SessionStats struct {
	TotalUsers          int `json:"totalUsers"`
	DiseasesReported    int `json:"diseasesReported"`
	MedicinesPrescribed int `json:"medicinesPrescribed"`
	DailyVisits         int `json:"dailyVisits"`
}

// SessionData is the canonical collection aggregation reads from.
type SessionData struct {
	Users   []UserProfile  `json:"users"`
	Doctors []DoctorRecord `json:"doctors"`
	Stats   SessionStats   `json:"stats"`
}

// SessionIdentity is the currently logged-in role and its credentials.
// One active identity at a time; overwritten on login, cleared on logout.
type SessionIdentity struct {
	Role             Role        `json:"type"`
	CitizenType      CitizenType `json:"citizenType,omitempty"`
	ID               string      `json:"id,omitempty"`
	Email            string      `json:"email,omitempty"`
	Name             string      `json:"name,omitempty"`
	UserID           string      `json:"userId,omitempty"`
	ProfileCompleted bool        `json:"profileCompleted,omitempty"`
	LoginTime        time.Time   `json:"loginTime"`
}

// Document is the stored metadata for an uploaded artifact. Content lives in
// blob storage under BlobName.
type Document struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"type"`
	Size        int64     `json:"size"`
	UploadDate  time.Time `json:"uploadDate"`
	BlobName    string    `json:"blobName"`
}

// DiseaseShare is one row of a region's fixed disease-percentage table.
type DiseaseShare struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RegionTrend is a fixed regional health statistics entry; it is reference
// data, not derived from live profiles.
type RegionTrend struct {
	Name           string         `json:"name"`
	TotalPatients  int            `json:"totalPatients"`
	CommonDiseases []DiseaseShare `json:"commonDiseases"`
}
