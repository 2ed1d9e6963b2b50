package repository

import (
	"time"

	"github.com/swasth-health/portal-backend/pkg/model"
)

// Fixed reference data the portal ships with: a small sample population so
// the doctor and admin dashboards are not empty on first run, one doctor
// account, and the regional health trend tables.

func sampleUsers() []model.UserProfile {
	return []model.UserProfile{
		{
			UserID:             "USER_1735025234001",
			FullName:           "Arjun Nair",
			Age:                "32",
			Gender:             model.GenderMale,
			Profession:         "Software Engineer",
			Phone:              "+91-9876543210",
			Address:            "Kakkanad, Kochi, Kerala 682037",
			EmergencyContact:   "+91-9876543211",
			BloodGroup:         "O+",
			MedicalHistory:     "Hypertension, managed with medication",
			CurrentMedications: "Amlodipine 5mg daily",
			CitizenType:        model.CitizenIndian,
			IdentificationID:   "123456789012",
			CreatedAt:          time.Date(2024, time.December, 24, 8, 30, 0, 0, time.UTC),
			ProfileCompleted:   true,
			Symptoms:           []string{"Headache", "High BP"},
			Diagnosis:          "Hypertension",
			PrescribedMedicine: "Amlodipine 5mg",
			VisitDate:          "2024-12-24",
		},
		{
			UserID:             "USER_1735025234002",
			FullName:           "Priya Menon",
			Age:                "28",
			Gender:             model.GenderFemale,
			Profession:         "Teacher",
			Phone:              "+91-9876543212",
			Address:            "Thiruvananthapuram, Kerala 695001",
			EmergencyContact:   "+91-9876543213",
			BloodGroup:         "A+",
			MedicalHistory:     "Diabetes Type 2",
			CurrentMedications: "Metformin 500mg twice daily",
			CitizenType:        model.CitizenIndian,
			IdentificationID:   "123456789013",
			CreatedAt:          time.Date(2024, time.December, 24, 9, 15, 0, 0, time.UTC),
			ProfileCompleted:   true,
			Symptoms:           []string{"Fatigue", "Increased thirst"},
			Diagnosis:          "Diabetes Type 2",
			PrescribedMedicine: "Metformin 500mg",
			VisitDate:          "2024-12-24",
		},
		{
			UserID:             "USER_1735025234003",
			FullName:           "Ravi Kumar",
			Age:                "45",
			Gender:             model.GenderMale,
			Profession:         "Business Owner",
			Phone:              "+91-9876543214",
			Address:            "Kozhikode, Kerala 673001",
			EmergencyContact:   "+91-9876543215",
			BloodGroup:         "B+",
			MedicalHistory:     "Asthma",
			CurrentMedications: "Salbutamol inhaler as needed",
			CitizenType:        model.CitizenIndian,
			IdentificationID:   "123456789014",
			CreatedAt:          time.Date(2024, time.December, 24, 10, 0, 0, 0, time.UTC),
			ProfileCompleted:   true,
			Symptoms:           []string{"Shortness of breath", "Wheezing"},
			Diagnosis:          "Asthma exacerbation",
			PrescribedMedicine: "Salbutamol inhaler",
			VisitDate:          "2024-12-24",
		},
	}
}

func sampleDoctors(patientsToday int) []model.DoctorRecord {
	return []model.DoctorRecord{
		{
			ID:             "DOC_001",
			Name:           "Dr. Ramesh Kumar",
			Email:          "doctor@swasth.com",
			Specialization: "General Medicine",
			PatientsToday:  patientsToday,
			TotalPatients:  156,
		},
	}
}

// CommonDiseases is the fixed catalog of conditions the portal reports on.
var CommonDiseases = []string{
	"Diabetes Type 2",
	"Hypertension",
	"Asthma",
	"Cardiovascular Disease",
	"Arthritis",
	"Depression",
	"Anxiety",
	"Migraine",
	"COPD",
	"Thyroid Disorders",
}

// CommonMedicines is the fixed catalog of frequently prescribed medicines.
var CommonMedicines = []string{
	"Metformin 500mg",
	"Amlodipine 5mg",
	"Salbutamol inhaler",
	"Aspirin 75mg",
	"Atorvastatin 20mg",
	"Levothyroxine 50mcg",
	"Omeprazole 20mg",
	"Paracetamol 500mg",
	"Ibuprofen 400mg",
	"Cetirizine 10mg",
}

// KeralaTrends returns the fixed regional health statistics table.
func KeralaTrends() []model.RegionTrend {
	return []model.RegionTrend{
		{
			Name:          "Thiruvananthapuram",
			TotalPatients: 156,
			CommonDiseases: []model.DiseaseShare{
				{Name: "Diabetes", Count: 45, Percentage: 28.8},
				{Name: "Hypertension", Count: 38, Percentage: 24.4},
				{Name: "Cardiovascular", Count: 32, Percentage: 20.5},
				{Name: "Respiratory", Count: 25, Percentage: 16.0},
				{Name: "Others", Count: 16, Percentage: 10.3},
			},
		},
		{
			Name:          "Kochi",
			TotalPatients: 189,
			CommonDiseases: []model.DiseaseShare{
				{Name: "Hypertension", Count: 52, Percentage: 27.5},
				{Name: "Diabetes", Count: 48, Percentage: 25.4},
				{Name: "Respiratory", Count: 35, Percentage: 18.5},
				{Name: "Cardiovascular", Count: 31, Percentage: 16.4},
				{Name: "Others", Count: 23, Percentage: 12.2},
			},
		},
		{
			Name:          "Kozhikode",
			TotalPatients: 142,
			CommonDiseases: []model.DiseaseShare{
				{Name: "Respiratory", Count: 38, Percentage: 26.8},
				{Name: "Diabetes", Count: 35, Percentage: 24.6},
				{Name: "Hypertension", Count: 32, Percentage: 22.5},
				{Name: "Cardiovascular", Count: 22, Percentage: 15.5},
				{Name: "Others", Count: 15, Percentage: 10.6},
			},
		},
		{
			Name:          "Thrissur",
			TotalPatients: 123,
			CommonDiseases: []model.DiseaseShare{
				{Name: "Diabetes", Count: 34, Percentage: 27.6},
				{Name: "Hypertension", Count: 31, Percentage: 25.2},
				{Name: "Cardiovascular", Count: 25, Percentage: 20.3},
				{Name: "Respiratory", Count: 21, Percentage: 17.1},
				{Name: "Others", Count: 12, Percentage: 9.8},
			},
		},
	}
}

func seedSessionData() model.SessionData {
	users := sampleUsers()
	return model.SessionData{
		Users:   users,
		Doctors: sampleDoctors(len(users)),
		Stats: model.SessionStats{
			TotalUsers:          len(users),
			DiseasesReported:    len(CommonDiseases),
			MedicinesPrescribed: len(CommonMedicines),
			DailyVisits:         len(users),
		},
	}
}
