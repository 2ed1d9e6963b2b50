package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/swasth-health/portal-backend/internal/repository"
	"github.com/swasth-health/portal-backend/pkg/model"
	"go.uber.org/zap"
)

// ErrDoctorNotFound is returned when the overview is requested for an email
// with no doctor record.
var ErrDoctorNotFound = errors.New("service: doctor not found")

// DoctorOverview is the data behind the doctor's dashboard.
type DoctorOverview struct {
	Doctor             model.DoctorRecord  `json:"doctor"`
	PatientsToday      int                 `json:"patientsToday"`
	TotalConsultations int                 `json:"totalConsultations"`
	TodaysSymptoms     []RankedCount       `json:"todaysSymptoms"`
	TodaysMedicines    []RankedCount       `json:"todaysMedicines"`
	PatientsByRegion   []RankedCount       `json:"patientsByRegion"`
	CommonDiseases     []RankedCount       `json:"commonDiseases"`
	RecentPatients     []model.UserProfile `json:"recentPatients"`
}

// AdminOverview is the data behind the administrator's dashboard.
type AdminOverview struct {
	TotalUsers          int            `json:"totalUsers"`
	TotalDoctors        int            `json:"totalDoctors"`
	RegistrationsToday  int            `json:"registrationsToday"`
	AverageAge          int            `json:"averageAge"`
	AgeBuckets          map[string]int `json:"ageBuckets"`
	AgeUnknown          int            `json:"ageUnknown"`
	GenderDistribution  GenderCounts   `json:"genderDistribution"`
	TopDiseases         []RankedCount  `json:"topDiseases"`
	TopMedicines        []RankedCount  `json:"topMedicines"`
	UsersByRegion       []RankedCount  `json:"usersByRegion"`
	CompletionRate      float64        `json:"completionRate"`
	DiseasesReported    int            `json:"diseasesReported"`
	MedicinesPrescribed int            `json:"medicinesPrescribed"`
}

// RegionalReport is one region's entry in the trends view.
type RegionalReport struct {
	model.RegionTrend
	HealthScore int `json:"healthScore"`
}

// DashboardService computes the doctor and admin dashboard views from the
// aggregate session data.
type DashboardService struct {
	sessions *repository.SessionRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(sessions *repository.SessionRepository, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// DoctorOverview assembles the dashboard for the doctor with the given
// email.
func (s *DashboardService) DoctorOverview(ctx context.Context, email string) (DoctorOverview, error) {
	data, err := s.sessions.GetSessionData(ctx)
	if err != nil {
		return DoctorOverview{}, err
	}

	doctor, ok := lo.Find(data.Doctors, func(d model.DoctorRecord) bool {
		return d.Email == email
	})
	if !ok {
		return DoctorOverview{}, ErrDoctorNotFound
	}

	now := s.now()
	today := TodayProfiles(data.Users, now)

	recent := make([]model.UserProfile, len(data.Users))
	copy(recent, data.Users)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return DoctorOverview{
		Doctor:             doctor,
		PatientsToday:      len(today),
		TotalConsultations: doctor.TotalPatients,
		TodaysSymptoms:     SymptomsOfDay(data.Users, now, 5),
		TodaysMedicines:    MedicinesOfDay(data.Users, now, 5),
		PatientsByRegion:   rankedRegions(data.Users),
		CommonDiseases:     DiseaseRanking(data.Users, 10),
		RecentPatients:     recent,
	}, nil
}

// AdminOverview assembles the administrator dashboard.
func (s *DashboardService) AdminOverview(ctx context.Context) (AdminOverview, error) {
	data, err := s.sessions.GetSessionData(ctx)
	if err != nil {
		return AdminOverview{}, err
	}

	buckets, unknown := AgeBuckets(data.Users)
	today := TodayProfiles(data.Users, s.now())

	return AdminOverview{
		TotalUsers:          len(data.Users),
		TotalDoctors:        len(data.Doctors),
		RegistrationsToday:  len(today),
		AverageAge:          AverageAge(data.Users),
		AgeBuckets:          buckets,
		AgeUnknown:          unknown,
		GenderDistribution:  GenderDistribution(data.Users),
		TopDiseases:         DiseaseRanking(data.Users, 10),
		TopMedicines:        MedicineRanking(data.Users, 10),
		UsersByRegion:       rankedRegions(data.Users),
		CompletionRate:      CompletionRate(data.Users),
		DiseasesReported:    data.Stats.DiseasesReported,
		MedicinesPrescribed: data.Stats.MedicinesPrescribed,
	}, nil
}

// RegionalTrends returns the per-region disease profile with each region's
// computed health score, ordered by patient count descending.
func (s *DashboardService) RegionalTrends(ctx context.Context) ([]RegionalReport, error) {
	trends := repository.KeralaTrends()

	reports := lo.Map(trends, func(t model.RegionTrend, _ int) RegionalReport {
		return RegionalReport{
			RegionTrend: t,
			HealthScore: RegionHealthScore(t),
		}
	})
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].TotalPatients > reports[j].TotalPatients
	})
	return reports, nil
}

// rankedRegions turns region counts into a descending ranking with
// alphabetical order among equals.
func rankedRegions(users []model.UserProfile) []RankedCount {
	counts := RegionCounts(users)

	names := lo.Keys(counts)
	sort.Strings(names)

	ranked := lo.Map(names, func(name string, _ int) RankedCount {
		return RankedCount{Name: name, Count: counts[name]}
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}
