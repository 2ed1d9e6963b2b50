package service

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/swasth-health/portal-backend/pkg/model"
)

// Aggregation over the user collection. Every function here is a pure
// function of its inputs: no stored state, recomputed on each call, cost
// linear in the number of profiles.

// AgeBucketOrder lists the fixed age buckets in display order.
var AgeBucketOrder = []string{"0-18", "19-35", "36-50", "51-65", "65+"}

var ageBucketBounds = []struct {
	label string
	upper int
}{
	{"0-18", 18},
	{"19-35", 35},
	{"36-50", 50},
	{"51-65", 65},
}

// RankedCount is one entry of a frequency ranking.
type RankedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// GenderCounts holds exact counts per gender enum value.
type GenderCounts struct {
	Male   int `json:"male"`
	Female int `json:"female"`
	Other  int `json:"other"`
}

// chronicDiseases is the fixed set counted against a region's health score.
var chronicDiseases = map[string]bool{
	"Diabetes":       true,
	"Hypertension":   true,
	"Cardiovascular": true,
}

// AgeBuckets partitions profiles by the fixed age breakpoints, assigning each
// age to the first bucket whose inclusive upper bound admits it. Profiles
// whose age does not parse as an integer are excluded and counted separately
// so callers can still reconcile totals.
func AgeBuckets(users []model.UserProfile) (buckets map[string]int, excluded int) {
	buckets = make(map[string]int, len(AgeBucketOrder))
	for _, label := range AgeBucketOrder {
		buckets[label] = 0
	}

	for _, u := range users {
		age, err := strconv.Atoi(strings.TrimSpace(u.Age))
		if err != nil {
			excluded++
			continue
		}

		assigned := false
		for _, b := range ageBucketBounds {
			if age <= b.upper {
				buckets[b.label]++
				assigned = true
				break
			}
		}
		if !assigned {
			buckets["65+"]++
		}
	}
	return buckets, excluded
}

// AverageAge returns the mean age rounded to the nearest integer, over
// parsable ages only. An empty or fully unparsable list yields 0.
func AverageAge(users []model.UserProfile) int {
	sum, n := 0, 0
	for _, u := range users {
		age, err := strconv.Atoi(strings.TrimSpace(u.Age))
		if err != nil {
			continue
		}
		sum += age
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// rankCounts groups values by exact string equality, sorts descending by
// count and truncates to n. Ties keep first-encounter order: entries are
// created in input order and the sort is stable with no secondary key.
func rankCounts(values []string, n int) []RankedCount {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	ranked := make([]RankedCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, RankedCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// DiseaseRanking returns the top-n diagnoses by frequency; absent diagnoses
// are excluded.
func DiseaseRanking(users []model.UserProfile, n int) []RankedCount {
	values := make([]string, 0, len(users))
	for _, u := range users {
		values = append(values, u.Diagnosis)
	}
	return rankCounts(values, n)
}

// MedicineRanking returns the top-n prescribed medicines by frequency.
func MedicineRanking(users []model.UserProfile, n int) []RankedCount {
	values := make([]string, 0, len(users))
	for _, u := range users {
		values = append(values, u.PrescribedMedicine)
	}
	return rankCounts(values, n)
}

// GenderDistribution counts profiles per gender enum value.
func GenderDistribution(users []model.UserProfile) GenderCounts {
	var g GenderCounts
	for _, u := range users {
		switch u.Gender {
		case model.GenderMale:
			g.Male++
		case model.GenderFemale:
			g.Female++
		case model.GenderOther:
			g.Other++
		}
	}
	return g
}

// CompletionRate is the percentage of profiles with the completed flag set,
// guarded against an empty list.
func CompletionRate(users []model.UserProfile) float64 {
	completed := 0
	for _, u := range users {
		if u.ProfileCompleted {
			completed++
		}
	}
	total := len(users)
	if total < 1 {
		total = 1
	}
	return float64(completed) / float64(total) * 100
}

// RegionCounts groups profiles by the region label of their address.
func RegionCounts(users []model.UserProfile) map[string]int {
	counts := make(map[string]int)
	for _, u := range users {
		counts[u.Region()]++
	}
	return counts
}

// RegionHealthScore computes max(0, 100 - chronic/total*100) rounded to the
// nearest integer for a fixed regional disease table. A region with no
// patients is defined to score 0.
func RegionHealthScore(region model.RegionTrend) int {
	if region.TotalPatients <= 0 {
		return 0
	}

	chronic := 0
	for _, d := range region.CommonDiseases {
		if chronicDiseases[d.Name] {
			chronic += d.Count
		}
	}

	score := 100 - float64(chronic)/float64(region.TotalPatients)*100
	if score < 0 {
		score = 0
	}
	return int(math.Round(score))
}

// sameDay reports whether two instants fall on the same calendar day in the
// location of the reference time.
func sameDay(t, ref time.Time) bool {
	t = t.In(ref.Location())
	return t.Year() == ref.Year() && t.YearDay() == ref.YearDay()
}

// TodayProfiles returns the profiles created on the same calendar day as now.
func TodayProfiles(users []model.UserProfile, now time.Time) []model.UserProfile {
	var today []model.UserProfile
	for _, u := range users {
		if sameDay(u.CreatedAt, now) {
			today = append(today, u)
		}
	}
	return today
}

// SymptomsOfDay ranks the symptoms reported by today's profiles, top n.
func SymptomsOfDay(users []model.UserProfile, now time.Time, n int) []RankedCount {
	var values []string
	for _, u := range TodayProfiles(users, now) {
		values = append(values, u.Symptoms...)
	}
	return rankCounts(values, n)
}

// MedicinesOfDay ranks the medicines prescribed to today's profiles, top n.
func MedicinesOfDay(users []model.UserProfile, now time.Time, n int) []RankedCount {
	var values []string
	for _, u := range TodayProfiles(users, now) {
		values = append(values, u.PrescribedMedicine)
	}
	return rankCounts(values, n)
}
