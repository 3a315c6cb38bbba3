package analytics

import (
	"sort"
	"time"

	"drone-survey-system/internal/domain"
)

// StatusCounts містить кількість місій за статусами
type StatusCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	// Other рахує статуси поза закритим переліком, щоб сума збігалась з Total
	Other int `json:"other"`
}

// SuccessRate повертає completed / total × 100; 0 для порожньої колекції
func (c StatusCounts) SuccessRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Completed) / float64(c.Total) * 100
}

// CountByStatus рахує місії за статусами
func CountByStatus(missions []domain.Mission) StatusCounts {
	var c StatusCounts
	for _, m := range missions {
		c.Total++
		switch m.Status {
		case domain.MissionStatusPending:
			c.Pending++
		case domain.MissionStatusInProgress:
			c.InProgress++
		case domain.MissionStatusCompleted:
			c.Completed++
		case domain.MissionStatusFailed:
			c.Failed++
		default:
			c.Other++
		}
	}
	return c
}

// FlightHours оцінює сумарний наліт у годинах як (updatedAt − startTime)
// завершених місій. Це наближення, а не виміряна тривалість польоту.
// Місії без updatedAt дають нуль.
func FlightHours(missions []domain.Mission) float64 {
	var total float64
	for _, m := range missions {
		if m.Status != domain.MissionStatusCompleted || m.UpdatedAt == nil {
			continue
		}
		total += m.UpdatedAt.Sub(m.StartTime).Hours()
	}
	return total
}

// ActivityType визначає тип події у стрічці активності
type ActivityType string

const (
	ActivityMissionCompleted ActivityType = "mission_completed"
	ActivityMissionCreated   ActivityType = "mission_created"
)

// RecentActivityLimit визначає кількість подій у стрічці
const RecentActivityLimit = 2

// Activity представляє подію стрічки активності
type Activity struct {
	Type      ActivityType `json:"type"`
	MissionID string       `json:"missionId"`
	Mission   string       `json:"mission"`
	Timestamp time.Time    `json:"timestamp"`
}

// RecentActivity повертає до limit місій з найновішим updatedAt.
// Місії без updatedAt не мають події й пропускаються.
func RecentActivity(missions []domain.Mission, limit int) []Activity {
	updated := make([]domain.Mission, 0, len(missions))
	for _, m := range missions {
		if m.UpdatedAt != nil {
			updated = append(updated, m)
		}
	}
	sort.SliceStable(updated, func(i, j int) bool {
		return updated[i].UpdatedAt.After(*updated[j].UpdatedAt)
	})

	if limit >= 0 && len(updated) > limit {
		updated = updated[:limit]
	}

	activity := make([]Activity, 0, len(updated))
	for _, m := range updated {
		kind := ActivityMissionCreated
		if m.Status == domain.MissionStatusCompleted {
			kind = ActivityMissionCompleted
		}
		activity = append(activity, Activity{
			Type:      kind,
			MissionID: m.ID,
			Mission:   m.Name,
			Timestamp: *m.UpdatedAt,
		})
	}
	return activity
}

// ChartEntry представляє стовпчик графіка статусів
type ChartEntry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// StatusChart повертає дані графіка статусів у порядку Completed, In Progress, Pending
func StatusChart(c StatusCounts) []ChartEntry {
	return []ChartEntry{
		{Name: domain.MissionStatusCompleted.Label(), Value: c.Completed, Color: domain.ColorCompleted},
		{Name: domain.MissionStatusInProgress.Label(), Value: c.InProgress, Color: domain.ColorInProgress},
		{Name: domain.MissionStatusPending.Label(), Value: c.Pending, Color: domain.ColorPending},
	}
}

// DashboardKPIs містить ключові показники головної панелі
type DashboardKPIs struct {
	ActiveMissions int `json:"activeMissions"`
	ActiveDrones   int `json:"activeDrones"`
	TotalFlights   int `json:"totalFlights"`
}

// ComputeKPIs рахує активні місії, унікальні дрони серед них та всі польоти
func ComputeKPIs(missions []domain.Mission) DashboardKPIs {
	drones := make(map[string]struct{})
	var k DashboardKPIs
	for _, m := range missions {
		k.TotalFlights++
		if m.Status != domain.MissionStatusInProgress {
			continue
		}
		k.ActiveMissions++
		drones[m.Drone] = struct{}{}
	}
	k.ActiveDrones = len(drones)
	return k
}

// Summary об'єднує всі аналітичні представлення
type Summary struct {
	Counts         StatusCounts     `json:"counts"`
	SuccessRate    float64          `json:"successRate"`
	FlightHours    float64          `json:"flightHours"`
	StatusChart    []ChartEntry     `json:"statusChart"`
	Continents     []ContinentCount `json:"continents"`
	RecentActivity []Activity       `json:"recentActivity"`
}

// Summarize рахує аналітику для сторінки аналітики
func Summarize(missions []domain.Mission) Summary {
	counts := CountByStatus(missions)
	return Summary{
		Counts:         counts,
		SuccessRate:    counts.SuccessRate(),
		FlightHours:    FlightHours(missions),
		StatusChart:    StatusChart(counts),
		Continents:     ContinentDistribution(missions),
		RecentActivity: RecentActivity(missions, RecentActivityLimit),
	}
}
