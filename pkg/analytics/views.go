// Package analytics містить чисті функції похідних представлень колекції місій:
// сортування, фільтрацію, агрегацію та географічне групування.
// Жодна функція не змінює вхідні дані.
package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"drone-survey-system/internal/domain"
)

// RecentWindow визначає вікно фільтра "recent"
const RecentWindow = 7 * 24 * time.Hour

// Filter визначає тег фільтра списку місій
type Filter string

const (
	FilterAll        Filter = "all"
	FilterPending    Filter = "pending"
	FilterInProgress Filter = "in-progress"
	FilterCompleted  Filter = "completed"
	FilterFailed     Filter = "failed"
	FilterRecent     Filter = "recent"
)

// ParseFilter розбирає тег фільтра; порожній рядок означає "all"
func ParseFilter(raw string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPending, FilterInProgress, FilterCompleted, FilterFailed, FilterRecent:
		return f, nil
	default:
		return "", &domain.ValidationError{Field: "filter", Reason: fmt.Sprintf("unknown filter %q", raw)}
	}
}

// SortByRecency повертає місії, впорядковані за startTime від найновішої.
// Сортування стабільне.
func SortByRecency(missions []domain.Mission) []domain.Mission {
	out := make([]domain.Mission, len(missions))
	copy(out, missions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out
}

// FilterMissions повертає підпослідовність місій, що відповідають фільтру.
// now використовується лише фільтром "recent"; межа вікна включна.
func FilterMissions(missions []domain.Mission, filter Filter, now time.Time) []domain.Mission {
	out := make([]domain.Mission, 0, len(missions))
	cutoff := now.Add(-RecentWindow)

	for _, m := range missions {
		switch filter {
		case FilterAll:
			out = append(out, m)
		case FilterRecent:
			if !m.StartTime.Before(cutoff) {
				out = append(out, m)
			}
		case FilterPending, FilterInProgress, FilterCompleted, FilterFailed:
			if m.Status == domain.MissionStatus(filter) {
				out = append(out, m)
			}
		}
	}

	return out
}

// ListView сортує та фільтрує місії так, як їх показує список місій
func ListView(missions []domain.Mission, filter Filter, now time.Time) []domain.Mission {
	return FilterMissions(SortByRecency(missions), filter, now)
}
