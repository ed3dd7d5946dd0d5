// Package stats contains pure aggregation functions over a task log.
package stats

import (
	"sort"
	"time"

	"github.com/sadopc/chronos/internal/store"
)

// Daily holds today's headline numbers for the dashboard.
type Daily struct {
	TotalHours   float64
	AvgImpact    float64
	GoalProgress float64 // percent, clamped to [0, 100]
}

// DailyReport is the derived per-day aggregate for the history view.
type DailyReport struct {
	Date          string // local calendar day, 2006-01-02
	TotalDuration int64  // seconds
	TaskCount     int
	AvgImpact     float64
	TopCategory   string
	Tasks         []store.Task // the day's tasks, original order
}

func localDay(unixMilli int64) string {
	return time.UnixMilli(unixMilli).Local().Format("2006-01-02")
}

// TodaysTasks filters to tasks whose start falls on now's local calendar day.
func TodaysTasks(tasks []store.Task, now time.Time) []store.Task {
	today := now.Local().Format("2006-01-02")
	var out []store.Task
	for _, t := range tasks {
		if localDay(t.StartTime) == today {
			out = append(out, t)
		}
	}
	return out
}

// CategoryTotals accumulates duration per category. Every known category
// is present with at least 0; categories outside the known set are still
// accumulated under their own key, never dropped.
func CategoryTotals(tasks []store.Task, categories []string) map[string]int64 {
	totals := make(map[string]int64, len(categories))
	for _, c := range categories {
		totals[c] = 0
	}
	for _, t := range tasks {
		totals[t.Category] += t.Duration
	}
	return totals
}

// DailyStats computes the dashboard numbers for a set of tasks against a
// daily focus goal in seconds.
func DailyStats(tasks []store.Task, dailyGoal int64) Daily {
	var totalSec int64
	var impactSum float64
	for _, t := range tasks {
		totalSec += t.Duration
		impactSum += t.AIImpact
	}

	d := Daily{TotalHours: float64(totalSec) / 3600}
	if len(tasks) > 0 {
		d.AvgImpact = impactSum / float64(len(tasks))
	}

	switch {
	case dailyGoal > 0:
		d.GoalProgress = 100 * float64(totalSec) / float64(dailyGoal)
		if d.GoalProgress > 100 {
			d.GoalProgress = 100
		}
	case totalSec > 0:
		// Zero goal with logged time counts as met.
		d.GoalProgress = 100
	}
	return d
}

// GroupByDay groups tasks by local calendar day and computes per-day
// aggregates, most recent day first. TopCategory is the category with the
// most tasks that day; ties go to the category seen first in the group's
// original order.
func GroupByDay(tasks []store.Task) []DailyReport {
	byDay := make(map[string]*DailyReport)
	var order []string

	for _, t := range tasks {
		day := localDay(t.StartTime)
		r, ok := byDay[day]
		if !ok {
			r = &DailyReport{Date: day}
			byDay[day] = r
			order = append(order, day)
		}
		r.Tasks = append(r.Tasks, t)
		r.TotalDuration += t.Duration
		r.TaskCount++
	}

	reports := make([]DailyReport, 0, len(order))
	for _, day := range order {
		r := byDay[day]
		r.AvgImpact = avgImpact(r.Tasks)
		r.TopCategory = topCategory(r.Tasks)
		reports = append(reports, *r)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Date > reports[j].Date
	})
	return reports
}

func avgImpact(tasks []store.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	var sum float64
	for _, t := range tasks {
		sum += t.AIImpact
	}
	return sum / float64(len(tasks))
}

func topCategory(tasks []store.Task) string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, t := range tasks {
		counts[t.Category]++
		if _, ok := firstSeen[t.Category]; !ok {
			firstSeen[t.Category] = i
		}
	}

	best := ""
	for cat, n := range counts {
		if best == "" {
			best = cat
			continue
		}
		if n > counts[best] || (n == counts[best] && firstSeen[cat] < firstSeen[best]) {
			best = cat
		}
	}
	return best
}
