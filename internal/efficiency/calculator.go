// Package efficiency computes machine KPIs from raw status and failure
// logs: time-in-status percentages, productivity, daily failure rates,
// MTBF/MTTR, and OEE.
//
// Every function is a pure reduction over the slices it is given: no
// state, no ordering assumptions, and a defined zero-valued result for
// empty or zero-duration input. Callers filter by machine and date range
// before invoking; nothing here filters.
//
// Timestamps are bucketed by their date component as-is. The storage
// layer persists everything in UTC, so no timezone conversion happens
// here.
package efficiency

import (
	"math"
	"time"

	"machine_efficiency/internal/models"
)

// Quality is fixed until defect tracking is modeled.
const qualityPlaceholder = 100.0

const minutesPerHour = 60.0

// FailureRateStats summarizes failures bucketed by calendar date.
type FailureRateStats struct {
	AvgFailuresPerDay float64 `json:"avg_failures_per_day"`
	TotalFailures     int     `json:"total_failures"`
	MaxFailuresPerDay int     `json:"max_failures_per_day"`
	DaysTracked       int     `json:"days_tracked"`
}

// ProductivityStats summarizes output over RUNNING time.
type ProductivityStats struct {
	TotalProduction     int     `json:"total_production"`
	ProductionPerHour   float64 `json:"production_per_hour"`
	TotalRuntimeHours   float64 `json:"total_runtime_hours"`
	TotalRuntimeMinutes float64 `json:"total_runtime_minutes"`
}

// OEEStats holds the Overall Equipment Effectiveness components, all as
// percentages. Availability and Performance are capped at 100; OEE is
// the product of the uncapped factors.
type OEEStats struct {
	Availability float64 `json:"availability"`
	Performance  float64 `json:"performance"`
	Quality      float64 `json:"quality"`
	OEE          float64 `json:"oee"`
}

// RunningTimePercentage returns the share of total logged duration spent
// RUNNING, in [0, 100]. Returns 0 for empty logs or zero total duration.
func RunningTimePercentage(logs []models.StatusLog) float64 {
	return statusShare(logs, models.StatusRunning)
}

// IdleTimePercentage returns the share of total logged duration spent
// IDLE, with the same zero-guards as RunningTimePercentage.
func IdleTimePercentage(logs []models.StatusLog) float64 {
	return statusShare(logs, models.StatusIdle)
}

// DowntimePercentage returns the share of total logged duration spent in
// FAILED or MAINTENANCE, with the same zero-guards.
func DowntimePercentage(logs []models.StatusLog) float64 {
	return statusShare(logs, models.StatusFailed, models.StatusMaintenance)
}

// DailyFailureRate buckets failures by the date component of their
// timestamp and summarizes per-day counts. Days with no failures are not
// tracked. Empty input yields an all-zero struct.
func DailyFailureRate(failures []models.FailureLog) FailureRateStats {
	if len(failures) == 0 {
		return FailureRateStats{}
	}

	perDay := make(map[string]int)
	for _, f := range failures {
		perDay[dateKey(f.Timestamp)]++
	}

	maxPerDay := 0
	for _, n := range perDay {
		if n > maxPerDay {
			maxPerDay = n
		}
	}

	return FailureRateStats{
		AvgFailuresPerDay: round2(float64(len(failures)) / float64(len(perDay))),
		TotalFailures:     len(failures),
		MaxFailuresPerDay: maxPerDay,
		DaysTracked:       len(perDay),
	}
}

// Productivity sums production over RUNNING entries. Entries in other
// statuses are ignored entirely, including any production counts they
// carry. Zero runtime yields zero production-per-hour rather than a
// division fault.
func Productivity(logs []models.StatusLog) ProductivityStats {
	var (
		totalProduction int
		runtimeMinutes  float64
	)
	for _, l := range logs {
		if l.Status != models.StatusRunning {
			continue
		}
		totalProduction += l.ProductionCount
		runtimeMinutes += l.DurationMinutes
	}

	runtimeHours := runtimeMinutes / minutesPerHour
	perHour := 0.0
	if runtimeHours > 0 {
		perHour = float64(totalProduction) / runtimeHours
	}

	return ProductivityStats{
		TotalProduction:     totalProduction,
		ProductionPerHour:   round2(perHour),
		TotalRuntimeHours:   round2(runtimeHours),
		TotalRuntimeMinutes: round2(runtimeMinutes),
	}
}

// OEE computes Availability x Performance x Quality.
//
//	operating time = planned production time - total failure downtime
//	availability   = operating time / planned production time
//	performance    = actual production / (operating time / ideal cycle time)
//	quality        = 100 (placeholder, no defect data)
//
// The returned Availability and Performance fields are capped at 100,
// but OEE multiplies the raw factors, so over-target production can
// push it past 100. Non-positive planned time or cycle time guard to 0.
// Empty status logs yield the zero result (quality stays 100).
func OEE(logs []models.StatusLog, failures []models.FailureLog, idealCycleTimeMinutes, plannedProductionTimeMinutes float64) OEEStats {
	if len(logs) == 0 {
		return OEEStats{Quality: qualityPlaceholder}
	}

	var totalDowntime float64
	for _, f := range failures {
		totalDowntime += f.DowntimeMinutes
	}
	operatingTime := plannedProductionTimeMinutes - totalDowntime

	availability := 0.0
	if plannedProductionTimeMinutes > 0 {
		availability = operatingTime / plannedProductionTimeMinutes * 100
	}

	actualProduction := 0
	for _, l := range logs {
		if l.Status == models.StatusRunning {
			actualProduction += l.ProductionCount
		}
	}
	targetProduction := 0.0
	if idealCycleTimeMinutes > 0 {
		targetProduction = operatingTime / idealCycleTimeMinutes
	}
	performance := 0.0
	if targetProduction > 0 {
		performance = float64(actualProduction) / targetProduction * 100
	}

	return OEEStats{
		Availability: round2(math.Min(availability, 100)),
		Performance:  round2(math.Min(performance, 100)),
		Quality:      round2(qualityPlaceholder),
		OEE:          round2(availability * performance * qualityPlaceholder / 10000),
	}
}

// MTBF returns the mean time between failures in hours: total runtime
// divided by failure count. Returns 0 for no failures or zero runtime.
func MTBF(failures []models.FailureLog, totalRuntimeHours float64) float64 {
	if len(failures) == 0 || totalRuntimeHours == 0 {
		return 0
	}
	return round2(totalRuntimeHours / float64(len(failures)))
}

// MTTR returns the mean time to repair in hours: total downtime divided
// by failure count. Returns 0 for no failures.
func MTTR(failures []models.FailureLog) float64 {
	if len(failures) == 0 {
		return 0
	}
	var totalDowntime float64
	for _, f := range failures {
		totalDowntime += f.DowntimeMinutes
	}
	return round2(totalDowntime / minutesPerHour / float64(len(failures)))
}

// StatusDistribution maps each status present in logs to its share of
// total duration, in percent. Returns an empty map for empty logs or
// zero total duration. Shares sum to 100 before per-entry rounding.
func StatusDistribution(logs []models.StatusLog) map[string]float64 {
	dist := make(map[string]float64)
	if len(logs) == 0 {
		return dist
	}

	var total float64
	for _, l := range logs {
		total += l.DurationMinutes
	}
	if total == 0 {
		return dist
	}

	for _, l := range logs {
		dist[l.Status] += l.DurationMinutes
	}
	for status, minutes := range dist {
		dist[status] = round2(minutes / total * 100)
	}
	return dist
}

// statusShare sums duration over the given statuses against the total
// duration of all entries.
func statusShare(logs []models.StatusLog, statuses ...string) float64 {
	if len(logs) == 0 {
		return 0
	}

	var matched, total float64
	for _, l := range logs {
		total += l.DurationMinutes
		for _, s := range statuses {
			if l.Status == s {
				matched += l.DurationMinutes
				break
			}
		}
	}
	if total == 0 {
		return 0
	}
	return round2(matched / total * 100)
}

// dateKey truncates a timestamp to its calendar date, as stored.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// round2 rounds to two decimal places. Applied once at each function
// boundary; intermediate sums stay unrounded.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
