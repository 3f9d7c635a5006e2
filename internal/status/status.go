// Package status classifies station observations into alarm tiers.
//
// The same rule backs the live board (newest unannotated row) and the history
// table, so both views always agree on a row's tier.
package status

import (
	"math"
	"strconv"
	"strings"

	"station_monitor/internal/models"
)

// Level is an alarm tier.
type Level string

const (
	Normal  Level = "normal"
	Warning Level = "warning"
	Danger  Level = "danger"
	// Info marks a row an operator has annotated. It only appears in history views.
	Info Level = "info"
)

// Never is the threshold used for a missing or unparsable alarm value.
var Never = math.Inf(1)

// Classify maps an actual value against the two alarm levels.
// alarm1 is the danger level, alarm2 the warning level.
func Classify(actual, alarm1, alarm2 float64) Level {
	if math.IsNaN(actual) {
		actual = 0
	}
	switch {
	case actual >= alarm1:
		return Danger
	case actual >= alarm2:
		return Warning
	default:
		return Normal
	}
}

// ClassifyEntry classifies a stored row against the thresholds snapshotted on it.
func ClassifyEntry(e models.LogEntry) Level {
	return Classify(e.Actual, AlarmOrNever(e.Alarm1), AlarmOrNever(e.Alarm2))
}

// ClassifyHistory is ClassifyEntry with the annotation override: a remarked
// row is always Info.
func ClassifyHistory(e models.LogEntry) Level {
	if e.Annotated() {
		return Info
	}
	return ClassifyEntry(e)
}

// History tags a row for the history table.
func History(e models.LogEntry) models.HistoryRow {
	l := ClassifyHistory(e)
	return models.HistoryRow{LogEntry: e, Tier: string(l), RowClass: RowClass(l)}
}

// AlarmOrNever dereferences a stored alarm value; nil and NaN are never reached.
func AlarmOrNever(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return Never
	}
	return *v
}

// ParseAlarm reads an operator-entered alarm value. Anything that is not a
// finite number is never reached.
func ParseAlarm(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Never
	}
	return v
}

// BadgeClass is the dashboard card class for a live level.
func BadgeClass(l Level) string {
	switch l {
	case Danger:
		return "bg-danger"
	case Warning:
		return "bg-warning"
	default:
		return "bg-success"
	}
}

// RowClass is the history table row class for a level.
func RowClass(l Level) string {
	switch l {
	case Info:
		return "table-info"
	case Danger:
		return "table-danger"
	case Warning:
		return "table-warning"
	default:
		return "table-success"
	}
}

// Finite returns a pointer to v, or nil when v is never reached.
func Finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
