package models

import "time"

// Alarm statuses written by the station timer.
const (
	StatusAlarm1 = "alarm_1"
	StatusAlarm2 = "alarm_2"
)

// Remark flags. A row is annotated once an operator attaches a detail to it.
const (
	RemarkNone      = "0"
	RemarkAnnotated = "1"
)

// LogEntry is a single station observation. Alarm values are the thresholds
// (seconds) in effect when the row was written; nil means "not set".
type LogEntry struct {
	ID        int64     `json:"id"`
	Actual    float64   `json:"actual"`
	Alarm1    *float64  `json:"alarm_1"`
	Alarm2    *float64  `json:"alarm_2"`
	Station   string    `json:"station"`
	Status    string    `json:"status"`
	Remark    string    `json:"remark"`
	Detail    *string   `json:"detail"`
	UserLog   string    `json:"userlog"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryRow is a log row with its history tier, as the station page renders it.
type HistoryRow struct {
	LogEntry
	Tier     string `json:"tier"`
	RowClass string `json:"row_class"`
}

// Annotated reports whether an operator has remarked the row.
func (e LogEntry) Annotated() bool {
	return e.Remark == RemarkAnnotated
}
