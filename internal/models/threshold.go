package models

import "time"

// Threshold holds the alarm limits (seconds) of a station for one calendar day.
type Threshold struct {
	ID           int64     `json:"id"`
	Station      string    `json:"station"`
	Alarm1       float64   `json:"alarm_1"`
	Alarm2       float64   `json:"alarm_2"`
	EffectiveDay string    `json:"effective_day"` // YYYY-MM-DD
	UpdatedAt    time.Time `json:"updated_at"`
}
