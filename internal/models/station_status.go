package models

import "time"

// StationStatus is the live classification of a station's newest unannotated row.
type StationStatus struct {
	Actual      float64  `json:"actual"`
	Alarm1      *float64 `json:"alarm_1"`
	Alarm2      *float64 `json:"alarm_2"`
	StatusClass string   `json:"statusClass"` // bg-success | bg-warning | bg-danger
}

// BoardCard is one station tile on the dashboard.
type BoardCard struct {
	Station     string    `json:"station"`
	Actual      float64   `json:"actual"`
	Level       string    `json:"level"`
	StatusClass string    `json:"statusClass"`
	Tooltip     bool      `json:"tooltip"`
	TooltipText string    `json:"tooltip_text,omitempty"`
	Degraded    bool      `json:"degraded,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
