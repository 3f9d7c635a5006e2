package models

import "time"

// TimerState is the persisted part of a station timer run, keyed by session and station.
// Alarm inputs are the raw minute strings the run was started with.
type TimerState struct {
	Session        string    `json:"session"`
	Station        string    `json:"station"`
	SecondsElapsed int       `json:"seconds_elapsed"`
	IsStarted      bool      `json:"is_started"`
	Alarm1Fired    bool      `json:"alarm_1_fired"`
	Alarm2Fired    bool      `json:"alarm_2_fired"`
	Alarm1Input    string    `json:"alarm_1_input"`
	Alarm2Input    string    `json:"alarm_2_input"`
	Operator       string    `json:"operator"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TrendPoint is one minute sample of a run.
type TrendPoint struct {
	Minute float64 `json:"minute"`
	Value  float64 `json:"value"`
}

// ReferenceLines are the alarm levels (minutes) drawn across the trend chart.
// A nil line is not drawn.
type ReferenceLines struct {
	Alarm1 *float64 `json:"alarm_1,omitempty"`
	Alarm2 *float64 `json:"alarm_2,omitempty"`
}

// TimerSnapshot is the read model of a running or idle station timer.
type TimerSnapshot struct {
	TimerState
	Clock          string         `json:"clock"`     // HH:MM:SS
	Proximity      string         `json:"proximity"` // normal | warning | danger
	Trend          []TrendPoint   `json:"trend"`
	ReferenceLines ReferenceLines `json:"reference_lines"`
}
