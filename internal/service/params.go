package service

// LogInput is a station log row as submitted by a client.
type LogInput struct {
	Seconds float64
	Alarm1  *float64
	Alarm2  *float64
	Station string
	Status  string
	UserLog string
}

// ThresholdInput carries alarm values in seconds. Both are required.
type ThresholdInput struct {
	Station string
	Alarm1  *float64
	Alarm2  *float64
}

// UpsertResult reports whether a threshold row was created or updated.
type UpsertResult struct {
	Status string `json:"status"` // "created" | "updated"
	ID     int64  `json:"id"`
}

// StartTimerParams starts or resumes a timer. Alarm inputs are minutes as
// typed by the operator; nil falls back to today's threshold.
type StartTimerParams struct {
	Session  string
	Station  string
	Resume   bool
	Alarm1   *string
	Alarm2   *string
	Operator string
}
