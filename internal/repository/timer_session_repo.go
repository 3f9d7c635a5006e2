package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"station_monitor/internal/models"
	"station_monitor/internal/repository/db"
)

type TimerSessionSQL struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewTimerSessionSQL(conn *sql.DB, dialect db.Dialect) *TimerSessionSQL {
	return &TimerSessionSQL{db: conn, dialect: dialect}
}

var _ TimerSessions = (*TimerSessionSQL)(nil)

const sessionColumns = `session, station, seconds_elapsed, is_started, alarm_1_fired, alarm_2_fired, alarm_1_input, alarm_2_input, operator, updated_at`

const (
	upsertSessionSQL = `
		INSERT INTO timer_sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session, station) DO UPDATE SET
			seconds_elapsed=excluded.seconds_elapsed,
			is_started=excluded.is_started,
			alarm_1_fired=excluded.alarm_1_fired,
			alarm_2_fired=excluded.alarm_2_fired,
			alarm_1_input=excluded.alarm_1_input,
			alarm_2_input=excluded.alarm_2_input,
			operator=excluded.operator,
			updated_at=excluded.updated_at
	`
	selectSessionSQL = `SELECT ` + sessionColumns + ` FROM timer_sessions WHERE session = ? AND station = ?`
	selectRunningSQL = `SELECT ` + sessionColumns + ` FROM timer_sessions WHERE is_started = ? ORDER BY session, station`
	deleteSessionSQL = `DELETE FROM timer_sessions WHERE session = ? AND station = ?`
)

// Save upserts the (session, station) row. UpdatedAt is always persisted as UTC.
func (r *TimerSessionSQL) Save(ctx context.Context, s models.TimerState) error {
	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(upsertSessionSQL),
		s.Session,
		s.Station,
		s.SecondsElapsed,
		s.IsStarted,
		s.Alarm1Fired,
		s.Alarm2Fired,
		s.Alarm1Input,
		s.Alarm2Input,
		s.Operator,
		ts,
	)
	if err != nil {
		return fmt.Errorf("save timer session %s/%s: %w", s.Session, s.Station, err)
	}
	return nil
}

// Load returns (nil, nil) when nothing is stored for the key.
func (r *TimerSessionSQL) Load(ctx context.Context, session, station string) (*models.TimerState, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(selectSessionSQL), session, station)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load timer session %s/%s: %w", session, station, err)
	}
	return &s, nil
}

func (r *TimerSessionSQL) Clear(ctx context.Context, session, station string) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(deleteSessionSQL), session, station); err != nil {
		return fmt.Errorf("clear timer session %s/%s: %w", session, station, err)
	}
	return nil
}

func (r *TimerSessionSQL) ListRunning(ctx context.Context) ([]models.TimerState, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(selectRunningSQL), true)
	if err != nil {
		return nil, fmt.Errorf("list running timer sessions: %w", err)
	}
	defer rows.Close()

	var out []models.TimerState
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSession(s scanner) (models.TimerState, error) {
	var st models.TimerState
	err := s.Scan(
		&st.Session,
		&st.Station,
		&st.SecondsElapsed,
		&st.IsStarted,
		&st.Alarm1Fired,
		&st.Alarm2Fired,
		&st.Alarm1Input,
		&st.Alarm2Input,
		&st.Operator,
		&st.UpdatedAt,
	)
	st.UpdatedAt = st.UpdatedAt.UTC()
	return st, err
}
