package db

const sqliteStationLogs = `
CREATE TABLE IF NOT EXISTS station_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    actual REAL NOT NULL,
    alarm_1 REAL,
    alarm_2 REAL,
    station TEXT NOT NULL,
    status TEXT NOT NULL,
    remark TEXT NOT NULL DEFAULT '0',
    detail TEXT,
    userlog TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);
`

const sqliteStationThresholds = `
CREATE TABLE IF NOT EXISTS station_thresholds (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    station TEXT NOT NULL,
    alarm_1 REAL NOT NULL,
    alarm_2 REAL NOT NULL,
    effective_day TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const sqliteUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    firstname TEXT NOT NULL DEFAULT '',
    lastname TEXT NOT NULL DEFAULT '',
    position TEXT NOT NULL DEFAULT ''
);
`

const pgStationLogs = `
CREATE TABLE IF NOT EXISTS station_logs (
    id BIGSERIAL PRIMARY KEY,
    actual DOUBLE PRECISION NOT NULL,
    alarm_1 DOUBLE PRECISION,
    alarm_2 DOUBLE PRECISION,
    station TEXT NOT NULL,
    status TEXT NOT NULL,
    remark TEXT NOT NULL DEFAULT '0',
    detail TEXT,
    userlog TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL
);
`

const pgStationThresholds = `
CREATE TABLE IF NOT EXISTS station_thresholds (
    id BIGSERIAL PRIMARY KEY,
    station TEXT NOT NULL,
    alarm_1 DOUBLE PRECISION NOT NULL,
    alarm_2 DOUBLE PRECISION NOT NULL,
    effective_day TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
`

const pgUsers = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    firstname TEXT NOT NULL DEFAULT '',
    lastname TEXT NOT NULL DEFAULT '',
    position TEXT NOT NULL DEFAULT ''
);
`

// timer_sessions is identical in both dialects.
const timerSessions = `
CREATE TABLE IF NOT EXISTS timer_sessions (
    session TEXT NOT NULL,
    station TEXT NOT NULL,
    seconds_elapsed INTEGER NOT NULL,
    is_started BOOLEAN NOT NULL,
    alarm_1_fired BOOLEAN NOT NULL,
    alarm_2_fired BOOLEAN NOT NULL,
    alarm_1_input TEXT NOT NULL DEFAULT '',
    alarm_2_input TEXT NOT NULL DEFAULT '',
    operator TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (session, station)
);
`

const (
	indexLogsStation          = `CREATE INDEX IF NOT EXISTS idx_station_logs_station ON station_logs (station, id);`
	indexThresholdsStationDay = `CREATE UNIQUE INDEX IF NOT EXISTS idx_station_thresholds_day ON station_thresholds (station, effective_day);`
)

func schema(d Dialect) []string {
	if d == Postgres {
		return []string{pgStationLogs, pgStationThresholds, pgUsers, timerSessions, indexLogsStation, indexThresholdsStationDay}
	}
	return []string{sqliteStationLogs, sqliteStationThresholds, sqliteUsers, timerSessions, indexLogsStation, indexThresholdsStationDay}
}
