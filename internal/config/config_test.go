package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DB.Driver != "sqlite" || cfg.DB.Path != "app.db" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.SessionStore != "sqlite" || cfg.TimerTick != time.Second || cfg.Dashboard.Interval != 5*time.Second {
		t.Fatalf("unexpected timer defaults %+v", cfg)
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Fatalf("kafka brokers should default to empty, got %v", cfg.Kafka.Brokers)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("Location = %v, %v", loc, err)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "config.yml", `
port: "9090"
log:
  level: debug
  format: json
db:
  driver: pgx
  dsn: postgres://localhost/station
dashboard:
  interval: 2s
  stations: [A1, A2]
thresholds:
  timezone: Asia/Bangkok
`)
	t.Setenv("STATION_KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("STATION_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("env should override file port, got %s", cfg.Port)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log = %+v", cfg.Log)
	}
	if cfg.DB.Driver != "pgx" || cfg.DB.DSN != "postgres://localhost/station" {
		t.Fatalf("db = %+v", cfg.DB)
	}
	if !reflect.DeepEqual(cfg.Dashboard.Stations, []string{"A1", "A2"}) || cfg.Dashboard.Interval != 2*time.Second {
		t.Fatalf("dashboard = %+v", cfg.Dashboard)
	}
	if !reflect.DeepEqual(cfg.Kafka.Brokers, []string{"k1:9092", "k2:9092"}) {
		t.Fatalf("brokers = %v", cfg.Kafka.Brokers)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Asia/Bangkok" {
		t.Fatalf("Location = %v, %v", loc, err)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "STATION_DB_PATH=from-dotenv.db\n")
	t.Cleanup(func() { os.Unsetenv("STATION_DB_PATH") })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.Path != "from-dotenv.db" {
		t.Fatalf("db.path = %s, want from-dotenv.db", cfg.DB.Path)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"session store", "STATION_SESSION_STORE", "memcached"},
		{"timezone", "STATION_THRESHOLDS_TIMEZONE", "Mars/Olympus"},
		{"tick", "STATION_TIMER_TICK", "0s"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)
			if _, err := Load(""); err == nil {
				t.Fatalf("expected error for %s=%s", tt.env, tt.val)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	var c Config
	c.DB.Path, c.DB.DSN = "app.db", "postgres://db/station"

	c.DB.Driver = "sqlite"
	if got := c.DSN(); got != "app.db" {
		t.Fatalf("sqlite DSN = %q", got)
	}
	c.DB.Driver = "pgx"
	if got := c.DSN(); got != "postgres://db/station" {
		t.Fatalf("pgx DSN = %q", got)
	}
}
