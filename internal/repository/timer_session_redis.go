package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"station_monitor/internal/models"
)

const (
	sessionKeyPrefix   = "station_timer:"
	runningSessionsKey = "station_timer:running"
)

// TimerSessionRedis keeps each run as a JSON value plus a set of running keys.
type TimerSessionRedis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTimerSessionRedis stores sessions without expiry when ttl is 0.
func NewTimerSessionRedis(client *redis.Client, ttl time.Duration) *TimerSessionRedis {
	return &TimerSessionRedis{client: client, ttl: ttl}
}

var _ TimerSessions = (*TimerSessionRedis)(nil)

// ConnectRedis parses url and fails fast if the server cannot be reached.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func sessionKey(session, station string) string {
	return sessionKeyPrefix + session + ":" + station
}

func (r *TimerSessionRedis) Save(ctx context.Context, s models.TimerState) error {
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	} else {
		s.UpdatedAt = s.UpdatedAt.UTC()
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	key := sessionKey(s.Session, s.Station)
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, b, r.ttl)
	if s.IsStarted {
		pipe.SAdd(ctx, runningSessionsKey, key)
	} else {
		pipe.SRem(ctx, runningSessionsKey, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save timer session %s: %w", key, err)
	}
	return nil
}

func (r *TimerSessionRedis) Load(ctx context.Context, session, station string) (*models.TimerState, error) {
	return r.get(ctx, sessionKey(session, station))
}

func (r *TimerSessionRedis) Clear(ctx context.Context, session, station string) error {
	key := sessionKey(session, station)
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, runningSessionsKey, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("clear timer session %s: %w", key, err)
	}
	return nil
}

// ListRunning drops set members whose value has expired.
func (r *TimerSessionRedis) ListRunning(ctx context.Context) ([]models.TimerState, error) {
	keys, err := r.client.SMembers(ctx, runningSessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list running timer sessions: %w", err)
	}
	sort.Strings(keys)

	var out []models.TimerState
	for _, key := range keys {
		s, err := r.get(ctx, key)
		if err != nil {
			return nil, err
		}
		if s == nil {
			_ = r.client.SRem(ctx, runningSessionsKey, key).Err()
			continue
		}
		if s.IsStarted {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *TimerSessionRedis) get(ctx context.Context, key string) (*models.TimerState, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load timer session %s: %w", key, err)
	}
	var s models.TimerState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode timer session %s: %w", key, err)
	}
	return &s, nil
}
