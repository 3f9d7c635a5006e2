package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "station_monitor/docs"
	"station_monitor/internal/config"
	"station_monitor/internal/dashboard"
	"station_monitor/internal/handlers"
	"station_monitor/internal/logger"
	"station_monitor/internal/metrics"
	"station_monitor/internal/notify"
	"station_monitor/internal/repository"
	"station_monitor/internal/repository/db"
	"station_monitor/internal/server"
	"station_monitor/internal/service"
)

// @title        Station Monitor API
// @version      1.0
// @description  Station timers, two-tier alarm classification, thresholds and the alarm log.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	configPath := flag.String("config", "configs/config.yml", "path to config.yml")
	flag.Parse()

	// load config.yml (+ .env, STATION_* env)
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	metrics.Init()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// open DB
	conn, dialect, err := db.Open(ctx, cfg.DB.Driver, cfg.DSN())
	if err != nil {
		log.Fatalw("failed to open database", "driver", cfg.DB.Driver, "err", err)
	}
	defer closeDB(conn, log)

	// wire dependencies
	repos := repository.NewRepository(conn, dialect)
	if err := useRedisSessions(ctx, cfg, repos, log); err != nil {
		log.Fatalw("failed to connect redis", "err", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalw("invalid thresholds timezone", "timezone", cfg.ThresholdsTimezone, "err", err)
	}
	services := service.NewService(repos, service.Deps{
		Log:        log,
		Publisher:  newPublisher(cfg, log),
		SigningKey: cfg.Auth.SigningKey,
		TokenTTL:   cfg.Auth.TokenTTL,
		TimerTick:  cfg.TimerTick,
		Location:   loc,
	})
	seedOperators(ctx, repos, cfg, log)

	if n, err := services.ResumePersisted(ctx); err != nil {
		log.Errorw("station_timer_resume_failed", "err", err)
	} else if n > 0 {
		log.Infow("station_timers_resumed", "count", n)
	}

	// board poller reads the in-process status service
	poller := dashboard.NewPoller(services.StationStatus, cfg.Dashboard.Stations, log)
	services.Board = poller
	go poller.Run(ctx, cfg.Dashboard.Interval)

	apiHandler := handlers.NewHandler(services, log, handlers.WithBoardInterval(cfg.Dashboard.Interval))

	// start HTTP server
	srv := server.New(server.Timeouts{
		ReadHeader: cfg.HTTP.ReadHeaderTimeout,
		Write:      cfg.HTTP.WriteTimeout,
		Idle:       cfg.HTTP.IdleTimeout,
	})
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, services, log)
}

// useRedisSessions swaps the SQL session store for Redis when configured.
func useRedisSessions(ctx context.Context, cfg *config.Config, repos *repository.Repository, log *logger.Logger) error {
	if cfg.SessionStore != "redis" {
		return nil
	}
	client, err := repository.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	repos.Sessions = repository.NewTimerSessionRedis(client, cfg.RedisSessionTTL)
	log.Infow("timer sessions stored in redis", "ttl", cfg.RedisSessionTTL)
	return nil
}

// newPublisher fans alarm rows out to Kafka when brokers are configured.
func newPublisher(cfg *config.Config, log *logger.Logger) notify.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		return notify.Nop{}
	}
	p, err := notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		log.Warnw("alarm publishing disabled", "err", err)
		return notify.Nop{}
	}
	log.Infow("alarm publishing enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	return p
}

func seedOperators(ctx context.Context, repos *repository.Repository, cfg *config.Config, log *logger.Logger) {
	auth := service.NewAuthService(repos.Auth, cfg.Auth.SigningKey, cfg.Auth.TokenTTL)
	n, err := auth.SeedOperators(ctx)
	if err != nil {
		log.Errorw("operator_seed_failed", "err", err)
		return
	}
	if n > 0 {
		log.Infow("operators seeded", "count", n)
	}
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close database", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, services *service.Service, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines; persisted timers resume on next boot
	cancel()
	if err := services.Close(); err != nil {
		log.Warnw("alarm_publisher_close_failed", "err", err)
	}

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
