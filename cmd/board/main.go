// Command board prints the station board of a running server every interval.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"station_monitor/internal/dashboard"
	"station_monitor/internal/logger"
	"station_monitor/internal/models"
)

type config struct {
	baseURL  string
	stations []string
	interval time.Duration
	timeout  time.Duration
	once     bool
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	log := logger.New(logger.WarnLevel, logger.ConsoleFormat)
	poller := dashboard.NewPoller(dashboard.NewHTTPSource(cfg.baseURL, cfg.timeout), cfg.stations, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.once {
		render(os.Stdout, poller.PollOnce(ctx))
		return
	}

	updates, unsubscribe := poller.Subscribe()
	defer unsubscribe()
	go poller.Run(ctx, cfg.interval)

	for {
		select {
		case <-ctx.Done():
			return
		case cards := <-updates:
			render(os.Stdout, cards)
		}
	}
}

func parseFlags(args []string) (config, error) {
	var (
		cfg      config
		stations string
	)
	fs := flag.NewFlagSet("board", flag.ContinueOnError)
	fs.StringVar(&cfg.baseURL, "server", getenvDefault("STATION_SERVER_URL", "http://localhost:8080"), "station monitor base URL")
	fs.StringVar(&stations, "stations", getenvDefault("STATION_DASHBOARD_STATIONS", ""), "comma separated station ids")
	fs.DurationVar(&cfg.interval, "interval", dashboard.DefaultInterval, "poll interval")
	fs.DurationVar(&cfg.timeout, "timeout", 3*time.Second, "per request timeout")
	fs.BoolVar(&cfg.once, "once", false, "poll once and exit")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	for _, s := range strings.Split(stations, ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.stations = append(cfg.stations, s)
		}
	}
	if len(cfg.stations) == 0 {
		return cfg, errors.New("missing --stations or STATION_DASHBOARD_STATIONS")
	}
	if cfg.interval <= 0 {
		return cfg, errors.New("--interval must be positive")
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func render(w io.Writer, cards []models.BoardCard) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "STATION\tLEVEL\tACTUAL\tNOTE\n")
	for _, c := range cards {
		note := c.TooltipText
		if c.Degraded {
			note = "unreachable"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Station, strings.ToUpper(c.Level), formatSeconds(c.Actual), note)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func formatSeconds(v float64) string {
	s := int(v)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
