// Package dashboard keeps the board of station cards fresh by polling each
// station's live status on a fixed interval.
package dashboard

import (
	"context"
	"sync"
	"time"

	"station_monitor/internal/logger"
	"station_monitor/internal/metrics"
	"station_monitor/internal/models"
	"station_monitor/internal/status"
)

// DefaultInterval matches the board refresh of the operator screens.
const DefaultInterval = 5 * time.Second

// Tooltip texts pinned on warning and danger cards.
const (
	warningTooltip = "อยากให้มีครั้งที่2"
	dangerTooltip  = "อยากให้มีครั้งที่3"
)

// StatusSource looks up a station's live status. (nil, nil) means no data.
type StatusSource interface {
	LookupStatus(ctx context.Context, station string) (*models.StationStatus, error)
}

type Poller struct {
	source   StatusSource
	stations []string
	log      *logger.Logger
	now      func() time.Time

	mu        sync.RWMutex
	cards     []models.BoardCard
	listeners []chan []models.BoardCard
}

func NewPoller(source StatusSource, stations []string, log *logger.Logger) *Poller {
	if log == nil {
		log = logger.Nop()
	}
	p := &Poller{
		source:   source,
		stations: append([]string(nil), stations...),
		log:      log,
		now:      time.Now,
	}
	p.cards = make([]models.BoardCard, len(p.stations))
	for i, st := range p.stations {
		p.cards[i] = defaultCard(st, p.now())
	}
	return p
}

// Run polls immediately and then at every interval until ctx is canceled.
func (p *Poller) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p.PollOnce(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce refreshes every card. A failed or empty lookup degrades that card
// to the default instead of keeping a stale or error state.
func (p *Poller) PollOnce(ctx context.Context) []models.BoardCard {
	cards := make([]models.BoardCard, len(p.stations))
	for i, station := range p.stations {
		cards[i] = p.poll(ctx, station)
	}

	p.mu.Lock()
	p.cards = cards
	listeners := append([]chan []models.BoardCard(nil), p.listeners...)
	p.mu.Unlock()

	for _, ch := range listeners {
		select {
		case ch <- cloneCards(cards):
		default:
			// slow listener; it picks up the next round
		}
	}
	return cloneCards(cards)
}

func (p *Poller) poll(ctx context.Context, station string) models.BoardCard {
	now := p.now()
	st, err := p.source.LookupStatus(ctx, station)
	if err != nil {
		metrics.IncBoardPollFailure(station)
		p.log.Warnw("board_poll_failed", "station", station, "err", err)
		card := defaultCard(station, now)
		card.Degraded = true
		return card
	}
	if st == nil {
		return defaultCard(station, now)
	}

	class := st.StatusClass
	if class == "" {
		class = status.BadgeClass(status.Normal)
	}
	card := models.BoardCard{
		Station:     station,
		Actual:      st.Actual,
		Level:       string(levelOf(class)),
		StatusClass: class,
		UpdatedAt:   now,
	}
	switch class {
	case status.BadgeClass(status.Warning):
		card.Tooltip, card.TooltipText = true, warningTooltip
	case status.BadgeClass(status.Danger):
		card.Tooltip, card.TooltipText = true, dangerTooltip
	}
	return card
}

// Cards returns the latest board.
func (p *Poller) Cards() []models.BoardCard {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneCards(p.cards)
}

// Subscribe returns a channel that receives every refreshed board and a
// func that unsubscribes it.
func (p *Poller) Subscribe() (<-chan []models.BoardCard, func()) {
	ch := make(chan []models.BoardCard, 1)
	p.mu.Lock()
	p.listeners = append(p.listeners, ch)
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			for i, l := range p.listeners {
				if l == ch {
					p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
					break
				}
			}
		})
	}
}

func defaultCard(station string, now time.Time) models.BoardCard {
	return models.BoardCard{
		Station:     station,
		Actual:      0,
		Level:       string(status.Normal),
		StatusClass: status.BadgeClass(status.Normal),
		UpdatedAt:   now,
	}
}

func levelOf(class string) status.Level {
	switch class {
	case status.BadgeClass(status.Danger):
		return status.Danger
	case status.BadgeClass(status.Warning):
		return status.Warning
	default:
		return status.Normal
	}
}

func cloneCards(in []models.BoardCard) []models.BoardCard {
	out := make([]models.BoardCard, len(in))
	copy(out, in)
	return out
}
