package jobs

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Sweepable is implemented by rate-limit stores that can evict expired
// windows. Sweep returns how many windows were removed.
type Sweepable interface {
	Sweep() int
}

// Sweeper periodically evicts expired rate-limit windows so idle
// partition keys do not accumulate between lazy resets.
type Sweeper struct {
	stores   []Sweepable
	interval time.Duration
	done     chan struct{}
}

func NewSweeper(interval time.Duration, stores ...Sweepable) *Sweeper {
	return &Sweeper{
		stores:   stores,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	go s.run()
	log.Info().Dur("interval", s.interval).Msg("rate-limit sweeper started")
}

func (s *Sweeper) Stop() {
	close(s.done)
	log.Info().Msg("rate-limit sweeper stopped")
}

func (s *Sweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	for _, store := range s.stores {
		if count := store.Sweep(); count > 0 {
			log.Debug().Int("count", count).Msg("swept expired rate-limit windows")
		}
	}
}
