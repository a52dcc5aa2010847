package presets

import (
	"time"

	"github.com/clambin/lights/internal/configuration"
)

// initialPreset returns the first InitialPreset candidate that is not ignored and exists in the catalog.
// If there is none, it picks a random preset from the order.
func (s *Scheduler) initialPreset() (string, bool) {
	for _, name := range s.cfg.InitialPreset {
		if !configuration.IsIgnored(name) && s.catalog.Contains(name) {
			return name, true
		}
	}
	live := s.liveOrder()
	if len(live) == 0 {
		return "", false
	}
	return live[s.rand.IntN(len(live))], true
}

// liveOrder returns the presets in the order that are not ignored and exist in the catalog.
func (s *Scheduler) liveOrder() []string {
	live := make([]string, 0, len(s.cfg.Order))
	for _, name := range s.cfg.Order {
		if !configuration.IsIgnored(name) && s.catalog.Contains(name) {
			live = append(live, name)
		}
	}
	return live
}

// advance returns the next preset to run. Sequential order goes through the order and wraps around;
// random order picks any preset from the order, allowing repeats. Either way, a loop completes once
// the number of presets run in this pass equals the length of the order.
func (s *Scheduler) advance() string {
	order := s.run.Order
	var name string
	if s.cfg.RandomOrder {
		name = order[s.rand.IntN(len(order))]
	} else {
		name = order[s.run.position]
	}
	if s.run.position++; s.run.position >= len(order) {
		s.run.position = 0
		s.run.Loops++
		s.metrics.setState(s.run.State, s.run.Loops)
		s.logger.Debug("loop completed", "loops", s.run.Loops)
	}
	return name
}

// nextDelay returns a random delay between TimeBetweenMin and TimeBetweenMax.
func (s *Scheduler) nextDelay() time.Duration {
	return delayBetween(s.cfg.TimeBetweenMin, s.cfg.TimeBetweenMax, s.rand)
}

func delayBetween(low, high configuration.Seconds, r Rand) time.Duration {
	if high <= low {
		return low.Duration()
	}
	return low.Duration() + time.Duration(r.Float64()*float64(high.Duration()-low.Duration()))
}
