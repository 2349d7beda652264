package services

import "time"

// SetClock overrides the rate provider's time source so tests can cross a
// day boundary.
func (s *RateProviderService) SetClock(now func() time.Time) {
	s.now = now
}
