package render

import "time"

// FPSMeter reports the instantaneous frame rate between consecutive ticks.
type FPSMeter struct {
	prev time.Time
}

// Tick records a frame at now and returns 1/(now-prev). The first tick
// returns 0.
func (m *FPSMeter) Tick(now time.Time) float64 {
	prev := m.prev
	m.prev = now
	if prev.IsZero() {
		return 0
	}
	elapsed := now.Sub(prev).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return 1 / elapsed
}
