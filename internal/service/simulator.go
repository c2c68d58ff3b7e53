package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"irrigation_controller/internal/models"
)

// ----------- Simulation defaults -----------
const (
	DefaultInitialHumidity = 55.0 // % at boot
	DefaultDryRatePerSec   = 0.05 // % lost per second with every valve closed
	DefaultWetRatePerSec   = 0.5  // % gained per second while any valve is open
)

// SimulatorParams configures the soil model. RawDry and RawWet are the ADC
// readings the simulated probe reports at 0% and 100%.
type SimulatorParams struct {
	InitialHumidity float64
	DryRatePerSec   float64
	WetRatePerSec   float64
	RawDry          int
	RawWet          int
}

// SoilSimulator stands in for the probe and the valves on hosts without
// hardware. It is both the sensor.ADC and the relay.Switch, so opening a
// valve visibly wets the soil.
type SoilSimulator struct {
	p SimulatorParams

	mu       sync.Mutex
	humidity float64
	valves   [models.ZoneCount]bool
	last     time.Time
}

func NewSoilSimulator(p SimulatorParams) *SoilSimulator {
	if p.DryRatePerSec < 0 {
		p.DryRatePerSec = DefaultDryRatePerSec
	}
	if p.WetRatePerSec <= 0 {
		p.WetRatePerSec = DefaultWetRatePerSec
	}
	return &SoilSimulator{p: p, humidity: clampPct(p.InitialHumidity)}
}

// Sample returns the raw reading for the current humidity.
func (s *SoilSimulator) Sample() (int, error) {
	s.mu.Lock()
	h := s.humidity
	s.mu.Unlock()
	span := float64(s.p.RawWet - s.p.RawDry)
	return s.p.RawDry + int(math.Round(span*h/100)), nil
}

// Write opens or closes the simulated valve of zone.
func (s *SoilSimulator) Write(zone models.ZoneID, on bool) error {
	if !zone.Valid() {
		return fmt.Errorf("%w: %d", models.ErrUnknownZone, int(zone))
	}
	s.mu.Lock()
	s.valves[zone] = on
	s.mu.Unlock()
	return nil
}

// Humidity returns the simulated soil humidity in percent.
func (s *SoilSimulator) Humidity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.humidity
}

// Run advances the soil model at the given interval until ctx is canceled.
func (s *SoilSimulator) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	s.mu.Lock()
	s.last = time.Now()
	s.mu.Unlock()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.mu.Lock()
			elapsed := now.Sub(s.last).Seconds()
			s.last = now
			s.mu.Unlock()
			s.advance(elapsed)
		}
	}
}

// advance moves humidity by elapsed seconds. Returns true if it changed.
func (s *SoilSimulator) advance(elapsed float64) bool {
	if elapsed <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.humidity
	if s.anyOpenLocked() {
		s.humidity = clampPct(prev + s.p.WetRatePerSec*elapsed)
	} else {
		s.humidity = clampPct(prev - s.p.DryRatePerSec*elapsed)
	}
	return s.humidity != prev
}

func (s *SoilSimulator) anyOpenLocked() bool {
	for _, open := range s.valves {
		if open {
			return true
		}
	}
	return false
}

func clampPct(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
