package utils

import "time"

// Stats tracks throughput and population of one simulation run
type Stats struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	PeakPopulation       int
	TotalGenerations     int
	StartTime            time.Time

	lastTick time.Time
}

func NewStats(now time.Time) *Stats {
	return &Stats{StartTime: now}
}

// Reset starts a new run at now
func (s *Stats) Reset(now time.Time) {
	*s = Stats{StartTime: now}
}

// Record accounts for one rendered generation
func (s *Stats) Record(generation, population int, now time.Time) {
	s.TotalGenerations = generation
	if !s.lastTick.IsZero() {
		if d := now.Sub(s.lastTick); d > 0 {
			s.GenerationsPerSecond = 1.0 / d.Seconds()
		}
	}
	s.lastTick = now
	s.PeakPopulation = max(s.PeakPopulation, population)

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}

// Runtime returns the time elapsed since the run started
func (s *Stats) Runtime(now time.Time) time.Duration {
	return now.Sub(s.StartTime)
}
