package model

import (
	"sync"
	"testing"
	"time"
)

func TestSessionModel_DurationFreezesWhenStopped(t *testing.T) {
	m := NewSessionModel()
	base := time.Unix(0, 0)

	m.OnTick(true, base)
	m.OnTick(true, base.Add(5*time.Second))
	if d := m.Values().Duration; d != 5*time.Second {
		t.Fatalf("expected 5s while running, got %v", d)
	}

	m.OnTick(false, base.Add(6*time.Second))
	if d := m.Values().Duration; d != 6*time.Second {
		t.Fatalf("expected 6s at stop, got %v", d)
	}

	m.OnTick(false, base.Add(60*time.Second))
	if d := m.Values().Duration; d != 6*time.Second {
		t.Fatalf("idle tick should not change duration, got %v", d)
	}
}

func TestSessionModel_CyclesAndBest(t *testing.T) {
	m := NewSessionModel()
	m.OnCycle("Speed", 2.5)
	m.OnCycle("Power", 5.5)
	m.OnCycle("Wits", 1.0)
	s := m.Values()
	if s.Cycles != 3 {
		t.Fatalf("expected 3 cycles, got %d", s.Cycles)
	}
	if s.Best != 5.5 || s.BestStat != "Power" {
		t.Fatalf("expected best 5.5 for Power, got %v for %q", s.Best, s.BestStat)
	}
}

func TestSessionModel_FirstCycleSetsBestEvenWhenZero(t *testing.T) {
	m := NewSessionModel()
	m.OnCycle("Guts", 0)
	if s := m.Values(); s.BestStat != "Guts" || s.Best != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestSessionModel_ConcurrentCycles(t *testing.T) {
	m := NewSessionModel()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.OnCycle("Speed", float64(j))
				_ = m.Values()
			}
		}()
	}
	wg.Wait()
	if s := m.Values(); s.Cycles != 800 || s.Best != 99 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestSessionModel_NilSafe(t *testing.T) {
	var m *SessionModel
	m.OnTick(true, time.Now())
	m.OnCycle("Speed", 1)
	if s := m.Values(); s != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}
