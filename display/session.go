package nrscope

import (
	"log/slog"
	"sync"
	"time"

	Ns "github.com/crenna/nrscope/engine"
	Np "github.com/crenna/nrscope/plugin"
	Nt "github.com/crenna/nrscope/types"
)

// Session is the caller-owned state of one interactive view:
// the current scenario plus everything derived from it.
// Derived fields are only ever replaced wholesale by Recompute,
// so readers under RLock always see a consistent set.
type Session struct {
	MU       sync.RWMutex
	Scenario Ns.ScenarioFile
	Timing   *Ns.SlotTiming
	Grid     *Ns.Grid
	Stats    Ns.GridStats
	Tdd      *Ns.TddPattern
	Mbps     float64
	Output   Np.SnapshotExporter // optional snapshot destination
}

// scsRing is the cycle order for the SCS key.
var scsRing = []int{15, 30, 60, 120, 240}

// NewSession computes the initial state for a scenario.
func NewSession(sc Ns.ScenarioFile) (*Session, error) {
	s := &Session{Scenario: sc}
	if err := s.Recompute(); err != nil {
		return nil, err
	}
	return s, nil
}

// Recompute rebuilds every derived value from the current scenario.
// It either replaces all of them or none of them.
func (s *Session) Recompute() error {
	s.MU.Lock()
	defer s.MU.Unlock()
	return s.recomputeLocked()
}

func (s *Session) recomputeLocked() error {
	sc := s.Scenario

	timing, err := Ns.ResolveNumerology(sc.SCSKHz)
	if err != nil {
		return err
	}

	dmrsType, err := Ns.DmrsTypeFromName(sc.DmrsType)
	if err != nil {
		return err
	}

	grid, err := Ns.BuildGrid(Ns.GridConfig{
		NumRBs:          sc.NumRBs,
		NumSymbols:      sc.NumSymbols,
		WithPDSCH:       sc.WithPDSCH,
		WithPDCCH:       sc.WithPDCCH,
		CoresetDuration: sc.CoresetDuration,
		WithDMRS:        sc.WithDMRS,
		DmrsType:        dmrsType,
		DmrsSymbols:     sc.DmrsSymbols,
	})
	if err != nil {
		return err
	}

	var tdd *Ns.TddPattern
	if sc.Tdd != nil {
		tdd, err = Ns.SynthesizeTdd(Ns.TddConfig{
			PeriodicityMs:  sc.Tdd.PeriodicityMs,
			SlotDurationMs: timing.SlotDurationMs,
			DlSlots:        sc.Tdd.DlSlots,
			DlSymbols:      sc.Tdd.DlSymbols,
			UlSlots:        sc.Tdd.UlSlots,
			UlSymbols:      sc.Tdd.UlSymbols,
		})
		if err != nil {
			return err
		}
	}

	mbps, err := Ns.EstimateThroughputMod(grid.PdschREs(),
		Nt.Modulation(sc.Modulation), sc.CodeRate, sc.MimoLayers,
		timing.SlotsPerSecond())
	if err != nil {
		return err
	}

	s.Timing = timing
	s.Grid = grid
	s.Stats = grid.Stats()
	s.Tdd = tdd
	s.Mbps = mbps

	if s.Output != nil {
		snap := s.snapshotLocked()
		if err := s.Output.WriteSnapshot(&snap); err != nil {
			// Export misses are logged, not fatal
			slog.Error("Failed to export snapshot", slog.Any("Error", err))
		}
	}

	return nil
}

// Apply swaps in a whole new scenario. On a validation error the
// previous state is kept untouched.
func (s *Session) Apply(sc Ns.ScenarioFile) error {
	s.MU.Lock()
	defer s.MU.Unlock()

	prev := s.Scenario
	s.Scenario = sc
	if err := s.recomputeLocked(); err != nil {
		s.Scenario = prev
		return err
	}
	return nil
}

// mutate applies fn to the scenario and recomputes, restoring the
// previous scenario if the result does not validate.
func (s *Session) mutate(fn func(*Ns.ScenarioFile)) {
	s.MU.Lock()
	defer s.MU.Unlock()

	prev := s.Scenario
	fn(&s.Scenario)
	if err := s.recomputeLocked(); err != nil {
		slog.Error("Rejected scenario change", slog.Any("Error", err))
		s.Scenario = prev
	}
}

// CycleSCS steps to the next subcarrier spacing.
func (s *Session) CycleSCS() {
	s.mutate(func(sc *Ns.ScenarioFile) {
		for i, v := range scsRing {
			if v == sc.SCSKHz {
				sc.SCSKHz = scsRing[(i+1)%len(scsRing)]
				return
			}
		}
		sc.SCSKHz = scsRing[0]
	})
}

// AdjustRBs grows or shrinks the carrier, floored at one RB.
func (s *Session) AdjustRBs(delta int) {
	s.mutate(func(sc *Ns.ScenarioFile) {
		sc.NumRBs += delta
		if sc.NumRBs < 1 {
			sc.NumRBs = 1
		}
	})
}

// CycleDmrsType flips between Type1 and Type2.
func (s *Session) CycleDmrsType() {
	s.mutate(func(sc *Ns.ScenarioFile) {
		if sc.DmrsType == "Type2" {
			sc.DmrsType = "Type1"
		} else {
			sc.DmrsType = "Type2"
		}
	})
}

// CycleCoreset steps the CORESET duration through 1..3.
func (s *Session) CycleCoreset() {
	s.mutate(func(sc *Ns.ScenarioFile) {
		sc.CoresetDuration = sc.CoresetDuration%3 + 1
	})
}

// ToggleDMRS switches the DMRS layer on or off.
func (s *Session) ToggleDMRS() {
	s.mutate(func(sc *Ns.ScenarioFile) {
		sc.WithDMRS = !sc.WithDMRS
	})
}

// TogglePDCCH switches the control region on or off.
func (s *Session) TogglePDCCH() {
	s.mutate(func(sc *Ns.ScenarioFile) {
		sc.WithPDCCH = !sc.WithPDCCH
	})
}

// snapshotLocked assumes the caller holds at least a read lock.
func (s *Session) snapshotLocked() Nt.Snapshot {
	snap := Nt.Snapshot{
		Timestamp:  time.Now(),
		ScenarioID: s.Scenario.ID,
		SCSKHz:     s.Scenario.SCSKHz,
		NumRBs:     s.Grid.NumRBs,
		NumSymbols: s.Grid.NumSymbols,
		TotalREs:   s.Stats.Total,
		PdschREs:   s.Stats.Count[Nt.CellPDSCH],
		PdcchREs:   s.Stats.Count[Nt.CellPDCCH],
		DmrsREs:    s.Stats.Count[Nt.CellDMRS],
		EmptyREs:   s.Stats.Count[Nt.CellEmpty],
		Mbps:       s.Mbps,
	}
	if s.Tdd != nil {
		snap.TddPattern = s.Tdd.String()
	}
	return snap
}

// Snapshot returns the current derived state as an exportable record.
func (s *Session) Snapshot() Nt.Snapshot {
	s.MU.RLock()
	defer s.MU.RUnlock()
	return s.snapshotLocked()
}
