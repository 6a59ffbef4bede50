package nrscope_test

import (
	"testing"

	Ns "github.com/crenna/nrscope/engine"
	Nt "github.com/crenna/nrscope/types"
)

func fullGridConfig() Ns.GridConfig {
	return Ns.GridConfig{
		NumRBs:          10,
		NumSymbols:      14,
		WithPDSCH:       true,
		WithPDCCH:       true,
		CoresetDuration: 2,
		WithDMRS:        true,
		DmrsType:        Nt.DmrsType1,
		DmrsSymbols:     []int{2, 11},
	}
}

func TestBuildGrid(t *testing.T) {
	t.Run("Counts always sum to the grid size", func(t *testing.T) {
		grid, err := Ns.BuildGrid(fullGridConfig())
		assertError(t, err, nil)

		stats := grid.Stats()
		sum := 0
		for _, n := range stats.Count {
			sum += n
		}
		assertInt(t, stats.Total, 10*12*14)
		assertInt(t, sum, stats.Total)
	})

	t.Run("PDCCH overrides the PDSCH fill", func(t *testing.T) {
		grid, err := Ns.BuildGrid(fullGridConfig())
		assertError(t, err, nil)

		if grid.Cells[0][0] != Nt.CellPDCCH {
			t.Errorf("got %v at the control region, want PDCCH", grid.Cells[0][0])
		}
		if grid.Cells[2][1] != Nt.CellPDSCH {
			t.Errorf("got %v below the control region, want PDSCH", grid.Cells[2][1])
		}
	})

	t.Run("DMRS overrides PDCCH in the control region", func(t *testing.T) {
		cfg := fullGridConfig()
		cfg.DmrsSymbols = []int{0}
		grid, err := Ns.BuildGrid(cfg)
		assertError(t, err, nil)

		if grid.Cells[0][0] != Nt.CellDMRS {
			t.Errorf("got %v on a DMRS subcarrier, want DMRS", grid.Cells[0][0])
		}
		if grid.Cells[0][1] != Nt.CellPDCCH {
			t.Errorf("got %v between DMRS subcarriers, want PDCCH", grid.Cells[0][1])
		}
	})

	t.Run("Disabled layers leave cells empty", func(t *testing.T) {
		grid, err := Ns.BuildGrid(Ns.GridConfig{NumRBs: 2, NumSymbols: 4})
		assertError(t, err, nil)

		stats := grid.Stats()
		assertInt(t, stats.Count[Nt.CellEmpty], stats.Total)
	})

	t.Run("Same config always builds the same grid", func(t *testing.T) {
		first, err := Ns.BuildGrid(fullGridConfig())
		assertError(t, err, nil)
		second, err := Ns.BuildGrid(fullGridConfig())
		assertError(t, err, nil)

		for sym := range first.Cells {
			for sc := range first.Cells[sym] {
				if first.Cells[sym][sc] != second.Cells[sym][sc] {
					t.Fatalf("grids differ at symbol %d subcarrier %d", sym, sc)
				}
			}
		}
	})

	t.Run("Rejects zero RBs", func(t *testing.T) {
		cfg := fullGridConfig()
		cfg.NumRBs = 0
		_, err := Ns.BuildGrid(cfg)
		assertError(t, err, Ns.ErrInvalidDimensions)
	})

	t.Run("Rejects more than 14 symbols", func(t *testing.T) {
		cfg := fullGridConfig()
		cfg.NumSymbols = 15
		_, err := Ns.BuildGrid(cfg)
		assertError(t, err, Ns.ErrInvalidDimensions)
	})

	t.Run("Rejects a CORESET duration outside 1..3", func(t *testing.T) {
		cfg := fullGridConfig()
		cfg.CoresetDuration = 4
		_, err := Ns.BuildGrid(cfg)
		assertError(t, err, Ns.ErrInvalidParameter)
	})
}

func TestGridStats(t *testing.T) {
	grid, err := Ns.BuildGrid(fullGridConfig())
	assertError(t, err, nil)
	stats := grid.Stats()

	t.Run("Census matches the layer arithmetic", func(t *testing.T) {
		// 2 CORESET symbols of 120 subcarriers
		assertInt(t, stats.Count[Nt.CellPDCCH], 240)
		// Type1 on two symbols outside the control region
		assertInt(t, stats.Count[Nt.CellDMRS], 120)
		// Everything else is the PDSCH fill
		assertInt(t, stats.Count[Nt.CellPDSCH], stats.Total-240-120)
		assertInt(t, stats.Count[Nt.CellEmpty], 0)
	})

	t.Run("Percentages are rounded shares of the total", func(t *testing.T) {
		// 240 of 1680
		assertFloat(t, stats.Pct[Nt.CellPDCCH], 14.29)
	})

	t.Run("PdschREs agrees with the census", func(t *testing.T) {
		assertInt(t, grid.PdschREs(), stats.Count[Nt.CellPDSCH])
	})
}
