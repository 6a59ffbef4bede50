package nrscope

import (
	"fmt"

	Nt "github.com/crenna/nrscope/types"
)

// GridConfig selects which layers the builder paints.
// The precedence is a design contract, not an option:
// PDSCH is the base fill, PDCCH overrides it, DMRS overrides both.
type GridConfig struct {
	NumRBs          int
	NumSymbols      int
	WithPDSCH       bool
	WithPDCCH       bool
	CoresetDuration int
	WithDMRS        bool
	DmrsType        Nt.DmrsType
	DmrsSymbols     []int
}

// Grid is one classified resource grid: Cells[symbol][subcarrier].
// It is built fresh per call and never mutated afterwards.
type Grid struct {
	NumRBs     int
	NumSymbols int
	Cells      [][]Nt.CellKind
}

// GridStats is the per-classification census of a grid.
// The counts always sum to Total = NumSymbols * NumRBs * 12.
type GridStats struct {
	Total int
	Count map[Nt.CellKind]int
	Pct   map[Nt.CellKind]float64
}

// BuildGrid validates the whole configuration, then paints the enabled
// layers in fixed order. Validation is all-or-nothing: no grid is
// allocated on a bad config.
func BuildGrid(cfg GridConfig) (*Grid, error) {
	if cfg.NumRBs < 1 {
		return nil, fmt.Errorf("%w: num_rbs=%d, must be >= 1", ErrInvalidDimensions, cfg.NumRBs)
	}
	if cfg.NumSymbols < 1 || cfg.NumSymbols > SymbolsNormalCP {
		return nil, fmt.Errorf("%w: num_symbols=%d, must be in [1,14]", ErrInvalidDimensions, cfg.NumSymbols)
	}
	if cfg.WithPDCCH && (cfg.CoresetDuration < 1 || cfg.CoresetDuration > 3) {
		return nil, fmt.Errorf("%w: coreset_duration=%d, must be in [1,3]", ErrInvalidParameter, cfg.CoresetDuration)
	}
	if cfg.WithDMRS && cfg.DmrsType != Nt.DmrsType1 && cfg.DmrsType != Nt.DmrsType2 {
		return nil, fmt.Errorf("%w: dmrs_type=%d, must be Type1 or Type2", ErrInvalidParameter, cfg.DmrsType)
	}

	width := cfg.NumRBs * SubcarriersPerRB
	cells := make([][]Nt.CellKind, cfg.NumSymbols)
	for i := range cells {
		cells[i] = make([]Nt.CellKind, width)
	}

	if cfg.WithPDSCH {
		for sym := range cells {
			for sc := range cells[sym] {
				cells[sym][sc] = Nt.CellPDSCH
			}
		}
	}

	if cfg.WithPDCCH {
		mask, err := CoresetMask(cfg.NumRBs, cfg.NumSymbols, cfg.CoresetDuration)
		if err != nil {
			return nil, err
		}
		overlay(cells, mask, Nt.CellPDCCH)
	}

	if cfg.WithDMRS {
		mask, err := DmrsMask(cfg.NumRBs, cfg.NumSymbols, cfg.DmrsType, cfg.DmrsSymbols)
		if err != nil {
			return nil, err
		}
		overlay(cells, mask, Nt.CellDMRS)
	}

	return &Grid{
		NumRBs:     cfg.NumRBs,
		NumSymbols: cfg.NumSymbols,
		Cells:      cells,
	}, nil
}

func overlay(cells [][]Nt.CellKind, mask [][]bool, kind Nt.CellKind) {
	for sym := range mask {
		for sc := range mask[sym] {
			if mask[sym][sc] {
				cells[sym][sc] = kind
			}
		}
	}
}

// Stats counts every classification and its share of the grid.
func (g *Grid) Stats() GridStats {
	count := map[Nt.CellKind]int{
		Nt.CellEmpty: 0,
		Nt.CellPDSCH: 0,
		Nt.CellPDCCH: 0,
		Nt.CellDMRS:  0,
	}
	for sym := range g.Cells {
		for _, kind := range g.Cells[sym] {
			count[kind]++
		}
	}

	total := g.NumSymbols * g.NumRBs * SubcarriersPerRB
	pct := make(map[Nt.CellKind]float64, len(count))
	for kind, n := range count {
		pct[kind] = FloatPrecise(100*float64(n)/float64(total), 2)
	}

	return GridStats{
		Total: total,
		Count: count,
		Pct:   pct,
	}
}

// PdschREs is the data resource-element count the throughput
// estimator consumes.
func (g *Grid) PdschREs() int {
	n := 0
	for sym := range g.Cells {
		for _, kind := range g.Cells[sym] {
			if kind == Nt.CellPDSCH {
				n++
			}
		}
	}
	return n
}
