package nrscope

import "fmt"

// AllocKind selects the time-domain allocation style.
type AllocKind int

const (
	AllocSlot     AllocKind = iota // full slot, all 14 symbols
	AllocNonSlot                   // arbitrary start symbol + duration
	AllocMiniSlot                  // 2, 4 or 7 symbols
)

// AllocationConfig describes one time-domain allocation within a slot.
// StartSymbol and DurationSymbols are ignored for AllocSlot.
type AllocationConfig struct {
	Kind            AllocKind
	StartSymbol     int
	DurationSymbols int
	SlotDurationMs  float64
}

// Allocation is the per-symbol occupancy plus the latency and
// efficiency figures the time-domain view reports.
type Allocation struct {
	Symbols       [SymbolsNormalCP]bool
	Used          int
	LatencyUs     float64
	EfficiencyPct float64
}

var miniSlotDurations = map[int]bool{2: true, 4: true, 7: true}

// AllocateTimeDomain computes the symbol occupancy for one allocation.
func AllocateTimeDomain(cfg AllocationConfig) (*Allocation, error) {
	if cfg.SlotDurationMs <= 0 {
		return nil, fmt.Errorf("%w: slot_duration_ms=%v, must be > 0", ErrInvalidParameter, cfg.SlotDurationMs)
	}

	start, length := cfg.StartSymbol, cfg.DurationSymbols
	switch cfg.Kind {
	case AllocSlot:
		start, length = 0, SymbolsNormalCP
	case AllocNonSlot:
		if start < 0 || start > SymbolsNormalCP-1 {
			return nil, fmt.Errorf("%w: start_symbol=%d, must be in [0,13]", ErrInvalidParameter, start)
		}
		if length < 1 || start+length > SymbolsNormalCP {
			return nil, fmt.Errorf("%w: duration=%d at start=%d exceeds the slot", ErrInvalidParameter, length, start)
		}
	case AllocMiniSlot:
		if !miniSlotDurations[length] {
			return nil, fmt.Errorf("%w: mini-slot duration=%d, valid values are 2/4/7", ErrInvalidParameter, length)
		}
		if start < 0 || start+length > SymbolsNormalCP {
			return nil, fmt.Errorf("%w: mini-slot start=%d duration=%d exceeds the slot", ErrInvalidParameter, start, length)
		}
	default:
		return nil, fmt.Errorf("%w: allocation kind=%d", ErrInvalidParameter, cfg.Kind)
	}

	a := &Allocation{Used: length}
	for i := start; i < start+length; i++ {
		a.Symbols[i] = true
	}

	symbolUs := cfg.SlotDurationMs * 1000.0 / SymbolsNormalCP
	a.LatencyUs = float64(length) * symbolUs
	a.EfficiencyPct = FloatPrecise(100*float64(length)/SymbolsNormalCP, 2)

	return a, nil
}

// Sliv encodes a start symbol and length as a Start and Length
// Indicator Value, the compact form DCI signals.
func Sliv(start, length int) (int, error) {
	if start < 0 || start > SymbolsNormalCP-1 {
		return 0, fmt.Errorf("%w: sliv start=%d, must be in [0,13]", ErrInvalidParameter, start)
	}
	if length < 1 || start+length > SymbolsNormalCP {
		return 0, fmt.Errorf("%w: sliv length=%d at start=%d exceeds the slot", ErrInvalidParameter, length, start)
	}
	if length-1 <= 7 {
		return SymbolsNormalCP*(length-1) + start, nil
	}
	return SymbolsNormalCP*(SymbolsNormalCP-length+1) + (SymbolsNormalCP - 1 - start), nil
}

// SlivDecode inverts Sliv.
func SlivDecode(sliv int) (start, length int, err error) {
	if sliv < 0 || sliv >= SymbolsNormalCP*SymbolsNormalCP {
		return 0, 0, fmt.Errorf("%w: sliv=%d out of range", ErrInvalidParameter, sliv)
	}
	length = sliv/SymbolsNormalCP + 1
	start = sliv % SymbolsNormalCP
	if start+length > SymbolsNormalCP {
		length = SymbolsNormalCP - length + 2
		start = SymbolsNormalCP - 1 - start
	}
	if start+length > SymbolsNormalCP || length < 1 {
		return 0, 0, fmt.Errorf("%w: sliv=%d has no valid decoding", ErrInvalidParameter, sliv)
	}
	return start, length, nil
}
