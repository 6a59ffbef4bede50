package nrscope

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	Nt "github.com/crenna/nrscope/types"
)

// TddConfig is one TDD-UL-DL pattern: full DL slots, an optional
// partial slot split into DL symbols / guard / UL symbols, full UL
// slots, and flexible padding out to the periodicity.
type TddConfig struct {
	PeriodicityMs  float64
	SlotDurationMs float64
	DlSlots        int
	DlSymbols      int
	UlSlots        int
	UlSymbols      int
}

// TddSlot is one labeled slot. Dl, Guard and Ul are only meaningful
// for the special (X) slot.
type TddSlot struct {
	Label Nt.SlotLabel
	Dl    int
	Guard int
	Ul    int
}

// Detail renders the partial-slot split, e.g. "D10G2U2".
func (s TddSlot) Detail() string {
	if s.Label != Nt.SlotSpecial {
		return string(s.Label)
	}
	return fmt.Sprintf("D%dG%dU%d", s.Dl, s.Guard, s.Ul)
}

// TddPattern is the synthesized slot sequence plus its symbol census
// over the whole period.
type TddPattern struct {
	Slots        []TddSlot
	DlSymbols    int
	UlSymbols    int
	GuardSymbols int // guard plus flexible
	TotalSymbols int
}

// SynthesizeTdd builds the ordered slot sequence for one period.
// The order is exact: D slots, at most one X slot, U slots, F padding.
// A configuration longer than the period is truncated to the period;
// that is a caller error worth surfacing, so it is logged.
func SynthesizeTdd(cfg TddConfig) (*TddPattern, error) {
	if cfg.SlotDurationMs <= 0 {
		return nil, fmt.Errorf("%w: slot_duration_ms=%v, must be > 0", ErrInvalidPeriod, cfg.SlotDurationMs)
	}
	ratio := cfg.PeriodicityMs / cfg.SlotDurationMs
	slots := int(math.Round(ratio))
	if slots < 1 || math.Abs(ratio-float64(slots)) > 1e-9 {
		return nil, fmt.Errorf("%w: periodicity_ms=%v / slot_duration_ms=%v = %v, must be an integer >= 1",
			ErrInvalidPeriod, cfg.PeriodicityMs, cfg.SlotDurationMs, ratio)
	}
	if cfg.DlSlots < 0 || cfg.UlSlots < 0 || cfg.DlSymbols < 0 || cfg.UlSymbols < 0 {
		return nil, fmt.Errorf("%w: slot and symbol counts must be >= 0", ErrInvalidParameter)
	}
	guard := SymbolsNormalCP - cfg.DlSymbols - cfg.UlSymbols
	if guard < 0 {
		return nil, fmt.Errorf("%w: dl_symbols=%d + ul_symbols=%d > 14 (guard would be %d)",
			ErrInvalidPartialSlot, cfg.DlSymbols, cfg.UlSymbols, guard)
	}

	seq := make([]TddSlot, 0, slots)
	for i := 0; i < cfg.DlSlots; i++ {
		seq = append(seq, TddSlot{Label: Nt.SlotDownlink})
	}
	if cfg.DlSymbols > 0 || cfg.UlSymbols > 0 {
		seq = append(seq, TddSlot{
			Label: Nt.SlotSpecial,
			Dl:    cfg.DlSymbols,
			Guard: guard,
			Ul:    cfg.UlSymbols,
		})
	}
	for i := 0; i < cfg.UlSlots; i++ {
		seq = append(seq, TddSlot{Label: Nt.SlotUplink})
	}
	for len(seq) < slots {
		seq = append(seq, TddSlot{Label: Nt.SlotFlexible})
	}

	if len(seq) > slots {
		slog.Warn("TDD configuration exceeds period, truncating",
			slog.Int("configured", len(seq)),
			slog.Int("period_slots", slots))
		seq = seq[:slots]
	}

	p := &TddPattern{
		Slots:        seq,
		TotalSymbols: slots * SymbolsNormalCP,
	}
	for _, s := range seq {
		switch s.Label {
		case Nt.SlotDownlink:
			p.DlSymbols += SymbolsNormalCP
		case Nt.SlotUplink:
			p.UlSymbols += SymbolsNormalCP
		case Nt.SlotSpecial:
			p.DlSymbols += s.Dl
			p.UlSymbols += s.Ul
		}
	}
	p.GuardSymbols = p.TotalSymbols - p.DlSymbols - p.UlSymbols

	return p, nil
}

// String renders the label sequence, e.g. "DDDDDDDXUU".
func (p *TddPattern) String() string {
	var b strings.Builder
	for _, s := range p.Slots {
		b.WriteRune(rune(s.Label))
	}
	return b.String()
}

// DlPct, UlPct and GuardPct are the symbol shares over the period.
// Guard includes flexible slots, matching the displayed remainder.
func (p *TddPattern) DlPct() float64 {
	return FloatPrecise(100*float64(p.DlSymbols)/float64(p.TotalSymbols), 2)
}

func (p *TddPattern) UlPct() float64 {
	return FloatPrecise(100*float64(p.UlSymbols)/float64(p.TotalSymbols), 2)
}

func (p *TddPattern) GuardPct() float64 {
	return FloatPrecise(100*float64(p.GuardSymbols)/float64(p.TotalSymbols), 2)
}
