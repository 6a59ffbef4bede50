package nrscope

import (
	"fmt"

	Nt "github.com/crenna/nrscope/types"
)

const (
	FrameDurationMs   = 10.0
	SubframesPerFrame = 10
	SymbolsNormalCP   = 14
	SymbolsExtendedCP = 12
	SubcarriersPerRB  = 12
	extendedCPMu      = 2 // extended CP exists only at 60 kHz
)

// muBySCS is the closed numerology table: subcarrier spacing to mu.
var muBySCS = map[int]int{
	15:  0,
	30:  1,
	60:  2,
	120: 3,
	240: 4,
}

// SlotTiming holds every timing constant derived from one numerology.
// A frame is always 10 ms: SlotDurationMs * SlotsPerFrame == 10.
type SlotTiming struct {
	Mu               int
	SCSKHz           int
	CP               Nt.CyclicPrefix
	SlotDurationMs   float64
	SlotsPerSubframe int
	SlotsPerFrame    int
	SymbolsPerSlot   int
}

// SymbolTiming is the microsecond-level breakdown of one OFDM symbol.
// The first symbol of a slot carries a slightly longer cyclic prefix.
type SymbolTiming struct {
	SymbolDurationUs float64
	CPFirstUs        float64
	CPOtherUs        float64
	UsefulUs         float64
}

// FrameLayout is the numeric series the frame and subframe views draw:
// slot boundary positions in milliseconds across one 10 ms frame.
type FrameLayout struct {
	Subframes   int
	SlotEdgesMs []float64
}

// ResolveNumerology maps a subcarrier spacing in kHz to its timing
// constants, assuming normal CP. Only the five NR spacings are valid.
func ResolveNumerology(scsKHz int) (*SlotTiming, error) {
	return ResolveNumerologyCP(scsKHz, Nt.NormalCP)
}

// ResolveNumerologyCP is ResolveNumerology with an explicit cyclic
// prefix mode. Extended CP is only defined for 60 kHz.
func ResolveNumerologyCP(scsKHz int, cp Nt.CyclicPrefix) (*SlotTiming, error) {
	mu, ok := muBySCS[scsKHz]
	if !ok {
		return nil, fmt.Errorf("%w: scs_khz=%d, valid values are 15/30/60/120/240", ErrInvalidNumerology, scsKHz)
	}

	symbols := SymbolsNormalCP
	if cp == Nt.ExtendedCP {
		if mu != extendedCPMu {
			return nil, fmt.Errorf("%w: extended CP requires 60 kHz, got scs_khz=%d", ErrInvalidNumerology, scsKHz)
		}
		symbols = SymbolsExtendedCP
	}

	slotsPerSubframe := 1 << mu

	return &SlotTiming{
		Mu:               mu,
		SCSKHz:           scsKHz,
		CP:               cp,
		SlotDurationMs:   1.0 / float64(slotsPerSubframe),
		SlotsPerSubframe: slotsPerSubframe,
		SlotsPerFrame:    SubframesPerFrame * slotsPerSubframe,
		SymbolsPerSlot:   symbols,
	}, nil
}

// SlotsPerSecond is the rate the throughput estimator consumes.
func (st *SlotTiming) SlotsPerSecond() float64 {
	return 1000.0 / st.SlotDurationMs
}

// SymbolDurationUs is the duration of a single OFDM symbol.
func (st *SlotTiming) SymbolDurationUs() float64 {
	return st.SlotDurationMs * 1000.0 / float64(st.SymbolsPerSlot)
}

// SymbolTiming breaks one symbol into cyclic prefix and useful portion.
// The CP ratios follow the standard split: the first symbol in each
// half-subframe is padded slightly longer so the slot length stays exact.
func (st *SlotTiming) SymbolTiming() SymbolTiming {
	symUs := st.SymbolDurationUs()

	cpFirst := 0.071
	cpOther := 0.0694
	if st.SCSKHz > 30 {
		cpFirst = 0.06
		cpOther = 0.059
	}

	return SymbolTiming{
		SymbolDurationUs: symUs,
		CPFirstUs:        symUs * cpFirst,
		CPOtherUs:        symUs * cpOther,
		UsefulUs:         symUs * (1 - cpOther),
	}
}

// FrameLayout lists every slot boundary in one frame, in milliseconds.
// The last entry is always 10.0.
func (st *SlotTiming) FrameLayout() FrameLayout {
	edges := make([]float64, st.SlotsPerFrame+1)
	for i := 0; i <= st.SlotsPerFrame; i++ {
		edges[i] = float64(i) * st.SlotDurationMs
	}
	return FrameLayout{
		Subframes:   SubframesPerFrame,
		SlotEdgesMs: edges,
	}
}
