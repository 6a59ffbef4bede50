package nrscope

import (
	"fmt"

	Nt "github.com/crenna/nrscope/types"
)

// bitsPerSymbol is the closed modulation table. Anything outside it is
// rejected rather than guessed at.
var bitsPerSymbol = map[Nt.Modulation]int{
	Nt.ModQPSK:   2,
	Nt.ModQAM16:  4,
	Nt.ModQAM64:  6,
	Nt.ModQAM256: 8,
}

var validMimoLayers = map[int]bool{1: true, 2: true, 4: true, 8: true}

// BitsForModulation resolves a modulation name to bits per symbol.
func BitsForModulation(m Nt.Modulation) (int, error) {
	bits, ok := bitsPerSymbol[m]
	if !ok {
		return 0, fmt.Errorf("%w: modulation=%q, valid values are QPSK/16-QAM/64-QAM/256-QAM", ErrInvalidParameter, m)
	}
	return bits, nil
}

// EstimateThroughput is the peak-rate estimate in Mbps:
// REs * bits * rate * layers * slots-per-second / 1e6.
// bitsPerSym must come from the modulation table.
func EstimateThroughput(pdschREs, bitsPerSym int, codeRate float64, mimoLayers int, slotsPerSecond float64) (float64, error) {
	if pdschREs < 0 {
		return 0, fmt.Errorf("%w: pdsch_res=%d, must be >= 0", ErrInvalidParameter, pdschREs)
	}
	valid := false
	for _, b := range bitsPerSymbol {
		if b == bitsPerSym {
			valid = true
			break
		}
	}
	if !valid {
		return 0, fmt.Errorf("%w: bits_per_symbol=%d, valid values are 2/4/6/8", ErrInvalidParameter, bitsPerSym)
	}
	if codeRate <= 0 || codeRate > 1 {
		return 0, fmt.Errorf("%w: code_rate=%v, must be in (0,1]", ErrInvalidParameter, codeRate)
	}
	if !validMimoLayers[mimoLayers] {
		return 0, fmt.Errorf("%w: mimo_layers=%d, valid values are 1/2/4/8", ErrInvalidParameter, mimoLayers)
	}
	if slotsPerSecond <= 0 {
		return 0, fmt.Errorf("%w: slots_per_second=%v, must be > 0", ErrInvalidParameter, slotsPerSecond)
	}

	bitsPerSlot := float64(pdschREs) * float64(bitsPerSym) * codeRate * float64(mimoLayers)
	return bitsPerSlot * slotsPerSecond / 1e6, nil
}

// EstimateThroughputMod is EstimateThroughput with the modulation
// looked up by name, the way scenario configs specify it.
func EstimateThroughputMod(pdschREs int, m Nt.Modulation, codeRate float64, mimoLayers int, slotsPerSecond float64) (float64, error) {
	bits, err := BitsForModulation(m)
	if err != nil {
		return 0, err
	}
	return EstimateThroughput(pdschREs, bits, codeRate, mimoLayers, slotsPerSecond)
}
