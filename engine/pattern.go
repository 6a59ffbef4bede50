package nrscope

import (
	"fmt"

	Nt "github.com/crenna/nrscope/types"
)

// Pattern functions are pure mask generators. They know nothing about
// the grid builder; the builder layers them with its fixed precedence.

func validateMaskDims(numRBs, numSymbols int) error {
	if numRBs < 1 {
		return fmt.Errorf("%w: num_rbs=%d, must be >= 1", ErrInvalidDimensions, numRBs)
	}
	if numSymbols < 1 {
		return fmt.Errorf("%w: num_symbols=%d, must be >= 1", ErrInvalidDimensions, numSymbols)
	}
	return nil
}

func emptyMask(numRBs, numSymbols int) [][]bool {
	mask := make([][]bool, numSymbols)
	for i := range mask {
		mask[i] = make([]bool, numRBs*SubcarriersPerRB)
	}
	return mask
}

// DmrsMask marks DMRS occupancy on the listed symbol indices.
// Type1 fills every second subcarrier. Type2 fills subcarriers {0,1}
// of each 6-subcarrier group; a trailing partial group is marked only
// when at least two subcarriers remain in it.
// Symbol indices beyond numSymbols are silently ignored: front-loaded
// DMRS must lie inside the active allocation, and the caller's symbol
// set is allowed to outlive a shrunken allocation.
func DmrsMask(numRBs, numSymbols int, typ Nt.DmrsType, symbolIdx []int) ([][]bool, error) {
	if err := validateMaskDims(numRBs, numSymbols); err != nil {
		return nil, err
	}
	if typ != Nt.DmrsType1 && typ != Nt.DmrsType2 {
		return nil, fmt.Errorf("%w: dmrs_type=%d, must be Type1 or Type2", ErrInvalidParameter, typ)
	}

	mask := emptyMask(numRBs, numSymbols)
	width := numRBs * SubcarriersPerRB

	for _, sym := range symbolIdx {
		if sym < 0 || sym >= numSymbols {
			continue
		}
		switch typ {
		case Nt.DmrsType1:
			for sc := 0; sc < width; sc += 2 {
				mask[sym][sc] = true
			}
		case Nt.DmrsType2:
			for sc := 0; sc < width; sc += 6 {
				if sc+1 >= width {
					break
				}
				mask[sym][sc] = true
				mask[sym][sc+1] = true
			}
		}
	}

	return mask, nil
}

// CoresetMask marks the control region: the first duration symbol rows
// across all subcarriers, clamped to the symbol count.
func CoresetMask(numRBs, numSymbols, duration int) ([][]bool, error) {
	if err := validateMaskDims(numRBs, numSymbols); err != nil {
		return nil, err
	}
	if duration < 0 {
		return nil, fmt.Errorf("%w: coreset_duration=%d, must be >= 0", ErrInvalidDimensions, duration)
	}

	mask := emptyMask(numRBs, numSymbols)
	width := numRBs * SubcarriersPerRB

	rows := duration
	if rows > numSymbols {
		rows = numSymbols
	}
	for sym := 0; sym < rows; sym++ {
		for sc := 0; sc < width; sc++ {
			mask[sym][sc] = true
		}
	}

	return mask, nil
}

// CsiRsMask marks a sparse CSI-RS pattern: every fourth subcarrier on
// the listed symbols. Out-of-range symbols are ignored, like DmrsMask.
func CsiRsMask(numRBs, numSymbols int, symbolIdx []int) ([][]bool, error) {
	if err := validateMaskDims(numRBs, numSymbols); err != nil {
		return nil, err
	}

	mask := emptyMask(numRBs, numSymbols)
	width := numRBs * SubcarriersPerRB

	for _, sym := range symbolIdx {
		if sym < 0 || sym >= numSymbols {
			continue
		}
		for sc := 0; sc < width; sc += 4 {
			mask[sym][sc] = true
		}
	}

	return mask, nil
}

// SSB block geometry: 4 OFDM symbols by 240 subcarriers, with the
// 127-subcarrier sync sequences centered at subcarrier 56.
const (
	SsbSymbols     = 4
	SsbSubcarriers = 240
	ssbSyncStart   = 56
	ssbSyncEnd     = 183
)

// SsbGrid returns the fixed SS/PBCH block layout:
// symbol 0 carries PSS, symbols 1 and 3 carry PBCH with its DMRS on
// every fourth subcarrier, symbol 2 carries SSS centered with PBCH at
// the edges.
func SsbGrid() [][]Nt.SsbField {
	grid := make([][]Nt.SsbField, SsbSymbols)
	for i := range grid {
		grid[i] = make([]Nt.SsbField, SsbSubcarriers)
	}

	for sc := ssbSyncStart; sc < ssbSyncEnd; sc++ {
		grid[0][sc] = Nt.SsbPSS
	}

	pbchWithDmrs := func(sym int) {
		for sc := 0; sc < SsbSubcarriers; sc++ {
			if grid[sym][sc] != Nt.SsbUnused {
				continue
			}
			if sc%4 == 0 {
				grid[sym][sc] = Nt.SsbPBCHDmrs
			} else {
				grid[sym][sc] = Nt.SsbPBCH
			}
		}
	}

	pbchWithDmrs(1)

	for sc := ssbSyncStart; sc < ssbSyncEnd; sc++ {
		grid[2][sc] = Nt.SsbSSS
	}
	pbchWithDmrs(2)

	pbchWithDmrs(3)

	return grid
}
