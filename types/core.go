package types

/*

	These are the "immutable" core types of NRscope,
	provided for cross-package use (e.g. Exporters) and testing.

	There are no functions defined here.
	Struct constructors are housed in their own packages.

*/

import "time"

// CellKind classifies a single Resource Element in the grid.
// Precedence when building a grid is fixed:
// PDSCH is the base fill, PDCCH overrides it, DMRS overrides both.
type CellKind int

const (
	CellEmpty CellKind = iota // unallocated / guard
	CellPDSCH                 // data
	CellPDCCH                 // control (CORESET region)
	CellDMRS                  // demodulation reference
	CellCSIRS                 // channel-state reference (overlay views only)
)

// CyclicPrefix selects the symbol count per slot.
// Extended CP exists only at 60 kHz (mu=2).
type CyclicPrefix int

const (
	NormalCP   CyclicPrefix = iota // 14 symbols per slot
	ExtendedCP                     // 12 symbols per slot
)

// DmrsType is the DMRS configuration type.
// Type1 marks every second subcarrier (6 REs per RB per symbol),
// Type2 marks 2 of every 6 subcarriers (4 REs per RB per symbol).
type DmrsType int

const (
	DmrsType1 DmrsType = iota
	DmrsType2
)

// SlotLabel is the role of one slot in a TDD period.
type SlotLabel rune

const (
	SlotDownlink SlotLabel = 'D' // full downlink slot
	SlotUplink   SlotLabel = 'U' // full uplink slot
	SlotSpecial  SlotLabel = 'X' // partial slot: DL symbols, guard, UL symbols
	SlotFlexible SlotLabel = 'F' // flexible padding
)

// Modulation names the closed set of downlink modulation schemes.
type Modulation string

const (
	ModQPSK   Modulation = "QPSK"
	ModQAM16  Modulation = "16-QAM"
	ModQAM64  Modulation = "64-QAM"
	ModQAM256 Modulation = "256-QAM"
)

// LinkDirection marks a physical channel as downlink or uplink.
type LinkDirection int

const (
	Downlink LinkDirection = iota
	Uplink
)

// SsbField classifies one cell of the SS/PBCH block.
type SsbField int

const (
	SsbUnused SsbField = iota
	SsbPBCH
	SsbPSS
	SsbPBCHDmrs
	SsbSSS
)

// ChannelInfo describes one physical channel for the catalogue view.
// Profile is the typical per-symbol slot allocation drawn as a bar series.
type ChannelInfo struct {
	Name       string
	FullName   string
	Purpose    string
	Transport  string
	Modulation string
	Coding     string
	Scheduling string
	Symbols    string
	Direction  LinkDirection
	Profile    [14]float64
}

// Snapshot is one fully-computed view state, the unit Exporters write.
// Everything in here is derived, so a Snapshot can always be rebuilt
// from its scenario parameters.
type Snapshot struct {
	Timestamp  time.Time
	ScenarioID string
	SCSKHz     int
	NumRBs     int
	NumSymbols int
	TotalREs   int
	PdschREs   int
	PdcchREs   int
	DmrsREs    int
	EmptyREs   int
	TddPattern string
	Mbps       float64
}
