package nrscope

import (
	"fmt"
	"strings"

	Nt "github.com/crenna/nrscope/types"
)

// The channel catalogue is fixed data: what each physical channel
// carries and the typical symbol allocation the catalogue view draws.
// Profiles are fractions of the subcarriers a symbol typically uses.

var channelCatalogue = []Nt.ChannelInfo{
	{
		Name:       "PDSCH",
		FullName:   "Physical Downlink Shared Channel",
		Purpose:    "Carries user data and higher layer signaling",
		Transport:  "DL-SCH",
		Modulation: "QPSK, 16-QAM, 64-QAM, 256-QAM",
		Coding:     "LDPC",
		Scheduling: "Dynamic (per slot)",
		Symbols:    "12-13 symbols/slot",
		Direction:  Nt.Downlink,
		Profile:    [14]float64{0.3, 0.3, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	},
	{
		Name:       "PDCCH",
		FullName:   "Physical Downlink Control Channel",
		Purpose:    "Carries downlink control information (DCI)",
		Transport:  "DCI formats",
		Modulation: "QPSK",
		Coding:     "Polar",
		Scheduling: "CORESET configuration",
		Symbols:    "1-3 symbols/slot",
		Direction:  Nt.Downlink,
		Profile:    [14]float64{1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	},
	{
		Name:       "PBCH",
		FullName:   "Physical Broadcast Channel",
		Purpose:    "Carries essential system information (MIB)",
		Transport:  "BCH",
		Modulation: "QPSK",
		Coding:     "Polar",
		Scheduling: "Fixed (SSB)",
		Symbols:    "Part of SSB (4 symbols)",
		Direction:  Nt.Downlink,
		Profile:    [14]float64{1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	},
	{
		Name:       "PUSCH",
		FullName:   "Physical Uplink Shared Channel",
		Purpose:    "Carries user data and higher layer signaling",
		Transport:  "UL-SCH",
		Modulation: "pi/2-BPSK, QPSK, 16-QAM, 64-QAM, 256-QAM",
		Coding:     "LDPC",
		Scheduling: "Dynamic (granted by PDCCH)",
		Symbols:    "4-14 symbols",
		Direction:  Nt.Uplink,
		Profile:    [14]float64{0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	},
	{
		Name:       "PUCCH",
		FullName:   "Physical Uplink Control Channel",
		Purpose:    "Carries uplink control information (UCI)",
		Transport:  "UCI (HARQ-ACK, CSI, SR)",
		Modulation: "QPSK, pi/2-BPSK",
		Coding:     "Sequence-based or Polar",
		Scheduling: "Semi-static configuration",
		Symbols:    "1-14 symbols",
		Direction:  Nt.Uplink,
		Profile:    [14]float64{1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	},
	{
		Name:       "PRACH",
		FullName:   "Physical Random Access Channel",
		Purpose:    "Random access preamble transmission",
		Transport:  "Random Access Preamble",
		Modulation: "Zadoff-Chu sequences",
		Coding:     "None (sequence-based)",
		Scheduling: "Configured RACH occasions",
		Symbols:    "1-14 symbols (format dependent)",
		Direction:  Nt.Uplink,
		Profile:    [14]float64{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0},
	},
}

// Channels returns the full physical-channel catalogue.
// The slice is copied so callers cannot mutate the catalogue.
func Channels() []Nt.ChannelInfo {
	out := make([]Nt.ChannelInfo, len(channelCatalogue))
	copy(out, channelCatalogue)
	return out
}

// ChannelByName looks up a catalogue entry, case-insensitively.
func ChannelByName(name string) (Nt.ChannelInfo, error) {
	for _, ch := range channelCatalogue {
		if strings.EqualFold(ch.Name, name) {
			return ch, nil
		}
	}
	return Nt.ChannelInfo{}, fmt.Errorf("unknown channel: %s", name)
}
