package nrscope_test

import (
	"testing"

	Ns "github.com/crenna/nrscope/engine"
	Nt "github.com/crenna/nrscope/types"
)

func TestChannels(t *testing.T) {
	t.Run("Catalogue holds the six physical channels", func(t *testing.T) {
		assertInt(t, len(Ns.Channels()), 6)
	})

	t.Run("Callers cannot mutate the catalogue", func(t *testing.T) {
		channels := Ns.Channels()
		channels[0].Name = "SCRATCH"

		fresh := Ns.Channels()
		assertString(t, fresh[0].Name, "PDSCH")
	})

	t.Run("Uplink and downlink are both represented", func(t *testing.T) {
		var dl, ul int
		for _, ch := range Ns.Channels() {
			if ch.Direction == Nt.Uplink {
				ul++
			} else {
				dl++
			}
		}
		assertInt(t, dl, 3)
		assertInt(t, ul, 3)
	})
}

func TestChannelByName(t *testing.T) {
	t.Run("Finds a channel by exact name", func(t *testing.T) {
		ch, err := Ns.ChannelByName("PUSCH")
		assertError(t, err, nil)
		assertString(t, ch.FullName, "Physical Uplink Shared Channel")
	})

	t.Run("Lookup is case-insensitive", func(t *testing.T) {
		ch, err := Ns.ChannelByName("pdcch")
		assertError(t, err, nil)
		assertString(t, ch.Name, "PDCCH")
	})

	t.Run("Errors on an unknown channel", func(t *testing.T) {
		_, err := Ns.ChannelByName("PMCH")
		assertGotError(t, err)
	})
}
