package nrscope_test

import (
	"math"
	"testing"

	Ns "github.com/crenna/nrscope/engine"
	Nt "github.com/crenna/nrscope/types"
)

func TestResolveNumerology(t *testing.T) {
	cases := []struct {
		scsKHz        int
		mu            int
		slotsPerFrame int
	}{
		{15, 0, 10},
		{30, 1, 20},
		{60, 2, 40},
		{120, 3, 80},
		{240, 4, 160},
	}

	for _, c := range cases {
		timing, err := Ns.ResolveNumerology(c.scsKHz)
		assertError(t, err, nil)

		t.Run("Maps SCS to mu", func(t *testing.T) {
			assertInt(t, timing.Mu, c.mu)
		})

		t.Run("Derives slots per frame from mu", func(t *testing.T) {
			assertInt(t, timing.SlotsPerFrame, c.slotsPerFrame)
		})

		t.Run("Slot durations always sum to one frame", func(t *testing.T) {
			frame := timing.SlotDurationMs * float64(timing.SlotsPerFrame)
			if math.Abs(frame-Ns.FrameDurationMs) > 1e-9 {
				t.Errorf("frame is %v ms, want %v ms", frame, Ns.FrameDurationMs)
			}
		})

		t.Run("Normal CP always has 14 symbols", func(t *testing.T) {
			assertInt(t, timing.SymbolsPerSlot, Ns.SymbolsNormalCP)
		})
	}

	t.Run("Rejects a spacing outside the numerology table", func(t *testing.T) {
		_, err := Ns.ResolveNumerology(45)
		assertError(t, err, Ns.ErrInvalidNumerology)
	})
}

func TestResolveNumerologyCP(t *testing.T) {
	t.Run("Extended CP at 60 kHz has 12 symbols", func(t *testing.T) {
		timing, err := Ns.ResolveNumerologyCP(60, Nt.ExtendedCP)
		assertError(t, err, nil)
		assertInt(t, timing.SymbolsPerSlot, Ns.SymbolsExtendedCP)
	})

	t.Run("Extended CP is rejected away from 60 kHz", func(t *testing.T) {
		_, err := Ns.ResolveNumerologyCP(30, Nt.ExtendedCP)
		assertError(t, err, Ns.ErrInvalidNumerology)
	})
}

func TestSlotsPerSecond(t *testing.T) {
	t.Run("30 kHz runs 2000 slots per second", func(t *testing.T) {
		timing, err := Ns.ResolveNumerology(30)
		assertError(t, err, nil)
		assertFloat(t, timing.SlotsPerSecond(), 2000.0)
	})

	t.Run("15 kHz runs 1000 slots per second", func(t *testing.T) {
		timing, err := Ns.ResolveNumerology(15)
		assertError(t, err, nil)
		assertFloat(t, timing.SlotsPerSecond(), 1000.0)
	})
}

func TestSymbolTiming(t *testing.T) {
	timing, err := Ns.ResolveNumerology(15)
	assertError(t, err, nil)

	t.Run("15 kHz symbols are 1000/14 us", func(t *testing.T) {
		want := 1000.0 / 14.0
		if math.Abs(timing.SymbolDurationUs()-want) > 1e-9 {
			t.Errorf("got %v us, want %v us", timing.SymbolDurationUs(), want)
		}
	})

	t.Run("First symbol CP is longer than the others", func(t *testing.T) {
		st := timing.SymbolTiming()
		if st.CPFirstUs <= st.CPOtherUs {
			t.Errorf("first CP %v us should exceed other CP %v us", st.CPFirstUs, st.CPOtherUs)
		}
	})

	t.Run("Useful portion is the symbol minus the CP", func(t *testing.T) {
		st := timing.SymbolTiming()
		if st.UsefulUs >= st.SymbolDurationUs {
			t.Errorf("useful %v us should be below symbol %v us", st.UsefulUs, st.SymbolDurationUs)
		}
	})
}

func TestFrameLayout(t *testing.T) {
	timing, err := Ns.ResolveNumerology(30)
	assertError(t, err, nil)
	layout := timing.FrameLayout()

	t.Run("One edge per slot plus the frame end", func(t *testing.T) {
		assertInt(t, len(layout.SlotEdgesMs), timing.SlotsPerFrame+1)
	})

	t.Run("Last edge closes the 10 ms frame", func(t *testing.T) {
		assertFloat(t, layout.SlotEdgesMs[len(layout.SlotEdgesMs)-1], 10.0)
	})

	t.Run("Always ten subframes", func(t *testing.T) {
		assertInt(t, layout.Subframes, Ns.SubframesPerFrame)
	})
}
