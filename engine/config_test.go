package nrscope_test

import (
	"os"
	"testing"

	Ns "github.com/crenna/nrscope/engine"
	Nt "github.com/crenna/nrscope/types"
)

// Temporary OS file to use for testing configurations
func createTempFile(t testing.TB, data string) (*os.File, func()) {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "db")
	if err != nil {
		t.Fatalf("could not create temp file %v", err)
	}

	tmpfile.Write([]byte(data))
	removeFile := func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name())
	}
	return tmpfile, removeFile
}

func TestLoadScenarioFileName(t *testing.T) {
	scenarioFile, delScenario := createTempFile(t, `[{
		  "id": "midband",
		  "scs_khz": 30,
		  "num_rbs": 52,
		  "num_symbols": 14,
		  "pdsch": true,
		  "pdcch": true,
		  "coreset_duration": 2,
		  "dmrs": true,
		  "dmrs_type": "Type1",
		  "dmrs_symbols": [2, 11],
		  "modulation": "64-QAM",
		  "code_rate": 0.75,
		  "mimo_layers": 2,
		  "tdd": {
		    "periodicity_ms": 5.0,
		    "dl_slots": 7,
		    "dl_symbols": 10,
		    "ul_slots": 2,
		    "ul_symbols": 2
		  }
		}]`)
	defer delScenario()
	fileName := scenarioFile.Name()

	t.Run("Returns the correct scenario ID when loading", func(t *testing.T) {
		scenarios, err := Ns.LoadScenarioFileName(fileName)
		assertError(t, err, nil)
		assertString(t, scenarios[0].ID, "midband")
	})

	t.Run("Displays correct carrier parameters", func(t *testing.T) {
		scenarios, err := Ns.LoadScenarioFileName(fileName)
		assertError(t, err, nil)
		assertInt(t, scenarios[0].SCSKHz, 30)
		assertInt(t, scenarios[0].NumRBs, 52)
		assertFloat(t, scenarios[0].CodeRate, 0.75)
	})

	t.Run("Loads the TDD stanza", func(t *testing.T) {
		scenarios, err := Ns.LoadScenarioFileName(fileName)
		assertError(t, err, nil)
		if scenarios[0].Tdd == nil {
			t.Fatal("expected a TDD stanza")
		}
		assertFloat(t, scenarios[0].Tdd.PeriodicityMs, 5.0)
		assertInt(t, scenarios[0].Tdd.DlSlots, 7)
	})

	t.Run("Errors with malformed JSON", func(t *testing.T) {
		scenarioFile, delScenario = createTempFile(t, `[{
		  "id": "midband",
		  "scs_khz": "thirty"
		}]`)
		defer delScenario()
		fileName = scenarioFile.Name()

		_, err := Ns.LoadScenarioFileName(fileName)
		assertGotError(t, err)
	})

	t.Run("Errors with an empty file", func(t *testing.T) {
		scenarioFile, delScenario = createTempFile(t, ``)
		defer delScenario()
		fileName = scenarioFile.Name()

		_, err := Ns.LoadScenarioFileName(fileName)
		assertGotError(t, err)
	})

	t.Run("Errors with a missing file", func(t *testing.T) {
		_, err := Ns.LoadScenarioFileName("does-not-exist.json")
		assertGotError(t, err)
	})
}

func TestDmrsTypeFromName(t *testing.T) {
	t.Run("Type1 by name", func(t *testing.T) {
		typ, err := Ns.DmrsTypeFromName("Type1")
		assertError(t, err, nil)
		assertInt(t, int(typ), int(Nt.DmrsType1))
	})

	t.Run("Empty string defaults to Type1", func(t *testing.T) {
		typ, err := Ns.DmrsTypeFromName("")
		assertError(t, err, nil)
		assertInt(t, int(typ), int(Nt.DmrsType1))
	})

	t.Run("Type2 by name", func(t *testing.T) {
		typ, err := Ns.DmrsTypeFromName("Type2")
		assertError(t, err, nil)
		assertInt(t, int(typ), int(Nt.DmrsType2))
	})

	t.Run("Rejects anything else", func(t *testing.T) {
		_, err := Ns.DmrsTypeFromName("Type3")
		assertGotError(t, err)
	})
}

func TestDefaultScenario(t *testing.T) {
	sc := Ns.DefaultScenario()

	t.Run("Default resolves as a valid numerology", func(t *testing.T) {
		_, err := Ns.ResolveNumerology(sc.SCSKHz)
		assertError(t, err, nil)
	})

	t.Run("Default builds a valid grid", func(t *testing.T) {
		typ, err := Ns.DmrsTypeFromName(sc.DmrsType)
		assertError(t, err, nil)

		_, err = Ns.BuildGrid(Ns.GridConfig{
			NumRBs:          sc.NumRBs,
			NumSymbols:      sc.NumSymbols,
			WithPDSCH:       sc.WithPDSCH,
			WithPDCCH:       sc.WithPDCCH,
			CoresetDuration: sc.CoresetDuration,
			WithDMRS:        sc.WithDMRS,
			DmrsType:        typ,
			DmrsSymbols:     sc.DmrsSymbols,
		})
		assertError(t, err, nil)
	})

	t.Run("Default synthesizes a valid TDD pattern", func(t *testing.T) {
		timing, err := Ns.ResolveNumerology(sc.SCSKHz)
		assertError(t, err, nil)

		pattern, err := Ns.SynthesizeTdd(Ns.TddConfig{
			PeriodicityMs:  sc.Tdd.PeriodicityMs,
			SlotDurationMs: timing.SlotDurationMs,
			DlSlots:        sc.Tdd.DlSlots,
			DlSymbols:      sc.Tdd.DlSymbols,
			UlSlots:        sc.Tdd.UlSlots,
			UlSymbols:      sc.Tdd.UlSymbols,
		})
		assertError(t, err, nil)
		assertString(t, pattern.String(), "DDDDDDDXUU")
	})
}
