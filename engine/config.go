package nrscope

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	Nt "github.com/crenna/nrscope/types"
)

// ScenarioFile is one named parameter set loaded off local disk.
// Everything the engine computes is a function of these scalars,
// so a scenario is the whole state of a view.
type ScenarioFile struct {
	ID              string   `json:"id"`
	SCSKHz          int      `json:"scs_khz"`
	NumRBs          int      `json:"num_rbs"`
	NumSymbols      int      `json:"num_symbols"`
	WithPDSCH       bool     `json:"pdsch"`
	WithPDCCH       bool     `json:"pdcch"`
	CoresetDuration int      `json:"coreset_duration"`
	WithDMRS        bool     `json:"dmrs"`
	DmrsType        string   `json:"dmrs_type"`
	DmrsSymbols     []int    `json:"dmrs_symbols"`
	Modulation      string   `json:"modulation"`
	CodeRate        float64  `json:"code_rate"`
	MimoLayers      int      `json:"mimo_layers"`
	Tdd             *TddFile `json:"tdd,omitempty"`
}

// TddFile is the TDD stanza of a scenario.
// Slot duration is derived from the scenario numerology, not configured.
type TddFile struct {
	PeriodicityMs float64 `json:"periodicity_ms"`
	DlSlots       int     `json:"dl_slots"`
	DlSymbols     int     `json:"dl_symbols"`
	UlSlots       int     `json:"ul_slots"`
	UlSymbols     int     `json:"ul_symbols"`
}

// DmrsTypeFromName maps the config string to the typed constant.
func DmrsTypeFromName(name string) (Nt.DmrsType, error) {
	switch name {
	case "Type1", "":
		return Nt.DmrsType1, nil
	case "Type2":
		return Nt.DmrsType2, nil
	}
	return 0, errors.New("dmrs_type must be Type1 or Type2")
}

// LoadScenarioFileName pulls a given filename config off local disk
// Validation is performed on the file before opening
func LoadScenarioFileName(filename string) ([]ScenarioFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// validation
	err = validateLoad(file)
	if err != nil {
		slog.Error("Validation failed", slog.Any("Error", err))
		return nil, err
	}

	return LoadScenarios(file)
}

func validateLoad(file *os.File) error {
	// validate file
	info, err := file.Stat()
	if err != nil {
		slog.Error("could not stat file")
		return err
	}

	// validate size
	if info.Size() == 0 {
		slog.Error("file is empty")
		return errors.New("file is empty")
	}

	return nil
}

func LoadScenarios(file *os.File) ([]ScenarioFile, error) {
	// open file
	cf, err := os.Open(file.Name())
	if err != nil {
		slog.Error("could not open file")
		return nil, err
	}
	defer cf.Close()

	// decode json
	var config []ScenarioFile
	decoder := json.NewDecoder(cf)
	if err := decoder.Decode(&config); err != nil {
		slog.Error("could not decode file")
		return nil, err
	}

	return config, nil
}

// DefaultScenario is the state a view starts in when no config file
// is present: mid-band 30 kHz, a 52-RB carrier, all layers on.
func DefaultScenario() ScenarioFile {
	return ScenarioFile{
		ID:              "default",
		SCSKHz:          30,
		NumRBs:          52,
		NumSymbols:      14,
		WithPDSCH:       true,
		WithPDCCH:       true,
		CoresetDuration: 2,
		WithDMRS:        true,
		DmrsType:        "Type1",
		DmrsSymbols:     []int{2, 11},
		Modulation:      string(Nt.ModQAM64),
		CodeRate:        0.75,
		MimoLayers:      2,
		Tdd: &TddFile{
			PeriodicityMs: 5.0,
			DlSlots:       7,
			DlSymbols:     10,
			UlSlots:       2,
			UlSymbols:     2,
		},
	}
}
