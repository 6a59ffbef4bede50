package nrscope

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	Ns "github.com/crenna/nrscope/engine"
	Nt "github.com/crenna/nrscope/types"
)

// SetupMux handles all data serving:
//   - Prometheus metric endpoint
//   - Websocket specialized for D3.js UI
//   - Version for programmatic use
//   - Grid, timing, TDD, throughput, channel and reference-signal data
//     for UI feedback
func (v *View) SetupMux() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", v.Stats.Handler())
	r.HandleFunc("/ws", v.WebsocketHandler)

	// API routes register on the subrouter so the stats middleware
	// wraps every one of them
	api := r.PathPrefix("/api").Subrouter()
	api.Use(v.StatsMiddleware)
	api.HandleFunc("/version", v.VersionHandler)
	api.HandleFunc("/scenario", v.ScenarioHandler).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/timing", v.TimingHandler)
	api.HandleFunc("/grid", v.GridHandler)
	api.HandleFunc("/tdd", v.TddHandler)
	api.HandleFunc("/throughput", v.ThroughputHandler)
	api.HandleFunc("/channels", v.ChannelsHandler)
	api.HandleFunc("/ssb", v.SsbHandler)
	api.HandleFunc("/csirs", v.CsiRsHandler)

	// Static files for D3 frontend
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./web/")))

	return r
}

var Version = "dev"

func (v *View) VersionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"version": Version})
}

// ScenarioHandler reads or replaces the active scenario.
// A POST with a bad scenario leaves the current one untouched.
func (v *View) ScenarioHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var sc Ns.ScenarioFile
		if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := v.Session.Apply(sc); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		v.Stats.RecRecompute()
	}

	v.Session.MU.RLock()
	defer v.Session.MU.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v.Session.Scenario)
}

func (v *View) TimingHandler(w http.ResponseWriter, r *http.Request) {
	v.Session.MU.RLock()
	defer v.Session.MU.RUnlock()

	type TimingData struct {
		Mu               int       `json:"mu"`
		SCSKHz           int       `json:"scsKHz"`
		SlotDurationMs   float64   `json:"slotDurationMs"`
		SlotsPerSubframe int       `json:"slotsPerSubframe"`
		SlotsPerFrame    int       `json:"slotsPerFrame"`
		SymbolsPerSlot   int       `json:"symbolsPerSlot"`
		SlotsPerSecond   float64   `json:"slotsPerSecond"`
		SymbolDurationUs float64   `json:"symbolDurationUs"`
		CPFirstUs        float64   `json:"cpFirstUs"`
		CPOtherUs        float64   `json:"cpOtherUs"`
		UsefulUs         float64   `json:"usefulUs"`
		SlotEdgesMs      []float64 `json:"slotEdgesMs"`
	}

	t := v.Session.Timing
	st := t.SymbolTiming()
	layout := t.FrameLayout()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TimingData{
		Mu:               t.Mu,
		SCSKHz:           t.SCSKHz,
		SlotDurationMs:   t.SlotDurationMs,
		SlotsPerSubframe: t.SlotsPerSubframe,
		SlotsPerFrame:    t.SlotsPerFrame,
		SymbolsPerSlot:   t.SymbolsPerSlot,
		SlotsPerSecond:   t.SlotsPerSecond(),
		SymbolDurationUs: st.SymbolDurationUs,
		CPFirstUs:        st.CPFirstUs,
		CPOtherUs:        st.CPOtherUs,
		UsefulUs:         st.UsefulUs,
		SlotEdgesMs:      layout.SlotEdgesMs,
	})
}

// GridHandler serves the classified cells plus the census,
// enough for the D3 heatmap to draw without further calls.
func (v *View) GridHandler(w http.ResponseWriter, r *http.Request) {
	v.Session.MU.RLock()
	defer v.Session.MU.RUnlock()

	type GridData struct {
		NumRBs     int                     `json:"numRBs"`
		NumSymbols int                     `json:"numSymbols"`
		Cells      [][]Nt.CellKind         `json:"cells"`
		Total      int                     `json:"total"`
		Count      map[Nt.CellKind]int     `json:"count"`
		Pct        map[Nt.CellKind]float64 `json:"pct"`
	}

	grid := v.Session.Grid
	stats := v.Session.Stats

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GridData{
		NumRBs:     grid.NumRBs,
		NumSymbols: grid.NumSymbols,
		Cells:      grid.Cells,
		Total:      stats.Total,
		Count:      stats.Count,
		Pct:        stats.Pct,
	})
}

func (v *View) TddHandler(w http.ResponseWriter, r *http.Request) {
	v.Session.MU.RLock()
	defer v.Session.MU.RUnlock()

	tdd := v.Session.Tdd
	if tdd == nil {
		http.Error(w, "no TDD pattern configured", http.StatusNotFound)
		return
	}

	type SlotData struct {
		Label  string `json:"label"`
		Detail string `json:"detail"`
	}
	type TddData struct {
		Pattern      string     `json:"pattern"`
		Slots        []SlotData `json:"slots"`
		DlSymbols    int        `json:"dlSymbols"`
		UlSymbols    int        `json:"ulSymbols"`
		GuardSymbols int        `json:"guardSymbols"`
		TotalSymbols int        `json:"totalSymbols"`
		DlPct        float64    `json:"dlPct"`
		UlPct        float64    `json:"ulPct"`
		GuardPct     float64    `json:"guardPct"`
	}

	slots := make([]SlotData, len(tdd.Slots))
	for i, s := range tdd.Slots {
		slots[i] = SlotData{
			Label:  string(s.Label),
			Detail: s.Detail(),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TddData{
		Pattern:      tdd.String(),
		Slots:        slots,
		DlSymbols:    tdd.DlSymbols,
		UlSymbols:    tdd.UlSymbols,
		GuardSymbols: tdd.GuardSymbols,
		TotalSymbols: tdd.TotalSymbols,
		DlPct:        tdd.DlPct(),
		UlPct:        tdd.UlPct(),
		GuardPct:     tdd.GuardPct(),
	})
}

func (v *View) ThroughputHandler(w http.ResponseWriter, r *http.Request) {
	v.Session.MU.RLock()
	defer v.Session.MU.RUnlock()

	type ThroughputData struct {
		Mbps           float64 `json:"mbps"`
		PdschREs       int     `json:"pdschREs"`
		Modulation     string  `json:"modulation"`
		CodeRate       float64 `json:"codeRate"`
		MimoLayers     int     `json:"mimoLayers"`
		SlotsPerSecond float64 `json:"slotsPerSecond"`
	}

	s := v.Session
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ThroughputData{
		Mbps:           s.Mbps,
		PdschREs:       s.Grid.PdschREs(),
		Modulation:     s.Scenario.Modulation,
		CodeRate:       s.Scenario.CodeRate,
		MimoLayers:     s.Scenario.MimoLayers,
		SlotsPerSecond: s.Timing.SlotsPerSecond(),
	})
}

func (v *View) ChannelsHandler(w http.ResponseWriter, r *http.Request) {
	type ChannelData struct {
		Name       string      `json:"name"`
		FullName   string      `json:"fullName"`
		Purpose    string      `json:"purpose"`
		Transport  string      `json:"transport"`
		Modulation string      `json:"modulation"`
		Coding     string      `json:"coding"`
		Scheduling string      `json:"scheduling"`
		Symbols    string      `json:"symbols"`
		Direction  string      `json:"direction"`
		Profile    [14]float64 `json:"profile"`
	}

	channels := Ns.Channels()
	out := make([]ChannelData, len(channels))
	for i, ch := range channels {
		dir := "DL"
		if ch.Direction == Nt.Uplink {
			dir = "UL"
		}
		out[i] = ChannelData{
			Name:       ch.Name,
			FullName:   ch.FullName,
			Purpose:    ch.Purpose,
			Transport:  ch.Transport,
			Modulation: ch.Modulation,
			Coding:     ch.Coding,
			Scheduling: ch.Scheduling,
			Symbols:    ch.Symbols,
			Direction:  dir,
			Profile:    ch.Profile,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// SsbHandler serves the fixed SS/PBCH block layout for the
// reference-signal view.
func (v *View) SsbHandler(w http.ResponseWriter, r *http.Request) {
	grid := Ns.SsbGrid()

	type SsbData struct {
		Symbols     int                 `json:"symbols"`
		Subcarriers int                 `json:"subcarriers"`
		Cells       [][]Nt.SsbField     `json:"cells"`
		Count       map[Nt.SsbField]int `json:"count"`
	}

	count := make(map[Nt.SsbField]int)
	for sym := range grid {
		for _, field := range grid[sym] {
			count[field]++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SsbData{
		Symbols:     Ns.SsbSymbols,
		Subcarriers: Ns.SsbSubcarriers,
		Cells:       grid,
		Count:       count,
	})
}

// CsiRsHandler serves a CSI-RS mask over the active grid dimensions.
// The symbol list comes from the "symbols" query parameter as a comma
// separated list, defaulting to symbol 5.
func (v *View) CsiRsHandler(w http.ResponseWriter, r *http.Request) {
	symbols := []int{5}
	if raw := r.URL.Query().Get("symbols"); raw != "" {
		symbols = symbols[:0]
		for _, part := range strings.Split(raw, ",") {
			sym, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				http.Error(w, "symbols must be a comma separated list of integers", http.StatusBadRequest)
				return
			}
			symbols = append(symbols, sym)
		}
	}

	v.Session.MU.RLock()
	defer v.Session.MU.RUnlock()

	grid := v.Session.Grid
	mask, err := Ns.CsiRsMask(grid.NumRBs, grid.NumSymbols, symbols)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	marked := 0
	for sym := range mask {
		for _, set := range mask[sym] {
			if set {
				marked++
			}
		}
	}

	type CsiRsData struct {
		NumRBs     int      `json:"numRBs"`
		NumSymbols int      `json:"numSymbols"`
		Symbols    []int    `json:"symbols"`
		Mask       [][]bool `json:"mask"`
		Marked     int      `json:"marked"`
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CsiRsData{
		NumRBs:     grid.NumRBs,
		NumSymbols: grid.NumSymbols,
		Symbols:    symbols,
		Mask:       mask,
		Marked:     marked,
	})
}
