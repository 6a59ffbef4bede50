package nrscope

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	Ns "github.com/crenna/nrscope/engine"
	No "github.com/crenna/nrscope/obvy"
	Np "github.com/crenna/nrscope/plugin"
	Nt "github.com/crenna/nrscope/types"
)

const (
	screenGutter = 4
)

// ViewMode selects which panel the terminal draws.
type ViewMode int

const (
	ModeGrid     ViewMode = iota // resource grid heatmap
	ModeTdd                      // TDD pattern bar
	ModeTiming                   // numerology timing table
	ModeChannels                 // physical channel catalogue
)

// View owns the tcell screen and draws whatever the Session holds.
type View struct {
	MU       sync.Mutex        // State locks to read display selections
	Session  *Session          // Scenario state plus derived grid/timing/TDD
	Screen   tcell.Screen      // the screen itself
	Stats    *No.StatsInternal // Internal status for prometheus
	server   *http.Server      // Data and metrics server
	Mode     ViewMode          // Which panel is drawn
	SelectSC int               // Selected subcarrier with MouseClick
	SelectSy int               // Selected symbol with MouseClick
	ShowCell bool              // Display selected cell classification
	ChCursor int               // Selected row in the channel catalogue
}

// cellStyle maps a grid classification to its drawing style.
func cellStyle(kind Nt.CellKind) (rune, tcell.Style) {
	switch kind {
	case Nt.CellPDSCH:
		return '░', tcell.StyleDefault.Foreground(tcell.ColorSeaGreen)
	case Nt.CellPDCCH:
		return '▓', tcell.StyleDefault.Foreground(tcell.ColorDarkOrange)
	case Nt.CellDMRS:
		return '█', tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue)
	case Nt.CellCSIRS:
		return '▒', tcell.StyleDefault.Foreground(tcell.ColorMediumPurple)
	default:
		return '·', tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	}
}

// slotStyle maps a TDD slot label to its drawing style.
func slotStyle(label Nt.SlotLabel) tcell.Style {
	switch label {
	case Nt.SlotDownlink:
		return tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSeaGreen)
	case Nt.SlotUplink:
		return tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorDodgerBlue)
	case Nt.SlotSpecial:
		return tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorDarkOrange)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorDarkGray)
	}
}

// KindName is the display label for a classification.
func KindName(kind Nt.CellKind) string {
	switch kind {
	case Nt.CellPDSCH:
		return "PDSCH"
	case Nt.CellPDCCH:
		return "PDCCH"
	case Nt.CellDMRS:
		return "DMRS"
	case Nt.CellCSIRS:
		return "CSI-RS"
	default:
		return "Empty"
	}
}

// DrawText displays the text string at the given (x1, y1) with box size (x2, y2)
func (v *View) DrawText(x1, y1, x2, y2 int, text string) {
	row := y1
	col := x1
	style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorLightSteelBlue)
	for _, r := range text {
		v.Screen.SetContent(col, row, r, nil, style)
		col++
		if col >= x2 {
			row++
			col = x1
		}
		if row > y2 {
			break
		}
	}
}

// DrawViewBorder displays the outline of the View
func (v *View) DrawViewBorder(width, height int) {
	hvStyle := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorPink)
	v.Screen.SetContent(0, 0, tcell.RuneULCorner, nil, hvStyle)
	for i := 1; i < width; i++ {
		v.Screen.SetContent(i, 0, tcell.RuneHLine, nil, hvStyle)
	}
	v.Screen.SetContent(width, 0, tcell.RuneURCorner, nil, hvStyle)

	for i := 1; i < height; i++ {
		v.Screen.SetContent(0, i, tcell.RuneVLine, nil, hvStyle)
	}

	v.Screen.SetContent(0, height, tcell.RuneLLCorner, nil, hvStyle)

	for i := 1; i < height; i++ {
		v.Screen.SetContent(width, i, tcell.RuneVLine, nil, hvStyle)
	}

	v.Screen.SetContent(width, height, tcell.RuneLRCorner, nil, hvStyle)

	for i := 1; i < width; i++ {
		v.Screen.SetContent(i, height, tcell.RuneHLine, nil, hvStyle)
	}
}

// drawGridView renders one symbol per row, one subcarrier per column,
// clamped to the terminal width. The full grid is always computed,
// only the drawing clips.
func (v *View) drawGridView(width, height int) {
	s := v.Session
	grid := s.Grid

	title := fmt.Sprintf("GRID - %s | %d kHz (mu=%d) | %d RBs x %d symbols | %.2f Mbps",
		s.Scenario.ID, s.Timing.SCSKHz, s.Timing.Mu, grid.NumRBs, grid.NumSymbols, s.Mbps)
	v.DrawText(1, 1, width-1, 2, title)
	v.DrawText(1, 2, width-1, 3, "s=SCS | +/-=RBs | d=DMRS type | m=DMRS | o=CORESET | p=PDCCH | click a cell")

	maxCols := width - 2 - screenGutter
	for sym := range grid.Cells {
		y := screenGutter + sym
		if y >= height-3 {
			break
		}
		v.DrawText(1, y, screenGutter, y+1, fmt.Sprintf("%2d", sym))
		for sc, kind := range grid.Cells[sym] {
			if sc >= maxCols {
				break
			}
			r, style := cellStyle(kind)
			v.Screen.SetContent(1+screenGutter+sc, y, r, nil, style)
		}
	}

	stats := s.Stats
	census := fmt.Sprintf("PDSCH %d (%.2f%%) | PDCCH %d (%.2f%%) | DMRS %d (%.2f%%) | Empty %d (%.2f%%) | Total %d",
		stats.Count[Nt.CellPDSCH], stats.Pct[Nt.CellPDSCH],
		stats.Count[Nt.CellPDCCH], stats.Pct[Nt.CellPDCCH],
		stats.Count[Nt.CellDMRS], stats.Pct[Nt.CellDMRS],
		stats.Count[Nt.CellEmpty], stats.Pct[Nt.CellEmpty],
		stats.Total)
	v.DrawText(1, height-2, width-1, height-1, census)

	if v.ShowCell {
		sym, sc := v.SelectSy, v.SelectSC
		if sym < len(grid.Cells) && sc < len(grid.Cells[sym]) {
			kind := grid.Cells[sym][sc]
			label := fmt.Sprintf("... symbol %d, subcarrier %d (RB %d): %s ...",
				sym, sc, sc/Ns.SubcarriersPerRB, KindName(kind))
			v.DrawText(1, height-3, width-1, height-2, label)
		}
	}
}

// drawTddView renders the slot sequence as a colored bar with the
// partial-slot split and the symbol shares underneath.
func (v *View) drawTddView(width, height int) {
	s := v.Session

	if s.Tdd == nil {
		v.DrawText(1, 1, width-1, 2, "TDD - no pattern configured for this scenario")
		return
	}

	tdd := s.Tdd
	v.DrawText(1, 1, width-1, 2, fmt.Sprintf("TDD - %s | period %v ms | slot %v ms",
		s.Scenario.ID, s.Scenario.Tdd.PeriodicityMs, s.Timing.SlotDurationMs))

	// Each slot is a three-wide colored block
	x := 1 + screenGutter
	for _, slot := range tdd.Slots {
		if x+3 >= width-1 {
			break
		}
		style := slotStyle(slot.Label)
		for i := 0; i < 3; i++ {
			r := ' '
			if i == 1 {
				r = rune(slot.Label)
			}
			v.Screen.SetContent(x+i, screenGutter, r, nil, style)
		}
		x += 4
	}

	v.DrawText(1, screenGutter+2, width-1, screenGutter+3,
		fmt.Sprintf("Pattern: %s", tdd.String()))

	for _, slot := range tdd.Slots {
		if slot.Label == Nt.SlotSpecial {
			v.DrawText(1, screenGutter+3, width-1, screenGutter+4,
				fmt.Sprintf("Special slot: %s (guard = 14 - DL - UL symbols)", slot.Detail()))
			break
		}
	}

	v.DrawText(1, screenGutter+5, width-1, screenGutter+6,
		fmt.Sprintf("DL %d sym (%.2f%%) | UL %d sym (%.2f%%) | Guard+Flex %d sym (%.2f%%) | Total %d",
			tdd.DlSymbols, tdd.DlPct(),
			tdd.UlSymbols, tdd.UlPct(),
			tdd.GuardSymbols, tdd.GuardPct(),
			tdd.TotalSymbols))
}

// drawTimingView renders the numerology constants as a table.
func (v *View) drawTimingView(width, height int) {
	s := v.Session
	t := s.Timing
	st := t.SymbolTiming()

	v.DrawText(1, 1, width-1, 2, fmt.Sprintf("TIMING - %s", s.Scenario.ID))

	lines := []string{
		fmt.Sprintf("Numerology (mu)     : %d", t.Mu),
		fmt.Sprintf("Subcarrier spacing  : %d kHz", t.SCSKHz),
		fmt.Sprintf("Slot duration       : %v ms", t.SlotDurationMs),
		fmt.Sprintf("Slots per subframe  : %d", t.SlotsPerSubframe),
		fmt.Sprintf("Slots per frame     : %d", t.SlotsPerFrame),
		fmt.Sprintf("Symbols per slot    : %d", t.SymbolsPerSlot),
		fmt.Sprintf("Slots per second    : %v", t.SlotsPerSecond()),
		fmt.Sprintf("Symbol duration     : %.3f us", st.SymbolDurationUs),
		fmt.Sprintf("CP (first symbol)   : %.3f us", st.CPFirstUs),
		fmt.Sprintf("CP (other symbols)  : %.3f us", st.CPOtherUs),
		fmt.Sprintf("Useful symbol       : %.3f us", st.UsefulUs),
	}
	for i, line := range lines {
		y := screenGutter + i
		if y >= height-2 {
			break
		}
		v.DrawText(1, y, width-1, y+1, line)
	}
}

// drawChannelsView renders the catalogue list with a cursor and the
// selected channel's detail plus its per-symbol allocation profile.
func (v *View) drawChannelsView(width, height int) {
	channels := Ns.Channels()

	v.DrawText(1, 1, width-1, 2, "CHANNELS - physical channel catalogue")
	v.DrawText(1, 2, width-1, 3, "j/k or arrows to select")

	cursor := v.ChCursor
	if cursor >= len(channels) {
		cursor = len(channels) - 1
	}

	for i, ch := range channels {
		y := screenGutter + i
		marker := "  "
		if i == cursor {
			marker = "> "
		}
		dir := "DL"
		if ch.Direction == Nt.Uplink {
			dir = "UL"
		}
		v.DrawText(1, y, width-1, y+1, fmt.Sprintf("%s%-6s [%s] %s", marker, ch.Name, dir, ch.FullName))
	}

	detailY := screenGutter + len(channels) + 1
	ch := channels[cursor]
	lines := []string{
		fmt.Sprintf("Purpose    : %s", ch.Purpose),
		fmt.Sprintf("Transport  : %s", ch.Transport),
		fmt.Sprintf("Modulation : %s", ch.Modulation),
		fmt.Sprintf("Coding     : %s", ch.Coding),
		fmt.Sprintf("Scheduling : %s", ch.Scheduling),
		fmt.Sprintf("Symbols    : %s", ch.Symbols),
	}
	for i, line := range lines {
		y := detailY + i
		if y >= height-3 {
			break
		}
		v.DrawText(1, y, width-1, y+1, line)
	}

	// Per-symbol slot allocation as a bar row
	barY := detailY + len(lines) + 1
	if barY < height-1 {
		v.DrawText(1, barY, screenGutter+1, barY+1, "Slot")
		for i, frac := range ch.Profile {
			r := '·'
			switch {
			case frac >= 0.9:
				r = '█'
			case frac > 0:
				r = '▄'
			}
			style := tcell.StyleDefault.Foreground(tcell.ColorSeaGreen)
			if ch.Direction == Nt.Uplink {
				style = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue)
			}
			v.Screen.SetContent(1+screenGutter+i*2, barY, r, nil, style)
		}
	}
}

// DrawFrameView draws the active panel inside the border.
func (v *View) DrawFrameView() {
	width, height := v.GetScreenSize()

	v.Session.MU.RLock()
	defer v.Session.MU.RUnlock()

	v.MU.Lock()
	mode := v.Mode
	v.MU.Unlock()

	v.DrawViewBorder(width-2, height-1)

	switch mode {
	case ModeTdd:
		v.drawTddView(width-2, height-1)
	case ModeTiming:
		v.drawTimingView(width-2, height-1)
	case ModeChannels:
		v.drawChannelsView(width-2, height-1)
	default:
		v.drawGridView(width-2, height-1)
	}

	v.DrawText(1, height-1, width, height+10, "/g/t/i/c/ views | /ESC/ to quit")
	v.DrawText(width-10, height-1, width, height+10, "NRSCOPE")
}

// Exit cleanly
func (v *View) exit() {
	v.MU.Lock()
	defer v.MU.Unlock()
	v.Screen.Fini()
	os.Exit(0)
}

// recompute wraps a scenario mutation with prometheus timing.
func (v *View) recompute(fn func()) {
	start := time.Now()
	fn()
	duration := time.Since(start).Seconds()
	v.Stats.RecRecompute()
	v.Stats.RecCompTimer(duration)
}

// Running Loop to handle events
func (v *View) handleKeyBoardEvent() {
	for {
		ev := v.Screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.ResizeScreen()
		case *tcell.EventKey:
			// Catch quit and exit
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				v.exit()
			}

			switch ev.Rune() {
			// View modes
			case 'g':
				v.MU.Lock()
				v.Mode = ModeGrid
				v.MU.Unlock()
			case 't':
				v.MU.Lock()
				v.Mode = ModeTdd
				v.MU.Unlock()
			case 'i':
				v.MU.Lock()
				v.Mode = ModeTiming
				v.MU.Unlock()
			case 'c':
				v.MU.Lock()
				v.Mode = ModeChannels
				v.MU.Unlock()

			// Scenario parameters, each one triggers a recompute
			case 's':
				v.recompute(v.Session.CycleSCS)
			case '+', '=':
				v.recompute(func() { v.Session.AdjustRBs(1) })
			case '-', '_':
				v.recompute(func() { v.Session.AdjustRBs(-1) })
			case 'd':
				v.recompute(v.Session.CycleDmrsType)
			case 'm':
				v.recompute(v.Session.ToggleDMRS)
			case 'o':
				v.recompute(v.Session.CycleCoreset)
			case 'p':
				v.recompute(v.Session.TogglePDCCH)

			// Channel catalogue cursor
			case 'j':
				v.moveChannelCursor(1)
			case 'k':
				v.moveChannelCursor(-1)
			}

			switch ev.Key() {
			case tcell.KeyDown:
				v.moveChannelCursor(1)
			case tcell.KeyUp:
				v.moveChannelCursor(-1)
			}

			v.UpdateScreen()

		case *tcell.EventMouse:
			// Button1 is Left Mouse Button
			if ev.Buttons() == tcell.Button1 {
				v.HandleMouseClick(ev.Position())
				v.UpdateScreen()
			}
		}
	}
}

func (v *View) moveChannelCursor(delta int) {
	v.MU.Lock()
	defer v.MU.Unlock()

	n := len(Ns.Channels())
	v.ChCursor += delta
	if v.ChCursor < 0 {
		v.ChCursor = 0
	}
	if v.ChCursor >= n {
		v.ChCursor = n - 1
	}
}

// HandleMouseClick maps a click onto a grid cell so the classification
// can be shown, using the same layout math as drawGridView.
func (v *View) HandleMouseClick(x, y int) {
	v.Session.MU.RLock()
	defer v.Session.MU.RUnlock()

	v.MU.Lock()
	defer v.MU.Unlock()

	// Assume there is no label so the last one is cleared.
	v.ShowCell = false

	if v.Mode != ModeGrid {
		return
	}

	sym := y - screenGutter
	sc := x - 1 - screenGutter
	grid := v.Session.Grid
	if sym < 0 || sym >= len(grid.Cells) {
		return
	}
	if sc < 0 || sc >= len(grid.Cells[sym]) {
		return
	}

	v.SelectSy = sym
	v.SelectSC = sc
	v.ShowCell = true
}

// GetScreenSize provides the terminal size for drawing
func (v *View) GetScreenSize() (int, int) {
	width, height := v.Screen.Size()
	return width, height
}

// ResizeScreen resizes the frame view after terminal changes
func (v *View) ResizeScreen() {
	v.Screen.Sync()
	v.UpdateScreen()
}

func (v *View) UpdateScreen() {
	v.Screen.Clear()
	v.DrawFrameView()
	v.Screen.Show()
}

// run refreshes the screen periodically so exporter writes and API
// driven scenario changes become visible without a keypress
func (v *View) run() {
	// Panic recovery and logging
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in run loop", slog.Any("panic", r))
			slog.Error("Recovered from panic", slog.String("stack", string(debug.Stack())))
			debug.PrintStack()
		}
	}()

	slog.Info("Starting frame view")
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		v.UpdateScreen()
	}
}

// RespWriter is a wrapper with StatsMiddleware, used for Prometheus
type RespWriter struct {
	http.ResponseWriter
	Status int
}

// WriteHeader is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

// Write is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) Write(b []byte) (int, error) {
	return w.ResponseWriter.Write(b)
}

func (v *View) StatsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &RespWriter{
			ResponseWriter: w,
			Status:         200,
		}
		next.ServeHTTP(wrapped, r)

		v.Stats.RecWWW(strconv.Itoa(wrapped.Status), r.Method)
	})
}

// NewView creates the tcell screen that displays the frame view
func NewView(s *Session) (*View, error) {
	if s == nil {
		slog.Error("Could not get a Session for display")
		return nil, errors.New("session not found")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		slog.Error("Could not get new screen", slog.Any("Error", err))
		return nil, err
	}
	if err := screen.Init(); err != nil {
		slog.Error("Could not initialize screen", slog.Any("Error", err))
		return nil, err
	}

	// Define and configure the default screen
	defStyle := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorPink)
	screen.SetStyle(defStyle)
	screen.EnableMouse()

	// create an attached prometheus registry
	stats := No.NewStatsInternal()

	view := &View{
		Session: s,
		Screen:  screen,
		Stats:   stats,
	}

	view.UpdateScreen()

	return view, err
}

// serverAddr resolves the listen address, defaulting to :8090
func serverAddr() string {
	addr := Ns.FillEnvVar("NRSCOPE_ADDR")
	if addr == "ENOENT" {
		addr = ":8090"
	}
	return addr
}

// StartFrameView is called by main to run the program.
// This also starts up the /metrics endpoint that is populated by prometheus.
func StartFrameView(c []Ns.ScenarioFile, output Np.SnapshotExporter) error {
	session, err := sessionFromScenarios(c, output)
	if err != nil {
		slog.Error("Failed to init session", slog.Any("Error", err))
		return err
	}

	view, err := NewView(session)
	if err != nil {
		slog.Error("Could not start frame view", slog.Any("Error", err))
		return err
	}

	// Server for data and stats endpoints
	addr := serverAddr()
	view.server = &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(view.SetupMux(), "nrscope-data"),
	}

	// Run NRscope
	go view.run()

	// Run stats endpoint
	go func() {
		slog.Info("Starting NRscope data endpoint...", slog.String("Port", addr))
		if err := view.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not start data endpoint", slog.Any("Error", err))
		}
	}()

	view.handleKeyBoardEvent()

	return err
}

// StartWebNoTUI serves the data endpoints without a terminal screen,
// for headless use behind the D3 frontend.
func StartWebNoTUI(c []Ns.ScenarioFile, output Np.SnapshotExporter) error {
	session, err := sessionFromScenarios(c, output)
	if err != nil {
		slog.Error("Failed to init session", slog.Any("Error", err))
		return err
	}

	// Create View without tcell screen
	stats := No.NewStatsInternal()
	view := &View{
		Session: session,
		Stats:   stats,
	}

	addr := serverAddr()
	view.server = &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(view.SetupMux(), "nrscope-data"),
	}

	// Run stats endpoint (blocks)
	slog.Info("Starting NRscope web server...", slog.String("Port", addr))
	if err := view.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Could not start data endpoint", slog.Any("Error", err))
		return err
	}

	return nil
}

// sessionFromScenarios builds the session from the first configured
// scenario, falling back to the built-in default.
func sessionFromScenarios(c []Ns.ScenarioFile, output Np.SnapshotExporter) (*Session, error) {
	sc := Ns.DefaultScenario()
	if len(c) > 0 {
		sc = c[0]
	}

	session := &Session{Scenario: sc, Output: output}
	if err := session.Recompute(); err != nil {
		return nil, err
	}
	return session, nil
}
