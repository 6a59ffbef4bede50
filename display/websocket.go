package nrscope

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	Nt "github.com/crenna/nrscope/types"
)

// SnapshotD3 is the frame pushed to the D3 frontend: the exportable
// snapshot plus the percentage census the stacked bar draws.
type SnapshotD3 struct {
	Nt.Snapshot
	PdschPct float64 `json:"pdschPct"`
	PdcchPct float64 `json:"pdcchPct"`
	DmrsPct  float64 `json:"dmrsPct"`
	EmptyPct float64 `json:"emptyPct"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (v *View) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Send snapshot data periodically
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		frame := v.GetSnapshotD3()
		if err := conn.WriteJSON(frame); err != nil {
			return // Connection closed
		}
		v.Stats.RecWSFrame()
	}
}

// GetSnapshotD3 assembles one websocket frame from the session.
func (v *View) GetSnapshotD3() SnapshotD3 {
	v.Session.MU.RLock()
	defer v.Session.MU.RUnlock()

	pct := v.Session.Stats.Pct

	return SnapshotD3{
		Snapshot: v.Session.snapshotLocked(),
		PdschPct: pct[Nt.CellPDSCH],
		PdcchPct: pct[Nt.CellPDCCH],
		DmrsPct:  pct[Nt.CellDMRS],
		EmptyPct: pct[Nt.CellEmpty],
	}
}
