package plugin

/*

	The Adapter sits aside /nrscope/
	Contains core interfaces for Exporters

*/

import (
	"time"

	Nt "github.com/crenna/nrscope/types"
)

// SnapshotExporter defines a place for computed view states to go,
// snapshot-by-snapshot or in batches if supported by the output type.
type SnapshotExporter interface {
	WriteSnapshot(snap *Nt.Snapshot) error                   // Write singleton snapshot data
	WriteBatch(snaps []*Nt.Snapshot) error                   // Write batches of snapshots
	QueryRange(start, end time.Time) ([]*Nt.Snapshot, error) // Time range query tool
	Flush() error                                            // Flush any buffered data
	Close() error                                            // Close the exporter and release resources
	Type() string                                            // ID for output
}
