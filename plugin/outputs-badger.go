package plugin

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"log/slog"
	"sync"
	"time"

	Nt "github.com/crenna/nrscope/types"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

type BadgerOutput struct {
	MU        sync.Mutex
	DB        *badger.DB
	BatchSize int
	Buffer    []*Nt.Snapshot
}

func NewBadgerOutput(path string, batchSize int) (*BadgerOutput, error) {
	opts := badger.DefaultOptions(path).
		WithCompression(options.ZSTD).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		slog.Error("BadgerOutput failed to open database", slog.Any("error", err))
		return nil, fmt.Errorf("database error: %w", err)
	}

	slog.Info("BadgerOutput opened",
		slog.String("path", path),
		slog.Int("batchSize", batchSize))

	return &BadgerOutput{
		DB:        db,
		BatchSize: batchSize,
		Buffer:    make([]*Nt.Snapshot, 0, batchSize),
	}, nil
}

// WriteSnapshot queues up a batch of snapshots,
// when batchsize is reached, it calls Flush()
// which calls WriteBatch() with the new batch
func (bo *BadgerOutput) WriteSnapshot(snap *Nt.Snapshot) error {
	bo.MU.Lock()
	defer bo.MU.Unlock()

	bo.Buffer = append(bo.Buffer, snap)
	if len(bo.Buffer) >= bo.BatchSize {
		return bo.flushLocked() // private Flush that does not lock
	}
	return nil
}

// WriteBatch performs the key/value creation to be stored
// and actually calls BadgerDB to write the data
func (bo *BadgerOutput) WriteBatch(snaps []*Nt.Snapshot) error {
	wb := bo.DB.NewWriteBatch()
	defer wb.Cancel()

	for _, s := range snaps {
		k := SnapshotKey(s)
		v := SnapshotEncode(s)
		if err := wb.Set(k, v); err != nil {
			slog.Error("BadgerOutput failed to set key in batch",
				slog.Any("error", err),
				slog.Time("snapTime", s.Timestamp),
				slog.String("scenario", s.ScenarioID))
			return fmt.Errorf("write batch error: %w", err)
		}
	}

	if err := wb.Flush(); err != nil {
		slog.Error("BadgerOutput failed to flush batch", slog.Any("error", err))
		return fmt.Errorf("batch flush error: %w", err)
	}

	return nil
}

// Flush is the public method that blocks,
// it sends data to WriteBatch and then clears the buffer
func (bo *BadgerOutput) Flush() error {
	bo.MU.Lock()
	defer bo.MU.Unlock()

	if len(bo.Buffer) == 0 {
		return nil
	}

	err := bo.WriteBatch(bo.Buffer) // Delegate to WriteBatch
	bo.Buffer = bo.Buffer[:0]       // Clear but keep capacity
	return err
}

// flushLocked mimics Flush without locking, called by WriteSnapshot
func (bo *BadgerOutput) flushLocked() error {
	err := bo.WriteBatch(bo.Buffer) // Delegate to WriteBatch
	bo.Buffer = bo.Buffer[:0]       // Clear but keep capacity
	return err
}

// Close returns a Flush error but still attempts to close
func (bo *BadgerOutput) Close() error {
	slog.Info("BadgerOutput closing, flushing buffer",
		slog.Int("bufferSize", len(bo.Buffer)))
	flushErr := bo.Flush()
	closeErr := bo.DB.Close()

	if flushErr != nil {
		slog.Error("BadgerOutput failed to flush on close", slog.Any("error", flushErr))
		return fmt.Errorf("flush failed, close may have failed: %v", flushErr)
	}

	if closeErr != nil {
		slog.Error("BadgerOutput failed to close database", slog.Any("error", closeErr))
		return fmt.Errorf("close failed: %v", closeErr)
	}

	slog.Info("BadgerOutput closed successfully")
	return nil
}

func (bo *BadgerOutput) Type() string { return "BadgerDB" }

// SnapshotKey creates a composite key
// timestamp + first eight letters of the scenario ID
func SnapshotKey(snap *Nt.Snapshot) []byte {
	key := make([]byte, 8+8)

	// Using positive BigEndian integer to convert timestamp
	// so keys can be sorted chronologically by BadgerDB
	binary.BigEndian.PutUint64(key[0:8], uint64(snap.Timestamp.UnixNano()))

	// Keep scenario ID at eight chars
	sBytes := []byte(snap.ScenarioID)
	n := len(sBytes)
	if n > 8 {
		n = 8
	}
	copy(key[8:8+n], sBytes[:n])

	return key
}

// SnapshotEncode serializes the snapshot struct for data storage
func SnapshotEncode(s *Nt.Snapshot) []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	enc.Encode(s)
	return buf.Bytes()
}

// SnapshotDecode deserializes the snapshot data
func SnapshotDecode(data []byte) (*Nt.Snapshot, error) {
	var s Nt.Snapshot
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	err := dec.Decode(&s)
	return &s, err
}

// QueryRange retrieves snapshots within a time range
func (bo *BadgerOutput) QueryRange(start, end time.Time) ([]*Nt.Snapshot, error) {
	var snaps []*Nt.Snapshot

	// db.View() callback
	// BadgerDB provides a transaction in which to get item.Value()
	err := bo.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			// item.Value() callback
			// BadgerDB passes bytes to the anon func
			err := item.Value(func(val []byte) error {
				snap, err := SnapshotDecode(val)
				if err != nil {
					slog.Error("BadgerOutput failed to decode snapshot", slog.Any("error", err))
					return fmt.Errorf("snapshot decode error: %w", err)
				}

				// Filter by time range
				if snap.Timestamp.After(start) && snap.Timestamp.Before(end) {
					snaps = append(snaps, snap)
				}

				return nil
			})
			if err != nil {
				slog.Error("BadgerOutput callback failure", slog.Any("error", err))
				return fmt.Errorf("item data error: %w", err)
			}
		}
		return nil
	})

	slog.Info("BadgerOutput QueryRange successful", slog.Int("count", len(snaps)))

	return snaps, err
}
