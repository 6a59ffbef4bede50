package plugin

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	Nt "github.com/crenna/nrscope/types"
)

// FileOutput appends snapshots to a JSON-lines file.
// It is the cheap exporter for piping view history into jq or a chart.
type FileOutput struct {
	MU   sync.Mutex
	File *os.File
	W    *bufio.Writer
}

func NewFileOutput(path string) (*FileOutput, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Error("FileOutput failed to open file", slog.Any("error", err))
		return nil, fmt.Errorf("file error: %w", err)
	}

	slog.Info("FileOutput opened", slog.String("path", path))

	return &FileOutput{
		File: f,
		W:    bufio.NewWriter(f),
	}, nil
}

func (fo *FileOutput) WriteSnapshot(snap *Nt.Snapshot) error {
	fo.MU.Lock()
	defer fo.MU.Unlock()
	return fo.writeLocked(snap)
}

func (fo *FileOutput) WriteBatch(snaps []*Nt.Snapshot) error {
	fo.MU.Lock()
	defer fo.MU.Unlock()

	for _, s := range snaps {
		if err := fo.writeLocked(s); err != nil {
			return err
		}
	}
	return nil
}

func (fo *FileOutput) writeLocked(snap *Nt.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		slog.Error("FileOutput failed to marshal snapshot", slog.Any("error", err))
		return fmt.Errorf("marshal error: %w", err)
	}
	if _, err := fo.W.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// QueryRange re-reads the file and filters by snapshot timestamp.
func (fo *FileOutput) QueryRange(start, end time.Time) ([]*Nt.Snapshot, error) {
	fo.MU.Lock()
	defer fo.MU.Unlock()

	if err := fo.W.Flush(); err != nil {
		return nil, fmt.Errorf("flush error: %w", err)
	}

	rf, err := os.Open(fo.File.Name())
	if err != nil {
		return nil, fmt.Errorf("file error: %w", err)
	}
	defer rf.Close()

	var snaps []*Nt.Snapshot
	scanner := bufio.NewScanner(rf)
	for scanner.Scan() {
		var s Nt.Snapshot
		if err := json.Unmarshal(scanner.Bytes(), &s); err != nil {
			slog.Error("FileOutput failed to decode snapshot", slog.Any("error", err))
			return nil, fmt.Errorf("snapshot decode error: %w", err)
		}
		if s.Timestamp.After(start) && s.Timestamp.Before(end) {
			snaps = append(snaps, &s)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}

	return snaps, nil
}

func (fo *FileOutput) Flush() error {
	fo.MU.Lock()
	defer fo.MU.Unlock()
	return fo.W.Flush()
}

func (fo *FileOutput) Close() error {
	flushErr := fo.Flush()
	closeErr := fo.File.Close()

	if flushErr != nil {
		return fmt.Errorf("flush failed, close may have failed: %v", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close failed: %v", closeErr)
	}
	return nil
}

func (fo *FileOutput) Type() string { return "JSONLines" }
