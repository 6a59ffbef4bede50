package plugin_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	Np "github.com/crenna/nrscope/plugin"
	Nt "github.com/crenna/nrscope/types"
)

// makeSnapshot builds a snapshot with a distinct timestamp and ID
func makeSnapshot(id string, ts time.Time) *Nt.Snapshot {
	return &Nt.Snapshot{
		Timestamp:  ts,
		ScenarioID: id,
		SCSKHz:     30,
		NumRBs:     52,
		NumSymbols: 14,
		TotalREs:   8736,
		PdschREs:   7368,
		PdcchREs:   1248,
		DmrsREs:    120,
		TddPattern: "DDDDDDDXUU",
		Mbps:       44.21,
	}
}

func TestBadgerOutput(t *testing.T) {
	t.Run("Snapshots survive a write and range query", func(t *testing.T) {
		bo, err := Np.NewBadgerOutput(t.TempDir(), 4)
		assertError(t, err, nil)
		defer bo.Close()

		base := time.Now()
		for i := 0; i < 6; i++ {
			snap := makeSnapshot("midband", base.Add(time.Duration(i)*time.Second))
			assertError(t, bo.WriteSnapshot(snap), nil)
		}
		assertError(t, bo.Flush(), nil)

		snaps, err := bo.QueryRange(base.Add(-time.Second), base.Add(10*time.Second))
		assertError(t, err, nil)
		assertInt(t, len(snaps), 6)
		assertString(t, snaps[0].ScenarioID, "midband")
		assertString(t, snaps[0].TddPattern, "DDDDDDDXUU")
	})

	t.Run("Range query filters by timestamp", func(t *testing.T) {
		bo, err := Np.NewBadgerOutput(t.TempDir(), 2)
		assertError(t, err, nil)
		defer bo.Close()

		base := time.Now()
		for i := 0; i < 4; i++ {
			snap := makeSnapshot("midband", base.Add(time.Duration(i)*time.Minute))
			assertError(t, bo.WriteSnapshot(snap), nil)
		}
		assertError(t, bo.Flush(), nil)

		snaps, err := bo.QueryRange(base.Add(30*time.Second), base.Add(150*time.Second))
		assertError(t, err, nil)
		assertInt(t, len(snaps), 2)
	})

	t.Run("Close flushes the remaining buffer", func(t *testing.T) {
		dir := t.TempDir()
		bo, err := Np.NewBadgerOutput(dir, 100)
		assertError(t, err, nil)

		base := time.Now()
		assertError(t, bo.WriteSnapshot(makeSnapshot("midband", base)), nil)
		assertError(t, bo.Close(), nil)

		reopened, err := Np.NewBadgerOutput(dir, 100)
		assertError(t, err, nil)
		defer reopened.Close()

		snaps, err := reopened.QueryRange(base.Add(-time.Second), base.Add(time.Second))
		assertError(t, err, nil)
		assertInt(t, len(snaps), 1)
	})

	t.Run("Identifies as BadgerDB", func(t *testing.T) {
		bo, err := Np.NewBadgerOutput(t.TempDir(), 4)
		assertError(t, err, nil)
		defer bo.Close()
		assertString(t, bo.Type(), "BadgerDB")
	})
}

func TestSnapshotKey(t *testing.T) {
	t.Run("Keys sort chronologically", func(t *testing.T) {
		base := time.Now()
		early := Np.SnapshotKey(makeSnapshot("midband", base))
		late := Np.SnapshotKey(makeSnapshot("midband", base.Add(time.Second)))

		if string(early) >= string(late) {
			t.Error("expected the earlier key to sort first")
		}
	})

	t.Run("Scenario ID is capped at eight characters", func(t *testing.T) {
		key := Np.SnapshotKey(makeSnapshot("a-very-long-scenario-id", time.Now()))
		assertInt(t, len(key), 16)
		assertString(t, string(key[8:]), "a-very-l")
	})
}

func TestSnapshotEncodeDecode(t *testing.T) {
	snap := makeSnapshot("midband", time.Now())

	decoded, err := Np.SnapshotDecode(Np.SnapshotEncode(snap))
	assertError(t, err, nil)
	assertString(t, decoded.ScenarioID, snap.ScenarioID)
	assertInt(t, decoded.TotalREs, snap.TotalREs)
}

func TestFileOutput(t *testing.T) {
	t.Run("Snapshots survive a write and range query", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snaps.jsonl")
		fo, err := Np.NewFileOutput(path)
		assertError(t, err, nil)
		defer fo.Close()

		base := time.Now()
		for i := 0; i < 3; i++ {
			snap := makeSnapshot("midband", base.Add(time.Duration(i)*time.Second))
			assertError(t, fo.WriteSnapshot(snap), nil)
		}

		snaps, err := fo.QueryRange(base.Add(-time.Second), base.Add(10*time.Second))
		assertError(t, err, nil)
		assertInt(t, len(snaps), 3)
		assertString(t, snaps[0].ScenarioID, "midband")
	})

	t.Run("WriteBatch appends every snapshot", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snaps.jsonl")
		fo, err := Np.NewFileOutput(path)
		assertError(t, err, nil)
		defer fo.Close()

		base := time.Now()
		batch := []*Nt.Snapshot{
			makeSnapshot("a", base),
			makeSnapshot("b", base.Add(time.Second)),
		}
		assertError(t, fo.WriteBatch(batch), nil)

		snaps, err := fo.QueryRange(base.Add(-time.Second), base.Add(10*time.Second))
		assertError(t, err, nil)
		assertInt(t, len(snaps), 2)
	})

	t.Run("Identifies as JSONLines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snaps.jsonl")
		fo, err := Np.NewFileOutput(path)
		assertError(t, err, nil)
		defer fo.Close()
		assertString(t, fo.Type(), "JSONLines")
	})
}

func TestExporterLookup(t *testing.T) {
	t.Run("Builds the JSON-lines exporter", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snaps.jsonl")
		out, err := Np.ExporterLookup("jsonl", path)
		assertError(t, err, nil)
		defer out.Close()
		assertString(t, out.Type(), "JSONLines")
	})

	t.Run("Builds the badger exporter", func(t *testing.T) {
		out, err := Np.ExporterLookup("badger", t.TempDir())
		assertError(t, err, nil)
		defer out.Close()
		assertString(t, out.Type(), "BadgerDB")
	})

	t.Run("Errors on an unknown exporter", func(t *testing.T) {
		_, err := Np.ExporterLookup("csv", t.TempDir())
		assertGotError(t, err)
	})
}

func assertError(t testing.TB, got, want error) {
	t.Helper()
	if !errors.Is(got, want) {
		t.Errorf("got error %q want %q", got, want)
	}
}

func assertGotError(t testing.TB, got error) {
	t.Helper()
	if got == nil {
		t.Errorf("Expected an error but got %q", got)
	}
}

func assertInt(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("did not get correct value, got %d, want %d", got, want)
	}
}

func assertString(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
