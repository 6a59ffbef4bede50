package plugin

import "fmt"

// Exporters is a global map of SnapshotExporter factories.
var Exporters = map[string]func(path string) (SnapshotExporter, error){
	"badger": func(path string) (SnapshotExporter, error) {
		return NewBadgerOutput(path, 16)
	},
	"jsonl": func(path string) (SnapshotExporter, error) {
		return NewFileOutput(path)
	},
}

func ExporterLookup(name, path string) (SnapshotExporter, error) {
	factory, ok := Exporters[name]
	if !ok {
		return nil, fmt.Errorf("unknown exporter: %s", name)
	}
	return factory(path)
}
