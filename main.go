package main

import (
	"context"
	"fmt"
	"log/slog"

	Nd "github.com/crenna/nrscope/display"
	Ns "github.com/crenna/nrscope/engine"
	No "github.com/crenna/nrscope/obvy"
	Np "github.com/crenna/nrscope/plugin"
)

func init() {
	User := Ns.FillEnvVar("USER")
	fmt.Printf("NRscope initializing for ... %s\n", User)
}

// loadScenarios reads the scenario config named by NRSCOPE_CONFIG,
// falling back to the built-in default when no file is configured.
func loadScenarios() []Ns.ScenarioFile {
	filename := Ns.FillEnvVar("NRSCOPE_CONFIG")
	if filename == "ENOENT" {
		slog.Info("No scenario config, using default")
		return []Ns.ScenarioFile{Ns.DefaultScenario()}
	}

	scenarios, err := Ns.LoadScenarioFileName(filename)
	if err != nil {
		slog.Error("Could not load scenario config, using default",
			slog.String("filename", filename),
			slog.Any("Error", err))
		return []Ns.ScenarioFile{Ns.DefaultScenario()}
	}

	slog.Info("Loaded scenario config",
		slog.String("filename", filename),
		slog.Int("scenarios", len(scenarios)))
	return scenarios
}

// initExporter builds the snapshot exporter named by NRSCOPE_EXPORT.
// Returns nil when no exporter is configured.
func initExporter() Np.SnapshotExporter {
	name := Ns.FillEnvVar("NRSCOPE_EXPORT")
	if name == "ENOENT" {
		return nil
	}

	path := Ns.FillEnvVar("NRSCOPE_EXPORT_PATH")
	if path == "ENOENT" {
		path = "nrscope-snapshots"
	}

	output, err := Np.ExporterLookup(name, path)
	if err != nil {
		slog.Error("Failed to create exporter",
			slog.String("exporter", name),
			slog.Any("error", err))
		return nil
	}

	slog.Info("Snapshot exporter enabled",
		slog.String("type", output.Type()),
		slog.String("path", path))
	return output
}

// initTracing picks the OTel bootstrap named by NRSCOPE_OTEL.
// Returns a shutdown func, which may be a no-op.
func initTracing() func() {
	switch Ns.FillEnvVar("NRSCOPE_OTEL") {
	case "honeycomb":
		shutdown, err := No.InitOTelHNY()
		if err != nil {
			slog.Error("Could not configure OTel", slog.Any("Error", err))
			return func() {}
		}
		return shutdown
	case "grafana":
		tp, err := No.InitOTelGRF()
		if err != nil {
			slog.Error("Could not configure OTel", slog.Any("Error", err))
			return func() {}
		}
		return func() { tp.Shutdown(context.Background()) }
	}
	return func() {}
}

func main() {
	scenarios := loadScenarios()

	shutdown := initTracing()
	defer shutdown()

	output := initExporter()
	if output != nil {
		defer output.Close()
	}

	// NRSCOPE_WEB runs the data server without the terminal UI
	if Ns.FillEnvVar("NRSCOPE_WEB") == "true" {
		if err := Nd.StartWebNoTUI(scenarios, output); err != nil {
			slog.Error("Problem starting web server", slog.Any("Error", err))
			panic("Failed to start web server")
		}
		return
	}

	err := Nd.StartFrameView(scenarios, output)
	if err != nil {
		slog.Error("Problem starting frame view", slog.Any("Error", err))
		panic("Failed to start frame view")
	}
}
