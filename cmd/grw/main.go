// Command grw computes the ground reaction wrenches of the force platforms
// of a trial and prints a per-platform summary.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/banshee-data/forceplate/internal/analog"
	"github.com/banshee-data/forceplate/internal/config"
	"github.com/banshee-data/forceplate/internal/extract"
	"github.com/banshee-data/forceplate/internal/monitoring"
	"github.com/banshee-data/forceplate/internal/plotting"
	"github.com/banshee-data/forceplate/internal/trial"
	"github.com/banshee-data/forceplate/internal/version"
	"github.com/banshee-data/forceplate/internal/wrench"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("grw", flag.ContinueOnError)
	fs.SetOutput(stderr)
	trialPath := fs.String("trial", "", "Trial YAML file (metadata and analog channels)")
	offsetPath := fs.String("offset", "", "Static (unloaded) trial YAML whose channel means are removed from the trial")
	configPath := fs.String("config", "", "Processing configuration JSON (defaults when empty)")
	plotDir := fs.String("plots", "", "Write wrench plots under this directory")
	verbose := fs.Bool("v", false, "Enable diagnostic logging")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintln(stdout, "grw", version.String())
		return nil
	}
	if *trialPath == "" {
		return fmt.Errorf("-trial is required")
	}

	writers := monitoring.LogWriters{Ops: stderr}
	if *verbose {
		writers.Diag = stderr
	}
	monitoring.SetLogWriters(writers)
	defer monitoring.SetLogWriters(monitoring.LogWriters{})
	monitoring.SetLogger(log.New(stderr, "grw: ", log.LstdFlags).Printf)
	defer monitoring.SetLogger(log.Printf)

	cfg := config.DefaultProcessingConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadProcessingConfig(*configPath); err != nil {
			return err
		}
	}
	location, err := wrench.ParseLocation(cfg.GetLocation())
	if err != nil {
		return err
	}

	tr, err := trial.LoadFile(*trialPath)
	if err != nil {
		return err
	}

	runID := uuid.New()
	monitoring.Logf("run %s: %s", runID, *trialPath)

	analogs := tr.Analogs
	if *offsetPath != "" {
		static, err := trial.LoadFile(*offsetPath)
		if err != nil {
			return err
		}
		o := analog.NewOffsetRemover()
		o.SetRawInput(tr.Analogs)
		o.SetOffsetInput(static.Analogs)
		analogs = o.Output()
	}

	e := extract.NewExtractor()
	e.SetInput(tr.Metadata, analogs)

	g := wrench.NewGroundReactionFilter()
	g.SetInput(e.Output())
	g.SetTransformToGlobalFrame(cfg.GetTransformToGlobal())
	g.SetLocation(location)
	g.SetThresholdState(cfg.GetThresholdEnabled())
	g.SetThresholdValue(cfg.GetThresholdValue())

	wrenches := g.Output()
	if ratio := cfg.GetDownsampleRatio(); ratio > 1 {
		d := wrench.NewDownsampleFilter()
		d.SetInput(g.Output())
		d.SetRatio(ratio)
		wrenches = d.Output()
	}

	angles := wrench.NewDirectionAngleFilter()
	angles.SetInput(wrenches)
	angles.Update()

	printSummary(stdout, wrenches, angles.Output())

	if *plotDir != "" {
		dir := filepath.Join(*plotDir, runID.String())
		n, err := plotting.RenderWrenches(dir, wrenches)
		if err != nil {
			return err
		}
		monitoring.Logf("run %s: %d plot(s) written to %s", runID, n, dir)
	}
	return nil
}

// printSummary writes one line per wrench: frame count, suppressed frames,
// peak vertical force and mean force direction angles.
func printSummary(w io.Writer, ws *wrench.Collection, angles *wrench.ComponentCollection) {
	fmt.Fprintf(w, "%d wrench(es)\n", ws.Len())
	for i, gr := range ws.Items() {
		frames := gr.FrameNumber()
		suppressed := 0
		peak := 0.0
		for fr := 0; fr < frames; fr++ {
			if gr.Position.Residuals[fr] < 0 {
				suppressed++
			}
			if fz := gr.Force.Vec(fr).Z; fz > peak {
				peak = fz
			}
		}
		fmt.Fprintf(w, "%s: %d frame(s), %d suppressed, peak Fz %.3f", gr.Label, frames, suppressed, peak)
		if da, err := angles.Item(i); err == nil && frames > suppressed {
			var sum [3]float64
			for fr := 0; fr < da.FrameNumber(); fr++ {
				if da.Residuals[fr] < 0 {
					continue
				}
				v := da.Vec(fr)
				sum[0] += v.X
				sum[1] += v.Y
				sum[2] += v.Z
			}
			n := float64(frames - suppressed)
			fmt.Fprintf(w, ", mean angles %.2f/%.2f/%.2f deg", sum[0]/n, sum[1]/n, sum[2]/n)
		}
		fmt.Fprintln(w)
	}
}
