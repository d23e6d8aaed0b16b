// Command shapecast replays a recorded gesture script through the shape
// classifier and a set of shape-sequence matchers, printing each outcome.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/shapecast/internal/config"
	"github.com/banshee-data/shapecast/internal/journal"
	"github.com/banshee-data/shapecast/internal/shape"
	"github.com/banshee-data/shapecast/internal/strokeplot"
	"github.com/banshee-data/shapecast/internal/version"
)

// cliOptions are the parsed command-line flags.
type cliOptions struct {
	ConfigPath  string
	ScriptPath  string
	DBPath      string
	PlotsDir    string
	Realtime    bool
	ShowVersion bool
}

func parseFlags(fs *flag.FlagSet, args []string) (cliOptions, error) {
	var o cliOptions
	fs.StringVar(&o.ConfigPath, "config", config.DefaultConfigPath, "Path to the tuning config JSON")
	fs.StringVar(&o.ScriptPath, "script", "", "Path to the gesture script JSON (required)")
	fs.StringVar(&o.DBPath, "db", "", "Record outcomes to this SQLite journal")
	fs.StringVar(&o.PlotsDir, "plots", "", "Write a PNG per gesture into this directory")
	fs.BoolVar(&o.Realtime, "realtime", false, "Pace frames at the configured frame interval")
	fs.BoolVar(&o.ShowVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if !o.ShowVersion && o.ScriptPath == "" {
		return o, fmt.Errorf("-script is required")
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}
	if opts.ShowVersion {
		fmt.Println(version.String("shapecast"))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("shapecast: %v", err)
	}
}

// run loads the inputs named by opts, wires the optional journal and plot
// sinks and replays the script.
func run(ctx context.Context, opts cliOptions, out io.Writer) error {
	cfg, err := config.LoadTuningConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	script, err := LoadScript(opts.ScriptPath)
	if err != nil {
		return fmt.Errorf("load script: %w", err)
	}

	var ro replayOptions
	ro.Realtime = opts.Realtime

	var j *journal.Journal
	if opts.DBPath != "" {
		j, err = journal.Open(opts.DBPath, nil)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer j.Close()
		ro.Observers = append(ro.Observers, j)
		ro.MatcherObserver = j
	}

	var plots *strokeplot.Plotter
	if opts.PlotsDir != "" {
		plots, err = strokeplot.NewPlotter(opts.PlotsDir, shape.NewClassifierWithParams(cfg.ClassifierParams()))
		if err != nil {
			return err
		}
		ro.Observers = append(ro.Observers, plots)
	}

	if _, err := replay(ctx, script, cfg, ro, out); err != nil {
		return err
	}

	if j != nil {
		summary, err := j.Summary()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "journal session %s:", j.SessionID())
		for _, l := range append([]shape.Label{shape.Unrecognized}, shape.Labels()...) {
			if n := summary[l]; n > 0 {
				fmt.Fprintf(out, " %s=%d", l, n)
			}
		}
		fmt.Fprintln(out)
	}
	if plots != nil {
		fmt.Fprintf(out, "wrote %d plots to %s\n", len(plots.Written()), opts.PlotsDir)
	}
	return nil
}
