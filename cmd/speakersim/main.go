// Command speakersim runs the interactive loudspeaker model.
//
// Usage:
//
//	speakersim [serve] [-config file] [-addr host:port]
//	speakersim metrics|chart|export|wav|play [-voltage V] [-frequency Hz] [-out file]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/RyanBlaney/sonido-speaker/audio"
	"github.com/RyanBlaney/sonido-speaker/config"
	"github.com/RyanBlaney/sonido-speaker/logging"
	"github.com/RyanBlaney/sonido-speaker/render"
	"github.com/RyanBlaney/sonido-speaker/server"
	"github.com/RyanBlaney/sonido-speaker/speaker"
)

type options struct {
	configPath string
	addr       string
	logLevel   string
	voltage    float64
	frequency  float64
	out        string
	noColor    bool

	// flags given on the command line, by name
	set map[string]bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, audio.NewDefaultPlayer); err != nil {
		logging.Fatal(err, "speakersim failed")
	}
}

func parseFlags(name string, args []string) (*options, error) {
	o := &options{set: make(map[string]bool)}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "path to a JSON config file")
	fs.StringVar(&o.addr, "addr", "", "listen address (serve)")
	fs.StringVar(&o.logLevel, "log-level", "", "debug|info|warn|error")
	fs.Float64Var(&o.voltage, "voltage", 0, "voltage amplitude in volts (default from config)")
	fs.Float64Var(&o.frequency, "frequency", 0, "signal frequency in hertz (default from config)")
	fs.StringVar(&o.out, "out", "", "output file (chart, export, wav)")
	fs.BoolVar(&o.noColor, "no-color", false, "disable colored log output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

func run(ctx context.Context, args []string, stdout io.Writer, newPlayer func(config.AudioConfig) audio.Player) error {
	command := "serve"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	o, err := parseFlags(command, args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.addr != "" {
		cfg.Server.Addr = o.addr
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.SetLevel(level)
	if o.noColor {
		logging.DisableColors()
	}

	// the same bounds the page sliders enforce
	p := speaker.DriveParameters{
		VoltageAmplitude: cfg.Controls.Voltage.Default,
		Frequency:        cfg.Controls.Frequency.Default,
	}
	if o.set["voltage"] {
		p.VoltageAmplitude = cfg.Controls.Voltage.Clamp(o.voltage)
	}
	if o.set["frequency"] {
		p.Frequency = cfg.Controls.Frequency.Clamp(o.frequency)
	}

	logger := logging.WithFields(logging.Fields{
		"component": "cli",
		"command":   command,
	})

	switch command {
	case "serve":
		return server.New(cfg, newPlayer(cfg.Audio)).ListenAndServe(ctx)

	case "metrics":
		result := speaker.NewModelFromConfig(cfg).Evaluate(p)
		fmt.Fprintf(stdout, "U = %.1f V, f = %.0f Hz\n", p.VoltageAmplitude, p.Frequency)
		for _, m := range render.FormatMetrics(result.Peaks) {
			fmt.Fprintf(stdout, "%-28s %s\n", m.Label, m.Value)
		}
		return nil

	case "chart":
		result := speaker.NewModelFromConfig(cfg).Evaluate(p)
		return writeFile(o.out, "speaker.html", logger, func(w io.Writer) error {
			return render.WriteChart(w, result, cfg.Chart)
		})

	case "export":
		result := speaker.NewModelFromConfig(cfg).Evaluate(p)
		return writeFile(o.out, "speaker.xlsx", logger, func(w io.Writer) error {
			return render.WriteWorkbook(w, result)
		})

	case "wav":
		synth := audio.NewSynthesizer(speaker.NewTimeVector(cfg.Sampling), cfg.Audio)
		return writeFile(o.out, "speaker.wav", logger, func(w io.Writer) error {
			return audio.WriteWAV(w, synth.Synthesize(p))
		})

	case "play":
		synth := audio.NewSynthesizer(speaker.NewTimeVector(cfg.Sampling), cfg.Audio)
		err := newPlayer(cfg.Audio).Play(ctx, synth.Synthesize(p))
		switch {
		case err == nil:
			fmt.Fprintln(stdout, "Playback finished.")
		case errors.Is(err, audio.ErrPlaybackUnavailable):
			// not fatal: report and carry on
			logger.Warn("Playback failed", logging.Fields{"error": err.Error()})
			fmt.Fprintf(stdout, "Could not play sound: %v\n", err)
		default:
			return err
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func writeFile(path, fallback string, logger logging.Logger, write func(io.Writer) error) error {
	if path == "" {
		path = fallback
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	logger.Info("Wrote file", logging.Fields{"path": path})
	return nil
}
