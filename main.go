package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/esimov/ascii-lava/config"
	"github.com/esimov/ascii-lava/telemetry"
	"github.com/esimov/ascii-lava/terminal"
	"github.com/esimov/ascii-lava/websocket"
)

// debugLog collects the runtime log. The terminal owns the screen, so
// nothing may write to stdout or stderr while the lamp runs.
const debugLog = "debug.log"

func main() {
	var (
		cfgPath = flag.String("config", "", "path to a yaml settings file")
		count   = flag.Int("n", 0, "particle count, 0 derives it from the terminal size")
		seed    = flag.Int64("seed", 0, "rng seed, 0 picks the clock")
		listen  = flag.String("listen", "", "serve the browser front end on this address")
		stats   = flag.String("stats", "", "append frame timing windows to this csv file")
	)
	flag.Parse()

	settings, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalln(err)
	}

	logfile, err := os.OpenFile(debugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalln(err)
	}
	defer logfile.Close()
	log.SetOutput(logfile)
	slog.SetDefault(slog.New(slog.NewJSONHandler(logfile, nil)))

	opts := terminal.Options{
		Sim:      settings.Lava(),
		Count:    settings.Physics.Particles,
		Seed:     *seed,
		FontSize: settings.Render.FontSize,
		FPS:      settings.Render.FPS,
		Ramp:     settings.Render.Ramp,
		Palette:  settings.PaletteRunes(),
	}
	if *count > 0 {
		opts.Count = *count
	}

	if *listen != "" {
		params := &websocket.HttpParams{
			Address: *listen,
			Prefix:  settings.Server.Prefix,
			Root:    settings.Server.Root,
		}
		go func() {
			log.Fatalln(websocket.ListenAndServe(params))
		}()
		opts.Remote = websocket.Points()
	}

	if *stats != "" {
		writer, err := telemetry.NewWriter(*stats)
		if err != nil {
			log.Fatalln(err)
		}
		defer writer.Close()

		opts.Stats = telemetry.NewCollector(settings.Stats.Window)
		opts.StatsOut = writer
	}

	if err := terminal.New(opts).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
