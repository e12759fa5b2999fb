package main

import (
	"context"
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/cardfx/audio"
	"github.com/lixenwraith/cardfx/config"
	"github.com/lixenwraith/cardfx/core"
	"github.com/lixenwraith/cardfx/engine"
	"github.com/lixenwraith/cardfx/events"
	"github.com/lixenwraith/cardfx/status"
	"github.com/lixenwraith/cardfx/terminal"
)

func runTerminal(ctx context.Context, args []string, stderr io.Writer) error {
	var common commonFlags
	var noAudio bool
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	common.register(fs)
	fs.BoolVar(&noAudio, "mute", false, "disable thunder even when configured")
	if err := parse(fs, args, stderr); err != nil {
		return err
	}

	mgr, err := common.load(consoleLogger(stderr, zerolog.WarnLevel))
	if err != nil {
		return err
	}
	cfg := mgr.Get()

	log, logFile, err := fileLogger(cfg.Log, cfg.Level())
	if err != nil {
		return err
	}
	defer logFile.Close()
	mgr.SetLogger(log)

	reg := status.NewRegistry()
	loop := engine.NewLoop(nil, engine.WithLogger(log), engine.WithRegistry(reg))
	bus := events.NewBus()

	d, err := buildDeck(cfg, loop, bus, reg, log)
	if err != nil {
		return err
	}

	if cfg.Audio.Enabled && !noAudio {
		rate := beep.SampleRate(cfg.Audio.SampleRate)
		if spk, err := audio.OpenSpeaker(rate); err != nil {
			log.Warn().Err(err).Msg("audio unavailable, continuing without thunder")
		} else {
			defer spk.Close()
			unregister := bus.Register(audio.NewPlayer(spk, rate, cfg.Audio.Volume, nil, log))
			defer unregister()
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetCrashCleanup(screen.Fini)
	defer screen.Fini()
	screen.EnableFocus()
	screen.HideCursor()

	host := terminal.NewHost(screen, loop, gridFor(cfg.Display), log)
	for i, c := range d.cards {
		host.Add(d.titles[i], c)
	}

	mgr.SetOnChange(func(next *config.Config) {
		nd, err := buildDeck(next, loop, bus, reg, log)
		if err != nil {
			log.Error().Err(err).Msg("reloaded cards rejected")
			return
		}
		loop.Post(func() {
			host.Replace(nd.titles, nd.cards)
			log.Info().Int("cards", len(nd.cards)).Msg("cards replaced from config")
		})
	})
	mgr.Watch()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	core.Go(func() { host.Poll(ctx) })
	core.Go(func() {
		select {
		case <-host.Done():
			cancel()
		case <-ctx.Done():
		}
	})

	host.Start()
	err = loop.Run(ctx, cfg.Display.FPS)
	host.Stop()
	logStats(log, reg)
	return err
}

// gridFor maps display settings onto the host layout
func gridFor(d config.DisplayConfig) terminal.Grid {
	return terminal.Grid{
		Columns: d.Columns,
		MinCols: d.MinCols,
		Titles:  d.Titles,
		Gap:     1,
	}
}

// logStats writes the final counters
func logStats(log zerolog.Logger, reg *status.Registry) {
	ev := log.Info()
	for name, v := range reg.Snapshot() {
		ev = ev.Int64(name, v)
	}
	for name, v := range reg.Gauges() {
		ev = ev.Float64(name, v)
	}
	ev.Msg("session stats")
}
