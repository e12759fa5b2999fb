package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/cardfx/core"
	"github.com/lixenwraith/cardfx/engine"
	"github.com/lixenwraith/cardfx/preview"
	"github.com/lixenwraith/cardfx/status"
)

func runPreview(ctx context.Context, args []string, stderr io.Writer) error {
	var common commonFlags
	var addr string
	fs := pflag.NewFlagSet("preview", pflag.ContinueOnError)
	common.register(fs)
	fs.StringVar(&addr, "addr", "", "listen address, overrides preview.addr")
	if err := parse(fs, args, stderr); err != nil {
		return err
	}

	mgr, err := common.load(consoleLogger(stderr, zerolog.InfoLevel))
	if err != nil {
		return err
	}
	cfg := mgr.Get()
	log := consoleLogger(stderr, cfg.Level()).With().Str("mode", "preview").Logger()
	mgr.SetLogger(log)
	if addr == "" {
		addr = cfg.Preview.Addr
	}

	reg := status.NewRegistry()
	loop := engine.NewLoop(nil, engine.WithLogger(log), engine.WithRegistry(reg))
	srv := preview.NewServer(loop, preview.Options{
		Width:  cfg.Preview.Width,
		Height: cfg.Preview.Height,
		FPS:    cfg.Preview.FPS,
		Seed:   cfg.Display.Seed,
	}, reg, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	loopDone := make(chan struct{})
	core.Go(func() {
		defer close(loopDone)
		_ = loop.Run(ctx, cfg.Display.FPS)
	})

	err = srv.ListenAndServe(ctx, addr)
	cancel()
	<-loopDone
	logStats(log, reg)
	return err
}
