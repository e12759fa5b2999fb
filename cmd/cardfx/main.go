package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/cardfx/config"
	"github.com/lixenwraith/cardfx/core"
)

const usageText = `usage: cardfx [command] [flags]

commands:
  run       animate the configured cards in the terminal (default)
  preview   stream cards to a browser over websockets
  snapshot  render presets to a PNG contact sheet
  presets   list the built-in presets
`

// errUsage ends a command after printing help
var errUsage = errors.New("usage")

// commonFlags are accepted by every command
type commonFlags struct {
	config string
	env    string
	seed   uint64
	level  string
}

func (c *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&c.config, "config", "c", "", "config file (toml or yaml)")
	fs.StringVar(&c.env, "env", ".env", "dotenv file with CARDFX_ overrides")
	fs.Uint64Var(&c.seed, "seed", 0, "seed for every card, zero uses the config or the clock")
	fs.StringVar(&c.level, "log-level", "", "override log level")
}

// load reads the configuration and applies flag overrides
func (c *commonFlags) load(log zerolog.Logger) (*config.Manager, error) {
	mgr, err := config.NewManager(config.Options{Path: c.config, EnvFile: c.env}, log)
	if err != nil {
		return nil, err
	}
	if c.level != "" {
		if _, err := zerolog.ParseLevel(c.level); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
	}
	seed, level := c.seed, c.level
	mgr.SetOverrides(func(cfg *config.Config) {
		if seed != 0 {
			cfg.Display.Seed = seed
		}
		if level != "" {
			cfg.Log.Level = level
		}
	})
	return mgr, nil
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil && !errors.Is(err, errUsage) {
		fmt.Fprintf(os.Stderr, "cardfx: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches args to a command
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := "run"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "run":
		return runTerminal(ctx, args, stderr)
	case "preview":
		return runPreview(ctx, args, stderr)
	case "snapshot":
		return runSnapshot(args, stdout, stderr)
	case "presets":
		return runPresets(args, stdout, stderr)
	case "help":
		fmt.Fprint(stdout, usageText)
		return nil
	default:
		fmt.Fprint(stderr, usageText)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// parse runs fs over args, mapping -h to errUsage
func parse(fs *pflag.FlagSet, args []string, stderr io.Writer) error {
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return errUsage
		}
		return err
	}
	return nil
}
