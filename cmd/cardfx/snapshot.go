package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lixenwraith/cardfx/card"
	"github.com/lixenwraith/cardfx/config"
	"github.com/lixenwraith/cardfx/engine"
	"github.com/lixenwraith/cardfx/render"
)

const labelHeight = 18

// snapshotOptions control an offline render
type snapshotOptions struct {
	presets []string
	width   int
	height  int
	frames  int
	fps     int
	seed    uint64
	columns int
}

func runSnapshot(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	var out string
	opts := snapshotOptions{}
	fs := pflag.NewFlagSet("snapshot", pflag.ContinueOnError)
	common.register(fs)
	fs.StringSliceVarP(&opts.presets, "preset", "p", nil, "presets to render, default all")
	fs.IntVar(&opts.width, "width", 0, "card width in pixels, overrides preview.width")
	fs.IntVar(&opts.height, "height", 0, "card height in pixels, overrides preview.height")
	fs.IntVar(&opts.frames, "frames", 90, "frames simulated before capture")
	fs.IntVar(&opts.columns, "columns", 3, "cards per sheet row")
	fs.StringVarP(&out, "out", "o", "cardfx.png", "output file, - for stdout")
	if err := parse(fs, args, stderr); err != nil {
		return err
	}

	mgr, err := common.load(consoleLogger(stderr, zerolog.WarnLevel))
	if err != nil {
		return err
	}
	cfg := mgr.Get()
	if opts.width <= 0 {
		opts.width = cfg.Preview.Width
	}
	if opts.height <= 0 {
		opts.height = cfg.Preview.Height
	}
	if len(opts.presets) == 0 {
		opts.presets = card.PresetNames()
	}
	opts.fps = cfg.Display.FPS
	opts.seed = cfg.Display.Seed
	if opts.seed == 0 {
		opts.seed = 1
	}

	sheet, err := renderSheet(opts)
	if err != nil {
		return err
	}

	w := stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	if err := png.Encode(w, sheet); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if out != "-" {
		fmt.Fprintf(stderr, "wrote %d cards to %s\n", len(opts.presets), out)
	}
	return nil
}

// renderSheet simulates every preset on a mock clock and tiles the final frames with labels
func renderSheet(opts snapshotOptions) (*image.RGBA, error) {
	if opts.width <= 0 || opts.height <= 0 {
		return nil, fmt.Errorf("invalid card size %dx%d", opts.width, opts.height)
	}
	cols := max(min(opts.columns, len(opts.presets)), 1)
	rows := (len(opts.presets) + cols - 1) / cols
	cellH := opts.height + labelHeight
	sheet := image.NewRGBA(image.Rect(0, 0, cols*opts.width, max(rows, 1)*cellH))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	clock := engine.NewMockTimeProvider(time.Unix(0, 0))
	loop := engine.NewLoop(clock)
	interval := config.DisplayConfig{FPS: opts.fps}.FrameInterval()

	rasters := make([]*render.Raster, len(opts.presets))
	cards := make([]*card.Card, len(opts.presets))
	for i, name := range opts.presets {
		cfg, ok := card.Preset(name)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", name)
		}
		cfg.Seed = opts.seed + uint64(i)
		cfg.FPS = opts.fps
		rasters[i] = render.NewRaster(0, 0)
		cards[i] = card.New(cfg, loop)
		cards[i].Mount(engine.NewBox(opts.width, opts.height), rasters[i])
	}

	for range opts.frames {
		clock.Advance(interval)
		loop.Tick()
	}

	for i, name := range opts.presets {
		x := (i % cols) * opts.width
		y := (i / cols) * cellH
		dst := image.Rect(x, y, x+opts.width, y+opts.height)
		draw.Draw(sheet, dst, rasters[i].Image(), image.Point{}, draw.Src)
		drawLabel(sheet, name, x, y+opts.height, opts.width)
		cards[i].Unmount()
	}
	return sheet, nil
}

// drawLabel centers text in the strip below a card
func drawLabel(dst draw.Image, text string, x, y, width int) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{R: 220, G: 220, B: 230, A: 255}),
		Face: face,
	}
	tw := d.MeasureString(text).Ceil()
	d.Dot = fixed.P(x+max((width-tw)/2, 2), y+labelHeight-5)
	d.DrawString(text)
}
