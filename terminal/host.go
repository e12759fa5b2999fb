package terminal

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/cardfx/card"
	"github.com/lixenwraith/cardfx/engine"
	"github.com/lixenwraith/cardfx/render"
)

// Panel is one card slot on screen
type Panel struct {
	Title  string
	Card   *card.Card
	Box    *engine.Box
	Buffer *render.CellBuffer
	Slot   Slot
}

// Host renders a grid of cards onto a tcell screen
// All methods except Poll and Done run on the loop goroutine
type Host struct {
	screen tcell.Screen
	loop   *engine.Loop
	grid   Grid
	log    zerolog.Logger

	panels []*Panel

	layoutID engine.ListenerID
	frameID  engine.FrameID
	started  bool
	paused   bool

	quit     chan struct{}
	quitOnce sync.Once
}

// NewHost creates a host drawing on an initialised screen
func NewHost(screen tcell.Screen, loop *engine.Loop, grid Grid, log zerolog.Logger) *Host {
	return &Host{
		screen: screen,
		loop:   loop,
		grid:   grid,
		log:    log,
		quit:   make(chan struct{}),
	}
}

// Add queues a card for the grid, cards added after Start are mounted immediately
func (h *Host) Add(title string, c *card.Card) *Panel {
	p := h.queue(title, c)
	if h.started {
		h.relayout(h.screen.Size())
		c.Mount(p.Box, p.Buffer)
		// Every panel shrinks, so every mounted driver has to re-measure
		h.loop.Resize(h.screen.Size())
	}
	return p
}

func (h *Host) queue(title string, c *card.Card) *Panel {
	p := &Panel{
		Title:  title,
		Card:   c,
		Box:    engine.NewBox(0, 0),
		Buffer: render.NewCellBuffer(0, 0),
	}
	h.panels = append(h.panels, p)
	return p
}

// Panels returns the panels in grid order
func (h *Host) Panels() []*Panel {
	return h.panels
}

// Start lays out the grid, mounts every card and begins presenting
func (h *Host) Start() {
	if h.started {
		return
	}
	h.started = true
	// Layout listener first so boxes are current before card drivers re-measure
	h.layoutID = h.loop.AddResizeListener(func(w, ht int) { h.relayout(w, ht) })
	w, ht := h.screen.Size()
	h.relayout(w, ht)
	for _, p := range h.panels {
		if !p.Card.Mount(p.Box, p.Buffer) {
			h.log.Warn().Str("title", p.Title).Msg("card mount skipped")
		}
	}
	h.frameID = h.loop.RequestFrame(h.present)
	h.log.Info().Int("cards", len(h.panels)).Int("w", w).Int("h", ht).Msg("terminal host started")
}

// Replace unmounts every card and mounts the given ones in their place
func (h *Host) Replace(titles []string, cards []*card.Card) {
	for _, p := range h.panels {
		p.Card.Unmount()
	}
	h.panels = h.panels[:0]
	for i, c := range cards {
		h.queue(titles[i], c)
	}
	if !h.started {
		return
	}
	h.relayout(h.screen.Size())
	for _, p := range h.panels {
		if !p.Card.Mount(p.Box, p.Buffer) {
			h.log.Warn().Str("title", p.Title).Msg("card mount skipped")
		}
	}
	// Layout listener runs first, then each driver re-measures its box
	h.loop.Resize(h.screen.Size())
	h.screen.Clear()
}

// Stop unmounts every card and stops presenting, idempotent
func (h *Host) Stop() {
	if !h.started {
		return
	}
	h.started = false
	for _, p := range h.panels {
		p.Card.Unmount()
	}
	h.loop.RemoveResizeListener(h.layoutID)
	h.loop.CancelFrame(h.frameID)
}

// relayout assigns every panel its slot and sizes its box in sub-pixels
func (h *Host) relayout(w, ht int) {
	slots := h.grid.Layout(w, ht, len(h.panels))
	for i, p := range h.panels {
		p.Slot = slots[i]
		p.Box.SetSize(slots[i].Content.W*2, slots[i].Content.H*2)
	}
}

// present copies every panel buffer to the screen, runs after the cards drew this frame
func (h *Host) present(_ time.Time) {
	if !h.started {
		return
	}
	h.relayout(h.screen.Size())
	for _, p := range h.panels {
		h.drawPanel(p)
	}
	h.screen.Show()
	h.frameID = h.loop.RequestFrame(h.present)
}

func (h *Host) drawPanel(p *Panel) {
	c := p.Slot.Content
	for row := 0; row < min(c.H, p.Buffer.Rows()); row++ {
		for col := 0; col < min(c.W, p.Buffer.Cols()); col++ {
			cell, _ := p.Buffer.Cell(col, row)
			h.screen.SetContent(c.X+col, c.Y+row, cell.Rune(), nil, cellStyle(cell.Fg, cell.Bg))
		}
	}
	if !p.Slot.Title.Empty() {
		h.drawTitle(p)
	}
}

// drawTitle centers the title, highlighted while the card pulses
func (h *Host) drawTitle(p *Panel) {
	r := p.Slot.Title
	style := tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack)
	if p.Card.Pulse() {
		style = style.Foreground(tcell.ColorWhite).Bold(true)
	}
	for x := r.X; x < r.X+r.W; x++ {
		h.screen.SetContent(x, r.Y, ' ', nil, style)
	}

	text := runewidth.Truncate(p.Title, r.W, "…")
	x := r.X + (r.W-runewidth.StringWidth(text))/2
	for _, ch := range text {
		h.screen.SetContent(x, r.Y, ch, nil, style)
		x += runewidth.RuneWidth(ch)
	}
}

func cellStyle(fg, bg render.RGB) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B))).
		Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B)))
}

// TogglePause holds or resumes every card frame, timers keep running
func (h *Host) TogglePause() {
	h.paused = !h.paused
	h.loop.SetVisible(!h.paused)
}

// Quit signals Done, safe from any goroutine
func (h *Host) Quit() {
	h.quitOnce.Do(func() { close(h.quit) })
}

// Done is closed once the user asked to quit
func (h *Host) Done() <-chan struct{} {
	return h.quit
}

// Poll forwards screen events to the loop until ctx ends or the screen is finalized
// Runs on its own goroutine
func (h *Host) Poll(ctx context.Context) {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			w, ht := ev.Size()
			h.loop.Post(func() {
				h.screen.Sync()
				h.loop.Resize(w, ht)
			})
		case *tcell.EventFocus:
			focused := ev.Focused
			h.loop.Post(func() {
				if !h.paused {
					h.loop.SetVisible(focused)
				}
			})
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
				h.Quit()
				return
			case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
				h.Quit()
				return
			case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
				h.loop.Post(h.TogglePause)
			}
		}
	}
}
