package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/cardfx/card"
	"github.com/lixenwraith/cardfx/config"
	"github.com/lixenwraith/cardfx/engine"
	"github.com/lixenwraith/cardfx/events"
	"github.com/lixenwraith/cardfx/status"
)

// deck is the ordered set of cards built from one config
type deck struct {
	titles []string
	cards  []*card.Card
}

// buildDeck resolves every configured card, the first invalid entry fails the whole deck
func buildDeck(cfg *config.Config, loop *engine.Loop, bus *events.Bus, reg *status.Registry, log zerolog.Logger) (deck, error) {
	specs := cfg.CardSpecs()
	d := deck{
		titles: make([]string, 0, len(specs)),
		cards:  make([]*card.Card, 0, len(specs)),
	}
	for i, spec := range specs {
		cc, err := spec.Resolve(cfg.Display.Seed)
		if err != nil {
			return deck{}, fmt.Errorf("card %d: %w", i, err)
		}
		if cc.FPS == 0 {
			cc.FPS = cfg.Display.FPS
		}
		c := card.New(cc, loop,
			card.WithBus(bus),
			card.WithRegistry(reg),
			card.WithLogger(log.With().Str("title", spec.Label()).Logger()),
		)
		d.titles = append(d.titles, spec.Label())
		d.cards = append(d.cards, c)
	}
	return d, nil
}
