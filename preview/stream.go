package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/lixenwraith/cardfx/card"
	"github.com/lixenwraith/cardfx/engine"
	"github.com/lixenwraith/cardfx/events"
	"github.com/lixenwraith/cardfx/render"
)

// message is one outbound websocket frame
type message struct {
	typ  websocket.MessageType
	data []byte
}

// pulseMessage is sent as text when the viewer's card pulses
type pulseMessage struct {
	Type   string  `json:"type"`
	Radius float64 `json:"radius,omitempty"`
}

const writeTimeout = 3 * time.Second

func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.cardConfig(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	loop := s.loop
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	s.active.Add(1)
	defer s.active.Add(-1)

	out := make(chan message, 4)
	send := func(m message) {
		// Drop frames for slow viewers rather than stall the loop
		select {
		case out <- m:
		default:
		}
	}

	encoder := newFrameEncoder(s.opts.FPS)
	type mount struct {
		card  *card.Card
		unsub func()
	}
	mounted := make(chan mount, 1)
	loop.Post(func() {
		c := card.New(cfg, loop,
			card.WithLogger(s.log),
			card.WithRegistry(s.reg),
			card.WithFrameHook(func(now time.Time, surface render.Surface) {
				if data, ok := encoder.encode(now, surface); ok {
					send(message{typ: websocket.MessageBinary, data: data})
				}
			}),
		)
		unsub := c.Subscribe(func(ev events.CardEvent) {
			if ev.Type != events.EventPulseStarted && ev.Type != events.EventPulseEnded {
				return
			}
			pm := pulseMessage{Type: ev.Type.String()}
			if p, ok := ev.Payload.(events.PulsePayload); ok {
				pm.Radius = p.Radius
			}
			data, _ := json.Marshal(pm)
			send(message{typ: websocket.MessageText, data: data})
		})
		c.Mount(engine.NewBox(s.opts.Width, s.opts.Height), render.NewRaster(0, 0))
		mounted <- mount{card: c, unsub: unsub}
	})

	var m mount
	select {
	case m = <-mounted:
	case <-r.Context().Done():
		// Mount task may still be queued, tasks run in order so this sees it
		loop.Post(func() {
			select {
			case m := <-mounted:
				m.unsub()
				m.card.Unmount()
			default:
			}
		})
		return
	}
	c := m.card
	defer loop.Post(func() {
		m.unsub()
		c.Unmount()
	})
	s.log.Debug().Str("card", c.ID()).Str("preset", cfg.Name).Msg("viewer connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-out:
				wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
				err := conn.Write(wctx, msg.typ, msg.data)
				wcancel()
				if err != nil {
					cancel()
					return
				}
			}
		}
	}()

	// Reader keeps control frames flowing and detects disconnects
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				if ctx.Err() == nil {
					s.log.Debug().Err(err).Msg("viewer read failed")
				}
			}
			s.log.Debug().Str("card", c.ID()).Msg("viewer disconnected")
			return
		}
	}
}

// frameEncoder rate-limits and PNG-encodes raster frames
type frameEncoder struct {
	interval time.Duration
	last     time.Time
	buf      bytes.Buffer
	enc      png.Encoder
}

func newFrameEncoder(fps int) *frameEncoder {
	return &frameEncoder{
		interval: time.Second / time.Duration(max(fps, 1)),
		enc:      png.Encoder{CompressionLevel: png.BestSpeed},
	}
}

func (e *frameEncoder) encode(now time.Time, s render.Surface) ([]byte, bool) {
	raster, ok := s.(*render.Raster)
	if !ok || (!e.last.IsZero() && now.Sub(e.last) < e.interval) {
		return nil, false
	}
	e.last = now
	e.buf.Reset()
	if err := e.enc.Encode(&e.buf, raster.Image()); err != nil {
		return nil, false
	}
	return bytes.Clone(e.buf.Bytes()), true
}
