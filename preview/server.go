package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/cardfx/card"
	"github.com/lixenwraith/cardfx/engine"
	"github.com/lixenwraith/cardfx/status"
)

// Options size the streamed cards
type Options struct {
	Width  int
	Height int
	FPS    int // frames pushed per second per connection
	Seed   uint64
}

// Server streams live card animations to browsers over websockets
// Every connection mounts its own card on the shared loop and unmounts it on disconnect
type Server struct {
	loop   *engine.Loop
	opts   Options
	log    zerolog.Logger
	reg    *status.Registry
	active atomic.Int64
}

// NewServer creates a preview server, reg may be nil
func NewServer(loop *engine.Loop, opts Options, reg *status.Registry, log zerolog.Logger) *Server {
	if opts.Width <= 0 {
		opts.Width = 320
	}
	if opts.Height <= 0 {
		opts.Height = 200
	}
	if opts.FPS <= 0 {
		opts.FPS = 20
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Server{loop: loop, opts: opts, log: log, reg: reg}
}

// Routes builds the HTTP handler
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.index)
	r.Get("/healthz", healthz)
	r.Get("/presets", listPresets)
	r.Get("/metrics", s.metrics)
	r.Get("/ws", s.stream)
	return r
}

// Active returns the number of connected viewers
func (s *Server) Active() int64 {
	return s.active.Load()
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Info().Str("addr", ln.Addr().String()).Msg("preview server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type presetInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Particles   int    `json:"particles"`
	Bolts       int    `json:"bolts"`
	Bursts      bool   `json:"bursts"`
}

func listPresets(w http.ResponseWriter, _ *http.Request) {
	names := card.PresetNames()
	out := make([]presetInfo, 0, len(names))
	for _, name := range names {
		cfg, _ := card.Preset(name)
		out = append(out, presetInfo{
			Name:        name,
			Description: cfg.Description,
			Particles:   cfg.Particles.Count,
			Bolts:       cfg.Bolts.Count,
			Bursts:      cfg.Burst.Enabled(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) metrics(w http.ResponseWriter, _ *http.Request) {
	out := make(map[string]any)
	for name, v := range s.reg.Snapshot() {
		out[name] = v
	}
	for name, v := range s.reg.Gauges() {
		out[name] = v
	}
	for name, v := range s.reg.Flags() {
		out[name] = v
	}
	out["preview.viewers"] = s.active.Load()
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// cardConfig resolves the preset and seed query parameters
func (s *Server) cardConfig(r *http.Request) (card.Config, error) {
	name := r.URL.Query().Get("card")
	if name == "" {
		name = card.DefaultPreset
	}
	cfg, ok := card.Preset(name)
	if !ok {
		return card.Config{}, fmt.Errorf("unknown preset %q", name)
	}
	cfg.Seed = s.opts.Seed
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return card.Config{}, fmt.Errorf("bad seed: %w", err)
		}
		cfg.Seed = seed
	}
	return cfg, nil
}
