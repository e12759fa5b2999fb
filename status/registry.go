package status

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

// Registry is the central metrics facade
// Components cache pointers during construction; frame loops write directly to atomics
type Registry struct {
	Bools  *MetricMap[atomic.Bool]
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:  NewMetricMap[atomic.Bool](),
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count()
}

// Snapshot returns current integer counters keyed by name
func (r *Registry) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	r.Ints.Each(func(name string, v *atomic.Int64) {
		out[name] = v.Load()
	})
	return out
}

// Gauges returns current float gauges keyed by name
func (r *Registry) Gauges() map[string]float64 {
	out := make(map[string]float64)
	r.Floats.Each(func(name string, v *AtomicFloat) {
		out[name] = v.Load()
	})
	return out
}

// Flags returns current boolean states keyed by name
func (r *Registry) Flags() map[string]bool {
	out := make(map[string]bool)
	r.Bools.Each(func(name string, v *atomic.Bool) {
		out[name] = v.Load()
	})
	return out
}

// MetricMap lazily creates named metrics, returned pointers are stable
type MetricMap[T any] struct {
	mu      sync.RWMutex
	metrics map[string]*T
}

// NewMetricMap creates an empty map
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{metrics: make(map[string]*T)}
}

// Get returns the metric for name, creating it on first use
func (m *MetricMap[T]) Get(name string) *T {
	m.mu.RLock()
	v, ok := m.metrics[name]
	m.mu.RUnlock()
	if ok {
		return v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok = m.metrics[name]; ok {
		return v
	}
	v = new(T)
	m.metrics[name] = v
	return v
}

// Count returns number of registered metrics
func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.metrics)
}

// Each visits metrics in name order
func (m *MetricMap[T]) Each(fn func(name string, v *T)) {
	m.mu.RLock()
	names := make([]string, 0, len(m.metrics))
	for name := range m.metrics {
		names = append(names, name)
	}
	m.mu.RUnlock()
	sort.Strings(names)
	for _, name := range names {
		fn(name, m.Get(name))
	}
}

// AtomicFloat stores a float64 as atomic bits
type AtomicFloat struct {
	bits atomic.Uint64
}

// Load returns the current value
func (f *AtomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Store sets the value
func (f *AtomicFloat) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}
