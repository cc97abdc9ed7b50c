// internal/platform/metrics/revenue_store.go
package metrics

import (
	"sync"
	"sync/atomic"

	"finsight/internal/core/domain"
)

// networkCounters contadores atómicos de una red. El revenue se guarda
// en micro-dólares para poder usar enteros atómicos.
type networkCounters struct {
	requests      atomic.Int64
	successes     atomic.Int64
	revenueMicros atomic.Int64
}

// RevenueStore es la implementación process-lifetime de ports.RevenueStore.
// Peticiones concurrentes compiten sobre los contadores; las lecturas
// pueden quedar ligeramente desfasadas pero cada incremento es atómico,
// así que requests y successes nunca divergen en un ratio imposible.
// Los contadores viven lo que vive el proceso: no hay persistencia.
type RevenueStore struct {
	mu       sync.RWMutex
	networks map[string]*networkCounters
}

// NewRevenueStore crea un store vacío. Cada test debe crear el suyo en
// lugar de compartir un singleton de paquete.
func NewRevenueStore() *RevenueStore {
	return &RevenueStore{
		networks: make(map[string]*networkCounters),
	}
}

// Record registra un intento sobre la red.
func (s *RevenueStore) Record(network string, success bool, revenue float64) {
	c := s.counters(network)
	c.requests.Add(1)
	if success {
		c.successes.Add(1)
		c.revenueMicros.Add(int64(revenue * 1e6))
	}
}

// Snapshot retorna una copia de los contadores de la red.
func (s *RevenueStore) Snapshot(network string) domain.NetworkMetrics {
	s.mu.RLock()
	c, ok := s.networks[network]
	s.mu.RUnlock()
	if !ok {
		return domain.NetworkMetrics{}
	}
	return snapshotOf(c)
}

// All retorna un snapshot de todas las redes registradas.
func (s *RevenueStore) All() map[string]domain.NetworkMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.NetworkMetrics, len(s.networks))
	for name, c := range s.networks {
		out[name] = snapshotOf(c)
	}
	return out
}

// counters retorna los contadores de la red, creándolos si no existen.
func (s *RevenueStore) counters(network string) *networkCounters {
	s.mu.RLock()
	c, ok := s.networks[network]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok = s.networks[network]; ok {
		return c
	}
	c = &networkCounters{}
	s.networks[network] = c
	return c
}

func snapshotOf(c *networkCounters) domain.NetworkMetrics {
	requests := c.requests.Load()
	successes := c.successes.Load()

	m := domain.NetworkMetrics{
		Requests:     requests,
		Successes:    successes,
		TotalRevenue: float64(c.revenueMicros.Load()) / 1e6,
	}
	if requests > 0 {
		m.SuccessRate = float64(successes) / float64(requests)
	}
	return m
}
