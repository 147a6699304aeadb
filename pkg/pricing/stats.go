package pricing

// record increments the counter of a service code for a source
func (s *Stats) record(serviceCode string, source PricingSource) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.counts[serviceCode]; !exists {
		s.counts[serviceCode] = make(map[PricingSource]int)
	}
	s.counts[serviceCode][source]++
}

// Snapshot returns a copy of the current statistics:
// service code -> {API, Cache, N/A} counts
func (s *Stats) Snapshot() map[string]map[PricingSource]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statsCopy := make(map[string]map[PricingSource]int, len(s.counts))
	for code, sources := range s.counts {
		statsCopy[code] = make(map[PricingSource]int, len(sources))
		for source, n := range sources {
			statsCopy[code][source] = n
		}
	}
	return statsCopy
}
