package memory

// LockCount returns how many per-job locks the store currently tracks.
func LockCount(s *Store) int {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	return len(s.locks)
}
