package generate

import "sync"

// Session guards against applying stale generation results. The caller
// bumps the version whenever source content changes, tags each Request
// with it, and accepts an artifact only if its version is still current.
// Applying a stale render over fresh mark state is a correctness bug this
// check exists to catch.
type Session struct {
	mu     sync.Mutex
	latest int64
}

// Next bumps and returns the current version. Call it when content
// changes or a new generation pass starts.
func (s *Session) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// Current returns the latest version.
func (s *Session) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Accept reports whether an artifact generated at version v may be
// applied; stale results must be discarded by the caller.
func (s *Session) Accept(v int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return v == s.latest
}
