package session

import "sync"

// Store keeps one token per submission for the lifetime of the process. The
// slot is keyed by submission ID so a token can never leak into a different
// submission's lookup; it is deliberately not durable storage.
type Store struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewStore returns an empty token store.
func NewStore() *Store {
	return &Store{tokens: make(map[string]string)}
}

// Get returns the stored token for a submission, if any.
func (s *Store) Get(submissionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[submissionID]
	return token, ok
}

// Put stores the token for a submission, replacing any previous one.
func (s *Store) Put(submissionID, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[submissionID] = token
}

// Delete removes the token slot for a submission.
func (s *Store) Delete(submissionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, submissionID)
}
