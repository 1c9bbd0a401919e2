package credstore

// memoryStore implements Store in memory. It backs tests and acts as a
// throwaway store when no credentials file should be touched.
type memoryStore struct {
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

// Get retrieves the value stored under key
func (s *memoryStore) Get(key string) (string, bool, error) {
	value, ok := s.values[key]
	return value, ok, nil
}

// Set stores value under key
func (s *memoryStore) Set(key, value string) error {
	s.values[key] = value
	return nil
}

// Remove deletes the value stored under key
func (s *memoryStore) Remove(key string) error {
	delete(s.values, key)
	return nil
}
