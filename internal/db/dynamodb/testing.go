package dynamodb

// NewStoreForTest creates a Store backed by the given API client (for testing).
func NewStoreForTest(api API, cfg Config) *Store {
	return newStore(api, cfg)
}
