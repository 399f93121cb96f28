package domain

// KeyPrefix is the default prefix for keys fanout owns in shared key-value stores.
const KeyPrefix = "fanout:"

// MaxKeyBytes is the largest key accepted for a lookup (DynamoDB partition key limit).
const MaxKeyBytes = 2048

// Record is one stored row returned for a key.
type Record map[string]any

// Item is the payload fetched for a single key.
type Item struct {
	key     string
	records []Record
}

// NewItem creates an item for key holding the given records.
func NewItem(key string, records []Record) Item {
	return Item{key: key, records: records}
}

// Key returns the key the item was fetched by.
func (i Item) Key() string { return i.key }

// Records returns the stored rows.
func (i Item) Records() []Record { return i.records }

// Len returns the number of records.
func (i Item) Len() int { return len(i.records) }

// ValidateKey checks that a key can be sent to a store.
func ValidateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyBytes {
		return ErrInvalidKey
	}
	return nil
}
