package store

// Mapping provides read-only access to a persisted file.
type Mapping interface {
	// Bytes returns the full mapped file. The slice is valid until Close.
	// Caller must not modify it.
	Bytes() []byte
	// Close releases resources (e.g. unmaps the file).
	Close() error
}
