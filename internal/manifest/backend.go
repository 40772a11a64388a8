package manifest

// Backend is the key-value store a manifest is written to. Values are raw
// bytes; the manifest encodes them as JSON.
type Backend interface {
	CreateBucket(name []byte) error

	Put(bucket, key, value []byte) error
	Get(bucket, key []byte) ([]byte, error)

	// ForEach visits every pair in bucket. Order is backend-defined.
	ForEach(bucket []byte, fn func(k, v []byte) error) error

	Close() error
}
