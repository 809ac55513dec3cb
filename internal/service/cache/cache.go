package cache

import "time"

// BytesCache stores marshaled decision responses keyed by request
// parameters. Raw bytes with TTL; backed by Redis or an in-process map.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
