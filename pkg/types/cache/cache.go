package cache

// Cache is a concurrency-safe keyed store shared between producers and
// readers. Readers must treat returned maps and slices as copies.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Delete(key K)
	Keys() []K
	Values() []V
	Clear()
	Len() int
}

// Updater is implemented by caches that support atomic read-modify-write.
type Updater[K comparable, V any] interface {
	Cache[K, V]
	Update(key K, fn func(current V, exists bool) V) V
	Modify(key K, fn func(current V) V) bool
	Snapshot() map[K]V
}
