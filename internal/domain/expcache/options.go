package expcache

// Option applies a configuration option to the cache.
type Option func(*inMemoryCache)

// WithMaxSize bounds the number of cached explanations. A size of 0 or
// below disables eviction.
func WithMaxSize(size int) Option {
	return func(c *inMemoryCache) {
		c.maxSize = size
	}
}
