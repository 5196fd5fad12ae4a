package resource

import "io/fs"

// CacheBuilderOption is a functional option for configuring a Cache.
type CacheBuilderOption func(*cache)

// WithDir sets the on-disk resource directory that overrides embedded assets.
//
// Parameters:
//   - dir: the directory, "" for embedded assets only
//
// Returns:
//   - CacheBuilderOption: option function to apply
func WithDir(dir string) CacheBuilderOption {
	return func(c *cache) {
		c.dir = dir
	}
}

// WithFS replaces the embedded fallback assets. Nil disables the fallback.
func WithFS(f fs.FS) CacheBuilderOption {
	return func(c *cache) {
		c.builtin = f
	}
}

// WithMaxTextureSize caps decoded texture dimensions. 0 disables scaling.
func WithMaxTextureSize(size int) CacheBuilderOption {
	return func(c *cache) {
		c.maxTextureSize = max(size, 0)
	}
}

// WithWorkers sets the size of the worker pool used by Preload.
//
// Parameters:
//   - n: the worker count, minimum 1
//
// Returns:
//   - CacheBuilderOption: option function to apply
func WithWorkers(n int) CacheBuilderOption {
	return func(c *cache) {
		c.workers = max(n, 1)
	}
}
