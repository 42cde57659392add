// Package file stores application settings in ~/.relevance/config.toml.
// TOML tables surface as dot-notation keys, so [cache] redis_db is read and
// written as "cache.redis_db".
package file
