package driven

// ConfigStore is the persisted settings layer, addressed by dotted keys
// such as "search.default_limit". It sits below environment variables and
// explicit overrides in settings resolution.
type ConfigStore interface {
	// Get returns a stored value and whether the key is present.
	Get(key string) (any, bool)

	// Set stores and persists a value.
	Set(key string, value any) error

	// Delete removes a key. Removing an absent key is not an error.
	Delete(key string) error

	// Path returns where the settings are persisted, or ":memory:".
	Path() string
}
