package driving

import "github.com/custodia-labs/relevance/internal/core/domain"

// SettingsService resolves process configuration.
//
// Precedence, highest first: explicit overrides, environment variables,
// the config file, then domain.DefaultSettings.
type SettingsService interface {
	// Load resolves the full settings. overrides are keyed like the
	// config file ("search.default_limit").
	Load(overrides map[string]string) (domain.Settings, error)

	// Explain resolves every key and reports where its value came from.
	Explain(overrides map[string]string) ([]domain.SettingValue, error)

	// Set validates a value and persists it to the config file.
	Set(key, value string) error

	// Unset removes a key from the config file so lower layers apply.
	Unset(key string) error

	// Keys returns every supported key in display order.
	Keys() []string
}
