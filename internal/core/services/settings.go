package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
	"github.com/custodia-labs/relevance/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvPrefix prefixes every environment variable the settings service reads.
const EnvPrefix = "RELEVANCE_"

// settingKind controls how a value is parsed and persisted.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindBool
	kindDuration
)

// setting binds one config key to a field of domain.Settings.
type setting struct {
	key   string
	kind  settingKind
	get   func(*domain.Settings) string
	set   func(*domain.Settings, string) error
	allow []string
}

// SettingsService resolves domain.Settings from layered sources.
type SettingsService struct {
	configStore driven.ConfigStore
	dotenv      map[string]string
	lookupEnv   func(string) (string, bool)
	settings    []setting
}

// NewSettingsService creates a settings service. configStore may be nil,
// in which case the file layer is skipped and Set is unavailable.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		dotenv:      make(map[string]string),
		lookupEnv:   os.LookupEnv,
		settings:    settingTable(),
	}
}

// LoadEnvFile reads KEY=value pairs from dotenv files. Variables already set
// in the process environment win over file entries. Missing files are skipped.
func (s *SettingsService) LoadEnvFile(paths ...string) error {
	for _, path := range paths {
		values, err := godotenv.Read(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		for k, v := range values {
			if _, ok := s.dotenv[k]; !ok {
				s.dotenv[k] = v
			}
		}
	}
	return nil
}

// Load resolves the full settings.
func (s *SettingsService) Load(overrides map[string]string) (domain.Settings, error) {
	settings, _, err := s.resolve(overrides)
	return settings, err
}

// Explain resolves every key and reports where its value came from.
func (s *SettingsService) Explain(overrides map[string]string) ([]domain.SettingValue, error) {
	_, values, err := s.resolve(overrides)
	return values, err
}

// Keys returns every supported key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(s.settings))
	for i, def := range s.settings {
		keys[i] = def.key
	}
	return keys
}

// Set validates a value and persists it to the config file.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return errors.New("no config file configured")
	}
	def, err := s.lookup(key)
	if err != nil {
		return err
	}
	scratch := domain.DefaultSettings()
	if err := def.apply(&scratch, value); err != nil {
		return err
	}
	typed, err := def.typed(value)
	if err != nil {
		return err
	}
	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Unset removes a key from the config file.
func (s *SettingsService) Unset(key string) error {
	if s.configStore == nil {
		return errors.New("no config file configured")
	}
	if _, err := s.lookup(key); err != nil {
		return err
	}
	return s.configStore.Delete(key)
}

// EnvVar returns the environment variable name for a key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

func (s *SettingsService) resolve(overrides map[string]string) (domain.Settings, []domain.SettingValue, error) {
	settings := domain.DefaultSettings()
	values := make([]domain.SettingValue, 0, len(s.settings))

	for _, def := range s.settings {
		raw, source := s.layered(def.key, overrides)
		if source != domain.SettingFromDefault {
			if err := def.apply(&settings, raw); err != nil {
				return domain.Settings{}, nil, fmt.Errorf("%s (from %s): %w", def.key, source, err)
			}
		}
		values = append(values, domain.SettingValue{
			Key:    def.key,
			Value:  def.get(&settings),
			Source: source,
			EnvVar: EnvVar(def.key),
		})
	}

	for k := range overrides {
		if _, err := s.lookup(k); err != nil {
			return domain.Settings{}, nil, err
		}
	}
	return settings, values, nil
}

// layered returns the highest-precedence raw value for key.
func (s *SettingsService) layered(key string, overrides map[string]string) (string, string) {
	if v, ok := overrides[key]; ok {
		return v, domain.SettingFromOverride
	}
	env := EnvVar(key)
	if v, ok := s.lookupEnv(env); ok {
		return v, domain.SettingFromEnv
	}
	if v, ok := s.dotenv[env]; ok {
		return v, domain.SettingFromEnv
	}
	if s.configStore != nil {
		if v, ok := s.configStore.Get(key); ok {
			return fmt.Sprint(v), domain.SettingFromFile
		}
	}
	return "", domain.SettingFromDefault
}

func (s *SettingsService) lookup(key string) (setting, error) {
	for _, def := range s.settings {
		if def.key == key {
			return def, nil
		}
	}
	return setting{}, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
}

func (d setting) apply(settings *domain.Settings, raw string) error {
	raw = strings.TrimSpace(raw)
	if len(d.allow) > 0 && !contains(d.allow, raw) {
		return fmt.Errorf("%w: %q is not one of %s", domain.ErrInvalidInput, raw, strings.Join(d.allow, ", "))
	}
	return d.set(settings, raw)
}

// typed converts a validated raw value into the form the config file stores.
func (d setting) typed(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch d.kind {
	case kindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		return n, err
	case kindFloat:
		return strconv.ParseFloat(raw, 64)
	case kindBool:
		return strconv.ParseBool(raw)
	default:
		return raw, nil
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// parseDuration accepts Go durations ("10m") or whole seconds ("600").
func parseDuration(raw string) (time.Duration, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("%w: negative duration", domain.ErrInvalidInput)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: negative duration", domain.ErrInvalidInput)
	}
	return d, nil
}

// --- setting constructors ---

func stringSetting(key string, field func(*domain.Settings) *string, allow ...string) setting {
	return setting{
		key:   key,
		kind:  kindString,
		allow: allow,
		get:   func(s *domain.Settings) string { return *field(s) },
		set: func(s *domain.Settings, raw string) error {
			*field(s) = raw
			return nil
		},
	}
}

func intSetting(key string, field func(*domain.Settings) *int, lowest int) setting {
	return setting{
		key:  key,
		kind: kindInt,
		get:  func(s *domain.Settings) string { return strconv.Itoa(*field(s)) },
		set: func(s *domain.Settings, raw string) error {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidInput, raw)
			}
			if n < lowest {
				return fmt.Errorf("%w: must be at least %d", domain.ErrInvalidInput, lowest)
			}
			*field(s) = n
			return nil
		},
	}
}

func floatSetting(key string, field func(*domain.Settings) *float64) setting {
	return setting{
		key:  key,
		kind: kindFloat,
		get:  func(s *domain.Settings) string { return strconv.FormatFloat(*field(s), 'g', -1, 64) },
		set: func(s *domain.Settings, raw string) error {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("%w: %q is not a non-negative number", domain.ErrInvalidInput, raw)
			}
			*field(s) = f
			return nil
		},
	}
}

func boolSetting(key string, field func(*domain.Settings) *bool) setting {
	return setting{
		key:  key,
		kind: kindBool,
		get:  func(s *domain.Settings) string { return strconv.FormatBool(*field(s)) },
		set: func(s *domain.Settings, raw string) error {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("%w: %q is not a boolean", domain.ErrInvalidInput, raw)
			}
			*field(s) = b
			return nil
		},
	}
}

func durationSetting(key string, field func(*domain.Settings) *time.Duration) setting {
	return setting{
		key:  key,
		kind: kindDuration,
		get:  func(s *domain.Settings) string { return field(s).String() },
		set: func(s *domain.Settings, raw string) error {
			d, err := parseDuration(raw)
			if err != nil {
				return err
			}
			*field(s) = d
			return nil
		},
	}
}

// taskSetting binds a scheduler task's interval. Zero disables the task.
func taskSetting(key, taskID string) setting {
	return setting{
		key:  key,
		kind: kindDuration,
		get: func(s *domain.Settings) string {
			return s.Scheduler.GetTaskConfig(taskID).Interval.String()
		},
		set: func(s *domain.Settings, raw string) error {
			d, err := parseDuration(raw)
			if err != nil {
				return err
			}
			if s.Scheduler.TaskConfigs == nil {
				s.Scheduler.TaskConfigs = make(map[string]domain.TaskConfig)
			}
			s.Scheduler.TaskConfigs[taskID] = domain.TaskConfig{Enabled: d > 0, Interval: d}
			return nil
		},
	}
}

func settingTable() []setting {
	return []setting{
		intSetting("search.default_limit", func(s *domain.Settings) *int { return &s.Search.DefaultLimit }, 1),
		durationSetting("search.cache_ttl", func(s *domain.Settings) *time.Duration { return &s.Search.CacheTTL }),
		stringSetting("search.cache_prefix", func(s *domain.Settings) *string { return &s.Search.CachePrefix }),
		floatSetting("search.min_rank", func(s *domain.Settings) *float64 { return &s.Search.MinRank }),
		floatSetting("search.title_weight", func(s *domain.Settings) *float64 { return &s.Search.TitleWeight }),
		floatSetting("search.content_weight", func(s *domain.Settings) *float64 { return &s.Search.ContentWeight }),

		durationSetting("context.cache_ttl", func(s *domain.Settings) *time.Duration { return &s.Context.CacheTTL }),
		stringSetting("context.cache_prefix", func(s *domain.Settings) *string { return &s.Context.CachePrefix }),
		intSetting("context.max_results", func(s *domain.Settings) *int { return &s.Context.MaxResults }, 1),

		intSetting("indexer.summary_length", func(s *domain.Settings) *int { return &s.Indexer.SummaryLength }, 1),

		intSetting("orchestrator.search_limit", func(s *domain.Settings) *int { return &s.Orchestrator.SearchLimit }, 1),
		intSetting("orchestrator.substantial_length",
			func(s *domain.Settings) *int { return &s.Orchestrator.SubstantialLength }, 0),
		intSetting("orchestrator.sales_substantial_length",
			func(s *domain.Settings) *int { return &s.Orchestrator.SalesSubstantialLength }, 0),
		intSetting("orchestrator.excerpt_length", func(s *domain.Settings) *int { return &s.Orchestrator.ExcerptLength }, 1),
		intSetting("orchestrator.message_echo_length",
			func(s *domain.Settings) *int { return &s.Orchestrator.MessageEchoLength }, 1),
		stringSetting("orchestrator.default_section",
			func(s *domain.Settings) *string { return &s.Orchestrator.DefaultSection }),

		stringSetting("storage.backend", func(s *domain.Settings) *string { return &s.Storage.Backend },
			domain.StorageSQLite, domain.StoragePostgres, domain.StorageMemory),
		stringSetting("storage.data_dir", func(s *domain.Settings) *string { return &s.Storage.DataDir }),
		stringSetting("storage.postgres_dsn", func(s *domain.Settings) *string { return &s.Storage.PostgresDSN }),

		stringSetting("cache.backend", func(s *domain.Settings) *string { return &s.Cache.Backend },
			domain.CacheMemory, domain.CacheRedis),
		stringSetting("cache.redis_addr", func(s *domain.Settings) *string { return &s.Cache.RedisAddr }),
		stringSetting("cache.redis_password", func(s *domain.Settings) *string { return &s.Cache.RedisPassword }),
		intSetting("cache.redis_db", func(s *domain.Settings) *int { return &s.Cache.RedisDB }, 0),
		stringSetting("cache.key_prefix", func(s *domain.Settings) *string { return &s.Cache.KeyPrefix }),

		stringSetting("events.backend", func(s *domain.Settings) *string { return &s.Events.Backend },
			domain.EventsMemory, domain.EventsNATS),
		stringSetting("events.nats_url", func(s *domain.Settings) *string { return &s.Events.NATSURL }),
		stringSetting("events.subject", func(s *domain.Settings) *string { return &s.Events.Subject }),
		floatSetting("events.rate_per_second", func(s *domain.Settings) *float64 { return &s.Events.RatePerSecond }),
		intSetting("events.burst", func(s *domain.Settings) *int { return &s.Events.Burst }, 1),

		stringSetting("catalog.dir", func(s *domain.Settings) *string { return &s.Catalog.Dir }),
		boolSetting("catalog.watch", func(s *domain.Settings) *bool { return &s.Catalog.Watch }),

		stringSetting("server.addr", func(s *domain.Settings) *string { return &s.Server.Addr }),

		boolSetting("log.verbose", func(s *domain.Settings) *bool { return &s.Log.Verbose }),
		stringSetting("log.format", func(s *domain.Settings) *string { return &s.Log.Format }, "console", "json"),

		boolSetting("scheduler.enabled", func(s *domain.Settings) *bool { return &s.Scheduler.Enabled }),
		taskSetting("scheduler.content_reindex.interval", domain.TaskIDContentReindex),
		taskSetting("scheduler.context_refresh.interval", domain.TaskIDContextRefresh),
	}
}
