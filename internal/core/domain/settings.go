package domain

import "time"

// Storage backends.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Event bus backends.
const (
	EventsMemory = "memory"
	EventsNATS   = "nats"
)

// Settings is the explicit configuration passed to every service.
// It is resolved once per process; see DefaultSettings for documented values.
type Settings struct {
	Search       SearchSettings
	Context      ContextSettings
	Indexer      IndexerSettings
	Orchestrator OrchestratorSettings
	Storage      StorageSettings
	Cache        CacheSettings
	Events       EventSettings
	Catalog      CatalogSettings
	Server       ServerSettings
	Log          LogSettings
	Scheduler    SchedulerConfig
}

// SearchSettings configures the content search engine.
type SearchSettings struct {
	// DefaultLimit applies when a caller passes no limit.
	DefaultLimit int

	// CacheTTL is how long ranked results are memoised.
	CacheTTL time.Duration

	// CachePrefix namespaces search cache keys.
	CachePrefix string

	// MinRank drops primary-ranked results below this normalised score.
	MinRank float64

	// TitleWeight and ContentWeight weight the full-text rank columns.
	TitleWeight   float64
	ContentWeight float64

	// Scoring holds the fallback keyword scoring constants.
	Scoring ScoringWeights
}

// ScoringWeights are the manual keyword scoring constants.
// They are empirical and preserved as configuration, not re-derived.
type ScoringWeights struct {
	TitleExact     float64
	TitleWord      float64
	ContentExact   float64
	ContentWord    float64
	Keyword        float64
	PriorityFactor float64
}

// ContextSettings configures the context manager.
type ContextSettings struct {
	// CacheTTL is how long the active section set is cached.
	CacheTTL time.Duration

	// CachePrefix namespaces the section cache key.
	CachePrefix string

	// MaxResults is the default number of sections FindRelevant returns.
	MaxResults int
}

// IndexerSettings configures the content indexer.
type IndexerSettings struct {
	// Priorities maps each content type to its base importance (1-10).
	Priorities map[ContentType]int

	// SummaryLength is how much body text forms a generated summary.
	SummaryLength int
}

// PriorityFor returns the configured priority for t, or 5 when unset.
func (s IndexerSettings) PriorityFor(t ContentType) int {
	if p, ok := s.Priorities[t]; ok {
		return ClampPriority(p)
	}
	return 5
}

// TopicRule maps message vocabulary to a context section.
type TopicRule struct {
	Section  string
	Keywords []string
}

// OrchestratorSettings configures context assembly for reply generation.
type OrchestratorSettings struct {
	// SearchLimit is how many search results feed the combined block.
	SearchLimit int

	// SubstantialLength is the minimum combined length returned from tier 1.
	SubstantialLength int

	// SalesSubstantialLength is the minimum for the car-sales re-search.
	SalesSubstantialLength int

	// ExcerptLength bounds body text when a result has no summary.
	ExcerptLength int

	// MessageEchoLength bounds how much of the message is quoted back.
	MessageEchoLength int

	// Topics are checked in order; the first matching section wins.
	Topics []TopicRule

	// Booking vocabulary maps to BookingSection.
	BookingKeywords []string
	BookingSection  string

	// Sales vocabulary triggers a targeted search, then SalesSection.
	SalesKeywords []string
	SalesSection  string

	// DefaultSection is returned when nothing else matched.
	DefaultSection string

	// FallbackContext is returned when no section data exists at all.
	FallbackContext string
}

// StorageSettings selects the content repository backend.
type StorageSettings struct {
	Backend     string
	DataDir     string
	PostgresDSN string
}

// CacheSettings selects the cache substrate.
type CacheSettings struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// EventSettings configures the change event bus.
type EventSettings struct {
	Backend string
	NATSURL string
	Subject string

	// RatePerSecond throttles how fast change events are applied.
	RatePerSecond float64
	Burst         int
}

// CatalogSettings configures the file-based content source.
type CatalogSettings struct {
	Dir   string
	Watch bool
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr string
}

// LogSettings configures process logging.
type LogSettings struct {
	Verbose bool
	Format  string
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		Search: SearchSettings{
			DefaultLimit:  DefaultSearchLimit,
			CacheTTL:      600 * time.Second,
			CachePrefix:   "chatbot_content_search",
			MinRank:       0.01,
			TitleWeight:   1.0,
			ContentWeight: 0.4,
			Scoring:       DefaultScoringWeights(),
		},
		Context: ContextSettings{
			CacheTTL:    3600 * time.Second,
			CachePrefix: "chatbot_context_sections",
			MaxResults:  3,
		},
		Indexer: IndexerSettings{
			Priorities:    DefaultPriorities(),
			SummaryLength: 300,
		},
		Orchestrator: DefaultOrchestratorSettings(),
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
		Cache: CacheSettings{
			Backend:   CacheMemory,
			RedisAddr: "localhost:6379",
			KeyPrefix: "relevance:",
		},
		Events: EventSettings{
			Backend:       EventsMemory,
			NATSURL:       "nats://127.0.0.1:4222",
			Subject:       "relevance.changes",
			RatePerSecond: 50,
			Burst:         10,
		},
		Server: ServerSettings{
			Addr: ":8080",
		},
		Log: LogSettings{
			Format: "console",
		},
		Scheduler: DefaultSchedulerConfig(),
	}
}

// DefaultScoringWeights returns the keyword scoring constants.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		TitleExact:     10,
		TitleWord:      3,
		ContentExact:   5,
		ContentWord:    1,
		Keyword:        4,
		PriorityFactor: 0.1,
	}
}

// DefaultPriorities returns the per-type base priorities.
// Static service pages carry their own priorities.
func DefaultPriorities() map[ContentType]int {
	return map[ContentType]int{
		ContentTypeBlog:          8,
		ContentTypeVehicle:       9,
		ContentTypeService:       9,
		ContentTypeCarSale:       9,
		ContentTypeCarSalesForms: 10,
		ContentTypeTestimonial:   6,
		ContentTypeFAQ:           7,
		ContentTypeGallery:       4,
		ContentTypeCMS:           10,
		ContentTypePricing:       9,
		ContentTypePage:          5,
		ContentTypeContact:       5,
	}
}

// DefaultOrchestratorSettings returns the tiering thresholds and vocabularies.
func DefaultOrchestratorSettings() OrchestratorSettings {
	return OrchestratorSettings{
		SearchLimit:            5,
		SubstantialLength:      1000,
		SalesSubstantialLength: 500,
		ExcerptLength:          500,
		MessageEchoLength:      100,
		Topics: []TopicRule{
			{Section: SectionServices, Keywords: []string{
				"service", "what do you", "what can you", "offer", "provide", "available", "options",
			}},
			{Section: SectionWorking, Keywords: []string{
				"how do you", "how it works", "process", "procedure", "steps", "how to",
			}},
			{Section: SectionPricing, Keywords: []string{
				"price", "cost", "fee", "expensive", "cheap", "budget", "rate", "charge",
			}},
			{Section: SectionCompany, Keywords: []string{
				"about", "who are you", "company", "business", "organization", "established", "history",
			}},
			{Section: SectionContact, Keywords: []string{
				"contact", "phone", "email", "call", "reach", "location", "address", "office",
			}},
			{Section: SectionEmergency, Keywords: []string{
				"emergency", "accident", "breakdown", "urgent", "help", "stuck", "tow", "repair",
			}},
		},
		BookingKeywords: []string{
			"book", "hire", "rent", "reserve", "rental", "car hire", "vehicle",
		},
		BookingSection: SectionServices,
		SalesKeywords: []string{
			"buy", "sell", "purchase", "car sale", "selling", "buying", "wanna sell",
			"need a car to buy", "purchase form", "sell form", "request purchase",
			"submit sell", "car sales form", "how to buy", "how to sell",
		},
		SalesSection:    SectionServices,
		DefaultSection:  SectionIntro,
		FallbackContext: DefaultFallbackContext,
	}
}

// DefaultFallbackContext is the last-resort company description.
const DefaultFallbackContext = `**AAA Accident Solutions LTD** is a leading provider of premium car hire and vehicle rental services, specializing in **PCO/Taxi replacement vehicles** (for non-fault accidents), **accident claims management**, and **luxury car sales**.

**Location**: First Floor, Urban Building, 3-9 Albert St, Slough SL1 2BE, United Kingdom

**Our Key Services & How to Avail:**

**1. PCO / Taxi Replacement (Non-Fault)**
We provide like-for-like replacement vehicles for PCO drivers involved in non-fault accidents.
• **Benefit**: No upfront cost, same-day delivery, helps with loss of earnings.
• **How to Avail**: Contact us immediately -> We verify liability -> Vehicle is delivered to you -> We manage repairs.

**2. Accident Claim Management**
Full handling of your accident claim, from recovery to settlement.
• **Benefit**: "No Win No Fee" service, handled by dedicated agents.
• **How to Avail**: Call our 24/7 helpline -> Assign a handler -> We deal with insurers -> Settlement.

**3. Car Sales**
Buy premium ex-fleet or sourced vehicles (Mercedes, BMW, Audi, etc.).
• **How to Avail**: Browse our fleet online/ask here -> Request purchase info -> Consultation & Filing -> Purchase.

**Our Fleet:**
• **Mercedes-Benz**: E 300, E 200, C 200, S-Class, V-Class (MPV)
• **Audi**: A8 L 60 TFSI E Quattro
• **Land Rover / Range Rover**: Discovery SE SD4, Range Rover Sport Autobiography
• **Volkswagen**: Tiguan Life TSI
• **Kia**: Niro

**Contact Information:**
• **Main Office / Emergency (24/7)**: +44 345 565 1332
• **WhatsApp**: +44 79 4377 0119
• **Email**: info@aaa-as.co.uk
• **Office Hours**: Mon-Fri 9AM-6PM, Sat 10AM-4PM

We're committed to keeping you mobile and stress-free. How can I assist you with your car hire or claim needs today?`

// Setting sources, lowest precedence first.
const (
	SettingFromDefault  = "default"
	SettingFromFile     = "file"
	SettingFromEnv      = "env"
	SettingFromOverride = "override"
)

// SettingValue is one resolved configuration key.
type SettingValue struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Source string `json:"source"`
	EnvVar string `json:"env_var"`
}
