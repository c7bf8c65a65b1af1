package config

// Config represents the persistent character configuration stored as
// config.toml in the .character/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Agent       AgentConfig       `toml:"agent"`
	Capture     CaptureConfig     `toml:"capture"`
	Generation  GenerationConfig  `toml:"generation"`
	Emotion     EmotionConfig     `toml:"emotion"`
	Playback    PlaybackConfig    `toml:"playback"`
	Animation   AnimationConfig   `toml:"animation"`
	Memory      MemoryConfig      `toml:"memory"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Storage     StorageConfig     `toml:"storage"`
	EventStream EventStreamConfig `toml:"event_stream"`
	API         APIConfig         `toml:"api"`
	Client      ClientConfig      `toml:"client"`
}

// AgentConfig tunes the conversation loop.
type AgentConfig struct {
	Name             string   `toml:"name,omitempty"`
	SystemPrompt     string   `toml:"system_prompt,omitempty"`
	AutonomousPrompt string   `toml:"autonomous_prompt,omitempty"`
	Autonomous       bool     `toml:"autonomous"`
	InputTimeout     Duration `toml:"input_timeout,omitempty"`
	IdleSilence      Duration `toml:"idle_silence,omitempty"`
	SpeechPatience   Duration `toml:"speech_patience,omitempty"`
	MaxTokens        int      `toml:"max_tokens,omitempty"`
	Temperature      float64  `toml:"temperature,omitempty"`
	TopP             float64  `toml:"top_p,omitempty"`
}

// CaptureConfig selects where user input comes from ("console" or "api").
type CaptureConfig struct {
	Mode string `toml:"mode,omitempty"`
}

// GenerationConfig holds the text generation backend settings.
type GenerationConfig struct {
	Provider  string `toml:"provider,omitempty"`
	Target    string `toml:"target,omitempty"`
	Model     string `toml:"model,omitempty"`
	APIKey    string `toml:"api_key,omitempty"`
	KeepAlive string `toml:"keep_alive,omitempty"`
}

// EmotionConfig selects the emotion classifier. Lexicon adds cue words per
// label to the "lexicon" provider.
type EmotionConfig struct {
	Provider string              `toml:"provider,omitempty"`
	Lexicon  map[string][]string `toml:"lexicon,omitempty"`
}

// PlaybackConfig holds settings for speaking replies.
type PlaybackConfig struct {
	Engine    string   `toml:"engine,omitempty"`
	WordDelay Duration `toml:"word_delay,omitempty"`
	Plain     bool     `toml:"plain"`
}

// AnimationConfig holds avatar expression settings. Hotkeys overrides the
// hotkey name triggered for an emotion label.
type AnimationConfig struct {
	Enabled         bool              `toml:"enabled"`
	Driver          string            `toml:"driver,omitempty"`
	Target          string            `toml:"target,omitempty"`
	PluginName      string            `toml:"plugin_name,omitempty"`
	PluginDeveloper string            `toml:"plugin_developer,omitempty"`
	TokenPath       string            `toml:"token_path,omitempty"`
	Hotkeys         map[string]string `toml:"hotkeys,omitempty"`
}

// MemoryConfig holds the memory tiers' retrieval settings.
type MemoryConfig struct {
	ShortTTL       Duration `toml:"short_ttl,omitempty"`
	ShortThreshold float64  `toml:"short_threshold,omitempty"`

	LorePath      string  `toml:"lore_path,omitempty"`
	LoreThreshold float64 `toml:"lore_threshold,omitempty"`
	LoreTopK      int     `toml:"lore_top_k,omitempty"`

	FactPrimary      float64 `toml:"fact_primary,omitempty"`
	FactPrimaryTopK  int     `toml:"fact_primary_top_k,omitempty"`
	FactFallback     float64 `toml:"fact_fallback,omitempty"`
	FactFallbackTopK int     `toml:"fact_fallback_top_k,omitempty"`

	// Extraction enables background fact extraction.
	Extraction bool `toml:"extraction"`
}

// VectorStoreConfig holds vector store settings.
type VectorStoreConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Port       int    `toml:"port,omitempty"`
	Path       string `toml:"path,omitempty"`
	Collection string `toml:"collection,omitempty"`
	APIKey     string `toml:"api_key,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
	CacheBytes int64  `toml:"cache_bytes,omitempty"`
}

// StorageConfig holds the turn archive settings.
type StorageConfig struct {
	Provider    string `toml:"provider,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// EventStreamConfig holds settings for publishing completed turns.
type EventStreamConfig struct {
	Provider string   `toml:"provider,omitempty"`
	Brokers  []string `toml:"brokers,omitempty"`
	Topic    string   `toml:"topic,omitempty"`
	ClientID string   `toml:"client_id,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that talk to a running
// character (e.g. character say). Values are full URLs.
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}
