package config

import (
	"fmt"
	"strconv"
	"strings"
)

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

type configKey struct {
	name string
	info configKeyInfo
}

// keyRegistry lists every supported config key in TOML section order.
// Keys use dotted notation matching the TOML section structure.
var keyRegistry = []configKey{
	{"agent.name", stringKey(func(c *Config) *string { return &c.Agent.Name })},
	{"agent.system_prompt", stringKey(func(c *Config) *string { return &c.Agent.SystemPrompt })},
	{"agent.autonomous_prompt", stringKey(func(c *Config) *string { return &c.Agent.AutonomousPrompt })},
	{"agent.autonomous", boolKey("agent.autonomous", func(c *Config) *bool { return &c.Agent.Autonomous })},
	{"agent.input_timeout", durationKey("agent.input_timeout", func(c *Config) *Duration { return &c.Agent.InputTimeout })},
	{"agent.idle_silence", durationKey("agent.idle_silence", func(c *Config) *Duration { return &c.Agent.IdleSilence })},
	{"agent.speech_patience", durationKey("agent.speech_patience", func(c *Config) *Duration { return &c.Agent.SpeechPatience })},
	{"agent.max_tokens", intKey("agent.max_tokens", func(c *Config) *int { return &c.Agent.MaxTokens })},
	{"agent.temperature", floatKey("agent.temperature", func(c *Config) *float64 { return &c.Agent.Temperature })},
	{"agent.top_p", floatKey("agent.top_p", func(c *Config) *float64 { return &c.Agent.TopP })},

	{"capture.mode", stringKey(func(c *Config) *string { return &c.Capture.Mode })},

	{"generation.provider", stringKey(func(c *Config) *string { return &c.Generation.Provider })},
	{"generation.target", stringKey(func(c *Config) *string { return &c.Generation.Target })},
	{"generation.model", stringKey(func(c *Config) *string { return &c.Generation.Model })},
	{"generation.api_key", stringKey(func(c *Config) *string { return &c.Generation.APIKey })},
	{"generation.keep_alive", stringKey(func(c *Config) *string { return &c.Generation.KeepAlive })},

	{"emotion.provider", stringKey(func(c *Config) *string { return &c.Emotion.Provider })},

	{"playback.engine", stringKey(func(c *Config) *string { return &c.Playback.Engine })},
	{"playback.word_delay", durationKey("playback.word_delay", func(c *Config) *Duration { return &c.Playback.WordDelay })},
	{"playback.plain", boolKey("playback.plain", func(c *Config) *bool { return &c.Playback.Plain })},

	{"animation.enabled", boolKey("animation.enabled", func(c *Config) *bool { return &c.Animation.Enabled })},
	{"animation.driver", stringKey(func(c *Config) *string { return &c.Animation.Driver })},
	{"animation.target", stringKey(func(c *Config) *string { return &c.Animation.Target })},
	{"animation.plugin_name", stringKey(func(c *Config) *string { return &c.Animation.PluginName })},
	{"animation.plugin_developer", stringKey(func(c *Config) *string { return &c.Animation.PluginDeveloper })},
	{"animation.token_path", stringKey(func(c *Config) *string { return &c.Animation.TokenPath })},

	{"memory.short_ttl", durationKey("memory.short_ttl", func(c *Config) *Duration { return &c.Memory.ShortTTL })},
	{"memory.short_threshold", floatKey("memory.short_threshold", func(c *Config) *float64 { return &c.Memory.ShortThreshold })},
	{"memory.lore_path", stringKey(func(c *Config) *string { return &c.Memory.LorePath })},
	{"memory.lore_threshold", floatKey("memory.lore_threshold", func(c *Config) *float64 { return &c.Memory.LoreThreshold })},
	{"memory.lore_top_k", intKey("memory.lore_top_k", func(c *Config) *int { return &c.Memory.LoreTopK })},
	{"memory.fact_primary", floatKey("memory.fact_primary", func(c *Config) *float64 { return &c.Memory.FactPrimary })},
	{"memory.fact_primary_top_k", intKey("memory.fact_primary_top_k", func(c *Config) *int { return &c.Memory.FactPrimaryTopK })},
	{"memory.fact_fallback", floatKey("memory.fact_fallback", func(c *Config) *float64 { return &c.Memory.FactFallback })},
	{"memory.fact_fallback_top_k", intKey("memory.fact_fallback_top_k", func(c *Config) *int { return &c.Memory.FactFallbackTopK })},
	{"memory.extraction", boolKey("memory.extraction", func(c *Config) *bool { return &c.Memory.Extraction })},

	{"vector_store.provider", stringKey(func(c *Config) *string { return &c.VectorStore.Provider })},
	{"vector_store.target", stringKey(func(c *Config) *string { return &c.VectorStore.Target })},
	{"vector_store.port", intKey("vector_store.port", func(c *Config) *int { return &c.VectorStore.Port })},
	{"vector_store.path", stringKey(func(c *Config) *string { return &c.VectorStore.Path })},
	{"vector_store.collection", stringKey(func(c *Config) *string { return &c.VectorStore.Collection })},
	{"vector_store.api_key", stringKey(func(c *Config) *string { return &c.VectorStore.APIKey })},

	{"embedding.provider", stringKey(func(c *Config) *string { return &c.Embedding.Provider })},
	{"embedding.target", stringKey(func(c *Config) *string { return &c.Embedding.Target })},
	{"embedding.model", stringKey(func(c *Config) *string { return &c.Embedding.Model })},
	{"embedding.dimensions", configKeyInfo{
		get: func(c *Config) string {
			if c.Embedding.Dimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Embedding.Dimensions), 10)
		},
		set: func(c *Config, v string) error {
			if v == "" {
				c.Embedding.Dimensions = 0
				return nil
			}
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.dimensions: %w", err)
			}
			c.Embedding.Dimensions = uint(n)
			return nil
		},
	}},
	{"embedding.cache_bytes", configKeyInfo{
		get: func(c *Config) string { return strconv.FormatInt(c.Embedding.CacheBytes, 10) },
		set: func(c *Config, v string) error {
			if v == "" {
				c.Embedding.CacheBytes = 0
				return nil
			}
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.cache_bytes: %w", err)
			}
			c.Embedding.CacheBytes = n
			return nil
		},
	}},

	{"storage.provider", stringKey(func(c *Config) *string { return &c.Storage.Provider })},
	{"storage.sqlite_path", stringKey(func(c *Config) *string { return &c.Storage.SQLitePath })},
	{"storage.postgres_dsn", stringKey(func(c *Config) *string { return &c.Storage.PostgresDSN })},

	{"event_stream.provider", stringKey(func(c *Config) *string { return &c.EventStream.Provider })},
	{"event_stream.brokers", listKey(func(c *Config) *[]string { return &c.EventStream.Brokers })},
	{"event_stream.topic", stringKey(func(c *Config) *string { return &c.EventStream.Topic })},
	{"event_stream.client_id", stringKey(func(c *Config) *string { return &c.EventStream.ClientID })},

	{"api.enabled", boolKey("api.enabled", func(c *Config) *bool { return &c.API.Enabled })},
	{"api.listen", stringKey(func(c *Config) *string { return &c.API.Listen })},

	{"client.api_target", stringKey(func(c *Config) *string { return &c.Client.APITarget })},
}

// configKeys is the authoritative map of all supported config keys.
var configKeys = indexKeys(keyRegistry)

func indexKeys(reg []configKey) map[string]configKeyInfo {
	m := make(map[string]configKeyInfo, len(reg))
	for _, k := range reg {
		m[k.name] = k.info
	}
	return m
}

func stringKey(field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func boolKey(name string, field func(c *Config) *bool) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = b
			return nil
		},
	}
}

func intKey(name string, field func(c *Config) *int) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			if v == "" {
				*field(c) = 0
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = n
			return nil
		},
	}
}

func floatKey(name string, field func(c *Config) *float64) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return strconv.FormatFloat(*field(c), 'g', -1, 64) },
		set: func(c *Config, v string) error {
			if v == "" {
				*field(c) = 0
				return nil
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = f
			return nil
		},
	}
}

func durationKey(name string, field func(c *Config) *Duration) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return field(c).String() },
		set: func(c *Config, v string) error {
			if err := field(c).UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			return nil
		},
	}
}

// listKey reads and writes a comma separated list.
func listKey(field func(c *Config) *[]string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return strings.Join(*field(c), ",") },
		set: func(c *Config, v string) error {
			var out []string
			for item := range strings.SplitSeq(v, ",") {
				if item = strings.TrimSpace(item); item != "" {
					out = append(out, item)
				}
			}
			*field(c) = out
			return nil
		},
	}
}
