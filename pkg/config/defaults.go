package config

import (
	"time"
)

const (
	defaultName = "character"

	defaultInputTimeout   = 500 * time.Millisecond
	defaultIdleSilence    = 30 * time.Second
	defaultSpeechPatience = 2 * time.Second
	defaultMaxTokens      = 160
	defaultTemperature    = 0.7
	defaultTopP           = 0.9

	defaultCaptureMode = "console"

	defaultGenerationProvider = "ollama"
	defaultGenerationModel    = "llama3.2"
	defaultOllamaTarget       = "http://localhost:11434"
	defaultKeepAlive          = "30m"

	defaultEmotionProvider = "lexicon"

	defaultPlaybackEngine = "console"
	defaultWordDelay      = 0

	defaultAnimationDriver = "log"
	defaultVTSTarget       = "ws://localhost:8001"
	defaultPluginName      = "AI VTS Plugin"
	defaultPluginDeveloper = "Gorgooo61"

	defaultShortTTL       = 300 * time.Second
	defaultShortThreshold = 70
	defaultLoreThreshold  = 80
	defaultLoreTopK       = 1

	defaultFactPrimary      = 0.80
	defaultFactPrimaryTopK  = 5
	defaultFactFallback     = 0.50
	defaultFactFallbackTopK = 1

	defaultVectorProvider   = "sqlite"
	defaultVectorCollection = "character_facts"

	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768
	defaultEmbeddingCacheBytes = 16 << 20

	defaultStorageProvider = "sqlite"

	defaultEventStreamProvider = "none"
	defaultEventStreamTopic    = "character.turns"

	defaultAPIListen       = ":8081"
	defaultClientAPITarget = "http://localhost:8081"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// Paths are left empty and resolve inside the .character/ directory.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Agent: AgentConfig{
			Name:           defaultName,
			Autonomous:     true,
			InputTimeout:   D(defaultInputTimeout),
			IdleSilence:    D(defaultIdleSilence),
			SpeechPatience: D(defaultSpeechPatience),
			MaxTokens:      defaultMaxTokens,
			Temperature:    defaultTemperature,
			TopP:           defaultTopP,
		},
		Capture: CaptureConfig{
			Mode: defaultCaptureMode,
		},
		Generation: GenerationConfig{
			Provider:  defaultGenerationProvider,
			Target:    defaultOllamaTarget,
			Model:     defaultGenerationModel,
			KeepAlive: defaultKeepAlive,
		},
		Emotion: EmotionConfig{
			Provider: defaultEmotionProvider,
		},
		Playback: PlaybackConfig{
			Engine:    defaultPlaybackEngine,
			WordDelay: D(defaultWordDelay),
		},
		Animation: AnimationConfig{
			Enabled:         true,
			Driver:          defaultAnimationDriver,
			Target:          defaultVTSTarget,
			PluginName:      defaultPluginName,
			PluginDeveloper: defaultPluginDeveloper,
		},
		Memory: MemoryConfig{
			ShortTTL:         D(defaultShortTTL),
			ShortThreshold:   defaultShortThreshold,
			LoreThreshold:    defaultLoreThreshold,
			LoreTopK:         defaultLoreTopK,
			FactPrimary:      defaultFactPrimary,
			FactPrimaryTopK:  defaultFactPrimaryTopK,
			FactFallback:     defaultFactFallback,
			FactFallbackTopK: defaultFactFallbackTopK,
			Extraction:       true,
		},
		VectorStore: VectorStoreConfig{
			Provider:   defaultVectorProvider,
			Collection: defaultVectorCollection,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultGenerationProvider,
			Target:     defaultOllamaTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
			CacheBytes: defaultEmbeddingCacheBytes,
		},
		Storage: StorageConfig{
			Provider: defaultStorageProvider,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Topic:    defaultEventStreamTopic,
		},
		API: APIConfig{
			Enabled: true,
			Listen:  defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
	}
}
