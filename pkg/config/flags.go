package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --model
// on both "character run" and "character context").
type Flag struct {
	// Name is the long flag name (e.g. "model").
	Name string

	// Shorthand is the one-letter short flag (e.g. "m"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "generation.model").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddBoolFlag, AddUintFlag
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagName            = "name"
	FlagCaptureMode     = "capture"
	FlagAutonomous      = "autonomous"
	FlagGenProvider     = "provider"
	FlagGenTarget       = "generation-target"
	FlagGenModel        = "model"
	FlagEmotionProvider = "emotion"
	FlagPlaybackEngine  = "playback"
	FlagAvatar          = "avatar"
	FlagAnimationDriver = "animation-driver"
	FlagAnimationTarget = "animation-target"
	FlagLorePath        = "lore"
	FlagVectorStoreProv = "vector-store-provider"
	FlagVectorStoreTgt  = "vector-store-target"
	FlagEmbeddingProv   = "embedding-provider"
	FlagEmbeddingTgt    = "embedding-target"
	FlagEmbeddingModel  = "embedding-model"
	FlagEmbeddingDims   = "embedding-dimensions"
	FlagStorage         = "storage"
	FlagSQLite          = "sqlite"
	FlagPostgres        = "postgres-dsn"
	FlagEventStream     = "event-stream"
	FlagKafkaBrokers    = "kafka-brokers"
	FlagAPIEnabled      = "api"
	FlagAPIListen       = "api-listen"
	FlagAPITarget       = "api-target"
)

// Flags is the shared flag registry used by the character commands.
var Flags = FlagSet{
	FlagName:            {Name: "name", Shorthand: "n", ViperKey: "agent.name", Description: "Character name shown when speaking"},
	FlagCaptureMode:     {Name: "capture", Shorthand: "c", ViperKey: "capture.mode", Description: "Input source (console, api)"},
	FlagAutonomous:      {Name: "autonomous", ViperKey: "agent.autonomous", Description: "Speak unprompted after a period of silence"},
	FlagGenProvider:     {Name: "provider", Shorthand: "p", ViperKey: "generation.provider", Description: "Generation provider (ollama, anthropic)"},
	FlagGenTarget:       {Name: "generation-target", ViperKey: "generation.target", Description: "Generation provider URL"},
	FlagGenModel:        {Name: "model", Shorthand: "m", ViperKey: "generation.model", Description: "Generation model"},
	FlagEmotionProvider: {Name: "emotion", ViperKey: "emotion.provider", Description: "Emotion classifier (lexicon, llm)"},
	FlagPlaybackEngine:  {Name: "playback", ViperKey: "playback.engine", Description: "Playback engine (console, none)"},
	FlagAvatar:          {Name: "avatar", ViperKey: "animation.enabled", Description: "Trigger avatar expressions"},
	FlagAnimationDriver: {Name: "animation-driver", ViperKey: "animation.driver", Description: "Avatar driver (log, vtubestudio)"},
	FlagAnimationTarget: {Name: "animation-target", ViperKey: "animation.target", Description: "VTube Studio websocket URL"},
	FlagLorePath:        {Name: "lore", Shorthand: "l", ViperKey: "memory.lore_path", Description: "Path to the lore JSON file"},
	FlagVectorStoreProv: {Name: "vector-store-provider", ViperKey: "vector_store.provider", Description: "Vector store provider (chromem, sqlite, chroma, qdrant)"},
	FlagVectorStoreTgt:  {Name: "vector-store-target", ViperKey: "vector_store.target", Description: "Vector store URL or host"},
	FlagEmbeddingProv:   {Name: "embedding-provider", ViperKey: "embedding.provider", Description: "Embedding provider (ollama)"},
	FlagEmbeddingTgt:    {Name: "embedding-target", ViperKey: "embedding.target", Description: "Embedding provider URL"},
	FlagEmbeddingModel:  {Name: "embedding-model", ViperKey: "embedding.model", Description: "Embedding model"},
	FlagEmbeddingDims:   {Name: "embedding-dimensions", ViperKey: "embedding.dimensions", Description: "Embedding dimensionality"},
	FlagStorage:         {Name: "storage", ViperKey: "storage.provider", Description: "Turn archive provider (inmemory, sqlite, postgres)"},
	FlagSQLite:          {Name: "sqlite", Shorthand: "s", ViperKey: "storage.sqlite_path", Description: "Path to the SQLite turn archive"},
	FlagPostgres:        {Name: "postgres-dsn", ViperKey: "storage.postgres_dsn", Description: "PostgreSQL connection string"},
	FlagEventStream:     {Name: "event-stream", ViperKey: "event_stream.provider", Description: "Turn event publisher (none, kafka)"},
	FlagKafkaBrokers:    {Name: "kafka-brokers", ViperKey: "event_stream.brokers", Description: "Comma separated Kafka brokers"},
	FlagAPIEnabled:      {Name: "api", ViperKey: "api.enabled", Description: "Serve the control API"},
	FlagAPIListen:       {Name: "api-listen", Shorthand: "a", ViperKey: "api.listen", Description: "Address for the API server to listen on"},
	FlagAPITarget:       {Name: "api-target", ViperKey: "client.api_target", Description: "Running character API URL"},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddBoolFlag registers a bool flag on cmd from the given FlagSet.
func AddBoolFlag(cmd *cobra.Command, fs FlagSet, key string, target *bool) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultBool(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().BoolVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().BoolVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *uint) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultUint(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().UintVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

func defaultsViper() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	return defaultsViper().GetString(viperKey)
}

// defaultBool returns the default bool value for a viper key from NewDefaultConfig.
func defaultBool(viperKey string) bool {
	return defaultsViper().GetBool(viperKey)
}

// defaultUint returns the default uint value for a viper key from NewDefaultConfig.
func defaultUint(viperKey string) uint {
	return defaultsViper().GetUint(viperKey)
}
